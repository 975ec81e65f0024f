// file: internals/features/donations/fundraisers/model/fundraiser_model.go
package model

/* ================================
   MODEL: fundraisers
   Agregat denormalisasi: total_raised & donations_count hanya boleh
   berubah lewat atomic increment yang terikat transisi status payment.
================================ */

type Fundraiser struct {
	FundraiserID string `dynamodbav:"fundraiser_id" json:"fundraiser_id" validate:"required,uuid4"`

	FundraiserName     string `dynamodbav:"fundraiser_name"     json:"fundraiser_name"     validate:"required"`
	FundraiserCurrency string `dynamodbav:"fundraiser_currency" json:"fundraiser_currency" validate:"required,oneof=gbp usd eur"`

	// Nominal dalam minor unit (pence/cent)
	FundraiserGoal           int `dynamodbav:"fundraiser_goal"            json:"fundraiser_goal"            validate:"gte=0"`
	FundraiserTotalRaised    int `dynamodbav:"fundraiser_total_raised"    json:"fundraiser_total_raised"    validate:"gte=0"`
	FundraiserDonationsCount int `dynamodbav:"fundraiser_donations_count" json:"fundraiser_donations_count" validate:"gte=0"`

	// Match funding: rate dalam persen (100 = 1:1), remaining nil = pool
	// tak terbatas, per-donation limit nil = tanpa cap.
	FundraiserMatchFundingRate             int  `dynamodbav:"fundraiser_match_funding_rate"               json:"fundraiser_match_funding_rate"               validate:"gte=0"`
	FundraiserMatchFundingRemaining        *int `dynamodbav:"fundraiser_match_funding_remaining"          json:"fundraiser_match_funding_remaining"          validate:"omitempty,gte=0"`
	FundraiserMatchFundingPerDonationLimit *int `dynamodbav:"fundraiser_match_funding_per_donation_limit" json:"fundraiser_match_funding_per_donation_limit" validate:"omitempty,gte=0"`

	// Minimum total donasi (seluruh recurrence) yang dikonfigurasi admin
	FundraiserMinimumDonationAmount *int `dynamodbav:"fundraiser_minimum_donation_amount" json:"fundraiser_minimum_donation_amount" validate:"omitempty,gte=0"`

	FundraiserPaused     bool  `dynamodbav:"fundraiser_paused"      json:"fundraiser_paused"`
	FundraiserArchived   bool  `dynamodbav:"fundraiser_archived"    json:"fundraiser_archived"`
	FundraiserActiveFrom int64 `dynamodbav:"fundraiser_active_from" json:"fundraiser_active_from"`
	// Akhir periode fundraiser; cutoff ekspansi installment recurring
	FundraiserActiveTo int64 `dynamodbav:"fundraiser_active_to" json:"fundraiser_active_to"`

	// Scope otorisasi; dimiliki kolaborator access-control
	FundraiserGroupsWithAccess []string `dynamodbav:"fundraiser_groups_with_access" json:"fundraiser_groups_with_access"`

	FundraiserCreatedAt int64 `dynamodbav:"fundraiser_created_at" json:"fundraiser_created_at"`
}

// Nama attribute yang dipakai kondisi CAS / increment di layer service.
const (
	ColFundraiserID                           = "fundraiser_id"
	ColFundraiserTotalRaised                  = "fundraiser_total_raised"
	ColFundraiserDonationsCount               = "fundraiser_donations_count"
	ColFundraiserMatchFundingRate             = "fundraiser_match_funding_rate"
	ColFundraiserMatchFundingRemaining        = "fundraiser_match_funding_remaining"
	ColFundraiserMatchFundingPerDonationLimit = "fundraiser_match_funding_per_donation_limit"
)
