// file: internals/features/donations/fundraisers/dto/fundraiser_request_dto.go
package dto

import "galangdana_backend/internals/features/donations/fundraisers/model"

/* ================================
   DTO: fundraiser
================================ */

type CreateFundraiserRequest struct {
	Name     string `json:"fundraiser_name" validate:"required,max=150"`
	Currency string `json:"fundraiser_currency" validate:"required,oneof=gbp usd eur"`
	Goal     int    `json:"fundraiser_goal" validate:"gte=0"`

	MatchFundingRate             int  `json:"fundraiser_match_funding_rate" validate:"gte=0"`
	MatchFundingRemaining        *int `json:"fundraiser_match_funding_remaining" validate:"omitempty,gte=0"`
	MatchFundingPerDonationLimit *int `json:"fundraiser_match_funding_per_donation_limit" validate:"omitempty,gte=0"`
	MinimumDonationAmount        *int `json:"fundraiser_minimum_donation_amount" validate:"omitempty,gte=0"`

	ActiveFrom int64 `json:"fundraiser_active_from" validate:"required"`
	ActiveTo   int64 `json:"fundraiser_active_to" validate:"required,gtfield=ActiveFrom"`

	GroupsWithAccess []string `json:"fundraiser_groups_with_access"`
}

// PublicFundraiserResponse adalah potongan fundraiser yang aman dilihat
// donor: tanpa konfigurasi match funding dan tanpa daftar grup akses.
type PublicFundraiserResponse struct {
	FundraiserID     string `json:"fundraiser_id"`
	Name             string `json:"fundraiser_name"`
	Currency         string `json:"fundraiser_currency"`
	Goal             int    `json:"fundraiser_goal"`
	TotalRaised      int    `json:"fundraiser_total_raised"`
	DonationsCount   int    `json:"fundraiser_donations_count"`
	Paused           bool   `json:"fundraiser_paused"`
	ActiveFrom       int64  `json:"fundraiser_active_from"`
	ActiveTo         int64  `json:"fundraiser_active_to"`
	MinimumDonation  *int   `json:"fundraiser_minimum_donation_amount"`
	MatchFundingLive bool   `json:"fundraiser_match_funding_live"`
}

// ToPublicFundraiserResponse memetakan model ke potongan publiknya.
func ToPublicFundraiserResponse(f *model.Fundraiser) PublicFundraiserResponse {
	matchLive := f.FundraiserMatchFundingRate > 0 &&
		(f.FundraiserMatchFundingRemaining == nil || *f.FundraiserMatchFundingRemaining > 0)
	return PublicFundraiserResponse{
		FundraiserID:     f.FundraiserID,
		Name:             f.FundraiserName,
		Currency:         f.FundraiserCurrency,
		Goal:             f.FundraiserGoal,
		TotalRaised:      f.FundraiserTotalRaised,
		DonationsCount:   f.FundraiserDonationsCount,
		Paused:           f.FundraiserPaused,
		ActiveFrom:       f.FundraiserActiveFrom,
		ActiveTo:         f.FundraiserActiveTo,
		MinimumDonation:  f.FundraiserMinimumDonationAmount,
		MatchFundingLive: matchLive,
	}
}
