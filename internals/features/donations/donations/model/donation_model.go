// file: internals/features/donations/donations/model/donation_model.go
package model

/* ================================
   MODEL: donations
   Partisi per fundraiser. donation_amount / contribution_amount /
   match_funding_amount adalah running total dari payment yang REALIZED
   (status paid) saja, bukan nominal yang diminta, dan hanya boleh
   digeser oleh transisi status payment, tidak pernah dari input user.
================================ */

type RecurrenceFrequency string

const (
	RecurrenceWeekly  RecurrenceFrequency = "WEEKLY"
	RecurrenceMonthly RecurrenceFrequency = "MONTHLY"
)

type Donation struct {
	DonationFundraiserID string `dynamodbav:"donation_fundraiser_id" json:"donation_fundraiser_id" validate:"required,uuid4"`
	DonationID           string `dynamodbav:"donation_id"            json:"donation_id"            validate:"required,uuid4"`

	// Identitas & consent donor
	DonationDonorName               string `dynamodbav:"donation_donor_name"  json:"donation_donor_name"  validate:"required"`
	DonationDonorEmail              string `dynamodbav:"donation_donor_email" json:"donation_donor_email" validate:"required,email"`
	DonationEmailConsentInformation bool   `dynamodbav:"donation_email_consent_information" json:"donation_email_consent_information"`
	DonationEmailConsentMarketing   bool   `dynamodbav:"donation_email_consent_marketing"   json:"donation_email_consent_marketing"`

	// Alamat (wajib terisi untuk gift aid)
	DonationAddressLine1    *string `dynamodbav:"donation_address_line_1"  json:"donation_address_line_1"`
	DonationAddressLine2    *string `dynamodbav:"donation_address_line_2"  json:"donation_address_line_2"`
	DonationAddressPostcode *string `dynamodbav:"donation_address_postcode" json:"donation_address_postcode"`
	DonationAddressCountry  *string `dynamodbav:"donation_address_country"  json:"donation_address_country"`

	DonationGiftAid bool    `dynamodbav:"donation_gift_aid" json:"donation_gift_aid"`
	DonationComment *string `dynamodbav:"donation_comment"  json:"donation_comment"`

	// Running total realized (minor unit)
	DonationAmount             int `dynamodbav:"donation_amount"              json:"donation_amount"              validate:"gte=0"`
	DonationContributionAmount int `dynamodbav:"donation_contribution_amount" json:"donation_contribution_amount" validate:"gte=0"`
	DonationMatchFundingAmount int `dynamodbav:"donation_match_funding_amount" json:"donation_match_funding_amount" validate:"gte=0"`

	// true iff donasi ini sedang punya realized donation+contribution != 0;
	// gate untuk fundraiser_donations_count.
	DonationCounted bool `dynamodbav:"donation_counted" json:"donation_counted"`

	// Jadwal asal (immutable sesudah create)
	DonationRecurringAmount     *int                 `dynamodbav:"donation_recurring_amount"     json:"donation_recurring_amount"     validate:"omitempty,gte=0"`
	DonationRecurrenceFrequency *RecurrenceFrequency `dynamodbav:"donation_recurrence_frequency" json:"donation_recurrence_frequency" validate:"omitempty,oneof=WEEKLY MONTHLY"`

	// Kredensial recurring billing di processor; diisi tepat sekali saat
	// konfirmasi pertama (CAS: dua-duanya harus masih NULL)
	DonationStripeCustomerID      *string `dynamodbav:"donation_stripe_customer_id"       json:"donation_stripe_customer_id"`
	DonationStripePaymentMethodID *string `dynamodbav:"donation_stripe_payment_method_id" json:"donation_stripe_payment_method_id"`

	// Visibilitas publik
	DonationOverallPublic bool `dynamodbav:"donation_overall_public" json:"donation_overall_public"`
	DonationNamePublic    bool `dynamodbav:"donation_name_public"    json:"donation_name_public"`
	DonationAmountPublic  bool `dynamodbav:"donation_amount_public"  json:"donation_amount_public"`

	DonationCreatedAt int64 `dynamodbav:"donation_created_at" json:"donation_created_at"`
}

const (
	ColDonationFundraiserID          = "donation_fundraiser_id"
	ColDonationID                    = "donation_id"
	ColDonationAmount                = "donation_amount"
	ColDonationContributionAmount    = "donation_contribution_amount"
	ColDonationMatchFundingAmount    = "donation_match_funding_amount"
	ColDonationCounted               = "donation_counted"
	ColDonationGiftAid               = "donation_gift_aid"
	ColDonationStripeCustomerID      = "donation_stripe_customer_id"
	ColDonationStripePaymentMethodID = "donation_stripe_payment_method_id"
)
