// file: internals/features/donations/donations/dto/donation_request_dto.go
package dto

/* ================================
   DTO: request publik buat donasi
================================ */

type CreateDonationRequest struct {
	DonorName  string `json:"donor_name" validate:"required,max=100"`
	DonorEmail string `json:"donor_email" validate:"required,email"`

	EmailConsentInformation bool `json:"email_consent_information"`
	EmailConsentMarketing   bool `json:"email_consent_marketing"`

	AddressLine1    *string `json:"address_line_1" validate:"omitempty,max=200"`
	AddressLine2    *string `json:"address_line_2" validate:"omitempty,max=200"`
	AddressPostcode *string `json:"address_postcode" validate:"omitempty,max=20"`
	AddressCountry  *string `json:"address_country" validate:"omitempty,max=60"`

	GiftAid bool    `json:"gift_aid"`
	Comment *string `json:"comment" validate:"omitempty,max=400"`

	// Minor unit. DonationAmount = nominal per installment utk recurring.
	DonationAmount     int `json:"donation_amount" validate:"required,gt=0"`
	ContributionAmount int `json:"contribution_amount" validate:"gte=0"`

	RecurrenceFrequency *string `json:"recurrence_frequency" validate:"omitempty,oneof=WEEKLY MONTHLY"`

	OverallPublic bool `json:"overall_public"`
	NamePublic    bool `json:"name_public"`
	AmountPublic  bool `json:"amount_public"`
}

// Response: id entitas baru + client secret intent utk menyelesaikan
// pembayaran di frontend.
type CreateDonationResponse struct {
	DonationID         string `json:"donation_id"`
	PaymentID          string `json:"payment_id"`
	FuturePaymentCount int    `json:"future_payment_count"`
	TotalDonated       int    `json:"total_donated"`
	StripeClientSecret string `json:"stripe_client_secret"`
}
