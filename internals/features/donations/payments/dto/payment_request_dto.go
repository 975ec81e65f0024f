// file: internals/features/donations/payments/dto/payment_request_dto.go
package dto

/* ================================
   DTO: payment (admin)
================================ */

// CreateManualPaymentRequest mencatat uang yang terjadi di luar processor
// (tunai / langsung ke lembaga). Nominal boleh negatif untuk refund atau
// koreksi; langsung berstatus paid karena uangnya memang sudah berpindah.
type CreateManualPaymentRequest struct {
	PaymentAt          *int64  `json:"payment_at"`
	DonationAmount     int     `json:"payment_donation_amount"`
	ContributionAmount int     `json:"payment_contribution_amount"`
	Method             string  `json:"payment_method" validate:"required,oneof=cash direct_to_charity"`
	Reference          *string `json:"payment_reference" validate:"omitempty,max=200"`

	// Diisi admin hanya saat membalikkan alokasi match funding payment lain
	// (refund); kosong = dihitung allocator.
	MatchFundingAmount *int `json:"payment_match_funding_amount"`
}
