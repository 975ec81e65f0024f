// file: internals/features/donations/payments/model/payment_model.go
package model

/* ================================
   ENUM mirror (harus cocok dgn isi tabel)
================================ */

type PaymentStatus string
type PaymentMethod string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusScheduled PaymentStatus = "scheduled"
	PaymentStatusPaid      PaymentStatus = "paid"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

const (
	PaymentMethodCard            PaymentMethod = "card"
	PaymentMethodCash            PaymentMethod = "cash"
	PaymentMethodDirectToCharity PaymentMethod = "direct_to_charity"
)

/* ================================
   MODEL: payments
   Partisi per donation. donation/contribution amount negatif =
   refund/koreksi, bukan tipe entitas terpisah.
================================ */

type Payment struct {
	PaymentDonationID string `dynamodbav:"payment_donation_id" json:"payment_donation_id" validate:"required,uuid4"`
	PaymentID         string `dynamodbav:"payment_id"          json:"payment_id"          validate:"required,uuid4"`

	// Denormalisasi untuk cek akses tanpa lookup donation
	PaymentFundraiserID string `dynamodbav:"payment_fundraiser_id" json:"payment_fundraiser_id" validate:"required,uuid4"`

	// Jadwal / waktu terjadi (unix detik, UTC)
	PaymentAt int64 `dynamodbav:"payment_at" json:"payment_at" validate:"required"`

	// Nominal yang DIMINTA (minor unit); realized masuk ke running total
	// donation saat transisi ke paid
	PaymentDonationAmount     int `dynamodbav:"payment_donation_amount"     json:"payment_donation_amount"`
	PaymentContributionAmount int `dynamodbav:"payment_contribution_amount" json:"payment_contribution_amount"`

	// nil = match funding belum dialokasikan
	PaymentMatchFundingAmount *int `dynamodbav:"payment_match_funding_amount" json:"payment_match_funding_amount"`

	PaymentMethod PaymentMethod `dynamodbav:"payment_method" json:"payment_method" validate:"required,oneof=card cash direct_to_charity"`

	// Untuk card: id payment-intent processor, hanya diisi sistem.
	// Untuk cash/direct_to_charity: teks bebas.
	PaymentReference *string `dynamodbav:"payment_reference" json:"payment_reference"`

	PaymentStatus PaymentStatus `dynamodbav:"payment_status" json:"payment_status" validate:"required,oneof=pending scheduled paid cancelled"`
}

const (
	ColPaymentDonationID         = "payment_donation_id"
	ColPaymentID                 = "payment_id"
	ColPaymentFundraiserID       = "payment_fundraiser_id"
	ColPaymentAt                 = "payment_at"
	ColPaymentDonationAmount     = "payment_donation_amount"
	ColPaymentContributionAmount = "payment_contribution_amount"
	ColPaymentMatchFundingAmount = "payment_match_funding_amount"
	ColPaymentMethod             = "payment_method"
	ColPaymentReference          = "payment_reference"
	ColPaymentStatus             = "payment_status"
)
