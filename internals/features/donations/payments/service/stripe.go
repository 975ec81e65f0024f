// file: internals/features/donations/payments/service/stripe.go
package service

import (
	"errors"

	stripe "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/webhook"

	"galangdana_backend/internals/features/donations/payments/model"
)

/* =========================================================
   Stripe Client
========================================================= */

// Gateway adalah boundary ke payment processor. Core hanya butuh dua
// operasi: buat payment intent, dan charge kredensial tersimpan
// (off-session). SDK-nya sendiri black box; test memakai fake.
type Gateway interface {
	CreatePaymentIntent(p model.Payment, currency string, recurring bool) (id string, clientSecret string, err error)
	ChargeStoredCredentials(p model.Payment, currency, customerID, paymentMethodID string) (id string, err error)
}

// Client di-swap oleh test; produksi memakai StripeGateway.
var Client Gateway = &StripeGateway{}

var webhookSecret string

// InitStripe harus dipanggil saat bootstrap app.
func InitStripe(secretKey, whSecret string) {
	stripe.Key = secretKey
	webhookSecret = whSecret
}

type StripeGateway struct{}

// CreatePaymentIntent membuat intent untuk payment "sekarang".
// Idempotency key = payment id, jadi retry dari client tidak membuat
// intent ganda.
func (g *StripeGateway) CreatePaymentIntent(p model.Payment, currency string, recurring bool) (string, string, error) {
	if p.PaymentDonationAmount+p.PaymentContributionAmount <= 0 {
		return "", "", errors.New("nominal intent harus positif")
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(p.PaymentDonationAmount + p.PaymentContributionAmount)),
		Currency: stripe.String(currency),
	}
	params.IdempotencyKey = stripe.String(p.PaymentID)
	params.AddMetadata("fundraiser_id", p.PaymentFundraiserID)
	params.AddMetadata("donation_id", p.PaymentDonationID)
	params.AddMetadata("payment_id", p.PaymentID)
	if recurring {
		// simpan kredensial utk ditagih collector di installment berikutnya
		params.SetupFutureUsage = stripe.String(string(stripe.PaymentIntentSetupFutureUsageOffSession))
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		return "", "", err
	}
	return pi.ID, pi.ClientSecret, nil
}

// ChargeStoredCredentials menagih installment terjadwal memakai
// customer + payment method yang diregistrasi saat konfirmasi pertama.
func (g *StripeGateway) ChargeStoredCredentials(p model.Payment, currency, customerID, paymentMethodID string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(int64(p.PaymentDonationAmount + p.PaymentContributionAmount)),
		Currency:      stripe.String(currency),
		Customer:      stripe.String(customerID),
		PaymentMethod: stripe.String(paymentMethodID),
		Confirm:       stripe.Bool(true),
		OffSession:    stripe.Bool(true),
	}
	params.IdempotencyKey = stripe.String(p.PaymentID)
	params.AddMetadata("fundraiser_id", p.PaymentFundraiserID)
	params.AddMetadata("donation_id", p.PaymentDonationID)
	params.AddMetadata("payment_id", p.PaymentID)

	pi, err := paymentintent.New(params)
	if err != nil {
		return "", err
	}
	return pi.ID, nil
}

// ParseWebhookEvent memverifikasi header Stripe-Signature sebelum payload
// boleh dipercaya. Gagal verifikasi = Unauthorized di controller.
func ParseWebhookEvent(payload []byte, signature string) (stripe.Event, error) {
	return webhook.ConstructEvent(payload, signature, webhookSecret)
}
