// file: internals/features/donations/payments/service/webhook_test.go
package service_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"

	database "galangdana_backend/internals/databases"
	donationDTO "galangdana_backend/internals/features/donations/donations/dto"
	donationService "galangdana_backend/internals/features/donations/donations/service"
	fundraiserModel "galangdana_backend/internals/features/donations/fundraisers/model"
	paymentDTO "galangdana_backend/internals/features/donations/payments/dto"
	paymentModel "galangdana_backend/internals/features/donations/payments/model"
	"galangdana_backend/internals/features/donations/payments/service"
	"galangdana_backend/internals/store"
)

/* ================= Test rig ================= */

type fakeGateway struct {
	mu      sync.Mutex
	intents int
	charged []string
}

func (g *fakeGateway) CreatePaymentIntent(p paymentModel.Payment, currency string, recurring bool) (string, string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.intents++
	return fmt.Sprintf("pi_%d", g.intents), fmt.Sprintf("secret_%d", g.intents), nil
}

func (g *fakeGateway) ChargeStoredCredentials(p paymentModel.Payment, currency, customerID, paymentMethodID string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.intents++
	g.charged = append(g.charged, p.PaymentID)
	return fmt.Sprintf("pi_%d", g.intents), nil
}

func setupLedger(t *testing.T) context.Context {
	t.Helper()
	require.NoError(t, database.Init(store.NewMemConn()))

	prev := service.Client
	service.Client = &fakeGateway{}
	t.Cleanup(func() { service.Client = prev })

	return store.WithAuditContext(context.Background(), store.AuditContext{Subject: "test"})
}

func newFundraiser(t *testing.T, ctx context.Context, now time.Time, mutate func(*fundraiserModel.Fundraiser)) *fundraiserModel.Fundraiser {
	t.Helper()
	f := fundraiserModel.Fundraiser{
		FundraiserID:               "9f1c7e8a-0b9f-4c7a-9a41-2f3b8d1c6e01",
		FundraiserName:             "Renovasi Perpustakaan",
		FundraiserCurrency:         "gbp",
		FundraiserGoal:             10_000_00,
		FundraiserMatchFundingRate: 100,
		FundraiserActiveFrom:       now.Add(-time.Hour).Unix(),
		FundraiserActiveTo:         now.AddDate(0, 6, 0).Unix(),
		FundraiserCreatedAt:        now.Unix(),
	}
	if mutate != nil {
		mutate(&f)
	}
	require.NoError(t, database.Fundraisers.Insert(ctx, &f, nil))
	return &f
}

func donate(t *testing.T, ctx context.Context, fundraiserID string, now time.Time, mutate func(*donationDTO.CreateDonationRequest)) *donationDTO.CreateDonationResponse {
	t.Helper()
	req := donationDTO.CreateDonationRequest{
		DonorName:          "Siti Rahma",
		DonorEmail:         "siti@example.com",
		DonationAmount:     100_00,
		ContributionAmount: 5_00,
	}
	if mutate != nil {
		mutate(&req)
	}
	resp, err := donationService.CreateDonation(ctx, fundraiserID, req, now)
	require.NoError(t, err)
	return resp
}

// intentFor membangun payload intent yang konsisten dgn satu payment.
func intentFor(t *testing.T, ctx context.Context, fundraiserID, donationID, paymentID string, withCredentials bool) *stripe.PaymentIntent {
	t.Helper()
	p, err := database.Payments.Get(ctx, donationID, paymentID)
	require.NoError(t, err)

	amount := int64(p.PaymentDonationAmount + p.PaymentContributionAmount)
	intentID := "pi_manual"
	if p.PaymentReference != nil {
		intentID = *p.PaymentReference
	}
	intent := &stripe.PaymentIntent{
		ID:             intentID,
		Amount:         amount,
		AmountReceived: amount,
		Metadata: map[string]string{
			"fundraiser_id": fundraiserID,
			"donation_id":   donationID,
			"payment_id":    paymentID,
		},
	}
	if withCredentials {
		intent.Customer = &stripe.Customer{ID: "cus_test"}
		intent.PaymentMethod = &stripe.PaymentMethod{ID: "pm_test"}
	}
	return intent
}

func strPtr(s string) *string { return &s }
func intPtr(v int) *int       { return &v }

/* ================= Scenarios ================= */

func TestConfirmCardPaymentRoundTrip(t *testing.T) {
	ctx := setupLedger(t)
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	fundraiser := newFundraiser(t, ctx, now, nil)

	resp := donate(t, ctx, fundraiser.FundraiserID, now, func(r *donationDTO.CreateDonationRequest) {
		r.GiftAid = true
		r.AddressLine1 = strPtr("Jl. Melati 1")
		r.AddressPostcode = strPtr("SW1A 1AA")
		r.AddressCountry = strPtr("GB")
	})

	intent := intentFor(t, ctx, fundraiser.FundraiserID, resp.DonationID, resp.PaymentID, false)
	require.NoError(t, service.ConfirmCardPayment(ctx, intent))

	payment, err := database.Payments.Get(ctx, resp.DonationID, resp.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, paymentModel.PaymentStatusPaid, payment.PaymentStatus)
	require.NotNil(t, payment.PaymentMatchFundingAmount)
	assert.Equal(t, 100_00, *payment.PaymentMatchFundingAmount)

	donation, err := database.Donations.Get(ctx, fundraiser.FundraiserID, resp.DonationID)
	require.NoError(t, err)
	assert.Equal(t, 100_00, donation.DonationAmount)
	assert.Equal(t, 5_00, donation.DonationContributionAmount)
	assert.Equal(t, 100_00, donation.DonationMatchFundingAmount)
	assert.True(t, donation.DonationCounted)

	// total = donasi + match + gift aid 25%; kontribusi bukan dana fundraiser
	after, err := database.Fundraisers.Get(ctx, fundraiser.FundraiserID, nil)
	require.NoError(t, err)
	assert.Equal(t, 100_00+100_00+25_00, after.FundraiserTotalRaised)
	assert.Equal(t, 1, after.FundraiserDonationsCount)

	t.Run("konfirmasi ganda tidak menghitung dua kali", func(t *testing.T) {
		require.NoError(t, service.ConfirmCardPayment(ctx, intent))

		again, err := database.Fundraisers.Get(ctx, fundraiser.FundraiserID, nil)
		require.NoError(t, err)
		assert.Equal(t, after.FundraiserTotalRaised, again.FundraiserTotalRaised)
		assert.Equal(t, 1, again.FundraiserDonationsCount)
	})
}

func TestConfirmCardPaymentPoolExhaustion(t *testing.T) {
	ctx := setupLedger(t)
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	fundraiser := newFundraiser(t, ctx, now, func(f *fundraiserModel.Fundraiser) {
		f.FundraiserMatchFundingRemaining = intPtr(125_00)
	})

	first := donate(t, ctx, fundraiser.FundraiserID, now, nil)
	second := donate(t, ctx, fundraiser.FundraiserID, now, func(r *donationDTO.CreateDonationRequest) {
		r.DonorEmail = "budi@example.com"
		r.DonorName = "Budi Santoso"
	})

	require.NoError(t, service.ConfirmCardPayment(ctx,
		intentFor(t, ctx, fundraiser.FundraiserID, first.DonationID, first.PaymentID, false)))
	require.NoError(t, service.ConfirmCardPayment(ctx,
		intentFor(t, ctx, fundraiser.FundraiserID, second.DonationID, second.PaymentID, false)))

	a, err := database.Donations.Get(ctx, fundraiser.FundraiserID, first.DonationID)
	require.NoError(t, err)
	b, err := database.Donations.Get(ctx, fundraiser.FundraiserID, second.DonationID)
	require.NoError(t, err)
	assert.Equal(t, 100_00, a.DonationMatchFundingAmount, "donasi pertama dapat match penuh")
	assert.Equal(t, 25_00, b.DonationMatchFundingAmount, "donasi kedua hanya sisa pool")

	after, err := database.Fundraisers.Get(ctx, fundraiser.FundraiserID, nil)
	require.NoError(t, err)
	require.NotNil(t, after.FundraiserMatchFundingRemaining)
	assert.Zero(t, *after.FundraiserMatchFundingRemaining)
	assert.Equal(t, 200_00+125_00, after.FundraiserTotalRaised)
}

func TestConfirmCardPaymentAmountMismatch(t *testing.T) {
	ctx := setupLedger(t)
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	fundraiser := newFundraiser(t, ctx, now, nil)
	resp := donate(t, ctx, fundraiser.FundraiserID, now, nil)

	intent := intentFor(t, ctx, fundraiser.FundraiserID, resp.DonationID, resp.PaymentID, false)
	intent.Amount = 1 // nominal dimanipulasi

	require.Error(t, service.ConfirmCardPayment(ctx, intent))

	payment, err := database.Payments.Get(ctx, resp.DonationID, resp.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, paymentModel.PaymentStatusPending, payment.PaymentStatus)

	after, err := database.Fundraisers.Get(ctx, fundraiser.FundraiserID, nil)
	require.NoError(t, err)
	assert.Zero(t, after.FundraiserTotalRaised)
}

func TestRecurringScheduleAndCollect(t *testing.T) {
	ctx := setupLedger(t)
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	fundraiser := newFundraiser(t, ctx, now, func(f *fundraiserModel.Fundraiser) {
		f.FundraiserMatchFundingRate = 50
		f.FundraiserMatchFundingRemaining = intPtr(100_00)
		f.FundraiserActiveTo = now.AddDate(0, 0, 22).Unix()
	})

	weekly := "WEEKLY"
	resp := donate(t, ctx, fundraiser.FundraiserID, now, func(r *donationDTO.CreateDonationRequest) {
		r.DonationAmount = 50_00
		r.ContributionAmount = 2_00
		r.RecurrenceFrequency = &weekly
	})
	require.Equal(t, 3, resp.FuturePaymentCount)

	// konfirmasi payment pertama mendaftarkan kredensial + menjadwalkan sisanya
	intent := intentFor(t, ctx, fundraiser.FundraiserID, resp.DonationID, resp.PaymentID, true)
	require.NoError(t, service.ConfirmCardPayment(ctx, intent))

	donation, err := database.Donations.Get(ctx, fundraiser.FundraiserID, resp.DonationID)
	require.NoError(t, err)
	require.NotNil(t, donation.DonationStripeCustomerID)
	assert.Equal(t, "cus_test", *donation.DonationStripeCustomerID)

	payments, err := database.Payments.Query(ctx, resp.DonationID)
	require.NoError(t, err)
	require.Len(t, payments, 4)

	scheduled := 0
	reserved := 0
	for _, p := range payments {
		if p.PaymentStatus == paymentModel.PaymentStatusScheduled {
			scheduled++
			require.NotNil(t, p.PaymentMatchFundingAmount)
			reserved += *p.PaymentMatchFundingAmount
		}
	}
	assert.Equal(t, 3, scheduled)
	// payment pertama 25_00, sisa pool 75_00 dibagi 3 installment
	assert.Equal(t, 75_00, reserved)

	after, err := database.Fundraisers.Get(ctx, fundraiser.FundraiserID, nil)
	require.NoError(t, err)
	require.NotNil(t, after.FundraiserMatchFundingRemaining)
	assert.Zero(t, *after.FundraiserMatchFundingRemaining, "seluruh pool terpesan")

	t.Run("kolektor hanya menagih yang jatuh tempo", func(t *testing.T) {
		report, err := service.CollectDuePayments(ctx, now)
		require.NoError(t, err)
		assert.Zero(t, report.Due)

		report, err = service.CollectDuePayments(ctx, now.AddDate(0, 0, 8))
		require.NoError(t, err)
		assert.Equal(t, 1, report.Due)
		assert.Equal(t, 1, report.Charged)

		// putaran ulang tidak menagih dua kali (reference sudah terisi)
		report, err = service.CollectDuePayments(ctx, now.AddDate(0, 0, 8))
		require.NoError(t, err)
		assert.Zero(t, report.Due)
	})

	t.Run("konfirmasi installment memakai alokasi yang dipesan", func(t *testing.T) {
		payments, err := database.Payments.Query(ctx, resp.DonationID)
		require.NoError(t, err)

		var installment *paymentModel.Payment
		for i := range payments {
			p := payments[i]
			if p.PaymentStatus == paymentModel.PaymentStatusScheduled && p.PaymentReference != nil {
				installment = &p
				break
			}
		}
		require.NotNil(t, installment, "kolektor sudah menagih satu installment")

		totalBefore, err := database.Fundraisers.Get(ctx, fundraiser.FundraiserID, nil)
		require.NoError(t, err)

		intent := intentFor(t, ctx, fundraiser.FundraiserID, resp.DonationID, installment.PaymentID, false)
		require.NoError(t, service.ConfirmCardPayment(ctx, intent))

		totalAfter, err := database.Fundraisers.Get(ctx, fundraiser.FundraiserID, nil)
		require.NoError(t, err)
		// 50_00 donasi + 25_00 alokasi terpesan; pool tidak dipotong lagi
		assert.Equal(t, totalBefore.FundraiserTotalRaised+75_00, totalAfter.FundraiserTotalRaised)
		assert.Zero(t, *totalAfter.FundraiserMatchFundingRemaining)
	})

	t.Run("membatalkan installment mengembalikan pool", func(t *testing.T) {
		payments, err := database.Payments.Query(ctx, resp.DonationID)
		require.NoError(t, err)

		var target *paymentModel.Payment
		for i := range payments {
			p := payments[i]
			if p.PaymentStatus == paymentModel.PaymentStatusScheduled && p.PaymentReference == nil {
				target = &p
				break
			}
		}
		require.NotNil(t, target)

		_, err = service.EditPayment(ctx, fundraiser.FundraiserID, resp.DonationID, target.PaymentID,
			map[string]any{"payment_status": "cancelled"})
		require.NoError(t, err)

		cancelled, err := database.Payments.Get(ctx, resp.DonationID, target.PaymentID)
		require.NoError(t, err)
		assert.Equal(t, paymentModel.PaymentStatusCancelled, cancelled.PaymentStatus)

		after, err := database.Fundraisers.Get(ctx, fundraiser.FundraiserID, nil)
		require.NoError(t, err)
		assert.Equal(t, 25_00, *after.FundraiserMatchFundingRemaining)
	})
}

func TestManualPaymentAndRefund(t *testing.T) {
	ctx := setupLedger(t)
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	fundraiser := newFundraiser(t, ctx, now, func(f *fundraiserModel.Fundraiser) {
		f.FundraiserMatchFundingRemaining = intPtr(100_00)
	})
	resp := donate(t, ctx, fundraiser.FundraiserID, now, nil)

	manual, err := service.CreateManualPayment(ctx, fundraiser.FundraiserID, resp.DonationID,
		paymentDTO.CreateManualPaymentRequest{
			DonationAmount:     100_00,
			ContributionAmount: 0,
			Method:             "cash",
			Reference:          strPtr("kwitansi #17"),
		}, now)
	require.NoError(t, err)
	assert.Equal(t, paymentModel.PaymentStatusPaid, manual.PaymentStatus)
	require.NotNil(t, manual.PaymentMatchFundingAmount)
	assert.Equal(t, 100_00, *manual.PaymentMatchFundingAmount)

	mid, err := database.Fundraisers.Get(ctx, fundraiser.FundraiserID, nil)
	require.NoError(t, err)
	assert.Equal(t, 200_00, mid.FundraiserTotalRaised)
	assert.Equal(t, 1, mid.FundraiserDonationsCount)
	assert.Zero(t, *mid.FundraiserMatchFundingRemaining)

	// refund penuh: nominal negatif + pembalikan alokasi match funding
	_, err = service.CreateManualPayment(ctx, fundraiser.FundraiserID, resp.DonationID,
		paymentDTO.CreateManualPaymentRequest{
			DonationAmount:     -100_00,
			ContributionAmount: 0,
			Method:             "cash",
			Reference:          strPtr("refund kwitansi #17"),
			MatchFundingAmount: intPtr(-100_00),
		}, now.Add(time.Hour))
	require.NoError(t, err)

	after, err := database.Fundraisers.Get(ctx, fundraiser.FundraiserID, nil)
	require.NoError(t, err)
	assert.Zero(t, after.FundraiserTotalRaised, "refund mengembalikan total ke titik awal")
	assert.Zero(t, after.FundraiserDonationsCount)
	assert.Equal(t, 100_00, *after.FundraiserMatchFundingRemaining)

	donation, err := database.Donations.Get(ctx, fundraiser.FundraiserID, resp.DonationID)
	require.NoError(t, err)
	assert.Zero(t, donation.DonationAmount)
	assert.Zero(t, donation.DonationMatchFundingAmount)
	assert.False(t, donation.DonationCounted)
}
