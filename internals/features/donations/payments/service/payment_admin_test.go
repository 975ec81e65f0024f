// file: internals/features/donations/payments/service/payment_admin_test.go
package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	database "galangdana_backend/internals/databases"
	donationDTO "galangdana_backend/internals/features/donations/donations/dto"
	fundraiserModel "galangdana_backend/internals/features/donations/fundraisers/model"
	paymentDTO "galangdana_backend/internals/features/donations/payments/dto"
	paymentModel "galangdana_backend/internals/features/donations/payments/model"
	"galangdana_backend/internals/features/donations/payments/service"
	"galangdana_backend/internals/store"
)

func TestManualRefundCannotOvershoot(t *testing.T) {
	ctx := setupLedger(t)
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	fundraiser := newFundraiser(t, ctx, now, func(f *fundraiserModel.Fundraiser) {
		f.FundraiserMatchFundingRate = 0
	})
	resp := donate(t, ctx, fundraiser.FundraiserID, now, nil)

	_, err := service.CreateManualPayment(ctx, fundraiser.FundraiserID, resp.DonationID,
		paymentDTO.CreateManualPaymentRequest{
			DonationAmount: 100_00,
			Method:         "cash",
		}, now)
	require.NoError(t, err)

	// refund lebih besar dari yang terealisasi harus ditolak sebelum commit
	_, err = service.CreateManualPayment(ctx, fundraiser.FundraiserID, resp.DonationID,
		paymentDTO.CreateManualPaymentRequest{
			DonationAmount: -200_00,
			Method:         "cash",
		}, now.Add(time.Hour))
	require.Error(t, err)

	// kontribusi dan match funding dijaga aturan yang sama
	_, err = service.CreateManualPayment(ctx, fundraiser.FundraiserID, resp.DonationID,
		paymentDTO.CreateManualPaymentRequest{
			ContributionAmount: -50_00,
			Method:             "cash",
		}, now.Add(time.Hour))
	require.Error(t, err)

	_, err = service.CreateManualPayment(ctx, fundraiser.FundraiserID, resp.DonationID,
		paymentDTO.CreateManualPaymentRequest{
			DonationAmount:     -10_00,
			Method:             "cash",
			MatchFundingAmount: intPtr(-50_00),
		}, now.Add(time.Hour))
	require.Error(t, err)

	// donasi tetap terbaca dgn total yang tidak bergeser
	donation, err := database.Donations.Get(ctx, fundraiser.FundraiserID, resp.DonationID)
	require.NoError(t, err)
	assert.Equal(t, 100_00, donation.DonationAmount)
	assert.Zero(t, donation.DonationContributionAmount)
	assert.Zero(t, donation.DonationMatchFundingAmount)

	after, err := database.Fundraisers.Get(ctx, fundraiser.FundraiserID, nil)
	require.NoError(t, err)
	assert.Equal(t, 100_00, after.FundraiserTotalRaised)
}

func TestEditPaymentMatchFunding(t *testing.T) {
	ctx := setupLedger(t)
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	fundraiser := newFundraiser(t, ctx, now, func(f *fundraiserModel.Fundraiser) {
		f.FundraiserMatchFundingRemaining = intPtr(100_00)
	})
	resp := donate(t, ctx, fundraiser.FundraiserID, now, nil)

	manual, err := service.CreateManualPayment(ctx, fundraiser.FundraiserID, resp.DonationID,
		paymentDTO.CreateManualPaymentRequest{
			DonationAmount: 100_00,
			Method:         "cash",
		}, now)
	require.NoError(t, err)
	require.NotNil(t, manual.PaymentMatchFundingAmount)
	require.Equal(t, 100_00, *manual.PaymentMatchFundingAmount)

	// koreksi alokasi ke bawah merambat ke donation, total, dan pool
	_, err = service.EditPayment(ctx, fundraiser.FundraiserID, resp.DonationID, manual.PaymentID,
		map[string]any{
			"payment_match_funding_amount": 60_00,
			"previous": map[string]any{
				"payment_match_funding_amount": 100_00,
			},
		})
	require.NoError(t, err)

	edited, err := database.Payments.Get(ctx, resp.DonationID, manual.PaymentID)
	require.NoError(t, err)
	require.NotNil(t, edited.PaymentMatchFundingAmount)
	assert.Equal(t, 60_00, *edited.PaymentMatchFundingAmount)

	donation, err := database.Donations.Get(ctx, fundraiser.FundraiserID, resp.DonationID)
	require.NoError(t, err)
	assert.Equal(t, 60_00, donation.DonationMatchFundingAmount)

	after, err := database.Fundraisers.Get(ctx, fundraiser.FundraiserID, nil)
	require.NoError(t, err)
	assert.Equal(t, 160_00, after.FundraiserTotalRaised)
	require.NotNil(t, after.FundraiserMatchFundingRemaining)
	assert.Equal(t, 40_00, *after.FundraiserMatchFundingRemaining)

	t.Run("koreksi melebihi total donasi ditolak", func(t *testing.T) {
		_, err := service.EditPayment(ctx, fundraiser.FundraiserID, resp.DonationID, manual.PaymentID,
			map[string]any{"payment_match_funding_amount": -10_00})
		require.Error(t, err)

		donation, err := database.Donations.Get(ctx, fundraiser.FundraiserID, resp.DonationID)
		require.NoError(t, err)
		assert.Equal(t, 60_00, donation.DonationMatchFundingAmount)
	})

	t.Run("payment kartu tetap milik processor", func(t *testing.T) {
		_, err := service.EditPayment(ctx, fundraiser.FundraiserID, resp.DonationID, resp.PaymentID,
			map[string]any{"payment_match_funding_amount": 10_00})
		require.Error(t, err)
	})
}

func TestWebhookRedeliveryReschedulesInstallments(t *testing.T) {
	ctx := setupLedger(t)
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	fundraiser := newFundraiser(t, ctx, now, func(f *fundraiserModel.Fundraiser) {
		f.FundraiserMatchFundingRate = 50
		f.FundraiserMatchFundingRemaining = intPtr(100_00)
		f.FundraiserMatchFundingPerDonationLimit = intPtr(100_00)
		f.FundraiserActiveTo = now.AddDate(0, 0, 22).Unix()
	})

	weekly := "WEEKLY"
	resp := donate(t, ctx, fundraiser.FundraiserID, now, func(r *donationDTO.CreateDonationRequest) {
		r.DonationAmount = 50_00
		r.ContributionAmount = 2_00
		r.RecurrenceFrequency = &weekly
	})
	require.Equal(t, 3, resp.FuturePaymentCount)

	intent := intentFor(t, ctx, fundraiser.FundraiserID, resp.DonationID, resp.PaymentID, true)
	require.NoError(t, service.ConfirmCardPayment(ctx, intent))

	// kembalikan state seolah transaksi penjadwalan tidak pernah commit:
	// installment kembali pending tanpa alokasi, pool kembali utuh
	payments, err := database.Payments.Query(ctx, resp.DonationID)
	require.NoError(t, err)
	for _, p := range payments {
		if p.PaymentStatus != paymentModel.PaymentStatusScheduled {
			continue
		}
		_, err := database.Payments.Update(ctx,
			store.Key{Partition: resp.DonationID, Sort: p.PaymentID},
			map[string]any{
				paymentModel.ColPaymentStatus:             paymentModel.PaymentStatusPending,
				paymentModel.ColPaymentMatchFundingAmount: nil,
			}, nil)
		require.NoError(t, err)
	}
	_, err = database.Fundraisers.Update(ctx,
		store.Key{Partition: fundraiser.FundraiserID},
		map[string]any{fundraiserModel.ColFundraiserMatchFundingRemaining: 75_00}, nil)
	require.NoError(t, err)

	// pengiriman ulang event yang sama menjadwalkan ulang installment
	require.NoError(t, service.ConfirmCardPayment(ctx, intent))

	payments, err = database.Payments.Query(ctx, resp.DonationID)
	require.NoError(t, err)
	scheduled := 0
	for _, p := range payments {
		if p.PaymentStatus != paymentModel.PaymentStatusScheduled {
			continue
		}
		scheduled++
		require.NotNil(t, p.PaymentMatchFundingAmount)
		// akumulator cap per-donasi mulai dari alokasi payment pertama saja,
		// jadi ketiganya masih muat di bawah limit 100_00
		assert.Equal(t, 25_00, *p.PaymentMatchFundingAmount)
	}
	assert.Equal(t, 3, scheduled)

	after, err := database.Fundraisers.Get(ctx, fundraiser.FundraiserID, nil)
	require.NoError(t, err)
	require.NotNil(t, after.FundraiserMatchFundingRemaining)
	assert.Zero(t, *after.FundraiserMatchFundingRemaining)

	t.Run("pengiriman ulang berikutnya tidak memotong pool lagi", func(t *testing.T) {
		require.NoError(t, service.ConfirmCardPayment(ctx, intent))

		again, err := database.Fundraisers.Get(ctx, fundraiser.FundraiserID, nil)
		require.NoError(t, err)
		assert.Zero(t, *again.FundraiserMatchFundingRemaining)
	})
}

func TestListPaymentsNewestFirst(t *testing.T) {
	ctx := setupLedger(t)
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	fundraiser := newFundraiser(t, ctx, now, func(f *fundraiserModel.Fundraiser) {
		f.FundraiserActiveTo = now.AddDate(0, 0, 22).Unix()
	})

	weekly := "WEEKLY"
	resp := donate(t, ctx, fundraiser.FundraiserID, now, func(r *donationDTO.CreateDonationRequest) {
		r.RecurrenceFrequency = &weekly
	})

	payments, err := service.ListPayments(ctx, fundraiser.FundraiserID, resp.DonationID)
	require.NoError(t, err)
	require.Len(t, payments, 4)
	for i := 1; i < len(payments); i++ {
		assert.GreaterOrEqual(t, payments[i-1].PaymentAt, payments[i].PaymentAt)
	}
	// payment "sekarang" paling akhir, installment terjauh paling depan
	assert.Equal(t, resp.PaymentID, payments[len(payments)-1].PaymentID)
}
