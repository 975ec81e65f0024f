// file: internals/features/donations/donations/service/schedule_test.go
package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"galangdana_backend/internals/features/donations/donations/model"
)

func freq(f model.RecurrenceFrequency) *model.RecurrenceFrequency { return &f }

func TestBuildPaymentPlan(t *testing.T) {
	now := time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)

	t.Run("sekali bayar = tanpa installment", func(t *testing.T) {
		plan := BuildPaymentPlan(50_00, 5_00, nil, now.AddDate(1, 0, 0), now)

		assert.Equal(t, now, plan.NowPayment.At)
		assert.Equal(t, 50_00, plan.NowPayment.DonationAmount)
		assert.Equal(t, 5_00, plan.NowPayment.ContributionAmount)
		assert.Empty(t, plan.FuturePayments)
	})

	t.Run("mingguan sampai cutoff, kontribusi hanya sekali", func(t *testing.T) {
		cutoff := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
		plan := BuildPaymentPlan(50_00, 5_00, freq(model.RecurrenceWeekly), cutoff, now)

		// 17, 24, 31 Maret dan 7 April; 14 April >= cutoff
		require.Len(t, plan.FuturePayments, 4)
		assert.Equal(t, time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC), plan.FuturePayments[0].At)
		assert.Equal(t, time.Date(2026, 4, 7, 0, 0, 0, 0, time.UTC), plan.FuturePayments[3].At)
		for _, p := range plan.FuturePayments {
			assert.Equal(t, 50_00, p.DonationAmount)
			assert.Zero(t, p.ContributionAmount)
		}
	})

	t.Run("bulanan di tanggal yang sama", func(t *testing.T) {
		cutoff := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
		plan := BuildPaymentPlan(50_00, 0, freq(model.RecurrenceMonthly), cutoff, now)

		require.Len(t, plan.FuturePayments, 3)
		assert.Equal(t, time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC), plan.FuturePayments[0].At)
		assert.Equal(t, time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC), plan.FuturePayments[1].At)
		assert.Equal(t, time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC), plan.FuturePayments[2].At)
	})

	t.Run("boundary independen dari zona waktu pemanggil", func(t *testing.T) {
		jakarta := time.FixedZone("WIB", 7*60*60)
		localNow := now.In(jakarta)
		cutoff := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)

		utcPlan := BuildPaymentPlan(50_00, 0, freq(model.RecurrenceWeekly), cutoff, now)
		localPlan := BuildPaymentPlan(50_00, 0, freq(model.RecurrenceWeekly), cutoff, localNow)

		require.Equal(t, len(utcPlan.FuturePayments), len(localPlan.FuturePayments))
		for i := range utcPlan.FuturePayments {
			assert.True(t, utcPlan.FuturePayments[i].At.Equal(localPlan.FuturePayments[i].At))
		}
	})

	t.Run("installment pas di cutoff tidak ikut", func(t *testing.T) {
		cutoff := time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC)
		plan := BuildPaymentPlan(50_00, 0, freq(model.RecurrenceWeekly), cutoff, now)
		assert.Empty(t, plan.FuturePayments)
	})

	t.Run("cutoff sudah lewat = hanya payment sekarang", func(t *testing.T) {
		plan := BuildPaymentPlan(50_00, 0, freq(model.RecurrenceMonthly), now.AddDate(0, 0, -1), now)
		assert.Empty(t, plan.FuturePayments)
	})
}
