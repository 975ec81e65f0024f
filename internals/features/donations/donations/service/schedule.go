// file: internals/features/donations/donations/service/schedule.go
package service

import (
	"time"

	"galangdana_backend/internals/features/donations/donations/model"
)

/* =========================================================
   Payment scheduler (pure function)
========================================================= */

// Installment adalah satu rencana pembayaran hasil ekspansi jadwal.
type Installment struct {
	At                 time.Time
	DonationAmount     int
	ContributionAmount int
}

// PaymentPlan: satu payment "sekarang" + nol atau lebih payment terjadwal.
type PaymentPlan struct {
	NowPayment     Installment
	FuturePayments []Installment
}

// BuildPaymentPlan mengekspansi permintaan donasi (sekali / recurring)
// menjadi rencana pembayaran. Kontribusi platform hanya ditagih sekali,
// di payment pertama; installment berikutnya kontribusinya 0.
//
// Boundary installment berikutnya SELALU tengah-malam UTC, satu periode
// sesudah hari UTC berjalan, independen dari jam lokal pemanggil, dan
// berlanjut selama scheduledTime < cutoff. Deterministic terhadap now
// yang di-inject supaya bisa dites.
func BuildPaymentPlan(donationAmount, contributionAmount int, frequency *model.RecurrenceFrequency, cutoff time.Time, now time.Time) PaymentPlan {
	plan := PaymentPlan{
		NowPayment: Installment{
			At:                 now,
			DonationAmount:     donationAmount,
			ContributionAmount: contributionAmount,
		},
	}
	if frequency == nil {
		return plan
	}

	utc := now.UTC()
	day := time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)

	for at := nextBoundary(day, *frequency); at.Before(cutoff); at = nextBoundary(at, *frequency) {
		plan.FuturePayments = append(plan.FuturePayments, Installment{
			At:                 at,
			DonationAmount:     donationAmount,
			ContributionAmount: 0,
		})
	}
	return plan
}

func nextBoundary(from time.Time, frequency model.RecurrenceFrequency) time.Time {
	switch frequency {
	case model.RecurrenceWeekly:
		return from.AddDate(0, 0, 7)
	case model.RecurrenceMonthly:
		return from.AddDate(0, 1, 0)
	}
	return from // frequency tak dikenal sudah ditolak di validasi DTO
}
