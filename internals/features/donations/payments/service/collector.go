// file: internals/features/donations/payments/service/collector.go
package service

import (
	"context"
	"fmt"
	"log"
	"time"

	database "galangdana_backend/internals/databases"
	"galangdana_backend/internals/features/donations/payments/model"
	helper "galangdana_backend/internals/helpers"
	"galangdana_backend/internals/store"
)

// Jeda antar tagihan supaya tidak menghantam rate limit processor.
var collectStagger = 2 * time.Second

// CollectReport merangkum satu putaran penagihan installment.
type CollectReport struct {
	Due      int      `json:"due"`
	Charged  int      `json:"charged"`
	Skipped  int      `json:"skipped"`
	Failures []string `json:"failures"`
}

/* =========================================================
   Kolektor installment terjadwal
========================================================= */

// CollectDuePayments menagih seluruh payment card berstatus scheduled yang
// sudah jatuh tempo dan belum pernah ditagih (reference masih kosong).
// Kolektor HANYA memicu tagihan; transisi ke paid tetap lewat webhook
// konfirmasi processor, jadi crash di tengah putaran aman di-retry.
func CollectDuePayments(ctx context.Context, now time.Time) (*CollectReport, error) {
	payments, err := database.Payments.Scan(ctx)
	if err != nil {
		return nil, err
	}

	due := make([]model.Payment, 0)
	for _, p := range payments {
		if p.PaymentMethod != model.PaymentMethodCard {
			continue
		}
		if p.PaymentStatus != model.PaymentStatusScheduled {
			continue
		}
		if p.PaymentAt > now.Unix() || p.PaymentReference != nil {
			continue
		}
		due = append(due, p)
	}

	report := &CollectReport{Due: len(due), Failures: []string{}}
	for i, p := range due {
		if i > 0 {
			select {
			case <-ctx.Done():
				return report, ctx.Err()
			case <-time.After(collectStagger):
			}
		}
		if err := collectOne(ctx, p); err != nil {
			if err == errCredentialsMissing {
				report.Skipped++
				continue
			}
			report.Failures = append(report.Failures, fmt.Sprintf("payment %s: %v", p.PaymentID, err))
			continue
		}
		report.Charged++
	}

	if len(report.Failures) > 0 {
		helper.Notify(fmt.Sprintf("⚠️ Kolektor: %d dari %d tagihan gagal", len(report.Failures), report.Due))
	}
	log.Printf("[COLLECTOR] due=%d charged=%d skipped=%d failed=%d", report.Due, report.Charged, report.Skipped, len(report.Failures))
	return report, nil
}

var errCredentialsMissing = fmt.Errorf("kredensial billing belum terdaftar")

// collectOne menagih satu installment lalu mencatat referensi intent-nya
// dgn CAS (status masih scheduled, reference masih kosong) supaya dua
// kolektor yang tumpang tindih tidak menagih dua kali.
func collectOne(ctx context.Context, p model.Payment) error {
	donation, err := database.Donations.Get(ctx, p.PaymentFundraiserID, p.PaymentDonationID)
	if err != nil {
		return err
	}
	// Donor yang payment pertamanya belum terkonfirmasi belum punya
	// kredensial; dilewati diam-diam, putaran berikutnya coba lagi.
	if donation.DonationStripeCustomerID == nil || donation.DonationStripePaymentMethodID == nil {
		return errCredentialsMissing
	}
	fundraiser, err := database.Fundraisers.Get(ctx, p.PaymentFundraiserID, nil)
	if err != nil {
		return err
	}

	intentID, err := Client.ChargeStoredCredentials(p, fundraiser.FundraiserCurrency,
		*donation.DonationStripeCustomerID, *donation.DonationStripePaymentMethodID)
	if err != nil {
		return err
	}

	_, err = database.Payments.Update(ctx,
		store.Key{Partition: p.PaymentDonationID, Sort: p.PaymentID},
		map[string]any{model.ColPaymentReference: intentID},
		store.Where().
			Eq(model.ColPaymentStatus, model.PaymentStatusScheduled).
			Eq(model.ColPaymentReference, nil),
	)
	return err
}
