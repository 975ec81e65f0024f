// file: internals/features/donations/payments/service/webhook.go
package service

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v76"

	database "galangdana_backend/internals/databases"
	donationModel "galangdana_backend/internals/features/donations/donations/model"
	fundraiserModel "galangdana_backend/internals/features/donations/fundraisers/model"
	fundraiserService "galangdana_backend/internals/features/donations/fundraisers/service"
	"galangdana_backend/internals/features/donations/payments/model"
	helper "galangdana_backend/internals/helpers"
	"galangdana_backend/internals/store"
)

// Gift aid 25% dari donation amount, dihitung inkremental dgn floor atas
// running total supaya penjumlahan per payment tidak menggelembung.
const giftAidRatePercent = 25

func giftAidDelta(oldDonationTotal, newDonationTotal int) int {
	return newDonationTotal*giftAidRatePercent/100 - oldDonationTotal*giftAidRatePercent/100
}

/* =========================================================
   Rekonsiliasi: konfirmasi pembayaran kartu dari webhook
========================================================= */

// ConfirmCardPayment memproses payment_intent.succeeded: transisi payment
// pending/scheduled -> paid, alokasikan match funding, dan geser running
// total donation + fundraiser dalam SATU transaksi. Seluruh nilai yang
// dibaca dan dipakai untuk menghitung delta dijaga dgn condition (CAS);
// konflik berarti ada penulis lain, webhook akan di-retry processor.
func ConfirmCardPayment(ctx context.Context, intent *stripe.PaymentIntent) error {
	fundraiserID := intent.Metadata["fundraiser_id"]
	donationID := intent.Metadata["donation_id"]
	paymentID := intent.Metadata["payment_id"]
	if fundraiserID == "" || donationID == "" || paymentID == "" {
		return securityReject(ctx, intent.ID, "metadata intent tidak lengkap")
	}

	payment, err := database.Payments.Get(ctx, donationID, paymentID)
	if err != nil {
		return err
	}
	if payment.PaymentFundraiserID != fundraiserID {
		return securityReject(ctx, intent.ID, "fundraiser di metadata tidak cocok dgn payment")
	}
	if payment.PaymentMethod != model.PaymentMethodCard {
		return securityReject(ctx, intent.ID, "konfirmasi processor untuk payment non-card")
	}
	// Processor mengirim ulang event yang sama; paid = konfirmasinya sudah
	// diproses. Pengiriman ulang tetap dipakai utk mengulang penjadwalan
	// installment yang sempat gagal sesudah konfirmasi commit.
	if payment.PaymentStatus == model.PaymentStatusPaid {
		return resolvePendingInstallments(ctx, payment)
	}
	if payment.PaymentStatus == model.PaymentStatusCancelled {
		return fiber.NewError(fiber.StatusConflict, "Payment sudah dibatalkan, dana harus direfund manual")
	}
	requested := int64(payment.PaymentDonationAmount + payment.PaymentContributionAmount)
	if intent.Amount != requested || intent.AmountReceived != requested {
		return securityReject(ctx, intent.ID, fmt.Sprintf("nominal intent %d/%d != yang diminta %d", intent.Amount, intent.AmountReceived, requested))
	}
	if payment.PaymentReference != nil && *payment.PaymentReference != intent.ID {
		return securityReject(ctx, intent.ID, "referensi payment menunjuk intent lain")
	}

	donation, err := database.Donations.Get(ctx, fundraiserID, donationID)
	if err != nil {
		return err
	}
	fundraiser, err := database.Fundraisers.Get(ctx, fundraiserID, nil)
	if err != nil {
		return err
	}

	registerBillingCredentials(ctx, donation, intent)

	siblings, err := database.Payments.Query(ctx, donationID)
	if err != nil {
		return err
	}

	// Match funding: kalau payment ini sudah dialokasikan saat scheduling,
	// pakai nilainya (pool-nya sudah dipotong waktu itu). Kalau belum,
	// hitung sekarang dan potong pool di transaksi yang sama. Akumulator
	// cap per-donasi tidak memasukkan payment ini sendiri; alokasinya
	// ditambahkan terpisah di bawah.
	alreadyMatchFunded := 0
	for _, sibling := range siblings {
		if sibling.PaymentID == paymentID {
			continue
		}
		if sibling.PaymentMatchFundingAmount != nil {
			alreadyMatchFunded += *sibling.PaymentMatchFundingAmount
		}
	}
	matchFunding := 0
	freshAllocation := payment.PaymentMatchFundingAmount == nil
	if freshAllocation {
		matchFunding = fundraiserService.MatchFundingAmount(
			payment.PaymentDonationAmount,
			alreadyMatchFunded,
			fundraiser.FundraiserMatchFundingRate,
			fundraiser.FundraiserMatchFundingRemaining,
			fundraiser.FundraiserMatchFundingPerDonationLimit,
		)
	} else {
		matchFunding = *payment.PaymentMatchFundingAmount
	}

	oldDonationTotal := donation.DonationAmount
	newDonationTotal := oldDonationTotal + payment.PaymentDonationAmount
	giftAid := 0
	if donation.DonationGiftAid {
		giftAid = giftAidDelta(oldDonationTotal, newDonationTotal)
	}

	// donations_count bergerak hanya saat donasi mulai/berhenti "terhitung"
	countedAfter := newDonationTotal+donation.DonationContributionAmount+payment.PaymentContributionAmount != 0
	countedDelta := 0
	if countedAfter && !donation.DonationCounted {
		countedDelta = 1
	} else if !countedAfter && donation.DonationCounted {
		countedDelta = -1
	}

	paymentSets := map[string]any{
		model.ColPaymentStatus: model.PaymentStatusPaid,
	}
	if freshAllocation {
		paymentSets[model.ColPaymentMatchFundingAmount] = matchFunding
	}
	if payment.PaymentReference == nil {
		paymentSets[model.ColPaymentReference] = intent.ID
	}
	paymentOp, err := database.Payments.TxUpdate(
		store.Key{Partition: donationID, Sort: paymentID},
		paymentSets,
		nil,
		store.Where().
			Eq(model.ColPaymentStatus, payment.PaymentStatus).
			Eq(model.ColPaymentDonationAmount, payment.PaymentDonationAmount).
			Eq(model.ColPaymentContributionAmount, payment.PaymentContributionAmount).
			Eq(model.ColPaymentMatchFundingAmount, payment.PaymentMatchFundingAmount).
			Eq(model.ColPaymentReference, payment.PaymentReference),
	)
	if err != nil {
		return err
	}

	donationOp, err := database.Donations.TxUpdate(
		store.Key{Partition: fundraiserID, Sort: donationID},
		map[string]any{donationModel.ColDonationCounted: countedAfter},
		map[string]int{
			donationModel.ColDonationAmount:             payment.PaymentDonationAmount,
			donationModel.ColDonationContributionAmount: payment.PaymentContributionAmount,
			donationModel.ColDonationMatchFundingAmount: matchFunding,
		},
		store.Where().
			Eq(donationModel.ColDonationAmount, donation.DonationAmount).
			Eq(donationModel.ColDonationContributionAmount, donation.DonationContributionAmount).
			Eq(donationModel.ColDonationCounted, donation.DonationCounted).
			Eq(donationModel.ColDonationGiftAid, donation.DonationGiftAid),
	)
	if err != nil {
		return err
	}

	fundraiserPlus := map[string]int{
		fundraiserModel.ColFundraiserTotalRaised: payment.PaymentDonationAmount + matchFunding + giftAid,
	}
	if countedDelta != 0 {
		fundraiserPlus[fundraiserModel.ColFundraiserDonationsCount] = countedDelta
	}
	fundraiserCond := store.Where()
	if freshAllocation {
		fundraiserCond.
			Eq(fundraiserModel.ColFundraiserMatchFundingRate, fundraiser.FundraiserMatchFundingRate).
			Eq(fundraiserModel.ColFundraiserMatchFundingPerDonationLimit, fundraiser.FundraiserMatchFundingPerDonationLimit)
		if fundraiser.FundraiserMatchFundingRemaining != nil {
			fundraiserPlus[fundraiserModel.ColFundraiserMatchFundingRemaining] = -matchFunding
			fundraiserCond.Ge(fundraiserModel.ColFundraiserMatchFundingRemaining, matchFunding)
		} else {
			fundraiserCond.Eq(fundraiserModel.ColFundraiserMatchFundingRemaining, nil)
		}
	}
	fundraiserOp, err := database.Fundraisers.TxUpdate(
		store.Key{Partition: fundraiserID},
		nil,
		fundraiserPlus,
		fundraiserCond,
	)
	if err != nil {
		return err
	}

	if err := store.Transact(ctx, database.Conn, paymentOp, donationOp, fundraiserOp); err != nil {
		return err
	}

	// Installment berikutnya dijadwalkan SETELAH konfirmasi pertama sukses,
	// supaya pool match funding hanya dipesan untuk donor yang terbukti bisa
	// ditagih. Kegagalan di sini tidak membatalkan konfirmasi di atas, tapi
	// tetap dikembalikan sebagai error: processor mengirim ulang event, dan
	// jalur paid di atas mengulang penjadwalannya.
	if donation.DonationRecurrenceFrequency != nil {
		poolAfter := fundraiser.FundraiserMatchFundingRemaining
		if poolAfter != nil && freshAllocation {
			left := *poolAfter - matchFunding
			poolAfter = &left
		}
		if err := scheduleRemainingPayments(ctx, fundraiser, siblings, paymentID, alreadyMatchFunded+matchFunding, poolAfter); err != nil {
			log.Printf("[SCHEDULER] gagal menjadwalkan installment donation %s: %v", donationID, err)
			return err
		}
	}
	return nil
}

// resolvePendingInstallments mengulang penjadwalan installment utk donasi
// recurring yang payment-nya sudah paid. Idempoten: CAS di
// scheduleRemainingPayments hanya cocok utk installment pending yang belum
// punya alokasi, jadi pengiriman ulang event tidak memotong pool dua kali.
func resolvePendingInstallments(ctx context.Context, payment *model.Payment) error {
	donation, err := database.Donations.Get(ctx, payment.PaymentFundraiserID, payment.PaymentDonationID)
	if err != nil {
		return err
	}
	if donation.DonationRecurrenceFrequency == nil {
		return nil
	}
	siblings, err := database.Payments.Query(ctx, payment.PaymentDonationID)
	if err != nil {
		return err
	}
	allocated := 0
	unresolved := false
	for _, sibling := range siblings {
		if sibling.PaymentMatchFundingAmount != nil {
			allocated += *sibling.PaymentMatchFundingAmount
		}
		if sibling.PaymentStatus == model.PaymentStatusPending && sibling.PaymentMatchFundingAmount == nil {
			unresolved = true
		}
	}
	if !unresolved {
		return nil
	}
	fundraiser, err := database.Fundraisers.Get(ctx, payment.PaymentFundraiserID, nil)
	if err != nil {
		return err
	}
	return scheduleRemainingPayments(ctx, fundraiser, siblings, payment.PaymentID, allocated, fundraiser.FundraiserMatchFundingRemaining)
}

// registerBillingCredentials menyimpan customer + payment method processor
// di donation, tepat sekali (CAS: dua-duanya masih NULL). Kalah balapan dgn
// webhook kembar bukan error.
func registerBillingCredentials(ctx context.Context, donation *donationModel.Donation, intent *stripe.PaymentIntent) {
	if donation.DonationStripeCustomerID != nil || donation.DonationStripePaymentMethodID != nil {
		return
	}
	if intent.Customer == nil || intent.PaymentMethod == nil {
		return
	}
	_, err := database.Donations.Update(ctx,
		store.Key{Partition: donation.DonationFundraiserID, Sort: donation.DonationID},
		map[string]any{
			donationModel.ColDonationStripeCustomerID:      intent.Customer.ID,
			donationModel.ColDonationStripePaymentMethodID: intent.PaymentMethod.ID,
		},
		store.Where().
			Eq(donationModel.ColDonationStripeCustomerID, nil).
			Eq(donationModel.ColDonationStripePaymentMethodID, nil),
	)
	if err == nil {
		donation.DonationStripeCustomerID = &intent.Customer.ID
		donation.DonationStripePaymentMethodID = &intent.PaymentMethod.ID
		return
	}
	log.Printf("[WEBHOOK] kredensial billing donation %s sudah terisi penulis lain: %v", donation.DonationID, err)
}

// scheduleRemainingPayments mengalokasikan match funding utk seluruh
// installment pending yang belum punya alokasi, lalu memajukan statusnya ke
// scheduled, dalam satu transaksi bersama satu potongan pool fundraiser.
func scheduleRemainingPayments(ctx context.Context, fundraiser *fundraiserModel.Fundraiser, siblings []model.Payment, confirmedPaymentID string, alreadyMatchFunded int, poolRemaining *int) error {
	pending := make([]model.Payment, 0, len(siblings))
	for _, p := range siblings {
		if p.PaymentID == confirmedPaymentID {
			continue
		}
		if p.PaymentStatus == model.PaymentStatusPending && p.PaymentMatchFundingAmount == nil {
			pending = append(pending, p)
		}
	}
	if len(pending) == 0 {
		return nil
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].PaymentAt < pending[j].PaymentAt })

	ops := make([]store.TxOp, 0, len(pending)+1)
	totalAllocated := 0
	running := alreadyMatchFunded
	pool := poolRemaining
	for _, p := range pending {
		allocation := fundraiserService.MatchFundingAmount(
			p.PaymentDonationAmount,
			running,
			fundraiser.FundraiserMatchFundingRate,
			pool,
			fundraiser.FundraiserMatchFundingPerDonationLimit,
		)
		op, err := database.Payments.TxUpdate(
			store.Key{Partition: p.PaymentDonationID, Sort: p.PaymentID},
			map[string]any{
				model.ColPaymentStatus:             model.PaymentStatusScheduled,
				model.ColPaymentMatchFundingAmount: allocation,
			},
			nil,
			store.Where().
				Eq(model.ColPaymentStatus, model.PaymentStatusPending).
				Eq(model.ColPaymentMatchFundingAmount, nil),
		)
		if err != nil {
			return err
		}
		ops = append(ops, op)
		totalAllocated += allocation
		running += allocation
		if pool != nil {
			left := *pool - allocation
			pool = &left
		}
	}

	// Satu potongan pool utk seluruh alokasi; pool tak terbatas tidak perlu
	// disentuh sama sekali.
	if poolRemaining != nil && totalAllocated > 0 {
		op, err := database.Fundraisers.TxUpdate(
			store.Key{Partition: fundraiser.FundraiserID},
			nil,
			map[string]int{fundraiserModel.ColFundraiserMatchFundingRemaining: -totalAllocated},
			store.Where().
				Ge(fundraiserModel.ColFundraiserMatchFundingRemaining, totalAllocated).
				Eq(fundraiserModel.ColFundraiserMatchFundingRate, fundraiser.FundraiserMatchFundingRate).
				Eq(fundraiserModel.ColFundraiserMatchFundingPerDonationLimit, fundraiser.FundraiserMatchFundingPerDonationLimit),
		)
		if err != nil {
			return err
		}
		ops = append(ops, op)
	}
	return store.Transact(ctx, database.Conn, ops...)
}

// securityReject mencatat event mencurigakan ke audit trail + notifier lalu
// menolak request. Dipakai utk payload webhook yang tidak konsisten dgn
// state ledger.
func securityReject(ctx context.Context, intentID string, reason string) error {
	database.Sink.RecordSecurity(ctx, "stripe_intent/"+intentID, map[string]any{"reason": reason})
	helper.Notify(fmt.Sprintf("⚠️ Webhook ditolak (intent %s): %s", intentID, reason))
	return fiber.NewError(fiber.StatusBadRequest, "Payload webhook tidak konsisten dgn data payment")
}
