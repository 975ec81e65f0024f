// file: internals/features/donations/payments/service/payment_admin.go
package service

import (
	"context"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	database "galangdana_backend/internals/databases"
	donationModel "galangdana_backend/internals/features/donations/donations/model"
	fundraiserModel "galangdana_backend/internals/features/donations/fundraisers/model"
	fundraiserService "galangdana_backend/internals/features/donations/fundraisers/service"
	"galangdana_backend/internals/features/donations/payments/dto"
	"galangdana_backend/internals/features/donations/payments/model"
	"galangdana_backend/internals/store"
)

// Field payment yang boleh diubah admin utk payment non-card.
var editablePaymentFields = map[string]bool{
	model.ColPaymentAt:                 true,
	model.ColPaymentDonationAmount:     true,
	model.ColPaymentContributionAmount: true,
	model.ColPaymentMatchFundingAmount: true,
	model.ColPaymentReference:          true,
}

/* =========================================================
   Admin: baca payment
========================================================= */

// ListPayments mengembalikan seluruh payment satu donasi, terbaru dulu
// berdasarkan waktu payment (id payment acak, tidak menyimpan urutan).
func ListPayments(ctx context.Context, fundraiserID, donationID string) ([]model.Payment, error) {
	// pastikan donation memang milik fundraiser di path
	if _, err := database.Donations.Get(ctx, fundraiserID, donationID); err != nil {
		return nil, err
	}
	items, err := database.Payments.Query(ctx, donationID)
	if err != nil {
		return nil, err
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].PaymentAt != items[j].PaymentAt {
			return items[i].PaymentAt > items[j].PaymentAt
		}
		return items[i].PaymentID > items[j].PaymentID
	})
	return items, nil
}

/* =========================================================
   Admin: edit / cancel payment
========================================================= */

// EditPayment menerapkan edit admin ke satu payment. Payload boleh membawa
// sub-objek "previous" (nilai lama yang dibaca admin) yang jadi precondition
// CAS. Aturan per metode:
//
//   - card: nominal & referensi milik processor, tidak bisa diedit; satu-
//     satunya mutasi yang sah adalah pembatalan (status -> cancelled) dari
//     pending/scheduled, dan harus jadi satu-satunya field di payload.
//   - cash / direct_to_charity: waktu, nominal, match funding, referensi
//     bebas diedit; perubahan nominal / match funding payment paid merambat
//     ke running total donation + fundraiser (termasuk pool match funding
//     finite) dalam satu transaksi.
func EditPayment(ctx context.Context, fundraiserID, donationID, paymentID string, edits map[string]any) (*model.Payment, error) {
	payment, err := database.Payments.Get(ctx, donationID, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.PaymentFundraiserID != fundraiserID {
		return nil, store.ErrNotFound
	}

	sets, previous, err := store.CheckPrevious(edits)
	if err != nil {
		return nil, err
	}
	if len(sets) == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Tidak ada field yang diedit")
	}

	if status, ok := sets[model.ColPaymentStatus]; ok {
		if len(sets) != 1 {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Perubahan status tidak boleh digabung dgn edit lain")
		}
		if status != string(model.PaymentStatusCancelled) {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Status hanya bisa diubah menjadi cancelled")
		}
		return cancelPayment(ctx, payment, previous)
	}

	if payment.PaymentMethod == model.PaymentMethodCard {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Payment kartu dikelola processor, hanya bisa dibatalkan")
	}
	for field := range sets {
		if !editablePaymentFields[field] {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Field "+field+" tidak bisa diedit")
		}
	}

	donationDelta := amountDelta(sets, model.ColPaymentDonationAmount, payment.PaymentDonationAmount)
	contributionDelta := amountDelta(sets, model.ColPaymentContributionAmount, payment.PaymentContributionAmount)
	currentMatchFunding := 0
	if payment.PaymentMatchFundingAmount != nil {
		currentMatchFunding = *payment.PaymentMatchFundingAmount
	}
	matchFundingDelta := amountDelta(sets, model.ColPaymentMatchFundingAmount, currentMatchFunding)

	// Nilai lama nominal selalu masuk kondisi: delta dihitung dari situ.
	cond := store.Where().
		Eq(model.ColPaymentStatus, payment.PaymentStatus).
		Eq(model.ColPaymentDonationAmount, payment.PaymentDonationAmount).
		Eq(model.ColPaymentContributionAmount, payment.PaymentContributionAmount).
		Eq(model.ColPaymentMatchFundingAmount, payment.PaymentMatchFundingAmount).
		And(previous)

	if donationDelta == 0 && contributionDelta == 0 && matchFundingDelta == 0 {
		return database.Payments.Update(ctx,
			store.Key{Partition: donationID, Sort: paymentID}, sets, cond)
	}

	// Cuma payment paid yang sudah masuk running total; nominal payment
	// pending/scheduled bebas digeser tanpa merambat.
	if payment.PaymentStatus != model.PaymentStatusPaid {
		return database.Payments.Update(ctx,
			store.Key{Partition: donationID, Sort: paymentID}, sets, cond)
	}

	donation, err := database.Donations.Get(ctx, fundraiserID, donationID)
	if err != nil {
		return nil, err
	}
	finitePool := false
	if matchFundingDelta != 0 {
		fundraiser, err := database.Fundraisers.Get(ctx, fundraiserID, nil)
		if err != nil {
			return nil, err
		}
		finitePool = fundraiser.FundraiserMatchFundingRemaining != nil
	}
	ops, err := ledgerShiftOps(donation, donationDelta, contributionDelta, matchFundingDelta, finitePool)
	if err != nil {
		return nil, err
	}
	paymentOp, err := database.Payments.TxUpdate(
		store.Key{Partition: donationID, Sort: paymentID}, sets, nil, cond)
	if err != nil {
		return nil, err
	}
	if err := store.Transact(ctx, database.Conn, append([]store.TxOp{paymentOp}, ops...)...); err != nil {
		return nil, err
	}
	return database.Payments.Get(ctx, donationID, paymentID)
}

// cancelPayment membatalkan payment card yang belum ditagih dan
// mengembalikan match funding yang sudah dipesan ke pool fundraiser.
func cancelPayment(ctx context.Context, payment *model.Payment, previous *store.Cond) (*model.Payment, error) {
	if payment.PaymentMethod != model.PaymentMethodCard {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Payment non-card bersifat paid, tidak bisa dibatalkan")
	}
	switch payment.PaymentStatus {
	case model.PaymentStatusPending, model.PaymentStatusScheduled:
	default:
		return nil, fiber.NewError(fiber.StatusConflict, "Hanya payment pending/scheduled yang bisa dibatalkan")
	}

	held := 0
	if payment.PaymentMatchFundingAmount != nil {
		held = *payment.PaymentMatchFundingAmount
	}
	sets := map[string]any{model.ColPaymentStatus: model.PaymentStatusCancelled}
	if held != 0 {
		// alokasi dilepas supaya tidak terhitung cap per-donasi lagi
		sets[model.ColPaymentMatchFundingAmount] = 0
	}
	cond := store.Where().
		Eq(model.ColPaymentStatus, payment.PaymentStatus).
		Eq(model.ColPaymentMatchFundingAmount, payment.PaymentMatchFundingAmount).
		And(previous)

	paymentOp, err := database.Payments.TxUpdate(
		store.Key{Partition: payment.PaymentDonationID, Sort: payment.PaymentID},
		sets, nil, cond)
	if err != nil {
		return nil, err
	}

	ops := []store.TxOp{paymentOp}
	if held > 0 {
		fundraiser, err := database.Fundraisers.Get(ctx, payment.PaymentFundraiserID, nil)
		if err != nil {
			return nil, err
		}
		// pool tak terbatas tidak menyimpan sisa, tidak ada yang dikembalikan
		if fundraiser.FundraiserMatchFundingRemaining != nil {
			poolOp, err := database.Fundraisers.TxUpdate(
				store.Key{Partition: payment.PaymentFundraiserID},
				nil,
				map[string]int{fundraiserModel.ColFundraiserMatchFundingRemaining: held},
				nil)
			if err != nil {
				return nil, err
			}
			ops = append(ops, poolOp)
		}
	}
	if err := store.Transact(ctx, database.Conn, ops...); err != nil {
		return nil, err
	}
	return database.Payments.Get(ctx, payment.PaymentDonationID, payment.PaymentID)
}

/* =========================================================
   Admin: catat payment manual (tunai / langsung), termasuk refund
========================================================= */

// CreateManualPayment menyisipkan payment non-card berstatus paid dan
// langsung menggeser running total donation + fundraiser dalam transaksi
// yang sama dgn insert-nya. Nominal negatif = refund; alokasi match funding
// yang dieksplisitkan admin (mis. membalikkan alokasi payment yang
// direfund) ikut mengembalikan pool.
func CreateManualPayment(ctx context.Context, fundraiserID, donationID string, req dto.CreateManualPaymentRequest, now time.Time) (*model.Payment, error) {
	if req.DonationAmount == 0 && req.ContributionAmount == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Nominal payment tidak boleh nol semua")
	}

	donation, err := database.Donations.Get(ctx, fundraiserID, donationID)
	if err != nil {
		return nil, err
	}
	fundraiser, err := database.Fundraisers.Get(ctx, fundraiserID, nil)
	if err != nil {
		return nil, err
	}

	matchFunding := 0
	if req.MatchFundingAmount != nil {
		matchFunding = *req.MatchFundingAmount
	} else if req.DonationAmount > 0 {
		alreadyMatchFunded := 0
		siblings, err := database.Payments.Query(ctx, donationID)
		if err != nil {
			return nil, err
		}
		for _, sibling := range siblings {
			if sibling.PaymentMatchFundingAmount != nil {
				alreadyMatchFunded += *sibling.PaymentMatchFundingAmount
			}
		}
		matchFunding = fundraiserService.MatchFundingAmount(
			req.DonationAmount,
			alreadyMatchFunded,
			fundraiser.FundraiserMatchFundingRate,
			fundraiser.FundraiserMatchFundingRemaining,
			fundraiser.FundraiserMatchFundingPerDonationLimit,
		)
	}

	at := now.Unix()
	if req.PaymentAt != nil {
		at = *req.PaymentAt
	}
	payment := model.Payment{
		PaymentDonationID:         donationID,
		PaymentID:                 uuid.NewString(),
		PaymentFundraiserID:       fundraiserID,
		PaymentAt:                 at,
		PaymentDonationAmount:     req.DonationAmount,
		PaymentContributionAmount: req.ContributionAmount,
		PaymentMatchFundingAmount: &matchFunding,
		PaymentMethod:             model.PaymentMethod(req.Method),
		PaymentReference:          req.Reference,
		PaymentStatus:             model.PaymentStatusPaid,
	}

	insertOp, err := database.Payments.TxInsert(&payment, nil)
	if err != nil {
		return nil, err
	}
	ops, err := ledgerShiftOps(donation, req.DonationAmount, req.ContributionAmount, matchFunding,
		fundraiser.FundraiserMatchFundingRemaining != nil)
	if err != nil {
		return nil, err
	}
	if err := store.Transact(ctx, database.Conn, append([]store.TxOp{insertOp}, ops...)...); err != nil {
		return nil, err
	}
	return &payment, nil
}

/* =========================================================
   Perambatan delta ke donation + fundraiser
========================================================= */

// ledgerShiftOps membangun dua operasi transaksi yang menggeser running
// total donation dan fundraiser sebesar delta yang diberikan, termasuk
// gift aid inkremental dan pergeseran donations_count. Kondisi CAS menjaga
// semua nilai donation yang dipakai menghitung. finitePool false = pool
// match funding tak terbatas (NULL), atributnya tidak boleh disentuh.
func ledgerShiftOps(donation *donationModel.Donation, donationDelta, contributionDelta, matchFundingDelta int, finitePool bool) ([]store.TxOp, error) {
	oldTotal := donation.DonationAmount
	newTotal := oldTotal + donationDelta

	// Refund / koreksi tidak boleh melebihi yang sudah terealisasi; running
	// total donation wajib >= 0. Nilai lama yang dipakai mengecek ini juga
	// dipin kondisi CAS di bawah, jadi cek ini aman dari balapan.
	if newTotal < 0 ||
		donation.DonationContributionAmount+contributionDelta < 0 ||
		donation.DonationMatchFundingAmount+matchFundingDelta < 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest,
			"Refund melebihi nominal yang sudah terealisasi di donasi ini")
	}

	giftAid := 0
	if donation.DonationGiftAid {
		giftAid = giftAidDelta(oldTotal, newTotal)
	}
	countedAfter := newTotal+donation.DonationContributionAmount+contributionDelta != 0
	countedDelta := 0
	if countedAfter && !donation.DonationCounted {
		countedDelta = 1
	} else if !countedAfter && donation.DonationCounted {
		countedDelta = -1
	}

	donationOp, err := database.Donations.TxUpdate(
		store.Key{Partition: donation.DonationFundraiserID, Sort: donation.DonationID},
		map[string]any{donationModel.ColDonationCounted: countedAfter},
		map[string]int{
			donationModel.ColDonationAmount:             donationDelta,
			donationModel.ColDonationContributionAmount: contributionDelta,
			donationModel.ColDonationMatchFundingAmount: matchFundingDelta,
		},
		store.Where().
			Eq(donationModel.ColDonationAmount, donation.DonationAmount).
			Eq(donationModel.ColDonationContributionAmount, donation.DonationContributionAmount).
			Eq(donationModel.ColDonationMatchFundingAmount, donation.DonationMatchFundingAmount).
			Eq(donationModel.ColDonationCounted, donation.DonationCounted).
			Eq(donationModel.ColDonationGiftAid, donation.DonationGiftAid),
	)
	if err != nil {
		return nil, err
	}

	fundraiserPlus := map[string]int{
		fundraiserModel.ColFundraiserTotalRaised: donationDelta + matchFundingDelta + giftAid,
	}
	if countedDelta != 0 {
		fundraiserPlus[fundraiserModel.ColFundraiserDonationsCount] = countedDelta
	}
	fundraiserCond := store.Where()
	if matchFundingDelta != 0 && finitePool {
		// pool finite bergeser kebalikan alokasinya; Ge hanya saat memotong
		fundraiserPlus[fundraiserModel.ColFundraiserMatchFundingRemaining] = -matchFundingDelta
		if matchFundingDelta > 0 {
			fundraiserCond.Ge(fundraiserModel.ColFundraiserMatchFundingRemaining, matchFundingDelta)
		}
	}
	fundraiserOp, err := database.Fundraisers.TxUpdate(
		store.Key{Partition: donation.DonationFundraiserID},
		nil, fundraiserPlus, fundraiserCond)
	if err != nil {
		return nil, err
	}
	return []store.TxOp{donationOp, fundraiserOp}, nil
}

func amountDelta(sets map[string]any, field string, current int) int {
	raw, ok := sets[field]
	if !ok {
		return 0
	}
	switch v := raw.(type) {
	case float64:
		return int(v) - current
	case int:
		return v - current
	}
	return 0
}
