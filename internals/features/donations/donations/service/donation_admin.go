// file: internals/features/donations/donations/service/donation_admin.go
package service

import (
	"context"
	"sort"

	"github.com/gofiber/fiber/v2"

	database "galangdana_backend/internals/databases"
	"galangdana_backend/internals/features/donations/donations/model"
	"galangdana_backend/internals/store"
)

// Field donation yang boleh disentuh admin. Running total dan kredensial
// billing milik sistem; jadwal recurring immutable sesudah create.
var editableDonationFields = map[string]bool{
	"donation_donor_name":                true,
	"donation_donor_email":               true,
	"donation_email_consent_information": true,
	"donation_email_consent_marketing":   true,
	"donation_address_line_1":            true,
	"donation_address_line_2":            true,
	"donation_address_postcode":          true,
	"donation_address_country":           true,
	"donation_comment":                   true,
	"donation_overall_public":            true,
	"donation_name_public":               true,
	"donation_amount_public":             true,
	model.ColDonationGiftAid:             true,
}

/* =========================================================
   Service: donation (admin)
========================================================= */

// ListDonations mengembalikan donasi satu fundraiser, terbaru dulu.
// Id donasi acak, jadi urutan sort key store tidak dipakai; urut di sini
// berdasarkan created_at dgn id sebagai tie-break.
func ListDonations(ctx context.Context, fundraiserID string) ([]model.Donation, error) {
	items, err := database.Donations.Query(ctx, fundraiserID)
	if err != nil {
		return nil, err
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].DonationCreatedAt != items[j].DonationCreatedAt {
			return items[i].DonationCreatedAt > items[j].DonationCreatedAt
		}
		return items[i].DonationID > items[j].DonationID
	})
	return items, nil
}

func GetDonation(ctx context.Context, fundraiserID, donationID string) (*model.Donation, error) {
	return database.Donations.Get(ctx, fundraiserID, donationID)
}

// EditDonation menerapkan edit admin dgn CAS "previous". gift_aid ikut
// menentukan total fundraiser, jadi hanya boleh dibalik selama belum ada
// uang yang terealisasi; sesudah itu nilainya terkunci.
func EditDonation(ctx context.Context, fundraiserID, donationID string, edits map[string]any) (*model.Donation, error) {
	sets, previous, err := store.CheckPrevious(edits)
	if err != nil {
		return nil, err
	}
	if len(sets) == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Tidak ada field yang diedit")
	}
	for field := range sets {
		if !editableDonationFields[field] {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Field "+field+" tidak bisa diedit")
		}
	}

	cond := store.Where().And(previous)
	if _, ok := sets[model.ColDonationGiftAid]; ok {
		donation, err := database.Donations.Get(ctx, fundraiserID, donationID)
		if err != nil {
			return nil, err
		}
		if donation.DonationAmount != 0 || donation.DonationMatchFundingAmount != 0 {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Gift aid terkunci sesudah ada payment terealisasi")
		}
		// tetap nol sampai update diterapkan
		cond.Eq(model.ColDonationAmount, 0).
			Eq(model.ColDonationMatchFundingAmount, 0)
	}

	return database.Donations.Update(ctx,
		store.Key{Partition: fundraiserID, Sort: donationID}, sets, cond)
}
