// file: internals/features/donations/fundraisers/service/fundraiser_service.go
package service

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	database "galangdana_backend/internals/databases"
	"galangdana_backend/internals/features/donations/fundraisers/dto"
	"galangdana_backend/internals/features/donations/fundraisers/model"
	"galangdana_backend/internals/store"
)

// Field fundraiser yang dimiliki ledger: hanya bergerak lewat transisi
// status payment, tidak pernah dari payload admin.
var ledgerOwnedFundraiserFields = map[string]bool{
	model.ColFundraiserTotalRaised:    true,
	model.ColFundraiserDonationsCount: true,
	model.ColFundraiserID:             true,
	"fundraiser_created_at":           true,
}

/* =========================================================
   Service: fundraiser (admin)
========================================================= */

func CreateFundraiser(ctx context.Context, req dto.CreateFundraiserRequest, now time.Time) (*model.Fundraiser, error) {
	fundraiser := model.Fundraiser{
		FundraiserID:                           uuid.NewString(),
		FundraiserName:                         req.Name,
		FundraiserCurrency:                     req.Currency,
		FundraiserGoal:                         req.Goal,
		FundraiserMatchFundingRate:             req.MatchFundingRate,
		FundraiserMatchFundingRemaining:        req.MatchFundingRemaining,
		FundraiserMatchFundingPerDonationLimit: req.MatchFundingPerDonationLimit,
		FundraiserMinimumDonationAmount:        req.MinimumDonationAmount,
		FundraiserActiveFrom:                   req.ActiveFrom,
		FundraiserActiveTo:                     req.ActiveTo,
		FundraiserGroupsWithAccess:             req.GroupsWithAccess,
		FundraiserCreatedAt:                    now.Unix(),
	}
	if err := database.Fundraisers.Insert(ctx, &fundraiser, nil); err != nil {
		return nil, err
	}
	return &fundraiser, nil
}

// EditFundraiser menerapkan edit admin dgn CAS lewat sub-objek "previous".
// Running total milik ledger ditolak mentah-mentah.
func EditFundraiser(ctx context.Context, fundraiserID string, edits map[string]any) (*model.Fundraiser, error) {
	sets, previous, err := store.CheckPrevious(edits)
	if err != nil {
		return nil, err
	}
	if len(sets) == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Tidak ada field yang diedit")
	}
	for field := range sets {
		if ledgerOwnedFundraiserFields[field] {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Field "+field+" milik ledger, tidak bisa diedit langsung")
		}
	}
	return database.Fundraisers.Update(ctx,
		store.Key{Partition: fundraiserID}, sets, previous)
}

func GetFundraiser(ctx context.Context, fundraiserID string) (*model.Fundraiser, error) {
	return database.Fundraisers.Get(ctx, fundraiserID, nil)
}

func ListFundraisers(ctx context.Context) ([]model.Fundraiser, error) {
	return database.Fundraisers.Scan(ctx)
}

// GroupCanAccess: fundraiser tanpa daftar grup terbuka utk semua admin.
func GroupCanAccess(f *model.Fundraiser, groups []string) bool {
	if len(f.FundraiserGroupsWithAccess) == 0 {
		return true
	}
	for _, allowed := range f.FundraiserGroupsWithAccess {
		for _, g := range groups {
			if g == allowed {
				return true
			}
		}
	}
	return false
}
