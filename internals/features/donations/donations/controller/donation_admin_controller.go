// file: internals/features/donations/donations/controller/donation_admin_controller.go
package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"galangdana_backend/internals/features/donations/donations/service"
	helper "galangdana_backend/internals/helpers"
)

type DonationAdminController struct{}

func NewDonationAdminController() *DonationAdminController {
	return &DonationAdminController{}
}

func donationPathIDs(c *fiber.Ctx) (string, string, error) {
	fundraiserID, err := uuid.Parse(c.Params("fundraiser_id"))
	if err != nil {
		return "", "", fiber.NewError(fiber.StatusBadRequest, "ID fundraiser tidak valid")
	}
	donationID, err := uuid.Parse(c.Params("donation_id"))
	if err != nil {
		return "", "", fiber.NewError(fiber.StatusBadRequest, "ID donasi tidak valid")
	}
	return fundraiserID.String(), donationID.String(), nil
}

// GET /api/a/fundraisers/:fundraiser_id/donations
func (h *DonationAdminController) List(c *fiber.Ctx) error {
	fundraiserID, err := uuid.Parse(c.Params("fundraiser_id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID fundraiser tidak valid")
	}
	donations, err := service.ListDonations(helper.RequestContext(c, "admin"), fundraiserID.String())
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.Success(c, "Daftar donasi", donations)
}

// GET /api/a/fundraisers/:fundraiser_id/donations/:donation_id
func (h *DonationAdminController) GetByID(c *fiber.Ctx) error {
	fundraiserID, donationID, err := donationPathIDs(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	donation, err := service.GetDonation(helper.RequestContext(c, "admin"), fundraiserID, donationID)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.Success(c, "Detail donasi", donation)
}

// PATCH /api/a/fundraisers/:fundraiser_id/donations/:donation_id
func (h *DonationAdminController) Update(c *fiber.Ctx) error {
	fundraiserID, donationID, err := donationPathIDs(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var edits map[string]any
	if err := c.BodyParser(&edits); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	donation, err := service.EditDonation(helper.RequestContext(c, "admin"), fundraiserID, donationID, edits)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.Success(c, "Donasi diperbarui", donation)
}
