// file: internals/features/donations/donations/controller/donation_user_controller.go
package controller

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	donationDTO "galangdana_backend/internals/features/donations/donations/dto"
	"galangdana_backend/internals/features/donations/donations/service"
	helper "galangdana_backend/internals/helpers"
)

type DonationUserController struct{}

func NewDonationUserController() *DonationUserController {
	return &DonationUserController{}
}

var validateDonation = validator.New()

// POST /api/public/fundraisers/:fundraiser_id/donations
// Donor membuat donasi; uang belum berpindah sampai processor konfirmasi.
func (h *DonationUserController) Create(c *fiber.Ctx) error {
	fundraiserID, err := uuid.Parse(c.Params("fundraiser_id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID fundraiser tidak valid")
	}

	var req donationDTO.CreateDonationRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validateDonation.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	resp, err := service.CreateDonation(helper.RequestContext(c, "guest"), fundraiserID.String(), req, time.Now())
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Donasi dibuat, menunggu pembayaran", resp)
}
