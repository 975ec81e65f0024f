// file: internals/features/donations/fundraisers/controller/fundraiser_user_controller.go
package controller

import (
	"github.com/gofiber/fiber/v2"

	fundraiserDTO "galangdana_backend/internals/features/donations/fundraisers/dto"
	"galangdana_backend/internals/features/donations/fundraisers/service"
	helper "galangdana_backend/internals/helpers"
)

type FundraiserUserController struct{}

func NewFundraiserUserController() *FundraiserUserController {
	return &FundraiserUserController{}
}

// GET /api/public/fundraisers/:fundraiser_id
// Potongan publik: tanpa konfigurasi match funding & grup akses.
func (h *FundraiserUserController) GetPublic(c *fiber.Ctx) error {
	id, err := fundraiserIDParam(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	fundraiser, err := service.GetFundraiser(helper.RequestContext(c, "guest"), id)
	if err != nil {
		return helper.FromError(c, err)
	}
	if fundraiser.FundraiserArchived {
		return helper.Error(c, fiber.StatusNotFound, "Fundraiser tidak ditemukan")
	}
	return helper.Success(c, "Detail fundraiser", fundraiserDTO.ToPublicFundraiserResponse(fundraiser))
}
