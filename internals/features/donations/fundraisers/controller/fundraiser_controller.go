// file: internals/features/donations/fundraisers/controller/fundraiser_controller.go
package controller

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	fundraiserDTO "galangdana_backend/internals/features/donations/fundraisers/dto"
	fundraiserModel "galangdana_backend/internals/features/donations/fundraisers/model"
	"galangdana_backend/internals/features/donations/fundraisers/service"
	helper "galangdana_backend/internals/helpers"
)

type FundraiserController struct{}

func NewFundraiserController() *FundraiserController {
	return &FundraiserController{}
}

var validateFundraiser = validator.New()

/* ================= Helpers ================= */

// userGroups mengambil grup admin dari token (diisi middleware auth).
func userGroups(c *fiber.Ctx) []string {
	if groups, ok := c.Locals("userGroups").([]string); ok {
		return groups
	}
	return nil
}

// guardAccess memastikan admin punya akses grup ke fundraiser tsb.
func guardAccess(c *fiber.Ctx, f *fundraiserModel.Fundraiser) error {
	if !service.GroupCanAccess(f, userGroups(c)) {
		return fiber.NewError(fiber.StatusForbidden, "Grup Anda tidak punya akses ke fundraiser ini")
	}
	return nil
}

func fundraiserIDParam(c *fiber.Ctx) (string, error) {
	id, err := uuid.Parse(c.Params("fundraiser_id"))
	if err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "ID fundraiser tidak valid")
	}
	return id.String(), nil
}

/* ================= Handlers (admin) ================= */

// POST /api/a/fundraisers
func (h *FundraiserController) Create(c *fiber.Ctx) error {
	var req fundraiserDTO.CreateFundraiserRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validateFundraiser.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	fundraiser, err := service.CreateFundraiser(helper.RequestContext(c, "admin"), req, time.Now())
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Fundraiser berhasil dibuat", fundraiser)
}

// GET /api/a/fundraisers
func (h *FundraiserController) List(c *fiber.Ctx) error {
	fundraisers, err := service.ListFundraisers(helper.RequestContext(c, "admin"))
	if err != nil {
		return helper.FromError(c, err)
	}
	visible := make([]fundraiserModel.Fundraiser, 0, len(fundraisers))
	groups := userGroups(c)
	for _, f := range fundraisers {
		if service.GroupCanAccess(&f, groups) {
			visible = append(visible, f)
		}
	}
	return helper.Success(c, "Daftar fundraiser", visible)
}

// GET /api/a/fundraisers/:fundraiser_id
func (h *FundraiserController) GetByID(c *fiber.Ctx) error {
	id, err := fundraiserIDParam(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	fundraiser, err := service.GetFundraiser(helper.RequestContext(c, "admin"), id)
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := guardAccess(c, fundraiser); err != nil {
		return helper.FromError(c, err)
	}
	return helper.Success(c, "Detail fundraiser", fundraiser)
}

// PATCH /api/a/fundraisers/:fundraiser_id
func (h *FundraiserController) Update(c *fiber.Ctx) error {
	id, err := fundraiserIDParam(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	ctx := helper.RequestContext(c, "admin")

	existing, err := service.GetFundraiser(ctx, id)
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := guardAccess(c, existing); err != nil {
		return helper.FromError(c, err)
	}

	var edits map[string]any
	if err := c.BodyParser(&edits); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	updated, err := service.EditFundraiser(ctx, id, edits)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.Success(c, "Fundraiser diperbarui", updated)
}
