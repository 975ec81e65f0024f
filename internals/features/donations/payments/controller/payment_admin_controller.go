// file: internals/features/donations/payments/controller/payment_admin_controller.go
package controller

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	paymentDTO "galangdana_backend/internals/features/donations/payments/dto"
	"galangdana_backend/internals/features/donations/payments/service"
	helper "galangdana_backend/internals/helpers"
)

type PaymentAdminController struct{}

func NewPaymentAdminController() *PaymentAdminController {
	return &PaymentAdminController{}
}

var validatePayment = validator.New()

func paymentPathIDs(c *fiber.Ctx) (fundraiserID, donationID string, err error) {
	fid, err := uuid.Parse(c.Params("fundraiser_id"))
	if err != nil {
		return "", "", fiber.NewError(fiber.StatusBadRequest, "ID fundraiser tidak valid")
	}
	did, err := uuid.Parse(c.Params("donation_id"))
	if err != nil {
		return "", "", fiber.NewError(fiber.StatusBadRequest, "ID donasi tidak valid")
	}
	return fid.String(), did.String(), nil
}

// GET /api/a/fundraisers/:fundraiser_id/donations/:donation_id/payments
func (h *PaymentAdminController) List(c *fiber.Ctx) error {
	fundraiserID, donationID, err := paymentPathIDs(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	payments, err := service.ListPayments(helper.RequestContext(c, "admin"), fundraiserID, donationID)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.Success(c, "Daftar payment", payments)
}

// POST /api/a/fundraisers/:fundraiser_id/donations/:donation_id/payments
// Mencatat uang tunai / langsung ke lembaga (nominal negatif = refund).
func (h *PaymentAdminController) CreateManual(c *fiber.Ctx) error {
	fundraiserID, donationID, err := paymentPathIDs(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req paymentDTO.CreateManualPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validatePayment.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	payment, err := service.CreateManualPayment(helper.RequestContext(c, "admin"), fundraiserID, donationID, req, time.Now())
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Payment manual dicatat", payment)
}

// PATCH /api/a/fundraisers/:fundraiser_id/donations/:donation_id/payments/:payment_id
func (h *PaymentAdminController) Update(c *fiber.Ctx) error {
	fundraiserID, donationID, err := paymentPathIDs(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	paymentID, err := uuid.Parse(c.Params("payment_id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID payment tidak valid")
	}
	var edits map[string]any
	if err := c.BodyParser(&edits); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	payment, err := service.EditPayment(helper.RequestContext(c, "admin"), fundraiserID, donationID, paymentID.String(), edits)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.Success(c, "Payment diperbarui", payment)
}
