// file: internals/features/donations/payments/controller/payment_collector_controller.go
package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"galangdana_backend/internals/features/donations/payments/service"
	helper "galangdana_backend/internals/helpers"
)

type PaymentCollectorController struct{}

func NewPaymentCollectorController() *PaymentCollectorController {
	return &PaymentCollectorController{}
}

// POST /api/s/collect
// Dipanggil scheduler (cron / ticker internal) utk menagih installment
// yang jatuh tempo. Idempotent: putaran ganda tidak menagih dua kali.
func (h *PaymentCollectorController) Run(c *fiber.Ctx) error {
	report, err := service.CollectDuePayments(helper.RequestContext(c, "scheduler"), time.Now())
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.Success(c, "Putaran penagihan selesai", report)
}
