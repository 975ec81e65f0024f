// file: internals/features/donations/payments/controller/payment_webhook_controller.go
package controller

import (
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v76"

	database "galangdana_backend/internals/databases"
	"galangdana_backend/internals/features/donations/payments/service"
	helper "galangdana_backend/internals/helpers"
)

type PaymentWebhookController struct{}

func NewPaymentWebhookController() *PaymentWebhookController {
	return &PaymentWebhookController{}
}

// POST /api/webhooks/stripe
// Satu-satunya jalur payment card menjadi paid. Signature wajib valid;
// kegagalan verifikasi dicatat sebagai event keamanan.
func (h *PaymentWebhookController) HandleStripeEvent(c *fiber.Ctx) error {
	ctx := helper.RequestContext(c, "stripe")

	event, err := service.ParseWebhookEvent(c.Body(), c.Get("Stripe-Signature"))
	if err != nil {
		database.Sink.RecordSecurity(ctx, "stripe_webhook", map[string]any{
			"reason":    "signature tidak valid",
			"source_ip": c.IP(),
		})
		helper.Notify(fmt.Sprintf("⚠️ Webhook Stripe dgn signature tidak valid dari %s", c.IP()))
		return helper.Error(c, fiber.StatusUnauthorized, "Signature webhook tidak valid")
	}

	switch string(event.Type) {
	case "payment_intent.succeeded":
		var intent stripe.PaymentIntent
		if err := sonic.Unmarshal(event.Data.Raw, &intent); err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "Payload intent tidak bisa dibaca")
		}
		if err := service.ConfirmCardPayment(ctx, &intent); err != nil {
			return helper.FromError(c, err)
		}
		return helper.Success(c, "Payment dikonfirmasi", fiber.Map{"intent_id": intent.ID})
	default:
		// event lain diakui supaya processor berhenti mengirim ulang
		return helper.Success(c, "Event diabaikan", fiber.Map{"type": string(event.Type)})
	}
}
