// file: internals/route/details/payment_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"

	auditController "galangdana_backend/internals/features/audit/audit_logs/controller"
	paymentController "galangdana_backend/internals/features/donations/payments/controller"
)

// Webhook processor: tanpa JWT, keabsahan dijamin signature Stripe.
func PaymentWebhookRoutes(app *fiber.App) {
	webhookCtrl := paymentController.NewPaymentWebhookController()
	app.Post("/api/webhooks/stripe", webhookCtrl.HandleStripeEvent)
}

// Endpoint scheduler (role scheduler di JWT).
func PaymentSchedulerRoutes(scheduler fiber.Router) {
	collectorCtrl := paymentController.NewPaymentCollectorController()
	scheduler.Post("/collect", collectorCtrl.Run)
}

func AuditAdminRoutes(admin fiber.Router) {
	auditCtrl := auditController.NewAuditLogController()
	admin.Get("/audit-logs", auditCtrl.List)
}
