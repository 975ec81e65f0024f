// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"galangdana_backend/internals/constants"
	authMiddleware "galangdana_backend/internals/middlewares/auth"
	routeDetails "galangdana_backend/internals/route/details"
)

var startTime time.Time

func SetupRoutes(app *fiber.App) {
	startTime = time.Now()

	log.Println("[INFO] Setting up BaseRoutes...")
	BaseRoutes(app)

	// ===================== WEBHOOK =====================
	log.Println("[INFO] Mounting webhook routes...")
	routeDetails.PaymentWebhookRoutes(app)

	// ===================== GROUPS =====================

	// PUBLIC → tanpa JWT
	log.Println("[INFO] Setting up PUBLIC group...")
	public := app.Group("/api/public")

	// ADMIN → JWT + role admin
	log.Println("[INFO] Setting up ADMIN group (Auth + RoleCheck)...")
	admin := app.Group("/api/a",
		authMiddleware.AuthMiddleware(),
		authMiddleware.OnlyRoles(constants.RoleErrorAdmin("ledger"), constants.AdminOnly...),
	)

	// SCHEDULER → JWT + role scheduler
	log.Println("[INFO] Setting up SCHEDULER group...")
	scheduler := app.Group("/api/s",
		authMiddleware.AuthMiddleware(),
		authMiddleware.OnlyRoles(constants.RoleErrorScheduler("collector"), constants.SchedulerOnly...),
	)

	// ===================== MOUNT ROUTES =====================

	log.Println("[INFO] Mounting Donation routes...")
	routeDetails.DonationPublicRoutes(public)
	routeDetails.DonationAdminRoutes(admin)

	log.Println("[INFO] Mounting Payment scheduler routes...")
	routeDetails.PaymentSchedulerRoutes(scheduler)

	log.Println("[INFO] Mounting Audit routes...")
	routeDetails.AuditAdminRoutes(admin)
}
