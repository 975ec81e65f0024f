// file: internals/route/details/donation_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"

	donationController "galangdana_backend/internals/features/donations/donations/controller"
	fundraiserController "galangdana_backend/internals/features/donations/fundraisers/controller"
	paymentController "galangdana_backend/internals/features/donations/payments/controller"
	"galangdana_backend/internals/middlewares"
)

/* ===================== PUBLIC ===================== */

func DonationPublicRoutes(public fiber.Router) {
	fundraiserCtrl := fundraiserController.NewFundraiserUserController()
	donationCtrl := donationController.NewDonationUserController()

	public.Get("/fundraisers/:fundraiser_id", fundraiserCtrl.GetPublic)
	// create donasi dibatasi lebih ketat dari limit global
	public.Post("/fundraisers/:fundraiser_id/donations",
		middlewares.DonationRateLimiter(), donationCtrl.Create)
}

/* ===================== ADMIN ===================== */

func DonationAdminRoutes(admin fiber.Router) {
	fundraiserCtrl := fundraiserController.NewFundraiserController()
	donationCtrl := donationController.NewDonationAdminController()
	paymentCtrl := paymentController.NewPaymentAdminController()

	admin.Post("/fundraisers", fundraiserCtrl.Create)
	admin.Get("/fundraisers", fundraiserCtrl.List)
	admin.Get("/fundraisers/:fundraiser_id", fundraiserCtrl.GetByID)
	admin.Patch("/fundraisers/:fundraiser_id", fundraiserCtrl.Update)

	admin.Get("/fundraisers/:fundraiser_id/donations", donationCtrl.List)
	admin.Get("/fundraisers/:fundraiser_id/donations/:donation_id", donationCtrl.GetByID)
	admin.Patch("/fundraisers/:fundraiser_id/donations/:donation_id", donationCtrl.Update)

	admin.Get("/fundraisers/:fundraiser_id/donations/:donation_id/payments", paymentCtrl.List)
	admin.Post("/fundraisers/:fundraiser_id/donations/:donation_id/payments", paymentCtrl.CreateManual)
	admin.Patch("/fundraisers/:fundraiser_id/donations/:donation_id/payments/:payment_id", paymentCtrl.Update)
}
