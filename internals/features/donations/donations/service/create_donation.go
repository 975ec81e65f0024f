// file: internals/features/donations/donations/service/create_donation.go
package service

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	database "galangdana_backend/internals/databases"
	"galangdana_backend/internals/features/donations/donations/dto"
	"galangdana_backend/internals/features/donations/donations/model"
	paymentModel "galangdana_backend/internals/features/donations/payments/model"
	paymentService "galangdana_backend/internals/features/donations/payments/service"
)

// Minimum nominal satu payment (1.00 unit) supaya fee processor tidak
// memakan habis donasinya.
const minimumPaymentAmount = 1_00

/* =========================================================
   Ledger op: buat donasi + payment pending
========================================================= */

// CreateDonation memvalidasi request terhadap aturan fundraiser, minta
// payment intent ke processor, lalu menulis Donation diikuti Payment-nya.
// Urutan insert donation SEBELUM payment disengaja: kalau proses mati di
// tengah, tidak boleh ada payment yatim yang menunjuk donation yang belum
// ada. Running total donation mulai dari nol, uang belum pindah.
func CreateDonation(ctx context.Context, fundraiserID string, req dto.CreateDonationRequest, now time.Time) (*dto.CreateDonationResponse, error) {
	fundraiser, err := database.Fundraisers.Get(ctx, fundraiserID, nil)
	if err != nil {
		return nil, err
	}

	// Precondition dicek berurutan; tiap pelanggaran = client error yang
	// menyebut aturannya.
	if fundraiser.FundraiserActiveFrom > now.Unix() {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Fundraiser belum dibuka")
	}
	if fundraiser.FundraiserPaused {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Fundraiser sedang dijeda, tidak menerima donasi baru")
	}
	if fundraiser.FundraiserArchived {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Fundraiser sudah diarsipkan")
	}
	if req.GiftAid {
		if isBlank(req.AddressLine1) || isBlank(req.AddressPostcode) || isBlank(req.AddressCountry) {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Gift aid membutuhkan alamat: baris 1, kode pos, dan negara")
		}
	}

	var frequency *model.RecurrenceFrequency
	if req.RecurrenceFrequency != nil {
		f := model.RecurrenceFrequency(*req.RecurrenceFrequency)
		frequency = &f
	}

	cutoff := time.Unix(fundraiser.FundraiserActiveTo, 0).UTC()
	plan := BuildPaymentPlan(req.DonationAmount, req.ContributionAmount, frequency, cutoff, now)

	if req.DonationAmount < minimumPaymentAmount {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Nominal tiap payment minimal 1.00")
	}
	totalDonated := req.DonationAmount * (1 + len(plan.FuturePayments))
	if fundraiser.FundraiserMinimumDonationAmount != nil && totalDonated < *fundraiser.FundraiserMinimumDonationAmount {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Total donasi di bawah minimum fundraiser ini")
	}

	donationID := uuid.NewString()
	nowPaymentID := uuid.NewString()

	nowPayment := paymentModel.Payment{
		PaymentDonationID:         donationID,
		PaymentID:                 nowPaymentID,
		PaymentFundraiserID:       fundraiserID,
		PaymentAt:                 plan.NowPayment.At.Unix(),
		PaymentDonationAmount:     plan.NowPayment.DonationAmount,
		PaymentContributionAmount: plan.NowPayment.ContributionAmount,
		PaymentMethod:             paymentModel.PaymentMethodCard,
		PaymentStatus:             paymentModel.PaymentStatusPending,
	}

	// Referensi intent dari processor utk payment "sekarang"
	intentID, clientSecret, err := paymentService.Client.CreatePaymentIntent(nowPayment, fundraiser.FundraiserCurrency, frequency != nil)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadGateway, "Gagal membuat payment intent di processor")
	}
	nowPayment.PaymentReference = &intentID

	donation := model.Donation{
		DonationFundraiserID:            fundraiserID,
		DonationID:                      donationID,
		DonationDonorName:               req.DonorName,
		DonationDonorEmail:              req.DonorEmail,
		DonationEmailConsentInformation: req.EmailConsentInformation,
		DonationEmailConsentMarketing:   req.EmailConsentMarketing,
		DonationAddressLine1:            req.AddressLine1,
		DonationAddressLine2:            req.AddressLine2,
		DonationAddressPostcode:         req.AddressPostcode,
		DonationAddressCountry:          req.AddressCountry,
		DonationGiftAid:                 req.GiftAid,
		DonationComment:                 req.Comment,
		DonationOverallPublic:           req.OverallPublic,
		DonationNamePublic:              req.NamePublic,
		DonationAmountPublic:            req.AmountPublic,
		DonationCreatedAt:               now.Unix(),
	}
	if frequency != nil {
		donation.DonationRecurringAmount = &req.DonationAmount
		donation.DonationRecurrenceFrequency = frequency
	}

	// happens-before: donation dulu, baru payment-payment-nya
	if err := database.Donations.Insert(ctx, &donation, nil); err != nil {
		return nil, err
	}
	if err := database.Payments.Insert(ctx, &nowPayment, nil); err != nil {
		return nil, err
	}
	for _, future := range plan.FuturePayments {
		payment := paymentModel.Payment{
			PaymentDonationID:         donationID,
			PaymentID:                 uuid.NewString(),
			PaymentFundraiserID:       fundraiserID,
			PaymentAt:                 future.At.Unix(),
			PaymentDonationAmount:     future.DonationAmount,
			PaymentContributionAmount: future.ContributionAmount,
			PaymentMethod:             paymentModel.PaymentMethodCard,
			PaymentStatus:             paymentModel.PaymentStatusPending,
		}
		if err := database.Payments.Insert(ctx, &payment, nil); err != nil {
			return nil, err
		}
	}

	return &dto.CreateDonationResponse{
		DonationID:         donationID,
		PaymentID:          nowPaymentID,
		FuturePaymentCount: len(plan.FuturePayments),
		TotalDonated:       totalDonated,
		StripeClientSecret: clientSecret,
	}, nil
}

func isBlank(s *string) bool {
	return s == nil || *s == ""
}
