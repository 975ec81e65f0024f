// file: internals/features/donations/fundraisers/service/match_funding.go
package service

/* =========================================================
   Match funding allocator (pure function)
========================================================= */

// MatchFundingAmount menghitung berapa match funding yang didapat satu
// nominal donasi:
//
//	max(0, min(floor(donationAmount*rate/100), remaining, perDonationLimit-alreadyMatchFunded))
//
// rate dalam persen (100 = 1:1). remaining nil = pool tak terbatas;
// perDonationLimit nil = tanpa cap per donasi. Pembulatan SELALU ke bawah
// (floor) supaya tidak pernah over-allocate. Fungsi ini tidak menyentuh
// state; caller yang wajib men-decrement pool secara atomik dengan
// precondition yang sama dengan nilai remaining yang ia baca.
func MatchFundingAmount(donationAmount int, alreadyMatchFunded int, rate int, remaining *int, perDonationLimit *int) int {
	amount := donationAmount * rate / 100

	if perDonationLimit != nil {
		if capLeft := *perDonationLimit - alreadyMatchFunded; amount > capLeft {
			amount = capLeft
		}
	}
	if remaining != nil && amount > *remaining {
		amount = *remaining
	}
	if amount < 0 {
		return 0
	}
	return amount
}
