package subscription

import "math"

// CreditDays converts the unused value of the current package into whole days
// under the new package's daily rate:
//
//	remainingCredit = daysRemaining * oldPrice/oldPeriodDays
//	creditDays      = floor(remainingCredit / (newPrice/newPeriodDays))
//
// A free new package yields no credit days (there is nothing to offset), and
// the result is never negative.
func CreditDays(oldPkg, newPkg *Package, daysRemaining int) int {
	if daysRemaining <= 0 {
		return 0
	}
	newPerDay := newPkg.PricePerDay()
	if newPerDay <= 0 {
		return 0
	}
	remainingCredit := float64(daysRemaining) * oldPkg.PricePerDay()
	credit := int(math.Floor(remainingCredit / newPerDay))
	if credit < 0 {
		return 0
	}
	return credit
}
