package subscription

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPackage(t *testing.T, packageType PackageType, price uint64, periodDays int) *Package {
	t.Helper()
	pkg, err := NewPackage("Test "+string(packageType), packageType, price, "USD", PeriodDay, periodDays)
	require.NoError(t, err)
	return pkg
}

func TestCreditDays_UpgradeScenario(t *testing.T) {
	// Package A: 9.99 per 30 days; package B: 99.99 per 365 days; 15 days left.
	oldPkg := newTestPackage(t, PackageBasic, 999, 30)
	newPkg := newTestPackage(t, PackagePremium, 9999, 365)

	credit := CreditDays(oldPkg, newPkg, 15)

	// floor((15 * 999/30) / (9999/365)) = floor(499.5 / 27.394...) = 18
	assert.Equal(t, 18, credit)
	assert.Positive(t, credit)
}

func TestCreditDays_DowngradeYieldsMoreDays(t *testing.T) {
	oldPkg := newTestPackage(t, PackagePremium, 9999, 30)
	newPkg := newTestPackage(t, PackageBasic, 999, 30)

	credit := CreditDays(oldPkg, newPkg, 10)

	// Cheaper daily rate converts the same credit into more days.
	assert.Greater(t, credit, 10)
}

func TestCreditDays_NoDaysRemaining(t *testing.T) {
	oldPkg := newTestPackage(t, PackageBasic, 999, 30)
	newPkg := newTestPackage(t, PackagePremium, 9999, 365)

	assert.Equal(t, 0, CreditDays(oldPkg, newPkg, 0))
	assert.Equal(t, 0, CreditDays(oldPkg, newPkg, -5))
}

func TestCreditDays_FreeNewPackage(t *testing.T) {
	oldPkg := newTestPackage(t, PackageBasic, 999, 30)
	newPkg := newTestPackage(t, PackageStandard, 0, 30)

	assert.Equal(t, 0, CreditDays(oldPkg, newPkg, 15))
}

func TestCreditDays_NeverNegative(t *testing.T) {
	oldPkg := newTestPackage(t, PackageBasic, 0, 30)
	newPkg := newTestPackage(t, PackagePremium, 9999, 365)

	assert.GreaterOrEqual(t, CreditDays(oldPkg, newPkg, 15), 0)
}
