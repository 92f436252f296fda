package dto

import (
	"time"

	"calmora/internal/domain/subscription"
)

// ToPackageDTO converts a Package aggregate to its public representation.
func ToPackageDTO(pkg *subscription.Package) *PackageDTO {
	if pkg == nil {
		return nil
	}
	features := pkg.Features()
	if features == nil {
		features = []string{}
	}
	return &PackageDTO{
		SID:                pkg.SID(),
		Name:               pkg.Name(),
		Type:               string(pkg.Type()),
		Price:              pkg.Price(),
		Currency:           pkg.Currency(),
		PeriodUnit:         string(pkg.PeriodUnit()),
		PeriodCount:        pkg.PeriodCount(),
		DurationDays:       pkg.DurationDays(),
		DiscountPercentage: pkg.DiscountPercentage(),
		Features:           features,
		Active:             pkg.IsActive(),
		DisplayOrder:       pkg.DisplayOrder(),
	}
}

// ToPackageDTOList converts packages to DTOs, skipping nil entries.
func ToPackageDTOList(pkgs []*subscription.Package) []*PackageDTO {
	dtos := make([]*PackageDTO, 0, len(pkgs))
	for _, pkg := range pkgs {
		if pkg != nil {
			dtos = append(dtos, ToPackageDTO(pkg))
		}
	}
	return dtos
}

// ToSubscriptionDTO converts a Subscription to its public representation.
// pkg may be nil when the package lookup failed; package fields are omitted.
func ToSubscriptionDTO(sub *subscription.Subscription, pkg *subscription.Package) *SubscriptionDTO {
	if sub == nil {
		return nil
	}
	d := &SubscriptionDTO{
		SID:              sub.SID(),
		Status:           string(sub.EffectiveStatus(time.Now().UTC())),
		StartDate:        sub.StartDate(),
		EndDate:          sub.EndDate(),
		AutoRenew:        sub.AutoRenew(),
		CancellationDate: sub.CancellationDate(),
		DaysRemaining:    sub.DaysRemaining(),
	}
	if pkg != nil {
		d.PackageSID = pkg.SID()
		d.PackageName = pkg.Name()
	}
	return d
}

// ToCouponDTO converts a Coupon to its admin representation.
func ToCouponDTO(coupon *subscription.Coupon) *CouponDTO {
	if coupon == nil {
		return nil
	}
	return &CouponDTO{
		SID:           coupon.SID(),
		Code:          coupon.Code(),
		DiscountType:  string(coupon.DiscountType()),
		DiscountValue: coupon.DiscountValue(),
		ValidFrom:     coupon.ValidFrom(),
		ValidUntil:    coupon.ValidUntil(),
		MaxUses:       coupon.MaxUses(),
		UsedCount:     coupon.UsedCount(),
		Active:        coupon.IsActive(),
	}
}

// ToCouponDTOList converts coupons to DTOs, skipping nil entries.
func ToCouponDTOList(coupons []*subscription.Coupon) []*CouponDTO {
	dtos := make([]*CouponDTO, 0, len(coupons))
	for _, c := range coupons {
		if c != nil {
			dtos = append(dtos, ToCouponDTO(c))
		}
	}
	return dtos
}

// ToPaymentDTO converts a Payment to its public representation.
func ToPaymentDTO(p *subscription.Payment) *PaymentDTO {
	if p == nil {
		return nil
	}
	return &PaymentDTO{
		SID:           p.SID(),
		Amount:        p.Amount(),
		Discount:      p.Discount(),
		ChargedAmount: p.ChargedAmount(),
		Currency:      p.Currency(),
		Status:        string(p.Status()),
		CreatedAt:     p.CreatedAt(),
	}
}

// ToPaymentDTOList converts payments to DTOs, skipping nil entries.
func ToPaymentDTOList(payments []*subscription.Payment) []*PaymentDTO {
	dtos := make([]*PaymentDTO, 0, len(payments))
	for _, p := range payments {
		if p != nil {
			dtos = append(dtos, ToPaymentDTO(p))
		}
	}
	return dtos
}

// ToEntitlementDTO converts an entitlement snapshot to its public
// representation. A nil snapshot means the free tier.
func ToEntitlementDTO(snap *subscription.Snapshot) *EntitlementDTO {
	if snap == nil {
		return &EntitlementDTO{Tier: string(subscription.TierFree), Status: "none"}
	}
	expiresAt := snap.EndDate
	return &EntitlementDTO{
		Tier:      string(subscription.TierForSnapshot(snap)),
		Status:    string(snap.Status),
		ExpiresAt: &expiresAt,
	}
}
