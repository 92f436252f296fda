// Package mappers translates between domain aggregates and persistence
// models. Domain objects never see gorm types; models never see domain logic.
package mappers

import (
	"encoding/json"
	"fmt"

	"calmora/internal/domain/subscription"
	"calmora/internal/infrastructure/persistence/models"
)

type PackageMapper struct{}

func NewPackageMapper() *PackageMapper { return &PackageMapper{} }

func (m *PackageMapper) ToEntity(model *models.PackageModel) (*subscription.Package, error) {
	if model == nil {
		return nil, nil
	}
	var features []string
	if model.Features != nil {
		if err := json.Unmarshal(model.Features, &features); err != nil {
			return nil, fmt.Errorf("failed to unmarshal package features: %w", err)
		}
	}
	return subscription.ReconstructPackage(subscription.PackageReconstructParams{
		ID:                 model.ID,
		SID:                model.SID,
		Name:               model.Name,
		PackageType:        subscription.PackageType(model.PackageType),
		Price:              model.Price,
		Currency:           model.Currency,
		PeriodUnit:         subscription.PeriodUnit(model.PeriodUnit),
		PeriodCount:        model.PeriodCount,
		DurationDays:       model.DurationDays,
		DiscountPercentage: model.DiscountPercentage,
		Features:           features,
		Active:             model.Active,
		DisplayOrder:       model.DisplayOrder,
		Version:            model.Version,
		CreatedAt:          model.CreatedAt,
		UpdatedAt:          model.UpdatedAt,
	})
}

func (m *PackageMapper) ToModel(entity *subscription.Package) (*models.PackageModel, error) {
	if entity == nil {
		return nil, nil
	}
	features, err := json.Marshal(entity.Features())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal package features: %w", err)
	}
	return &models.PackageModel{
		ID:                 entity.ID(),
		SID:                entity.SID(),
		Name:               entity.Name(),
		PackageType:        string(entity.Type()),
		Price:              entity.Price(),
		Currency:           entity.Currency(),
		PeriodUnit:         string(entity.PeriodUnit()),
		PeriodCount:        entity.PeriodCount(),
		DurationDays:       entity.DurationDays(),
		DiscountPercentage: entity.DiscountPercentage(),
		Features:           features,
		Active:             entity.IsActive(),
		DisplayOrder:       entity.DisplayOrder(),
		Version:            entity.Version(),
		CreatedAt:          entity.CreatedAt(),
		UpdatedAt:          entity.UpdatedAt(),
	}, nil
}

func (m *PackageMapper) ToEntities(ms []*models.PackageModel) ([]*subscription.Package, error) {
	out := make([]*subscription.Package, 0, len(ms))
	for _, model := range ms {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, nil
}

type CouponMapper struct{}

func NewCouponMapper() *CouponMapper { return &CouponMapper{} }

func (m *CouponMapper) ToEntity(model *models.CouponModel) (*subscription.Coupon, error) {
	if model == nil {
		return nil, nil
	}
	var applicable []uint
	if model.ApplicablePackages != nil {
		if err := json.Unmarshal(model.ApplicablePackages, &applicable); err != nil {
			return nil, fmt.Errorf("failed to unmarshal applicable packages: %w", err)
		}
	}
	return subscription.ReconstructCoupon(subscription.CouponReconstructParams{
		ID:                 model.ID,
		SID:                model.SID,
		Code:               model.Code,
		DiscountType:       subscription.DiscountType(model.DiscountType),
		DiscountValue:      model.DiscountValue,
		MaxUses:            model.MaxUses,
		UsedCount:          model.UsedCount,
		ValidFrom:          model.ValidFrom,
		ValidUntil:         model.ValidUntil,
		Active:             model.Active,
		ApplicablePackages: applicable,
		Version:            model.Version,
		CreatedAt:          model.CreatedAt,
		UpdatedAt:          model.UpdatedAt,
	})
}

func (m *CouponMapper) ToModel(entity *subscription.Coupon) (*models.CouponModel, error) {
	if entity == nil {
		return nil, nil
	}
	applicable, err := json.Marshal(entity.ApplicablePackages())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal applicable packages: %w", err)
	}
	return &models.CouponModel{
		ID:                 entity.ID(),
		SID:                entity.SID(),
		Code:               entity.Code(),
		DiscountType:       string(entity.DiscountType()),
		DiscountValue:      entity.DiscountValue(),
		MaxUses:            entity.MaxUses(),
		UsedCount:          entity.UsedCount(),
		ValidFrom:          entity.ValidFrom(),
		ValidUntil:         entity.ValidUntil(),
		ApplicablePackages: applicable,
		Active:             entity.IsActive(),
		Version:            entity.Version(),
		CreatedAt:          entity.CreatedAt(),
		UpdatedAt:          entity.UpdatedAt(),
	}, nil
}

func (m *CouponMapper) ToEntities(ms []*models.CouponModel) ([]*subscription.Coupon, error) {
	out := make([]*subscription.Coupon, 0, len(ms))
	for _, model := range ms {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, nil
}

type SubscriptionMapper struct{}

func NewSubscriptionMapper() *SubscriptionMapper { return &SubscriptionMapper{} }

func (m *SubscriptionMapper) ToEntity(model *models.SubscriptionModel) (*subscription.Subscription, error) {
	if model == nil {
		return nil, nil
	}
	status := subscription.Status(model.Status)
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid subscription status: %s", model.Status)
	}
	return subscription.ReconstructSubscription(subscription.SubscriptionReconstructParams{
		ID:               model.ID,
		SID:              model.SID,
		UserID:           model.UserID,
		PackageID:        model.PackageID,
		Status:           status,
		StartDate:        model.StartDate,
		EndDate:          model.EndDate,
		AutoRenew:        model.AutoRenew,
		CancellationDate: model.CancellationDate,
		Version:          model.Version,
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
	})
}

func (m *SubscriptionMapper) ToModel(entity *subscription.Subscription) (*models.SubscriptionModel, error) {
	if entity == nil {
		return nil, nil
	}
	return &models.SubscriptionModel{
		ID:               entity.ID(),
		SID:              entity.SID(),
		UserID:           entity.UserID(),
		PackageID:        entity.PackageID(),
		Status:           string(entity.Status()),
		StartDate:        entity.StartDate(),
		EndDate:          entity.EndDate(),
		AutoRenew:        entity.AutoRenew(),
		CancellationDate: entity.CancellationDate(),
		Version:          entity.Version(),
		CreatedAt:        entity.CreatedAt(),
		UpdatedAt:        entity.UpdatedAt(),
	}, nil
}

func (m *SubscriptionMapper) ToEntities(ms []*models.SubscriptionModel) ([]*subscription.Subscription, error) {
	out := make([]*subscription.Subscription, 0, len(ms))
	for _, model := range ms {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, nil
}

type PaymentMapper struct{}

func NewPaymentMapper() *PaymentMapper { return &PaymentMapper{} }

func (m *PaymentMapper) ToEntity(model *models.PaymentModel) (*subscription.Payment, error) {
	if model == nil {
		return nil, nil
	}
	return subscription.ReconstructPayment(subscription.PaymentReconstructParams{
		ID:             model.ID,
		SID:            model.SID,
		UserID:         model.UserID,
		SubscriptionID: model.SubscriptionID,
		PackageID:      model.PackageID,
		Amount:         model.Amount,
		Discount:       model.Discount,
		Currency:       model.Currency,
		CouponID:       model.CouponID,
		Status:         subscription.PaymentStatus(model.Status),
		ProviderRef:    model.ProviderRef,
		FailureReason:  model.FailureReason,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	})
}

func (m *PaymentMapper) ToModel(entity *subscription.Payment) (*models.PaymentModel, error) {
	if entity == nil {
		return nil, nil
	}
	return &models.PaymentModel{
		ID:             entity.ID(),
		SID:            entity.SID(),
		UserID:         entity.UserID(),
		SubscriptionID: entity.SubscriptionID(),
		PackageID:      entity.PackageID(),
		Amount:         entity.Amount(),
		Discount:       entity.Discount(),
		Currency:       entity.Currency(),
		CouponID:       entity.CouponID(),
		Status:         string(entity.Status()),
		ProviderRef:    entity.ProviderRef(),
		FailureReason:  entity.FailureReason(),
		CreatedAt:      entity.CreatedAt(),
		UpdatedAt:      entity.UpdatedAt(),
	}, nil
}

func (m *PaymentMapper) ToEntities(ms []*models.PaymentModel) ([]*subscription.Payment, error) {
	out := make([]*subscription.Payment, 0, len(ms))
	for _, model := range ms {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, nil
}
