package usecases

import (
	"context"
	"fmt"

	"calmora/internal/application/subscription/dto"
	"calmora/internal/domain/subscription"
	"calmora/internal/shared/logger"
)

// ListPaymentsUseCase returns the user's payment history, newest first.
type ListPaymentsUseCase struct {
	paymentRepo subscription.PaymentRepository
	logger      logger.Interface
}

func NewListPaymentsUseCase(paymentRepo subscription.PaymentRepository, logger logger.Interface) *ListPaymentsUseCase {
	return &ListPaymentsUseCase{paymentRepo: paymentRepo, logger: logger}
}

func (uc *ListPaymentsUseCase) Execute(ctx context.Context, userID uint, offset, limit int) ([]*dto.PaymentDTO, int64, error) {
	payments, total, err := uc.paymentRepo.ListByUserID(ctx, userID, offset, limit)
	if err != nil {
		uc.logger.Errorw("failed to list payments", "error", err, "user_id", userID)
		return nil, 0, fmt.Errorf("failed to list payments: %w", err)
	}
	return dto.ToPaymentDTOList(payments), total, nil
}
