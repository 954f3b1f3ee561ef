package promotion

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/promotion"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CouponService manages discount coupons
type CouponService struct {
	couponRepo promotion.CouponRepository
	logger     *zap.Logger
}

// NewCouponService creates a new coupon service
func NewCouponService(couponRepo promotion.CouponRepository, logger *zap.Logger) *CouponService {
	return &CouponService{
		couponRepo: couponRepo,
		logger:     logger,
	}
}

// CreateCoupon adds a new coupon (admin)
func (s *CouponService) CreateCoupon(ctx context.Context, input CreateCouponInput) (*CouponInfo, error) {
	exists, err := s.couponRepo.ExistsByCode(ctx, input.Code)
	if err != nil {
		s.logger.Error("Failed to check coupon code", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create coupon")
	}
	if exists {
		return nil, shared.NewDomainError("CODE_TAKEN", "A coupon with this code already exists")
	}

	coupon, err := promotion.NewCoupon(
		input.Code,
		promotion.CouponType(input.Type),
		input.Value,
		input.MinSubtotal,
		input.UsageLimit,
		input.StartsAt,
		input.ExpiresAt,
	)
	if err != nil {
		return nil, err
	}

	if err := s.couponRepo.Save(ctx, coupon); err != nil {
		s.logger.Error("Failed to save coupon", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create coupon")
	}

	s.logger.Info("Coupon created",
		zap.String("code", coupon.Code),
		zap.String("coupon_id", coupon.ID.String()))

	info := NewCouponInfo(coupon)
	return &info, nil
}

// GetCoupon returns one coupon by ID (admin)
func (s *CouponService) GetCoupon(ctx context.Context, couponID uuid.UUID) (*CouponInfo, error) {
	coupon, err := s.couponRepo.FindByID(ctx, couponID)
	if err != nil {
		return nil, shared.NewDomainError("COUPON_NOT_FOUND", "Coupon not found")
	}

	info := NewCouponInfo(coupon)
	return &info, nil
}

// ListCoupons returns a page of coupons (admin)
func (s *CouponService) ListCoupons(ctx context.Context, input ListCouponsInput) (*ListCouponsResult, error) {
	filter := shared.Filter{
		Page:     input.Page,
		PageSize: input.PageSize,
		Filters:  map[string]interface{}{},
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	if filter.PageSize > 100 {
		filter.PageSize = 100
	}
	if input.Status != "" {
		filter.Filters["status"] = input.Status
	}
	if input.Type != "" {
		filter.Filters["type"] = input.Type
	}

	coupons, err := s.couponRepo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list coupons", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list coupons")
	}
	total, err := s.couponRepo.Count(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to count coupons", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list coupons")
	}

	infos := make([]CouponInfo, 0, len(coupons))
	for i := range coupons {
		infos = append(infos, NewCouponInfo(&coupons[i]))
	}

	return &ListCouponsResult{
		Coupons:  infos,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

// UpdateCoupon changes a coupon's value, minimum subtotal, usage
// limit, and validity window (admin). The code and type are immutable.
func (s *CouponService) UpdateCoupon(ctx context.Context, couponID uuid.UUID, input UpdateCouponInput) (*CouponInfo, error) {
	coupon, err := s.couponRepo.FindByID(ctx, couponID)
	if err != nil {
		return nil, shared.NewDomainError("COUPON_NOT_FOUND", "Coupon not found")
	}

	if err := coupon.Update(input.Value, input.MinSubtotal, input.UsageLimit, input.StartsAt, input.ExpiresAt); err != nil {
		return nil, err
	}

	if err := s.couponRepo.Save(ctx, coupon); err != nil {
		s.logger.Error("Failed to save coupon", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update coupon")
	}

	s.logger.Info("Coupon updated",
		zap.String("code", coupon.Code),
		zap.String("coupon_id", coupon.ID.String()))

	info := NewCouponInfo(coupon)
	return &info, nil
}

// DisableCoupon stops further redemptions of a coupon (admin)
func (s *CouponService) DisableCoupon(ctx context.Context, couponID uuid.UUID) error {
	return s.setCouponStatus(ctx, couponID, false)
}

// EnableCoupon re-activates a disabled coupon (admin)
func (s *CouponService) EnableCoupon(ctx context.Context, couponID uuid.UUID) error {
	return s.setCouponStatus(ctx, couponID, true)
}

func (s *CouponService) setCouponStatus(ctx context.Context, couponID uuid.UUID, active bool) error {
	coupon, err := s.couponRepo.FindByID(ctx, couponID)
	if err != nil {
		return shared.NewDomainError("COUPON_NOT_FOUND", "Coupon not found")
	}

	if active {
		err = coupon.Enable()
	} else {
		err = coupon.Disable()
	}
	if err != nil {
		return err
	}

	if err := s.couponRepo.Save(ctx, coupon); err != nil {
		s.logger.Error("Failed to save coupon status", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to update coupon")
	}
	return nil
}

// DeleteCoupon removes a coupon that was never redeemed (admin).
// Redeemed coupons are disabled instead so order history stays explainable.
func (s *CouponService) DeleteCoupon(ctx context.Context, couponID uuid.UUID) error {
	coupon, err := s.couponRepo.FindByID(ctx, couponID)
	if err != nil {
		return shared.NewDomainError("COUPON_NOT_FOUND", "Coupon not found")
	}
	if coupon.UsageCount > 0 {
		return shared.NewDomainError("COUPON_IN_USE", "Coupon has been redeemed and cannot be deleted")
	}

	if err := s.couponRepo.Delete(ctx, couponID); err != nil {
		s.logger.Error("Failed to delete coupon", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete coupon")
	}
	return nil
}

// ValidateCoupon checks a code against a cart subtotal without
// redeeming it. Invalid coupons produce a result, not an error.
func (s *CouponService) ValidateCoupon(ctx context.Context, code string, subtotal decimal.Decimal) (*ValidationResult, error) {
	coupon, err := s.couponRepo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return &ValidationResult{Code: code, Valid: false, Reason: "COUPON_NOT_FOUND"}, nil
		}
		s.logger.Error("Failed to load coupon", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to validate coupon")
	}

	if err := coupon.ValidateFor(subtotal, time.Now()); err != nil {
		result := &ValidationResult{Code: coupon.Code, Valid: false, Reason: "COUPON_INVALID"}
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) {
			result.Reason = domainErr.Code
		}
		return result, nil
	}

	return &ValidationResult{
		Code:     coupon.Code,
		Valid:    true,
		Discount: coupon.Discount(subtotal),
	}, nil
}
