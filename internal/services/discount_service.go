package services

import (
	"context"
	"math/rand"

	"github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/config"
	"github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/internal/models"
	"github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/internal/repository"
	apperrors "github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/pkg/errors"
	"github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/pkg/logger"
	"github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/pkg/metrics"
	"go.uber.org/zap"
)

// DiscountService issues one-time discount coupons. Unlike the booking
// pipeline it requires the persistent store: without a ledger of prior
// claims the at-most-one-per-person rule cannot be enforced.
type DiscountService struct {
	repo    repository.DiscountRepositoryInterface
	cfg     *config.Config
	randInt func(n int) int
}

// NewDiscountService creates a new discount service. repo may be nil when
// the store is unconfigured; claims then fail with a misconfigured outcome.
func NewDiscountService(repo repository.DiscountRepositoryInterface, cfg *config.Config) *DiscountService {
	return &DiscountService{
		repo:    repo,
		cfg:     cfg,
		randInt: rand.Intn, //nolint:gosec // G404: coupon percentages, not secrets
	}
}

// WithRand substitutes the integer source for deterministic tests
func (s *DiscountService) WithRand(fn func(n int) int) *DiscountService {
	s.randInt = fn
	return s
}

// Claim validates and normalizes a discount claim, rejects duplicates by
// name (case-insensitive) or phone, and otherwise issues a percentage drawn
// uniformly from the configured inclusive range. Exactly one read and, absent
// a duplicate, exactly one insert; no retries.
func (s *DiscountService) Claim(ctx context.Context, req *models.DiscountClaimRequest) *models.DiscountOutcome {
	outcome := s.claim(ctx, req)
	metrics.DiscountClaims.WithLabelValues(outcome.Status).Inc()
	return outcome
}

func (s *DiscountService) claim(ctx context.Context, req *models.DiscountClaimRequest) *models.DiscountOutcome {
	name := normalizeText(req.Name)
	phone := normalizePhone(req.Phone)
	carModel := normalizeText(req.CarModel)

	if name == "" || phone == "" || carModel == "" {
		return &models.DiscountOutcome{Status: models.StatusMissingFields}
	}

	if s.repo == nil {
		return &models.DiscountOutcome{
			Status:  models.StatusMisconfigured,
			Message: "Persistent store is not configured.",
		}
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	exists, err := s.repo.ExistingClaim(ctx, name, phone)
	if err != nil {
		logger.Error("Failed to check existing claims", zap.Error(err))
		return &models.DiscountOutcome{
			Status:  models.StatusError,
			Message: "Failed to check existing claims.",
		}
	}
	if exists {
		return &models.DiscountOutcome{Status: models.StatusDuplicate}
	}

	span := s.cfg.Discount.MaxPercent - s.cfg.Discount.MinPercent + 1
	discount := s.cfg.Discount.MinPercent + s.randInt(span)

	claim := &models.DiscountClaim{
		Name:     name,
		Phone:    phone,
		CarModel: carModel,
		Discount: discount,
	}

	if err := s.repo.CreateClaim(ctx, claim); err != nil {
		// A concurrent claim can win the race between the existence check
		// and the insert; the unique indexes turn that into ErrDuplicate
		// and the caller sees the same conflict outcome either way.
		if apperrors.Is(err, apperrors.ErrDuplicate) {
			return &models.DiscountOutcome{Status: models.StatusDuplicate}
		}
		logger.Error("Failed to create discount claim", zap.Error(err))
		return &models.DiscountOutcome{
			Status:  models.StatusError,
			Message: "Failed to save discount claim.",
		}
	}

	metrics.DiscountIssued.Observe(float64(discount))
	logger.Info("Discount claim issued",
		zap.Int("discount", discount),
		zap.String("car_model", carModel))

	return &models.DiscountOutcome{
		Status:   models.StatusOK,
		Discount: discount,
	}
}
