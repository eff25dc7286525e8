package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/config"
	"github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/internal/models"
	"github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/internal/services"
	apperrors "github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func discountTestConfig() *config.Config {
	return &config.Config{
		Discount: config.DiscountConfig{
			MinPercent: 21,
			MaxPercent: 31,
		},
	}
}

func TestDiscountService_Claim(t *testing.T) {
	mockRepo := new(MockDiscountRepository)
	service := services.NewDiscountService(mockRepo, discountTestConfig())
	ctx := context.Background()

	mockRepo.On("ExistingClaim", mock.Anything, "Jane Doe", "880171234567").Return(false, nil).Once()
	mockRepo.On("CreateClaim", mock.Anything, mock.MatchedBy(func(claim *models.DiscountClaim) bool {
		return claim.Name == "Jane Doe" &&
			claim.Phone == "880171234567" &&
			claim.CarModel == "Corolla" &&
			claim.Discount >= 21 && claim.Discount <= 31
	})).Return(nil).Once()

	outcome := service.Claim(ctx, &models.DiscountClaimRequest{
		Name:     "  Jane Doe ",
		Phone:    "+880 171-234567",
		CarModel: "Corolla",
	})

	assert.Equal(t, models.StatusOK, outcome.Status)
	assert.GreaterOrEqual(t, outcome.Discount, 21)
	assert.LessOrEqual(t, outcome.Discount, 31)

	mockRepo.AssertExpectations(t)
}

func TestDiscountService_Claim_RangeBounds(t *testing.T) {
	ctx := context.Background()

	// The random source draws from [0, span); pin it to both ends
	for _, tc := range []struct {
		draw int
		want int
	}{
		{draw: 0, want: 21},
		{draw: 10, want: 31},
	} {
		mockRepo := new(MockDiscountRepository)
		service := services.NewDiscountService(mockRepo, discountTestConfig()).
			WithRand(func(n int) int {
				assert.Equal(t, 11, n)
				return tc.draw
			})

		mockRepo.On("ExistingClaim", mock.Anything, mock.Anything, mock.Anything).Return(false, nil).Once()
		mockRepo.On("CreateClaim", mock.Anything, mock.Anything).Return(nil).Once()

		outcome := service.Claim(ctx, &models.DiscountClaimRequest{
			Name:     fmt.Sprintf("Customer %d", tc.draw),
			Phone:    fmt.Sprintf("01700%06d", tc.draw),
			CarModel: "Axio",
		})

		assert.Equal(t, models.StatusOK, outcome.Status)
		assert.Equal(t, tc.want, outcome.Discount)
		mockRepo.AssertExpectations(t)
	}
}

func TestDiscountService_Claim_MissingFields(t *testing.T) {
	mockRepo := new(MockDiscountRepository)
	service := services.NewDiscountService(mockRepo, discountTestConfig())
	ctx := context.Background()

	// Whitespace-only values normalize to empty and count as missing
	outcome := service.Claim(ctx, &models.DiscountClaimRequest{
		Name:     "Jane Doe",
		Phone:    "   ",
		CarModel: "Corolla",
	})

	assert.Equal(t, models.StatusMissingFields, outcome.Status)
	assert.Zero(t, outcome.Discount)

	mockRepo.AssertNotCalled(t, "ExistingClaim")
	mockRepo.AssertNotCalled(t, "CreateClaim")
}

func TestDiscountService_Claim_PhoneStripsToEmpty(t *testing.T) {
	mockRepo := new(MockDiscountRepository)
	service := services.NewDiscountService(mockRepo, discountTestConfig())
	ctx := context.Background()

	// A phone with no digits at all is missing after normalization
	outcome := service.Claim(ctx, &models.DiscountClaimRequest{
		Name:     "Jane Doe",
		Phone:    "call me",
		CarModel: "Corolla",
	})

	assert.Equal(t, models.StatusMissingFields, outcome.Status)
	mockRepo.AssertNotCalled(t, "ExistingClaim")
}

func TestDiscountService_Claim_Duplicate(t *testing.T) {
	mockRepo := new(MockDiscountRepository)
	service := services.NewDiscountService(mockRepo, discountTestConfig())
	ctx := context.Background()

	mockRepo.On("ExistingClaim", mock.Anything, "Jane Doe", "880171234567").Return(true, nil).Once()

	outcome := service.Claim(ctx, &models.DiscountClaimRequest{
		Name:     "Jane Doe",
		Phone:    "880171234567",
		CarModel: "Corolla",
	})

	assert.Equal(t, models.StatusDuplicate, outcome.Status)
	assert.Zero(t, outcome.Discount)

	mockRepo.AssertExpectations(t)
	mockRepo.AssertNotCalled(t, "CreateClaim")
}

func TestDiscountService_Claim_InsertRaceDuplicate(t *testing.T) {
	mockRepo := new(MockDiscountRepository)
	service := services.NewDiscountService(mockRepo, discountTestConfig())
	ctx := context.Background()

	mockRepo.On("ExistingClaim", mock.Anything, mock.Anything, mock.Anything).Return(false, nil).Once()
	mockRepo.On("CreateClaim", mock.Anything, mock.Anything).
		Return(fmt.Errorf("claim already exists: %w", apperrors.ErrDuplicate)).Once()

	outcome := service.Claim(ctx, &models.DiscountClaimRequest{
		Name:     "Jane Doe",
		Phone:    "880171234567",
		CarModel: "Corolla",
	})

	assert.Equal(t, models.StatusDuplicate, outcome.Status)
	mockRepo.AssertExpectations(t)
}

func TestDiscountService_Claim_CheckError(t *testing.T) {
	mockRepo := new(MockDiscountRepository)
	service := services.NewDiscountService(mockRepo, discountTestConfig())
	ctx := context.Background()

	mockRepo.On("ExistingClaim", mock.Anything, mock.Anything, mock.Anything).
		Return(false, errors.New("connection refused")).Once()

	outcome := service.Claim(ctx, &models.DiscountClaimRequest{
		Name:     "Jane Doe",
		Phone:    "880171234567",
		CarModel: "Corolla",
	})

	assert.Equal(t, models.StatusError, outcome.Status)
	assert.Equal(t, "Failed to check existing claims.", outcome.Message)
	mockRepo.AssertNotCalled(t, "CreateClaim")
}

func TestDiscountService_Claim_InsertError(t *testing.T) {
	mockRepo := new(MockDiscountRepository)
	service := services.NewDiscountService(mockRepo, discountTestConfig())
	ctx := context.Background()

	mockRepo.On("ExistingClaim", mock.Anything, mock.Anything, mock.Anything).Return(false, nil).Once()
	mockRepo.On("CreateClaim", mock.Anything, mock.Anything).
		Return(errors.New("connection refused")).Once()

	outcome := service.Claim(ctx, &models.DiscountClaimRequest{
		Name:     "Jane Doe",
		Phone:    "880171234567",
		CarModel: "Corolla",
	})

	assert.Equal(t, models.StatusError, outcome.Status)
	assert.Equal(t, "Failed to save discount claim.", outcome.Message)
	mockRepo.AssertExpectations(t)
}

func TestDiscountService_Claim_StoreNotConfigured(t *testing.T) {
	service := services.NewDiscountService(nil, discountTestConfig())
	ctx := context.Background()

	outcome := service.Claim(ctx, &models.DiscountClaimRequest{
		Name:     "Jane Doe",
		Phone:    "880171234567",
		CarModel: "Corolla",
	})

	assert.Equal(t, models.StatusMisconfigured, outcome.Status)
	assert.NotEmpty(t, outcome.Message)
}
