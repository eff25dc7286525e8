package services_test

import (
	"context"
	"net/url"

	"github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/internal/models"
	"github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/pkg/formspree"
	"github.com/stretchr/testify/mock"
)

// MockDiscountRepository is a mock implementation of DiscountRepositoryInterface
type MockDiscountRepository struct {
	mock.Mock
}

func (m *MockDiscountRepository) ExistingClaim(ctx context.Context, name, phone string) (bool, error) {
	args := m.Called(ctx, name, phone)
	return args.Bool(0), args.Error(1)
}

func (m *MockDiscountRepository) CreateClaim(ctx context.Context, claim *models.DiscountClaim) error {
	args := m.Called(ctx, claim)
	return args.Error(0)
}

func (m *MockDiscountRepository) ListClaims(ctx context.Context, limit int) ([]*models.StoredDiscount, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.StoredDiscount), args.Error(1)
}

// MockBookingRepository is a mock implementation of BookingRepositoryInterface
type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) UpsertBooking(ctx context.Context, rec *models.BookingRecord) (int64, error) {
	args := m.Called(ctx, rec)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBookingRepository) UpdateDelivery(ctx context.Context, id int64, status *int, response interface{}) error {
	args := m.Called(ctx, id, status, response)
	return args.Error(0)
}

func (m *MockBookingRepository) ListBookings(ctx context.Context, limit int) ([]*models.StoredBooking, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.StoredBooking), args.Error(1)
}

// MockRelay is a mock implementation of NotificationRelay
type MockRelay struct {
	mock.Mock
}

func (m *MockRelay) Submit(ctx context.Context, form url.Values) (*formspree.Result, error) {
	args := m.Called(ctx, form)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*formspree.Result), args.Error(1)
}
