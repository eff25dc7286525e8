package services_test

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/config"
	"github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/internal/models"
	"github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/internal/services"
	"github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/pkg/formspree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func bookingTestConfig(policy string) *config.Config {
	return &config.Config{
		Booking: config.BookingConfig{
			WritePolicy:      policy,
			RemarksMaxLength: 1000,
		},
	}
}

func validBookingRequest() *models.BookingRequest {
	return &models.BookingRequest{
		Service:       "Basic Wash",
		CarType:       "Sedan",
		FullName:      "Jane Doe",
		Phone:         "+880 171-234567",
		Address:       "12 Gulshan Ave, Dhaka",
		DateTimeLocal: "2030-01-01T10:00",
	}
}

func okRelayResult() *formspree.Result {
	return &formspree.Result{
		StatusCode: 200,
		Body:       map[string]interface{}{"ok": true},
	}
}

func TestBookingService_Submit_Tolerant(t *testing.T) {
	mockRepo := new(MockBookingRepository)
	mockRelay := new(MockRelay)
	service := services.NewBookingService(mockRepo, mockRelay, bookingTestConfig(config.WritePolicyTolerant))
	ctx := context.Background()

	wantRequestedAt := time.Date(2030, 1, 1, 10, 0, 0, 0, time.Local).UTC()

	var sentForm url.Values
	mockRelay.On("Submit", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			sentForm = args.Get(1).(url.Values)
		}).
		Return(okRelayResult(), nil).Once()

	mockRepo.On("UpsertBooking", mock.Anything, mock.MatchedBy(func(rec *models.BookingRecord) bool {
		return rec.Service == "Basic Wash" &&
			rec.CarType == "Sedan" &&
			rec.Phone == "880171234567" &&
			rec.RequestedAt.Equal(wantRequestedAt) &&
			rec.FormspreeStatus != nil && *rec.FormspreeStatus == 200
	})).Return(int64(42), nil).Once()

	outcome := service.Submit(ctx, validBookingRequest(), models.RequestMeta{})

	assert.Equal(t, models.StatusOK, outcome.Status)
	assert.NotNil(t, outcome.BookingID)
	assert.Equal(t, int64(42), *outcome.BookingID)
	assert.True(t, outcome.SavedToSupabase)
	assert.True(t, outcome.EmailSent)
	assert.Nil(t, outcome.StoreError)

	assert.Equal(t, "Basic Wash", sentForm.Get("service"))
	assert.Equal(t, "Sedan", sentForm.Get("car_type"))
	assert.Equal(t, "880171234567", sentForm.Get("phone"))
	assert.Equal(t, wantRequestedAt.Format(time.RFC3339), sentForm.Get("requested_datetime"))
	assert.Equal(t, "New booking request: Basic Wash (Sedan)", sentForm.Get("_subject"))

	mockRepo.AssertExpectations(t)
	mockRelay.AssertExpectations(t)
}

func TestBookingService_Submit_AllOptionCombinations(t *testing.T) {
	// Every advertised service and car type must pass validation
	for _, service := range models.ServiceOptions {
		for _, carType := range models.CarTypeOptions {
			mockRepo := new(MockBookingRepository)
			mockRelay := new(MockRelay)
			svc := services.NewBookingService(mockRepo, mockRelay, bookingTestConfig(config.WritePolicyTolerant))

			mockRelay.On("Submit", mock.Anything, mock.Anything).Return(okRelayResult(), nil).Once()
			mockRepo.On("UpsertBooking", mock.Anything, mock.Anything).Return(int64(1), nil).Once()

			req := validBookingRequest()
			req.Service = service
			req.CarType = carType

			outcome := svc.Submit(context.Background(), req, models.RequestMeta{})
			assert.Equal(t, models.StatusOK, outcome.Status, "service %q, car type %q", service, carType)
		}
	}
}

func TestBookingService_Submit_MissingField(t *testing.T) {
	mockRepo := new(MockBookingRepository)
	mockRelay := new(MockRelay)
	service := services.NewBookingService(mockRepo, mockRelay, bookingTestConfig(config.WritePolicyTolerant))
	ctx := context.Background()

	req := validBookingRequest()
	req.FullName = "   "

	outcome := service.Submit(ctx, req, models.RequestMeta{})

	assert.Equal(t, models.StatusMissingFields, outcome.Status)
	assert.Equal(t, "Please fill out all required fields.", outcome.Message)
	assert.Nil(t, outcome.BookingID)

	mockRepo.AssertNotCalled(t, "UpsertBooking")
	mockRelay.AssertNotCalled(t, "Submit")
}

func TestBookingService_Submit_UnparseableDateTime(t *testing.T) {
	mockRepo := new(MockBookingRepository)
	mockRelay := new(MockRelay)
	service := services.NewBookingService(mockRepo, mockRelay, bookingTestConfig(config.WritePolicyTolerant))
	ctx := context.Background()

	// An unparseable datetime is treated as absent, which is a missing field
	req := validBookingRequest()
	req.DateTimeLocal = "next tuesday"

	outcome := service.Submit(ctx, req, models.RequestMeta{})

	assert.Equal(t, models.StatusMissingFields, outcome.Status)
	mockRepo.AssertNotCalled(t, "UpsertBooking")
	mockRelay.AssertNotCalled(t, "Submit")
}

func TestBookingService_Submit_InvalidService(t *testing.T) {
	mockRepo := new(MockBookingRepository)
	mockRelay := new(MockRelay)
	service := services.NewBookingService(mockRepo, mockRelay, bookingTestConfig(config.WritePolicyTolerant))
	ctx := context.Background()

	req := validBookingRequest()
	req.Service = "Oil Change"

	outcome := service.Submit(ctx, req, models.RequestMeta{})

	assert.Equal(t, models.StatusInvalidFields, outcome.Status)
	assert.Equal(t, "Invalid service selected.", outcome.Message)

	mockRepo.AssertNotCalled(t, "UpsertBooking")
	mockRelay.AssertNotCalled(t, "Submit")
}

func TestBookingService_Submit_InvalidCarType(t *testing.T) {
	mockRepo := new(MockBookingRepository)
	mockRelay := new(MockRelay)
	service := services.NewBookingService(mockRepo, mockRelay, bookingTestConfig(config.WritePolicyTolerant))
	ctx := context.Background()

	req := validBookingRequest()
	req.CarType = "Truck"

	outcome := service.Submit(ctx, req, models.RequestMeta{})

	assert.Equal(t, models.StatusInvalidFields, outcome.Status)
	assert.Equal(t, "Invalid car type selected.", outcome.Message)

	mockRepo.AssertNotCalled(t, "UpsertBooking")
	mockRelay.AssertNotCalled(t, "Submit")
}

func TestBookingService_Submit_Tolerant_RelayNetworkError(t *testing.T) {
	mockRepo := new(MockBookingRepository)
	mockRelay := new(MockRelay)
	service := services.NewBookingService(mockRepo, mockRelay, bookingTestConfig(config.WritePolicyTolerant))
	ctx := context.Background()

	mockRelay.On("Submit", mock.Anything, mock.Anything).
		Return(nil, errors.New("dial tcp: connection refused")).Once()

	// The store still gets the booking; delivery metadata stays unset
	mockRepo.On("UpsertBooking", mock.Anything, mock.MatchedBy(func(rec *models.BookingRecord) bool {
		return rec.FormspreeStatus == nil
	})).Return(int64(7), nil).Once()

	outcome := service.Submit(ctx, validBookingRequest(), models.RequestMeta{})

	assert.Equal(t, models.StatusFormspreeError, outcome.Status)
	assert.Equal(t, "Booking saved, but email notification failed. Please try again.", outcome.Message)
	assert.False(t, outcome.EmailSent)
	assert.True(t, outcome.SavedToSupabase)
	assert.NotNil(t, outcome.BookingID)

	mockRepo.AssertExpectations(t)
	mockRelay.AssertExpectations(t)
}

func TestBookingService_Submit_Tolerant_RelayRejected(t *testing.T) {
	mockRepo := new(MockBookingRepository)
	mockRelay := new(MockRelay)
	service := services.NewBookingService(mockRepo, mockRelay, bookingTestConfig(config.WritePolicyTolerant))
	ctx := context.Background()

	// A non-2xx relay response is a delivery failure too, and its status is
	// recorded on the stored row
	mockRelay.On("Submit", mock.Anything, mock.Anything).
		Return(&formspree.Result{StatusCode: 422, Body: map[string]interface{}{"error": "form disabled"}}, nil).Once()

	mockRepo.On("UpsertBooking", mock.Anything, mock.MatchedBy(func(rec *models.BookingRecord) bool {
		return rec.FormspreeStatus != nil && *rec.FormspreeStatus == 422
	})).Return(int64(8), nil).Once()

	outcome := service.Submit(ctx, validBookingRequest(), models.RequestMeta{})

	assert.Equal(t, models.StatusFormspreeError, outcome.Status)
	assert.False(t, outcome.EmailSent)
	assert.True(t, outcome.SavedToSupabase)

	mockRepo.AssertExpectations(t)
	mockRelay.AssertExpectations(t)
}

func TestBookingService_Submit_Tolerant_StoreFailure(t *testing.T) {
	mockRepo := new(MockBookingRepository)
	mockRelay := new(MockRelay)
	service := services.NewBookingService(mockRepo, mockRelay, bookingTestConfig(config.WritePolicyTolerant))
	ctx := context.Background()

	mockRelay.On("Submit", mock.Anything, mock.Anything).Return(okRelayResult(), nil).Once()
	mockRepo.On("UpsertBooking", mock.Anything, mock.Anything).
		Return(int64(0), errors.New("connection refused")).Once()

	outcome := service.Submit(ctx, validBookingRequest(), models.RequestMeta{})

	// Notification went out, so the submission still succeeds; the store
	// failure is reported alongside
	assert.Equal(t, models.StatusOK, outcome.Status)
	assert.True(t, outcome.EmailSent)
	assert.False(t, outcome.SavedToSupabase)
	assert.Nil(t, outcome.BookingID)
	assert.NotNil(t, outcome.StoreError)
	assert.Equal(t, "Failed to save booking request.", *outcome.StoreError)

	mockRepo.AssertExpectations(t)
	mockRelay.AssertExpectations(t)
}

func TestBookingService_Submit_Tolerant_RelayAndStoreFail(t *testing.T) {
	mockRepo := new(MockBookingRepository)
	mockRelay := new(MockRelay)
	service := services.NewBookingService(mockRepo, mockRelay, bookingTestConfig(config.WritePolicyTolerant))
	ctx := context.Background()

	mockRelay.On("Submit", mock.Anything, mock.Anything).
		Return(nil, errors.New("dial tcp: connection refused")).Once()
	mockRepo.On("UpsertBooking", mock.Anything, mock.Anything).
		Return(int64(0), errors.New("connection refused")).Once()

	outcome := service.Submit(ctx, validBookingRequest(), models.RequestMeta{})

	assert.Equal(t, models.StatusFormspreeError, outcome.Status)
	assert.Equal(t, "Email notification failed. Please try again.", outcome.Message)
	assert.False(t, outcome.EmailSent)
	assert.False(t, outcome.SavedToSupabase)
	assert.Nil(t, outcome.BookingID)
}

func TestBookingService_Submit_Tolerant_StoreNotConfigured(t *testing.T) {
	mockRelay := new(MockRelay)
	service := services.NewBookingService(nil, mockRelay, bookingTestConfig(config.WritePolicyTolerant))
	ctx := context.Background()

	mockRelay.On("Submit", mock.Anything, mock.Anything).Return(okRelayResult(), nil).Once()

	outcome := service.Submit(ctx, validBookingRequest(), models.RequestMeta{})

	assert.Equal(t, models.StatusOK, outcome.Status)
	assert.True(t, outcome.EmailSent)
	assert.False(t, outcome.SavedToSupabase)
	assert.NotNil(t, outcome.StoreError)

	mockRelay.AssertExpectations(t)
}

func TestBookingService_Submit_Idempotent(t *testing.T) {
	mockRepo := new(MockBookingRepository)
	mockRelay := new(MockRelay)
	service := services.NewBookingService(mockRepo, mockRelay, bookingTestConfig(config.WritePolicyTolerant))
	ctx := context.Background()

	var seen []*models.BookingRecord
	mockRelay.On("Submit", mock.Anything, mock.Anything).Return(okRelayResult(), nil).Twice()
	mockRepo.On("UpsertBooking", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			seen = append(seen, args.Get(1).(*models.BookingRecord))
		}).
		Return(int64(42), nil).Twice()

	first := service.Submit(ctx, validBookingRequest(), models.RequestMeta{})
	second := service.Submit(ctx, validBookingRequest(), models.RequestMeta{})

	assert.Equal(t, models.StatusOK, first.Status)
	assert.Equal(t, models.StatusOK, second.Status)
	assert.Equal(t, *first.BookingID, *second.BookingID)

	// Both upserts carry the same conflict key, so the store keeps one row
	assert.Len(t, seen, 2)
	assert.Equal(t, seen[0].Phone, seen[1].Phone)
	assert.True(t, seen[0].RequestedAt.Equal(seen[1].RequestedAt))
	assert.Equal(t, seen[0].Service, seen[1].Service)
	assert.Equal(t, seen[0].CarType, seen[1].CarType)
}

func TestBookingService_Submit_RemarksTruncatedAndMetaCaptured(t *testing.T) {
	mockRepo := new(MockBookingRepository)
	mockRelay := new(MockRelay)
	service := services.NewBookingService(mockRepo, mockRelay, bookingTestConfig(config.WritePolicyTolerant))
	ctx := context.Background()

	req := validBookingRequest()
	req.Remarks = strings.Repeat("x", 1500)

	userAgent := "Mozilla/5.0"
	ip := "203.0.113.9"
	referer := "https://crystalautodetailing.com/booking"
	meta := models.RequestMeta{UserAgent: &userAgent, IP: &ip, Referer: &referer}

	mockRelay.On("Submit", mock.Anything, mock.Anything).Return(okRelayResult(), nil).Once()
	mockRepo.On("UpsertBooking", mock.Anything, mock.MatchedBy(func(rec *models.BookingRecord) bool {
		return rec.Remarks != nil && len([]rune(*rec.Remarks)) == 1000 &&
			rec.UserAgent != nil && *rec.UserAgent == userAgent &&
			rec.IP != nil && *rec.IP == ip &&
			rec.SourcePage != nil && *rec.SourcePage == referer
	})).Return(int64(9), nil).Once()

	outcome := service.Submit(ctx, req, meta)

	assert.Equal(t, models.StatusOK, outcome.Status)
	mockRepo.AssertExpectations(t)
}

func TestBookingService_Submit_Strict(t *testing.T) {
	mockRepo := new(MockBookingRepository)
	mockRelay := new(MockRelay)
	service := services.NewBookingService(mockRepo, mockRelay, bookingTestConfig(config.WritePolicyStrict))
	ctx := context.Background()

	// Strict mode stores first (without delivery metadata), then notifies,
	// then records the relay outcome on the stored row
	mockRepo.On("UpsertBooking", mock.Anything, mock.MatchedBy(func(rec *models.BookingRecord) bool {
		return rec.FormspreeStatus == nil
	})).Return(int64(42), nil).Once()
	mockRelay.On("Submit", mock.Anything, mock.Anything).Return(okRelayResult(), nil).Once()
	mockRepo.On("UpdateDelivery", mock.Anything, int64(42), mock.MatchedBy(func(status *int) bool {
		return status != nil && *status == 200
	}), mock.Anything).Return(nil).Once()

	outcome := service.Submit(ctx, validBookingRequest(), models.RequestMeta{})

	assert.Equal(t, models.StatusOK, outcome.Status)
	assert.True(t, outcome.SavedToSupabase)
	assert.True(t, outcome.EmailSent)

	mockRepo.AssertExpectations(t)
	mockRelay.AssertExpectations(t)
}

func TestBookingService_Submit_Strict_StoreFailureAbortsRelay(t *testing.T) {
	mockRepo := new(MockBookingRepository)
	mockRelay := new(MockRelay)
	service := services.NewBookingService(mockRepo, mockRelay, bookingTestConfig(config.WritePolicyStrict))
	ctx := context.Background()

	mockRepo.On("UpsertBooking", mock.Anything, mock.Anything).
		Return(int64(0), errors.New("connection refused")).Once()

	outcome := service.Submit(ctx, validBookingRequest(), models.RequestMeta{})

	assert.Equal(t, models.StatusError, outcome.Status)
	assert.Equal(t, "Failed to save booking request.", outcome.Message)
	assert.Nil(t, outcome.BookingID)

	mockRelay.AssertNotCalled(t, "Submit")
	mockRepo.AssertNotCalled(t, "UpdateDelivery")
}

func TestBookingService_Submit_Strict_RelayFailureStillRecorded(t *testing.T) {
	mockRepo := new(MockBookingRepository)
	mockRelay := new(MockRelay)
	service := services.NewBookingService(mockRepo, mockRelay, bookingTestConfig(config.WritePolicyStrict))
	ctx := context.Background()

	mockRepo.On("UpsertBooking", mock.Anything, mock.Anything).Return(int64(42), nil).Once()
	mockRelay.On("Submit", mock.Anything, mock.Anything).
		Return(nil, errors.New("dial tcp: connection refused")).Once()
	// Delivery metadata update runs even when the relay call failed outright
	mockRepo.On("UpdateDelivery", mock.Anything, int64(42), (*int)(nil), nil).Return(nil).Once()

	outcome := service.Submit(ctx, validBookingRequest(), models.RequestMeta{})

	assert.Equal(t, models.StatusFormspreeError, outcome.Status)
	assert.Equal(t, "Booking saved, but email notification failed. Please try again.", outcome.Message)
	assert.True(t, outcome.SavedToSupabase)
	assert.False(t, outcome.EmailSent)
	assert.NotNil(t, outcome.BookingID)

	mockRepo.AssertExpectations(t)
	mockRelay.AssertExpectations(t)
}

func TestBookingService_Submit_Strict_StoreNotConfigured(t *testing.T) {
	mockRelay := new(MockRelay)
	service := services.NewBookingService(nil, mockRelay, bookingTestConfig(config.WritePolicyStrict))
	ctx := context.Background()

	outcome := service.Submit(ctx, validBookingRequest(), models.RequestMeta{})

	assert.Equal(t, models.StatusMisconfigured, outcome.Status)
	mockRelay.AssertNotCalled(t, "Submit")
}
