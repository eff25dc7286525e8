package services

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/config"
	"github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/internal/models"
	"github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/internal/repository"
	"github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/pkg/formspree"
	"github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/pkg/logger"
	"github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/pkg/metrics"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var validate = validator.New()

const (
	msgMissingFields  = "Please fill out all required fields."
	msgInvalidService = "Invalid service selected."
	msgInvalidCarType = "Invalid car type selected."
	msgSaveFailed     = "Failed to save booking request."
	msgNotifyFailed   = "Email notification failed. Please try again."
	msgSavedNotNotify = "Booking saved, but email notification failed. Please try again."
)

// BookingService runs the dual-sink submission pipeline: persistence to the
// Supabase-hosted store and notification through the Formspree relay. The
// write policy decides the ordering and which sink is allowed to fail.
type BookingService struct {
	repo  repository.BookingRepositoryInterface
	relay NotificationRelay
	cfg   *config.Config
}

// NewBookingService creates a new booking service. repo may be nil under the
// tolerant policy; the pipeline then runs notify-only.
func NewBookingService(repo repository.BookingRepositoryInterface, relay NotificationRelay, cfg *config.Config) *BookingService {
	return &BookingService{
		repo:  repo,
		relay: relay,
		cfg:   cfg,
	}
}

// Submit normalizes and validates the booking, then executes the configured
// write policy. Input errors never reach either sink.
func (s *BookingService) Submit(ctx context.Context, req *models.BookingRequest, meta models.RequestMeta) *models.BookingOutcome {
	outcome := s.submit(ctx, req, meta)
	metrics.BookingSubmissions.WithLabelValues(outcome.Status).Inc()
	return outcome
}

func (s *BookingService) submit(ctx context.Context, req *models.BookingRequest, meta models.RequestMeta) *models.BookingOutcome {
	sub := s.normalize(req, meta)

	if err := validate.Struct(sub); err != nil {
		return classifyValidationError(err)
	}

	rec := &models.BookingRecord{
		Service:     sub.Service,
		CarType:     sub.CarType,
		FullName:    sub.FullName,
		Phone:       sub.Phone,
		Address:     sub.Address,
		RequestedAt: sub.RequestedAt,
		Remarks:     sub.Remarks,
		SourcePage:  sub.SourcePage,
		UserAgent:   meta.UserAgent,
		IP:          meta.IP,
	}

	if s.cfg.Booking.WritePolicy == config.WritePolicyStrict {
		return s.submitStrict(ctx, rec)
	}
	return s.submitTolerant(ctx, rec)
}

// normalize applies the shared text/phone/datetime normalization and the
// source-page fallback to the referer header
func (s *BookingService) normalize(req *models.BookingRequest, meta models.RequestMeta) *models.BookingSubmission {
	sub := &models.BookingSubmission{
		Service:  normalizeText(req.Service),
		CarType:  normalizeText(req.CarType),
		FullName: normalizeText(req.FullName),
		Phone:    normalizePhone(req.Phone),
		Address:  normalizeText(req.Address),
		Remarks:  nilIfEmpty(truncateRunes(normalizeText(req.Remarks), s.cfg.Booking.RemarksMaxLength)),
	}

	if raw := normalizeText(req.DateTimeLocal); raw != "" {
		if t, ok := parseLocalDateTime(raw); ok {
			sub.RequestedAt = t
		}
	}

	sourcePage := normalizeText(req.SourcePage)
	if sourcePage == "" && meta.Referer != nil {
		sourcePage = *meta.Referer
	}
	sub.SourcePage = nilIfEmpty(sourcePage)

	return sub
}

// submitTolerant notifies first and persists best-effort afterwards. A
// missing or failing store degrades the response but never blocks the relay;
// a lead is never lost merely because the datastore is down.
func (s *BookingService) submitTolerant(ctx context.Context, rec *models.BookingRecord) *models.BookingOutcome {
	result, relayErr := s.notify(ctx, rec)
	emailSent := relayErr == nil && result.OK()

	if result != nil {
		status := result.StatusCode
		rec.FormspreeStatus = &status
		rec.FormspreeResponse = result.Body
	}

	outcome := &models.BookingOutcome{EmailSent: emailSent}

	if s.repo == nil {
		msg := "Persistent store is not configured."
		outcome.StoreError = &msg
	} else {
		storeCtx, cancel := context.WithTimeout(ctx, storeTimeout)
		defer cancel()

		id, err := s.repo.UpsertBooking(storeCtx, rec)
		if err != nil {
			logger.Error("Failed to save booking", zap.Error(err))
			msg := msgSaveFailed
			outcome.StoreError = &msg
		} else {
			outcome.BookingID = &id
			outcome.SavedToSupabase = true
		}
	}

	if !emailSent {
		outcome.Status = models.StatusFormspreeError
		outcome.Message = msgNotifyFailed
		if outcome.BookingID != nil {
			outcome.Message = msgSavedNotNotify
		}
		if relayErr != nil {
			logger.Error("Relay call failed", zap.Error(relayErr))
		}
		return outcome
	}

	outcome.Status = models.StatusOK
	return outcome
}

// submitStrict persists before notifying and fails the whole request when
// the store does. The relay outcome is written back onto the stored row as a
// follow-up update regardless of delivery success.
func (s *BookingService) submitStrict(ctx context.Context, rec *models.BookingRecord) *models.BookingOutcome {
	if s.repo == nil {
		// Config validation refuses strict mode without a store; this is a
		// wiring bug if it ever fires.
		return &models.BookingOutcome{
			Status:  models.StatusMisconfigured,
			Message: "Persistent store is not configured.",
		}
	}

	storeCtx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	id, err := s.repo.UpsertBooking(storeCtx, rec)
	if err != nil {
		logger.Error("Failed to save booking", zap.Error(err))
		return &models.BookingOutcome{
			Status:  models.StatusError,
			Message: msgSaveFailed,
		}
	}

	outcome := &models.BookingOutcome{
		BookingID:       &id,
		SavedToSupabase: true,
	}

	result, relayErr := s.notify(ctx, rec)
	emailSent := relayErr == nil && result.OK()

	var deliveryStatus *int
	var deliveryBody interface{}
	if result != nil {
		status := result.StatusCode
		deliveryStatus = &status
		deliveryBody = result.Body
	}

	updateCtx, cancelUpdate := context.WithTimeout(ctx, storeTimeout)
	defer cancelUpdate()
	if updErr := s.repo.UpdateDelivery(updateCtx, id, deliveryStatus, deliveryBody); updErr != nil {
		logger.Error("Failed to record delivery metadata",
			zap.Error(updErr), zap.Int64("booking_id", id))
	}

	outcome.EmailSent = emailSent
	if !emailSent {
		outcome.Status = models.StatusFormspreeError
		outcome.Message = msgSavedNotNotify
		if relayErr != nil {
			logger.Error("Relay call failed", zap.Error(relayErr))
		}
		return outcome
	}

	outcome.Status = models.StatusOK
	return outcome
}

// notify builds the relay form payload and submits it with a bounded timeout
func (s *BookingService) notify(ctx context.Context, rec *models.BookingRecord) (*formspree.Result, error) {
	form := url.Values{}
	form.Set("service", rec.Service)
	form.Set("car_type", rec.CarType)
	form.Set("full_name", rec.FullName)
	form.Set("phone", rec.Phone)
	form.Set("address", rec.Address)
	form.Set("requested_datetime", rec.RequestedAt.UTC().Format(time.RFC3339))
	if rec.Remarks != nil {
		form.Set("remarks", *rec.Remarks)
	}
	if rec.SourcePage != nil {
		form.Set("source_page", *rec.SourcePage)
	}
	form.Set("_subject", fmt.Sprintf("New booking request: %s (%s)", rec.Service, rec.CarType))

	relayCtx, cancel := context.WithTimeout(ctx, relayTimeout)
	defer cancel()

	return s.relay.Submit(relayCtx, form)
}

// classifyValidationError maps validator failures onto the response
// contract: any `required` failure is a missing-fields error, an enum
// (`oneof`) failure an invalid-fields one
func classifyValidationError(err error) *models.BookingOutcome {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return &models.BookingOutcome{
			Status:  models.StatusError,
			Message: "Validation failed.",
		}
	}

	for _, fieldError := range validationErrors {
		if fieldError.Tag() == "required" {
			return &models.BookingOutcome{
				Status:  models.StatusMissingFields,
				Message: msgMissingFields,
			}
		}
	}

	for _, fieldError := range validationErrors {
		if fieldError.Tag() == "oneof" {
			message := msgInvalidCarType
			if fieldError.Field() == "Service" {
				message = msgInvalidService
			}
			return &models.BookingOutcome{
				Status:  models.StatusInvalidFields,
				Message: message,
			}
		}
	}

	return &models.BookingOutcome{
		Status:  models.StatusInvalidFields,
		Message: "Invalid fields submitted.",
	}
}
