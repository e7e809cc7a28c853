package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexivanou/geocommunity/internal/metrics"
	"github.com/alexivanou/geocommunity/internal/model"
	"go.uber.org/zap"
)

// EventDetail is an event with its current attendance
type EventDetail struct {
	model.Event
	AttendeeCount  int  `json:"attendee_count"`
	SeatsRemaining *int `json:"seats_remaining,omitempty"`
}

func (s *Service) CreateEvent(ctx context.Context, in model.NewEvent) (*model.Event, error) {
	title, titleErr := requireText("title", in.Title, maxTitleLength)
	var startErr error
	if in.StartDate.IsZero() {
		startErr = invalid("start_date", "is required")
	}
	if err := collect(titleErr, startErr, requireID("organizer_id", in.OrganizerID)); err != nil {
		return nil, err
	}
	in.Title = title

	ev, err := s.eventRepo.CreateEvent(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	s.logger.Info("event created", zap.String("event_id", ev.ID), zap.String("organizer_id", ev.OrganizerID))
	return ev, nil
}

func (s *Service) GetEvent(ctx context.Context, id string) (*EventDetail, error) {
	ev, err := s.eventRepo.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	n, err := s.eventRepo.CountAttendees(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to count attendees: %w", err)
	}
	detail := &EventDetail{Event: *ev, AttendeeCount: n}
	if ev.MaxAttendees != nil {
		left := *ev.MaxAttendees - n
		if left < 0 {
			left = 0
		}
		detail.SeatsRemaining = &left
	}
	return detail, nil
}

func (s *Service) UpdateEvent(ctx context.Context, id string, upd model.EventUpdate) (*model.Event, error) {
	if upd.Title != nil {
		title, err := requireText("title", *upd.Title, maxTitleLength)
		if err != nil {
			return nil, err
		}
		upd.Title = &title
	}
	ev, err := s.eventRepo.UpdateEvent(ctx, id, upd)
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	return ev, nil
}

func (s *Service) ChangeEventStatus(ctx context.Context, id, status string) (*model.Event, error) {
	next, err := model.ParseEventStatus(status)
	if err != nil {
		return nil, err
	}
	ev, err := s.eventRepo.TransitionEvent(ctx, id, next)
	if err != nil {
		return nil, fmt.Errorf("failed to change event status: %w", err)
	}
	s.metrics.Transitions.WithLabelValues("event", string(next)).Inc()
	s.logger.Info("event status changed", zap.String("event_id", id), zap.String("status", string(next)))
	return ev, nil
}

func (s *Service) DeleteEvent(ctx context.Context, id string) error {
	return s.eventRepo.DeleteEvent(ctx, id)
}

func (s *Service) ListEvents(ctx context.Context, f model.EventFilter, p model.ListParams) ([]model.Event, error) {
	if f.Status != "" {
		if _, err := model.ParseEventStatus(string(f.Status)); err != nil {
			return nil, err
		}
	}
	return s.eventRepo.ListEvents(ctx, f, p)
}

func registrationOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeRegistered
	case errors.Is(err, model.ErrEventFull):
		return metrics.OutcomeFull
	case errors.Is(err, model.ErrAlreadyRegistered):
		return metrics.OutcomeDuplicate
	case errors.Is(err, model.ErrEventNotOpen):
		return metrics.OutcomeClosed
	}
	return metrics.OutcomeError
}

func (s *Service) RegisterAttendee(ctx context.Context, eventID, userID string) (*model.EventAttendee, error) {
	a, err := s.eventRepo.RegisterAttendee(ctx, eventID, userID)
	outcome := registrationOutcome(err)
	s.metrics.Registrations.WithLabelValues(outcome).Inc()
	if err != nil {
		s.logger.Debug("registration rejected",
			zap.String("event_id", eventID),
			zap.String("user_id", userID),
			zap.String("outcome", outcome),
			zap.Error(err))
		return nil, err
	}
	s.logger.Info("attendee registered", zap.String("event_id", eventID), zap.String("user_id", userID))
	return a, nil
}

func (s *Service) CancelAttendance(ctx context.Context, eventID, userID string) error {
	return s.eventRepo.CancelAttendance(ctx, eventID, userID)
}

func (s *Service) ListAttendees(ctx context.Context, eventID string, p model.ListParams) ([]model.EventAttendee, error) {
	if _, err := s.eventRepo.GetEvent(ctx, eventID); err != nil {
		return nil, err
	}
	return s.eventRepo.ListAttendees(ctx, eventID, p)
}

func (s *Service) ListUserEvents(ctx context.Context, userID string, p model.ListParams) ([]model.Event, error) {
	return s.eventRepo.ListEventsByAttendee(ctx, userID, p)
}
