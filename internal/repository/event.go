package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexivanou/geocommunity/internal/model"
	"github.com/jmoiron/sqlx"
)

const (
	eventColumns = "id, title, description, start_date, end_date, status, max_attendees, district_id, " +
		"neighborhood_id, organizer_id, interest_id, created_at, updated_at"
	attendeeColumns = "id, event_id, user_id, created_at, updated_at"
)

type eventRepository struct {
	store
}

func (r *eventRepository) checkInterest(ctx context.Context, ext sqlx.ExtContext, interestID *string) error {
	if interestID == nil {
		return nil
	}
	ok, err := exists(ctx, ext, "interests", *interestID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("interest %s: %w", *interestID, model.ErrParentNotFound)
	}
	return nil
}

func validateSchedule(start time.Time, end *time.Time, maxAttendees *int) error {
	if end != nil && end.Before(start) {
		return &model.ValidationError{Field: "end_date", Message: "must not be before start_date"}
	}
	if maxAttendees != nil && *maxAttendees <= 0 {
		return &model.ValidationError{Field: "max_attendees", Message: "must be positive"}
	}
	return nil
}

func (r *eventRepository) CreateEvent(ctx context.Context, in model.NewEvent) (*model.Event, error) {
	if err := validateSchedule(in.StartDate, in.EndDate, in.MaxAttendees); err != nil {
		return nil, err
	}
	ts := now()
	ev := &model.Event{
		ID:           model.NewID(),
		Title:        in.Title,
		Description:  in.Description,
		StartDate:    in.StartDate.UTC(),
		Status:       model.EventScheduled,
		MaxAttendees: in.MaxAttendees,
		OrganizerID:  in.OrganizerID,
		InterestID:   in.InterestID,
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}
	if in.EndDate != nil {
		end := in.EndDate.UTC()
		ev.EndDate = &end
	}

	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		ok, err := exists(ctx, tx, "users", in.OrganizerID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("organizer %s: %w", in.OrganizerID, model.ErrParentNotFound)
		}
		if err := r.checkInterest(ctx, tx, in.InterestID); err != nil {
			return err
		}

		loc, err := r.resolveLocation(ctx, tx, in.Location)
		if err != nil {
			return err
		}
		ev.DistrictID = loc.DistrictID
		ev.NeighborhoodID = loc.NeighborhoodID

		_, err = sqlx.NamedExecContext(ctx, tx, `
			INSERT INTO events (`+eventColumns+`)
			VALUES (:id, :title, :description, :start_date, :end_date, :status, :max_attendees, :district_id,
				:neighborhood_id, :organizer_id, :interest_id, :created_at, :updated_at)`, ev)
		return r.translate(err, nil, nil)
	})
	if err != nil {
		return nil, err
	}
	return ev, nil
}

func (r *eventRepository) getEvent(ctx context.Context, ext sqlx.ExtContext, id string, lock bool) (*model.Event, error) {
	q := "SELECT " + eventColumns + " FROM events WHERE id = ?"
	if lock {
		q += r.d.forUpdate()
	}
	var ev model.Event
	err := get(ctx, ext, &ev, q, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("event %s: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

func (r *eventRepository) GetEvent(ctx context.Context, id string) (*model.Event, error) {
	return r.getEvent(ctx, r.db, id, false)
}

func countAttendees(ctx context.Context, ext sqlx.ExtContext, eventID string) (int, error) {
	var n int
	err := get(ctx, ext, &n, "SELECT COUNT(*) FROM event_attendees WHERE event_id = ?", eventID)
	return n, err
}

// UpdateEvent applies changes under the event row lock. Lowering
// MaxAttendees below the current attendee count is rejected.
func (r *eventRepository) UpdateEvent(ctx context.Context, id string, upd model.EventUpdate) (*model.Event, error) {
	var event *model.Event
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		ev, err := r.getEvent(ctx, tx, id, true)
		if err != nil {
			return err
		}
		if upd.Title != nil {
			ev.Title = *upd.Title
		}
		if upd.Description != nil {
			ev.Description = *upd.Description
		}
		if upd.StartDate != nil {
			ev.StartDate = upd.StartDate.UTC()
		}
		if upd.EndDate != nil {
			end := upd.EndDate.UTC()
			ev.EndDate = &end
		}
		if err := validateSchedule(ev.StartDate, ev.EndDate, upd.MaxAttendees); err != nil {
			return err
		}
		if upd.MaxAttendees != nil {
			n, err := countAttendees(ctx, tx, id)
			if err != nil {
				return err
			}
			if *upd.MaxAttendees < n {
				return fmt.Errorf("event %s has %d attendees, cannot cap at %d: %w",
					id, n, *upd.MaxAttendees, model.ErrCapacityExceeded)
			}
			ev.MaxAttendees = upd.MaxAttendees
		}
		if upd.InterestID != nil {
			if err := r.checkInterest(ctx, tx, upd.InterestID); err != nil {
				return err
			}
			ev.InterestID = upd.InterestID
		}
		if upd.Location != nil {
			loc, err := r.resolveLocation(ctx, tx, *upd.Location)
			if err != nil {
				return err
			}
			ev.DistrictID = loc.DistrictID
			ev.NeighborhoodID = loc.NeighborhoodID
		}
		ev.UpdatedAt = now()

		_, err = sqlx.NamedExecContext(ctx, tx, `
			UPDATE events SET title = :title, description = :description, start_date = :start_date,
				end_date = :end_date, max_attendees = :max_attendees, district_id = :district_id,
				neighborhood_id = :neighborhood_id, interest_id = :interest_id, updated_at = :updated_at
			WHERE id = :id`, ev)
		if err != nil {
			return r.translate(err, nil, nil)
		}
		event = ev
		return nil
	})
	if err != nil {
		return nil, err
	}
	return event, nil
}

func (r *eventRepository) TransitionEvent(ctx context.Context, id string, next model.EventStatus) (*model.Event, error) {
	var event *model.Event
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		ev, err := r.getEvent(ctx, tx, id, true)
		if err != nil {
			return err
		}
		status, err := ev.Status.Transition(next)
		if err != nil {
			return err
		}

		ts := now()
		res, err := exec(ctx, tx, "UPDATE events SET status = ?, updated_at = ? WHERE id = ? AND status = ?",
			status, ts, id, ev.Status)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return &model.TransitionError{Entity: "event", From: string(ev.Status), To: string(next)}
		}
		ev.Status = status
		ev.UpdatedAt = ts
		event = ev
		return nil
	})
	if err != nil {
		return nil, err
	}
	return event, nil
}

// DeleteEvent removes the event and all its attendance rows.
func (r *eventRepository) DeleteEvent(ctx context.Context, id string) error {
	res, err := exec(ctx, r.db, "DELETE FROM events WHERE id = ?", id)
	if err != nil {
		return r.translate(err, nil, nil)
	}
	return requireAffected(res, "event "+id)
}

func (r *eventRepository) ListEvents(ctx context.Context, f model.EventFilter, p model.ListParams) ([]model.Event, error) {
	lq := newListQuery("SELECT "+eventColumns+" FROM events", "id")
	if f.DistrictID != "" {
		lq.where("district_id = ?", f.DistrictID)
	}
	if f.NeighborhoodID != "" {
		lq.where("neighborhood_id = ?", f.NeighborhoodID)
	}
	if f.OrganizerID != "" {
		lq.where("organizer_id = ?", f.OrganizerID)
	}
	if f.InterestID != "" {
		lq.where("interest_id = ?", f.InterestID)
	}
	if f.Status != "" {
		lq.where("status = ?", f.Status)
	}
	q, args := lq.build(p)

	events := []model.Event{}
	if err := selectAll(ctx, r.db, &events, q, args...); err != nil {
		return nil, err
	}
	return events, nil
}

// RegisterAttendee checks capacity and inserts the attendance row in one
// transaction. The event row is locked first, so concurrent registrations
// for the same event queue up behind each other and never overbook.
func (r *eventRepository) RegisterAttendee(ctx context.Context, eventID, userID string) (*model.EventAttendee, error) {
	var attendee *model.EventAttendee
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		ev, err := r.getEvent(ctx, tx, eventID, true)
		if err != nil {
			return err
		}

		ok, err := exists(ctx, tx, "users", userID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("user %s: %w", userID, model.ErrParentNotFound)
		}

		if !ev.Status.AcceptsAttendees() {
			return fmt.Errorf("event %s is %s: %w", eventID, ev.Status, model.ErrEventNotOpen)
		}

		var already int
		err = get(ctx, tx, &already, "SELECT COUNT(*) FROM event_attendees WHERE event_id = ? AND user_id = ?",
			eventID, userID)
		if err != nil {
			return err
		}
		if already > 0 {
			return model.ErrAlreadyRegistered
		}

		if ev.MaxAttendees != nil {
			n, err := countAttendees(ctx, tx, eventID)
			if err != nil {
				return err
			}
			if n >= *ev.MaxAttendees {
				return fmt.Errorf("event %s (%d/%d): %w", eventID, n, *ev.MaxAttendees, model.ErrEventFull)
			}
		}

		ts := now()
		a := &model.EventAttendee{ID: model.NewID(), EventID: eventID, UserID: userID, CreatedAt: ts, UpdatedAt: ts}
		_, err = sqlx.NamedExecContext(ctx, tx, `
			INSERT INTO event_attendees (`+attendeeColumns+`)
			VALUES (:id, :event_id, :user_id, :created_at, :updated_at)`, a)
		if err != nil {
			return r.translate(err, model.ErrAlreadyRegistered, nil)
		}
		attendee = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return attendee, nil
}

func (r *eventRepository) CancelAttendance(ctx context.Context, eventID, userID string) error {
	res, err := exec(ctx, r.db, "DELETE FROM event_attendees WHERE event_id = ? AND user_id = ?", eventID, userID)
	if err != nil {
		return err
	}
	return requireAffected(res, "attendance")
}

func (r *eventRepository) ListAttendees(ctx context.Context, eventID string, p model.ListParams) ([]model.EventAttendee, error) {
	lq := newListQuery("SELECT "+attendeeColumns+" FROM event_attendees", "id").where("event_id = ?", eventID)
	q, args := lq.build(p)

	attendees := []model.EventAttendee{}
	if err := selectAll(ctx, r.db, &attendees, q, args...); err != nil {
		return nil, err
	}
	return attendees, nil
}

func (r *eventRepository) CountAttendees(ctx context.Context, eventID string) (int, error) {
	return countAttendees(ctx, r.db, eventID)
}

func (r *eventRepository) ListEventsByAttendee(ctx context.Context, userID string, p model.ListParams) ([]model.Event, error) {
	lq := newListQuery(`SELECT e.id, e.title, e.description, e.start_date, e.end_date, e.status, e.max_attendees,
			e.district_id, e.neighborhood_id, e.organizer_id, e.interest_id, e.created_at, e.updated_at
		FROM events e
		JOIN event_attendees ea ON ea.event_id = e.id`, "e.id").
		where("ea.user_id = ?", userID)
	q, args := lq.build(p)

	events := []model.Event{}
	if err := selectAll(ctx, r.db, &events, q, args...); err != nil {
		return nil, err
	}
	return events, nil
}
