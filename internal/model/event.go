package model

import (
	"fmt"
	"time"
)

// EventStatus is the lifecycle state of an event
type EventStatus string

const (
	EventScheduled EventStatus = "SCHEDULED"
	EventOngoing   EventStatus = "ONGOING"
	EventCompleted EventStatus = "COMPLETED"
	EventCancelled EventStatus = "CANCELLED"
)

var eventTransitions = map[EventStatus][]EventStatus{
	EventScheduled: {EventOngoing, EventCancelled},
	EventOngoing:   {EventCompleted, EventCancelled},
	EventCompleted: nil,
	EventCancelled: nil,
}

// ParseEventStatus validates a status name.
func ParseEventStatus(s string) (EventStatus, error) {
	st := EventStatus(s)
	if _, ok := eventTransitions[st]; !ok {
		return "", &ValidationError{Field: "status", Message: fmt.Sprintf("unknown event status %q", s)}
	}
	return st, nil
}

// CanTransitionTo reports whether next is reachable from s in one step.
func (s EventStatus) CanTransitionTo(next EventStatus) bool {
	for _, allowed := range eventTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Transition returns next or a *TransitionError.
func (s EventStatus) Transition(next EventStatus) (EventStatus, error) {
	if !s.CanTransitionTo(next) {
		return s, &TransitionError{Entity: "event", From: string(s), To: string(next)}
	}
	return next, nil
}

// Terminal reports whether no transitions leave s.
func (s EventStatus) Terminal() bool {
	return len(eventTransitions[s]) == 0
}

// AcceptsAttendees reports whether registrations are allowed in s.
func (s EventStatus) AcceptsAttendees() bool {
	return s == EventScheduled || s == EventOngoing
}

// Event is a community gathering organized by a user
type Event struct {
	ID             string      `json:"id" db:"id"`
	Title          string      `json:"title" db:"title"`
	Description    string      `json:"description" db:"description"`
	StartDate      time.Time   `json:"start_date" db:"start_date"`
	EndDate        *time.Time  `json:"end_date,omitempty" db:"end_date"`
	Status         EventStatus `json:"status" db:"status"`
	MaxAttendees   *int        `json:"max_attendees,omitempty" db:"max_attendees"`
	DistrictID     *string     `json:"district_id,omitempty" db:"district_id"`
	NeighborhoodID *string     `json:"neighborhood_id,omitempty" db:"neighborhood_id"`
	OrganizerID    string      `json:"organizer_id" db:"organizer_id"`
	InterestID     *string     `json:"interest_id,omitempty" db:"interest_id"`
	CreatedAt      time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at" db:"updated_at"`
}

// Location returns the event's geo tag.
func (e Event) Location() Location {
	return Location{DistrictID: e.DistrictID, NeighborhoodID: e.NeighborhoodID}
}

// EventAttendee is the join row between an event and an attending user
type EventAttendee struct {
	ID        string    `json:"id" db:"id"`
	EventID   string    `json:"event_id" db:"event_id"`
	UserID    string    `json:"user_id" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
