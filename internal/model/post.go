package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// PostStatus is the lifecycle state of a post
type PostStatus string

const (
	PostDraft     PostStatus = "DRAFT"
	PostPublished PostStatus = "PUBLISHED"
	PostArchived  PostStatus = "ARCHIVED"
)

var postTransitions = map[PostStatus][]PostStatus{
	PostDraft:     {PostPublished, PostArchived},
	PostPublished: {PostArchived},
	PostArchived:  {PostDraft},
}

// ParsePostStatus validates a status name.
func ParsePostStatus(s string) (PostStatus, error) {
	st := PostStatus(s)
	if _, ok := postTransitions[st]; !ok {
		return "", &ValidationError{Field: "status", Message: fmt.Sprintf("unknown post status %q", s)}
	}
	return st, nil
}

// CanTransitionTo reports whether next is reachable from s in one step.
func (s PostStatus) CanTransitionTo(next PostStatus) bool {
	for _, allowed := range postTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Transition returns next or a *TransitionError.
func (s PostStatus) Transition(next PostStatus) (PostStatus, error) {
	if !s.CanTransitionTo(next) {
		return s, &TransitionError{Entity: "post", From: string(s), To: string(next)}
	}
	return next, nil
}

// Photos is a list of photo URLs stored as a JSON array
type Photos []string

// Value implements driver.Valuer.
func (p Photos) Value() (driver.Value, error) {
	if p == nil {
		return nil, nil
	}
	b, err := json.Marshal([]string(p))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (p *Photos) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*p = nil
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("photos: unsupported source type %T", src)
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("photos: %w", err)
	}
	*p = out
	return nil
}

// Post is a piece of community content
type Post struct {
	ID             string     `json:"id" db:"id"`
	Title          string     `json:"title" db:"title"`
	Description    string     `json:"description" db:"description"`
	Photos         Photos     `json:"photos,omitempty" db:"photos"`
	Status         PostStatus `json:"status" db:"status"`
	DistrictID     *string    `json:"district_id,omitempty" db:"district_id"`
	NeighborhoodID *string    `json:"neighborhood_id,omitempty" db:"neighborhood_id"`
	AuthorID       string     `json:"author_id" db:"author_id"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

// Location returns the post's geo tag.
func (p Post) Location() Location {
	return Location{DistrictID: p.DistrictID, NeighborhoodID: p.NeighborhoodID}
}
