package model

import "time"

// NewUser holds the fields for user creation. Password is plaintext here and
// is hashed before it reaches storage.
type NewUser struct {
	Email    string  `json:"email"`
	Name     string  `json:"name"`
	Phone    *string `json:"phone,omitempty"`
	Password string  `json:"password,omitempty"`
	Role     Role    `json:"role,omitempty"`
	Image    *string `json:"image,omitempty"`
}

// UserUpdate holds optional user changes; nil fields are left untouched
type UserUpdate struct {
	Name  *string `json:"name,omitempty"`
	Phone *string `json:"phone,omitempty"`
	Image *string `json:"image,omitempty"`
	Role  *Role   `json:"role,omitempty"`
}

// NewAccount holds the fields for linking a provider account
type NewAccount struct {
	UserID            string  `json:"user_id"`
	Type              string  `json:"type"`
	Provider          string  `json:"provider"`
	ProviderAccountID string  `json:"provider_account_id"`
	RefreshToken      *string `json:"refresh_token,omitempty"`
	AccessToken       *string `json:"access_token,omitempty"`
	ExpiresAt         *int64  `json:"expires_at,omitempty"`
	TokenType         *string `json:"token_type,omitempty"`
	Scope             *string `json:"scope,omitempty"`
	IDToken           *string `json:"id_token,omitempty"`
	SessionState      *string `json:"session_state,omitempty"`
}

// SessionAndUser is a live session with its owner
type SessionAndUser struct {
	Session Session `json:"session"`
	User    User    `json:"user"`
}

// NewPost holds the fields for post creation
type NewPost struct {
	AuthorID    string   `json:"author_id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Photos      Photos   `json:"photos,omitempty"`
	Location    Location `json:"location"`
}

// PostUpdate holds optional post changes; nil fields are left untouched
type PostUpdate struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Photos      *Photos   `json:"photos,omitempty"`
	Location    *Location `json:"location,omitempty"`
}

// PostFilter narrows post listings
type PostFilter struct {
	Status PostStatus
}

// NewEvent holds the fields for event creation
type NewEvent struct {
	OrganizerID  string     `json:"organizer_id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	StartDate    time.Time  `json:"start_date"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	MaxAttendees *int       `json:"max_attendees,omitempty"`
	Location     Location   `json:"location"`
	InterestID   *string    `json:"interest_id,omitempty"`
}

// EventUpdate holds optional event changes; nil fields are left untouched
type EventUpdate struct {
	Title        *string    `json:"title,omitempty"`
	Description  *string    `json:"description,omitempty"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	MaxAttendees *int       `json:"max_attendees,omitempty"`
	Location     *Location  `json:"location,omitempty"`
	InterestID   *string    `json:"interest_id,omitempty"`
}

// EventFilter narrows event listings; empty fields do not filter
type EventFilter struct {
	DistrictID     string
	NeighborhoodID string
	OrganizerID    string
	InterestID     string
	Status         EventStatus
}

// StatusChange is the request body for lifecycle transitions
type StatusChange struct {
	Status string `json:"status"`
}
