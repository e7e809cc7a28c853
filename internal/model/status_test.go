package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostStatus_Transition(t *testing.T) {
	tests := []struct {
		from    PostStatus
		to      PostStatus
		allowed bool
	}{
		{PostDraft, PostPublished, true},
		{PostDraft, PostArchived, true},
		{PostPublished, PostArchived, true},
		{PostArchived, PostDraft, true},
		{PostPublished, PostDraft, false},
		{PostArchived, PostPublished, false},
		{PostDraft, PostDraft, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			got, err := tt.from.Transition(tt.to)
			if tt.allowed {
				require.NoError(t, err)
				assert.Equal(t, tt.to, got)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidStateTransition)
			assert.Equal(t, tt.from, got)
		})
	}
}

func TestEventStatus_Transition(t *testing.T) {
	tests := []struct {
		from    EventStatus
		to      EventStatus
		allowed bool
	}{
		{EventScheduled, EventOngoing, true},
		{EventScheduled, EventCancelled, true},
		{EventOngoing, EventCompleted, true},
		{EventOngoing, EventCancelled, true},
		{EventScheduled, EventCompleted, false},
		{EventCompleted, EventOngoing, false},
		{EventCancelled, EventScheduled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}

	assert.True(t, EventCompleted.Terminal())
	assert.True(t, EventCancelled.Terminal())
	assert.False(t, EventOngoing.Terminal())
	assert.True(t, EventOngoing.AcceptsAttendees())
	assert.False(t, EventCancelled.AcceptsAttendees())
}

func TestParseStatus(t *testing.T) {
	st, err := ParsePostStatus("PUBLISHED")
	require.NoError(t, err)
	assert.Equal(t, PostPublished, st)

	_, err = ParsePostStatus("published")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = ParseEventStatus("POSTPONED")
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "status", verr.Field)

	role, err := ParseRole("")
	require.NoError(t, err)
	assert.Equal(t, RoleUser, role)
	_, err = ParseRole("ROOT")
	assert.ErrorIs(t, err, ErrValidation)
}
