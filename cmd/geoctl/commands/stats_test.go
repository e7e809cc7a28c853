package commands

import (
	"bytes"
	"testing"
	"time"

	"github.com/alexivanou/geocommunity/internal/stats"
	"github.com/stretchr/testify/assert"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   uint64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.00 KB"},
		{1536, "1.50 KB"},
		{5 * 1024 * 1024, "5.00 MB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatBytes(tt.in))
	}
}

func TestPrintHumanReadable(t *testing.T) {
	var buf bytes.Buffer
	printHumanReadable(&buf, &stats.Stats{
		Timestamp: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		Database: stats.DatabaseStats{
			Type:               "memory",
			TotalRecords:       7,
			RegistrationsTotal: 2,
			EventsByStatus:     stats.StatusCount{"SCHEDULED": 2, "CANCELLED": 1},
			TableStats:         []stats.TableStat{{Name: "events", RowCount: 3}},
		},
		Community: stats.CommunityStats{UpcomingEvents: 2, FullEvents: 1},
	})

	out := buf.String()
	assert.Contains(t, out, "Timestamp: 2024-06-01 12:00:00")
	assert.Contains(t, out, "Registrations:   2")
	assert.Contains(t, out, "Events:\n  CANCELLED    1\n  SCHEDULED    2\n")
	assert.NotContains(t, out, "Posts:")
	assert.Contains(t, out, "events")
	assert.Contains(t, out, "Upcoming Events: 2")
	assert.Contains(t, out, "Full Events:     1")
}
