package stats

import (
	"context"
	"testing"
	"time"

	"github.com/alexivanou/geocommunity/internal/config"
	"github.com/alexivanou/geocommunity/internal/database"
	"github.com/alexivanou/geocommunity/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) (*sqlx.DB, config.DBConfig) {
	cfg := config.DBConfig{Type: config.DBTypeMemory, Name: "stats_" + model.NewID()}
	db, err := database.Connect(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(db, cfg, "../../migrations"))
	return db, cfg
}

func TestCollector_Collect(t *testing.T) {
	db, cfg := setupTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	_, err := db.ExecContext(ctx, "INSERT INTO countries (id, name, code, created_at, updated_at) VALUES ('c1', 'Testland', 'TL', ?, ?)", now, now)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, "INSERT INTO cities (id, name, country_id, created_at, updated_at) VALUES ('ci1', 'Metro', 'c1', ?, ?)", now, now)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, "INSERT INTO users (id, email, name, role, email_verified, created_at, updated_at) VALUES ('u1', 'a@b.co', 'A', 'USER', ?, ?, ?)", now, now, now)
	require.NoError(t, err)
	capacity := map[string]any{"e1": 1, "e2": nil}
	for _, id := range []string{"e1", "e2"} {
		_, err = db.ExecContext(ctx, `INSERT INTO events (id, title, description, start_date, status, max_attendees, organizer_id, created_at, updated_at)
			VALUES (?, 'Meetup', '', ?, 'SCHEDULED', ?, 'u1', ?, ?)`, id, now, capacity[id], now, now)
		require.NoError(t, err)
	}
	for token, expires := range map[string]time.Time{"live": now.Add(time.Hour), "stale": now.Add(-time.Hour)} {
		_, err = db.ExecContext(ctx, "INSERT INTO sessions (id, session_token, user_id, expires, created_at, updated_at) VALUES (?, ?, 'u1', ?, ?, ?)",
			token, token, expires, now, now)
		require.NoError(t, err)
	}
	_, err = db.ExecContext(ctx, "INSERT INTO event_attendees (id, event_id, user_id, created_at, updated_at) VALUES ('a1', 'e1', 'u1', ?, ?)", now, now)
	require.NoError(t, err)

	collector := NewCollector(db, cfg)
	collector.now = func() time.Time { return now.Add(-30 * time.Minute) }

	stats, err := collector.Collect(ctx)
	require.NoError(t, err)

	assert.Equal(t, "memory", stats.Database.Type)
	assert.Equal(t, int64(8), stats.Database.TotalRecords)
	assert.Len(t, stats.Database.TableStats, len(Tables))

	var citiesCount int64
	for _, ts := range stats.Database.TableStats {
		if ts.Name == "cities" {
			citiesCount = ts.RowCount
		}
	}
	assert.Equal(t, int64(1), citiesCount)
	assert.Equal(t, int64(2), stats.Database.EventsByStatus["SCHEDULED"])
	assert.Empty(t, stats.Database.PostsByStatus)
	assert.Equal(t, int64(1), stats.Database.RegistrationsTotal)

	assert.Equal(t, CommunityStats{ActiveSessions: 1, UpcomingEvents: 2, FullEvents: 1, VerifiedUsers: 1}, stats.Community)

	assert.Greater(t, stats.Memory.Alloc, uint64(0))
	assert.GreaterOrEqual(t, stats.Runtime.NumGoroutines, 1)

	stats2, err := collector.Collect(ctx)
	require.NoError(t, err)
	assert.Equal(t, stats.Memory.Alloc, stats2.Memory.Alloc)
}

func TestCollector_EmptyDB(t *testing.T) {
	db, cfg := setupTestDB(t)
	collector := NewCollector(db, cfg)

	stats, err := collector.Collect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(0), stats.Database.TotalRecords)
	assert.Equal(t, int64(0), stats.Database.RegistrationsTotal)
	assert.Zero(t, stats.Community)
}
