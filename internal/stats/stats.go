package stats

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/alexivanou/geocommunity/internal/config"
	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/errgroup"
)

// Stats is a point-in-time snapshot of the service and its data.
type Stats struct {
	Timestamp time.Time      `json:"timestamp"`
	Memory    MemoryStats    `json:"memory"`
	Database  DatabaseStats  `json:"database"`
	Community CommunityStats `json:"community"`
	Runtime   RuntimeStats   `json:"runtime"`
}

type MemoryStats struct {
	Alloc      uint64 `json:"alloc"`
	TotalAlloc uint64 `json:"total_alloc"`
	Sys        uint64 `json:"sys"`
	HeapInuse  uint64 `json:"heap_inuse"`
	NumGC      uint32 `json:"num_gc"`
}

type DatabaseStats struct {
	Type               string      `json:"type"`
	TotalRecords       int64       `json:"total_records"`
	SizeBytes          int64       `json:"size_bytes"`
	TableStats         []TableStat `json:"table_stats"`
	PostsByStatus      StatusCount `json:"posts_by_status"`
	EventsByStatus     StatusCount `json:"events_by_status"`
	RegistrationsTotal int64       `json:"registrations_total"`
}

// CommunityStats counts things that depend on the clock, not just on rows.
type CommunityStats struct {
	ActiveSessions int64 `json:"active_sessions"`
	UpcomingEvents int64 `json:"upcoming_events"`
	FullEvents     int64 `json:"full_events"`
	VerifiedUsers  int64 `json:"verified_users"`
}

// StatusCount maps a lifecycle status to the number of rows in it
type StatusCount map[string]int64

type TableStat struct {
	Name      string `json:"name"`
	RowCount  int64  `json:"row_count"`
	SizeBytes int64  `json:"size_bytes,omitempty"`
}

type RuntimeStats struct {
	NumGoroutines int   `json:"num_goroutines"`
	NumCPU        int   `json:"num_cpu"`
	UptimeSeconds int64 `json:"uptime_seconds"`
}

// Tables lists the tables whose row counts are collected, in display order.
var Tables = []string{
	"countries", "cities", "districts", "neighborhoods",
	"users", "accounts", "sessions", "verification_tokens",
	"interests", "user_interests",
	"posts", "events", "event_attendees",
}

const (
	activeSessionsQuery = `SELECT COUNT(*) FROM sessions WHERE expires > ?`
	upcomingEventsQuery = `SELECT COUNT(*) FROM events WHERE status = 'SCHEDULED' AND start_date > ?`
	verifiedUsersQuery  = `SELECT COUNT(*) FROM users WHERE email_verified IS NOT NULL`
	fullEventsQuery     = `
		SELECT COUNT(*) FROM events e
		WHERE e.max_attendees IS NOT NULL
		  AND e.status IN ('SCHEDULED', 'ONGOING')
		  AND (SELECT COUNT(*) FROM event_attendees a WHERE a.event_id = e.id) >= e.max_attendees`
)

type Collector struct {
	db        *sqlx.DB
	dbType    config.DBType
	startTime time.Time
	now       func() time.Time
	mem       memSampler
}

func NewCollector(db *sqlx.DB, cfg config.DBConfig) *Collector {
	return &Collector{
		db:        db,
		dbType:    cfg.Type,
		startTime: time.Now(),
		now:       time.Now,
		mem:       memSampler{ttl: 5 * time.Second},
	}
}

// Collect gathers every section. Table and community probes run in parallel;
// any failure other than a missing table aborts the snapshot.
func (c *Collector) Collect(ctx context.Context) (*Stats, error) {
	now := c.now().UTC()
	s := &Stats{
		Timestamp: now,
		Memory:    c.mem.sample(),
		Database:  DatabaseStats{Type: string(c.dbType)},
		Runtime: RuntimeStats{
			NumGoroutines: runtime.NumGoroutine(),
			NumCPU:        runtime.NumCPU(),
			UptimeSeconds: int64(time.Since(c.startTime).Seconds()),
		},
	}

	tables := make([]*TableStat, len(Tables))

	g, gctx := errgroup.WithContext(ctx)
	for i, table := range Tables {
		g.Go(func() error {
			stat, err := c.tableStat(gctx, table)
			if err != nil {
				// missing tables are skipped
				return nil
			}
			tables[i] = stat
			return nil
		})
	}
	g.Go(func() (err error) {
		s.Database.PostsByStatus, err = c.countByStatus(gctx, "posts")
		return err
	})
	g.Go(func() (err error) {
		s.Database.EventsByStatus, err = c.countByStatus(gctx, "events")
		return err
	})
	g.Go(func() error {
		return c.collectCommunity(gctx, now, &s.Community)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, ts := range tables {
		if ts == nil {
			continue
		}
		s.Database.TableStats = append(s.Database.TableStats, *ts)
		s.Database.TotalRecords += ts.RowCount
		if ts.Name == "event_attendees" {
			s.Database.RegistrationsTotal = ts.RowCount
		}
	}

	if size, err := c.databaseSize(ctx); err == nil {
		s.Database.SizeBytes = size
	}

	return s, nil
}

func (c *Collector) collectCommunity(ctx context.Context, now time.Time, out *CommunityStats) error {
	probes := []struct {
		dst   *int64
		query string
		args  []any
	}{
		{&out.ActiveSessions, activeSessionsQuery, []any{now}},
		{&out.UpcomingEvents, upcomingEventsQuery, []any{now}},
		{&out.FullEvents, fullEventsQuery, nil},
		{&out.VerifiedUsers, verifiedUsersQuery, nil},
	}
	for _, p := range probes {
		if err := c.db.GetContext(ctx, p.dst, c.db.Rebind(p.query), p.args...); err != nil {
			return fmt.Errorf("failed to collect community stats: %w", err)
		}
	}
	return nil
}

func (c *Collector) databaseSize(ctx context.Context) (int64, error) {
	query := "SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()"
	if c.dbType == config.DBTypePostgreSQL {
		query = "SELECT pg_database_size(current_database())"
	}
	var size int64
	err := c.db.GetContext(ctx, &size, query)
	return size, err
}

func (c *Collector) countByStatus(ctx context.Context, table string) (StatusCount, error) {
	var rows []struct {
		Status string `db:"status"`
		Count  int64  `db:"count"`
	}
	err := c.db.SelectContext(ctx, &rows, "SELECT status, COUNT(*) AS count FROM "+table+" GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("failed to count %s by status: %w", table, err)
	}

	counts := make(StatusCount, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

func (c *Collector) tableStat(ctx context.Context, table string) (*TableStat, error) {
	stat := &TableStat{Name: table}
	if err := c.db.GetContext(ctx, &stat.RowCount, "SELECT COUNT(*) FROM "+table); err != nil {
		return nil, err
	}

	// size is best effort: dbstat is an optional sqlite extension
	if c.dbType == config.DBTypePostgreSQL {
		_ = c.db.GetContext(ctx, &stat.SizeBytes, `SELECT COALESCE(pg_total_relation_size($1::regclass), 0)`, table)
	} else {
		var size *int64
		if err := c.db.GetContext(ctx, &size, `SELECT SUM(pgsize) FROM dbstat WHERE name = ?`, table); err == nil && size != nil {
			stat.SizeBytes = *size
		}
	}
	return stat, nil
}

// memSampler caches runtime.ReadMemStats, which stops the world.
type memSampler struct {
	ttl time.Duration

	mu   sync.Mutex
	at   time.Time
	last MemoryStats
}

func (m *memSampler) sample() MemoryStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.at.IsZero() && time.Since(m.at) < m.ttl {
		return m.last
	}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	m.last = MemoryStats{
		Alloc:      ms.Alloc,
		TotalAlloc: ms.TotalAlloc,
		Sys:        ms.Sys,
		HeapInuse:  ms.HeapInuse,
		NumGC:      ms.NumGC,
	}
	m.at = time.Now()
	return m.last
}
