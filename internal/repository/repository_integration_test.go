//go:build integration
// +build integration

package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alexivanou/geocommunity/internal/config"
	"github.com/alexivanou/geocommunity/internal/database"
	"github.com/alexivanou/geocommunity/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupPostgres starts a PostgreSQL container and returns migrated repositories.
func setupPostgres(t *testing.T) *Container {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	port, err := pgContainer.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	cfg := config.DBConfig{
		Type:     config.DBTypePostgreSQL,
		Host:     host,
		Port:     port.Port(),
		User:     "testuser",
		Password: "testpass",
		Name:     "testdb",
		SSLMode:  "disable",
	}

	db, err := database.Connect(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	db.SetMaxOpenConns(20)

	require.NoError(t, database.Migrate(db, cfg, "../../migrations"))

	return NewRepositories(db, config.DBTypePostgreSQL)
}

func TestPostgres_ConcurrentRegistrationNeverOverbooks(t *testing.T) {
	repos := setupPostgres(t)
	ctx := context.Background()

	org := seedUser(t, repos, "org@example.com")
	const capacity, callers = 5, 20
	users := make([]*model.User, callers)
	for i := range users {
		users[i] = seedUser(t, repos, fmt.Sprintf("user%d@example.com", i))
	}
	ev := newTestEvent(t, repos, org.ID, ptr(capacity))

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		ok   int
		full int
	)
	for _, u := range users {
		wg.Add(1)
		go func(userID string) {
			defer wg.Done()
			_, err := repos.Event.RegisterAttendee(ctx, ev.ID, userID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, model.ErrEventFull):
				full++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(u.ID)
	}
	wg.Wait()

	assert.Equal(t, capacity, ok)
	assert.Equal(t, callers-capacity, full)

	n, err := repos.Event.CountAttendees(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, capacity, n)
}

func TestPostgres_ErrorClassification(t *testing.T) {
	repos := setupPostgres(t)
	ctx := context.Background()

	geo := seedGeo(t, repos)
	_, err := repos.Geo.CreateCity(ctx, geo.country.ID, "Metro")
	assert.ErrorIs(t, err, model.ErrDuplicateName)

	assert.ErrorIs(t, repos.Geo.DeleteCountry(ctx, geo.country.ID), model.ErrHasDependents)

	u := seedUser(t, repos, "Case@Example.com")
	err = repos.Identity.CreateUser(ctx, &model.User{Email: "case@example.com", Name: "dup"})
	assert.ErrorIs(t, err, model.ErrDuplicateEmail)

	vt := model.VerificationToken{Identifier: u.Email, Token: "pg", Expires: time.Now().Add(time.Hour)}
	require.NoError(t, repos.Identity.CreateVerificationToken(ctx, vt))
	_, err = repos.Identity.ConsumeVerificationToken(ctx, vt.Identifier, vt.Token)
	require.NoError(t, err)
	_, err = repos.Identity.ConsumeVerificationToken(ctx, vt.Identifier, vt.Token)
	assert.ErrorIs(t, err, model.ErrTokenNotFoundOrExpired)
}
