package repository

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"event-ticketing/internal/database"
	"event-ticketing/internal/model"
)

// newTestDB dials the test database and skips the integration tests when
// it is unreachable.  Defaults match the local docker-compose setup; the
// TEST_DB_* variables override them.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	get := func(key, def string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return def
	}
	db, err := database.Open(
		get("TEST_DB_USER", "root"),
		os.Getenv("TEST_DB_PASS"),
		get("TEST_DB_HOST", "127.0.0.1"),
		get("TEST_DB_PORT", "3306"),
		get("TEST_DB_NAME", "event_ticketing_test"),
	)
	if err != nil {
		t.Skipf("skipping MySQL integration tests: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	require.NoError(t, database.InitSchema(ctx, db))
	_, err = db.ExecContext(ctx, `DELETE FROM tickets`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `DELETE FROM events`)
	require.NoError(t, err)
	return db
}

func TestMySQLEventRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewEventRepo(db)

	date := time.Now().UTC().Add(72 * time.Hour).Truncate(time.Second)
	e := newEvent("Conf", date)
	require.NoError(t, repo.Create(ctx, e))
	require.NotZero(t, e.ID)

	got, err := repo.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "Conf", got.Name)
	assert.Equal(t, "desc of Conf", got.Description)
	assert.True(t, got.EventDate.Equal(date))
	assert.Equal(t, "Main Hall", got.Location)
	assert.Equal(t, 100, got.TotalSeats)
	assert.Equal(t, 100, got.AvailableSeats)
	assert.True(t, got.BasePrice.Equal(decimal.RequireFromString("50.00")))
	assert.True(t, got.CreatedAt.Equal(e.CreatedAt))
	assert.Nil(t, got.UpdatedAt)
	assert.Empty(t, got.Tickets)
}

func TestMySQLCascadeDelete(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	events := NewEventRepo(db)
	tickets := NewTicketRepo(db)

	e := newEvent("Conf", time.Now().UTC().Add(48*time.Hour))
	require.NoError(t, events.Create(ctx, e))
	var ids []int64
	for _, seat := range []string{"A1", "A2", "A3"} {
		tk := newTicket(e.ID, "a@b.com", seat)
		require.NoError(t, tickets.Create(ctx, tk))
		ids = append(ids, tk.ID)
	}

	require.NoError(t, events.Delete(ctx, e.ID))

	exists, err := events.Exists(ctx, e.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	// The FK cascade must have removed every ticket row.
	n, err := tickets.CountByEvent(ctx, e.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
	for _, id := range ids {
		_, err := tickets.GetByID(ctx, id)
		assert.ErrorIs(t, err, ErrTicketNotFound)
	}
}

func TestMySQLUpcomingExcludesPastAndSkipsTickets(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	events := NewEventRepo(db)
	tickets := NewTicketRepo(db)

	past := newEvent("Past", time.Now().UTC().Add(-24*time.Hour))
	future := newEvent("Future", time.Now().UTC().Add(24*time.Hour))
	require.NoError(t, events.Create(ctx, past))
	require.NoError(t, events.Create(ctx, future))
	require.NoError(t, tickets.Create(ctx, newTicket(future.ID, "a@b.com", "A1")))

	got, err := events.GetUpcoming(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Future", got[0].Name)
	assert.Empty(t, got[0].Tickets, "GetUpcoming never loads tickets")

	byID, err := events.GetByID(ctx, future.ID)
	require.NoError(t, err)
	assert.Len(t, byID.Tickets, 1, "GetByID always loads tickets")
}

func TestMySQLGetAllOrderedByDate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	events := NewEventRepo(db)

	later := newEvent("Later", time.Now().UTC().Add(96*time.Hour))
	sooner := newEvent("Sooner", time.Now().UTC().Add(24*time.Hour))
	require.NoError(t, events.Create(ctx, later))
	require.NoError(t, events.Create(ctx, sooner))

	got, err := events.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Sooner", got[0].Name)
	assert.Equal(t, "Later", got[1].Name)
}

func TestMySQLUpdateEvent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	events := NewEventRepo(db)

	e := newEvent("Conf", time.Now().UTC().Add(48*time.Hour))
	require.NoError(t, events.Create(ctx, e))

	upd := *e
	upd.Name = "Conf v2"
	upd.AvailableSeats = 42
	require.NoError(t, events.Update(ctx, &upd))

	got, err := events.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "Conf v2", got.Name)
	assert.Equal(t, 42, got.AvailableSeats)
	require.NotNil(t, got.UpdatedAt)
	assert.True(t, got.CreatedAt.Equal(e.CreatedAt))

	// Updating a missing row affects nothing and is not an error.
	ghost := *e
	ghost.ID = e.ID + 100000
	assert.NoError(t, events.Update(ctx, &ghost))
}

func TestMySQLTicketOrderings(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	events := NewEventRepo(db)
	tickets := NewTicketRepo(db)

	e := newEvent("Conf", time.Now().UTC().Add(48*time.Hour))
	require.NoError(t, events.Create(ctx, e))
	var ids []int64
	for _, seat := range []string{"B2", "A10", "A1"} {
		tk := newTicket(e.ID, "a@b.com", seat)
		require.NoError(t, tickets.Create(ctx, tk))
		ids = append(ids, tk.ID)
	}
	// All three purchases landed in the same second; spread them out so
	// the purchased_at ordering is observable.
	base := time.Now().UTC().Add(-time.Hour).Truncate(time.Second)
	for i, id := range ids {
		_, err := db.ExecContext(ctx, `UPDATE tickets SET purchased_at = ? WHERE id = ?`,
			base.Add(time.Duration(i)*time.Minute), id)
		require.NoError(t, err)
	}

	bySeat, err := tickets.GetByEvent(ctx, e.ID)
	require.NoError(t, err)
	require.Len(t, bySeat, 3)
	assert.Equal(t, "A1", bySeat[0].SeatNumber)
	assert.Equal(t, "A10", bySeat[1].SeatNumber)
	assert.Equal(t, "B2", bySeat[2].SeatNumber)
	assert.Nil(t, bySeat[0].Event)

	all, err := tickets.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	// Most recent purchase first: the last id got the latest timestamp.
	assert.Equal(t, ids[2], all[0].ID)
	assert.Equal(t, ids[0], all[2].ID)
	require.NotNil(t, all[0].Event)
	assert.Equal(t, e.ID, all[0].Event.ID)
}

func TestMySQLEmailMatchFollowsCollation(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	events := NewEventRepo(db)
	tickets := NewTicketRepo(db)

	e := newEvent("Conf", time.Now().UTC().Add(48*time.Hour))
	require.NoError(t, events.Create(ctx, e))
	require.NoError(t, tickets.Create(ctx, newTicket(e.ID, "Alice@Example.com", "A1")))

	// utf8mb4_unicode_ci matches case-insensitively.
	got, err := tickets.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.NotNil(t, got[0].Event)
	assert.Equal(t, "Conf", got[0].Event.Name)

	none, err := tickets.GetByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMySQLCountIncludesCancelled(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	events := NewEventRepo(db)
	tickets := NewTicketRepo(db)

	e := newEvent("Conf", time.Now().UTC().Add(48*time.Hour))
	require.NoError(t, events.Create(ctx, e))

	cancelled := newTicket(e.ID, "a@b.com", "A1")
	cancelled.Status = model.StatusCancelled
	require.NoError(t, tickets.Create(ctx, cancelled))
	require.NoError(t, tickets.Create(ctx, newTicket(e.ID, "a@b.com", "A2")))

	n, err := tickets.CountByEvent(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
