package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/museum-desk/internal/model"
	"github.com/iliyamo/museum-desk/internal/queue"
)

var fixedNow = time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)

type recordedActivity struct {
	mu      sync.Mutex
	entries []model.ActivityLogEntry
}

func (r *recordedActivity) Append(_ context.Context, e *model.ActivityLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *e)
	return nil
}

func (r *recordedActivity) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Action
	}
	return out
}

type recordedEvents struct {
	mu     sync.Mutex
	events []queue.Event
}

func (r *recordedEvents) Publish(_ context.Context, ev queue.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

type fixture struct {
	deps     Deps
	mock     sqlmock.Sqlmock
	activity *recordedActivity
	events   *recordedEvents
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	now := func() time.Time { return fixedNow }
	act := &recordedActivity{}
	evs := &recordedEvents{}
	return fixture{
		deps: Deps{
			DB:       db,
			Activity: NewActivityLogger(act, zap.NewNop(), now),
			Events:   evs,
			Log:      zap.NewNop(),
			Now:      now,
		},
		mock:     mock,
		activity: act,
		events:   evs,
	}
}

func (f fixture) verify(t *testing.T) {
	t.Helper()
	require.NoError(t, f.mock.ExpectationsWereMet())
}

var memberCols = []string{"member_id", "first_name", "last_name", "email", "phone",
	"membership_type", "start_date", "expiration_date", "auto_renew"}

func memberRow(id int64, tier string, start, exp time.Time, autoRenew bool) *sqlmock.Rows {
	return sqlmock.NewRows(memberCols).AddRow(id, "Ada", "Lovelace", "ada@example.com", "555", tier, start, exp, autoRenew)
}

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }
