package session

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/museum-desk/internal/auth"
	"github.com/iliyamo/museum-desk/internal/model"
)

func newMockStore(t *testing.T) (*SQLStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	s := NewSQLStore(db)
	s.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return s, mock
}

func TestSQLStoreCreate(t *testing.T) {
	s, mock := newMockStore(t)
	d := Data{AccountID: 7, Role: "member", Handle: "ann", ProfileKind: model.ProfileMember, ProfileID: 3,
		ExpiresAt: time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC)}

	mock.ExpectExec("INSERT INTO sessions").
		WithArgs(sqlmock.AnyArg(), uint64(7), sqlmock.AnyArg(), d.ExpiresAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	sid, err := s.Create(context.Background(), d)
	require.NoError(t, err)
	assert.Len(t, sid, 36)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStoreGet(t *testing.T) {
	s, mock := newMockStore(t)
	d := Data{AccountID: 7, Role: "member", Handle: "ann", ProfileKind: model.ProfileMember, ProfileID: 3}
	payload, err := json.Marshal(d)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT data FROM sessions").
		WithArgs("sid-1", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow(payload))

	got, err := s.Get(context.Background(), "sid-1")
	require.NoError(t, err)
	assert.Equal(t, d.AccountID, got.AccountID)
	assert.Equal(t, d.Handle, got.Handle)

	mock.ExpectQuery("SELECT data FROM sessions").
		WithArgs("gone", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"data"}))
	_, err = s.Get(context.Background(), "gone")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDataIdentity(t *testing.T) {
	d := Data{AccountID: 9, Role: "event_staff", Handle: "eve", ProfileKind: model.ProfileStaff, ProfileID: 4}
	id, err := d.Identity("sid")
	require.NoError(t, err)
	assert.Equal(t, auth.RoleEventStaff, id.Role)
	staffID, ok := id.StaffID()
	assert.True(t, ok)
	assert.Equal(t, uint64(4), staffID)

	// a member-kind profile on a staff role is dropped
	d.ProfileKind = model.ProfileMember
	id, err = d.Identity("sid")
	require.NoError(t, err)
	_, ok = id.StaffID()
	assert.False(t, ok)

	d.Role = "owner"
	_, err = d.Identity("sid")
	assert.ErrorIs(t, err, auth.ErrUnknownRole)
}
