package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/museum-desk/internal/model"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestReportTableFormatsCells(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`FROM shop_items`).
		WillReturnRows(sqlmock.NewRows([]string{"item_name", "category", "price", "stock", "threshold", "pending", "last"}).
			AddRow("Mug", nil, "12.50", 4, 5, 0, "").
			AddRow("Poster", "Prints", "8.00", 40, 10, 0, "2024-04-30"))

	rep, err := NewReportRepo(db).Inventory(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "inventory", rep.Name)
	assert.Len(t, rep.Columns, 7)
	assert.Equal(t, []string{"Mug", "", "12.50", "4", "5", "0", ""}, rep.Rows[0])
	assert.Equal(t, "2024-04-30", rep.Rows[1][6])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportTableEmptyHasNoNilRows(t *testing.T) {
	db, mock := newMock(t)
	from := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	mock.ExpectQuery(`FROM sales`).WithArgs(from, to).
		WillReturnRows(sqlmock.NewRows([]string{"day", "n", "disc", "rev"}))

	rep, err := NewReportRepo(db).Sales(context.Background(), from, to)
	require.NoError(t, err)
	assert.NotNil(t, rep.Rows)
	assert.Empty(t, rep.Rows)
}

func TestAccountScanLinksProfileByRole(t *testing.T) {
	db, mock := newMock(t)
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE username = ? LIMIT 1`)).WithArgs("curator1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "username", "email", "password_hash", "user_type", "linked_id", "is_active", "created_at", "last_login"}).
			AddRow(3, "curator1", "c@museum.test", "hash", "curator", 17, true, created, nil))

	a, err := NewAccountRepo(db).GetByUsername(context.Background(), " curator1 ")
	require.NoError(t, err)
	staffID, ok := a.Profile.StaffID()
	assert.True(t, ok)
	assert.Equal(t, uint64(17), staffID)
	_, isMember := a.Profile.MemberID()
	assert.False(t, isMember)
	assert.Nil(t, a.LastLogin)
}

func TestAccountNotFound(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`FROM users WHERE user_id`).WithArgs(int64(99)).WillReturnError(sql.ErrNoRows)

	_, err := NewAccountRepo(db).GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetActiveUnknownAccount(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT 1 FROM users WHERE user_id = ?`)).WithArgs(int64(8)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	err := NewAccountRepo(db).SetActive(context.Background(), 8, false)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLinkedProfileColumn(t *testing.T) {
	assert.False(t, model.NoProfile().Column().Valid)
	col := model.MemberProfile(5).Column()
	assert.True(t, col.Valid)
	assert.Equal(t, int64(5), col.Int64)
}
