package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// SQLStore is the fallback used when Redis is unavailable. Rows live in the
// sessions table; expired rows are ignored on read and removed by Purge.
type SQLStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db, now: time.Now}
}

func (s *SQLStore) Create(ctx context.Context, d Data) (string, error) {
	payload, err := json.Marshal(d)
	if err != nil {
		return "", err
	}
	sid := uuid.NewString()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions (session_id, user_id, data, expires_at) VALUES (?, ?, ?, ?)`,
		sid, d.AccountID, payload, d.ExpiresAt.UTC())
	if err != nil {
		return "", err
	}
	return sid, nil
}

func (s *SQLStore) Get(ctx context.Context, sid string) (Data, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM sessions WHERE session_id = ? AND expires_at > ?`,
		sid, s.now().UTC()).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return Data{}, ErrNotFound
	}
	if err != nil {
		return Data{}, err
	}
	var d Data
	if err := json.Unmarshal(payload, &d); err != nil {
		return Data{}, err
	}
	return d, nil
}

func (s *SQLStore) Delete(ctx context.Context, sid string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE session_id = ?`, sid)
	return err
}

// Purge deletes expired rows and reports how many were removed.
func (s *SQLStore) Purge(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, s.now().UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
