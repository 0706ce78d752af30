// Package session keeps server-side session state keyed by the id carried
// in the signed session cookie.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/iliyamo/museum-desk/internal/auth"
	"github.com/iliyamo/museum-desk/internal/model"
)

// ErrNotFound is returned for unknown or expired session ids.
var ErrNotFound = errors.New("session not found")

// Data is what a session remembers about the logged-in account.
type Data struct {
	AccountID   uint64            `json:"account_id"`
	Role        string            `json:"role"`
	Handle      string            `json:"handle"`
	ProfileKind model.ProfileKind `json:"profile_kind"`
	ProfileID   uint64            `json:"profile_id"`
	ExpiresAt   time.Time         `json:"expires_at"`
}

// Store persists sessions. Implementations must treat expired entries as
// absent.
type Store interface {
	Create(ctx context.Context, d Data) (string, error)
	Get(ctx context.Context, sid string) (Data, error)
	Delete(ctx context.Context, sid string) error
}

// FromAccount builds session data for a freshly authenticated account.
func FromAccount(a model.Account, expiresAt time.Time) Data {
	return Data{
		AccountID:   a.ID,
		Role:        a.Role,
		Handle:      a.Username,
		ProfileKind: a.Profile.Kind,
		ProfileID:   a.Profile.ID,
		ExpiresAt:   expiresAt.UTC(),
	}
}

// Identity converts stored session data into the typed request identity.
// Data with an unknown role fails closed.
func (d Data) Identity(sid string) (auth.Identity, error) {
	role, err := auth.ParseRole(d.Role)
	if err != nil {
		return auth.Identity{}, err
	}
	if d.AccountID == 0 {
		return auth.Identity{}, ErrNotFound
	}
	profile := model.NoProfile()
	if d.ProfileKind == role.ProfileKind() && d.ProfileID > 0 {
		profile = model.LinkedProfile{Kind: d.ProfileKind, ID: d.ProfileID}
	}
	return auth.Identity{
		AccountID: d.AccountID,
		Role:      role,
		Handle:    d.Handle,
		Profile:   profile,
		SessionID: sid,
	}, nil
}
