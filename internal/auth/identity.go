package auth

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/museum-desk/internal/model"
)

// contextKey is the echo context key under which the session gate stores
// the resolved identity.
const contextKey = "identity"

// ErrNoIdentity is returned when a handler runs without the session gate.
var ErrNoIdentity = errors.New("no identity in context")

// Identity is resolved once per request from the session store.
type Identity struct {
	AccountID uint64
	Role      Role
	Handle    string
	Profile   model.LinkedProfile
	SessionID string
}

// Can reports whether the identity may perform p. Admin passes every check.
func (id Identity) Can(p Permission) bool {
	if id.Role == RoleAdmin {
		return true
	}
	return Allowed(id.Role, p)
}

// CanAny reports whether at least one of perms is granted.
func (id Identity) CanAny(perms ...Permission) bool {
	for _, p := range perms {
		if id.Can(p) {
			return true
		}
	}
	return false
}

// MemberID returns the linked member id for member accounts.
func (id Identity) MemberID() (uint64, bool) {
	return id.Profile.MemberID()
}

// StaffID returns the linked staff id for staff-class accounts.
func (id Identity) StaffID() (uint64, bool) {
	return id.Profile.StaffID()
}

// WithIdentity stores the identity on the request context.
func WithIdentity(c echo.Context, id Identity) {
	c.Set(contextKey, id)
}

// FromContext returns the identity stored by the session gate.
func FromContext(c echo.Context) (Identity, error) {
	id, ok := c.Get(contextKey).(Identity)
	if !ok || id.AccountID == 0 {
		return Identity{}, ErrNoIdentity
	}
	return id, nil
}
