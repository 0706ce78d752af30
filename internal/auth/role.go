// Package auth holds the typed identity that every protected handler
// receives, the closed set of roles and the static permission table.
package auth

import (
	"errors"
	"strings"

	"github.com/iliyamo/museum-desk/internal/model"
)

// Role is the closed set of account classifications stored in
// users.user_type.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleCurator    Role = "curator"
	RoleShopStaff  Role = "shop_staff"
	RoleEventStaff Role = "event_staff"
	RoleMember     Role = "member"
)

// ErrUnknownRole is returned by ParseRole for tags outside the closed set.
var ErrUnknownRole = errors.New("unknown role")

// Roles lists every valid role in display order.
var Roles = []Role{RoleAdmin, RoleCurator, RoleShopStaff, RoleEventStaff, RoleMember}

// ParseRole normalizes a raw role tag (case and surrounding space are ignored).
func ParseRole(raw string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range Roles {
		if r == known {
			return r, nil
		}
	}
	return "", ErrUnknownRole
}

// IsStaff reports whether accounts of this role link to a staff record.
func (r Role) IsStaff() bool {
	return r != RoleMember && r != ""
}

// ProfileKind tells which profile table a linked id of this role resolves into.
func (r Role) ProfileKind() model.ProfileKind {
	switch {
	case r == RoleMember:
		return model.ProfileMember
	case r.IsStaff():
		return model.ProfileStaff
	default:
		return model.ProfileNone
	}
}

func (r Role) String() string { return string(r) }
