package model

import "database/sql"

// ProfileKind tags which role-specific table an account's linked id points
// into.
type ProfileKind uint8

const (
	ProfileNone ProfileKind = iota
	ProfileMember
	ProfileStaff
)

func (k ProfileKind) String() string {
	switch k {
	case ProfileMember:
		return "member"
	case ProfileStaff:
		return "staff"
	default:
		return "none"
	}
}

// LinkedProfile is the typed form of users.linked_id. The raw column is
// only interpreted together with the account's role, so the repository
// builds this value and nothing above it sees the bare id.
type LinkedProfile struct {
	Kind ProfileKind `json:"kind"`
	ID   uint64      `json:"id,omitempty"`
}

// MemberProfile links an account to members.member_id.
func MemberProfile(id uint64) LinkedProfile { return LinkedProfile{Kind: ProfileMember, ID: id} }

// StaffProfile links an account to staff.staff_id.
func StaffProfile(id uint64) LinkedProfile { return LinkedProfile{Kind: ProfileStaff, ID: id} }

// NoProfile is the transient state of an account whose profile row has not
// been created yet.
func NoProfile() LinkedProfile { return LinkedProfile{} }

// ProfileFromColumn converts the nullable linked_id column using the kind
// implied by the account's role.
func ProfileFromColumn(kind ProfileKind, col sql.NullInt64) LinkedProfile {
	if !col.Valid || col.Int64 <= 0 || kind == ProfileNone {
		return NoProfile()
	}
	return LinkedProfile{Kind: kind, ID: uint64(col.Int64)}
}

// Column returns the value stored in users.linked_id.
func (p LinkedProfile) Column() sql.NullInt64 {
	if p.Kind == ProfileNone || p.ID == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(p.ID), Valid: true}
}

// MemberID returns the member id when the profile is a member profile.
func (p LinkedProfile) MemberID() (uint64, bool) {
	if p.Kind != ProfileMember || p.ID == 0 {
		return 0, false
	}
	return p.ID, true
}

// StaffID returns the staff id when the profile is a staff profile.
func (p LinkedProfile) StaffID() (uint64, bool) {
	if p.Kind != ProfileStaff || p.ID == 0 {
		return 0, false
	}
	return p.ID, true
}
