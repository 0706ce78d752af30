package model

import (
	"strings"
	"time"
)

// MembershipTier is the closed, ordered set of membership levels.
type MembershipTier string

const (
	TierStudent    MembershipTier = "student"
	TierIndividual MembershipTier = "individual"
	TierFamily     MembershipTier = "family"
	TierPatron     MembershipTier = "patron"
)

var tierRank = map[MembershipTier]int{
	TierStudent:    1,
	TierIndividual: 2,
	TierFamily:     3,
	TierPatron:     4,
}

// ParseTier normalizes a raw tier name. ok is false for unknown tiers.
func ParseTier(raw string) (MembershipTier, bool) {
	t := MembershipTier(strings.ToLower(strings.TrimSpace(raw)))
	_, ok := tierRank[t]
	return t, ok
}

// Rank orders tiers for upgrade/downgrade checks. Unknown tiers rank 0.
func (t MembershipTier) Rank() int { return tierRank[t] }

// MembershipStatus is derived from the expiration date, never stored.
type MembershipStatus string

const (
	StatusActive       MembershipStatus = "active"
	StatusExpiringSoon MembershipStatus = "expiring_soon"
	StatusExpired      MembershipStatus = "expired"
)

// ExpiringSoonWindow is how close to expiration a membership is flagged.
const ExpiringSoonWindow = 30 * 24 * time.Hour

// Member is a row of the `members` table.
type Member struct {
	ID             uint64         `json:"member_id"`       // members.member_id
	FirstName      string         `json:"first_name"`      // members.first_name
	LastName       string         `json:"last_name"`       // members.last_name
	Email          string         `json:"email"`           // members.email
	Phone          string         `json:"phone"`           // members.phone
	Tier           MembershipTier `json:"membership_type"` // members.membership_type
	StartDate      time.Time      `json:"start_date"`      // members.start_date
	ExpirationDate time.Time      `json:"expiration_date"` // members.expiration_date
	AutoRenew      bool           `json:"auto_renew"`      // members.auto_renew
}

// Status derives the membership state relative to today.
func (m Member) Status(today time.Time) MembershipStatus {
	return StatusOn(m.ExpirationDate, today)
}

// ValidOn reports whether the membership has not expired at day.
func (m Member) ValidOn(day time.Time) bool {
	return !DateOnly(m.ExpirationDate).Before(DateOnly(day))
}

// StatusOn derives the membership state of an expiration date relative to
// today. A membership expiring today is still valid.
func StatusOn(expiration, today time.Time) MembershipStatus {
	exp := DateOnly(expiration)
	day := DateOnly(today)
	switch {
	case exp.Before(day):
		return StatusExpired
	case !exp.After(day.Add(ExpiringSoonWindow)):
		return StatusExpiringSoon
	default:
		return StatusActive
	}
}

// DateOnly truncates t to midnight UTC of its UTC calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
