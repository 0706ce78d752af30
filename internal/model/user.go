package model

import "time"

// Account represents a login identity as stored in the `users` table.
// The role tag decides which profile table the linked profile resolves
// into; see LinkedProfile.
//
// Fields:
//
//	ID           – primary key identifier of the account.
//	Username     – unique login handle.
//	Email        – contact email.
//	PasswordHash – bcrypt hash (legacy rows may hold a SHA-256 hex digest).
//	Role         – role tag (admin, curator, shop_staff, event_staff, member).
//	Profile      – typed form of users.linked_id.
//	IsActive     – inactive accounts cannot log in.
//	CreatedAt    – timestamp of creation.
//	LastLogin    – timestamp of the last successful login (nil if never).
type Account struct {
	ID           uint64        `json:"user_id"`        // users.user_id
	Username     string        `json:"username"`       // users.username
	Email        string        `json:"email"`          // users.email
	PasswordHash string        `json:"-"`              // users.password_hash
	Role         string        `json:"user_type"`      // users.user_type
	Profile      LinkedProfile `json:"linked_profile"` // users.linked_id
	IsActive     bool          `json:"is_active"`      // users.is_active
	CreatedAt    time.Time     `json:"created_at"`     // users.created_at
	LastLogin    *time.Time    `json:"last_login"`     // users.last_login (nullable)
}
