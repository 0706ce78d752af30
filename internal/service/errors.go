package service

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError reports missing or malformed input. It is raised before
// any write happens.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func invalid(field, msg string) error { return &ValidationError{Field: field, Message: msg} }

// required returns a ValidationError for the first blank value, keyed by
// field name, in the order given.
func required(fields ...[2]string) error {
	for _, f := range fields {
		if strings.TrimSpace(f[1]) == "" {
			return invalid(f[0], "is required")
		}
	}
	return nil
}

// Business-rule violations. Any open unit of work is rolled back before
// these reach the caller.
var (
	ErrNotFound               = errors.New("not found")
	ErrUsernameTaken          = errors.New("username already exists")
	ErrInvalidCredentials     = errors.New("invalid username or password")
	ErrAccountInactive        = errors.New("account is inactive")
	ErrAlreadyCheckedIn       = errors.New("ticket already checked in")
	ErrInsufficientCapacity   = errors.New("insufficient capacity")
	ErrInsufficientStock      = errors.New("insufficient stock")
	ErrEmptyCart              = errors.New("cart is empty")
	ErrManagerNotInDepartment = errors.New("manager must belong to the department")
	ErrInvalidTierChange      = errors.New("invalid membership tier change")
	ErrNoPendingReorder       = errors.New("no pending reorder for item")
	ErrNotOwnMembership       = errors.New("members may only manage their own membership")
)

// CapacityError carries how many seats were left when a purchase was refused.
type CapacityError struct{ Remaining int }

func (e *CapacityError) Error() string { return fmt.Sprintf("only %d remaining", e.Remaining) }

func (e *CapacityError) Unwrap() error { return ErrInsufficientCapacity }

// StockError names the item that could not cover the requested quantity.
type StockError struct {
	ItemID    uint64
	Name      string
	Available int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("only %d of %q in stock", e.Available, e.Name)
}

func (e *StockError) Unwrap() error { return ErrInsufficientStock }
