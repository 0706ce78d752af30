// Package queue defines the domain events exchanged over the message
// broker, the publisher used after a unit of work commits and the
// consumer run by the worker binary.
package queue

import (
	"fmt"
	"strings"
	"time"
)

// QueueName is the durable queue every domain event is routed to.
const QueueName = "museum.events"

// Event types.
const (
	TypeSaleCompleted     = "sale.completed"
	TypeTicketPurchased   = "ticket.purchased"
	TypeTicketCheckedIn   = "ticket.checked_in"
	TypeMembershipChanged = "membership.changed"
)

// Event is the envelope published for every committed domain change.
// Exactly one payload pointer is set, matching Type.
type Event struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	ActorID    uint64    `json:"actor_id,omitempty"`

	Sale       *SaleCompleted     `json:"sale,omitempty"`
	Ticket     *TicketPurchased   `json:"ticket,omitempty"`
	CheckIn    *TicketCheckedIn   `json:"check_in,omitempty"`
	Membership *MembershipChanged `json:"membership,omitempty"`
}

// SaleCompleted carries the totals of a committed checkout. Amounts are
// decimal strings.
type SaleCompleted struct {
	SaleID        uint64  `json:"sale_id"`
	MemberID      *uint64 `json:"member_id,omitempty"`
	Lines         int     `json:"lines"`
	Subtotal      string  `json:"subtotal"`
	Discount      string  `json:"discount"`
	Total         string  `json:"total"`
	PaymentMethod string  `json:"payment_method"`
}

type TicketPurchased struct {
	TicketID  uint64  `json:"ticket_id"`
	EventID   uint64  `json:"event_id"`
	Quantity  int     `json:"quantity"`
	MemberID  *uint64 `json:"member_id,omitempty"`
	VisitorID *uint64 `json:"visitor_id,omitempty"`
}

type TicketCheckedIn struct {
	TicketID uint64 `json:"ticket_id"`
	EventID  uint64 `json:"event_id"`
	Quantity int    `json:"quantity"`
}

// MembershipChanged is emitted for renew, upgrade, downgrade and cancel.
type MembershipChanged struct {
	MemberID   uint64 `json:"member_id"`
	Change     string `json:"change"`
	Tier       string `json:"tier"`
	Expiration string `json:"expiration"`
}

// Line renders the event as one human-readable log line, newline included.
func (e Event) Line() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", e.OccurredAt.UTC().Format(time.RFC3339), e.Type)
	if e.ActorID != 0 {
		fmt.Fprintf(&b, " | actor=%d", e.ActorID)
	}
	switch {
	case e.Sale != nil:
		s := e.Sale
		fmt.Fprintf(&b, " | sale_id=%d | lines=%d | subtotal=%s | discount=%s | total=%s | payment=%s",
			s.SaleID, s.Lines, s.Subtotal, s.Discount, s.Total, s.PaymentMethod)
		if s.MemberID != nil {
			fmt.Fprintf(&b, " | member_id=%d", *s.MemberID)
		}
	case e.Ticket != nil:
		t := e.Ticket
		fmt.Fprintf(&b, " | ticket_id=%d | event_id=%d | quantity=%d", t.TicketID, t.EventID, t.Quantity)
		if t.MemberID != nil {
			fmt.Fprintf(&b, " | member_id=%d", *t.MemberID)
		}
		if t.VisitorID != nil {
			fmt.Fprintf(&b, " | visitor_id=%d", *t.VisitorID)
		}
	case e.CheckIn != nil:
		c := e.CheckIn
		fmt.Fprintf(&b, " | ticket_id=%d | event_id=%d | quantity=%d", c.TicketID, c.EventID, c.Quantity)
	case e.Membership != nil:
		m := e.Membership
		fmt.Fprintf(&b, " | member_id=%d | change=%s | tier=%s | expires=%s", m.MemberID, m.Change, m.Tier, m.Expiration)
	}
	b.WriteByte('\n')
	return b.String()
}
