package model

import "time"

// Event is a scheduled museum event with a fixed capacity. TicketsSold is
// filled by list queries and is not a column.
type Event struct {
	ID          uint64    `json:"event_id"`     // events.event_id
	Name        string    `json:"name"`         // events.name
	Description string    `json:"description"`  // events.description
	EventDate   time.Time `json:"event_date"`   // events.event_date
	Location    string    `json:"location"`     // events.location
	Capacity    int       `json:"capacity"`     // events.capacity
	TicketsSold int       `json:"tickets_sold"` // SUM(tickets.quantity)
}

// Remaining is capacity minus tickets sold, floored at zero.
func (e Event) Remaining() int {
	if r := e.Capacity - e.TicketsSold; r > 0 {
		return r
	}
	return 0
}

// Ticket records a purchase of Quantity seats for one event. Exactly one of
// MemberID/VisitorID is set, or neither for anonymous sales.
type Ticket struct {
	ID           uint64     `json:"ticket_id"`     // tickets.ticket_id
	EventID      uint64     `json:"event_id"`      // tickets.event_id
	MemberID     *uint64    `json:"member_id"`     // tickets.member_id (nullable)
	VisitorID    *uint64    `json:"visitor_id"`    // tickets.visitor_id (nullable)
	PurchaseDate time.Time  `json:"purchase_date"` // tickets.purchase_date
	Quantity     int        `json:"quantity"`      // tickets.quantity
	CheckedIn    bool       `json:"checked_in"`    // tickets.checked_in
	CheckInTime  *time.Time `json:"check_in_time"` // tickets.check_in_time (nullable)
}

// Visitor is a one-off purchaser without an account.
type Visitor struct {
	ID        uint64    `json:"visitor_id"` // visitors.visitor_id
	FirstName string    `json:"first_name"` // visitors.first_name
	LastName  string    `json:"last_name"`  // visitors.last_name
	Email     string    `json:"email"`      // visitors.email
	Phone     string    `json:"phone"`      // visitors.phone
	CreatedAt time.Time `json:"created_at"` // visitors.created_at
}
