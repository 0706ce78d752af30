package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/iliyamo/museum-desk/internal/database"
	"github.com/iliyamo/museum-desk/internal/metrics"
	"github.com/iliyamo/museum-desk/internal/model"
	"github.com/iliyamo/museum-desk/internal/queue"
	"github.com/iliyamo/museum-desk/internal/repository"
)

// Purchase is the input of a ticket purchase. Either MemberID is set or
// Guest carries the visitor's contact details; neither means an anonymous
// sale at the desk.
type Purchase struct {
	EventID  uint64
	Quantity int
	MemberID *uint64
	Guest    *model.Visitor
}

// TicketService sells tickets against event capacity and checks them in.
type TicketService struct {
	Deps
	events   *repository.EventRepo
	tickets  *repository.TicketRepo
	visitors *repository.VisitorRepo
}

func NewTicketService(d Deps) *TicketService {
	d = d.withDefaults()
	return &TicketService{
		Deps:     d,
		events:   repository.NewEventRepo(d.DB),
		tickets:  repository.NewTicketRepo(d.DB),
		visitors: repository.NewVisitorRepo(),
	}
}

func validatePurchase(p Purchase) error {
	if p.EventID == 0 {
		return invalid("event_id", "is required")
	}
	if p.Quantity < 1 {
		return invalid("quantity", "must be at least 1")
	}
	if p.MemberID != nil && p.Guest != nil {
		return invalid("purchaser", "either a member or a guest, not both")
	}
	if g := p.Guest; g != nil {
		return required([2]string{"first_name", g.FirstName}, [2]string{"last_name", g.LastName}, [2]string{"email", g.Email})
	}
	return nil
}

// Purchase sells Quantity seats. The event row is locked while the sold
// total is read so concurrent purchases cannot oversell; a guest's visitor
// row is created in the same unit of work as the ticket.
func (s *TicketService) Purchase(ctx context.Context, actor Actor, p Purchase) (model.Ticket, error) {
	if err := validatePurchase(p); err != nil {
		return model.Ticket{}, err
	}
	t := model.Ticket{
		EventID:      p.EventID,
		MemberID:     p.MemberID,
		PurchaseDate: s.Now().UTC(),
		Quantity:     p.Quantity,
	}

	err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		capacity, err := s.events.LockCapacityTx(ctx, tx, p.EventID)
		if err != nil {
			return fromRepo(err)
		}
		sold, err := s.events.SoldTx(ctx, tx, p.EventID)
		if err != nil {
			return err
		}
		if remaining := capacity - sold; p.Quantity > remaining {
			if remaining < 0 {
				remaining = 0
			}
			return &CapacityError{Remaining: remaining}
		}
		if p.Guest != nil {
			v := *p.Guest
			v.FirstName, v.LastName = strings.TrimSpace(v.FirstName), strings.TrimSpace(v.LastName)
			v.Email, v.Phone = strings.TrimSpace(v.Email), strings.TrimSpace(v.Phone)
			if err := s.visitors.CreateTx(ctx, tx, &v); err != nil {
				return fmt.Errorf("create visitor: %w", err)
			}
			t.VisitorID = ptr(v.ID)
		}
		return s.tickets.CreateTx(ctx, tx, &t)
	})
	if err != nil {
		return model.Ticket{}, err
	}

	purchaser := "anonymous"
	switch {
	case t.MemberID != nil:
		purchaser = "member"
	case t.VisitorID != nil:
		purchaser = "visitor"
	}
	metrics.TicketsSold.WithLabelValues(purchaser).Add(float64(t.Quantity))
	s.Activity.Record(ctx, actor, model.ActionPurchaseTicket, "tickets", t.ID,
		fmt.Sprintf("Purchased %d ticket(s) for event %d (%s)", t.Quantity, t.EventID, purchaser))
	s.publish(ctx, queue.Event{
		Type:    queue.TypeTicketPurchased,
		ActorID: actor.AccountID,
		Ticket: &queue.TicketPurchased{
			TicketID: t.ID, EventID: t.EventID, Quantity: t.Quantity, MemberID: t.MemberID, VisitorID: t.VisitorID,
		},
	})
	return t, nil
}

// CheckIn moves a ticket from not-checked-in to checked-in under a row
// lock. A second attempt fails with ErrAlreadyCheckedIn and leaves the
// original timestamp untouched.
func (s *TicketService) CheckIn(ctx context.Context, actor Actor, ticketID uint64) (model.Ticket, error) {
	var t model.Ticket
	err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		var err error
		t, err = s.tickets.LockTx(ctx, tx, ticketID)
		if err != nil {
			return fromRepo(err)
		}
		if t.CheckedIn {
			return ErrAlreadyCheckedIn
		}
		at := s.Now().UTC()
		if err := s.tickets.MarkCheckedInTx(ctx, tx, ticketID, at); err != nil {
			return err
		}
		t.CheckedIn = true
		t.CheckInTime = &at
		return nil
	})
	if err != nil {
		return model.Ticket{}, err
	}

	metrics.CheckIns.Inc()
	s.Activity.Record(ctx, actor, model.ActionCheckIn, "tickets", t.ID,
		fmt.Sprintf("Checked in ticket %d for event %d", t.ID, t.EventID))
	s.publish(ctx, queue.Event{
		Type:    queue.TypeTicketCheckedIn,
		ActorID: actor.AccountID,
		CheckIn: &queue.TicketCheckedIn{TicketID: t.ID, EventID: t.EventID, Quantity: t.Quantity},
	})
	return t, nil
}

func (s *TicketService) Get(ctx context.Context, id uint64) (model.Ticket, error) {
	t, err := s.tickets.GetByID(ctx, id)
	return t, fromRepo(err)
}
