package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/museum-desk/internal/auth"
	"github.com/iliyamo/museum-desk/internal/middleware"
	"github.com/iliyamo/museum-desk/internal/model"
	"github.com/iliyamo/museum-desk/internal/service"
)

// EventHandler serves events, ticket sales and check-in.
type EventHandler struct {
	Events  *service.EventService
	Tickets *service.TicketService
	Log     *zap.Logger
}

func NewEventHandler(events *service.EventService, tickets *service.TicketService, log *zap.Logger) *EventHandler {
	return &EventHandler{Events: events, Tickets: tickets, Log: log}
}

type eventReq struct {
	Name        string `json:"name" form:"name" validate:"required,max=100"`
	Description string `json:"description" form:"description"`
	EventDate   string `json:"event_date" form:"event_date" validate:"required"`
	Location    string `json:"location" form:"location"`
	Capacity    int    `json:"capacity" form:"capacity" validate:"gte=1"`
}

type guestReq struct {
	FirstName string `json:"first_name" form:"first_name"`
	LastName  string `json:"last_name" form:"last_name"`
	Email     string `json:"email" form:"email" validate:"omitempty,email"`
	Phone     string `json:"phone" form:"phone"`
}

type ticketReq struct {
	Quantity int    `json:"quantity" form:"quantity" validate:"gte=1"`
	MemberID string `json:"member_id" form:"member_id"`
	guestReq
}

type eventView struct {
	model.Event
	Remaining int `json:"remaining"`
}

func viewEvents(events []model.Event) []eventView {
	out := make([]eventView, 0, len(events))
	for _, e := range events {
		out = append(out, eventView{Event: e, Remaining: e.Remaining()})
	}
	return out
}

// eventDateLayouts are accepted for event_date, most specific first.
var eventDateLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02 15:04", dateLayout}

func parseEventDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range eventDateLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// List returns every event with sold and remaining seats. It serves both
// the staff listing and the cached public one.
func (h *EventHandler) List(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	events, err := h.Events.List(ctx)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"events": viewEvents(events)})
}

func (h *EventHandler) Create(c echo.Context) error {
	var req eventReq
	if ok, err := bind(c, &req); !ok {
		return err
	}
	when, ok := parseEventDate(req.EventDate)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "event_date must be YYYY-MM-DD or YYYY-MM-DDTHH:MM"})
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	e, err := h.Events.Create(ctx, actor(c), service.NewEvent{
		Name:        req.Name,
		Description: req.Description,
		EventDate:   when,
		Location:    req.Location,
		Capacity:    req.Capacity,
	})
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, eventView{Event: e, Remaining: e.Capacity})
}

// Purchase sells tickets to a signed-in caller. Members always buy for
// their own profile; staff may name a member or a walk-in guest, or sell
// anonymously.
func (h *EventHandler) Purchase(c echo.Context) error {
	eventID, ok := parseID(c, "id")
	if !ok {
		return badID(c)
	}
	var req ticketReq
	if ok, err := bind(c, &req); !ok {
		return err
	}

	p := service.Purchase{EventID: eventID, Quantity: req.Quantity}
	id := identity(c)
	if id.Role == auth.RoleMember {
		// Members buy for themselves only.
		memberID, ok := id.MemberID()
		if !ok {
			return middleware.Deny(c)
		}
		p.MemberID = &memberID
	} else {
		memberID, err := optionalID(req.MemberID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid member_id"})
		}
		p.MemberID = memberID
		if req.hasGuest() {
			p.Guest = req.visitor()
		}
	}
	return h.purchase(c, actor(c), p)
}

// PublicPurchase sells tickets to an unauthenticated guest.
func (h *EventHandler) PublicPurchase(c echo.Context) error {
	eventID, ok := parseID(c, "id")
	if !ok {
		return badID(c)
	}
	var req ticketReq
	if ok, err := bind(c, &req); !ok {
		return err
	}
	p := service.Purchase{EventID: eventID, Quantity: req.Quantity, Guest: req.visitor()}
	return h.purchase(c, service.Actor{IP: c.RealIP()}, p)
}

func (h *EventHandler) purchase(c echo.Context, a service.Actor, p service.Purchase) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	t, err := h.Tickets.Purchase(ctx, a, p)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, t)
}

// CheckIn marks a ticket as used at the door.
func (h *EventHandler) CheckIn(c echo.Context) error {
	ticketID, ok := parseID(c, "id")
	if !ok {
		return badID(c)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	t, err := h.Tickets.CheckIn(ctx, actor(c), ticketID)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, t)
}

func (g guestReq) hasGuest() bool {
	return strings.TrimSpace(g.FirstName+g.LastName+g.Email) != ""
}

func (g guestReq) visitor() *model.Visitor {
	return &model.Visitor{FirstName: g.FirstName, LastName: g.LastName, Email: g.Email, Phone: g.Phone}
}
