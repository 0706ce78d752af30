package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/museum-desk/internal/model"
	"github.com/iliyamo/museum-desk/internal/repository"
)

// NewEvent is the input of EventService.Create.
type NewEvent struct {
	Name        string
	Description string
	EventDate   time.Time
	Location    string
	Capacity    int
}

// EventService lists and schedules events.
type EventService struct {
	Deps
	events *repository.EventRepo
}

func NewEventService(d Deps) *EventService {
	d = d.withDefaults()
	return &EventService{Deps: d, events: repository.NewEventRepo(d.DB)}
}

func (s *EventService) List(ctx context.Context) ([]model.Event, error) {
	return s.events.List(ctx)
}

func (s *EventService) Get(ctx context.Context, id uint64) (model.Event, error) {
	e, err := s.events.GetByID(ctx, id)
	return e, fromRepo(err)
}

func (s *EventService) Create(ctx context.Context, actor Actor, in NewEvent) (model.Event, error) {
	if err := required([2]string{"name", in.Name}); err != nil {
		return model.Event{}, err
	}
	if in.EventDate.IsZero() {
		return model.Event{}, invalid("event_date", "is required")
	}
	if in.Capacity < 1 {
		return model.Event{}, invalid("capacity", "must be at least 1")
	}
	e := model.Event{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		EventDate:   in.EventDate.UTC(),
		Location:    strings.TrimSpace(in.Location),
		Capacity:    in.Capacity,
	}
	if err := s.events.Create(ctx, &e, actor.AccountID); err != nil {
		return model.Event{}, err
	}
	s.Activity.Record(ctx, actor, model.ActionCreateEvent, "events", e.ID,
		fmt.Sprintf("Created event %q with capacity %d", e.Name, e.Capacity))
	return e, nil
}
