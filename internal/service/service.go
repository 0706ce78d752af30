// Package service implements the museum desk operations. Every mutation
// that touches more than one row runs inside database.WithTx; activity
// logging, metrics and domain events happen only after commit.
package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/museum-desk/internal/logger"
	"github.com/iliyamo/museum-desk/internal/model"
	"github.com/iliyamo/museum-desk/internal/queue"
	"github.com/iliyamo/museum-desk/internal/repository"
)

// Publisher delivers domain events after commit.
type Publisher interface {
	Publish(ctx context.Context, ev queue.Event) error
}

// Deps is shared by every service.
type Deps struct {
	DB       *sql.DB
	Activity *ActivityLogger
	Events   Publisher
	Log      *zap.Logger
	Now      func() time.Time
}

func (d Deps) withDefaults() Deps {
	d.Log = logger.OrNop(d.Log)
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Events == nil {
		d.Events = queue.Nop{}
	}
	if d.Activity == nil {
		d.Activity = NewActivityLogger(repository.NewActivityRepo(d.DB), d.Log, d.Now)
	}
	return d
}

// publish sends ev and only logs failures; the change it describes is
// already committed.
func (d Deps) publish(ctx context.Context, ev queue.Event) {
	ev.OccurredAt = d.Now().UTC()
	if err := d.Events.Publish(ctx, ev); err != nil {
		d.Log.Warn("publish domain event", zap.String("type", ev.Type), zap.Error(err))
	}
}

// Actor is who performs a mutation and from where.
type Actor struct {
	AccountID uint64
	Handle    string
	IP        string
}

func (a Actor) userID() *uint64 {
	if a.AccountID == 0 {
		return nil
	}
	id := a.AccountID
	return &id
}

// fromRepo converts repository sentinels into service ones.
func fromRepo(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrDuplicate):
		return ErrUsernameTaken
	}
	return err
}

func ptr(v uint64) *uint64 { return &v }

// today is the calendar day of now in UTC.
func today(now func() time.Time) time.Time { return model.DateOnly(now()) }
