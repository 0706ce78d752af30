package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/museum-desk/internal/model"
)

// activityStore is the part of the activity repository the logger needs.
type activityStore interface {
	Append(ctx context.Context, e *model.ActivityLogEntry) error
}

// ActivityLogger appends audit rows. Logging is best effort: failures are
// reported to zap and never fail the request.
type ActivityLogger struct {
	store activityStore
	log   *zap.Logger
	now   func() time.Time
}

func NewActivityLogger(store activityStore, log *zap.Logger, now func() time.Time) *ActivityLogger {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ActivityLogger{store: store, log: log, now: now}
}

// Record writes one entry. recordID may be zero when no row is affected.
func (l *ActivityLogger) Record(ctx context.Context, actor Actor, action, table string, recordID uint64, description string) {
	e := &model.ActivityLogEntry{
		UserID:      actor.userID(),
		Action:      action,
		TableName:   table,
		Description: description,
		IPAddress:   actor.IP,
		CreatedAt:   l.now().UTC(),
	}
	if recordID != 0 {
		e.RecordID = ptr(recordID)
	}
	// detached from request cancellation so a client hang-up after commit
	// still leaves the audit row
	ctx = context.WithoutCancel(ctx)
	if err := l.store.Append(ctx, e); err != nil {
		l.log.Warn("activity log append failed",
			zap.String("action", action), zap.String("table", table), zap.Uint64("record_id", recordID), zap.Error(err))
	}
}
