package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestConsumerHandleAppendsLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "events.log")
	c := &Consumer{LogPath: path, Log: zap.NewNop()}

	member := uint64(3)
	ev := Event{
		Type:       TypeSaleCompleted,
		OccurredAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		ActorID:    9,
		Sale: &SaleCompleted{SaleID: 12, MemberID: &member, Lines: 2,
			Subtotal: "25.00", Discount: "2.50", Total: "22.50", PaymentMethod: "cash"},
	}
	body, err := json.Marshal(ev)
	require.NoError(t, err)

	require.NoError(t, c.Handle(body))
	require.NoError(t, c.Handle(body))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	want := "[2024-05-01T10:00:00Z] sale.completed | actor=9 | sale_id=12 | lines=2 | subtotal=25.00 | discount=2.50 | total=22.50 | payment=cash | member_id=3\n"
	assert.Equal(t, want+want, string(data))
}

func TestConsumerHandleRejectsBadBodies(t *testing.T) {
	c := &Consumer{LogPath: filepath.Join(t.TempDir(), "events.log"), Log: zap.NewNop()}
	assert.Error(t, c.Handle([]byte("{not json")))
	assert.Error(t, c.Handle([]byte(`{"occurred_at":"2024-05-01T10:00:00Z"}`)))
}

func TestEventLineMembership(t *testing.T) {
	ev := Event{
		Type:       TypeMembershipChanged,
		OccurredAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Membership: &MembershipChanged{MemberID: 4, Change: "cancel", Tier: "family", Expiration: "2024-05-01"},
	}
	assert.Equal(t,
		"[2024-05-01T00:00:00Z] membership.changed | member_id=4 | change=cancel | tier=family | expires=2024-05-01\n",
		ev.Line())
}
