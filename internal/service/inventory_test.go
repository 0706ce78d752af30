package service

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/museum-desk/internal/model"
)

func TestRejectedStock(t *testing.T) {
	assert.Equal(t, 0, RejectedStock(15, 20))
	assert.Equal(t, 5, RejectedStock(25, 20))
	assert.Equal(t, 0, RejectedStock(20, 20))
}

func TestRejectReorderFloorsStockAtZero(t *testing.T) {
	f := newFixture(t)
	svc := NewInventoryService(f.deps)

	f.mock.ExpectBegin()
	f.mock.ExpectQuery("SELECT quantity_in_stock, pending_reorder_quantity, auto_reorder_pending FROM shop_items").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"quantity_in_stock", "pending_reorder_quantity", "auto_reorder_pending"}).AddRow(15, 20, true))
	f.mock.ExpectExec("UPDATE shop_items SET quantity_in_stock = \\?, auto_reorder_pending = 0, pending_reorder_quantity = 0").
		WithArgs(0, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	f.mock.ExpectCommit()

	notice, err := svc.ResolveReorder(context.Background(), Actor{AccountID: 6}, 3, ReorderReject)
	require.NoError(t, err)
	assert.Equal(t, "reorder_rejected", notice)
	f.verify(t)
	assert.Equal(t, []string{model.ActionReorderRejected}, f.activity.actions())
}

func TestRejectReorderWithoutPendingFlag(t *testing.T) {
	f := newFixture(t)
	svc := NewInventoryService(f.deps)

	f.mock.ExpectBegin()
	f.mock.ExpectQuery("FROM shop_items WHERE item_id = \\? FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"quantity_in_stock", "pending_reorder_quantity", "auto_reorder_pending"}).AddRow(15, 0, false))
	f.mock.ExpectRollback()

	_, err := svc.ResolveReorder(context.Background(), Actor{}, 3, ReorderReject)
	assert.ErrorIs(t, err, ErrNoPendingReorder)
	f.verify(t)
}

func TestConfirmReorder(t *testing.T) {
	f := newFixture(t)
	svc := NewInventoryService(f.deps)

	f.mock.ExpectExec("UPDATE shop_items SET auto_reorder_pending = 0").WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	notice, err := svc.ResolveReorder(context.Background(), Actor{}, 3, ReorderConfirm)
	require.NoError(t, err)
	assert.Equal(t, "reorder_confirmed", notice)

	f.mock.ExpectExec("UPDATE shop_items SET auto_reorder_pending = 0").WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	_, err = svc.ResolveReorder(context.Background(), Actor{}, 3, ReorderConfirm)
	assert.ErrorIs(t, err, ErrNoPendingReorder)
	f.verify(t)
}

func TestResolveReorderUnknownAction(t *testing.T) {
	f := newFixture(t)
	_, err := NewInventoryService(f.deps).ResolveReorder(context.Background(), Actor{}, 3, "maybe")
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}
