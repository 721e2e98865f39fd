package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kopikeliling/marketplace/internal/models"
	"github.com/kopikeliling/marketplace/internal/transport"
)

func intp(v int) *int { return &v }

func TestInventoryService_SetStock(t *testing.T) {
	r := newTestRepo(t)
	ev := &recordingPublisher{}
	svc := &InventoryService{Repo: r, Events: ev}
	ctx := context.Background()
	staff := seedUser(t, r, "budi", models.RoleStaff)
	p := seedProduct(t, r, "Kopi", 18000)

	_, err := svc.SetStock(ctx, staff.ID, p.ID, intp(-1))
	require.ErrorIs(t, err, ErrValidation)
	_, err = svc.SetStock(ctx, staff.ID, p.ID, nil)
	require.ErrorIs(t, err, ErrValidation)
	_, err = svc.SetStock(ctx, staff.ID, 777, intp(1))
	require.ErrorIs(t, err, ErrNotFound)

	inv, err := svc.SetStock(ctx, staff.ID, p.ID, intp(12))
	require.NoError(t, err)
	assert.Equal(t, 12, inv.Stock)

	n, err := svc.GetStock(ctx, staff.ID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	assert.Equal(t, []string{"stock_updated"}, ev.types())
}

func TestInventoryService_BulkSetStock(t *testing.T) {
	r := newTestRepo(t)
	svc := &InventoryService{Repo: r}
	ctx := context.Background()
	staff := seedUser(t, r, "budi", models.RoleStaff)
	a := seedProduct(t, r, "A", 1000)
	b := seedProduct(t, r, "B", 1000)

	_, err := svc.BulkSetStock(ctx, staff.ID, transport.BulkStockRequest{})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.BulkSetStock(ctx, staff.ID, transport.BulkStockRequest{Items: []transport.BulkStockItem{
		{ProductID: a.ID, Stock: intp(3)},
		{ProductID: 999, Stock: intp(3)},
	}})
	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, stockOf(t, r, staff.ID, a.ID))

	out, err := svc.BulkSetStock(ctx, staff.ID, transport.BulkStockRequest{Items: []transport.BulkStockItem{
		{ProductID: a.ID, Stock: intp(3)},
		{ProductID: b.ID, Stock: intp(0)},
	}})
	require.NoError(t, err)
	assert.Len(t, out, 2)
	assert.Equal(t, 3, stockOf(t, r, staff.ID, a.ID))
}

func TestInventoryService_Delete(t *testing.T) {
	r := newTestRepo(t)
	svc := &InventoryService{Repo: r}
	ctx := context.Background()
	p := seedProduct(t, r, "Kopi", 1000)
	seedStock(t, r, 5, p.ID, 2)

	require.NoError(t, svc.Delete(ctx, 5, p.ID))
	require.ErrorIs(t, svc.Delete(ctx, 5, p.ID), ErrNotFound)

	list, err := svc.List(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, list)
}
