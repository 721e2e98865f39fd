package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kopikeliling/marketplace/internal/models"
	"github.com/kopikeliling/marketplace/internal/repo"
)

var jakarta = time.FixedZone("WIB", 7*60*60)

func insertTx(t *testing.T, r *repo.GormRepo, staffID uint, status models.TransactionStatus, created time.Time, items ...models.TransactionItem) models.Transaction {
	t.Helper()
	tr := models.Transaction{
		StaffID:         staffID,
		Status:          status,
		MidtransOrderID: "TRX-" + created.Format("150405.000000000") + string(status),
		CreatedAt:       created.UTC(),
		Items:           items,
	}
	for _, it := range items {
		tr.TotalAmount += it.Subtotal
	}
	require.NoError(t, r.DB.Omit("Items.Product").Create(&tr).Error)
	return tr
}

func item(p models.Product, qty int) models.TransactionItem {
	return models.TransactionItem{ProductID: p.ID, Quantity: qty, PriceAtPurchase: p.Price, Subtotal: p.Price * int64(qty)}
}

func TestSalesService_Today_Empty(t *testing.T) {
	r := newTestRepo(t)
	svc := &SalesService{Repo: r, Location: jakarta}

	got, err := svc.Today(context.Background(), 42)
	require.NoError(t, err)

	b, err := json.Marshal(got)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(b, &body))
	summary := body["summary"].(map[string]any)
	assert.Equal(t, float64(0), summary["totalTransactions"])
	assert.Equal(t, float64(0), summary["totalRevenue"])
	assert.Equal(t, []any{}, body["productSales"])
	assert.Equal(t, []any{}, body["transactions"])
}

func TestSalesService_Today_Aggregates(t *testing.T) {
	r := newTestRepo(t)
	staff := seedUser(t, r, "budi", models.RoleStaff)
	other := seedUser(t, r, "sari", models.RoleStaff)
	kopi := seedProduct(t, r, "Kopi Susu", 20000)
	aren := seedProduct(t, r, "Es Kopi Aren", 25000)

	now := time.Date(2026, 10, 19, 15, 0, 0, 0, jakarta)
	svc := &SalesService{Repo: r, Location: jakarta, Now: func() time.Time { return now }}

	// Yesterday evening in Jakarta, still 18 Oct.
	insertTx(t, r, staff.ID, models.StatusCompleted, time.Date(2026, 10, 18, 23, 30, 0, 0, jakarta), item(kopi, 5))
	// Another seller today.
	insertTx(t, r, other.ID, models.StatusCompleted, time.Date(2026, 10, 19, 9, 0, 0, 0, jakarta), item(kopi, 1))

	insertTx(t, r, staff.ID, models.StatusCompleted, time.Date(2026, 10, 19, 0, 30, 0, 0, jakarta), item(kopi, 2))
	insertTx(t, r, staff.ID, models.StatusPaid, time.Date(2026, 10, 19, 8, 0, 0, 0, jakarta), item(aren, 1))
	insertTx(t, r, staff.ID, models.StatusPending, time.Date(2026, 10, 19, 9, 0, 0, 0, jakarta), item(kopi, 1))
	insertTx(t, r, staff.ID, models.StatusExpired, time.Date(2026, 10, 19, 10, 0, 0, 0, jakarta), item(kopi, 1))
	last := insertTx(t, r, staff.ID, models.StatusCompleted, time.Date(2026, 10, 19, 11, 0, 0, 0, jakarta), item(aren, 2), item(kopi, 1))

	got, err := svc.Today(context.Background(), staff.ID)
	require.NoError(t, err)

	assert.Equal(t, "2026-10-19", got.Date)
	assert.Equal(t, 5, got.Summary.TotalTransactions)
	assert.Equal(t, 2, got.Summary.CompletedTransactions)
	assert.Equal(t, 3, got.Summary.PaidTransactions)
	assert.Equal(t, 1, got.Summary.PendingTransactions)
	assert.Equal(t, int64(40000+70000), got.Summary.TotalRevenue)

	require.Len(t, got.ProductSales, 2)
	assert.Equal(t, "Es Kopi Aren", got.ProductSales[0].ProductName)
	assert.Equal(t, 2, got.ProductSales[0].QuantitySold)
	assert.Equal(t, int64(50000), got.ProductSales[0].Revenue)
	assert.Equal(t, "Kopi Susu", got.ProductSales[1].ProductName)
	assert.Equal(t, 3, got.ProductSales[1].QuantitySold)
	assert.Equal(t, int64(60000), got.ProductSales[1].Revenue)

	require.Len(t, got.Transactions, 5)
	assert.Equal(t, last.ID, got.Transactions[0].TransactionID)
	assert.Equal(t, 2, got.Transactions[0].ItemCount)
	for i := 1; i < len(got.Transactions); i++ {
		assert.False(t, got.Transactions[i].CreatedAt.After(got.Transactions[i-1].CreatedAt))
	}
}
