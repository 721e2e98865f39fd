package service

import (
	"context"
	"time"

	"github.com/kopikeliling/marketplace/internal/models"
	"github.com/kopikeliling/marketplace/internal/repo"
	"github.com/kopikeliling/marketplace/internal/transport"
)

type SalesService struct {
	Repo     *repo.GormRepo
	Location *time.Location
	Now      func() time.Time
}

func (s *SalesService) startOfDay() time.Time {
	loc := s.Location
	if loc == nil {
		loc = time.UTC
	}
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// Today summarises the seller's transactions created since local midnight.
// Revenue and per-product figures count completed transactions only.
func (s *SalesService) Today(ctx context.Context, staffID uint) (*transport.TodaySales, error) {
	start := s.startOfDay()

	txs, err := s.Repo.ListTransactionsSince(ctx, staffID, start)
	if err != nil {
		return nil, err
	}

	out := &transport.TodaySales{
		Date:         start.Format("2006-01-02"),
		ProductSales: []transport.ProductSales{},
		Transactions: make([]transport.SalesTransaction, 0, len(txs)),
	}
	out.Summary.TotalTransactions = len(txs)

	index := map[uint]int{}
	for _, t := range txs {
		switch t.Status {
		case models.StatusCompleted:
			out.Summary.CompletedTransactions++
			out.Summary.PaidTransactions++
			out.Summary.TotalRevenue += t.TotalAmount
		case models.StatusPaid:
			out.Summary.PaidTransactions++
			continue
		case models.StatusPending:
			out.Summary.PendingTransactions++
			continue
		default:
			continue
		}

		for _, it := range t.Items {
			j, ok := index[it.ProductID]
			if !ok {
				j = len(out.ProductSales)
				index[it.ProductID] = j
				out.ProductSales = append(out.ProductSales, transport.ProductSales{
					ProductID:   it.ProductID,
					ProductName: it.Product.Name,
				})
			}
			out.ProductSales[j].QuantitySold += it.Quantity
			out.ProductSales[j].Revenue += it.Subtotal
		}
	}

	for _, t := range txs {
		out.Transactions = append(out.Transactions, transport.SalesTransaction{
			TransactionID: t.ID,
			OrderID:       t.MidtransOrderID,
			TotalAmount:   t.TotalAmount,
			Status:        t.Status,
			ItemCount:     len(t.Items),
			CreatedAt:     t.CreatedAt,
			PaidAt:        t.PaidAt,
		})
	}
	return out, nil
}
