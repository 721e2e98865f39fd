package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/kopikeliling/marketplace/internal/models"
)

// ShortfallError is returned when stock no longer covers a line item at insert time.
type ShortfallError struct {
	Shortfall
}

func (e *ShortfallError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: available %d, requested %d",
		e.ProductID, e.Available, e.Requested)
}

type PaymentDetails struct {
	QRISURL               string
	QRISCode              string
	MidtransTransactionID string
	PaymentExpiry         *time.Time
}

// CreateTransaction re-checks stock and inserts the transaction with its items atomically.
func (r *GormRepo) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := make([]uint, 0, len(t.Items))
		for _, it := range t.Items {
			ids = append(ids, it.ProductID)
		}
		stocks, err := stocksFor(tx, t.StaffID, ids)
		if err != nil {
			return err
		}
		for _, it := range t.Items {
			if stocks[it.ProductID] < it.Quantity {
				return &ShortfallError{Shortfall{ProductID: it.ProductID, Available: stocks[it.ProductID], Requested: it.Quantity}}
			}
		}
		return tx.Omit("Items.Product").Create(t).Error
	})
}

func (r *GormRepo) AttachPayment(ctx context.Context, id uint, p PaymentDetails) error {
	return r.DB.WithContext(ctx).Model(&models.Transaction{}).Where("id = ?", id).Updates(map[string]any{
		"qris_url":                p.QRISURL,
		"qris_code":               p.QRISCode,
		"midtrans_transaction_id": p.MidtransTransactionID,
		"payment_expiry":          p.PaymentExpiry,
	}).Error
}

// DeleteTransaction removes the transaction and its items together.
func (r *GormRepo) DeleteTransaction(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("transaction_id = ?", id).Delete(&models.TransactionItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Transaction{}, id).Error
	})
}

func (r *GormRepo) GetTransaction(ctx context.Context, id uint) (*models.Transaction, error) {
	var t models.Transaction
	err := r.DB.WithContext(ctx).Preload("Items.Product").First(&t, id).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *GormRepo) GetTransactionByOrderID(ctx context.Context, orderID string) (*models.Transaction, error) {
	var t models.Transaction
	err := r.DB.WithContext(ctx).Preload("Items").Where("midtrans_order_id = ?", orderID).First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTransactionsSince returns the seller's transactions created at or after since, newest first.
func (r *GormRepo) ListTransactionsSince(ctx context.Context, staffID uint, since time.Time) ([]models.Transaction, error) {
	out := []models.Transaction{}
	err := r.DB.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Items.Product").
		Where("staff_id = ? AND created_at >= ?", staffID, since.UTC()).
		Order("created_at DESC").
		Order("id DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func transition(tx *gorm.DB, id uint, from, to models.TransactionStatus, paidAt *time.Time) (bool, error) {
	if !models.CanTransition(from, to) {
		return false, fmt.Errorf("transition %s -> %s not allowed", from, to)
	}
	fields := map[string]any{"status": to, "updated_at": time.Now().UTC()}
	if paidAt != nil {
		fields["paid_at"] = paidAt.UTC()
	}
	res := tx.Model(&models.Transaction{}).
		Where("id = ? AND status = ?", id, from).
		Updates(fields)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// Transition moves a transaction from one status to another only if it is still
// in from. It reports whether this call performed the change.
func (r *GormRepo) Transition(ctx context.Context, id uint, from, to models.TransactionStatus, paidAt *time.Time) (bool, error) {
	return transition(r.DB.WithContext(ctx), id, from, to, paidAt)
}

type CompletionResult struct {
	Paid       bool
	Completed  bool
	Shortfalls []Shortfall
}

func completeWithDecrement(tx *gorm.DB, id uint) (bool, []Shortfall, error) {
	done, err := transition(tx, id, models.StatusPaid, models.StatusCompleted, nil)
	if err != nil || !done {
		return false, nil, err
	}

	var t models.Transaction
	if err := tx.Preload("Items").First(&t, id).Error; err != nil {
		return false, nil, err
	}
	var shortfalls []Shortfall
	for _, it := range t.Items {
		sf, err := decrementClamped(tx, t.StaffID, it.ProductID, it.Quantity)
		if err != nil {
			return false, nil, err
		}
		if sf != nil {
			shortfalls = append(shortfalls, *sf)
		}
	}
	return true, shortfalls, nil
}

// Complete performs paid -> completed and decrements inventory once, in one DB transaction.
func (r *GormRepo) Complete(ctx context.Context, id uint) (CompletionResult, error) {
	var res CompletionResult
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		res.Completed, res.Shortfalls, err = completeWithDecrement(tx, id)
		return err
	})
	if err != nil {
		return CompletionResult{}, err
	}
	return res, nil
}

// SettleAndComplete marks a pending transaction paid and then completes it.
// A transaction that is already paid is completed; later states are left alone.
func (r *GormRepo) SettleAndComplete(ctx context.Context, id uint, paidAt time.Time) (CompletionResult, error) {
	var res CompletionResult
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if res.Paid, err = transition(tx, id, models.StatusPending, models.StatusPaid, &paidAt); err != nil {
			return err
		}
		res.Completed, res.Shortfalls, err = completeWithDecrement(tx, id)
		return err
	})
	if err != nil {
		return CompletionResult{}, err
	}
	return res, nil
}

func IsShortfall(err error) (*ShortfallError, bool) {
	var se *ShortfallError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
