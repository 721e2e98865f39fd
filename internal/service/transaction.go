package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kopikeliling/marketplace/internal/cache"
	"github.com/kopikeliling/marketplace/internal/models"
	"github.com/kopikeliling/marketplace/internal/mykafka"
	"github.com/kopikeliling/marketplace/internal/payment"
	"github.com/kopikeliling/marketplace/internal/repo"
	"github.com/kopikeliling/marketplace/internal/transport"
	"github.com/kopikeliling/marketplace/pkg/logging"
)

type TransactionService struct {
	Repo    *repo.GormRepo
	Gateway payment.Gateway
	Events  mykafka.Publisher
	Dedup   *cache.Deduper
	Now     func() time.Time
}

// InsufficientStockError carries the message shown to the seller.
type InsufficientStockError struct {
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock for %s. Available: %d, Requested: %d", e.ProductName, e.Available, e.Requested)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock || target == ErrValidation
}

type transactionEvent struct {
	TransactionID uint                     `json:"transactionId"`
	OrderID       string                   `json:"orderId"`
	StaffID       uint                     `json:"staffId"`
	TotalAmount   int64                    `json:"totalAmount"`
	Status        models.TransactionStatus `json:"status"`
}

func (s *TransactionService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// mergeItems validates the request and folds repeated product ids together,
// keeping first-seen order.
func mergeItems(items []transport.CreateTransactionItem) ([]transport.CreateTransactionItem, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: items must be a non-empty array", ErrValidation)
	}
	merged := make([]transport.CreateTransactionItem, 0, len(items))
	index := make(map[uint]int, len(items))
	for i, it := range items {
		if it.ProductID == 0 {
			return nil, fmt.Errorf("%w: items[%d].productId required", ErrValidation, i)
		}
		if it.Quantity <= 0 {
			return nil, fmt.Errorf("%w: items[%d].quantity must be a positive integer", ErrValidation, i)
		}
		if it.Quantity > math.MaxInt32 {
			return nil, fmt.Errorf("%w: items[%d].quantity is too large", ErrValidation, i)
		}
		if j, ok := index[it.ProductID]; ok {
			if merged[j].Quantity > math.MaxInt32-it.Quantity {
				return nil, fmt.Errorf("%w: items[%d].quantity is too large", ErrValidation, i)
			}
			merged[j].Quantity += it.Quantity
			continue
		}
		index[it.ProductID] = len(merged)
		merged = append(merged, it)
	}
	return merged, nil
}

func (s *TransactionService) Create(ctx context.Context, staffID uint, req transport.CreateTransactionRequest) (*models.Transaction, error) {
	l := logging.FromContext(ctx).With("svc", "transaction.create", "staff_id", staffID)

	items, err := mergeItems(req.Items)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	products, err := s.Repo.ProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	stocks, err := s.Repo.StocksFor(ctx, staffID, ids)
	if err != nil {
		return nil, err
	}

	t := &models.Transaction{
		StaffID: staffID,
		Status:  models.StatusPending,
		Items:   make([]models.TransactionItem, 0, len(items)),
	}
	gwItems := make([]payment.Item, 0, len(items))
	for _, it := range items {
		p, ok := products[it.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: Product with ID %d not found", ErrNotFound, it.ProductID)
		}
		if stocks[it.ProductID] < it.Quantity {
			return nil, &InsufficientStockError{ProductName: p.Name, Available: stocks[it.ProductID], Requested: it.Quantity}
		}
		if p.Price > 0 && int64(it.Quantity) > (math.MaxInt64-t.TotalAmount)/p.Price {
			return nil, fmt.Errorf("%w: total amount for %s is too large", ErrValidation, p.Name)
		}
		subtotal := p.Price * int64(it.Quantity)
		t.TotalAmount += subtotal
		t.Items = append(t.Items, models.TransactionItem{
			ProductID:       p.ID,
			Quantity:        it.Quantity,
			PriceAtPurchase: p.Price,
			Subtotal:        subtotal,
		})
		gwItems = append(gwItems, payment.Item{
			ID:       strconv.FormatUint(uint64(p.ID), 10),
			Name:     p.Name,
			Price:    p.Price,
			Quantity: it.Quantity,
		})
	}

	t.MidtransOrderID = payment.GenerateOrderID(staffID, s.now())

	if err := s.Repo.CreateTransaction(ctx, t); err != nil {
		if se, ok := repo.IsShortfall(err); ok {
			return nil, &InsufficientStockError{ProductName: products[se.ProductID].Name, Available: se.Available, Requested: se.Requested}
		}
		return nil, err
	}

	res, err := s.Gateway.IssuePayment(ctx, payment.PaymentRequest{
		OrderID:     t.MidtransOrderID,
		GrossAmount: t.TotalAmount,
		Items:       gwItems,
	})
	if err != nil {
		l.Error("issue_payment_error", "order_id", t.MidtransOrderID, "error", err)
		s.rollbackCreate(ctx, l, t, false)
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}

	details := repo.PaymentDetails{
		QRISURL:               res.QRISURL,
		QRISCode:              res.QRISCode,
		MidtransTransactionID: res.TransactionID,
		PaymentExpiry:         res.Expiry,
	}
	if err := s.Repo.AttachPayment(ctx, t.ID, details); err != nil {
		l.Error("attach_payment_error", "order_id", t.MidtransOrderID, "error", err)
		s.rollbackCreate(ctx, l, t, true)
		return nil, err
	}
	t.QRISURL, t.QRISCode = res.QRISURL, res.QRISCode
	t.MidtransTransactionID, t.PaymentExpiry = res.TransactionID, res.Expiry
	for i := range t.Items {
		t.Items[i].Product = products[t.Items[i].ProductID]
	}

	l.Info("create_transaction_success", "transaction_id", t.ID, "order_id", t.MidtransOrderID, "total", t.TotalAmount)
	s.publish(ctx, "transaction_created", t, models.StatusPending)
	return t, nil
}

// rollbackCreate undoes a transaction whose payment could not be set up. An
// issued charge is voided at the gateway as well.
func (s *TransactionService) rollbackCreate(ctx context.Context, l *slog.Logger, t *models.Transaction, charged bool) {
	ctx = context.WithoutCancel(ctx)
	if charged {
		if _, err := s.Gateway.Cancel(ctx, t.MidtransOrderID); err != nil {
			l.Error("rollback_cancel_payment_error", "order_id", t.MidtransOrderID, "error", err)
		}
	}
	if err := s.Repo.DeleteTransaction(ctx, t.ID); err != nil {
		l.Error("rollback_transaction_error", "transaction_id", t.ID, "error", err)
	}
}

func (s *TransactionService) getOwned(ctx context.Context, staffID, id uint) (*models.Transaction, error) {
	t, err := s.Repo.GetTransaction(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: Transaction not found", ErrNotFound)
		}
		return nil, err
	}
	if t.StaffID != staffID {
		return nil, fmt.Errorf("%w: transaction belongs to another seller", ErrForbidden)
	}
	return t, nil
}

// Status returns the transaction, first syncing a pending one with the
// gateway. Gateway failures leave the local status as is.
func (s *TransactionService) Status(ctx context.Context, staffID, id uint) (*models.Transaction, error) {
	l := logging.FromContext(ctx).With("svc", "transaction.status", "transaction_id", id)

	t, err := s.getOwned(ctx, staffID, id)
	if err != nil {
		return nil, err
	}
	if t.Status != models.StatusPending {
		return t, nil
	}

	st, err := s.Gateway.PollStatus(ctx, t.MidtransOrderID)
	if err != nil {
		l.Warn("poll_status_error", "order_id", t.MidtransOrderID, "error", err)
		return t, nil
	}

	var (
		to     models.TransactionStatus
		paidAt *time.Time
	)
	switch st.TransactionStatus {
	case payment.StatusSettlement, payment.StatusCapture:
		if !fraudAccepted(st.FraudStatus) {
			return t, nil
		}
		to = models.StatusPaid
		at := paidTime(s.now(), st.SettlementTime, st.TransactionTime)
		paidAt = &at
	case payment.StatusExpire:
		to = models.StatusExpired
	case payment.StatusCancel:
		to = models.StatusCancelled
	default:
		return t, nil
	}

	changed, err := s.Repo.Transition(ctx, t.ID, models.StatusPending, to, paidAt)
	if err != nil {
		return nil, err
	}
	if changed {
		l.Info("status_synced", "status", to)
		s.publish(ctx, eventFor(to), t, to)
	}
	return s.Repo.GetTransaction(ctx, t.ID)
}

// SimulatePayment marks a pending transaction paid without the gateway.
func (s *TransactionService) SimulatePayment(ctx context.Context, staffID, id uint) (*models.Transaction, error) {
	l := logging.FromContext(ctx).With("svc", "transaction.simulate_payment", "transaction_id", id)

	t, err := s.getOwned(ctx, staffID, id)
	if err != nil {
		return nil, err
	}
	switch t.Status {
	case models.StatusPaid, models.StatusCompleted:
		return nil, fmt.Errorf("%w: Transaction already paid", ErrInvalidTransition)
	case models.StatusCancelled, models.StatusExpired:
		return nil, fmt.Errorf("%w: Transaction is %s", ErrInvalidTransition, t.Status)
	}

	now := s.now()
	changed, err := s.Repo.Transition(ctx, t.ID, models.StatusPending, models.StatusPaid, &now)
	if err != nil {
		return nil, err
	}
	if !changed {
		return nil, fmt.Errorf("%w: Transaction is no longer pending", ErrInvalidTransition)
	}

	l.Info("simulate_payment_success")
	s.publish(ctx, "transaction_paid", t, models.StatusPaid)
	return s.Repo.GetTransaction(ctx, t.ID)
}

// Complete hands the goods over: paid -> completed with a single stock decrement.
func (s *TransactionService) Complete(ctx context.Context, staffID, id uint) (*models.Transaction, error) {
	l := logging.FromContext(ctx).With("svc", "transaction.complete", "transaction_id", id)

	t, err := s.getOwned(ctx, staffID, id)
	if err != nil {
		return nil, err
	}
	switch t.Status {
	case models.StatusCompleted:
		return nil, fmt.Errorf("%w: Transaction already completed", ErrInvalidTransition)
	case models.StatusPaid:
	default:
		return nil, fmt.Errorf("%w: Transaction must be paid before completing", ErrInvalidTransition)
	}

	res, err := s.Repo.Complete(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	if !res.Completed {
		return nil, fmt.Errorf("%w: Transaction already completed", ErrInvalidTransition)
	}
	logShortfalls(l, res.Shortfalls)

	l.Info("complete_transaction_success")
	s.publish(ctx, "transaction_completed", t, models.StatusCompleted)
	return s.Repo.GetTransaction(ctx, t.ID)
}

// Cancel voids a pending QRIS charge at the gateway and locally.
func (s *TransactionService) Cancel(ctx context.Context, staffID, id uint) (*models.Transaction, error) {
	l := logging.FromContext(ctx).With("svc", "transaction.cancel", "transaction_id", id)

	t, err := s.getOwned(ctx, staffID, id)
	if err != nil {
		return nil, err
	}
	if t.Status != models.StatusPending {
		return nil, fmt.Errorf("%w: only pending transactions can be cancelled", ErrInvalidTransition)
	}

	if _, err := s.Gateway.Cancel(ctx, t.MidtransOrderID); err != nil {
		l.Error("cancel_payment_error", "order_id", t.MidtransOrderID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}

	changed, err := s.Repo.Transition(ctx, t.ID, models.StatusPending, models.StatusCancelled, nil)
	if err != nil {
		return nil, err
	}
	if !changed {
		return nil, fmt.Errorf("%w: Transaction is no longer pending", ErrInvalidTransition)
	}

	l.Info("cancel_transaction_success")
	s.publish(ctx, "transaction_cancelled", t, models.StatusCancelled)
	return s.Repo.GetTransaction(ctx, t.ID)
}

// HandleNotification applies a gateway status push. Only a bad signature or an
// unknown order is reported as an error; everything else is acknowledged.
func (s *TransactionService) HandleNotification(ctx context.Context, n payment.Notification) error {
	l := logging.FromContext(ctx).With("svc", "payment.notification", "order_id", n.OrderID, "transaction_status", n.TransactionStatus)

	if !s.Gateway.VerifySignature(n) {
		return ErrInvalidSignature
	}

	if seen, err := s.Dedup.Seen(ctx, n.OrderID, n.TransactionStatus, n.StatusCode); err != nil {
		l.Warn("dedup_lookup_error", "error", err)
	} else if seen {
		l.Info("notification_duplicate")
		return nil
	}

	t, err := s.Repo.GetTransactionByOrderID(ctx, n.OrderID)
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%w: Transaction not found", ErrNotFound)
		}
		return err
	}

	gross, err := decimal.NewFromString(n.GrossAmount)
	if err != nil || !gross.Equal(decimal.NewFromInt(t.TotalAmount)) {
		l.Warn("gross_amount_mismatch", "gross_amount", n.GrossAmount, "expected", t.TotalAmount)
		return nil
	}

	switch n.TransactionStatus {
	case payment.StatusCapture, payment.StatusSettlement:
		if !fraudAccepted(n.FraudStatus) {
			l.Warn("notification_fraud_hold", "fraud_status", n.FraudStatus)
			break
		}
		paidAt := paidTime(s.now(), payment.ParseTime(n.SettlementTime), payment.ParseTime(n.TransactionTime))
		res, err := s.Repo.SettleAndComplete(ctx, t.ID, paidAt)
		if err != nil {
			return err
		}
		logShortfalls(l, res.Shortfalls)
		if res.Paid {
			s.publish(ctx, "transaction_paid", t, models.StatusPaid)
		}
		if res.Completed {
			s.publish(ctx, "transaction_completed", t, models.StatusCompleted)
		}
	case payment.StatusDeny, payment.StatusCancel:
		if err := s.terminate(ctx, t, models.StatusCancelled); err != nil {
			return err
		}
	case payment.StatusExpire:
		if err := s.terminate(ctx, t, models.StatusExpired); err != nil {
			return err
		}
	default:
		// pending and unknown statuses never move a transaction backwards.
	}

	if err := s.Dedup.Mark(ctx, n.OrderID, n.TransactionStatus, n.StatusCode); err != nil {
		l.Warn("dedup_mark_error", "error", err)
	}
	l.Info("notification_processed")
	return nil
}

func (s *TransactionService) terminate(ctx context.Context, t *models.Transaction, to models.TransactionStatus) error {
	changed, err := s.Repo.Transition(ctx, t.ID, models.StatusPending, to, nil)
	if err != nil {
		return err
	}
	if changed {
		s.publish(ctx, eventFor(to), t, to)
	}
	return nil
}

// PaymentStatus reports the local status next to the gateway's view.
func (s *TransactionService) PaymentStatus(ctx context.Context, orderID string) (*transport.PaymentStatusResponse, error) {
	t, err := s.Repo.GetTransactionByOrderID(ctx, orderID)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: Transaction not found", ErrNotFound)
		}
		return nil, err
	}

	st, err := s.Gateway.PollStatus(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}
	return &transport.PaymentStatusResponse{
		OrderID:        orderID,
		LocalStatus:    t.Status,
		MidtransStatus: st,
	}, nil
}

func (s *TransactionService) publish(ctx context.Context, eventType string, t *models.Transaction, status models.TransactionStatus) {
	if s.Events == nil {
		return
	}
	ev := transactionEvent{
		TransactionID: t.ID,
		OrderID:       t.MidtransOrderID,
		StaffID:       t.StaffID,
		TotalAmount:   t.TotalAmount,
		Status:        status,
	}
	if err := s.Events.PublishEvent(ctx, mykafka.TopicTransactions, t.MidtransOrderID, eventType, ev); err != nil {
		logging.FromContext(ctx).Warn("publish_event_error", "topic", mykafka.TopicTransactions, "type", eventType, "error", err)
	}
}

func eventFor(s models.TransactionStatus) string {
	return "transaction_" + string(s)
}

func fraudAccepted(fraud string) bool {
	return fraud == "" || fraud == payment.FraudAccept
}

// paidTime picks the first known gateway time, falling back to now.
func paidTime(now time.Time, candidates ...*time.Time) time.Time {
	for _, c := range candidates {
		if c != nil {
			return c.UTC()
		}
	}
	return now
}

func logShortfalls(l *slog.Logger, shortfalls []repo.Shortfall) {
	for _, sf := range shortfalls {
		l.Warn("stock_clamped", "product_id", sf.ProductID, "available", sf.Available, "requested", sf.Requested)
	}
}
