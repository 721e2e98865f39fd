package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrGatewayRejected = errors.New("payment gateway rejected request")

type Item struct {
	ID       string
	Name     string
	Price    int64
	Quantity int
}

type PaymentRequest struct {
	OrderID     string
	GrossAmount int64
	Items       []Item
}

type PaymentResult struct {
	OrderID       string
	TransactionID string
	QRISURL       string
	QRISCode      string
	Status        string
	Expiry        *time.Time
}

type StatusResult struct {
	OrderID           string     `json:"orderId"`
	TransactionID     string     `json:"transactionId"`
	TransactionStatus string     `json:"transactionStatus"`
	FraudStatus       string     `json:"fraudStatus,omitempty"`
	PaymentType       string     `json:"paymentType,omitempty"`
	GrossAmount       string     `json:"grossAmount,omitempty"`
	TransactionTime   *time.Time `json:"transactionTime,omitempty"`
	SettlementTime    *time.Time `json:"settlementTime,omitempty"`
}

// Notification is the asynchronous status push sent by the gateway.
type Notification struct {
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionID     string `json:"transaction_id"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	PaymentType       string `json:"payment_type"`
	TransactionTime   string `json:"transaction_time"`
	SettlementTime    string `json:"settlement_time"`
}

type Gateway interface {
	IssuePayment(ctx context.Context, req PaymentRequest) (*PaymentResult, error)
	PollStatus(ctx context.Context, orderID string) (*StatusResult, error)
	Cancel(ctx context.Context, orderID string) (*StatusResult, error)
	VerifySignature(n Notification) bool
}

// Gateway status values.
const (
	StatusCapture    = "capture"
	StatusSettlement = "settlement"
	StatusPending    = "pending"
	StatusDeny       = "deny"
	StatusCancel     = "cancel"
	StatusExpire     = "expire"

	FraudAccept = "accept"
)

// GenerateOrderID builds TRX-<staff>-<unix ms>-<8 hex chars>.
func GenerateOrderID(staffID uint, now time.Time) string {
	suffix := uuid.NewString()[:8]
	return fmt.Sprintf("TRX-%d-%d-%s", staffID, now.UnixMilli(), suffix)
}

var wib = time.FixedZone("WIB", 7*60*60)

const gatewayTimeLayout = "2006-01-02 15:04:05"

// ParseTime parses gateway timestamps, which are local Jakarta time without an offset.
func ParseTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.ParseInLocation(gatewayTimeLayout, s, wib)
	if err != nil {
		return nil
	}
	u := t.UTC()
	return &u
}
