package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kopikeliling/marketplace/internal/models"
	"github.com/kopikeliling/marketplace/internal/payment"
	"github.com/kopikeliling/marketplace/internal/repo"
	"github.com/kopikeliling/marketplace/pkg/db"
)

const testServerKey = "SB-Mid-server-test"

type fakeGateway struct {
	mu        sync.Mutex
	issueErr  error
	pollErr   error
	cancelErr error
	status    *payment.StatusResult
	issued    []payment.PaymentRequest
	cancelled []string
}

func (g *fakeGateway) IssuePayment(_ context.Context, req payment.PaymentRequest) (*payment.PaymentResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.issued = append(g.issued, req)
	if g.issueErr != nil {
		return nil, g.issueErr
	}
	exp := time.Date(2026, 10, 19, 4, 0, 0, 0, time.UTC)
	return &payment.PaymentResult{
		OrderID:       req.OrderID,
		TransactionID: "mid-" + req.OrderID,
		QRISURL:       "https://qr.test/" + req.OrderID,
		QRISCode:      "000201" + req.OrderID,
		Status:        payment.StatusPending,
		Expiry:        &exp,
	}, nil
}

func (g *fakeGateway) PollStatus(_ context.Context, orderID string) (*payment.StatusResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pollErr != nil {
		return nil, g.pollErr
	}
	if g.status == nil {
		return &payment.StatusResult{OrderID: orderID, TransactionStatus: payment.StatusPending}, nil
	}
	st := *g.status
	st.OrderID = orderID
	return &st, nil
}

func (g *fakeGateway) Cancel(_ context.Context, orderID string) (*payment.StatusResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cancelErr != nil {
		return nil, g.cancelErr
	}
	g.cancelled = append(g.cancelled, orderID)
	return &payment.StatusResult{OrderID: orderID, TransactionStatus: payment.StatusCancel}, nil
}

func (g *fakeGateway) VerifySignature(n payment.Notification) bool {
	return payment.VerifySignature(n, testServerKey)
}

type recordedEvent struct {
	Topic, Key, Type string
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *recordingPublisher) PublishEvent(_ context.Context, topic, key, eventType string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{topic, key, eventType})
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()
	gdb, err := db.Open(context.Background(), db.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })
	r := &repo.GormRepo{DB: gdb}
	require.NoError(t, r.Migrate(context.Background()))
	return r
}

func seedProduct(t *testing.T, r *repo.GormRepo, name string, price int64) models.Product {
	t.Helper()
	p := models.Product{Name: name, Price: price, Description: name + " segar"}
	require.NoError(t, r.DB.Create(&p).Error)
	return p
}

func seedStock(t *testing.T, r *repo.GormRepo, staffID, productID uint, stock int) {
	t.Helper()
	_, err := r.SetStock(context.Background(), staffID, productID, stock)
	require.NoError(t, err)
}

func seedUser(t *testing.T, r *repo.GormRepo, name string, role models.Role) models.User {
	t.Helper()
	u := models.User{Name: name, Email: name + "@kopi.test", PasswordHash: "x", Role: role}
	require.NoError(t, r.CreateUser(context.Background(), &u))
	return u
}

func stockOf(t *testing.T, r *repo.GormRepo, staffID, productID uint) int {
	t.Helper()
	n, err := r.GetStock(context.Background(), staffID, productID)
	require.NoError(t, err)
	return n
}

func signed(n payment.Notification) payment.Notification {
	n.SignatureKey = payment.Signature(n.OrderID, n.StatusCode, n.GrossAmount, testServerKey)
	return n
}

var errBoom = errors.New("boom")
