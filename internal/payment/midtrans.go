package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	SandboxBaseURL    = "https://api.sandbox.midtrans.com"
	ProductionBaseURL = "https://api.midtrans.com"
)

type MidtransConfig struct {
	ServerKey  string
	Production bool
	BaseURL    string
	Timeout    time.Duration
}

type Midtrans struct {
	serverKey  string
	baseURL    string
	httpClient *http.Client
}

func NewMidtrans(cfg MidtransConfig) *Midtrans {
	base := cfg.BaseURL
	if base == "" {
		base = SandboxBaseURL
		if cfg.Production {
			base = ProductionBaseURL
		}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Midtrans{
		serverKey: cfg.ServerKey,
		baseURL:   base,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

type chargeItem struct {
	ID       string `json:"id"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
	Name     string `json:"name"`
}

type chargeRequest struct {
	PaymentType        string `json:"payment_type"`
	TransactionDetails struct {
		OrderID     string `json:"order_id"`
		GrossAmount int64  `json:"gross_amount"`
	} `json:"transaction_details"`
	ItemDetails []chargeItem `json:"item_details,omitempty"`
	QRIS        struct {
		Acquirer string `json:"acquirer"`
	} `json:"qris"`
}

type coreResponse struct {
	StatusCode        string `json:"status_code"`
	StatusMessage     string `json:"status_message"`
	OrderID           string `json:"order_id"`
	TransactionID     string `json:"transaction_id"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	PaymentType       string `json:"payment_type"`
	GrossAmount       string `json:"gross_amount"`
	TransactionTime   string `json:"transaction_time"`
	SettlementTime    string `json:"settlement_time"`
	ExpiryTime        string `json:"expiry_time"`
	QRString          string `json:"qr_string"`
	Actions           []struct {
		Name   string `json:"name"`
		Method string `json:"method"`
		URL    string `json:"url"`
	} `json:"actions"`
}

func (r *coreResponse) status() *StatusResult {
	return &StatusResult{
		OrderID:           r.OrderID,
		TransactionID:     r.TransactionID,
		TransactionStatus: r.TransactionStatus,
		FraudStatus:       r.FraudStatus,
		PaymentType:       r.PaymentType,
		GrossAmount:       r.GrossAmount,
		TransactionTime:   ParseTime(r.TransactionTime),
		SettlementTime:    ParseTime(r.SettlementTime),
	}
}

func (m *Midtrans) IssuePayment(ctx context.Context, req PaymentRequest) (*PaymentResult, error) {
	var body chargeRequest
	body.PaymentType = "qris"
	body.TransactionDetails.OrderID = req.OrderID
	body.TransactionDetails.GrossAmount = req.GrossAmount
	body.QRIS.Acquirer = "gopay"
	for _, it := range req.Items {
		body.ItemDetails = append(body.ItemDetails, chargeItem{ID: it.ID, Price: it.Price, Quantity: it.Quantity, Name: it.Name})
	}

	resp, err := m.do(ctx, http.MethodPost, "/v2/charge", body, http.StatusCreated)
	if err != nil {
		return nil, fmt.Errorf("charge %s: %w", req.OrderID, err)
	}

	res := &PaymentResult{
		OrderID:       resp.OrderID,
		TransactionID: resp.TransactionID,
		QRISCode:      resp.QRString,
		Status:        resp.TransactionStatus,
		Expiry:        ParseTime(resp.ExpiryTime),
	}
	if len(resp.Actions) > 0 {
		res.QRISURL = resp.Actions[0].URL
	}
	return res, nil
}

func (m *Midtrans) PollStatus(ctx context.Context, orderID string) (*StatusResult, error) {
	resp, err := m.do(ctx, http.MethodGet, "/v2/"+url.PathEscape(orderID)+"/status", nil, http.StatusOK, http.StatusCreated, http.StatusAccepted)
	if err != nil {
		return nil, fmt.Errorf("status %s: %w", orderID, err)
	}
	return resp.status(), nil
}

func (m *Midtrans) Cancel(ctx context.Context, orderID string) (*StatusResult, error) {
	resp, err := m.do(ctx, http.MethodPost, "/v2/"+url.PathEscape(orderID)+"/cancel", nil, http.StatusOK)
	if err != nil {
		return nil, fmt.Errorf("cancel %s: %w", orderID, err)
	}
	return resp.status(), nil
}

func (m *Midtrans) VerifySignature(n Notification) bool {
	return VerifySignature(n, m.serverKey)
}

// do sends the request and checks both the HTTP status and the status_code
// field, which the Core API uses to report failures on HTTP 200.
func (m *Midtrans) do(ctx context.Context, method, path string, payload any, okCodes ...int) (*coreResponse, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, m.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.SetBasicAuth(m.serverKey, "")
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var out coreResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode response (http %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: http %d: %s", ErrGatewayRejected, resp.StatusCode, out.StatusMessage)
	}
	code, _ := strconv.Atoi(out.StatusCode)
	if !accepted(code, okCodes) {
		return nil, fmt.Errorf("%w: status_code %s: %s", ErrGatewayRejected, out.StatusCode, out.StatusMessage)
	}
	return &out, nil
}

func accepted(code int, okCodes []int) bool {
	for _, c := range okCodes {
		if c == code {
			return true
		}
	}
	return false
}
