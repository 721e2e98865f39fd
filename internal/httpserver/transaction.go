package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kopikeliling/marketplace/internal/models"
	"github.com/kopikeliling/marketplace/internal/service"
	"github.com/kopikeliling/marketplace/internal/transport"
	"github.com/kopikeliling/marketplace/pkg/logging"
)

type TransactionHTTP struct {
	Svc *service.TransactionService
}

func (h *TransactionHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "transaction.create")

	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	var req transport.CreateTransactionRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_transaction_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "items must be a non-empty array of {productId, quantity}")
	}

	t, err := h.Svc.Create(ctx, userID, req)
	if err != nil {
		return fail(l, "create_transaction", err)
	}
	return ok(c, http.StatusCreated, "Transaction created successfully", transport.NewTransactionResponse(t))
}

type transitionFunc func(ctx context.Context, staffID, id uint) (*models.Transaction, error)

func (h *TransactionHTTP) run(c echo.Context, event, message string, fn transitionFunc) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "transaction."+event)

	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	t, err := fn(ctx, userID, id)
	if err != nil {
		return fail(l, event, err)
	}
	return ok(c, http.StatusOK, message, transport.NewTransactionResponse(t))
}

func (h *TransactionHTTP) Status(c echo.Context) error {
	return h.run(c, "status", "Transaction status retrieved", h.Svc.Status)
}

func (h *TransactionHTTP) SimulatePayment(c echo.Context) error {
	return h.run(c, "simulate_payment", "Payment simulated successfully", h.Svc.SimulatePayment)
}

func (h *TransactionHTTP) Complete(c echo.Context) error {
	return h.run(c, "complete", "Transaction completed successfully", h.Svc.Complete)
}

func (h *TransactionHTTP) Cancel(c echo.Context) error {
	return h.run(c, "cancel", "Transaction cancelled successfully", h.Svc.Cancel)
}
