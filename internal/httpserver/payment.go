package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kopikeliling/marketplace/internal/payment"
	"github.com/kopikeliling/marketplace/internal/service"
	"github.com/kopikeliling/marketplace/pkg/logging"
)

type PaymentHTTP struct {
	Svc *service.TransactionService
}

func (h *PaymentHTTP) Notification(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.notification")

	var n payment.Notification
	if err := c.Bind(&n); err != nil {
		l.Warn("notification_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.HandleNotification(ctx, n); err != nil {
		if errors.Is(err, service.ErrInvalidSignature) {
			l.Warn("notification_error", "status", 403, "reason", "invalid signature", "order_id", n.OrderID)
			return echo.NewHTTPError(http.StatusForbidden, "Invalid signature")
		}
		return fail(l, "notification", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Notification processed successfully"})
}

func (h *PaymentHTTP) Status(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.status")

	res, err := h.Svc.PaymentStatus(ctx, c.Param("orderId"))
	if err != nil {
		return fail(l, "payment_status", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":        "Payment status retrieved",
		"orderId":        res.OrderID,
		"localStatus":    res.LocalStatus,
		"midtransStatus": res.MidtransStatus,
	})
}
