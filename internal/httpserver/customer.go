package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kopikeliling/marketplace/internal/service"
	"github.com/kopikeliling/marketplace/internal/transport"
	"github.com/kopikeliling/marketplace/pkg/logging"
)

type CustomerHTTP struct {
	Svc *service.CustomerService
}

func (h *CustomerHTTP) UpdateLocation(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "customer.update_location")

	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	var req transport.LocationRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_location_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	profile, err := h.Svc.SetLocation(ctx, userID, req.Lat, req.Lng)
	if err != nil {
		return fail(l, "update_location", err)
	}
	return ok(c, http.StatusOK, "Location updated successfully", profile)
}

func (h *CustomerHTTP) Nearest(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "customer.nearest")

	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	res, err := h.Svc.Nearest(ctx, userID)
	if errors.Is(err, service.ErrNoActiveSellers) {
		l.Info("nearest_sellers_empty")
		return c.JSON(http.StatusNotFound, echo.Map{"message": "No active sellers found", "data": []any{}})
	}
	if err != nil {
		return fail(l, "nearest_sellers", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":          "Nearest sellers found",
		"customerLocation": res.CustomerLocation,
		"data":             res.Data,
	})
}

func (h *CustomerHTTP) SellerInventory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "customer.seller_inventory")

	staffID, err := uintParam(c, "staffId")
	if err != nil {
		return err
	}
	res, err := h.Svc.SellerInventory(ctx, staffID)
	if err != nil {
		return fail(l, "seller_inventory", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":   "Seller inventory retrieved successfully",
		"seller":    res.Seller,
		"inventory": res.Inventory,
	})
}
