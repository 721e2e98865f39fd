package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kopikeliling/marketplace/internal/service"
	"github.com/kopikeliling/marketplace/internal/transport"
	"github.com/kopikeliling/marketplace/pkg/logging"
)

type StaffHTTP struct {
	Staff     *service.StaffService
	Inventory *service.InventoryService
	Sales     *service.SalesService
}

func (h *StaffHTTP) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "staff.update_status")

	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	var req transport.StatusRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_status_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "isActive must be a boolean")
	}

	profile, err := h.Staff.SetActive(ctx, userID, req.IsActive)
	if err != nil {
		return fail(l, "update_status", err)
	}
	return ok(c, http.StatusOK, "Status updated successfully", profile)
}

func (h *StaffHTTP) UpdateLocation(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "staff.update_location")

	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	var req transport.LocationRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_location_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	profile, err := h.Staff.SetLocation(ctx, userID, req.Lat, req.Lng)
	if err != nil {
		return fail(l, "update_location", err)
	}
	return ok(c, http.StatusOK, "Location updated successfully", profile)
}

func (h *StaffHTTP) ListInventory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "staff.list_inventory")

	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	items, err := h.Inventory.List(ctx, userID)
	if err != nil {
		return fail(l, "list_inventory", err)
	}
	return ok(c, http.StatusOK, "Inventory retrieved successfully", items)
}

func (h *StaffHTTP) SetStock(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "staff.set_stock")

	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	productID, err := uintParam(c, "productId")
	if err != nil {
		return err
	}
	var req transport.SetStockRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("set_stock_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "stock must be a non-negative number")
	}

	inv, err := h.Inventory.SetStock(ctx, userID, productID, req.Stock)
	if err != nil {
		return fail(l, "set_stock", err)
	}
	return ok(c, http.StatusOK, "Inventory updated successfully", inv)
}

func (h *StaffHTTP) BulkSetStock(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "staff.bulk_set_stock")

	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	var req transport.BulkStockRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("bulk_set_stock_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "items must be a non-empty array")
	}

	items, err := h.Inventory.BulkSetStock(ctx, userID, req)
	if err != nil {
		return fail(l, "bulk_set_stock", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Inventory updated successfully",
		"count":   len(items),
		"data":    items,
	})
}

func (h *StaffHTTP) DeleteStock(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "staff.delete_stock")

	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	productID, err := uintParam(c, "productId")
	if err != nil {
		return err
	}
	if err := h.Inventory.Delete(ctx, userID, productID); err != nil {
		return fail(l, "delete_stock", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Product removed from inventory"})
}

func (h *StaffHTTP) TodaySales(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "staff.today_sales")

	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	sales, err := h.Sales.Today(ctx, userID)
	if err != nil {
		return fail(l, "today_sales", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":      "Today's sales report retrieved successfully",
		"date":         sales.Date,
		"summary":      sales.Summary,
		"productSales": sales.ProductSales,
		"transactions": sales.Transactions,
	})
}
