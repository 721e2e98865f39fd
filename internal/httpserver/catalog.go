package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kopikeliling/marketplace/internal/service"
	"github.com/kopikeliling/marketplace/internal/util"
	"github.com/kopikeliling/marketplace/pkg/logging"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func (h *CatalogHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.list")

	products, err := h.Svc.List(ctx)
	if err != nil {
		return fail(l, "list_products", err)
	}
	return ok(c, http.StatusOK, "Products retrieved successfully", products)
}

func (h *CatalogHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.search")

	from, size := util.Calculate(util.AtoiDefault(c.QueryParam("page"), 1), util.AtoiDefault(c.QueryParam("size"), 0))
	res, err := h.Svc.Search(ctx, c.QueryParam("q"), from, size)
	if err != nil {
		return fail(l, "search_products", err)
	}
	return c.JSON(http.StatusOK, res)
}
