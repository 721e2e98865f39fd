package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	middleware "github.com/kopikeliling/marketplace/pkg/middleware/auth"
)

func currentUser(c echo.Context) (uint, error) {
	id, ok := middleware.UserID(c)
	if !ok {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "Access denied. No token provided.")
	}
	return id, nil
}

func uintParam(c echo.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return uint(v), nil
}

func ok(c echo.Context, code int, message string, data any) error {
	return c.JSON(code, echo.Map{"message": message, "data": data})
}
