package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/kopikeliling/marketplace/internal/models"
	"github.com/kopikeliling/marketplace/pkg/db"
	middleware "github.com/kopikeliling/marketplace/pkg/middleware/auth"
	"github.com/kopikeliling/marketplace/pkg/tokens"
)

type Deps struct {
	AuthHandler        *AuthHTTP
	CatalogHandler     *CatalogHTTP
	StaffHandler       *StaffHTTP
	TransactionHandler *TransactionHTTP
	CustomerHandler    *CustomerHTTP
	PaymentHandler     *PaymentHTTP

	JWTSecret         []byte
	DB                *gorm.DB
	PaymentSimulation bool
}

// capability admits tokens whose role holds c.
func capability(c models.Capability) middleware.ValidatorFunc {
	return func(claims *tokens.AccessClaims) error {
		role, err := models.ParseRole(claims.Role)
		if err != nil || !role.Allows(c) {
			return echo.NewHTTPError(http.StatusForbidden, "Access denied")
		}
		return nil
	}
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.DB == nil {
			return c.NoContent(http.StatusOK)
		}
		if err := db.Ping(c.Request().Context(), d.DB); err != nil {
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	})

	authMW := middleware.NewBearerAuth(d.JWTSecret)

	e.POST("/register", d.AuthHandler.Register)
	e.POST("/login", d.AuthHandler.Login)

	e.GET("/products", d.CatalogHandler.List)
	e.GET("/products/search", d.CatalogHandler.Search)

	staff := e.Group("/staff", authMW.Require(capability(models.CapSell)))
	staff.PUT("/status", d.StaffHandler.UpdateStatus)
	staff.PUT("/location", d.StaffHandler.UpdateLocation)
	staff.GET("/inventory", d.StaffHandler.ListInventory)
	staff.POST("/inventory/bulk", d.StaffHandler.BulkSetStock)
	staff.PUT("/inventory/:productId", d.StaffHandler.SetStock)
	staff.DELETE("/inventory/:productId", d.StaffHandler.DeleteStock)
	staff.GET("/sales/today", d.StaffHandler.TodaySales)

	staff.POST("/transaction", d.TransactionHandler.Create)
	staff.GET("/transaction/:id/status", d.TransactionHandler.Status)
	staff.PUT("/transaction/:id/complete", d.TransactionHandler.Complete)
	staff.PUT("/transaction/:id/cancel", d.TransactionHandler.Cancel)
	if d.PaymentSimulation {
		staff.PUT("/transaction/:id/simulate-payment", d.TransactionHandler.SimulatePayment)
	}

	customer := e.Group("/customer", authMW.Require(capability(models.CapShop)))
	customer.PUT("/location", d.CustomerHandler.UpdateLocation)

	seller := e.Group("/seller", authMW.Require(capability(models.CapShop)))
	seller.GET("/nearest", d.CustomerHandler.Nearest)
	seller.GET("/:staffId/inventory", d.CustomerHandler.SellerInventory)

	pay := e.Group("/payment")
	pay.POST("/notification", d.PaymentHandler.Notification)
	pay.GET("/status/:orderId", d.PaymentHandler.Status)
}
