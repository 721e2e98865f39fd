package transport

import (
	"time"

	"github.com/kopikeliling/marketplace/internal/models"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

type SetStockRequest struct {
	Stock *int `json:"stock"`
}

type BulkStockItem struct {
	ProductID uint `json:"productId"`
	Stock     *int `json:"stock"`
}

type BulkStockRequest struct {
	Items []BulkStockItem `json:"items"`
}

type CreateTransactionItem struct {
	ProductID uint `json:"productId"`
	Quantity  int  `json:"quantity"`
}

type CreateTransactionRequest struct {
	Items []CreateTransactionItem `json:"items"`
}

type StatusRequest struct {
	IsActive *bool `json:"isActive"`
}

type LocationRequest struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

type TransactionItemResponse struct {
	ProductID       uint   `json:"productId"`
	ProductName     string `json:"productName,omitempty"`
	Quantity        int    `json:"quantity"`
	PriceAtPurchase int64  `json:"priceAtPurchase"`
	Subtotal        int64  `json:"subtotal"`
}

type TransactionResponse struct {
	ID                    uint                      `json:"id"`
	StaffID               uint                      `json:"staffId"`
	TotalAmount           int64                     `json:"totalAmount"`
	Status                models.TransactionStatus  `json:"status"`
	QRISURL               string                    `json:"qrisUrl"`
	QRISCode              string                    `json:"qrisCode"`
	MidtransOrderID       string                    `json:"midtransOrderId"`
	MidtransTransactionID string                    `json:"midtransTransactionId"`
	PaymentExpiry         *time.Time                `json:"paymentExpiry"`
	PaidAt                *time.Time                `json:"paidAt"`
	CreatedAt             time.Time                 `json:"createdAt"`
	Items                 []TransactionItemResponse `json:"items"`
}

func NewTransactionResponse(t *models.Transaction) TransactionResponse {
	items := make([]TransactionItemResponse, 0, len(t.Items))
	for _, it := range t.Items {
		items = append(items, TransactionItemResponse{
			ProductID:       it.ProductID,
			ProductName:     it.Product.Name,
			Quantity:        it.Quantity,
			PriceAtPurchase: it.PriceAtPurchase,
			Subtotal:        it.Subtotal,
		})
	}
	return TransactionResponse{
		ID:                    t.ID,
		StaffID:               t.StaffID,
		TotalAmount:           t.TotalAmount,
		Status:                t.Status,
		QRISURL:               t.QRISURL,
		QRISCode:              t.QRISCode,
		MidtransOrderID:       t.MidtransOrderID,
		MidtransTransactionID: t.MidtransTransactionID,
		PaymentExpiry:         t.PaymentExpiry,
		PaidAt:                t.PaidAt,
		CreatedAt:             t.CreatedAt,
		Items:                 items,
	}
}

type SalesSummary struct {
	TotalTransactions     int   `json:"totalTransactions"`
	CompletedTransactions int   `json:"completedTransactions"`
	PaidTransactions      int   `json:"paidTransactions"`
	PendingTransactions   int   `json:"pendingTransactions"`
	TotalRevenue          int64 `json:"totalRevenue"`
}

type ProductSales struct {
	ProductID    uint   `json:"productId"`
	ProductName  string `json:"productName"`
	QuantitySold int    `json:"quantitySold"`
	Revenue      int64  `json:"revenue"`
}

type SalesTransaction struct {
	TransactionID uint                     `json:"transactionId"`
	OrderID       string                   `json:"orderId"`
	TotalAmount   int64                    `json:"totalAmount"`
	Status        models.TransactionStatus `json:"status"`
	ItemCount     int                      `json:"itemCount"`
	CreatedAt     time.Time                `json:"createdAt"`
	PaidAt        *time.Time               `json:"paidAt"`
}

type TodaySales struct {
	Date         string             `json:"date"`
	Summary      SalesSummary       `json:"summary"`
	ProductSales []ProductSales     `json:"productSales"`
	Transactions []SalesTransaction `json:"transactions"`
}

type SellerCard struct {
	StaffID     uint     `json:"staffId"`
	StaffName   string   `json:"staffName"`
	StaffEmail  string   `json:"staffEmail,omitempty"`
	LocationLat *float64 `json:"locationLat"`
	LocationLng *float64 `json:"locationLng"`
	Distance    *float64 `json:"distance,omitempty"`
	IsActive    bool     `json:"isActive"`
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type NearestSellers struct {
	CustomerLocation Coordinates  `json:"customerLocation"`
	Data             []SellerCard `json:"data"`
}

type SellerInventoryItem struct {
	ProductID      uint   `json:"productId"`
	ProductName    string `json:"productName"`
	Description    string `json:"description"`
	Price          int64  `json:"price"`
	ImageURL       string `json:"imageUrl"`
	AvailableStock int    `json:"availableStock"`
}

type SellerInventory struct {
	Seller    SellerCard            `json:"seller"`
	Inventory []SellerInventoryItem `json:"inventory"`
}

type PaymentStatusResponse struct {
	OrderID        string                   `json:"orderId"`
	LocalStatus    models.TransactionStatus `json:"localStatus"`
	MidtransStatus any                      `json:"midtransStatus"`
}
