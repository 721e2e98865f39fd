package models

import "time"

type User struct {
	ID           uint      `gorm:"primaryKey"                  json:"id"`
	Name         string    `gorm:"not null"                    json:"name"`
	Email        string    `gorm:"uniqueIndex;not null"        json:"email"`
	PasswordHash string    `gorm:"not null"                    json:"-"`
	Role         Role      `gorm:"type:varchar(16);not null"   json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

type StaffProfile struct {
	ID          uint      `gorm:"primaryKey"               json:"id"`
	UserID      uint      `gorm:"uniqueIndex;not null"     json:"userId"`
	User        User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	LocationLat *float64  `json:"locationLat"`
	LocationLng *float64  `json:"locationLng"`
	IsActive    bool      `gorm:"not null;default:false"   json:"isActive"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CustomerProfile struct {
	ID          uint      `gorm:"primaryKey"               json:"id"`
	UserID      uint      `gorm:"uniqueIndex;not null"     json:"userId"`
	User        User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	LocationLat *float64  `json:"locationLat"`
	LocationLng *float64  `json:"locationLng"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type LocationLog struct {
	ID        uint      `gorm:"primaryKey"      json:"id"`
	StaffID   uint      `gorm:"index;not null"  json:"staffId"`
	Latitude  float64   `gorm:"not null"        json:"latitude"`
	Longitude float64   `gorm:"not null"        json:"longitude"`
	CreatedAt time.Time `json:"createdAt"`
}

type Product struct {
	ID          uint   `gorm:"primaryKey"              json:"id"`
	Name        string `gorm:"not null"                json:"name"`
	Price       int64  `gorm:"not null;check:price >= 0" json:"price"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
}

// Inventory.StaffID is the staff user's id; a missing row means stock 0.
type Inventory struct {
	ID        uint      `gorm:"primaryKey"                                   json:"id"`
	StaffID   uint      `gorm:"not null;uniqueIndex:idx_inventory_staff_product" json:"staffId"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_inventory_staff_product" json:"productId"`
	Product   Product   `gorm:"constraint:OnDelete:CASCADE"                  json:"product"`
	Stock     int       `gorm:"not null;default:0;check:stock >= 0"          json:"stock"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Transaction struct {
	ID                    uint              `gorm:"primaryKey"                      json:"id"`
	StaffID               uint              `gorm:"index;not null"                  json:"staffId"`
	TotalAmount           int64             `gorm:"not null;check:total_amount >= 0" json:"totalAmount"`
	Status                TransactionStatus `gorm:"type:varchar(16);not null;index" json:"status"`
	QRISURL               string            `gorm:"column:qris_url"                json:"qrisUrl"`
	QRISCode              string            `gorm:"column:qris_code"               json:"qrisCode"`
	MidtransOrderID       string            `gorm:"uniqueIndex;not null"            json:"midtransOrderId"`
	MidtransTransactionID string            `json:"midtransTransactionId"`
	PaymentExpiry         *time.Time        `json:"paymentExpiry"`
	PaidAt                *time.Time        `json:"paidAt"`
	CreatedAt             time.Time         `gorm:"index"                           json:"createdAt"`
	UpdatedAt             time.Time         `json:"updatedAt"`
	Items                 []TransactionItem `gorm:"constraint:OnDelete:CASCADE"     json:"items"`
}

type TransactionItem struct {
	ID              uint    `gorm:"primaryKey"                 json:"id"`
	TransactionID   uint    `gorm:"index;not null"             json:"transactionId"`
	ProductID       uint    `gorm:"not null"                   json:"productId"`
	Product         Product `gorm:"constraint:OnDelete:RESTRICT" json:"product"`
	Quantity        int     `gorm:"not null;check:quantity > 0" json:"quantity"`
	PriceAtPurchase int64   `gorm:"not null"                   json:"priceAtPurchase"`
	Subtotal        int64   `gorm:"not null"                   json:"subtotal"`
}

func All() []any {
	return []any{
		&User{}, &StaffProfile{}, &CustomerProfile{}, &LocationLog{},
		&Product{}, &Inventory{}, &Transaction{}, &TransactionItem{},
	}
}
