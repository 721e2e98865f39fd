package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kopikeliling/marketplace/internal/models"
)

type StockUpdate struct {
	ProductID uint
	Stock     int
}

// Shortfall records a decrement that was clamped at zero.
type Shortfall struct {
	ProductID uint
	Available int
	Requested int
}

// GetStock returns 0 when the seller has no inventory row for the product.
func (r *GormRepo) GetStock(ctx context.Context, staffID, productID uint) (int, error) {
	return stockOf(r.DB.WithContext(ctx), staffID, productID)
}

func stockOf(db *gorm.DB, staffID, productID uint) (int, error) {
	var inv models.Inventory
	err := db.Where("staff_id = ? AND product_id = ?", staffID, productID).First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return inv.Stock, nil
}

// StocksFor returns stock per product id; products without a row map to 0.
func (r *GormRepo) StocksFor(ctx context.Context, staffID uint, productIDs []uint) (map[uint]int, error) {
	return stocksFor(r.DB.WithContext(ctx), staffID, productIDs)
}

func stocksFor(db *gorm.DB, staffID uint, productIDs []uint) (map[uint]int, error) {
	var rows []models.Inventory
	if err := db.Where("staff_id = ? AND product_id IN ?", staffID, productIDs).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[uint]int, len(productIDs))
	for _, id := range productIDs {
		out[id] = 0
	}
	for _, row := range rows {
		out[row.ProductID] = row.Stock
	}
	return out, nil
}

func upsertStock(tx *gorm.DB, staffID, productID uint, stock int) (*models.Inventory, error) {
	inv := models.Inventory{StaffID: staffID, ProductID: productID, Stock: stock, UpdatedAt: time.Now().UTC()}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "staff_id"}, {Name: "product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"stock", "updated_at"}),
	}).Create(&inv).Error
	if err != nil {
		return nil, err
	}
	if err := tx.Preload("Product").Where("staff_id = ? AND product_id = ?", staffID, productID).First(&inv).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *GormRepo) SetStock(ctx context.Context, staffID, productID uint, stock int) (*models.Inventory, error) {
	var out *models.Inventory
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		out, err = upsertStock(tx, staffID, productID, stock)
		return err
	})
	return out, err
}

// BulkSetStock applies every update or none of them.
func (r *GormRepo) BulkSetStock(ctx context.Context, staffID uint, updates []StockUpdate) ([]models.Inventory, error) {
	out := make([]models.Inventory, 0, len(updates))
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, u := range updates {
			inv, err := upsertStock(tx, staffID, u.ProductID, u.Stock)
			if err != nil {
				return err
			}
			out = append(out, *inv)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepo) DeleteInventory(ctx context.Context, staffID, productID uint) (bool, error) {
	res := r.DB.WithContext(ctx).
		Where("staff_id = ? AND product_id = ?", staffID, productID).
		Delete(&models.Inventory{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *GormRepo) ListInventory(ctx context.Context, staffID uint) ([]models.Inventory, error) {
	items := []models.Inventory{}
	err := r.DB.WithContext(ctx).
		Joins("Product").
		Where("inventories.staff_id = ?", staffID).
		Order(`"Product"."name" ASC`).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// decrementClamped lowers stock by qty, never below zero. A non-nil Shortfall
// means the row held less than qty.
func decrementClamped(tx *gorm.DB, staffID, productID uint, qty int) (*Shortfall, error) {
	before, err := stockOf(tx, staffID, productID)
	if err != nil {
		return nil, err
	}

	res := tx.Model(&models.Inventory{}).
		Where("staff_id = ? AND product_id = ?", staffID, productID).
		Updates(map[string]any{
			"stock":      gorm.Expr("CASE WHEN stock > ? THEN stock - ? ELSE 0 END", qty, qty),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return nil, res.Error
	}

	if before < qty {
		return &Shortfall{ProductID: productID, Available: before, Requested: qty}, nil
	}
	return nil, nil
}
