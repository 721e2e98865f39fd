package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"

	"github.com/kopikeliling/marketplace/internal/models"
	"github.com/kopikeliling/marketplace/internal/mykafka"
	"github.com/kopikeliling/marketplace/internal/repo"
	"github.com/kopikeliling/marketplace/internal/transport"
	"github.com/kopikeliling/marketplace/pkg/logging"
)

type InventoryService struct {
	Repo   *repo.GormRepo
	Events mykafka.Publisher
}

type stockEvent struct {
	StaffID   uint `json:"staffId"`
	ProductID uint `json:"productId"`
	Stock     int  `json:"stock"`
}

func (s *InventoryService) List(ctx context.Context, staffID uint) ([]models.Inventory, error) {
	return s.Repo.ListInventory(ctx, staffID)
}

func (s *InventoryService) GetStock(ctx context.Context, staffID, productID uint) (int, error) {
	return s.Repo.GetStock(ctx, staffID, productID)
}

func (s *InventoryService) SetStock(ctx context.Context, staffID, productID uint, stock *int) (*models.Inventory, error) {
	l := logging.FromContext(ctx).With("svc", "inventory.set_stock", "staff_id", staffID, "product_id", productID)

	if productID == 0 {
		return nil, fmt.Errorf("%w: productId required", ErrValidation)
	}
	if stock == nil || *stock < 0 {
		return nil, fmt.Errorf("%w: stock must be a non-negative number", ErrValidation)
	}
	if err := s.ensureProducts(ctx, []uint{productID}); err != nil {
		return nil, err
	}
	if err := s.Repo.EnsureStaffProfile(ctx, staffID); err != nil {
		return nil, err
	}

	inv, err := s.Repo.SetStock(ctx, staffID, productID, *stock)
	if err != nil {
		return nil, err
	}

	l.Info("set_stock_success", "stock", inv.Stock)
	s.publish(ctx, stockEvent{StaffID: staffID, ProductID: productID, Stock: inv.Stock})
	return inv, nil
}

// BulkSetStock validates every item before writing any of them.
func (s *InventoryService) BulkSetStock(ctx context.Context, staffID uint, req transport.BulkStockRequest) ([]models.Inventory, error) {
	l := logging.FromContext(ctx).With("svc", "inventory.bulk_set_stock", "staff_id", staffID)

	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: items must be a non-empty array", ErrValidation)
	}
	updates := make([]repo.StockUpdate, 0, len(req.Items))
	ids := make([]uint, 0, len(req.Items))
	for i, it := range req.Items {
		if it.ProductID == 0 {
			return nil, fmt.Errorf("%w: items[%d].productId required", ErrValidation, i)
		}
		if it.Stock == nil || *it.Stock < 0 {
			return nil, fmt.Errorf("%w: items[%d].stock must be a non-negative number", ErrValidation, i)
		}
		updates = append(updates, repo.StockUpdate{ProductID: it.ProductID, Stock: *it.Stock})
		ids = append(ids, it.ProductID)
	}
	if err := s.ensureProducts(ctx, ids); err != nil {
		return nil, err
	}
	if err := s.Repo.EnsureStaffProfile(ctx, staffID); err != nil {
		return nil, err
	}

	out, err := s.Repo.BulkSetStock(ctx, staffID, updates)
	if err != nil {
		return nil, err
	}

	l.Info("bulk_set_stock_success", "count", len(out))
	for _, inv := range out {
		s.publish(ctx, stockEvent{StaffID: staffID, ProductID: inv.ProductID, Stock: inv.Stock})
	}
	return out, nil
}

func (s *InventoryService) Delete(ctx context.Context, staffID, productID uint) error {
	ok, err := s.Repo.DeleteInventory(ctx, staffID, productID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: product %d not in inventory", ErrNotFound, productID)
	}
	s.publish(ctx, stockEvent{StaffID: staffID, ProductID: productID, Stock: 0})
	return nil
}

func (s *InventoryService) ensureProducts(ctx context.Context, ids []uint) error {
	found, err := s.Repo.ProductsByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			return fmt.Errorf("%w: product %d", ErrNotFound, id)
		}
	}
	return nil
}

func (s *InventoryService) publish(ctx context.Context, ev stockEvent) {
	if s.Events == nil {
		return
	}
	key := strconv.FormatUint(uint64(ev.StaffID), 10)
	if err := s.Events.PublishEvent(ctx, mykafka.TopicInventory, key, "stock_updated", ev); err != nil {
		logging.FromContext(ctx).Warn("publish_event_error", "topic", mykafka.TopicInventory, "error", err)
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
