package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/kopikeliling/marketplace/internal/models"
	"github.com/kopikeliling/marketplace/internal/repo"
	"github.com/kopikeliling/marketplace/internal/transport"
)

type CustomerService struct {
	Repo *repo.GormRepo
}

// ErrNoActiveSellers is returned by Nearest when nobody is selling.
var ErrNoActiveSellers = fmt.Errorf("%w: No active sellers found", ErrNotFound)

func (s *CustomerService) SetLocation(ctx context.Context, userID uint, lat, lng *float64) (*models.CustomerProfile, error) {
	la, ln, err := validateCoordinates(lat, lng)
	if err != nil {
		return nil, err
	}
	return s.Repo.SetCustomerLocation(ctx, userID, la, ln)
}

// Nearest lists active sellers with a known position, closest first.
func (s *CustomerService) Nearest(ctx context.Context, userID uint) (*transport.NearestSellers, error) {
	cp, err := s.Repo.GetCustomerProfile(ctx, userID)
	if err != nil && !isNotFound(err) {
		return nil, err
	}
	if cp == nil || cp.LocationLat == nil || cp.LocationLng == nil {
		return nil, fmt.Errorf("%w: Customer location not set. Please update your location first.", ErrValidation)
	}

	staff, err := s.Repo.ListActiveStaff(ctx)
	if err != nil {
		return nil, err
	}
	if len(staff) == 0 {
		return nil, ErrNoActiveSellers
	}

	out := &transport.NearestSellers{
		CustomerLocation: transport.Coordinates{Lat: *cp.LocationLat, Lng: *cp.LocationLng},
		Data:             make([]transport.SellerCard, 0, len(staff)),
	}
	for _, sp := range staff {
		d := round2(haversineKm(*cp.LocationLat, *cp.LocationLng, *sp.LocationLat, *sp.LocationLng))
		card := sellerCard(sp)
		card.Distance = &d
		out.Data = append(out.Data, card)
	}
	sort.SliceStable(out.Data, func(i, j int) bool { return *out.Data[i].Distance < *out.Data[j].Distance })
	return out, nil
}

func (s *CustomerService) SellerInventory(ctx context.Context, staffUserID uint) (*transport.SellerInventory, error) {
	sp, err := s.Repo.GetStaffProfile(ctx, staffUserID)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: Staff not found", ErrNotFound)
		}
		return nil, err
	}

	inv, err := s.Repo.ListInventory(ctx, staffUserID)
	if err != nil {
		return nil, err
	}
	out := &transport.SellerInventory{
		Seller:    sellerCard(*sp),
		Inventory: make([]transport.SellerInventoryItem, 0, len(inv)),
	}
	for _, it := range inv {
		out.Inventory = append(out.Inventory, transport.SellerInventoryItem{
			ProductID:      it.ProductID,
			ProductName:    it.Product.Name,
			Description:    it.Product.Description,
			Price:          it.Product.Price,
			ImageURL:       it.Product.ImageURL,
			AvailableStock: it.Stock,
		})
	}
	return out, nil
}

func sellerCard(sp models.StaffProfile) transport.SellerCard {
	name := sp.User.Name
	if name == "" {
		name = "Unknown"
	}
	return transport.SellerCard{
		StaffID:     sp.UserID,
		StaffName:   name,
		StaffEmail:  sp.User.Email,
		LocationLat: sp.LocationLat,
		LocationLng: sp.LocationLng,
		IsActive:    sp.IsActive,
	}
}
