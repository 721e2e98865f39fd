package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kopikeliling/marketplace/internal/models"
)

func (r *GormRepo) GetStaffProfile(ctx context.Context, userID uint) (*models.StaffProfile, error) {
	var p models.StaffProfile
	if err := r.DB.WithContext(ctx).Preload("User").Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// EnsureStaffProfile creates an inactive profile for the user if none exists.
func (r *GormRepo) EnsureStaffProfile(ctx context.Context, userID uint) error {
	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(&models.StaffProfile{UserID: userID}).Error
}

func (r *GormRepo) SetStaffActive(ctx context.Context, userID uint, active bool) (*models.StaffProfile, error) {
	var p models.StaffProfile
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(models.StaffProfile{UserID: userID}).FirstOrCreate(&p).Error; err != nil {
			return err
		}
		return tx.Model(&p).Updates(map[string]any{"is_active": active, "updated_at": time.Now().UTC()}).Error
	})
	if err != nil {
		return nil, err
	}
	p.IsActive = active
	return &p, nil
}

// SetStaffLocation stores the latest position and appends it to the location log.
func (r *GormRepo) SetStaffLocation(ctx context.Context, userID uint, lat, lng float64) (*models.StaffProfile, error) {
	var p models.StaffProfile
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(models.StaffProfile{UserID: userID}).FirstOrCreate(&p).Error; err != nil {
			return err
		}
		if err := tx.Model(&p).Updates(map[string]any{
			"location_lat": lat,
			"location_lng": lng,
			"updated_at":   time.Now().UTC(),
		}).Error; err != nil {
			return err
		}
		return tx.Create(&models.LocationLog{StaffID: p.ID, Latitude: lat, Longitude: lng}).Error
	})
	if err != nil {
		return nil, err
	}
	p.LocationLat, p.LocationLng = &lat, &lng
	return &p, nil
}

// ListActiveStaff returns active sellers that have reported a location.
func (r *GormRepo) ListActiveStaff(ctx context.Context) ([]models.StaffProfile, error) {
	out := []models.StaffProfile{}
	err := r.DB.WithContext(ctx).
		Preload("User").
		Where("is_active = ? AND location_lat IS NOT NULL AND location_lng IS NOT NULL", true).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepo) GetCustomerProfile(ctx context.Context, userID uint) (*models.CustomerProfile, error) {
	var p models.CustomerProfile
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormRepo) SetCustomerLocation(ctx context.Context, userID uint, lat, lng float64) (*models.CustomerProfile, error) {
	var p models.CustomerProfile
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(models.CustomerProfile{UserID: userID}).FirstOrCreate(&p).Error; err != nil {
			return err
		}
		return tx.Model(&p).Updates(map[string]any{
			"location_lat": lat,
			"location_lng": lng,
			"updated_at":   time.Now().UTC(),
		}).Error
	})
	if err != nil {
		return nil, err
	}
	p.LocationLat, p.LocationLng = &lat, &lng
	return &p, nil
}
