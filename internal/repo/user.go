package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/kopikeliling/marketplace/internal/models"
)

// CreateUser inserts the user and, for sellers, an inactive staff profile.
func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(u).Error; err != nil {
			return err
		}
		switch u.Role {
		case models.RoleStaff:
			return tx.Create(&models.StaffProfile{UserID: u.ID}).Error
		case models.RoleCustomer:
			return tx.Create(&models.CustomerProfile{UserID: u.ID}).Error
		}
		return nil
	})
}

func (r *GormRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *GormRepo) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}
