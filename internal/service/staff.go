package service

import (
	"context"
	"fmt"

	"github.com/kopikeliling/marketplace/internal/models"
	"github.com/kopikeliling/marketplace/internal/repo"
	"github.com/kopikeliling/marketplace/pkg/logging"
)

type StaffService struct {
	Repo *repo.GormRepo
}

func (s *StaffService) SetActive(ctx context.Context, userID uint, active *bool) (*models.StaffProfile, error) {
	if active == nil {
		return nil, fmt.Errorf("%w: isActive must be a boolean", ErrValidation)
	}
	p, err := s.Repo.SetStaffActive(ctx, userID, *active)
	if err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Info("staff_status_updated", "staff_id", userID, "is_active", *active)
	return p, nil
}

func (s *StaffService) SetLocation(ctx context.Context, userID uint, lat, lng *float64) (*models.StaffProfile, error) {
	la, ln, err := validateCoordinates(lat, lng)
	if err != nil {
		return nil, err
	}
	return s.Repo.SetStaffLocation(ctx, userID, la, ln)
}
