package seed

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/kopikeliling/marketplace/internal/models"
	"github.com/kopikeliling/marketplace/internal/repo"
	"github.com/kopikeliling/marketplace/internal/search"
	pkg_hash "github.com/kopikeliling/marketplace/pkg/hash"
	"github.com/kopikeliling/marketplace/pkg/logging"
)

//go:embed products.json
var catalogJSON []byte

// Demo staff starts out active at Monas, Jakarta.
const (
	demoStaffLat = -6.176768
	demoStaffLng = 106.8138496
)

type Seeder struct {
	Repo     *repo.GormRepo
	Searcher *search.Searcher

	StaffEmail    string
	StaffPassword string
}

func Catalog() ([]models.Product, error) {
	var products []models.Product
	if err := json.Unmarshal(catalogJSON, &products); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return products, nil
}

// Run is safe to call on every start: it only inserts what is missing.
func (s *Seeder) Run(ctx context.Context) error {
	l := logging.FromContext(ctx).With("svc", "seed")

	n, err := s.Repo.CountProducts(ctx)
	if err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if n == 0 {
		products, err := Catalog()
		if err != nil {
			return err
		}
		if err := s.Repo.CreateProducts(ctx, products); err != nil {
			return fmt.Errorf("insert catalog: %w", err)
		}
		l.Info("catalog_seeded", "count", len(products))
	}

	if s.Searcher != nil {
		all, err := s.Repo.ListProducts(ctx)
		if err != nil {
			return fmt.Errorf("list products: %w", err)
		}
		if err := s.Searcher.IndexProducts(ctx, all); err != nil {
			l.Warn("index_products_error", "error", err)
		}
	}

	if s.StaffEmail != "" && s.StaffPassword != "" {
		if err := s.demoStaff(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) demoStaff(ctx context.Context) error {
	l := logging.FromContext(ctx).With("svc", "seed")
	email := strings.ToLower(strings.TrimSpace(s.StaffEmail))

	_, err := s.Repo.GetUserByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("lookup demo staff: %w", err)
	}

	pwHash, err := pkg_hash.HashPassword(s.StaffPassword)
	if err != nil {
		return err
	}
	u := &models.User{Name: "Staff", Email: email, PasswordHash: pwHash, Role: models.RoleStaff}
	if err := s.Repo.CreateUser(ctx, u); err != nil {
		return fmt.Errorf("create demo staff: %w", err)
	}
	if _, err := s.Repo.SetStaffLocation(ctx, u.ID, demoStaffLat, demoStaffLng); err != nil {
		return fmt.Errorf("locate demo staff: %w", err)
	}
	if _, err := s.Repo.SetStaffActive(ctx, u.ID, true); err != nil {
		return fmt.Errorf("activate demo staff: %w", err)
	}

	l.Info("demo_staff_seeded", "user_id", u.ID, "email", email)
	return nil
}
