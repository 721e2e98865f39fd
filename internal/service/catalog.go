package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/kopikeliling/marketplace/internal/models"
	"github.com/kopikeliling/marketplace/internal/repo"
	"github.com/kopikeliling/marketplace/internal/search"
)

type CatalogService struct {
	Repo     *repo.GormRepo
	Searcher *search.Searcher
}

func (s *CatalogService) List(ctx context.Context) ([]models.Product, error) {
	return s.Repo.ListProducts(ctx)
}

func (s *CatalogService) Search(ctx context.Context, query string, from, size int) (*search.Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: q is required", ErrValidation)
	}
	return s.Searcher.Search(ctx, query, from, size)
}
