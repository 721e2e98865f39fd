package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/kopikeliling/marketplace/internal/models"
	"github.com/kopikeliling/marketplace/pkg/logging"
)

type ProductStore interface {
	SearchProducts(ctx context.Context, query string, limit int) ([]models.Product, error)
}

// Searcher queries Elasticsearch when a client is configured and the
// database otherwise.
type Searcher struct {
	ES    *elasticsearch.Client
	Index string
	Store ProductStore
}

type Result struct {
	Total    int64            `json:"total"`
	Products []models.Product `json:"products"`
}

func (s *Searcher) Search(ctx context.Context, query string, from, size int) (*Result, error) {
	if s.ES == nil {
		return s.searchStore(ctx, query, from, size)
	}

	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"name^2", "description"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("encode search body: %w", err)
	}

	res, err := s.ES.Search(
		s.ES.Search.WithContext(ctx),
		s.ES.Search.WithIndex(s.Index),
		s.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		msg, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("search: %s: %s", res.Status(), msg)
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Product `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	out := &Result{Total: r.Hits.Total.Value, Products: make([]models.Product, len(r.Hits.Hits))}
	for i, hit := range r.Hits.Hits {
		out.Products[i] = hit.Source
	}
	return out, nil
}

func (s *Searcher) searchStore(ctx context.Context, query string, from, size int) (*Result, error) {
	all, err := s.Store.SearchProducts(ctx, query, from+size)
	if err != nil {
		return nil, err
	}
	out := &Result{Total: int64(len(all)), Products: []models.Product{}}
	if from < len(all) {
		out.Products = all[from:]
	}
	return out, nil
}

// IndexProducts writes the products into the index; a nil client is a no-op.
func (s *Searcher) IndexProducts(ctx context.Context, products []models.Product) error {
	if s.ES == nil {
		return nil
	}
	l := logging.FromContext(ctx).With("svc", "search")

	for _, p := range products {
		doc, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("encode product %d: %w", p.ID, err)
		}
		res, err := s.ES.Index(
			s.Index,
			bytes.NewReader(doc),
			s.ES.Index.WithContext(ctx),
			s.ES.Index.WithDocumentID(strconv.FormatUint(uint64(p.ID), 10)),
		)
		if err != nil {
			return fmt.Errorf("index product %d: %w", p.ID, err)
		}
		failed := res.IsError()
		status := res.Status()
		res.Body.Close()
		if failed {
			return fmt.Errorf("index product %d: %s", p.ID, status)
		}
	}
	l.Info("products_indexed", "count", len(products), "index", s.Index)
	return nil
}
