// Package catalog serves the shop's read-only product list.
package catalog

import (
	"context"
	_ "embed"
	"fmt"
	"slices"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/LautaroYamil/trabajo-practico-2/internal/domain"
	apperrors "github.com/LautaroYamil/trabajo-practico-2/pkg/errors"
	"github.com/LautaroYamil/trabajo-practico-2/pkg/slug"
)

//go:embed products.yaml
var defaultProducts []byte

// Catalog is a read-only product lookup.
type Catalog interface {
	// Get returns the product with the given id or an apperrors.NotFound error.
	Get(ctx context.Context, id int) (*domain.Product, error)

	// GetBySlug returns the product with the given slug or an apperrors.NotFound error.
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)

	// List returns all products ordered by id.
	List(ctx context.Context) ([]domain.Product, error)
}

// Static is an in-memory catalog loaded once and never modified.
type Static struct {
	products []domain.Product
	byID     map[int]int
	bySlug   map[string]int
}

// Default returns the catalog embedded in the binary.
func Default() (*Static, error) {
	return Parse(defaultProducts)
}

// Parse builds a catalog from a YAML list of products.
func Parse(data []byte) (*Static, error) {
	var products []domain.Product
	if err := yaml.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return New(products)
}

// New builds a catalog from the given products. IDs must be positive and
// unique. A missing slug is derived from the title; slugs must be unique too.
func New(products []domain.Product) (*Static, error) {
	sorted := slices.Clone(products)
	slices.SortFunc(sorted, func(a, b domain.Product) int { return a.ID - b.ID })

	byID := make(map[int]int, len(sorted))
	bySlug := make(map[string]int, len(sorted))
	for i := range sorted {
		p := &sorted[i]
		if p.ID <= 0 {
			return nil, fmt.Errorf("catalog product %q has invalid id %d", p.Title, p.ID)
		}
		if _, dup := byID[p.ID]; dup {
			return nil, fmt.Errorf("catalog has duplicate product id %d", p.ID)
		}
		byID[p.ID] = i

		if p.Slug == "" {
			p.Slug = slug.Generate(p.Title)
		}
		if p.Slug == "" {
			continue
		}
		if other, dup := bySlug[p.Slug]; dup {
			return nil, fmt.Errorf("catalog products %d and %d share slug %q", sorted[other].ID, p.ID, p.Slug)
		}
		bySlug[p.Slug] = i
	}

	return &Static{products: sorted, byID: byID, bySlug: bySlug}, nil
}

// Get returns a copy of the product with the given id.
func (c *Static) Get(_ context.Context, id int) (*domain.Product, error) {
	i, ok := c.byID[id]
	if !ok {
		return nil, apperrors.NotFound("product", strconv.Itoa(id))
	}
	p := c.products[i]
	p.Thumbnails = slices.Clone(p.Thumbnails)
	return &p, nil
}

// GetBySlug returns a copy of the product with the given slug.
func (c *Static) GetBySlug(_ context.Context, s string) (*domain.Product, error) {
	i, ok := c.bySlug[s]
	if !ok {
		return nil, apperrors.NotFound("product", s)
	}
	p := c.products[i]
	p.Thumbnails = slices.Clone(p.Thumbnails)
	return &p, nil
}

// List returns a copy of every product.
func (c *Static) List(_ context.Context) ([]domain.Product, error) {
	out := make([]domain.Product, len(c.products))
	for i, p := range c.products {
		p.Thumbnails = slices.Clone(p.Thumbnails)
		out[i] = p
	}
	return out, nil
}
