package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LautaroYamil/trabajo-practico-2/internal/domain"
	apperrors "github.com/LautaroYamil/trabajo-practico-2/pkg/errors"
)

func TestDefault_LoadsEmbeddedProducts(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	products, err := c.List(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 4)

	assert.Equal(t, 1, products[0].ID)
	assert.Equal(t, "Combo Mate + Bombilla Acero", products[0].Title)
	assert.Equal(t, "$5.000", products[0].Price)
	assert.Equal(t, "assets/combo-mate.jpg", products[0].MainImage)
	assert.Equal(t, "$1.800", products[1].Price)
	assert.Equal(t, "$39.900", products[2].Price)
	assert.Equal(t, "$15.000", products[3].Price)
}

func TestGet_Found(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	p, err := c.Get(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "Termo Soberanía Acero", p.Title)
	assert.Equal(t, "1 litro", p.Capacity)
}

func TestGet_NotFound(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	p, err := c.Get(context.Background(), 99)
	assert.Nil(t, p)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestGet_ReturnsCopy(t *testing.T) {
	c, err := New([]domain.Product{{ID: 1, Title: "Mate", Price: "$100", Thumbnails: []string{"a.jpg"}}})
	require.NoError(t, err)

	p, err := c.Get(context.Background(), 1)
	require.NoError(t, err)
	p.Price = "$1"
	p.Thumbnails[0] = "b.jpg"

	again, err := c.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "$100", again.Price)
	assert.Equal(t, "a.jpg", again.Thumbnails[0])
}

func TestNew_SortsByID(t *testing.T) {
	c, err := New([]domain.Product{{ID: 3, Title: "c"}, {ID: 1, Title: "a"}, {ID: 2, Title: "b"}})
	require.NoError(t, err)

	products, err := c.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, []int{products[0].ID, products[1].ID, products[2].ID})
}

func TestNew_RejectsDuplicateID(t *testing.T) {
	_, err := New([]domain.Product{{ID: 1}, {ID: 1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate product id 1")
}

func TestNew_RejectsInvalidID(t *testing.T) {
	_, err := New([]domain.Product{{ID: 0, Title: "broken"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid id")
}

func TestParse_BadYAML(t *testing.T) {
	_, err := Parse([]byte("- id: [oops"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode catalog")
}

func TestNew_DerivesSlugs(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	products, err := c.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "combo-mate-bombilla-acero", products[0].Slug)
	assert.Equal(t, "termo-soberania-acero", products[2].Slug)
}

func TestGetBySlug(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	p, err := c.GetBySlug(context.Background(), "termo-soberania-plastico")
	require.NoError(t, err)
	assert.Equal(t, 4, p.ID)

	_, err = c.GetBySlug(context.Background(), "termo-de-oro")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestNew_KeepsExplicitSlug(t *testing.T) {
	c, err := New([]domain.Product{{ID: 1, Title: "Mate Imperial", Slug: "imperial"}})
	require.NoError(t, err)

	p, err := c.GetBySlug(context.Background(), "imperial")
	require.NoError(t, err)
	assert.Equal(t, 1, p.ID)
}

func TestNew_RejectsDuplicateSlug(t *testing.T) {
	_, err := New([]domain.Product{{ID: 1, Title: "Mate"}, {ID: 2, Title: "MATE"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `share slug "mate"`)
}
