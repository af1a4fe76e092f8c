package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleProduct() Product {
	return Product{
		ID:           1,
		Title:        "Combo Mate + Bombilla Acero",
		Price:        "$5.000",
		Description:  "Set completo",
		Material:     "Cerámica y acero inoxidable",
		Capacity:     "Mate para 250ml",
		Origin:       "Misiones, Argentina",
		Availability: "En stock",
		MainImage:    "assets/combo-mate.jpg",
		Thumbnails:   []string{"a.jpg"},
	}
}

func TestNewLineItem_CopiesAllFields(t *testing.T) {
	p := sampleProduct()
	item := NewLineItem(p, 3)

	assert.Equal(t, p.ID, item.ID)
	assert.Equal(t, p.Title, item.Title)
	assert.Equal(t, p.Price, item.Price)
	assert.Equal(t, p.Description, item.Description)
	assert.Equal(t, p.Material, item.Material)
	assert.Equal(t, p.Capacity, item.Capacity)
	assert.Equal(t, p.Origin, item.Origin)
	assert.Equal(t, p.Availability, item.Availability)
	assert.Equal(t, p.MainImage, item.MainImage)
	assert.Equal(t, p.Thumbnails, item.Thumbnails)
	assert.Equal(t, 3, item.Quantity)
}

func TestNewLineItem_DetachedFromCatalog(t *testing.T) {
	p := sampleProduct()
	item := NewLineItem(p, 1)

	p.Price = "$9.999"
	p.Thumbnails[0] = "changed.jpg"

	assert.Equal(t, "$5.000", item.Price)
	assert.Equal(t, "a.jpg", item.Thumbnails[0])
}

func TestCloneItems_Independent(t *testing.T) {
	items := []LineItem{NewLineItem(sampleProduct(), 2)}
	clone := CloneItems(items)

	items[0].Quantity = 10
	items[0].Thumbnails[0] = "x.jpg"

	assert.Equal(t, 2, clone[0].Quantity)
	assert.Equal(t, "a.jpg", clone[0].Thumbnails[0])
}

func TestCloneItems_Empty(t *testing.T) {
	clone := CloneItems(nil)
	assert.NotNil(t, clone)
	assert.Empty(t, clone)
}
