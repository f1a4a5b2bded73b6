package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/user/resale-catalog-service/internal/entity"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		title       string
		description string
		want        entity.Category
	}{
		{"Silk Midi Dress", "", entity.CategoryDresses},
		{"Evening Gown", "", entity.CategoryDresses},
		{"Wool Blazer", "", entity.CategoryOuterwear},
		{"Cashmere Sweater", "", entity.CategoryOuterwear},
		{"Straight-Leg Jeans", "", entity.CategoryBottoms},
		{"Pleated Skirt", "", entity.CategoryBottoms},
		{"Silk Blouse", "", entity.CategoryTops},
		{"Ribbed Tank", "", entity.CategoryTops},
		{"Mystery Item", "", entity.CategoryTops},
		// dress keyword beats top even when both appear: priority order
		{"Shirt Dress", "", entity.CategoryDresses},
		// keyword may come from the description
		{"Untitled", "a lovely frock for summer", entity.CategoryDresses},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Categorize(tt.title, tt.description), tt.title)
	}
}

func TestSubcategorize(t *testing.T) {
	tests := []struct {
		category entity.Category
		title    string
		want     string
	}{
		{entity.CategoryDresses, "Silk Maxi Dress", "maxi"},
		{entity.CategoryDresses, "Mini Dress", "mini"},
		{entity.CategoryDresses, "Plain Dress", "midi"},
		{entity.CategoryTops, "Silk Blouse", "blouses"},
		{entity.CategoryTops, "Button Shirt", "shirts"},
		{entity.CategoryTops, "Knit Camisole", "tops"},
		{entity.CategoryBottoms, "Skinny Jeans", "jeans"},
		{entity.CategoryBottoms, "Wide Trousers", "trousers"},
		{entity.CategoryBottoms, "A-Line Skirt", "skirts"},
		{entity.CategoryBottoms, "Leggings", "pants"},
		{entity.CategoryOuterwear, "Bomber Jacket", "jackets"},
		{entity.CategoryOuterwear, "Trench Coat", "coats"},
		{entity.CategoryOuterwear, "Cardigan", "jackets"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Subcategorize(tt.category, tt.title), tt.title)
	}
}

func TestSoldSignals(t *testing.T) {
	sold := mustDoc(t, `<div class="sold-out">Sold Out</div>`)
	assert.True(t, PageHasSoldSignal(sold))

	textOnly := mustDoc(t, `<body><p>This item is no longer available.</p></body>`)
	assert.True(t, PageHasSoldSignal(textOnly))

	live := mustDoc(t, `<body><h1>Silk Dress</h1><p>Ships in 2 days.</p></body>`)
	assert.False(t, PageHasSoldSignal(live))
}

func TestCardSoldSignalDefaultsToIncluded(t *testing.T) {
	doc := mustDoc(t, `
		<div class="card" id="a"><span class="sold-badge"></span><a href="/products/1">x</a></div>
		<div class="card" id="b"><a href="/products/2">y</a></div>`)

	assert.True(t, CardHasSoldSignal(doc.Find("#a")))
	assert.False(t, CardHasSoldSignal(doc.Find("#b")))
}
