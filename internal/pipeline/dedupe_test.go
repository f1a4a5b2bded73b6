package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/resale-catalog-service/internal/entity"
)

func normalized(title, brand string, price float64, url string) entity.NormalizedProduct {
	return entity.NormalizedProduct{Title: title, Brand: brand, Price: price, URL: url}
}

func TestDedupeDropsSameTitleBrandPriceDifferentURL(t *testing.T) {
	records := []entity.NormalizedProduct{
		normalized("Silk Dress", "Chanel", 1250, "https://x/products/1"),
		normalized("Silk Dress", "Chanel", 1250, "https://x/products/2"),
	}

	out := Dedupe(records)
	require.Len(t, out, 1)
	assert.Equal(t, "https://x/products/1", out[0].URL)
}

func TestDedupeKeyIsCaseInsensitiveOnTitleAndBrand(t *testing.T) {
	records := []entity.NormalizedProduct{
		normalized("Silk Dress", "Chanel", 1250, "a"),
		normalized("SILK DRESS", "CHANEL", 1250, "b"),
	}
	assert.Len(t, Dedupe(records), 1)
}

func TestDedupePriceMustMatchExactly(t *testing.T) {
	records := []entity.NormalizedProduct{
		normalized("Silk Dress", "Chanel", 1250, "a"),
		normalized("Silk Dress", "Chanel", 1250.01, "b"),
	}
	assert.Len(t, Dedupe(records), 2)
}

func TestDedupePreservesOrder(t *testing.T) {
	records := []entity.NormalizedProduct{
		normalized("A", "B1", 1, "1"),
		normalized("B", "B2", 2, "2"),
		normalized("A", "B1", 1, "3"),
		normalized("C", "B3", 3, "4"),
	}

	out := Dedupe(records)
	require.Len(t, out, 3)
	assert.Equal(t, []string{"1", "2", "4"}, []string{out[0].URL, out[1].URL, out[2].URL})
}

func TestDedupeIsIdempotent(t *testing.T) {
	records := []entity.NormalizedProduct{
		normalized("A", "B", 1, "1"),
		normalized("A", "B", 1, "2"),
		normalized("B", "B", 2, "3"),
	}

	once := Dedupe(records)
	twice := Dedupe(once)
	assert.Equal(t, once, twice)
}
