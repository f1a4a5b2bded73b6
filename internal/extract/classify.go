package extract

import (
	"regexp"
	"strings"

	"github.com/user/resale-catalog-service/internal/entity"
)

// Category keyword rules, checked in fixed priority order over the
// concatenated title and description.
var categoryRules = []struct {
	pattern  *regexp.Regexp
	category entity.Category
}{
	{regexp.MustCompile(`dress|gown|frock`), entity.CategoryDresses},
	{regexp.MustCompile(`jacket|coat|blazer|cardigan|sweater|hoodie`), entity.CategoryOuterwear},
	{regexp.MustCompile(`pants|trouser|jean|legging|short`), entity.CategoryBottoms},
	{regexp.MustCompile(`skirt|pant|bottom`), entity.CategoryBottoms},
	{regexp.MustCompile(`top|blouse|shirt|tee|tank|camisole`), entity.CategoryTops},
}

// Categorize classifies a product from its title and description,
// defaulting to tops.
func Categorize(title, description string) entity.Category {
	text := strings.ToLower(title + " " + description)
	for _, rule := range categoryRules {
		if rule.pattern.MatchString(text) {
			return rule.category
		}
	}
	return entity.CategoryTops
}

// Subcategorize runs a second keyword pass scoped to the chosen category.
func Subcategorize(category entity.Category, title string) string {
	text := strings.ToLower(title)

	switch category {
	case entity.CategoryDresses:
		for _, kw := range []string{"midi", "maxi", "mini"} {
			if strings.Contains(text, kw) {
				return kw
			}
		}
		return "midi"

	case entity.CategoryTops:
		switch {
		case strings.Contains(text, "blouse"):
			return "blouses"
		case strings.Contains(text, "shirt"):
			return "shirts"
		case strings.Contains(text, "sweater"):
			return "sweaters"
		}
		return "tops"

	case entity.CategoryBottoms:
		switch {
		case strings.Contains(text, "jean"):
			return "jeans"
		case strings.Contains(text, "trouser"):
			return "trousers"
		case strings.Contains(text, "skirt"):
			return "skirts"
		}
		return "pants"

	case entity.CategoryOuterwear:
		switch {
		case strings.Contains(text, "jacket"):
			return "jackets"
		case strings.Contains(text, "coat"):
			return "coats"
		}
		return "jackets"
	}

	return "other"
}
