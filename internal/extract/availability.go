package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Explicit sold signals only; nothing here is inferred heuristically.
// Ambiguous pages default to available (permissive policy favoring
// over-harvesting, filtered later, over silently dropping live stock).
const soldMarkerSelectors = `.sold-out, .product-sold, .sold-badge, [data-testid="sold-badge"], [data-testid="sold-out"]`

var soldTextMarkers = []string{"sold out", "no longer available"}

// PageHasSoldSignal reports whether a detail page carries an explicit
// sold/unavailable marker element or literal text.
func PageHasSoldSignal(doc *goquery.Document) bool {
	if doc.Find(soldMarkerSelectors).Length() > 0 {
		return true
	}
	body := strings.ToLower(doc.Find("body").Text())
	for _, marker := range soldTextMarkers {
		if strings.Contains(body, marker) {
			return true
		}
	}
	return false
}

// CardHasSoldSignal reports whether a listing card shows an explicit sold
// marker. Used to skip obviously-sold entries before their detail pages are
// ever fetched.
func CardHasSoldSignal(card *goquery.Selection) bool {
	if card == nil {
		return false
	}
	if card.Find(soldMarkerSelectors).Length() > 0 {
		return true
	}
	text := strings.ToLower(card.Text())
	for _, marker := range soldTextMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}
