package extract

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/user/resale-catalog-service/internal/entity"
	"github.com/user/resale-catalog-service/pkg/utils"
)

// Unresolved-field defaults.
const (
	UnknownValue = "Unknown"
	maxImages    = 5
)

// priceValue captures the first numeric token after currency symbols and
// commas are stripped.
var priceValue = regexp.MustCompile(`\d+(?:\.\d+)?`)

// Fields holds everything the extractor could resolve from one detail page.
// A nil Price means the field was unresolved, which excludes the record
// downstream.
type Fields struct {
	Title        string
	Brand        string
	Price        *float64
	Condition    string
	Size         string
	Description  string
	Images       []string
	Measurements entity.Measurements
}

// Extract runs every field's fallback chain over the parsed document.
// The base URL absolutizes relative image sources.
func Extract(doc *goquery.Document, base *url.URL) Fields {
	return Fields{
		Title: firstText(doc,
			`h1[data-testid="product-title"]`,
			".product-title",
			"h1",
		),
		Brand: firstText(doc,
			`[data-testid="product-brand"]`,
			".product-brand",
			".brand-name",
		),
		Price:        extractPrice(doc),
		Condition:    firstTextOr(doc, UnknownValue, `[data-testid="product-condition"]`, ".product-condition", ".condition", ".item-condition"),
		Size:         extractSize(doc),
		Description:  firstText(doc, `[data-testid="product-description"]`, ".product-description", ".description", ".product-details"),
		Images:       extractImages(doc, base),
		Measurements: extractMeasurements(doc),
	}
}

// firstText returns the first selector's non-empty trimmed text.
// This is the ordered fallback chain that tolerates markup drift across
// page templates.
func firstText(doc *goquery.Document, selectors ...string) string {
	for _, sel := range selectors {
		if text := strings.TrimSpace(doc.Find(sel).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

func firstTextOr(doc *goquery.Document, fallback string, selectors ...string) string {
	if text := firstText(doc, selectors...); text != "" {
		return text
	}
	return fallback
}

func extractPrice(doc *goquery.Document) *float64 {
	selectors := []string{
		`[data-testid="product-price"]`,
		".product-price",
		".price",
		".current-price",
		".sale-price",
	}
	for _, sel := range selectors {
		text := strings.TrimSpace(doc.Find(sel).First().Text())
		if text == "" {
			continue
		}
		if price, ok := ParsePrice(text); ok {
			return &price
		}
	}
	return nil
}

// ParsePrice coerces price text like "$1,250.00" to 1250.0.
func ParsePrice(text string) (float64, bool) {
	cleaned := strings.ReplaceAll(text, ",", "")
	match := priceValue.FindString(cleaned)
	if match == "" {
		return 0, false
	}
	price, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return price, true
}

func extractSize(doc *goquery.Document) string {
	selectors := []string{
		`[data-testid="product-size"]`,
		".product-size",
		".size",
		".item-size",
	}
	for _, sel := range selectors {
		size := strings.TrimSpace(doc.Find(sel).First().Text())
		// The literal label "size" leaks out of some templates; treat it
		// as unresolved.
		if size != "" && !strings.EqualFold(size, "size") {
			return size
		}
	}
	return UnknownValue
}

func extractImages(doc *goquery.Document, base *url.URL) []string {
	images := make([]string, 0, maxImages)
	doc.Find(`img[src*="product"], img[alt*="product"], .product-image img`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		src, ok := s.Attr("src")
		if !ok || src == "" || strings.Contains(src, "placeholder") {
			return true
		}
		if abs, err := utils.ToAbsoluteURL(base, src); err == nil {
			images = append(images, abs)
		}
		return len(images) < maxImages
	})
	return images
}
