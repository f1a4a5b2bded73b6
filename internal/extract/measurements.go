package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/user/resale-catalog-service/internal/entity"
)

// measurementBlocks are the designated blocks scanned for labeled numbers.
const measurementBlocks = ".measurements, .size-chart, .product-measurements"

// Each pattern matches a case-insensitive label immediately followed by a
// decimal number. Bust accepts the "chest" synonym, hips the singular form.
var measurementPatterns = []struct {
	field    string
	patterns []*regexp.Regexp
}{
	{entity.MeasurementBust, []*regexp.Regexp{
		regexp.MustCompile(`(?i)bust[:\s]*(\d+(?:\.\d+)?)`),
		regexp.MustCompile(`(?i)chest[:\s]*(\d+(?:\.\d+)?)`),
	}},
	{entity.MeasurementWaist, []*regexp.Regexp{
		regexp.MustCompile(`(?i)waist[:\s]*(\d+(?:\.\d+)?)`),
	}},
	{entity.MeasurementHips, []*regexp.Regexp{
		regexp.MustCompile(`(?i)hips?[:\s]*(\d+(?:\.\d+)?)`),
	}},
	{entity.MeasurementLength, []*regexp.Regexp{
		regexp.MustCompile(`(?i)length[:\s]*(\d+(?:\.\d+)?)`),
	}},
	{entity.MeasurementShoulder, []*regexp.Regexp{
		regexp.MustCompile(`(?i)shoulder[:\s]*(\d+(?:\.\d+)?)`),
	}},
}

// extractMeasurements scans each measurement block in document order.
// First match per field wins: once a field is captured, later blocks never
// overwrite it.
func extractMeasurements(doc *goquery.Document) entity.Measurements {
	found := entity.Measurements{}
	doc.Find(measurementBlocks).Each(func(_ int, s *goquery.Selection) {
		text := strings.ToLower(s.Text())
		for _, mp := range measurementPatterns {
			if _, done := found[mp.field]; done {
				continue
			}
			for _, re := range mp.patterns {
				m := re.FindStringSubmatch(text)
				if m == nil {
					continue
				}
				v, err := strconv.ParseFloat(m[1], 64)
				if err != nil {
					continue
				}
				found[mp.field] = v
				break
			}
		}
	})
	return found
}
