package pipeline

import (
	"strconv"
	"strings"

	"github.com/user/resale-catalog-service/internal/entity"
)

// Dedupe removes records colliding on the content-derived identity key,
// keeping the first occurrence. The filter is stable and order-preserving,
// and therefore idempotent.
func Dedupe(records []entity.NormalizedProduct) []entity.NormalizedProduct {
	seen := make(map[string]struct{}, len(records))
	out := make([]entity.NormalizedProduct, 0, len(records))

	for _, rec := range records {
		key := identityKey(rec)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, rec)
	}
	return out
}

// identityKey is lowercase(title) + lowercase(brand) + exact price. Title
// whitespace and punctuation are deliberately not normalized; this is an
// approximate identity.
func identityKey(rec entity.NormalizedProduct) string {
	return strings.ToLower(rec.Title) + "|" +
		strings.ToLower(rec.Brand) + "|" +
		strconv.FormatFloat(rec.Price, 'f', -1, 64)
}
