package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strconv"
	"strings"
)

// productPathMarker identifies detail-page links on the source catalog.
const productPathMarker = "/products/"

// HashURL creates a SHA256 hash of a URL string, used for consistent,
// safe Redis keys.
func HashURL(rawURL string) string {
	h := sha256.New()
	h.Write([]byte(rawURL))
	return hex.EncodeToString(h.Sum(nil))
}

// ToAbsoluteURL converts a relative URL to an absolute URL given a base URL.
func ToAbsoluteURL(base *url.URL, relative string) (string, error) {
	relURL, err := url.Parse(relative)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(relURL).String(), nil
}

// IsProductLink reports whether an href points at a product detail page.
func IsProductLink(href string) bool {
	return strings.Contains(href, productPathMarker)
}

// ListingPageURL builds the paginated listing URL for a category slug.
func ListingPageURL(base *url.URL, categorySlug string, page int) string {
	u := *base
	u.Path = strings.TrimSuffix(u.Path, "/") + "/shop/" + strings.Trim(categorySlug, "/")
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String()
}
