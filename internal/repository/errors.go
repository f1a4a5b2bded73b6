package repository

import "errors"

// Fetch failures are classified so the harvester can decide on retry
// eligibility. Transient covers timeouts, connection resets, and 5xx
// responses; everything else non-2xx is permanent and never retried.
var (
	ErrFetchTransient = errors.New("transient fetch failure")
	ErrFetchPermanent = errors.New("permanent fetch failure")
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrSizingChartUnavailable aborts a whole crawl run: the pipeline
	// cannot enrich without its reference data.
	ErrSizingChartUnavailable = errors.New("sizing chart unavailable")
)
