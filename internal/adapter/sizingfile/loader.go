package sizingfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/user/resale-catalog-service/internal/entity"
	"github.com/user/resale-catalog-service/internal/repository"
)

// Loader reads the sizing reference chart from a JSON file on disk. The
// chart is parsed once and cached for the lifetime of the process.
type Loader struct {
	path string

	once  sync.Once
	chart entity.SizingChart
	err   error
}

// New creates a Loader for the given chart file path.
func New(path string) *Loader {
	return &Loader{path: path}
}

// Chart returns the parsed sizing chart. Any load failure wraps
// repository.ErrSizingChartUnavailable so callers can abort the run.
func (l *Loader) Chart(_ context.Context) (entity.SizingChart, error) {
	l.once.Do(func() {
		data, err := os.ReadFile(l.path)
		if err != nil {
			l.err = fmt.Errorf("%w: %v", repository.ErrSizingChartUnavailable, err)
			return
		}
		var chart entity.SizingChart
		if err := json.Unmarshal(data, &chart); err != nil {
			l.err = fmt.Errorf("%w: parsing %s: %v", repository.ErrSizingChartUnavailable, l.path, err)
			return
		}
		l.chart = chart
	})
	return l.chart, l.err
}
