package fixture

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/crimson-sun/orderflow/internal/connector"
)

func init() {
	connector.Register("fixture", New)
}

// Source replays captured API responses from a directory holding
// page-1.json, page-2.json, ... A missing file behaves like the API's 404.
type Source struct {
	dir string
}

// New builds a fixture source over cfg.Dir.
func New(cfg connector.ConnectorConfig) (connector.Source, error) {
	if cfg.Dir == "" {
		return nil, errors.New("fixture connector: missing directory")
	}
	info, err := os.Stat(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("fixture connector: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("fixture connector: %s is not a directory", cfg.Dir)
	}
	return &Source{dir: cfg.Dir}, nil
}

// PageFile is the file name holding page n.
func PageFile(n int) string {
	return fmt.Sprintf("page-%d.json", n)
}

func (s *Source) FetchPage(ctx context.Context, n int) (connector.Page, error) {
	if err := ctx.Err(); err != nil {
		return connector.Page{}, err
	}
	body, err := os.ReadFile(filepath.Join(s.dir, PageFile(n)))
	if errors.Is(err, fs.ErrNotExist) {
		return connector.Page{}, fmt.Errorf("%w: %s not found", connector.ErrExhausted, PageFile(n))
	}
	if err != nil {
		return connector.Page{}, fmt.Errorf("fixture connector: %w", err)
	}
	return connector.Classify(n, body)
}
