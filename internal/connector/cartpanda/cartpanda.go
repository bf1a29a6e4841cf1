package cartpanda

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/crimson-sun/orderflow/internal/connector"
	"github.com/crimson-sun/orderflow/internal/connector/httpclient"
)

const defaultEndpoint = "https://accounts.cartpanda.com/api/v3"

func init() {
	connector.Register("cartpanda", New)
}

// Source reads order pages from the Cartpanda REST API:
// GET {endpoint}/{shop}/orders?include=...&page=N.
type Source struct {
	client  *httpclient.Client
	path    string
	include string
}

// New builds a Cartpanda source. The API key and shop are required.
func New(cfg connector.ConnectorConfig) (connector.Source, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("cartpanda connector: missing API key")
	}
	shop := strings.Trim(cfg.Shop, "/")
	if shop == "" {
		return nil, errors.New("cartpanda connector: missing shop")
	}
	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	if endpoint == "" {
		endpoint = defaultEndpoint
	}

	opts := []httpclient.Option{httpclient.WithMaxRetries(cfg.MaxRetries)}
	if cfg.Timeout > 0 {
		opts = append(opts, httpclient.WithTimeout(cfg.Timeout))
	}
	return &Source{
		client:  httpclient.New(endpoint, cfg.APIKey, opts...),
		path:    "/" + url.PathEscape(shop) + "/orders",
		include: cfg.Include,
	}, nil
}

// FetchPage requests one page. A 404 is the API's end-of-pagination signal.
func (s *Source) FetchPage(ctx context.Context, n int) (connector.Page, error) {
	q := url.Values{}
	if s.include != "" {
		q.Set("include", s.include)
	}
	q.Set("page", strconv.Itoa(n))

	body, err := s.client.Get(ctx, s.path, q)
	if err != nil {
		if httpclient.IsNotFound(err) {
			return connector.Page{}, fmt.Errorf("%w: page %d returned 404", connector.ErrExhausted, n)
		}
		return connector.Page{}, fmt.Errorf("cartpanda connector: page %d: %w", n, err)
	}
	return connector.Classify(n, body)
}
