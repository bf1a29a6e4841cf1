package fixture

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crimson-sun/orderflow/internal/connector"
)

func writePage(t *testing.T, dir string, n int, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, PageFile(n)), []byte(body), 0o644))
}

func TestFetchPage(t *testing.T) {
	dir := t.TempDir()
	writePage(t, dir, 1, `{"orders":[{"id":10}]}`)
	writePage(t, dir, 2, `[]`)

	src, err := New(connector.ConnectorConfig{Dir: dir})
	require.NoError(t, err)

	page, err := src.FetchPage(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Orders)

	_, err = src.FetchPage(context.Background(), 2)
	assert.ErrorIs(t, err, connector.ErrExhausted)

	_, err = src.FetchPage(context.Background(), 3)
	assert.ErrorIs(t, err, connector.ErrExhausted)
}

func TestFetchPage_CancelledContext(t *testing.T) {
	src, err := New(connector.ConnectorConfig{Dir: t.TempDir()})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = src.FetchPage(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew_Validation(t *testing.T) {
	_, err := New(connector.ConnectorConfig{})
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "f")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	_, err = New(connector.ConnectorConfig{Dir: file})
	assert.ErrorContains(t, err, "not a directory")
}
