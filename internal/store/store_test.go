package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTable(t *testing.T) {
	tbl, err := ParseTable("data.orders_10001")
	require.NoError(t, err)
	assert.Equal(t, Table{Schema: "data", Name: "orders_10001"}, tbl)
	assert.Equal(t, "data.orders_10001", tbl.String())

	tbl, err = ParseTable(" orders ")
	require.NoError(t, err)
	assert.Equal(t, Table{Schema: "public", Name: "orders"}, tbl)

	for _, bad := range []string{"", ".orders", "raw.", "a.b.c"} {
		_, err := ParseTable(bad)
		assert.Error(t, err, bad)
	}
}
