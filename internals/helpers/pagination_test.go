// file: internals/helpers/pagination_test.go
package helper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeOrderClauseWhitelist(t *testing.T) {
	allowed := map[string]string{
		"created_at": "payments.payment_created_at",
		"amount":     "payments.payment_amount_paisa",
	}

	p := Params{SortBy: "amount", SortOrder: "asc"}
	clause, err := p.SafeOrderClause(allowed, "created_at")
	require.NoError(t, err)
	assert.Equal(t, "ORDER BY payments.payment_amount_paisa ASC", clause)

	// injection attempt falls back to the default column
	p = Params{SortBy: "amount; DROP TABLE payments", SortOrder: "desc"}
	clause, err = p.SafeOrderClause(allowed, "created_at")
	require.NoError(t, err)
	assert.Equal(t, "ORDER BY payments.payment_created_at DESC", clause)

	// no usable default is a hard error
	_, err = p.SafeOrderClause(map[string]string{}, "created_at")
	assert.Error(t, err)
}

func TestParamsLimitOffset(t *testing.T) {
	p := Params{Page: 3, PerPage: 25}
	assert.Equal(t, 25, p.Limit())
	assert.Equal(t, 50, p.Offset())
}

func TestBuildMeta(t *testing.T) {
	meta := BuildMeta(101, Params{Page: 2, PerPage: 25})
	assert.Equal(t, int64(101), meta.Total)
	assert.Equal(t, 5, meta.TotalPages)
	assert.True(t, meta.HasNext)
	assert.True(t, meta.HasPrev)
	require.NotNil(t, meta.NextPage)
	assert.Equal(t, 3, *meta.NextPage)
	require.NotNil(t, meta.PrevPage)
	assert.Equal(t, 1, *meta.PrevPage)

	meta = BuildMeta(0, Params{Page: 1, PerPage: 25})
	assert.Equal(t, 0, meta.TotalPages)
	assert.False(t, meta.HasNext)
	assert.False(t, meta.HasPrev)
	assert.Nil(t, meta.NextPage)
}
