package query

import (
	"math"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePage(t *testing.T) {
	tests := []struct {
		start, size   string
		offset, limit int
	}{
		{"2", "10", 20, 10},
		{"", "", 0, 10},
		{"abc", "xyz", 0, 10},
		{"-1", "0", 0, 10},
		{"3", "25", 75, 25},
		{"0", "100000", 0, 100000},
		{"100000000000000000", "100", math.MaxInt, 100},
		{"1000000000000000000", "100", math.MaxInt, 100},
	}
	for _, tt := range tests {
		p := ParsePage(tt.start, tt.size)
		assert.Equal(t, tt.offset, p.Offset(), "start=%q size=%q", tt.start, tt.size)
		assert.Equal(t, tt.limit, p.Limit(), "start=%q size=%q", tt.start, tt.size)
	}
}

func TestPageCap(t *testing.T) {
	p := Page{Start: 1, Size: 500}
	assert.Equal(t, 500, p.Cap(0).Limit())
	assert.Equal(t, 100, p.Cap(100).Limit())
	assert.Equal(t, 100, p.Cap(100).Offset())
}

func TestPlanOffsetNeverNegative(t *testing.T) {
	v := url.Values{}
	v.Set("start", "100000000000000000")
	v.Set("size", "100")
	req, err := ParseRequest(v)
	require.NoError(t, err)
	plan, err := testSchema.Plan(req)
	require.NoError(t, err)
	_, args := plan.LimitOffset()
	assert.Equal(t, []any{100, math.MaxInt}, args)
}

func TestSortPreservesOrder(t *testing.T) {
	orders, err := testSchema.Sort([]SortField{
		{ID: "name", Desc: true},
		{ID: "id"},
		{ID: "airDate", Desc: true},
	})
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, "name", orders[0].Field.Name)
	assert.Equal(t, Desc, orders[0].Direction)
	assert.Equal(t, "id", orders[1].Field.Name)
	assert.Equal(t, Asc, orders[1].Direction)
	assert.Equal(t, "airDate", orders[2].Field.Name)
	assert.Equal(t, Desc, orders[2].Direction)

	assert.Equal(t, "ORDER BY c.name DESC, c.id ASC, c.air_date DESC", testSchema.orderBy(orders))
}

func TestSortAppendsKeyTieBreak(t *testing.T) {
	orders, err := testSchema.Sort([]SortField{{ID: "name"}})
	require.NoError(t, err)
	assert.Equal(t, "ORDER BY c.name ASC, c.id ASC", testSchema.orderBy(orders))
	assert.Equal(t, "ORDER BY c.id ASC", testSchema.orderBy(nil))
}

func TestSortRejectsUnknownField(t *testing.T) {
	_, err := testSchema.Sort([]SortField{{ID: "name; DROP TABLE channels"}})
	require.ErrorIs(t, err, ErrUnknownField)
}

func TestParseRequest(t *testing.T) {
	q := url.Values{}
	q.Set("globalFilter", "news")
	q.Set("filters", `[{"id":"id","value":"3","type":"greaterThan"}]`)
	q.Set("sorting", `[{"id":"name","desc":true}]`)
	q.Set("start", "1")
	q.Set("size", "5")

	req, err := ParseRequest(q)
	require.NoError(t, err)
	assert.Equal(t, "news", req.GlobalFilter)
	require.Len(t, req.Filters, 1)
	assert.Equal(t, ColumnFilter{ID: "id", Value: "3", Type: OpGreaterThan}, req.Filters[0])
	assert.Equal(t, []SortField{{ID: "name", Desc: true}}, req.Sorting)
	assert.Equal(t, Page{Start: 1, Size: 5}, req.Page)
}

func TestParseRequestMalformed(t *testing.T) {
	for _, key := range []string{"filters", "sorting"} {
		for _, raw := range []string{"[{", "{}", `"x"`, "not json"} {
			q := url.Values{}
			q.Set(key, raw)
			_, err := ParseRequest(q)
			require.ErrorIs(t, err, ErrMalformed, "%s=%s", key, raw)
		}
	}
}

func TestPlanCombinesGlobalAndColumnFilters(t *testing.T) {
	plan, err := testSchema.Plan(Request{
		GlobalFilter: "bbc",
		Filters: []ColumnFilter{
			{ID: "id", Value: 3.0, Type: OpGreaterThan},
			{ID: "name", Value: "", Type: OpContains}, // dropped
			{ID: "description", Type: OpEmpty},
		},
		Sorting: []SortField{{ID: "name", Desc: true}},
		Page:    Page{Start: 2, Size: 10},
	})
	require.NoError(t, err)
	assert.Equal(t,
		"WHERE (c.name ILIKE $1 OR c.description ILIKE $1) AND c.id > $2::float8 AND c.description IS NULL",
		plan.Where)
	assert.Equal(t, []any{"%bbc%", 3.0}, plan.Args)
	assert.Equal(t, "ORDER BY c.name DESC, c.id ASC", plan.OrderBy)
	assert.Equal(t, 10, plan.Limit)
	assert.Equal(t, 20, plan.Offset)

	clause, args := plan.LimitOffset()
	assert.Equal(t, "LIMIT $3 OFFSET $4", clause)
	assert.Equal(t, []any{"%bbc%", 3.0, 10, 20}, args)
}

func TestPlanEmptyRequest(t *testing.T) {
	plan, err := testSchema.Plan(Request{Page: ParsePage("", "")})
	require.NoError(t, err)
	assert.Empty(t, plan.Where)
	assert.Empty(t, plan.Args)

	clause, args := plan.LimitOffset()
	assert.Equal(t, "LIMIT $1 OFFSET $2", clause)
	assert.Equal(t, []any{10, 0}, args)
}

func TestPlanRejectsUnknownFilterField(t *testing.T) {
	_, err := testSchema.Plan(Request{
		Filters: []ColumnFilter{{ID: "password", Value: "x", Type: OpEquals}},
	})
	require.ErrorIs(t, err, ErrUnknownField)
}
