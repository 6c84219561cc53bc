package query

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// Request is a list request as received from the client.
type Request struct {
	GlobalFilter string
	Filters      []ColumnFilter
	Sorting      []SortField
	Page         Page
}

// ParseRequest reads globalFilter, filters, sorting, start and size from q.
// filters and sorting are JSON arrays; anything else fails with ErrMalformed.
func ParseRequest(q url.Values) (Request, error) {
	req := Request{
		GlobalFilter: q.Get("globalFilter"),
		Page:         ParsePage(q.Get("start"), q.Get("size")),
	}
	if raw := q.Get("filters"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Filters); err != nil {
			return Request{}, fmt.Errorf("%w: filters: %v", ErrMalformed, err)
		}
	}
	if raw := q.Get("sorting"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Sorting); err != nil {
			return Request{}, fmt.Errorf("%w: sorting: %v", ErrMalformed, err)
		}
	}
	return req, nil
}

// Plan is a translated list request ready to be appended to a SELECT.
type Plan struct {
	Where   string // "" or "WHERE ..."
	OrderBy string // always "ORDER BY ..."
	Args    []any
	Limit   int
	Offset  int
}

// Plan combines the global filter, the column filters and the sort
// directives of req into SQL fragments. The global filter is an OR-group over
// the searchable fields; column filters are ANDed with it. Filters that
// translate to nothing are skipped; unknown field names are an error.
func (s *Schema) Plan(req Request) (Plan, error) {
	var (
		args  Args
		conds []string
	)
	if req.GlobalFilter != "" && len(s.search) > 0 {
		p := args.Add("%" + escapeLike(req.GlobalFilter) + "%")
		parts := make([]string, len(s.search))
		for i, f := range s.search {
			parts[i] = f.Column + " ILIKE " + p
		}
		conds = append(conds, "("+strings.Join(parts, " OR ")+")")
	}
	for _, cf := range req.Filters {
		f, err := s.Lookup(cf.ID)
		if err != nil {
			return Plan{}, err
		}
		if sql, ok := Translate(f, cf.Type, cf.Value, &args); ok {
			conds = append(conds, sql)
		}
	}
	orders, err := s.Sort(req.Sorting)
	if err != nil {
		return Plan{}, err
	}

	plan := Plan{
		OrderBy: s.orderBy(orders),
		Args:    args.Values(),
		Limit:   req.Page.Limit(),
		Offset:  req.Page.Offset(),
	}
	if len(conds) > 0 {
		plan.Where = "WHERE " + strings.Join(conds, " AND ")
	}
	return plan, nil
}

// LimitOffset returns the LIMIT/OFFSET clause and the full argument list
// (the filter arguments followed by limit and offset).
func (p Plan) LimitOffset() (string, []any) {
	n := len(p.Args)
	args := make([]any, 0, n+2)
	args = append(args, p.Args...)
	args = append(args, p.Limit, p.Offset)
	return fmt.Sprintf("LIMIT $%d OFFSET $%d", n+1, n+2), args
}
