package query

import "strings"

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// SortField is one client sort directive: {"id": field, "desc": bool}.
type SortField struct {
	ID   string `json:"id"`
	Desc bool   `json:"desc"`
}

// Order is a translated sort directive.
type Order struct {
	Field     Field
	Direction Direction
}

// Sort translates client sort directives, preserving their order.
func (s *Schema) Sort(in []SortField) ([]Order, error) {
	orders := make([]Order, 0, len(in))
	for _, sf := range in {
		f, err := s.Lookup(sf.ID)
		if err != nil {
			return nil, err
		}
		dir := Asc
		if sf.Desc {
			dir = Desc
		}
		orders = append(orders, Order{Field: f, Direction: dir})
	}
	return orders, nil
}

// orderBy renders an ORDER BY clause. The primary key is appended ascending
// unless the caller already sorts by it, so equal rows page deterministically.
func (s *Schema) orderBy(orders []Order) string {
	terms := make([]string, 0, len(orders)+1)
	keyed := false
	for _, o := range orders {
		if o.Field.Name == s.key.Name {
			keyed = true
		}
		terms = append(terms, o.Field.Column+" "+strings.ToUpper(string(o.Direction)))
	}
	if !keyed {
		terms = append(terms, s.key.Column+" ASC")
	}
	return "ORDER BY " + strings.Join(terms, ", ")
}
