package query

import "strconv"

// Args collects bind arguments and hands out their positional placeholders.
type Args struct {
	values []any
}

// Add appends v and returns its placeholder ("$1", "$2", ...).
func (a *Args) Add(v any) string {
	a.values = append(a.values, v)
	return "$" + strconv.Itoa(len(a.values))
}

// Len returns the number of bound values.
func (a *Args) Len() int { return len(a.values) }

// Values returns the bound values in placeholder order.
func (a *Args) Values() []any { return a.values }
