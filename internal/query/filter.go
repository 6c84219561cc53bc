package query

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Operator names a column filter operation, as sent by the client.
type Operator string

const (
	OpEquals             Operator = "equals"
	OpNotEquals          Operator = "notEquals"
	OpBetween            Operator = "between"
	OpBetweenInclusive   Operator = "betweenInclusive"
	OpGreaterThan        Operator = "greaterThan"
	OpGreaterThanOrEqual Operator = "greaterThanOrEqual"
	OpLessThan           Operator = "lessThan"
	OpLessThanOrEqual    Operator = "lessThanOrEqual"
	OpContains           Operator = "contains"
	OpFuzzy              Operator = "fuzzy"
	OpStartsWith         Operator = "startsWith"
	OpEndsWith           Operator = "endsWith"
	OpEmpty              Operator = "empty"
	OpNotEmpty           Operator = "notEmpty"
)

// ColumnFilter is one client column filter: {"id": field, "value": v, "type": op}.
type ColumnFilter struct {
	ID    string   `json:"id"`
	Value any      `json:"value"`
	Type  Operator `json:"type"`
}

var comparisons = map[Operator]string{
	OpEquals:             "=",
	OpNotEquals:          "<>",
	OpGreaterThan:        ">",
	OpGreaterThanOrEqual: ">=",
	OpLessThan:           "<",
	OpLessThanOrEqual:    "<=",
}

// Translate renders the predicate for one filter on field, binding any
// values into args. It reports false when the filter contributes nothing:
// an unknown operator, or a value that is missing or invalid for the field's
// kind. Nothing is bound in that case.
func Translate(field Field, op Operator, value any, args *Args) (string, bool) {
	switch field.Kind {
	case KindNumber:
		return compare(field.Column, op, value, "float8", parseNumber, args)
	case KindTime:
		return compare(field.Column, op, value, "timestamptz", parseTime, args)
	case KindText:
		return matchText(field.Column, op, value, args)
	case KindBool:
		return matchBool(field.Column, op, value, args)
	}
	return "", false
}

func compare(col string, op Operator, value any, cast string, parse func(any) (any, bool), args *Args) (string, bool) {
	if op == OpBetween || op == OpBetweenInclusive {
		bounds, ok := value.([]any)
		if !ok || len(bounds) < 2 {
			return "", false
		}
		lo, okLo := parse(bounds[0])
		hi, okHi := parse(bounds[1])
		if !okLo || !okHi {
			return "", false
		}
		return fmt.Sprintf("%s BETWEEN %s::%s AND %s::%s", col, args.Add(lo), cast, args.Add(hi), cast), true
	}
	sqlOp, known := comparisons[op]
	if !known {
		return "", false
	}
	v, ok := parse(value)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%s %s %s::%s", col, sqlOp, args.Add(v), cast), true
}

func matchText(col string, op Operator, value any, args *Args) (string, bool) {
	switch op {
	case OpEmpty:
		return col + " IS NULL", true
	case OpNotEmpty:
		return col + " IS NOT NULL", true
	}
	s, ok := value.(string)
	if !ok || s == "" {
		return "", false
	}
	switch op {
	case OpContains, OpFuzzy:
		return col + " ILIKE " + args.Add("%"+escapeLike(s)+"%"), true
	case OpStartsWith:
		return col + " ILIKE " + args.Add(escapeLike(s)+"%"), true
	case OpEndsWith:
		return col + " ILIKE " + args.Add("%"+escapeLike(s)), true
	case OpEquals:
		return fmt.Sprintf("lower(%s) = lower(%s)", col, args.Add(s)), true
	case OpNotEquals:
		return fmt.Sprintf("lower(%s) <> lower(%s)", col, args.Add(s)), true
	}
	return "", false
}

func matchBool(col string, op Operator, value any, args *Args) (string, bool) {
	switch op {
	case OpEmpty:
		return col + " IS NULL", true
	case OpNotEmpty:
		return col + " IS NOT NULL", true
	case OpEquals, OpNotEquals:
		b, ok := parseBool(value)
		if !ok {
			return "", false
		}
		return fmt.Sprintf("%s %s %s", col, comparisons[op], args.Add(b)), true
	}
	return "", false
}

// parseNumber accepts JSON numbers and numeric strings.
func parseNumber(v any) (any, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case json.Number:
		n, err := x.Float64()
		if err != nil {
			return nil, false
		}
		f = n
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return nil, false
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, false
		}
		f = n
	default:
		return nil, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, false
	}
	return f, true
}

var timeLayouts = []string{time.RFC3339Nano, time.RFC3339, time.DateOnly}

func parseTime(v any) (any, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, true
	case string:
		s := strings.TrimSpace(x)
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
	}
	return nil, false
}

func parseBool(v any) (bool, bool) {
	switch x := v.(type) {
	case bool:
		return x, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(x))
		return b, err == nil
	}
	return false, false
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
