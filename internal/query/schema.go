// Package query translates client-supplied filter, sort and pagination
// descriptors into parameterised PostgreSQL fragments.
//
// Every entity declares the fields a client may refer to in a Schema. Field
// names outside that set are rejected, so no client-provided string ever
// reaches the SQL text; only values travel, and only as bind arguments.
package query

import (
	"errors"
	"fmt"
)

// Kind is the value kind of a filterable field.
type Kind int

const (
	KindNumber Kind = iota
	KindText
	KindBool
	KindTime
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindBool:
		return "bool"
	case KindTime:
		return "time"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

var (
	// ErrUnknownField is returned when a filter or sort refers to a field
	// that is not part of the entity's schema.
	ErrUnknownField = errors.New("unknown field")
	// ErrMalformed is returned when a filters or sorting parameter is not
	// valid JSON of the expected shape.
	ErrMalformed = errors.New("malformed query parameter")
)

// Field describes one client-addressable field of an entity.
type Field struct {
	Name       string // client-facing id, e.g. "channelName"
	Column     string // SQL expression, e.g. "ch.name"
	Kind       Kind
	Searchable bool // included in the global filter OR-group
}

// Schema is the permitted field set of one entity.
type Schema struct {
	key    Field
	fields map[string]Field
	search []Field
}

// NewSchema builds a schema. The first field is the primary key and is used
// as the final sort tie-breaker.
func NewSchema(fields ...Field) *Schema {
	if len(fields) == 0 {
		panic("query: schema needs at least one field")
	}
	s := &Schema{key: fields[0], fields: make(map[string]Field, len(fields))}
	for _, f := range fields {
		if _, dup := s.fields[f.Name]; dup {
			panic("query: duplicate field " + f.Name)
		}
		s.fields[f.Name] = f
		if f.Searchable {
			if f.Kind != KindText {
				panic("query: searchable field " + f.Name + " must be text")
			}
			s.search = append(s.search, f)
		}
	}
	return s
}

// Lookup returns the field named name.
func (s *Schema) Lookup(name string) (Field, error) {
	f, ok := s.fields[name]
	if !ok {
		return Field{}, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return f, nil
}

// Key returns the primary key field.
func (s *Schema) Key() Field { return s.key }

// Searchable returns the global-filter fields in declaration order.
func (s *Schema) Searchable() []Field { return s.search }
