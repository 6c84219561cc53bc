package query

import (
	"math"
	"strconv"
	"strings"
)

// DefaultPageSize is used when the client omits size or sends an unusable one.
const DefaultPageSize = 10

// Page is a zero-based page index and a page size.
type Page struct {
	Start int
	Size  int
}

// ParsePage parses the start and size query parameters. Absent, unparseable
// or negative values fall back to page 0 and DefaultPageSize.
func ParsePage(start, size string) Page {
	p := Page{Start: 0, Size: DefaultPageSize}
	if n, err := strconv.Atoi(strings.TrimSpace(start)); err == nil && n > 0 {
		p.Start = n
	}
	if n, err := strconv.Atoi(strings.TrimSpace(size)); err == nil && n > 0 {
		p.Size = n
	}
	return p
}

// Offset returns the number of rows to skip. A product that does not fit in
// an int saturates at math.MaxInt, which selects an empty page.
func (p Page) Offset() int {
	if p.Start <= 0 || p.Size <= 0 {
		return 0
	}
	if p.Start > math.MaxInt/p.Size {
		return math.MaxInt
	}
	return p.Start * p.Size
}

// Limit returns the number of rows to fetch.
func (p Page) Limit() int { return p.Size }

// Cap limits the page size to max. A max of 0 or less leaves it unbounded.
func (p Page) Cap(max int) Page {
	if max > 0 && p.Size > max {
		p.Size = max
	}
	return p
}
