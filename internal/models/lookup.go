package models

// Lookup is a row of a read-only reference table (program types, categories).
type Lookup struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
