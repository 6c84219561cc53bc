package models

// Channel is a broadcast channel that programs air on.
type Channel struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"isActive"`
}
