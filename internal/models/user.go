package models

// User is an account that can sign in to the schedule editor.
// PasswordHash is never serialised.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	IsAdmin      bool   `json:"isAdmin"`
}
