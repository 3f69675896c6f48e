package models

// User is a registered account. Records are immutable once created.
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Mobile       string `json:"mobile"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // Never returned in JSON
}
