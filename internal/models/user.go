package models

// User is a registered account. Email is unique across the users table.
type User struct {
	ID           int    `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	FavoriteBook string `json:"favorite_book"`
	PasswordHash string `json:"-"` // don’t expose hash
}
