package domain

import "time"

type User struct {
	ID           string
	Username     string
	PasswordHash string // argon2 encoded
	Staff        bool   // staff users may move money from any account
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
