package models

import "time"

type StaffRole string

const (
	RoleAdmin  StaffRole = "admin"
	RoleEditor StaffRole = "editor"
)

type StaffUser struct {
	ID           int       `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         StaffRole `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
