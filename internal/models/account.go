package models

import (
	"time"
)

// Account represents a learner or admin account.
type Account struct {
	ID        string    `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Name      string    `json:"name" db:"name"`
	Role      string    `json:"role" db:"role"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ValidRoles defines allowed account roles.
var ValidRoles = map[string]bool{
	"admin":   true,
	"learner": true,
}

// Account statuses.
const (
	AccountActive    = "active"
	AccountSuspended = "suspended"
)
