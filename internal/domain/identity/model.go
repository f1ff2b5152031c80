package identity

import (
	"github.com/google/uuid"
)

// User maps to the users table. Accounts are created by seeding only; the
// password column holds the raw credential and is never serialized.
type User struct {
	ID       uuid.UUID `db:"id" json:"id"`
	Username string    `db:"username" json:"username"`
	Password string    `db:"password" json:"-"`
	Name     string    `db:"name" json:"name"`
	Role     string    `db:"role" json:"role"`
}

// LoginInput is the POST /api/auth/login request body.
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
