package patient

import (
	"time"

	"github.com/google/uuid"
)

// Patient maps to the patients table.
type Patient struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Email       *string   `db:"email" json:"email,omitempty"`
	Phone       *string   `db:"phone" json:"phone,omitempty"`
	Address     *string   `db:"address" json:"address,omitempty"`
	DateOfBirth *string   `db:"date_of_birth" json:"dateOfBirth,omitempty"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// UpdateInput carries a partial update; nil fields are left unchanged.
type UpdateInput struct {
	Name        *string `json:"name"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	DateOfBirth *string `json:"dateOfBirth"`
	Status      *string `json:"status"`
}
