package settings

import (
	"time"

	"github.com/google/uuid"
)

// HospitalSettings is a singleton row holding the hospital's identity and the
// default tax rate applied to new invoices.
type HospitalSettings struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Address   *string   `db:"address" json:"address,omitempty"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	Email     *string   `db:"email" json:"email,omitempty"`
	LogoURL   *string   `db:"logo_url" json:"logoUrl,omitempty"`
	Currency  string    `db:"currency" json:"currency"`
	TaxRate   string    `db:"tax_rate" json:"taxRate"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// UpsertInput carries a partial settings update; nil fields keep their current
// value when a row already exists.
type UpsertInput struct {
	Name     *string `json:"name"`
	Address  *string `json:"address"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email"`
	LogoURL  *string `json:"logoUrl"`
	Currency *string `json:"currency"`
	TaxRate  *string `json:"taxRate"`
}
