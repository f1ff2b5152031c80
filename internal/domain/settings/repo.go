package settings

import "context"

// Repository persists the singleton hospital settings row.
type Repository interface {
	// Get returns the settings row, or nil when none has been saved yet.
	Get(ctx context.Context) (*HospitalSettings, error)
	// Upsert inserts the row on first save and updates it afterwards,
	// stamping updated_at. It returns the resulting row.
	Upsert(ctx context.Context, in *UpsertInput) (*HospitalSettings, error)
}
