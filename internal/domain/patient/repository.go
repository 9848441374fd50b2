package patient

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	// Create persists a new patient.
	Create(ctx context.Context, p *Patient) error

	// GetByID retrieves a patient by primary key. Returns ErrPatientNotFound if not found.
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)

	// Update persists changes to an already-loaded patient record.
	Update(ctx context.Context, p *Patient) error

	// SoftDelete marks the patient as deleted; the row is retained.
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// List returns a paginated, filtered list of patients.
	List(ctx context.Context, q *ListPatientsQuery) (*PagedPatients, error)

	// All returns every live patient ordered by creation time, newest first.
	// Used by the exporters and the report builder.
	All(ctx context.Context) ([]*Patient, error)

	// ExistsByName checks the (name, birth date) duplicate rule without
	// fetching the full record. excludeID skips the record being updated.
	ExistsByName(ctx context.Context, first, middle, last string, birthDate time.Time, excludeID *uuid.UUID) (bool, error)
}
