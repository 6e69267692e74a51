// Package resident contains the resident account entity. Authentication
// flows live outside this core; the entity exists so enrollment can
// provision an account and record ownership can be enforced.
package resident

import (
	"context"
	"strings"
	"time"

	"github.com/rezhub/residency-progress-hub/internal/domain/shared"
)

// Resident is a physician enrolled in one or more specializations.
type Resident struct {
	// ID - resident identifier (UUID).
	ID string

	// Email - login email, unique.
	Email string

	// PasswordHash - bcrypt hash set during enrollment.
	PasswordHash string

	// FullName - display name.
	FullName string

	// LicenseNumber - physician license (PWZ) number.
	LicenseNumber string

	// CreatedAt / UpdatedAt - entity timestamps.
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks structural invariants.
func (r *Resident) Validate() error {
	if r.ID == "" {
		return shared.NewDomainError("resident", "Validate", shared.ErrInvalidID, "missing identifier")
	}
	if !strings.Contains(r.Email, "@") {
		return shared.NewDomainError("resident", "Validate", shared.ErrInvalidInput, "invalid email")
	}
	if r.PasswordHash == "" {
		return shared.NewDomainError("resident", "Validate", shared.ErrEmptyValue, "password hash is required")
	}
	return nil
}

// Repository provides access to resident accounts.
type Repository interface {
	// Create stores a new resident.
	// Returns shared.ErrResidentAlreadyExists on email collision.
	Create(ctx context.Context, r *Resident) error

	// GetByID returns a resident by ID.
	// Returns shared.ErrResidentNotFound when absent.
	GetByID(ctx context.Context, id string) (*Resident, error)

	// GetByEmail returns a resident by email.
	GetByEmail(ctx context.Context, email string) (*Resident, error)

	// ExistsByEmail checks for an email collision without loading the row.
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Delete removes a resident. Used only by enrollment compensation.
	Delete(ctx context.Context, id string) error
}
