package specialization

import (
	"context"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// Implementations live in infrastructure/persistence. The repository returns
// the full aggregate (specialization with all modules) so validators always
// see a consistent view.
// ══════════════════════════════════════════════════════════════════════════════

// Repository provides access to specialization aggregates.
type Repository interface {
	// Create stores a newly provisioned specialization with its modules.
	Create(ctx context.Context, s *Specialization) error

	// GetByID returns the full aggregate.
	// Returns shared.ErrSpecializationNotFound when absent.
	GetByID(ctx context.Context, id string) (*Specialization, error)

	// GetByResident returns all specializations owned by a resident.
	GetByResident(ctx context.Context, residentID string) ([]*Specialization, error)

	// ListIDs returns the IDs of all stored specializations. Background jobs
	// iterate over IDs and load aggregates one at a time to bound memory.
	ListIDs(ctx context.Context) ([]string, error)

	// Update persists aggregate changes (active module, module statuses,
	// cached counters).
	Update(ctx context.Context, s *Specialization) error

	// UpdateModule persists a single module's state and counters.
	UpdateModule(ctx context.Context, m *Module) error

	// Delete removes a specialization and its modules. Used only by
	// enrollment compensation; approved records block deletion upstream.
	Delete(ctx context.Context, id string) error
}
