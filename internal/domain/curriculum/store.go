package curriculum

import (
	"context"
)

// ══════════════════════════════════════════════════════════════════════════════
// TEMPLATE STORE INTERFACE
// The store is an external collaborator: the validation core performs
// single-shot synchronous fetches and defines no retry policy of its own.
// Retry/backoff and caching belong to the implementation in infrastructure.
// ══════════════════════════════════════════════════════════════════════════════

// TemplateStore provides read access to curriculum reference data.
type TemplateStore interface {
	// GetTemplate returns the full template for a (program, track) pair.
	// Returns shared.ErrTemplateNotFound when no template is published.
	GetTemplate(ctx context.Context, programCode string, track Track) (*Template, error)

	// GetModuleTemplate returns a single module definition.
	// Returns shared.ErrModuleTemplateNotFound when absent.
	GetModuleTemplate(ctx context.Context, programCode string, track Track, moduleID string) (*ModuleTemplate, error)

	// GetInternshipTemplate returns an internship definition by ID.
	GetInternshipTemplate(ctx context.Context, programCode string, track Track, internshipID string) (*InternshipTemplate, error)

	// GetCourseTemplate returns a course definition by ID.
	GetCourseTemplate(ctx context.Context, programCode string, track Track, courseID string) (*CourseTemplate, error)
}
