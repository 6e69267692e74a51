package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/rezhub/residency-progress-hub/internal/domain/curriculum"
	"github.com/rezhub/residency-progress-hub/internal/domain/shared"
	"github.com/rezhub/residency-progress-hub/internal/domain/specialization"
)

// ══════════════════════════════════════════════════════════════════════════════
// SPECIALIZATION REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// SpecializationRepository implements specialization.Repository for PostgreSQL.
// The aggregate spans two tables; writes to both run inside one transaction.
type SpecializationRepository struct {
	conn *Connection
}

// NewSpecializationRepository creates a new SpecializationRepository.
func NewSpecializationRepository(conn *Connection) *SpecializationRepository {
	return &SpecializationRepository{conn: conn}
}

// ─────────────────────────────────────────────────────────────────────────────
// CRUD Operations
// ─────────────────────────────────────────────────────────────────────────────

// Create stores a newly provisioned specialization with its modules.
func (r *SpecializationRepository) Create(ctx context.Context, s *specialization.Specialization) error {
	return r.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
		query := `
			INSERT INTO specializations (
				id, resident_id, program_code, program_name, track, start_date,
				planned_end_date, duration_years, current_module_id, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`

		_, err := tx.Exec(ctx, query,
			s.ID,
			s.ResidentID,
			s.ProgramCode,
			s.ProgramName,
			string(s.Track),
			s.StartDate,
			s.PlannedEndDate,
			s.DurationYears,
			nullIfEmpty(s.CurrentModuleID),
			s.CreatedAt,
			s.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create specialization: %w", err)
		}

		for _, m := range s.Modules {
			if err := insertModule(ctx, tx, m); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetByID returns the full aggregate.
func (r *SpecializationRepository) GetByID(ctx context.Context, id string) (*specialization.Specialization, error) {
	query := `
		SELECT id, resident_id, program_code, program_name, track, start_date,
			   planned_end_date, duration_years, current_module_id, created_at, updated_at
		FROM specializations
		WHERE id = $1
	`

	s, err := r.scanSpecialization(r.conn.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}

	s.Modules, err = r.loadModules(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// GetByResident returns all specializations owned by a resident.
func (r *SpecializationRepository) GetByResident(ctx context.Context, residentID string) ([]*specialization.Specialization, error) {
	query := `
		SELECT id, resident_id, program_code, program_name, track, start_date,
			   planned_end_date, duration_years, current_module_id, created_at, updated_at
		FROM specializations
		WHERE resident_id = $1
		ORDER BY start_date ASC
	`

	rows, err := r.conn.Query(ctx, query, residentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query specializations: %w", err)
	}
	defer rows.Close()

	var specs []*specialization.Specialization
	for rows.Next() {
		s, err := r.scanSpecialization(rows)
		if err != nil {
			return nil, err
		}
		specs = append(specs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	for _, s := range specs {
		s.Modules, err = r.loadModules(ctx, s.ID)
		if err != nil {
			return nil, err
		}
	}
	return specs, nil
}

func (r *SpecializationRepository) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := r.conn.Query(ctx, `SELECT id FROM specializations ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query specialization ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan specialization id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return ids, nil
}

// Update persists aggregate changes: the root row plus every module row.
func (r *SpecializationRepository) Update(ctx context.Context, s *specialization.Specialization) error {
	return r.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
		query := `
			UPDATE specializations SET
				program_name = $1,
				planned_end_date = $2,
				duration_years = $3,
				current_module_id = $4,
				updated_at = $5
			WHERE id = $6
		`

		result, err := tx.Exec(ctx, query,
			s.ProgramName,
			s.PlannedEndDate,
			s.DurationYears,
			nullIfEmpty(s.CurrentModuleID),
			time.Now().UTC(),
			s.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update specialization: %w", err)
		}
		if result.RowsAffected() == 0 {
			return shared.ErrSpecializationNotFound
		}

		for _, m := range s.Modules {
			if err := updateModule(ctx, tx, m); err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateModule persists a single module's state and counters.
func (r *SpecializationRepository) UpdateModule(ctx context.Context, m *specialization.Module) error {
	return updateModule(ctx, r.conn, m)
}

// Delete removes a specialization; modules cascade.
func (r *SpecializationRepository) Delete(ctx context.Context, id string) error {
	result, err := r.conn.Exec(ctx, "DELETE FROM specializations WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete specialization: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrSpecializationNotFound
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Module Persistence
// ─────────────────────────────────────────────────────────────────────────────

func insertModule(ctx context.Context, q Querier, m *specialization.Module) error {
	query := `
		INSERT INTO specialization_modules (
			id, specialization_id, template_module_id, name, kind, status,
			start_date, end_date,
			completed_internships, total_internships,
			completed_courses, total_courses,
			completed_procedures_operator, required_procedures_operator,
			completed_procedures_assistant, required_procedures_assistant,
			completed_shift_hours, required_shift_hours, weekly_shift_hours,
			completed_self_education_days, required_self_education_days,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
				  $15, $16, $17, $18, $19, $20, $21, $22, $23)
	`

	_, err := q.Exec(ctx, query,
		m.ID,
		m.SpecializationID,
		m.TemplateModuleID,
		m.Name,
		string(m.Kind),
		string(m.Status),
		m.StartDate,
		m.EndDate,
		m.CompletedInternships,
		m.TotalInternships,
		m.CompletedCourses,
		m.TotalCourses,
		m.CompletedProceduresOperator,
		m.RequiredProceduresOperator,
		m.CompletedProceduresAssistant,
		m.RequiredProceduresAssistant,
		m.CompletedShiftHours,
		m.RequiredShiftHours,
		m.WeeklyShiftHours,
		m.CompletedSelfEducationDays,
		m.RequiredSelfEducationDays,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert module: %w", err)
	}
	return nil
}

func updateModule(ctx context.Context, q Querier, m *specialization.Module) error {
	query := `
		UPDATE specialization_modules SET
			status = $1,
			start_date = $2,
			end_date = $3,
			completed_internships = $4,
			completed_courses = $5,
			completed_procedures_operator = $6,
			completed_procedures_assistant = $7,
			completed_shift_hours = $8,
			completed_self_education_days = $9,
			updated_at = $10
		WHERE id = $11
	`

	result, err := q.Exec(ctx, query,
		string(m.Status),
		m.StartDate,
		m.EndDate,
		m.CompletedInternships,
		m.CompletedCourses,
		m.CompletedProceduresOperator,
		m.CompletedProceduresAssistant,
		m.CompletedShiftHours,
		m.CompletedSelfEducationDays,
		time.Now().UTC(),
		m.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update module: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrModuleNotFound
	}
	return nil
}

func (r *SpecializationRepository) loadModules(ctx context.Context, specializationID string) ([]*specialization.Module, error) {
	query := `
		SELECT id, specialization_id, template_module_id, name, kind, status,
			   start_date, end_date,
			   completed_internships, total_internships,
			   completed_courses, total_courses,
			   completed_procedures_operator, required_procedures_operator,
			   completed_procedures_assistant, required_procedures_assistant,
			   completed_shift_hours, required_shift_hours, weekly_shift_hours,
			   completed_self_education_days, required_self_education_days,
			   created_at, updated_at
		FROM specialization_modules
		WHERE specialization_id = $1
		ORDER BY start_date ASC
	`

	rows, err := r.conn.Query(ctx, query, specializationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query modules: %w", err)
	}
	defer rows.Close()

	var modules []*specialization.Module
	for rows.Next() {
		var m specialization.Module
		var kind, status string

		err := rows.Scan(
			&m.ID,
			&m.SpecializationID,
			&m.TemplateModuleID,
			&m.Name,
			&kind,
			&status,
			&m.StartDate,
			&m.EndDate,
			&m.CompletedInternships,
			&m.TotalInternships,
			&m.CompletedCourses,
			&m.TotalCourses,
			&m.CompletedProceduresOperator,
			&m.RequiredProceduresOperator,
			&m.CompletedProceduresAssistant,
			&m.RequiredProceduresAssistant,
			&m.CompletedShiftHours,
			&m.RequiredShiftHours,
			&m.WeeklyShiftHours,
			&m.CompletedSelfEducationDays,
			&m.RequiredSelfEducationDays,
			&m.CreatedAt,
			&m.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan module: %w", err)
		}

		m.Kind = curriculum.ModuleKind(kind)
		m.Status = specialization.ModuleStatus(status)
		modules = append(modules, &m)
	}

	return modules, rows.Err()
}

// ─────────────────────────────────────────────────────────────────────────────
// Scan Helpers
// ─────────────────────────────────────────────────────────────────────────────

func (r *SpecializationRepository) scanSpecialization(row pgx.Row) (*specialization.Specialization, error) {
	var s specialization.Specialization
	var track string
	var currentModuleID *string

	err := row.Scan(
		&s.ID,
		&s.ResidentID,
		&s.ProgramCode,
		&s.ProgramName,
		&track,
		&s.StartDate,
		&s.PlannedEndDate,
		&s.DurationYears,
		&currentModuleID,
		&s.CreatedAt,
		&s.UpdatedAt,
	)

	if IsNoRows(err) {
		return nil, shared.ErrSpecializationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan specialization: %w", err)
	}

	s.Track = curriculum.Track(track)
	if currentModuleID != nil {
		s.CurrentModuleID = *currentModuleID
	}
	return &s, nil
}

// nullIfEmpty maps an empty string to SQL NULL for nullable UUID columns.
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
