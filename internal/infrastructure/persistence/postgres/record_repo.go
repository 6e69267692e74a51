package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/rezhub/residency-progress-hub/internal/domain/curriculum"
	"github.com/rezhub/residency-progress-hub/internal/domain/record"
	"github.com/rezhub/residency-progress-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECORD REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// RecordRepository implements record.Repository for PostgreSQL. Each record
// variant has its own table; LoadSnapshot reads all four inside one
// repeatable-read transaction so counters and checks see a consistent view.
type RecordRepository struct {
	conn *Connection
}

// NewRecordRepository creates a new RecordRepository.
func NewRecordRepository(conn *Connection) *RecordRepository {
	return &RecordRepository{conn: conn}
}

// ─────────────────────────────────────────────────────────────────────────────
// Procedures
// ─────────────────────────────────────────────────────────────────────────────

const procedureColumns = `id, resident_id, specialization_id, module_id, year, approved,
	   sync_status, internship_id, code, name, location, role,
	   operator_count, assistant_count, completed, performed_at, created_at, updated_at`

// SaveProcedure inserts or updates a procedure record.
func (r *RecordRepository) SaveProcedure(ctx context.Context, p *record.Procedure) error {
	query := `
		INSERT INTO procedure_records (` + procedureColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		ON CONFLICT(id) DO UPDATE SET
			module_id = EXCLUDED.module_id,
			year = EXCLUDED.year,
			approved = EXCLUDED.approved,
			sync_status = EXCLUDED.sync_status,
			internship_id = EXCLUDED.internship_id,
			code = EXCLUDED.code,
			name = EXCLUDED.name,
			location = EXCLUDED.location,
			role = EXCLUDED.role,
			operator_count = EXCLUDED.operator_count,
			assistant_count = EXCLUDED.assistant_count,
			completed = EXCLUDED.completed,
			performed_at = EXCLUDED.performed_at,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.conn.Exec(ctx, query,
		p.ID,
		p.ResidentID,
		p.SpecializationID,
		nullIfEmpty(p.ModuleID),
		p.Year,
		p.Approved,
		string(p.SyncStatus),
		nullIfEmpty(p.InternshipID),
		p.Code,
		p.Name,
		p.Location,
		string(p.Role),
		p.OperatorCount,
		p.AssistantCount,
		p.Completed,
		nullIfZeroTime(p.Date),
		p.CreatedAt,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save procedure: %w", err)
	}
	return nil
}

// GetProcedure returns a procedure by ID.
func (r *RecordRepository) GetProcedure(ctx context.Context, id string) (*record.Procedure, error) {
	query := "SELECT " + procedureColumns + " FROM procedure_records WHERE id = $1"
	return scanProcedure(r.conn.QueryRow(ctx, query, id))
}

// ListProcedures returns procedures matching the filter.
func (r *RecordRepository) ListProcedures(ctx context.Context, f record.Filter) ([]*record.Procedure, error) {
	query, args := buildFilterQuery("procedure_records", procedureColumns, f)

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query procedures: %w", err)
	}
	defer rows.Close()

	var procedures []*record.Procedure
	for rows.Next() {
		p, err := scanProcedure(rows)
		if err != nil {
			return nil, err
		}
		procedures = append(procedures, p)
	}
	return procedures, rows.Err()
}

// ─────────────────────────────────────────────────────────────────────────────
// Medical Shifts
// ─────────────────────────────────────────────────────────────────────────────

const shiftColumns = `id, resident_id, specialization_id, module_id, year, approved,
	   sync_status, hours, minutes, location, shift_date, created_at, updated_at`

// SaveShift inserts or updates a medical shift record.
func (r *RecordRepository) SaveShift(ctx context.Context, s *record.MedicalShift) error {
	query := `
		INSERT INTO medical_shift_records (` + shiftColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT(id) DO UPDATE SET
			module_id = EXCLUDED.module_id,
			year = EXCLUDED.year,
			approved = EXCLUDED.approved,
			sync_status = EXCLUDED.sync_status,
			hours = EXCLUDED.hours,
			minutes = EXCLUDED.minutes,
			location = EXCLUDED.location,
			shift_date = EXCLUDED.shift_date,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.conn.Exec(ctx, query,
		s.ID,
		s.ResidentID,
		s.SpecializationID,
		nullIfEmpty(s.ModuleID),
		s.Year,
		s.Approved,
		string(s.SyncStatus),
		s.Hours,
		s.Minutes,
		s.Location,
		nullIfZeroTime(s.Date),
		s.CreatedAt,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save medical shift: %w", err)
	}
	return nil
}

// GetShift returns a shift by ID.
func (r *RecordRepository) GetShift(ctx context.Context, id string) (*record.MedicalShift, error) {
	query := "SELECT " + shiftColumns + " FROM medical_shift_records WHERE id = $1"
	return scanShift(r.conn.QueryRow(ctx, query, id))
}

// ListShifts returns shifts matching the filter.
func (r *RecordRepository) ListShifts(ctx context.Context, f record.Filter) ([]*record.MedicalShift, error) {
	query, args := buildFilterQuery("medical_shift_records", shiftColumns, f)

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query shifts: %w", err)
	}
	defer rows.Close()

	var shifts []*record.MedicalShift
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, s)
	}
	return shifts, rows.Err()
}

// ─────────────────────────────────────────────────────────────────────────────
// Internships
// ─────────────────────────────────────────────────────────────────────────────

const internshipColumns = `id, resident_id, specialization_id, module_id, year, approved,
	   sync_status, internship_template_id, institution_name, department_name,
	   start_date, end_date, completed, created_at, updated_at`

// SaveInternship inserts or updates an internship record.
func (r *RecordRepository) SaveInternship(ctx context.Context, i *record.Internship) error {
	query := `
		INSERT INTO internship_records (` + internshipColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT(id) DO UPDATE SET
			module_id = EXCLUDED.module_id,
			year = EXCLUDED.year,
			approved = EXCLUDED.approved,
			sync_status = EXCLUDED.sync_status,
			internship_template_id = EXCLUDED.internship_template_id,
			institution_name = EXCLUDED.institution_name,
			department_name = EXCLUDED.department_name,
			start_date = EXCLUDED.start_date,
			end_date = EXCLUDED.end_date,
			completed = EXCLUDED.completed,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.conn.Exec(ctx, query,
		i.ID,
		i.ResidentID,
		i.SpecializationID,
		nullIfEmpty(i.ModuleID),
		i.Year,
		i.Approved,
		string(i.SyncStatus),
		i.InternshipTemplateID,
		i.InstitutionName,
		i.DepartmentName,
		i.Range.Start,
		i.Range.End,
		i.Completed,
		i.CreatedAt,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save internship: %w", err)
	}
	return nil
}

// GetInternship returns an internship by ID.
func (r *RecordRepository) GetInternship(ctx context.Context, id string) (*record.Internship, error) {
	query := "SELECT " + internshipColumns + " FROM internship_records WHERE id = $1"
	return scanInternship(r.conn.QueryRow(ctx, query, id))
}

// ListInternships returns internships matching the filter.
func (r *RecordRepository) ListInternships(ctx context.Context, f record.Filter) ([]*record.Internship, error) {
	query, args := buildFilterQuery("internship_records", internshipColumns, f)

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query internships: %w", err)
	}
	defer rows.Close()

	var internships []*record.Internship
	for rows.Next() {
		i, err := scanInternship(rows)
		if err != nil {
			return nil, err
		}
		internships = append(internships, i)
	}
	return internships, rows.Err()
}

// ─────────────────────────────────────────────────────────────────────────────
// Courses
// ─────────────────────────────────────────────────────────────────────────────

const courseColumns = `id, resident_id, specialization_id, module_id, year, approved,
	   sync_status, course_template_id, name, completion_date, certificate_number,
	   created_at, updated_at`

// SaveCourse inserts or updates a course record.
func (r *RecordRepository) SaveCourse(ctx context.Context, c *record.Course) error {
	query := `
		INSERT INTO course_records (` + courseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT(id) DO UPDATE SET
			module_id = EXCLUDED.module_id,
			year = EXCLUDED.year,
			approved = EXCLUDED.approved,
			sync_status = EXCLUDED.sync_status,
			course_template_id = EXCLUDED.course_template_id,
			name = EXCLUDED.name,
			completion_date = EXCLUDED.completion_date,
			certificate_number = EXCLUDED.certificate_number,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.conn.Exec(ctx, query,
		c.ID,
		c.ResidentID,
		c.SpecializationID,
		nullIfEmpty(c.ModuleID),
		c.Year,
		c.Approved,
		string(c.SyncStatus),
		c.CourseTemplateID,
		c.Name,
		nullIfZeroTime(c.CompletionDate),
		c.CertificateNumber,
		c.CreatedAt,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save course: %w", err)
	}
	return nil
}

// GetCourse returns a course by ID.
func (r *RecordRepository) GetCourse(ctx context.Context, id string) (*record.Course, error) {
	query := "SELECT " + courseColumns + " FROM course_records WHERE id = $1"
	return scanCourse(r.conn.QueryRow(ctx, query, id))
}

// ListCourses returns courses matching the filter.
func (r *RecordRepository) ListCourses(ctx context.Context, f record.Filter) ([]*record.Course, error) {
	query, args := buildFilterQuery("course_records", courseColumns, f)

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	var courses []*record.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

// ─────────────────────────────────────────────────────────────────────────────
// Snapshots
// ─────────────────────────────────────────────────────────────────────────────

// LoadSnapshot returns all records of a specialization in one consistent read.
func (r *RecordRepository) LoadSnapshot(ctx context.Context, specializationID string) (*record.Snapshot, error) {
	snap := &record.Snapshot{}

	opts := TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}
	err := r.conn.WithTx(ctx, opts, func(tx pgx.Tx) error {
		var err error
		snap.Procedures, err = loadTxProcedures(ctx, tx, specializationID)
		if err != nil {
			return err
		}
		snap.Shifts, err = loadTxShifts(ctx, tx, specializationID)
		if err != nil {
			return err
		}
		snap.Internships, err = loadTxInternships(ctx, tx, specializationID)
		if err != nil {
			return err
		}
		snap.Courses, err = loadTxCourses(ctx, tx, specializationID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load record snapshot: %w", err)
	}
	return snap, nil
}

func loadTxProcedures(ctx context.Context, tx pgx.Tx, specializationID string) ([]*record.Procedure, error) {
	query := "SELECT " + procedureColumns + " FROM procedure_records WHERE specialization_id = $1"
	rows, err := tx.Query(ctx, query, specializationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var procedures []*record.Procedure
	for rows.Next() {
		p, err := scanProcedure(rows)
		if err != nil {
			return nil, err
		}
		procedures = append(procedures, p)
	}
	return procedures, rows.Err()
}

func loadTxShifts(ctx context.Context, tx pgx.Tx, specializationID string) ([]*record.MedicalShift, error) {
	query := "SELECT " + shiftColumns + " FROM medical_shift_records WHERE specialization_id = $1"
	rows, err := tx.Query(ctx, query, specializationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shifts []*record.MedicalShift
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, s)
	}
	return shifts, rows.Err()
}

func loadTxInternships(ctx context.Context, tx pgx.Tx, specializationID string) ([]*record.Internship, error) {
	query := "SELECT " + internshipColumns + " FROM internship_records WHERE specialization_id = $1"
	rows, err := tx.Query(ctx, query, specializationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var internships []*record.Internship
	for rows.Next() {
		i, err := scanInternship(rows)
		if err != nil {
			return nil, err
		}
		internships = append(internships, i)
	}
	return internships, rows.Err()
}

func loadTxCourses(ctx context.Context, tx pgx.Tx, specializationID string) ([]*record.Course, error) {
	query := "SELECT " + courseColumns + " FROM course_records WHERE specialization_id = $1"
	rows, err := tx.Query(ctx, query, specializationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []*record.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

// ─────────────────────────────────────────────────────────────────────────────
// Scan Helpers
// ─────────────────────────────────────────────────────────────────────────────

func scanProcedure(row pgx.Row) (*record.Procedure, error) {
	var p record.Procedure
	var moduleID, internshipID *string
	var role, syncStatus string
	var performedAt *time.Time

	err := row.Scan(
		&p.ID,
		&p.ResidentID,
		&p.SpecializationID,
		&moduleID,
		&p.Year,
		&p.Approved,
		&syncStatus,
		&internshipID,
		&p.Code,
		&p.Name,
		&p.Location,
		&role,
		&p.OperatorCount,
		&p.AssistantCount,
		&p.Completed,
		&performedAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if IsNoRows(err) {
		return nil, shared.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan procedure: %w", err)
	}

	p.SyncStatus = record.SyncStatus(syncStatus)
	p.Role = curriculum.ExecutionRole(role)
	if moduleID != nil {
		p.ModuleID = *moduleID
	}
	if internshipID != nil {
		p.InternshipID = *internshipID
	}
	if performedAt != nil {
		p.Date = *performedAt
	}
	return &p, nil
}

func scanShift(row pgx.Row) (*record.MedicalShift, error) {
	var s record.MedicalShift
	var moduleID *string
	var syncStatus string
	var shiftDate *time.Time

	err := row.Scan(
		&s.ID,
		&s.ResidentID,
		&s.SpecializationID,
		&moduleID,
		&s.Year,
		&s.Approved,
		&syncStatus,
		&s.Hours,
		&s.Minutes,
		&s.Location,
		&shiftDate,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if IsNoRows(err) {
		return nil, shared.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan shift: %w", err)
	}

	s.SyncStatus = record.SyncStatus(syncStatus)
	if moduleID != nil {
		s.ModuleID = *moduleID
	}
	if shiftDate != nil {
		s.Date = *shiftDate
	}
	return &s, nil
}

func scanInternship(row pgx.Row) (*record.Internship, error) {
	var i record.Internship
	var moduleID *string
	var syncStatus string

	err := row.Scan(
		&i.ID,
		&i.ResidentID,
		&i.SpecializationID,
		&moduleID,
		&i.Year,
		&i.Approved,
		&syncStatus,
		&i.InternshipTemplateID,
		&i.InstitutionName,
		&i.DepartmentName,
		&i.Range.Start,
		&i.Range.End,
		&i.Completed,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	if IsNoRows(err) {
		return nil, shared.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan internship: %w", err)
	}

	i.SyncStatus = record.SyncStatus(syncStatus)
	if moduleID != nil {
		i.ModuleID = *moduleID
	}
	return &i, nil
}

func scanCourse(row pgx.Row) (*record.Course, error) {
	var c record.Course
	var moduleID *string
	var syncStatus string
	var completionDate *time.Time

	err := row.Scan(
		&c.ID,
		&c.ResidentID,
		&c.SpecializationID,
		&moduleID,
		&c.Year,
		&c.Approved,
		&syncStatus,
		&c.CourseTemplateID,
		&c.Name,
		&completionDate,
		&c.CertificateNumber,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if IsNoRows(err) {
		return nil, shared.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan course: %w", err)
	}

	c.SyncStatus = record.SyncStatus(syncStatus)
	if moduleID != nil {
		c.ModuleID = *moduleID
	}
	if completionDate != nil {
		c.CompletionDate = *completionDate
	}
	return &c, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Filter Query Builder
// ─────────────────────────────────────────────────────────────────────────────

func buildFilterQuery(table, columns string, f record.Filter) (string, []interface{}) {
	conditions := []string{}
	args := []interface{}{}

	addCondition := func(clause string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(clause, len(args)))
	}

	if f.SpecializationID != "" {
		addCondition("specialization_id = $%d", f.SpecializationID)
	}
	if f.ModuleID != "" {
		addCondition("module_id = $%d", f.ModuleID)
	}
	if f.InternshipID != "" && table == "procedure_records" {
		addCondition("internship_id = $%d", f.InternshipID)
	}
	if f.Year != 0 {
		addCondition("year = $%d", f.Year)
	}
	if f.ApprovedOnly {
		conditions = append(conditions, "approved = TRUE")
	}

	query := "SELECT " + columns + " FROM " + table
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at ASC"

	return query, args
}

// nullIfZeroTime maps Go's zero time to SQL NULL for optional date columns.
func nullIfZeroTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
