package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/rezhub/residency-progress-hub/internal/domain/resident"
	"github.com/rezhub/residency-progress-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// RESIDENT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// ResidentRepository implements resident.Repository for PostgreSQL.
type ResidentRepository struct {
	conn *Connection
}

// NewResidentRepository creates a new ResidentRepository.
func NewResidentRepository(conn *Connection) *ResidentRepository {
	return &ResidentRepository{conn: conn}
}

// Create stores a new resident.
func (r *ResidentRepository) Create(ctx context.Context, res *resident.Resident) error {
	query := `
		INSERT INTO residents (id, email, password_hash, full_name, license_number, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.conn.Exec(ctx, query,
		res.ID,
		strings.ToLower(res.Email),
		res.PasswordHash,
		res.FullName,
		res.LicenseNumber,
		res.CreatedAt,
		res.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrResidentAlreadyExists
		}
		return fmt.Errorf("failed to create resident: %w", err)
	}
	return nil
}

// GetByID returns a resident by ID.
func (r *ResidentRepository) GetByID(ctx context.Context, id string) (*resident.Resident, error) {
	query := `
		SELECT id, email, password_hash, full_name, license_number, created_at, updated_at
		FROM residents
		WHERE id = $1
	`
	return r.scanResident(r.conn.QueryRow(ctx, query, id))
}

// GetByEmail returns a resident by email.
func (r *ResidentRepository) GetByEmail(ctx context.Context, email string) (*resident.Resident, error) {
	query := `
		SELECT id, email, password_hash, full_name, license_number, created_at, updated_at
		FROM residents
		WHERE email = $1
	`
	return r.scanResident(r.conn.QueryRow(ctx, query, strings.ToLower(email)))
}

// ExistsByEmail checks for an email collision without loading the row.
func (r *ResidentRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.conn.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM residents WHERE email = $1)",
		strings.ToLower(email),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check resident existence: %w", err)
	}
	return exists, nil
}

// Delete removes a resident. Specializations and records cascade.
func (r *ResidentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.conn.Exec(ctx, "DELETE FROM residents WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete resident: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrResidentNotFound
	}
	return nil
}

// Touch refreshes the updated_at column after a profile change.
func (r *ResidentRepository) Touch(ctx context.Context, id string) error {
	_, err := r.conn.Exec(ctx,
		"UPDATE residents SET updated_at = $1 WHERE id = $2",
		time.Now().UTC(), id,
	)
	return err
}

func (r *ResidentRepository) scanResident(row pgx.Row) (*resident.Resident, error) {
	var res resident.Resident

	err := row.Scan(
		&res.ID,
		&res.Email,
		&res.PasswordHash,
		&res.FullName,
		&res.LicenseNumber,
		&res.CreatedAt,
		&res.UpdatedAt,
	)
	if IsNoRows(err) {
		return nil, shared.ErrResidentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan resident: %w", err)
	}
	return &res, nil
}
