package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// patientColumns is the select list shared by patient queries. The
// family name comes from a LEFT JOIN against families so unaffiliated
// patients still scan.
const patientColumns = `p.id, p.name, p.email, p.password_hash, p.sex, p.birth_date,
	p.prior_diagnosis, p.genetic_panel, p.family_id, f.name, p.created_at, p.updated_at`

const patientSelect = `SELECT ` + patientColumns + `
	FROM patients p LEFT JOIN families f ON p.family_id = f.id`

// SQLitePatientRepository persists patient accounts in SQLite.
type SQLitePatientRepository struct {
	db *sql.DB
}

// NewPatientRepository creates a new SQLite-backed patient repository.
func NewPatientRepository(db *sql.DB) *SQLitePatientRepository {
	return &SQLitePatientRepository{db: db}
}

// Create inserts a new patient account. The ID is generated if empty.
// New rows start with no diagnosis, no genetic panel, and no family.
func (r *SQLitePatientRepository) Create(ctx context.Context, p *Patient) error {
	if p.ID == "" {
		p.ID = NewPatientID()
	}

	now := time.Now().UTC().Format(time.RFC3339)
	p.CreatedAt, _ = time.Parse(time.RFC3339, now) //nolint:errcheck // format is controlled
	p.UpdatedAt = p.CreatedAt

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO patients (id, name, email, password_hash, sex, birth_date,
			prior_diagnosis, genetic_panel, family_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, NULL, NULL, ?, ?, ?)`,
		p.ID, p.Name, nullString(p.Email), p.PasswordHash,
		nullString(p.Sex), nullString(p.BirthDate),
		nullString(p.FamilyID), now, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailExists
		}
		return fmt.Errorf("creating patient: %w", err)
	}

	return nil
}

// GetByID retrieves a patient by their unique ID, including the family
// name when affiliated.
func (r *SQLitePatientRepository) GetByID(ctx context.Context, id string) (*Patient, error) {
	return r.getPatient(ctx, patientSelect+" WHERE p.id = ?", id)
}

// GetByEmail retrieves a patient by email, including the family name
// when affiliated.
func (r *SQLitePatientRepository) GetByEmail(ctx context.Context, email string) (*Patient, error) {
	return r.getPatient(ctx, patientSelect+" WHERE p.email = ?", email)
}

// UpdateClinical sets a patient's prior diagnosis and genetic panel.
// Empty strings clear the fields.
func (r *SQLitePatientRepository) UpdateClinical(ctx context.Context, id, diagnosis, panel string) error {
	now := time.Now().UTC().Format(time.RFC3339)

	result, err := r.db.ExecContext(ctx,
		`UPDATE patients SET prior_diagnosis = ?, genetic_panel = ?, updated_at = ? WHERE id = ?`,
		nullString(diagnosis), nullString(panel), now, id,
	)
	if err != nil {
		return fmt.Errorf("updating clinical fields: %w", err)
	}

	rows, _ := result.RowsAffected() //nolint:errcheck // always succeeds on SQLite
	if rows == 0 {
		return ErrPatientNotFound
	}
	return nil
}

// getPatient executes a query and scans a single patient result.
func (r *SQLitePatientRepository) getPatient(ctx context.Context, query string, args ...any) (*Patient, error) {
	row := r.db.QueryRowContext(ctx, query, args...)
	return scanPatient(row)
}

// scanner is an interface covering sql.Row and sql.Rows Scan methods.
type scanner interface {
	Scan(dest ...any) error
}

// scanPatient scans a patient from any scanner (Row or Rows).
func scanPatient(s scanner) (*Patient, error) {
	var p Patient
	var email, sex, birthDate, diagnosis, panel, familyID, familyName sql.NullString
	var createdAt, updatedAt string

	err := s.Scan(&p.ID, &p.Name, &email, &p.PasswordHash, &sex, &birthDate,
		&diagnosis, &panel, &familyID, &familyName, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPatientNotFound
		}
		return nil, fmt.Errorf("scanning patient: %w", err)
	}

	p.Email = email.String
	p.Sex = sex.String
	p.BirthDate = birthDate.String
	p.PriorDiagnosis = diagnosis.String
	p.GeneticPanel = panel.String
	p.FamilyID = familyID.String
	p.FamilyName = familyName.String

	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt) //nolint:errcheck // format is controlled
	p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt) //nolint:errcheck // format is controlled

	return &p, nil
}

// ID generation helpers.

const idSuffixLen = 8

// NewPatientID generates a new prefixed patient ID.
func NewPatientID() string {
	return "pac-" + uuid.NewString()[:idSuffixLen]
}

// nullString converts an empty string to a SQL NULL.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// isUniqueViolation checks if a SQLite error is a UNIQUE constraint violation.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "unique constraint")
}
