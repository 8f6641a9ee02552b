package family

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/genfam/genfam-core/internal/identity"
)

// SQLiteRepository implements family persistence over SQLite.
//
// Create and AddMember are the only multi-statement writes in the
// system; both run inside a transaction with rollback on every failure
// path.
type SQLiteRepository struct {
	db *sql.DB
}

// NewRepository creates a new SQLite-backed family repository.
func NewRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Create creates a family and affiliates its creator in one transaction.
//
// Returns ErrAlreadyAffiliated when the creator already belongs to a
// family, and ErrNameExists when the family name is taken. If the
// creator's membership update fails, the family insert is rolled back so
// no orphan family row remains.
func (r *SQLiteRepository) Create(ctx context.Context, name, creatorID string) (*Family, error) {
	current, err := r.familyOf(ctx, r.db, creatorID)
	if err != nil {
		return nil, err
	}
	if current != "" {
		return nil, ErrAlreadyAffiliated
	}

	f := &Family{
		ID:        "fam-" + uuid.NewString()[:8],
		Name:      name,
		CreatorID: creatorID,
	}
	now := time.Now().UTC().Format(time.RFC3339)
	f.CreatedAt, _ = time.Parse(time.RFC3339, now) //nolint:errcheck // format is controlled

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO families (id, name, creator_id, created_at) VALUES (?, ?, ?, ?)",
		f.ID, f.Name, f.CreatorID, now,
	); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrNameExists
		}
		return nil, fmt.Errorf("creating family: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE patients SET family_id = ?, updated_at = ? WHERE id = ?",
		f.ID, now, creatorID,
	); err != nil {
		return nil, fmt.Errorf("affiliating creator: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing family creation: %w", err)
	}

	return f, nil
}

// AddMember attaches a member to the caller's family in one transaction.
//
// When the email matches an existing patient, that patient is moved into
// the family — idempotent if already a member, ErrMemberElsewhere if
// they belong to a different family. Otherwise a new patient row is
// inserted pre-affiliated, carrying credentialHash (the hash of an
// empty password for roster-only entries, so the record can never log
// in).
//
// Returns ErrNotAffiliated when the caller has no family.
func (r *SQLiteRepository) AddMember(ctx context.Context, callerID string, nm NewMember, credentialHash string) (*Member, error) {
	familyID, err := r.familyOf(ctx, r.db, callerID)
	if err != nil {
		return nil, err
	}
	if familyID == "" {
		return nil, ErrNotAffiliated
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	now := time.Now().UTC().Format(time.RFC3339)
	member := &Member{
		Name:      nm.Name,
		BirthDate: nm.BirthDate,
		Sex:       nm.Sex,
		Email:     nm.Email,
	}

	var existingID string
	if nm.Email != "" {
		var memberFamily sql.NullString
		err := tx.QueryRowContext(ctx,
			"SELECT id, family_id FROM patients WHERE email = ?", nm.Email,
		).Scan(&existingID, &memberFamily)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			existingID = ""
		case err != nil:
			return nil, fmt.Errorf("looking up member by email: %w", err)
		case memberFamily.Valid && memberFamily.String != familyID:
			return nil, ErrMemberElsewhere
		}
	}

	if existingID != "" {
		// Existing patient: move into the family (no-op if already in it)
		if _, err := tx.ExecContext(ctx,
			"UPDATE patients SET family_id = ?, updated_at = ? WHERE id = ?",
			familyID, now, existingID,
		); err != nil {
			return nil, fmt.Errorf("affiliating member: %w", err)
		}
		member.ID = existingID
	} else {
		member.ID = identity.NewPatientID()
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO patients (id, name, email, password_hash, sex, birth_date,
				prior_diagnosis, genetic_panel, family_id, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, NULL, NULL, ?, ?, ?)`,
			member.ID, nm.Name, nullString(nm.Email), credentialHash,
			nullString(nm.Sex), nullString(nm.BirthDate), familyID, now, now,
		); err != nil {
			return nil, fmt.Errorf("creating member: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing member addition: %w", err)
	}

	return member, nil
}

// Roster resolves the caller's family and returns it with every member.
// An unaffiliated caller yields (nil, nil): a valid empty state, not an
// error.
func (r *SQLiteRepository) Roster(ctx context.Context, patientID string) (*Roster, error) {
	var familyID, familyName, creatorID sql.NullString
	var createdAt sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT p.family_id, f.name, f.creator_id, f.created_at
		 FROM patients p LEFT JOIN families f ON p.family_id = f.id
		 WHERE p.id = ?`,
		patientID,
	).Scan(&familyID, &familyName, &creatorID, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, identity.ErrPatientNotFound
		}
		return nil, fmt.Errorf("resolving family: %w", err)
	}

	if !familyID.Valid {
		return nil, nil
	}

	roster := &Roster{
		Family: Family{
			ID:        familyID.String,
			Name:      familyName.String,
			CreatorID: creatorID.String,
		},
	}
	roster.Family.CreatedAt, _ = time.Parse(time.RFC3339, createdAt.String) //nolint:errcheck // format is controlled

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, birth_date, sex, email, prior_diagnosis, genetic_panel
		 FROM patients WHERE family_id = ? ORDER BY created_at ASC`,
		familyID.String,
	)
	if err != nil {
		return nil, fmt.Errorf("listing members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m Member
		var birthDate, sex, email, diagnosis, panel sql.NullString
		if err := rows.Scan(&m.ID, &m.Name, &birthDate, &sex, &email, &diagnosis, &panel); err != nil {
			return nil, fmt.Errorf("scanning member: %w", err)
		}
		m.BirthDate = birthDate.String
		m.Sex = sex.String
		m.Email = email.String
		m.PriorDiagnosis = diagnosis.String
		m.GeneticPanel = panel.String
		roster.Members = append(roster.Members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating members: %w", err)
	}

	return roster, nil
}

// Leave unconditionally removes the caller from their family. It is a
// no-op when already unaffiliated, and never deletes the family row even
// if it becomes memberless.
func (r *SQLiteRepository) Leave(ctx context.Context, patientID string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := r.db.ExecContext(ctx,
		"UPDATE patients SET family_id = NULL, updated_at = ? WHERE id = ?",
		now, patientID,
	); err != nil {
		return fmt.Errorf("leaving family: %w", err)
	}
	return nil
}

// querier covers both *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// familyOf returns a patient's family id, or "" when unaffiliated.
func (r *SQLiteRepository) familyOf(ctx context.Context, q querier, patientID string) (string, error) {
	var familyID sql.NullString
	err := q.QueryRowContext(ctx,
		"SELECT family_id FROM patients WHERE id = ?", patientID,
	).Scan(&familyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", identity.ErrPatientNotFound
		}
		return "", fmt.Errorf("resolving affiliation: %w", err)
	}
	return familyID.String, nil
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
