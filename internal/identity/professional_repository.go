package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SQLiteProfessionalRepository persists professional accounts in SQLite.
type SQLiteProfessionalRepository struct {
	db *sql.DB
}

// NewProfessionalRepository creates a new SQLite-backed professional repository.
func NewProfessionalRepository(db *sql.DB) *SQLiteProfessionalRepository {
	return &SQLiteProfessionalRepository{db: db}
}

// Create inserts a new professional account. The ID is generated if empty.
func (r *SQLiteProfessionalRepository) Create(ctx context.Context, p *Professional) error {
	if p.ID == "" {
		p.ID = "pro-" + uuid.NewString()[:idSuffixLen]
	}

	now := time.Now().UTC().Format(time.RFC3339)
	p.CreatedAt, _ = time.Parse(time.RFC3339, now) //nolint:errcheck // format is controlled
	p.UpdatedAt = p.CreatedAt

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO professionals (id, name, email, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Email, p.PasswordHash, now, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailExists
		}
		return fmt.Errorf("creating professional: %w", err)
	}

	return nil
}

// GetByEmail retrieves a professional by email.
func (r *SQLiteProfessionalRepository) GetByEmail(ctx context.Context, email string) (*Professional, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, name, email, password_hash, created_at, updated_at FROM professionals WHERE email = ?",
		email,
	)

	var p Professional
	var createdAt, updatedAt string
	err := row.Scan(&p.ID, &p.Name, &p.Email, &p.PasswordHash, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfessionalNotFound
		}
		return nil, fmt.Errorf("scanning professional: %w", err)
	}

	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt) //nolint:errcheck // format is controlled
	p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt) //nolint:errcheck // format is controlled

	return &p, nil
}
