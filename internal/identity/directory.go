package identity

import (
	"context"
	"errors"
	"fmt"
)

// Directory looks up identities across both account kinds.
//
// Patients are probed before professionals. Registration enforces that
// an email exists in at most one table, so the order only matters as a
// tie-break for data created outside the application; login documents
// patients-first and this is where that ordering lives.
type Directory struct {
	patients      *SQLitePatientRepository
	professionals *SQLiteProfessionalRepository
}

// NewDirectory creates a Directory over the two repositories.
func NewDirectory(patients *SQLitePatientRepository, professionals *SQLiteProfessionalRepository) *Directory {
	return &Directory{
		patients:      patients,
		professionals: professionals,
	}
}

// Lookup finds the identity holding an email address, probing patients
// first. Returns ErrNotFound when neither kind has the email.
func (d *Directory) Lookup(ctx context.Context, email string) (*Identity, error) {
	patient, err := d.patients.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return &Identity{Kind: KindPatient, Patient: patient}, nil
	case !errors.Is(err, ErrPatientNotFound):
		return nil, fmt.Errorf("looking up patient: %w", err)
	}

	professional, err := d.professionals.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return &Identity{Kind: KindProfessional, Professional: professional}, nil
	case !errors.Is(err, ErrProfessionalNotFound):
		return nil, fmt.Errorf("looking up professional: %w", err)
	}

	return nil, ErrNotFound
}

// Authenticate verifies an email/password pair against the stored hash.
//
// Absent accounts and wrong passwords both return ErrInvalidCredentials
// so callers cannot distinguish which factor failed. Empty passwords
// are rejected outright: roster-only members hold the hash of "" and
// must never authenticate.
func (d *Directory) Authenticate(ctx context.Context, email, password string) (*Identity, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	id, err := d.Lookup(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	var hash string
	switch id.Kind {
	case KindPatient:
		hash = id.Patient.PasswordHash
	case KindProfessional:
		hash = id.Professional.PasswordHash
	}

	if !VerifyPassword(password, hash) {
		return nil, ErrInvalidCredentials
	}

	return id, nil
}
