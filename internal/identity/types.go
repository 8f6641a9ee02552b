package identity

import (
	"errors"
	"time"
)

// Role represents an account role carried in session token claims.
type Role string

const (
	// RolePatient is an individual account; may hold clinical metadata
	// and family membership.
	RolePatient Role = "paciente"

	// RoleProfessional is a health-professional account; identity
	// fields only.
	RoleProfessional Role = "profissional"
)

// Patient represents an individual account.
//
// Email, Sex and BirthDate are optional: family members can be added to
// a roster without credentials (a deceased relative, for example). Such
// records hold the hash of an empty password and can never log in.
// FamilyName is populated from a join when the patient is affiliated;
// it is not a column on the patients table.
type Patient struct {
	ID             string    `json:"id"`
	Name           string    `json:"nome"`
	Email          string    `json:"email,omitempty"`
	PasswordHash   string    `json:"-"` // never serialised
	Sex            string    `json:"sexo,omitempty"`
	BirthDate      string    `json:"data_nascimento,omitempty"`
	PriorDiagnosis string    `json:"diagnostico_previo,omitempty"`
	GeneticPanel   string    `json:"painel_genetico,omitempty"`
	FamilyID       string    `json:"idFamilia,omitempty"`
	FamilyName     string    `json:"nome_familia,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Professional represents a health-professional account.
type Professional struct {
	ID           string    `json:"id"`
	Name         string    `json:"nome"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never serialised
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Kind tags which account table an Identity came from.
type Kind string

const (
	KindPatient      Kind = "patient"
	KindProfessional Kind = "professional"
)

// Identity is a tagged union over the two account kinds. Exactly one of
// Patient or Professional is non-nil, matching Kind.
type Identity struct {
	Kind         Kind
	Patient      *Patient
	Professional *Professional
}

// Sentinel errors for identity operations.
var (
	ErrNotFound             = errors.New("identity not found")
	ErrPatientNotFound      = errors.New("patient not found")
	ErrProfessionalNotFound = errors.New("professional not found")
	ErrEmailExists          = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrTokenInvalid         = errors.New("invalid token")
)
