package family

import (
	"errors"
	"time"
)

// Family is a named group of patients sharing genetic/health history.
type Family struct {
	ID        string    `json:"id"`
	Name      string    `json:"nome_familia"`
	CreatorID string    `json:"criador_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Member is a roster projection of a patient row: identity and clinical
// metadata only, never credential material.
type Member struct {
	ID             string `json:"id"`
	Name           string `json:"nome"`
	BirthDate      string `json:"data_nascimento,omitempty"`
	Sex            string `json:"sexo,omitempty"`
	Email          string `json:"email,omitempty"`
	PriorDiagnosis string `json:"diagnostico_previo,omitempty"`
	GeneticPanel   string `json:"painel_genetico,omitempty"`
}

// Roster is a family together with its full member list.
type Roster struct {
	Family  Family   `json:"familia"`
	Members []Member `json:"membros"`
}

// NewMember holds the input for adding a member to a family.
// Email is optional: without one the record is roster-only (a deceased
// relative, for example) and can never log in.
type NewMember struct {
	Name      string
	BirthDate string
	Sex       string
	Email     string
}

// Sentinel errors for family operations.
var (
	ErrAlreadyAffiliated = errors.New("patient already belongs to a family")
	ErrNotAffiliated     = errors.New("patient does not belong to a family")
	ErrMemberElsewhere   = errors.New("member belongs to another family")
	ErrNameExists        = errors.New("family name already exists")
)
