package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/genfam/genfam-core/internal/identity"
)

// registerPatientRequest is the body for POST /auth/paciente/cadastro.
type registerPatientRequest struct {
	Name      string `json:"nome"`
	Email     string `json:"email"`
	Password  string `json:"senha"`
	Sex       string `json:"sexo"`
	BirthDate string `json:"data_nascimento"`
}

// registerProfessionalRequest is the body for POST /auth/profissional/cadastro.
type registerProfessionalRequest struct {
	Name     string `json:"nome"`
	Email    string `json:"email"`
	Password string `json:"senha"`
}

// loginRequest is the body for POST /auth/login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"senha"`
}

// patientUser is the user payload returned after patient registration and
// login. Clinical and family fields serialise as explicit nulls when unset
// so the client can distinguish "no diagnosis" from a missing field.
type patientUser struct {
	ID             string  `json:"id"`
	Name           string  `json:"nome"`
	Email          string  `json:"email"`
	Sex            string  `json:"sexo"`
	BirthDate      string  `json:"data_nascimento"`
	Role           string  `json:"tipo"`
	PriorDiagnosis *string `json:"diagnostico_previo"`
	GeneticPanel   *string `json:"painel_genetico"`
	FamilyID       *string `json:"idFamilia"`
	FamilyName     *string `json:"nome_familia,omitempty"`
}

// professionalUser is the user payload for professional accounts.
type professionalUser struct {
	ID    string `json:"id"`
	Name  string `json:"nome"`
	Email string `json:"email"`
	Role  string `json:"tipo"`
}

// authResponse is the envelope for registration and login responses.
type authResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	User    any    `json:"user"`
}

const (
	msgWeakPassword   = "Senha deve conter pelo menos 8 caracteres, 1 letra maiúscula, 1 número e 1 símbolo (@$!%*?&)"
	msgInvalidEmail   = "Formato de email inválido"
	msgEmailIsPatient = "Email já cadastrado como paciente"
	msgEmailIsPro     = "Email já cadastrado como profissional"
)

// handleRegisterPatient creates a patient account and issues a session token.
//
// POST /auth/paciente/cadastro
func (s *Server) handleRegisterPatient(w http.ResponseWriter, r *http.Request) {
	var req registerPatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "Corpo da requisição inválido")
		return
	}

	if req.Name == "" || req.Email == "" || req.Password == "" || req.Sex == "" || req.BirthDate == "" {
		writeBadRequest(w, "Nome, email, senha, sexo e data de nascimento são obrigatórios")
		return
	}
	if !identity.IsValidEmail(req.Email) {
		writeBadRequest(w, msgInvalidEmail)
		return
	}
	if !identity.IsValidSex(req.Sex) {
		writeBadRequest(w, `Sexo deve ser "M" (masculino) ou "F" (feminino)`)
		return
	}
	if !identity.IsValidBirthDate(req.BirthDate) {
		writeBadRequest(w, "Data de nascimento inválida. Deve ser uma data válida e a pessoa deve ter entre 1 e 120 anos.")
		return
	}
	if !identity.IsStrongPassword(req.Password) {
		writeBadRequest(w, msgWeakPassword)
		return
	}

	// Check the patient table first so the error names the caller's own
	// account kind when both could match.
	existing, err := s.directory.Lookup(r.Context(), req.Email)
	if err != nil && !errors.Is(err, identity.ErrNotFound) {
		s.logger.Error("email lookup failed", "error", err)
		writeInternalError(w)
		return
	}
	if existing != nil {
		if existing.Kind == identity.KindPatient {
			writeBadRequest(w, msgEmailIsPatient)
		} else {
			writeBadRequest(w, msgEmailIsPro)
		}
		return
	}

	hash, err := identity.HashPassword(req.Password)
	if err != nil {
		s.logger.Error("password hashing failed", "error", err)
		writeInternalError(w)
		return
	}

	patient := &identity.Patient{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Sex:          req.Sex,
		BirthDate:    req.BirthDate,
	}
	if err := s.patients.Create(r.Context(), patient); err != nil {
		if errors.Is(err, identity.ErrEmailExists) {
			writeBadRequest(w, msgEmailIsPatient)
			return
		}
		s.logger.Error("patient creation failed", "error", err)
		writeInternalError(w)
		return
	}

	token, err := identity.SignToken(identity.PatientClaims(patient), s.secCfg.JWT.Secret)
	if err != nil {
		s.logger.Error("token signing failed", "error", err)
		writeInternalError(w)
		return
	}

	s.logger.Info("patient registered", "patient_id", patient.ID)
	writeJSON(w, http.StatusCreated, authResponse{
		Message: "Paciente cadastrado com sucesso",
		Token:   token,
		User:    patientUserFrom(patient),
	})
}

// handleRegisterProfessional creates a health professional account.
//
// POST /auth/profissional/cadastro
func (s *Server) handleRegisterProfessional(w http.ResponseWriter, r *http.Request) {
	var req registerProfessionalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "Corpo da requisição inválido")
		return
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeBadRequest(w, "Nome, email e senha são obrigatórios")
		return
	}
	if !identity.IsValidEmail(req.Email) {
		writeBadRequest(w, msgInvalidEmail)
		return
	}
	if !identity.IsStrongPassword(req.Password) {
		writeBadRequest(w, msgWeakPassword)
		return
	}

	// Professional registration reports its own account kind first.
	existing, err := s.directory.Lookup(r.Context(), req.Email)
	if err != nil && !errors.Is(err, identity.ErrNotFound) {
		s.logger.Error("email lookup failed", "error", err)
		writeInternalError(w)
		return
	}
	if existing != nil {
		if existing.Kind == identity.KindProfessional {
			writeBadRequest(w, msgEmailIsPro)
		} else {
			writeBadRequest(w, msgEmailIsPatient)
		}
		return
	}

	hash, err := identity.HashPassword(req.Password)
	if err != nil {
		s.logger.Error("password hashing failed", "error", err)
		writeInternalError(w)
		return
	}

	pro := &identity.Professional{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
	}
	if err := s.professionals.Create(r.Context(), pro); err != nil {
		if errors.Is(err, identity.ErrEmailExists) {
			writeBadRequest(w, msgEmailIsPro)
			return
		}
		s.logger.Error("professional creation failed", "error", err)
		writeInternalError(w)
		return
	}

	token, err := identity.SignToken(identity.ProfessionalClaims(pro), s.secCfg.JWT.Secret)
	if err != nil {
		s.logger.Error("token signing failed", "error", err)
		writeInternalError(w)
		return
	}

	s.logger.Info("professional registered", "professional_id", pro.ID)
	writeJSON(w, http.StatusCreated, authResponse{
		Message: "Profissional de saúde cadastrado com sucesso",
		Token:   token,
		User: professionalUser{
			ID:    pro.ID,
			Name:  pro.Name,
			Email: pro.Email,
			Role:  string(identity.RoleProfessional),
		},
	})
}

// handleLogin authenticates either account kind by email and password.
//
// POST /auth/login
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "Corpo da requisição inválido")
		return
	}

	if req.Email == "" || req.Password == "" {
		writeBadRequest(w, "Email e senha são obrigatórios")
		return
	}

	ident, err := s.directory.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			writeUnauthorized(w, "Credenciais inválidas")
			return
		}
		s.logger.Error("authentication failed", "error", err)
		writeInternalError(w)
		return
	}

	var claims identity.Claims
	var user any
	switch ident.Kind {
	case identity.KindPatient:
		claims = identity.PatientClaims(ident.Patient)
		user = patientUserFrom(ident.Patient)
	case identity.KindProfessional:
		claims = identity.ProfessionalClaims(ident.Professional)
		user = professionalUser{
			ID:    ident.Professional.ID,
			Name:  ident.Professional.Name,
			Email: ident.Professional.Email,
			Role:  string(identity.RoleProfessional),
		}
	}

	token, err := identity.SignToken(claims, s.secCfg.JWT.Secret)
	if err != nil {
		s.logger.Error("token signing failed", "error", err)
		writeInternalError(w)
		return
	}

	s.logger.Info("login succeeded", "subject", claims.Subject, "role", claims.Role)
	writeJSON(w, http.StatusOK, authResponse{
		Message: "Login realizado com sucesso",
		Token:   token,
		User:    user,
	})
}

// handleVerifyToken echoes the authenticated session claims.
//
// GET /auth/verificar
func (s *Server) handleVerifyToken(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if claims == nil {
		writeUnauthorized(w, "Token de acesso requerido")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"valid": true,
		"user":  claims,
	})
}

// patientUserFrom maps a stored patient to its response payload.
func patientUserFrom(p *identity.Patient) patientUser {
	return patientUser{
		ID:             p.ID,
		Name:           p.Name,
		Email:          p.Email,
		Sex:            p.Sex,
		BirthDate:      p.BirthDate,
		Role:           string(identity.RolePatient),
		PriorDiagnosis: nullable(p.PriorDiagnosis),
		GeneticPanel:   nullable(p.GeneticPanel),
		FamilyID:       nullable(p.FamilyID),
		FamilyName:     nullable(p.FamilyName),
	}
}

// nullable maps an empty string onto a JSON null.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
