package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/genfam/genfam-core/internal/identity"
)

// updateProfileRequest is the body for PUT /perfil.
type updateProfileRequest struct {
	PriorDiagnosis string `json:"diagnostico_previo"`
	GeneticPanel   string `json:"painel_genetico"`
}

// handleUpdateProfile replaces the authenticated patient's clinical fields.
// Both fields are written as submitted; omitted fields clear the stored
// values.
//
// PUT /perfil
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if claims == nil {
		writeUnauthorized(w, "Token de acesso requerido")
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "Corpo da requisição inválido")
		return
	}

	err := s.patients.UpdateClinical(r.Context(), claims.Subject, req.PriorDiagnosis, req.GeneticPanel)
	if err != nil {
		if errors.Is(err, identity.ErrPatientNotFound) {
			s.logger.Warn("profile update for unknown patient", "patient_id", claims.Subject)
			writeInternalError(w)
			return
		}
		s.logger.Error("profile update failed", "error", err)
		writeInternalError(w)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Perfil atualizado com sucesso",
	})
}
