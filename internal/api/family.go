package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/genfam/genfam-core/internal/family"
	"github.com/genfam/genfam-core/internal/identity"
)

// createFamilyRequest is the body for POST /familia.
type createFamilyRequest struct {
	Name string `json:"nome_familia"`
}

// addMemberRequest is the body for POST /familia/membros. Email is
// optional; members without one are roster-only records.
type addMemberRequest struct {
	Name      string `json:"nome"`
	BirthDate string `json:"data_nascimento"`
	Sex       string `json:"sexo"`
	Email     string `json:"email"`
}

// familyPayload is the family object returned by POST /familia.
type familyPayload struct {
	ID        string `json:"id"`
	Name      string `json:"nome_familia"`
	CreatorID string `json:"criador_id"`
}

// rosterPayload is the family object returned by GET /minha-familia.
type rosterPayload struct {
	ID        string          `json:"id"`
	Name      string          `json:"nome_familia"`
	CreatorID string          `json:"criador_id"`
	Members   []family.Member `json:"membros"`
}

// handleCreateFamily creates a family with the caller as its first member.
//
// POST /familia
func (s *Server) handleCreateFamily(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if claims == nil {
		writeUnauthorized(w, "Token de acesso requerido")
		return
	}

	var req createFamilyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "Corpo da requisição inválido")
		return
	}
	if req.Name == "" {
		writeBadRequest(w, "Nome da família é obrigatório")
		return
	}

	fam, err := s.families.Create(r.Context(), req.Name, claims.Subject)
	if err != nil {
		switch {
		case errors.Is(err, family.ErrAlreadyAffiliated):
			writeBadRequest(w, "Você já pertence a uma família")
		case errors.Is(err, family.ErrNameExists):
			writeBadRequest(w, "Já existe uma família com este nome")
		default:
			s.logger.Error("family creation failed", "error", err)
			writeInternalError(w)
		}
		return
	}

	s.logger.Info("family created", "family_id", fam.ID, "creator_id", fam.CreatorID)
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Família criada com sucesso",
		"familia": familyPayload{
			ID:        fam.ID,
			Name:      fam.Name,
			CreatorID: fam.CreatorID,
		},
	})
}

// handleAddMember adds a member to the caller's family.
//
// POST /familia/membros
func (s *Server) handleAddMember(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if claims == nil {
		writeUnauthorized(w, "Token de acesso requerido")
		return
	}

	var req addMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "Corpo da requisição inválido")
		return
	}
	if req.Name == "" {
		writeBadRequest(w, "Nome é obrigatório")
		return
	}

	// Members added through the roster get the hash of an empty password
	// so the row can never authenticate.
	hash, err := identity.HashPassword("")
	if err != nil {
		s.logger.Error("credential hashing failed", "error", err)
		writeInternalError(w)
		return
	}

	member, err := s.families.AddMember(r.Context(), claims.Subject, family.NewMember{
		Name:      req.Name,
		BirthDate: req.BirthDate,
		Sex:       req.Sex,
		Email:     req.Email,
	}, hash)
	if err != nil {
		switch {
		case errors.Is(err, family.ErrNotAffiliated):
			writeBadRequest(w, "Você não pertence a nenhuma família")
		case errors.Is(err, family.ErrMemberElsewhere):
			writeBadRequest(w, "Este usuário já pertence a outra família")
		default:
			s.logger.Error("adding family member failed", "error", err)
			writeInternalError(w)
		}
		return
	}

	s.logger.Info("family member added", "member_id", member.ID, "caller_id", claims.Subject)
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Membro adicionado com sucesso",
		"membro":  member,
	})
}

// handleMyFamily returns the caller's family and its member roster, or a
// null family when the caller is unaffiliated.
//
// GET /minha-familia
func (s *Server) handleMyFamily(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if claims == nil {
		writeUnauthorized(w, "Token de acesso requerido")
		return
	}

	roster, err := s.families.Roster(r.Context(), claims.Subject)
	if err != nil {
		s.logger.Error("roster lookup failed", "error", err)
		writeInternalError(w)
		return
	}
	if roster == nil {
		writeJSON(w, http.StatusOK, map[string]any{"familia": nil})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"familia": rosterPayload{
			ID:        roster.Family.ID,
			Name:      roster.Family.Name,
			CreatorID: roster.Family.CreatorID,
			Members:   roster.Members,
		},
	})
}

// handleLeaveFamily detaches the caller from their family. Leaving is a
// no-op for unaffiliated callers; the family record itself is never
// removed, even when its last member leaves.
//
// DELETE /familia/sair
func (s *Server) handleLeaveFamily(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if claims == nil {
		writeUnauthorized(w, "Token de acesso requerido")
		return
	}

	if err := s.families.Leave(r.Context(), claims.Subject); err != nil {
		s.logger.Error("leaving family failed", "error", err)
		writeInternalError(w)
		return
	}

	s.logger.Info("patient left family", "patient_id", claims.Subject)
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Você saiu da família com sucesso",
	})
}
