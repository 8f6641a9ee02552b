package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter constructs the HTTP route tree with all middleware and endpoints.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware, outermost first
	r.Use(s.requestIDMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.Get("/health", s.handleHealth)

	// Public authentication endpoints
	r.Post("/auth/paciente/cadastro", s.handleRegisterPatient)
	r.Post("/auth/profissional/cadastro", s.handleRegisterProfessional)
	r.Post("/auth/login", s.handleLogin)

	// Endpoints requiring a valid session token
	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)

		r.Get("/auth/verificar", s.handleVerifyToken)
		r.Put("/perfil", s.handleUpdateProfile)
		r.Post("/familia", s.handleCreateFamily)
		r.Post("/familia/membros", s.handleAddMember)
		r.Get("/minha-familia", s.handleMyFamily)
		r.Delete("/familia/sair", s.handleLeaveFamily)
	})

	return r
}

// handleHealth reports service liveness.
//
// GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "genfam-core",
		"version": s.version,
	})
}
