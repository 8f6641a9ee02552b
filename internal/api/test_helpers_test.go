package api

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/genfam/genfam-core/internal/family"
	"github.com/genfam/genfam-core/internal/identity"
	"github.com/genfam/genfam-core/internal/infrastructure/config"
	"github.com/genfam/genfam-core/internal/infrastructure/logging"
)

const testSecret = "test-secret-0123456789abcdef-0123456789abcdef"

// testServer creates an API server over a temporary SQLite database with
// the full schema applied. The returned handler is the complete route
// tree including middleware.
func testServer(t *testing.T) (http.Handler, *sql.DB) {
	t.Helper()

	f, err := os.CreateTemp("", "api-test-*.db")
	if err != nil {
		t.Fatalf("creating temp db: %v", err)
	}
	dbPath := f.Name()
	f.Close()
	t.Cleanup(func() { os.Remove(dbPath) })

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON")
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	schemaSQL := `
		CREATE TABLE patients (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT,
			password_hash TEXT NOT NULL,
			sex TEXT,
			birth_date TEXT,
			prior_diagnosis TEXT,
			genetic_panel TEXT,
			family_id TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			FOREIGN KEY (family_id) REFERENCES families(id) ON DELETE SET NULL
		) STRICT;

		CREATE UNIQUE INDEX idx_patients_email ON patients(email);
		CREATE INDEX idx_patients_family ON patients(family_id);

		CREATE TABLE professionals (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		) STRICT;

		CREATE UNIQUE INDEX idx_professionals_email ON professionals(email);

		CREATE TABLE families (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			creator_id TEXT NOT NULL,
			created_at TEXT NOT NULL,
			FOREIGN KEY (creator_id) REFERENCES patients(id)
		) STRICT;

		CREATE UNIQUE INDEX idx_families_name ON families(name);
	`
	if _, err := db.Exec(schemaSQL); err != nil {
		t.Fatalf("applying schema: %v", err)
	}

	patients := identity.NewPatientRepository(db)
	professionals := identity.NewProfessionalRepository(db)

	srv, err := New(Deps{
		Config: config.APIConfig{Host: "127.0.0.1", Port: 8080},
		Security: config.SecurityConfig{
			JWT: config.JWTConfig{Secret: testSecret},
		},
		Logger:        logging.New(config.LoggingConfig{Level: "error"}, "test"),
		Patients:      patients,
		Professionals: professionals,
		Directory:     identity.NewDirectory(patients, professionals),
		Families:      family.NewRepository(db),
		Version:       "test",
	})
	if err != nil {
		t.Fatalf("creating server: %v", err)
	}

	return srv.buildRouter(), db
}

// doJSON performs a request with a JSON body against the handler. An
// empty token leaves the Authorization header unset.
func doJSON(t *testing.T, h http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// decodeBody unmarshals a response body into a generic map.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
	return out
}

// registerPatient registers a patient through the API and returns the
// issued token.
func registerPatient(t *testing.T, h http.Handler, name, email string) string {
	t.Helper()

	rec := doJSON(t, h, http.MethodPost, "/auth/paciente/cadastro", map[string]string{
		"nome":            name,
		"email":           email,
		"senha":           "Senha123!",
		"sexo":            "F",
		"data_nascimento": "1985-03-10",
	}, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("registering %s: status %d, body %s", email, rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	token, ok := body["token"].(string)
	if !ok || token == "" {
		t.Fatalf("registration response missing token: %v", body)
	}
	return token
}
