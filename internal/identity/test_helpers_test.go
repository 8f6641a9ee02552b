package identity

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// testDB creates a temporary SQLite database with the identity schema
// applied. The database file is cleaned up when the test completes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	// Use a temp file so WAL mode works (in-memory doesn't support it)
	f, err := os.CreateTemp("", "identity-test-*.db")
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
		t.Fatalf("applying identity schema: %v", err)
	}

	return db
}

// seedTestPatient inserts a patient with credentials and returns it.
func seedTestPatient(t *testing.T, db *sql.DB, name, email string) *Patient {
	t.Helper()

	hash, err := HashPassword("Senha123!")
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}

	repo := NewPatientRepository(db)
	patient := &Patient{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Sex:          "F",
		BirthDate:    "1990-05-20",
	}
	if err := repo.Create(context.Background(), patient); err != nil {
		t.Fatalf("creating test patient %s: %v", name, err)
	}
	return patient
}
