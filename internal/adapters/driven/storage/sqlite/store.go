package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/canopy-labs/proctor-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/canopy-labs/proctor-cli/internal/core/domain"
	"github.com/canopy-labs/proctor-cli/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to
// the procedure and execution store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.proctor/data/proctor.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".proctor", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "proctor.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// ProcedureStore returns a ProcedureStore interface backed by this store.
func (s *Store) ProcedureStore() driven.ProcedureStore {
	return &procedureStore{store: s}
}

// ExecutionStore returns an ExecutionStore interface backed by this store.
func (s *Store) ExecutionStore() driven.ExecutionStore {
	return &executionStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Procedure Store ====================

// procedureStore implements driven.ProcedureStore.
type procedureStore struct {
	store *Store
}

var _ driven.ProcedureStore = (*procedureStore)(nil)

// Save stores or updates a procedure.
func (s *procedureStore) Save(ctx context.Context, p domain.Procedure) error {
	if p.ID == "" {
		return domain.ErrInvalidInput
	}

	fieldsJSON, err := json.Marshal(p.Fields)
	if err != nil {
		return fmt.Errorf("marshalling fields: %w", err)
	}

	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO procedures (id, name, description, fields, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			fields = excluded.fields,
			updated_at = excluded.updated_at
	`, p.ID, p.Name, p.Description, string(fieldsJSON), p.CreatedAt, p.UpdatedAt)

	if err != nil {
		return fmt.Errorf("saving procedure: %w", err)
	}
	return nil
}

// Get retrieves a procedure by ID.
func (s *procedureStore) Get(ctx context.Context, id string) (*domain.Procedure, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, name, description, fields, created_at, updated_at
		FROM procedures WHERE id = ?
	`, id)

	return scanProcedure(row)
}

// Delete removes a procedure.
func (s *procedureStore) Delete(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM procedures WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting procedure: %w", err)
	}
	return nil
}

// List returns all stored procedures.
func (s *procedureStore) List(ctx context.Context) ([]domain.Procedure, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, name, description, fields, created_at, updated_at
		FROM procedures
	`)
	if err != nil {
		return nil, fmt.Errorf("querying procedures: %w", err)
	}
	defer rows.Close()

	var procedures []domain.Procedure //nolint:prealloc // size unknown from query
	for rows.Next() {
		p, err := scanProcedureRows(rows)
		if err != nil {
			return nil, err
		}
		procedures = append(procedures, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating procedures: %w", err)
	}

	return procedures, nil
}

// scanProcedure scans a single procedure row.
func scanProcedure(row *sql.Row) (*domain.Procedure, error) {
	var p domain.Procedure
	var fieldsJSON string
	var createdAt, updatedAt sql.NullTime

	if err := row.Scan(&p.ID, &p.Name, &p.Description, &fieldsJSON, &createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning procedure: %w", err)
	}

	if err := json.Unmarshal([]byte(fieldsJSON), &p.Fields); err != nil {
		return nil, fmt.Errorf("unmarshalling fields: %w", err)
	}

	if createdAt.Valid {
		p.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		p.UpdatedAt = updatedAt.Time
	}

	return &p, nil
}

// scanProcedureRows scans a procedure from *sql.Rows.
func scanProcedureRows(rows *sql.Rows) (*domain.Procedure, error) {
	var p domain.Procedure
	var fieldsJSON string
	var createdAt, updatedAt sql.NullTime

	if err := rows.Scan(&p.ID, &p.Name, &p.Description, &fieldsJSON, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("scanning procedure: %w", err)
	}

	if err := json.Unmarshal([]byte(fieldsJSON), &p.Fields); err != nil {
		return nil, fmt.Errorf("unmarshalling fields: %w", err)
	}

	if createdAt.Valid {
		p.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		p.UpdatedAt = updatedAt.Time
	}

	return &p, nil
}

// ==================== Execution Store ====================

// executionStore implements driven.ExecutionStore.
type executionStore struct {
	store *Store
}

var _ driven.ExecutionStore = (*executionStore)(nil)

// Save stores or updates the answers for a work order.
func (s *executionStore) Save(ctx context.Context, e domain.Execution) error {
	if e.WorkOrderID == "" {
		return domain.ErrInvalidInput
	}

	answersJSON, err := json.Marshal(e.Answers)
	if err != nil {
		return fmt.Errorf("marshalling answers: %w", err)
	}

	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = time.Now().UTC()
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO executions (work_order_id, answers, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(work_order_id) DO UPDATE SET
			answers = excluded.answers,
			updated_at = excluded.updated_at
	`, e.WorkOrderID, string(answersJSON), e.UpdatedAt)

	if err != nil {
		return fmt.Errorf("saving execution: %w", err)
	}
	return nil
}

// Get retrieves the answers for a work order.
func (s *executionStore) Get(ctx context.Context, workOrderID string) (*domain.Execution, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT work_order_id, answers, updated_at
		FROM executions WHERE work_order_id = ?
	`, workOrderID)

	var e domain.Execution
	var answersJSON string
	var updatedAt sql.NullTime

	if err := row.Scan(&e.WorkOrderID, &answersJSON, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning execution: %w", err)
	}

	if err := json.Unmarshal([]byte(answersJSON), &e.Answers); err != nil {
		return nil, fmt.Errorf("unmarshalling answers: %w", err)
	}

	if updatedAt.Valid {
		e.UpdatedAt = updatedAt.Time
	}

	return &e, nil
}

// List returns all stored executions.
func (s *executionStore) List(ctx context.Context) ([]domain.Execution, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT work_order_id, answers, updated_at
		FROM executions
	`)
	if err != nil {
		return nil, fmt.Errorf("querying executions: %w", err)
	}
	defer rows.Close()

	var executions []domain.Execution //nolint:prealloc // size unknown from query
	for rows.Next() {
		var e domain.Execution
		var answersJSON string
		var updatedAt sql.NullTime

		if err := rows.Scan(&e.WorkOrderID, &answersJSON, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning execution: %w", err)
		}

		if err := json.Unmarshal([]byte(answersJSON), &e.Answers); err != nil {
			return nil, fmt.Errorf("unmarshalling answers: %w", err)
		}

		if updatedAt.Valid {
			e.UpdatedAt = updatedAt.Time
		}

		executions = append(executions, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating executions: %w", err)
	}

	return executions, nil
}

// Delete removes a work order's answers.
func (s *executionStore) Delete(ctx context.Context, workOrderID string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM executions WHERE work_order_id = ?", workOrderID)
	if err != nil {
		return fmt.Errorf("deleting execution: %w", err)
	}
	return nil
}
