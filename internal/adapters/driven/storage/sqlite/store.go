package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/kanoonsetu/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/kanoonsetu/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.AuditSink = (*Store)(nil)

// ErrDuplicateArtifact is returned when an artefact was already recorded for a request.
var ErrDuplicateArtifact = errors.New("artifact already recorded")

// Store persists raw retrieval payloads in SQLite.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// NewStore creates a new SQLite store in the specified directory.
// If dataDir is empty, defaults to ~/.kanoonsetu/audit/retrieval.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".kanoonsetu", "audit")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "retrieval.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
		now:  time.Now,
	}

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

// Record inserts one raw payload. Rows are never updated; recording the
// same artefact twice for a request returns ErrDuplicateArtifact.
func (s *Store) Record(ctx context.Context, requestID, artifact string, payload []byte) error {
	if requestID == "" || artifact == "" {
		return errors.New("sqlite audit: request id and artifact are required")
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO retrieval_log (request_id, artifact, payload, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(request_id, artifact) DO NOTHING
	`, requestID, artifact, payload, s.now().UTC())
	if err != nil {
		return fmt.Errorf("inserting %s/%s: %w", requestID, artifact, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking insert of %s/%s: %w", requestID, artifact, err)
	}
	if n == 0 {
		return fmt.Errorf("%s/%s: %w", requestID, artifact, ErrDuplicateArtifact)
	}
	return nil
}

// Entry is one persisted retrieval payload.
type Entry struct {
	RequestID string
	Artifact  string
	Payload   []byte
	CreatedAt time.Time
}

// Entries returns the payloads recorded for a request in insertion order.
func (s *Store) Entries(ctx context.Context, requestID string) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT request_id, artifact, payload, created_at
		FROM retrieval_log WHERE request_id = ?
		ORDER BY id
	`, requestID)
	if err != nil {
		return nil, fmt.Errorf("querying retrieval log: %w", err)
	}
	defer rows.Close()

	var entries []Entry //nolint:prealloc // size unknown from query
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.RequestID, &e.Artifact, &e.Payload, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning retrieval log: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating retrieval log: %w", err)
	}
	return entries, nil
}

// migrate applies pending up migrations in version order.
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

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_retrieval_log.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}
