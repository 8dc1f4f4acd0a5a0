// Package sqlite is a reference, non-core persistence backend for stack
// graph snapshots (spec.md §6 "Persistence"; grounded on the sibling
// corpus repo's `internal/memory` package, which opens `modernc.org/sqlite`
// the same way: `sql.Open("sqlite", path)` behind a blank driver import).
//
// It is deliberately thin: it stores/loads serde.StackGraph snapshots
// keyed by project and version, rather than a stitching.Database-compatible
// partial-path cache. The original crate's own SQLite-backed store lives in
// a separate, optional crate outside the core formalism's source, so there
// is no wire encoding in original_source/ for partial path stack-variable
// state to port faithfully; inventing one would be guessing, not grounding.
// A project that wants a warm partial-path cache can still rebuild one from
// the loaded graph on startup.
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/viant/stackgraph/serde"
)

// Store persists serde.StackGraph snapshots in a SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the database at path and ensures its
// schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initSchema() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS snapshots (
		project    TEXT NOT NULL,
		version    TEXT NOT NULL,
		file_count INTEGER NOT NULL,
		node_count INTEGER NOT NULL,
		edge_count INTEGER NOT NULL,
		saved_at   DATETIME NOT NULL,
		body       TEXT NOT NULL,
		PRIMARY KEY (project, version)
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_saved_at ON snapshots(saved_at DESC);
	`
	_, err := s.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("sqlite: init schema: %w", err)
	}
	return err
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save marshals snap as YAML and upserts it under (project, version).
func (s *Store) Save(project, version string, snap serde.StackGraph) error {
	body, err := serde.Marshal(snap)
	if err != nil {
		return fmt.Errorf("sqlite: marshal snapshot: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT OR REPLACE INTO snapshots
		(project, version, file_count, node_count, edge_count, saved_at, body)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, project, version, len(snap.Files), len(snap.Nodes), len(snap.Edges), time.Now(), string(body))
	if err != nil {
		return fmt.Errorf("sqlite: save snapshot %s/%s: %w", project, version, err)
	}
	return nil
}

// Load reads back the snapshot saved under (project, version).
func (s *Store) Load(project, version string) (serde.StackGraph, error) {
	var body string
	err := s.db.QueryRow(`
		SELECT body FROM snapshots WHERE project = ? AND version = ?
	`, project, version).Scan(&body)
	if err == sql.ErrNoRows {
		return serde.StackGraph{}, fmt.Errorf("sqlite: no snapshot for %s/%s", project, version)
	}
	if err != nil {
		return serde.StackGraph{}, fmt.Errorf("sqlite: load snapshot %s/%s: %w", project, version, err)
	}

	snap, err := serde.Unmarshal([]byte(body))
	if err != nil {
		return serde.StackGraph{}, fmt.Errorf("sqlite: unmarshal snapshot %s/%s: %w", project, version, err)
	}
	return snap, nil
}

// Version describes one saved snapshot's identity and size, without its body.
type Version struct {
	Project   string
	Version   string
	FileCount int
	NodeCount int
	EdgeCount int
	SavedAt   time.Time
}

// Versions lists the snapshots saved for project, most recent first.
func (s *Store) Versions(project string) ([]Version, error) {
	rows, err := s.db.Query(`
		SELECT project, version, file_count, node_count, edge_count, saved_at
		FROM snapshots WHERE project = ? ORDER BY saved_at DESC
	`, project)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list versions for %s: %w", project, err)
	}
	defer rows.Close()

	var out []Version
	for rows.Next() {
		var v Version
		if err := rows.Scan(&v.Project, &v.Version, &v.FileCount, &v.NodeCount, &v.EdgeCount, &v.SavedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scan version row: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list versions for %s: %w", project, err)
	}
	return out, nil
}

// Delete removes the snapshot saved under (project, version), if any.
func (s *Store) Delete(project, version string) error {
	_, err := s.db.Exec(`DELETE FROM snapshots WHERE project = ? AND version = ?`, project, version)
	if err != nil {
		return fmt.Errorf("sqlite: delete snapshot %s/%s: %w", project, version, err)
	}
	return nil
}
