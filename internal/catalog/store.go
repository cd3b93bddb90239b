package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	floeerrors "github.com/arkilian/floe/internal/errors"
	"github.com/arkilian/floe/internal/storage"
)

// Store is the metadata store: a SQLite pointer table mapping table name to
// (version, metadata document path), with the documents themselves held in
// object storage. All pointer updates go through compare-and-swap on the
// version column.
type Store struct {
	db      *sql.DB // Write connection (single writer)
	objects storage.Store
	log     *logrus.Entry
	mu      sync.Mutex // Write-only lock
}

// NewStore opens the pointer database and wires the object store that holds
// metadata documents.
func NewStore(dbPath string, objects storage.Store) (*Store, error) {
	// Single writer with WAL mode
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("catalog: failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	store := &Store{
		db:      db,
		objects: objects,
		log:     logrus.WithField("component", "catalog"),
	}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("catalog: failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the pointer table.
func (s *Store) initSchema() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS tables (
			table_name    TEXT PRIMARY KEY,
			version       INTEGER NOT NULL,
			metadata_path TEXT NOT NULL,
			updated_at    INTEGER NOT NULL
		)`)
	return err
}

// Close closes the pointer database.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateTable registers a table at version 1 with its initial metadata.
func (s *Store) CreateTable(ctx context.Context, name string, md *TableMetadata) error {
	doc, err := json.Marshal(md)
	if err != nil {
		return floeerrors.NewCatalogError(floeerrors.CodeCorruptMetadata,
			"failed to serialize table metadata", err)
	}

	path := newMetadataPath(name, 1)
	if err := s.objects.Put(ctx, path, doc); err != nil {
		return floeerrors.NewStorageError(floeerrors.CodeUploadFailed,
			fmt.Sprintf("failed to write metadata document for table %s", name), err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO tables (table_name, version, metadata_path, updated_at) VALUES (?, 1, ?, ?)`,
		name, path, time.Now().Unix())
	if err != nil {
		return floeerrors.NewCatalogError(floeerrors.CodeCommitConflict,
			fmt.Sprintf("failed to register table %s (already exists?)", name), err)
	}

	s.log.WithFields(logrus.Fields{"table": name, "path": path}).Info("created table")
	return nil
}

// Current returns the table's current metadata and the pointer version it
// was read at. The version is the base for a subsequent CommitMetadata.
func (s *Store) Current(ctx context.Context, name string) (*TableMetadata, int, error) {
	var version int
	var path string
	err := s.db.QueryRowContext(ctx,
		`SELECT version, metadata_path FROM tables WHERE table_name = ?`, name).
		Scan(&version, &path)
	if err == sql.ErrNoRows {
		return nil, 0, floeerrors.Newf(floeerrors.ErrCategoryCatalog, floeerrors.CodeTableNotFound,
			"table not found: %s", name)
	}
	if err != nil {
		return nil, 0, floeerrors.NewCatalogError(floeerrors.CodeCorruptMetadata,
			fmt.Sprintf("failed to read pointer for table %s", name), err)
	}

	doc, err := s.objects.Get(ctx, path)
	if err != nil {
		return nil, 0, floeerrors.NewStorageError(floeerrors.CodeDownloadFailed,
			fmt.Sprintf("failed to read metadata document %s", path), err)
	}

	md := &TableMetadata{}
	if err := json.Unmarshal(doc, md); err != nil {
		return nil, 0, err
	}
	return md, version, nil
}

// CommitMetadata swings the table pointer from baseVersion to the next
// version, pointing at a freshly written metadata document. Returns a
// retryable commit-conflict error when the pointer moved since baseVersion
// was read; callers rebuild their update against the new current metadata
// and retry.
func (s *Store) CommitMetadata(ctx context.Context, name string, baseVersion int, md *TableMetadata) error {
	doc, err := json.Marshal(md)
	if err != nil {
		return floeerrors.NewCatalogError(floeerrors.CodeCorruptMetadata,
			"failed to serialize table metadata", err)
	}

	newVersion := baseVersion + 1
	path := newMetadataPath(name, newVersion)
	if err := s.objects.Put(ctx, path, doc); err != nil {
		return floeerrors.NewStorageError(floeerrors.CodeUploadFailed,
			fmt.Sprintf("failed to write metadata document for table %s", name), err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx,
		`UPDATE tables SET version = ?, metadata_path = ?, updated_at = ?
		 WHERE table_name = ? AND version = ?`,
		newVersion, path, time.Now().Unix(), name, baseVersion)
	if err != nil {
		return floeerrors.NewCatalogError(floeerrors.CodeCorruptMetadata,
			fmt.Sprintf("failed to update pointer for table %s", name), err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return floeerrors.NewCatalogError(floeerrors.CodeCorruptMetadata,
			fmt.Sprintf("failed to update pointer for table %s", name), err)
	}
	if affected == 0 {
		// the document written above is orphaned; reconciliation sweeps it
		return floeerrors.Newf(floeerrors.ErrCategoryCatalog, floeerrors.CodeCommitConflict,
			"concurrent commit for table %s: base version %d is stale", name, baseVersion)
	}

	s.log.WithFields(logrus.Fields{
		"table":   name,
		"version": newVersion,
		"path":    path,
	}).Info("committed table metadata")
	return nil
}

// OrphanedDocuments lists metadata documents no table pointer references,
// left behind by failed commits.
func (s *Store) OrphanedDocuments(ctx context.Context, name string) ([]string, error) {
	var current string
	err := s.db.QueryRowContext(ctx,
		`SELECT metadata_path FROM tables WHERE table_name = ?`, name).Scan(&current)
	if err == sql.ErrNoRows {
		return nil, floeerrors.Newf(floeerrors.ErrCategoryCatalog, floeerrors.CodeTableNotFound,
			"table not found: %s", name)
	}
	if err != nil {
		return nil, err
	}

	paths, err := s.objects.List(ctx, fmt.Sprintf("tables/%s/metadata/", name))
	if err != nil {
		return nil, err
	}

	var orphans []string
	for _, path := range paths {
		if path != current {
			orphans = append(orphans, path)
		}
	}
	return orphans, nil
}

// newMetadataPath embeds a random suffix so two racing commits for the
// same version never collide on the document path; the loser's document is
// swept as an orphan.
func newMetadataPath(table string, version int) string {
	return fmt.Sprintf("tables/%s/metadata/v%d-%s.json", table, version, uuid.New().String()[:8])
}
