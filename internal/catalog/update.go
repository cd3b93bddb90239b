package catalog

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	floeerrors "github.com/arkilian/floe/internal/errors"
	"github.com/arkilian/floe/pkg/types"
)

// maxCommitRetries bounds rebuild-and-retry on commit conflicts.
const maxCommitRetries = 4

var errCommitConflict = floeerrors.New(floeerrors.ErrCategoryCatalog, floeerrors.CodeCommitConflict, "")

// UpdateSchema applies a batch of schema edits to a table and commits the
// result. The edit callback receives a fresh SchemaUpdate built from the
// current schema; on a concurrent-commit conflict the update is rebuilt
// against the new current metadata and retried, so the callback must be
// idempotent.
func (s *Store) UpdateSchema(ctx context.Context, table string, edit func(*types.SchemaUpdate) error) (*TableMetadata, error) {
	var lastErr error

	for attempt := 0; attempt <= maxCommitRetries; attempt++ {
		current, baseVersion, err := s.Current(ctx, table)
		if err != nil {
			return nil, err
		}

		update := types.NewSchemaUpdate(current.Schema, current.LastColumnID)
		if err := edit(update); err != nil {
			return nil, err
		}

		next := current.UpdateSchema(update.Apply(), update.LastColumnID())
		err = s.CommitMetadata(ctx, table, baseVersion, next)
		if err == nil {
			return next, nil
		}
		if !errors.Is(err, errCommitConflict) {
			return nil, err
		}

		lastErr = err
		s.log.WithFields(logrus.Fields{
			"table":   table,
			"attempt": attempt + 1,
		}).Warn("schema commit conflict, rebuilding update")
	}

	return nil, lastErr
}
