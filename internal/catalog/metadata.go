// Package catalog persists table metadata: the current schema, the
// partition spec, and the last assigned column id. Metadata documents live
// in object storage; a SQLite pointer table serializes commits with
// compare-and-swap so that exactly one of two concurrent commits against
// the same base succeeds.
package catalog

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	floeerrors "github.com/arkilian/floe/internal/errors"
	"github.com/arkilian/floe/pkg/partition"
	"github.com/arkilian/floe/pkg/types"
)

// TableMetadata is the document a table's catalog pointer resolves to.
type TableMetadata struct {
	FormatVersion int
	TableUUID     string
	Location      string
	LastUpdatedMs int64
	LastColumnID  int
	Schema        *types.Schema
	Spec          *partition.Spec
	Properties    map[string]string
}

// NewTableMetadata creates the initial metadata for a table.
func NewTableMetadata(schema *types.Schema, spec *partition.Spec, location string) *TableMetadata {
	lastColumnID := 0
	for id := range types.ProjectedIDs(schema) {
		if id > lastColumnID {
			lastColumnID = id
		}
	}

	return &TableMetadata{
		FormatVersion: 1,
		TableUUID:     uuid.New().String(),
		Location:      location,
		LastUpdatedMs: time.Now().UnixMilli(),
		LastColumnID:  lastColumnID,
		Schema:        schema,
		Spec:          spec,
		Properties:    map[string]string{},
	}
}

// UpdateSchema returns a copy of the metadata with a new current schema and
// last column id.
func (m *TableMetadata) UpdateSchema(schema *types.Schema, lastColumnID int) *TableMetadata {
	cp := *m
	cp.Schema = schema
	cp.LastColumnID = lastColumnID
	cp.LastUpdatedMs = time.Now().UnixMilli()
	return &cp
}

type tableMetadataJSON struct {
	FormatVersion int               `json:"format-version"`
	TableUUID     string            `json:"table-uuid"`
	Location      string            `json:"location"`
	LastUpdatedMs int64             `json:"last-updated-ms"`
	LastColumnID  int               `json:"last-column-id"`
	Schema        json.RawMessage   `json:"schema"`
	Spec          json.RawMessage   `json:"partition-spec"`
	Properties    map[string]string `json:"properties,omitempty"`
}

// MarshalJSON writes the metadata document form.
func (m *TableMetadata) MarshalJSON() ([]byte, error) {
	schemaJSON, err := json.Marshal(m.Schema)
	if err != nil {
		return nil, fmt.Errorf("catalog: failed to serialize schema: %w", err)
	}
	specJSON, err := json.Marshal(m.Spec)
	if err != nil {
		return nil, fmt.Errorf("catalog: failed to serialize partition spec: %w", err)
	}

	return json.Marshal(tableMetadataJSON{
		FormatVersion: m.FormatVersion,
		TableUUID:     m.TableUUID,
		Location:      m.Location,
		LastUpdatedMs: m.LastUpdatedMs,
		LastColumnID:  m.LastColumnID,
		Schema:        schemaJSON,
		Spec:          specJSON,
		Properties:    m.Properties,
	})
}

// UnmarshalJSON parses the metadata document form. The partition spec is
// resolved against the document's own schema.
func (m *TableMetadata) UnmarshalJSON(data []byte) error {
	var doc tableMetadataJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return floeerrors.Wrap(floeerrors.ErrCategoryCatalog, floeerrors.CodeCorruptMetadata,
			"malformed table metadata document", err)
	}

	schema, err := types.SchemaFromJSON(doc.Schema)
	if err != nil {
		return err
	}
	spec, err := partition.SpecFromJSON(schema, doc.Spec)
	if err != nil {
		return err
	}

	m.FormatVersion = doc.FormatVersion
	m.TableUUID = doc.TableUUID
	m.Location = doc.Location
	m.LastUpdatedMs = doc.LastUpdatedMs
	m.LastColumnID = doc.LastColumnID
	m.Schema = schema
	m.Spec = spec
	m.Properties = doc.Properties
	return nil
}
