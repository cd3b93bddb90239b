// Package manifest consumes manifest-file metadata produced by the external
// codec: the schema and partition-spec header entries, and per-file
// partition tuples and column statistics. It prunes files by pushing row
// filters through the partition spec.
package manifest

import (
	floeerrors "github.com/arkilian/floe/internal/errors"
	"github.com/arkilian/floe/pkg/expr"
	"github.com/arkilian/floe/pkg/partition"
	"github.com/arkilian/floe/pkg/types"
)

// Header metadata keys written by the codec.
const (
	MetaSchemaKey = "schema"
	MetaSpecKey   = "partition-spec"
)

// Status records how an entry changed in the snapshot that wrote it.
type Status int32

const (
	StatusExisting Status = 0
	StatusAdded    Status = 1
	StatusDeleted  Status = 2
)

// DataFile describes one data file tracked by a manifest: its partition
// tuple and the column statistics the codec extracted. Bounds are
// single-value wire representations keyed by field id.
type DataFile struct {
	Path        string
	Format      string
	Partition   map[int]expr.Literal
	RecordCount int64
	SizeBytes   int64

	ValueCounts map[int]int64
	NullCounts  map[int]int64
	LowerBounds map[int][]byte
	UpperBounds map[int][]byte
}

// Entry pairs a data file with its change status.
type Entry struct {
	Status     Status
	SnapshotID int64
	File       DataFile
}

// ReadHeader parses the schema and partition spec out of a manifest's
// key/value metadata.
func ReadHeader(meta map[string]string) (*types.Schema, *partition.Spec, error) {
	schemaJSON, ok := meta[MetaSchemaKey]
	if !ok {
		return nil, nil, floeerrors.New(floeerrors.ErrCategoryValidation, floeerrors.CodeCorruptMetadata,
			"manifest metadata is missing the schema entry")
	}
	schema, err := types.SchemaFromJSON([]byte(schemaJSON))
	if err != nil {
		return nil, nil, err
	}

	specJSON, ok := meta[MetaSpecKey]
	if !ok {
		return nil, nil, floeerrors.New(floeerrors.ErrCategoryValidation, floeerrors.CodeCorruptMetadata,
			"manifest metadata is missing the partition-spec entry")
	}
	spec, err := partition.SpecFromJSON(schema, []byte(specJSON))
	if err != nil {
		return nil, nil, err
	}

	return schema, spec, nil
}

// Reader exposes a decoded manifest: its header schema and spec plus the
// decoded entries. The Avro decoding itself happens in the external codec.
type Reader struct {
	schema  *types.Schema
	spec    *partition.Spec
	entries []Entry
}

// NewReader builds a reader from codec-provided header metadata and
// entries.
func NewReader(meta map[string]string, entries []Entry) (*Reader, error) {
	schema, spec, err := ReadHeader(meta)
	if err != nil {
		return nil, err
	}
	return &Reader{schema: schema, spec: spec, entries: entries}, nil
}

// Schema returns the data schema recorded in the manifest header.
func (r *Reader) Schema() *types.Schema { return r.schema }

// Spec returns the partition spec recorded in the manifest header.
func (r *Reader) Spec() *partition.Spec { return r.spec }

// Entries returns every manifest entry.
func (r *Reader) Entries() []Entry { return r.entries }

// AddedFiles returns the files added by the writing snapshot.
func (r *Reader) AddedFiles() []DataFile { return r.filesWithStatus(StatusAdded) }

// DeletedFiles returns the files deleted by the writing snapshot.
func (r *Reader) DeletedFiles() []DataFile { return r.filesWithStatus(StatusDeleted) }

func (r *Reader) filesWithStatus(status Status) []DataFile {
	var out []DataFile
	for _, e := range r.entries {
		if e.Status == status {
			out = append(out, e.File)
		}
	}
	return out
}

// liveFiles returns every entry's file except deleted ones.
func (r *Reader) liveFiles() []DataFile {
	out := make([]DataFile, 0, len(r.entries))
	for _, e := range r.entries {
		if e.Status != StatusDeleted {
			out = append(out, e.File)
		}
	}
	return out
}

// FilterRows returns the live files that may contain rows matching the
// row-space filter, by projecting it through the partition spec and
// checking column statistics.
func (r *Reader) FilterRows(rowFilter expr.Expression) ([]DataFile, error) {
	return NewPruner(r.spec).PruneFiles(rowFilter, r.liveFiles())
}

// FilterPartitions returns the live files whose partition tuple satisfies a
// partition-space filter.
func (r *Reader) FilterPartitions(partFilter expr.Expression) ([]DataFile, error) {
	bound, err := bindPartitionFilter(r.spec, partFilter)
	if err != nil {
		return nil, err
	}

	var out []DataFile
	for _, file := range r.liveFiles() {
		match, err := evalPartition(bound, file.Partition)
		if err != nil {
			return nil, err
		}
		if match {
			out = append(out, file)
		}
	}
	return out, nil
}

// bindPartitionFilter binds a partition-space expression against the
// spec's derived partition struct.
func bindPartitionFilter(spec *partition.Spec, e expr.Expression) (expr.Expression, error) {
	partSchema := types.NewSchema(spec.PartitionType().FieldList...)
	return expr.BindExpr(partSchema, e)
}
