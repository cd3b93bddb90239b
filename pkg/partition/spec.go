// Package partition defines partition specs — ordered lists of
// (source column, transform, name) — and the projection evaluators that
// push row-space predicates into partition space.
package partition

import (
	"fmt"
	"strings"

	floeerrors "github.com/arkilian/floe/internal/errors"
	"github.com/arkilian/floe/pkg/transform"
	"github.com/arkilian/floe/pkg/types"
)

// PartitionDataIDStart is the first field id of the derived partition
// struct. Partition field ids live in a sub-range disjoint from data schema
// ids.
const PartitionDataIDStart = 1000

// Field maps a source column through a transform to a named partition
// column.
type Field struct {
	SourceID  int
	Transform transform.Transform
	Name      string
}

func (f Field) String() string {
	return fmt.Sprintf("%d: %s: %s", f.SourceID, f.Name, f.Transform)
}

// Spec is an ordered list of partition fields over a schema. Specs are
// immutable once built.
type Spec struct {
	schema *types.Schema
	specID int
	fields []Field
}

// Unpartitioned returns the empty spec over a schema.
func Unpartitioned(schema *types.Schema) *Spec {
	return &Spec{schema: schema}
}

// Schema returns the data schema the spec was built against.
func (s *Spec) Schema() *types.Schema { return s.schema }

// SpecID returns the spec's id within the table metadata.
func (s *Spec) SpecID() int { return s.specID }

// Fields returns the partition fields in order.
func (s *Spec) Fields() []Field { return s.fields }

// FieldsBySourceID returns the partition fields deriving from the given
// source column.
func (s *Spec) FieldsBySourceID(sourceID int) []Field {
	var out []Field
	for _, f := range s.fields {
		if f.SourceID == sourceID {
			out = append(out, f)
		}
	}
	return out
}

// PartitionType derives the partition tuple's struct type. Partition field
// ids count up from PartitionDataIDStart; values are optional because a
// null source value produces a null partition value.
func (s *Spec) PartitionType() types.StructType {
	fields := make([]types.NestedField, len(s.fields))
	for i, f := range s.fields {
		source, ok := s.schema.FindFieldByID(f.SourceID)
		if !ok {
			panic(fmt.Sprintf("partition: spec references missing source field %d", f.SourceID))
		}
		fields[i] = types.OptionalField(PartitionDataIDStart+i, f.Name, f.Transform.ResultType(source.Type))
	}
	return types.StructOf(fields...)
}

func (s *Spec) String() string {
	parts := make([]string, len(s.fields))
	for i, f := range s.fields {
		parts[i] = f.String()
	}
	return "[\n  " + strings.Join(parts, "\n  ") + "\n]"
}

// Equals reports whether two specs have the same fields in the same order.
// The spec id does not participate.
func (s *Spec) Equals(o *Spec) bool {
	if len(s.fields) != len(o.fields) {
		return false
	}
	for i := range s.fields {
		if s.fields[i] != o.fields[i] {
			return false
		}
	}
	return true
}

// Builder accumulates partition fields against a schema. A Builder must be
// owned by a single goroutine.
type Builder struct {
	schema *types.Schema
	specID int
	fields []Field
}

// NewBuilder starts a spec for the given schema.
func NewBuilder(schema *types.Schema) *Builder {
	return &Builder{schema: schema}
}

// WithSpecID sets the spec id recorded in table metadata.
func (b *Builder) WithSpecID(id int) *Builder {
	b.specID = id
	return b
}

// Identity partitions directly by the named column.
func (b *Builder) Identity(source string) *Builder {
	return b.Add(source, transform.Identity{}, source)
}

// Bucket hash-partitions the named column into n buckets.
func (b *Builder) Bucket(source string, n int) *Builder {
	return b.Add(source, transform.Bucket{N: n}, source+"_bucket")
}

// Truncate partitions by the w-truncated value of the named column.
func (b *Builder) Truncate(source string, w int) *Builder {
	return b.Add(source, transform.Truncate{W: w}, source+"_trunc")
}

// Year partitions by the year of the named column.
func (b *Builder) Year(source string) *Builder {
	return b.Add(source, transform.Year{}, source+"_year")
}

// Month partitions by the month of the named column.
func (b *Builder) Month(source string) *Builder {
	return b.Add(source, transform.Month{}, source+"_month")
}

// Day partitions by the day of the named column.
func (b *Builder) Day(source string) *Builder {
	return b.Add(source, transform.Day{}, source+"_day")
}

// Hour partitions by the hour of the named column.
func (b *Builder) Hour(source string) *Builder {
	return b.Add(source, transform.Hour{}, source+"_hour")
}

// Add appends a partition field. Validation failures are deferred to
// Build so the builder stays chainable.
func (b *Builder) Add(source string, t transform.Transform, name string) *Builder {
	b.fields = append(b.fields, Field{SourceID: b.resolve(source), Transform: t, Name: name})
	return b
}

// resolve maps a source name to its field id; unresolved names carry a
// poison id that Build reports.
func (b *Builder) resolve(source string) int {
	field, ok := b.schema.FindField(source)
	if !ok {
		return -1
	}
	return field.ID
}

// Build validates the accumulated fields and returns the spec.
func (b *Builder) Build() (*Spec, error) {
	seen := make(map[string]bool, len(b.fields))
	for _, f := range b.fields {
		if f.SourceID < 0 {
			return nil, floeerrors.Newf(floeerrors.ErrCategoryValidation, floeerrors.CodeFieldNotFound,
				"cannot find source column for partition field: %s", f.Name)
		}
		if f.Name == "" {
			return nil, floeerrors.New(floeerrors.ErrCategoryValidation, floeerrors.CodeInvalidOperation,
				"cannot use empty partition name")
		}
		if seen[f.Name] {
			return nil, floeerrors.Newf(floeerrors.ErrCategoryValidation, floeerrors.CodeDuplicateColumn,
				"cannot use partition name more than once: %s", f.Name)
		}
		seen[f.Name] = true

		source, _ := b.schema.FindFieldByID(f.SourceID)
		if !f.Transform.CanTransform(source.Type) {
			return nil, floeerrors.Newf(floeerrors.ErrCategoryValidation, floeerrors.CodeInvalidOperation,
				"cannot partition by %s on %s: %s", f.Transform, source.Type, f.Name)
		}
	}
	return &Spec{schema: b.schema, specID: b.specID, fields: b.fields}, nil
}
