// Package transform implements the partition transforms of the Floe table
// format: identity, bucket, truncate, and temporal extraction. Transforms
// are deterministic, byte-stable pure functions; each carries the two
// projection operators that rewrite row-space predicates into
// partition-space predicates.
package transform

import (
	"fmt"

	floeerrors "github.com/arkilian/floe/internal/errors"
	"github.com/arkilian/floe/pkg/expr"
	"github.com/arkilian/floe/pkg/types"
)

// Transform is a pure function from a source column value to a partition
// value. Transforms are value types and compare by their parameters.
type Transform interface {
	fmt.Stringer

	// CanTransform reports whether the transform accepts the source type.
	CanTransform(t types.Type) bool

	// ResultType returns the partition value type for a source type.
	ResultType(source types.Type) types.Type

	// Apply transforms a literal value. Panics when the literal kind is not
	// transformable; callers gate on CanTransform.
	Apply(lit expr.Literal) expr.Literal

	// Project returns the inclusive projection of a bound predicate as an
	// unbound predicate over the named partition column, or nil when the
	// predicate cannot be projected. The inclusive projection matches every
	// partition that may contain a matching row.
	Project(name string, pred *expr.BoundPredicate) *expr.UnboundPredicate

	// ProjectStrict returns the strict projection, or nil. The strict
	// projection matches only partitions whose every row matches.
	ProjectStrict(name string, pred *expr.BoundPredicate) *expr.UnboundPredicate
}

// Parse resolves a transform from its spec name: "identity", "bucket[N]",
// "truncate[W]", "year", "month", "day", or "hour".
func Parse(name string) (Transform, error) {
	switch name {
	case "identity":
		return Identity{}, nil
	case "year":
		return Year{}, nil
	case "month":
		return Month{}, nil
	case "day":
		return Day{}, nil
	case "hour":
		return Hour{}, nil
	}

	var n int
	if _, err := fmt.Sscanf(name, "bucket[%d]", &n); err == nil {
		if n <= 0 {
			return nil, floeerrors.Newf(floeerrors.ErrCategoryValidation, floeerrors.CodeInvalidOperation,
				"bucket count must be positive: %s", name)
		}
		return Bucket{N: n}, nil
	}
	if _, err := fmt.Sscanf(name, "truncate[%d]", &n); err == nil {
		if n <= 0 {
			return nil, floeerrors.Newf(floeerrors.ErrCategoryValidation, floeerrors.CodeInvalidOperation,
				"truncate width must be positive: %s", name)
		}
		return Truncate{W: n}, nil
	}

	return nil, floeerrors.Newf(floeerrors.ErrCategoryValidation, floeerrors.CodeInvalidOperation,
		"unknown transform: %q", name)
}

// Identity passes source values through unchanged and projects any
// predicate as-is.
type Identity struct{}

func (Identity) CanTransform(t types.Type) bool {
	return types.IsPrimitive(t)
}

func (Identity) ResultType(source types.Type) types.Type { return source }

func (Identity) Apply(lit expr.Literal) expr.Literal { return lit }

func (Identity) Project(name string, pred *expr.BoundPredicate) *expr.UnboundPredicate {
	return expr.Predicate(pred.Operation, name, pred.Lit)
}

func (Identity) ProjectStrict(name string, pred *expr.BoundPredicate) *expr.UnboundPredicate {
	return expr.Predicate(pred.Operation, name, pred.Lit)
}

func (Identity) String() string { return "identity" }
