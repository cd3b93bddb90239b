package partition

import (
	floeerrors "github.com/arkilian/floe/internal/errors"
	"github.com/arkilian/floe/pkg/expr"
)

// ProjectionEvaluator rewrites a row-space expression into a partition-space
// expression over the spec's partition column names. The result is unbound;
// callers bind it against the spec's partition type.
//
// The inclusive projection over-approximates: it matches every partition
// that may hold a matching row, so it is safe for pruning. The strict
// projection under-approximates: it matches only partitions whose every row
// matches, so it is safe for skipping filter evaluation.
type ProjectionEvaluator struct {
	spec   *Spec
	strict bool
}

// Inclusive returns the over-approximating projection for a spec.
func Inclusive(spec *Spec) *ProjectionEvaluator {
	return &ProjectionEvaluator{spec: spec}
}

// Strict returns the under-approximating projection for a spec.
func Strict(spec *Spec) *ProjectionEvaluator {
	return &ProjectionEvaluator{spec: spec, strict: true}
}

// Project rewrites the expression. Unbound predicates are bound against the
// spec's data schema on the way through; binding failures surface as
// validation errors.
func (e *ProjectionEvaluator) Project(ex expr.Expression) (expr.Expression, error) {
	switch ex := ex.(type) {
	case expr.AndExpr:
		left, err := e.Project(ex.Left)
		if err != nil {
			return nil, err
		}
		right, err := e.Project(ex.Right)
		if err != nil {
			return nil, err
		}
		return expr.And(left, right), nil

	case expr.OrExpr:
		left, err := e.Project(ex.Left)
		if err != nil {
			return nil, err
		}
		right, err := e.Project(ex.Right)
		if err != nil {
			return nil, err
		}
		return expr.Or(left, right), nil

	case expr.NotExpr:
		// inclusive and strict are dual under negation; push the not down
		// into the predicates before projecting
		return e.Project(ex.Child.Negate())

	case *expr.UnboundPredicate:
		bound, err := ex.BindSchema(e.spec.Schema())
		if err != nil {
			return nil, err
		}
		return e.Project(bound)

	case *expr.BoundPredicate:
		return e.projectPredicate(ex), nil

	default:
		if ex.Op() == expr.OpTrue || ex.Op() == expr.OpFalse {
			return ex, nil
		}
		return nil, floeerrors.Newf(floeerrors.ErrCategoryExpression, floeerrors.CodeInvalidOperation,
			"cannot project expression: %s", ex)
	}
}

// projectPredicate asks each partition field sourced from the predicate's
// column for its projection. A field that cannot project yields the safe
// constant for the mode; otherwise the partition predicates are combined
// with and.
func (e *ProjectionEvaluator) projectPredicate(pred *expr.BoundPredicate) expr.Expression {
	safe := expr.AlwaysTrue
	if e.strict {
		safe = expr.AlwaysFalse
	}

	fields := e.spec.FieldsBySourceID(pred.Ref.FieldID())
	if len(fields) == 0 {
		return safe
	}

	result := expr.AlwaysTrue
	for _, field := range fields {
		var projected *expr.UnboundPredicate
		if e.strict {
			projected = field.Transform.ProjectStrict(field.Name, pred)
		} else {
			projected = field.Transform.Project(field.Name, pred)
		}
		if projected == nil {
			return safe
		}
		result = expr.And(result, projected)
	}
	return result
}
