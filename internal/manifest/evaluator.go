package manifest

import (
	floeerrors "github.com/arkilian/floe/internal/errors"
	"github.com/arkilian/floe/pkg/expr"
)

const (
	rowsMightMatch  = true
	rowsCannotMatch = false
)

// evalPartition evaluates a bound partition-space expression against one
// file's partition tuple. A field id missing from the tuple reads as null.
func evalPartition(e expr.Expression, tuple map[int]expr.Literal) (bool, error) {
	switch e := e.(type) {
	case expr.AndExpr:
		left, err := evalPartition(e.Left, tuple)
		if err != nil || !left {
			return false, err
		}
		return evalPartition(e.Right, tuple)
	case expr.OrExpr:
		left, err := evalPartition(e.Left, tuple)
		if err != nil || left {
			return left, err
		}
		return evalPartition(e.Right, tuple)
	case expr.NotExpr:
		result, err := evalPartition(e.Child, tuple)
		return !result, err
	case *expr.BoundPredicate:
		return evalBoundPredicate(e, tuple), nil
	default:
		switch e.Op() {
		case expr.OpTrue:
			return true, nil
		case expr.OpFalse:
			return false, nil
		}
		return false, floeerrors.Newf(floeerrors.ErrCategoryExpression, floeerrors.CodeInvalidOperation,
			"cannot evaluate unbound expression: %s", e)
	}
}

func evalBoundPredicate(p *expr.BoundPredicate, tuple map[int]expr.Literal) bool {
	value, ok := tuple[p.Ref.FieldID()]
	if value == nil {
		ok = false
	}

	switch p.Operation {
	case expr.OpIsNull:
		return !ok
	case expr.OpNotNull:
		return ok
	}
	if !ok {
		return false
	}

	switch p.Operation {
	case expr.OpEq:
		return value.Equals(p.Lit)
	case expr.OpNotEq:
		return !value.Equals(p.Lit)
	}

	ordered, ok := value.(expr.OrderedLiteral)
	if !ok {
		return false
	}
	cmp := ordered.Compare(p.Lit)
	switch p.Operation {
	case expr.OpLt:
		return cmp < 0
	case expr.OpLtEq:
		return cmp <= 0
	case expr.OpGt:
		return cmp > 0
	case expr.OpGtEq:
		return cmp >= 0
	}
	return false
}

// metricsMightMatch answers whether a file's column statistics admit rows
// matching a bound row-space expression. It only ever proves absence: a
// missing statistic reads as "might match".
func metricsMightMatch(e expr.Expression, file DataFile) (bool, error) {
	switch e := e.(type) {
	case expr.AndExpr:
		left, err := metricsMightMatch(e.Left, file)
		if err != nil || !left {
			return rowsCannotMatch, err
		}
		return metricsMightMatch(e.Right, file)
	case expr.OrExpr:
		left, err := metricsMightMatch(e.Left, file)
		if err != nil || left {
			return left, err
		}
		return metricsMightMatch(e.Right, file)
	case expr.NotExpr:
		// stats cannot invert a might-match answer; push negation into the
		// predicates instead
		return metricsMightMatch(e.Child.Negate(), file)
	case *expr.BoundPredicate:
		return predicateMightMatch(e, file), nil
	default:
		switch e.Op() {
		case expr.OpTrue:
			return rowsMightMatch, nil
		case expr.OpFalse:
			return rowsCannotMatch, nil
		}
		return rowsCannotMatch, floeerrors.Newf(floeerrors.ErrCategoryExpression, floeerrors.CodeInvalidOperation,
			"cannot evaluate unbound expression: %s", e)
	}
}

func predicateMightMatch(p *expr.BoundPredicate, file DataFile) bool {
	id := p.Ref.FieldID()

	switch p.Operation {
	case expr.OpIsNull:
		if count, ok := file.NullCounts[id]; ok && count == 0 {
			return rowsCannotMatch
		}
		return rowsMightMatch

	case expr.OpNotNull:
		// when every tracked value is null, no non-null row exists
		values, haveValues := file.ValueCounts[id]
		nulls, haveNulls := file.NullCounts[id]
		if haveValues && haveNulls && values == nulls {
			return rowsCannotMatch
		}
		return rowsMightMatch

	case expr.OpLt:
		if lower, ok := boundLiteral(file.LowerBounds, id, p); ok && lower.Compare(p.Lit) >= 0 {
			return rowsCannotMatch
		}
		return rowsMightMatch

	case expr.OpLtEq:
		if lower, ok := boundLiteral(file.LowerBounds, id, p); ok && lower.Compare(p.Lit) > 0 {
			return rowsCannotMatch
		}
		return rowsMightMatch

	case expr.OpGt:
		if upper, ok := boundLiteral(file.UpperBounds, id, p); ok && upper.Compare(p.Lit) <= 0 {
			return rowsCannotMatch
		}
		return rowsMightMatch

	case expr.OpGtEq:
		if upper, ok := boundLiteral(file.UpperBounds, id, p); ok && upper.Compare(p.Lit) < 0 {
			return rowsCannotMatch
		}
		return rowsMightMatch

	case expr.OpEq:
		if lower, ok := boundLiteral(file.LowerBounds, id, p); ok && lower.Compare(p.Lit) > 0 {
			return rowsCannotMatch
		}
		if upper, ok := boundLiteral(file.UpperBounds, id, p); ok && upper.Compare(p.Lit) < 0 {
			return rowsCannotMatch
		}
		return rowsMightMatch

	default:
		// notEq cannot be answered from bounds
		return rowsMightMatch
	}
}

// boundLiteral decodes a stored bound into an ordered literal of the
// predicate's type.
func boundLiteral(bounds map[int][]byte, id int, p *expr.BoundPredicate) (expr.OrderedLiteral, bool) {
	raw, ok := bounds[id]
	if !ok {
		return nil, false
	}
	lit, err := expr.FromBytes(p.Ref.Type(), raw)
	if err != nil {
		return nil, false
	}
	ordered, ok := lit.(expr.OrderedLiteral)
	return ordered, ok
}
