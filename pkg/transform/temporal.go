package transform

import (
	"fmt"
	"time"

	"github.com/arkilian/floe/pkg/expr"
	"github.com/arkilian/floe/pkg/types"
)

const (
	microsPerHour = int64(3600) * 1_000_000
	microsPerDay  = int64(86400) * 1_000_000
)

// Year extracts the year ordinal relative to 1970 from dates and
// timestamps.
type Year struct{}

func (Year) CanTransform(t types.Type) bool   { return canTransformDate(t) }
func (Year) ResultType(types.Type) types.Type { return types.IntType{} }

func (Year) Apply(lit expr.Literal) expr.Literal {
	return expr.IntLiteral(civilOf(lit).Year() - 1970)
}

func (y Year) Project(name string, pred *expr.BoundPredicate) *expr.UnboundPredicate {
	return projectMonotone(y, name, pred)
}

func (y Year) ProjectStrict(name string, pred *expr.BoundPredicate) *expr.UnboundPredicate {
	return projectMonotone(y, name, pred)
}

func (Year) String() string { return "year" }

// Month extracts the month ordinal relative to 1970-01 from dates and
// timestamps.
type Month struct{}

func (Month) CanTransform(t types.Type) bool   { return canTransformDate(t) }
func (Month) ResultType(types.Type) types.Type { return types.IntType{} }

func (Month) Apply(lit expr.Literal) expr.Literal {
	civil := civilOf(lit)
	return expr.IntLiteral((civil.Year()-1970)*12 + int(civil.Month()) - 1)
}

func (m Month) Project(name string, pred *expr.BoundPredicate) *expr.UnboundPredicate {
	return projectMonotone(m, name, pred)
}

func (m Month) ProjectStrict(name string, pred *expr.BoundPredicate) *expr.UnboundPredicate {
	return projectMonotone(m, name, pred)
}

func (Month) String() string { return "month" }

// Day extracts days since the epoch; the result stays date-typed so
// partition values render as dates.
type Day struct{}

func (Day) CanTransform(t types.Type) bool   { return canTransformDate(t) }
func (Day) ResultType(types.Type) types.Type { return types.DateType{} }

func (Day) Apply(lit expr.Literal) expr.Literal {
	switch lit := lit.(type) {
	case expr.DateLiteral:
		return lit
	case expr.TimestampLiteral:
		return expr.DateLiteral(int32(floorDiv(int64(lit), microsPerDay)))
	case expr.TimestampTzLiteral:
		return expr.DateLiteral(int32(floorDiv(int64(lit), microsPerDay)))
	default:
		panic(fmt.Sprintf("transform: cannot extract day from literal: %s", lit))
	}
}

func (d Day) Project(name string, pred *expr.BoundPredicate) *expr.UnboundPredicate {
	return projectMonotone(d, name, pred)
}

func (d Day) ProjectStrict(name string, pred *expr.BoundPredicate) *expr.UnboundPredicate {
	return projectMonotone(d, name, pred)
}

func (Day) String() string { return "day" }

// Hour extracts hours since the epoch from timestamps.
type Hour struct{}

func (Hour) CanTransform(t types.Type) bool {
	switch t.TypeID() {
	case types.TimestampID, types.TimestampTzID:
		return true
	}
	return false
}

func (Hour) ResultType(types.Type) types.Type { return types.IntType{} }

func (Hour) Apply(lit expr.Literal) expr.Literal {
	switch lit := lit.(type) {
	case expr.TimestampLiteral:
		return expr.IntLiteral(int32(floorDiv(int64(lit), microsPerHour)))
	case expr.TimestampTzLiteral:
		return expr.IntLiteral(int32(floorDiv(int64(lit), microsPerHour)))
	default:
		panic(fmt.Sprintf("transform: cannot extract hour from literal: %s", lit))
	}
}

func (h Hour) Project(name string, pred *expr.BoundPredicate) *expr.UnboundPredicate {
	return projectMonotone(h, name, pred)
}

func (h Hour) ProjectStrict(name string, pred *expr.BoundPredicate) *expr.UnboundPredicate {
	return projectMonotone(h, name, pred)
}

func (Hour) String() string { return "hour" }

func canTransformDate(t types.Type) bool {
	switch t.TypeID() {
	case types.DateID, types.TimestampID, types.TimestampTzID:
		return true
	}
	return false
}

// projectMonotone maps order predicates through a monotone transform by
// applying it to the literal. Null checks and inequality do not project.
func projectMonotone(t Transform, name string, pred *expr.BoundPredicate) *expr.UnboundPredicate {
	switch pred.Operation {
	case expr.OpEq, expr.OpLt, expr.OpLtEq, expr.OpGt, expr.OpGtEq:
		return expr.Predicate(pred.Operation, name, t.Apply(pred.Lit))
	default:
		return nil
	}
}

func civilOf(lit expr.Literal) time.Time {
	switch lit := lit.(type) {
	case expr.DateLiteral:
		return time.Unix(int64(lit)*86400, 0).UTC()
	case expr.TimestampLiteral:
		return time.UnixMicro(int64(lit)).UTC()
	case expr.TimestampTzLiteral:
		return time.UnixMicro(int64(lit)).UTC()
	default:
		panic(fmt.Sprintf("transform: not a temporal literal: %s", lit))
	}
}

func floorDiv(v, unit int64) int64 {
	q := v / unit
	if v%unit < 0 {
		q--
	}
	return q
}
