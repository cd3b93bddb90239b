package transform

import (
	"fmt"
	"math/big"

	"github.com/apache/arrow-go/v18/arrow/decimal128"

	"github.com/arkilian/floe/pkg/expr"
	"github.com/arkilian/floe/pkg/types"
)

// Truncate maps integers to the floor of their W-wide bucket, decimals to
// the same on the unscaled value, strings to their W-code-point prefix,
// and binary to its W-byte prefix.
type Truncate struct {
	W int
}

func (t Truncate) CanTransform(typ types.Type) bool {
	switch typ.TypeID() {
	case types.IntID, types.LongID, types.DecimalID, types.StringID, types.BinaryID:
		return true
	}
	return false
}

func (t Truncate) ResultType(source types.Type) types.Type { return source }

func (t Truncate) Apply(lit expr.Literal) expr.Literal {
	switch lit := lit.(type) {
	case expr.IntLiteral:
		w := int32(t.W)
		return lit - expr.IntLiteral(((int32(lit)%w)+w)%w)
	case expr.LongLiteral:
		w := int64(t.W)
		return lit - expr.LongLiteral(((int64(lit)%w)+w)%w)
	case expr.DecimalLiteral:
		unscaled := lit.Val.BigInt()
		remainder := new(big.Int).Mod(unscaled, big.NewInt(int64(t.W)))
		truncated := decimal128.FromBigInt(unscaled.Sub(unscaled, remainder))
		return expr.DecimalLiteral{Val: truncated, Precision: lit.Precision, Scale: lit.Scale}
	case expr.StringLiteral:
		runes := []rune(string(lit))
		if len(runes) <= t.W {
			return lit
		}
		return expr.StringLiteral(runes[:t.W])
	case expr.BinaryLiteral:
		if len(lit) <= t.W {
			return lit
		}
		return lit[:t.W]
	default:
		panic(fmt.Sprintf("transform: cannot truncate literal: %s", lit))
	}
}

// Project rewrites ranges in the monotone direction: truncation never
// increases a value, so rows below v land in buckets at or below
// truncate(v), and rows above it in buckets at or above.
func (t Truncate) Project(name string, pred *expr.BoundPredicate) *expr.UnboundPredicate {
	switch pred.Operation {
	case expr.OpEq:
		return expr.Predicate(expr.OpEq, name, t.Apply(pred.Lit))
	case expr.OpLt, expr.OpLtEq:
		return expr.Predicate(expr.OpLtEq, name, t.Apply(pred.Lit))
	case expr.OpGt, expr.OpGtEq:
		return expr.Predicate(expr.OpGtEq, name, t.Apply(pred.Lit))
	default:
		return nil
	}
}

// ProjectStrict admits a bucket only when every row it can hold satisfies
// the predicate: buckets strictly below truncate(v) are entirely below v,
// and a bucket other than truncate(v) cannot contain v itself.
func (t Truncate) ProjectStrict(name string, pred *expr.BoundPredicate) *expr.UnboundPredicate {
	switch pred.Operation {
	case expr.OpNotEq:
		return expr.Predicate(expr.OpNotEq, name, t.Apply(pred.Lit))
	case expr.OpLt, expr.OpLtEq:
		return expr.Predicate(expr.OpLt, name, t.Apply(pred.Lit))
	case expr.OpGt, expr.OpGtEq:
		return expr.Predicate(expr.OpGt, name, t.Apply(pred.Lit))
	default:
		return nil
	}
}

func (t Truncate) String() string { return fmt.Sprintf("truncate[%d]", t.W) }
