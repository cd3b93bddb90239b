package transform

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/spaolacci/murmur3"

	"github.com/arkilian/floe/pkg/expr"
	"github.com/arkilian/floe/pkg/types"
)

// Bucket distributes source values over N buckets by Murmur3 hash. The
// hashed byte layout is fixed by the format: changing it silently
// repartitions every table.
type Bucket struct {
	N int
}

func (b Bucket) CanTransform(t types.Type) bool {
	switch t.TypeID() {
	case types.IntID, types.LongID, types.DateID, types.TimeID,
		types.TimestampID, types.TimestampTzID, types.DecimalID,
		types.StringID, types.UUIDID, types.FixedID, types.BinaryID:
		return true
	}
	return false
}

func (b Bucket) ResultType(types.Type) types.Type { return types.IntType{} }

func (b Bucket) Apply(lit expr.Literal) expr.Literal {
	return expr.IntLiteral((b.hash(lit) & math.MaxInt32) % int32(b.N))
}

// hash dispatches on the literal kind. Int-family values hash as the
// little-endian bytes of their 64-bit widening, floating-point values as the
// bits of their double widening; the rest hash their wire bytes.
func (b Bucket) hash(lit expr.Literal) int32 {
	switch lit := lit.(type) {
	case expr.IntLiteral:
		return hashLong(int64(lit))
	case expr.DateLiteral:
		return hashLong(int64(lit))
	case expr.LongLiteral:
		return hashLong(int64(lit))
	case expr.TimeLiteral:
		return hashLong(int64(lit))
	case expr.TimestampLiteral:
		return hashLong(int64(lit))
	case expr.TimestampTzLiteral:
		return hashLong(int64(lit))
	case expr.FloatLiteral:
		// CanTransform rejects float columns; kept for hash compatibility
		return hashLong(int64(math.Float64bits(float64(lit))))
	case expr.DoubleLiteral:
		return hashLong(int64(math.Float64bits(float64(lit))))
	case expr.DecimalLiteral:
		return hashBytes(lit.UnscaledBytes())
	case expr.StringLiteral:
		return hashBytes([]byte(lit))
	case expr.UUIDLiteral:
		return hashBytes(lit[:])
	case expr.FixedLiteral:
		return hashBytes(lit)
	case expr.BinaryLiteral:
		return hashBytes(lit)
	default:
		panic(fmt.Sprintf("transform: cannot bucket by literal: %s", lit))
	}
}

func (b Bucket) Project(name string, pred *expr.BoundPredicate) *expr.UnboundPredicate {
	switch pred.Operation {
	case expr.OpEq:
		return expr.Predicate(expr.OpEq, name, b.Apply(pred.Lit))
	default:
		// comparison predicates cannot be projected, and neither can notEq
		return nil
	}
}

func (b Bucket) ProjectStrict(name string, pred *expr.BoundPredicate) *expr.UnboundPredicate {
	switch pred.Operation {
	case expr.OpNotEq:
		return expr.Predicate(expr.OpNotEq, name, b.Apply(pred.Lit))
	default:
		// no strict projection for comparison or equality
		return nil
	}
}

func (b Bucket) String() string { return fmt.Sprintf("bucket[%d]", b.N) }

// hashLong hashes the little-endian 8-byte encoding with Murmur3 32-bit,
// seed 0.
func hashLong(v int64) int32 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(v))
	return int32(murmur3.Sum32(buf[:]))
}

func hashBytes(data []byte) int32 {
	return int32(murmur3.Sum32(data))
}
