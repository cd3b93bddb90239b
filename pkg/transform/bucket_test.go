package transform

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkilian/floe/pkg/expr"
	"github.com/arkilian/floe/pkg/types"
)

// These vectors define byte-layout compatibility across implementations;
// they must never change.
func TestBucketHashVectors(t *testing.T) {
	b := Bucket{N: 100}

	dec, ok := expr.ParseDecimal("14.20")
	require.True(t, ok)

	tests := []struct {
		name string
		lit  expr.Literal
		want int32
	}{
		{"int 34", expr.IntLiteral(34), 79},
		{"long 34", expr.LongLiteral(34), 79},
		{"string iceberg", expr.StringLiteral("iceberg"), 57},
		{"uuid", expr.UUIDLiteral(uuid.MustParse("f79c3e09-677c-4bbd-a479-3f349cb785e7")), 40},
		{"decimal 14.20", expr.Of(dec), 59},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := b.Apply(tt.lit)
			assert.Equal(t, expr.IntLiteral(tt.want), got)
		})
	}
}

func TestBucketIntAndLongAgree(t *testing.T) {
	// int and date hash through the same 8-byte widening as long
	b := Bucket{N: 1 << 16}
	for _, v := range []int64{0, 1, -1, 34, 1 << 30, -(1 << 40)} {
		if v >= -(1<<31) && v < 1<<31 {
			assert.Equal(t, b.Apply(expr.LongLiteral(v)), b.Apply(expr.IntLiteral(int32(v))),
				"int and long buckets disagree for %d", v)
		}
	}

	assert.Equal(t, b.Apply(expr.LongLiteral(17396)), b.Apply(expr.DateLiteral(17396)))
	assert.Equal(t, b.Apply(expr.LongLiteral(51661919000)), b.Apply(expr.TimeLiteral(51661919000)))
}

func TestBucketRange(t *testing.T) {
	b := Bucket{N: 16}
	for _, lit := range []expr.Literal{
		expr.IntLiteral(-7), expr.LongLiteral(1 << 62), expr.StringLiteral(""),
	} {
		v := int32(b.Apply(lit).(expr.IntLiteral))
		assert.GreaterOrEqual(t, v, int32(0))
		assert.Less(t, v, int32(16))
	}
}

func TestBucketCanTransform(t *testing.T) {
	b := Bucket{N: 16}

	for _, typ := range []types.Type{
		types.IntType{}, types.LongType{}, types.DateType{}, types.TimeType{},
		types.TimestampType{}, types.TimestampTzType{}, types.DecimalOf(9, 2),
		types.StringType{}, types.UUIDType{}, types.FixedOf(8), types.BinaryType{},
	} {
		assert.True(t, b.CanTransform(typ), "%s", typ)
	}

	for _, typ := range []types.Type{
		types.BooleanType{}, types.FloatType{}, types.DoubleType{},
		types.StructOf(), types.ListOfOptional(1, types.IntType{}),
	} {
		assert.False(t, b.CanTransform(typ), "%s", typ)
	}
}

func TestBucketResultTypeAndEquality(t *testing.T) {
	assert.True(t, Bucket{N: 16}.ResultType(types.LongType{}).Equals(types.IntType{}))
	assert.Equal(t, Bucket{N: 16}, Bucket{N: 16})
	assert.NotEqual(t, Bucket{N: 16}, Bucket{N: 32})
	assert.Equal(t, "bucket[16]", Bucket{N: 16}.String())
}

func boundIntPredicate(t *testing.T, op expr.Operation, value int64) *expr.BoundPredicate {
	t.Helper()
	st := types.StructOf(types.OptionalField(1, "id", types.LongType{}))
	bound, err := expr.Predicate(op, "id", expr.Of(value)).Bind(st)
	require.NoError(t, err)
	pred, ok := bound.(*expr.BoundPredicate)
	require.True(t, ok)
	return pred
}

func TestBucketProjection(t *testing.T) {
	b := Bucket{N: 16}

	eq := b.Project("id_bucket", boundIntPredicate(t, expr.OpEq, 17))
	require.NotNil(t, eq)
	assert.True(t, eq.Equals(expr.Predicate(expr.OpEq, "id_bucket", b.Apply(expr.LongLiteral(17)))))

	// only equality projects inclusively
	for _, op := range []expr.Operation{expr.OpLt, expr.OpLtEq, expr.OpGt, expr.OpGtEq, expr.OpNotEq} {
		assert.Nil(t, b.Project("id_bucket", boundIntPredicate(t, op, 17)), "%s", op)
	}
}

func TestBucketStrictProjection(t *testing.T) {
	b := Bucket{N: 16}

	notEq := b.ProjectStrict("id_bucket", boundIntPredicate(t, expr.OpNotEq, 17))
	require.NotNil(t, notEq)
	assert.True(t, notEq.Equals(expr.Predicate(expr.OpNotEq, "id_bucket", b.Apply(expr.LongLiteral(17)))))

	// only inequality projects strictly
	for _, op := range []expr.Operation{expr.OpLt, expr.OpLtEq, expr.OpGt, expr.OpGtEq, expr.OpEq} {
		assert.Nil(t, b.ProjectStrict("id_bucket", boundIntPredicate(t, op, 17)), "%s", op)
	}
}
