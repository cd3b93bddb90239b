package expr

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkilian/floe/pkg/types"
)

func TestWireRoundTrips(t *testing.T) {
	id := uuid.MustParse("f79c3e09-677c-4bbd-a479-3f349cb785e7")

	tests := []struct {
		lit Literal
		typ types.Type
	}{
		{BoolLiteral(true), types.BooleanType{}},
		{IntLiteral(-34), types.IntType{}},
		{LongLiteral(1503014400000000), types.LongType{}},
		{FloatLiteral(1.5), types.FloatType{}},
		{DoubleLiteral(-0.25), types.DoubleType{}},
		{DateLiteral(17396), types.DateType{}},
		{TimeLiteral(51661919000), types.TimeType{}},
		{TimestampLiteral(1503066061919000), types.TimestampType{}},
		{TimestampTzLiteral(1503066061919000), types.TimestampTzType{}},
		{StringLiteral("iceberg"), types.StringType{}},
		{UUIDLiteral(id), types.UUIDType{}},
		{FixedLiteral{0, 1, 2}, types.FixedOf(3)},
		{BinaryLiteral{0xDE, 0xAD}, types.BinaryType{}},
	}

	for _, tt := range tests {
		data := ToBytes(tt.lit)
		back, err := FromBytes(tt.typ, data)
		require.NoError(t, err, "%s", tt.typ)
		assert.True(t, tt.lit.Equals(back), "%s: %s != %s", tt.typ, tt.lit, back)
	}
}

func TestWireEndianness(t *testing.T) {
	// int64 serializes little-endian
	assert.Equal(t, []byte{34, 0, 0, 0, 0, 0, 0, 0}, ToBytes(LongLiteral(34)))
	// int32 serializes little-endian
	assert.Equal(t, []byte{34, 0, 0, 0}, ToBytes(IntLiteral(34)))
	// uuid serializes big-endian
	id := uuid.MustParse("f79c3e09-677c-4bbd-a479-3f349cb785e7")
	assert.Equal(t, []byte{0xf7, 0x9c, 0x3e, 0x09, 0x67, 0x7c, 0x4b, 0xbd,
		0xa4, 0x79, 0x3f, 0x34, 0x9c, 0xb7, 0x85, 0xe7}, ToBytes(UUIDLiteral(id)))
}

func TestDecimalWireBytes(t *testing.T) {
	// 14.20 at scale 2 is unscaled 1420, two bytes big-endian
	dec := mustDecimal(t, "14.20")
	assert.Equal(t, []byte{0x05, 0x8C}, ToBytes(dec))

	back, err := FromBytes(types.DecimalOf(9, 2), []byte{0x05, 0x8C})
	require.NoError(t, err)
	assert.True(t, dec.Equals(back))
}

func TestDecimalTwosComplement(t *testing.T) {
	tests := []struct {
		value string
		want  []byte
	}{
		{"0.00", []byte{0x00}},
		{"1.27", []byte{0x7F}},
		{"1.28", []byte{0x00, 0x80}}, // needs a sign byte
		{"-0.01", []byte{0xFF}},
		{"-1.28", []byte{0x80}},
		{"-1.29", []byte{0xFF, 0x7F}},
	}

	for _, tt := range tests {
		dec := mustDecimal(t, tt.value)
		got := ToBytes(dec)
		assert.Equal(t, tt.want, got, "unscaled bytes of %s", tt.value)

		back, err := FromBytes(types.DecimalOf(9, 2), got)
		require.NoError(t, err)
		assert.True(t, dec.Equals(back), "round trip of %s", tt.value)
	}
}

func TestFromBytesRejectsBadLengths(t *testing.T) {
	cases := []struct {
		typ  types.Type
		data []byte
	}{
		{types.IntType{}, []byte{1, 2}},
		{types.LongType{}, []byte{1, 2, 3, 4}},
		{types.UUIDType{}, []byte{1}},
		{types.FixedOf(3), []byte{1, 2}},
		{types.BooleanType{}, []byte{}},
	}

	for _, tt := range cases {
		_, err := FromBytes(tt.typ, tt.data)
		assert.Error(t, err, "%s with %d bytes", tt.typ, len(tt.data))
	}
}
