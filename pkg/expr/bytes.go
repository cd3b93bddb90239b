package expr

import (
	"encoding/binary"
	"math"

	"github.com/apache/arrow-go/v18/arrow/decimal128"
	"github.com/google/uuid"

	floeerrors "github.com/arkilian/floe/internal/errors"
	"github.com/arkilian/floe/pkg/types"
)

// ToBytes serializes a literal to its single-value wire representation:
// little-endian integers and floats, UTF-8 strings, 16 big-endian UUID
// bytes, minimal two's-complement unscaled decimal bytes, raw fixed and
// binary bytes, and a single 0/1 byte for booleans. Panics on sentinels,
// which have no representation.
func ToBytes(l Literal) []byte {
	switch l := l.(type) {
	case BoolLiteral:
		if l {
			return []byte{1}
		}
		return []byte{0}
	case IntLiteral:
		return le32(uint32(int32(l)))
	case DateLiteral:
		return le32(uint32(int32(l)))
	case LongLiteral:
		return le64(uint64(int64(l)))
	case TimeLiteral:
		return le64(uint64(int64(l)))
	case TimestampLiteral:
		return le64(uint64(int64(l)))
	case TimestampTzLiteral:
		return le64(uint64(int64(l)))
	case FloatLiteral:
		return le32(math.Float32bits(float32(l)))
	case DoubleLiteral:
		return le64(math.Float64bits(float64(l)))
	case StringLiteral:
		return []byte(l)
	case UUIDLiteral:
		out := make([]byte, 16)
		copy(out, l[:])
		return out
	case DecimalLiteral:
		return l.UnscaledBytes()
	case FixedLiteral:
		return []byte(l)
	case BinaryLiteral:
		return []byte(l)
	default:
		panic("expr: literal has no wire representation: " + l.String())
	}
}

// FromBytes deserializes a single-value wire representation into a literal
// of the given type.
func FromBytes(t types.Type, data []byte) (Literal, error) {
	switch t := t.(type) {
	case types.BooleanType:
		if len(data) != 1 {
			return nil, corruptValue(t, data)
		}
		return BoolLiteral(data[0] != 0), nil
	case types.IntType:
		v, ok := rdLE32(data)
		if !ok {
			return nil, corruptValue(t, data)
		}
		return IntLiteral(int32(v)), nil
	case types.DateType:
		v, ok := rdLE32(data)
		if !ok {
			return nil, corruptValue(t, data)
		}
		return DateLiteral(int32(v)), nil
	case types.LongType:
		v, ok := rdLE64(data)
		if !ok {
			return nil, corruptValue(t, data)
		}
		return LongLiteral(int64(v)), nil
	case types.TimeType:
		v, ok := rdLE64(data)
		if !ok {
			return nil, corruptValue(t, data)
		}
		return TimeLiteral(int64(v)), nil
	case types.TimestampType:
		v, ok := rdLE64(data)
		if !ok {
			return nil, corruptValue(t, data)
		}
		return TimestampLiteral(int64(v)), nil
	case types.TimestampTzType:
		v, ok := rdLE64(data)
		if !ok {
			return nil, corruptValue(t, data)
		}
		return TimestampTzLiteral(int64(v)), nil
	case types.FloatType:
		v, ok := rdLE32(data)
		if !ok {
			return nil, corruptValue(t, data)
		}
		return FloatLiteral(math.Float32frombits(v)), nil
	case types.DoubleType:
		v, ok := rdLE64(data)
		if !ok {
			return nil, corruptValue(t, data)
		}
		return DoubleLiteral(math.Float64frombits(v)), nil
	case types.StringType:
		return StringLiteral(data), nil
	case types.UUIDType:
		if len(data) != 16 {
			return nil, corruptValue(t, data)
		}
		id, err := uuid.FromBytes(data)
		if err != nil {
			return nil, corruptValue(t, data)
		}
		return UUIDLiteral(id), nil
	case types.DecimalType:
		if len(data) == 0 {
			return nil, corruptValue(t, data)
		}
		bi := twosComplementToBigInt(data)
		if bi.BitLen() > 128 {
			return nil, corruptValue(t, data)
		}
		num := decimal128.FromBigInt(bi)
		return DecimalLiteral{Val: num, Precision: t.Precision, Scale: t.Scale}, nil
	case types.FixedType:
		if len(data) != t.Len {
			return nil, corruptValue(t, data)
		}
		return FixedLiteral(data), nil
	case types.BinaryType:
		return BinaryLiteral(data), nil
	default:
		return nil, floeerrors.Newf(floeerrors.ErrCategoryExpression, floeerrors.CodeInvalidLiteral,
			"cannot deserialize a value of type %s", t)
	}
}

func corruptValue(t types.Type, data []byte) error {
	return floeerrors.Newf(floeerrors.ErrCategoryExpression, floeerrors.CodeInvalidLiteral,
		"invalid serialized value for %s: %d bytes", t, len(data))
}

func le32(v uint32) []byte {
	out := make([]byte, 4)
	binary.LittleEndian.PutUint32(out, v)
	return out
}

func le64(v uint64) []byte {
	out := make([]byte, 8)
	binary.LittleEndian.PutUint64(out, v)
	return out
}

func rdLE32(data []byte) (uint32, bool) {
	if len(data) != 4 {
		return 0, false
	}
	return binary.LittleEndian.Uint32(data), true
}

func rdLE64(data []byte) (uint64, bool) {
	if len(data) != 8 {
		return 0, false
	}
	return binary.LittleEndian.Uint64(data), true
}
