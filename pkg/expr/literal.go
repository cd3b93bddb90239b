// Package expr provides typed literals, predicate expressions, and binding
// for the Floe metadata core. Literals and expressions are immutable and
// safely shared; conversion between literal types follows a fixed lattice
// and never fails with an error — an undefined conversion yields nil and an
// out-of-range conversion yields a sentinel literal.
package expr

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/apache/arrow-go/v18/arrow/decimal128"
	"github.com/google/uuid"

	"github.com/arkilian/floe/pkg/types"
)

// Binary wraps a byte slice so that Of can distinguish binary values from
// fixed-length values (a bare []byte infers a fixed literal).
type Binary []byte

// Literal is a value tagged with its runtime type.
//
// To converts the literal to the target type. It returns nil when the
// lattice defines no conversion, a sentinel (AboveMax or BelowMin) when the
// value lies outside the target's domain, and the receiver itself when the
// target equals the literal's type.
type Literal interface {
	fmt.Stringer

	Type() types.Type
	To(types.Type) Literal
	Equals(Literal) bool
}

// OrderedLiteral is a literal with a total order over its own kind. All
// primitive literals except booleans and sentinels are ordered.
type OrderedLiteral interface {
	Literal

	// Compare returns a negative, zero, or positive value. Panics when
	// other is a different literal kind.
	Compare(other Literal) int
}

// Of infers a literal from a raw value: bool, int, int32, int64, float32,
// float64, string, uuid.UUID, Decimal, Binary, and []byte (fixed). Panics
// on unsupported values.
func Of(value any) Literal {
	switch v := value.(type) {
	case bool:
		return BoolLiteral(v)
	case int:
		if v >= math.MinInt32 && v <= math.MaxInt32 {
			return IntLiteral(int32(v))
		}
		return LongLiteral(int64(v))
	case int32:
		return IntLiteral(v)
	case int64:
		return LongLiteral(v)
	case float32:
		return FloatLiteral(v)
	case float64:
		return DoubleLiteral(v)
	case string:
		return StringLiteral(v)
	case uuid.UUID:
		return UUIDLiteral(v)
	case Decimal:
		return DecimalLiteral{Val: v.Val, Precision: decimalDigits(v.Val), Scale: v.Scale}
	case Binary:
		return BinaryLiteral(v)
	case []byte:
		return FixedLiteral(v)
	case Literal:
		return v
	default:
		panic(fmt.Sprintf("expr: cannot create literal from %T", value))
	}
}

// BoolLiteral is a boolean value.
type BoolLiteral bool

func (b BoolLiteral) Type() types.Type { return types.BooleanType{} }
func (b BoolLiteral) String() string   { return strconv.FormatBool(bool(b)) }

func (b BoolLiteral) To(t types.Type) Literal {
	if _, ok := t.(types.BooleanType); ok {
		return b
	}
	return nil
}

func (b BoolLiteral) Equals(o Literal) bool {
	other, ok := o.(BoolLiteral)
	return ok && b == other
}

// IntLiteral is a 32-bit integer value.
type IntLiteral int32

func (i IntLiteral) Type() types.Type { return types.IntType{} }
func (i IntLiteral) String() string   { return strconv.FormatInt(int64(i), 10) }

func (i IntLiteral) To(t types.Type) Literal {
	switch t := t.(type) {
	case types.IntType:
		return i
	case types.LongType:
		return LongLiteral(i)
	case types.FloatType:
		return FloatLiteral(i)
	case types.DoubleType:
		return DoubleLiteral(i)
	case types.DecimalType:
		return decimalFromInt64(int64(i), t)
	}
	return nil
}

func (i IntLiteral) Equals(o Literal) bool {
	other, ok := o.(IntLiteral)
	return ok && i == other
}

func (i IntLiteral) Compare(o Literal) int {
	return compareOrdered(int32(i), int32(o.(IntLiteral)))
}

// LongLiteral is a 64-bit integer value.
type LongLiteral int64

func (l LongLiteral) Type() types.Type { return types.LongType{} }
func (l LongLiteral) String() string   { return strconv.FormatInt(int64(l), 10) }

func (l LongLiteral) To(t types.Type) Literal {
	switch t := t.(type) {
	case types.IntType:
		if int64(l) > math.MaxInt32 {
			return AboveMax
		}
		if int64(l) < math.MinInt32 {
			return BelowMin
		}
		return IntLiteral(int32(l))
	case types.LongType:
		return l
	case types.FloatType:
		return FloatLiteral(l)
	case types.DoubleType:
		return DoubleLiteral(l)
	case types.DecimalType:
		return decimalFromInt64(int64(l), t)
	}
	return nil
}

func (l LongLiteral) Equals(o Literal) bool {
	other, ok := o.(LongLiteral)
	return ok && l == other
}

func (l LongLiteral) Compare(o Literal) int {
	return compareOrdered(int64(l), int64(o.(LongLiteral)))
}

// FloatLiteral is a 32-bit floating point value.
type FloatLiteral float32

func (f FloatLiteral) Type() types.Type { return types.FloatType{} }
func (f FloatLiteral) String() string   { return strconv.FormatFloat(float64(f), 'g', -1, 32) }

func (f FloatLiteral) To(t types.Type) Literal {
	switch t := t.(type) {
	case types.FloatType:
		return f
	case types.DoubleType:
		return DoubleLiteral(f)
	case types.DecimalType:
		return decimalFromFloat64(float64(f), t)
	}
	return nil
}

func (f FloatLiteral) Equals(o Literal) bool {
	other, ok := o.(FloatLiteral)
	return ok && f == other
}

func (f FloatLiteral) Compare(o Literal) int {
	return compareOrdered(float32(f), float32(o.(FloatLiteral)))
}

// DoubleLiteral is a 64-bit floating point value.
type DoubleLiteral float64

func (d DoubleLiteral) Type() types.Type { return types.DoubleType{} }
func (d DoubleLiteral) String() string   { return strconv.FormatFloat(float64(d), 'g', -1, 64) }

func (d DoubleLiteral) To(t types.Type) Literal {
	switch t := t.(type) {
	case types.FloatType:
		if float64(d) > math.MaxFloat32 {
			return AboveMax
		}
		if float64(d) < -math.MaxFloat32 {
			return BelowMin
		}
		return FloatLiteral(float32(d))
	case types.DoubleType:
		return d
	case types.DecimalType:
		return decimalFromFloat64(float64(d), t)
	}
	return nil
}

func (d DoubleLiteral) Equals(o Literal) bool {
	other, ok := o.(DoubleLiteral)
	return ok && d == other
}

func (d DoubleLiteral) Compare(o Literal) int {
	return compareOrdered(float64(d), float64(o.(DoubleLiteral)))
}

// DateLiteral is a date as days since 1970-01-01.
type DateLiteral int32

func (d DateLiteral) Type() types.Type { return types.DateType{} }
func (d DateLiteral) String() string {
	return time.Unix(int64(d)*86400, 0).UTC().Format("2006-01-02")
}

func (d DateLiteral) To(t types.Type) Literal {
	if _, ok := t.(types.DateType); ok {
		return d
	}
	return nil
}

func (d DateLiteral) Equals(o Literal) bool {
	other, ok := o.(DateLiteral)
	return ok && d == other
}

func (d DateLiteral) Compare(o Literal) int {
	return compareOrdered(int32(d), int32(o.(DateLiteral)))
}

// TimeLiteral is a time of day as microseconds since midnight.
type TimeLiteral int64

func (t TimeLiteral) Type() types.Type { return types.TimeType{} }
func (t TimeLiteral) String() string {
	return time.UnixMicro(int64(t)).UTC().Format("15:04:05.000000")
}

func (t TimeLiteral) To(target types.Type) Literal {
	if _, ok := target.(types.TimeType); ok {
		return t
	}
	return nil
}

func (t TimeLiteral) Equals(o Literal) bool {
	other, ok := o.(TimeLiteral)
	return ok && t == other
}

func (t TimeLiteral) Compare(o Literal) int {
	return compareOrdered(int64(t), int64(o.(TimeLiteral)))
}

// TimestampLiteral is a zone-less timestamp as microseconds since the
// epoch.
type TimestampLiteral int64

func (t TimestampLiteral) Type() types.Type { return types.TimestampType{} }
func (t TimestampLiteral) String() string {
	return time.UnixMicro(int64(t)).UTC().Format("2006-01-02T15:04:05.000000")
}

func (t TimestampLiteral) To(target types.Type) Literal {
	switch target.(type) {
	case types.TimestampType:
		return t
	case types.TimestampTzType:
		return TimestampTzLiteral(t)
	}
	return nil
}

func (t TimestampLiteral) Equals(o Literal) bool {
	other, ok := o.(TimestampLiteral)
	return ok && t == other
}

func (t TimestampLiteral) Compare(o Literal) int {
	return compareOrdered(int64(t), int64(o.(TimestampLiteral)))
}

// TimestampTzLiteral is a UTC-adjusted timestamp as microseconds since the
// epoch.
type TimestampTzLiteral int64

func (t TimestampTzLiteral) Type() types.Type { return types.TimestampTzType{} }
func (t TimestampTzLiteral) String() string {
	return time.UnixMicro(int64(t)).UTC().Format("2006-01-02T15:04:05.000000Z07:00")
}

func (t TimestampTzLiteral) To(target types.Type) Literal {
	switch target.(type) {
	case types.TimestampTzType:
		return t
	case types.TimestampType:
		return TimestampLiteral(t)
	}
	return nil
}

func (t TimestampTzLiteral) Equals(o Literal) bool {
	other, ok := o.(TimestampTzLiteral)
	return ok && t == other
}

func (t TimestampTzLiteral) Compare(o Literal) int {
	return compareOrdered(int64(t), int64(o.(TimestampTzLiteral)))
}

// StringLiteral is a UTF-8 string value. Strings convert to types that are
// awkward to construct directly — dates, times, timestamps, decimals, and
// UUIDs — but not to numeric types.
type StringLiteral string

func (s StringLiteral) Type() types.Type { return types.StringType{} }
func (s StringLiteral) String() string   { return string(s) }

func (s StringLiteral) To(t types.Type) Literal {
	switch t := t.(type) {
	case types.StringType:
		return s
	case types.DateType:
		parsed, err := time.Parse("2006-01-02", string(s))
		if err != nil {
			return nil
		}
		return DateLiteral(int32(parsed.Unix() / 86400))
	case types.TimeType:
		parsed, err := time.Parse("15:04:05", string(s))
		if err != nil {
			return nil
		}
		micros := int64(parsed.Hour())*3600_000_000 +
			int64(parsed.Minute())*60_000_000 +
			int64(parsed.Second())*1_000_000 +
			int64(parsed.Nanosecond())/1000
		return TimeLiteral(micros)
	case types.TimestampType:
		parsed, err := time.Parse("2006-01-02T15:04:05", string(s))
		if err != nil {
			return nil
		}
		return TimestampLiteral(parsed.UnixMicro())
	case types.TimestampTzType:
		parsed, err := time.Parse(time.RFC3339, string(s))
		if err != nil {
			return nil
		}
		return TimestampTzLiteral(parsed.UnixMicro())
	case types.UUIDType:
		parsed, err := uuid.Parse(string(s))
		if err != nil {
			return nil
		}
		return UUIDLiteral(parsed)
	case types.DecimalType:
		unscaled, scale, ok := parseDecimalString(string(s))
		if !ok || scale != t.Scale {
			return nil
		}
		if unscaled.BitLen() > 128 {
			if unscaled.Sign() < 0 {
				return BelowMin
			}
			return AboveMax
		}
		num := decimal128.FromBigInt(unscaled)
		if !num.FitsInPrecision(int32(t.Precision)) {
			if unscaled.Sign() < 0 {
				return BelowMin
			}
			return AboveMax
		}
		return DecimalLiteral{Val: num, Precision: t.Precision, Scale: t.Scale}
	}
	return nil
}

func (s StringLiteral) Equals(o Literal) bool {
	other, ok := o.(StringLiteral)
	return ok && s == other
}

func (s StringLiteral) Compare(o Literal) int {
	return compareOrdered(string(s), string(o.(StringLiteral)))
}

// UUIDLiteral is a 16-byte universally unique identifier.
type UUIDLiteral uuid.UUID

func (u UUIDLiteral) Type() types.Type { return types.UUIDType{} }
func (u UUIDLiteral) String() string   { return uuid.UUID(u).String() }

func (u UUIDLiteral) To(t types.Type) Literal {
	if _, ok := t.(types.UUIDType); ok {
		return u
	}
	return nil
}

func (u UUIDLiteral) Equals(o Literal) bool {
	other, ok := o.(UUIDLiteral)
	return ok && uuid.UUID(u) == uuid.UUID(other)
}

func (u UUIDLiteral) Compare(o Literal) int {
	other := o.(UUIDLiteral)
	return bytes.Compare(u[:], other[:])
}

// FixedLiteral is a fixed-length byte array; its type length is the slice
// length.
type FixedLiteral []byte

func (f FixedLiteral) Type() types.Type { return types.FixedOf(len(f)) }
func (f FixedLiteral) String() string   { return fmt.Sprintf("X'%X'", []byte(f)) }

func (f FixedLiteral) To(t types.Type) Literal {
	switch t := t.(type) {
	case types.FixedType:
		if t.Len == len(f) {
			return f
		}
		return nil
	case types.BinaryType:
		return BinaryLiteral(f)
	}
	return nil
}

func (f FixedLiteral) Equals(o Literal) bool {
	other, ok := o.(FixedLiteral)
	return ok && bytes.Equal(f, other)
}

func (f FixedLiteral) Compare(o Literal) int {
	return bytes.Compare(f, o.(FixedLiteral))
}

// BinaryLiteral is an arbitrary-length byte array.
type BinaryLiteral []byte

func (b BinaryLiteral) Type() types.Type { return types.BinaryType{} }
func (b BinaryLiteral) String() string   { return fmt.Sprintf("X'%X'", []byte(b)) }

func (b BinaryLiteral) To(t types.Type) Literal {
	switch t := t.(type) {
	case types.BinaryType:
		return b
	case types.FixedType:
		if t.Len == len(b) {
			return FixedLiteral(b)
		}
		return nil
	}
	return nil
}

func (b BinaryLiteral) Equals(o Literal) bool {
	other, ok := o.(BinaryLiteral)
	return ok && bytes.Equal(b, other)
}

func (b BinaryLiteral) Compare(o Literal) int {
	return bytes.Compare(b, o.(BinaryLiteral))
}

func compareOrdered[T interface {
	~int32 | ~int64 | ~float32 | ~float64 | ~string
}](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
