package types

import "fmt"

// BooleanType is a true/false value.
type BooleanType struct{}

func (BooleanType) TypeID() TypeID     { return BooleanID }
func (BooleanType) String() string     { return "boolean" }
func (BooleanType) primitive()         {}
func (BooleanType) Equals(o Type) bool { _, ok := o.(BooleanType); return ok }

// IntType is a 32-bit signed integer.
type IntType struct{}

func (IntType) TypeID() TypeID     { return IntID }
func (IntType) String() string     { return "int" }
func (IntType) primitive()         {}
func (IntType) Equals(o Type) bool { _, ok := o.(IntType); return ok }

// LongType is a 64-bit signed integer.
type LongType struct{}

func (LongType) TypeID() TypeID     { return LongID }
func (LongType) String() string     { return "long" }
func (LongType) primitive()         {}
func (LongType) Equals(o Type) bool { _, ok := o.(LongType); return ok }

// FloatType is a 32-bit IEEE 754 value.
type FloatType struct{}

func (FloatType) TypeID() TypeID     { return FloatID }
func (FloatType) String() string     { return "float" }
func (FloatType) primitive()         {}
func (FloatType) Equals(o Type) bool { _, ok := o.(FloatType); return ok }

// DoubleType is a 64-bit IEEE 754 value.
type DoubleType struct{}

func (DoubleType) TypeID() TypeID     { return DoubleID }
func (DoubleType) String() string     { return "double" }
func (DoubleType) primitive()         {}
func (DoubleType) Equals(o Type) bool { _, ok := o.(DoubleType); return ok }

// DateType is a calendar date stored as days since 1970-01-01.
type DateType struct{}

func (DateType) TypeID() TypeID     { return DateID }
func (DateType) String() string     { return "date" }
func (DateType) primitive()         {}
func (DateType) Equals(o Type) bool { _, ok := o.(DateType); return ok }

// TimeType is a time of day stored as microseconds since midnight.
type TimeType struct{}

func (TimeType) TypeID() TypeID     { return TimeID }
func (TimeType) String() string     { return "time" }
func (TimeType) primitive()         {}
func (TimeType) Equals(o Type) bool { _, ok := o.(TimeType); return ok }

// TimestampType is a zone-less timestamp stored as microseconds since the
// epoch.
type TimestampType struct{}

func (TimestampType) TypeID() TypeID     { return TimestampID }
func (TimestampType) String() string     { return "timestamp" }
func (TimestampType) primitive()         {}
func (TimestampType) Equals(o Type) bool { _, ok := o.(TimestampType); return ok }

// TimestampTzType is a UTC-adjusted timestamp stored as microseconds since
// the epoch.
type TimestampTzType struct{}

func (TimestampTzType) TypeID() TypeID     { return TimestampTzID }
func (TimestampTzType) String() string     { return "timestamptz" }
func (TimestampTzType) primitive()         {}
func (TimestampTzType) Equals(o Type) bool { _, ok := o.(TimestampTzType); return ok }

// StringType is an arbitrary-length UTF-8 string.
type StringType struct{}

func (StringType) TypeID() TypeID     { return StringID }
func (StringType) String() string     { return "string" }
func (StringType) primitive()         {}
func (StringType) Equals(o Type) bool { _, ok := o.(StringType); return ok }

// UUIDType is a universally unique identifier, 16 bytes.
type UUIDType struct{}

func (UUIDType) TypeID() TypeID     { return UUIDID }
func (UUIDType) String() string     { return "uuid" }
func (UUIDType) primitive()         {}
func (UUIDType) Equals(o Type) bool { _, ok := o.(UUIDType); return ok }

// FixedType is a fixed-length byte array.
type FixedType struct {
	Len int
}

// FixedOf returns the fixed type of the given byte length.
func FixedOf(length int) FixedType { return FixedType{Len: length} }

func (f FixedType) TypeID() TypeID { return FixedID }
func (f FixedType) String() string { return fmt.Sprintf("fixed[%d]", f.Len) }
func (f FixedType) primitive()     {}
func (f FixedType) Equals(o Type) bool {
	other, ok := o.(FixedType)
	return ok && f.Len == other.Len
}

// BinaryType is an arbitrary-length byte array.
type BinaryType struct{}

func (BinaryType) TypeID() TypeID     { return BinaryID }
func (BinaryType) String() string     { return "binary" }
func (BinaryType) primitive()         {}
func (BinaryType) Equals(o Type) bool { _, ok := o.(BinaryType); return ok }

// DecimalType is a fixed-point decimal with the given precision and scale.
type DecimalType struct {
	Precision int
	Scale     int
}

// DecimalOf returns the decimal type with the given precision and scale.
// Precision must be representable in at most 23 bytes; out-of-range
// precision panics.
func DecimalOf(precision, scale int) DecimalType {
	// validates the precision range
	DecimalRequiredBytes(precision)
	return DecimalType{Precision: precision, Scale: scale}
}

func (d DecimalType) TypeID() TypeID { return DecimalID }
func (d DecimalType) String() string {
	return fmt.Sprintf("decimal(%d,%d)", d.Precision, d.Scale)
}
func (d DecimalType) primitive() {}
func (d DecimalType) Equals(o Type) bool {
	other, ok := o.(DecimalType)
	return ok && d.Precision == other.Precision && d.Scale == other.Scale
}
