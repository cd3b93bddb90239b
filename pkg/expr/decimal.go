package expr

import (
	"math/big"
	"strings"

	"github.com/apache/arrow-go/v18/arrow/decimal128"

	"github.com/arkilian/floe/pkg/types"
)

// Decimal is a fixed-point value: an unscaled 128-bit integer and a scale.
type Decimal struct {
	Val   decimal128.Num
	Scale int
}

// ParseDecimal parses a plain decimal string such as "14.20". The scale is
// the number of digits after the point.
func ParseDecimal(s string) (Decimal, bool) {
	unscaled, scale, ok := parseDecimalString(s)
	if !ok {
		return Decimal{}, false
	}
	if unscaled.BitLen() > 128 {
		return Decimal{}, false
	}
	num := decimal128.FromBigInt(unscaled)
	return Decimal{Val: num, Scale: scale}, true
}

// DecimalLiteral is a decimal value tagged with its precision and scale.
// Decimals compare by numeric value regardless of scale.
type DecimalLiteral struct {
	Val       decimal128.Num
	Precision int
	Scale     int
}

func (d DecimalLiteral) Type() types.Type {
	return types.DecimalType{Precision: d.Precision, Scale: d.Scale}
}

func (d DecimalLiteral) String() string {
	return d.Val.ToString(int32(d.Scale))
}

func (d DecimalLiteral) To(t types.Type) Literal {
	target, ok := t.(types.DecimalType)
	if !ok {
		return nil
	}
	// rescaling is not a metadata operation: the scale must match, and the
	// precision may change as long as the value fits the target precision
	if target.Scale != d.Scale {
		return nil
	}
	if !d.Val.FitsInPrecision(int32(target.Precision)) {
		if d.Val.Sign() < 0 {
			return BelowMin
		}
		return AboveMax
	}
	if target.Precision == d.Precision {
		return d
	}
	return DecimalLiteral{Val: d.Val, Precision: target.Precision, Scale: d.Scale}
}

func (d DecimalLiteral) Equals(o Literal) bool {
	other, ok := o.(DecimalLiteral)
	return ok && d.Compare(other) == 0
}

func (d DecimalLiteral) Compare(o Literal) int {
	other := o.(DecimalLiteral)
	if d.Scale == other.Scale {
		return d.Val.Cmp(other.Val)
	}

	// compare by numeric value: align on the larger scale
	left, right := d.Val.BigInt(), other.Val.BigInt()
	if d.Scale < other.Scale {
		left.Mul(left, pow10(other.Scale-d.Scale))
	} else {
		right.Mul(right, pow10(d.Scale-other.Scale))
	}
	return left.Cmp(right)
}

// UnscaledBytes returns the minimal two's-complement big-endian encoding of
// the unscaled value, the form both the wire representation and the bucket
// transform consume.
func (d DecimalLiteral) UnscaledBytes() []byte {
	return twosComplementBytes(d.Val.BigInt())
}

func decimalFromInt64(v int64, t types.DecimalType) Literal {
	unscaled := decimal128.FromI64(v)
	if t.Scale != 0 {
		rescaled, err := unscaled.Rescale(0, int32(t.Scale))
		if err != nil {
			if v < 0 {
				return BelowMin
			}
			return AboveMax
		}
		unscaled = rescaled
	}
	if !unscaled.FitsInPrecision(int32(t.Precision)) {
		if v < 0 {
			return BelowMin
		}
		return AboveMax
	}
	return DecimalLiteral{Val: unscaled, Precision: t.Precision, Scale: t.Scale}
}

func decimalFromFloat64(v float64, t types.DecimalType) Literal {
	num, err := decimal128.FromFloat64(v, int32(t.Precision), int32(t.Scale))
	if err != nil {
		if v < 0 {
			return BelowMin
		}
		return AboveMax
	}
	return DecimalLiteral{Val: num, Precision: t.Precision, Scale: t.Scale}
}

// parseDecimalString parses [+-]digits[.digits] into an unscaled integer
// and a scale. Anything else fails.
func parseDecimalString(s string) (*big.Int, int, bool) {
	if s == "" {
		return nil, 0, false
	}

	digits := s
	negative := false
	switch digits[0] {
	case '+':
		digits = digits[1:]
	case '-':
		negative = true
		digits = digits[1:]
	}

	whole, frac, hasPoint := strings.Cut(digits, ".")
	if whole == "" || (hasPoint && frac == "") {
		return nil, 0, false
	}
	for _, r := range whole + frac {
		if r < '0' || r > '9' {
			return nil, 0, false
		}
	}

	unscaled, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok {
		return nil, 0, false
	}
	if negative {
		unscaled.Neg(unscaled)
	}
	return unscaled, len(frac), true
}

func decimalDigits(v decimal128.Num) int {
	return len(new(big.Int).Abs(v.BigInt()).String())
}

func pow10(n int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}

// twosComplementBytes encodes v in minimal two's-complement big-endian
// form, matching java.math.BigInteger.toByteArray.
func twosComplementBytes(v *big.Int) []byte {
	if v.Sign() >= 0 {
		b := v.Bytes()
		if len(b) == 0 {
			return []byte{0}
		}
		if b[0]&0x80 != 0 {
			return append([]byte{0}, b...)
		}
		return b
	}

	// find the minimal byte length n with v >= -2^(8n-1)
	n := 1
	for {
		limit := new(big.Int).Lsh(big.NewInt(1), uint(8*n-1))
		limit.Neg(limit)
		if v.Cmp(limit) >= 0 {
			break
		}
		n++
	}
	shifted := new(big.Int).Lsh(big.NewInt(1), uint(8*n))
	shifted.Add(shifted, v)
	b := shifted.Bytes()
	// 2^(8n)+v always has its high bit set, so the encoding is exactly n bytes
	return b
}

// twosComplementToBigInt decodes a minimal two's-complement big-endian
// encoding.
func twosComplementToBigInt(b []byte) *big.Int {
	v := new(big.Int).SetBytes(b)
	if len(b) > 0 && b[0]&0x80 != 0 {
		shifted := new(big.Int).Lsh(big.NewInt(1), uint(8*len(b)))
		v.Sub(v, shifted)
	}
	return v
}
