package expr

import "github.com/arkilian/floe/pkg/types"

// AboveMax and BelowMin are the sentinel results of a conversion whose
// source value lies outside the target type's domain. They carry no value
// and convert to nothing; binding uses them to fold predicates to
// AlwaysTrue or AlwaysFalse instead of raising.
var (
	AboveMax Literal = aboveMaxLiteral{}
	BelowMin Literal = belowMinLiteral{}
)

type aboveMaxLiteral struct{}

func (aboveMaxLiteral) Type() types.Type      { return nil }
func (aboveMaxLiteral) To(types.Type) Literal { return nil }
func (aboveMaxLiteral) String() string        { return "aboveMax" }
func (aboveMaxLiteral) Equals(o Literal) bool { _, ok := o.(aboveMaxLiteral); return ok }

type belowMinLiteral struct{}

func (belowMinLiteral) Type() types.Type      { return nil }
func (belowMinLiteral) To(types.Type) Literal { return nil }
func (belowMinLiteral) String() string        { return "belowMin" }
func (belowMinLiteral) Equals(o Literal) bool { _, ok := o.(belowMinLiteral); return ok }

// IsAboveMax reports whether l is the above-max sentinel.
func IsAboveMax(l Literal) bool {
	_, ok := l.(aboveMaxLiteral)
	return ok
}

// IsBelowMin reports whether l is the below-min sentinel.
func IsBelowMin(l Literal) bool {
	_, ok := l.(belowMinLiteral)
	return ok
}

// IsSentinel reports whether l is either conversion sentinel.
func IsSentinel(l Literal) bool {
	return IsAboveMax(l) || IsBelowMin(l)
}
