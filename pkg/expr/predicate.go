package expr

import (
	"fmt"

	"github.com/arkilian/floe/pkg/types"
)

// NamedReference refers to a column by dotted name, before binding.
type NamedReference struct {
	Name string
}

// BoundReference refers to a field of a concrete struct type by id.
type BoundReference struct {
	Struct types.StructType
	Field  types.NestedField
}

// FieldID returns the referenced field's id.
func (r BoundReference) FieldID() int { return r.Field.ID }

// Type returns the referenced field's type.
func (r BoundReference) Type() types.Type { return r.Field.Type }

// UnboundPredicate is a comparison over a named column and a raw literal.
// IsNull and NotNull predicates carry no literal.
type UnboundPredicate struct {
	Operation Operation
	Ref       NamedReference
	Lit       Literal
}

// Predicate builds an unbound predicate over a named column. Null-check
// operations take a nil literal.
func Predicate(op Operation, name string, lit Literal) *UnboundPredicate {
	return &UnboundPredicate{Operation: op, Ref: NamedReference{Name: name}, Lit: lit}
}

// IsNull matches rows whose column is null.
func IsNull(name string) *UnboundPredicate { return Predicate(OpIsNull, name, nil) }

// NotNull matches rows whose column is not null.
func NotNull(name string) *UnboundPredicate { return Predicate(OpNotNull, name, nil) }

// LessThan matches rows whose column is below the value.
func LessThan(name string, value any) *UnboundPredicate {
	return Predicate(OpLt, name, Of(value))
}

// LessThanOrEqual matches rows whose column is at most the value.
func LessThanOrEqual(name string, value any) *UnboundPredicate {
	return Predicate(OpLtEq, name, Of(value))
}

// GreaterThan matches rows whose column is above the value.
func GreaterThan(name string, value any) *UnboundPredicate {
	return Predicate(OpGt, name, Of(value))
}

// GreaterThanOrEqual matches rows whose column is at least the value.
func GreaterThanOrEqual(name string, value any) *UnboundPredicate {
	return Predicate(OpGtEq, name, Of(value))
}

// Equal matches rows whose column equals the value.
func Equal(name string, value any) *UnboundPredicate {
	return Predicate(OpEq, name, Of(value))
}

// NotEqual matches rows whose column differs from the value.
func NotEqual(name string, value any) *UnboundPredicate {
	return Predicate(OpNotEq, name, Of(value))
}

func (p *UnboundPredicate) Op() Operation { return p.Operation }

func (p *UnboundPredicate) Negate() Expression {
	return &UnboundPredicate{Operation: p.Operation.Negate(), Ref: p.Ref, Lit: p.Lit}
}

func (p *UnboundPredicate) String() string {
	if p.Lit == nil {
		return fmt.Sprintf("%s(ref(%s))", p.Operation, p.Ref.Name)
	}
	return fmt.Sprintf("%s(ref(%s), %s)", p.Operation, p.Ref.Name, p.Lit)
}

func (p *UnboundPredicate) Equals(o Expression) bool {
	other, ok := o.(*UnboundPredicate)
	if !ok || p.Operation != other.Operation || p.Ref.Name != other.Ref.Name {
		return false
	}
	if p.Lit == nil || other.Lit == nil {
		return p.Lit == nil && other.Lit == nil
	}
	return p.Lit.Equals(other.Lit)
}

// BoundPredicate is a comparison over a resolved field with a literal
// converted to the field's type.
type BoundPredicate struct {
	Operation Operation
	Ref       BoundReference
	Lit       Literal
}

func (p *BoundPredicate) Op() Operation { return p.Operation }

func (p *BoundPredicate) Negate() Expression {
	return &BoundPredicate{Operation: p.Operation.Negate(), Ref: p.Ref, Lit: p.Lit}
}

func (p *BoundPredicate) String() string {
	if p.Lit == nil {
		return fmt.Sprintf("%s(bound(%d))", p.Operation, p.Ref.FieldID())
	}
	return fmt.Sprintf("%s(bound(%d), %s)", p.Operation, p.Ref.FieldID(), p.Lit)
}

func (p *BoundPredicate) Equals(o Expression) bool {
	other, ok := o.(*BoundPredicate)
	if !ok || p.Operation != other.Operation || p.Ref.FieldID() != other.Ref.FieldID() {
		return false
	}
	if p.Lit == nil || other.Lit == nil {
		return p.Lit == nil && other.Lit == nil
	}
	return p.Lit.Equals(other.Lit)
}
