package expr

import (
	floeerrors "github.com/arkilian/floe/internal/errors"
	"github.com/arkilian/floe/pkg/types"
)

// Bind resolves the predicate against a struct type's direct fields and
// converts the literal to the field's type. Out-of-range conversions fold
// the predicate to a constant; undefined conversions and missing fields are
// validation errors.
func (p *UnboundPredicate) Bind(st types.StructType) (Expression, error) {
	field, ok := st.Field(p.Ref.Name)
	if !ok {
		return nil, floeerrors.Newf(floeerrors.ErrCategoryValidation, floeerrors.CodeFieldNotFound,
			"cannot find field '%s' in struct: %s", p.Ref.Name, st)
	}
	return p.bindToField(st, field)
}

// BindSchema resolves the predicate against a schema, allowing dotted
// nested names and aliases.
func (p *UnboundPredicate) BindSchema(schema *types.Schema) (Expression, error) {
	field, ok := schema.FindField(p.Ref.Name)
	if !ok {
		return nil, floeerrors.Newf(floeerrors.ErrCategoryValidation, floeerrors.CodeFieldNotFound,
			"cannot find field '%s' in schema: %s", p.Ref.Name, schema)
	}
	return p.bindToField(schema.AsStruct(), field)
}

func (p *UnboundPredicate) bindToField(st types.StructType, field types.NestedField) (Expression, error) {
	if p.Lit == nil {
		switch p.Operation {
		case OpIsNull:
			if field.Required {
				return AlwaysFalse, nil
			}
			return &BoundPredicate{Operation: OpIsNull, Ref: BoundReference{Struct: st, Field: field}}, nil
		case OpNotNull:
			if field.Required {
				return AlwaysTrue, nil
			}
			return &BoundPredicate{Operation: OpNotNull, Ref: BoundReference{Struct: st, Field: field}}, nil
		default:
			return nil, floeerrors.Newf(floeerrors.ErrCategoryValidation, floeerrors.CodeInvalidOperation,
				"operation %s requires a literal value", p.Operation)
		}
	}

	lit := p.Lit.To(field.Type)
	switch {
	case lit == nil:
		return nil, floeerrors.Newf(floeerrors.ErrCategoryValidation, floeerrors.CodeInvalidLiteral,
			"invalid value for comparison with type %s: %s", field.Type, p.Lit)

	case IsAboveMax(lit):
		switch p.Operation {
		case OpLt, OpLtEq, OpNotEq:
			return AlwaysTrue, nil
		case OpGt, OpGtEq, OpEq:
			return AlwaysFalse, nil
		}

	case IsBelowMin(lit):
		switch p.Operation {
		case OpGt, OpGtEq, OpNotEq:
			return AlwaysTrue, nil
		case OpLt, OpLtEq, OpEq:
			return AlwaysFalse, nil
		}
	}

	return &BoundPredicate{Operation: p.Operation, Ref: BoundReference{Struct: st, Field: field}, Lit: lit}, nil
}

// BindExpr binds every predicate of an expression tree against a schema,
// folding constants as it rebuilds.
func BindExpr(schema *types.Schema, e Expression) (Expression, error) {
	switch e := e.(type) {
	case trueExpr, falseExpr:
		return e, nil
	case AndExpr:
		left, err := BindExpr(schema, e.Left)
		if err != nil {
			return nil, err
		}
		right, err := BindExpr(schema, e.Right)
		if err != nil {
			return nil, err
		}
		return And(left, right), nil
	case OrExpr:
		left, err := BindExpr(schema, e.Left)
		if err != nil {
			return nil, err
		}
		right, err := BindExpr(schema, e.Right)
		if err != nil {
			return nil, err
		}
		return Or(left, right), nil
	case NotExpr:
		child, err := BindExpr(schema, e.Child)
		if err != nil {
			return nil, err
		}
		return Not(child), nil
	case *UnboundPredicate:
		return e.BindSchema(schema)
	case *BoundPredicate:
		return e, nil
	default:
		return nil, floeerrors.Newf(floeerrors.ErrCategoryExpression, floeerrors.CodeInvalidOperation,
			"cannot bind expression: %s", e)
	}
}
