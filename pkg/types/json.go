package types

import (
	"encoding/json"
	"fmt"
	"strings"

	floeerrors "github.com/arkilian/floe/internal/errors"
)

// fieldJSON mirrors the wire form of a NestedField.
type fieldJSON struct {
	ID       int             `json:"id"`
	Name     string          `json:"name"`
	Required bool            `json:"required"`
	Type     json.RawMessage `json:"type"`
}

type structJSON struct {
	Type   string      `json:"type"`
	Fields []fieldJSON `json:"fields"`
}

type listJSON struct {
	Type            string          `json:"type"`
	ElementID       int             `json:"element-id"`
	Element         json.RawMessage `json:"element"`
	ElementRequired bool            `json:"element-required"`
}

type mapJSON struct {
	Type          string          `json:"type"`
	KeyID         int             `json:"key-id"`
	Key           json.RawMessage `json:"key"`
	ValueID       int             `json:"value-id"`
	Value         json.RawMessage `json:"value"`
	ValueRequired bool            `json:"value-required"`
}

// TypeToJSON serializes a type to its wire form: a keyword string for
// primitives, an object for struct, list, and map.
func TypeToJSON(t Type) ([]byte, error) {
	switch t := t.(type) {
	case StructType:
		fields := make([]fieldJSON, len(t.FieldList))
		for i, f := range t.FieldList {
			raw, err := TypeToJSON(f.Type)
			if err != nil {
				return nil, err
			}
			fields[i] = fieldJSON{ID: f.ID, Name: f.Name, Required: f.Required, Type: raw}
		}
		return json.Marshal(structJSON{Type: "struct", Fields: fields})
	case ListType:
		element, err := TypeToJSON(t.Element)
		if err != nil {
			return nil, err
		}
		return json.Marshal(listJSON{
			Type: "list", ElementID: t.ElementID,
			Element: element, ElementRequired: t.ElementRequired,
		})
	case MapType:
		key, err := TypeToJSON(t.Key)
		if err != nil {
			return nil, err
		}
		value, err := TypeToJSON(t.Value)
		if err != nil {
			return nil, err
		}
		return json.Marshal(mapJSON{
			Type:  "map",
			KeyID: t.KeyID, Key: key,
			ValueID: t.ValueID, Value: value, ValueRequired: t.ValueRequired,
		})
	default:
		return json.Marshal(t.String())
	}
}

// TypeFromJSON parses a type from its wire form.
func TypeFromJSON(data []byte) (Type, error) {
	data = []byte(strings.TrimSpace(string(data)))
	if len(data) == 0 {
		return nil, floeerrors.NewValidationError(floeerrors.CodeInvalidOperation, "empty type document")
	}

	if data[0] == '"' {
		var keyword string
		if err := json.Unmarshal(data, &keyword); err != nil {
			return nil, floeerrors.Wrap(floeerrors.ErrCategoryValidation, floeerrors.CodeInvalidOperation, "malformed type keyword", err)
		}
		return primitiveFromKeyword(keyword)
	}

	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, floeerrors.Wrap(floeerrors.ErrCategoryValidation, floeerrors.CodeInvalidOperation, "malformed type document", err)
	}

	switch head.Type {
	case "struct":
		var st structJSON
		if err := json.Unmarshal(data, &st); err != nil {
			return nil, floeerrors.Wrap(floeerrors.ErrCategoryValidation, floeerrors.CodeInvalidOperation, "malformed struct type", err)
		}
		fields := make([]NestedField, len(st.Fields))
		for i, f := range st.Fields {
			inner, err := TypeFromJSON(f.Type)
			if err != nil {
				return nil, err
			}
			fields[i] = NestedField{ID: f.ID, Name: f.Name, Required: f.Required, Type: inner}
		}
		return StructOf(fields...), nil
	case "list":
		var l listJSON
		if err := json.Unmarshal(data, &l); err != nil {
			return nil, floeerrors.Wrap(floeerrors.ErrCategoryValidation, floeerrors.CodeInvalidOperation, "malformed list type", err)
		}
		element, err := TypeFromJSON(l.Element)
		if err != nil {
			return nil, err
		}
		return ListType{ElementID: l.ElementID, Element: element, ElementRequired: l.ElementRequired}, nil
	case "map":
		var m mapJSON
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, floeerrors.Wrap(floeerrors.ErrCategoryValidation, floeerrors.CodeInvalidOperation, "malformed map type", err)
		}
		key, err := TypeFromJSON(m.Key)
		if err != nil {
			return nil, err
		}
		value, err := TypeFromJSON(m.Value)
		if err != nil {
			return nil, err
		}
		return MapType{KeyID: m.KeyID, Key: key, ValueID: m.ValueID, Value: value, ValueRequired: m.ValueRequired}, nil
	default:
		return nil, floeerrors.Newf(floeerrors.ErrCategoryValidation, floeerrors.CodeInvalidOperation,
			"unknown nested type: %q", head.Type)
	}
}

func primitiveFromKeyword(keyword string) (Type, error) {
	switch keyword {
	case "boolean":
		return BooleanType{}, nil
	case "int":
		return IntType{}, nil
	case "long":
		return LongType{}, nil
	case "float":
		return FloatType{}, nil
	case "double":
		return DoubleType{}, nil
	case "date":
		return DateType{}, nil
	case "time":
		return TimeType{}, nil
	case "timestamp":
		return TimestampType{}, nil
	case "timestamptz":
		return TimestampTzType{}, nil
	case "string":
		return StringType{}, nil
	case "uuid":
		return UUIDType{}, nil
	case "binary":
		return BinaryType{}, nil
	}

	var n int
	if _, err := fmt.Sscanf(keyword, "fixed[%d]", &n); err == nil && strings.HasSuffix(keyword, "]") {
		return FixedOf(n), nil
	}
	var p, sc int
	if _, err := fmt.Sscanf(keyword, "decimal(%d,%d)", &p, &sc); err == nil && strings.HasSuffix(keyword, ")") {
		if p < 0 || p >= 40 {
			return nil, floeerrors.Newf(floeerrors.ErrCategoryValidation, floeerrors.CodeInvalidOperation,
				"unsupported decimal precision: %d", p)
		}
		return DecimalOf(p, sc), nil
	}

	return nil, floeerrors.Newf(floeerrors.ErrCategoryValidation, floeerrors.CodeInvalidOperation,
		"unknown primitive type: %q", keyword)
}

// MarshalJSON serializes the schema as its root struct type.
func (s *Schema) MarshalJSON() ([]byte, error) {
	return TypeToJSON(s.root)
}

// UnmarshalJSON parses a schema from a struct type document.
func (s *Schema) UnmarshalJSON(data []byte) error {
	parsed, err := SchemaFromJSON(data)
	if err != nil {
		return err
	}
	*s = *parsed
	return nil
}

// SchemaFromJSON parses a schema from a struct type document.
func SchemaFromJSON(data []byte) (*Schema, error) {
	t, err := TypeFromJSON(data)
	if err != nil {
		return nil, err
	}
	st, ok := t.(StructType)
	if !ok {
		return nil, floeerrors.Newf(floeerrors.ErrCategoryValidation, floeerrors.CodeInvalidOperation,
			"schema root must be a struct, got %s", t)
	}
	return NewSchema(st.FieldList...), nil
}
