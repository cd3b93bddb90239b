package partition

import (
	"encoding/json"

	floeerrors "github.com/arkilian/floe/internal/errors"
	"github.com/arkilian/floe/pkg/transform"
	"github.com/arkilian/floe/pkg/types"
)

type specJSON struct {
	SpecID int             `json:"spec-id"`
	Fields []specFieldJSON `json:"fields"`
}

type specFieldJSON struct {
	Name      string `json:"name"`
	Transform string `json:"transform"`
	SourceID  int    `json:"source-id"`
}

// MarshalJSON serializes the spec as
// {"spec-id":N,"fields":[{"name","transform","source-id"}...]}.
func (s *Spec) MarshalJSON() ([]byte, error) {
	fields := make([]specFieldJSON, len(s.fields))
	for i, f := range s.fields {
		fields[i] = specFieldJSON{Name: f.Name, Transform: f.Transform.String(), SourceID: f.SourceID}
	}
	return json.Marshal(specJSON{SpecID: s.specID, Fields: fields})
}

// SpecFromJSON parses a partition spec document against the schema its
// source ids refer to.
func SpecFromJSON(schema *types.Schema, data []byte) (*Spec, error) {
	var doc specJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, floeerrors.Wrap(floeerrors.ErrCategoryValidation, floeerrors.CodeInvalidOperation,
			"malformed partition spec document", err)
	}

	fields := make([]Field, len(doc.Fields))
	for i, f := range doc.Fields {
		t, err := transform.Parse(f.Transform)
		if err != nil {
			return nil, err
		}
		if _, ok := schema.FindFieldByID(f.SourceID); !ok {
			return nil, floeerrors.Newf(floeerrors.ErrCategoryValidation, floeerrors.CodeFieldNotFound,
				"partition field %q references unknown source id %d", f.Name, f.SourceID)
		}
		fields[i] = Field{SourceID: f.SourceID, Transform: t, Name: f.Name}
	}

	return &Spec{schema: schema, specID: doc.SpecID, fields: fields}, nil
}
