package partition

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkilian/floe/pkg/transform"
	"github.com/arkilian/floe/pkg/types"
)

func specSchema() *types.Schema {
	return types.NewSchema(
		types.RequiredField(1, "id", types.LongType{}),
		types.OptionalField(2, "data", types.StringType{}),
		types.OptionalField(3, "ts", types.TimestampType{}),
	)
}

func TestBuilder(t *testing.T) {
	spec, err := NewBuilder(specSchema()).
		WithSpecID(3).
		Bucket("id", 16).
		Day("ts").
		Identity("data").
		Build()
	require.NoError(t, err)

	assert.Equal(t, 3, spec.SpecID())
	require.Len(t, spec.Fields(), 3)
	assert.Equal(t, Field{SourceID: 1, Transform: transform.Bucket{N: 16}, Name: "id_bucket"}, spec.Fields()[0])
	assert.Equal(t, Field{SourceID: 3, Transform: transform.Day{}, Name: "ts_day"}, spec.Fields()[1])
	assert.Equal(t, Field{SourceID: 2, Transform: transform.Identity{}, Name: "data"}, spec.Fields()[2])
}

func TestBuilderValidation(t *testing.T) {
	_, err := NewBuilder(specSchema()).Bucket("missing", 16).Build()
	assert.Error(t, err, "unknown source column")

	_, err = NewBuilder(specSchema()).Bucket("id", 16).Add("id", transform.Bucket{N: 8}, "id_bucket").Build()
	assert.Error(t, err, "duplicate partition name")

	_, err = NewBuilder(specSchema()).Hour("data").Build()
	assert.Error(t, err, "hour cannot transform strings")

	_, err = NewBuilder(specSchema()).Add("id", transform.Identity{}, "").Build()
	assert.Error(t, err, "empty partition name")
}

func TestPartitionType(t *testing.T) {
	spec, err := NewBuilder(specSchema()).Bucket("id", 16).Day("ts").Build()
	require.NoError(t, err)

	pt := spec.PartitionType()
	require.Len(t, pt.FieldList, 2)

	bucket := pt.FieldList[0]
	assert.Equal(t, PartitionDataIDStart, bucket.ID, "partition ids start in their own range")
	assert.Equal(t, "id_bucket", bucket.Name)
	assert.False(t, bucket.Required)
	assert.True(t, bucket.Type.Equals(types.IntType{}))

	day := pt.FieldList[1]
	assert.Equal(t, PartitionDataIDStart+1, day.ID)
	assert.True(t, day.Type.Equals(types.DateType{}))
}

func TestUnpartitioned(t *testing.T) {
	spec := Unpartitioned(specSchema())
	assert.Empty(t, spec.Fields())
	assert.Empty(t, spec.PartitionType().FieldList)
}

func TestFieldsBySourceID(t *testing.T) {
	spec, err := NewBuilder(specSchema()).
		Bucket("id", 16).
		Truncate("id", 10).
		Day("ts").
		Build()
	require.NoError(t, err)

	byID := spec.FieldsBySourceID(1)
	require.Len(t, byID, 2)
	assert.Equal(t, "id_bucket", byID[0].Name)
	assert.Equal(t, "id_trunc", byID[1].Name)
	assert.Empty(t, spec.FieldsBySourceID(2))
}

func TestSpecJSONRoundTrip(t *testing.T) {
	schema := specSchema()
	spec, err := NewBuilder(schema).
		WithSpecID(7).
		Bucket("id", 16).
		Truncate("data", 4).
		Hour("ts").
		Build()
	require.NoError(t, err)

	data, err := json.Marshal(spec)
	require.NoError(t, err)

	parsed, err := SpecFromJSON(schema, data)
	require.NoError(t, err)
	assert.Equal(t, 7, parsed.SpecID())
	assert.True(t, spec.Equals(parsed))
}

func TestSpecJSONShape(t *testing.T) {
	schema := specSchema()
	spec, err := NewBuilder(schema).WithSpecID(0).Bucket("id", 16).Build()
	require.NoError(t, err)

	data, err := json.Marshal(spec)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"spec-id":0,"fields":[{"name":"id_bucket","transform":"bucket[16]","source-id":1}]}`,
		string(data))
}

func TestSpecJSONErrors(t *testing.T) {
	schema := specSchema()

	_, err := SpecFromJSON(schema, []byte(`{"spec-id":0,"fields":[{"name":"x","transform":"shuffle","source-id":1}]}`))
	assert.Error(t, err, "unknown transform")

	_, err = SpecFromJSON(schema, []byte(`{"spec-id":0,"fields":[{"name":"x","transform":"identity","source-id":99}]}`))
	assert.Error(t, err, "unknown source id")
}
