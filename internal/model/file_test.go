package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileRecord_ID(t *testing.T) {
	tests := []struct {
		name  string
		attrs map[string]any
		want  string
	}{
		{name: "string id", attrs: map[string]any{"_id": "abc"}, want: "abc"},
		{name: "numeric id", attrs: map[string]any{"_id": json.Number("42")}, want: "42"},
		{name: "missing id", attrs: map[string]any{"file_name": "x"}, want: ""},
		{name: "nil attributes", attrs: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FileRecord{Attributes: tt.attrs}.ID())
		})
	}
}

func TestFileRecord_UnmarshalJSON(t *testing.T) {
	var f FileRecord
	err := json.Unmarshal([]byte(`{"_id":7,"file_name":"a.txt","file_storage_locations":[]}`), &f)
	require.NoError(t, err)

	assert.Equal(t, "7", f.ID())
	assert.Equal(t, "a.txt", f.Attributes["file_name"])
	assert.Nil(t, f.DataSourceRecords)
	assert.Nil(t, f.FileStorageLocations)
	assert.Equal(t, []any{}, f.Attributes[FieldFileStorageLocations])
}

func TestFileRecord_UnmarshalJSON_KeepsEnrichmentKeysVerbatim(t *testing.T) {
	in := `{"_id":"a","data_source_records":["x",1],"file_storage_locations":"nope"}`

	var f FileRecord
	require.NoError(t, json.Unmarshal([]byte(in), &f))
	assert.Nil(t, f.DataSourceRecords)
	assert.Equal(t, []any{"x", json.Number("1")}, f.Attributes[FieldDataSourceRecords])

	b, err := json.Marshal(f)
	require.NoError(t, err)
	assert.JSONEq(t, in, string(b))
}

func TestFileRecord_UnmarshalJSON_Errors(t *testing.T) {
	var f FileRecord
	assert.Error(t, json.Unmarshal([]byte(`null`), &f))
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &f))
	assert.Error(t, json.Unmarshal([]byte(`"a"`), &f))
}

func TestFileRecord_MarshalJSON(t *testing.T) {
	f := FileRecord{
		Attributes: map[string]any{"_id": "a", FieldDataSourceRecords: "stale"},
		DataSourceRecords: []Record{
			map[string]any{"source_description": "imported"},
			"r2",
		},
	}

	b, err := json.Marshal(f)
	require.NoError(t, err)
	assert.JSONEq(t, `{"_id":"a","data_source_records":[{"source_description":"imported"},"r2"]}`, string(b))
}

func TestFileRecord_Clone(t *testing.T) {
	f := FileRecord{
		Attributes:           map[string]any{"_id": "a"},
		FileStorageLocations: []Record{"h"},
	}
	c := f.Clone()
	c.Attributes["_id"] = "b"
	c.FileStorageLocations[0] = "other"

	assert.Equal(t, "a", f.ID())
	assert.Equal(t, []Record{"h"}, f.FileStorageLocations)
	assert.Nil(t, c.DataSourceRecords)

	assert.Nil(t, CloneFiles(nil))
	assert.Len(t, CloneFiles([]FileRecord{f, f}), 2)
}
