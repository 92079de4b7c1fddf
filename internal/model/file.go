package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// JSON keys of a file data object and its enrichment sub-collections.
const (
	FieldID                   = "_id"
	FieldDataSourceRecords    = "data_source_records"
	FieldFileStorageLocations = "file_storage_locations"
)

// Record is one element of an enrichment sub-collection: any JSON value,
// attached exactly as the API returned it.
type Record = any

// FileRecord is one file data object. Attributes are kept exactly as the API
// returned them, including any keys that share a name with an enrichment
// field. The two enrichment collections stay nil until their fetch succeeds;
// a resolved empty collection is non-nil and empty.
type FileRecord struct {
	Attributes           map[string]any
	DataSourceRecords    []Record
	FileStorageLocations []Record
}

// ID returns the record's "_id" rendered verbatim, or "" if it has none.
func (f FileRecord) ID() string {
	switch id := f.Attributes[FieldID].(type) {
	case nil:
		return ""
	case string:
		return id
	case json.Number:
		return id.String()
	default:
		return fmt.Sprint(id)
	}
}

// Clone returns a copy that shares no maps or slices headers with f.
// Enrichment records are never mutated after being attached, so they are shared.
func (f FileRecord) Clone() FileRecord {
	out := FileRecord{}
	if f.Attributes != nil {
		out.Attributes = make(map[string]any, len(f.Attributes))
		for k, v := range f.Attributes {
			out.Attributes[k] = v
		}
	}
	if f.DataSourceRecords != nil {
		out.DataSourceRecords = append(make([]Record, 0, len(f.DataSourceRecords)), f.DataSourceRecords...)
	}
	if f.FileStorageLocations != nil {
		out.FileStorageLocations = append(make([]Record, 0, len(f.FileStorageLocations)), f.FileStorageLocations...)
	}
	return out
}

// MarshalJSON flattens the record back into a single object: the attributes
// plus whichever enrichment fields are present. A resolved enrichment field
// replaces an attribute of the same name.
func (f FileRecord) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(f.Attributes)+2)
	for k, v := range f.Attributes {
		out[k] = v
	}
	if f.DataSourceRecords != nil {
		out[FieldDataSourceRecords] = f.DataSourceRecords
	}
	if f.FileStorageLocations != nil {
		out[FieldFileStorageLocations] = f.FileStorageLocations
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a file data object. Numbers are kept as json.Number so
// identifiers survive a round trip unchanged.
func (f *FileRecord) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var attrs map[string]any
	if err := dec.Decode(&attrs); err != nil {
		return err
	}
	if attrs == nil {
		return fmt.Errorf("file record: expected object, got %s", bytes.TrimSpace(data))
	}

	*f = FileRecord{Attributes: attrs}
	return nil
}

// CloneFiles copies a collection element by element.
func CloneFiles(files []FileRecord) []FileRecord {
	if files == nil {
		return nil
	}
	out := make([]FileRecord, len(files))
	for i, f := range files {
		out[i] = f.Clone()
	}
	return out
}
