package apiclient

import "net/url"

// Upstream endpoints.
const (
	InfoPath            = "/api/info/"
	FileDataObjectsPath = "/api/file_data_objects"
)

// FileDataObjectsIndexPath returns the list endpoint, filtered by q when set.
func FileDataObjectsIndexPath(q string) string {
	if q == "" {
		return FileDataObjectsPath
	}
	return FileDataObjectsPath + "?" + url.Values{"q": []string{q}}.Encode()
}

// DataSourceRecordsPath returns the data source records endpoint of a file.
// The id is used as-is.
func DataSourceRecordsPath(id string) string {
	return FileDataObjectsPath + "/" + id + "/data_source_records/"
}

// FileStorageLocationsPath returns the storage locations endpoint of a file.
// The id is used as-is.
func FileStorageLocationsPath(id string) string {
	return FileDataObjectsPath + "/" + id + "/file_storage_locations/"
}
