package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient("")
	assert.Error(t, err)

	_, err = NewClient("not-a-url")
	assert.Error(t, err)

	c, err := NewClient("http://loom:8000/")
	require.NoError(t, err)
	assert.Equal(t, "http://loom:8000", c.baseURL)
}

func TestClient_Get(t *testing.T) {
	var gotPath, gotAccept, gotTrace string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.RequestURI()
		gotAccept = r.Header.Get("Accept")
		gotTrace = r.Header.Get("X-Trace")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"file_data_objects":[{"_id":12}]}`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, WithHeaders(http.Header{"X-Trace": []string{"t1"}}))
	require.NoError(t, err)

	resp, err := c.Get(context.Background(), FileDataObjectsPath)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/api/file_data_objects", gotPath)
	assert.Equal(t, "application/json", gotAccept)
	assert.Equal(t, "t1", gotTrace)

	var body struct {
		Files []map[string]any `json:"file_data_objects"`
	}
	require.NoError(t, resp.Decode(&body))
	require.Len(t, body.Files, 1)
	assert.Equal(t, json.Number("12"), body.Files[0]["_id"])
}

func TestClient_Get_PathWithoutSlash(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL + "/")
	require.NoError(t, err)

	_, err = c.Get(context.Background(), "api/info/")
	require.NoError(t, err)
	assert.Equal(t, "/api/info/", gotPath)
}

func TestClient_Get_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	resp, err := c.Get(context.Background(), FileDataObjectsPath)
	assert.Nil(t, resp)
	require.Error(t, err)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusInternalServerError, httpErr.StatusCode)
	assert.Equal(t, http.StatusInternalServerError, StatusCode(err))
	assert.Contains(t, httpErr.Error(), "status=500")
	assert.Contains(t, string(httpErr.Body), "boom")
}

func TestClient_Get_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c, err := NewClient(srv.URL, WithTimeout(50*time.Millisecond))
	require.NoError(t, err)

	_, err = c.Get(context.Background(), FileDataObjectsPath)
	assert.Error(t, err)
	assert.Equal(t, 0, StatusCode(err))
}

func TestClient_Info(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != InfoPath {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"version":"0.1.0"}`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	info, err := c.Info(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0.1.0", info["version"])
}

func TestPaths(t *testing.T) {
	assert.Equal(t, "/api/file_data_objects", FileDataObjectsIndexPath(""))
	assert.Equal(t, "/api/file_data_objects?q=reads+1", FileDataObjectsIndexPath("reads 1"))
	assert.Equal(t, "/api/file_data_objects/a/data_source_records/", DataSourceRecordsPath("a"))
	assert.Equal(t, "/api/file_data_objects/a/file_storage_locations/", FileStorageLocationsPath("a"))
}
