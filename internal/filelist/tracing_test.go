package filelist

import (
	"context"
	"strings"
	"testing"

	"fileview/internal/apiclient"
	getterMocks "fileview/internal/apiclient/mocks"
	"fileview/internal/datastore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// The package tracer delegates to the first provider installed globally, so
// this is the only test that installs one.
func TestController_Activate_RecordsSpans(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec)))

	api := getterFunc(func(ctx context.Context, path string) (*apiclient.Response, error) {
		switch {
		case path == apiclient.FileDataObjectsPath:
			return getterMocks.JSON(`{"file_data_objects":[{"_id":"a"}]}`), nil
		case strings.HasSuffix(path, "/data_source_records/"):
			return getterMocks.JSON(`{"data_source_records":[]}`), nil
		default:
			return nil, upstreamErr(path, 500)
		}
	})

	c := New(api, datastore.New(), filesRoute)
	require.NoError(t, c.Activate(context.Background()))
	assert.Equal(t, Result{Enriched: 1, Failed: 1}, c.Wait())

	ended := rec.Ended()
	var activate sdktrace.ReadOnlySpan
	for _, s := range ended {
		if s.Name() == "filelist.Activate" {
			activate = s
		}
	}
	require.NotNil(t, activate)

	var enrich []sdktrace.ReadOnlySpan
	for _, s := range ended {
		if s.Name() == "filelist.enrich" && s.Parent().SpanID() == activate.SpanContext().SpanID() {
			enrich = append(enrich, s)
		}
	}
	require.Len(t, enrich, 2)

	failed := 0
	for _, s := range enrich {
		if s.Status().Code == codes.Error {
			failed++
		}
	}
	assert.Equal(t, 1, failed)
}
