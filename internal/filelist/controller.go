// Package filelist loads the file list view: one primary fetch of the file
// data objects, then a concurrent enrichment fetch per record and sub-resource.
package filelist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"fileview/internal/apiclient"
	"fileview/internal/datastore"
	"fileview/internal/model"
)

var (
	ErrAlreadyActivated = errors.New("filelist: controller already activated")
	ErrMissingField     = errors.New("filelist: response field missing")
)

var tracer = otel.Tracer("fileview/internal/filelist")

// RouteProvider exposes the current route to the view.
type RouteProvider interface {
	Current() model.Route
}

// StaticRoute is a RouteProvider that always returns the same route.
type StaticRoute model.Route

func (r StaticRoute) Current() model.Route { return model.Route(r) }

// View is the state published for display.
// Files is nil until the primary fetch succeeds.
type View struct {
	Files []model.FileRecord `json:"files"`
	State model.Route        `json:"state"`
}

// Result summarises the enrichment fetches of one activation.
type Result struct {
	Enriched int `json:"enriched"`
	Failed   int `json:"failed"`
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics records activations and enrichments into m.
func WithMetrics(m *Metrics) Option {
	return func(c *Controller) { c.metrics = m }
}

// WithConcurrency caps in-flight enrichment fetches. n <= 0 means no limit.
func WithConcurrency(n int) Option {
	return func(c *Controller) { c.limit = n }
}

// WithQuery filters the primary fetch with the upstream "q" parameter.
func WithQuery(q string) Option {
	return func(c *Controller) { c.query = q }
}

// WithBaseContext bounds the lifetime of enrichment fetches. They are
// detached from the context passed to Activate and stop only when base is done.
func WithBaseContext(base context.Context) Option {
	return func(c *Controller) {
		if base != nil {
			c.base = base
		}
	}
}

// resource is one enrichment sub-collection of a file data object.
type resource struct {
	name   string
	path   func(id string) string
	attach func(f *model.FileRecord, recs []model.Record)
}

var resources = []resource{
	{
		name: model.FieldDataSourceRecords,
		path: apiclient.DataSourceRecordsPath,
		attach: func(f *model.FileRecord, recs []model.Record) {
			f.DataSourceRecords = recs
		},
	},
	{
		name: model.FieldFileStorageLocations,
		path: apiclient.FileStorageLocationsPath,
		attach: func(f *model.FileRecord, recs []model.Record) {
			f.FileStorageLocations = recs
		},
	},
}

// Controller drives a single activation of the file list view.
type Controller struct {
	api     apiclient.Getter
	store   *datastore.Store
	route   RouteProvider
	logger  *zap.Logger
	metrics *Metrics
	limit   int
	query   string
	base    context.Context

	mu         sync.Mutex
	activated  bool
	generation uint64
	files      []model.FileRecord
	state      model.Route
	result     Result
	done       chan struct{}
}

// New constructs a Controller. Nothing is fetched until Activate.
func New(api apiclient.Getter, store *datastore.Store, route RouteProvider, opts ...Option) *Controller {
	c := &Controller{
		api:    api,
		store:  store,
		route:  route,
		logger: zap.NewNop(),
		base:   context.Background(),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Activate loads the file list, publishes it to the shared store and the view,
// and schedules enrichment. It returns once the list is published; enrichment
// continues in the background. When the primary fetch fails the view keeps no
// files, the store is left untouched and no enrichment is issued.
func (c *Controller) Activate(ctx context.Context) error {
	c.mu.Lock()
	if c.activated {
		c.mu.Unlock()
		return ErrAlreadyActivated
	}
	c.activated = true
	if c.route != nil {
		c.state = c.route.Current()
	}
	c.mu.Unlock()

	ctx, span := tracer.Start(ctx, "filelist.Activate")
	defer span.End()

	files, err := c.load(ctx)
	if err != nil {
		close(c.done)
		span.RecordError(err)
		span.SetStatus(codes.Error, "primary fetch failed")
		c.metrics.activation("failed")
		c.logger.Warn("file_list_load_failed",
			zap.String("query", c.query),
			zap.Int("upstream_status", apiclient.StatusCode(err)),
			zap.Error(err),
		)
		return err
	}

	gen := c.store.Publish(files)

	c.mu.Lock()
	c.generation = gen
	c.files = files
	c.mu.Unlock()

	span.SetAttributes(
		attribute.Int("filelist.file_count", len(files)),
		attribute.Int64("filelist.generation", int64(gen)),
	)
	c.metrics.activation("published")
	c.logger.Info("file_list_published",
		zap.String("query", c.query),
		zap.Int("file_count", len(files)),
		zap.Uint64("generation", gen),
	)

	c.enrich(ctx, gen, files)
	return nil
}

func (c *Controller) load(ctx context.Context) ([]model.FileRecord, error) {
	resp, err := c.api.Get(ctx, apiclient.FileDataObjectsIndexPath(c.query))
	if err != nil {
		return nil, fmt.Errorf("load file list: %w", err)
	}

	var body struct {
		Files *[]model.FileRecord `json:"file_data_objects"`
	}
	if err := resp.Decode(&body); err != nil {
		return nil, fmt.Errorf("load file list: %w", err)
	}
	if body.Files == nil {
		return nil, fmt.Errorf("load file list: %w: file_data_objects", ErrMissingField)
	}
	files := *body.Files
	if files == nil {
		files = []model.FileRecord{}
	}
	return files, nil
}

// enrich issues every enrichment fetch without waiting for siblings.
func (c *Controller) enrich(ctx context.Context, gen uint64, files []model.FileRecord) {
	ectx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	stop := context.AfterFunc(c.base, cancel)

	ids := make([]string, len(files))
	for i, f := range files {
		ids[i] = f.ID()
	}

	g := new(errgroup.Group)
	if c.limit > 0 {
		g.SetLimit(c.limit)
	}

	go func() {
		defer close(c.done)
		defer cancel()
		defer stop()

		for i, id := range ids {
			if id == "" {
				c.logger.Warn("file_record_without_id", zap.Int("index", i), zap.Uint64("generation", gen))
				c.mu.Lock()
				c.result.Failed += len(resources)
				c.mu.Unlock()
				continue
			}
			for _, res := range resources {
				g.Go(func() error {
					c.fetch(ectx, gen, i, id, res)
					return nil
				})
			}
		}
		_ = g.Wait()

		c.mu.Lock()
		res := c.result
		c.mu.Unlock()
		c.logger.Info("file_list_enriched",
			zap.Uint64("generation", gen),
			zap.Int("enriched", res.Enriched),
			zap.Int("failed", res.Failed),
		)
	}()
}

// fetch loads one sub-collection and merges it into record i. Failures leave
// the record without the field.
func (c *Controller) fetch(ctx context.Context, gen uint64, i int, id string, res resource) {
	ctx, span := tracer.Start(ctx, "filelist.enrich",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("filelist.file_id", id),
			attribute.String("filelist.resource", res.name),
			attribute.Int64("filelist.generation", int64(gen)),
		),
	)
	defer span.End()

	start := time.Now()
	recs, err := c.fetchCollection(ctx, res.path(id), res.name)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "enrichment fetch failed")
		c.metrics.enrichment(res.name, "error", time.Since(start))
		c.logger.Warn("file_enrichment_failed",
			zap.String("file_id", id),
			zap.String("resource", res.name),
			zap.Int("upstream_status", apiclient.StatusCode(err)),
			zap.Error(err),
		)
		c.mu.Lock()
		c.result.Failed++
		c.mu.Unlock()
		return
	}

	c.mu.Lock()
	res.attach(&c.files[i], recs)
	c.result.Enriched++
	c.mu.Unlock()

	outcome := "ok"
	if !c.store.Update(gen, i, func(f *model.FileRecord) { res.attach(f, recs) }) {
		outcome = "stale"
		span.AddEvent("stale_generation")
		c.logger.Debug("file_enrichment_stale",
			zap.String("file_id", id),
			zap.String("resource", res.name),
			zap.Uint64("generation", gen),
		)
	}
	c.metrics.enrichment(res.name, outcome, time.Since(start))
}

func (c *Controller) fetchCollection(ctx context.Context, path, key string) ([]model.Record, error) {
	resp, err := c.api.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	return extractCollection(resp, key)
}

// extractCollection reads body[key], falling back to body["data"][key] when
// the top-level key is absent or null. Elements are attached untouched.
func extractCollection(resp *apiclient.Response, key string) ([]model.Record, error) {
	var body map[string]json.RawMessage
	if err := resp.Decode(&body); err != nil {
		return nil, err
	}

	raw := body[key]
	if isNull(raw) {
		var inner map[string]json.RawMessage
		if data := body["data"]; !isNull(data) && json.Unmarshal(data, &inner) == nil {
			raw = inner[key]
		}
	}
	if isNull(raw) {
		return nil, fmt.Errorf("%w: %s", ErrMissingField, key)
	}

	var recs []model.Record
	sub := apiclient.Response{Body: raw}
	if err := sub.Decode(&recs); err != nil {
		return nil, err
	}
	return recs, nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(bytes.TrimSpace(raw)) == "null"
}

// Scope returns a copy of the view as it stands now. Records gain their
// enrichment fields as fetches resolve.
func (c *Controller) Scope() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return View{
		Files: model.CloneFiles(c.files),
		State: c.state,
	}
}

// Generation returns the store generation this activation published, or 0.
func (c *Controller) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// Done is closed once every enrichment fetch has finished, or right away when
// the primary fetch failed.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

// Wait blocks until enrichment has finished and returns its outcome.
// It must only be called after Activate.
func (c *Controller) Wait() Result {
	<-c.done
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}
