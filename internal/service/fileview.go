package service

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fileview/internal/apiclient"
	"fileview/internal/datastore"
	"fileview/internal/filelist"
	"fileview/internal/model"
	"fileview/internal/repository"
	"fileview/internal/storage"
)

var (
	ErrIDRequired          = errors.New("id is required")
	ErrNotFound            = errors.New("not found")
	ErrNotLoaded           = errors.New("file list not loaded yet")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrStorageDisabled     = errors.New("object storage is not configured")
	ErrHistoryDisabled     = errors.New("load history is not configured")
)

const (
	exportPrefix     = "exports"
	defaultURLExpiry = 15 * time.Minute
	completeTimeout  = 5 * time.Second
)

// LoadListResult is the service-level DTO for paginated load history.
type LoadListResult struct {
	Items []model.Load `json:"data"`
	Total int          `json:"total"`
}

// ExportResult describes a snapshot written to object storage.
type ExportResult struct {
	Key        string `json:"key"`
	URL        string `json:"url"`
	Generation uint64 `json:"generation"`
	FileCount  int    `json:"file_count"`
}

// FileViewService defines the use cases behind the file list endpoints.
type FileViewService interface {
	// Load activates a file list controller and returns its view once the list
	// is published. Enrichment keeps running after Load returns.
	Load(ctx context.Context, query string, route filelist.RouteProvider) (*filelist.View, error)

	// Current returns the shared store contents.
	Current(ctx context.Context) (*datastore.Snapshot, error)

	// Find returns one record of the current list by its _id.
	Find(ctx context.Context, id string) (*model.FileRecord, error)

	// Export writes the current list to object storage and returns a presigned URL.
	Export(ctx context.Context) (*ExportResult, error)

	// OpenExport streams a previously exported snapshot.
	OpenExport(ctx context.Context, name string) (io.ReadCloser, storage.ObjectInfo, error)

	// DeleteExport removes a previously exported snapshot.
	DeleteExport(ctx context.Context, name string) error

	// ListLoads returns load history using limit/offset and a total count.
	ListLoads(ctx context.Context, limit, offset int) (*LoadListResult, error)

	// GetLoad returns a single load by its ID.
	GetLoad(ctx context.Context, id string) (*model.Load, error)

	// Wait blocks until pending load history updates are written.
	Wait()
}

// Option configures the file view service.
type Option func(*fileViewService)

func WithLogger(l *zap.Logger) Option {
	return func(s *fileViewService) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithMetrics(m *filelist.Metrics) Option {
	return func(s *fileViewService) { s.metrics = m }
}

// WithEnrichConcurrency caps in-flight enrichment fetches per load.
func WithEnrichConcurrency(n int) Option {
	return func(s *fileViewService) { s.concurrency = n }
}

// WithBaseContext bounds background enrichment. Cancel it at shutdown.
func WithBaseContext(ctx context.Context) Option {
	return func(s *fileViewService) {
		if ctx != nil {
			s.base = ctx
		}
	}
}

// WithURLExpiry sets how long export URLs stay valid.
func WithURLExpiry(d time.Duration) Option {
	return func(s *fileViewService) {
		if d > 0 {
			s.urlExpiry = d
		}
	}
}

type fileViewService struct {
	api     apiclient.Getter
	files   *datastore.Store
	repo    repository.LoadRepository
	objects storage.Storage

	logger      *zap.Logger
	metrics     *filelist.Metrics
	concurrency int
	base        context.Context
	urlExpiry   time.Duration
	now         func() time.Time

	pending sync.WaitGroup
}

// NewFileViewService constructs a FileViewService. repo and objects may be
// nil, in which case load history and export are unavailable.
func NewFileViewService(api apiclient.Getter, files *datastore.Store, repo repository.LoadRepository, objects storage.Storage, opts ...Option) FileViewService {
	s := &fileViewService{
		api:       api,
		files:     files,
		repo:      repo,
		objects:   objects,
		logger:    zap.NewNop(),
		base:      context.Background(),
		urlExpiry: defaultURLExpiry,
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *fileViewService) Load(ctx context.Context, query string, route filelist.RouteProvider) (*filelist.View, error) {
	startedAt := s.now()
	ctrl := filelist.New(s.api, s.files, route,
		filelist.WithLogger(s.logger),
		filelist.WithMetrics(s.metrics),
		filelist.WithConcurrency(s.concurrency),
		filelist.WithQuery(query),
		filelist.WithBaseContext(s.base),
	)

	if err := ctrl.Activate(ctx); err != nil {
		completedAt := s.now()
		s.record(ctx, &model.Load{
			ID:          uuid.New().String(),
			Query:       query,
			Status:      model.LoadFailed,
			Error:       err.Error(),
			StartedAt:   startedAt,
			CompletedAt: &completedAt,
		})
		return nil, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}

	view := ctrl.Scope()
	load := s.record(ctx, &model.Load{
		ID:        uuid.New().String(),
		Query:     query,
		Status:    model.LoadPublished,
		FileCount: len(view.Files),
		StartedAt: startedAt,
	})
	if load != nil {
		s.pending.Add(1)
		go s.complete(context.WithoutCancel(ctx), load.ID, ctrl)
	}
	return &view, nil
}

// record stores a load row. History is best effort: failures are logged and
// never fail the load itself.
func (s *fileViewService) record(ctx context.Context, load *model.Load) *model.Load {
	if s.repo == nil {
		return nil
	}
	stored, err := s.repo.Create(ctx, load)
	if err != nil {
		s.logger.Warn("load_history_create_failed", zap.String("load_id", load.ID), zap.Error(err))
		return nil
	}
	return stored
}

func (s *fileViewService) complete(ctx context.Context, id string, ctrl *filelist.Controller) {
	defer s.pending.Done()

	res := ctrl.Wait()

	ctx, cancel := context.WithTimeout(ctx, completeTimeout)
	defer cancel()
	if err := s.repo.Complete(ctx, id, res.Enriched, res.Failed, s.now()); err != nil {
		s.logger.Warn("load_history_complete_failed", zap.String("load_id", id), zap.Error(err))
	}
}

func (s *fileViewService) Current(ctx context.Context) (*datastore.Snapshot, error) {
	snap, ok := s.files.Snapshot()
	if !ok {
		return nil, ErrNotLoaded
	}
	return &snap, nil
}

func (s *fileViewService) Find(ctx context.Context, id string) (*model.FileRecord, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	if s.files.Generation() == 0 {
		return nil, ErrNotLoaded
	}
	f, ok := s.files.Find(id)
	if !ok {
		return nil, ErrNotFound
	}
	return &f, nil
}

func (s *fileViewService) Export(ctx context.Context) (*ExportResult, error) {
	if s.objects == nil {
		return nil, ErrStorageDisabled
	}
	snap, ok := s.files.Snapshot()
	if !ok {
		return nil, ErrNotLoaded
	}

	body, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}

	key := path.Join(exportPrefix, uuid.New().String()+".json")
	info, err := s.objects.Put(ctx, key, bytes.NewReader(body), storage.PutOptions{
		Size:        int64(len(body)),
		ContentType: "application/json",
		Metadata: map[string]string{
			"generation": strconv.FormatUint(snap.Generation, 10),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	url, err := s.objects.PresignGet(ctx, info.Key, s.urlExpiry)
	if err != nil {
		// The object is useless without a URL to fetch it.
		if delErr := s.objects.Delete(ctx, info.Key); delErr != nil {
			return nil, fmt.Errorf("presign failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("presign export: %w", err)
	}

	s.logger.Info("file_list_exported",
		zap.String("key", info.Key),
		zap.Uint64("generation", snap.Generation),
		zap.Int("file_count", len(snap.Files)),
	)
	return &ExportResult{
		Key:        info.Key,
		URL:        url,
		Generation: snap.Generation,
		FileCount:  len(snap.Files),
	}, nil
}

func (s *fileViewService) OpenExport(ctx context.Context, name string) (io.ReadCloser, storage.ObjectInfo, error) {
	key, err := s.exportKey(name)
	if err != nil {
		return nil, storage.ObjectInfo{}, err
	}
	rc, info, err := s.objects.Get(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, storage.ObjectInfo{}, ErrNotFound
		}
		return nil, storage.ObjectInfo{}, err
	}
	return rc, info, nil
}

func (s *fileViewService) DeleteExport(ctx context.Context, name string) error {
	key, err := s.exportKey(name)
	if err != nil {
		return err
	}
	if err := s.objects.Delete(ctx, key); err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete storage: %w", err)
	}
	return nil
}

// exportKey maps an export file name to its object key. Names never contain
// a path separator.
func (s *fileViewService) exportKey(name string) (string, error) {
	if s.objects == nil {
		return "", ErrStorageDisabled
	}
	if name == "" {
		return "", ErrIDRequired
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", ErrNotFound
	}
	return path.Join(exportPrefix, name), nil
}

// ListLoads returns paginated load history without exposing repository types.
func (s *fileViewService) ListLoads(ctx context.Context, limit, offset int) (*LoadListResult, error) {
	if s.repo == nil {
		return nil, ErrHistoryDisabled
	}
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.repo.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &LoadListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *fileViewService) GetLoad(ctx context.Context, id string) (*model.Load, error) {
	if s.repo == nil {
		return nil, ErrHistoryDisabled
	}
	if id == "" {
		return nil, ErrIDRequired
	}
	load, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return load, nil
}

func (s *fileViewService) Wait() {
	s.pending.Wait()
}
