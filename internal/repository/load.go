package repository

import (
	"context"
	"time"

	"fileview/internal/model"
)

// LoadRepository persists the history of file list activations.
type LoadRepository interface {
	// Create inserts a load row and returns it as stored.
	Create(ctx context.Context, load *model.Load) (*model.Load, error)

	// Complete records the enrichment outcome of a published load.
	// It returns sql.ErrNoRows when the load does not exist.
	Complete(ctx context.Context, id string, enriched, failed int, completedAt time.Time) error

	// FindByID returns a load by its ID.
	FindByID(ctx context.Context, id string) (*model.Load, error)

	// List returns a page of loads, newest first, and the total row count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Load], error)
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
type PageResult[T any] struct {
	Items []T
	Total int
}
