package registry

import (
	"context"

	"github.com/kailas-cloud/contentrec/internal/domain/model"
	"github.com/kailas-cloud/contentrec/internal/domain/options"
	"github.com/kailas-cloud/contentrec/internal/usecase/recommender"
)

// Repository defines the storage contract for named models.
type Repository interface {
	Save(ctx context.Context, info model.Info, m model.Model) error
	Load(ctx context.Context, name string) (model.Model, error)
	Info(ctx context.Context, name string) (model.Info, error)
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]model.Info, error)
}

// RecommenderFactory creates an untrained recommender with opts.
type RecommenderFactory func(opts options.Options) (*recommender.Service, error)
