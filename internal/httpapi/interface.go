package httpapi

import (
	"context"
	"time"

	"github.com/softqual/evaluation-server/internal/service"
)

// Cacher defines the interface for cache operations.
type Cacher interface {
	Close() error
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Evaluator accepts evaluation submissions.
type Evaluator interface {
	SubmitEvaluation(ctx context.Context, req service.SubmitEvaluationRequest) (int64, error)
}

// Reporter serves the read views.
type Reporter interface {
	GetEvaluationDetail(ctx context.Context, softwareID int64) (service.EvaluationDetailView, error)
	GetEvaluatedSoftwares(ctx context.Context, userID int64) ([]service.EvaluatedSoftware, error)
	GetCharacteristicSummary(ctx context.Context, softwareID, evaluationID int64) (service.CharacteristicSummaryView, error)
}
