package service

import (
	"context"

	"github.com/softqual/evaluation-server/internal/repository/models"
)

// EvaluationRepository defines the database operations the services need.
type EvaluationRepository interface {
	GetSubcharacteristic(ctx context.Context, id int64) (models.Subcharacteristic, bool, error)
	GetCharacteristic(ctx context.Context, id int64) (models.QualityCharacteristic, bool, error)
	InsertEvaluation(ctx context.Context, eval models.Evaluation, details []models.EvaluationDetail, summaries []models.EvaluationCharacteristicSummary) (int64, error)
	FindLatestEvaluation(ctx context.Context, softwareID int64) (models.Evaluation, bool, error)
	FindEvaluation(ctx context.Context, evaluationID, softwareID int64) (models.Evaluation, bool, error)
	ListDetailsForEvaluation(ctx context.Context, evaluationID int64) ([]models.DetailWithCatalog, error)
	ListSoftwaresOwnedByUser(ctx context.Context, userID int64) ([]models.SoftwareWithEvaluations, error)
	ListSummariesForEvaluation(ctx context.Context, evaluationID int64) ([]models.EvaluationCharacteristicSummary, error)
}
