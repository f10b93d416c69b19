package mocks

import (
	"context"
	"errors"

	"github.com/softqual/evaluation-server/internal/repository/models"
)

// MockEvaluationRepository is a mock implementation of the
// EvaluationRepository interface for testing the service layer.
type MockEvaluationRepository struct {
	GetSubcharacteristicFunc       func(ctx context.Context, id int64) (models.Subcharacteristic, bool, error)
	GetCharacteristicFunc          func(ctx context.Context, id int64) (models.QualityCharacteristic, bool, error)
	InsertEvaluationFunc           func(ctx context.Context, eval models.Evaluation, details []models.EvaluationDetail, summaries []models.EvaluationCharacteristicSummary) (int64, error)
	FindLatestEvaluationFunc       func(ctx context.Context, softwareID int64) (models.Evaluation, bool, error)
	FindEvaluationFunc             func(ctx context.Context, evaluationID, softwareID int64) (models.Evaluation, bool, error)
	ListDetailsForEvaluationFunc   func(ctx context.Context, evaluationID int64) ([]models.DetailWithCatalog, error)
	ListSoftwaresOwnedByUserFunc   func(ctx context.Context, userID int64) ([]models.SoftwareWithEvaluations, error)
	ListSummariesForEvaluationFunc func(ctx context.Context, evaluationID int64) ([]models.EvaluationCharacteristicSummary, error)
}

func (m *MockEvaluationRepository) GetSubcharacteristic(ctx context.Context, id int64) (models.Subcharacteristic, bool, error) {
	if m.GetSubcharacteristicFunc != nil {
		return m.GetSubcharacteristicFunc(ctx, id)
	}
	return models.Subcharacteristic{}, false, errors.New("GetSubcharacteristicFunc not implemented")
}

func (m *MockEvaluationRepository) GetCharacteristic(ctx context.Context, id int64) (models.QualityCharacteristic, bool, error) {
	if m.GetCharacteristicFunc != nil {
		return m.GetCharacteristicFunc(ctx, id)
	}
	return models.QualityCharacteristic{}, false, errors.New("GetCharacteristicFunc not implemented")
}

func (m *MockEvaluationRepository) InsertEvaluation(ctx context.Context, eval models.Evaluation, details []models.EvaluationDetail, summaries []models.EvaluationCharacteristicSummary) (int64, error) {
	if m.InsertEvaluationFunc != nil {
		return m.InsertEvaluationFunc(ctx, eval, details, summaries)
	}
	return 0, errors.New("InsertEvaluationFunc not implemented")
}

func (m *MockEvaluationRepository) FindLatestEvaluation(ctx context.Context, softwareID int64) (models.Evaluation, bool, error) {
	if m.FindLatestEvaluationFunc != nil {
		return m.FindLatestEvaluationFunc(ctx, softwareID)
	}
	return models.Evaluation{}, false, errors.New("FindLatestEvaluationFunc not implemented")
}

func (m *MockEvaluationRepository) FindEvaluation(ctx context.Context, evaluationID, softwareID int64) (models.Evaluation, bool, error) {
	if m.FindEvaluationFunc != nil {
		return m.FindEvaluationFunc(ctx, evaluationID, softwareID)
	}
	return models.Evaluation{}, false, errors.New("FindEvaluationFunc not implemented")
}

func (m *MockEvaluationRepository) ListDetailsForEvaluation(ctx context.Context, evaluationID int64) ([]models.DetailWithCatalog, error) {
	if m.ListDetailsForEvaluationFunc != nil {
		return m.ListDetailsForEvaluationFunc(ctx, evaluationID)
	}
	return nil, errors.New("ListDetailsForEvaluationFunc not implemented")
}

func (m *MockEvaluationRepository) ListSoftwaresOwnedByUser(ctx context.Context, userID int64) ([]models.SoftwareWithEvaluations, error) {
	if m.ListSoftwaresOwnedByUserFunc != nil {
		return m.ListSoftwaresOwnedByUserFunc(ctx, userID)
	}
	return nil, errors.New("ListSoftwaresOwnedByUserFunc not implemented")
}

func (m *MockEvaluationRepository) ListSummariesForEvaluation(ctx context.Context, evaluationID int64) ([]models.EvaluationCharacteristicSummary, error) {
	if m.ListSummariesForEvaluationFunc != nil {
		return m.ListSummariesForEvaluationFunc(ctx, evaluationID)
	}
	return nil, errors.New("ListSummariesForEvaluationFunc not implemented")
}
