package mocks

import (
	"context"
	"errors"

	"github.com/softqual/evaluation-server/internal/service"
)

// MockEvaluator is a mock implementation of the Evaluator interface for
// testing the handler layer.
type MockEvaluator struct {
	SubmitEvaluationFunc func(ctx context.Context, req service.SubmitEvaluationRequest) (int64, error)
}

func (m *MockEvaluator) SubmitEvaluation(ctx context.Context, req service.SubmitEvaluationRequest) (int64, error) {
	if m.SubmitEvaluationFunc != nil {
		return m.SubmitEvaluationFunc(ctx, req)
	}
	return 0, errors.New("SubmitEvaluationFunc not implemented")
}

// MockReporter is a mock implementation of the Reporter interface for
// testing the handler layer.
type MockReporter struct {
	GetEvaluationDetailFunc      func(ctx context.Context, softwareID int64) (service.EvaluationDetailView, error)
	GetEvaluatedSoftwaresFunc    func(ctx context.Context, userID int64) ([]service.EvaluatedSoftware, error)
	GetCharacteristicSummaryFunc func(ctx context.Context, softwareID, evaluationID int64) (service.CharacteristicSummaryView, error)
}

func (m *MockReporter) GetEvaluationDetail(ctx context.Context, softwareID int64) (service.EvaluationDetailView, error) {
	if m.GetEvaluationDetailFunc != nil {
		return m.GetEvaluationDetailFunc(ctx, softwareID)
	}
	return service.EvaluationDetailView{}, errors.New("GetEvaluationDetailFunc not implemented")
}

func (m *MockReporter) GetEvaluatedSoftwares(ctx context.Context, userID int64) ([]service.EvaluatedSoftware, error) {
	if m.GetEvaluatedSoftwaresFunc != nil {
		return m.GetEvaluatedSoftwaresFunc(ctx, userID)
	}
	return nil, errors.New("GetEvaluatedSoftwaresFunc not implemented")
}

func (m *MockReporter) GetCharacteristicSummary(ctx context.Context, softwareID, evaluationID int64) (service.CharacteristicSummaryView, error) {
	if m.GetCharacteristicSummaryFunc != nil {
		return m.GetCharacteristicSummaryFunc(ctx, softwareID, evaluationID)
	}
	return service.CharacteristicSummaryView{}, errors.New("GetCharacteristicSummaryFunc not implemented")
}
