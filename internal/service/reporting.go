package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// ReportingService shapes persisted evaluation data into the three read
// views. It never writes.
type ReportingService struct {
	storage EvaluationRepository
	logger  *zap.Logger
}

// NewReportingService creates a new ReportingService instance.
func NewReportingService(storage EvaluationRepository, logger *zap.Logger) *ReportingService {
	if storage == nil {
		panic("storage must not be nil")
	}
	if logger == nil {
		l, _ := zap.NewProduction()
		logger = l
	}
	return &ReportingService{
		storage: storage,
		logger:  logger,
	}
}

// GetEvaluationDetail returns the latest evaluation of a software with
// its scores grouped by owning characteristic, in the order the
// characteristics first appear among the detail rows.
func (s *ReportingService) GetEvaluationDetail(ctx context.Context, softwareID int64) (EvaluationDetailView, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	evaluation, found, err := s.storage.FindLatestEvaluation(dbCtx, softwareID)
	if err != nil {
		return EvaluationDetailView{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	if !found {
		return EvaluationDetailView{}, fmt.Errorf("%w: software %d", ErrNoEvaluations, softwareID)
	}

	rows, err := s.storage.ListDetailsForEvaluation(dbCtx, evaluation.ID)
	if err != nil {
		return EvaluationDetailView{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	grouped := make(map[int64]int)
	characteristics := make([]CharacteristicDetails, 0)

	for _, row := range rows {
		qc := row.Characteristic

		i, ok := grouped[qc.ID]
		if !ok {
			i = len(characteristics)
			grouped[qc.ID] = i
			characteristics = append(characteristics, CharacteristicDetails{
				QualityCharacteristicID:   qc.ID,
				QualityCharacteristicName: qc.Name,
			})
		}

		characteristics[i].Subcharacteristics = append(characteristics[i].Subcharacteristics, SubcharacteristicScore{
			SubcharacteristicID:   row.Subcharacteristic.ID,
			SubcharacteristicName: row.Subcharacteristic.Name,
			Score:                 row.Detail.Score,
			Comment:               row.Detail.Comment,
		})
	}

	return EvaluationDetailView{
		EvaluationID:    evaluation.ID,
		Characteristics: characteristics,
	}, nil
}

// GetEvaluatedSoftwares lists the user's softwares that have at least one
// evaluation, each with its most recent evaluation's global score mapped
// through ResultLabel. Softwares without evaluations are skipped.
func (s *ReportingService) GetEvaluatedSoftwares(ctx context.Context, userID int64) ([]EvaluatedSoftware, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	softwares, err := s.storage.ListSoftwaresOwnedByUser(dbCtx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	results := make([]EvaluatedSoftware, 0, len(softwares))
	for _, software := range softwares {
		if len(software.Evaluations) == 0 {
			continue
		}

		latest := software.Evaluations[0]
		for _, e := range software.Evaluations[1:] {
			if e.Date.After(latest.Date) {
				latest = e
			}
		}

		percentage := latest.GlobalScorePercentage
		results = append(results, EvaluatedSoftware{
			SoftwareID:       software.ID,
			SoftwareName:     software.Name,
			EvaluationID:     latest.ID,
			EvaluationDate:   latest.Date.Format("02/01/2006"),
			GlobalPercentage: fmt.Sprintf("%.2f%%", percentage),
			Result:           ResultLabel(percentage),
		})
	}

	s.logger.Debug("evaluated softwares listed",
		zap.Int64("user_id", userID),
		zap.Int("count", len(results)))

	return results, nil
}

// GetCharacteristicSummary returns the per-characteristic summary rows of
// one evaluation. A (software, evaluation) pair that does not match yields
// an empty summaries list, not an error.
func (s *ReportingService) GetCharacteristicSummary(ctx context.Context, softwareID, evaluationID int64) (CharacteristicSummaryView, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	view := CharacteristicSummaryView{
		EvaluationID: evaluationID,
		SoftwareID:   softwareID,
		Summaries:    []CharacteristicSummaryRow{},
	}

	evaluation, found, err := s.storage.FindEvaluation(dbCtx, evaluationID, softwareID)
	if err != nil {
		return CharacteristicSummaryView{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	if !found {
		return view, nil
	}

	summaries, err := s.storage.ListSummariesForEvaluation(dbCtx, evaluation.ID)
	if err != nil {
		return CharacteristicSummaryView{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	for _, summary := range summaries {
		view.Summaries = append(view.Summaries, CharacteristicSummaryRow{
			CharacteristicName:    summary.CharacteristicName,
			Value:                 summary.Value,
			MaxValue:              summary.MaxValue,
			ResultPercentage:      fmt.Sprintf("%.2f%%", summary.ResultPercentage),
			WeightedPercentage:    fmt.Sprintf("%.2f%%", summary.WeightedPercentage),
			MaxPossiblePercentage: fmt.Sprintf("%.2f", summary.WeightPercentage),
		})
	}

	return view, nil
}
