package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/softqual/evaluation-server/internal/repository/models"
)

const (
	dbTimeout = 1 * time.Second

	// Per-item score ceiling used by the aggregation formula. Fixed by the
	// evaluation scheme, deliberately not read from the catalog row.
	maxScorePerItem = 3
)

var (
	ErrIncompleteInput   = errors.New("incomplete input")
	ErrReferenceNotFound = errors.New("reference not found")
	ErrNoEvaluations     = errors.New("no evaluations found")
	ErrStorageFailure    = errors.New("storage failure")
)

// EvaluationService turns a submission of raw subcharacteristic scores
// into one persisted evaluation with its detail and summary rows.
type EvaluationService struct {
	storage EvaluationRepository
	logger  *zap.Logger
	now     func() time.Time
}

// NewEvaluationService creates a new EvaluationService instance.
func NewEvaluationService(storage EvaluationRepository, logger *zap.Logger) *EvaluationService {
	if storage == nil {
		panic("storage must not be nil")
	}
	if logger == nil {
		l, _ := zap.NewProduction()
		logger = l
	}
	return &EvaluationService{
		storage: storage,
		logger:  logger,
		now:     time.Now,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// charAccumulator collects the detail scores declared under one
// characteristic while scanning the submission.
type charAccumulator struct {
	scores     []int
	percentage float64
}

// SubmitEvaluation validates the submission, snapshots catalog data onto
// the detail rows, aggregates scores per characteristic and persists the
// whole result atomically. On any failure nothing is persisted.
func (s *EvaluationService) SubmitEvaluation(ctx context.Context, req SubmitEvaluationRequest) (int64, error) {
	if req.SoftwareID == 0 || len(req.Details) == 0 {
		return 0, fmt.Errorf("%w: software_id and details are required", ErrIncompleteInput)
	}

	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	details := make([]models.EvaluationDetail, 0, len(req.Details))
	grouped := make(map[int64]*charAccumulator)
	var charOrder []int64

	for _, d := range req.Details {
		sub, found, err := s.storage.GetSubcharacteristic(dbCtx, d.SubcharacteristicID)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrStorageFailure, err)
		}
		if !found {
			return 0, fmt.Errorf("%w: subcharacteristic with id %d", ErrReferenceNotFound, d.SubcharacteristicID)
		}

		details = append(details, models.EvaluationDetail{
			SubcharacteristicID:          sub.ID,
			Score:                        d.Score,
			Comment:                      d.Comment,
			SubcharacteristicName:        sub.Name,
			SubcharacteristicDescription: sub.Description,
			MaxScore:                     sub.MaxScore,
		})

		acc, ok := grouped[d.CharacteristicID]
		if !ok {
			acc = &charAccumulator{}
			grouped[d.CharacteristicID] = acc
			charOrder = append(charOrder, d.CharacteristicID)
		}
		acc.scores = append(acc.scores, d.Score)
		acc.percentage = d.CharacteristicPercentage
	}

	summaries := make([]models.EvaluationCharacteristicSummary, 0, len(charOrder))
	var globalScore float64

	for _, charID := range charOrder {
		acc := grouped[charID]

		characteristic, found, err := s.storage.GetCharacteristic(dbCtx, charID)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrStorageFailure, err)
		}
		if !found {
			return 0, fmt.Errorf("%w: characteristic with id %d", ErrReferenceNotFound, charID)
		}

		var value int
		for _, score := range acc.scores {
			value += score
		}
		maxValue := len(acc.scores) * maxScorePerItem

		var resultPercentage float64
		if maxValue > 0 {
			resultPercentage = float64(value) / float64(maxValue) * 100
		}
		weightedPercentage := round2(resultPercentage * acc.percentage / 100)
		resultPercentage = round2(resultPercentage)

		summaries = append(summaries, models.EvaluationCharacteristicSummary{
			CharacteristicID:   characteristic.ID,
			Value:              value,
			MaxValue:           maxValue,
			ResultPercentage:   resultPercentage,
			WeightedPercentage: weightedPercentage,
			CharacteristicName: characteristic.Name,
			WeightPercentage:   characteristic.WeightPercentage,
		})
		globalScore += weightedPercentage
	}

	eval := models.Evaluation{
		SoftwareID:            req.SoftwareID,
		Date:                  s.now().UTC(),
		GlobalScorePercentage: round2(globalScore),
	}

	evaluationID, err := s.storage.InsertEvaluation(dbCtx, eval, details, summaries)
	if err != nil {
		s.logger.Error("evaluation insert failed",
			zap.Int64("software_id", req.SoftwareID),
			zap.Error(err))
		return 0, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	s.logger.Info("evaluation stored",
		zap.Int64("evaluation_id", evaluationID),
		zap.Int64("software_id", req.SoftwareID),
		zap.Int("details", len(details)),
		zap.Int("characteristics", len(summaries)),
		zap.Float64("global_score", eval.GlobalScorePercentage))

	return evaluationID, nil
}
