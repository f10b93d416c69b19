package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/softqual/evaluation-server/internal/service"
)

const (
	defaultCacheDuration  = 10 * time.Minute
	defaultRequestTimeout = 10 * time.Second
)

type cacheKeyType string

const (
	cacheKeyEvaluationDetail   cacheKeyType = "http:evaluation_detail"
	cacheKeyEvaluatedSoftwares cacheKeyType = "http:evaluated_softwares"
	cacheKeyCharacteristicSumm cacheKeyType = "http:characteristic_summary"
)

// Handlers serves the evaluation HTTP API.
type Handlers struct {
	evaluator Evaluator
	reporter  Reporter
	cache     Cacher
	logger    *zap.Logger
	sfGroup   singleflight.Group
	cacheTTL  time.Duration
}

// NewHandlers initializes the HTTP handlers.
func NewHandlers(evaluator Evaluator, reporter Reporter, cache Cacher, logger *zap.Logger, ttl time.Duration) *Handlers {
	if evaluator == nil {
		panic("nil Evaluator provided to NewHandlers")
	}
	if reporter == nil {
		panic("nil Reporter provided to NewHandlers")
	}
	if ttl <= 0 {
		ttl = defaultCacheDuration
	}
	return &Handlers{
		evaluator: evaluator,
		reporter:  reporter,
		cache:     cache,
		logger:    logger.Named("http-handler"),
		cacheTTL:  ttl,
	}
}

// Routes builds the evaluation API router.
func (h *Handlers) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/evaluations", h.SubmitEvaluation)
	r.Get("/softwares/{softwareID}/evaluation", h.GetEvaluationDetail)
	r.Get("/softwares/{softwareID}/evaluations/{evaluationID}/summary", h.GetCharacteristicSummary)
	r.Get("/users/{userID}/softwares", h.GetEvaluatedSoftwares)
	return r
}

type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

type notFoundResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func urlParamInt64(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

func normalizeKey(prefix cacheKeyType, ids ...int64) string {
	key := string(prefix)
	for _, id := range ids {
		key = fmt.Sprintf("%s:%d", key, id)
	}
	return key
}

// handleError converts service errors into HTTP responses.
func (h *Handlers) handleError(ctx context.Context, w http.ResponseWriter, op string, err error) {
	switch ctx.Err() {
	case context.Canceled:
		h.logger.Warn("request canceled", zap.String("op", op))
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Message: "request canceled"})
		return
	case context.DeadlineExceeded:
		h.logger.Warn("request timeout", zap.String("op", op))
		writeJSON(w, http.StatusGatewayTimeout, errorResponse{Message: "request timed out"})
		return
	}

	switch {
	case errors.Is(err, service.ErrIncompleteInput):
		h.logger.Info("incomplete submission", zap.String("op", op), zap.Error(err))
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "error saving the evaluation", Error: err.Error()})
	case errors.Is(err, service.ErrReferenceNotFound):
		h.logger.Info("unknown reference in submission", zap.String("op", op), zap.Error(err))
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "error saving the evaluation", Error: err.Error()})
	case errors.Is(err, service.ErrNoEvaluations):
		h.logger.Info("no evaluations found", zap.String("op", op))
		writeJSON(w, http.StatusNotFound, notFoundResponse{Success: false, Message: "no evaluations found for this software"})
	case errors.Is(err, service.ErrStorageFailure):
		h.logger.Error("storage failure", zap.String("op", op), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "database error"})
	default:
		h.logger.Error("unexpected error", zap.String("op", op), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: fmt.Sprintf("%s failed", op), Error: err.Error()})
	}
}

// SubmitEvaluation handles POST /evaluations.
func (h *Handlers) SubmitEvaluation(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), defaultRequestTimeout)
	defer cancel()

	var req service.SubmitEvaluationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid request body", Error: err.Error()})
		return
	}

	evaluationID, err := h.evaluator.SubmitEvaluation(ctx, req)
	if err != nil {
		h.handleError(ctx, w, "SubmitEvaluation", err)
		return
	}

	// The latest-evaluation view for this software just changed.
	h.invalidateDetailCache(req.SoftwareID)

	writeJSON(w, http.StatusCreated, map[string]any{
		"message":       "evaluation saved successfully",
		"evaluation_id": evaluationID,
	})
}

func (h *Handlers) invalidateDetailCache(softwareID int64) {
	if h.cache == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultSetTimeout)
	defer cancel()

	key := normalizeKey(cacheKeyEvaluationDetail, softwareID)
	if err := h.cache.Delete(ctx, key); err != nil {
		h.logger.Warn("cache invalidation failed", zap.String("key", key), zap.Error(err))
	}
}

// GetEvaluationDetail handles GET /softwares/{softwareID}/evaluation.
func (h *Handlers) GetEvaluationDetail(w http.ResponseWriter, r *http.Request) {
	softwareID, err := urlParamInt64(r, "softwareID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid software id"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), defaultRequestTimeout)
	defer cancel()

	cacheKey := normalizeKey(cacheKeyEvaluationDetail, softwareID)

	view, err := FindAndCache(ctx, h.cache, &h.sfGroup, cacheKey, h.cacheTTL, h.logger, func(fetchCtx context.Context) (service.EvaluationDetailView, error) {
		return h.reporter.GetEvaluationDetail(fetchCtx, softwareID)
	})
	if err != nil {
		h.handleError(ctx, w, "GetEvaluationDetail", err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// GetEvaluatedSoftwares handles GET /users/{userID}/softwares.
func (h *Handlers) GetEvaluatedSoftwares(w http.ResponseWriter, r *http.Request) {
	userID, err := urlParamInt64(r, "userID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid user id"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), defaultRequestTimeout)
	defer cancel()

	cacheKey := normalizeKey(cacheKeyEvaluatedSoftwares, userID)

	results, err := FindAndCache(ctx, h.cache, &h.sfGroup, cacheKey, h.cacheTTL, h.logger, func(fetchCtx context.Context) ([]service.EvaluatedSoftware, error) {
		return h.reporter.GetEvaluatedSoftwares(fetchCtx, userID)
	})
	if err != nil {
		h.handleError(ctx, w, "GetEvaluatedSoftwares", err)
		return
	}

	writeJSON(w, http.StatusOK, results)
}

// GetCharacteristicSummary handles
// GET /softwares/{softwareID}/evaluations/{evaluationID}/summary.
func (h *Handlers) GetCharacteristicSummary(w http.ResponseWriter, r *http.Request) {
	softwareID, err := urlParamInt64(r, "softwareID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid software id"})
		return
	}
	evaluationID, err := urlParamInt64(r, "evaluationID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid evaluation id"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), defaultRequestTimeout)
	defer cancel()

	cacheKey := normalizeKey(cacheKeyCharacteristicSumm, softwareID, evaluationID)

	view, err := FindAndCache(ctx, h.cache, &h.sfGroup, cacheKey, h.cacheTTL, h.logger, func(fetchCtx context.Context) (service.CharacteristicSummaryView, error) {
		return h.reporter.GetCharacteristicSummary(fetchCtx, softwareID, evaluationID)
	})
	if err != nil {
		h.handleError(ctx, w, "GetCharacteristicSummary", err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}
