//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/softqual/evaluation-server/internal/httpapi"
	"github.com/softqual/evaluation-server/internal/repository"
	"github.com/softqual/evaluation-server/internal/service"
	"github.com/softqual/evaluation-server/tests/e2e/mocks"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	_, err = db.Exec("PRAGMA foreign_keys = ON")
	require.NoError(t, err)

	require.NoError(t, repository.EnsureSchema(context.Background(), db))

	// Seed the quality catalog and two owners
	_, err = db.Exec(`
	INSERT INTO quality_characteristics (id, name, weight_percentage) VALUES
	(10, 'Reliability', 40.0),
	(11, 'Security', 60.0);

	INSERT INTO subcharacteristics (id, name, description, max_score, characteristic_id) VALUES
	(1, 'Maturity', 'Fault tolerance under load', 3, 10),
	(2, 'Availability', 'Uptime behavior', 3, 10),
	(3, 'Confidentiality', 'Data access control', 3, 11);

	INSERT INTO softwares (id, user_id, name) VALUES
	(7, 5, 'billing'),
	(8, 5, 'inventory'),
	(9, 6, 'reports');
	`)
	require.NoError(t, err)

	return db
}

type testStack struct {
	router http.Handler
	cache  *mocks.TrackingCache
	db     *sql.DB
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()

	db := setupTestDB(t)
	t.Cleanup(func() { db.Close() })

	logger := zap.NewNop()
	repo := repository.NewEvaluationRepository(db)
	evaluator := service.NewEvaluationService(repo, logger)
	reporter := service.NewReportingService(repo, logger)

	cache := mocks.NewTrackingCache()
	handlers := httpapi.NewHandlers(evaluator, reporter, cache, logger, time.Minute)

	return &testStack{router: handlers.Routes(), cache: cache, db: db}
}

func (s *testStack) do(t *testing.T, method, path string, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = &bytes.Buffer{}
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, reader)
	s.router.ServeHTTP(rec, req)
	return rec
}

const submissionBody = `{
	"software_id": 7,
	"details": [
		{"subcharacteristic_id": 1, "score": 3, "comment": "handles restarts", "characteristic_id": 10, "characteristic_percentage": 40},
		{"subcharacteristic_id": 2, "score": 2, "characteristic_id": 10, "characteristic_percentage": 40},
		{"subcharacteristic_id": 3, "score": 1, "comment": "weak ACLs", "characteristic_id": 11, "characteristic_percentage": 60}
	]
}`

func TestE2E_SubmitAndReadBack(t *testing.T) {
	stack := newTestStack(t)

	rec := stack.do(t, http.MethodPost, "/evaluations", submissionBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		Message      string `json:"message"`
		EvaluationID int64  `json:"evaluation_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Equal(t, "evaluation saved successfully", created.Message)
	require.Greater(t, created.EvaluationID, int64(0))

	t.Run("global score on the user software list", func(t *testing.T) {
		rec := stack.do(t, http.MethodGet, "/users/5/softwares", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var softwares []service.EvaluatedSoftware
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &softwares))
		require.Len(t, softwares, 1, "the never-evaluated software must not appear")

		// Reliability: (3+2)/6 = 83.33% of 40 -> 33.33
		// Security:    1/3    = 33.33% of 60 -> 20.00
		assert.Equal(t, int64(7), softwares[0].SoftwareID)
		assert.Equal(t, "billing", softwares[0].SoftwareName)
		assert.Equal(t, created.EvaluationID, softwares[0].EvaluationID)
		assert.Equal(t, "53.33%", softwares[0].GlobalPercentage)
		assert.Equal(t, "Acceptable", softwares[0].Result)
	})

	t.Run("latest evaluation detail grouped by characteristic", func(t *testing.T) {
		rec := stack.do(t, http.MethodGet, "/softwares/7/evaluation", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var view service.EvaluationDetailView
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
		require.Equal(t, created.EvaluationID, view.EvaluationID)
		require.Len(t, view.Characteristics, 2)

		reliability := view.Characteristics[0]
		assert.Equal(t, "Reliability", reliability.QualityCharacteristicName)
		require.Len(t, reliability.Subcharacteristics, 2)
		assert.Equal(t, "Maturity", reliability.Subcharacteristics[0].SubcharacteristicName)
		assert.Equal(t, 3, reliability.Subcharacteristics[0].Score)
		assert.Equal(t, "handles restarts", reliability.Subcharacteristics[0].Comment)

		security := view.Characteristics[1]
		assert.Equal(t, "Security", security.QualityCharacteristicName)
		require.Len(t, security.Subcharacteristics, 1)
		assert.Equal(t, "weak ACLs", security.Subcharacteristics[0].Comment)
	})

	t.Run("per-characteristic summary", func(t *testing.T) {
		rec := stack.do(t, http.MethodGet, "/softwares/7/evaluations/"+strconv.FormatInt(created.EvaluationID, 10)+"/summary", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var view service.CharacteristicSummaryView
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
		require.Len(t, view.Summaries, 2)

		first := view.Summaries[0]
		assert.Equal(t, "Reliability", first.CharacteristicName)
		assert.Equal(t, 5, first.Value)
		assert.Equal(t, 6, first.MaxValue)
		assert.Equal(t, "83.33%", first.ResultPercentage)
		assert.Equal(t, "33.33%", first.WeightedPercentage)
		assert.Equal(t, "40.00", first.MaxPossiblePercentage)

		second := view.Summaries[1]
		assert.Equal(t, "Security", second.CharacteristicName)
		assert.Equal(t, "33.33%", second.ResultPercentage)
		assert.Equal(t, "20.00%", second.WeightedPercentage)
	})
}


func TestE2E_RejectedSubmissions(t *testing.T) {
	stack := newTestStack(t)

	countRows := func(table string) int {
		var n int
		require.NoError(t, stack.db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
		return n
	}

	t.Run("missing software id", func(t *testing.T) {
		body := `{"details": [{"subcharacteristic_id": 1, "score": 3, "characteristic_id": 10, "characteristic_percentage": 40}]}`

		rec := stack.do(t, http.MethodPost, "/evaluations", body)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "error saving the evaluation")
		assert.Zero(t, countRows("evaluations"))
	})

	t.Run("empty details", func(t *testing.T) {
		rec := stack.do(t, http.MethodPost, "/evaluations", `{"software_id": 7, "details": []}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Zero(t, countRows("evaluations"))
	})

	t.Run("unknown subcharacteristic leaves no partial rows", func(t *testing.T) {
		body := `{
			"software_id": 7,
			"details": [
				{"subcharacteristic_id": 1, "score": 3, "characteristic_id": 10, "characteristic_percentage": 40},
				{"subcharacteristic_id": 999, "score": 2, "characteristic_id": 10, "characteristic_percentage": 40}
			]
		}`

		rec := stack.do(t, http.MethodPost, "/evaluations", body)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "999")

		assert.Zero(t, countRows("evaluations"))
		assert.Zero(t, countRows("evaluation_details"))
		assert.Zero(t, countRows("evaluation_characteristic_summaries"))
	})
}

func TestE2E_ReadEdgeCases(t *testing.T) {
	stack := newTestStack(t)

	t.Run("software without evaluations", func(t *testing.T) {
		rec := stack.do(t, http.MethodGet, "/softwares/8/evaluation", "")
		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "no evaluations found for this software")
	})

	t.Run("user whose softwares have no evaluations", func(t *testing.T) {
		rec := stack.do(t, http.MethodGet, "/users/6/softwares", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})

	t.Run("summary for mismatched software and evaluation", func(t *testing.T) {
		created := stack.do(t, http.MethodPost, "/evaluations", submissionBody)
		require.Equal(t, http.StatusCreated, created.Code)

		var resp struct {
			EvaluationID int64 `json:"evaluation_id"`
		}
		require.NoError(t, json.Unmarshal(created.Body.Bytes(), &resp))

		// Evaluation belongs to software 7, not 8
		rec := stack.do(t, http.MethodGet, "/softwares/8/evaluations/"+strconv.FormatInt(resp.EvaluationID, 10)+"/summary", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var view service.CharacteristicSummaryView
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
		assert.Equal(t, int64(8), view.SoftwareID)
		assert.Empty(t, view.Summaries)
	})
}

func TestE2E_LatestEvaluationWins(t *testing.T) {
	stack := newTestStack(t)

	first := stack.do(t, http.MethodPost, "/evaluations", submissionBody)
	require.Equal(t, http.StatusCreated, first.Code)

	// A later, better evaluation of the same software
	better := `{
		"software_id": 7,
		"details": [
			{"subcharacteristic_id": 1, "score": 3, "characteristic_id": 10, "characteristic_percentage": 40},
			{"subcharacteristic_id": 2, "score": 3, "characteristic_id": 10, "characteristic_percentage": 40},
			{"subcharacteristic_id": 3, "score": 3, "characteristic_id": 11, "characteristic_percentage": 60}
		]
	}`
	second := stack.do(t, http.MethodPost, "/evaluations", better)
	require.Equal(t, http.StatusCreated, second.Code)

	var resp struct {
		EvaluationID int64 `json:"evaluation_id"`
	}
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &resp))

	rec := stack.do(t, http.MethodGet, "/users/5/softwares", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var softwares []service.EvaluatedSoftware
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &softwares))
	require.Len(t, softwares, 1)
	assert.Equal(t, resp.EvaluationID, softwares[0].EvaluationID)
	assert.Equal(t, "100.00%", softwares[0].GlobalPercentage)
	assert.Equal(t, "Excellent", softwares[0].Result)
}

func TestE2E_CacheInvalidationOnSubmit(t *testing.T) {
	stack := newTestStack(t)

	created := stack.do(t, http.MethodPost, "/evaluations", submissionBody)
	require.Equal(t, http.StatusCreated, created.Code)
	require.Equal(t, 1, stack.cache.DeleteCalls(), "submit must invalidate the detail view")

	rec := stack.do(t, http.MethodGet, "/softwares/7/evaluation", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Greater(t, stack.cache.GetCalls(), 0)

	// The miss path populates the cache from a goroutine
	require.Eventually(t, func() bool {
		return stack.cache.SetCalls() > 0
	}, 2*time.Second, 10*time.Millisecond, "miss must populate the cache")

	again := stack.do(t, http.MethodGet, "/softwares/7/evaluation", "")
	require.Equal(t, http.StatusOK, again.Code)
	require.JSONEq(t, rec.Body.String(), again.Body.String())
}
