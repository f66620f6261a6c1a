package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-gradebook/internal/models"
	"github.com/noah-isme/sma-gradebook/internal/repository"
	"github.com/noah-isme/sma-gradebook/internal/service"
	"github.com/noah-isme/sma-gradebook/pkg/export"
)

type envelope struct {
	Data  json.RawMessage        `json:"data"`
	Error *struct{ Code string } `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

func buildGradebookRouter(t *testing.T, exportsEnabled bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := repository.NewAssessmentRepository(models.MaxScores{
		models.AssessmentTest:       20,
		models.AssessmentAssignment: 20,
		models.AssessmentMidExam:    30,
		models.AssessmentFinalExam:  30,
	})
	require.NoError(t, err)
	gradebook := service.NewGradebookService(store, repository.NewRosterRepository(), repository.NewWeightRepository(nil), nil, nil, zap.NewNop())
	exports := service.NewExportService(gradebook, export.NewCSVExporter(','), export.NewPDFExporter(), export.NewXLSXExporter(""), nil, "", zap.NewNop())

	r := gin.New()
	api := r.Group("/api/v1")
	NewGradebookHandler(gradebook).Register(api)
	NewExportHandler(exports, exportsEnabled).Register(api)
	return r
}

func performRequest(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func jsonRequest(t *testing.T, method, path, body string) *http.Request {
	t.Helper()
	req, err := http.NewRequest(method, path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestGradebookRoutesScoreToStatistics(t *testing.T) {
	r := buildGradebookRouter(t, true)

	resp := performRequest(r, jsonRequest(t, http.MethodPut, "/api/v1/contexts/math/roster",
		`{"students":[{"id":"s1","name":"Ayu"},{"id":"s2","name":"Budi"},{"id":"s3","name":"Citra"}]}`))
	require.Equal(t, http.StatusOK, resp.Code)

	resp = performRequest(r, jsonRequest(t, http.MethodGet, "/api/v1/contexts/math/statistics", ""))
	require.Equal(t, http.StatusOK, resp.Code)
	env := decodeEnvelope(t, resp)
	assert.Equal(t, "null", string(env.Data))
	assert.Equal(t, false, env.Meta["has_data"])

	for _, body := range []struct{ path, score string }{
		{"/api/v1/contexts/math/students/s1/scores/test", `{"score":18}`},
		{"/api/v1/contexts/math/students/s1/scores/assignment", `{"score":"16"}`},
		{"/api/v1/contexts/math/students/s1/scores/mid-exam", `{"score":27}`},
		{"/api/v1/contexts/math/students/s1/scores/finalexam", `{"score":24}`},
		{"/api/v1/contexts/math/students/s2/scores/test", `{"score":500}`},
	} {
		resp = performRequest(r, jsonRequest(t, http.MethodPut, body.path, body.score))
		require.Equal(t, http.StatusOK, resp.Code, body.path)
	}

	resp = performRequest(r, jsonRequest(t, http.MethodGet, "/api/v1/contexts/math/students/s2/scores", ""))
	require.Equal(t, http.StatusOK, resp.Code)
	var records []models.AssessmentRecord
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Data, &records))
	require.Len(t, records, 1)
	assert.Equal(t, 20.0, records[0].Score)

	resp = performRequest(r, jsonRequest(t, http.MethodGet, "/api/v1/contexts/math/students/s1/result", ""))
	require.Equal(t, http.StatusOK, resp.Code)
	env = decodeEnvelope(t, resp)
	var result models.ComputedResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, 85, result.Percentage)
	assert.Equal(t, models.GradeB, result.LetterGrade)
	assert.Equal(t, true, env.Meta["has_assessments"])

	resp = performRequest(r, jsonRequest(t, http.MethodGet, "/api/v1/contexts/math/results", ""))
	require.Equal(t, http.StatusOK, resp.Code)
	env = decodeEnvelope(t, resp)
	var rows []models.ClassResultRow
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"s1", "s2", "s3"}, []string{rows[0].StudentID, rows[1].StudentID, rows[2].StudentID})
	assert.False(t, rows[2].HasAssessments)
	assert.EqualValues(t, 3, env.Meta["total"])

	resp = performRequest(r, jsonRequest(t, http.MethodGet, "/api/v1/contexts/math/statistics", ""))
	require.Equal(t, http.StatusOK, resp.Code)
	var stats models.ClassStatistics
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Data, &stats))
	assert.Equal(t, 2, stats.TotalCounted)
	assert.Equal(t, 100, stats.Highest)
	assert.Equal(t, 85, stats.Lowest)
}

func TestGradebookRoutesRejectUnknownType(t *testing.T) {
	r := buildGradebookRouter(t, true)

	resp := performRequest(r, jsonRequest(t, http.MethodPut, "/api/v1/contexts/math/students/s1/scores/quiz", `{"score":10}`))
	require.Equal(t, http.StatusBadRequest, resp.Code)
	env := decodeEnvelope(t, resp)
	require.NotNil(t, env.Error)
	assert.Equal(t, "UNKNOWN_ASSESSMENT_TYPE", env.Error.Code)

	resp = performRequest(r, jsonRequest(t, http.MethodPut, "/api/v1/contexts/math/students/s1/scores/test", `not json`))
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestGradebookRoutesNonNumericScoreBecomesZero(t *testing.T) {
	r := buildGradebookRouter(t, true)

	resp := performRequest(r, jsonRequest(t, http.MethodPut, "/api/v1/contexts/math/students/s1/scores/test", `{"score":"abc"}`))
	require.Equal(t, http.StatusOK, resp.Code)
	var record models.AssessmentRecord
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Data, &record))
	assert.Equal(t, 0.0, record.Score)
}

func TestGradebookRoutesWeights(t *testing.T) {
	r := buildGradebookRouter(t, true)

	resp := performRequest(r, jsonRequest(t, http.MethodPut, "/api/v1/contexts/math/weights", `{"weights":{"test":0.5,"finalexam":0.5}}`))
	require.Equal(t, http.StatusOK, resp.Code)
	var view service.WeightsView
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Data, &view))
	assert.True(t, view.Overridden)
	assert.InDelta(t, 1.0, view.Total, 1e-9)

	resp = performRequest(r, jsonRequest(t, http.MethodPut, "/api/v1/contexts/math/weights", `{"weights":{"test":1.5}}`))
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = performRequest(r, jsonRequest(t, http.MethodDelete, "/api/v1/contexts/math/weights", ""))
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Data, &view))
	assert.False(t, view.Overridden)
	assert.Equal(t, models.DefaultWeights(), view.Weights)
}

func TestGradebookRoutesBulkReportsFailures(t *testing.T) {
	r := buildGradebookRouter(t, true)

	resp := performRequest(r, jsonRequest(t, http.MethodPost, "/api/v1/contexts/math/scores/bulk",
		`{"items":[{"student_id":"s1","assessment_type":"test","score":15},{"student_id":"s1","assessment_type":"quiz","score":3}]}`))
	require.Equal(t, http.StatusOK, resp.Code)
	var result service.BulkScoresResult
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Data, &result))
	assert.Equal(t, 1, result.SuccessCount)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "quiz", result.Failures[0].AssessmentType)
}

func TestGradebookRoutesImportWorkbook(t *testing.T) {
	r := buildGradebookRouter(t, true)

	sheet, err := export.NewXLSXExporter("Scores").Render(export.Dataset{
		Headers: []string{"student_id", "test", "final_exam"},
		Rows: []map[string]string{
			{"student_id": "s1", "test": "20", "final_exam": "30"},
			{"student_id": "s2", "test": "10"},
		},
	})
	require.NoError(t, err)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "scores.xlsx")
	require.NoError(t, err)
	_, err = part.Write(sheet)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req, err := http.NewRequest(http.MethodPost, "/api/v1/contexts/math/scores/import", &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp := performRequest(r, req)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var result service.BulkScoresResult
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Data, &result))
	assert.Equal(t, 3, result.SuccessCount)

	missing, err := http.NewRequest(http.MethodPost, "/api/v1/contexts/math/scores/import", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, performRequest(r, missing).Code)
}

func TestGradebookRoutesGradeBands(t *testing.T) {
	r := buildGradebookRouter(t, true)

	resp := performRequest(r, jsonRequest(t, http.MethodGet, "/api/v1/grade-bands", ""))
	require.Equal(t, http.StatusOK, resp.Code)
	var bands []service.GradeBand
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Data, &bands))
	require.Len(t, bands, len(models.LetterGrades))
	assert.Equal(t, models.GradeA, bands[0].Letter)
}
