package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-gradebook/internal/service"
)

type exportServiceMock struct {
	format service.ExportFormat
}

func (m *exportServiceMock) Export(ctx context.Context, contextID string, format service.ExportFormat) (*service.ExportFile, error) {
	m.format = format
	return &service.ExportFile{Filename: "results_" + contextID + ".csv", ContentType: "text/csv", Content: []byte("a,b\n")}, nil
}

func TestExportHandlerStreamsAttachment(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &exportServiceMock{}
	handler := NewExportHandler(mock, true)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/contexts/math/export?format=csv", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "contextId", Value: "math"}}

	handler.Export(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, service.ExportFormatCSV, mock.format)
	assert.Contains(t, w.Header().Get("Content-Disposition"), `filename="results_math.csv"`)
	assert.Equal(t, "a,b\n", w.Body.String())
}

func TestExportHandlerDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewExportHandler(&exportServiceMock{}, false)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/contexts/math/export", nil)
	c.Request = req

	handler.Export(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "FEATURE_DISABLED")
}

func TestExportRouteRejectsUnknownFormat(t *testing.T) {
	r := buildGradebookRouter(t, true)

	resp := performRequest(r, jsonRequest(t, http.MethodGet, "/api/v1/contexts/math/export?format=docx", ""))
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = performRequest(r, jsonRequest(t, http.MethodGet, "/api/v1/contexts/math/export?format=xlsx", ""))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Header().Get("Content-Disposition"), "results_math.xlsx")
}
