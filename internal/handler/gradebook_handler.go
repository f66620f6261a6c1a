package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-gradebook/internal/models"
	"github.com/noah-isme/sma-gradebook/internal/service"
	appErrors "github.com/noah-isme/sma-gradebook/pkg/errors"
	"github.com/noah-isme/sma-gradebook/pkg/response"
)

type gradebookService interface {
	UpsertScore(ctx context.Context, req service.UpsertScoreRequest) (*models.AssessmentRecord, error)
	BulkUpsertScores(ctx context.Context, req service.BulkScoresRequest) (*service.BulkScoresResult, error)
	ImportScores(ctx context.Context, contextID string, r io.Reader) (*service.BulkScoresResult, error)
	Scores(ctx context.Context, contextID, studentID string) []models.AssessmentRecord
	ComputeResult(ctx context.Context, contextID, studentID string) models.ComputedResult
	ClassResults(ctx context.Context, contextID string) []models.ClassResultRow
	ClassStatistics(ctx context.Context, contextID string) *models.ClassStatistics
	ReplaceRoster(ctx context.Context, contextID string, req service.ReplaceRosterRequest) ([]models.Student, error)
	Roster(ctx context.Context, contextID string) []models.Student
	Weights(ctx context.Context, contextID string) service.WeightsView
	UpdateWeights(ctx context.Context, contextID string, req service.UpdateWeightsRequest) (*service.WeightsView, error)
	ResetWeights(ctx context.Context, contextID string) service.WeightsView
}

type scoreInputPayload struct {
	Score models.ScoreInput `json:"score"`
}

// GradebookHandler exposes the gradebook over HTTP.
type GradebookHandler struct {
	gradebook gradebookService
}

// NewGradebookHandler constructs handler.
func NewGradebookHandler(gradebook gradebookService) *GradebookHandler {
	return &GradebookHandler{gradebook: gradebook}
}

// Register mounts the gradebook routes on rg.
func (h *GradebookHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/grade-bands", h.GradeBands)
	contexts := rg.Group("/contexts/:contextId")
	contexts.GET("/roster", h.Roster)
	contexts.PUT("/roster", h.ReplaceRoster)
	contexts.GET("/weights", h.Weights)
	contexts.PUT("/weights", h.UpdateWeights)
	contexts.DELETE("/weights", h.ResetWeights)
	contexts.PUT("/students/:studentId/scores/:type", h.UpsertScore)
	contexts.GET("/students/:studentId/scores", h.Scores)
	contexts.GET("/students/:studentId/result", h.Result)
	contexts.POST("/scores/bulk", h.BulkScores)
	contexts.POST("/scores/import", h.ImportScores)
	contexts.GET("/results", h.ClassResults)
	contexts.GET("/statistics", h.Statistics)
}

// GradeBands godoc
// @Summary Grade ladder used for letters and badge colours
// @Tags Gradebook
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /grade-bands [get]
func (h *GradebookHandler) GradeBands(c *gin.Context) {
	response.JSON(c, http.StatusOK, service.GradeBands())
}

// Roster godoc
// @Summary List the roster of a context
// @Tags Roster
// @Produce json
// @Param contextId path string true "Subject/class context"
// @Success 200 {object} response.Envelope
// @Router /contexts/{contextId}/roster [get]
func (h *GradebookHandler) Roster(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.gradebook.Roster(c.Request.Context(), c.Param("contextId")))
}

// ReplaceRoster godoc
// @Summary Replace the roster of a context
// @Tags Roster
// @Accept json
// @Produce json
// @Param contextId path string true "Subject/class context"
// @Param payload body service.ReplaceRosterRequest true "Roster payload"
// @Success 200 {object} response.Envelope
// @Router /contexts/{contextId}/roster [put]
func (h *GradebookHandler) ReplaceRoster(c *gin.Context) {
	var req service.ReplaceRosterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	roster, err := h.gradebook.ReplaceRoster(c.Request.Context(), c.Param("contextId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, roster)
}

// Weights godoc
// @Summary Weights in force for a context
// @Tags Weights
// @Produce json
// @Param contextId path string true "Subject/class context"
// @Success 200 {object} response.Envelope
// @Router /contexts/{contextId}/weights [get]
func (h *GradebookHandler) Weights(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.gradebook.Weights(c.Request.Context(), c.Param("contextId")))
}

// UpdateWeights godoc
// @Summary Override the weights of a context
// @Tags Weights
// @Accept json
// @Produce json
// @Param contextId path string true "Subject/class context"
// @Param payload body service.UpdateWeightsRequest true "Weights payload"
// @Success 200 {object} response.Envelope
// @Router /contexts/{contextId}/weights [put]
func (h *GradebookHandler) UpdateWeights(c *gin.Context) {
	var req service.UpdateWeightsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	view, err := h.gradebook.UpdateWeights(c.Request.Context(), c.Param("contextId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view)
}

// ResetWeights godoc
// @Summary Restore default weights
// @Tags Weights
// @Produce json
// @Param contextId path string true "Subject/class context"
// @Success 200 {object} response.Envelope
// @Router /contexts/{contextId}/weights [delete]
func (h *GradebookHandler) ResetWeights(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.gradebook.ResetWeights(c.Request.Context(), c.Param("contextId")))
}

// UpsertScore godoc
// @Summary Store one score; out-of-range input is clamped
// @Tags Scores
// @Accept json
// @Produce json
// @Param contextId path string true "Subject/class context"
// @Param studentId path string true "Student"
// @Param type path string true "test, assignment, midexam or finalexam"
// @Success 200 {object} response.Envelope
// @Router /contexts/{contextId}/students/{studentId}/scores/{type} [put]
func (h *GradebookHandler) UpsertScore(c *gin.Context) {
	var payload scoreInputPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	record, err := h.gradebook.UpsertScore(c.Request.Context(), service.UpsertScoreRequest{
		ContextID:      c.Param("contextId"),
		StudentID:      c.Param("studentId"),
		AssessmentType: models.AssessmentType(c.Param("type")),
		Score:          payload.Score,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record)
}

// Scores godoc
// @Summary Stored scores of a student
// @Tags Scores
// @Produce json
// @Param contextId path string true "Subject/class context"
// @Param studentId path string true "Student"
// @Success 200 {object} response.Envelope
// @Router /contexts/{contextId}/students/{studentId}/scores [get]
func (h *GradebookHandler) Scores(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.gradebook.Scores(c.Request.Context(), c.Param("contextId"), c.Param("studentId")))
}

// Result godoc
// @Summary Weighted final result of a student
// @Tags Results
// @Produce json
// @Param contextId path string true "Subject/class context"
// @Param studentId path string true "Student"
// @Success 200 {object} response.Envelope
// @Router /contexts/{contextId}/students/{studentId}/result [get]
func (h *GradebookHandler) Result(c *gin.Context) {
	contextID, studentID := c.Param("contextId"), c.Param("studentId")
	result := h.gradebook.ComputeResult(c.Request.Context(), contextID, studentID)
	graded := len(h.gradebook.Scores(c.Request.Context(), contextID, studentID)) > 0
	response.JSON(c, http.StatusOK, result, map[string]interface{}{"has_assessments": graded})
}

// BulkScores godoc
// @Summary Store many scores; invalid items are reported
// @Tags Scores
// @Accept json
// @Produce json
// @Param contextId path string true "Subject/class context"
// @Param payload body service.BulkScoresRequest true "Bulk payload"
// @Success 200 {object} response.Envelope
// @Router /contexts/{contextId}/scores/bulk [post]
func (h *GradebookHandler) BulkScores(c *gin.Context) {
	var req service.BulkScoresRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	req.ContextID = c.Param("contextId")
	result, err := h.gradebook.BulkUpsertScores(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// ImportScores godoc
// @Summary Import an XLSX score sheet
// @Tags Scores
// @Accept multipart/form-data
// @Produce json
// @Param contextId path string true "Subject/class context"
// @Param file formData file true "Workbook with student_id and assessment columns"
// @Success 200 {object} response.Envelope
// @Router /contexts/{contextId}/scores/import [post]
func (h *GradebookHandler) ImportScores(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "file is required"))
		return
	}
	file, err := header.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open upload"))
		return
	}
	defer file.Close()
	result, err := h.gradebook.ImportScores(c.Request.Context(), c.Param("contextId"), file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// ClassResults godoc
// @Summary Class results table in roster order
// @Tags Results
// @Produce json
// @Param contextId path string true "Subject/class context"
// @Success 200 {object} response.Envelope
// @Router /contexts/{contextId}/results [get]
func (h *GradebookHandler) ClassResults(c *gin.Context) {
	rows := h.gradebook.ClassResults(c.Request.Context(), c.Param("contextId"))
	response.JSON(c, http.StatusOK, rows, map[string]interface{}{"total": len(rows)})
}

// Statistics godoc
// @Summary Class statistics over students with a result above zero
// @Tags Results
// @Produce json
// @Param contextId path string true "Subject/class context"
// @Success 200 {object} response.Envelope
// @Router /contexts/{contextId}/statistics [get]
func (h *GradebookHandler) Statistics(c *gin.Context) {
	stats := h.gradebook.ClassStatistics(c.Request.Context(), c.Param("contextId"))
	response.JSON(c, http.StatusOK, stats, map[string]interface{}{"has_data": stats != nil})
}
