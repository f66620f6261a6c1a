package service

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-gradebook/internal/models"
	appErrors "github.com/noah-isme/sma-gradebook/pkg/errors"
	"github.com/noah-isme/sma-gradebook/pkg/export"
)

// ImportScores upserts a score sheet. The first sheet must carry a student_id column plus
// any of the assessment type columns; blank cells are left untouched.
func (s *GradebookService) ImportScores(ctx context.Context, contextID string, r io.Reader) (*BulkScoresResult, error) {
	data, err := export.ReadXLSX(r)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unreadable score sheet")
	}
	columns := make(map[string]models.AssessmentType)
	hasStudentColumn := false
	for _, header := range data.Headers {
		if header == "student_id" {
			hasStudentColumn = true
			continue
		}
		if kind, ok := models.ParseAssessmentType(header); ok {
			columns[header] = kind
		}
	}
	if !hasStudentColumn {
		return nil, appErrors.Clone(appErrors.ErrValidation, "score sheet needs a student_id column")
	}
	if len(columns) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "score sheet has no assessment columns")
	}

	req := BulkScoresRequest{ContextID: contextID}
	for _, row := range data.Rows {
		for header, kind := range columns {
			raw, ok := row[header]
			if !ok || raw == "" {
				continue
			}
			req.Items = append(req.Items, BulkScoreItem{
				StudentID:      row["student_id"],
				AssessmentType: kind,
				Score:          models.ScoreInput(models.ParseScoreInput(raw)),
			})
		}
	}
	if len(req.Items) == 0 {
		return &BulkScoresResult{}, nil
	}
	result, err := s.BulkUpsertScores(ctx, req)
	if err != nil {
		return nil, err
	}
	s.logger.Info("score sheet imported", zap.String("context_id", contextID), zap.Int("rows", len(data.Rows)), zap.Int("scores", result.SuccessCount))
	return result, nil
}
