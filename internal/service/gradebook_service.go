package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-gradebook/internal/models"
	appErrors "github.com/noah-isme/sma-gradebook/pkg/errors"
)

type assessmentStore interface {
	Upsert(contextID, studentID string, kind models.AssessmentType, score float64) (models.AssessmentRecord, error)
	Get(contextID, studentID string) []models.AssessmentRecord
	ListByContext(contextID string) map[string][]models.AssessmentRecord
	MaxScore(kind models.AssessmentType) (float64, bool)
}

type rosterStore interface {
	Replace(contextID string, students []models.Student)
	List(contextID string) []models.Student
}

type weightStore interface {
	Effective(contextID string) (models.WeightConfiguration, bool)
	Override(contextID string, weights models.WeightConfiguration)
	Reset(contextID string)
}

type gradebookMetrics interface {
	RecordScoreUpsert(assessmentType string, clamped bool)
	RecordResult(letter string)
}

// UpsertScoreRequest is a single score edit coming from the gradebook grid.
type UpsertScoreRequest struct {
	ContextID      string                `json:"context_id" validate:"required"`
	StudentID      string                `json:"student_id" validate:"required"`
	AssessmentType models.AssessmentType `json:"assessment_type" validate:"required"`
	Score          models.ScoreInput     `json:"score"`
}

// BulkScoreItem is one score inside a bulk payload.
type BulkScoreItem struct {
	StudentID      string                `json:"student_id" validate:"required"`
	AssessmentType models.AssessmentType `json:"assessment_type" validate:"required"`
	Score          models.ScoreInput     `json:"score"`
}

// BulkScoresRequest applies many scores to one context. Items are independent: an
// invalid item is reported and skipped, the rest are stored.
type BulkScoresRequest struct {
	ContextID string          `json:"context_id" validate:"required"`
	Items     []BulkScoreItem `json:"items" validate:"required,min=1"`
}

// BulkScoresResult summarises a bulk upsert.
type BulkScoresResult struct {
	SuccessCount int                `json:"success_count"`
	Failures     []BulkScoreFailure `json:"failures,omitempty"`
}

// BulkScoreFailure captures a rejected bulk item.
type BulkScoreFailure struct {
	StudentID      string `json:"student_id"`
	AssessmentType string `json:"assessment_type"`
	Reason         string `json:"reason"`
}

// ReplaceRosterRequest hands a context's ordered roster to the gradebook.
type ReplaceRosterRequest struct {
	Students []models.Student `json:"students" validate:"dive"`
}

// UpdateWeightsRequest overrides the weight configuration of a context. The weights do
// not need to sum to 1; results are normalised over the weights in use.
type UpdateWeightsRequest struct {
	Weights map[models.AssessmentType]float64 `json:"weights" validate:"required,min=1,dive,gte=0,lte=1"`
}

// WeightsView reports the weights in force for a context.
type WeightsView struct {
	ContextID  string                     `json:"context_id"`
	Weights    models.WeightConfiguration `json:"weights"`
	Total      float64                    `json:"total"`
	Overridden bool                       `json:"overridden"`
}

// GradebookService is the pull-based grading API: scores go in through UpsertScore and
// results are recomputed from the store on every read.
type GradebookService struct {
	store     assessmentStore
	rosters   rosterStore
	weights   weightStore
	metrics   gradebookMetrics
	validator *validator.Validate
	logger    *zap.Logger
}

// NewGradebookService constructs GradebookService. metrics may be nil.
func NewGradebookService(store assessmentStore, rosters rosterStore, weights weightStore, metrics gradebookMetrics, validate *validator.Validate, logger *zap.Logger) *GradebookService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradebookService{store: store, rosters: rosters, weights: weights, metrics: metrics, validator: validate, logger: logger}
}

// UpsertScore stores one score. Out-of-range and non-numeric input is clamped rather than
// rejected; only a missing key or an unknown assessment type fails.
func (s *GradebookService) UpsertScore(ctx context.Context, req UpsertScoreRequest) (*models.AssessmentRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid score payload")
	}
	kind, ok := models.ParseAssessmentType(string(req.AssessmentType))
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrUnknownAssessmentType, fmt.Sprintf("unknown assessment type %q", req.AssessmentType))
	}
	record, err := s.upsert(req.ContextID, req.StudentID, kind, req.Score.Float64())
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// BulkUpsertScores applies every valid item and reports the rest.
func (s *GradebookService) BulkUpsertScores(ctx context.Context, req BulkScoresRequest) (*BulkScoresResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid bulk payload")
	}
	result := &BulkScoresResult{}
	for _, item := range req.Items {
		if err := s.validator.Struct(item); err != nil {
			result.Failures = append(result.Failures, BulkScoreFailure{StudentID: item.StudentID, AssessmentType: string(item.AssessmentType), Reason: "student_id and assessment_type required"})
			continue
		}
		kind, ok := models.ParseAssessmentType(string(item.AssessmentType))
		if !ok {
			result.Failures = append(result.Failures, BulkScoreFailure{StudentID: item.StudentID, AssessmentType: string(item.AssessmentType), Reason: "unknown assessment type"})
			continue
		}
		if _, err := s.upsert(req.ContextID, item.StudentID, kind, item.Score.Float64()); err != nil {
			result.Failures = append(result.Failures, BulkScoreFailure{StudentID: item.StudentID, AssessmentType: string(item.AssessmentType), Reason: err.Error()})
			continue
		}
		result.SuccessCount++
	}
	if len(result.Failures) > 0 {
		s.logger.Info("bulk score upsert partially applied",
			zap.String("context_id", req.ContextID),
			zap.Int("success", result.SuccessCount),
			zap.Int("failures", len(result.Failures)))
	}
	return result, nil
}

// Scores returns the stored records of a student, empty when none exist.
func (s *GradebookService) Scores(ctx context.Context, contextID, studentID string) []models.AssessmentRecord {
	return s.store.Get(contextID, studentID)
}

// ComputeResult recomputes the final percentage and letter grade of one student.
func (s *GradebookService) ComputeResult(ctx context.Context, contextID, studentID string) models.ComputedResult {
	weights, _ := s.weights.Effective(contextID)
	result := CalculateResult(studentID, s.store.Get(contextID, studentID), weights)
	if s.metrics != nil {
		s.metrics.RecordResult(string(result.LetterGrade))
	}
	return result
}

// ComputeClassStatistics aggregates already computed results. Nil means nothing to report.
func (s *GradebookService) ComputeClassStatistics(results []models.ComputedResult) *models.ClassStatistics {
	return ComputeClassStatistics(results)
}

// ClassResults builds the results table of a context in roster order. Without a roster the
// rows cover every student holding a score, ordered by id. Graded students are ranked by
// percentage with ties sharing a rank.
func (s *GradebookService) ClassResults(ctx context.Context, contextID string) []models.ClassResultRow {
	weights, _ := s.weights.Effective(contextID)
	records := s.store.ListByContext(contextID)
	roster := s.rosters.List(contextID)
	if roster == nil {
		roster = make([]models.Student, 0, len(records))
		for studentID := range records {
			roster = append(roster, models.Student{ID: studentID})
		}
		sort.Slice(roster, func(i, j int) bool { return roster[i].ID < roster[j].ID })
	}

	rows := make([]models.ClassResultRow, 0, len(roster))
	for _, student := range roster {
		studentRecords := records[student.ID]
		result := CalculateResult(student.ID, studentRecords, weights)
		band := BandFor(float64(result.Percentage))
		row := models.ClassResultRow{
			StudentID:      student.ID,
			StudentName:    student.Name,
			Percentage:     result.Percentage,
			LetterGrade:    band.Letter,
			Color:          band.Color,
			HasAssessments: len(studentRecords) > 0,
		}
		if len(studentRecords) > 0 {
			row.Scores = make(map[models.AssessmentType]float64, len(studentRecords))
			for _, record := range studentRecords {
				row.Scores[record.Type] = record.Score
			}
		}
		rows = append(rows, row)
	}
	rankRows(rows)
	return rows
}

// ClassStatistics computes statistics over the class results table of a context.
func (s *GradebookService) ClassStatistics(ctx context.Context, contextID string) *models.ClassStatistics {
	rows := s.ClassResults(ctx, contextID)
	results := make([]models.ComputedResult, 0, len(rows))
	for _, row := range rows {
		results = append(results, row.Result())
	}
	return ComputeClassStatistics(results)
}

// ClassReport bundles weights, rows and statistics of a context.
func (s *GradebookService) ClassReport(ctx context.Context, contextID string) *models.ClassReport {
	weights, _ := s.weights.Effective(contextID)
	rows := s.ClassResults(ctx, contextID)
	results := make([]models.ComputedResult, 0, len(rows))
	for _, row := range rows {
		results = append(results, row.Result())
	}
	return &models.ClassReport{ContextID: contextID, Weights: weights, Rows: rows, Statistics: ComputeClassStatistics(results)}
}

// ReplaceRoster registers the ordered roster of a context. Duplicate ids are rejected.
func (s *GradebookService) ReplaceRoster(ctx context.Context, contextID string, req ReplaceRosterRequest) ([]models.Student, error) {
	if strings.TrimSpace(contextID) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "context id required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid roster payload")
	}
	seen := make(map[string]bool, len(req.Students))
	for _, student := range req.Students {
		if seen[student.ID] {
			return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("student %s listed twice", student.ID))
		}
		seen[student.ID] = true
	}
	s.rosters.Replace(contextID, req.Students)
	s.logger.Debug("roster replaced", zap.String("context_id", contextID), zap.Int("students", len(req.Students)))
	return s.rosters.List(contextID), nil
}

// Roster returns the registered roster, empty when none exists.
func (s *GradebookService) Roster(ctx context.Context, contextID string) []models.Student {
	roster := s.rosters.List(contextID)
	if roster == nil {
		return []models.Student{}
	}
	return roster
}

// Weights reports the weights in force for a context.
func (s *GradebookService) Weights(ctx context.Context, contextID string) WeightsView {
	weights, overridden := s.weights.Effective(contextID)
	return WeightsView{ContextID: contextID, Weights: weights, Total: weights.Total(), Overridden: overridden}
}

// UpdateWeights installs a per-context override.
func (s *GradebookService) UpdateWeights(ctx context.Context, contextID string, req UpdateWeightsRequest) (*WeightsView, error) {
	if strings.TrimSpace(contextID) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "context id required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidWeights.Code, appErrors.ErrInvalidWeights.Status, "weights must be between 0 and 1")
	}
	weights := make(models.WeightConfiguration, len(req.Weights))
	for raw, weight := range req.Weights {
		kind, ok := models.ParseAssessmentType(string(raw))
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrUnknownAssessmentType, fmt.Sprintf("unknown assessment type %q", raw))
		}
		weights[kind] = weight
	}
	s.weights.Override(contextID, weights)
	s.logger.Info("weights overridden", zap.String("context_id", contextID), zap.Float64("total", weights.Total()))
	view := s.Weights(ctx, contextID)
	return &view, nil
}

// ResetWeights restores the default weights of a context.
func (s *GradebookService) ResetWeights(ctx context.Context, contextID string) WeightsView {
	s.weights.Reset(contextID)
	return s.Weights(ctx, contextID)
}

func (s *GradebookService) upsert(contextID, studentID string, kind models.AssessmentType, score float64) (models.AssessmentRecord, error) {
	record, err := s.store.Upsert(contextID, studentID, kind, score)
	if err != nil {
		return models.AssessmentRecord{}, appErrors.Wrap(err, appErrors.ErrUnknownAssessmentType.Code, appErrors.ErrUnknownAssessmentType.Status, "failed to store score")
	}
	clamped := record.Score != score
	if clamped {
		s.logger.Debug("score clamped",
			zap.String("context_id", contextID),
			zap.String("student_id", studentID),
			zap.String("assessment_type", string(kind)),
			zap.Float64("input", score),
			zap.Float64("stored", record.Score))
	}
	if s.metrics != nil {
		s.metrics.RecordScoreUpsert(string(kind), clamped)
	}
	return record, nil
}

func rankRows(rows []models.ClassResultRow) {
	graded := make([]int, 0, len(rows))
	for i := range rows {
		if rows[i].HasAssessments {
			graded = append(graded, i)
		}
	}
	sort.SliceStable(graded, func(a, b int) bool {
		return rows[graded[a]].Percentage > rows[graded[b]].Percentage
	})
	for pos, idx := range graded {
		rank := pos + 1
		if pos > 0 && rows[graded[pos-1]].Percentage == rows[idx].Percentage {
			rank = *rows[graded[pos-1]].Rank
		}
		rows[idx].Rank = &rank
	}
}
