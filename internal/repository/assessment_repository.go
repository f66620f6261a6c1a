package repository

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/noah-isme/sma-gradebook/internal/models"
)

type assessmentKey struct {
	contextID string
	studentID string
	kind      models.AssessmentType
}

// AssessmentRepository is the in-memory assessment store. It keeps exactly one record per
// (context, student, assessment type) and clamps every score into [0, max score].
type AssessmentRepository struct {
	mu        sync.RWMutex
	maxScores models.MaxScores
	records   map[assessmentKey]models.AssessmentRecord
}

// NewAssessmentRepository validates the per-type max scores. Every supported type needs a
// positive max score; records are then guaranteed to have MaxScore > 0.
func NewAssessmentRepository(maxScores models.MaxScores) (*AssessmentRepository, error) {
	limits := make(models.MaxScores, len(models.AssessmentTypes))
	for _, kind := range models.AssessmentTypes {
		max, ok := maxScores[kind]
		if !ok {
			return nil, fmt.Errorf("max score for %s not configured", kind)
		}
		if math.IsNaN(max) || math.IsInf(max, 0) || max <= 0 {
			return nil, fmt.Errorf("max score for %s must be positive, got %v", kind, max)
		}
		limits[kind] = max
	}
	return &AssessmentRepository{maxScores: limits, records: make(map[assessmentKey]models.AssessmentRecord)}, nil
}

// MaxScore returns the configured ceiling for kind.
func (r *AssessmentRepository) MaxScore(kind models.AssessmentType) (float64, bool) {
	max, ok := r.maxScores[kind]
	return max, ok
}

// Upsert stores the clamped score, replacing any existing record for the same key.
func (r *AssessmentRepository) Upsert(contextID, studentID string, kind models.AssessmentType, score float64) (models.AssessmentRecord, error) {
	max, ok := r.maxScores[kind]
	if !ok {
		return models.AssessmentRecord{}, fmt.Errorf("unknown assessment type %q", kind)
	}
	record := models.AssessmentRecord{
		StudentID: studentID,
		ContextID: contextID,
		Type:      kind,
		Score:     ClampScore(score, max),
		MaxScore:  max,
	}
	r.mu.Lock()
	r.records[assessmentKey{contextID: contextID, studentID: studentID, kind: kind}] = record
	r.mu.Unlock()
	return record, nil
}

// Get returns the student's records in assessment type order. Unknown students yield an empty slice.
func (r *AssessmentRepository) Get(contextID, studentID string) []models.AssessmentRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	records := make([]models.AssessmentRecord, 0, len(models.AssessmentTypes))
	for _, kind := range models.AssessmentTypes {
		if record, ok := r.records[assessmentKey{contextID: contextID, studentID: studentID, kind: kind}]; ok {
			records = append(records, record)
		}
	}
	return records
}

// ListByContext groups every record of a context by student.
func (r *AssessmentRepository) ListByContext(contextID string) map[string][]models.AssessmentRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	grouped := make(map[string][]models.AssessmentRecord)
	for key, record := range r.records {
		if key.contextID != contextID {
			continue
		}
		grouped[key.studentID] = append(grouped[key.studentID], record)
	}
	for studentID := range grouped {
		sortRecords(grouped[studentID])
	}
	return grouped
}

// ClampScore bounds score to [0, max]. NaN is treated as 0.
func ClampScore(score, max float64) float64 {
	if math.IsNaN(score) || score < 0 {
		return 0
	}
	if score > max {
		return max
	}
	return score
}

func sortRecords(records []models.AssessmentRecord) {
	order := make(map[models.AssessmentType]int, len(models.AssessmentTypes))
	for i, kind := range models.AssessmentTypes {
		order[kind] = i
	}
	sort.Slice(records, func(i, j int) bool {
		return order[records[i].Type] < order[records[j].Type]
	})
}
