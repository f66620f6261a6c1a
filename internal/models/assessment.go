package models

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// AssessmentType identifies a category of graded work.
type AssessmentType string

const (
	// AssessmentTest covers short tests and quizzes.
	AssessmentTest AssessmentType = "test"
	// AssessmentAssignment covers homework and projects.
	AssessmentAssignment AssessmentType = "assignment"
	// AssessmentMidExam is the mid-term examination.
	AssessmentMidExam AssessmentType = "midexam"
	// AssessmentFinalExam is the end-of-term examination.
	AssessmentFinalExam AssessmentType = "finalexam"
)

// AssessmentTypes lists every supported type in display order.
var AssessmentTypes = []AssessmentType{AssessmentTest, AssessmentAssignment, AssessmentMidExam, AssessmentFinalExam}

// Valid reports whether t is one of the supported assessment types.
func (t AssessmentType) Valid() bool {
	switch t {
	case AssessmentTest, AssessmentAssignment, AssessmentMidExam, AssessmentFinalExam:
		return true
	}
	return false
}

// Label returns the column caption used by exports.
func (t AssessmentType) Label() string {
	switch t {
	case AssessmentTest:
		return "Test"
	case AssessmentAssignment:
		return "Assignment"
	case AssessmentMidExam:
		return "Mid Exam"
	case AssessmentFinalExam:
		return "Final Exam"
	}
	return string(t)
}

// ParseAssessmentType normalises user supplied spellings such as "Mid-Exam" or "final_exam".
func ParseAssessmentType(raw string) (AssessmentType, bool) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	normalized = strings.NewReplacer("-", "", "_", "", " ", "").Replace(normalized)
	t := AssessmentType(normalized)
	return t, t.Valid()
}

// AssessmentRecord is the current score of one student for one assessment type.
type AssessmentRecord struct {
	StudentID string         `json:"student_id"`
	ContextID string         `json:"context_id"`
	Type      AssessmentType `json:"assessment_type"`
	Score     float64        `json:"score"`
	MaxScore  float64        `json:"max_score"`
}

// Percentage returns the record score scaled to 0..100. Records without a positive max score yield 0.
func (r AssessmentRecord) Percentage() float64 {
	if r.MaxScore <= 0 {
		return 0
	}
	return r.Score / r.MaxScore * 100
}

// WeightConfiguration maps assessment types to their fractional contribution.
type WeightConfiguration map[AssessmentType]float64

// DefaultWeights returns the stock weighting: tests and assignments 20% each, exams 30% each.
func DefaultWeights() WeightConfiguration {
	return WeightConfiguration{
		AssessmentTest:       0.2,
		AssessmentAssignment: 0.2,
		AssessmentMidExam:    0.3,
		AssessmentFinalExam:  0.3,
	}
}

// Clone returns an independent copy.
func (w WeightConfiguration) Clone() WeightConfiguration {
	clone := make(WeightConfiguration, len(w))
	for k, v := range w {
		clone[k] = v
	}
	return clone
}

// Total sums every configured weight.
func (w WeightConfiguration) Total() float64 {
	total := 0.0
	for _, v := range w {
		total += v
	}
	return total
}

// MaxScores maps assessment types to the highest score an input may hold.
type MaxScores map[AssessmentType]float64

// DefaultMaxScores uses 100 for every assessment type.
func DefaultMaxScores() MaxScores {
	return MaxScores{
		AssessmentTest:       100,
		AssessmentAssignment: 100,
		AssessmentMidExam:    100,
		AssessmentFinalExam:  100,
	}
}

// ScoreInput is a raw score typed into the gradebook. It accepts JSON numbers and
// strings; anything that does not parse as a finite number becomes 0.
type ScoreInput float64

// UnmarshalJSON implements json.Unmarshaler without ever failing on malformed scores.
func (s *ScoreInput) UnmarshalJSON(data []byte) error {
	var number float64
	if err := json.Unmarshal(data, &number); err == nil {
		*s = ScoreInput(sanitizeScore(number))
		return nil
	}
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*s = ScoreInput(ParseScoreInput(text))
		return nil
	}
	*s = 0
	return nil
}

// Float64 returns the numeric value.
func (s ScoreInput) Float64() float64 {
	return float64(s)
}

// ParseScoreInput converts free text into a score. Comma decimal separators are accepted.
func ParseScoreInput(raw string) float64 {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
	if raw == "" {
		return 0
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return sanitizeScore(value)
}

func sanitizeScore(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
