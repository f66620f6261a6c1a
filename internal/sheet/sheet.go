package sheet

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/noah-isme/sma-gradebook/internal/models"
	"github.com/noah-isme/sma-gradebook/internal/repository"
	"github.com/noah-isme/sma-gradebook/internal/service"
)

// Sheet is an offline score sheet for one subject/class context.
type Sheet struct {
	Context   string             `yaml:"context"`
	Weights   map[string]float64 `yaml:"weights"`
	MaxScores map[string]float64 `yaml:"max_scores"`
	Students  []Student          `yaml:"students"`
}

// Student is one roster line of a sheet. Scores are keyed by assessment type name.
type Student struct {
	ID     string           `yaml:"id"`
	Name   string           `yaml:"name"`
	Scores map[string]Score `yaml:"scores"`
}

// Score is a raw cell. Anything that is not a number is read as 0; an empty cell stays unset.
type Score struct {
	Value float64
	Set   bool
}

// UnmarshalYAML accepts any scalar.
func (s *Score) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: score must be a scalar", node.Line)
	}
	s.Value = models.ParseScoreInput(node.Value)
	s.Set = true
	return nil
}

// Load reads and parses the sheet at path.
func Load(path string) (*Sheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading sheet: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML sheet and checks its shape.
func Parse(data []byte) (*Sheet, error) {
	var s Sheet
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing sheet: %w", err)
	}
	if s.Context == "" {
		return nil, fmt.Errorf("sheet has no context")
	}
	seen := make(map[string]struct{}, len(s.Students))
	for i, student := range s.Students {
		if student.ID == "" {
			return nil, fmt.Errorf("student #%d has no id", i+1)
		}
		if _, dup := seen[student.ID]; dup {
			return nil, fmt.Errorf("student %s listed twice", student.ID)
		}
		seen[student.ID] = struct{}{}
		for name := range student.Scores {
			if _, ok := models.ParseAssessmentType(name); !ok {
				return nil, fmt.Errorf("student %s: unknown assessment type %q", student.ID, name)
			}
		}
	}
	return &s, nil
}

// WeightConfiguration returns the sheet weights, or the defaults when the sheet names none.
func (s *Sheet) WeightConfiguration() (models.WeightConfiguration, error) {
	if len(s.Weights) == 0 {
		return models.DefaultWeights(), nil
	}
	weights := models.WeightConfiguration{}
	for name, weight := range s.Weights {
		kind, ok := models.ParseAssessmentType(name)
		if !ok {
			return nil, fmt.Errorf("weights: unknown assessment type %q", name)
		}
		if weight < 0 || weight > 1 {
			return nil, fmt.Errorf("weights: %s must be within [0,1], got %v", name, weight)
		}
		weights[kind] = weight
	}
	return weights, nil
}

// MaxScoreTable overlays the sheet max scores on the defaults.
func (s *Sheet) MaxScoreTable() (models.MaxScores, error) {
	maxScores := models.DefaultMaxScores()
	for name, max := range s.MaxScores {
		kind, ok := models.ParseAssessmentType(name)
		if !ok {
			return nil, fmt.Errorf("max_scores: unknown assessment type %q", name)
		}
		maxScores[kind] = max
	}
	return maxScores, nil
}

// Gradebook loads the sheet into a fresh in-memory gradebook.
func (s *Sheet) Gradebook(ctx context.Context, logger *zap.Logger) (*service.GradebookService, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	maxScores, err := s.MaxScoreTable()
	if err != nil {
		return nil, err
	}
	weights, err := s.WeightConfiguration()
	if err != nil {
		return nil, err
	}
	store, err := repository.NewAssessmentRepository(maxScores)
	if err != nil {
		return nil, err
	}
	gradebook := service.NewGradebookService(store, repository.NewRosterRepository(), repository.NewWeightRepository(weights), nil, nil, logger)

	roster := make([]models.Student, 0, len(s.Students))
	for _, student := range s.Students {
		roster = append(roster, models.Student{ID: student.ID, Name: student.Name})
	}
	if _, err := gradebook.ReplaceRoster(ctx, s.Context, service.ReplaceRosterRequest{Students: roster}); err != nil {
		return nil, err
	}

	for _, student := range s.Students {
		for name, score := range student.Scores {
			if !score.Set {
				continue
			}
			if _, err := gradebook.UpsertScore(ctx, service.UpsertScoreRequest{
				ContextID:      s.Context,
				StudentID:      student.ID,
				AssessmentType: models.AssessmentType(name),
				Score:          models.ScoreInput(score.Value),
			}); err != nil {
				return nil, fmt.Errorf("student %s %s: %w", student.ID, name, err)
			}
		}
	}
	logger.Debug("sheet loaded", zap.String("context_id", s.Context), zap.Int("students", len(s.Students)))
	return gradebook, nil
}
