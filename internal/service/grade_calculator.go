package service

import (
	"github.com/noah-isme/sma-gradebook/internal/models"
)

// CalculatePercentage returns the weighted percentage of the supplied records.
//
// Only assessment types that have both a record and a weight take part; the weighted sum
// is divided by the weights actually used, so a student without a final exam is graded on
// the completed assessments alone. With no qualifying record the result is 0.
func CalculatePercentage(records []models.AssessmentRecord, weights models.WeightConfiguration) int {
	totalWeightedScore := 0.0
	totalWeight := 0.0
	for _, record := range records {
		weight, ok := weights[record.Type]
		if !ok || weight < 0 || record.MaxScore <= 0 {
			continue
		}
		totalWeightedScore += record.Percentage() * weight
		totalWeight += weight
	}
	if totalWeight <= 0 {
		return 0
	}
	rounded := int(roundPercentage(totalWeightedScore / totalWeight))
	switch {
	case rounded < 0:
		return 0
	case rounded > 100:
		return 100
	}
	return rounded
}

// CalculateResult computes the percentage and letter grade of one student.
func CalculateResult(studentID string, records []models.AssessmentRecord, weights models.WeightConfiguration) models.ComputedResult {
	percentage := CalculatePercentage(records, weights)
	return models.ComputedResult{
		StudentID:   studentID,
		Percentage:  percentage,
		LetterGrade: LetterGrade(float64(percentage)),
	}
}

// ComputeClassStatistics summarises results with a percentage above zero. It returns nil
// when no result qualifies so callers can tell "no data" apart from low scores.
func ComputeClassStatistics(results []models.ComputedResult) *models.ClassStatistics {
	distribution := make(map[models.LetterGrade]int, len(models.LetterGrades))
	for _, letter := range models.LetterGrades {
		distribution[letter] = 0
	}
	counted := 0
	sum := 0
	highest := 0
	lowest := 0
	for _, result := range results {
		if result.Percentage <= 0 {
			continue
		}
		if counted == 0 || result.Percentage > highest {
			highest = result.Percentage
		}
		if counted == 0 || result.Percentage < lowest {
			lowest = result.Percentage
		}
		sum += result.Percentage
		counted++
		distribution[LetterGrade(float64(result.Percentage))]++
	}
	if counted == 0 {
		return nil
	}
	return &models.ClassStatistics{
		Average:           int(roundPercentage(float64(sum) / float64(counted))),
		Highest:           highest,
		Lowest:            lowest,
		TotalCounted:      counted,
		GradeDistribution: distribution,
	}
}
