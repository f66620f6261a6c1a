package service

import (
	"math"

	"github.com/noah-isme/sma-gradebook/internal/models"
)

// GradeBand is one rung of the grading ladder.
type GradeBand struct {
	MinPercentage float64            `json:"min_percentage"`
	Letter        models.LetterGrade `json:"letter"`
	Color         models.GradeColor  `json:"color"`
}

// gradeBands is the only threshold table in the module. Letters, badge colours, statistics
// and exports all resolve through BandFor.
var gradeBands = []GradeBand{
	{MinPercentage: 90, Letter: models.GradeA, Color: models.ColorGreen},
	{MinPercentage: 80, Letter: models.GradeB, Color: models.ColorBlue},
	{MinPercentage: 70, Letter: models.GradeC, Color: models.ColorYellow},
	{MinPercentage: 60, Letter: models.GradeD, Color: models.ColorOrange},
	{MinPercentage: math.Inf(-1), Letter: models.GradeF, Color: models.ColorRed},
}

// BandFor rounds percentage to a whole number and returns the first band whose lower
// bound it reaches, scanning from A downwards.
func BandFor(percentage float64) GradeBand {
	rounded := roundPercentage(percentage)
	for _, band := range gradeBands {
		if rounded >= band.MinPercentage {
			return band
		}
	}
	return gradeBands[len(gradeBands)-1]
}

// LetterGrade maps a percentage to A-F.
func LetterGrade(percentage float64) models.LetterGrade {
	return BandFor(percentage).Letter
}

// GradeColor maps a percentage to its badge colour.
func GradeColor(percentage float64) models.GradeColor {
	return BandFor(percentage).Color
}

// GradeBands returns a copy of the ladder for legends. The open-ended F band reports 0.
func GradeBands() []GradeBand {
	bands := make([]GradeBand, len(gradeBands))
	copy(bands, gradeBands)
	last := &bands[len(bands)-1]
	if math.IsInf(last.MinPercentage, -1) {
		last.MinPercentage = 0
	}
	return bands
}

// roundPercentage rounds half away from zero.
func roundPercentage(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Round(v)
}
