package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/sma-gradebook/internal/models"
)

func TestLetterGradeBoundaries(t *testing.T) {
	cases := []struct {
		percentage float64
		letter     models.LetterGrade
	}{
		{100, models.GradeA},
		{90, models.GradeA},
		{89.9999, models.GradeA},
		{89.4, models.GradeB},
		{80, models.GradeB},
		{79, models.GradeC},
		{70, models.GradeC},
		{69.5, models.GradeC},
		{60, models.GradeD},
		{59.49, models.GradeF},
		{0, models.GradeF},
		{-10, models.GradeF},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.letter, LetterGrade(tc.percentage), "percentage %v", tc.percentage)
	}
}

func TestGradeColorSharesLetterBoundaries(t *testing.T) {
	for p := -5.0; p <= 105; p += 0.25 {
		band := BandFor(p)
		assert.Equal(t, band.Letter, LetterGrade(p))
		assert.Equal(t, band.Color, GradeColor(p))
	}
	assert.Equal(t, models.ColorGreen, GradeColor(95))
	assert.Equal(t, models.ColorBlue, GradeColor(85))
	assert.Equal(t, models.ColorYellow, GradeColor(75))
	assert.Equal(t, models.ColorOrange, GradeColor(65))
	assert.Equal(t, models.ColorRed, GradeColor(10))
}

func TestGradeBandsLegend(t *testing.T) {
	bands := GradeBands()
	assert.Len(t, bands, 5)
	assert.Equal(t, models.GradeA, bands[0].Letter)
	assert.Equal(t, 90.0, bands[0].MinPercentage)
	assert.Equal(t, models.GradeF, bands[4].Letter)
	assert.Equal(t, 0.0, bands[4].MinPercentage)

	bands[0].MinPercentage = 50
	assert.Equal(t, models.GradeB, LetterGrade(85))
}
