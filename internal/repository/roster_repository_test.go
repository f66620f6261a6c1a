package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/sma-gradebook/internal/models"
)

func TestRosterRepositoryReplaceKeepsOrderAndCopies(t *testing.T) {
	repo := NewRosterRepository()
	students := []models.Student{{ID: "s2", Name: "Budi"}, {ID: "s1", Name: "Ayu"}}
	repo.Replace("math", students)
	students[0].Name = "changed"

	roster := repo.List("math")
	assert.Equal(t, []models.Student{{ID: "s2", Name: "Budi"}, {ID: "s1", Name: "Ayu"}}, roster)

	roster[1].Name = "mutated"
	assert.Equal(t, "Ayu", repo.List("math")[1].Name)
	assert.Nil(t, repo.List("physics"))
}

func TestWeightRepositoryOverrideAndReset(t *testing.T) {
	repo := NewWeightRepository(nil)

	weights, overridden := repo.Effective("math")
	assert.False(t, overridden)
	assert.Equal(t, models.DefaultWeights(), weights)

	repo.Override("math", models.WeightConfiguration{models.AssessmentFinalExam: 1})
	weights, overridden = repo.Effective("math")
	assert.True(t, overridden)
	assert.Equal(t, models.WeightConfiguration{models.AssessmentFinalExam: 1}, weights)

	weights[models.AssessmentTest] = 0.5
	again, _ := repo.Effective("math")
	assert.NotContains(t, again, models.AssessmentTest)

	other, overridden := repo.Effective("physics")
	assert.False(t, overridden)
	assert.Equal(t, models.DefaultWeights(), other)

	repo.Reset("math")
	weights, overridden = repo.Effective("math")
	assert.False(t, overridden)
	assert.Equal(t, models.DefaultWeights(), weights)
}
