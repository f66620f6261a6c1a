package repository

import (
	"sync"

	"github.com/noah-isme/sma-gradebook/internal/models"
)

// WeightRepository resolves the weight configuration of a context: a per-context override
// when an administrator set one, the configured default otherwise. Nothing is persisted.
type WeightRepository struct {
	mu        sync.RWMutex
	defaults  models.WeightConfiguration
	overrides map[string]models.WeightConfiguration
}

// NewWeightRepository falls back to models.DefaultWeights when defaults is empty.
func NewWeightRepository(defaults models.WeightConfiguration) *WeightRepository {
	if len(defaults) == 0 {
		defaults = models.DefaultWeights()
	}
	return &WeightRepository{defaults: defaults.Clone(), overrides: make(map[string]models.WeightConfiguration)}
}

// Effective returns the weights in force for contextID and whether they are an override.
func (r *WeightRepository) Effective(contextID string) (models.WeightConfiguration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if override, ok := r.overrides[contextID]; ok {
		return override.Clone(), true
	}
	return r.defaults.Clone(), false
}

// Override replaces the weights for contextID.
func (r *WeightRepository) Override(contextID string, weights models.WeightConfiguration) {
	r.mu.Lock()
	r.overrides[contextID] = weights.Clone()
	r.mu.Unlock()
}

// Reset drops the override so the default applies again.
func (r *WeightRepository) Reset(contextID string) {
	r.mu.Lock()
	delete(r.overrides, contextID)
	r.mu.Unlock()
}
