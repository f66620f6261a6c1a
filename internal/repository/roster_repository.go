package repository

import (
	"sync"

	"github.com/noah-isme/sma-gradebook/internal/models"
)

// RosterRepository keeps the ordered student list handed over by the surrounding application.
type RosterRepository struct {
	mu      sync.RWMutex
	rosters map[string][]models.Student
}

// NewRosterRepository constructs an empty roster registry.
func NewRosterRepository() *RosterRepository {
	return &RosterRepository{rosters: make(map[string][]models.Student)}
}

// Replace swaps the roster of a context. Order is preserved.
func (r *RosterRepository) Replace(contextID string, students []models.Student) {
	copied := make([]models.Student, len(students))
	copy(copied, students)
	r.mu.Lock()
	r.rosters[contextID] = copied
	r.mu.Unlock()
}

// List returns a copy of the roster, nil when none was registered.
func (r *RosterRepository) List(contextID string) []models.Student {
	r.mu.RLock()
	defer r.mu.RUnlock()
	roster, ok := r.rosters[contextID]
	if !ok {
		return nil
	}
	copied := make([]models.Student, len(roster))
	copy(copied, roster)
	return copied
}
