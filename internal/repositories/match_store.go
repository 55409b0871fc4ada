package repositories

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"tmc/cv-tailor/internal/models"
)

// MatchRecord keeps everything a later generation call needs to reuse a
// match without re-running the analysis: the parsed profile, the raw texts
// and the reconciled result.
type MatchRecord struct {
	ID        uuid.UUID
	Profile   *models.CandidateProfile
	CVText    string
	JobText   string
	Result    *models.MatchResult
	CreatedAt time.Time
}

type MatchRepository interface {
	Create(record *MatchRecord) error
	FindByID(id uuid.UUID) (*MatchRecord, error)
	DeleteExpired(ttl time.Duration) int
}

// matchRepository is an in-memory store. Records are short-lived by design:
// a match is only reusable until its TTL sweep, and nothing about a
// candidate is persisted beyond that.
type matchRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*MatchRecord
}

func NewMatchRepository() MatchRepository {
	return &matchRepository{
		records: make(map[uuid.UUID]*MatchRecord),
	}
}

func (r *matchRepository) Create(record *MatchRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	record.CreatedAt = time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[record.ID] = record
	return nil
}

func (r *matchRepository) FindByID(id uuid.UUID) (*MatchRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[id]
	if !ok {
		return nil, fmt.Errorf("match not found")
	}
	return record, nil
}

func (r *matchRepository) DeleteExpired(ttl time.Duration) int {
	cutoff := time.Now().Add(-ttl)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, record := range r.records {
		if record.CreatedAt.Before(cutoff) {
			delete(r.records, id)
			removed++
		}
	}
	return removed
}
