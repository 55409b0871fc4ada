package repositories

import (
	"testing"
	"time"

	"tmc/cv-tailor/internal/models"
)

func TestMatchRepositoryCreateAndFind(t *testing.T) {
	repo := NewMatchRepository()

	record := &MatchRecord{
		Profile: models.EmptyProfile(),
		CVText:  "cv",
		JobText: "job",
		Result:  &models.MatchResult{OverallScore: 42},
	}
	if err := repo.Create(record); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if record.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Fatal("Create did not assign an ID")
	}

	found, err := repo.FindByID(record.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found.Result.OverallScore != 42 {
		t.Errorf("score = %d", found.Result.OverallScore)
	}
}

func TestMatchRepositoryDeleteExpired(t *testing.T) {
	repo := NewMatchRepository()

	fresh := &MatchRecord{Result: &models.MatchResult{}}
	stale := &MatchRecord{Result: &models.MatchResult{}}
	repo.Create(fresh)
	repo.Create(stale)

	// Age one record past the cutoff.
	stale.CreatedAt = time.Now().Add(-3 * time.Hour)

	removed := repo.DeleteExpired(2 * time.Hour)
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if _, err := repo.FindByID(stale.ID); err == nil {
		t.Error("expired record still present")
	}
	if _, err := repo.FindByID(fresh.ID); err != nil {
		t.Errorf("fresh record dropped: %v", err)
	}
}
