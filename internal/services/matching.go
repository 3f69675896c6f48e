package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/AnshRaj112/petverse-backend/internal/models"
	"github.com/AnshRaj112/petverse-backend/internal/store"
	"go.uber.org/zap"
)

// maxReconcileAttempts bounds how many times a candidate Lost record may be
// lost to a concurrent request before the report is stored as Found.
const maxReconcileAttempts = 5

// MatchResult is the outcome of reconciling a found report.
type MatchResult struct {
	Matched bool
	// Record is the newly stored Found record when Matched is false.
	Record models.PetRecord
	// LostID is the removed Lost record when Matched is true.
	LostID string
}

// Matcher reconciles found reports against open Lost records.
//
// A found report matches a Lost record when identificationMark, breed and
// color are byte-for-byte equal; no case or whitespace normalization is
// applied, and empty values match empty values. A match consumes the Lost
// record and the report itself is not stored. Otherwise the report is stored
// as a Found record. Each call performs exactly one store mutation.
type Matcher struct {
	pets   store.PetStore
	logger *zap.Logger
}

func NewMatcher(pets store.PetStore, logger *zap.Logger) *Matcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Matcher{pets: pets, logger: logger}
}

// MatchFilter selects the Lost records a found report would reconcile.
func MatchFilter(found models.PetReport) models.PetFilter {
	mark, breed, color := found.IdentificationMark, found.Breed, found.Color
	return models.PetFilter{
		Status:             models.PetStatusLost,
		IdentificationMark: &mark,
		Breed:              &breed,
		Color:              &color,
	}
}

// Reconcile applies the matching rule to found.
//
// The delete is conditional: if another request removed the candidate first,
// the store is queried again, so two concurrent reports never both consume
// the same Lost record.
func (m *Matcher) Reconcile(ctx context.Context, found models.PetReport) (MatchResult, error) {
	filter := MatchFilter(found)

	for attempt := 0; attempt < maxReconcileAttempts; attempt++ {
		lost, err := m.pets.FindOne(ctx, filter)
		if errors.Is(err, store.ErrNotFound) {
			break
		}
		if err != nil {
			return MatchResult{}, fmt.Errorf("find lost pet: %w", err)
		}

		deleted, err := m.pets.DeleteByID(ctx, lost.ID)
		if err != nil {
			return MatchResult{}, fmt.Errorf("delete lost pet %s: %w", lost.ID, err)
		}
		if deleted {
			m.logger.Info("found report matched lost pet",
				zap.String("lost_id", lost.ID),
				zap.String("identification_mark", found.IdentificationMark),
			)
			return MatchResult{Matched: true, LostID: lost.ID}, nil
		}

		m.logger.Debug("lost pet consumed concurrently, retrying",
			zap.String("lost_id", lost.ID),
			zap.Int("attempt", attempt+1),
		)
	}

	rec, err := m.pets.Create(ctx, found.ToRecord(models.PetStatusFound))
	if err != nil {
		return MatchResult{}, fmt.Errorf("create found pet: %w", err)
	}
	return MatchResult{Matched: false, Record: rec}, nil
}
