package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/AnshRaj112/petverse-backend/internal/models"
	"github.com/AnshRaj112/petverse-backend/internal/store"
	"go.uber.org/zap"
)

// lostPetsGenKey counts changes to the set of Lost records. The cached list
// lives under a key carrying the generation it was read at, so a list read
// before a change can only ever be stored under a retired key.
var lostPetsGenKey = CacheKey("pets", "lost:gen")

func lostPetsCacheKey(gen int64) string {
	return CacheKey("pets", "lost:"+strconv.FormatInt(gen, 10))
}

// PetService files lost and found reports and lists open Lost records.
// The lost list is served from cache when one is configured and invalidated
// on every change to the set of Lost records.
type PetService struct {
	pets    store.PetStore
	matcher *Matcher
	cache   Cache
	logger  *zap.Logger
}

// NewPetService wires the pet store and matcher. cache may be nil.
func NewPetService(pets store.PetStore, matcher *Matcher, cache Cache, logger *zap.Logger) *PetService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PetService{pets: pets, matcher: matcher, cache: cache, logger: logger}
}

// ReportLost stores a new Lost record.
func (s *PetService) ReportLost(ctx context.Context, report models.PetReport) (models.PetRecord, error) {
	rec, err := s.pets.Create(ctx, report.ToRecord(models.PetStatusLost))
	if err != nil {
		return models.PetRecord{}, fmt.Errorf("create lost pet: %w", err)
	}
	s.invalidateLost(ctx)
	return rec, nil
}

// ReportFound reconciles the report against open Lost records.
func (s *PetService) ReportFound(ctx context.Context, report models.PetReport) (MatchResult, error) {
	res, err := s.matcher.Reconcile(ctx, report)
	if err != nil {
		return MatchResult{}, err
	}
	if res.Matched {
		s.invalidateLost(ctx)
	}
	return res, nil
}

// ListLost returns every open Lost record, oldest first.
func (s *PetService) ListLost(ctx context.Context) ([]models.PetRecord, error) {
	gen, cached := s.lostGeneration(ctx)
	if cached {
		var pets []models.PetRecord
		hit, err := s.cache.Get(ctx, lostPetsCacheKey(gen), &pets)
		if err != nil {
			s.logger.Warn("lost pets cache read failed", zap.Error(err))
		} else if hit {
			return pets, nil
		}
	}

	pets, err := s.pets.Find(ctx, models.PetFilter{Status: models.PetStatusLost})
	if err != nil {
		return nil, fmt.Errorf("list lost pets: %w", err)
	}

	if cached {
		if err := s.cache.Set(ctx, lostPetsCacheKey(gen), pets); err != nil {
			s.logger.Warn("lost pets cache write failed", zap.Error(err))
		}
	}
	return pets, nil
}

// lostGeneration reads the current generation. The second result is false
// when there is no cache or it cannot be read.
func (s *PetService) lostGeneration(ctx context.Context) (int64, bool) {
	if s.cache == nil {
		return 0, false
	}
	var gen int64
	if _, err := s.cache.Get(ctx, lostPetsGenKey, &gen); err != nil {
		s.logger.Warn("lost pets cache generation read failed", zap.Error(err))
		return 0, false
	}
	return gen, true
}

// invalidateLost retires the cached list. It must run after the store change.
func (s *PetService) invalidateLost(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if _, err := s.cache.Incr(ctx, lostPetsGenKey); err != nil {
		s.logger.Warn("lost pets cache invalidation failed", zap.Error(err))
		if gen, ok := s.lostGeneration(ctx); ok {
			_ = s.cache.Delete(ctx, lostPetsCacheKey(gen))
		}
	}
}
