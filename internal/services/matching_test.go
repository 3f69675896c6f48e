package services

import (
	"context"
	"sync"
	"testing"

	"github.com/AnshRaj112/petverse-backend/internal/models"
	"github.com/AnshRaj112/petverse-backend/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rexLost() models.PetReport {
	return models.PetReport{
		PetName:            "Rex",
		Breed:              "Labrador",
		Color:              "Brown",
		IdentificationMark: "TAG123",
		LastSeenLocation:   "Park",
		DateLost:           "2024-01-01",
		ImageURL:           "http://x/1.jpg",
	}
}

func rexFound() models.PetReport {
	return models.PetReport{
		PetName:            "Rex",
		Breed:              "Labrador",
		Color:              "Brown",
		IdentificationMark: "TAG123",
		LastSeenLocation:   "Park",
		ImageURL:           "http://x/2.jpg",
	}
}

func seedLost(t *testing.T, pets store.PetStore, r models.PetReport) models.PetRecord {
	t.Helper()
	rec, err := pets.Create(context.Background(), r.ToRecord(models.PetStatusLost))
	require.NoError(t, err)
	return rec
}

func allPets(t *testing.T, pets store.PetStore) []models.PetRecord {
	t.Helper()
	out, err := pets.Find(context.Background(), models.PetFilter{})
	require.NoError(t, err)
	return out
}

func TestReconcile_MatchDeletesLostRecord(t *testing.T) {
	ctx := context.Background()
	pets := store.NewMemoryPetStore()
	lost := seedLost(t, pets, rexLost())

	res, err := NewMatcher(pets, nil).Reconcile(ctx, rexFound())
	require.NoError(t, err)
	assert.True(t, res.Matched)
	assert.Equal(t, lost.ID, res.LostID)

	// the found report is consumed, not retained
	assert.Empty(t, allPets(t, pets))
}

func TestReconcile_NoMatchCreatesFoundRecord(t *testing.T) {
	ctx := context.Background()
	pets := store.NewMemoryPetStore()

	found := rexFound()
	found.IdentificationMark = "UNKNOWN"
	found.Description = "friendly"

	res, err := NewMatcher(pets, nil).Reconcile(ctx, found)
	require.NoError(t, err)
	assert.False(t, res.Matched)
	assert.NotEmpty(t, res.Record.ID)
	assert.Equal(t, models.PetStatusFound, res.Record.Status)
	assert.Equal(t, "friendly", res.Record.Description)
	assert.Equal(t, "UNKNOWN", res.Record.IdentificationMark)

	stored := allPets(t, pets)
	require.Len(t, stored, 1)
	assert.Equal(t, res.Record, stored[0])
}

func TestReconcile_ExactEqualityOnly(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*models.PetReport)
	}{
		{"mark case differs", func(r *models.PetReport) { r.IdentificationMark = "tag123" }},
		{"mark trailing space", func(r *models.PetReport) { r.IdentificationMark = "TAG123 " }},
		{"breed differs", func(r *models.PetReport) { r.Breed = "Poodle" }},
		{"color differs", func(r *models.PetReport) { r.Color = "brown" }},
		{"mark missing", func(r *models.PetReport) { r.IdentificationMark = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pets := store.NewMemoryPetStore()
			lost := seedLost(t, pets, rexLost())

			found := rexFound()
			tc.mutate(&found)
			res, err := NewMatcher(pets, nil).Reconcile(context.Background(), found)
			require.NoError(t, err)
			assert.False(t, res.Matched)

			stored := allPets(t, pets)
			require.Len(t, stored, 2)
			assert.Equal(t, lost.ID, stored[0].ID)
			assert.Equal(t, models.PetStatusFound, stored[1].Status)
		})
	}
}

func TestReconcile_OtherFieldsIgnored(t *testing.T) {
	pets := store.NewMemoryPetStore()
	seedLost(t, pets, rexLost())

	found := rexFound()
	found.PetName = "Unknown dog"
	found.LastSeenLocation = "Station"
	res, err := NewMatcher(pets, nil).Reconcile(context.Background(), found)
	require.NoError(t, err)
	assert.True(t, res.Matched)
}

func TestReconcile_FoundRecordIsNotMatchable(t *testing.T) {
	ctx := context.Background()
	pets := store.NewMemoryPetStore()
	_, err := pets.Create(ctx, rexLost().ToRecord(models.PetStatusFound))
	require.NoError(t, err)

	res, err := NewMatcher(pets, nil).Reconcile(ctx, rexFound())
	require.NoError(t, err)
	assert.False(t, res.Matched)
	assert.Len(t, allPets(t, pets), 2)
}

func TestReconcile_DuplicateFoundReportsAreNotDeduplicated(t *testing.T) {
	ctx := context.Background()
	pets := store.NewMemoryPetStore()
	m := NewMatcher(pets, nil)

	found := rexFound()
	found.IdentificationMark = "UNKNOWN"

	first, err := m.Reconcile(ctx, found)
	require.NoError(t, err)
	second, err := m.Reconcile(ctx, found)
	require.NoError(t, err)

	assert.False(t, first.Matched)
	assert.False(t, second.Matched)
	assert.NotEqual(t, first.Record.ID, second.Record.ID)
	assert.Len(t, allPets(t, pets), 2)
}

func TestReconcile_DuplicateLostFilingsConsumeOldestFirst(t *testing.T) {
	ctx := context.Background()
	pets := store.NewMemoryPetStore()
	older := seedLost(t, pets, rexLost())
	newer := seedLost(t, pets, rexLost())
	m := NewMatcher(pets, nil)

	res, err := m.Reconcile(ctx, rexFound())
	require.NoError(t, err)
	assert.Equal(t, older.ID, res.LostID)

	res, err = m.Reconcile(ctx, rexFound())
	require.NoError(t, err)
	assert.Equal(t, newer.ID, res.LostID)

	assert.Empty(t, allPets(t, pets))
}

// racingStore simulates another request deleting the candidate between the
// find and the delete.
type racingStore struct {
	store.PetStore
	once sync.Once
}

func (s *racingStore) DeleteByID(ctx context.Context, id string) (bool, error) {
	stolen := false
	s.once.Do(func() {
		_, _ = s.PetStore.DeleteByID(ctx, id)
		stolen = true
	})
	if stolen {
		return false, nil
	}
	return s.PetStore.DeleteByID(ctx, id)
}

func TestReconcile_LostRecordConsumedConcurrently(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryPetStore()
	seedLost(t, mem, rexLost())

	res, err := NewMatcher(&racingStore{PetStore: mem}, nil).Reconcile(ctx, rexFound())
	require.NoError(t, err)
	assert.False(t, res.Matched)

	stored := allPets(t, mem)
	require.Len(t, stored, 1)
	assert.Equal(t, models.PetStatusFound, stored[0].Status)
}

func TestReconcile_RetriesNextCandidateAfterLosingRace(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryPetStore()
	seedLost(t, mem, rexLost())
	second := seedLost(t, mem, rexLost())

	res, err := NewMatcher(&racingStore{PetStore: mem}, nil).Reconcile(ctx, rexFound())
	require.NoError(t, err)
	assert.True(t, res.Matched)
	assert.Equal(t, second.ID, res.LostID)
	assert.Empty(t, allPets(t, mem))
}

func TestReconcile_ConcurrentReportsMatchOnce(t *testing.T) {
	ctx := context.Background()
	pets := store.NewMemoryPetStore()
	seedLost(t, pets, rexLost())
	m := NewMatcher(pets, nil)

	const n = 16
	results := make([]MatchResult, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := m.Reconcile(ctx, rexFound())
			assert.NoError(t, err)
			results[i] = res
		}(i)
	}
	wg.Wait()

	matched := 0
	for _, r := range results {
		if r.Matched {
			matched++
		}
	}
	assert.Equal(t, 1, matched)

	stored := allPets(t, pets)
	assert.Len(t, stored, n-1)
	for _, p := range stored {
		assert.Equal(t, models.PetStatusFound, p.Status)
	}
}

type failingStore struct {
	store.PetStore
	err error
}

func (s failingStore) FindOne(context.Context, models.PetFilter) (models.PetRecord, error) {
	return models.PetRecord{}, s.err
}

func TestReconcile_StoreErrorPropagates(t *testing.T) {
	boom := assert.AnError
	_, err := NewMatcher(failingStore{PetStore: store.NewMemoryPetStore(), err: boom}, nil).
		Reconcile(context.Background(), rexFound())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}
