package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"faq-agentic-be/internal/entity"
	"faq-agentic-be/internal/repository/contract"
	"faq-agentic-be/internal/repository/memory"
	"faq-agentic-be/internal/repository/unitofwork"

	"github.com/stretchr/testify/assert"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

// fakeStore is an in-memory stand-in for the durable log shared by all fake
// unit of work instances a factory hands out.
type fakeStore struct {
	mu           sync.Mutex
	interactions []*entity.Interaction
	userCounts   map[string]int
	docs         []*entity.FaqDocument
	createErr    error
	findErr      error
}

func newFakeStore() *fakeStore {
	return &fakeStore{userCounts: make(map[string]int)}
}

type fakeInteractionRepo struct {
	store   *fakeStore
	pending []*entity.Interaction // buffered until commit
}

func (r *fakeInteractionRepo) Create(ctx context.Context, interaction *entity.Interaction) error {
	if r.store.createErr != nil {
		return r.store.createErr
	}
	r.pending = append(r.pending, interaction)
	return nil
}

func (r *fakeInteractionRepo) FindRecentBySession(ctx context.Context, sessionId string, limit int) ([]*entity.Interaction, error) {
	if r.store.findErr != nil {
		return nil, r.store.findErr
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var rows []*entity.Interaction
	for _, it := range r.store.interactions {
		if it.SessionId == sessionId {
			rows = append(rows, it)
		}
	}
	// Newest first, like the real repository.
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Timestamp.After(rows[j].Timestamp)
	})
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (r *fakeInteractionRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var kept []*entity.Interaction
	var deleted int64
	for _, it := range r.store.interactions {
		if it.Timestamp.Before(cutoff) {
			deleted++
		} else {
			kept = append(kept, it)
		}
	}
	r.store.interactions = kept
	return deleted, nil
}

func (r *fakeInteractionRepo) SessionStats(ctx context.Context, sessionId string) (*entity.SessionStats, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stats := &entity.SessionStats{SessionId: sessionId}
	high := 0
	for _, it := range r.store.interactions {
		if it.SessionId != sessionId {
			continue
		}
		stats.TotalInteractions++
		if it.Confidence == "high" {
			high++
		}
		ts := it.Timestamp
		if stats.FirstInteraction == nil || ts.Before(*stats.FirstInteraction) {
			t := ts
			stats.FirstInteraction = &t
		}
		if stats.LastInteraction == nil || ts.After(*stats.LastInteraction) {
			t := ts
			stats.LastInteraction = &t
		}
	}
	if stats.TotalInteractions > 0 {
		stats.HighConfidenceRatio = float64(high) / float64(stats.TotalInteractions)
	}
	return stats, nil
}

func (r *fakeInteractionRepo) Count(ctx context.Context) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return int64(len(r.store.interactions)), nil
}

type fakeUserContextRepo struct {
	store   *fakeStore
	pending []string
}

func (r *fakeUserContextRepo) IncrementInteraction(ctx context.Context, userId string) error {
	r.pending = append(r.pending, userId)
	return nil
}

func (r *fakeUserContextRepo) FindByUserId(ctx context.Context, userId string) (*entity.UserContext, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	count, ok := r.store.userCounts[userId]
	if !ok {
		return nil, nil
	}
	return &entity.UserContext{UserId: userId, InteractionCount: count, LastActive: time.Now()}, nil
}

type fakeDocumentRepo struct {
	store *fakeStore
}

func (r *fakeDocumentRepo) Create(ctx context.Context, doc *entity.FaqDocument) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.docs = append(r.store.docs, doc)
	return nil
}

func (r *fakeDocumentRepo) FindSimilar(ctx context.Context, embedding []float32, topK int) ([]*entity.ScoredFaqDocument, error) {
	return nil, nil
}

func (r *fakeDocumentRepo) DeleteBySourceUrl(ctx context.Context, sourceUrl string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var kept []*entity.FaqDocument
	for _, d := range r.store.docs {
		if d.SourceUrl != sourceUrl {
			kept = append(kept, d)
		}
	}
	r.store.docs = kept
	return nil
}

func (r *fakeDocumentRepo) Count(ctx context.Context) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return int64(len(r.store.docs)), nil
}

type fakeUow struct {
	store        *fakeStore
	interactions *fakeInteractionRepo
	users        *fakeUserContextRepo
	docs         *fakeDocumentRepo
	beginErr     error
	commitErr    error
	committed    bool
	rolledBack   bool
}

func (u *fakeUow) Begin(ctx context.Context) error { return u.beginErr }

func (u *fakeUow) Commit() error {
	if u.commitErr != nil {
		return u.commitErr
	}
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	u.store.interactions = append(u.store.interactions, u.interactions.pending...)
	for _, userId := range u.users.pending {
		u.store.userCounts[userId]++
	}
	u.committed = true
	return nil
}

func (u *fakeUow) Rollback() error {
	if !u.committed {
		u.rolledBack = true
		u.interactions.pending = nil
		u.users.pending = nil
	}
	return nil
}

func (u *fakeUow) InteractionRepository() contract.InteractionRepository { return u.interactions }
func (u *fakeUow) UserContextRepository() contract.UserContextRepository { return u.users }
func (u *fakeUow) FaqDocumentRepository() contract.FaqDocumentRepository { return u.docs }

type fakeFactory struct {
	store     *fakeStore
	beginErr  error
	commitErr error
	lastUow   *fakeUow
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	uow := &fakeUow{
		store:        f.store,
		interactions: &fakeInteractionRepo{store: f.store},
		users:        &fakeUserContextRepo{store: f.store},
		docs:         &fakeDocumentRepo{store: f.store},
		beginErr:     f.beginErr,
		commitErr:    f.commitErr,
	}
	f.lastUow = uow
	return uow
}

func newSessionFixture() (*fakeStore, *fakeFactory, *memory.SessionCache, ISessionService) {
	store := newFakeStore()
	factory := &fakeFactory{store: store}
	cache := memory.NewSessionCache(100, 50)
	svc := NewSessionService(factory, cache, 50, nopLogger{})
	return store, factory, cache, svc
}

func TestAppendPersistsAndCaches(t *testing.T) {
	store, _, cache, svc := newSessionFixture()

	err := svc.Append(context.Background(), &entity.Interaction{
		SessionId:  "s1",
		UserId:     "u1",
		Query:      "how do I apply",
		Response:   "online",
		Confidence: "high",
	})

	assert.NoError(t, err)
	assert.Len(t, store.interactions, 1)
	assert.Equal(t, 1, store.userCounts["u1"])
	assert.NotEqual(t, "", store.interactions[0].Id.String())

	cached, ok := cache.Get("s1")
	assert.True(t, ok)
	assert.Len(t, cached, 1)
}

func TestAppendWithoutUserSkipsCounter(t *testing.T) {
	store, _, _, svc := newSessionFixture()

	err := svc.Append(context.Background(), &entity.Interaction{
		SessionId: "s1",
		Query:     "q",
		Response:  "a",
	})

	assert.NoError(t, err)
	assert.Empty(t, store.userCounts)
}

func TestAppendCreateFailureRollsBackAndSkipsCache(t *testing.T) {
	store, factory, cache, svc := newSessionFixture()
	store.createErr = errors.New("disk full")

	err := svc.Append(context.Background(), &entity.Interaction{SessionId: "s1", Query: "q", Response: "a"})

	assert.Error(t, err)
	assert.True(t, factory.lastUow.rolledBack)
	assert.Empty(t, store.interactions)
	_, ok := cache.Get("s1")
	assert.False(t, ok, "failed write must not reach the cache")
}

func TestAppendCommitFailureSkipsCache(t *testing.T) {
	store, factory, cache, svc := newSessionFixture()
	factory.commitErr = errors.New("connection lost")

	err := svc.Append(context.Background(), &entity.Interaction{SessionId: "s1", Query: "q", Response: "a"})

	assert.Error(t, err)
	assert.Empty(t, store.interactions)
	_, ok := cache.Get("s1")
	assert.False(t, ok)
}

func TestReadRecentChronologicalOrder(t *testing.T) {
	_, _, _, svc := newSessionFixture()
	base := time.Now()

	for i := 0; i < 3; i++ {
		err := svc.Append(context.Background(), &entity.Interaction{
			SessionId: "s1",
			Query:     fmt.Sprintf("q%d", i),
			Response:  fmt.Sprintf("a%d", i),
			Timestamp: base.Add(time.Duration(i) * time.Second),
		})
		assert.NoError(t, err)
	}

	history, err := svc.ReadRecent(context.Background(), "s1", 10)
	assert.NoError(t, err)
	assert.Len(t, history, 3)
	assert.Equal(t, "q0", history[0].Query)
	assert.Equal(t, "q2", history[2].Query)
}

func TestReadRecentCacheMissRepopulatesFromStore(t *testing.T) {
	store, _, cache, svc := newSessionFixture()
	base := time.Now()

	// Rows exist durably but not in cache (e.g. after a restart).
	for i := 0; i < 3; i++ {
		store.interactions = append(store.interactions, &entity.Interaction{
			SessionId: "s1",
			Query:     fmt.Sprintf("q%d", i),
			Timestamp: base.Add(time.Duration(i) * time.Second),
		})
	}

	history, err := svc.ReadRecent(context.Background(), "s1", 10)
	assert.NoError(t, err)
	assert.Len(t, history, 3)
	assert.Equal(t, "q0", history[0].Query, "store rows must come back oldest first")

	// The miss repopulated the cache.
	cached, ok := cache.Get("s1")
	assert.True(t, ok)
	assert.Len(t, cached, 3)
}

func TestReadRecentHonorsLimit(t *testing.T) {
	_, _, _, svc := newSessionFixture()
	base := time.Now()

	for i := 0; i < 5; i++ {
		svc.Append(context.Background(), &entity.Interaction{
			SessionId: "s1",
			Query:     fmt.Sprintf("q%d", i),
			Timestamp: base.Add(time.Duration(i) * time.Second),
		})
	}

	history, err := svc.ReadRecent(context.Background(), "s1", 2)
	assert.NoError(t, err)
	assert.Len(t, history, 2)
	// The most recent two, still chronological.
	assert.Equal(t, "q3", history[0].Query)
	assert.Equal(t, "q4", history[1].Query)
}

func TestRecentHistoryMapsToEntries(t *testing.T) {
	_, _, _, svc := newSessionFixture()
	svc.Append(context.Background(), &entity.Interaction{SessionId: "s1", Query: "q", Response: "a"})

	entries, err := svc.RecentHistory(context.Background(), "s1", 5)
	assert.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, "q", entries[0].Query)
	assert.Equal(t, "a", entries[0].Response)
}

func TestRetentionCleanupDeletesAndFlushes(t *testing.T) {
	store, _, cache, svc := newSessionFixture()

	store.interactions = append(store.interactions,
		&entity.Interaction{SessionId: "old", Query: "q", Timestamp: time.Now().AddDate(0, 0, -60)},
		&entity.Interaction{SessionId: "new", Query: "q", Timestamp: time.Now()},
	)
	cache.Append("old", &entity.Interaction{Query: "q"})

	deleted, err := svc.RetentionCleanup(context.Background(), 30)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
	assert.Len(t, store.interactions, 1)
	assert.Equal(t, 0, cache.Len(), "cache must be flushed after cleanup")
}

func TestAppendConcurrentSessions(t *testing.T) {
	store, _, _, svc := newSessionFixture()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				err := svc.Append(context.Background(), &entity.Interaction{
					SessionId: fmt.Sprintf("s%d", g),
					UserId:    fmt.Sprintf("u%d", g),
					Query:     fmt.Sprintf("q%d", i),
					Response:  "a",
					Timestamp: time.Now().Add(time.Duration(i) * time.Millisecond),
				})
				assert.NoError(t, err)
			}
		}(g)
	}
	wg.Wait()

	assert.Len(t, store.interactions, 80)
	for g := 0; g < 8; g++ {
		history, err := svc.ReadRecent(context.Background(), fmt.Sprintf("s%d", g), 50)
		assert.NoError(t, err)
		assert.Len(t, history, 10)
		assert.Equal(t, 10, store.userCounts[fmt.Sprintf("u%d", g)])
	}
}
