package service

import (
	"context"
	"errors"
	"sync"

	"github.com/langchou/cardealer/internal/api/inventory"
	"github.com/langchou/cardealer/internal/models"
	"github.com/langchou/cardealer/internal/repository"
)

var errFakeUpstream = errors.New("fake upstream down")

// fakeCatalogStore 内存目录存储
type fakeCatalogStore struct {
	mu        sync.Mutex
	makes     []models.CarMake
	entries   []models.CarCatalogEntry
	seedCalls int
	countErr  error
}

func (f *fakeCatalogStore) CountMakes(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.countErr != nil {
		return 0, f.countErr
	}
	return int64(len(f.makes)), nil
}

func (f *fakeCatalogStore) SeedCatalog(ctx context.Context, seeds []models.CatalogSeed) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seedCalls++
	if len(f.makes) > 0 {
		return false, nil
	}
	for i, seed := range seeds {
		mk := seed.Make
		mk.ID = int64(i + 1)
		f.makes = append(f.makes, mk)
		for _, m := range seed.Models {
			f.entries = append(f.entries, models.CarCatalogEntry{CarModel: m.Name, CarMake: mk.Name})
		}
	}
	return true, nil
}

func (f *fakeCatalogStore) ListCatalog(ctx context.Context) ([]models.CarCatalogEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.CarCatalogEntry, len(f.entries))
	copy(out, f.entries)
	return out, nil
}

// fakeInventory 库存服务替身，记录调用次数
type fakeInventory struct {
	mu          sync.Mutex
	dealers     []models.Dealer
	dealer      models.Dealer
	reviews     []models.Review
	err         error
	insertErr   error
	inserted    []*models.ReviewSubmission
	reviewCalls int
	dealerCalls int
}

func (f *fakeInventory) FetchDealers(ctx context.Context, state string) ([]models.Dealer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dealerCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.dealers, nil
}

func (f *fakeInventory) FetchDealer(ctx context.Context, id int64) (models.Dealer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dealerCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.dealer, nil
}

func (f *fakeInventory) FetchReviews(ctx context.Context, dealerID int64) ([]models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reviewCalls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.Review, len(f.reviews))
	copy(out, f.reviews)
	return out, nil
}

func (f *fakeInventory) InsertReview(ctx context.Context, review *models.ReviewSubmission) (*inventory.InsertResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	f.inserted = append(f.inserted, review)
	return &inventory.InsertResult{StatusCode: 200, Body: []byte(`{}`)}, nil
}

func (f *fakeInventory) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reviewCalls + f.dealerCalls
}

// fakeAnalyzer 情感分析替身，failOn 中的文本返回错误
type fakeAnalyzer struct {
	mu     sync.Mutex
	labels map[string]string
	failOn map[string]bool
	texts  []string
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, text string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, text)
	if f.failOn[text] {
		return "", errFakeUpstream
	}
	if label, ok := f.labels[text]; ok {
		return label, nil
	}
	return "neutral", nil
}

func (f *fakeAnalyzer) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.texts)
}

type broadcast struct {
	dealerID int64
	review   interface{}
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []broadcast
}

func (f *fakeNotifier) BroadcastReview(dealerID int64, review interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, broadcast{dealerID: dealerID, review: review})
}

// fakeUserStore 内存用户存储
type fakeUserStore struct {
	mu      sync.Mutex
	users   map[string]*models.User
	nextID  int64
	creates int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*models.User)}
}

func (f *fakeUserStore) Create(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.Username]; ok {
		return repository.ErrDuplicateUsername
	}
	f.nextID++
	f.creates++
	user.ID = f.nextID
	stored := *user
	f.users[user.Username] = &stored
	return nil
}

func (f *fakeUserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[username]
	if !ok {
		return nil, nil
	}
	out := *u
	return &out, nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == id {
			out := *u
			return &out, nil
		}
	}
	return nil, nil
}

// fakeSessionStore 内存会话存储
type fakeSessionStore struct {
	mu       sync.Mutex
	sessions map[string]models.Session
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]models.Session)}
}

func (f *fakeSessionStore) Create(ctx context.Context, session *models.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[session.ID] = *session
	return nil
}

func (f *fakeSessionStore) Get(ctx context.Context, id string) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (f *fakeSessionStore) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, id)
	return nil
}

func (f *fakeSessionStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sessions)
}
