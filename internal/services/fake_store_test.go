package services

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-dm-backend/internal/domain"
	"github.com/tbourn/go-dm-backend/internal/repo"
)

// ---------- test helpers ----------

// newSQLStore returns a migrated, file-backed SQLite store.
func newSQLStore(t *testing.T) *repo.Store {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "svc.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// One connection serializes writers so concurrent tests never hit SQLITE_BUSY.
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	s := repo.NewStore(db)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// fakeStore is an in-memory Store. Hook fields let tests inject failures.
type fakeStore struct {
	mu            sync.Mutex
	users         map[string]domain.User
	conversations map[string]domain.Conversation
	messages      []domain.Message

	createUserErr   error
	findPairErr     error
	createConvErr   error
	getConvErr      error
	appendErr       error
	afterCreateConv func() // runs before createConvErr is returned
	lastListBefore  string
	lastListLimit   int
}

var _ Store = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:         map[string]domain.User{},
		conversations: map[string]domain.Conversation{},
	}
}

func (f *fakeStore) CreateUser(_ context.Context, u *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createUserErr != nil {
		return f.createUserErr
	}
	f.users[u.ID] = *u
	return nil
}

func (f *fakeStore) GetUser(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &u, nil
}

func (f *fakeStore) ListUsers(context.Context) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.User{}
	for _, u := range f.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) CreateConversation(_ context.Context, c *domain.Conversation) error {
	if f.afterCreateConv != nil {
		f.afterCreateConv()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createConvErr != nil {
		return f.createConvErr
	}
	for _, ex := range f.conversations {
		if ex.PairKey == c.PairKey {
			return repo.ErrDuplicate
		}
	}
	f.conversations[c.ID] = *c
	return nil
}

func (f *fakeStore) GetConversation(_ context.Context, id string) (*domain.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getConvErr != nil {
		return nil, f.getConvErr
	}
	c, ok := f.conversations[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &c, nil
}

func (f *fakeStore) FindConversationByPair(_ context.Context, a, b string) (*domain.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findPairErr != nil {
		return nil, f.findPairErr
	}
	key := domain.PairKey(a, b)
	for _, c := range f.conversations {
		if c.PairKey == key {
			return &c, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeStore) ListConversations(_ context.Context, userID string) ([]domain.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Conversation{}
	for _, c := range f.conversations {
		if c.HasParticipant(userID) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStore) AppendMessage(_ context.Context, m *domain.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return f.appendErr
	}
	c, ok := f.conversations[m.ConversationID]
	if !ok {
		return repo.ErrNotFound
	}
	f.messages = append(f.messages, *m)
	preview, at := m.Text, m.CreatedAt
	c.LastMessagePreview, c.UpdatedAt = &preview, &at
	f.conversations[c.ID] = c
	return nil
}

func (f *fakeStore) ListMessages(_ context.Context, conversationID, before string, limit int) ([]domain.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastListBefore, f.lastListLimit = before, limit
	var desc []domain.Message
	for i := len(f.messages) - 1; i >= 0; i-- {
		m := f.messages[i]
		if m.ConversationID != conversationID || (before != "" && m.ID >= before) {
			continue
		}
		desc = append(desc, m)
		if limit > 0 && len(desc) == limit {
			break
		}
	}
	out := make([]domain.Message, 0, len(desc))
	for i := len(desc) - 1; i >= 0; i-- {
		out = append(out, desc[i])
	}
	return out, nil
}

func (f *fakeStore) Ping(context.Context) error { return nil }

func (f *fakeStore) CollectionNames(context.Context) ([]string, error) {
	return []string{"conversations", "messages", "users"}, nil
}

func (f *fakeStore) Close() error { return nil }

// seqIDs returns a generator of fixed-width, increasing identifiers that are
// valid ULIDs ("01J0000000000000000000000N").
func seqIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("01J%023d", n)
	}
}
