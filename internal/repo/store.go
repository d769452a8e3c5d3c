// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file exposes Store, a handle that binds the free
// repository functions to one *gorm.DB so the service layer can depend on
// method sets instead of on GORM.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-dm-backend/internal/domain"
)

// Store is the SQL-backed document store. It is safe for concurrent use.
type Store struct {
	DB *gorm.DB
}

// NewStore wraps db.
func NewStore(db *gorm.DB) *Store { return &Store{DB: db} }

// CreateUser proxies CreateUser.
func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	return CreateUser(ctx, s.DB, u)
}

// GetUser proxies GetUser.
func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return GetUser(ctx, s.DB, id)
}

// ListUsers proxies ListUsers.
func (s *Store) ListUsers(ctx context.Context) ([]domain.User, error) {
	return ListUsers(ctx, s.DB)
}

// CreateConversation proxies CreateConversation.
func (s *Store) CreateConversation(ctx context.Context, c *domain.Conversation) error {
	return CreateConversation(ctx, s.DB, c)
}

// GetConversation proxies GetConversation.
func (s *Store) GetConversation(ctx context.Context, id string) (*domain.Conversation, error) {
	return GetConversation(ctx, s.DB, id)
}

// FindConversationByPair proxies FindConversationByPair.
func (s *Store) FindConversationByPair(ctx context.Context, a, b string) (*domain.Conversation, error) {
	return FindConversationByPair(ctx, s.DB, a, b)
}

// ListConversations proxies ListConversations.
func (s *Store) ListConversations(ctx context.Context, userID string) ([]domain.Conversation, error) {
	return ListConversations(ctx, s.DB, userID)
}

// AppendMessage proxies AppendMessage (transactional).
func (s *Store) AppendMessage(ctx context.Context, m *domain.Message) error {
	return AppendMessage(ctx, s.DB, m)
}

// GetMessage proxies GetMessage. No HTTP route reads a single message; it
// is kept for tooling and store tests.
func (s *Store) GetMessage(ctx context.Context, id string) (*domain.Message, error) {
	return GetMessage(ctx, s.DB, id)
}

// ListMessages proxies ListMessages.
func (s *Store) ListMessages(ctx context.Context, conversationID, before string, limit int) ([]domain.Message, error) {
	return ListMessages(ctx, s.DB, conversationID, before, limit)
}

// Ping checks connectivity with the underlying database.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// CollectionNames lists the tables visible to the connection.
func (s *Store) CollectionNames(ctx context.Context) ([]string, error) {
	return s.DB.WithContext(ctx).Migrator().GetTables()
}

// Close releases the connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
