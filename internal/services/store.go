package services

import (
	"context"

	"github.com/tbourn/go-dm-backend/internal/domain"
)

// UserRepo defines the persistence contract required by UserService.
type UserRepo interface {
	// CreateUser inserts a new user.
	CreateUser(ctx context.Context, u *domain.User) error
	// GetUser fetches one user by id (repo.ErrNotFound when missing).
	GetUser(ctx context.Context, id string) (*domain.User, error)
	// ListUsers returns all users in id order.
	ListUsers(ctx context.Context) ([]domain.User, error)
}

// ConversationRepo defines the persistence contract required by
// ConversationService.
type ConversationRepo interface {
	// CreateConversation inserts c, or fails with repo.ErrDuplicate when the
	// pair already has a conversation.
	CreateConversation(ctx context.Context, c *domain.Conversation) error
	// FindConversationByPair looks a conversation up by its two participants
	// in either order.
	FindConversationByPair(ctx context.Context, a, b string) (*domain.Conversation, error)
	// ListConversations returns the user's conversations, newest-updated first.
	ListConversations(ctx context.Context, userID string) ([]domain.Conversation, error)
}

// MessageRepo defines the persistence contract required by MessageService.
type MessageRepo interface {
	GetConversation(ctx context.Context, id string) (*domain.Conversation, error)
	// AppendMessage stores m and records it as the conversation's latest message.
	AppendMessage(ctx context.Context, m *domain.Message) error
	// ListMessages returns up to limit messages in ascending id order,
	// restricted to ids below before when it is non-empty.
	ListMessages(ctx context.Context, conversationID, before string, limit int) ([]domain.Message, error)
}

// Store is the full backend contract: every repository plus the
// diagnostics and lifecycle hooks used by main and the /test endpoint.
// repo.Store and mongostore.Store both satisfy it.
type Store interface {
	UserRepo
	ConversationRepo
	MessageRepo

	Ping(ctx context.Context) error
	CollectionNames(ctx context.Context) ([]string, error)
	Close() error
}
