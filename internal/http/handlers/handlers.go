// Package handlers exposes the REST endpoints of the messaging API.
//
// Handlers are transport-thin: they bind and validate input, call application
// services, and translate results and service errors into HTTP responses.
package handlers

import (
	"context"

	"github.com/tbourn/go-dm-backend/internal/domain"
)

//
// Service contracts (context-aware)
//

// UserService defines user operations consumed by HTTP handlers.
type UserService interface {
	Create(ctx context.Context, username, avatarColor string) (*domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
}

// ConversationService defines conversation operations consumed by HTTP
// handlers.
type ConversationService interface {
	// Start returns the conversation for the pair, creating it if needed;
	// created reports whether it was inserted by this call.
	Start(ctx context.Context, userA, userB string) (conv *domain.Conversation, created bool, err error)
	ListForUser(ctx context.Context, userID string) ([]domain.Conversation, error)
}

// MessageService defines message operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type MessageService interface {
	Send(ctx context.Context, conversationID, senderID, text string) (*domain.Message, error)
	List(ctx context.Context, conversationID string, limit int, before string) ([]domain.Message, error)
}

// Diagnoser is the slice of the store used by the /test endpoint.
type Diagnoser interface {
	Ping(ctx context.Context) error
	CollectionNames(ctx context.Context) ([]string, error)
}

// DiagnosticsEnv reports which connection settings were supplied. Only
// presence is exposed, never the values.
type DiagnosticsEnv struct {
	DatabaseURLSet  bool
	DatabaseNameSet bool
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for users, conversations, messages, and
// diagnostics. It depends on abstract service interfaces to keep transport
// concerns separate from business logic.
type Handlers struct {
	userSvc UserService
	convSvc ConversationService
	msgSvc  MessageService

	diag    Diagnoser
	diagEnv DiagnosticsEnv
}

// New constructs a Handlers instance bound to the given services. diag may be
// nil, in which case /test reports the store as unavailable.
func New(userSvc UserService, convSvc ConversationService, msgSvc MessageService, diag Diagnoser, env DiagnosticsEnv) *Handlers {
	return &Handlers{
		userSvc: userSvc,
		convSvc: convSvc,
		msgSvc:  msgSvc,
		diag:    diag,
		diagEnv: env,
	}
}
