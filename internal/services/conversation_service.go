// Package services – ConversationService
//
// ConversationService starts 1:1 conversations and lists a user's inbox.
// At most one conversation exists per unordered pair of users; the store's
// unique pair index settles concurrent starts and the loser re-reads the
// winner's row.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-dm-backend/internal/domain"
	"github.com/tbourn/go-dm-backend/internal/ids"
	"github.com/tbourn/go-dm-backend/internal/observability"
	"github.com/tbourn/go-dm-backend/internal/repo"
)

// ConversationService provides conversation-level operations.
type ConversationService struct {
	Repo ConversationRepo

	Now   func() time.Time
	NewID func() string
}

// NewConversationService constructs a ConversationService backed by r.
func NewConversationService(r ConversationRepo) *ConversationService {
	return &ConversationService{Repo: r, Now: time.Now, NewID: ids.New}
}

// Start returns the conversation between userA and userB, creating it when
// none exists. created reports whether this call inserted it. Participants
// are not checked against the users collection.
func (s *ConversationService) Start(ctx context.Context, userA, userB string) (conv *domain.Conversation, created bool, err error) {
	ctx, span := otel.Tracer("services/ConversationService").Start(ctx, "Start",
		trace.WithAttributes(
			attribute.String("user.a", userA),
			attribute.String("user.b", userB),
		),
	)
	defer span.End()

	if !validParticipant(userA) || !validParticipant(userB) {
		return nil, false, ErrInvalidParticipant
	}
	if userA == userB {
		return nil, false, ErrSelfConversation
	}

	existing, err := s.Repo.FindConversationByPair(ctx, userA, userB)
	switch {
	case err == nil:
		observability.ConversationsStarted.WithLabelValues("existing").Inc()
		return existing, false, nil
	case !errors.Is(err, repo.ErrNotFound):
		return nil, false, fmt.Errorf("find conversation: %w", err)
	}

	c := domain.NewConversation(s.newID(), userA, userB, stamp(s.now()))
	if err := s.Repo.CreateConversation(ctx, c); err != nil {
		if !errors.Is(err, repo.ErrDuplicate) {
			return nil, false, fmt.Errorf("create conversation: %w", err)
		}
		// Lost the race; the other request's row is the conversation.
		winner, ferr := s.Repo.FindConversationByPair(ctx, userA, userB)
		if ferr != nil {
			return nil, false, fmt.Errorf("re-read conversation: %w", ferr)
		}
		observability.ConversationsStarted.WithLabelValues("existing").Inc()
		return winner, false, nil
	}

	span.SetAttributes(attribute.String("conversation.id", c.ID))
	observability.ConversationsStarted.WithLabelValues("created").Inc()
	return c, true, nil
}

func validParticipant(id string) bool {
	return id != "" && len(id) <= domain.ParticipantIDMaxLen
}

// ListForUser returns the conversations userID participates in, most
// recently active first; conversations without messages come last.
func (s *ConversationService) ListForUser(ctx context.Context, userID string) ([]domain.Conversation, error) {
	ctx, span := otel.Tracer("services/ConversationService").Start(ctx, "ListForUser",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	return s.Repo.ListConversations(ctx, userID)
}

func (s *ConversationService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *ConversationService) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return ids.New()
}
