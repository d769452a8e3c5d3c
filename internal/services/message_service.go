// Package services – MessageService
//
// This file implements MessageService, which sends messages into a
// conversation and pages through its history. Message ids are ULIDs, so the
// id of the oldest message on a page is the cursor for the next (older) page.
//
// Observability: all public methods are OpenTelemetry-instrumented; spans
// include conversation/sender identifiers and pagination parameters.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-dm-backend/internal/domain"
	"github.com/tbourn/go-dm-backend/internal/ids"
	"github.com/tbourn/go-dm-backend/internal/observability"
	"github.com/tbourn/go-dm-backend/internal/repo"
	"github.com/tbourn/go-dm-backend/internal/utils"
)

// Page size defaults used when the service is built without explicit limits.
const (
	DefaultPageLimit = 50
	DefaultMaxLimit  = 200
)

// MessageService coordinates message persistence and history retrieval.
type MessageService struct {
	Repo MessageRepo

	// DefaultLimit is used when the caller asks for fewer than one message.
	DefaultLimit int
	// MaxLimit caps the page size.
	MaxLimit int

	Now   func() time.Time
	NewID func() string
}

// NewMessageService constructs a MessageService backed by r.
func NewMessageService(r MessageRepo, defaultLimit, maxLimit int) *MessageService {
	return &MessageService{
		Repo:         r,
		DefaultLimit: defaultLimit,
		MaxLimit:     maxLimit,
		Now:          time.Now,
		NewID:        ids.New,
	}
}

// Send stores a message from senderID in conversationID and makes it the
// conversation's latest message.
//
// Errors:
//   - ErrInvalidText when text is empty or too long
//   - ErrConversationNotFound when the id is malformed or unknown
//   - ErrSenderNotParticipant when senderID is not in the conversation
func (s *MessageService) Send(ctx context.Context, conversationID, senderID, text string) (*domain.Message, error) {
	ctx, span := otel.Tracer("services/MessageService").Start(ctx, "Send",
		trace.WithAttributes(
			attribute.String("conversation.id", conversationID),
			attribute.String("sender.id", senderID),
		),
	)
	defer span.End()

	if n := utf8.RuneCountInString(text); n < domain.MessageTextMinLen || n > domain.MessageTextMaxLen {
		return nil, ErrInvalidText
	}

	convID, err := ids.Canonical(conversationID)
	if err != nil {
		return nil, ErrConversationNotFound
	}
	conv, err := s.Repo.GetConversation(ctx, convID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, fmt.Errorf("get conversation: %w", err)
	}
	if !conv.HasParticipant(senderID) {
		return nil, ErrSenderNotParticipant
	}

	m := &domain.Message{
		ID:             s.newID(),
		ConversationID: conv.ID,
		SenderID:       senderID,
		Text:           text,
		Delivered:      true,
		Read:           false,
		CreatedAt:      stamp(s.now()),
	}
	if err := s.Repo.AppendMessage(ctx, m); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, fmt.Errorf("append message: %w", err)
	}
	span.SetAttributes(attribute.String("message.id", m.ID))
	observability.MessagesSent.Inc()
	return m, nil
}

// List returns up to limit messages of conversationID in chronological
// order. When before is a well-formed id only older messages are returned;
// a malformed before is ignored. An unknown conversation yields an empty
// page, not an error.
func (s *MessageService) List(ctx context.Context, conversationID string, limit int, before string) ([]domain.Message, error) {
	limit = s.clampLimit(limit)
	ctx, span := otel.Tracer("services/MessageService").Start(ctx, "List",
		trace.WithAttributes(
			attribute.String("conversation.id", conversationID),
			attribute.Int("limit", limit),
			attribute.String("before", before),
		),
	)
	defer span.End()

	convID, err := ids.Canonical(conversationID)
	if err != nil {
		return []domain.Message{}, nil
	}
	cursor := ""
	if before != "" {
		if c, err := ids.Canonical(before); err == nil {
			cursor = c
		}
	}
	return s.Repo.ListMessages(ctx, convID, cursor, limit)
}

func (s *MessageService) clampLimit(limit int) int {
	def, max := s.DefaultLimit, s.MaxLimit
	if def < 1 {
		def = DefaultPageLimit
	}
	if max < 1 {
		max = DefaultMaxLimit
	}
	return utils.ClampLimit(limit, def, max)
}

func (s *MessageService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *MessageService) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return ids.New()
}
