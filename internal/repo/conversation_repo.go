// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// Conversation model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
//
// Error semantics:
//   - When a conversation is not found, functions return ErrNotFound
//     (an alias of gorm.ErrRecordNotFound).
//   - CreateConversation returns ErrDuplicate when the participant pair
//     already has a conversation (unique pair_key index).
//   - Other DB errors are propagated unchanged.
//
// Functions:
//
//   - CreateConversation(ctx, db, c) -> error
//   - GetConversation(ctx, db, id) -> *domain.Conversation, error
//   - FindConversationByPair(ctx, db, a, b) -> *domain.Conversation, error
//   - ListConversations(ctx, db, userID) -> []domain.Conversation, error
//   - TouchConversation(ctx, db, id, preview, at) -> error
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-dm-backend/internal/domain"
)

// CreateConversation inserts c. A second conversation for the same pair is
// rejected with ErrDuplicate regardless of participant order.
func CreateConversation(ctx context.Context, db *gorm.DB, c *domain.Conversation) error {
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// GetConversation fetches a conversation by id, or ErrNotFound.
func GetConversation(ctx context.Context, db *gorm.DB, id string) (*domain.Conversation, error) {
	var c domain.Conversation
	if err := db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// FindConversationByPair returns the conversation whose participants are
// exactly {a, b} in either order, or ErrNotFound.
func FindConversationByPair(ctx context.Context, db *gorm.DB, a, b string) (*domain.Conversation, error) {
	var c domain.Conversation
	err := db.WithContext(ctx).
		Where("pair_key = ?", domain.PairKey(a, b)).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListConversations returns the conversations userID takes part in, most
// recently updated first. Conversations without messages (NULL updated_at)
// come last; ties are broken by id descending.
func ListConversations(ctx context.Context, db *gorm.DB, userID string) ([]domain.Conversation, error) {
	out := []domain.Conversation{}
	err := db.WithContext(ctx).
		Where("participant_a = ? OR participant_b = ?", userID, userID).
		Order("CASE WHEN updated_at IS NULL THEN 1 ELSE 0 END").
		Order("updated_at DESC").
		Order("id DESC").
		Find(&out).Error
	return out, err
}

// TouchConversation records preview as the last message preview and sets
// updated_at. It returns ErrNotFound if no row matched.
func TouchConversation(ctx context.Context, db *gorm.DB, id, preview string, at time.Time) error {
	res := db.WithContext(ctx).
		Model(&domain.Conversation{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"last_message_preview": preview,
			"updated_at":           at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
