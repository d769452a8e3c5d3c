// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Message model.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-dm-backend/internal/domain"
)

// AppendMessage inserts m and updates the owning conversation's preview and
// updated_at in a single transaction, so the conversation never points at a
// message that was rolled back.
func AppendMessage(ctx context.Context, db *gorm.DB, m *domain.Message) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(m).Error; err != nil {
			return err
		}
		return TouchConversation(ctx, tx, m.ConversationID, m.Text, m.CreatedAt)
	})
}

// GetMessage fetches a message by ID.
func GetMessage(ctx context.Context, db *gorm.DB, id string) (*domain.Message, error) {
	var m domain.Message
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// ListMessages returns up to limit messages of a conversation in ascending
// id order. When before is non-empty only messages with id < before are
// considered, and the page is the newest such messages. before must already
// be in canonical form.
func ListMessages(ctx context.Context, db *gorm.DB, conversationID, before string, limit int) ([]domain.Message, error) {
	out := []domain.Message{}
	q := db.WithContext(ctx).Where("conversation_id = ?", conversationID)
	if before != "" {
		q = q.Where("id < ?", before)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Order("id DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	reverseMessages(out)
	return out, nil
}

func reverseMessages(ms []domain.Message) {
	for i, j := 0, len(ms)-1; i < j; i, j = i+1, j-1 {
		ms[i], ms[j] = ms[j], ms[i]
	}
}
