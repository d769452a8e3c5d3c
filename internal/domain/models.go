// Package domain defines the persistence models for users, conversations, and
// messages. The same types are mapped by GORM (SQL backends) and by the BSON
// codec (MongoDB backend), and are returned to clients as JSON.
package domain

import (
	"strconv"
	"time"

	"gorm.io/datatypes"
)

// DefaultAvatarColor is assigned to users created without an avatar color.
const DefaultAvatarColor = "#6366F1"

// Field limits enforced by the service layer (rune counts).
const (
	UsernameMinLen    = 2
	UsernameMaxLen    = 24
	AvatarColorMaxLen = 16
	MessageTextMinLen = 1
	MessageTextMaxLen = 4000

	// ParticipantIDMaxLen bounds the opaque user ids accepted as
	// conversation participants and message senders (bytes).
	ParticipantIDMaxLen = 64
)

// User is a participant in the messaging app.
//
// Fields:
//   - ID: ULID primary key, assigned on creation and never changed.
//   - Username: public display name, 2–24 runes, not unique.
//   - AvatarColor: hex color for the avatar background.
//   - CreatedAt: creation time (UTC, millisecond precision).
type User struct {
	ID          string    `json:"id"           gorm:"type:char(26);primaryKey" bson:"_id"`
	Username    string    `json:"username"     gorm:"type:varchar(24);not null" bson:"username"`
	AvatarColor string    `json:"avatar_color" gorm:"type:varchar(16);not null;default:'#6366F1'" bson:"avatar_color"`
	CreatedAt   time.Time `json:"created_at"   bson:"created_at"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Conversation is a 1:1 thread between two users.
//
// ParticipantIDs keeps the pair in the order it was requested. The SQL
// backends also store each participant in its own indexed column, and every
// backend stores PairKey under a unique index so that at most one
// conversation exists per pair.
//
// LastMessagePreview and UpdatedAt stay nil until the first message is sent.
type Conversation struct {
	ID                 string                      `json:"id"                   gorm:"type:char(26);primaryKey" bson:"_id"`
	ParticipantIDs     datatypes.JSONSlice[string] `json:"participant_ids"      gorm:"not null" bson:"participant_ids"`
	ParticipantA       string                      `json:"-"                    gorm:"type:varchar(64);not null;index:idx_conv_participant_a" bson:"-"`
	ParticipantB       string                      `json:"-"                    gorm:"type:varchar(64);not null;index:idx_conv_participant_b" bson:"-"`
	PairKey            string                      `json:"-"                    gorm:"type:varchar(140);not null;uniqueIndex:ux_conv_pair" bson:"pair_key"`
	LastMessagePreview *string                     `json:"last_message_preview" gorm:"type:text" bson:"last_message_preview"`
	CreatedAt          time.Time                   `json:"created_at"           bson:"created_at"`
	UpdatedAt          *time.Time                  `json:"updated_at,omitempty" gorm:"autoUpdateTime:false;index:idx_conv_updated" bson:"updated_at,omitempty"`
}

// TableName returns the database table name for Conversation.
func (Conversation) TableName() string { return "conversations" }

// NewConversation builds an unsaved conversation between a and b.
func NewConversation(id, a, b string, now time.Time) *Conversation {
	return &Conversation{
		ID:             id,
		ParticipantIDs: datatypes.JSONSlice[string]{a, b},
		ParticipantA:   a,
		ParticipantB:   b,
		PairKey:        PairKey(a, b),
		CreatedAt:      now,
	}
}

// HasParticipant reports whether userID is one of the two participants.
func (c *Conversation) HasParticipant(userID string) bool {
	for _, p := range c.ParticipantIDs {
		if p == userID {
			return true
		}
	}
	return false
}

// PairKey returns the order-insensitive key of the pair {a, b}: the byte
// length of the smaller id, then both ids in order, e.g. "2:u1|u2". Ids are
// opaque and may contain any separator, so the length prefix is what keeps
// distinct pairs from sharing a key.
func PairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return strconv.Itoa(len(a)) + ":" + a + "|" + b
}

// Message is a single text sent by a participant into a conversation.
//
// The ULID primary key is assigned in creation order and is the pagination
// cursor for message history. ConversationID is a plain reference; messages
// are not cascade-owned by their conversation.
type Message struct {
	ID             string    `json:"id"              gorm:"type:char(26);primaryKey;index:idx_conv_msgs,priority:2" bson:"_id"`
	ConversationID string    `json:"conversation_id" gorm:"type:char(26);not null;index:idx_conv_msgs,priority:1" bson:"conversation_id"`
	SenderID       string    `json:"sender_id"       gorm:"type:varchar(64);not null" bson:"sender_id"`
	Text           string    `json:"text"            gorm:"type:text;not null" bson:"text"`
	Delivered      bool      `json:"delivered"       gorm:"not null" bson:"delivered"`
	Read           bool      `json:"read"            gorm:"not null" bson:"read"`
	CreatedAt      time.Time `json:"created_at"      bson:"created_at"`
}

// TableName returns the database table name for Message.
func (Message) TableName() string { return "messages" }
