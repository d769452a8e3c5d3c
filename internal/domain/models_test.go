package domain

import (
	"encoding/json"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newDomainDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:domain_models?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestTableNames(t *testing.T) {
	if (User{}).TableName() != "users" {
		t.Fatalf("User.TableName() = %q; want %q", (User{}).TableName(), "users")
	}
	if (Conversation{}).TableName() != "conversations" {
		t.Fatalf("Conversation.TableName() = %q; want %q", (Conversation{}).TableName(), "conversations")
	}
	if (Message{}).TableName() != "messages" {
		t.Fatalf("Message.TableName() = %q; want %q", (Message{}).TableName(), "messages")
	}
}

func TestPairKey_OrderInsensitive(t *testing.T) {
	if PairKey("b", "a") != PairKey("a", "b") {
		t.Fatalf("PairKey must not depend on argument order")
	}
	if got := PairKey("u2", "u1"); got != "2:u1|u2" {
		t.Fatalf("PairKey(u2, u1) = %q; want %q", got, "2:u1|u2")
	}
}

func TestPairKey_DistinctPairsNeverCollide(t *testing.T) {
	pairs := [][2]string{
		{"x:y", "z"}, {"x", "y:z"},
		{"a|b", "c"}, {"a", "b|c"},
		{"1:a", "b"}, {"1", "a|b"},
		{"", "ab"}, {"a", "b"},
	}
	seen := map[string][2]string{}
	for _, p := range pairs {
		k := PairKey(p[0], p[1])
		if prev, ok := seen[k]; ok {
			t.Fatalf("pairs %v and %v share key %q", prev, p, k)
		}
		seen[k] = p
	}
}

func TestNewConversation_AndHasParticipant(t *testing.T) {
	now := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	c := NewConversation("c1", "bob", "alice", now)

	if len(c.ParticipantIDs) != 2 || c.ParticipantIDs[0] != "bob" || c.ParticipantIDs[1] != "alice" {
		t.Fatalf("participants must keep request order, got %v", c.ParticipantIDs)
	}
	if c.PairKey != "5:alice|bob" {
		t.Fatalf("pair key = %q", c.PairKey)
	}
	if c.LastMessagePreview != nil || c.UpdatedAt != nil {
		t.Fatalf("new conversation must have no preview/updated_at: %+v", c)
	}
	if !c.HasParticipant("alice") || !c.HasParticipant("bob") {
		t.Fatalf("expected both participants to be members")
	}
	if c.HasParticipant("mallory") {
		t.Fatalf("mallory is not a participant")
	}
}

func TestConversationJSON_Shape(t *testing.T) {
	now := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	c := NewConversation("c1", "u1", "u2", now)

	raw, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got["id"] != "c1" {
		t.Fatalf("id = %v", got["id"])
	}
	if v, ok := got["last_message_preview"]; !ok || v != nil {
		t.Fatalf("last_message_preview must be present and null, got %v (present=%v)", v, ok)
	}
	if _, ok := got["updated_at"]; ok {
		t.Fatalf("updated_at must be omitted until the first message")
	}
	for _, hidden := range []string{"PairKey", "pair_key", "ParticipantA", "participant_a"} {
		if _, ok := got[hidden]; ok {
			t.Fatalf("internal field %q leaked into JSON", hidden)
		}
	}
	parts, ok := got["participant_ids"].([]any)
	if !ok || len(parts) != 2 {
		t.Fatalf("participant_ids = %v", got["participant_ids"])
	}
	if got["created_at"] != "2025-05-01T09:00:00Z" {
		t.Fatalf("created_at must be RFC 3339, got %v", got["created_at"])
	}
}

func TestMigrations_IndexesAndPairUniqueness(t *testing.T) {
	db := newDomainDB(t)

	if err := db.AutoMigrate(&User{}, &Conversation{}, &Message{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	m := db.Migrator()
	for _, tbl := range []any{&User{}, &Conversation{}, &Message{}} {
		if !m.HasTable(tbl) {
			t.Fatalf("expected table for %T to exist", tbl)
		}
	}
	for _, idx := range []string{"idx_conv_participant_a", "idx_conv_participant_b", "ux_conv_pair", "idx_conv_updated"} {
		if !m.HasIndex(&Conversation{}, idx) {
			t.Fatalf("expected index %s on conversations", idx)
		}
	}
	if !m.HasIndex(&Message{}, "idx_conv_msgs") {
		t.Fatalf("expected index idx_conv_msgs on messages")
	}

	now := time.Now().UTC()
	if err := db.Create(NewConversation("c1", "u1", "u2", now)).Error; err != nil {
		t.Fatalf("insert c1: %v", err)
	}
	// Same pair, reversed order: the unique pair index must reject it.
	if err := db.Create(NewConversation("c2", "u2", "u1", now)).Error; err == nil {
		t.Fatalf("expected unique violation for duplicate pair")
	}

	var got Conversation
	if err := db.First(&got, "id = ?", "c1").Error; err != nil {
		t.Fatalf("load c1: %v", err)
	}
	if len(got.ParticipantIDs) != 2 || got.ParticipantIDs[0] != "u1" || got.ParticipantIDs[1] != "u2" {
		t.Fatalf("participant_ids round-trip mismatch: %v", got.ParticipantIDs)
	}
	if got.UpdatedAt != nil {
		t.Fatalf("updated_at must stay NULL on insert, got %v", got.UpdatedAt)
	}
}
