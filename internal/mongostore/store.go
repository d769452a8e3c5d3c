// Package mongostore is the MongoDB backend for the messaging store. It
// implements the same method set as repo.Store and reports missing documents
// and unique-index violations with repo.ErrNotFound and repo.ErrDuplicate, so
// the service layer cannot tell the two backends apart.
//
// Unlike the SQL backend, AppendMessage performs two single-document writes
// (insert the message, then update the conversation). If the second write
// fails the message is kept and the conversation preview stays stale until
// the next message is sent.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/tbourn/go-dm-backend/internal/domain"
	"github.com/tbourn/go-dm-backend/internal/repo"
)

// Collection names.
const (
	UsersCollection         = "users"
	ConversationsCollection = "conversations"
	MessagesCollection      = "messages"
)

// Store is a MongoDB-backed document store. It is safe for concurrent use.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect dials uri, verifies the connection with a ping, and ensures the
// indexes the store relies on exist in database dbName.
func Connect(ctx context.Context, uri, dbName string) (*Store, error) {
	if uri == "" {
		return nil, errors.New("mongostore: empty connection uri")
	}
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongostore: connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongostore: ping: %w", err)
	}
	s := &Store{client: client, db: client.Database(dbName)}
	if err := s.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

// EnsureIndexes creates the pair uniqueness index and the lookup indexes.
// It is idempotent.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	for name, models := range indexModels() {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("mongostore: create indexes for %s: %w", name, err)
		}
	}
	return nil
}

func indexModels() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		ConversationsCollection: {
			{
				Keys:    bson.D{{Key: "pair_key", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("ux_conv_pair"),
			},
			{Keys: bson.D{{Key: "participant_ids", Value: 1}}},
			{Keys: bson.D{{Key: "updated_at", Value: -1}}},
		},
		MessagesCollection: {
			{Keys: bson.D{{Key: "conversation_id", Value: 1}, {Key: "_id", Value: -1}}},
		},
	}
}

func (s *Store) users() *mongo.Collection         { return s.db.Collection(UsersCollection) }
func (s *Store) conversations() *mongo.Collection { return s.db.Collection(ConversationsCollection) }
func (s *Store) messages() *mongo.Collection      { return s.db.Collection(MessagesCollection) }

// mapErr translates driver errors onto the repo sentinels.
func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return repo.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return repo.ErrDuplicate
	default:
		return err
	}
}

// CreateUser inserts u.
func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	_, err := s.users().InsertOne(ctx, u)
	return mapErr(err)
}

// GetUser fetches a user by id.
func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	if err := s.users().FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}

// ListUsers returns every user in id order.
func (s *Store) ListUsers(ctx context.Context) ([]domain.User, error) {
	cur, err := s.users().Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	out := []domain.User{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateConversation inserts c; a second document for the same pair fails
// with repo.ErrDuplicate.
func (s *Store) CreateConversation(ctx context.Context, c *domain.Conversation) error {
	_, err := s.conversations().InsertOne(ctx, c)
	return mapErr(err)
}

// GetConversation fetches a conversation by id.
func (s *Store) GetConversation(ctx context.Context, id string) (*domain.Conversation, error) {
	return s.findConversation(ctx, bson.M{"_id": id})
}

// FindConversationByPair returns the conversation between a and b in either
// order.
func (s *Store) FindConversationByPair(ctx context.Context, a, b string) (*domain.Conversation, error) {
	return s.findConversation(ctx, pairFilter(a, b))
}

func (s *Store) findConversation(ctx context.Context, filter bson.M) (*domain.Conversation, error) {
	var c domain.Conversation
	if err := s.conversations().FindOne(ctx, filter).Decode(&c); err != nil {
		return nil, mapErr(err)
	}
	hydrate(&c)
	return &c, nil
}

// ListConversations returns userID's conversations, most recently updated
// first, with untouched conversations last.
func (s *Store) ListConversations(ctx context.Context, userID string) ([]domain.Conversation, error) {
	cur, err := s.conversations().Find(ctx, participantFilter(userID), options.Find().SetSort(conversationSort()))
	if err != nil {
		return nil, err
	}
	out := []domain.Conversation{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	for i := range out {
		hydrate(&out[i])
	}
	inboxOrder(out)
	return out, nil
}

// AppendMessage inserts m, then records it as the conversation's latest
// message. The two writes are not atomic.
func (s *Store) AppendMessage(ctx context.Context, m *domain.Message) error {
	if _, err := s.messages().InsertOne(ctx, m); err != nil {
		return mapErr(err)
	}
	res, err := s.conversations().UpdateOne(ctx,
		bson.M{"_id": m.ConversationID},
		touchUpdate(m),
	)
	if err != nil {
		return fmt.Errorf("mongostore: update conversation %s: %w", m.ConversationID, err)
	}
	return touchResult(res.MatchedCount)
}

// GetMessage fetches a message by id. No HTTP route reads a single message;
// it is kept for tooling and store tests.
func (s *Store) GetMessage(ctx context.Context, id string) (*domain.Message, error) {
	var m domain.Message
	if err := s.messages().FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		return nil, mapErr(err)
	}
	return &m, nil
}

// ListMessages returns up to limit messages of conversationID in ascending id
// order, optionally restricted to ids below before (canonical form).
func (s *Store) ListMessages(ctx context.Context, conversationID, before string, limit int) ([]domain.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := s.messages().Find(ctx, messageFilter(conversationID, before), opts)
	if err != nil {
		return nil, err
	}
	out := []domain.Message{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	oldestFirst(out)
	return out, nil
}

// Ping checks connectivity with the server.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// CollectionNames lists the collections of the configured database.
func (s *Store) CollectionNames(ctx context.Context) ([]string, error) {
	return s.db.ListCollectionNames(ctx, bson.D{})
}

// Close disconnects the client.
func (s *Store) Close() error {
	return s.client.Disconnect(context.Background())
}

func pairFilter(a, b string) bson.M {
	return bson.M{"pair_key": domain.PairKey(a, b)}
}

func participantFilter(userID string) bson.M {
	return bson.M{"participant_ids": userID}
}

func conversationSort() bson.D {
	return bson.D{{Key: "updated_at", Value: -1}, {Key: "_id", Value: -1}}
}

func messageFilter(conversationID, before string) bson.M {
	f := bson.M{"conversation_id": conversationID}
	if before != "" {
		f["_id"] = bson.M{"$lt": before}
	}
	return f
}

func touchUpdate(m *domain.Message) bson.M {
	return bson.M{"$set": bson.M{
		"last_message_preview": m.Text,
		"updated_at":           m.CreatedAt,
	}}
}

// hydrate fills the SQL-only participant columns from ParticipantIDs so
// decoded documents look like rows loaded through GORM.
func hydrate(c *domain.Conversation) {
	if len(c.ParticipantIDs) == 2 {
		c.ParticipantA, c.ParticipantB = c.ParticipantIDs[0], c.ParticipantIDs[1]
	}
}

// touchResult maps the matched count of the conversation update to the
// store contract: no match means the conversation is gone.
func touchResult(matched int64) error {
	if matched == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// oldestFirst reverses a page fetched newest-first.
func oldestFirst(ms []domain.Message) {
	for i, j := 0, len(ms)-1; i < j; i, j = i+1, j-1 {
		ms[i], ms[j] = ms[j], ms[i]
	}
}

// inboxOrder sorts by updated_at descending with nil updated_at last, ties
// broken by id descending, the same order the SQL backend's query yields.
func inboxOrder(cs []domain.Conversation) {
	sort.SliceStable(cs, func(i, j int) bool {
		a, b := cs[i].UpdatedAt, cs[j].UpdatedAt
		switch {
		case a == nil && b == nil:
			return cs[i].ID > cs[j].ID
		case a == nil:
			return false
		case b == nil:
			return true
		case !a.Equal(*b):
			return a.After(*b)
		default:
			return cs[i].ID > cs[j].ID
		}
	})
}
