// Package services – UserService
//
// UserService validates and normalizes profile input and delegates storage
// to a UserRepo. Users are never updated or deleted.
package services

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/unicode/norm"

	"github.com/tbourn/go-dm-backend/internal/domain"
	"github.com/tbourn/go-dm-backend/internal/ids"
	"github.com/tbourn/go-dm-backend/internal/observability"
	"github.com/tbourn/go-dm-backend/internal/repo"
)

// UserService provides user creation and lookup.
type UserService struct {
	Repo UserRepo

	// Now is the clock; defaults to time.Now.
	Now func() time.Time
	// NewID allocates identifiers; defaults to ids.New.
	NewID func() string
}

// NewUserService constructs a UserService backed by r.
func NewUserService(r UserRepo) *UserService {
	return &UserService{Repo: r, Now: time.Now, NewID: ids.New}
}

// Create validates username and avatarColor and inserts a new user.
// An empty avatarColor falls back to domain.DefaultAvatarColor.
func (s *UserService) Create(ctx context.Context, username, avatarColor string) (*domain.User, error) {
	ctx, span := otel.Tracer("services/UserService").Start(ctx, "Create")
	defer span.End()

	username = normalizeUsername(username)
	if n := utf8.RuneCountInString(username); n < domain.UsernameMinLen || n > domain.UsernameMaxLen {
		return nil, ErrInvalidUsername
	}
	avatarColor = strings.TrimSpace(avatarColor)
	if avatarColor == "" {
		avatarColor = domain.DefaultAvatarColor
	}
	if utf8.RuneCountInString(avatarColor) > domain.AvatarColorMaxLen {
		return nil, ErrInvalidAvatarColor
	}

	u := &domain.User{
		ID:          s.newID(),
		Username:    username,
		AvatarColor: avatarColor,
		CreatedAt:   stamp(s.now()),
	}
	span.SetAttributes(attribute.String("user.id", u.ID))
	if err := s.Repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	observability.UsersCreated.Inc()
	return u, nil
}

// Get returns the user with the given id. Malformed and unknown ids both
// yield ErrUserNotFound.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	ctx, span := otel.Tracer("services/UserService").Start(ctx, "Get",
		trace.WithAttributes(attribute.String("user.id", id)),
	)
	defer span.End()

	canon, err := ids.Canonical(id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	u, err := s.Repo.GetUser(ctx, canon)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

// List returns every user, oldest first.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	ctx, span := otel.Tracer("services/UserService").Start(ctx, "List")
	defer span.End()

	return s.Repo.ListUsers(ctx)
}

func (s *UserService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *UserService) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return ids.New()
}

// normalizeUsername trims surrounding whitespace and applies NFC so that
// visually identical names have the same length.
func normalizeUsername(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// stamp converts t to the stored timestamp precision.
func stamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}
