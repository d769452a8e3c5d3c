// Package services defines the business logic for users, conversations, and
// messages. This file centralizes common service-level error values so that
// they can be consistently returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer; translation
// into HTTP status codes and error codes is performed by the handlers.
package services

import "errors"

var (
	// ErrInvalidUsername is returned when a username is outside 2–24 runes
	// after trimming and normalization.
	ErrInvalidUsername = errors.New("username must be 2-24 characters")

	// ErrInvalidAvatarColor is returned when avatar_color exceeds 16 characters.
	ErrInvalidAvatarColor = errors.New("avatar_color must be at most 16 characters")

	// ErrUserNotFound indicates that the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidParticipant is returned when a participant id is empty or
	// longer than 64 bytes.
	ErrInvalidParticipant = errors.New("participant ids must be 1-64 characters")

	// ErrSelfConversation is returned when both participants are the same user.
	ErrSelfConversation = errors.New("cannot start a conversation with yourself")

	// ErrConversationNotFound indicates that the conversation id is unknown or
	// not a well-formed identifier.
	ErrConversationNotFound = errors.New("conversation not found")

	// ErrSenderNotParticipant is returned when the sender is not one of the
	// conversation's two participants.
	ErrSenderNotParticipant = errors.New("sender is not a participant of this conversation")

	// ErrInvalidText is returned when message text is empty or longer than
	// 4000 characters.
	ErrInvalidText = errors.New("text must be 1-4000 characters")
)
