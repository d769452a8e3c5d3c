// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// These codes give clients a stable, machine-readable error taxonomy that
// supplements the human-readable message. Codes are lowercase snake_case;
// generic ones mirror HTTP status semantics, domain ones name the rule that
// was violated.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "sender_not_participant",
//	  "message": "sender is not a participant of this conversation"
//	}
package handlers

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeNotFound         = "not_found"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeInternal         = "internal_error"

	// Domain-specific:
	ErrCodeSelfConversation     = "self_conversation"
	ErrCodeConversationNotFound = "conversation_not_found"
	ErrCodeUserNotFound         = "user_not_found"
	ErrCodeSenderNotParticipant = "sender_not_participant"
)
