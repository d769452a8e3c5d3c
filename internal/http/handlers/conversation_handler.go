// Conversation HTTP handlers.
//
//   - POST /conversations             (start or fetch the 1:1 conversation)
//   - GET  /conversations/{user_id}   (inbox, newest activity first)
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-dm-backend/internal/domain"
	"github.com/tbourn/go-dm-backend/internal/services"
)

// StartConversationRequest is the JSON payload for starting a conversation.
// Participant ids are opaque and not checked against existing users.
type StartConversationRequest struct {
	UserA string `json:"user_a" binding:"required,max=64" example:"01J9ZQ3W5N8M4T7K2B6C1D0E9F"`
	UserB string `json:"user_b" binding:"required,max=64" example:"01J9ZQ41B0TQX3V8N5M2K7H6G4"`
}

// StartConversation godoc
// @ID          startConversation
// @Summary     Start a conversation
// @Description Returns the conversation between the two users, creating it on first use.
// @Description Participant order does not matter.
// @Tags        Conversations
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.StartConversationRequest  true  "Participants"
// @Success     200   {object}  domain.Conversation  "Existing conversation"
// @Success     201   {object}  domain.Conversation  "Created"
// @Failure     400   {object}  handlers.ErrorResponse  "Bad request or self conversation"
// @Failure     500   {object}  handlers.ErrorResponse  "Internal error"
// @Router      /conversations [post]
func (h *Handlers) StartConversation(c *gin.Context) {
	var req StartConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "user_a and user_b (1-64 characters) required")
		return
	}

	conv, created, err := h.convSvc.Start(c.Request.Context(), req.UserA, req.UserB)
	switch {
	case err == nil:
		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		ok(c, status, conv)
	case errors.Is(err, services.ErrInvalidParticipant):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, services.ErrSelfConversation):
		fail(c, http.StatusBadRequest, ErrCodeSelfConversation, "Cannot chat with yourself")
	default:
		internalError(c, err)
	}
}

// ListConversations godoc
// @ID          listConversations
// @Summary     List a user's conversations
// @Description Most recently active first; conversations without messages come last.
// @Tags        Conversations
// @Produce     json
// @Param       user_id  path      string  true  "User ID"
// @Success     200      {array}   domain.Conversation
// @Failure     500      {object}  handlers.ErrorResponse  "Internal error"
// @Router      /conversations/{user_id} [get]
func (h *Handlers) ListConversations(c *gin.Context) {
	convs, err := h.convSvc.ListForUser(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		internalError(c, err)
		return
	}
	if convs == nil {
		convs = []domain.Conversation{}
	}
	ok(c, http.StatusOK, convs)
}
