// Message HTTP handlers.
//
//   - POST /messages                     (send)
//   - GET  /messages/{conversation_id}   (history page, ascending)
//
// History is paged backwards with a cursor: pass the id of the oldest
// message already shown as `before` to get the page preceding it.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-dm-backend/internal/domain"
	"github.com/tbourn/go-dm-backend/internal/services"
	"github.com/tbourn/go-dm-backend/internal/utils"
)

// SendMessageRequest is the JSON payload for sending a message.
type SendMessageRequest struct {
	ConversationID string `json:"conversation_id" binding:"required" example:"01J9ZQ5C2R7Y0P3W8E6T4N1M5K"`
	SenderID       string `json:"sender_id" binding:"required,max=64" example:"01J9ZQ3W5N8M4T7K2B6C1D0E9F"`
	// Text is 1–4000 characters.
	Text string `json:"text" binding:"required,min=1,max=4000" example:"hey, are we still on for friday?"`
}

// SendMessage godoc
// @ID          sendMessage
// @Summary     Send a message
// @Description Stores the message and makes it the conversation's preview.
// @Tags        Messages
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.SendMessageRequest  true  "Message"
// @Success     201   {object}  domain.Message
// @Failure     400   {object}  handlers.ErrorResponse  "Bad request"
// @Failure     403   {object}  handlers.ErrorResponse  "Sender not in conversation"
// @Failure     404   {object}  handlers.ErrorResponse  "Conversation not found"
// @Failure     500   {object}  handlers.ErrorResponse  "Internal error"
// @Router      /messages [post]
func (h *Handlers) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "conversation_id, sender_id (max 64 characters) and text (1-4000 characters) required")
		return
	}

	m, err := h.msgSvc.Send(c.Request.Context(), req.ConversationID, req.SenderID, req.Text)
	switch {
	case err == nil:
		ok(c, http.StatusCreated, m)
	case errors.Is(err, services.ErrConversationNotFound):
		fail(c, http.StatusNotFound, ErrCodeConversationNotFound, "Conversation not found")
	case errors.Is(err, services.ErrSenderNotParticipant):
		fail(c, http.StatusForbidden, ErrCodeSenderNotParticipant, "Sender not in conversation")
	case errors.Is(err, services.ErrInvalidText):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	default:
		internalError(c, err)
	}
}

// ListMessages godoc
// @ID          listMessages
// @Summary     List messages
// @Description Returns up to `limit` messages in chronological order. With `before`,
// @Description only messages older than that message id are considered. A malformed
// @Description `before` is ignored.
// @Tags        Messages
// @Produce     json
// @Param       conversation_id  path      string  true   "Conversation ID"
// @Param       limit            query     int     false  "Page size (default 50, max 200)"
// @Param       before           query     string  false  "Message ID cursor (exclusive)"
// @Success     200              {array}   domain.Message
// @Failure     500              {object}  handlers.ErrorResponse  "Internal error"
// @Router      /messages/{conversation_id} [get]
func (h *Handlers) ListMessages(c *gin.Context) {
	// 0 lets the service apply its configured default.
	limit := utils.AtoiDefault(c.Query("limit"), 0)

	msgs, err := h.msgSvc.List(c.Request.Context(), c.Param("conversation_id"), limit, c.Query("before"))
	if err != nil {
		internalError(c, err)
		return
	}
	if msgs == nil {
		msgs = []domain.Message{}
	}
	ok(c, http.StatusOK, msgs)
}
