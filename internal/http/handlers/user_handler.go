// User HTTP handlers.
//
//   - POST /users        (create)
//   - GET  /users        (list)
//   - GET  /users/{id}   (fetch one)
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-dm-backend/internal/domain"
	"github.com/tbourn/go-dm-backend/internal/services"
)

// CreateUserRequest is the JSON payload for creating a user.
type CreateUserRequest struct {
	// Username is 2–24 characters after trimming.
	Username string `json:"username" binding:"required" example:"ada"`
	// AvatarColor is an optional hex color; defaults to #6366F1.
	AvatarColor string `json:"avatar_color" binding:"omitempty,max=16" example:"#6366F1"`
}

// CreateUser godoc
// @ID          createUser
// @Summary     Create a user
// @Tags        Users
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.CreateUserRequest  true  "User profile"
// @Success     201   {object}  domain.User
// @Failure     400   {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500   {object}  handlers.ErrorResponse  "Internal error"
// @Router      /users [post]
func (h *Handlers) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "username required; avatar_color at most 16 characters")
		return
	}

	u, err := h.userSvc.Create(c.Request.Context(), req.Username, req.AvatarColor)
	switch {
	case err == nil:
		ok(c, http.StatusCreated, u)
	case errors.Is(err, services.ErrInvalidUsername), errors.Is(err, services.ErrInvalidAvatarColor):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	default:
		internalError(c, err)
	}
}

// ListUsers godoc
// @ID          listUsers
// @Summary     List users
// @Description Returns every user, oldest first.
// @Tags        Users
// @Produce     json
// @Success     200  {array}   domain.User
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /users [get]
func (h *Handlers) ListUsers(c *gin.Context) {
	users, err := h.userSvc.List(c.Request.Context())
	if err != nil {
		internalError(c, err)
		return
	}
	if users == nil {
		users = []domain.User{}
	}
	ok(c, http.StatusOK, users)
}

// GetUser godoc
// @ID          getUser
// @Summary     Get a user
// @Tags        Users
// @Produce     json
// @Param       id   path      string  true  "User ID (ULID)"
// @Success     200  {object}  domain.User
// @Failure     404  {object}  handlers.ErrorResponse  "User not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /users/{id} [get]
func (h *Handlers) GetUser(c *gin.Context) {
	u, err := h.userSvc.Get(c.Request.Context(), c.Param("id"))
	switch {
	case err == nil:
		ok(c, http.StatusOK, u)
	case errors.Is(err, services.ErrUserNotFound):
		fail(c, http.StatusNotFound, ErrCodeUserNotFound, "user not found")
	default:
		internalError(c, err)
	}
}
