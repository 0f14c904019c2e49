package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/habitflow/userhub/internal/config"
	"github.com/habitflow/userhub/internal/domain/user"
	"github.com/habitflow/userhub/internal/security"
)

type UserStore interface {
	List(ctx context.Context) ([]user.User, error)
	FindByEmail(ctx context.Context, email string) (user.User, error)
	Insert(ctx context.Context, u user.User) error
	DeleteByID(ctx context.Context, id string) (bool, error)
}

type Publisher interface {
	Publish(u user.User)
}

type UsersHandler struct {
	store UserStore
	live  Publisher
}

func NewUsersHandler(store UserStore, live Publisher) *UsersHandler {
	return &UsersHandler{store: store, live: live}
}

func (h *UsersHandler) ListUsers(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(2 * time.Second)

	defer cancel()

	users, err := h.store.List(cctx)

	if err != nil {
		RespondInternal(ctx, "Could not list users")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, users)
}

func (h *UsersHandler) Register(ctx *gin.Context) {
	var req user.RegisterRequest

	if !BindJSON(ctx, &req) {
		return
	}

	u, err := user.New(req.Name, req.Email, security.EncodePassword(req.Password))

	if err != nil {
		// whitespace-only fields slip past the binding tags
		RespondBadRequest(ctx, "name and email required", nil)
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)

	defer cancel()

	// check-then-act: two concurrent registrations for the same email can
	// both pass this lookup; the unique backends still catch it on insert
	_, err = h.store.FindByEmail(cctx, u.Email)

	if err == nil {
		RespondConflict(ctx, "email_taken", "User already exists.")
		return
	}

	if !errors.Is(err, user.ErrNotFound) {
		RespondInternal(ctx, "Could not register user")
		return
	}

	err = h.store.Insert(cctx, u)

	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			RespondConflict(ctx, "email_taken", "User already exists.")
			return
		}

		RespondInternal(ctx, "Could not register user")
		return
	}

	// best-effort fan-out; a failed push must never fail the registration
	h.live.Publish(u)

	ctx.JSON(http.StatusCreated, u)
}

func (h *UsersHandler) DeleteUser(ctx *gin.Context) {
	id := ctx.Param("id")

	cctx, cancel := config.WithTimeout(2 * time.Second)

	defer cancel()

	removed, err := h.store.DeleteByID(cctx, id)

	if err != nil {
		RespondInternal(ctx, "Could not delete user")
		return
	}

	if !removed {
		RespondNotFound(ctx, "User not found")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}
