package httpapi

import (
	"net/http"

	"pizzeria-backend/internal/cart"
	"pizzeria-backend/internal/users"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	users  *users.Service
	carts  *cart.Service
	logger *zap.Logger
}

func NewAuthHandler(accounts *users.Service, carts *cart.Service, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{users: accounts, carts: carts, logger: logger}
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req users.SignupInput
	if err := bindJSON(c, &req); err != nil {
		fail(c, h.logger, err)
		return
	}
	auth, err := h.users.Signup(c.Request.Context(), req)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, auth)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req users.LoginInput
	if err := bindJSON(c, &req); err != nil {
		fail(c, h.logger, err)
		return
	}
	auth, err := h.users.Login(c.Request.Context(), req)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, auth)
}

func (h *AuthHandler) Profile(c *gin.Context) {
	u, err := h.users.Get(c.Request.Context(), c.GetString(ctxUserID))
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req users.ProfileInput
	if err := bindJSON(c, &req); err != nil {
		fail(c, h.logger, err)
		return
	}
	u, err := h.users.UpdateProfile(c.Request.Context(), c.GetString(ctxUserID), req)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *AuthHandler) ListUsers(c *gin.Context) {
	list, err := h.users.List(c.Request.Context())
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// DeleteUser removes the account and then its saved cart.
func (h *AuthHandler) DeleteUser(c *gin.Context) {
	id := c.Param("id")
	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		fail(c, h.logger, err)
		return
	}
	if err := h.carts.Forget(c.Request.Context(), id); err != nil {
		h.logger.Warn("cart not removed with user", zap.String("user_id", id), zap.Error(err))
	}
	c.JSON(http.StatusOK, gin.H{"message": "User removed"})
}
