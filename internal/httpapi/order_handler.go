package httpapi

import (
	"net/http"

	"pizzeria-backend/internal/apperr"
	"pizzeria-backend/internal/cart"
	"pizzeria-backend/internal/orders"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type OrderHandler struct {
	orders *orders.Service
	carts  *cart.Service
	logger *zap.Logger
}

func NewOrderHandler(svc *orders.Service, carts *cart.Service, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{orders: svc, carts: carts, logger: logger}
}

func (h *OrderHandler) Checkout(c *gin.Context) {
	var req orders.CheckoutRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, h.logger, err)
		return
	}
	ctx := c.Request.Context()
	sess, err := h.carts.Open(ctx, c.GetString(ctxUserID))
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	order, err := h.orders.Checkout(ctx, sess, req)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Order placed successfully", "order": order})
}

func (h *OrderHandler) ListAll(c *gin.Context) {
	list, err := h.orders.ListAll(c.Request.Context())
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *OrderHandler) ListMine(c *gin.Context) {
	h.listFor(c, c.GetString(ctxUserID))
}

// ListForUser serves another user's orders to admins, or the caller's own.
func (h *OrderHandler) ListForUser(c *gin.Context) {
	userID := c.Param("userId")
	if userID != c.GetString(ctxUserID) && !c.GetBool(ctxIsAdmin) {
		fail(c, h.logger, apperr.Forbidden("You can only view your own orders"))
		return
	}
	h.listFor(c, userID)
}

// Get serves a single order to its owner or an admin.
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.orders.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	if order.UserID != c.GetString(ctxUserID) && !c.GetBool(ctxIsAdmin) {
		fail(c, h.logger, apperr.NotFound("Order"))
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) listFor(c *gin.Context, userID string) {
	list, err := h.orders.ListForUser(c.Request.Context(), userID)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
