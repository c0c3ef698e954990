package httpapi

import (
	"net/http"
	"time"

	"pizzeria-backend/internal/apperr"
	"pizzeria-backend/internal/cart"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type CartHandler struct {
	carts  *cart.Service
	logger *zap.Logger
}

func NewCartHandler(svc *cart.Service, logger *zap.Logger) *CartHandler {
	return &CartHandler{carts: svc, logger: logger}
}

type cartView struct {
	UserID    string          `json:"userId"`
	Items     []cart.LineItem `json:"items"`
	Total     decimal.Decimal `json:"total"`
	Count     int             `json:"count"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func viewOf(c *cart.Cart) cartView {
	return cartView{UserID: c.UserID, Items: c.Items, Total: c.Total(), Count: c.Count(), UpdatedAt: c.UpdatedAt}
}

// session opens the caller's cart. It writes the error response itself and
// returns nil when the cart cannot be loaded.
func (h *CartHandler) session(c *gin.Context) *cart.Session {
	sess, err := h.carts.Open(c.Request.Context(), c.GetString(ctxUserID))
	if err != nil {
		fail(c, h.logger, err)
		return nil
	}
	return sess
}

func (h *CartHandler) Get(c *gin.Context) {
	sess := h.session(c)
	if sess == nil {
		return
	}
	c.JSON(http.StatusOK, viewOf(sess.Cart()))
}

func (h *CartHandler) Add(c *gin.Context) {
	var req cart.AddRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, h.logger, err)
		return
	}
	sess := h.session(c)
	if sess == nil {
		return
	}
	item, err := h.carts.Configure(c.Request.Context(), req)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	updated, err := sess.Add(c.Request.Context(), item)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, viewOf(updated))
}

type quantityRequest struct {
	Quantity *int `json:"quantity"`
}

func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	var req quantityRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, h.logger, err)
		return
	}
	if req.Quantity == nil {
		fail(c, h.logger, apperr.Validation("quantity is required"))
		return
	}
	sess := h.session(c)
	if sess == nil {
		return
	}
	updated, err := sess.UpdateQuantity(c.Request.Context(), c.Param("cartItemId"), *req.Quantity)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, viewOf(updated))
}

func (h *CartHandler) Remove(c *gin.Context) {
	sess := h.session(c)
	if sess == nil {
		return
	}
	updated, err := sess.Remove(c.Request.Context(), c.Param("cartItemId"))
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, viewOf(updated))
}

func (h *CartHandler) Clear(c *gin.Context) {
	sess := h.session(c)
	if sess == nil {
		return
	}
	updated, err := sess.Clear(c.Request.Context())
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, viewOf(updated))
}
