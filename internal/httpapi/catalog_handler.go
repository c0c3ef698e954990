package httpapi

import (
	"net/http"

	"pizzeria-backend/internal/catalog"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CatalogHandler struct {
	catalog *catalog.Service
	logger  *zap.Logger
}

func NewCatalogHandler(svc *catalog.Service, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: svc, logger: logger}
}

func (h *CatalogHandler) ListPizzas(c *gin.Context) {
	list, err := h.catalog.ListPizzas(c.Request.Context())
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	if list == nil {
		list = []catalog.Pizza{}
	}
	c.JSON(http.StatusOK, list)
}

func (h *CatalogHandler) GetPizza(c *gin.Context) {
	p, err := h.catalog.GetPizza(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *CatalogHandler) Menu(c *gin.Context) {
	menu, err := h.catalog.Menu(c.Request.Context())
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, menu)
}

func (h *CatalogHandler) AddPizza(c *gin.Context) {
	var req catalog.PizzaInput
	if err := bindJSON(c, &req); err != nil {
		fail(c, h.logger, err)
		return
	}
	p, err := h.catalog.AddPizza(c.Request.Context(), req)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *CatalogHandler) UpdatePizza(c *gin.Context) {
	var req catalog.PizzaInput
	if err := bindJSON(c, &req); err != nil {
		fail(c, h.logger, err)
		return
	}
	p, err := h.catalog.UpdatePizza(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *CatalogHandler) DeletePizza(c *gin.Context) {
	if err := h.catalog.DeletePizza(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Pizza removed"})
}

// Seed fills an empty menu and topping list with the starter set.
func (h *CatalogHandler) Seed(c *gin.Context) {
	ctx := c.Request.Context()
	pizzas, err := h.catalog.SeedPizzas(ctx)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	if err := h.catalog.SeedToppings(ctx); err != nil {
		fail(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, pizzas)
}

func (h *CatalogHandler) ListToppings(c *gin.Context) {
	list, err := h.catalog.ListToppings(c.Request.Context())
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	if list == nil {
		list = []catalog.Topping{}
	}
	c.JSON(http.StatusOK, list)
}

func (h *CatalogHandler) AddTopping(c *gin.Context) {
	var req catalog.ToppingInput
	if err := bindJSON(c, &req); err != nil {
		fail(c, h.logger, err)
		return
	}
	t, err := h.catalog.AddTopping(c.Request.Context(), req)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

type quoteRequest struct {
	PizzaID string   `json:"pizzaId"`
	Size    string   `json:"selectedSize"`
	Extras  []string `json:"selectedExtras"`
}

// Quote prices a configuration for display; nothing is stored.
func (h *CatalogHandler) Quote(c *gin.Context) {
	var req quoteRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, h.logger, err)
		return
	}
	price, err := h.catalog.Quote(c.Request.Context(), req.PizzaID, req.Size, req.Extras)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"finalPrice": price})
}
