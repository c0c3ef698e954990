package httpapi

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"pizzeria-backend/internal/admin"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type AdminHandler struct {
	admin  *admin.Service
	logger *zap.Logger
}

func NewAdminHandler(svc *admin.Service, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{admin: svc, logger: logger}
}

func (h *AdminHandler) Stats(c *gin.Context) {
	st, err := h.admin.Stats(c.Request.Context())
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *AdminHandler) ExportOrders(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.admin.ExportOrders(c.Request.Context(), &buf); err != nil {
		fail(c, h.logger, err)
		return
	}
	filename := fmt.Sprintf("orders-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Header("Content-Transfer-Encoding", "binary")
	c.Header("Expires", "0")
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
