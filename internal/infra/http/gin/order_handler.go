package ginserver

import (
	"net/http"
	"strconv"

	gin "github.com/gin-gonic/gin"

	orderapp "tourline/internal/app/handlers/orders"
	domainorders "tourline/internal/domain/orders"
)

// OrderHandler wires booking creation and back-office order management.
type OrderHandler struct {
	Orders *orderapp.Service
}

// Create books seats on a departure. Clients retrying a failed request
// should resend the same Idempotency-Key header.
func (h OrderHandler) Create(c *gin.Context) {
	var in orderapp.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	in.IdempotencyKey = c.GetHeader("Idempotency-Key")
	result, err := h.Orders.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h OrderHandler) Get(c *gin.Context) {
	result, err := h.Orders.Get(c.Request.Context(), domainorders.OrderID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h OrderHandler) List(c *gin.Context) {
	limit := parseQueryInt(c, "limit", 20)
	offset := parseQueryInt(c, "offset", 0)
	result, err := h.Orders.List(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h OrderHandler) Confirm(c *gin.Context) {
	result, err := h.Orders.Confirm(c.Request.Context(), domainorders.OrderID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h OrderHandler) Cancel(c *gin.Context) {
	var body struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&body)
	result, err := h.Orders.Cancel(c.Request.Context(), domainorders.OrderID(c.Param("id")), body.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func parseQueryInt(c *gin.Context, key string, def int64) int64 {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		return def
	}
	return v
}
