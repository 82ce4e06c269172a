package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leiter/marketday/internal/server/http/dto"
)

// OrderHandler manages order-related endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// List handles GET /api/orders.
func (h *OrderHandler) List(c *gin.Context) {
	role, ok := roleFromQuery(c)
	if !ok {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: "bad_request", Message: "unknown role"})
		return
	}

	orders, err := h.facade.Orders(c.Request.Context(), role)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		response = append(response, toOrderResponse(o))
	}
	c.JSON(http.StatusOK, response)
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.facade.Order(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// Cancel handles POST /api/orders/:id/cancel.
func (h *OrderHandler) Cancel(c *gin.Context) {
	order, err := h.facade.CancelOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// Hide handles POST /api/orders/:id/hide.
func (h *OrderHandler) Hide(c *gin.Context) {
	role, ok := roleFromQuery(c)
	if !ok {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: "bad_request", Message: "unknown role"})
		return
	}

	if err := h.facade.HideOrder(c.Request.Context(), c.Param("id"), role); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Window handles GET /api/orders/:id/window.
func (h *OrderHandler) Window(c *gin.Context) {
	window, remaining, err := h.facade.OrderWindow(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.WindowResponse{
		Status:          string(window),
		RemainingMillis: remaining.Milliseconds(),
	})
}
