package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/leiter/marketday/internal/domain/model"
	"github.com/leiter/marketday/internal/server/http/dto"
)

// BasketHandler manages the buyer's draft basket endpoints.
type BasketHandler struct {
	facade BasketFacade
}

// NewBasketHandler constructs BasketHandler.
func NewBasketHandler(facade BasketFacade) *BasketHandler {
	return &BasketHandler{facade: facade}
}

// Get handles GET /api/basket.
func (h *BasketHandler) Get(c *gin.Context) {
	basket, err := h.facade.Basket(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBasketResponse(basket))
}

// SetItem handles PUT /api/basket/items.
func (h *BasketHandler) SetItem(c *gin.Context) {
	var req dto.LineItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: "bad_request", Message: err.Error()})
		return
	}

	item, err := lineItemFromRequest(req)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Code: "invalid_quantity", Message: err.Error()})
		return
	}

	basket, err := h.facade.SetBasketItem(c.Request.Context(), item)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBasketResponse(basket))
}

// RemoveItem handles DELETE /api/basket/items/:id.
func (h *BasketHandler) RemoveItem(c *gin.Context) {
	basket, err := h.facade.RemoveBasketItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBasketResponse(basket))
}

// SetPickupDate handles PUT /api/basket/pickup-date.
func (h *BasketHandler) SetPickupDate(c *gin.Context) {
	var req dto.PickupDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: "bad_request", Message: err.Error()})
		return
	}

	basket, err := h.facade.SetPickupDate(c.Request.Context(), time.UnixMilli(req.PickupDate).UTC())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBasketResponse(basket))
}

// StartNew handles POST /api/basket/new.
func (h *BasketHandler) StartNew(c *gin.Context) {
	basket, err := h.facade.StartNewOrder(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBasketResponse(basket))
}

// LoadOrder handles POST /api/basket/load/:orderID.
func (h *BasketHandler) LoadOrder(c *gin.Context) {
	basket, err := h.facade.LoadOrderForEdit(c.Request.Context(), c.Param("orderID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBasketResponse(basket))
}

// Checkout handles POST /api/basket/checkout.
func (h *BasketHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: "bad_request", Message: err.Error()})
		return
	}

	buyer := model.BuyerProfile{
		Name:    strings.TrimSpace(req.BuyerName),
		Phone:   strings.TrimSpace(req.BuyerPhone),
		Address: strings.TrimSpace(req.BuyerAddress),
	}

	order, err := h.facade.Checkout(c.Request.Context(), buyer, req.Message)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toOrderResponse(*order))
}

func lineItemFromRequest(req dto.LineItemRequest) (model.OrderedProduct, error) {
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		return model.OrderedProduct{}, err
	}
	amountCount, err := decimal.NewFromString(req.AmountCount)
	if err != nil {
		return model.OrderedProduct{}, err
	}

	return model.OrderedProduct{
		ID:          req.ID,
		ProductID:   req.ProductID,
		ProductName: req.ProductName,
		Unit:        model.Unit(req.Unit),
		Price:       price,
		Amount:      req.Amount,
		AmountCount: amountCount,
	}, nil
}
