package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	domainErrors "github.com/leiter/marketday/internal/domain/errors"
	"github.com/leiter/marketday/internal/domain/model"
	"github.com/leiter/marketday/internal/server/http/dto"
)

// respondError maps domain errors onto HTTP statuses with a stable error code
// the client can branch on.
func respondError(c *gin.Context, err error) {
	var transition *domainErrors.InvalidTransitionError

	switch {
	case errors.Is(err, domainErrors.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Code: "not_found", Message: err.Error()})
	case errors.Is(err, domainErrors.ErrNewOrderRequired):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Code: "new_order_required", Message: err.Error()})
	case errors.Is(err, domainErrors.ErrDeadlinePassed):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Code: "deadline_passed", Message: err.Error()})
	case errors.As(err, &transition):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Code: "invalid_transition", Message: err.Error()})
	case errors.Is(err, domainErrors.ErrInvalidQuantity):
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Code: "invalid_quantity", Message: err.Error()})
	case errors.Is(err, domainErrors.ErrInvalidPickUp):
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Code: "invalid_pickup", Message: err.Error()})
	case errors.Is(err, domainErrors.ErrEmptyBasket):
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Code: "empty_basket", Message: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: "internal", Message: "internal error"})
	}
}

// roleFromQuery reads the optional role parameter, defaulting to the buyer
// side of the conversation.
func roleFromQuery(c *gin.Context) (model.OrderRole, bool) {
	switch c.DefaultQuery("role", string(model.RoleBuyer)) {
	case string(model.RoleBuyer):
		return model.RoleBuyer, true
	case string(model.RoleSeller):
		return model.RoleSeller, true
	default:
		return "", false
	}
}

func toLineItemResponse(item model.OrderedProduct) dto.LineItemResponse {
	return dto.LineItemResponse{
		ID:          item.ID,
		ProductID:   item.ProductID,
		ProductName: item.ProductName,
		Unit:        string(item.Unit),
		Price:       item.Price.StringFixed(2),
		Amount:      item.Amount,
		AmountCount: item.AmountCount.String(),
		PiecesCount: item.PiecesCount,
		Subtotal:    item.Subtotal().StringFixed(2),
	}
}

func toBasketResponse(basket model.DraftBasket) dto.BasketResponse {
	items := make([]dto.LineItemResponse, 0, len(basket.Items))
	for _, item := range basket.Items {
		items = append(items, toLineItemResponse(item))
	}

	response := dto.BasketResponse{
		BuyerID:           basket.BuyerID,
		Items:             items,
		AssociatedOrderID: basket.AssociatedOrderID,
		Total:             basket.Total().StringFixed(2),
	}
	if basket.SelectedPickupDate != nil {
		millis := basket.SelectedPickupDate.UnixMilli()
		response.SelectedPickupDate = &millis
	}
	return response
}

func toOrderResponse(order model.Order) dto.OrderResponse {
	articles := make([]dto.LineItemResponse, 0, len(order.Articles))
	total := decimal.Zero
	for _, item := range order.Articles {
		articles = append(articles, toLineItemResponse(item))
		total = total.Add(item.Subtotal())
	}

	return dto.OrderResponse{
		ID: order.ID,
		Buyer: dto.BuyerResponse{
			Name:    order.Buyer.Name,
			Phone:   order.Buyer.Phone,
			Address: order.Buyer.Address,
		},
		CreatedDate: order.CreatedDate.UnixMilli(),
		SellerID:    order.SellerID,
		MarketID:    order.MarketID,
		PickUpDate:  order.PickUpDate.UnixMilli(),
		Message:     order.Message,
		Articles:    articles,
		Status:      string(order.Status),
		Total:       total.StringFixed(2),
	}
}
