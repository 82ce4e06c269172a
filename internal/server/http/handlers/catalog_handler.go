package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leiter/marketday/internal/domain/model"
	"github.com/leiter/marketday/internal/server/http/dto"
)

// CatalogHandler serves the seller's article list.
type CatalogHandler struct {
	facade CatalogFacade
}

// NewCatalogHandler constructs CatalogHandler.
func NewCatalogHandler(facade CatalogFacade) *CatalogHandler {
	return &CatalogHandler{facade: facade}
}

// List handles GET /api/catalog.
func (h *CatalogHandler) List(c *gin.Context) {
	articles := h.facade.Articles(c.Query("category"), c.Query("q"))

	response := make([]dto.ArticleResponse, 0, len(articles))
	for _, a := range articles {
		response = append(response, toArticleResponse(a))
	}

	c.JSON(http.StatusOK, response)
}

func toArticleResponse(article model.Article) dto.ArticleResponse {
	response := dto.ArticleResponse{
		ID:          article.ID,
		ProductID:   article.ProductID,
		ProductName: article.ProductName,
		Available:   article.Available,
		Unit:        string(article.Unit),
		Price:       article.Price.StringFixed(2),
		ImageURL:    article.ImageURL,
		Category:    article.Category,
		DetailText:  article.DetailText,
	}
	if article.Unit.WeightBased() || !article.WeightPerPiece.IsZero() {
		response.WeightPerPiece = article.WeightPerPiece.String()
	}
	return response
}
