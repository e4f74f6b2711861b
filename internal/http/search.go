package http

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/booktrail/booktrail/internal/catalog"
)

// SearchController proxies topic queries to the external book catalog.
type SearchController struct {
	client CatalogClient
}

func NewSearchController(client CatalogClient) *SearchController {
	return &SearchController{client: client}
}

type searchRequest struct {
	Field string `json:"field" binding:"required"`
	Topic string `json:"topic"`
}

// Search returns up to ten candidate books for a field of interest and
// an optional sub-topic. Any catalog failure degrades to zero results;
// a lookup fault never propagates to the caller.
// POST /api/search
func (sc *SearchController) Search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "field of interest is required")
		return
	}

	books, err := sc.client.Search(c.Request.Context(), req.Field, req.Topic)
	if err != nil {
		log.Printf("Catalog lookup failed for query %q %q: %v", req.Field, req.Topic, err)
		books = []catalog.BookSummary{}
	}
	if books == nil {
		books = []catalog.BookSummary{}
	}

	log.Printf("Search query %q with topic %q returned %d results", req.Field, req.Topic, len(books))

	c.JSON(http.StatusOK, gin.H{
		"books":    books,
		"category": req.Field,
	})
}
