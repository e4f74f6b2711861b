package http

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/booktrail/booktrail/internal/database/favorites"
	"github.com/booktrail/booktrail/internal/entities"
)

// FavoritesController handles the per-user ledger of saved books:
// listing, saving search results, removal, page progress and notes.
type FavoritesController struct {
	store    FavoritesStore
	accounts AccountStore
	now      func() time.Time
}

func NewFavoritesController(store FavoritesStore, accounts AccountStore, now func() time.Time) *FavoritesController {
	if now == nil {
		now = time.Now
	}
	return &FavoritesController{
		store:    store,
		accounts: accounts,
		now:      now,
	}
}

type favoriteBookRequest struct {
	Title           string `json:"title"`
	Author          string `json:"author"`
	ISBN            string `json:"isbn"`
	PublicationYear string `json:"publication_year"`
	Category        string `json:"category"`
}

type addFavoritesRequest struct {
	Books []favoriteBookRequest `json:"books"`
}

type removeFavoritesRequest struct {
	ISBNs []string `json:"isbns"`
}

type updatePageRequest struct {
	ISBN string `json:"isbn" binding:"required"`
	Page *int   `json:"page" binding:"required"`
}

type saveLearningRequest struct {
	ISBN     string `json:"isbn" binding:"required"`
	Learning string `json:"learning"`
}

// List returns the user's favorites, optionally filtered by category.
// Storage faults degrade to an empty list.
// GET /api/favorites?category=
func (fc *FavoritesController) List(c *gin.Context) {
	userID := GetUserID(c)
	categoryFilter := c.Query("category")

	books, err := fc.store.List(userID, categoryFilter)
	if err != nil {
		log.Printf("Failed to list favorites for user %d: %v", userID, err)
		books = []entities.FavoriteBook{}
	}
	if books == nil {
		books = []entities.FavoriteBook{}
	}

	c.JSON(http.StatusOK, gin.H{
		"favorites": books,
		"category":  categoryFilter,
	})
}

// Bookmarks returns the ledger with reading-progress fields, the
// bookmark view of the same collection.
// GET /api/bookmarks
func (fc *FavoritesController) Bookmarks(c *gin.Context) {
	userID := GetUserID(c)

	books, err := fc.store.List(userID, "")
	if err != nil {
		log.Printf("Failed to list bookmarks for user %d: %v", userID, err)
		books = []entities.FavoriteBook{}
	}
	if books == nil {
		books = []entities.FavoriteBook{}
	}

	c.JSON(http.StatusOK, gin.H{"favorites": books})
}

// Add saves selected search results into the ledger. Every book needs
// title, author, ISBN and publication year; duplicates within the
// selection are skipped, not errors.
// POST /api/favorites
func (fc *FavoritesController) Add(c *gin.Context) {
	userID := GetUserID(c)

	var req addFavoritesRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Books) == 0 {
		respondBadRequest(c, "no books selected")
		return
	}

	added := 0
	for _, b := range req.Books {
		if b.Title == "" || b.Author == "" || b.ISBN == "" || b.PublicationYear == "" {
			respondBadRequest(c, "missing data for one of the books")
			return
		}

		book := entities.FavoriteBook{
			Title:           b.Title,
			Author:          b.Author,
			ISBN:            b.ISBN,
			PublicationYear: b.PublicationYear,
			Category:        b.Category,
		}

		err := fc.store.Add(userID, book)
		switch {
		case err == nil:
			log.Printf("Added favorite book %q for user %d", b.Title, userID)
			added++
		case errors.Is(err, favorites.ErrDuplicateISBN):
			// Already saved; adding twice leaves one entry
		default:
			respondInternalError(c, err, "add favorite")
			return
		}
	}

	respondCreated(c, gin.H{"added": added})
}

// Remove deletes every favorite whose ISBN is in the request set.
// POST /api/favorites/remove
func (fc *FavoritesController) Remove(c *gin.Context) {
	userID := GetUserID(c)

	var req removeFavoritesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	if len(req.ISBNs) > 0 {
		if err := fc.store.Remove(userID, req.ISBNs); err != nil {
			respondInternalError(c, err, "remove favorites")
			return
		}
		log.Printf("Removed favorites for user %d: %v", userID, req.ISBNs)
	}

	respondSuccess(c, "favorites removed")
}

// UpdatePage records page progress on a ledger entry and advances the
// reading streak once. The streak outcome rides along in the response.
// POST /api/favorites/page
func (fc *FavoritesController) UpdatePage(c *gin.Context) {
	userID := GetUserID(c)

	var req updatePageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "isbn and page are required")
		return
	}

	err := fc.store.SetPage(userID, req.ISBN, *req.Page)
	switch {
	case err == nil:
	case errors.Is(err, favorites.ErrInvalidPage):
		respondBadRequest(c, "invalid page number")
		return
	case errors.Is(err, favorites.ErrBookNotFound):
		respondNotFound(c, "book")
		return
	default:
		respondInternalError(c, err, "update current page")
		return
	}

	log.Printf("Updated page to %d for book with ISBN %s for user %d", *req.Page, req.ISBN, userID)

	streakData, err := fc.accounts.UpdateStreak(userID, fc.now())
	if err != nil {
		// The page update already committed; report the streak as zeroed
		// rather than failing the request.
		log.Printf("Failed to update reading streak for user %d: %v", userID, err)
	}

	c.JSON(http.StatusOK, gin.H{
		"isbn":   req.ISBN,
		"page":   *req.Page,
		"streak": streakData,
	})
}

// SaveLearning overwrites the learning note on a ledger entry.
// POST /api/favorites/learning
func (fc *FavoritesController) SaveLearning(c *gin.Context) {
	userID := GetUserID(c)

	var req saveLearningRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "isbn is required")
		return
	}

	err := fc.store.SetNote(userID, req.ISBN, req.Learning)
	switch {
	case err == nil:
		log.Printf("Saved learning for book with ISBN %s for user %d", req.ISBN, userID)
		respondSuccess(c, "learning saved")
	case errors.Is(err, favorites.ErrBookNotFound):
		respondNotFound(c, "book")
	default:
		respondInternalError(c, err, "save learning")
	}
}
