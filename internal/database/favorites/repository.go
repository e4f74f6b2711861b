// Package favorites provides database operations for the per-user ledger
// of saved books.
//
// Each ledger entry is its own row keyed by (user_id, isbn), so every
// mutation is a single statement against one row. Insertion order is
// preserved by ordering on the row id.
//
// # Usage
//
//	repo := favorites.NewRepository(db)
//	err := repo.Add(userID, book)
package favorites

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	"github.com/booktrail/booktrail/internal/entities"
)

var (
	ErrBookNotFound  = errors.New("book not found in favorites")
	ErrDuplicateISBN = errors.New("book with this ISBN already in favorites")
	ErrInvalidPage   = errors.New("page must be a non-negative integer")
)

// Repository handles all favorites database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new favorites repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Add appends a book to the user's ledger. A duplicate ISBN for the same
// user is a normal outcome reported as ErrDuplicateISBN with no mutation,
// so adding the same book twice leaves exactly one entry.
func (r *Repository) Add(userID uint, book entities.FavoriteBook) error {
	book.ID = 0
	book.UserID = userID
	if book.Category == "" {
		book.Category = entities.DefaultCategory
	}

	var existing entities.FavoriteBook
	err := r.db.Where("user_id = ? AND isbn = ?", userID, book.ISBN).First(&existing).Error
	if err == nil {
		log.Printf("Book with ISBN %s already in favorites for user %d", book.ISBN, userID)
		return ErrDuplicateISBN
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check existing favorite: %w", err)
	}

	if err := r.db.Create(&book).Error; err != nil {
		// The composite unique index on (user_id, isbn) backs the
		// application-level check.
		if isUniqueViolation(err) {
			return ErrDuplicateISBN
		}
		return fmt.Errorf("failed to save favorite: %w", err)
	}

	return nil
}

// Remove deletes every entry whose ISBN is in the given set. A set
// disjoint from the user's ledger is not an error.
func (r *Repository) Remove(userID uint, isbns []string) error {
	if len(isbns) == 0 {
		return nil
	}
	err := r.db.Where("user_id = ? AND isbn IN ?", userID, isbns).
		Delete(&entities.FavoriteBook{}).Error
	if err != nil {
		return fmt.Errorf("failed to remove favorites: %w", err)
	}
	return nil
}

// SetNote overwrites the learning note on the entry with the given ISBN.
// At most one note exists per book; saving again replaces it.
func (r *Repository) SetNote(userID uint, isbn, text string) error {
	result := r.db.Model(&entities.FavoriteBook{}).
		Where("user_id = ? AND isbn = ?", userID, isbn).
		Update("learning", text)
	if result.Error != nil {
		return fmt.Errorf("failed to save learning note: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrBookNotFound
	}
	return nil
}

// SetPage overwrites the current page on the entry with the given ISBN.
// Negative pages are rejected before any lookup.
func (r *Repository) SetPage(userID uint, isbn string, page int) error {
	if page < 0 {
		return ErrInvalidPage
	}
	result := r.db.Model(&entities.FavoriteBook{}).
		Where("user_id = ? AND isbn = ?", userID, isbn).
		Update("current_page", page)
	if result.Error != nil {
		return fmt.Errorf("failed to update current page: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrBookNotFound
	}
	return nil
}

// List returns the user's ledger in insertion order, optionally restricted
// to entries whose category equals the filter.
func (r *Repository) List(userID uint, categoryFilter string) ([]entities.FavoriteBook, error) {
	query := r.db.Where("user_id = ?", userID).Order("id ASC")
	if categoryFilter != "" {
		query = query.Where("category = ?", categoryFilter)
	}

	var books []entities.FavoriteBook
	if err := query.Find(&books).Error; err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	return books, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
