package entities

import (
	"time"
)

// DefaultCategory is assigned to favorites saved without an explicit category.
const DefaultCategory = "Uncategorized"

// User is an account holder. The username is stored in normalized
// (case-folded) form under a unique index; only the password is kept
// behind a salted one-way hash. Streak columns are mutated exclusively
// through the streak update path.
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Username     string `gorm:"uniqueIndex;size:100" json:"username"`
	PasswordHash string `gorm:"size:100" json:"-"`

	// LastReadDate holds an ISO date (YYYY-MM-DD) or NULL when the user
	// has never recorded reading progress.
	LastReadDate  *string `gorm:"size:10" json:"last_read_date,omitempty"`
	CurrentStreak int     `gorm:"default:0" json:"current_streak"`
	LongestStreak int     `gorm:"default:0" json:"longest_streak"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FavoriteBook is one saved catalog result in a user's ledger. Each book
// belongs to exactly one user; the ISBN is unique within that user's
// collection. Insertion order is row-id order.
type FavoriteBook struct {
	ID              uint   `gorm:"primaryKey" json:"-"`
	UserID          uint   `gorm:"index:idx_user_isbn,unique" json:"-"`
	Title           string `gorm:"size:512" json:"title"`
	Author          string `gorm:"size:256" json:"author"`
	ISBN            string `gorm:"index:idx_user_isbn,unique;size:20" json:"isbn"`
	PublicationYear string `gorm:"size:20" json:"publication_year"`
	Category        string `gorm:"size:100;default:'Uncategorized'" json:"category"`

	// CurrentPage is NULL until the user first records progress.
	CurrentPage *int   `json:"current_page,omitempty"`
	Learning    string `gorm:"type:text" json:"learning,omitempty"`

	User User `gorm:"foreignKey:UserID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (FavoriteBook) TableName() string {
	return "favorite_books"
}
