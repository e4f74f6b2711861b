// Package accounts provides database operations for account management:
// registration, credential checks and the persisted reading-streak state.
//
// # Usage
//
//	repo := accounts.NewRepository(db, cfg.Auth.BcryptCost)
//	user, err := repo.Register("alice", "correct-horse-battery")
package accounts

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/booktrail/booktrail/internal/auth"
	"github.com/booktrail/booktrail/internal/entities"
	"github.com/booktrail/booktrail/internal/streak"
)

var (
	ErrUsernameRequired   = errors.New("username is required")
	ErrPasswordRequired   = errors.New("password is required")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// StreakData is the streak view returned to callers.
type StreakData struct {
	CurrentStreak int           `json:"current_streak"`
	LongestStreak int           `json:"longest_streak"`
	LastReadDate  string        `json:"last_read_date,omitempty"`
	Status        streak.Status `json:"status,omitempty"`
}

// Repository handles all account database operations.
type Repository struct {
	db         *gorm.DB
	bcryptCost int
}

// NewRepository creates a new accounts repository.
func NewRepository(db *gorm.DB, bcryptCost int) *Repository {
	return &Repository{db: db, bcryptCost: bcryptCost}
}

// NormalizeUsername folds a username to its canonical stored form.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// Register creates a new account with zero streaks and no last-read date.
// A duplicate username is a normal outcome reported as ErrUsernameTaken,
// enforced both by the pre-check and by the unique index on the username
// column. Storage faults during registration propagate to the caller.
func (r *Repository) Register(username, password string) (*entities.User, error) {
	if strings.TrimSpace(username) == "" {
		return nil, ErrUsernameRequired
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}

	// Any non-empty username registers; only emptiness and duplication fail
	normalized := NormalizeUsername(username)

	var existing entities.User
	err := r.db.Where("username = ?", normalized).First(&existing).Error
	if err == nil {
		log.Printf("Attempted to register a duplicate user %q", normalized)
		return nil, ErrUsernameTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	passwordHash, err := auth.HashPassword(password, r.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entities.User{
		Username:     normalized,
		PasswordHash: passwordHash,
	}

	if err := r.db.Create(user).Error; err != nil {
		// The unique index closes the window between the check above and
		// this insert; a constraint violation is still just a duplicate.
		if isUniqueViolation(err) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Authenticate validates credentials and returns the matching user.
// Unknown usernames and wrong passwords are both ErrInvalidCredentials.
func (r *Repository) Authenticate(username, password string) (*entities.User, error) {
	var user entities.User
	err := r.db.Where("username = ?", NormalizeUsername(username)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := auth.CheckPassword(password, user.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

// GetUserByID retrieves a user by their ID.
func (r *Repository) GetUserByID(id uint) (*entities.User, error) {
	var user entities.User
	err := r.db.First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetStreak returns the user's streak view. A missing row or a storage
// fault degrades to zeroed defaults; read paths never propagate faults.
func (r *Repository) GetStreak(userID uint) StreakData {
	var user entities.User
	if err := r.db.First(&user, userID).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Failed to load streak data for user %d: %v", userID, err)
		}
		return StreakData{}
	}

	data := StreakData{
		CurrentStreak: user.CurrentStreak,
		LongestStreak: user.LongestStreak,
	}
	if user.LastReadDate != nil {
		data.LastReadDate = *user.LastReadDate
	}
	return data
}

// UpdateStreak advances the user's streak for today and persists the new
// triple in a single UPDATE. It is called at most once per page-progress
// update; a second call on the same day reports StatusUnchanged.
func (r *Repository) UpdateStreak(userID uint, today time.Time) (StreakData, error) {
	var user entities.User
	if err := r.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return StreakData{}, ErrUserNotFound
		}
		return StreakData{}, fmt.Errorf("failed to load user %d: %w", userID, err)
	}

	prior := streak.State{
		CurrentStreak: user.CurrentStreak,
		LongestStreak: user.LongestStreak,
	}
	if user.LastReadDate != nil {
		if parsed, err := time.ParseInLocation(streak.DateLayout, *user.LastReadDate, today.Location()); err == nil {
			prior.LastReadDate = &parsed
		}
	}

	next, status := streak.Advance(prior, today)

	lastRead := next.LastReadDate.Format(streak.DateLayout)
	err := r.db.Model(&entities.User{}).Where("id = ?", userID).Updates(map[string]any{
		"last_read_date": lastRead,
		"current_streak": next.CurrentStreak,
		"longest_streak": next.LongestStreak,
	}).Error
	if err != nil {
		return StreakData{}, fmt.Errorf("failed to persist streak for user %d: %w", userID, err)
	}

	log.Printf("User %d streak updated: current %d, longest %d, status %s",
		userID, next.CurrentStreak, next.LongestStreak, status)

	return StreakData{
		CurrentStreak: next.CurrentStreak,
		LongestStreak: next.LongestStreak,
		LastReadDate:  lastRead,
		Status:        status,
	}, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
