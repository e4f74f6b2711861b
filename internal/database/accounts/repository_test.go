package accounts

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/booktrail/booktrail/internal/entities"
	"github.com/booktrail/booktrail/internal/streak"
)

const testBcryptCost = 4 // Minimum cost, tests don't need slow hashing

func setupTestDB(t *testing.T) (*gorm.DB, *Repository, func()) {
	dbPath := "./test_accounts_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.User{})
	require.NoError(t, err)

	repo := NewRepository(db, testBcryptCost)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return db, repo, cleanup
}

func day(s string) time.Time {
	d, err := time.ParseInLocation(streak.DateLayout, s, time.Local)
	if err != nil {
		panic(err)
	}
	return d
}

func TestRepository_Register(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user, err := repo.Register("alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.NotEqual(t, "pw1", user.PasswordHash)
	assert.Equal(t, 0, user.CurrentStreak)
	assert.Equal(t, 0, user.LongestStreak)
	assert.Nil(t, user.LastReadDate)
}

func TestRepository_Register_Duplicate(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.Register("alice", "pw1")
	require.NoError(t, err)

	_, err = repo.Register("alice", "pw2")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	// Exactly one matching record remains
	var count int64
	db.Model(&entities.User{}).Where("username = ?", "alice").Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestRepository_Register_NormalizesUsername(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user, err := repo.Register("  Alice  ", "secret-pw")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	// Same name in a different case is still a duplicate
	_, err = repo.Register("ALICE", "other-pw")
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestRepository_Register_Validation(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.Register("", "pw")
	assert.ErrorIs(t, err, ErrUsernameRequired)

	_, err = repo.Register("alice", "")
	assert.ErrorIs(t, err, ErrPasswordRequired)

	_, err = repo.Register("   ", "pw")
	assert.ErrorIs(t, err, ErrUsernameRequired)
}

func TestRepository_Register_UnrestrictedUsernames(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	// Only emptiness and duplication fail; shape is not policed
	for _, name := range []string{"a", "bad name!", "émilie", "名前"} {
		user, err := repo.Register(name, "pw")
		require.NoErrorf(t, err, "username %q", name)
		assert.Equal(t, NormalizeUsername(name), user.Username)
	}
}

func TestRepository_Authenticate(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	registered, err := repo.Register("alice", "pw1")
	require.NoError(t, err)

	user, err := repo.Authenticate("alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	// A password off by one character fails
	_, err = repo.Authenticate("alice", "pw2")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Unknown user gives the same outcome
	_, err = repo.Authenticate("bob", "pw1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRepository_Authenticate_CaseInsensitiveUsername(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.Register("alice", "pw1")
	require.NoError(t, err)

	user, err := repo.Authenticate("Alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
}

func TestRepository_GetStreak_Defaults(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	// Unknown user degrades to zeroed defaults, not an error
	data := repo.GetStreak(9999)
	assert.Equal(t, 0, data.CurrentStreak)
	assert.Equal(t, 0, data.LongestStreak)
	assert.Empty(t, data.LastReadDate)
}

func TestRepository_UpdateStreak_FirstRead(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user, err := repo.Register("alice", "pw1")
	require.NoError(t, err)

	data, err := repo.UpdateStreak(user.ID, day("2024-06-10"))
	require.NoError(t, err)
	assert.Equal(t, streak.StatusReset, data.Status)
	assert.Equal(t, 1, data.CurrentStreak)
	assert.Equal(t, 1, data.LongestStreak)
	assert.Equal(t, "2024-06-10", data.LastReadDate)

	// Persisted
	stored := repo.GetStreak(user.ID)
	assert.Equal(t, 1, stored.CurrentStreak)
	assert.Equal(t, "2024-06-10", stored.LastReadDate)
}

func TestRepository_UpdateStreak_Continued(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user, err := repo.Register("alice", "pw1")
	require.NoError(t, err)

	lastRead := "2024-06-09"
	require.NoError(t, db.Model(&entities.User{}).Where("id = ?", user.ID).Updates(map[string]any{
		"last_read_date": lastRead,
		"current_streak": 3,
		"longest_streak": 5,
	}).Error)

	data, err := repo.UpdateStreak(user.ID, day("2024-06-10"))
	require.NoError(t, err)
	assert.Equal(t, streak.StatusContinued, data.Status)
	assert.Equal(t, 4, data.CurrentStreak)
	assert.Equal(t, 5, data.LongestStreak)
}

func TestRepository_UpdateStreak_GapResets(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user, err := repo.Register("alice", "pw1")
	require.NoError(t, err)

	require.NoError(t, db.Model(&entities.User{}).Where("id = ?", user.ID).Updates(map[string]any{
		"last_read_date": "2024-06-05",
		"current_streak": 7,
		"longest_streak": 9,
	}).Error)

	data, err := repo.UpdateStreak(user.ID, day("2024-06-10"))
	require.NoError(t, err)
	assert.Equal(t, streak.StatusReset, data.Status)
	assert.Equal(t, 1, data.CurrentStreak)
	assert.Equal(t, 9, data.LongestStreak)
}

func TestRepository_UpdateStreak_TwiceSameDay(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user, err := repo.Register("alice", "pw1")
	require.NoError(t, err)

	first, err := repo.UpdateStreak(user.ID, day("2024-06-10"))
	require.NoError(t, err)
	require.Equal(t, streak.StatusReset, first.Status)

	second, err := repo.UpdateStreak(user.ID, day("2024-06-10"))
	require.NoError(t, err)
	assert.Equal(t, streak.StatusUnchanged, second.Status)
	assert.Equal(t, first.CurrentStreak, second.CurrentStreak)
	assert.Equal(t, first.LongestStreak, second.LongestStreak)
	assert.Equal(t, first.LastReadDate, second.LastReadDate)
}

func TestRepository_UpdateStreak_UnknownUser(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.UpdateStreak(9999, day("2024-06-10"))
	assert.ErrorIs(t, err, ErrUserNotFound)
}
