package repositories

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wallie-app/backend/internal/models"
)

// newTestDB opens a fresh in-memory database with the wall schema
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A second pooled connection would see its own empty in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Post{}, &models.Love{}))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username:   username,
		FirstName:  "John",
		LastName:   "Doe",
		Email:      username + "@wallie.com",
		Password:   "notsecret",
		About:      "Unknown Soldier",
		ProfilePic: models.DefaultProfilePic,
		Active:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestPost(t *testing.T, db *gorm.DB, owner *models.User, content string) *models.Post {
	t.Helper()
	post := &models.Post{Content: content, OwnerID: owner.ID}
	require.NoError(t, db.Create(post).Error)
	return post
}
