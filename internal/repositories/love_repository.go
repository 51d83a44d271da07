package repositories

import (
	"github.com/wallie-app/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LoveRepository defines the interface for love data operations
type LoveRepository interface {
	CreateLove(fanID, postID uint) (*models.Love, error)
	DeleteLove(fanID, postID uint) (bool, error)
	CountLoves(postID uint) (int64, error)
	HasFanLovedPost(fanID, postID uint) (bool, error)
}

// PostgresLoveRepository implements LoveRepository for PostgreSQL
type PostgresLoveRepository struct {
	db *gorm.DB
}

// NewPostgresLoveRepository creates a new PostgresLoveRepository
func NewPostgresLoveRepository(db *gorm.DB) *PostgresLoveRepository {
	return &PostgresLoveRepository{db: db}
}

// CreateLove records that a fan loves a post. Loving a post twice is not an
// error: the unique (fan_id, post_id) index resolves the race between
// concurrent creates and the existing row is returned either way.
func (r *PostgresLoveRepository) CreateLove(fanID, postID uint) (*models.Love, error) {
	love := models.Love{FanID: fanID, PostID: postID}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "fan_id"}, {Name: "post_id"}},
		DoNothing: true,
	}).Create(&love).Error
	if err != nil {
		return nil, err
	}

	// On conflict nothing was inserted, so read back whichever row won.
	var existing models.Love
	if err := r.db.Where("fan_id = ? AND post_id = ?", fanID, postID).First(&existing).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

// DeleteLove removes a love relationship. Returns false when there was
// nothing to remove; that is a no-op, not an error.
func (r *PostgresLoveRepository) DeleteLove(fanID, postID uint) (bool, error) {
	res := r.db.Where("fan_id = ? AND post_id = ?", fanID, postID).Delete(&models.Love{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// CountLoves recomputes the love count for a post from the loves table
func (r *PostgresLoveRepository) CountLoves(postID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Love{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// HasFanLovedPost checks if a fan currently loves a specific post
func (r *PostgresLoveRepository) HasFanLovedPost(fanID, postID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Love{}).Where("fan_id = ? AND post_id = ?", fanID, postID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
