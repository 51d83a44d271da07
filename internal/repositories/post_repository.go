package repositories

import (
	"errors"

	"github.com/wallie-app/backend/internal/models"
	"gorm.io/gorm"
)

// ErrPostNotFound is returned when a referenced post does not exist
var ErrPostNotFound = errors.New("post not found")

// DefaultTopLimit caps the top feed when the caller supplies no limit
const DefaultTopLimit = 10

// feedColumns annotates every post with its love count and whether the
// requesting viewer loves it, in the same query pass as the post itself.
const feedColumns = `posts.*,
	(SELECT COUNT(*) FROM loves WHERE loves.post_id = posts.id) AS num_loves,
	EXISTS(SELECT 1 FROM loves WHERE loves.post_id = posts.id AND loves.fan_id = ?) AS in_love`

// FeedOptions selects the feed mode and pagination window
type FeedOptions struct {
	Top      bool // order by love count instead of last modified
	TopLimit int  // truncates the top feed, DefaultTopLimit when <= 0
	Private  bool // only posts owned by the viewer
	Offset   int
	Limit    int // page size; <= 0 means no page limit
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(post *models.Post) error
	GetPostByID(id uint) (*models.Post, error)
	GetFeedPostByID(id uint, viewerID uint) (*models.FeedPost, error)
	ListFeed(viewerID uint, opts FeedOptions) ([]models.FeedPost, int64, error)
	UpdatePost(post *models.Post) error
	DeletePost(id uint) error
}

// PostgresPostRepository implements PostRepository for PostgreSQL
type PostgresPostRepository struct {
	db *gorm.DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository
func NewPostgresPostRepository(db *gorm.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

// CreatePost creates a new post
func (r *PostgresPostRepository) CreatePost(post *models.Post) error {
	return r.db.Create(post).Error
}

// GetPostByID retrieves a bare post by ID
func (r *PostgresPostRepository) GetPostByID(id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// GetFeedPostByID retrieves a single post annotated for the given viewer
func (r *PostgresPostRepository) GetFeedPostByID(id uint, viewerID uint) (*models.FeedPost, error) {
	var entry models.FeedPost
	err := r.db.Model(&models.Post{}).
		Select(feedColumns, viewerID).
		Where("posts.id = ?", id).
		Scan(&entry).Error
	if err != nil {
		return nil, err
	}
	if entry.ID == 0 {
		return nil, ErrPostNotFound
	}
	return &entry, nil
}

// ListFeed builds the annotated feed for a viewer. The default mode orders by
// last modified descending; top mode reorders by love count with the default
// ordering as tie-break and truncates to TopLimit before pagination applies.
func (r *PostgresPostRepository) ListFeed(viewerID uint, opts FeedOptions) ([]models.FeedPost, int64, error) {
	query := r.db.Model(&models.Post{}).Select(feedColumns, viewerID)
	countQuery := r.db.Model(&models.Post{})
	if opts.Private {
		query = query.Where("posts.owner_id = ?", viewerID)
		countQuery = countQuery.Where("owner_id = ?", viewerID)
	}

	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if opts.Top {
		topLimit := opts.TopLimit
		if topLimit <= 0 {
			topLimit = DefaultTopLimit
		}
		var entries []models.FeedPost
		err := query.Order("num_loves DESC, posts.updated_at DESC").
			Limit(topLimit).
			Scan(&entries).Error
		if err != nil {
			return nil, 0, err
		}
		// The truncated window is small (TopLimit rows at most), so the
		// pagination slice happens in memory.
		total = int64(len(entries))
		lo := opts.Offset
		if lo > len(entries) {
			lo = len(entries)
		}
		hi := len(entries)
		if opts.Limit > 0 && lo+opts.Limit < hi {
			hi = lo + opts.Limit
		}
		return entries[lo:hi], total, nil
	}

	var entries []models.FeedPost
	query = query.Order("posts.updated_at DESC").Offset(opts.Offset)
	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}
	if err := query.Scan(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// UpdatePost updates an existing post
func (r *PostgresPostRepository) UpdatePost(post *models.Post) error {
	return r.db.Save(post).Error
}

// DeletePost removes a post and its loves in one transaction
func (r *PostgresPostRepository) DeletePost(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Love{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrPostNotFound
		}
		return nil
	})
}
