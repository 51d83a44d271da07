package models

import "time"

// Post represents a post on the wall
type Post struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	Content string `json:"content" gorm:"type:text;not null"`
	OwnerID uint   `json:"-" gorm:"index;not null"`
	Owner   User   `json:"-" gorm:"foreignKey:OwnerID"`

	CreatedAt time.Time `json:"date_created"`
	UpdatedAt time.Time `json:"date_modified"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Content string `json:"content" validate:"required,min=1"`
}

// UpdatePostRequest defines the request body for updating an existing post
type UpdatePostRequest struct {
	Content string `json:"content" validate:"required,min=1"`
}

// FeedPost is a post annotated for a specific viewer. NumLoves and InLove are
// computed per query and never persisted.
type FeedPost struct {
	Post
	NumLoves int64 `json:"num_loves"`
	InLove   bool  `json:"in_love"`
}

// FeedEntry is the serialized form of a FeedPost with the author attached
type FeedEntry struct {
	FeedPost
	Author PublicProfile `json:"author"`
}
