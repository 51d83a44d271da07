package models

import "time"

// Love represents a fan loving a post.
// The combination of FanID and PostID must be unique.
type Love struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	FanID  uint `json:"fan_id" gorm:"not null;uniqueIndex:idx_love_fan_post"`
	PostID uint `json:"post_id" gorm:"not null;uniqueIndex:idx_love_fan_post"`

	CreatedAt time.Time `json:"date_created"`
	UpdatedAt time.Time `json:"date_modified"`
}

// LoveStatus is returned to the acting fan after a love or unlove
type LoveStatus struct {
	NumLoves int64 `json:"num_loves"`
	InLove   bool  `json:"in_love"`
}
