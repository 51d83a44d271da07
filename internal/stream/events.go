package stream

import "github.com/wallie-app/backend/internal/models"

// Message kinds sent to clients on the global stream
const (
	TypePostUpdate = "post_update"
	TypePostDelete = "post_delete"
	TypeLoveUpdate = "love_update"
)

// Message is the envelope for every frame sent over the stream
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// LoveUpdate carries the new love count for a post.
//
// The in_love flag is deliberately absent: it is per-viewer state and a
// broadcast carries one payload for every subscriber, so any single value
// would be wrong for everyone except the acting fan. The actor gets its own
// in_love from the HTTP response; other clients keep the state they already
// have from their feed.
type LoveUpdate struct {
	PostID   uint  `json:"post_id"`
	NumLoves int64 `json:"num_loves"`
}

// Broadcaster pushes state changes to every connected subscriber. Handlers
// call it after the mutation commits; a delivery failure never fails the
// originating request.
type Broadcaster interface {
	BroadcastPostUpdate(entry models.FeedEntry)
	BroadcastPostDelete(postID uint)
	BroadcastLoveUpdate(postID uint, numLoves int64)
}
