package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wallie-app/backend/internal/models"
	"github.com/wallie-app/backend/internal/repositories"
	"github.com/wallie-app/backend/internal/stream"
)

// LoveHandler handles fans loving and unloving posts
type LoveHandler struct {
	loveRepository repositories.LoveRepository
	postRepository repositories.PostRepository
	broadcaster    stream.Broadcaster
}

// NewLoveHandler creates a new LoveHandler
func NewLoveHandler(loveRepo repositories.LoveRepository, postRepo repositories.PostRepository, broadcaster stream.Broadcaster) *LoveHandler {
	return &LoveHandler{
		loveRepository: loveRepo,
		postRepository: postRepo,
		broadcaster:    broadcaster,
	}
}

// RegisterLoveRoutes registers love-related routes
func (h *LoveHandler) RegisterLoveRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/loves", h.LovePost)
	g.DELETE("/posts/:post_id/loves", h.UnlovePost)
}

// LovePost records that the authenticated fan loves a post. Loving a post
// the fan already loves succeeds with the same result.
func (h *LoveHandler) LovePost(c echo.Context) error {
	postID, err := h.resolvePostID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid Post ID"})
	}

	fanID := getUserIDFromContext(c)
	if _, err := h.loveRepository.CreateLove(fanID, postID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	numLoves, err := h.loveRepository.CountLoves(postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.broadcaster.BroadcastLoveUpdate(postID, numLoves)

	return c.JSON(http.StatusCreated, models.LoveStatus{NumLoves: numLoves, InLove: true})
}

// UnlovePost removes the authenticated fan's love for a post. Unloving a
// post the fan never loved is a no-op, not an error.
func (h *LoveHandler) UnlovePost(c echo.Context) error {
	postID, err := h.resolvePostID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid Post ID"})
	}

	fanID := getUserIDFromContext(c)
	removed, err := h.loveRepository.DeleteLove(fanID, postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	numLoves, err := h.loveRepository.CountLoves(postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Only an actual removal changes subscriber-visible state.
	if removed {
		h.broadcaster.BroadcastLoveUpdate(postID, numLoves)
	}

	return c.JSON(http.StatusOK, models.LoveStatus{NumLoves: numLoves, InLove: false})
}

// resolvePostID parses the post id param and verifies the post exists
func (h *LoveHandler) resolvePostID(c echo.Context) (uint, error) {
	postID, err := parsePostID(c.Param("post_id"))
	if err != nil {
		return 0, err
	}
	if _, err := h.postRepository.GetPostByID(postID); err != nil {
		return 0, err
	}
	return postID, nil
}
