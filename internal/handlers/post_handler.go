package handlers

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/wallie-app/backend/internal/models"
	"github.com/wallie-app/backend/internal/repositories"
	"github.com/wallie-app/backend/internal/stream"
)

// PostHandler handles the wall feed and post CRUD
type PostHandler struct {
	postRepository repositories.PostRepository
	userRepository repositories.UserRepository
	broadcaster    stream.Broadcaster
	pageSize       int
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository, userRepo repositories.UserRepository, broadcaster stream.Broadcaster, pageSize int) *PostHandler {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &PostHandler{
		postRepository: postRepo,
		userRepository: userRepo,
		broadcaster:    broadcaster,
		pageSize:       pageSize,
	}
}

// RegisterPostRoutes registers feed and post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.GET("/posts", h.ListPosts)
	g.POST("/posts", h.CreatePost)
	g.GET("/posts/:id", h.GetPost)
	g.PUT("/posts/:id", h.UpdatePost)
	g.DELETE("/posts/:id", h.DeletePost)
}

// ListPosts returns the annotated feed for the requesting viewer.
// Query params: q=top switches to love-count ordering (with optional limit,
// default 10), private=true restricts to the viewer's own posts, page selects
// the pagination window.
func (h *PostHandler) ListPosts(c echo.Context) error {
	viewerID := getUserIDFromContext(c)

	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}

	opts := repositories.FeedOptions{
		Offset: (page - 1) * h.pageSize,
		Limit:  h.pageSize,
	}
	if c.QueryParam("q") == "top" {
		opts.Top = true
		if limit, err := strconv.Atoi(c.QueryParam("limit")); err == nil && limit > 0 {
			opts.TopLimit = limit
		}
	}
	if private, _ := strconv.ParseBool(c.QueryParam("private")); private {
		opts.Private = true
	}

	feedPosts, total, err := h.postRepository.ListFeed(viewerID, opts)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	entries, err := h.attachAuthors(feedPosts)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	totalPages := int(math.Ceil(float64(total) / float64(h.pageSize)))
	var next, previous interface{}
	if page < totalPages {
		next = pageLink(c, page+1)
	}
	if page > 1 {
		previous = pageLink(c, page-1)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"count":    total,
		"next":     next,
		"previous": previous,
		"results":  entries,
	})
}

// CreatePost creates a new post on the wall and fans it out to subscribers
func (h *PostHandler) CreatePost(c echo.Context) error {
	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post := &models.Post{
		Content: req.Content,
		OwnerID: getUserIDFromContext(c),
	}
	if err := h.postRepository.CreatePost(post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	entry, err := h.feedEntry(models.FeedPost{Post: *post})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.broadcaster.BroadcastPostUpdate(entry)

	return c.JSON(http.StatusCreated, entry)
}

// GetPost retrieves a single post annotated for the requesting viewer
func (h *PostHandler) GetPost(c echo.Context) error {
	id, err := parsePostID(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post ID")
	}

	feedPost, err := h.postRepository.GetFeedPostByID(id, getUserIDFromContext(c))
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	entry, err := h.feedEntry(*feedPost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, entry)
}

// UpdatePost updates a post's content. Only the owner may update; the new
// version is fanned out like a fresh post.
func (h *PostHandler) UpdatePost(c echo.Context) error {
	id, err := parsePostID(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post ID")
	}

	var req models.UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post, err := h.postRepository.GetPostByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if post.OwnerID != getUserIDFromContext(c) {
		return echo.NewHTTPError(http.StatusForbidden, "Only the owner can update a post")
	}

	post.Content = req.Content
	if err := h.postRepository.UpdatePost(post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	feedPost, err := h.postRepository.GetFeedPostByID(id, getUserIDFromContext(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	entry, err := h.feedEntry(*feedPost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.broadcaster.BroadcastPostUpdate(entry)

	return c.JSON(http.StatusOK, entry)
}

// DeletePost removes a post together with its loves and tells subscribers to
// drop it. Only the owner may delete.
func (h *PostHandler) DeletePost(c echo.Context) error {
	id, err := parsePostID(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post ID")
	}

	post, err := h.postRepository.GetPostByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if post.OwnerID != getUserIDFromContext(c) {
		return echo.NewHTTPError(http.StatusForbidden, "Only the owner can delete a post")
	}

	if err := h.postRepository.DeletePost(id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.broadcaster.BroadcastPostDelete(id)

	return c.NoContent(http.StatusNoContent)
}

// feedEntry attaches the author's public profile to a single annotated post
func (h *PostHandler) feedEntry(feedPost models.FeedPost) (models.FeedEntry, error) {
	owner, err := h.userRepository.GetUserByID(feedPost.OwnerID)
	if err != nil {
		return models.FeedEntry{}, err
	}
	return models.FeedEntry{FeedPost: feedPost, Author: owner.ToPublicProfile()}, nil
}

// attachAuthors resolves all post authors in one query and builds the
// serialized feed entries
func (h *PostHandler) attachAuthors(feedPosts []models.FeedPost) ([]models.FeedEntry, error) {
	ownerIDs := make([]uint, 0, len(feedPosts))
	seen := make(map[uint]bool)
	for _, p := range feedPosts {
		if !seen[p.OwnerID] {
			seen[p.OwnerID] = true
			ownerIDs = append(ownerIDs, p.OwnerID)
		}
	}

	userMap, err := h.userRepository.GetUsersByIDs(ownerIDs)
	if err != nil {
		return nil, err
	}

	entries := make([]models.FeedEntry, len(feedPosts))
	for i, p := range feedPosts {
		owner := userMap[p.OwnerID]
		entries[i] = models.FeedEntry{FeedPost: p, Author: owner.ToPublicProfile()}
	}
	return entries, nil
}

func parsePostID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

func pageLink(c echo.Context, page int) string {
	u := *c.Request().URL
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String()
}
