package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wallie-app/backend/internal/models"
	"github.com/wallie-app/backend/internal/repositories"
)

func newLoveHandler(t *testing.T) (*LoveHandler, *recordingBroadcaster, *testFixture) {
	t.Helper()
	fx := newFixture(t)
	broadcaster := &recordingBroadcaster{}
	h := NewLoveHandler(
		repositories.NewPostgresLoveRepository(fx.db),
		repositories.NewPostgresPostRepository(fx.db),
		broadcaster,
	)
	return h, broadcaster, fx
}

func TestLovePostReturnsCreatedWithStatus(t *testing.T) {
	h, broadcaster, fx := newLoveHandler(t)
	fan := createTestUser(t, fx.db, "jane_doe")
	post := createTestPost(t, fx.db, fx.owner, "Hello World!!!")

	c, rec := newTestContext(fx.e, http.MethodPost, "/", "", fan)
	c.SetPath("/posts/:post_id/loves")
	c.SetParamNames("post_id")
	c.SetParamValues(itoa(post.ID))

	require.NoError(t, h.LovePost(c))
	requireStatus(t, rec, http.StatusCreated)

	var status models.LoveStatus
	decodeJSON(t, rec, &status)
	assert.EqualValues(t, 1, status.NumLoves)
	assert.True(t, status.InLove)

	require.Len(t, broadcaster.loveUpdates, 1)
	assert.Equal(t, post.ID, broadcaster.loveUpdates[0].PostID)
	assert.EqualValues(t, 1, broadcaster.loveUpdates[0].NumLoves)
}

func TestLovePostTwiceReturnsSameResult(t *testing.T) {
	h, _, fx := newLoveHandler(t)
	fan := createTestUser(t, fx.db, "jane_doe")
	post := createTestPost(t, fx.db, fx.owner, "Hello World!!!")

	for i := 0; i < 2; i++ {
		c, rec := newTestContext(fx.e, http.MethodPost, "/", "", fan)
		c.SetPath("/posts/:post_id/loves")
		c.SetParamNames("post_id")
		c.SetParamValues(itoa(post.ID))

		require.NoError(t, h.LovePost(c))
		requireStatus(t, rec, http.StatusCreated)

		var status models.LoveStatus
		decodeJSON(t, rec, &status)
		assert.EqualValues(t, 1, status.NumLoves)
		assert.True(t, status.InLove)
	}

	var rows int64
	require.NoError(t, fx.db.Model(&models.Love{}).Count(&rows).Error)
	assert.EqualValues(t, 1, rows)
}

func TestUnlovePostWithoutLoveIsNoOp(t *testing.T) {
	h, broadcaster, fx := newLoveHandler(t)
	fan := createTestUser(t, fx.db, "jane_doe")
	post := createTestPost(t, fx.db, fx.owner, "Hello World!!!")

	c, rec := newTestContext(fx.e, http.MethodDelete, "/", "", fan)
	c.SetPath("/posts/:post_id/loves")
	c.SetParamNames("post_id")
	c.SetParamValues(itoa(post.ID))

	require.NoError(t, h.UnlovePost(c))
	requireStatus(t, rec, http.StatusOK)

	var status models.LoveStatus
	decodeJSON(t, rec, &status)
	assert.EqualValues(t, 0, status.NumLoves)
	assert.False(t, status.InLove)

	// Nothing changed, so nothing is fanned out.
	assert.Empty(t, broadcaster.loveUpdates)
}

func TestUnlovePostRemovesLoveAndBroadcasts(t *testing.T) {
	h, broadcaster, fx := newLoveHandler(t)
	fan := createTestUser(t, fx.db, "jane_doe")
	post := createTestPost(t, fx.db, fx.owner, "Hello World!!!")

	love, err := repositories.NewPostgresLoveRepository(fx.db).CreateLove(fan.ID, post.ID)
	require.NoError(t, err)
	require.NotZero(t, love.ID)

	c, rec := newTestContext(fx.e, http.MethodDelete, "/", "", fan)
	c.SetPath("/posts/:post_id/loves")
	c.SetParamNames("post_id")
	c.SetParamValues(itoa(post.ID))

	require.NoError(t, h.UnlovePost(c))
	requireStatus(t, rec, http.StatusOK)

	var status models.LoveStatus
	decodeJSON(t, rec, &status)
	assert.EqualValues(t, 0, status.NumLoves)
	assert.False(t, status.InLove)

	require.Len(t, broadcaster.loveUpdates, 1)
	assert.EqualValues(t, 0, broadcaster.loveUpdates[0].NumLoves)
}

func TestLovePostInvalidIDReturnsBadRequest(t *testing.T) {
	h, broadcaster, fx := newLoveHandler(t)
	fan := createTestUser(t, fx.db, "jane_doe")

	for _, param := range []string{"not-a-number", "99999"} {
		c, rec := newTestContext(fx.e, http.MethodPost, "/", "", fan)
		c.SetPath("/posts/:post_id/loves")
		c.SetParamNames("post_id")
		c.SetParamValues(param)

		require.NoError(t, h.LovePost(c))
		requireStatus(t, rec, http.StatusBadRequest)

		var payload map[string]string
		decodeJSON(t, rec, &payload)
		assert.Equal(t, "Invalid Post ID", payload["error"])
	}

	assert.Empty(t, broadcaster.loveUpdates)
}

func TestLoveIsolationBetweenFans(t *testing.T) {
	h, _, fx := newLoveHandler(t)
	jane := createTestUser(t, fx.db, "jane_doe")
	mary := createTestUser(t, fx.db, "mary_doe")
	post := createTestPost(t, fx.db, fx.owner, "Hello World!!!")

	c, rec := newTestContext(fx.e, http.MethodPost, "/", "", jane)
	c.SetPath("/posts/:post_id/loves")
	c.SetParamNames("post_id")
	c.SetParamValues(itoa(post.ID))
	require.NoError(t, h.LovePost(c))
	requireStatus(t, rec, http.StatusCreated)

	loveRepo := repositories.NewPostgresLoveRepository(fx.db)
	loved, err := loveRepo.HasFanLovedPost(jane.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, loved)
	loved, err = loveRepo.HasFanLovedPost(mary.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, loved)
}
