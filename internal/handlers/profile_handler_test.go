package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wallie-app/backend/internal/models"
	"github.com/wallie-app/backend/internal/repositories"
)

func newProfileHandler(t *testing.T) (*ProfileHandler, *testFixture) {
	t.Helper()
	fx := newFixture(t)
	return NewProfileHandler(repositories.NewPostgresUserRepository(fx.db)), fx
}

func TestGetProfileReturnsOwnerView(t *testing.T) {
	h, fx := newProfileHandler(t)

	c, rec := newTestContext(fx.e, http.MethodGet, "/me", "", fx.owner)
	require.NoError(t, h.GetProfile(c))
	requireStatus(t, rec, http.StatusOK)

	var profile models.ProfileDetail
	decodeJSON(t, rec, &profile)
	assert.Equal(t, fx.owner.Username, profile.Username)
	assert.Equal(t, fx.owner.Email, profile.Email)
}

func TestGetPublicProfileOmitsEmail(t *testing.T) {
	h, fx := newProfileHandler(t)
	jane := createTestUser(t, fx.db, "jane_doe")

	c, rec := newTestContext(fx.e, http.MethodGet, "/", "", fx.owner)
	c.SetPath("/users/:username")
	c.SetParamNames("username")
	c.SetParamValues(jane.Username)

	require.NoError(t, h.GetPublicProfile(c))
	requireStatus(t, rec, http.StatusOK)

	var payload map[string]interface{}
	decodeJSON(t, rec, &payload)
	assert.Equal(t, "jane_doe", payload["username"])
	assert.NotContains(t, payload, "email")
}

func TestUpdateProfileChangesOnlyProvidedFields(t *testing.T) {
	h, fx := newProfileHandler(t)

	c, rec := newTestContext(fx.e, http.MethodPut, "/me", `{"about":"Wall regular"}`, fx.owner)
	require.NoError(t, h.UpdateProfile(c))
	requireStatus(t, rec, http.StatusOK)

	var user models.User
	require.NoError(t, fx.db.First(&user, fx.owner.ID).Error)
	assert.Equal(t, "Wall regular", user.About)
	assert.Equal(t, fx.owner.FirstName, user.FirstName)
	assert.Equal(t, fx.owner.Email, user.Email)
}

func TestDeactivateProfileKeepsPosts(t *testing.T) {
	h, fx := newProfileHandler(t)
	post := createTestPost(t, fx.db, fx.owner, "still here")

	c, rec := newTestContext(fx.e, http.MethodDelete, "/me", "", fx.owner)
	require.NoError(t, h.DeactivateProfile(c))
	requireStatus(t, rec, http.StatusNoContent)

	var user models.User
	require.NoError(t, fx.db.First(&user, fx.owner.ID).Error)
	assert.False(t, user.Active)

	var kept models.Post
	assert.NoError(t, fx.db.First(&kept, post.ID).Error)
}

func TestGetPublicProfileMissingUserIs404(t *testing.T) {
	h, fx := newProfileHandler(t)

	c, _ := newTestContext(fx.e, http.MethodGet, "/", "", fx.owner)
	c.SetPath("/users/:username")
	c.SetParamNames("username")
	c.SetParamValues("nobody")

	requireHTTPError(t, h.GetPublicProfile(c), http.StatusNotFound)
}
