package handlers

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wallie-app/backend/internal/models"
	"github.com/wallie-app/backend/internal/stream"
	"github.com/wallie-app/backend/validators"
)

// recordingBroadcaster captures fan-out calls instead of delivering them
type recordingBroadcaster struct {
	postUpdates []models.FeedEntry
	postDeletes []uint
	loveUpdates []stream.LoveUpdate
}

func (b *recordingBroadcaster) BroadcastPostUpdate(entry models.FeedEntry) {
	b.postUpdates = append(b.postUpdates, entry)
}

func (b *recordingBroadcaster) BroadcastPostDelete(postID uint) {
	b.postDeletes = append(b.postDeletes, postID)
}

func (b *recordingBroadcaster) BroadcastLoveUpdate(postID uint, numLoves int64) {
	b.loveUpdates = append(b.loveUpdates, stream.LoveUpdate{PostID: postID, NumLoves: numLoves})
}

// testFixture bundles the pieces every handler test needs
type testFixture struct {
	e     *echo.Echo
	db    *gorm.DB
	owner *models.User
}

func newFixture(t *testing.T) *testFixture {
	t.Helper()
	db := newTestDB(t)
	return &testFixture{
		e:     newTestEcho(),
		db:    db,
		owner: createTestUser(t, db, "john_doe"),
	}
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = validators.NewValidator()
	return e
}

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

// newTestContext builds an echo context carrying the given user's JWT claims
func newTestContext(e *echo.Echo, method, target string, body string, user *models.User) (echo.Context, *httptest.ResponseRecorder) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if user != nil {
		c.Set("user", &models.JwtCustomClaims{UserID: user.ID, Username: user.Username})
	}
	return c, rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, rec.Code, "body: %s", rec.Body.String())
}

// requireHTTPError asserts that a handler returned an echo.HTTPError with the
// given status code
func requireHTTPError(t *testing.T, err error, want int) {
	t.Helper()
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected *echo.HTTPError, got %T", err)
	require.Equal(t, want, httpErr.Code)
}
