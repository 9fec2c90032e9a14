package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/antisocial-hq/antisocial/internal/auth"
	"github.com/antisocial-hq/antisocial/internal/database"
	"github.com/antisocial-hq/antisocial/internal/feed"
	"github.com/antisocial-hq/antisocial/internal/models"
	"github.com/antisocial-hq/antisocial/internal/social"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// HandlersTestSuite drives the HTTP layer end to end against an
// in-memory database.
type HandlersTestSuite struct {
	suite.Suite
	db       *gorm.DB
	router   *gin.Engine
	handlers *Handlers
	users    []models.User
}

func (suite *HandlersTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(suite.T(), err)

	sqlDB, err := db.DB()
	require.NoError(suite.T(), err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(suite.T(), db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.Reaction{},
		&models.Follow{},
	))

	// the same partial unique indexes the production migration creates,
	// so duplicate inserts conflict instead of stacking
	require.NoError(suite.T(), db.Exec(
		"CREATE UNIQUE INDEX idx_reactions_user_post ON reactions (user_id, post_id) WHERE post_id IS NOT NULL").Error)
	require.NoError(suite.T(), db.Exec(
		"CREATE UNIQUE INDEX idx_reactions_user_comment ON reactions (user_id, comment_id) WHERE comment_id IS NOT NULL").Error)
	require.NoError(suite.T(), db.Exec(
		"CREATE UNIQUE INDEX idx_follows_edge ON follows (follower_id, following_id)").Error)

	database.DB = db
	suite.db = db

	authService := auth.NewService([]byte("test-secret"), time.Hour)
	feedService := feed.NewService(db, false)
	socialService := social.NewService(db)
	suite.handlers = NewHandlers(authService, feedService, socialService)

	suite.router = suite.buildRouter()
}

func (suite *HandlersTestSuite) TearDownSuite() {
	sqlDB, _ := suite.db.DB()
	sqlDB.Close()
}

// authMiddleware resolves the test user from the X-User-ID header
// instead of a JWT, keeping handler tests independent of token plumbing.
func (suite *HandlersTestSuite) authMiddleware(required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			if required {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
				c.Abort()
				return
			}
			c.Next()
			return
		}

		var user models.User
		if err := suite.db.Where("id = ?", userID).First(&user).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user"})
			c.Abort()
			return
		}

		c.Set("user", &user)
		c.Set("user_id", user.ID)
		c.Next()
	}
}

func (suite *HandlersTestSuite) buildRouter() *gin.Engine {
	r := gin.New()
	h := suite.handlers
	requireAuth := suite.authMiddleware(true)
	optionalAuth := suite.authMiddleware(false)

	api := r.Group("/api/v1")

	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)
	api.GET("/auth/me", requireAuth, h.Me)

	api.GET("/feed", requireAuth, h.GetFeed)
	api.GET("/feed/new-count", requireAuth, h.GetNewPostsCount)

	api.POST("/posts", requireAuth, h.CreatePost)
	api.GET("/posts/:id", optionalAuth, h.GetPost)
	api.GET("/posts/:id/comments", optionalAuth, h.GetComments)
	api.POST("/posts/:id/comments", requireAuth, h.CreateComment)
	api.POST("/posts/:id/reactions", requireAuth, h.TogglePostReaction)
	api.POST("/comments/:id/reactions", requireAuth, h.ToggleCommentReaction)

	api.GET("/users/:id/profile", optionalAuth, h.GetUserProfile)
	api.GET("/users/:id/posts", requireAuth, h.GetUserPosts)
	api.GET("/users/:id/followers", optionalAuth, h.GetFollowers)
	api.GET("/users/:id/following", optionalAuth, h.GetFollowing)
	api.POST("/users/:id/follow", requireAuth, h.ToggleFollow)
	api.DELETE("/users/:id/follow", requireAuth, h.Unfollow)

	api.GET("/search", optionalAuth, h.Search)

	return r
}

func (suite *HandlersTestSuite) SetupTest() {
	for _, table := range []string{"reactions", "comments", "posts", "follows", "users"} {
		suite.db.Exec("DELETE FROM " + table)
	}

	suite.users = nil
	for i := 0; i < 3; i++ {
		user := models.User{
			Email: fmt.Sprintf("user%d@test.com", i),
			Name:  fmt.Sprintf("User %d", i),
		}
		require.NoError(suite.T(), suite.db.Create(&user).Error)
		suite.users = append(suite.users, user)
	}
}

func (suite *HandlersTestSuite) request(method, path, userID string, payload interface{}) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(suite.T(), err)
		body = bytes.NewBuffer(data)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlersTestSuite) decode(w *httptest.ResponseRecorder) map[string]interface{} {
	var resp map[string]interface{}
	require.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func (suite *HandlersTestSuite) createPost(userIdx int, content string) string {
	w := suite.request("POST", "/api/v1/posts", suite.users[userIdx].ID, gin.H{"content": content})
	require.Equal(suite.T(), http.StatusCreated, w.Code, w.Body.String())
	resp := suite.decode(w)
	post := resp["post"].(map[string]interface{})
	return post["id"].(string)
}

func (suite *HandlersTestSuite) react(userIdx int, postID, reactionType string) {
	w := suite.request("POST", "/api/v1/posts/"+postID+"/reactions", suite.users[userIdx].ID, gin.H{"type": reactionType})
	require.Equal(suite.T(), http.StatusOK, w.Code, w.Body.String())
}

func (suite *HandlersTestSuite) TestRegisterAndLogin() {
	t := suite.T()

	w := suite.request("POST", "/api/v1/auth/register", "", gin.H{
		"email":    "new@example.com",
		"name":     "Newcomer",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := suite.decode(w)
	assert.NotEmpty(t, resp["token"])

	// duplicate registration conflicts
	w = suite.request("POST", "/api/v1/auth/register", "", gin.H{
		"email":    "new@example.com",
		"name":     "Impostor",
		"password": "password123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = suite.request("POST", "/api/v1/auth/login", "", gin.H{
		"email":    "new@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = suite.request("POST", "/api/v1/auth/login", "", gin.H{
		"email":    "new@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func (suite *HandlersTestSuite) TestCreatePostValidation() {
	t := suite.T()

	w := suite.request("POST", "/api/v1/posts", "", gin.H{"content": "anonymous"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = suite.request("POST", "/api/v1/posts", suite.users[0].ID, gin.H{"content": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = suite.request("POST", "/api/v1/posts", suite.users[0].ID, gin.H{"content": "terrible opinion"})
	require.Equal(t, http.StatusCreated, w.Code)
	resp := suite.decode(w)
	post := resp["post"].(map[string]interface{})
	assert.Equal(t, "terrible opinion", post["content"])
}

func (suite *HandlersTestSuite) TestFeedRankedByNegativity() {
	t := suite.T()

	likedID := suite.createPost(0, "liked post")
	hatedID := suite.createPost(0, "hated post")

	suite.react(1, likedID, "like")
	suite.react(2, likedID, "like")
	suite.react(1, hatedID, "super_dislike")

	w := suite.request("GET", "/api/v1/feed", suite.users[2].ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := suite.decode(w)

	posts := resp["posts"].([]interface{})
	require.Len(t, posts, 2)

	first := posts[0].(map[string]interface{})
	second := posts[1].(map[string]interface{})
	assert.Equal(t, hatedID, first["id"])
	assert.Equal(t, float64(2), first["negativity_score"])
	assert.Equal(t, likedID, second["id"])
	assert.Equal(t, float64(0), second["negativity_score"])
}

func (suite *HandlersTestSuite) TestFeedRequiresAuth() {
	w := suite.request("GET", "/api/v1/feed", "", nil)
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)

	w = suite.request("GET", "/api/v1/feed?scope=from-followed", "", nil)
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

func (suite *HandlersTestSuite) TestFollowedFeedScope() {
	t := suite.T()

	mine := suite.createPost(0, "my own post")
	followedPost := suite.createPost(1, "followed post")
	strangerPost := suite.createPost(2, "stranger post")

	w := suite.request("POST", "/api/v1/users/"+suite.users[1].ID+"/follow", suite.users[0].ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = suite.request("GET", "/api/v1/feed?scope=from-followed", suite.users[0].ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	posts := suite.decode(w)["posts"].([]interface{})
	require.Len(t, posts, 1)
	assert.Equal(t, followedPost, posts[0].(map[string]interface{})["id"])
	_, _ = mine, strangerPost
}

func (suite *HandlersTestSuite) TestGetPostWithComments() {
	t := suite.T()

	postID := suite.createPost(0, "comment on this")

	w := suite.request("POST", "/api/v1/posts/"+postID+"/comments", suite.users[1].ID, gin.H{"content": "bad take"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = suite.request("GET", "/api/v1/posts/"+postID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := suite.decode(w)

	post := resp["post"].(map[string]interface{})
	assert.Equal(t, float64(1), post["comment_count"])

	comments := resp["comments"].([]interface{})
	require.Len(t, comments, 1)
	comment := comments[0].(map[string]interface{})
	assert.Equal(t, "bad take", comment["content"])
}

func (suite *HandlersTestSuite) TestGetPostNotFound() {
	w := suite.request("GET", "/api/v1/posts/00000000-0000-0000-0000-000000000000", "", nil)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *HandlersTestSuite) TestToggleReactionConflict() {
	t := suite.T()

	postID := suite.createPost(0, "contested")
	userID := suite.users[1].ID

	// a competing reaction lands between the toggle's read and insert;
	// the loser of the duplicate-key race surfaces as 409
	suite.db.Callback().Create().Before("gorm:create").Register("race_competitor", func(tx *gorm.DB) {
		if tx.Statement.Table != "reactions" {
			return
		}
		now := time.Now()
		tx.Exec(
			"INSERT INTO reactions (id, type, user_id, post_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
			uuid.New().String(), models.ReactionDislike, userID, postID, now, now,
		)
	})
	defer suite.db.Callback().Create().Remove("race_competitor")

	w := suite.request("POST", "/api/v1/posts/"+postID+"/reactions", userID, gin.H{"type": "super_dislike"})
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())
}

func (suite *HandlersTestSuite) TestToggleReactionLifecycle() {
	t := suite.T()

	postID := suite.createPost(0, "toggle target")
	url := "/api/v1/posts/" + postID + "/reactions"

	w := suite.request("POST", url, suite.users[1].ID, gin.H{"type": "dislike"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "added", suite.decode(w)["action"])

	w = suite.request("POST", url, suite.users[1].ID, gin.H{"type": "super_dislike"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "changed", suite.decode(w)["action"])

	w = suite.request("POST", url, suite.users[1].ID, gin.H{"type": "super_dislike"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "removed", suite.decode(w)["action"])
}

func (suite *HandlersTestSuite) TestToggleReactionInvalidType() {
	postID := suite.createPost(0, "no love allowed")

	w := suite.request("POST", "/api/v1/posts/"+postID+"/reactions", suite.users[1].ID, gin.H{"type": "love"})
	assert.Equal(suite.T(), http.StatusUnprocessableEntity, w.Code)
}

func (suite *HandlersTestSuite) TestToggleReactionMissingPost() {
	w := suite.request("POST", "/api/v1/posts/00000000-0000-0000-0000-000000000000/reactions", suite.users[1].ID, gin.H{"type": "dislike"})
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *HandlersTestSuite) TestCommentReaction() {
	t := suite.T()

	postID := suite.createPost(0, "post")
	w := suite.request("POST", "/api/v1/posts/"+postID+"/comments", suite.users[1].ID, gin.H{"content": "a comment"})
	require.Equal(t, http.StatusCreated, w.Code)
	comment := suite.decode(w)["comment"].(map[string]interface{})
	commentID := comment["id"].(string)

	w = suite.request("POST", "/api/v1/comments/"+commentID+"/reactions", suite.users[2].ID, gin.H{"type": "dislike"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "added", suite.decode(w)["action"])
}

func (suite *HandlersTestSuite) TestFollowLifecycle() {
	t := suite.T()

	target := suite.users[1].ID
	url := "/api/v1/users/" + target + "/follow"

	w := suite.request("POST", url, suite.users[0].ID, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, suite.decode(w)["following"])

	w = suite.request("GET", "/api/v1/users/"+target+"/profile", suite.users[0].ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := suite.decode(w)
	assert.Equal(t, float64(1), resp["follower_count"])
	assert.Equal(t, true, resp["is_following"])

	w = suite.request("POST", url, suite.users[0].ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, suite.decode(w)["following"])
}

func (suite *HandlersTestSuite) TestSelfFollowRejected() {
	w := suite.request("POST", "/api/v1/users/"+suite.users[0].ID+"/follow", suite.users[0].ID, nil)
	assert.Equal(suite.T(), http.StatusUnprocessableEntity, w.Code)
}

func (suite *HandlersTestSuite) TestUnfollowIdempotent() {
	t := suite.T()

	url := "/api/v1/users/" + suite.users[1].ID + "/follow"
	w := suite.request("DELETE", url, suite.users[0].ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, suite.decode(w)["following"])
}

func (suite *HandlersTestSuite) TestUserProfileNotFound() {
	w := suite.request("GET", "/api/v1/users/00000000-0000-0000-0000-000000000000/profile", "", nil)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *HandlersTestSuite) TestNewPostsCountRequiresSince() {
	t := suite.T()

	w := suite.request("GET", "/api/v1/feed/new-count", suite.users[1].ID, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	suite.createPost(0, "fresh")
	since := time.Now().Add(-time.Hour).UTC().Format(time.RFC3339)
	w = suite.request("GET", "/api/v1/feed/new-count?since="+since, suite.users[1].ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), suite.decode(w)["count"])
}

func (suite *HandlersTestSuite) TestSearch() {
	t := suite.T()

	suite.createPost(0, "rainy days are the worst")

	w := suite.request("GET", "/api/v1/search?q=rainy", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := suite.decode(w)
	posts := resp["posts"].([]interface{})
	require.Len(t, posts, 1)

	w = suite.request("GET", "/api/v1/search", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestMe() {
	t := suite.T()

	w := suite.request("GET", "/api/v1/auth/me", suite.users[0].ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	user := suite.decode(w)["user"].(map[string]interface{})
	assert.Equal(t, suite.users[0].Email, user["email"])

	w = suite.request("GET", "/api/v1/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}
