package feed

import (
	"fmt"
	"testing"
	"time"

	"github.com/antisocial-hq/antisocial/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// FeedTestSuite exercises ranking and scoping against an in-memory database.
type FeedTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *Service
	users   []models.User
}

func (suite *FeedTestSuite) SetupSuite() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(suite.T(), err)

	sqlDB, err := db.DB()
	require.NoError(suite.T(), err)
	sqlDB.SetMaxOpenConns(1)

	// sqlite leaves FK enforcement off unless asked; the cascade behavior
	// under test depends on it
	require.NoError(suite.T(), db.Exec("PRAGMA foreign_keys = ON").Error)

	require.NoError(suite.T(), db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.Reaction{},
		&models.Follow{},
	))

	suite.db = db
	suite.service = NewService(db, false)
}

func (suite *FeedTestSuite) TearDownSuite() {
	sqlDB, _ := suite.db.DB()
	sqlDB.Close()
}

func (suite *FeedTestSuite) SetupTest() {
	for _, table := range []string{"reactions", "comments", "posts", "follows", "users"} {
		suite.db.Exec("DELETE FROM " + table)
	}

	suite.users = nil
	for i := 0; i < 6; i++ {
		user := models.User{
			Email: fmt.Sprintf("user%d@test.com", i),
			Name:  fmt.Sprintf("User %d", i),
		}
		require.NoError(suite.T(), suite.db.Create(&user).Error)
		suite.users = append(suite.users, user)
	}
}

func (suite *FeedTestSuite) createPost(authorIdx int, content string, createdAt time.Time) models.Post {
	post := models.Post{
		Content:   content,
		UserID:    suite.users[authorIdx].ID,
		CreatedAt: createdAt,
	}
	require.NoError(suite.T(), suite.db.Create(&post).Error)
	return post
}

func (suite *FeedTestSuite) react(userIdx int, postID string, t models.ReactionType) {
	reaction := models.Reaction{
		UserID: suite.users[userIdx].ID,
		PostID: &postID,
		Type:   t,
	}
	require.NoError(suite.T(), suite.db.Create(&reaction).Error)
}

func (suite *FeedTestSuite) reactComment(userIdx int, commentID string, t models.ReactionType) {
	reaction := models.Reaction{
		UserID:    suite.users[userIdx].ID,
		CommentID: &commentID,
		Type:      t,
	}
	require.NoError(suite.T(), suite.db.Create(&reaction).Error)
}

func (suite *FeedTestSuite) TestNegativityScoreWeightsSuperDislikes() {
	t := suite.T()
	now := time.Now()

	// one dislike
	mild := suite.createPost(0, "mild", now.Add(-2*time.Hour))
	suite.react(1, mild.ID, models.ReactionDislike)

	// one super dislike, worth two dislikes
	harsh := suite.createPost(0, "harsh", now.Add(-3*time.Hour))
	suite.react(1, harsh.ID, models.ReactionSuperDislike)

	posts, err := suite.service.ListPosts("", ScopeAll, SortMostDisliked, 20, 0)
	require.NoError(t, err)
	require.Len(t, posts, 2)

	assert.Equal(t, "harsh", posts[0].Content)
	assert.Equal(t, int64(2), posts[0].NegativityScore)
	assert.Equal(t, "mild", posts[1].Content)
	assert.Equal(t, int64(1), posts[1].NegativityScore)
}

func (suite *FeedTestSuite) TestLikesNeverAffectRanking() {
	t := suite.T()
	now := time.Now()

	// heavily liked, older
	loved := suite.createPost(0, "loved", now.Add(-2*time.Hour))
	for i := 1; i < 5; i++ {
		suite.react(i, loved.ID, models.ReactionLike)
	}

	// one dislike beats any number of likes
	hated := suite.createPost(0, "hated", now.Add(-3*time.Hour))
	suite.react(1, hated.ID, models.ReactionDislike)

	posts, err := suite.service.ListPosts("", ScopeAll, SortMostDisliked, 20, 0)
	require.NoError(t, err)
	require.Len(t, posts, 2)

	assert.Equal(t, "hated", posts[0].Content)
	assert.Equal(t, int64(0), posts[1].NegativityScore)
	assert.Equal(t, int64(4), posts[1].Reactions.Likes)
}

func (suite *FeedTestSuite) TestTieBreaksOnRecency() {
	t := suite.T()
	now := time.Now()

	older := suite.createPost(0, "older", now.Add(-2*time.Hour))
	newer := suite.createPost(0, "newer", now.Add(-1*time.Hour))
	suite.react(1, older.ID, models.ReactionDislike)
	suite.react(1, newer.ID, models.ReactionDislike)

	posts, err := suite.service.ListPosts("", ScopeAll, SortMostDisliked, 20, 0)
	require.NoError(t, err)
	require.Len(t, posts, 2)

	assert.Equal(t, "newer", posts[0].Content)
	assert.Equal(t, "older", posts[1].Content)
}

func (suite *FeedTestSuite) TestSortModes() {
	t := suite.T()
	now := time.Now()

	first := suite.createPost(0, "first", now.Add(-3*time.Hour))
	second := suite.createPost(0, "second", now.Add(-2*time.Hour))
	third := suite.createPost(0, "third", now.Add(-1*time.Hour))

	suite.react(1, first.ID, models.ReactionSuperDislike)
	suite.react(1, second.ID, models.ReactionDislike)
	_ = third

	newest, err := suite.service.ListPosts("", ScopeAll, SortNewest, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, "third", newest[0].Content)
	assert.Equal(t, "first", newest[2].Content)

	oldest, err := suite.service.ListPosts("", ScopeAll, SortOldest, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, "first", oldest[0].Content)

	least, err := suite.service.ListPosts("", ScopeAll, SortLeastDisliked, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, "third", least[0].Content)
	assert.Equal(t, "first", least[2].Content)
}

func (suite *FeedTestSuite) TestUnknownSortFallsBackToMostDisliked() {
	assert.Equal(suite.T(), SortMostDisliked, ParseSortMode("trending"))
	assert.Equal(suite.T(), SortMostDisliked, ParseSortMode(""))
	assert.Equal(suite.T(), SortOldest, ParseSortMode("oldest"))
}

func (suite *FeedTestSuite) TestFollowedScopeExcludesSelfByDefault() {
	t := suite.T()
	now := time.Now()

	viewer := suite.users[0]
	followed := suite.users[1]
	stranger := suite.users[2]

	require.NoError(t, suite.db.Create(&models.Follow{
		FollowerID:  viewer.ID,
		FollowingID: followed.ID,
	}).Error)

	suite.createPost(0, "mine", now.Add(-1*time.Hour))
	suite.createPost(1, "followed post", now.Add(-2*time.Hour))
	suite.createPost(2, "stranger post", now.Add(-3*time.Hour))
	_ = stranger

	posts, err := suite.service.ListPosts(viewer.ID, ScopeFollowed, SortNewest, 20, 0)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "followed post", posts[0].Content)
}

func (suite *FeedTestSuite) TestFollowedScopeCanIncludeSelf() {
	t := suite.T()
	now := time.Now()

	viewer := suite.users[0]
	followed := suite.users[1]

	require.NoError(t, suite.db.Create(&models.Follow{
		FollowerID:  viewer.ID,
		FollowingID: followed.ID,
	}).Error)

	suite.createPost(0, "mine", now.Add(-1*time.Hour))
	suite.createPost(1, "followed post", now.Add(-2*time.Hour))

	inclusive := NewService(suite.db, true)
	posts, err := inclusive.ListPosts(viewer.ID, ScopeFollowed, SortNewest, 20, 0)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "mine", posts[0].Content)
}

func (suite *FeedTestSuite) TestViewerReactionAnnotation() {
	t := suite.T()

	post := suite.createPost(0, "annotated", time.Now())
	suite.react(1, post.ID, models.ReactionSuperDislike)

	// the reacting viewer sees their reaction
	posts, err := suite.service.ListPosts(suite.users[1].ID, ScopeAll, SortMostDisliked, 20, 0)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	require.NotNil(t, posts[0].UserReaction)
	assert.Equal(t, models.ReactionSuperDislike, *posts[0].UserReaction)

	// anonymous viewers see none
	posts, err = suite.service.ListPosts("", ScopeAll, SortMostDisliked, 20, 0)
	require.NoError(t, err)
	assert.Nil(t, posts[0].UserReaction)
}

func (suite *FeedTestSuite) TestCommentsRankedLikePosts() {
	t := suite.T()

	post := suite.createPost(0, "post", time.Now())

	calm := models.Comment{Content: "calm", UserID: suite.users[1].ID, PostID: post.ID}
	require.NoError(t, suite.db.Create(&calm).Error)
	nasty := models.Comment{Content: "nasty", UserID: suite.users[2].ID, PostID: post.ID}
	require.NoError(t, suite.db.Create(&nasty).Error)

	suite.reactComment(3, nasty.ID, models.ReactionSuperDislike)
	suite.reactComment(3, calm.ID, models.ReactionLike)

	comments, err := suite.service.ListComments("", post.ID, SortMostDisliked)
	require.NoError(t, err)
	require.Len(t, comments, 2)

	assert.Equal(t, "nasty", comments[0].Content)
	assert.Equal(t, int64(2), comments[0].NegativityScore)
	assert.Equal(t, int64(0), comments[1].NegativityScore)
	assert.Equal(t, int64(1), comments[1].Reactions.Likes)
}

func (suite *FeedTestSuite) TestGetPostCountsAndCommentCount() {
	t := suite.T()

	post := suite.createPost(0, "single", time.Now())
	suite.react(1, post.ID, models.ReactionDislike)
	suite.react(2, post.ID, models.ReactionDislike)
	suite.react(3, post.ID, models.ReactionSuperDislike)

	comment := models.Comment{Content: "ugh", UserID: suite.users[1].ID, PostID: post.ID}
	require.NoError(t, suite.db.Create(&comment).Error)

	view, err := suite.service.GetPost("", post.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(2), view.Reactions.Dislikes)
	assert.Equal(t, int64(1), view.Reactions.SuperDislikes)
	assert.Equal(t, int64(4), view.NegativityScore)
	assert.Equal(t, int64(1), view.CommentCount)
	assert.Equal(t, suite.users[0].Name, view.Author.Name)
}

func (suite *FeedTestSuite) TestGetPostNotFound() {
	_, err := suite.service.GetPost("", "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(suite.T(), err, gorm.ErrRecordNotFound)
}

func (suite *FeedTestSuite) TestNewPostsCount() {
	t := suite.T()
	now := time.Now()

	suite.createPost(0, "old", now.Add(-2*time.Hour))
	suite.createPost(1, "new one", now.Add(-10*time.Minute))
	suite.createPost(2, "new two", now.Add(-5*time.Minute))

	count, err := suite.service.NewPostsCount("", ScopeAll, now.Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func (suite *FeedTestSuite) TestSearchPosts() {
	t := suite.T()
	now := time.Now()

	suite.createPost(0, "I hate mondays", now.Add(-1*time.Hour))
	suite.createPost(1, "Tuesdays are fine", now.Add(-2*time.Hour))

	posts, err := suite.service.SearchPosts("", "MONDAYS", SortMostDisliked, 20, 0)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "I hate mondays", posts[0].Content)
}

func (suite *FeedTestSuite) TestPagination() {
	t := suite.T()
	now := time.Now()

	for i := 0; i < 5; i++ {
		suite.createPost(0, fmt.Sprintf("post %d", i), now.Add(time.Duration(-i)*time.Hour))
	}

	page, err := suite.service.ListPosts("", ScopeAll, SortNewest, 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "post 2", page[0].Content)
	assert.Equal(t, "post 3", page[1].Content)
}

func (suite *FeedTestSuite) TestAuthorDeletionCascades() {
	t := suite.T()
	now := time.Now()

	doomed := suite.createPost(0, "soon gone", now.Add(-1*time.Hour))
	surviving := suite.createPost(1, "still here", now.Add(-2*time.Hour))

	comment := models.Comment{Content: "on doomed", UserID: suite.users[1].ID, PostID: doomed.ID}
	require.NoError(t, suite.db.Create(&comment).Error)

	suite.react(1, doomed.ID, models.ReactionDislike)
	suite.reactComment(2, comment.ID, models.ReactionSuperDislike)
	suite.react(0, surviving.ID, models.ReactionDislike)

	follow := models.Follow{FollowerID: suite.users[1].ID, FollowingID: suite.users[0].ID}
	require.NoError(t, suite.db.Create(&follow).Error)

	require.NoError(t, suite.db.Delete(&suite.users[0]).Error)

	// everything hanging off the deleted account is gone, nothing serves
	// with a ghost author
	var posts, comments, reactions, follows int64
	require.NoError(t, suite.db.Model(&models.Post{}).Where("user_id = ?", suite.users[0].ID).Count(&posts).Error)
	require.NoError(t, suite.db.Model(&models.Comment{}).Where("post_id = ?", doomed.ID).Count(&comments).Error)
	require.NoError(t, suite.db.Model(&models.Reaction{}).Where("post_id = ? OR comment_id = ? OR user_id = ?",
		doomed.ID, comment.ID, suite.users[0].ID).Count(&reactions).Error)
	require.NoError(t, suite.db.Model(&models.Follow{}).Where("following_id = ?", suite.users[0].ID).Count(&follows).Error)
	assert.Zero(t, posts)
	assert.Zero(t, comments)
	assert.Zero(t, reactions)
	assert.Zero(t, follows)

	remaining, err := suite.service.ListPosts("", ScopeAll, SortNewest, 20, 0)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "still here", remaining[0].Content)
	assert.Equal(t, suite.users[1].Name, remaining[0].Author.Name)
}

func TestFeedTestSuite(t *testing.T) {
	suite.Run(t, new(FeedTestSuite))
}
