package handlers

import (
	"net/http"
	"time"

	"github.com/antisocial-hq/antisocial/internal/feed"
	"github.com/antisocial-hq/antisocial/internal/util"
	"github.com/gin-gonic/gin"
)

// GetFeed returns a page of posts ordered by the requested sort mode.
// Scope "all" is every post; "from-followed" limits to followed authors.
// The feed is always personalized, so a viewer is required.
// GET /api/v1/feed?scope=all&sort=most-disliked&limit=20&offset=0
func (h *Handlers) GetFeed(c *gin.Context) {
	viewerID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	scope := feed.ParseScope(c.Query("scope"))
	sort := feed.ParseSortMode(c.Query("sort"))
	limit, offset := util.ParsePagination(c.Query("limit"), c.Query("offset"), 20, 100)

	posts, err := h.feed.ListPosts(viewerID, scope, sort, limit, offset)
	if err != nil {
		util.RespondInternalError(c, "failed to load feed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posts":  posts,
		"scope":  scope,
		"sort":   sort,
		"limit":  limit,
		"offset": offset,
	})
}

// GetNewPostsCount reports how many posts landed after the given timestamp,
// so clients can show a "new posts" banner without refetching the feed.
// GET /api/v1/feed/new-count?since=2026-01-02T15:04:05Z&scope=all
func (h *Handlers) GetNewPostsCount(c *gin.Context) {
	viewerID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}
	scope := feed.ParseScope(c.Query("scope"))

	sinceStr := c.Query("since")
	if sinceStr == "" {
		util.RespondBadRequest(c, "since parameter is required")
		return
	}
	since, err := time.Parse(time.RFC3339, sinceStr)
	if err != nil {
		util.RespondBadRequest(c, "since must be an RFC3339 timestamp")
		return
	}

	count, err := h.feed.NewPostsCount(viewerID, scope, since)
	if err != nil {
		util.RespondInternalError(c, "failed to count new posts")
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count, "since": since})
}
