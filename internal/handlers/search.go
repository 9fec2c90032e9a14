package handlers

import (
	"net/http"
	"strings"

	"github.com/antisocial-hq/antisocial/internal/feed"
	"github.com/antisocial-hq/antisocial/internal/util"
	"github.com/gin-gonic/gin"
)

// Search finds posts and users matching a query string. type=posts or
// type=users narrows the result; the default returns both.
// GET /api/v1/search?q=rant&type=posts
func (h *Handlers) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		util.RespondBadRequest(c, "q parameter is required")
		return
	}

	viewerID := util.OptionalUserID(c)
	searchType := c.DefaultQuery("type", "all")
	sort := feed.ParseSortMode(c.Query("sort"))
	limit, offset := util.ParsePagination(c.Query("limit"), c.Query("offset"), 20, 100)

	result := gin.H{"query": query}

	if searchType == "all" || searchType == "posts" {
		posts, err := h.feed.SearchPosts(viewerID, query, sort, limit, offset)
		if err != nil {
			util.RespondInternalError(c, "search failed")
			return
		}
		result["posts"] = posts
	}

	if searchType == "all" || searchType == "users" {
		users, err := h.social.SearchUsers(query, limit, offset)
		if err != nil {
			util.RespondInternalError(c, "search failed")
			return
		}
		result["users"] = users
	}

	c.JSON(http.StatusOK, result)
}
