package handlers

import (
	"errors"
	"net/http"

	"github.com/antisocial-hq/antisocial/internal/database"
	"github.com/antisocial-hq/antisocial/internal/feed"
	"github.com/antisocial-hq/antisocial/internal/logger"
	"github.com/antisocial-hq/antisocial/internal/models"
	"github.com/antisocial-hq/antisocial/internal/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreatePost creates a new post
// POST /api/v1/posts
func (h *Handlers) CreatePost(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var req struct {
		Content  string `json:"content" binding:"required,min=1,max=2000"`
		ImageURL string `json:"image_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	post := models.Post{
		Content:  req.Content,
		ImageURL: req.ImageURL,
		UserID:   userID,
	}

	if err := database.DB.Create(&post).Error; err != nil {
		util.RespondInternalError(c, "failed to create post")
		return
	}

	logger.Log.Info("post created",
		logger.WithPostID(post.ID),
		logger.WithUserID(userID),
	)

	view, err := h.feed.GetPost(userID, post.ID)
	if err != nil {
		// Creation already succeeded, return the bare record
		c.JSON(http.StatusCreated, gin.H{"post": post})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"post": view})
}

// GetPost returns a single post with reaction tallies and its comments.
// GET /api/v1/posts/:id?sort=most-disliked
func (h *Handlers) GetPost(c *gin.Context) {
	postID := c.Param("id")
	viewerID := util.OptionalUserID(c)
	sort := feed.ParseSortMode(c.Query("sort"))

	post, err := h.feed.GetPost(viewerID, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.RespondNotFound(c, "post")
			return
		}
		util.RespondInternalError(c, "failed to load post")
		return
	}

	comments, err := h.feed.ListComments(viewerID, postID, sort)
	if err != nil {
		util.RespondInternalError(c, "failed to load comments")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"post":     post,
		"comments": comments,
	})
}

// GetUserPosts returns one user's posts for their profile page. This is the
// by-author feed, and like the main feed it needs a viewer.
// GET /api/v1/users/:id/posts?sort=most-disliked
func (h *Handlers) GetUserPosts(c *gin.Context) {
	targetID := c.Param("id")
	viewerID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}
	sort := feed.ParseSortMode(c.Query("sort"))
	limit, offset := util.ParsePagination(c.Query("limit"), c.Query("offset"), 20, 100)

	var user models.User
	if err := database.DB.Select("id").First(&user, "id = ?", targetID).Error; err != nil {
		util.RespondNotFound(c, "user")
		return
	}

	posts, err := h.feed.ListUserPosts(viewerID, targetID, sort, limit, offset)
	if err != nil {
		util.RespondInternalError(c, "failed to load posts")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posts":  posts,
		"limit":  limit,
		"offset": offset,
	})
}
