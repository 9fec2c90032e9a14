package handlers

import (
	"net/http"

	"github.com/antisocial-hq/antisocial/internal/database"
	"github.com/antisocial-hq/antisocial/internal/feed"
	"github.com/antisocial-hq/antisocial/internal/models"
	"github.com/antisocial-hq/antisocial/internal/util"
	"github.com/gin-gonic/gin"
)

// CreateComment creates a new comment on a post
// POST /api/v1/posts/:id/comments
func (h *Handlers) CreateComment(c *gin.Context) {
	postID := c.Param("id")
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

	var post models.Post
	if err := database.DB.Select("id").First(&post, "id = ?", postID).Error; err != nil {
		util.RespondNotFound(c, "post")
		return
	}

	comment := models.Comment{
		PostID:   postID,
		UserID:   userID,
		Content:  req.Content,
		ImageURL: req.ImageURL,
	}

	if err := database.DB.Create(&comment).Error; err != nil {
		util.RespondInternalError(c, "failed to create comment")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

// GetComments returns a post's comments ranked like the feed.
// GET /api/v1/posts/:id/comments?sort=most-disliked
func (h *Handlers) GetComments(c *gin.Context) {
	postID := c.Param("id")
	viewerID := util.OptionalUserID(c)
	sort := feed.ParseSortMode(c.Query("sort"))

	var post models.Post
	if err := database.DB.Select("id").First(&post, "id = ?", postID).Error; err != nil {
		util.RespondNotFound(c, "post")
		return
	}

	comments, err := h.feed.ListComments(viewerID, postID, sort)
	if err != nil {
		util.RespondInternalError(c, "failed to load comments")
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": comments})
}
