package handlers

import (
	"errors"
	"net/http"

	"github.com/antisocial-hq/antisocial/internal/models"
	"github.com/antisocial-hq/antisocial/internal/social"
	"github.com/antisocial-hq/antisocial/internal/util"
	"github.com/gin-gonic/gin"
)

type reactionRequest struct {
	Type models.ReactionType `json:"type" binding:"required"`
}

// TogglePostReaction toggles the caller's reaction on a post. Same type
// removes it, a different type replaces it.
// POST /api/v1/posts/:id/reactions
func (h *Handlers) TogglePostReaction(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var req reactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	action, err := h.social.TogglePostReaction(userID, c.Param("id"), req.Type)
	h.respondToggle(c, action, err, "post")
}

// ToggleCommentReaction toggles the caller's reaction on a comment.
// POST /api/v1/comments/:id/reactions
func (h *Handlers) ToggleCommentReaction(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var req reactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	action, err := h.social.ToggleCommentReaction(userID, c.Param("id"), req.Type)
	h.respondToggle(c, action, err, "comment")
}

func (h *Handlers) respondToggle(c *gin.Context, action social.ToggleAction, err error, resource string) {
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"action": action})
	case errors.Is(err, social.ErrInvalidReaction):
		util.RespondValidationError(c, "type", "type must be like, dislike or super_dislike")
	case errors.Is(err, social.ErrTargetNotFound):
		util.RespondNotFound(c, resource)
	case errors.Is(err, social.ErrConcurrentToggle):
		util.RespondConflict(c, "reaction")
	default:
		util.RespondInternalError(c, "failed to toggle reaction")
	}
}
