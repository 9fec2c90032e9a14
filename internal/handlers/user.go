package handlers

import (
	"errors"
	"net/http"

	"github.com/antisocial-hq/antisocial/internal/social"
	"github.com/antisocial-hq/antisocial/internal/util"
	"github.com/gin-gonic/gin"
)

// GetUserProfile returns a user's profile with counts and follow state.
// GET /api/v1/users/:id/profile
func (h *Handlers) GetUserProfile(c *gin.Context) {
	viewerID := util.OptionalUserID(c)

	profile, err := h.social.Profile(viewerID, c.Param("id"))
	if err != nil {
		if errors.Is(err, social.ErrUserNotFound) {
			util.RespondNotFound(c, "user")
			return
		}
		util.RespondInternalError(c, "failed to load profile")
		return
	}

	c.JSON(http.StatusOK, profile)
}

// ToggleFollow flips the caller's follow edge to the target user.
// POST /api/v1/users/:id/follow
func (h *Handlers) ToggleFollow(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	following, err := h.social.ToggleFollow(userID, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, social.ErrSelfFollow):
			util.RespondValidationError(c, "id", "cannot follow yourself")
		case errors.Is(err, social.ErrUserNotFound):
			util.RespondNotFound(c, "user")
		case errors.Is(err, social.ErrConcurrentToggle):
			util.RespondConflict(c, "follow")
		default:
			util.RespondInternalError(c, "failed to toggle follow")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"following": following})
}

// Unfollow removes the follow edge if present. Idempotent.
// DELETE /api/v1/users/:id/follow
func (h *Handlers) Unfollow(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	if err := h.social.Unfollow(userID, c.Param("id")); err != nil {
		util.RespondInternalError(c, "failed to unfollow")
		return
	}

	c.JSON(http.StatusOK, gin.H{"following": false})
}

// GetFollowers lists the users following the target user.
// GET /api/v1/users/:id/followers
func (h *Handlers) GetFollowers(c *gin.Context) {
	limit, offset := util.ParsePagination(c.Query("limit"), c.Query("offset"), 50, 200)

	users, err := h.social.Followers(c.Param("id"), limit, offset)
	if err != nil {
		util.RespondInternalError(c, "failed to load followers")
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

// GetFollowing lists the users the target user follows.
// GET /api/v1/users/:id/following
func (h *Handlers) GetFollowing(c *gin.Context) {
	limit, offset := util.ParsePagination(c.Query("limit"), c.Query("offset"), 50, 200)

	users, err := h.social.Following(c.Param("id"), limit, offset)
	if err != nil {
		util.RespondInternalError(c, "failed to load following")
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}
