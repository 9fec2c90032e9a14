package social

import (
	"errors"

	"github.com/antisocial-hq/antisocial/internal/models"
	"gorm.io/gorm"
)

var (
	// ErrSelfFollow means a user tried to follow themselves.
	ErrSelfFollow = errors.New("cannot follow yourself")
	// ErrUserNotFound means the follow target does not exist.
	ErrUserNotFound = errors.New("user not found")
)

// ToggleFollow flips the follow edge from follower to following. Returns
// true when the edge now exists, false when it was removed. The unique
// index on (follower_id, following_id) makes concurrent toggles settle on
// a single edge; a losing insert reads as a concurrent toggle conflict.
func (s *Service) ToggleFollow(followerID, followingID string) (bool, error) {
	if followerID == followingID {
		return false, ErrSelfFollow
	}

	var target models.User
	if err := s.db.Select("id").First(&target, "id = ?", followingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrUserNotFound
		}
		return false, err
	}

	var following bool
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Follow
		err := tx.Where("follower_id = ? AND following_id = ?", followerID, followingID).First(&existing).Error

		switch {
		case err == nil:
			following = false
			return tx.Delete(&existing).Error

		case errors.Is(err, gorm.ErrRecordNotFound):
			following = true
			edge := models.Follow{FollowerID: followerID, FollowingID: followingID}
			if createErr := tx.Create(&edge).Error; createErr != nil {
				if errors.Is(createErr, gorm.ErrDuplicatedKey) {
					return ErrConcurrentToggle
				}
				return createErr
			}
			return nil

		default:
			return err
		}
	})
	if err != nil {
		return false, err
	}

	return following, nil
}

// Unfollow removes the edge if present. Removing a missing edge is not an
// error, so the operation is idempotent.
func (s *Service) Unfollow(followerID, followingID string) error {
	return s.db.Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&models.Follow{}).Error
}

// IsFollowing reports whether follower currently follows following.
func (s *Service) IsFollowing(followerID, followingID string) (bool, error) {
	if followerID == "" {
		return false, nil
	}
	var count int64
	err := s.db.Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	return count > 0, err
}

// UserSummary is the slice of a user returned in follower listings.
type UserSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url,omitempty"`
}

// ProfileView is everything a profile page needs in one response.
type ProfileView struct {
	User           UserSummary `json:"user"`
	FollowerCount  int64       `json:"follower_count"`
	FollowingCount int64       `json:"following_count"`
	PostCount      int64       `json:"post_count"`
	IsFollowing    bool        `json:"is_following"`
	IsCurrentUser  bool        `json:"is_current_user"`
}

// Profile assembles a user's profile as seen by viewerID. viewerID may be
// empty for anonymous viewers.
func (s *Service) Profile(viewerID, userID string) (*ProfileView, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	view := &ProfileView{
		User: UserSummary{
			ID:       user.ID,
			Name:     user.Name,
			ImageURL: user.ImageURL,
		},
		IsCurrentUser: viewerID != "" && viewerID == userID,
	}

	if err := s.db.Model(&models.Follow{}).Where("following_id = ?", userID).Count(&view.FollowerCount).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&view.FollowingCount).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Post{}).Where("user_id = ?", userID).Count(&view.PostCount).Error; err != nil {
		return nil, err
	}

	isFollowing, err := s.IsFollowing(viewerID, userID)
	if err != nil {
		return nil, err
	}
	view.IsFollowing = isFollowing

	return view, nil
}

// Followers lists the users following userID.
func (s *Service) Followers(userID string, limit, offset int) ([]UserSummary, error) {
	return s.followEdgeUsers("following_id", "follower_id", userID, limit, offset)
}

// Following lists the users userID follows.
func (s *Service) Following(userID string, limit, offset int) ([]UserSummary, error) {
	return s.followEdgeUsers("follower_id", "following_id", userID, limit, offset)
}

func (s *Service) followEdgeUsers(whereColumn, joinColumn, userID string, limit, offset int) ([]UserSummary, error) {
	var users []models.User
	err := s.db.Model(&models.User{}).
		Joins("JOIN follows ON follows."+joinColumn+" = users.id").
		Where("follows."+whereColumn+" = ?", userID).
		Order("follows.created_at DESC").
		Limit(limit).Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, err
	}

	summaries := make([]UserSummary, len(users))
	for i, user := range users {
		summaries[i] = UserSummary{ID: user.ID, Name: user.Name, ImageURL: user.ImageURL}
	}
	return summaries, nil
}

// SearchUsers finds users by name or email prefix match.
func (s *Service) SearchUsers(query string, limit, offset int) ([]UserSummary, error) {
	var users []models.User
	err := s.db.Model(&models.User{}).
		Where("LOWER(name) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?)", "%"+query+"%", "%"+query+"%").
		Order("name ASC").
		Limit(limit).Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, err
	}

	summaries := make([]UserSummary, len(users))
	for i, user := range users {
		summaries[i] = UserSummary{ID: user.ID, Name: user.Name, ImageURL: user.ImageURL}
	}
	return summaries, nil
}
