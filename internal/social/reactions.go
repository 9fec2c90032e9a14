package social

import (
	"errors"

	"github.com/antisocial-hq/antisocial/internal/models"
	"gorm.io/gorm"
)

var (
	// ErrTargetNotFound means the post or comment being reacted to is gone.
	ErrTargetNotFound = errors.New("reaction target not found")
	// ErrConcurrentToggle means another request won the race for the same
	// (user, target) pair. Safe to retry or just report conflict.
	ErrConcurrentToggle = errors.New("reaction modified concurrently")
	// ErrInvalidReaction means the reaction type is not one of the known set.
	ErrInvalidReaction = errors.New("invalid reaction type")
)

// ToggleAction describes what a toggle call actually did.
type ToggleAction string

const (
	ReactionAdded   ToggleAction = "added"
	ReactionChanged ToggleAction = "changed"
	ReactionRemoved ToggleAction = "removed"
)

// Service implements reaction and follow writes.
type Service struct {
	db *gorm.DB
}

// NewService creates a social service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// TogglePostReaction applies toggle semantics to a user's reaction on a
// post: same type removes it, a different type replaces it, none adds it.
func (s *Service) TogglePostReaction(userID, postID string, reactionType models.ReactionType) (ToggleAction, error) {
	if !reactionType.Valid() {
		return "", ErrInvalidReaction
	}

	var post models.Post
	if err := s.db.Select("id").First(&post, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrTargetNotFound
		}
		return "", err
	}

	return s.toggle(userID, reactionType, models.Reaction{UserID: userID, PostID: &postID, Type: reactionType}, "post_id = ?", postID)
}

// ToggleCommentReaction is TogglePostReaction for comments.
func (s *Service) ToggleCommentReaction(userID, commentID string, reactionType models.ReactionType) (ToggleAction, error) {
	if !reactionType.Valid() {
		return "", ErrInvalidReaction
	}

	var comment models.Comment
	if err := s.db.Select("id").First(&comment, "id = ?", commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrTargetNotFound
		}
		return "", err
	}

	return s.toggle(userID, reactionType, models.Reaction{UserID: userID, CommentID: &commentID, Type: reactionType}, "comment_id = ?", commentID)
}

// toggle runs the read-then-write inside one transaction. The unique index
// on (user_id, target) turns the remaining insert race into a duplicate-key
// error instead of a second row; the loser gets ErrConcurrentToggle.
func (s *Service) toggle(userID string, reactionType models.ReactionType, fresh models.Reaction, targetCond string, targetID string) (ToggleAction, error) {
	var action ToggleAction

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Reaction
		err := tx.Where("user_id = ? AND "+targetCond, userID, targetID).First(&existing).Error

		switch {
		case err == nil && existing.Type == reactionType:
			action = ReactionRemoved
			return tx.Delete(&existing).Error

		case err == nil:
			action = ReactionChanged
			return tx.Model(&existing).Update("type", reactionType).Error

		case errors.Is(err, gorm.ErrRecordNotFound):
			action = ReactionAdded
			if createErr := tx.Create(&fresh).Error; createErr != nil {
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
		return "", err
	}

	return action, nil
}
