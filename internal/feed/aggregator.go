package feed

import (
	"github.com/antisocial-hq/antisocial/internal/models"
	"gorm.io/gorm"
)

// ReactionCounts aggregates the reactions on a single post or comment.
type ReactionCounts struct {
	Likes         int64 `json:"likes"`
	Dislikes      int64 `json:"dislikes"`
	SuperDislikes int64 `json:"super_dislikes"`
}

// NegativityScore is dislikes + 2*super_dislikes. Likes are counted and
// displayed but never contribute to ranking.
func (rc ReactionCounts) NegativityScore() int64 {
	return rc.Dislikes + 2*rc.SuperDislikes
}

// Ranking expressions used in listing queries. Correlated subqueries keep
// the score consistent with the reactions table on every read, so there is
// no denormalized counter to drift.
const (
	postNegativityExpr = "(SELECT COUNT(*) FROM reactions WHERE reactions.post_id = posts.id AND reactions.type = 'dislike')" +
		" + 2 * (SELECT COUNT(*) FROM reactions WHERE reactions.post_id = posts.id AND reactions.type = 'super_dislike')"

	commentNegativityExpr = "(SELECT COUNT(*) FROM reactions WHERE reactions.comment_id = comments.id AND reactions.type = 'dislike')" +
		" + 2 * (SELECT COUNT(*) FROM reactions WHERE reactions.comment_id = comments.id AND reactions.type = 'super_dislike')"
)

type reactionCountRow struct {
	TargetID string
	Type     models.ReactionType
	Count    int64
}

// PostReactionCounts returns per-type reaction tallies for a page of posts
// in a single grouped query.
func PostReactionCounts(db *gorm.DB, postIDs []string) (map[string]ReactionCounts, error) {
	return reactionCounts(db, "post_id", postIDs)
}

// CommentReactionCounts returns per-type reaction tallies for a page of
// comments in a single grouped query.
func CommentReactionCounts(db *gorm.DB, commentIDs []string) (map[string]ReactionCounts, error) {
	return reactionCounts(db, "comment_id", commentIDs)
}

func reactionCounts(db *gorm.DB, targetColumn string, ids []string) (map[string]ReactionCounts, error) {
	counts := make(map[string]ReactionCounts, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}

	var rows []reactionCountRow
	err := db.Model(&models.Reaction{}).
		Select(targetColumn+" AS target_id, type, COUNT(*) AS count").
		Where(targetColumn+" IN ?", ids).
		Group(targetColumn + ", type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		rc := counts[row.TargetID]
		switch row.Type {
		case models.ReactionLike:
			rc.Likes = row.Count
		case models.ReactionDislike:
			rc.Dislikes = row.Count
		case models.ReactionSuperDislike:
			rc.SuperDislikes = row.Count
		}
		counts[row.TargetID] = rc
	}

	return counts, nil
}

// UserPostReactions returns the viewer's own reaction per post, keyed by
// post id. Absent keys mean no reaction.
func UserPostReactions(db *gorm.DB, userID string, postIDs []string) (map[string]models.ReactionType, error) {
	return userReactions(db, "post_id", userID, postIDs)
}

// UserCommentReactions returns the viewer's own reaction per comment.
func UserCommentReactions(db *gorm.DB, userID string, commentIDs []string) (map[string]models.ReactionType, error) {
	return userReactions(db, "comment_id", userID, commentIDs)
}

func userReactions(db *gorm.DB, targetColumn, userID string, ids []string) (map[string]models.ReactionType, error) {
	result := make(map[string]models.ReactionType, len(ids))
	if userID == "" || len(ids) == 0 {
		return result, nil
	}

	var rows []struct {
		TargetID string
		Type     models.ReactionType
	}
	err := db.Model(&models.Reaction{}).
		Select(targetColumn+" AS target_id, type").
		Where("user_id = ? AND "+targetColumn+" IN ?", userID, ids).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.TargetID] = row.Type
	}

	return result, nil
}

// CommentCounts returns the number of comments per post.
func CommentCounts(db *gorm.DB, postIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(postIDs))
	if len(postIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		TargetID string
		Count    int64
	}
	err := db.Model(&models.Comment{}).
		Select("post_id AS target_id, COUNT(*) AS count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.TargetID] = row.Count
	}

	return counts, nil
}
