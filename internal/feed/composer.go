package feed

import (
	"time"

	"github.com/antisocial-hq/antisocial/internal/models"
	"gorm.io/gorm"
)

// Scope selects which posts a feed draws from.
type Scope string

const (
	ScopeAll      Scope = "all"
	ScopeFollowed Scope = "from-followed"
)

// ParseScope maps a query value to a Scope, defaulting to all.
func ParseScope(s string) Scope {
	if Scope(s) == ScopeFollowed {
		return ScopeFollowed
	}
	return ScopeAll
}

// Service composes feeds and single-target views from the posts, comments
// and reactions tables.
type Service struct {
	db *gorm.DB

	// includeSelf widens the from-followed scope to also show the
	// viewer's own posts.
	includeSelf bool
}

// NewService creates a feed service.
func NewService(db *gorm.DB, includeSelf bool) *Service {
	return &Service{db: db, includeSelf: includeSelf}
}

// AuthorView is the slice of a user shown on posts and comments.
type AuthorView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url,omitempty"`
}

// PostView is a post decorated with everything the client renders: author,
// reaction tallies, the ranking score, the viewer's own reaction and the
// comment count.
type PostView struct {
	ID              string               `json:"id"`
	Content         string               `json:"content"`
	ImageURL        string               `json:"image_url,omitempty"`
	Author          AuthorView           `json:"author"`
	CreatedAt       time.Time            `json:"created_at"`
	Reactions       ReactionCounts       `json:"reactions"`
	NegativityScore int64                `json:"negativity_score"`
	UserReaction    *models.ReactionType `json:"user_reaction,omitempty"`
	CommentCount    int64                `json:"comment_count"`
}

// CommentView mirrors PostView for comments.
type CommentView struct {
	ID              string               `json:"id"`
	PostID          string               `json:"post_id"`
	Content         string               `json:"content"`
	ImageURL        string               `json:"image_url,omitempty"`
	Author          AuthorView           `json:"author"`
	CreatedAt       time.Time            `json:"created_at"`
	Reactions       ReactionCounts       `json:"reactions"`
	NegativityScore int64                `json:"negativity_score"`
	UserReaction    *models.ReactionType `json:"user_reaction,omitempty"`
}

type postRow struct {
	models.Post
	NegativityScore int64
}

type commentRow struct {
	models.Comment
	NegativityScore int64
}

// ListPosts returns a page of the feed for the given viewer. viewerID may
// be empty for anonymous reads; from-followed then yields an empty page.
func (s *Service) ListPosts(viewerID string, scope Scope, sort SortMode, limit, offset int) ([]PostView, error) {
	q := s.db.Model(&models.Post{}).
		Select("posts.*, " + postNegativityExpr + " AS negativity_score")

	q = s.applyScope(q, scope, viewerID)

	var rows []postRow
	err := q.Order(sort.orderClause()).Limit(limit).Offset(offset).Find(&rows).Error
	if err != nil {
		return nil, err
	}

	return s.decoratePosts(rows, viewerID)
}

// ListUserPosts returns one user's posts for their profile page.
func (s *Service) ListUserPosts(viewerID, userID string, sort SortMode, limit, offset int) ([]PostView, error) {
	var rows []postRow
	err := s.db.Model(&models.Post{}).
		Select("posts.*, "+postNegativityExpr+" AS negativity_score").
		Where("posts.user_id = ?", userID).
		Order(sort.orderClause()).Limit(limit).Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	return s.decoratePosts(rows, viewerID)
}

// GetPost returns a single decorated post. Returns gorm.ErrRecordNotFound
// when the post does not exist.
func (s *Service) GetPost(viewerID, postID string) (*PostView, error) {
	var row postRow
	err := s.db.Model(&models.Post{}).
		Select("posts.*, "+postNegativityExpr+" AS negativity_score").
		Where("posts.id = ?", postID).
		First(&row).Error
	if err != nil {
		return nil, err
	}

	views, err := s.decoratePosts([]postRow{row}, viewerID)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// ListComments returns a post's comments, ranked the same way posts are.
func (s *Service) ListComments(viewerID, postID string, sort SortMode) ([]CommentView, error) {
	var rows []commentRow
	err := s.db.Model(&models.Comment{}).
		Select("comments.*, "+commentNegativityExpr+" AS negativity_score").
		Where("comments.post_id = ?", postID).
		Order(sort.orderClause()).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	return s.decorateComments(rows, viewerID)
}

// NewPostsCount reports how many posts in the given scope were created
// after since. Clients poll it to show a "new posts" banner.
func (s *Service) NewPostsCount(viewerID string, scope Scope, since time.Time) (int64, error) {
	q := s.db.Model(&models.Post{}).Where("posts.created_at > ?", since)
	q = s.applyScope(q, scope, viewerID)

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SearchPosts finds posts whose content matches the query, ranked like the
// main feed.
func (s *Service) SearchPosts(viewerID, query string, sort SortMode, limit, offset int) ([]PostView, error) {
	var rows []postRow
	err := s.db.Model(&models.Post{}).
		Select("posts.*, "+postNegativityExpr+" AS negativity_score").
		Where("LOWER(posts.content) LIKE LOWER(?)", "%"+query+"%").
		Order(sort.orderClause()).Limit(limit).Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	return s.decoratePosts(rows, viewerID)
}

func (s *Service) applyScope(q *gorm.DB, scope Scope, viewerID string) *gorm.DB {
	if scope != ScopeFollowed {
		return q
	}

	followed := s.db.Model(&models.Follow{}).
		Select("following_id").
		Where("follower_id = ?", viewerID)

	if s.includeSelf && viewerID != "" {
		return q.Where("posts.user_id IN (?) OR posts.user_id = ?", followed, viewerID)
	}
	return q.Where("posts.user_id IN (?)", followed)
}

func (s *Service) decoratePosts(rows []postRow, viewerID string) ([]PostView, error) {
	views := make([]PostView, 0, len(rows))
	if len(rows) == 0 {
		return views, nil
	}

	postIDs := make([]string, len(rows))
	for i, row := range rows {
		postIDs[i] = row.ID
	}

	counts, err := PostReactionCounts(s.db, postIDs)
	if err != nil {
		return nil, err
	}
	viewerReactions, err := UserPostReactions(s.db, viewerID, postIDs)
	if err != nil {
		return nil, err
	}
	commentCounts, err := CommentCounts(s.db, postIDs)
	if err != nil {
		return nil, err
	}
	authors, err := s.loadAuthors(authorIDsOfPosts(rows))
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		view := PostView{
			ID:              row.ID,
			Content:         row.Content,
			ImageURL:        row.ImageURL,
			Author:          authors[row.UserID],
			CreatedAt:       row.CreatedAt,
			Reactions:       counts[row.ID],
			NegativityScore: row.NegativityScore,
			CommentCount:    commentCounts[row.ID],
		}
		if reaction, ok := viewerReactions[row.ID]; ok {
			r := reaction
			view.UserReaction = &r
		}
		views = append(views, view)
	}

	return views, nil
}

func (s *Service) decorateComments(rows []commentRow, viewerID string) ([]CommentView, error) {
	views := make([]CommentView, 0, len(rows))
	if len(rows) == 0 {
		return views, nil
	}

	commentIDs := make([]string, len(rows))
	authorIDs := make([]string, 0, len(rows))
	seen := make(map[string]bool, len(rows))
	for i, row := range rows {
		commentIDs[i] = row.ID
		if !seen[row.UserID] {
			seen[row.UserID] = true
			authorIDs = append(authorIDs, row.UserID)
		}
	}

	counts, err := CommentReactionCounts(s.db, commentIDs)
	if err != nil {
		return nil, err
	}
	viewerReactions, err := UserCommentReactions(s.db, viewerID, commentIDs)
	if err != nil {
		return nil, err
	}
	authors, err := s.loadAuthors(authorIDs)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		view := CommentView{
			ID:              row.ID,
			PostID:          row.PostID,
			Content:         row.Content,
			ImageURL:        row.ImageURL,
			Author:          authors[row.UserID],
			CreatedAt:       row.CreatedAt,
			Reactions:       counts[row.ID],
			NegativityScore: row.NegativityScore,
		}
		if reaction, ok := viewerReactions[row.ID]; ok {
			r := reaction
			view.UserReaction = &r
		}
		views = append(views, view)
	}

	return views, nil
}

func (s *Service) loadAuthors(userIDs []string) (map[string]AuthorView, error) {
	authors := make(map[string]AuthorView, len(userIDs))
	if len(userIDs) == 0 {
		return authors, nil
	}

	var users []models.User
	if err := s.db.Where("id IN ?", userIDs).Find(&users).Error; err != nil {
		return nil, err
	}

	for _, user := range users {
		authors[user.ID] = AuthorView{
			ID:       user.ID,
			Name:     user.Name,
			ImageURL: user.ImageURL,
		}
	}

	return authors, nil
}

func authorIDsOfPosts(rows []postRow) []string {
	ids := make([]string, 0, len(rows))
	seen := make(map[string]bool, len(rows))
	for _, row := range rows {
		if !seen[row.UserID] {
			seen[row.UserID] = true
			ids = append(ids, row.UserID)
		}
	}
	return ids
}
