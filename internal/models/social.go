package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReactionType is the closed set of reactions a user can leave on a target.
// Anything else is rejected at the API boundary.
type ReactionType string

const (
	ReactionLike         ReactionType = "like"
	ReactionDislike      ReactionType = "dislike"
	ReactionSuperDislike ReactionType = "super_dislike"
)

// Valid reports whether t is one of the three known reaction types.
func (t ReactionType) Valid() bool {
	switch t {
	case ReactionLike, ReactionDislike, ReactionSuperDislike:
		return true
	}
	return false
}

// User represents an AntiSocial account. Identity fields come from the auth
// flow; everything else hangs off the user by id. Deleting a user is a hard
// delete: the FK cascades take their posts, comments, reactions and follow
// edges along, so nothing orphaned keeps serving.
type User struct {
	ID           string  `gorm:"primaryKey;type:uuid" json:"id"`
	Email        string  `gorm:"uniqueIndex;not null" json:"email"`
	Name         string  `gorm:"not null" json:"name"`
	ImageURL     string  `json:"image_url"`
	PasswordHash *string `gorm:"type:text" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Post is a user's rant. Content is immutable once created; posts disappear
// only when their author's account is deleted (FK cascade).
type Post struct {
	ID       string `gorm:"primaryKey;type:uuid" json:"id"`
	Content  string `gorm:"type:text;not null" json:"content"`
	ImageURL string `json:"image_url,omitempty"`

	UserID string `gorm:"not null;index" json:"user_id"`
	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Comment belongs to exactly one post and cascades away with it.
type Comment struct {
	ID       string `gorm:"primaryKey;type:uuid" json:"id"`
	Content  string `gorm:"type:text;not null" json:"content"`
	ImageURL string `json:"image_url,omitempty"`

	UserID string `gorm:"not null;index" json:"user_id"`
	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	PostID string `gorm:"type:uuid;not null;index" json:"post_id"`
	Post   Post   `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Reaction is a single user's reaction to either a post or a comment.
// Exactly one of PostID/CommentID is set. The at-most-one-per-target rule
// is backed by partial unique indexes created in database.Migrate.
type Reaction struct {
	ID   string       `gorm:"primaryKey;type:uuid" json:"id"`
	Type ReactionType `gorm:"type:text;not null" json:"type"`

	UserID    string   `gorm:"not null;index" json:"user_id"`
	User      User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	PostID    *string  `gorm:"type:uuid;index" json:"post_id,omitempty"`
	Post      *Post    `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	CommentID *string  `gorm:"type:uuid;index" json:"comment_id,omitempty"`
	Comment   *Comment `gorm:"foreignKey:CommentID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Follow is a directed edge: follower stalks following.
type Follow struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	FollowerID  string `gorm:"not null;index" json:"follower_id"`
	Follower    User   `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE" json:"-"`
	FollowingID string `gorm:"not null;index" json:"following_id"`
	Following   User   `gorm:"foreignKey:FollowingID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate hooks generate UUIDs so the models work on databases without
// gen_random_uuid (the sqlite test database in particular).

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

func (r *Reaction) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

func (f *Follow) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	return nil
}
