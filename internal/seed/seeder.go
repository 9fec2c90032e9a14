package seed

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/antisocial-hq/antisocial/internal/logger"
	"github.com/antisocial-hq/antisocial/internal/models"
	"github.com/brianvoe/gofakeit/v7"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seeder handles database seeding operations
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	_ = gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{db: db}
}

// SeedDev fills the development database with realistic data: users who
// follow each other, posts, comments, and a reaction distribution skewed
// toward dislikes so the ranked feed has something to rank.
func (s *Seeder) SeedDev() error {
	log := func(msg string) {
		logger.Log.Info(msg)
	}

	log("Creating users...")
	users, err := s.seedUsers(50)
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	log("Creating follows...")
	if err := s.seedFollows(users, 200); err != nil {
		return fmt.Errorf("failed to seed follows: %w", err)
	}

	log("Creating posts...")
	posts, err := s.seedPosts(users, 300)
	if err != nil {
		return fmt.Errorf("failed to seed posts: %w", err)
	}

	log("Creating comments...")
	comments, err := s.seedComments(users, posts, 600)
	if err != nil {
		return fmt.Errorf("failed to seed comments: %w", err)
	}

	log("Creating reactions...")
	if err := s.seedReactions(users, posts, comments); err != nil {
		return fmt.Errorf("failed to seed reactions: %w", err)
	}

	return nil
}

// SeedTest seeds the test database with a small fixed cast of users.
func (s *Seeder) SeedTest() error {
	specs := []struct {
		name  string
		email string
	}{
		{"Alice Smith", "alice@example.com"},
		{"Bob Johnson", "bob@example.com"},
		{"Charlie Brown", "charlie@example.com"},
		{"Diana Prince", "diana@example.com"},
		{"Eve Wilson", "eve@example.com"},
	}

	var users []models.User
	for _, spec := range specs {
		var user models.User
		err := s.db.Where("email = ?", spec.email).First(&user).Error
		if err == nil {
			users = append(users, user)
			continue
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		hashedPasswordStr := string(hashedPassword)

		user = models.User{
			Email:        spec.email,
			Name:         spec.name,
			PasswordHash: &hashedPasswordStr,
			ImageURL:     fmt.Sprintf("https://api.dicebear.com/7.x/avataaars/png?seed=%s", spec.email),
		}
		if err := s.db.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create test user %s: %w", spec.email, err)
		}
		users = append(users, user)
	}

	posts, err := s.seedPosts(users, 10)
	if err != nil {
		return fmt.Errorf("failed to seed test posts: %w", err)
	}
	comments, err := s.seedComments(users, posts, 20)
	if err != nil {
		return fmt.Errorf("failed to seed test comments: %w", err)
	}
	return s.seedReactions(users, posts, comments)
}

// Clean removes all seed data. Order respects foreign keys.
func (s *Seeder) Clean() error {
	for _, model := range []interface{}{
		&models.Reaction{},
		&models.Comment{},
		&models.Post{},
		&models.Follow{},
		&models.User{},
	} {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedUsers(count int) ([]models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	hashedPasswordStr := string(hashedPassword)

	users := make([]models.User, 0, count)
	for i := 0; i < count; i++ {
		user := models.User{
			Email:        gofakeit.Email(),
			Name:         gofakeit.Name(),
			PasswordHash: &hashedPasswordStr,
			ImageURL:     fmt.Sprintf("https://api.dicebear.com/7.x/avataaars/png?seed=%d", i),
		}
		if err := s.db.Create(&user).Error; err != nil {
			// Faked emails can collide, just skip
			continue
		}
		users = append(users, user)
	}

	if len(users) == 0 {
		return nil, fmt.Errorf("no users created")
	}
	return users, nil
}

func (s *Seeder) seedFollows(users []models.User, count int) error {
	for i := 0; i < count; i++ {
		follower := users[rand.Intn(len(users))]
		following := users[rand.Intn(len(users))]
		if follower.ID == following.ID {
			continue
		}
		edge := models.Follow{FollowerID: follower.ID, FollowingID: following.ID}
		// Duplicate edges lose to the unique index, that's fine
		s.db.Create(&edge)
	}
	return nil
}

func (s *Seeder) seedPosts(users []models.User, count int) ([]models.Post, error) {
	posts := make([]models.Post, 0, count)
	for i := 0; i < count; i++ {
		author := users[rand.Intn(len(users))]
		post := models.Post{
			Content:   gofakeit.Sentence(gofakeit.Number(5, 30)),
			UserID:    author.ID,
			CreatedAt: gofakeit.DateRange(time.Now().AddDate(0, -3, 0), time.Now()),
		}
		if err := s.db.Create(&post).Error; err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func (s *Seeder) seedComments(users []models.User, posts []models.Post, count int) ([]models.Comment, error) {
	comments := make([]models.Comment, 0, count)
	for i := 0; i < count; i++ {
		author := users[rand.Intn(len(users))]
		post := posts[rand.Intn(len(posts))]
		comment := models.Comment{
			Content: gofakeit.Sentence(gofakeit.Number(3, 20)),
			UserID:  author.ID,
			PostID:  post.ID,
		}
		if err := s.db.Create(&comment).Error; err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	return comments, nil
}

// seedReactions gives each user a random sample of targets. The type split
// favors dislikes (50%) over likes (30%) and super dislikes (20%) so the
// negativity ranking produces visible spread.
func (s *Seeder) seedReactions(users []models.User, posts []models.Post, comments []models.Comment) error {
	pick := func() models.ReactionType {
		switch n := rand.Intn(10); {
		case n < 5:
			return models.ReactionDislike
		case n < 8:
			return models.ReactionLike
		default:
			return models.ReactionSuperDislike
		}
	}

	for _, user := range users {
		for i := 0; i < rand.Intn(len(posts)/2+1); i++ {
			post := posts[rand.Intn(len(posts))]
			postID := post.ID
			reaction := models.Reaction{
				UserID: user.ID,
				PostID: &postID,
				Type:   pick(),
			}
			// Duplicates lose to the unique index, that's fine
			s.db.Create(&reaction)
		}

		if len(comments) == 0 {
			continue
		}
		for i := 0; i < rand.Intn(len(comments)/4+1); i++ {
			comment := comments[rand.Intn(len(comments))]
			commentID := comment.ID
			reaction := models.Reaction{
				UserID:    user.ID,
				CommentID: &commentID,
				Type:      pick(),
			}
			s.db.Create(&reaction)
		}
	}

	return nil
}
