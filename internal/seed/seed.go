// Package seed fills the database with demo users, topics, posts and
// threaded comments. It is intended for development and testing only.
package seed

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"agora/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	Users           int
	Topics          int
	PostsPerTopic   int
	CommentsPerPost int
	// ReplyRatio is the chance that a comment answers an earlier one.
	ReplyRatio float64
	Clean      bool
}

// DefaultOptions seeds a small but browsable forum.
var DefaultOptions = Options{
	Users:           20,
	Topics:          6,
	PostsPerTopic:   8,
	CommentsPerPost: 6,
	ReplyRatio:      0.4,
}

// builtInTopics always exist once Topics has run.
var builtInTopics = []models.Topic{
	{Slug: "general-chat", Description: "Anything that does not fit elsewhere"},
	{Slug: "announcements", Description: "News about the forum itself"},
	{Slug: "help", Description: "Questions about using the forum"},
}

// Topics creates the built-in topics that are missing. It is safe to run repeatedly.
func Topics(db *gorm.DB) error {
	for _, t := range builtInTopics {
		topic := t
		if err := db.Where(models.Topic{Slug: topic.Slug}).
			Attrs(models.Topic{Description: topic.Description}).
			FirstOrCreate(&topic).Error; err != nil {
			return fmt.Errorf("seed topic %s: %w", t.Slug, err)
		}
	}
	return nil
}

// Seeder generates fake forum content.
type Seeder struct {
	db    *gorm.DB
	faker *gofakeit.Faker
	rng   *rand.Rand
}

// NewSeeder returns a Seeder writing to db. A zero seed uses the current time.
func NewSeeder(db *gorm.DB, seed int64) *Seeder {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Seeder{
		db:    db,
		faker: gofakeit.New(seed),
		rng:   rand.New(rand.NewSource(seed)),
	}
}

// Result counts what Run created.
type Result struct {
	Users    int
	Topics   int
	Posts    int
	Comments int
}

// ClearAll deletes every forum row, children first.
func (s *Seeder) ClearAll() error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{&models.Comment{}, &models.Post{}, &models.Topic{}, &models.Account{}, &models.User{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Run seeds according to opts.
func (s *Seeder) Run(opts Options) (Result, error) {
	var res Result
	if opts.Clean {
		if err := s.ClearAll(); err != nil {
			return res, fmt.Errorf("clean: %w", err)
		}
	}

	users, err := s.users(opts.Users)
	if err != nil {
		return res, err
	}
	res.Users = len(users)
	if len(users) == 0 {
		return res, nil
	}

	topics, err := s.topics(opts.Topics)
	if err != nil {
		return res, err
	}
	res.Topics = len(topics)

	for _, topic := range topics {
		for i := 0; i < opts.PostsPerTopic; i++ {
			post := &models.Post{
				Title:   strings.TrimSuffix(s.faker.Sentence(s.rng.Intn(5)+3), "."),
				Content: s.faker.Paragraph(1, s.rng.Intn(3)+2, 10, "\n"),
				UserID:  users[s.rng.Intn(len(users))].ID,
				TopicID: topic.ID,
			}
			if err := s.db.Create(post).Error; err != nil {
				return res, fmt.Errorf("seed post: %w", err)
			}
			res.Posts++

			n, err := s.comments(post, users, opts.CommentsPerPost, opts.ReplyRatio)
			res.Comments += n
			if err != nil {
				return res, err
			}
		}
	}
	return res, nil
}

func (s *Seeder) users(n int) ([]*models.User, error) {
	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		name := s.faker.Name()
		email := strings.ToLower(s.faker.Username()) + strconv.Itoa(i) + "@example.com"
		image := "https://avatars.githubusercontent.com/u/" + strconv.Itoa(s.rng.Intn(1_000_000)+1)
		users = append(users, &models.User{Name: &name, Email: &email, Image: &image})
	}
	if len(users) == 0 {
		return users, nil
	}
	if err := s.db.CreateInBatches(users, 100).Error; err != nil {
		return nil, fmt.Errorf("seed users: %w", err)
	}
	return users, nil
}

func (s *Seeder) topics(n int) ([]*models.Topic, error) {
	topics := make([]*models.Topic, 0, n)
	seen := make(map[string]bool)
	for attempts := 0; len(topics) < n && attempts < n*10; attempts++ {
		slug := Slugify(s.faker.BuzzWord() + " " + s.faker.Noun())
		if len(slug) < 3 || seen[slug] {
			continue
		}
		seen[slug] = true

		var existing int64
		if err := s.db.Model(&models.Topic{}).Where("slug = ?", slug).Count(&existing).Error; err != nil {
			return nil, err
		}
		if existing > 0 {
			continue
		}

		topic := &models.Topic{Slug: slug, Description: s.faker.Sentence(10)}
		if err := s.db.Create(topic).Error; err != nil {
			return nil, fmt.Errorf("seed topic: %w", err)
		}
		topics = append(topics, topic)
	}
	return topics, nil
}

// comments adds up to n comments to post. Replies only point at comments of
// the same post.
func (s *Seeder) comments(post *models.Post, users []*models.User, n int, replyRatio float64) (int, error) {
	created := make([]*models.Comment, 0, n)
	for i := 0; i < n; i++ {
		comment := &models.Comment{
			Content: s.faker.Sentence(s.rng.Intn(12) + 3),
			PostID:  post.ID,
			UserID:  users[s.rng.Intn(len(users))].ID,
		}
		if len(created) > 0 && s.rng.Float64() < replyRatio {
			parent := created[s.rng.Intn(len(created))]
			comment.ParentID = &parent.ID
		}
		if err := s.db.Create(comment).Error; err != nil {
			return len(created), fmt.Errorf("seed comment: %w", err)
		}
		created = append(created, comment)
	}
	return len(created), nil
}

// Slugify lowercases s, keeps ASCII letters and joins words with single dashes.
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z':
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
		default:
			dash = true
		}
	}
	return b.String()
}
