// Command seed fills the database with demo forum content.
package main

import (
	"flag"
	"log"

	"agora/internal/config"
	"agora/internal/database"
	"agora/internal/seed"
)

func main() {
	users := flag.Int("users", seed.DefaultOptions.Users, "Number of users to create")
	topics := flag.Int("topics", seed.DefaultOptions.Topics, "Number of generated topics")
	posts := flag.Int("posts", seed.DefaultOptions.PostsPerTopic, "Posts per topic")
	comments := flag.Int("comments", seed.DefaultOptions.CommentsPerPost, "Comments per post")
	replies := flag.Float64("replies", seed.DefaultOptions.ReplyRatio, "Share of comments that reply to another comment")
	clean := flag.Bool("clean", false, "Delete all forum data before seeding")
	randSeed := flag.Int64("seed", 0, "Random seed (0 uses the current time)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production database")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db, *randSeed)
	res, err := s.Run(seed.Options{
		Users:           *users,
		Topics:          *topics,
		PostsPerTopic:   *posts,
		CommentsPerPost: *comments,
		ReplyRatio:      *replies,
		Clean:           *clean,
	})
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	if err := seed.Topics(db); err != nil {
		log.Fatalf("Built-in topic seeding failed: %v", err)
	}

	log.Printf("Seeded %d users, %d topics, %d posts, %d comments", res.Users, res.Topics, res.Posts, res.Comments)
}
