// Command seed fills the configured database with demo content.
package main

import (
	"context"
	"flag"
	"log"

	"quill/internal/config"
	"quill/internal/database"
	"quill/internal/seed"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	numUsers := flag.Int("users", 10, "Number of users to create")
	numPosts := flag.Int("posts", 12, "Number of posts to create")
	comments := flag.Int("comments", 3, "Comments per post")
	password := flag.String("password", "password123", "Password for every seeded user")
	clean := flag.Bool("clean", false, "Delete existing users, posts and comments first")
	randSeed := flag.Int64("seed", 0, "Random seed, 0 for a random run")
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

	res, err := seed.Run(context.Background(), db, seed.Options{
		Users:           *numUsers,
		Posts:           *numPosts,
		CommentsPerPost: *comments,
		Password:        *password,
		HashCost:        bcrypt.DefaultCost,
		Clean:           *clean,
		Seed:            *randSeed,
	})
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Created %d users, %d posts and %d comments", len(res.Users), len(res.Posts), res.Comments)
	log.Printf("All seeded users have the password: %s", *password)
}
