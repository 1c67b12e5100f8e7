package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-ddd-blog/config"
	"github.com/oksasatya/go-ddd-blog/internal/domain/entity"
	"github.com/oksasatya/go-ddd-blog/internal/domain/repository"
	pginfra "github.com/oksasatya/go-ddd-blog/internal/infrastructure/postgres"
	"github.com/oksasatya/go-ddd-blog/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	pool, err := pginfra.NewPool(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	users := pginfra.NewUserRepository(pool)
	posts := pginfra.NewPostRepository(pool)

	email := "demo@example.com"
	password := "password123"
	u, err := users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		hash, herr := helpers.HashPassword(password, cfg.BcryptCost)
		if herr != nil {
			log.Fatalf("failed to hash password: %v", herr)
		}
		u = &entity.User{Name: "Demo User", Email: email, Password: hash}
		err = users.Create(ctx, u)
	}
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s password=%s\n", u.ID, u.Email, password)

	existing, err := posts.List(ctx)
	if err != nil {
		log.Fatalf("failed to list posts: %v", err)
	}
	if len(existing) > 0 {
		fmt.Printf("posts already present (%d), skipping\n", len(existing))
		return
	}
	p := &entity.Post{
		Title:    "Hello, blog",
		Content:  "This is the first post. Log in as the demo user to edit or delete it.",
		AuthorID: u.ID,
	}
	if err := posts.Create(ctx, p); err != nil {
		log.Fatalf("failed to seed post: %v", err)
	}
	fmt.Printf("seeded post: id=%d title=%q\n", p.ID, p.Title)
}
