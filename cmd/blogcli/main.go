package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-blog/internal/client"
	"github.com/oksasatya/go-ddd-blog/internal/client/cli"
)

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "blogcli", "session.json")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	_ = godotenv.Load()

	server := flag.String("server", envOr("BLOG_API_URL", "http://localhost:8080"), "blog API base URL")
	sessionPath := flag.String("session", envOr("BLOG_SESSION_FILE", defaultSessionPath()), "file that keeps the login between runs")
	verbose := flag.Bool("v", false, "log client diagnostics to stderr")
	flag.Parse()

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.ErrorLevel)
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := cli.New(client.NewAPI(*server), client.NewFileStorage(*sessionPath), logger, os.Stdin, os.Stdout)
	if err := app.Run(ctx); err != nil {
		logger.WithError(err).Error("blogcli stopped")
		stop()
		os.Exit(1)
	}
}
