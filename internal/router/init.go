package router

import (
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-blog/config"
	"github.com/oksasatya/go-ddd-blog/internal/application"
	"github.com/oksasatya/go-ddd-blog/internal/container"
	repo "github.com/oksasatya/go-ddd-blog/internal/domain/repository"
	"github.com/oksasatya/go-ddd-blog/internal/infrastructure/memory"
	"github.com/oksasatya/go-ddd-blog/internal/infrastructure/objectstore"
	pginfra "github.com/oksasatya/go-ddd-blog/internal/infrastructure/postgres"
	"github.com/oksasatya/go-ddd-blog/internal/infrastructure/redisstore"
	"github.com/oksasatya/go-ddd-blog/internal/infrastructure/search"
	handlers "github.com/oksasatya/go-ddd-blog/internal/interface/http"
	"github.com/oksasatya/go-ddd-blog/internal/router/modules"
)

// Services are the application services the HTTP modules are built on.
type Services struct {
	Auth  *application.AuthService
	Posts *application.PostService
}

func buildRepositories(cfg *config.Config) (repo.UserRepository, repo.PostRepository) {
	if cfg.StoreDriver == "memory" {
		users := memory.NewUserRepository()
		return users, memory.NewPostRepository(users)
	}
	pool := container.GetPGPool()
	return pginfra.NewUserRepository(pool), pginfra.NewPostRepository(pool)
}

// BuildServices wires the services from the container singletons.
// Backends that are not configured are left out instead of passed as typed nils.
func BuildServices() Services {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	users, posts := buildRepositories(cfg)

	var sessions application.SessionStore
	if rdb := container.GetRedis(); rdb != nil {
		sessions = redisstore.NewSessionStore(rdb)
	}
	var emails application.EmailQueue
	if pub := container.GetRabbitPub(); pub != nil {
		emails = pub
	}
	var index application.PostIndexer
	if es := container.GetES(); es != nil {
		index = search.NewPostIndex(es, cfg.ESPostsIndex)
	}
	var covers application.CoverStore
	if gcs := container.GetGCS(); gcs != nil && cfg.GCSBucket != "" {
		covers = objectstore.NewGCSCoverStore(gcs, cfg.GCSBucket)
	}

	return Services{
		Auth:  application.NewAuthService(users, container.GetJWT(), sessions, emails, cfg, logger),
		Posts: application.NewPostService(posts, users, index, covers, logger),
	}
}

// RegisterModules adds the feature modules for svc to the registry.
func RegisterModules(r *Registry, svc Services, cfg *config.Config, logger *logrus.Logger) {
	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(svc.Auth, logger), svc.Auth))
	r.Add(modules.NewPostModule(handlers.NewPostHandler(svc.Posts, logger), svc.Auth, cfg.PostCreateRequiresToken))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}

// InitModules initializes all application modules and registers them with the router registry.
// Call once during startup, after the container is populated.
func InitModules(r *Registry) {
	RegisterModules(r, BuildServices(), container.GetConfig(), container.GetLogger())
}
