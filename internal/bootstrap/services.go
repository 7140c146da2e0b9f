package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/quillworks/quill-api/config"
	"github.com/quillworks/quill-api/internal/adapters/googleauth"
	"github.com/quillworks/quill-api/internal/data"
	"github.com/quillworks/quill-api/internal/domain/auth"
	"github.com/quillworks/quill-api/internal/ports"
	"github.com/quillworks/quill-api/internal/service"
)

// ServiceContainer holds the constructed services and the auth primitives the
// transport layer needs.
type ServiceContainer struct {
	Auth     *service.AuthService
	Accounts *service.AccountService
	Posts    *service.PostService
	Comments *service.CommentService
	Stats    *service.StatsService

	Guard    *auth.Guard
	Identity ports.IdentityProvider // nil when federated sign-in is not configured
}

// BuildServicesOptions groups inputs for BuildServices.
type BuildServicesOptions struct {
	Config config.AppConfig
	DB     *sql.DB
	Redis  *redis.Client // optional
	Logger *slog.Logger
}

// BuildServices constructs the repositories, auth primitives, and services.
func BuildServices(ctx context.Context, opts BuildServicesOptions) (ServiceContainer, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	accountRepo := data.NewAccountRepo(opts.DB)
	postRepo := data.NewPostRepo(opts.DB)
	commentRepo := data.NewCommentRepo(opts.DB)

	hasher := auth.NewHasher(opts.Config.Auth.BcryptCost)
	codec := auth.NewCodec([]byte(opts.Config.Auth.TokenSecret), opts.Config.Auth.TokenTTL)
	guard := auth.NewGuard(codec)

	var identity ports.IdentityProvider
	if opts.Config.Auth.Google.Enabled() {
		provider, err := googleauth.NewProvider(ctx, opts.Config.Auth.Google)
		if err != nil {
			return ServiceContainer{}, fmt.Errorf("configure federated sign-in: %w", err)
		}
		identity = provider
		logger.Info("federated sign-in enabled", "issuer", opts.Config.Auth.Google.IssuerURL)
	}

	var statsCache ports.StatsCache
	if opts.Redis != nil {
		statsCache = data.NewRedisStatsCache(opts.Redis)
	}

	return ServiceContainer{
		Auth: service.NewAuthService(service.AuthServiceOptions{
			Accounts: accountRepo,
			Hasher:   hasher,
			Codec:    codec,
			Identity: identity,
			Logger:   logger,
		}),
		Accounts: service.NewAccountService(service.AccountServiceOptions{
			Accounts: accountRepo,
			Hasher:   hasher,
			Logger:   logger,
		}),
		Posts: service.NewPostService(service.PostServiceOptions{
			Posts:  postRepo,
			Logger: logger,
		}),
		Comments: service.NewCommentService(service.CommentServiceOptions{
			Comments: commentRepo,
			Posts:    postRepo,
			Logger:   logger,
		}),
		Stats: service.NewStatsService(service.StatsServiceOptions{
			Accounts: accountRepo,
			Posts:    postRepo,
			Comments: commentRepo,
			Cache:    statsCache,
			CacheTTL: opts.Config.Redis.StatsTTL,
			Logger:   logger,
		}),
		Guard:    guard,
		Identity: identity,
	}, nil
}
