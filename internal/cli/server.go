package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"content-release-service/internal/app"
	"content-release-service/internal/config"
	"content-release-service/internal/infra/memory"
	"content-release-service/internal/infra/postgres"
	rediscache "content-release-service/internal/infra/redis"
	"content-release-service/internal/logger"
	transport "content-release-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the HTTP and websocket server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

type repositories struct {
	catalog app.CatalogRepository
	quizzes app.QuizRepository
	closeFn func()
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return err
	}
	defer log.Sync()

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	repos, err := buildRepositories(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer repos.closeFn()

	access := app.NewAccessEvaluator(repos.catalog, log)
	quizzes := app.NewQuizService(repos.quizzes, repos.catalog, access, log)
	countdown := transport.NewCountdownHandler(access, config.TTLDuration(cfg.Countdown.Interval, time.Second), log)

	mux := http.NewServeMux()
	transport.NewHandler(access, quizzes, log).Register(mux)
	mux.HandleFunc("GET /ws/countdown", countdown.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info("starting content release service", "port", finalPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed to start server", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("shutting down server")
	case <-ctx.Done():
		log.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// buildRepositories picks Postgres when configured and the in-memory store
// otherwise, then puts the quiz repository behind Redis or a process-local cache.
func buildRepositories(ctx context.Context, cfg config.Config, log *logger.Logger) (repositories, error) {
	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	var closers []func()
	repos := repositories{closeFn: func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}}

	var backend rediscache.QuizBackend
	if cfg.Postgres.URL != "" {
		if err := runMigrations(ctx, cfg, log); err != nil {
			return repos, err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return repos, err
		}
		closers = append(closers, pool.Close)
		store := postgres.NewStore(pool)
		repos.catalog = store
		backend = store
		log.Info("using postgres store")
	} else {
		store := memory.NewStore()
		if cfg.Seed {
			if err := seedCatalog(store, time.Now()); err != nil {
				return repos, err
			}
			log.Info("seeded demo catalog", "events", 2)
		}
		repos.catalog = store
		backend = store
		log.Info("using in-memory store")
	}

	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		closers = append(closers, func() { _ = client.Close() })
		repos.quizzes = rediscache.NewQuizCache(client, backend, quizTTL, log)
		log.Info("caching quizzes in redis", "addr", cfg.Redis.Addr, "ttl", quizTTL.String())
	} else {
		repos.quizzes = memory.NewQuizCache(backend, quizTTL)
	}
	return repos, nil
}
