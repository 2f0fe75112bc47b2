package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"survey-quiz-service/internal/app"
	"survey-quiz-service/internal/config"
	"survey-quiz-service/internal/infra/memory"
	"survey-quiz-service/internal/infra/postgres"
	redisinfra "survey-quiz-service/internal/infra/redis"
	"survey-quiz-service/internal/logging"
	"survey-quiz-service/internal/metrics"
	transport "survey-quiz-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

// questionCache serves submission validation and is invalidated by catalog
// writes.
type questionCache interface {
	app.QuestionRepository
	app.QuestionInvalidator
}

// storage groups the repository implementations chosen from config.
type storage struct {
	catalog  app.CatalogRepository
	answers  app.AnswerRepository
	streamer app.AnswerStreamer
	closers  []func()
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log := logging.New(cfg.Log.Level)

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		for _, closeFn := range store.closers {
			closeFn()
		}
	}()

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return err
		}
	}

	catalogTTL := config.TTLDuration(cfg.Catalog.TTL, 10*time.Minute)
	var (
		questions questionCache
		notifier  app.ReportNotifier
	)
	if redisClient != nil {
		questions = redisinfra.NewQuestionCache(redisClient, store.catalog, catalogTTL)
		notifier = redisinfra.NewReportNotifier(redisClient)
	} else {
		questions = memory.NewQuestionCache(store.catalog, catalogTTL)
		notifier = memory.NewReportHub()
	}

	m := metrics.New()
	services := transport.Services{
		Catalog:     app.NewCatalogService(store.catalog, questions, log),
		Submissions: app.NewSubmissionService(questions, store.answers, notifier, m, log),
		Reports:     app.NewReportService(store.answers, store.streamer, notifier),
	}

	gin.SetMode(gin.ReleaseMode)
	router := transport.NewRouter(services, transport.RouterOptions{
		AllowOrigins: cfg.Server.AllowOrigins,
		Metrics:      m,
		Log:          log,
	})

	server := &http.Server{
		Addr:        ":" + finalPort,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
	}

	go func() {
		log.WithField("port", finalPort).Info("starting survey service")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("failed to start server")
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

// openStorage uses Postgres when a URL is configured and the in-memory store
// otherwise. Writes and catalog reads go through bun; reports stream over pgx.
func openStorage(ctx context.Context, cfg config.Config, log logrus.FieldLogger) (storage, error) {
	if cfg.Postgres.URL == "" {
		log.Warn("postgres url not configured, using in-memory storage")
		mem := memory.NewStore()
		return storage{catalog: mem, answers: mem, streamer: mem}, nil
	}

	db := postgres.OpenDB(cfg.Postgres.URL)
	if err := runMigrations(ctx, db, log); err != nil {
		_ = db.Close()
		return storage{}, err
	}

	pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
	if err != nil {
		_ = db.Close()
		return storage{}, err
	}

	pg := postgres.NewStore(db)
	return storage{
		catalog:  pg,
		answers:  pg,
		streamer: postgres.NewReportReader(pool),
		closers:  []func(){pool.Close, func() { _ = db.Close() }},
	}, nil
}
