package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"songsmith/backend/assist"
	"songsmith/backend/config"
	"songsmith/backend/events"
	"songsmith/backend/handlers"
	"songsmith/backend/logger"
	"songsmith/backend/storage"
	"songsmith/backend/store"
	"songsmith/backend/theory"
)

const (
	logModule          = "main"
	sentryFlushTimeout = 2 * time.Second
	shutdownTimeout    = 5 * time.Second
)

func main() {
	cfg := config.Load()

	zl := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	defer zl.Sync()

	if cfg.App.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.App.SentryDSN,
			Environment: cfg.App.Environment,
		}); err != nil {
			log.Printf("Failed to initialize Sentry: %v", err)
		} else {
			zl.WithSentry()
			defer sentry.Flush(sentryFlushTimeout)
		}
	}
	var lg logger.ILogger = zl

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := newBackend(ctx, cfg.Storage, lg)
	if err != nil {
		log.Fatalf("storage init failed: %v", err)
	}
	library := storage.NewLibrary(backend, cfg.Storage.Key, lg)

	songs := store.New(store.WithLogger(lg))

	bus := events.NewBus(lg)
	defer bus.Close()
	songs.Subscribe(bus.Observe)
	autosaver := events.NewAutosaver(bus, songs, library, cfg.Storage.AutosaveDebounce, lg)
	if err := autosaver.Run(ctx); err != nil {
		log.Fatalf("autosave init failed: %v", err)
	}

	provider, err := assist.NewProvider(cfg.AI, nil)
	if err != nil {
		log.Fatalf("generation provider init failed: %v", err)
	}
	lyricService := assist.NewService(provider, lg)
	rhymes := assist.NewRhymeClient(cfg.Rhyme.BaseURL, nil, cfg.Rhyme.CacheTTL, lg)
	assistant := assist.NewAssistant(songs, lyricService, rhymes, cfg.Assist.SuggestionDebounce, cfg.Assist.RhymeDebounce, lg)
	defer assistant.Close()
	songs.Subscribe(assistant.Observe)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	handlers.RegisterValidators()

	r := gin.New()
	r.Use(gin.Recovery(), handlers.RequestTracking(lg))
	if cfg.App.SentryDSN != "" {
		r.Use(handlers.SentryMiddleware())
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:  strings.Split(cfg.App.CorsOrigins, ","),
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Disposition", "X-Request-ID"},
	}))

	handlers.New(handlers.Deps{
		Store:     songs,
		Library:   library,
		Lyrics:    lyricService,
		Assistant: assistant,
		Rhymes:    rhymes,
		Chords:    theory.NewGenerator(nil),
		Log:       lg,
	}).Register(r)

	srv := &http.Server{Addr: ":" + cfg.App.Port, Handler: r}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			lg.Error(logModule, "shutdown failed", map[string]interface{}{"error": err})
		}
	}()

	lg.Info(logModule, "server starting", map[string]interface{}{
		"port":     cfg.App.Port,
		"storage":  cfg.Storage.Driver,
		"provider": provider.Name(),
	})
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server failed to start: %v", err)
	}

	stop()
	select {
	case <-autosaver.Done():
	case <-time.After(events.FlushTimeout + time.Second):
		lg.Warn(logModule, "autosave flush timed out", nil)
	}
}

// newBackend picks the song storage. An unreachable Redis falls back to disk.
func newBackend(ctx context.Context, cfg config.StorageConfig, lg logger.ILogger) (storage.Backend, error) {
	if cfg.Driver == "redis" {
		rb := storage.NewRedisBackend(storage.NewRedisClient(cfg.RedisURL), "songsmith:")
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		err := rb.Ping(pingCtx)
		if err == nil {
			return rb, nil
		}
		lg.Warn(logModule, "redis unavailable, using file storage", map[string]interface{}{"error": err.Error()})
	}
	return storage.NewFileBackend(cfg.Dir)
}
