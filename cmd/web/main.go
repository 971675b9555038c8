package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/securecookie"
	"go.uber.org/zap"

	"github.com/oakmart/storefront-web/internal/backend"
	"github.com/oakmart/storefront-web/internal/cms"
	"github.com/oakmart/storefront-web/internal/config"
	"github.com/oakmart/storefront-web/internal/middleware"
	"github.com/oakmart/storefront-web/internal/notice"
	"github.com/oakmart/storefront-web/internal/observability"
	"github.com/oakmart/storefront-web/internal/session"
	"github.com/oakmart/storefront-web/internal/storefront"
)

func main() {
	var envFile string
	flag.StringVar(&envFile, "env-file", ".env", "optional .env file consulted before the process environment")
	flag.Parse()

	logger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()
	log := logger.Named("web")

	cfg, err := config.Load(config.WithEnvFile(envFile))
	if err != nil {
		log.Fatal("failed to load configuration", zap.Error(err))
	}

	hashKey := []byte(cfg.Session.HashKey)
	if len(hashKey) == 0 {
		// Dev convenience: sessions won't survive a restart.
		hashKey = securecookie.GenerateRandomKey(32)
		log.Warn("using ephemeral session hash key; set STOREFRONT_SESSION_HASH_KEY for production")
	}
	var blockKey []byte
	if cfg.Session.BlockKey != "" {
		blockKey = []byte(cfg.Session.BlockKey)
	}
	sessions, err := session.NewManager(session.Config{
		HashKey:  hashKey,
		BlockKey: blockKey,
		Secure:   cfg.Session.CookieSecure,
	})
	if err != nil {
		log.Fatal("failed to initialise session manager", zap.Error(err))
	}

	client, err := backend.NewClient(cfg.Backend.BaseURL, &http.Client{Timeout: cfg.Backend.Timeout})
	if err != nil {
		log.Fatal("failed to initialise backend client", zap.Error(err))
	}

	app := storefront.New(client, storefront.Config{
		Quiescence: cfg.Search.Quiescence,
	}, notice.NewLogger(log.Named("notice")), log.Named("storefront"))
	defer app.Close()

	pages := cms.NewStore(cfg.Content.Dir)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      newRouter(app, client, sessions, pages, cfg, log),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("storefront web listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("listen failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("shutdown error", zap.Error(err))
	}
	log.Info("storefront web stopped")
}

func newRouter(app *storefront.App, client *backend.Client, sessions *session.Manager, pages *cms.Store, cfg config.Config, log *zap.Logger) http.Handler {
	h := &handlers{app: app, client: client, pages: pages, log: log}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(observability.RequestLogger(log))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(sessions.Middleware)
	r.Use(middleware.CSRF(cfg.Session.CookieSecure))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/", h.Storefront)
	r.Get("/products", h.Products)
	r.Post("/search", h.SearchInput)

	r.Get("/cart", h.Cart)
	r.Post("/cart/items", h.AddToCart)
	r.Post("/cart/items/{productID}/quantity", h.ChangeQuantity)

	r.Post("/auth/register", h.Register)
	r.Post("/auth/login", h.Login)
	r.Post("/auth/logout", h.Logout)

	r.Get("/pages/{slug}", h.ContentPage)

	return r
}
