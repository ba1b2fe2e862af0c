package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	appcontext "github.com/SeakMengs/AutoActa/internal/app_context"
	"github.com/SeakMengs/AutoActa/internal/auth"
	"github.com/SeakMengs/AutoActa/internal/blobstore"
	"github.com/SeakMengs/AutoActa/internal/config"
	"github.com/SeakMengs/AutoActa/internal/controller"
	"github.com/SeakMengs/AutoActa/internal/database"
	"github.com/SeakMengs/AutoActa/internal/env"
	"github.com/SeakMengs/AutoActa/internal/lifecycle"
	"github.com/SeakMengs/AutoActa/internal/mailer"
	"github.com/SeakMengs/AutoActa/internal/middleware"
	"github.com/SeakMengs/AutoActa/internal/placeholder"
	ratelimiter "github.com/SeakMengs/AutoActa/internal/rate_limiter"
	"github.com/SeakMengs/AutoActa/internal/registry"
	"github.com/SeakMengs/AutoActa/internal/repository"
	"github.com/SeakMengs/AutoActa/internal/route"
	"github.com/SeakMengs/AutoActa/internal/util"
	"github.com/SeakMengs/AutoActa/pkg/pdfstamp"
	"github.com/gin-gonic/gin"
)

// this function run before main
func init() {
	env.LoadEnv(".env")
}

func main() {
	cfg := config.GetConfig()

	logger := util.NewLogger(cfg.ENV)
	defer logger.Sync()
	logger.Debugf("Configuration: port=%s env=%s blob=%s mail=%s \n", cfg.Port, cfg.ENV, cfg.Blob.Driver, cfg.Mail.DRIVER)

	if cfg.Auth.JWT_SECRET == "" {
		logger.Panic("AUTH_JWT_SECRET must be set")
	}

	db, err := database.ConnectReturnGormDB(cfg.DB, !cfg.IsProduction())
	if err != nil {
		logger.Panic(err)
	}

	sqlDb, err := db.DB()
	if err != nil {
		logger.Panic(err)
	}
	defer sqlDb.Close()
	logger.Info("Database connected \n")

	// Custom validation
	if err := util.RegisterValidators(); err != nil {
		logger.Panic(err)
	}

	pdf := pdfstamp.NewEngine(&pdfstamp.Config{
		FontPath:        cfg.PDF.FontPath,
		FontSize:        cfg.PDF.FontSize,
		TimestampLayout: cfg.PDF.TimestampLayout,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	blobs, err := blobstore.New(ctx, cfg.Blob, pdf, logger)
	if err != nil {
		logger.Error("Error connecting to blob store")
		logger.Panic(err)
	}

	mail, err := mailer.New(cfg.Mail, cfg.IsProduction(), logger)
	if err != nil {
		logger.Panic(err)
	}

	repo := repository.NewRepository(db, logger)
	store := repository.NewGormStore(repo)
	templates := registry.New(repo.TemplateConfig, logger)

	engine := lifecycle.NewEngine(lifecycle.Dependencies{
		Store:         store,
		Registry:      templates,
		Resolver:      placeholder.NewResolver(store, logger, nil),
		Blobs:         blobs,
		Stamper:       pdf,
		Notifier:      mailer.NewSignatureNotifier(mail),
		Logger:        logger,
		RemoteTimeout: cfg.RemoteTimeout,
		PublicURL:     cfg.PublicURL,
	})

	jwtService := auth.NewJwt(cfg.Auth, logger)
	app := appcontext.Application{
		Config:       &cfg,
		Logger:       logger,
		Engine:       engine,
		Registry:     templates,
		Blobs:        blobs,
		DocumentLogs: repo.DocumentLog,
		JWTService:   jwtService,
	}

	rateLimiter := ratelimiter.NewRateLimiter(cfg.RateLimiter, logger)
	_middleware := middleware.NewMiddleware(&app, rateLimiter)

	if cfg.IsProduction() {
		logger.Info("Running in production mode")
		gin.SetMode(gin.ReleaseMode)
	}

	r := route.NewRouter(controller.NewController(&app), _middleware)

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("Listening on %s \n", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Panicf("Error running server: %v \n", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server shutdown failed: %v \n", err)
	}
}
