package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/cantinadev/cantina-backend/internal/config"
	"github.com/cantinadev/cantina-backend/internal/es"
	"github.com/cantinadev/cantina-backend/internal/httpserver"
	"github.com/cantinadev/cantina-backend/internal/logging"
	loggingmw "github.com/cantinadev/cantina-backend/internal/middleware/logging"
	"github.com/cantinadev/cantina-backend/internal/mykafka"
	"github.com/cantinadev/cantina-backend/internal/pickup"
	"github.com/cantinadev/cantina-backend/internal/repo"
	"github.com/cantinadev/cantina-backend/internal/service"
	"github.com/cantinadev/cantina-backend/pkg/db"
)

const productIndex = "produtos"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(cfg.LogLevel)

	ctx := context.Background()
	database, err := db.Open(ctx, cfg.DatabaseURL, cfg.DatabasePath)
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}
	if err := repo.Migrate(database); err != nil {
		log.Fatalf("database migration error: %v", err)
	}

	prod := mykafka.NewProducer(cfg.KafkaBrokers)

	var esClient *elasticsearch.Client
	if cfg.ES_URL != "" {
		esClient, err = es.NewClient(cfg)
		if err != nil {
			// Search is an accelerator, not a dependency.
			logger.Warn("elasticsearch unavailable, using SQL search only", "error", err)
			esClient = nil
		}
	}

	gormRepo := &repo.GormRepo{DB: database}
	catalogSvc := &service.CatalogService{Repo: gormRepo}
	orderSvc := &service.OrderService{
		Repo: gormRepo,
		Gen:  &pickup.Generator{Store: gormRepo},
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = httpserver.NewHTTPErrorHandler(cfg.Production())
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), loggingmw.RequestLogger(logger))

	if cfg.Production() && cfg.FrontendOrigin != "" {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: []string{cfg.FrontendOrigin},
		}))
	} else {
		e.Use(middleware.CORS())
	}

	deps := httpserver.Deps{
		ProductHandler: &httpserver.ProductHandler{Catalog: catalogSvc, ES: esClient, ESIndex: productIndex},
		OrderHandler:   &httpserver.OrderHandler{Orders: orderSvc, Producer: prod},
		AdminHandler:   &httpserver.AdminHandler{Catalog: catalogSvc, Orders: orderSvc, Producer: prod, ES: esClient, ESIndex: productIndex},
		AdminAPIKey:    cfg.AdminAPIKey,
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info("server starting", "port", cfg.ServerPort, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := database.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	logger.Info("shutdown complete")
}
