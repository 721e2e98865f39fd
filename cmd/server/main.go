package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/kopikeliling/marketplace/internal/cache"
	marketcfg "github.com/kopikeliling/marketplace/internal/config"
	"github.com/kopikeliling/marketplace/internal/es"
	"github.com/kopikeliling/marketplace/internal/httpserver"
	"github.com/kopikeliling/marketplace/internal/mykafka"
	"github.com/kopikeliling/marketplace/internal/payment"
	"github.com/kopikeliling/marketplace/internal/repo"
	"github.com/kopikeliling/marketplace/internal/search"
	"github.com/kopikeliling/marketplace/internal/seed"
	"github.com/kopikeliling/marketplace/internal/service"
	pkgdb "github.com/kopikeliling/marketplace/pkg/db"
	"github.com/kopikeliling/marketplace/pkg/logging"
	loggingmw "github.com/kopikeliling/marketplace/pkg/middleware/logging"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := marketcfg.Load()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}

	store := &repo.GormRepo{DB: db}
	if err := store.Migrate(context.Background()); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	var events mykafka.Publisher = mykafka.Nop{}
	var producer *mykafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = mykafka.NewProducer(cfg.KafkaBrokers)
		events = producer
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = cache.NewClient(cfg.RedisAddr)
	}

	var esClient *elasticsearch.Client
	if cfg.ESURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		esClient, err = es.NewClient(ctx, es.Config{URL: cfg.ESURL, User: cfg.ESUser, Password: cfg.ESPassword})
		cancel()
		if err != nil {
			log.Printf("warning: elasticsearch unavailable, search falls back to db: %v", err)
			esClient = nil
		}
	}
	searcher := &search.Searcher{ES: esClient, Index: cfg.ESIndex, Store: store}

	if cfg.SeedOnStart {
		seeder := &seed.Seeder{
			Repo:          store,
			Searcher:      searcher,
			StaffEmail:    cfg.SeedStaffEmail,
			StaffPassword: cfg.SeedStaffPassword,
		}
		if err := seeder.Run(logging.IntoContext(context.Background(), logger)); err != nil {
			log.Fatalf("seed: %v", err)
		}
	}

	gateway := payment.NewMidtrans(payment.MidtransConfig{
		ServerKey:  cfg.MidtransServerKey,
		Production: cfg.MidtransProduction,
		BaseURL:    cfg.MidtransBaseURL,
		Timeout:    time.Duration(cfg.MidtransTimeoutSeconds) * time.Second,
	})

	txSvc := &service.TransactionService{
		Repo:    store,
		Gateway: gateway,
		Events:  events,
		Dedup:   cache.NewDeduper(rdb),
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = httpserver.ErrorHandler
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler: &httpserver.AuthHTTP{Svc: &service.AuthService{
			Repo:      store,
			JWTSecret: cfg.JWTSecret,
			TokenTTL:  time.Duration(cfg.JWTTTLMinutes) * time.Minute,
		}},
		CatalogHandler: &httpserver.CatalogHTTP{Svc: &service.CatalogService{Repo: store, Searcher: searcher}},
		StaffHandler: &httpserver.StaffHTTP{
			Staff:     &service.StaffService{Repo: store},
			Inventory: &service.InventoryService{Repo: store, Events: events},
			Sales:     &service.SalesService{Repo: store, Location: cfg.SalesLocation},
		},
		TransactionHandler: &httpserver.TransactionHTTP{Svc: txSvc},
		CustomerHandler:    &httpserver.CustomerHTTP{Svc: &service.CustomerService{Repo: store}},
		PaymentHandler:     &httpserver.PaymentHTTP{Svc: txSvc},
		JWTSecret:          cfg.JWTSecret,
		DB:                 db,
		PaymentSimulation:  cfg.PaymentSimulation,
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("%s listening on %s (payment simulation: %t)", cfg.ServiceName, srv.Addr, cfg.PaymentSimulation)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			log.Printf("kafka close error: %v", err)
		}
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Printf("redis close error: %v", err)
		}
	}
	if err := pkgdb.Close(db); err != nil {
		log.Printf("db close error: %v", err)
	}

	log.Println("shutdown complete")
}
