package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/api-sage/balance-ledger-service/src/internal/adapter/http/controller"
	"github.com/api-sage/balance-ledger-service/src/internal/adapter/http/middleware"
	"github.com/api-sage/balance-ledger-service/src/internal/adapter/http/router"
	"github.com/api-sage/balance-ledger-service/src/internal/adapter/repository/memory"
	"github.com/api-sage/balance-ledger-service/src/internal/adapter/repository/postgres"
	"github.com/api-sage/balance-ledger-service/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/balance-ledger-service/src/internal/config"
	"github.com/api-sage/balance-ledger-service/src/internal/events"
	"github.com/api-sage/balance-ledger-service/src/internal/events/kafka"
	"github.com/api-sage/balance-ledger-service/src/internal/usecase/services"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var (
		ledgerStore repo_interfaces.LedgerStore
		userRepo    repo_interfaces.UserRepository
	)

	switch cfg.StoreBackend {
	case "memory":
		store := memory.NewLedgerStore()
		ledgerStore = store
		userRepo = memory.NewUserRepository(store)
	default:
		if err := postgres.RunMigrations(ctx, cfg.DatabaseDSN, cfg.MigrationsDir); err != nil {
			log.Fatalf("run migrations: %v", err)
		}

		db, err := postgres.Open(ctx, cfg.DatabaseDSN)
		if err != nil {
			log.Fatalf("open database: %v", err)
		}
		defer db.Close()

		ledgerStore = postgres.NewLedgerStore(db)
		userRepo = postgres.NewUserRepository(db)
	}

	var publisher events.Publisher = events.NoopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := kafka.NewPublisher(cfg.KafkaBrokers)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	}

	ledgerService := services.NewLedgerService(ledgerStore, userRepo, publisher)
	userService := services.NewUserService(userRepo)

	mux := router.New(
		controller.NewBalanceController(ledgerService),
		controller.NewUserController(userService),
		middleware.BasicAuth(cfg.ChannelID, cfg.ChannelKey),
	)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("listening on %s (store backend: %s)", cfg.HTTPAddr, cfg.StoreBackend)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("serve http: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown http server: %v", err)
	}
}
