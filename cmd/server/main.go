package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/vishalmart/shop/internal/cart"
	"github.com/vishalmart/shop/internal/catalog"
	"github.com/vishalmart/shop/internal/checkout"
	"github.com/vishalmart/shop/internal/config"
	shophttp "github.com/vishalmart/shop/internal/http"
	"github.com/vishalmart/shop/internal/inventory"
	"github.com/vishalmart/shop/internal/orders"
	"github.com/vishalmart/shop/internal/pricing"
	"github.com/vishalmart/shop/internal/publisher"
	"github.com/vishalmart/shop/pkg/metrics"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Catalog (sqlite)
	catalogRepo, err := catalog.NewRepository(cfg.CatalogDBPath)
	if err != nil {
		log.Fatalf("failed to open catalog: %v", err)
	}
	defer catalogRepo.Close()
	if err := catalogRepo.RunMigrations(cfg.MigrationsSQLite); err != nil {
		log.Fatalf("failed to migrate catalog: %v", err)
	}

	// Orders + stock ledger (postgres, or in-memory when DB_HOST is unset)
	var ordersRepo orders.Repository
	var outboxSource orders.OutboxSource
	var ledger inventory.Ledger
	if cfg.DBHost != "" {
		cred := &orders.Credentials{
			Host:              cfg.DBHost,
			Port:              cfg.DBPort,
			User:              cfg.DBUser,
			Password:          cfg.DBPassword,
			DBName:            cfg.DBName,
			MigrationsDirPath: cfg.MigrationsPostgres,
		}
		pg, err := orders.NewPostgresRepository(cred)
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
		defer pg.Close()
		if err := pg.RunMigrations(cred); err != nil {
			log.Fatalf("failed to migrate postgres: %v", err)
		}
		ordersRepo = pg
		outboxSource = pg
		ledger = inventory.NewPostgresLedger(pg.DB())
		log.Printf("orders and stock ledger backed by postgres at %s", cfg.DBHost)
	} else {
		mem := orders.NewMemoryRepository()
		ordersRepo = mem
		outboxSource = mem
		ledger = inventory.NewMemoryLedger()
		log.Println("DB_HOST not set, orders and stock ledger are in-memory")
	}

	if err := seedLedger(ctx, catalogRepo, ledger); err != nil {
		log.Fatalf("failed to seed stock ledger: %v", err)
	}

	// Cart (mongo, or in-memory when MONGO_URI is unset)
	var cartRepo cart.Repository
	if cfg.MongoURI != "" {
		mongoCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		db, err := cart.ConnectMongoDB(mongoCtx, cfg.MongoURI, cfg.MongoDBName)
		cancel()
		if err != nil {
			log.Fatalf("failed to connect to mongodb: %v", err)
		}
		defer func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := db.Client().Disconnect(disconnectCtx); err != nil {
				log.Printf("failed to disconnect mongodb: %v", err)
			}
		}()
		cartRepo = cart.NewMongoRepository(db.Collection("carts"))
		log.Printf("carts backed by mongodb at %s", cfg.MongoURI)
	} else {
		cartRepo = cart.NewMemoryRepository()
		log.Println("MONGO_URI not set, carts are in-memory")
	}

	// Cart cache (optional)
	var cartCache cart.Cache
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Printf("redis unavailable, cart caching disabled: %v", err)
		} else {
			cartCache = cart.NewRedisCache(redisClient)
			log.Printf("cart cache backed by redis at %s", cfg.RedisAddr)
		}
	}

	cartSvc := cart.NewService(cartRepo, cartCache)
	checkoutSvc := checkout.NewService(cartSvc, ledger, ordersRepo, pricing.DefaultConfig())
	serverMetrics := metrics.NewServerMetrics("server")

	// Outbox publisher (optional)
	if cfg.KafkaBrokers != "" {
		poller := publisher.NewOutboxPoller(outboxSource, strings.Split(cfg.KafkaBrokers, ",")...)
		go poller.Run(ctx)
		log.Printf("outbox publisher started, brokers=%s", cfg.KafkaBrokers)
	} else {
		log.Println("KAFKA_BROKERS not set, outbox publishing disabled")
	}

	router := shophttp.NewRouter(shophttp.RouterDeps{
		Products:       shophttp.NewProductHandler(catalogRepo, ledger, cfg.RequestTimeout),
		Cart:           shophttp.NewCartHandler(cartSvc, catalogRepo, cfg.RequestTimeout),
		Checkout:       shophttp.NewCheckoutHandler(checkoutSvc, serverMetrics, cfg.RequestTimeout),
		Orders:         shophttp.NewOrdersHandler(ordersRepo, cfg.RequestTimeout),
		Metrics:        serverMetrics,
		RequestTimeout: cfg.RequestTimeout,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "shop-server"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("server starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	<-ctx.Done()
	log.Println("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}

// seedLedger copies catalog seed stock for products the ledger does not track
// yet. Existing ledger rows are authoritative and never overwritten.
func seedLedger(ctx context.Context, catalogRepo catalog.RepoInterface, ledger inventory.Ledger) error {
	products, err := catalogRepo.GetAllProducts(ctx)
	if err != nil {
		return err
	}
	for _, p := range products {
		if _, err := ledger.Stock(ctx, p.ID); err == nil {
			continue
		} else if !errors.Is(err, inventory.ErrProductNotFound) {
			return err
		}
		if err := ledger.SetStock(ctx, p.ID, p.Stock); err != nil {
			return err
		}
	}
	return nil
}
