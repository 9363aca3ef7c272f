package main

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"gafroshka-cart/internal/app"
	handlers "gafroshka-cart/internal/handlers/shopping_cart"
	"gafroshka-cart/internal/kafka"
	"gafroshka-cart/internal/middleware"
	"gafroshka-cart/internal/session"
	"gafroshka-cart/internal/shopping_cart"

	_ "github.com/lib/pq"
)

const cfgPath = "config/config.yaml"

func main() {
	// init logger
	zapLogger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}

	logger := zapLogger.Sugar()
	defer func() {
		if err := zapLogger.Sync(); err != nil {
			logger.Warnf("error to sync logger: %v", err)
		}
	}()

	// парсим конфиг
	c, err := app.NewConfig(cfgPath)
	if err != nil {
		logger.Fatalf("error to parsing config: %v", err)
	}

	// init redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     c.CfgRedis.Addr,
		Password: c.CfgRedis.Password,
		DB:       c.CfgRedis.DB,
	})
	defer redisClient.Close()

	// init cart store
	var store shopping_cart.SnapshotStore
	switch c.CfgCart.Store {
	case app.CartStorePostgres:
		dsn := fmt.Sprintf(
			"host=%s port=%d user=%s "+"password=%s dbname=%s sslmode=disable",
			c.CfgDB.Host, c.CfgDB.Port, c.CfgDB.Login, c.CfgDB.Password, c.CfgDB.Database,
		)

		db, err := sql.Open("postgres", dsn)
		if err != nil {
			logger.Fatalf("error to database start: %v", err)
		}
		defer db.Close()

		db.SetMaxOpenConns(c.MaxOpenConns)
		if err := db.Ping(); err != nil {
			logger.Infof("Failed to get response to ping: %v", err)
		}

		store = shopping_cart.NewPostgresSnapshotStore(db, logger)
	case app.CartStoreRedis:
		store = shopping_cart.NewRedisSnapshotStore(redisClient, logger, c.CfgCart.TTL)
	default:
		logger.Fatalf("unknown cart store %q", c.CfgCart.Store)
	}

	// init events
	var events kafka.EventProducer = kafka.NopProducer{}
	if c.CfgKafka.Enabled {
		producer := kafka.NewProducer(c.CfgKafka.Brokers, c.CfgKafka.Topic, logger)
		defer func() {
			if err := producer.Close(); err != nil {
				logger.Warnf("error to close kafka producer: %v", err)
			}
		}()
		events = producer
	}

	// init repository
	sessionRepository := session.NewSessionRepository(redisClient, logger, c.Secret, c.SessionDuration)
	cartService := shopping_cart.NewService(store, events, logger)

	// init router
	r := mux.NewRouter()
	r.Use(middleware.MetricsMiddleware)
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// init handlers
	cartHandlers := handlers.NewShoppingCartHandler(logger, cartService)

	// Ручки корзины работают в гостевой сессии
	cartRouter := r.PathPrefix("/api").Subrouter()
	cartRouter.Use(middleware.Session(sessionRepository, logger))

	cartRouter.HandleFunc("/cart", cartHandlers.GetCart).Methods("GET")
	cartRouter.HandleFunc("/cart", cartHandlers.DestroyCart).Methods("DELETE")
	cartRouter.HandleFunc("/cart/items", cartHandlers.AddItems).Methods("POST")
	cartRouter.HandleFunc("/cart/items", cartHandlers.UpdateItems).Methods("PUT")
	cartRouter.HandleFunc("/cart/items/{rowID}", cartHandlers.DeleteItem).Methods("DELETE")
	cartRouter.HandleFunc("/cart/items/{rowID}/options", cartHandlers.GetItemOptions).Methods("GET")
	cartRouter.HandleFunc("/cart/discount", cartHandlers.ApplyDiscount).Methods("POST")

	logger.Infow("starting server",
		"type", "START",
		"addr", c.ServerPort,
		"cart_store", c.CfgCart.Store,
		"kafka", c.CfgKafka.Enabled,
	)

	srv := &http.Server{
		Addr:         c.ServerPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil {
		panic("can't start server: " + err.Error())
	}
}
