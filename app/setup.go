package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/biosecret/go-todo/cognito"
	"github.com/biosecret/go-todo/config"
	"github.com/biosecret/go-todo/database"
	"github.com/biosecret/go-todo/events"
	"github.com/biosecret/go-todo/handlers"
	"github.com/biosecret/go-todo/repository"
	"github.com/biosecret/go-todo/router"
	"github.com/biosecret/go-todo/services"
	"github.com/biosecret/go-todo/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

// Deps là các thành phần đã khởi tạo mà NewApp cần.
type Deps struct {
	DB        *gorm.DB
	Cognito   *cognito.Client
	Verifier  *cognito.Verifier
	Broker    *events.Broker
	Publisher events.Publisher
	Now       func() time.Time
}

// NewApp tạo ứng dụng Fiber với middleware và toàn bộ route.
func NewApp(cfg *config.Config, deps Deps) *fiber.App {
	users := repository.NewUserRepository(deps.DB)
	tasks := repository.NewTaskRepository(deps.DB)

	broker := deps.Broker
	if broker == nil {
		broker = events.NewBroker(0)
	}
	publisher := deps.Publisher
	if publisher == nil {
		publisher = broker
	}

	h := handlers.New(handlers.Options{
		Tasks:        services.NewTaskService(tasks, users, publisher, deps.Now),
		Auth:         services.NewAuthService(users),
		Cognito:      deps.Cognito,
		Verifier:     deps.Verifier,
		Broker:       broker,
		FrontendURL:  cfg.FrontendURL,
		CookieSecure: cfg.CookieSecure,
	})

	app := fiber.New(fiber.Config{
		AppName:      "go-todo",
		ErrorHandler: handlers.ErrorHandler,
	})

	origins := cfg.AllowOrigins()
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowCredentials: origins != "*",
	}))

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${ip}]:${port} ${status} - ${method} ${path} ${latency}\n",
	}))

	router.SetupRoutes(app, h, deps.Verifier)
	config.AddSwaggerRoutes(app)
	return app
}

// SetupAndRunApp khởi động ứng dụng và chặn cho tới khi nhận SIGINT/SIGTERM.
func SetupAndRunApp() error {
	if err := config.LoadENV(); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close(db)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cc := cfg.Cognito()
	httpClient := cognito.NewHTTPClient(cfg.ProviderTimeout)

	// Không tải được JWKS lúc khởi động thì dừng luôn.
	fetchCtx, cancel := context.WithTimeout(ctx, cfg.ProviderTimeout)
	keys, err := cognito.FetchKeySet(fetchCtx, httpClient, cc.JWKSEndpoint())
	cancel()
	if err != nil {
		return fmt.Errorf("load signing keys: %w", err)
	}
	log.Infof("Loaded %d signing keys from %s", keys.Len(), cc.JWKSEndpoint())

	verifier := cognito.NewVerifier(keys, cc.Issuer(), cc.ClientID,
		cognito.WithRefreshOnMiss(cfg.JWKSRefreshMinInterval))

	if cfg.JWKSRefreshInterval > 0 {
		scheduler := utils.NewScheduler()
		if _, err := scheduler.Every(cfg.JWKSRefreshInterval, refreshKeys(keys, cfg.ProviderTimeout)); err != nil {
			return fmt.Errorf("schedule JWKS refresh: %w", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	broker := events.NewBroker(0)
	publisher := events.Multi{broker}
	if cfg.MQTTURL != "" {
		mp, err := events.ConnectMQTT(cfg.MQTTURL, cfg.MQTTTopic, mqttClientID())
		if err != nil {
			log.Warnf("MQTT disabled: %v", err)
		} else {
			log.Infof("Publishing task events to MQTT topic %s/<user_id>", cfg.MQTTTopic)
			publisher = append(publisher, mp)
			defer mp.Close()
		}
	}

	app := NewApp(cfg, Deps{
		DB:        db,
		Cognito:   cognito.NewClient(cc, httpClient),
		Verifier:  verifier,
		Broker:    broker,
		Publisher: publisher,
	})

	go func() {
		<-ctx.Done()
		log.Info("Shutting down server")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Errorf("shutdown: %v", err)
		}
	}()

	return app.Listen(":" + cfg.Port)
}

func refreshKeys(keys *cognito.KeySet, timeout time.Duration) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := keys.Refresh(ctx); err != nil {
			log.Warnf("JWKS refresh failed, keeping %d cached keys: %v", keys.Len(), err)
			return
		}
		log.Debugf("JWKS refreshed, %d keys", keys.Len())
	}
}

func mqttClientID() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "local"
	}
	return "go-todo-" + host
}
