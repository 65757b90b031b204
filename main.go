package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"zaffira/internal/cache"
	"zaffira/internal/config"
	"zaffira/internal/database"
	"zaffira/internal/handlers"
	"zaffira/internal/logger"
	"zaffira/internal/mailer"
	"zaffira/internal/metrics"
	"zaffira/internal/repository"
	"zaffira/internal/server"
	"zaffira/internal/services"
	"zaffira/internal/storage"
)

func main() {
	config.Load()
	cfg := config.AppEnv

	zlog, err := logger.InitLogger(logger.LogConfig{
		Level:       cfg.LogLevel,
		Environment: cfg.Environment,
		ServiceName: "zaffira-api",
	})
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer zlog.Sync()

	if err := cfg.Validate(); err != nil {
		zlog.Fatal("invalid configuration", zap.Error(err))
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	client, err := database.Connect(cfg.MongoURI)
	if err != nil {
		zlog.Fatal("mongo connect failed", zap.Error(err))
	}
	defer client.Disconnect(context.Background())

	db := client.Database(cfg.DBName)
	zlog.Info("MongoDB connected", zap.String("database", db.Name()))

	if err := database.EnsureIndexes(db, zlog); err != nil {
		zlog.Warn("index setup incomplete", zap.Error(err))
	}

	ctx := context.Background()

	var catalogCache services.CatalogCache = cache.Noop{}
	if cfg.Redis.Addr != "" {
		rdb, err := cache.Connect(ctx, cfg.Redis)
		if err != nil {
			zlog.Warn("redis unavailable, catalog cache disabled", zap.Error(err))
		} else {
			defer rdb.Close()
			catalogCache = cache.NewRedisCatalogCache(rdb, cfg.Redis.CacheTTL, zlog)
		}
	}

	var (
		images    services.ImageStore
		uploadDir string
	)
	switch cfg.Storage.Driver {
	case "minio":
		store, err := storage.NewMinioStore(ctx, cfg.Storage, zlog)
		if err != nil {
			zlog.Fatal("minio setup failed", zap.Error(err))
		}
		images = store
	default:
		images = storage.NewLocalStore(cfg.Storage.UploadDir, cfg.Storage.PublicBaseURL)
		uploadDir = cfg.Storage.UploadDir
	}

	var resetMailer services.ResetCodeSender
	switch {
	case cfg.SMTP.Enabled():
		resetMailer = mailer.NewSMTPMailer(cfg.SMTP, zlog)
	case cfg.IsProduction():
		zlog.Fatal("smtp is required in production")
	default:
		zlog.Warn("smtp not configured, reset codes will only be logged")
		resetMailer = mailer.NewLogMailer(zlog)
	}

	users := repository.NewUserRepository(db)
	products := repository.NewProductRepository(db)
	suppliers := repository.NewSupplierRepository(db)
	carts := repository.NewCartRepository(db)
	appointments := repository.NewAppointmentRepository(db)
	consultations := repository.NewConsultationRepository(db)

	tokens := services.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL)

	router := server.NewRouter(server.Deps{
		Accounts:      services.NewAccountService(users, tokens, zlog),
		Resets:        services.NewPasswordResetService(users, resetMailer, zlog),
		Products:      services.NewProductService(products, catalogCache, images, zlog),
		Suppliers:     services.NewSupplierService(suppliers, zlog),
		Carts:         services.NewCartService(carts, products, zlog),
		Appointments:  services.NewAppointmentService(appointments, carts, zlog),
		Consultations: services.NewConsultationService(consultations, zlog),
		Dashboard:     services.NewDashboardService(users, products, suppliers, appointments, consultations),
		Images:        services.NewImageService(images, zlog),
		Health:        handlers.Health(db),
		Metrics:       metrics.NewHTTPMetrics("zaffira-api"),
		Logger:        zlog,
		CORSOrigins:   cfg.CORSOrigins,
		UploadDir:     uploadDir,
	})

	zlog.Info("listening", zap.String("port", cfg.Port))
	if err := router.Run(":" + cfg.Port); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}
