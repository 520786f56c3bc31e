package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/flowdash/flowdash-api/internal/application/auth"
	"github.com/flowdash/flowdash-api/internal/application/usecase"
	"github.com/flowdash/flowdash-api/internal/infrastructure/cache"
	infrapdf "github.com/flowdash/flowdash-api/internal/infrastructure/pdf"
	"github.com/flowdash/flowdash-api/internal/infrastructure/postgres"
	"github.com/flowdash/flowdash-api/internal/infrastructure/storage"
	httpRouter "github.com/flowdash/flowdash-api/internal/interfaces/http"
	"github.com/flowdash/flowdash-api/pkg/config"
	"github.com/flowdash/flowdash-api/pkg/logger"
	"github.com/flowdash/flowdash-api/pkg/token"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	// Llaves RS256: se leen UNA vez aquí y se inyectan al manager.
	privPEM, pubPEM, err := loadKeys(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("cargar llaves de sesión")
	}
	tokens, err := token.NewManager(
		privPEM, pubPEM, cfg.Auth.Issuer,
		time.Duration(cfg.Auth.SessionHours)*time.Hour,
		time.Duration(cfg.Auth.RememberDays)*24*time.Hour,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar token manager")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(cfg.DB.ConnectionString()); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	userRepo := postgres.NewUserRepository(pool)
	orgRepo := postgres.NewOrganizationRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	logRepo := postgres.NewInventoryLogRepository(pool)
	mediaRepo := postgres.NewMediaRepository(pool)
	importJobRepo := postgres.NewImportJobRepository(pool)
	dashboardRepo := postgres.NewDashboardRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	mediaStore, err := storage.NewLocalStore(cfg.Media)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento de medios")
	}

	// Cache de dashboard: opcional, la app arranca sin Redis.
	var dashboardCache usecase.DashboardCache
	if cfg.Redis.Addr != "" {
		redisCache, err := cache.NewRedisCache(ctx, cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("Redis no disponible, dashboard sin cache")
		} else {
			defer redisCache.Close()
			dashboardCache = redisCache
		}
	}

	authUC := auth.NewAuthUseCase(userRepo, txRunner, tokens)
	userUC := usecase.NewUserUseCase(userRepo)
	productUC := usecase.NewProductUseCase(productRepo)
	inventoryUC := usecase.NewInventoryUseCase(logRepo, productRepo)
	mediaUC := usecase.NewMediaUseCase(mediaRepo, mediaStore)
	importUC := usecase.NewImportUseCase(productRepo, importJobRepo, txRunner)
	dashboardUC := usecase.NewDashboardUseCase(
		dashboardRepo, dashboardCache,
		time.Duration(cfg.Redis.TTLSecs)*time.Second,
	)
	reportUC := usecase.NewReportUseCase(dashboardRepo, orgRepo, infrapdf.NewMarotoReportGenerator())

	gate := httpRouter.NewSessionGate(tokens, authUC, cfg.App.Env != "development")
	metrics := httpRouter.NewHTTPMetrics("flowdash")

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    (cfg.Media.MaxUploadMB + 1) * 1024 * 1024,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.HTTP.CORSOrigins,
		AllowCredentials: cfg.HTTP.CORSOrigins != "*",
	}))
	app.Use(metrics.Middleware())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "FlowDash API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", metrics.Handler())

	httpRouter.Router(app, httpRouter.RouterDeps{
		Gate:        gate,
		AuthUC:      authUC,
		UserUC:      userUC,
		ProductUC:   productUC,
		InventoryUC: inventoryUC,
		MediaUC:     mediaUC,
		ImportUC:    importUC,
		DashboardUC: dashboardUC,
		ReportUC:    reportUC,
		MaxUploadMB: cfg.Media.MaxUploadMB,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// loadKeys lee el par PEM del disco. Sin rutas configuradas solo se permite
// un par efímero en development (las sesiones mueren en cada reinicio).
func loadKeys(cfg *config.Config, log *logger.Logger) (privPEM, pubPEM []byte, err error) {
	if cfg.Auth.PrivateKeyPath == "" || cfg.Auth.PublicKeyPath == "" {
		if cfg.App.Env != "development" {
			return nil, nil, errors.New("AUTH_PRIVATE_KEY_PATH y AUTH_PUBLIC_KEY_PATH son obligatorios fuera de development")
		}
		log.Warn().Msg("sin llaves configuradas: usando par RSA efímero (solo development)")
		return token.GenerateKeyPair()
	}
	privPEM, err = os.ReadFile(cfg.Auth.PrivateKeyPath)
	if err != nil {
		return nil, nil, err
	}
	pubPEM, err = os.ReadFile(cfg.Auth.PublicKeyPath)
	if err != nil {
		return nil, nil, err
	}
	return privPEM, pubPEM, nil
}
