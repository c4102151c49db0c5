package server

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/edvora/edvora-api/internal/admin"
	authhttp "github.com/edvora/edvora-api/internal/auth/handler/http"
	"github.com/edvora/edvora-api/internal/auth/provider"
	"github.com/edvora/edvora-api/internal/auth/repository"
	"github.com/edvora/edvora-api/internal/auth/service"
	"github.com/edvora/edvora-api/internal/blog"
	"github.com/edvora/edvora-api/internal/configs"
	"github.com/edvora/edvora-api/internal/contact"
	"github.com/edvora/edvora-api/internal/course"
	"github.com/edvora/edvora-api/internal/database"
	"github.com/edvora/edvora-api/internal/middleware"
	"github.com/edvora/edvora-api/internal/otp"
	"github.com/edvora/edvora-api/internal/payment"
	"github.com/edvora/edvora-api/internal/worker"
	"github.com/edvora/edvora-api/pkg/mail"
	"github.com/edvora/edvora-api/pkg/sms"
	"github.com/joho/godotenv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

const defaultPort = "8080"

type AppConfig struct {
	HTTPPort string
	AppEnv   string
}

func InitConfig() (*configs.Config, *AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := configs.Load(os.Getenv("APP_ENV"))
	if err != nil {
		return nil, nil, err
	}

	httpPort := os.Getenv("PORT")
	if httpPort == "" {
		httpPort = defaultPort
	}

	appConfig := &AppConfig{
		HTTPPort: httpPort,
		AppEnv:   os.Getenv("APP_ENV"),
	}

	return cfg, appConfig, nil
}

func SetupDatabase(cfg *configs.Config) (*database.Database, *database.RedisCache, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, err
	}
	ctx := context.Background()

	if err := db.HealthCheck(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	redisCache, redisErr := database.InitRedis(ctxWithTimeout, cfg)
	if redisErr != nil {
		db.Close()
		return nil, nil, redisErr
	}

	return db, redisCache, nil
}

// Services bundles everything the HTTP layer needs.
type Services struct {
	Auth     *service.AuthService
	Cache    database.CacheService
	Mailer   mail.Mailer
	Payments *payment.Service
	Courses  course.Repository
	Blog     blog.Repository
	Admins   repository.AdminRepository
}

func SetupServices(db *database.Database, redisCache *database.RedisCache, cfg *configs.Config) (*Services, context.CancelFunc) {
	mailerService := mail.NewMailerService(cfg)
	smsSender := sms.NewSenderService(cfg)

	userRepo := repository.NewUserRepository(db.DB)
	adminRepo := repository.NewAdminRepository(db.DB)
	courseRepo := course.NewRepository(db.DB)
	blogRepo := blog.NewRepository(db.DB)

	otpStore := otp.NewStore(redisCache, smsSender)
	providerVerifier := provider.NewVerifier(cfg)

	authService := service.NewAuthService(
		userRepo,
		cfg,
		redisCache,
		otpStore,
		providerVerifier,
	)

	gateway := payment.NewGateway(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret)
	paymentService := payment.NewService(
		db.DB, courseRepo, gateway, mailerService,
		cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret,
	)

	loginWorker := worker.NewLoginLogWorker(redisCache.RawClient(), authService)
	consumerCtx, consumerCancel := context.WithCancel(context.Background())
	go loginWorker.Start(consumerCtx)

	return &Services{
		Auth:     authService,
		Cache:    redisCache,
		Mailer:   mailerService,
		Payments: paymentService,
		Courses:  courseRepo,
		Blog:     blogRepo,
		Admins:   adminRepo,
	}, consumerCancel
}

func SetupFiberApp(db *database.Database, svcs *Services, cfg *configs.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:       "Edvora API",
		ProxyHeader:   fiber.HeaderXForwardedFor,
		CaseSensitive: true,
		ErrorHandler:  middleware.ErrorHandler,
	})

	app.Use(func(c *fiber.Ctx) error {
		if c.UserContext() == nil {
			c.SetUserContext(context.Background())
		}
		return c.Next()
	})

	app.Use(healthcheck.New(healthcheck.Config{
		LivenessProbe: func(c *fiber.Ctx) bool {
			return true
		},
		LivenessEndpoint: "/livez",
	}))

	app.Use(logger.New(logger.Config{
		Format: "[${ip}]:${port} ${status} - ${method} ${path}\n",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000,https://edvora.in,https://www.edvora.in",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := db.HealthCheck(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).SendString("UNHEALTHY")
		}
		return c.SendString("OK")
	})

	// One SMS per request makes these the most abusable endpoints on the
	// surface, so they get their own limiter.
	otpLimiter := middleware.NewRateLimiter(svcs.Cache, 5, 10*time.Minute)

	authhttp.NewAuthHandler(svcs.Auth).RegisterRoutes(app, otpLimiter)
	admin.NewAdminHandler(svcs.Admins).RegisterRoutes(app)
	blog.NewHandler(svcs.Blog).RegisterRoutes(app)
	course.NewHandler(svcs.Courses).RegisterRoutes(app)
	payment.NewHandler(svcs.Payments).RegisterRoutes(app)
	contact.NewHandler(db.DB, svcs.Mailer, cfg.Mail.SupportEmail).RegisterRoutes(app)

	return app
}

// ListenAddress binds all interfaces in production and loopback-friendly
// defaults elsewhere.
func ListenAddress(c *AppConfig) string {
	if c.AppEnv == "production" {
		return "0.0.0.0:" + c.HTTPPort
	}
	return ":" + c.HTTPPort
}
