package app

import (
	"context"
	"fmt"

	"cleanops_backend/database"
	"cleanops_backend/internal/auth"
	"cleanops_backend/internal/config"
	"cleanops_backend/internal/email"
	"cleanops_backend/internal/handlers"
	"cleanops_backend/internal/logger"
	"cleanops_backend/internal/middleware"
	"cleanops_backend/internal/models"
	"cleanops_backend/internal/routes"
	"cleanops_backend/internal/services"
	"cleanops_backend/internal/storage"
	"cleanops_backend/internal/validator"
	"cleanops_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig

	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	gormDB, err := database.ConnectGorm()
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Migration failed", "error", err)
	}

	if err := seedFirstAdmin(gormDB, cfg); err != nil {
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	emailProvider := newEmailProvider(cfg)
	defer emailProvider.Close()

	ginRouter := SetupRouter(cfg, gormDB, emailProvider)

	trialWorker := workers.NewTrialWorker(gormDB, emailProvider)
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	trialWorker.Start(workerCtx)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", "address", address)
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// SetupRouter builds the gin engine with all services and routes wired.
func SetupRouter(cfg *config.Config, gormDB *gorm.DB, emailProvider email.Provider) *gin.Engine {
	blobs, err := storage.NewStorage(storage.Config{
		Type:       cfg.Storage.Type,
		BasePath:   cfg.Storage.BasePath,
		BaseURL:    cfg.Storage.BaseURL,
		Bucket:     cfg.Storage.Bucket,
		AccessKey:  cfg.Storage.AccessKey,
		SecretKey:  cfg.Storage.SecretKey,
		Endpoint:   cfg.Storage.Endpoint,
		PublicRead: cfg.Storage.PublicRead,
	})
	if err != nil {
		logger.Fatal("Failed to initialize storage", "error", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	container := services.NewServiceContainer(gormDB, blobs, emailProvider)
	appHandlers := initializeHandlers(cfg, container)

	ginRouter := initializeGinRouter(cfg)
	routes.RegisterRoutes(ginRouter, appHandlers)

	return ginRouter
}

func newEmailProvider(cfg *config.Config) email.Provider {
	if cfg.Email.SMTPHost == "" {
		logger.Warn("SMTP is not configured, using the mock email provider")
		return &email.MockProvider{}
	}

	provider, err := email.NewSMTPProvider(email.SMTPConfig{
		Host:      cfg.Email.SMTPHost,
		Port:      cfg.Email.SMTPPort,
		Username:  cfg.Email.SMTPUsername,
		Password:  cfg.Email.SMTPPassword,
		FromEmail: cfg.Email.FromEmail,
		FromName:  cfg.Email.FromName,
	})
	if err != nil {
		logger.Fatal("Failed to initialize SMTP provider", "error", err)
	}
	return provider
}

func initializeHandlers(cfg *config.Config, container *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		AuthHandler:    handlers.NewAuthHandler(baseHandler, container.AuthService),
		CatalogHandler: handlers.NewCatalogHandler(baseHandler, container.CatalogService),
		JobHandler:     handlers.NewJobHandler(baseHandler, container.JobService, container.SlaService),
		ProofHandler:   handlers.NewProofHandler(baseHandler, container.ProofService, cfg.Upload.MaxSize, cfg.Upload.AllowedTypes),
		BillingHandler: handlers.NewBillingHandler(baseHandler, container.BillingService, cfg.Trial.DefaultDays),
		UserHandler:    handlers.NewUserHandler(baseHandler, container.UserService),
	}
}

func initializeGinRouter(cfg *config.Config) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logging())
	router.Use(middleware.CORS())
	return router
}

// seedFirstAdmin creates the bootstrap company and admin account on an
// empty database, so a fresh deployment can log in.
func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	if cfg.Admin.Email == "" || cfg.Admin.Password == "" {
		logger.Warn("Admin email or password is not configured, skipping admin seeding")
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var existing models.User
		err := tx.Where("email = ?", cfg.Admin.Email).First(&existing).Error
		if err == nil {
			logger.Info("Admin user already exists, skipping creation", "email", cfg.Admin.Email)
			return nil
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}

		company := &models.Company{
			Name:       "Default Company",
			OwnerEmail: cfg.Admin.Email,
			Plan:       models.CompanyPlanActive,
		}
		if err := tx.Create(company).Error; err != nil {
			return fmt.Errorf("failed to create bootstrap company: %w", err)
		}

		hash, err := auth.HashPassword(cfg.Admin.Password)
		if err != nil {
			return err
		}

		admin := &models.User{
			CompanyID:    company.ID,
			Email:        cfg.Admin.Email,
			PasswordHash: hash,
			FullName:     "Administrator",
			Role:         models.UserRoleAdmin,
			IsActive:     true,
		}
		if err := tx.Create(admin).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}

		logger.Info("Admin user created", "email", cfg.Admin.Email)
		return nil
	})
}
