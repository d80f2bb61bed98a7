package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coinplay/config"
	"coinplay/cron"
	"coinplay/database"
	auditRepoPkg "coinplay/database/repository/audit"
	kycRepoPkg "coinplay/database/repository/kyc"
	supportRepoPkg "coinplay/database/repository/support"
	userRepoPkg "coinplay/database/repository/user"
	walletRepoPkg "coinplay/database/repository/wallet"
	"coinplay/handlers"
	"coinplay/routes"
	"coinplay/services/kyc"
	"coinplay/services/market"
	"coinplay/services/notification"
	"coinplay/services/support"
	"coinplay/services/user"
	"coinplay/services/wallet"
	"coinplay/utils"

	"github.com/go-redis/redis/v8"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()
	utils.FirebaseInit()
	utils.StartHealthMonitor([]*redis.Client{utils.GetCacheClient(), utils.GetAuthCacheClient()}, database.MongoClient)

	cloudinaryStorageService, err := utils.Cloudinary()
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize cloudinary storage service: %v", err)
	}

	// repositories.
	userRepo := userRepoPkg.NewMongoUserRepo()
	kycRepo := kycRepoPkg.NewMongoKYCRepo()
	auditRepo := auditRepoPkg.NewMongoAuditRepo()
	walletRepo := walletRepoPkg.NewMongoWalletRepo()
	supportRepo := supportRepoPkg.NewMongoSupportRepo()

	// services.
	marketService := &market.DefaultMarketService{
		Cache: utils.GetCacheClient(),
	}
	walletService := &wallet.DefaultWalletService{
		Repo:   walletRepo,
		Market: marketService,
	}
	userService := &user.DefaultUserService{
		Repo:    userRepo,
		Wallets: walletService,
	}
	handlers.SetUserService(userService)

	notificationService := &notification.DefaultNotificationService{
		Users: userRepo,
	}

	providerClient := kyc.NewHTTPProviderClient(kyc.ProviderClientConfig{
		BaseURL:     config.AppConfig.KYCProviderBaseURL,
		APIKey:      config.AppConfig.KYCProviderAPIKey,
		APISecret:   config.AppConfig.KYCProviderAPISecret,
		RedirectURL: config.AppConfig.KYCRedirectURL,
		Timeout:     config.KYCProviderTimeoutDuration(),
	}, logger)

	kycService := &kyc.DefaultKYCService{
		Records:  kycRepo,
		Audit:    auditRepo,
		Users:    userRepo,
		Provider: providerClient,
		Notifier: notificationService,
		Logger:   logger,
	}

	supportService := &support.DefaultSupportService{
		Repo: supportRepo,
	}

	webhookVerifier := kyc.NewWebhookVerifier(config.AppConfig.KYCWebhookSecret)

	// handlers.
	handlerBundle := &handlers.HandlerBundle{
		UserRepo:   userRepo,
		KYC:        handlers.NewKYCHandler(kycService),
		KYCWebhook: handlers.NewKYCWebhookHandler(kycService, webhookVerifier),
		Wallet:     handlers.NewWalletHandler(walletService),
		Market:     handlers.NewMarketHandler(marketService),
		Support:    handlers.NewSupportHandler(supportService),
		Admin:      handlers.NewAdminHandler(userService, kycService, kycRepo, auditRepo),
		Storage:    handlers.NewStorageHandler(cloudinaryStorageService),
	}

	router := routes.SetupRouter(handlerBundle)

	// Background reconciliation of pending verifications.
	cron.InitKYCReconcileWorker(kycService, kycRepo)

	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
