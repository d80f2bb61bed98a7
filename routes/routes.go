package routes

import (
	"net/http"
	"time"

	"coinplay/handlers"
	"coinplay/middleware"
	"coinplay/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers registration and login endpoints.
func RegisterAuthRoutes(r *gin.Engine) {
	api := r.Group("/api/auth")
	{
		api.POST("/register", handlers.RegisterUserHandler)
		api.POST("/login", handlers.AuthenticateUserHandler)
	}
}

// RegisterUserRoutes registers profile and session endpoints.
func RegisterUserRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/users")
	{
		api.Use(middleware.JWTAuthUserMiddleware(hb.UserRepo))
		api.GET("/me", handlers.GetProfileHandler)
		api.PUT("/me/fcm-token", handlers.UpdateFCMTokenHandler)
		api.DELETE("/me/session", handlers.RevokeUserAuthTokenHandler)
	}
}

// RegisterKYCRoutes registers the verification lifecycle endpoints.
func RegisterKYCRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/kyc")
	{
		api.Use(middleware.JWTAuthUserMiddleware(hb.UserRepo))
		api.POST("/initiate", hb.KYC.InitiateHandler)
		api.GET("/status", hb.KYC.StatusHandler)
		api.POST("/documents/:bucket", hb.Storage.UploadKYCDocumentHandler)
	}
}

// RegisterWebhookRoutes registers provider callback endpoints. These are
// authenticated by HMAC signature, not by bearer token.
func RegisterWebhookRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	hooks := r.Group("/webhooks")
	{
		hooks.POST("/kyc", hb.KYCWebhook.Handle)
	}
}

// RegisterWalletRoutes registers the simulated wallet endpoints.
func RegisterWalletRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/wallet")
	{
		api.Use(middleware.JWTAuthUserMiddleware(hb.UserRepo))
		api.GET("", hb.Wallet.GetWalletHandler)
		api.GET("/transactions", hb.Wallet.GetTransactionsHandler)
		api.POST("/swap", hb.Wallet.SwapHandler)
	}
}

// RegisterMarketRoutes registers market data endpoints.
func RegisterMarketRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/market")
	{
		api.GET("/tickers", hb.Market.GetTickersHandler)
	}
}

// RegisterSupportRoutes registers the FAQ center and ticket endpoints.
func RegisterSupportRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/support")
	{
		api.GET("/faqs", hb.Support.ListFAQsHandler)

		protected := api.Group("")
		protected.Use(middleware.JWTAuthUserMiddleware(hb.UserRepo))
		protected.POST("/tickets", hb.Support.CreateTicketHandler)
		protected.GET("/tickets", hb.Support.ListTicketsHandler)
	}
}

// RegisterAdminRoutes registers the review queue and user administration
// endpoints. All require the kyc:admin capability.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/admin")
	{
		api.Use(middleware.JWTAuthUserMiddleware(hb.UserRepo))
		api.Use(middleware.RequireCapability(middleware.KYCAdminCapability))
		api.GET("/users", hb.Admin.GetAllUsersHandler)
		api.GET("/kyc", hb.Admin.ListKYCRecordsHandler)
		api.POST("/kyc/:userId/review", hb.Admin.ReviewKYCHandler)
		api.GET("/kyc/:userId/audit", hb.Admin.GetKYCAuditTrailHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "services": utils.GetHealthStatus()})
	})
}

// SetupRouter builds the gin engine with global middleware and all routes.
func SetupRouter(hb *handlers.HandlerBundle) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(utils.ErrorHandler())
	r.Use(gin.Logger())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Kyc-Signature"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware())

	RegisterHealthRoute(r)
	RegisterAuthRoutes(r)
	RegisterUserRoutes(r, hb)
	RegisterKYCRoutes(r, hb)
	RegisterWebhookRoutes(r, hb)
	RegisterWalletRoutes(r, hb)
	RegisterMarketRoutes(r, hb)
	RegisterSupportRoutes(r, hb)
	RegisterAdminRoutes(r, hb)

	return r
}
