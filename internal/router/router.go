package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/scholark/scholark-backend/internal/config"
	"github.com/scholark/scholark-backend/internal/handler"
	"github.com/scholark/scholark-backend/internal/middleware"
	"github.com/scholark/scholark-backend/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Class    *handler.ClassHandler
	Learner  *handler.LearnerHandler
	Transfer *handler.TransferHandler
	Import   *handler.ImportHandler
	Stats    *handler.StatsHandler
	WS       *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(handlers *Handlers, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for bulk imports (10 per minute per IP).
	importLimiter := middleware.NewRateLimiter(10, time.Minute)

	// ─── 1. Staff API (JWT) ────────────────────────────────────────────
	api := router.Group("/api/v1")
	api.Use(middleware.RequireStaffJWT(cfg.JWTSecret))
	{
		// Class management; mutations are admin-only.
		api.GET("/classes", handlers.Class.ListClasses)
		api.GET("/classes/:id", handlers.Class.GetClass)
		api.POST("/classes", middleware.RequireRole("admin"), handlers.Class.CreateClass)
		api.PUT("/classes/:id", middleware.RequireRole("admin"), handlers.Class.UpdateClass)

		// Enrollment and rosters.
		api.GET("/classes/:id/learners", handlers.Learner.ListRoster)
		api.POST("/classes/:id/learners", handlers.Learner.EnrollLearner)
		api.POST("/classes/:id/import", importLimiter.Middleware(), handlers.Import.ImportLearners)

		// Learner records.
		api.GET("/learners/:id", handlers.Learner.GetLearner)
		api.GET("/learners/by-student-id/:student_id", handlers.Learner.LookupByStudentID)
		api.PATCH("/learners/:id", handlers.Learner.UpdateLearner)
		api.POST("/learners/:id/remove", handlers.Learner.RemoveLearner)

		// Transfers.
		api.POST("/learners/:id/transfer", handlers.Transfer.TransferLearner)
		api.GET("/learners/:id/transfers", handlers.Transfer.TransferHistory)

		// Statistics.
		api.GET("/stats/enrollment", handlers.Stats.EnrollmentOverview)
	}

	// ─── 2. WebSocket Group (Staff WS Auth) ────────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireStaffWSAuth(cfg.JWTSecret))
	{
		ws.GET("/events", handlers.WS.EventStream)
	}

	return router
}
