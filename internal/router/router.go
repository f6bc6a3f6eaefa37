package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/medprep/neetpg-backend/internal/config"
	"github.com/medprep/neetpg-backend/internal/handler"
	"github.com/medprep/neetpg-backend/internal/middleware"
	"github.com/medprep/neetpg-backend/internal/response"
	"github.com/medprep/neetpg-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Quiz      *handler.QuizHandler
	Question  *handler.QuestionHandler
	Catalog   *handler.CatalogHandler
	Flashcard *handler.FlashcardHandler
	Mnemonic  *handler.MnemonicHandler
	Analytics *handler.AnalyticsHandler
	Chat      *handler.ChatHandler
	WS        *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
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

	// ─── 1. Catalog Group (Public, Cached) ─────────────────────────────
	// The catalog only changes on deploy; one hour of client caching.
	catalog := router.Group("/api/v1/catalog")
	catalog.Use(middleware.CacheControl(3600))
	{
		catalog.GET("/subjects", handlers.Catalog.GetSubjects)
		catalog.GET("/filters", handlers.Catalog.GetFilterOptions)
	}

	// ─── 2. Authenticated API Group ────────────────────────────────────
	api := router.Group("/api/v1")
	api.Use(middleware.RequireUserJWT(authService))
	{
		// Quiz session lifecycle
		api.POST("/quiz/start", handlers.Quiz.Start)
		api.POST("/quiz/resume", handlers.Quiz.Resume)
		api.GET("/quiz/state", handlers.Quiz.State)
		api.GET("/quiz/results", handlers.Quiz.Results)
		api.POST("/quiz/answer", handlers.Quiz.Answer)
		api.POST("/quiz/goto", handlers.Quiz.GoTo)
		api.POST("/quiz/pause", handlers.Quiz.Pause)
		api.POST("/quiz/submit", handlers.Quiz.Submit)
		api.POST("/quiz/questions/:question_id/clear", handlers.Quiz.ClearAnswer)
		api.POST("/quiz/questions/:question_id/mark", handlers.Quiz.ToggleMark)
		api.POST("/quiz/questions/:question_id/bookmark", handlers.Quiz.ToggleBookmark)

		// Question bank browsing
		api.GET("/questions", handlers.Question.Search)
		api.GET("/questions/:id", handlers.Question.GetByID)

		// Flashcards
		api.GET("/flashcards/decks", handlers.Flashcard.ListDecks)
		api.GET("/flashcards/decks/:deck_id/cards", handlers.Flashcard.ListCards)

		// Community mnemonics
		api.GET("/mnemonics", handlers.Mnemonic.List)
		api.POST("/mnemonics", handlers.Mnemonic.Create)
		api.POST("/mnemonics/:id/upvote", handlers.Mnemonic.Upvote)
		api.POST("/mnemonics/:id/downvote", handlers.Mnemonic.Downvote)

		// Performance analytics
		api.GET("/attempts", handlers.Analytics.History)
		api.GET("/attempts/report", handlers.Analytics.Report)
	}

	// Study assistant (10 requests per minute per user).
	chatLimiter := middleware.NewRateLimiter(10, time.Minute)
	api.POST("/chat", chatLimiter.Middleware(), handlers.Chat.Complete)

	// ─── 3. WebSocket Group (WS Auth) ──────────────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireWSAuth(authService))
	{
		ws.GET("/quiz/stream", handlers.WS.QuizStream)
	}

	return router
}
