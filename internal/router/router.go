package router

import (
	"time"

	"github.com/Gopal274/Ssdn/internal/config"
	"github.com/Gopal274/Ssdn/internal/handler"
	"github.com/Gopal274/Ssdn/internal/infra"
	"github.com/Gopal274/Ssdn/internal/middleware"
	"github.com/Gopal274/Ssdn/internal/repository"
	"github.com/Gopal274/Ssdn/internal/service"
	"github.com/Gopal274/Ssdn/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine plus the
// worker handlers for the async pool started in main.
// Dependency graph: Handler <- Service <- Repository <- DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, suggestCB *infra.Breaker) (*gin.Engine, *worker.WorkerHandlers) {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Infrastructure ───────────────────────────────────────────────────────
	suggestClient := infra.NewSuggestClient(cfg.SuggestSidecarURL)

	// ── Repositories ─────────────────────────────────────────────────────────
	productRepo := repository.NewProductRepository(db)

	// Worker dispatcher, injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	ledgerSvc := service.NewLedgerService(productRepo, rdb, dispatcher)
	analyticsSvc := service.NewAnalyticsService(productRepo)
	suggestSvc := service.NewSuggestService(suggestClient, suggestCB)

	// ── Handlers ─────────────────────────────────────────────────────────────
	productsH := handler.NewProductsHandler(ledgerSvc)
	historyH := handler.NewHistoryHandler(ledgerSvc, productRepo)
	rateCheckH := handler.NewRateCheckHandler(productRepo, rdb, time.Duration(cfg.RateCacheTTLMinutes)*time.Minute)
	analyticsH := handler.NewAnalyticsHandler(analyticsSvc)
	suggestH := handler.NewSuggestHandler(suggestSvc)

	workerHandlers := &worker.WorkerHandlers{
		Suggest: worker.NewSuggestWorker(suggestSvc, ledgerSvc, dispatcher, rdb),
	}

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, suggestCB))

	// Rate check, read-only by product name
	r.GET("/v1/rate/:name", rateCheckH.GetByName)

	v1 := r.Group("/v1")
	{
		products := v1.Group("/products")
		{
			products.POST("", productsH.Create)
			products.GET("", productsH.List)
			products.GET("/:id", productsH.GetByID)
			products.PUT("/:id/rate", productsH.UpdateRate)
			products.PATCH("/:id/details", productsH.AmendDetails)
			products.DELETE("/:id", productsH.Delete)

			products.GET("/:id/history", historyH.List)
			products.DELETE("/:id/history", historyH.DeleteEntry)
			products.DELETE("/:id/current-rate", historyH.Restore)
			products.GET("/:id/history/pdf", historyH.PDF)
		}

		v1.GET("/analytics", analyticsH.Overview)
		v1.POST("/suggest-category", suggestH.Suggest)
	}

	// Swagger UI, only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r, workerHandlers
}
