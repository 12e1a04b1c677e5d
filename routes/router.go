package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/cppla/blogapi/cache"
	"github.com/cppla/blogapi/config"
	"github.com/cppla/blogapi/controllers"
	"github.com/cppla/blogapi/middleware"
	"github.com/cppla/blogapi/services"
	"github.com/cppla/blogapi/utils"
)

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	Config config.AppConfig
	DB     *gorm.DB
	Cache  cache.Store
	Tokens *utils.TokenManager
	Logger *zap.Logger
}

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(d Deps) *gin.Engine {
	cfg := d.Config
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}
	logger := d.Logger
	if logger == nil {
		logger = utils.Logger
	}
	store := d.Cache
	if store == nil {
		store = cache.NewMemoryStore()
	}

	r := gin.New()
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.ErrorLogger(d.DB, cfg.Debug))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
		// credentials cannot be combined with a wildcard origin
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", healthHandler(d.DB))
	r.GET("/metrics", middleware.MetricsHandler())

	reader := services.NewCategoryReader(d.DB, store, cfg.CategoryCacheTTL)
	accountController := controllers.NewAccountController(d.DB, d.Tokens)
	blogController := controllers.NewBlogController(d.DB)
	categoryController := controllers.NewCategoryController(d.DB, reader)
	statsController := controllers.NewStatsController(d.DB)

	account := r.Group("/account")
	account.Use(middleware.RateLimit(cfg.RateLimitPerMinute))
	account.POST("/register/", accountController.Register)
	account.POST("/login/", accountController.Login)
	account.POST("/token/refresh/", accountController.RefreshToken)

	blog := r.Group("/blog")
	blog.Use(middleware.AuthRequired(d.DB, d.Tokens))
	blog.GET("/", blogController.ListBlogs)
	blog.POST("/", blogController.CreateBlog)
	blog.GET("/category/", categoryController.ListCategories)
	blog.POST("/category/", categoryController.CreateCategory)
	blog.GET("/stats/", statsController.GetStats)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Failure(ctx, http.StatusNotFound, "Not found.", nil)
	})

	return r
}

func healthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx.Request.Context())
		}
		if err != nil {
			utils.Failure(ctx, http.StatusServiceUnavailable, "Database unavailable", nil)
			return
		}
		utils.Success(ctx, "", gin.H{"status": "ok"})
	}
}
