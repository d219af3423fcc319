package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"cvscreen/internal/handler"
	"cvscreen/internal/middleware"
	"cvscreen/internal/service"
)

// Handlers groups the HTTP handlers mounted by Setup.
type Handlers struct {
	Auth        *handler.AuthHandler
	Analyze     *handler.AnalyzeHandler
	Results     *handler.ResultsHandler
	Submissions *handler.SubmissionHandler
	KeywordList *handler.KeywordListHandler
	Health      *handler.HealthHandler
}

// Options carries the router settings taken from config.
type Options struct {
	AllowAnonymous bool
	CORSOrigins    []string
	// MaxMultipartMemory bounds the in-memory part of a multipart upload.
	MaxMultipartMemory int64
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(authSvc service.AuthService, h Handlers, opts Options) *gin.Engine {
	r := gin.New()
	if opts.MaxMultipartMemory > 0 {
		r.MaxMultipartMemory = opts.MaxMultipartMemory
	}

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(opts.CORSOrigins))

	// Health checks
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)

	// API docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.RefreshToken)

	// Analysis routes - anonymous access depends on config
	analysis := v1.Group("")
	analysis.Use(middleware.OptionalAuth(authSvc, opts.AllowAnonymous))
	analysis.POST("/analyze", h.Analyze.Analyze)
	analysis.GET("/results/:id", h.Results.Get)
	analysis.GET("/results/:id/cvs/:cvId", h.Results.GetCv)
	analysis.GET("/results/:id/export", h.Results.Export)

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))
	protected.GET("/me", h.Auth.Me)
	protected.GET("/submissions", h.Submissions.List)

	lists := protected.Group("/keyword-lists")
	lists.POST("", h.KeywordList.Create)
	lists.GET("", h.KeywordList.List)
	lists.GET("/:id", h.KeywordList.GetByID)
	lists.DELETE("/:id", h.KeywordList.Delete)

	return r
}
