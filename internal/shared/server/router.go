package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mineaction-backend/internal/documents"
	"mineaction-backend/internal/riskanalysis"
	"mineaction-backend/internal/shared/config"
	"mineaction-backend/internal/shared/metrics"
	"mineaction-backend/internal/shared/server/middleware"
	"mineaction-backend/internal/shared/server/respond"
)

// RouterDeps carries the handlers the router wires up.
type RouterDeps struct {
	Config              config.Config
	DocumentHandler     *documents.Handler
	RiskAnalysisHandler *riskanalysis.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Registered before the middleware chain so scrapes need no identity.
	r.GET("/metrics", metrics.Handler())

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(deps.Config.Env),
		middleware.RateLimit(middleware.RateLimitConfig{
			DefaultGroup: "DEFAULT",
			GroupFor: func(c *gin.Context) string {
				switch {
				case c.Request.Method == http.MethodGet && c.FullPath() == "/api/v1/documents/:id/status":
					return "POLLING"
				case c.Request.Method == http.MethodPost && c.FullPath() == "/api/v1/documents/upload":
					return "UPLOAD"
				default:
					return "DEFAULT"
				}
			},
			Rules: map[string]middleware.RateLimitRule{
				"DEFAULT": {Rate: 10, Burst: 30},
				"UPLOAD":  {Rate: 1, Burst: 10},
				"POLLING": {Rate: 5, Burst: 20},
			},
		}),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	if deps.DocumentHandler != nil {
		deps.DocumentHandler.RegisterRoutes(api)
	}
	if deps.RiskAnalysisHandler != nil {
		deps.RiskAnalysisHandler.RegisterRoutes(api)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
