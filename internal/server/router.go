package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobfinder-backend/internal/jobsearch"
	"jobfinder-backend/internal/jobsearch/apify"
	"jobfinder-backend/internal/llm/groq"
	"jobfinder-backend/internal/pipeline"
	"jobfinder-backend/internal/shared/config"
	"jobfinder-backend/internal/shared/server/middleware"
	"jobfinder-backend/internal/shared/server/respond"
	"jobfinder-backend/internal/shared/telemetry"
)

// Build wires the external clients and pipeline, then constructs the router.
// A missing Groq credential is fatal here: the analysis half cannot run
// without it. A missing Apify token only degrades the job-search half.
func Build(cfg config.Config) (*gin.Engine, error) {
	llmClient, err := groq.NewClient(groq.DefaultBaseURL, cfg.GroqAPIKey, cfg.GroqModel, &http.Client{Timeout: cfg.GroqTimeout})
	if err != nil {
		return nil, err
	}

	var searcher jobsearch.Searcher
	if cfg.ApifyToken != "" {
		apifyClient, err := apify.NewClient(apify.DefaultBaseURL, cfg.ApifyToken, cfg.ApifyActorID, &http.Client{Timeout: cfg.ApifyTimeout})
		if err != nil {
			return nil, err
		}
		searcher = apifyClient
	} else {
		telemetry.Warn("jobsearch.disabled", map[string]any{
			"reason": "APIFY_API_TOKEN not set",
		})
	}

	runner := &pipeline.Runner{
		LLM:             llmClient,
		Searcher:        searcher,
		DefaultLocation: cfg.DefaultLocation,
	}

	return NewRouter(cfg, NewHandler(runner)), nil
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config, handler *Handler) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
	)

	r.GET("/", serveIndex)

	api := r.Group("/api")
	api.GET("", apiIndex)
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	handler.RegisterRoutes(api)

	return r
}

func apiIndex(c *gin.Context) {
	respond.OK(c, gin.H{
		"message": "Welcome to JagirSathi API",
		"endpoints": gin.H{
			"/api/complete-analysis": "POST - Complete resume analysis + job search",
			"/api/health":            "GET - Liveness check",
		},
	})
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
