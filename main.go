package main

import (
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/toolscout/backend/audit"
	"github.com/toolscout/backend/config"
	"github.com/toolscout/backend/logging"
	"github.com/toolscout/backend/metrics"
	"github.com/toolscout/backend/middleware"
	"github.com/toolscout/backend/onpage"
	"github.com/toolscout/backend/pricing"
	"github.com/toolscout/backend/seodata"
	"github.com/toolscout/backend/stats"
)

var (
	auditService *audit.Service
	extractor    *pricing.Extractor
	collected    *metrics.Metrics
	usageStats   *stats.Storage
	rateLimiter  *middleware.RateLimiter
)

func setupGinMode() {
	// Set Gin mode based on environment variable
	mode := os.Getenv("GIN_MODE")
	if mode == "" {
		// Default to release mode if not specified
		mode = gin.ReleaseMode
	}
	gin.SetMode(mode)
}

func main() {
	// Load environment configuration
	config.LoadEnv()
	cfg := config.FromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration: ", err)
	}
	if !cfg.HasProviderCredentials() {
		log.Println("No SEO provider credentials configured; audits will carry empty metrics")
	}

	// Set up Gin mode
	setupGinMode()

	// Initialize services
	collected = metrics.New()

	storage, err := stats.NewStorage(cfg.DataDir)
	if err != nil {
		log.Fatal("Failed to initialize stats storage: ", err)
	}
	usageStats = storage
	defer func() {
		if err := storage.Shutdown(); err != nil {
			log.Printf("Failed to shut down stats storage: %v", err)
		}
	}()

	gateway := seodata.NewClient(seodata.Options{
		BaseURL:   cfg.ProviderBaseURL,
		APIKey:    cfg.ProviderAPIKey,
		Login:     cfg.ProviderLogin,
		Password:  cfg.ProviderPassword,
		Timeout:   cfg.ProviderTimeout,
		UserAgent: cfg.UserAgent,
	}, collected)

	var prober audit.PageProber
	if cfg.OnPageEnabled {
		prober = onpage.New(cfg.OnPageTimeout, cfg.UserAgent)
	}

	auditService = audit.NewService(gateway, prober, storage, collected, audit.Options{
		CacheSize: cfg.AuditCacheSize,
		CacheTTL:  cfg.AuditCacheTTL,
	})
	extractor = pricing.New()
	rateLimiter = middleware.NewRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst)

	// Initialize request statistics
	visitorStats := logging.Initialize()

	// Initialize Gin router
	r := gin.Default()

	// Add middlewares
	r.Use(middleware.ErrorHandler(collected))
	r.Use(rateLimiter.RateLimit())

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	r.Use(middleware.StatsMiddleware(visitorStats))

	// API routes
	api := r.Group("/api")
	{
		// Health check
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status": "ok",
			})
		})

		// Domain audit and pricing extraction endpoints
		api.POST("/audit", auditDomain)
		api.POST("/pricing/extract", extractPricing)

		// Statistics endpoint
		api.GET("/statistics", func(c *gin.Context) {
			c.JSON(http.StatusOK, visitorStats.GetStatistics())
		})
	}

	// Prometheus exposition for the dedicated registry
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(collected.Registry, promhttp.HandlerOpts{})))

	log.Printf("Server starting on http://localhost:%s\n", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func auditDomain(c *gin.Context) {
	var request struct {
		Domain string `json:"domain"`
		URL    string `json:"url"`
	}

	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid domain provided",
		})
		return
	}
	target := request.Domain
	if target == "" {
		target = request.URL
	}

	// Keep the normalized domain available to the stats middleware
	c.Set("auditDomain", seodata.NormalizeHost(target))

	result, err := auditService.Audit(c.Request.Context(), target)
	if err != nil {
		if errors.Is(err, audit.ErrInvalidDomain) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid domain provided",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to audit domain: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

func extractPricing(c *gin.Context) {
	var request struct {
		Text string `json:"text"`
	}

	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	start := time.Now()
	tiers := extractor.Extract(request.Text)
	collected.IncExtraction(len(tiers))
	if usageStats != nil {
		usageStats.RecordExtraction()
	}
	log.Printf("Extracted %d pricing tiers in %s", len(tiers), time.Since(start))

	c.JSON(http.StatusOK, gin.H{
		"tiers": tiers,
	})
}
