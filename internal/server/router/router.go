package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/logimax/analytics/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
func New(analytics *handlers.AnalyticsHandler, ops *handlers.OpsHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Authorization", "Content-Type"},
		MaxAge:          12 * time.Hour,
	}))

	r.POST("/analytics/conversao", analytics.Conversion)
	r.POST("/analytics/tempo", analytics.DeliveryTime)
	r.POST("/analytics/ticket", analytics.Ticket)
	r.POST("/analytics/alertas", analytics.ScanAlerts)
	r.POST("/relatorios/diario", analytics.GenerateDailyReport)
	r.GET("/relatorios", analytics.RecentReports)

	r.GET("/contexto", ops.Context)
	r.POST("/assistente", ops.Ask)
	r.POST("/ifood/sync", ops.SyncWeeklyMetrics)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
