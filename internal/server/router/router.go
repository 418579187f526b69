package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/goatledger/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares. webhook may be
// nil when the WhatsApp channel is disabled.
func New(ledger *handlers.LedgerHandler, webhook *handlers.WebhookHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.GET("/ledger", ledger.GetLedger)
	api.GET("/summary", ledger.GetSummary)
	api.POST("/goats", ledger.AddGoat)
	api.DELETE("/goats/:id", ledger.DeleteGoat)
	api.POST("/goats/:id/records", ledger.AddRecord)
	api.POST("/feed", ledger.AddFeedEntry)
	api.POST("/expenses", ledger.AddExpense)
	api.POST("/income", ledger.AddIncome)

	if webhook != nil {
		r.GET("/webhook", webhook.Verify)
		r.POST("/webhook", webhook.Receive)
	}

	if logger != nil {
		logger.Info("router initialized", zap.Bool("webhook", webhook != nil))
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
