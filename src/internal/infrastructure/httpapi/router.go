package httpapi

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	appnotification "github.com/jackyeh168/kuro_loyalty/src/internal/application/notification"
	"github.com/jackyeh168/kuro_loyalty/src/internal/bootstrap"
	"github.com/jackyeh168/kuro_loyalty/src/internal/infrastructure/auth"
	"github.com/jackyeh168/kuro_loyalty/src/internal/infrastructure/metrics"
	"github.com/jackyeh168/kuro_loyalty/src/internal/infrastructure/qrimage"
	"go.uber.org/zap"
)

// SweepRunner 手動觸發召回掃描；ran 為 false 表示已有掃描進行中而略過
type SweepRunner interface {
	RunOnce(ctx context.Context) (result *appnotification.SweepResult, ran bool, err error)
}

// Deps 路由所需依賴
type Deps struct {
	UseCases       *bootstrap.UseCases
	Tokens         *auth.TokenService
	QR             *qrimage.Generator
	Sweep          SweepRunner
	Metrics        *metrics.Metrics
	VAPIDPublicKey string
	AllowOrigins   []string
	SecureCookies  bool
	Ping           func(ctx context.Context) error
	Logger         *zap.Logger
}

// Handler 所有 HTTP handler 的接收者
type Handler struct {
	uc     *bootstrap.UseCases
	tokens *auth.TokenService
	qr     *qrimage.Generator
	sweep  SweepRunner
	vapid  string
	secure bool
	ping   func(ctx context.Context) error
	log    *zap.Logger
}

// NewRouter 建立 gin engine 並註冊所有路由
func NewRouter(d Deps) *gin.Engine {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	h := &Handler{
		uc:     d.UseCases,
		tokens: d.Tokens,
		qr:     d.QR,
		sweep:  d.Sweep,
		vapid:  d.VAPIDPublicKey,
		secure: d.SecureCookies,
		ping:   d.Ping,
		log:    d.Logger,
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(d.Logger))
	r.Use(cors.New(corsConfig(d.AllowOrigins)))
	if d.Metrics != nil {
		r.Use(d.Metrics.GinMiddleware())
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	r.GET("/health", h.health)

	api := r.Group("/api")

	customers := api.Group("/customers")
	customers.POST("/register", h.registerCustomer)
	customers.POST("/login", h.loginCustomer)
	customers.GET("/me", d.Tokens.RequireCustomer(), h.me)
	customers.POST("/location", d.Tokens.RequireCustomer(), h.updateLocation)

	api.POST("/admin/login", h.loginAdmin)
	admin := api.Group("/admin", d.Tokens.RequireAdmin())
	admin.POST("/scan", h.scan)
	admin.GET("/customers", h.listCustomers)
	admin.GET("/customers/:id/points", h.customerPoints)
	admin.GET("/dashboard", h.dashboard)
	admin.GET("/promotions", h.listPromotions)
	admin.GET("/promotions/:id", h.getPromotion)
	admin.POST("/promotions", h.createPromotion)
	admin.PUT("/promotions/:id", h.updatePromotion)
	admin.DELETE("/promotions/:id", h.deletePromotion)
	admin.POST("/push/send", h.sendManualPush)

	push := api.Group("/push")
	push.GET("/vapid-key", h.vapidKey)
	push.GET("/status", d.Tokens.RequireCustomer(), h.pushStatus)
	push.POST("/subscribe", d.Tokens.RequireCustomer(), h.subscribe)
	push.POST("/evaluate-mandatory", d.Tokens.RequireAdmin(), h.evaluateMandatory)

	api.GET("/promotions", h.livePromotions)
	api.GET("/qr/image", h.qrImage)

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

// requestLogger 每個請求一行存取紀錄
func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		switch {
		case status >= 500:
			log.Error("http request", fields...)
		case status >= 400:
			log.Warn("http request", fields...)
		default:
			log.Info("http request", fields...)
		}
	}
}
