package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"gorm.io/gorm"

	appcustomer "github.com/jackyeh168/kuro_loyalty/src/internal/application/customer"
	"github.com/jackyeh168/kuro_loyalty/src/internal/bootstrap"
	"github.com/jackyeh168/kuro_loyalty/src/internal/infrastructure/auth"
	"github.com/jackyeh168/kuro_loyalty/src/internal/infrastructure/config"
	"github.com/jackyeh168/kuro_loyalty/src/internal/infrastructure/events"
	"github.com/jackyeh168/kuro_loyalty/src/internal/infrastructure/httpapi"
	"github.com/jackyeh168/kuro_loyalty/src/internal/infrastructure/lock"
	"github.com/jackyeh168/kuro_loyalty/src/internal/infrastructure/logger"
	"github.com/jackyeh168/kuro_loyalty/src/internal/infrastructure/metrics"
	"github.com/jackyeh168/kuro_loyalty/src/internal/infrastructure/persistence"
	"github.com/jackyeh168/kuro_loyalty/src/internal/infrastructure/persistence/migrations"
	"github.com/jackyeh168/kuro_loyalty/src/internal/infrastructure/push"
	"github.com/jackyeh168/kuro_loyalty/src/internal/infrastructure/qrimage"
	"github.com/jackyeh168/kuro_loyalty/src/internal/infrastructure/scheduler"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to optional YAML config file")
	flag.Parse()

	opts := []fx.Option{
		fx.Provide(
			func() (*config.Config, error) { return loadConfig(*configPath) },
			logger.New,
			metrics.New,
			openDatabase,
			newTokenService,
			newDispatcher,
			newUseCases,
			newMandatorySweep,
			newRouter,
			newHTTPServer,
		),
		fx.Invoke(
			scheduler.Register,
			httpapi.Run,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
	}

	if err := fx.ValidateApp(opts...); err != nil {
		log.Fatalf("fx validation failed: %v", err)
	}

	fx.New(opts...).Run()
}

// loadConfig 載入並驗證設定；VAPID 金鑰或 JWT 密鑰缺漏時直接啟動失敗
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openDatabase 連線並在 HTTP server 啟動前跑完 migration
func openDatabase(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	db, err := persistence.Open(persistence.Config{
		Driver:         cfg.Database.Driver,
		DSN:            cfg.Database.DSN,
		MaxOpenConns:   20,
		MaxIdleConns:   5,
		ConnectRetries: 5,
		RetryDelay:     2 * time.Second,
		Production:     cfg.IsProduction(),
		ShowSQL:        cfg.Database.ShowSQL,
	}, log.Named("db"))
	if err != nil {
		return nil, err
	}

	if _, err := migrations.Run(db, log.Named("migrations")); err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})
	return db, nil
}

func newTokenService(cfg *config.Config) (*auth.TokenService, error) {
	return auth.NewTokenService(auth.TokenConfig{
		CustomerSecret: cfg.JWT.CustomerSecret,
		AdminSecret:    cfg.JWT.AdminSecret,
		CustomerTTL:    cfg.JWT.CustomerTTL,
		AdminTTL:       cfg.JWT.AdminTTL,
	}, nil)
}

func newDispatcher(cfg *config.Config, log *zap.Logger) (*push.WebPushDispatcher, error) {
	return push.NewWebPushDispatcher(push.Config{
		PublicKey:  cfg.VAPID.PublicKey,
		PrivateKey: cfg.VAPID.PrivateKey,
		Subject:    cfg.VAPID.Subject,
		TTL:        cfg.VAPID.TTL,
	}, &http.Client{Timeout: 15 * time.Second}, log.Named("push"))
}

func newUseCases(db *gorm.DB, dispatcher *push.WebPushDispatcher, cfg *config.Config, m *metrics.Metrics, log *zap.Logger) *bootstrap.UseCases {
	return bootstrap.NewUseCases(bootstrap.Infra{
		DB:                db,
		Dispatcher:        dispatcher,
		Hasher:            auth.NewBcryptHasher(0),
		Locker:            lock.NewStripedLocker(lock.DefaultStripes),
		Publisher:         events.NewPublisher(m, log.Named("events")),
		Logger:            log,
		Rules:             cfg.RuleConfig(),
		AntifraudCooldown: cfg.Rules.AntifraudCooldown,
		Zone:              appcustomer.LimaZone,
	})
}

func newMandatorySweep(uc *bootstrap.UseCases, m *metrics.Metrics, cfg *config.Config, log *zap.Logger) *scheduler.MandatorySweep {
	return scheduler.NewMandatorySweep(uc.EvaluateMandatory, m, cfg.Scheduler.MandatoryInterval, log.Named("scheduler"))
}

func newRouter(
	cfg *config.Config,
	uc *bootstrap.UseCases,
	tokens *auth.TokenService,
	dispatcher *push.WebPushDispatcher,
	sweep *scheduler.MandatorySweep,
	m *metrics.Metrics,
	db *gorm.DB,
	log *zap.Logger,
) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	return httpapi.NewRouter(httpapi.Deps{
		UseCases:       uc,
		Tokens:         tokens,
		QR:             qrimage.NewGenerator(cfg.AppBaseURL),
		Sweep:          sweep,
		Metrics:        m,
		VAPIDPublicKey: dispatcher.PublicKey(),
		AllowOrigins:   cfg.CORS.AllowOrigins,
		SecureCookies:  cfg.IsProduction(),
		Ping: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		Logger: log.Named("http"),
	})
}

func newHTTPServer(cfg *config.Config, engine *gin.Engine) *http.Server {
	return httpapi.NewServer(httpapi.ServerConfig{
		Addr:         cfg.Server.Addr,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}, engine)
}
