package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jackyeh168/kuro_loyalty/src/internal/infrastructure/config"
)

// New 建立全域 logger
//
// 開發環境使用 development 設定；production 輸出 JSON（timestamp / severity）。
func New(cfg *config.Config) (*zap.Logger, error) {
	log, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}

	if cfg != nil && cfg.IsProduction() {
		prod := zap.NewProductionConfig()
		prod.EncoderConfig.TimeKey = "timestamp"
		prod.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		prod.EncoderConfig.StacktraceKey = "stacktrace"
		prod.EncoderConfig.LevelKey = "severity"
		prod.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		prod.EncoderConfig.CallerKey = "caller"
		prod.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
		prod.Encoding = "json"
		prod.OutputPaths = []string{"stdout"}
		prod.ErrorOutputPaths = []string{"stderr"}

		log, err = prod.Build()
		if err != nil {
			return nil, err
		}
	}

	if cfg != nil {
		log = log.With(
			zap.String("env", cfg.AppEnv),
			zap.String("service_name", cfg.AppName),
		)
	}

	zap.ReplaceGlobals(log)
	return log, nil
}
