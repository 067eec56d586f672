package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/notification"
)

// ===========================
// Config 應用程式設定
// ===========================

// Config 由 viper 載入
//
// 來源優先序：環境變數 > config.yaml > 預設值；.env 會先被載入成環境變數。
// 巢狀 key 以底線對應環境變數，例如 DATABASE.DSN → DATABASE_DSN。
type Config struct {
	AppEnv     string `mapstructure:"APP_ENV"`
	AppName    string `mapstructure:"APP_NAME"`
	AppBaseURL string `mapstructure:"APP_BASE_URL"`

	Server struct {
		Addr         string        `mapstructure:"ADDR"`
		ReadTimeout  time.Duration `mapstructure:"READ_TIMEOUT"`
		WriteTimeout time.Duration `mapstructure:"WRITE_TIMEOUT"`
		IdleTimeout  time.Duration `mapstructure:"IDLE_TIMEOUT"`
	} `mapstructure:"HTTP_SERVER"`

	Database struct {
		Driver  string `mapstructure:"DRIVER"`
		DSN     string `mapstructure:"DSN"`
		ShowSQL bool   `mapstructure:"SHOW_SQL"`
	} `mapstructure:"DATABASE"`

	JWT struct {
		CustomerSecret string        `mapstructure:"CUSTOMER_SECRET"`
		AdminSecret    string        `mapstructure:"ADMIN_SECRET"`
		CustomerTTL    time.Duration `mapstructure:"CUSTOMER_TTL"`
		AdminTTL       time.Duration `mapstructure:"ADMIN_TTL"`
	} `mapstructure:"JWT"`

	VAPID struct {
		PublicKey  string        `mapstructure:"PUBLIC_KEY"`
		PrivateKey string        `mapstructure:"PRIVATE_KEY"`
		Subject    string        `mapstructure:"SUBJECT"`
		TTL        time.Duration `mapstructure:"TTL"`
	} `mapstructure:"VAPID"`

	Venue struct {
		Lat float64 `mapstructure:"LAT"`
		Lng float64 `mapstructure:"LNG"`
	} `mapstructure:"VENUE"`

	Rules struct {
		NearbyRadiusKm            float64       `mapstructure:"NEARBY_RADIUS_KM"`
		NearbyPointSuppression    time.Duration `mapstructure:"NEARBY_POINT_SUPPRESSION"`
		NearbyCooldown            time.Duration `mapstructure:"NEARBY_COOLDOWN"`
		MandatoryInterval         time.Duration `mapstructure:"MANDATORY_INTERVAL"`
		MandatoryPointSuppression time.Duration `mapstructure:"MANDATORY_POINT_SUPPRESSION"`
		NearbyLocationFreshness   time.Duration `mapstructure:"NEARBY_LOCATION_FRESHNESS"`
		AntifraudCooldown         time.Duration `mapstructure:"ANTIFRAUD_COOLDOWN"`
	} `mapstructure:"RULES"`

	Scheduler struct {
		MandatoryInterval time.Duration `mapstructure:"MANDATORY_INTERVAL"`
	} `mapstructure:"SCHEDULER"`

	CORS struct {
		AllowOrigins []string `mapstructure:"ALLOW_ORIGINS"`
	} `mapstructure:"CORS"`
}

// IsProduction APP_ENV=production
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// RuleConfig 推播規則門檻
func (c *Config) RuleConfig() notification.RuleConfig {
	return notification.RuleConfig{
		Venue:                     notification.Coordinate{Lat: c.Venue.Lat, Lng: c.Venue.Lng},
		NearbyRadiusKm:            c.Rules.NearbyRadiusKm,
		NearbyPointSuppression:    c.Rules.NearbyPointSuppression,
		NearbyCooldown:            c.Rules.NearbyCooldown,
		MandatoryInterval:         c.Rules.MandatoryInterval,
		MandatoryPointSuppression: c.Rules.MandatoryPointSuppression,
		NearbyLocationFreshness:   c.Rules.NearbyLocationFreshness,
	}
}

// setDefaults 預設值與 DefaultRuleConfig 一致
func setDefaults(v *viper.Viper) {
	rules := notification.DefaultRuleConfig()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_NAME", "kuro-loyalty")
	v.SetDefault("APP_BASE_URL", "http://localhost:3000")

	v.SetDefault("HTTP_SERVER.ADDR", ":3000")
	v.SetDefault("HTTP_SERVER.READ_TIMEOUT", 15*time.Second)
	v.SetDefault("HTTP_SERVER.WRITE_TIMEOUT", 30*time.Second)
	v.SetDefault("HTTP_SERVER.IDLE_TIMEOUT", 60*time.Second)

	v.SetDefault("DATABASE.DRIVER", "sqlite")
	v.SetDefault("DATABASE.DSN", "kuro.db")
	v.SetDefault("DATABASE.SHOW_SQL", false)

	v.SetDefault("JWT.CUSTOMER_SECRET", "")
	v.SetDefault("JWT.ADMIN_SECRET", "")
	v.SetDefault("JWT.CUSTOMER_TTL", 30*24*time.Hour)
	v.SetDefault("JWT.ADMIN_TTL", 12*time.Hour)

	v.SetDefault("VAPID.PUBLIC_KEY", "")
	v.SetDefault("VAPID.PRIVATE_KEY", "")
	v.SetDefault("VAPID.SUBJECT", "mailto:admin@kuro.pe")
	v.SetDefault("VAPID.TTL", 24*time.Hour)

	v.SetDefault("VENUE.LAT", rules.Venue.Lat)
	v.SetDefault("VENUE.LNG", rules.Venue.Lng)

	v.SetDefault("RULES.NEARBY_RADIUS_KM", rules.NearbyRadiusKm)
	v.SetDefault("RULES.NEARBY_POINT_SUPPRESSION", rules.NearbyPointSuppression)
	v.SetDefault("RULES.NEARBY_COOLDOWN", rules.NearbyCooldown)
	v.SetDefault("RULES.MANDATORY_INTERVAL", rules.MandatoryInterval)
	v.SetDefault("RULES.MANDATORY_POINT_SUPPRESSION", rules.MandatoryPointSuppression)
	v.SetDefault("RULES.NEARBY_LOCATION_FRESHNESS", rules.NearbyLocationFreshness)
	v.SetDefault("RULES.ANTIFRAUD_COOLDOWN", 24*time.Hour)

	v.SetDefault("SCHEDULER.MANDATORY_INTERVAL", time.Hour)

	v.SetDefault("CORS.ALLOW_ORIGINS", []string{"http://localhost:3000"})
}

// Load 讀取 .env、config.yaml 與環境變數
//
// configPath 為空時在目前目錄尋找 config.yaml；找不到設定檔不是錯誤。
func Load(configPath string) (*Config, error) {
	// .env 不存在是正常情況（正式環境直接給環境變數）
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.CORS.AllowOrigins = splitOrigins(cfg.CORS.AllowOrigins)
	return &cfg, nil
}

// splitOrigins 環境變數給的是逗號分隔字串
func splitOrigins(in []string) []string {
	var out []string
	for _, item := range in {
		for _, origin := range strings.Split(item, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				out = append(out, origin)
			}
		}
	}
	return out
}

// Validate 啟動前檢查；缺少密鑰時直接失敗
func (c *Config) Validate() error {
	var problems []string

	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		problems = append(problems, fmt.Sprintf("DATABASE.DRIVER must be sqlite or postgres, got %q", c.Database.Driver))
	}
	if strings.TrimSpace(c.Database.DSN) == "" {
		problems = append(problems, "DATABASE.DSN is required")
	}
	if strings.TrimSpace(c.JWT.CustomerSecret) == "" {
		problems = append(problems, "JWT.CUSTOMER_SECRET is required")
	}
	if strings.TrimSpace(c.JWT.AdminSecret) == "" {
		problems = append(problems, "JWT.ADMIN_SECRET is required")
	}
	if c.JWT.CustomerSecret != "" && c.JWT.CustomerSecret == c.JWT.AdminSecret {
		problems = append(problems, "JWT.CUSTOMER_SECRET and JWT.ADMIN_SECRET must differ")
	}
	if strings.TrimSpace(c.VAPID.PublicKey) == "" || strings.TrimSpace(c.VAPID.PrivateKey) == "" {
		problems = append(problems, "VAPID.PUBLIC_KEY and VAPID.PRIVATE_KEY are required (run vapid-keys)")
	}
	if c.Rules.NearbyRadiusKm <= 0 {
		problems = append(problems, "RULES.NEARBY_RADIUS_KM must be positive")
	}
	if c.Scheduler.MandatoryInterval < 0 {
		problems = append(problems, "SCHEDULER.MANDATORY_INTERVAL must not be negative")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}
