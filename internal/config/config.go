package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/nurpe/haulbot/internal/pricing"
)

type HTTPConfig struct {
	Host string
	Port int
}

type DBConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime string
}

type AuthConfig struct {
	AccessSecret string
}

type CatalogConfig struct {
	CommoditiesPath string
	SystemsPath     string
}

type ContractsConfig struct {
	TTL                time.Duration
	SweepInterval      time.Duration
	CompletedRetention time.Duration
	ExpiredRetention   time.Duration
	ListLimit          int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type Config struct {
	Environment string
	HTTP        HTTPConfig
	DB          DBConfig
	Auth        AuthConfig
	Catalog     CatalogConfig
	Pricing     pricing.Config
	Contracts   ContractsConfig
	CORS        CORSConfig
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AutomaticEnv()

	setDefaults(v)
	_ = v.ReadInConfig()

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Host: v.GetString("HTTP_HOST"),
			Port: v.GetInt("HTTP_PORT"),
		},
		DB: DBConfig{
			DSN:             v.GetString("DB_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetString("DB_CONN_MAX_LIFETIME"),
		},
		Auth: AuthConfig{
			AccessSecret: v.GetString("JWT_ACCESS_SECRET"),
		},
		Catalog: CatalogConfig{
			CommoditiesPath: v.GetString("CATALOG_COMMODITIES_PATH"),
			SystemsPath:     v.GetString("CATALOG_SYSTEMS_PATH"),
		},
		Pricing: pricing.Config{
			RiskPremiumRate:     v.GetFloat64("PRICING_RISK_PREMIUM_RATE"),
			FuelRatePerLy:       v.GetFloat64("PRICING_FUEL_RATE_PER_LY"),
			LongHaulThresholdLy: v.GetFloat64("PRICING_LONG_HAUL_THRESHOLD_LY"),
			LongHaulMultiplier:  v.GetFloat64("PRICING_LONG_HAUL_MULTIPLIER"),
			AllowLocalTransfer:  v.GetBool("PRICING_ALLOW_LOCAL_TRANSFER"),
		},
		Contracts: ContractsConfig{
			TTL:                v.GetDuration("CONTRACTS_TTL"),
			SweepInterval:      v.GetDuration("CONTRACTS_SWEEP_INTERVAL"),
			CompletedRetention: v.GetDuration("CONTRACTS_COMPLETED_RETENTION"),
			ExpiredRetention:   v.GetDuration("CONTRACTS_EXPIRED_RETENTION"),
			ListLimit:          v.GetInt("CONTRACTS_LIST_LIMIT"),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	defaults := pricing.DefaultConfig()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("HTTP_HOST", "0.0.0.0")
	v.SetDefault("HTTP_PORT", 7090)
	v.SetDefault("CATALOG_COMMODITIES_PATH", "data/commodities.json")
	v.SetDefault("CATALOG_SYSTEMS_PATH", "data/systems.json")
	v.SetDefault("PRICING_RISK_PREMIUM_RATE", defaults.RiskPremiumRate)
	v.SetDefault("PRICING_FUEL_RATE_PER_LY", defaults.FuelRatePerLy)
	v.SetDefault("PRICING_LONG_HAUL_THRESHOLD_LY", defaults.LongHaulThresholdLy)
	v.SetDefault("PRICING_LONG_HAUL_MULTIPLIER", defaults.LongHaulMultiplier)
	v.SetDefault("PRICING_ALLOW_LOCAL_TRANSFER", false)
	v.SetDefault("CONTRACTS_TTL", "24h")
	v.SetDefault("CONTRACTS_SWEEP_INTERVAL", "5m")
	v.SetDefault("CONTRACTS_COMPLETED_RETENTION", "168h")
	v.SetDefault("CONTRACTS_EXPIRED_RETENTION", "1h")
	v.SetDefault("CONTRACTS_LIST_LIMIT", 10)
}

func validate(cfg *Config) error {
	if cfg.HTTP.Port <= 0 || cfg.HTTP.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if cfg.Pricing.RiskPremiumRate < 0 {
		return fmt.Errorf("PRICING_RISK_PREMIUM_RATE must not be negative")
	}
	if cfg.Pricing.FuelRatePerLy < 0 {
		return fmt.Errorf("PRICING_FUEL_RATE_PER_LY must not be negative")
	}
	if cfg.Pricing.LongHaulThresholdLy < 0 {
		return fmt.Errorf("PRICING_LONG_HAUL_THRESHOLD_LY must not be negative")
	}
	if cfg.Pricing.LongHaulMultiplier < 1 {
		return fmt.Errorf("PRICING_LONG_HAUL_MULTIPLIER must be at least 1")
	}
	if cfg.Contracts.TTL <= 0 {
		return fmt.Errorf("CONTRACTS_TTL must be positive")
	}
	if cfg.Contracts.SweepInterval <= 0 {
		return fmt.Errorf("CONTRACTS_SWEEP_INTERVAL must be positive")
	}
	if cfg.Contracts.CompletedRetention < 0 || cfg.Contracts.ExpiredRetention < 0 {
		return fmt.Errorf("contract retention windows must not be negative")
	}
	if cfg.Contracts.ListLimit <= 0 {
		return fmt.Errorf("CONTRACTS_LIST_LIMIT must be positive")
	}
	return nil
}

// ValidateServer checks the settings only the HTTP server needs.
func (c *Config) ValidateServer() error {
	if c.Auth.AccessSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	return nil
}

func (c *Config) ArchiveEnabled() bool {
	return c.DB.DSN != ""
}

func parseList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	items := strings.Split(raw, ",")
	result := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}
