package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like POWCAST_BASE_URL
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// Environment overlay, ignored if absent
	viper.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = viper.MergeInConfig()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadEnvFile() {
	// Try multiple paths (for running from different directories)
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}
	for _, p := range possiblePaths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			return
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "urja-assistant"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 5050
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
	if cfg.Powcast.Timeout == 0 {
		cfg.Powcast.Timeout = 10
	}
	if cfg.Powcast.PriceCap == 0 {
		cfg.Powcast.PriceCap = 10
	}
	if cfg.Powcast.CurrencySymbol == "" {
		cfg.Powcast.CurrencySymbol = "₹"
	}
	if cfg.Embedding.Timeout == 0 {
		cfg.Embedding.Timeout = 10
	}
	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = "all-MiniLM-L6-v2"
	}
	if cfg.NLP.IntentThreshold == 0 {
		cfg.NLP.IntentThreshold = 0.65
	}
	if cfg.NLP.NameTolerance == 0 {
		cfg.NLP.NameTolerance = 0.75
	}
	if cfg.NLP.FieldTolerance == 0 {
		cfg.NLP.FieldTolerance = 0.85
	}
	if len(cfg.NLP.SemanticIntents) == 0 {
		cfg.NLP.SemanticIntents = []string{
			"procurement", "banking", "plant_info", "iex", "mod", "demand", "cost_per_block",
		}
	}
	if cfg.NLP.Timezone == "" {
		cfg.NLP.Timezone = "Asia/Kolkata"
	}
	if cfg.Windows.Default == 0 {
		cfg.Windows.Default = 15
	}
	if cfg.Windows.IEX == 0 {
		cfg.Windows.IEX = 1
	}
	if cfg.Windows.Demand == 0 {
		cfg.Windows.Demand = 1
	}
	if cfg.Windows.MOD == 0 {
		cfg.Windows.MOD = cfg.Windows.Default
	}
	if cfg.Windows.Banking == 0 {
		cfg.Windows.Banking = cfg.Windows.Default
	}
	if cfg.Windows.Procurement == 0 {
		cfg.Windows.Procurement = cfg.Windows.Default
	}
}

// validateConfig fails fast on missing required settings; per-request code must
// never discover a hole in the configuration.
func validateConfig(cfg *Config) error {
	if cfg.Powcast.BaseURL == "" {
		return fmt.Errorf("powcast.base_url is required (set POWCAST_BASE_URL or configs/config.yaml)")
	}
	if cfg.Embedding.Enabled && cfg.Embedding.BaseURL == "" {
		return fmt.Errorf("embedding.base_url is required when embedding.enabled is true")
	}
	if cfg.NLP.IntentThreshold < -1 || cfg.NLP.IntentThreshold > 1 {
		return fmt.Errorf("nlp.intent_threshold must be in [-1,1], got %v", cfg.NLP.IntentThreshold)
	}
	return nil
}
