package config

import "time"

// Config is the main application configuration struct.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Powcast   PowcastConfig   `mapstructure:"powcast"`
	Embedding EmbeddingConfig `mapstructure:"embedding"`
	NLP       NLPConfig       `mapstructure:"nlp"`
	Windows   WindowsConfig   `mapstructure:"windows"`
}

// --- Core App/Infrastructure Config ---

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`  // seconds
	WriteTimeout int `mapstructure:"write_timeout"` // seconds
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// PowcastConfig holds settings for the remote grid-data provider.
type PowcastConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	Timeout        int    `mapstructure:"timeout"` // seconds
	PriceCap       int    `mapstructure:"price_cap"`
	CurrencySymbol string `mapstructure:"currency_symbol"`
}

func (p PowcastConfig) HTTPTimeout() time.Duration {
	return time.Duration(p.Timeout) * time.Second
}

// EmbeddingConfig holds settings for the sentence-embedding service used by the
// semantic classifier stage.
type EmbeddingConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
	Timeout int    `mapstructure:"timeout"` // seconds
	Enabled bool   `mapstructure:"enabled"`
}

func (e EmbeddingConfig) HTTPTimeout() time.Duration {
	return time.Duration(e.Timeout) * time.Second
}

// NLPConfig carries the tunable thresholds of the interpretation pipeline.
// The values have no documented derivation; they stay configurable pending
// product calibration.
type NLPConfig struct {
	IntentThreshold float64  `mapstructure:"intent_threshold"` // semantic accept, base value
	NameTolerance   float64  `mapstructure:"name_tolerance"`   // plant-name fuzzy match
	FieldTolerance  float64  `mapstructure:"field_tolerance"`  // field-phrase fuzzy match
	SemanticIntents []string `mapstructure:"semantic_intents"`
	Timezone        string   `mapstructure:"timezone"`
}

// WindowsConfig holds per-intent time-window sizes in minutes.
type WindowsConfig struct {
	Default     int `mapstructure:"default"`
	IEX         int `mapstructure:"iex"`
	Demand      int `mapstructure:"demand"`
	MOD         int `mapstructure:"mod"`
	Banking     int `mapstructure:"banking"`
	Procurement int `mapstructure:"procurement"`
}

// Minutes returns the window size for an intent label, falling back to Default.
func (w WindowsConfig) Minutes(intent string) int {
	switch intent {
	case "iex":
		return w.IEX
	case "demand":
		return w.Demand
	case "mod":
		return w.MOD
	case "banking":
		return w.Banking
	case "procurement":
		return w.Procurement
	}
	return w.Default
}
