package banking

import "urja-assistant/internal/common/config"

type Config struct {
	WindowMinutes int
}

func NewConfig(cfg *config.Config) *Config {
	return &Config{WindowMinutes: cfg.Windows.Minutes("banking")}
}
