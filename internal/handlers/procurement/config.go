package procurement

import "urja-assistant/internal/common/config"

type Config struct {
	WindowMinutes  int
	PriceCap       int
	NameTolerance  float64
	FieldTolerance float64
}

func NewConfig(cfg *config.Config) *Config {
	return &Config{
		WindowMinutes:  cfg.Windows.Minutes("procurement"),
		PriceCap:       cfg.Powcast.PriceCap,
		NameTolerance:  cfg.NLP.NameTolerance,
		FieldTolerance: cfg.NLP.FieldTolerance,
	}
}
