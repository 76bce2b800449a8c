package plantinfo

import "urja-assistant/internal/common/config"

type Config struct {
	NameTolerance  float64
	FieldTolerance float64
	CurrencySymbol string
}

func NewConfig(cfg *config.Config) *Config {
	return &Config{
		NameTolerance:  cfg.NLP.NameTolerance,
		FieldTolerance: cfg.NLP.FieldTolerance,
		CurrencySymbol: cfg.Powcast.CurrencySymbol,
	}
}
