package market

import "urja-assistant/internal/common/config"

type Config struct {
	MODWindowMinutes    int
	IEXWindowMinutes    int
	DemandWindowMinutes int
	PriceCap            int
	CurrencySymbol      string
}

func NewConfig(cfg *config.Config) *Config {
	return &Config{
		MODWindowMinutes:    cfg.Windows.Minutes("mod"),
		IEXWindowMinutes:    cfg.Windows.Minutes("iex"),
		DemandWindowMinutes: cfg.Windows.Minutes("demand"),
		PriceCap:            cfg.Powcast.PriceCap,
		CurrencySymbol:      cfg.Powcast.CurrencySymbol,
	}
}
