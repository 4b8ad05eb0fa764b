package config

type ExchangeRateConfig struct {
	// 汇率记录ID，如 MNT_CNY
	RateID string `yaml:"rate_id"`
}

func ProvideExchangeRateConfig(cfg *Config) *ExchangeRateConfig {
	return cfg.ExchangeRate
}
