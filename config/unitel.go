package config

import "time"

// UnitelConfig Unitel 第三方 API 配置
type UnitelConfig struct {
	BaseURL  string `yaml:"base_url"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`

	// 单次请求超时（秒），超过即按 timeout 归类
	TimeoutSeconds int `yaml:"timeout_seconds"`

	// 资费/账单缓存TTL（秒）
	CacheTTLSeconds int `yaml:"cache_ttl_seconds"`

	// Token 兜底TTL（秒），仅用于限制陈旧度，失效主要依赖 401 被动刷新
	TokenTTLSeconds int `yaml:"token_ttl_seconds"`
}

func (u *UnitelConfig) Timeout() time.Duration {
	if u.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(u.TimeoutSeconds) * time.Second
}

func (u *UnitelConfig) CacheTTL() time.Duration {
	if u.CacheTTLSeconds <= 0 {
		return 3 * time.Minute
	}
	return time.Duration(u.CacheTTLSeconds) * time.Second
}

func (u *UnitelConfig) TokenTTL() time.Duration {
	if u.TokenTTLSeconds <= 0 {
		return time.Hour
	}
	return time.Duration(u.TokenTTLSeconds) * time.Second
}

func ProvideUnitelConfig(cfg *Config) *UnitelConfig {
	return cfg.Unitel
}
