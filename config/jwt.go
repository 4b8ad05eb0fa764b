package config

type Jwt struct {
	Secret       string `json:"secret" yaml:"secret"`
	ExpiresHours int    `json:"expires_hours" yaml:"expires_hours"`
}
