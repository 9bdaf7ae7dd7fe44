package config

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	SecretKey      string `yaml:"secret_key"`
	AccessTokenTTL string `yaml:"access_token_ttl"`
}

// RememberMeConfig : настройки персистентного remember-me входа
type RememberMeConfig struct {
	CookieName    string `yaml:"cookie_name"`
	Validity      string `yaml:"validity"`
	CreateRetries int    `yaml:"create_retries"`
}

type AdminConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type TTL struct {
	IdentityCache int `yaml:"identityCache"`
}
