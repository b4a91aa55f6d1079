package config

func loadDevelopmentConfig(cfg *Config) {
	cfg.DatabaseDebug = true
	if cfg.DatabaseFilePath == "" {
		cfg.DatabaseFilePath = "./tmp/data.sqlite"
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "development-secret"
	}
	if cfg.ServerHost == "" {
		cfg.ServerHost = "127.0.0.1"
	}
}
