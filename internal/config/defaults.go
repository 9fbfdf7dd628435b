package config

import "time"

const (
	DefaultHTTPAddress     = ":3000"
	DefaultTokenIssuer     = "natours"
	DefaultTokenDuration   = 90 * 24 * time.Hour
	DefaultCookieExpires   = 90 * 24 * time.Hour
	DefaultBcryptCost      = 12
	DefaultResetTokenTTL   = 10 * time.Minute
	DefaultRequestTimeout  = 30 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultBodyLimit       = 10 << 10
	DefaultRateLimit       = 100
	DefaultRateWindow      = time.Hour
	DefaultMailPort        = 587
	DefaultMailFrom        = "Natours <hello@natours.io>"
	DefaultDotEnvPath      = "config.env"
	DefaultVersion         = "dev"
)

func defaults() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			Env:           EnvDevelopment,
			LogLevel:      "debug",
			TokenIssuer:   DefaultTokenIssuer,
			TokenDuration: DefaultTokenDuration,
			CookieExpires: DefaultCookieExpires,
			BcryptCost:    DefaultBcryptCost,
			ResetTokenTTL: DefaultResetTokenTTL,
			Version:       DefaultVersion,
		},
		Server: Server{
			HTTPAddress:     DefaultHTTPAddress,
			RequestTimeout:  DefaultRequestTimeout,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Mail: Mail{
			Port: DefaultMailPort,
			From: DefaultMailFrom,
		},
		Security: Security{
			RateLimit:  DefaultRateLimit,
			RateWindow: DefaultRateWindow,
			BodyLimit:  DefaultBodyLimit,
		},
	}
}
