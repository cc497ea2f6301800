package api

// Config holds the HTTP surface settings loaded from the environment.
type Config struct {
	BaseDomain     string   `env:"BASE_DOMAIN" envDefault:"univ.live"`
	AllowedOrigins []string `env:"CORS_ALLOW_ORIGINS" envSeparator:","`
	Environment    string   `env:"APP_ENV" envDefault:"development"`
}

// Production reports whether error responses must stay generic.
func (c Config) Production() bool {
	return c.Environment == "production"
}
