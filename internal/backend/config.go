package backend

import "time"

// Config holds the survey backend settings. Fields are read from the
// environment under the HH_API_ prefix.
type Config struct {
	URL     string        `env:"URL"`
	Token   string        `env:"TOKEN"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"30s"`
}

// DefaultTimeout bounds every backend call when Config.Timeout is unset.
const DefaultTimeout = 30 * time.Second

// Configured reports whether a backend URL is set.
func (c Config) Configured() bool {
	return c.URL != ""
}

func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}
