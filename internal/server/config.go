package server

import "time"

// Config holds server configuration.
type Config struct {
	// Server settings
	Host string
	Port int

	// CORS settings
	CORSEnabled bool
	CORSOrigins []string

	// Authentication settings
	AuthEnabled bool
	AuthHeader  string
	AuthKey     string // Falls back to APIRUNNER_API_KEY when empty

	// Performance settings
	RateLimit      int      // Requests per minute per IP (0 to disable)
	TrustedProxies []string // IPs or CIDRs allowed to set X-Forwarded-For
	PlanTTL        time.Duration

	// HTTP timeouts
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultConfig returns a Config with sensible defaults. The write timeout
// leaves room for a dataset build of many sequential detail calls.
func DefaultConfig() Config {
	return Config{
		Host:         "localhost",
		Port:         8080,
		CORSEnabled:  false,
		CORSOrigins:  []string{},
		AuthEnabled:  false,
		AuthHeader:   "X-API-Key",
		RateLimit:    100,
		PlanTTL:      15 * time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}
}
