package render

import (
	"time"
)

const (
	defaultURL          = "https://os.gan.ai"
	defaultAPIKeyEnvVar = "GANOS_API_KEY"
	defaultTimeout      = 30 * time.Second
)

// Options are options for the render service client.
type Options struct {
	// URL is the base url of the render service.
	URL string

	// APIKeyEnvVar is the environment variable holding the service api key.
	// Defaults to "GANOS_API_KEY".
	APIKeyEnvVar string

	// Timeout per request.
	Timeout time.Duration
}

func (o *Options) SetDefaults() {
	if o.URL == "" {
		o.URL = defaultURL
	}
	if o.APIKeyEnvVar == "" {
		o.APIKeyEnvVar = defaultAPIKeyEnvVar
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
}
