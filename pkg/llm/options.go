package llm

import (
	"time"
)

const (
	defaultURL          = "https://api.groq.com"
	defaultModel        = "llama-3.1-70b-versatile"
	defaultAPIKeyEnvVar = "GROQ_API_KEY"
	defaultTimeout      = 60 * time.Second
)

// Options are options for the completion client.
type Options struct {
	// URL is the base url of an openai-style chat completions service.
	URL string

	// Model to request.
	Model string

	// APIKeyEnvVar is the environment variable holding the api key.
	// Defaults to "GROQ_API_KEY".
	APIKeyEnvVar string

	// Timeout per request.
	Timeout time.Duration
}

func (o *Options) SetDefaults() {
	if o.URL == "" {
		o.URL = defaultURL
	}
	if o.Model == "" {
		o.Model = defaultModel
	}
	if o.APIKeyEnvVar == "" {
		o.APIKeyEnvVar = defaultAPIKeyEnvVar
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
}
