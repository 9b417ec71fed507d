package application

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML strings such as
// "30s" or "2m".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the standard library representation.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// ProviderConfig declares one evaluated model: the public name clients
// request it by, the provider that serves it, and the provider-side
// model identifier.
type ProviderConfig struct {
	Name     string `yaml:"name" validate:"required"`
	Provider string `yaml:"provider" validate:"required,oneof=openai groq anthropic google"`
	Model    string `yaml:"model" validate:"required"`
	BaseURL  string `yaml:"base_url" validate:"omitempty,url"`
}

// JudgeConfig selects the judge model and its request parameters.
type JudgeConfig struct {
	Provider    string  `yaml:"provider" validate:"required,oneof=openai groq anthropic google"`
	Model       string  `yaml:"model" validate:"required"`
	Temperature float64 `yaml:"temperature" validate:"min=0,max=1"`
	MaxTokens   int     `yaml:"max_tokens" validate:"min=50,max=2000"`
}

// Config is the full service configuration, loaded from YAML with
// secrets supplied separately through the environment.
type Config struct {
	ListenAddr     string   `yaml:"listen_addr" validate:"required"`
	RequestTimeout Duration `yaml:"request_timeout"`

	// RateLimit caps requests per second per provider client; zero
	// disables limiting. RateBurst defaults to 1 when limiting is on.
	RateLimit float64 `yaml:"rate_limit" validate:"min=0"`
	RateBurst int     `yaml:"rate_burst" validate:"min=0"`

	Providers []ProviderConfig `yaml:"providers" validate:"required,min=1,dive"`
	Judge     JudgeConfig      `yaml:"judge"`

	// Pricing overrides the built-in rate table, in USD per 1000 tokens.
	Pricing map[string]float64 `yaml:"pricing"`
}

// Secrets holds credentials and the store DSN. They never appear in the
// YAML file.
type Secrets struct {
	OpenAIAPIKey    string `envconfig:"OPENAI_API_KEY"`
	GroqAPIKey      string `envconfig:"GROQ_API_KEY"`
	AnthropicAPIKey string `envconfig:"ANTHROPIC_API_KEY"`
	GoogleAPIKey    string `envconfig:"GOOGLE_API_KEY"`

	DatabaseURL       string `envconfig:"LLMETRICS_DATABASE_URL" default:"file:llmetrics.db"`
	DatabaseAuthToken string `envconfig:"LLMETRICS_DATABASE_AUTH_TOKEN"`
}

// DefaultConfig returns the stock setup: both Groq-served models with a
// Gemini judge.
func DefaultConfig() Config {
	return Config{
		ListenAddr:     ":8080",
		RequestTimeout: Duration(30 * time.Second),
		Providers: []ProviderConfig{
			{Name: "llama-70b", Provider: "groq", Model: "llama-3.3-70b-versatile"},
			{Name: "mixtral", Provider: "groq", Model: "mixtral-8x7b-32768"},
		},
		Judge: JudgeConfig{
			Provider:    "google",
			Model:       "gemini-2.0-flash",
			Temperature: 0,
			MaxTokens:   256,
		},
	}
}

// LoadConfig builds the configuration from defaults, overlays the YAML
// file at path when non-empty, and validates the result.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints and cross-field rules.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	seen := make(map[string]struct{}, len(c.Providers))
	for _, provider := range c.Providers {
		if _, ok := seen[provider.Name]; ok {
			return fmt.Errorf("invalid configuration: duplicate model name %q", provider.Name)
		}
		seen[provider.Name] = struct{}{}
	}
	return nil
}

// LoadSecrets reads credentials from the environment.
func LoadSecrets() (Secrets, error) {
	var secrets Secrets
	if err := envconfig.Process("", &secrets); err != nil {
		return Secrets{}, fmt.Errorf("load secrets: %w", err)
	}
	return secrets, nil
}

// APIKeyFor returns the credential for a provider type, empty when the
// provider is unknown or the key is unset.
func (s Secrets) APIKeyFor(provider string) string {
	switch provider {
	case "openai":
		return s.OpenAIAPIKey
	case "groq":
		return s.GroqAPIKey
	case "anthropic":
		return s.AnthropicAPIKey
	case "google":
		return s.GoogleAPIKey
	}
	return ""
}
