/*
Package configs is responsible for loading and parsing the application's configuration settings.

Every setting comes from an environment variable and is parsed with caarlos0/env.
Cross-field rules, such as the S3 settings required by the s3 question source,
are checked after parsing.
*/
package configs

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Question sources.
const (
	SourceStatic  = "static"
	SourceOpenTDB = "opentdb"
	SourceS3      = "s3"
)

// AppConfig contains all configuration parameters required for the application to run.
type AppConfig struct {
	// General Server Settings
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Port        int    `env:"PORT" envDefault:"8080"`

	// Security Settings
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`

	// Game Settings
	QuestionSource   string        `env:"QUESTION_SOURCE" envDefault:"static"`
	QuestionBankPath string        `env:"QUESTION_BANK_PATH"`
	OpenTDBURL       string        `env:"OPENTDB_URL"`
	ProviderTimeout  time.Duration `env:"PROVIDER_TIMEOUT" envDefault:"10s"`
	RoundOverPolicy  string        `env:"ROUND_OVER_POLICY" envDefault:"first"`

	// S3 Storage Settings
	S3BucketName      string `env:"S3_BUCKET_NAME"`
	S3Endpoint        string `env:"S3_ENDPOINT"`
	S3AccessKeyID     string `env:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY"`
	S3BankKey         string `env:"S3_BANK_KEY"`
}

// IsDevelopment reports whether the server runs in the development environment.
func (c *AppConfig) IsDevelopment() bool {
	return c.Environment == "development"
}

// LoadConfig reads and parses the application configuration from environment variables.
func LoadConfig() (*AppConfig, error) {
	return loadConfig(env.Options{})
}

func loadConfig(opts env.Options) (*AppConfig, error) {
	cfg := &AppConfig{}

	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate normalizes the parsed values and checks the cross-field rules.
func (c *AppConfig) validate() error {
	// --- General Server Settings ---
	if c.Environment == "" {
		c.Environment = "development"
	}

	if c.Port < 1024 || c.Port > 65535 {
		return fmt.Errorf("port number %d is outside the recommended range (%d-%d) to avoid privileged ports", c.Port, 1024, 65535)
	}

	// --- Security Settings ---
	origins := []string{}
	for _, origin := range c.AllowedOrigins {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	c.AllowedOrigins = origins

	// --- Game Settings ---
	if c.ProviderTimeout <= 0 {
		return fmt.Errorf("PROVIDER_TIMEOUT must be positive, got %s", c.ProviderTimeout)
	}

	c.RoundOverPolicy = strings.ToLower(c.RoundOverPolicy)
	if c.RoundOverPolicy != "first" && c.RoundOverPolicy != "all" {
		return fmt.Errorf("invalid ROUND_OVER_POLICY %q: expected first or all", c.RoundOverPolicy)
	}

	c.QuestionSource = strings.ToLower(c.QuestionSource)
	switch c.QuestionSource {
	case SourceStatic, SourceOpenTDB:
	case SourceS3:
		return c.validateS3()
	default:
		return fmt.Errorf("invalid QUESTION_SOURCE %q: expected %s, %s or %s", c.QuestionSource, SourceStatic, SourceOpenTDB, SourceS3)
	}

	return nil
}

// validateS3 checks the bucket settings, all of which are required for the s3 source.
func (c *AppConfig) validateS3() error {
	required := []struct {
		env   string
		value string
	}{
		{"S3_BUCKET_NAME", c.S3BucketName},
		{"S3_ENDPOINT", c.S3Endpoint},
		{"S3_ACCESS_KEY_ID", c.S3AccessKeyID},
		{"S3_SECRET_ACCESS_KEY", c.S3SecretAccessKey},
		{"S3_BANK_KEY", c.S3BankKey},
	}

	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%s environment variable is required when QUESTION_SOURCE is %s", r.env, SourceS3)
		}
	}

	return nil
}
