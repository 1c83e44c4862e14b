package feed

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"marketstats-api/pkg/confkit"
)

// Config describes how to reach the upstream market-data API.
type Config struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`

	HTTPTimeoutRaw string        `yaml:"http_timeout"`
	HTTPTimeout    time.Duration `yaml:"-"`
	MaxRetries     int           `yaml:"max_retries"`
	RetryBaseRaw   string        `yaml:"retry_base"`
	RetryBase      time.Duration `yaml:"-"`

	Breaker BreakerConfig `yaml:"breaker"`
}

// BreakerConfig tunes the circuit breaker guarding upstream calls.
type BreakerConfig struct {
	// ConsecutiveFailures trips the breaker; zero disables it.
	ConsecutiveFailures uint32        `yaml:"consecutive_failures"`
	OpenTimeoutRaw      string        `yaml:"open_timeout"`
	OpenTimeout         time.Duration `yaml:"-"`
}

// LoadConfig reads the feed section from disk.
func LoadConfig(path string) (*Config, error) {
	confkit.LoadDotenvOnce()
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open feed config: %w", err)
	}
	defer file.Close()
	return LoadConfigFromReader(file)
}

// LoadConfigFromReader parses, normalises and validates a feed config.
func LoadConfigFromReader(r io.Reader) (*Config, error) {
	confkit.LoadDotenvOnce()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read feed config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal feed config: %w", err)
	}
	if err := cfg.normalise(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalise() error {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(os.ExpandEnv(c.BaseURL)), "/")
	c.APIKey = strings.TrimSpace(os.ExpandEnv(c.APIKey))
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}

	var err error
	if c.HTTPTimeout, err = parsePositiveDuration("http_timeout", c.HTTPTimeoutRaw); err != nil {
		return err
	}
	if c.RetryBase, err = parsePositiveDuration("retry_base", c.RetryBaseRaw); err != nil {
		return err
	}
	if c.Breaker.OpenTimeout, err = parsePositiveDuration("breaker.open_timeout", c.Breaker.OpenTimeoutRaw); err != nil {
		return err
	}
	return nil
}

func parsePositiveDuration(field, raw string) (time.Duration, error) {
	raw = strings.TrimSpace(os.ExpandEnv(raw))
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("feed config: invalid %s %q: %w", field, raw, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("feed config: %s must be positive, got %s", field, d)
	}
	return d, nil
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("feed config: base_url %q is not an absolute URL", c.BaseURL)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("feed config: max_retries cannot be negative")
	}
	return nil
}

// ClientOptions translates the config into client options.
func (c *Config) ClientOptions() []Option {
	opts := []Option{WithBaseURL(c.BaseURL)}
	if c.MaxRetries > 0 {
		opts = append(opts, WithMaxRetries(c.MaxRetries))
	}
	if c.APIKey != "" {
		opts = append(opts, WithAPIKey(c.APIKey))
	}
	if c.HTTPTimeout > 0 {
		opts = append(opts, WithHTTPTimeout(c.HTTPTimeout))
	}
	if c.RetryBase > 0 {
		opts = append(opts, WithRetryBase(c.RetryBase))
	}
	if c.Breaker.ConsecutiveFailures > 0 {
		opts = append(opts, WithBreaker(c.Breaker.ConsecutiveFailures, c.Breaker.OpenTimeout))
	}
	return opts
}
