package config

import (
	"log"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultPollInterval = 30 * time.Minute

	configPathEnv     = "FEED_SUMMARIZER_CONFIG"
	minifluxURLEnv    = "MINIFLUX_URL"
	minifluxUserEnv   = "MINIFLUX_USERNAME"
	minifluxPassEnv   = "MINIFLUX_PASSWORD"
	openAIURLEnv      = "OPENAI_URL"
	openAITokenEnv    = "OPENAI_TOKEN"
	openAIModelEnv    = "OPENAI_MODEL"
	webhookSecretEnv  = "MINIFLUX_WEBHOOK_SECRET"
	whitelistEnv      = "WHITELIST_URL"
	listenAddrEnv     = "LISTEN_ADDR"
)

// Config holds high-level settings required across the application.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Miniflux  MinifluxConfig  `yaml:"miniflux"`
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Webhook   WebhookConfig   `yaml:"webhook"`
	Pipeline  PipelineConfig  `yaml:"pipeline"`
	Logging   LoggingConfig   `yaml:"logging"`
	Whitelist []string        `yaml:"whitelist"`
}

// ServerConfig describes the webhook listener.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// SchedulerConfig defines how often the unread-entries sweep runs.
type SchedulerConfig struct {
	Interval string `yaml:"interval"`
}

// TickInterval resolves the interval string to a duration.
func (s SchedulerConfig) TickInterval() time.Duration {
	if s.Interval == "" {
		return defaultPollInterval
	}
	d, err := time.ParseDuration(s.Interval)
	if err != nil || d <= 0 {
		log.Printf("config: invalid scheduler interval %q, reverting to %s", s.Interval, defaultPollInterval)
		return defaultPollInterval
	}
	return d
}

// MinifluxConfig wires the feed-reader REST API.
type MinifluxConfig struct {
	URL      string `yaml:"url"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// OpenAIConfig defines how to contact the chat-completion API.
type OpenAIConfig struct {
	URL            string `yaml:"url"`
	Token          string `yaml:"token"`
	Model          string `yaml:"model"`
	StripHTML      bool   `yaml:"stripHtml"`
	PromptMaxRunes int    `yaml:"promptMaxRunes"`
}

// WebhookConfig carries the shared secret and the push-path batch cap.
type WebhookConfig struct {
	Secret     string `yaml:"secret"`
	MaxEntries int    `yaml:"maxEntries"`
}

// PipelineConfig bounds the fan-out over a batch of entries.
type PipelineConfig struct {
	Concurrency int `yaml:"concurrency"`
	PollLimit   int `yaml:"pollLimit"`
}

// LoggingConfig selects the slog level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// WhitelistSet converts the configured site origins into a lookup set.
func (c Config) WhitelistSet() map[string]struct{} {
	set := make(map[string]struct{}, len(c.Whitelist))
	for _, site := range c.Whitelist {
		site = strings.TrimSpace(site)
		if site == "" {
			continue
		}
		set[site] = struct{}{}
	}
	return set
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(listenAddrEnv); v != "" {
		c.Server.Addr = v
	}

	if v := os.Getenv(minifluxURLEnv); v != "" {
		c.Miniflux.URL = v
	}
	if v := os.Getenv(minifluxUserEnv); v != "" {
		c.Miniflux.Username = v
	}
	if v := os.Getenv(minifluxPassEnv); v != "" {
		c.Miniflux.Password = v
	}

	if v := os.Getenv(openAIURLEnv); v != "" {
		c.OpenAI.URL = v
	}
	if v := os.Getenv(openAITokenEnv); v != "" {
		c.OpenAI.Token = v
	}
	if v := os.Getenv(openAIModelEnv); v != "" {
		c.OpenAI.Model = v
	}

	if v := os.Getenv(webhookSecretEnv); v != "" {
		c.Webhook.Secret = v
	}

	if v := os.Getenv(whitelistEnv); v != "" {
		c.Whitelist = strings.Split(v, ",")
	}
}

func mergeConfig(base, override Config) Config {
	if override.Server.Addr != "" {
		base.Server = override.Server
	}

	if override.Scheduler.Interval != "" {
		base.Scheduler = override.Scheduler
	}

	if override.Miniflux.URL != "" {
		base.Miniflux.URL = override.Miniflux.URL
	}
	if override.Miniflux.Username != "" {
		base.Miniflux.Username = override.Miniflux.Username
	}
	if override.Miniflux.Password != "" {
		base.Miniflux.Password = override.Miniflux.Password
	}

	if override.OpenAI.URL != "" {
		base.OpenAI.URL = override.OpenAI.URL
	}
	if override.OpenAI.Token != "" {
		base.OpenAI.Token = override.OpenAI.Token
	}
	if override.OpenAI.Model != "" {
		base.OpenAI.Model = override.OpenAI.Model
	}
	if override.OpenAI.StripHTML {
		base.OpenAI.StripHTML = true
	}
	if override.OpenAI.PromptMaxRunes > 0 {
		base.OpenAI.PromptMaxRunes = override.OpenAI.PromptMaxRunes
	}

	if override.Webhook.Secret != "" {
		base.Webhook.Secret = override.Webhook.Secret
	}
	if override.Webhook.MaxEntries > 0 {
		base.Webhook.MaxEntries = override.Webhook.MaxEntries
	}

	if override.Pipeline.Concurrency > 0 {
		base.Pipeline.Concurrency = override.Pipeline.Concurrency
	}
	if override.Pipeline.PollLimit > 0 {
		base.Pipeline.PollLimit = override.Pipeline.PollLimit
	}

	if override.Logging.Level != "" {
		base.Logging = override.Logging
	}

	if len(override.Whitelist) > 0 {
		base.Whitelist = override.Whitelist
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Server:    ServerConfig{Addr: ":8080"},
		Scheduler: SchedulerConfig{Interval: "30m"},
		Miniflux:  MinifluxConfig{},
		OpenAI: OpenAIConfig{
			URL:   "https://api.openai.com",
			Model: "gpt-4o-mini",
		},
		Webhook:  WebhookConfig{MaxEntries: 100},
		Pipeline: PipelineConfig{Concurrency: 5, PollLimit: 100},
		Logging:  LoggingConfig{Level: "info"},
	}
}
