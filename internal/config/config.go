package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone = "Asia/Seoul"
	configPathEnv   = "IDEAOASIS_CONFIG"
	databaseDSNEnv  = "DATABASE_DSN"
	openAIKeyEnv    = "OPENAI_API_KEY"
	openAIModelEnv  = "OPENAI_MODEL"
)

// Config holds high-level settings required across the application.
type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Pipeline  PipelineConfig  `yaml:"pipeline"`
	Sources   SourcesConfig   `yaml:"sources"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// DatabaseConfig describes the store connection. A postgres:// DSN selects
// the postgres driver; anything else is treated as a sqlite file.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// SchedulerConfig defines when the daily discovery run fires.
type SchedulerConfig struct {
	RunAt    string         `yaml:"runAt"` // wall-clock "HH:MM"
	Timezone string         `yaml:"timezone"`
	location *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// OpenAIConfig defines how to contact the enrichment API.
type OpenAIConfig struct {
	Endpoint     string `yaml:"endpoint"`
	Model        string `yaml:"model"`
	APIKey       string `yaml:"apiKey"`
	SystemPrompt string `yaml:"systemPrompt"`
}

// PipelineConfig tunes the discovery run.
type PipelineConfig struct {
	FetchLimit            int    `yaml:"fetchLimit"`
	DedupWindowDays       int    `yaml:"dedupWindowDays"`
	ArchiveThresholdHours int    `yaml:"archiveThresholdHours"`
	Language              string `yaml:"language"`
}

// ArchiveThreshold returns the archival age as a duration.
func (p PipelineConfig) ArchiveThreshold() time.Duration {
	return time.Duration(p.ArchiveThresholdHours) * time.Hour
}

// SourcesConfig selects which collectors run and which extra feeds to poll.
type SourcesConfig struct {
	Enabled []string     `yaml:"enabled"`
	Feeds   []FeedConfig `yaml:"feeds"`
}

// FeedConfig describes one RSS feed with its declared source tag.
type FeedConfig struct {
	Name      string `yaml:"name"`
	URL       string `yaml:"url"`
	SourceTag string `yaml:"sourceTag"`
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
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
	cfg.bindTimezone()

	if len(cfg.Sources.Enabled) == 0 {
		cfg.Sources.Enabled = defaultConfig().Sources.Enabled
	}

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(openAIKeyEnv); v != "" {
		c.OpenAI.APIKey = v
	}

	if v := os.Getenv(openAIModelEnv); v != "" {
		c.OpenAI.Model = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Database.DSN != "" {
		base.Database = override.Database
	}

	if override.Scheduler.RunAt != "" {
		base.Scheduler.RunAt = override.Scheduler.RunAt
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	if override.OpenAI.Endpoint != "" {
		base.OpenAI.Endpoint = override.OpenAI.Endpoint
	}
	if override.OpenAI.Model != "" {
		base.OpenAI.Model = override.OpenAI.Model
	}
	if override.OpenAI.APIKey != "" {
		base.OpenAI.APIKey = override.OpenAI.APIKey
	}
	if override.OpenAI.SystemPrompt != "" {
		base.OpenAI.SystemPrompt = override.OpenAI.SystemPrompt
	}

	if override.Pipeline.FetchLimit > 0 {
		base.Pipeline.FetchLimit = override.Pipeline.FetchLimit
	}
	if override.Pipeline.DedupWindowDays > 0 {
		base.Pipeline.DedupWindowDays = override.Pipeline.DedupWindowDays
	}
	if override.Pipeline.ArchiveThresholdHours > 0 {
		base.Pipeline.ArchiveThresholdHours = override.Pipeline.ArchiveThresholdHours
	}
	if override.Pipeline.Language != "" {
		base.Pipeline.Language = override.Pipeline.Language
	}

	if len(override.Sources.Enabled) > 0 {
		base.Sources.Enabled = override.Sources.Enabled
	}
	if len(override.Sources.Feeds) > 0 {
		base.Sources.Feeds = override.Sources.Feeds
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Database:  DatabaseConfig{DSN: "file:ideaoasis.db"},
		Scheduler: SchedulerConfig{RunAt: "06:00", Timezone: defaultTimezone, location: tz},
		OpenAI: OpenAIConfig{
			Endpoint:     "https://api.openai.com/v1/chat/completions",
			Model:        "gpt-4",
			APIKey:       "",
			SystemPrompt: "You are a startup idea analyst and translator for Korean entrepreneurs. Always respond in valid JSON format.",
		},
		Pipeline: PipelineConfig{
			FetchLimit:            30,
			DedupWindowDays:       30,
			ArchiveThresholdHours: 24,
			Language:              "ko",
		},
		Sources: SourcesConfig{
			Enabled: []string{"ideabrowser", "hackernews", "producthunt"},
		},
		Logging: LoggingConfig{Level: "info"},
	}
}
