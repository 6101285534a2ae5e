package config

import (
	"log"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone = "UTC"

	configPathEnv     = "NEWS_DIGEST_CONFIG"
	recipientEnv      = "RECIPIENT_EMAIL"
	smtpAddressEnv    = "GMAIL_ADDRESS"
	smtpPasswordEnv   = "GMAIL_APP_PASSWORD"
	sendGridAPIKeyEnv = "SENDGRID_API_KEY"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Email     EmailConfig     `yaml:"email"`
	Fetch     FetchConfig     `yaml:"fetch"`
}

// LoggingConfig controls console verbosity and the optional run log file.
type LoggingConfig struct {
	Level string `yaml:"level"`

	// RunLogPath, when set, mirrors log lines into an append-only file.
	// Informational only; the pipeline never reads it back.
	RunLogPath string `yaml:"runLogPath"`
}

// SchedulerConfig defines when the pipeline runs.
type SchedulerConfig struct {
	// CronSpecs holds one cron expression per daily run.
	CronSpecs []string       `yaml:"cronSpecs"`
	Timezone  string         `yaml:"timezone"`
	location  *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// EmailConfig wires the delivery transports and recipient list.
type EmailConfig struct {
	Recipients []string       `yaml:"recipients"`
	SMTP       SMTPConfig     `yaml:"smtp"`
	SendGrid   SendGridConfig `yaml:"sendgrid"`
}

// SMTPConfig is the direct-credential transport (preferred when set).
type SMTPConfig struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	Address     string `yaml:"address"`
	AppPassword string `yaml:"appPassword"`
}

// SendGridConfig is the token-based transport.
type SendGridConfig struct {
	APIKey string `yaml:"apiKey"`
	Sender string `yaml:"sender"`
}

// FetchConfig describes the ordered fetch plan executed each run.
type FetchConfig struct {
	// ResolveURLs enables redirect resolution of aggregator links. A pointer
	// so an explicit false in the file overrides the enabled default.
	ResolveURLs *bool       `yaml:"resolveUrls"`
	Plan        []PlanEntry `yaml:"plan"`
}

// ResolveEnabled reports whether aggregator links should be resolved.
// Defaults to true when the file leaves the setting out.
func (f FetchConfig) ResolveEnabled() bool {
	return f.ResolveURLs == nil || *f.ResolveURLs
}

// PlanEntry is one fetcher invocation: which fetcher, which category, and
// how many articles at most.
type PlanEntry struct {
	Fetcher     string `yaml:"fetcher"`
	Category    string `yaml:"category"`
	MaxArticles int    `yaml:"maxArticles"`
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

	if len(cfg.Fetch.Plan) == 0 {
		cfg.Fetch.Plan = defaultConfig().Fetch.Plan
	}

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(recipientEnv); v != "" {
		c.Email.Recipients = splitRecipients(v)
	}

	if v := os.Getenv(smtpAddressEnv); v != "" {
		c.Email.SMTP.Address = v
	}

	if v := os.Getenv(smtpPasswordEnv); v != "" {
		c.Email.SMTP.AppPassword = v
	}

	if v := os.Getenv(sendGridAPIKeyEnv); v != "" {
		c.Email.SendGrid.APIKey = v
	}
}

func splitRecipients(v string) []string {
	var recipients []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			recipients = append(recipients, part)
		}
	}
	return recipients
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
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.RunLogPath != "" {
		base.Logging.RunLogPath = override.Logging.RunLogPath
	}

	if len(override.Scheduler.CronSpecs) > 0 {
		base.Scheduler.CronSpecs = override.Scheduler.CronSpecs
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	if len(override.Email.Recipients) > 0 {
		base.Email.Recipients = override.Email.Recipients
	}
	if override.Email.SMTP.Host != "" {
		base.Email.SMTP.Host = override.Email.SMTP.Host
	}
	if override.Email.SMTP.Port != 0 {
		base.Email.SMTP.Port = override.Email.SMTP.Port
	}
	if override.Email.SMTP.Address != "" {
		base.Email.SMTP.Address = override.Email.SMTP.Address
	}
	if override.Email.SMTP.AppPassword != "" {
		base.Email.SMTP.AppPassword = override.Email.SMTP.AppPassword
	}
	if override.Email.SendGrid.APIKey != "" {
		base.Email.SendGrid.APIKey = override.Email.SendGrid.APIKey
	}
	if override.Email.SendGrid.Sender != "" {
		base.Email.SendGrid.Sender = override.Email.SendGrid.Sender
	}

	if len(override.Fetch.Plan) > 0 {
		base.Fetch.Plan = override.Fetch.Plan
	}
	if override.Fetch.ResolveURLs != nil {
		base.Fetch.ResolveURLs = override.Fetch.ResolveURLs
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Scheduler: SchedulerConfig{
			// Morning briefing, midday update, evening digest.
			CronSpecs: []string{"0 7 * * *", "30 12 * * *", "30 20 * * *"},
			Timezone:  defaultTimezone,
			location:  tz,
		},
		Email: EmailConfig{
			SMTP: SMTPConfig{Host: "smtp.gmail.com", Port: 465},
		},
		Fetch: FetchConfig{
			Plan: []PlanEntry{
				{Fetcher: "google-news", Category: "politics", MaxArticles: 4},
				{Fetcher: "google-news", Category: "technology", MaxArticles: 3},
				{Fetcher: "google-news", Category: "europe", MaxArticles: 4},
				{Fetcher: "cnn", Category: "politics", MaxArticles: 5},
				{Fetcher: "cnn", Category: "technology", MaxArticles: 5},
				{Fetcher: "fox-news", Category: "politics", MaxArticles: 5},
				{Fetcher: "fox-news", Category: "technology", MaxArticles: 5},
				{Fetcher: "reuters", Category: "politics", MaxArticles: 5},
				{Fetcher: "reuters", Category: "technology", MaxArticles: 5},
			},
		},
	}
}
