package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/smykkeguiden/feedsync/internal/pkg/errors"
	"github.com/smykkeguiden/feedsync/pkg/cronx"
)

// validate is the package-level validator instance; go-playground validators
// are safe for concurrent use and meant to be cached.
var validate = validator.New()

// AppConfig is the root configuration structure.
type AppConfig struct {
	Debug     bool            `json:"debug"`
	Log       LogConfig       `json:"log"`
	Sync      SyncConfig      `json:"sync"`
	Sites     []SiteConfig    `json:"sites"`
	Scheduler SchedulerConfig `json:"scheduler"`
	API       APIConfig       `json:"api"`
	Notifier  NotifierConfig  `json:"notifier"`
}

// validate checks cross-field consistency after loading.
func (c *AppConfig) validate() error {
	if err := c.Sync.validate(); err != nil {
		return err
	}
	if err := c.validateSites(); err != nil {
		return err
	}
	if err := c.Scheduler.validate(); err != nil {
		return err
	}
	if err := c.API.validate(); err != nil {
		return err
	}
	return c.Notifier.validate()
}

func (c *AppConfig) validateSites() error {
	seen := make(map[string]bool, len(c.Sites))
	for _, site := range c.Sites {
		if strings.TrimSpace(site.ID) == "" {
			return apperrors.New(apperrors.InvalidInput, "every site needs a non-empty id")
		}
		if seen[site.ID] {
			return apperrors.Newf(apperrors.Conflict, "duplicate site id '%s'", site.ID)
		}
		seen[site.ID] = true

		if err := site.validate(); err != nil {
			return err
		}
	}
	return nil
}

// EnabledSites returns the enabled site targets in configuration order.
func (c *AppConfig) EnabledSites() []SiteConfig {
	var enabled []SiteConfig
	for _, site := range c.Sites {
		if site.Enabled {
			enabled = append(enabled, site)
		}
	}
	return enabled
}

// LogConfig controls log file placement and console mirroring.
type LogConfig struct {
	Dir     string `json:"dir"`
	Console bool   `json:"console"`
}

// SyncConfig tunes the pipeline. Durations are strings ("15s") so the JSON
// file stays human-editable; accessors parse them after validation.
type SyncConfig struct {
	BatchSize       int    `json:"batch_size"`
	FeedTimeout     string `json:"feed_timeout"`
	TransferTimeout string `json:"transfer_timeout"`
	RunBudget       string `json:"run_budget"`
	RatePerSecond   int    `json:"rate_per_second"`
	UserAgent       string `json:"user_agent"`
}

func (c *SyncConfig) validate() error {
	if c.BatchSize < 1 || c.BatchSize > 100 {
		return apperrors.Newf(apperrors.InvalidInput, "sync batch_size must be between 1 and 100, got %d", c.BatchSize)
	}
	if c.RatePerSecond < 1 {
		return apperrors.Newf(apperrors.InvalidInput, "sync rate_per_second must be at least 1, got %d", c.RatePerSecond)
	}
	for name, value := range map[string]string{
		"feed_timeout":     c.FeedTimeout,
		"transfer_timeout": c.TransferTimeout,
		"run_budget":       c.RunBudget,
	} {
		d, err := time.ParseDuration(value)
		if err != nil {
			return apperrors.Wrapf(err, apperrors.InvalidInput, "sync %s is not a valid duration: '%s'", name, value)
		}
		if d <= 0 {
			return apperrors.Newf(apperrors.InvalidInput, "sync %s must be positive: '%s'", name, value)
		}
	}
	return nil
}

// FeedTimeoutDuration returns the orchestration-level per-feed deadline.
func (c *SyncConfig) FeedTimeoutDuration() time.Duration { return mustDuration(c.FeedTimeout) }

// TransferTimeoutDuration returns the HTTP transfer timeout.
func (c *SyncConfig) TransferTimeoutDuration() time.Duration { return mustDuration(c.TransferTimeout) }

// RunBudgetDuration returns the caller-facing maximum run duration.
func (c *SyncConfig) RunBudgetDuration() time.Duration { return mustDuration(c.RunBudget) }

// SiteConfig is one destination storefront: its feed list and its
// destination store. Loaded once per run, immutable during a run.
type SiteConfig struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Enabled  bool     `json:"enabled"`
	FeedURLs []string `json:"feed_urls"`
	Database string   `json:"database"`
}

func (s *SiteConfig) validate() error {
	if !s.Enabled {
		// Disabled sites may be half-configured; they are never run.
		return nil
	}
	if len(s.FeedURLs) == 0 {
		return apperrors.Newf(apperrors.InvalidInput, "site '%s' is enabled but has no feed urls", s.ID)
	}
	for _, feedURL := range s.FeedURLs {
		u, err := url.Parse(feedURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return apperrors.Newf(apperrors.InvalidInput, "site '%s' has an invalid feed url: '%s'", s.ID, feedURL)
		}
	}
	if strings.TrimSpace(s.Database) == "" {
		return apperrors.Newf(apperrors.InvalidInput, "site '%s' is enabled but has no destination database", s.ID)
	}
	return nil
}

// SchedulerConfig controls the cron-driven trigger.
type SchedulerConfig struct {
	Runnable bool   `json:"runnable"`
	TimeSpec string `json:"time_spec"`
}

func (c *SchedulerConfig) validate() error {
	if !c.Runnable {
		return nil
	}
	if err := cronx.Validate(c.TimeSpec); err != nil {
		return apperrors.Wrapf(err, apperrors.InvalidInput, "scheduler time_spec is not a valid cron expression: '%s'", c.TimeSpec)
	}
	return nil
}

// APIConfig controls the HTTP trigger endpoint.
type APIConfig struct {
	ListenPort int      `json:"listen_port" validate:"min=1,max=65535"`
	AppKeys    []string `json:"app_keys"`
}

func (c *APIConfig) validate() error {
	if err := validate.Struct(c); err != nil {
		if _, ok := err.(validator.ValidationErrors); ok {
			return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("api listen_port must be between 1 and 65535, got %d", c.ListenPort))
		}
		return apperrors.Wrap(err, apperrors.Internal, "api config validation failed")
	}
	for _, key := range c.AppKeys {
		if strings.TrimSpace(key) == "" {
			return apperrors.New(apperrors.InvalidInput, "api app_keys must not contain blank entries")
		}
	}
	return nil
}

// NotifierConfig holds the optional Telegram channel for run reports.
type NotifierConfig struct {
	Telegram *TelegramConfig `json:"telegram,omitempty"`
}

func (c *NotifierConfig) validate() error {
	if c.Telegram == nil {
		return nil
	}
	return c.Telegram.validate()
}

// TelegramConfig carries the bot credentials and target chat.
type TelegramConfig struct {
	BotToken string `json:"bot_token" validate:"required"`
	ChatID   int64  `json:"chat_id" validate:"required"`
}

func (c *TelegramConfig) validate() error {
	if err := validate.Struct(c); err != nil {
		if _, ok := err.(validator.ValidationErrors); ok {
			return apperrors.New(apperrors.InvalidInput, "telegram notifier requires both bot_token and chat_id")
		}
		return apperrors.Wrap(err, apperrors.Internal, "telegram config validation failed")
	}
	return nil
}
