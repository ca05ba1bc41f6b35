package config

import (
	"fmt"

	"github.com/sang765/tmr-novel-tracking/internal/domain"
	"github.com/spf13/viper"
)

const (
	defaultGroupURL  = "https://ln.hako.vn/nhom-dich/3474-the-mavericks"
	defaultStatusURL = "https://docln.sbs/nhom-dich/3474-the-mavericks"
	defaultGroupName = "The Mavericks"
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	defaultCoverURL  = "https://i.hako.vn/ln/series/covers/s22527-2e663ae3-a81e-4a43-9be2-a9f090d6b3ec.jpg"

	defaultStatusPages = 2
)

// Load loads configuration from multiple sources:
// 1. Config file (config.yaml, optional)
// 2. Environment variables (TMR_*)
//
// The Discord webhook URL is intentionally not validated here: the check
// command tolerates its absence (notifications are skipped with a
// warning), only the status command requires it.
func Load() (*domain.Config, error) {
	cfg := &domain.Config{}

	cfg.GroupURL = viper.GetString("group_url")
	if cfg.GroupURL == "" {
		cfg.GroupURL = defaultGroupURL
	}

	cfg.StatusURL = viper.GetString("status_url")
	if cfg.StatusURL == "" {
		cfg.StatusURL = defaultStatusURL
	}

	cfg.GroupName = viper.GetString("group_name")
	if cfg.GroupName == "" {
		cfg.GroupName = defaultGroupName
	}

	cfg.UserAgent = viper.GetString("user_agent")
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}

	cfg.CoverURL = viper.GetString("cover_url")
	if cfg.CoverURL == "" {
		cfg.CoverURL = defaultCoverURL
	}

	cfg.DiscordWebhookURL = viper.GetString("discord_webhook_url")
	cfg.TemplatePath = viper.GetString("template_path")

	cfg.StatusPages = viper.GetInt("status_pages")
	if cfg.StatusPages <= 0 {
		cfg.StatusPages = defaultStatusPages
	}

	return cfg, nil
}

// RequireWebhook validates that a webhook URL is configured, for the
// command variants that cannot run without one.
func RequireWebhook(cfg *domain.Config) error {
	if cfg.DiscordWebhookURL == "" {
		return fmt.Errorf("discord_webhook_url is required (set via config.yaml or TMR_DISCORD_WEBHOOK_URL environment variable)")
	}
	return nil
}
