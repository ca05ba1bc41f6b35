package domain

type Config struct {
	GroupURL          string `toml:"group_url" mapstructure:"group_url"`
	StatusURL         string `toml:"status_url" mapstructure:"status_url"`
	GroupName         string `toml:"group_name" mapstructure:"group_name"`
	DiscordWebhookURL string `toml:"discord_webhook_url" mapstructure:"discord_webhook_url"`
	UserAgent         string `toml:"user_agent" mapstructure:"user_agent"`
	StatusPages       int    `toml:"status_pages" mapstructure:"status_pages"`
	TemplatePath      string `toml:"template_path" mapstructure:"template_path"`
	CoverURL          string `toml:"cover_url" mapstructure:"cover_url"`
}
