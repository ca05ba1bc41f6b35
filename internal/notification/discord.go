package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// ErrMessageNotFound is returned when editing a webhook message that no
// longer exists, typically because it was deleted on the server side.
var ErrMessageNotFound = errors.New("webhook message not found")

// DiscordClient delivers payloads to a Discord webhook
type DiscordClient struct {
	log        zerolog.Logger
	webhookURL string
	httpClient *http.Client
}

// NewDiscordClient creates a new Discord webhook client
func NewDiscordClient(log zerolog.Logger, webhookURL string) *DiscordClient {
	return &DiscordClient{
		log:        log.With().Str("module", "notification").Str("type", "discord").Logger(),
		webhookURL: webhookURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Send posts a payload to the webhook and returns the id of the created
// message, so a later run can edit it in place.
func (c *DiscordClient) Send(ctx context.Context, payload discordWebhook) (string, error) {
	body, err := c.do(ctx, http.MethodPost, c.webhookURL+"?wait=true", payload)
	if err != nil {
		return "", err
	}

	var msg struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &msg); err != nil {
		return "", errors.Wrap(err, "failed to decode webhook response")
	}

	c.log.Debug().Str("id", msg.ID).Msg("Discord notification sent successfully")
	return msg.ID, nil
}

// Edit replaces the content of a previously sent webhook message
func (c *DiscordClient) Edit(ctx context.Context, messageID string, payload discordWebhook) error {
	_, err := c.do(ctx, http.MethodPatch, fmt.Sprintf("%s/messages/%s", c.webhookURL, messageID), payload)
	if err != nil {
		return err
	}

	c.log.Debug().Str("id", messageID).Msg("Discord message edited successfully")
	return nil
}

func (c *DiscordClient) do(ctx context.Context, method, url string, payload discordWebhook) ([]byte, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal webhook payload")
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create webhook request")
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to send webhook request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read webhook response")
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrMessageNotFound
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("webhook request failed with status %d", resp.StatusCode)
	}

	return body, nil
}

// discordWebhook represents a Discord webhook payload
type discordWebhook struct {
	Embeds []discordEmbed `json:"embeds"`
}

// discordEmbed represents a Discord embed
type discordEmbed struct {
	Title       string         `json:"title,omitempty"`
	URL         string         `json:"url,omitempty"`
	Description string         `json:"description,omitempty"`
	Color       int            `json:"color"`
	Timestamp   string         `json:"timestamp,omitempty"`
	Footer      *discordFooter `json:"footer,omitempty"`
	Image       *discordImage  `json:"image,omitempty"`
	Thumbnail   *discordImage  `json:"thumbnail,omitempty"`
	Fields      []discordField `json:"fields,omitempty"`
}

// discordField represents a Discord embed field
type discordField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// discordFooter represents a Discord embed footer
type discordFooter struct {
	Text string `json:"text"`
}

// discordImage represents a Discord embed image or thumbnail
type discordImage struct {
	URL string `json:"url"`
}
