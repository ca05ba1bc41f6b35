package notification

import (
	"fmt"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/sang765/tmr-novel-tracking/internal/domain"
)

// Discord embed hard limits. Oversized values are clamped, oversized
// field lists are chunked into additional embeds.
const (
	maxTitle       = 256
	maxDescription = 4096
	maxFieldName   = 256
	maxFieldValue  = 1024
	maxEmbedFields = 25
)

const (
	releaseColor = 0x00b0f4
	statusColor  = 0x5865f2
)

// releaseFields is the set of named values the release template can
// reference.
type releaseFields struct {
	NovelTitle     string
	ChapterHeading string
	Category       string
	UnixTime       int64
	LinkDocLNNet   string
	LinkDocLNSBS   string
	LinkHako       string
}

// Formatter renders releases and status boards into webhook payloads.
// Rendering is pure: the same input always produces the same payload.
type Formatter struct {
	log       zerolog.Logger
	groupName string
	tmpl      *template.Template
}

// NewFormatter creates a formatter for the given group. When
// templatePath is set, the file replaces the built-in release template;
// a file that cannot be parsed keeps the built-in one.
func NewFormatter(log zerolog.Logger, groupName, templatePath string) *Formatter {
	l := log.With().Str("module", "notification").Str("type", "formatter").Logger()

	tmpl := template.Must(template.New("release").Parse(defaultReleaseTemplate))
	if templatePath != "" {
		custom, err := template.ParseFiles(templatePath)
		if err != nil {
			l.Warn().Err(err).Str("path", templatePath).Msg("failed to load release template, using the built-in one")
		} else {
			tmpl = custom
		}
	}

	return &Formatter{
		log:       l,
		groupName: groupName,
		tmpl:      tmpl,
	}
}

// Release renders one new-chapter announcement
func (f *Formatter) Release(r domain.Release) (discordWebhook, error) {
	ts, err := time.Parse(time.RFC3339, r.Timestamp)
	if err != nil {
		return discordWebhook{}, errors.Wrap(err, "malformed chapter timestamp")
	}

	fields := releaseFields{
		NovelTitle:     r.NovelTitle,
		ChapterHeading: fmt.Sprintf("Chương %s: %s", formatChapterNumber(r.Number), r.Title),
		Category:       f.groupName,
		UnixTime:       ts.Unix(),
		LinkDocLNNet:   mirrorLink(r.URL, "docln.net"),
		LinkDocLNSBS:   mirrorLink(r.URL, "docln.sbs"),
		LinkHako:       r.URL,
	}

	var desc strings.Builder
	if err := f.tmpl.Execute(&desc, fields); err != nil {
		return discordWebhook{}, errors.Wrap(err, "failed to render release template")
	}

	embed := discordEmbed{
		Title:       clamp(r.NovelTitle, maxTitle),
		URL:         r.URL,
		Description: clamp(desc.String(), maxDescription),
		Color:       releaseColor,
		Timestamp:   r.Timestamp,
		Footer:      &discordFooter{Text: f.groupName},
	}

	if r.CoverURL != "" {
		embed.Image = &discordImage{URL: r.CoverURL}
		embed.Thumbnail = &discordImage{URL: r.CoverURL}
	}

	return discordWebhook{Embeds: []discordEmbed{embed}}, nil
}

// Status renders the status board, one field per novel, chunked into
// embeds of at most maxEmbedFields fields.
func (f *Formatter) Status(statuses []domain.NovelStatus, now time.Time) discordWebhook {
	fields := make([]discordField, 0, len(statuses))
	for _, s := range statuses {
		value := fmt.Sprintf("**Trạng thái:** %s\n**Cập nhật:** %s\n[Đọc tại đây](<%s>)", s.Status, s.LastUpdate, s.URL)
		fields = append(fields, discordField{
			Name:  clamp(s.Title, maxFieldName),
			Value: clamp(value, maxFieldValue),
		})
	}

	embeds := []discordEmbed{}
	for len(fields) > 0 {
		n := len(fields)
		if n > maxEmbedFields {
			n = maxEmbedFields
		}

		embeds = append(embeds, discordEmbed{
			Color:  statusColor,
			Fields: fields[:n],
		})
		fields = fields[n:]
	}

	if len(embeds) == 0 {
		embeds = append(embeds, discordEmbed{Color: statusColor})
	}

	embeds[0].Title = fmt.Sprintf("Trạng thái các bộ truyện - %s", f.groupName)
	embeds[0].Description = fmt.Sprintf("Cập nhật: <t:%d:R>", now.Unix())

	last := len(embeds) - 1
	embeds[last].Footer = &discordFooter{Text: f.groupName}
	embeds[last].Timestamp = now.UTC().Format(time.RFC3339)

	return discordWebhook{Embeds: embeds}
}

// formatChapterNumber renders 45 as "45" and 44.5 as "44.5"
func formatChapterNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// mirrorLink swaps the canonical host for one of the site's mirror
// domains, leaving URLs on other hosts untouched.
func mirrorLink(url, host string) string {
	return strings.Replace(url, "ln.hako.vn", host, 1)
}

// clamp truncates s to at most limit runes, ending with an ellipsis
// when anything was cut.
func clamp(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}

	return string(r[:limit-1]) + "…"
}
