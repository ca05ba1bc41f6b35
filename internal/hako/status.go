package hako

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/sang765/tmr-novel-tracking/internal/domain"
)

// Layouts seen in the datetime attribute of status rows.
var lastUpdateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

type StatusService interface {
	GetStatuses(ctx context.Context) ([]domain.NovelStatus, error)
}

type statusService struct {
	log    zerolog.Logger
	config *domain.Config
}

func NewStatusService(log zerolog.Logger, config *domain.Config) StatusService {
	return &statusService{
		log:    log.With().Str("module", "status").Logger(),
		config: config,
	}
}

// GetStatuses walks the paginated showcase of the status mirror and
// collects one row per novel. Page failures are isolated; a page that
// cannot be fetched contributes no rows.
func (s *statusService) GetStatuses(ctx context.Context) ([]domain.NovelStatus, error) {
	base, err := url.Parse(s.config.StatusURL)
	if err != nil {
		return nil, errors.Wrap(err, "invalid status url")
	}

	c := colly.NewCollector(
		colly.AllowedDomains(base.Host, base.Hostname()),
		colly.UserAgent(s.config.UserAgent),
	)

	c.SetRequestTimeout(30 * time.Second)

	c.Limit(&colly.LimitRule{
		DomainGlob: "*",
		Delay:      1 * time.Second,
	})

	statuses := []domain.NovelStatus{}
	c.OnHTML("div.showcase-item", func(e *colly.HTMLElement) {
		row, ok := s.parseStatusRow(e)
		if !ok {
			return
		}

		statuses = append(statuses, row)
	})

	c.OnRequest(func(r *colly.Request) {
		s.log.Debug().Str("url", r.URL.String()).Msg("visiting")
	})

	c.OnError(func(r *colly.Response, err error) {
		s.log.Error().Err(err).Str("url", r.Request.URL.String()).Msg("failed to fetch status page")
	})

	for page := 1; page <= s.config.StatusPages; page++ {
		if err := c.Visit(fmt.Sprintf("%s?page=%d", s.config.StatusURL, page)); err != nil {
			s.log.Warn().Err(err).Int("page", page).Msg("failed to visit status page")
		}
	}

	s.log.Debug().Int("count", len(statuses)).Msg("parsed status rows")
	return statuses, nil
}

func (s *statusService) parseStatusRow(e *colly.HTMLElement) (domain.NovelStatus, bool) {
	link := e.DOM.Find("h5.series-name a").First()
	if link.Length() == 0 {
		return domain.NovelStatus{}, false
	}

	title := strings.TrimSpace(link.Text())
	href, _ := link.Attr("href")

	values := e.DOM.Find("span.status-value")
	status := strings.TrimSpace(values.Eq(0).Text())
	if status == "" {
		status = "Unknown"
	}

	return domain.NovelStatus{
		Title:      title,
		URL:        resolveURL(e.Request.URL.String(), href),
		Status:     status,
		LastUpdate: s.parseLastUpdate(values.Eq(1)),
	}, true
}

// parseLastUpdate renders the row's update time as a Discord relative
// timestamp, falling back to the time element's title attribute and
// then to the row's own text.
func (s *statusService) parseLastUpdate(sel *goquery.Selection) string {
	timeElem := sel.Find("time")

	if attr, ok := timeElem.Attr("datetime"); ok {
		for _, layout := range lastUpdateLayouts {
			if t, err := time.Parse(layout, attr); err == nil {
				return fmt.Sprintf("<t:%d:R>", t.Unix())
			}
		}

		s.log.Warn().Str("datetime", attr).Msg("unrecognized datetime format in status row")
	}

	if title, ok := timeElem.Attr("title"); ok && strings.TrimSpace(title) != "" {
		return strings.TrimSpace(title)
	}

	if text := strings.TrimSpace(sel.Text()); text != "" {
		return text
	}

	return "Unknown"
}
