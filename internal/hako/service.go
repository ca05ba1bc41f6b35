package hako

import (
	"context"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/sang765/tmr-novel-tracking/internal/domain"
	"github.com/sang765/tmr-novel-tracking/internal/fetcher"
)

type Service interface {
	GetNovels(ctx context.Context) ([]domain.Novel, error)
	GetChapters(ctx context.Context, novel domain.Novel) ([]domain.Chapter, error)
}

type service struct {
	log     zerolog.Logger
	config  *domain.Config
	fetcher *fetcher.Fetcher
	now     func() time.Time
}

var novelIDPattern = regexp.MustCompile(`/truyen/(\d+)`)

func NewService(log zerolog.Logger, config *domain.Config, f *fetcher.Fetcher) Service {
	return &service{
		log:     log.With().Str("module", "hako").Logger(),
		config:  config,
		fetcher: f,
		now:     time.Now,
	}
}

// GetNovels scrapes the translation group's page for the series it
// maintains. A page without the showcase container is treated as an
// empty result, not an error.
func (s *service) GetNovels(ctx context.Context) ([]domain.Novel, error) {
	body, err := s.fetcher.FetchPage(ctx, s.config.GroupURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch group page")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse group page")
	}

	showcase := doc.Find("section.showcase-list")
	if showcase.Length() == 0 {
		s.log.Warn().Str("url", s.config.GroupURL).Msg("no showcase list found on group page")
		return nil, nil
	}

	novels := []domain.Novel{}
	showcase.Find("h5.series-name a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		m := novelIDPattern.FindStringSubmatch(href)
		if len(m) < 2 {
			return
		}

		novels = append(novels, domain.Novel{
			ID:    m[1],
			Title: strings.TrimSpace(sel.Text()),
			URL:   resolveURL(s.config.GroupURL, href),
		})
	})

	s.log.Debug().Int("count", len(novels)).Msg("parsed novels from group page")
	return novels, nil
}

// GetChapters scrapes a novel's page for its chapter list, newest
// first. Links without an extractable chapter number are dropped.
func (s *service) GetChapters(ctx context.Context, novel domain.Novel) ([]domain.Chapter, error) {
	body, err := s.fetcher.FetchPage(ctx, novel.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch novel page")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse novel page")
	}

	list := doc.Find("div.list-chapter")
	if list.Length() == 0 {
		s.log.Warn().Str("novel", novel.Title).Str("url", novel.URL).Msg("no chapter list found on novel page")
		return nil, nil
	}

	stamp := s.now().UTC().Format(time.RFC3339)

	chapters := []domain.Chapter{}
	list.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		title := strings.TrimSpace(sel.Text())

		number, ok := ExtractChapterNumber(title, href)
		if !ok {
			s.log.Warn().Str("novel", novel.Title).Str("title", title).Msg("no chapter number found, dropping link")
			return
		}

		chapters = append(chapters, domain.Chapter{
			Number:    number,
			Title:     title,
			URL:       resolveURL(novel.URL, href),
			Timestamp: stamp,
		})
	})

	sort.SliceStable(chapters, func(i, j int) bool {
		return chapters[i].Number > chapters[j].Number
	})

	s.log.Debug().Str("novel", novel.Title).Int("count", len(chapters)).Msg("parsed chapters from novel page")
	return chapters, nil
}

func resolveURL(base, ref string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}

	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}

	return b.ResolveReference(r).String()
}
