package diff

import (
	"github.com/rs/zerolog"

	"github.com/sang765/tmr-novel-tracking/internal/domain"
)

// firstRunLimit caps how many chapters a novel with no cached state may
// announce, so a fresh cache does not replay a series' entire history.
const firstRunLimit = 5

type Service interface {
	NewChapters(current, cached []domain.Chapter) []domain.Chapter
}

type service struct {
	log zerolog.Logger
}

func NewService(log zerolog.Logger) Service {
	return &service{
		log: log.With().Str("module", "diff").Logger(),
	}
}

// NewChapters returns the chapters present in current but not in
// cached, by chapter number only. Both lists are newest first and the
// result keeps current's order. Title or URL edits under an unchanged
// number are not new, and numbers that disappeared from current are
// not reported.
func (s *service) NewChapters(current, cached []domain.Chapter) []domain.Chapter {
	if len(cached) == 0 {
		if len(current) > firstRunLimit {
			s.log.Debug().
				Int("count", len(current)).
				Int("limit", firstRunLimit).
				Msg("no cached chapters, capping first run")
			return current[:firstRunLimit]
		}

		return current
	}

	known := make(map[float64]struct{}, len(cached))
	for _, c := range cached {
		known[c.Number] = struct{}{}
	}

	fresh := []domain.Chapter{}
	for _, c := range current {
		if _, ok := known[c.Number]; !ok {
			fresh = append(fresh, c)
		}
	}

	return fresh
}
