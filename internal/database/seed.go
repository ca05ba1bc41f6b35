package database

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/sang765/tmr-novel-tracking/internal/domain"
)

// SeedDeliveries fills the delivery log from an existing chapter
// snapshot. This is a one-time migration for installations that predate
// the log: every cached chapter is recorded as already announced, without
// a message id, so a lost or reset snapshot cannot cause old chapters to
// be re-posted. Chapters already present in the log are left untouched.
func SeedDeliveries(ctx context.Context, repo domain.DeliveryRepo, snapshot *domain.Snapshot, log zerolog.Logger) (int, error) {
	var seeded, skipped, errorCount int
	now := time.Now().UTC().Format(time.RFC3339)

	for novelID, state := range snapshot.Novels {
		known, err := repo.Delivered(ctx, novelID)
		if err != nil {
			return seeded, errors.Wrap(err, "failed to read delivery log")
		}

		for _, chapter := range state.Chapters {
			if _, ok := known[chapter.Number]; ok {
				skipped++
				continue
			}

			sentAt := chapter.Timestamp
			if sentAt == "" {
				sentAt = now
			}

			err := repo.Record(ctx, domain.Delivery{
				NovelID:       novelID,
				ChapterNumber: chapter.Number,
				SentAt:        sentAt,
			})
			if err != nil {
				log.Warn().
					Err(err).
					Str("novel_id", novelID).
					Float64("chapter", chapter.Number).
					Msg("failed to record delivery")
				errorCount++
				continue
			}

			seeded++
		}
	}

	log.Info().
		Int("seeded", seeded).
		Int("skipped", skipped).
		Int("errors", errorCount).
		Msg("delivery log seeding complete")

	return seeded, nil
}
