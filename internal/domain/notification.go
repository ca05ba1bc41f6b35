package domain

import (
	"context"
	"time"
)

// NotificationService defines the interface for notification services
type NotificationService interface {
	// AnnounceReleases delivers one notification per new chapter release.
	// Per-release failures are isolated: a failed delivery never stops
	// the remaining releases.
	AnnounceReleases(ctx context.Context, releases []Release)

	// PublishStatus posts the status board, editing the previously sent
	// message in place when its identifier is known.
	PublishStatus(ctx context.Context, rows []NovelStatus, now time.Time) error
}
