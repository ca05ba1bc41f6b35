package notification

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/sang765/tmr-novel-tracking/internal/domain"
)

// Service is the composite notification service: it formats payloads,
// deduplicates against the delivery log and paces webhook traffic.
type Service struct {
	log        zerolog.Logger
	formatter  *Formatter
	discord    *DiscordClient
	deliveries domain.DeliveryRepo
	messages   domain.MessageStore
	msgPath    string
	pacing     time.Duration
}

// NewService creates a new notification service. deliveries may be nil
// when the delivery log is unavailable; announcements then rely on the
// cache snapshot alone.
func NewService(log zerolog.Logger, config *domain.Config, deliveries domain.DeliveryRepo, messages domain.MessageStore, messagePath string) domain.NotificationService {
	var discord *DiscordClient
	if config.DiscordWebhookURL != "" {
		discord = NewDiscordClient(log, config.DiscordWebhookURL)
	}

	return &Service{
		log:        log.With().Str("module", "notification").Logger(),
		formatter:  NewFormatter(log, config.GroupName, config.TemplatePath),
		discord:    discord,
		deliveries: deliveries,
		messages:   messages,
		msgPath:    messagePath,
		pacing:     time.Second,
	}
}

var _ domain.NotificationService = (*Service)(nil)

// AnnounceReleases delivers one notification per release. Failures are
// isolated per release, and a fixed pacing delay follows every delivery
// attempt to stay under the webhook rate limit.
func (s *Service) AnnounceReleases(ctx context.Context, releases []domain.Release) {
	if s.discord == nil {
		s.log.Info().Int("count", len(releases)).Msg("no webhook configured, skipping notifications")
		return
	}

	for _, r := range releases {
		if s.alreadyDelivered(ctx, r) {
			s.log.Debug().Str("novel", r.NovelTitle).Float64("chapter", r.Number).Msg("chapter already announced, skipping")
			continue
		}

		s.deliver(ctx, r)
		time.Sleep(s.pacing)
	}
}

func (s *Service) deliver(ctx context.Context, r domain.Release) {
	payload, err := s.formatter.Release(r)
	if err != nil {
		s.log.Warn().Err(err).Str("novel", r.NovelTitle).Float64("chapter", r.Number).Msg("failed to format notification")
		return
	}

	id, err := s.discord.Send(ctx, payload)
	if err != nil {
		s.log.Error().Err(err).Str("novel", r.NovelTitle).Float64("chapter", r.Number).Msg("failed to send notification")
		return
	}

	s.log.Info().Str("novel", r.NovelTitle).Float64("chapter", r.Number).Msg("notification sent")
	s.recordDelivery(ctx, r, id)
}

func (s *Service) alreadyDelivered(ctx context.Context, r domain.Release) bool {
	if s.deliveries == nil {
		return false
	}

	sent, err := s.deliveries.Delivered(ctx, r.NovelID)
	if err != nil {
		s.log.Warn().Err(err).Str("novel", r.NovelTitle).Msg("failed to check delivery log")
		return false
	}

	_, ok := sent[r.Number]
	return ok
}

func (s *Service) recordDelivery(ctx context.Context, r domain.Release, messageID string) {
	if s.deliveries == nil {
		return
	}

	d := domain.Delivery{
		NovelID:       r.NovelID,
		ChapterNumber: r.Number,
		MessageID:     messageID,
		SentAt:        time.Now().UTC().Format(time.RFC3339),
	}

	if err := s.deliveries.Record(ctx, d); err != nil {
		s.log.Warn().Err(err).Str("novel", r.NovelTitle).Float64("chapter", r.Number).Msg("failed to record delivery")
	}
}

// PublishStatus posts the status board, editing the previously sent
// message in place. A message that was deleted on the server side is
// replaced by a fresh one and its id persisted for the next run.
func (s *Service) PublishStatus(ctx context.Context, statuses []domain.NovelStatus, now time.Time) error {
	if s.discord == nil {
		return errors.New("no webhook configured")
	}

	payload := s.formatter.Status(statuses, now)

	messageID, err := s.messages.GetStatusMessageID(ctx, s.msgPath)
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to load status message id")
		messageID = ""
	}

	if messageID != "" {
		err := s.discord.Edit(ctx, messageID, payload)
		if err == nil {
			s.log.Info().Str("id", messageID).Msg("status message updated")
			return nil
		}

		if !errors.Is(err, ErrMessageNotFound) {
			return errors.Wrap(err, "failed to edit status message")
		}

		s.log.Warn().Str("id", messageID).Msg("status message no longer exists, sending a new one")
	}

	id, err := s.discord.Send(ctx, payload)
	if err != nil {
		return errors.Wrap(err, "failed to send status message")
	}

	if err := s.messages.StoreStatusMessageID(ctx, s.msgPath, id); err != nil {
		s.log.Warn().Err(err).Msg("failed to store status message id")
	}

	s.log.Info().Str("id", id).Msg("status message sent")
	return nil
}
