package database

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/sang765/tmr-novel-tracking/internal/domain"
)

func TestDeliveryRepo(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	db, err := NewDB(dir, zerolog.Nop())
	require.NoError(t, err)
	defer db.Close()

	repo := NewDeliveryRepo(zerolog.Nop(), db)

	t.Run("unknown novel has no deliveries", func(t *testing.T) {
		delivered, err := repo.Delivered(ctx, "404")
		require.NoError(t, err)
		require.Empty(t, delivered)
	})

	t.Run("recorded deliveries are returned per novel", func(t *testing.T) {
		require.NoError(t, repo.Record(ctx, domain.Delivery{
			NovelID:       "10425",
			ChapterNumber: 45,
			MessageID:     "m1",
			SentAt:        "2024-06-01T12:00:00Z",
		}))
		require.NoError(t, repo.Record(ctx, domain.Delivery{
			NovelID:       "10425",
			ChapterNumber: 44.5,
			MessageID:     "m2",
			SentAt:        "2024-06-01T12:00:01Z",
		}))
		require.NoError(t, repo.Record(ctx, domain.Delivery{
			NovelID:       "9981",
			ChapterNumber: 7,
			MessageID:     "m3",
			SentAt:        "2024-06-01T12:00:02Z",
		}))

		delivered, err := repo.Delivered(ctx, "10425")
		require.NoError(t, err)
		require.Equal(t, map[float64]string{45: "m1", 44.5: "m2"}, delivered)
	})

	t.Run("recording the same chapter twice replaces the entry", func(t *testing.T) {
		require.NoError(t, repo.Record(ctx, domain.Delivery{
			NovelID:       "10425",
			ChapterNumber: 45,
			MessageID:     "m9",
			SentAt:        "2024-06-02T12:00:00Z",
		}))

		delivered, err := repo.Delivered(ctx, "10425")
		require.NoError(t, err)
		require.Equal(t, "m9", delivered[45])
		require.Len(t, delivered, 2)
	})
}

func TestMigrateIsIdempotent(t *testing.T) {
	dir := t.TempDir()

	db, err := NewDB(dir, zerolog.Nop())
	require.NoError(t, err)

	repo := NewDeliveryRepo(zerolog.Nop(), db)
	require.NoError(t, repo.Record(context.Background(), domain.Delivery{
		NovelID:       "10425",
		ChapterNumber: 1,
		MessageID:     "m1",
		SentAt:        "2024-06-01T12:00:00Z",
	}))
	require.NoError(t, db.Close())

	reopened, err := NewDB(dir, zerolog.Nop())
	require.NoError(t, err)
	defer reopened.Close()

	delivered, err := NewDeliveryRepo(zerolog.Nop(), reopened).Delivered(context.Background(), "10425")
	require.NoError(t, err)
	require.Equal(t, map[float64]string{1: "m1"}, delivered)
}
