package database

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/sang765/tmr-novel-tracking/internal/domain"
)

func TestSeedDeliveries(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	db, err := NewDB(dir, zerolog.Nop())
	require.NoError(t, err)
	defer db.Close()

	repo := NewDeliveryRepo(zerolog.Nop(), db)

	snapshot := domain.NewSnapshot()
	snapshot.Novels["10425"] = domain.NovelState{
		Chapters: []domain.Chapter{
			{Number: 45, Title: "Chương 45: Mở màn", Timestamp: "2024-06-01T12:00:00Z"},
			{Number: 44.5, Title: "Chương 44.5: Ngoại truyện", Timestamp: "2024-06-01T11:00:00Z"},
		},
	}
	snapshot.Novels["7334"] = domain.NovelState{
		Chapters: []domain.Chapter{
			{Number: 1, Title: "Chương 1: Khởi đầu"},
		},
	}

	t.Run("seeds every cached chapter", func(t *testing.T) {
		seeded, err := SeedDeliveries(ctx, repo, snapshot, zerolog.Nop())
		require.NoError(t, err)
		require.Equal(t, 3, seeded)

		delivered, err := repo.Delivered(ctx, "10425")
		require.NoError(t, err)
		require.Equal(t, map[float64]string{45: "", 44.5: ""}, delivered)

		delivered, err = repo.Delivered(ctx, "7334")
		require.NoError(t, err)
		require.Equal(t, map[float64]string{1: ""}, delivered)
	})

	t.Run("second run seeds nothing", func(t *testing.T) {
		seeded, err := SeedDeliveries(ctx, repo, snapshot, zerolog.Nop())
		require.NoError(t, err)
		require.Zero(t, seeded)
	})

	t.Run("existing message ids are kept", func(t *testing.T) {
		require.NoError(t, repo.Record(ctx, domain.Delivery{
			NovelID:       "10425",
			ChapterNumber: 46,
			MessageID:     "m46",
			SentAt:        "2024-06-02T12:00:00Z",
		}))

		snapshot.Novels["10425"] = domain.NovelState{
			Chapters: append([]domain.Chapter{
				{Number: 46, Title: "Chương 46: Trở lại", Timestamp: "2024-06-02T12:00:00Z"},
			}, snapshot.Novels["10425"].Chapters...),
		}

		seeded, err := SeedDeliveries(ctx, repo, snapshot, zerolog.Nop())
		require.NoError(t, err)
		require.Zero(t, seeded)

		delivered, err := repo.Delivered(ctx, "10425")
		require.NoError(t, err)
		require.Equal(t, "m46", delivered[46])
	})
}
