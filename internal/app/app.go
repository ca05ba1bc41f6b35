package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/sang765/tmr-novel-tracking/internal/config"
	"github.com/sang765/tmr-novel-tracking/internal/database"
	"github.com/sang765/tmr-novel-tracking/internal/diff"
	"github.com/sang765/tmr-novel-tracking/internal/domain"
	"github.com/sang765/tmr-novel-tracking/internal/fetcher"
	"github.com/sang765/tmr-novel-tracking/internal/format"
	"github.com/sang765/tmr-novel-tracking/internal/hako"
	"github.com/sang765/tmr-novel-tracking/internal/logger"
	"github.com/sang765/tmr-novel-tracking/internal/notification"
	"github.com/sang765/tmr-novel-tracking/internal/repository"
)

// App represents the main application with all dependencies initialized
type App struct {
	log           zerolog.Logger
	config        *domain.Config
	paths         *domain.Paths
	fileRepo      *repository.FileRepository
	hakoService   hako.Service
	statusService hako.StatusService
	diffService   diff.Service
}

// NewApp creates a new application instance with all dependencies initialized
func NewApp() (*App, error) {
	log := logger.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Paths are rebuilt per command once the root path flag is known
	paths := domain.NewPaths(".")

	f := fetcher.New(log, fetcher.Options{
		UserAgent: cfg.UserAgent,
	})

	return &App{
		log:           log,
		config:        cfg,
		paths:         paths,
		fileRepo:      repository.NewFileRepository(log),
		hakoService:   hako.NewService(log, cfg, f),
		statusService: hako.NewStatusService(log, cfg),
		diffService:   diff.NewService(log),
	}, nil
}

// Run executes one chapter check: scrape the group's novels, diff each
// chapter list against the cache snapshot, announce what is new and
// persist the updated snapshot.
func (a *App) Run(rootPath string) error {
	ctx := context.Background()

	a.paths = domain.NewPaths(rootPath)

	snapshot, err := a.fileRepo.GetSnapshot(ctx, a.paths.CachePath)
	if err != nil {
		a.log.Warn().Err(err).Msg("failed to load cache snapshot, starting fresh")
		snapshot = domain.NewSnapshot()
	}

	covers := a.loadCovers(ctx)

	deliveries, closeDB := a.openDeliveryLog()
	defer closeDB()

	notifier := notification.NewService(a.log, a.config, deliveries, a.fileRepo, a.paths.StatusMsgPath)

	novels, err := a.hakoService.GetNovels(ctx)
	if err != nil {
		return fmt.Errorf("failed to get novels: %w", err)
	}

	if len(novels) == 0 {
		a.log.Error().Msg("no novels found, exiting")
		return nil
	}

	releases := []domain.Release{}
	for _, novel := range novels {
		a.log.Info().Str("novel", novel.Title).Msg("checking novel")

		chapters, err := a.hakoService.GetChapters(ctx, novel)
		if err != nil {
			a.log.Warn().Err(err).Str("novel", novel.Title).Msg("failed to fetch novel page")
			continue
		}

		if len(chapters) == 0 {
			a.log.Warn().Str("novel", novel.Title).Msg("no chapters found")
			continue
		}

		fresh := a.diffService.NewChapters(chapters, snapshot.Novels[novel.ID].Chapters)
		a.log.Info().Str("novel", novel.Title).Int("count", len(fresh)).Msg("found new chapters")

		for _, c := range fresh {
			releases = append(releases, domain.Release{
				Chapter:    c,
				NovelID:    novel.ID,
				NovelTitle: novel.Title,
				NovelURL:   novel.URL,
				CoverURL:   a.coverFor(covers, novel.ID),
			})
		}

		snapshot.Novels[novel.ID] = domain.NovelState{
			Chapters:  chapters,
			LastCheck: time.Now().UTC().Format(time.RFC3339),
		}
	}

	notifier.AnnounceReleases(ctx, releases)

	snapshot.LastCheck = time.Now().UTC().Format(time.RFC3339)
	if err := a.fileRepo.StoreSnapshot(ctx, a.paths.CachePath, snapshot); err != nil {
		a.log.Error().Err(err).Msg("failed to save cache snapshot")
	}

	a.log.Info().Int("new_chapters", len(releases)).Msg("chapter check completed")
	return nil
}

// RunStatus scrapes the status board and publishes it as a single
// edit-in-place webhook message. The webhook URL is required here,
// unlike the chapter check.
func (a *App) RunStatus(rootPath string, writeMarkdown bool) error {
	ctx := context.Background()

	if err := config.RequireWebhook(a.config); err != nil {
		return err
	}

	a.paths = domain.NewPaths(rootPath)

	statuses, err := a.statusService.GetStatuses(ctx)
	if err != nil {
		return fmt.Errorf("failed to scrape status pages: %w", err)
	}

	if len(statuses) == 0 {
		a.log.Error().Msg("no status rows found, exiting")
		return nil
	}

	notifier := notification.NewService(a.log, a.config, nil, a.fileRepo, a.paths.StatusMsgPath)

	if err := notifier.PublishStatus(ctx, statuses, time.Now().UTC()); err != nil {
		a.log.Error().Err(err).Msg("failed to publish status message")
	}

	if writeMarkdown {
		if err := a.fileRepo.StoreStatusMarkdown(ctx, a.paths.StatusMarkdown, a.config.GroupName, statuses); err != nil {
			a.log.Error().Err(err).Msg("failed to write status markdown")
		}
	}

	a.log.Info().Int("novels", len(statuses)).Msg("status update completed")
	return nil
}

// GenerateCovers refreshes the unmapped covers file from the group's
// current series list, carrying curated cover URLs over from the master
// mapping. Novels without a curated cover keep an empty value for hand
// editing.
func (a *App) GenerateCovers(rootPath string) error {
	ctx := context.Background()

	a.paths = domain.NewPaths(rootPath)

	novels, err := a.hakoService.GetNovels(ctx)
	if err != nil {
		return fmt.Errorf("failed to get novels: %w", err)
	}

	if len(novels) == 0 {
		return fmt.Errorf("no novels found on group page")
	}

	master, err := a.fileRepo.GetCovers(ctx, a.paths.CoversPath)
	masterMissing := err != nil
	if masterMissing {
		master = &domain.CoverMap{}
	}

	unmapped := &domain.CoverMap{}
	for _, novel := range novels {
		unmapped.Novels = append(unmapped.Novels, domain.NovelCover{
			NovelID: novel.ID,
			Title:   novel.Title,
			Cover:   master.CoverFor(novel.ID),
		})
	}

	if err := a.fileRepo.StoreCovers(ctx, a.paths.UnmappedCovers, unmapped); err != nil {
		return fmt.Errorf("failed to store unmapped covers: %w", err)
	}

	if masterMissing {
		if err := a.fileRepo.StoreCovers(ctx, a.paths.CoversPath, unmapped); err != nil {
			return fmt.Errorf("failed to bootstrap cover master: %w", err)
		}
		a.log.Info().Str("path", a.paths.CoversPath).Msg("bootstrapped cover master from group page")
	}

	a.log.Info().Int("count", len(unmapped.Novels)).Msg("cover mapping generated")
	return nil
}

// FormatCovers rewrites the cover mapping files in canonical form
func (a *App) FormatCovers(rootPath string) error {
	ctx := context.Background()

	a.paths = domain.NewPaths(rootPath)

	if err := format.FormatCovers(ctx, a.paths.CoversPath, a.fileRepo); err != nil {
		return fmt.Errorf("failed to format cover master: %w", err)
	}

	if err := format.FormatCovers(ctx, a.paths.UnmappedCovers, a.fileRepo); err != nil {
		return fmt.Errorf("failed to format unmapped covers: %w", err)
	}

	return nil
}

// loadCovers loads the curated cover mapping. Covers are an optional
// nicety, so a missing mapping is not an error.
func (a *App) loadCovers(ctx context.Context) *domain.CoverMap {
	covers, err := a.fileRepo.GetCovers(ctx, a.paths.CoversPath)
	if err != nil {
		a.log.Debug().Str("path", a.paths.CoversPath).Msg("no curated cover mapping found")
		return nil
	}

	return covers
}

// coverFor resolves a novel's embed image: the curated cover when one
// is mapped, the configured placeholder otherwise.
func (a *App) coverFor(covers *domain.CoverMap, novelID string) string {
	if url := covers.CoverFor(novelID); url != "" {
		return url
	}

	return a.config.CoverURL
}

// openDeliveryLog opens the sqlite delivery log. A database that cannot
// be opened disables the duplicate guard but never fails the run.
func (a *App) openDeliveryLog() (domain.DeliveryRepo, func()) {
	db, err := database.NewDB(a.paths.DatabaseDir, a.log)
	if err != nil {
		a.log.Warn().Err(err).Msg("failed to open delivery log, duplicate guard disabled")
		return nil, func() {}
	}

	return database.NewDeliveryRepo(a.log, db), func() {
		if err := db.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close delivery log")
		}
	}
}
