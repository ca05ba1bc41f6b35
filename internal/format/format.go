package format

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/sang765/tmr-novel-tracking/internal/domain"
)

// FormatCovers rewrites a cover mapping file in canonical form. The
// master file is edited by hand, so indentation and spacing drift over
// time; a load and store round-trip through the repository normalizes
// it. A missing file is left alone.
func FormatCovers(ctx context.Context, path string, repo domain.CoverRepository) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	covers, err := repo.GetCovers(ctx, path)
	if err != nil {
		return errors.Wrap(err, "failed to load cover mapping")
	}

	if err := repo.StoreCovers(ctx, path, covers); err != nil {
		return errors.Wrap(err, "failed to store cover mapping")
	}

	return nil
}
