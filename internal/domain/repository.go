package domain

import (
	"context"
)

// SnapshotRepository defines the interface for cache snapshot storage
type SnapshotRepository interface {
	GetSnapshot(ctx context.Context, path string) (*Snapshot, error)
	StoreSnapshot(ctx context.Context, path string, snapshot *Snapshot) error
}

// MessageStore defines the interface for persisting the identifier of
// the last status message sent to the webhook
type MessageStore interface {
	GetStatusMessageID(ctx context.Context, path string) (string, error)
	StoreStatusMessageID(ctx context.Context, path string, id string) error
}

// CoverRepository defines the interface for the curated cover mapping
type CoverRepository interface {
	GetCovers(ctx context.Context, path string) (*CoverMap, error)
	StoreCovers(ctx context.Context, path string, covers *CoverMap) error
}

// CoverMap maps novel ids to curated cover image URLs
type CoverMap struct {
	Novels []NovelCover `yaml:"novels"`
}

// NovelCover is a single curated cover entry
type NovelCover struct {
	NovelID string `yaml:"novel_id"`
	Title   string `yaml:"title"`
	Cover   string `yaml:"cover"`
}

// CoverFor returns the curated cover URL for a novel id, or "" when the
// novel has no curated entry.
func (c *CoverMap) CoverFor(novelID string) string {
	if c == nil {
		return ""
	}
	for _, v := range c.Novels {
		if v.NovelID == novelID {
			return v.Cover
		}
	}
	return ""
}
