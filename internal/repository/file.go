package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/sang765/tmr-novel-tracking/internal/domain"
)

// FileRepository implements domain.SnapshotRepository, domain.MessageStore
// and domain.CoverRepository using file storage
type FileRepository struct {
	log zerolog.Logger
}

// NewFileRepository creates a new file-based repository
func NewFileRepository(log zerolog.Logger) *FileRepository {
	return &FileRepository{
		log: log.With().Str("module", "repository").Logger(),
	}
}

// Ensure FileRepository implements the storage interfaces
var _ domain.SnapshotRepository = (*FileRepository)(nil)
var _ domain.MessageStore = (*FileRepository)(nil)
var _ domain.CoverRepository = (*FileRepository)(nil)

// GetSnapshot loads the cache snapshot from a file. A missing or
// unreadable snapshot yields the empty default shape so a damaged cache
// never aborts a run.
func (r *FileRepository) GetSnapshot(ctx context.Context, path string) (*domain.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			r.log.Debug().Str("path", path).Msg("no cache snapshot found, starting fresh")
			return domain.NewSnapshot(), nil
		}
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer f.Close()

	body, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	snapshot := domain.NewSnapshot()
	if err := json.Unmarshal(body, snapshot); err != nil {
		r.log.Warn().Err(err).Str("path", path).Msg("cache snapshot is corrupt, starting fresh")
		return domain.NewSnapshot(), nil
	}

	if snapshot.Novels == nil {
		snapshot.Novels = make(map[string]domain.NovelState)
	}

	return snapshot, nil
}

// StoreSnapshot saves the cache snapshot to a file. The write goes
// through a temporary file and a rename so a crash mid-write cannot
// leave a truncated snapshot behind.
func (r *FileRepository) StoreSnapshot(ctx context.Context, path string, snapshot *domain.Snapshot) error {
	j, err := json.MarshalIndent(snapshot, "", "   ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, j, 0644); err != nil {
		return fmt.Errorf("failed to write to file %s: %w", tmp, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to rename %s to %s: %w", tmp, path, err)
	}

	r.log.Debug().Str("path", path).Int("count", len(snapshot.Novels)).Msg("stored cache snapshot")
	return nil
}

// GetStatusMessageID retrieves the identifier of the last status
// message sent to the webhook. An absent file means no message has been
// sent yet.
func (r *FileRepository) GetStatusMessageID(ctx context.Context, path string) (string, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read file %s: %w", path, err)
	}

	return strings.TrimSpace(string(body)), nil
}

// StoreStatusMessageID saves the identifier of the last status message
func (r *FileRepository) StoreStatusMessageID(ctx context.Context, path string, id string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	if err := os.WriteFile(path, []byte(id+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write to file %s: %w", path, err)
	}

	r.log.Debug().Str("path", path).Str("id", id).Msg("stored status message id")
	return nil
}

// GetCovers retrieves a cover mapping from a file
func (r *FileRepository) GetCovers(ctx context.Context, path string) (*domain.CoverMap, error) {
	cm := &domain.CoverMap{}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("file does not exist: %w", err)
	}
	defer f.Close()

	b, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	if err := yaml.Unmarshal(b, cm); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	return cm, nil
}

// StoreCovers saves a cover mapping to a file, with a blank line
// between entries to keep the file hand-editable.
func (r *FileRepository) StoreCovers(ctx context.Context, path string, covers *domain.CoverMap) error {
	b, err := yaml.Marshal(covers)
	if err != nil {
		return fmt.Errorf("failed to marshal yaml: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	lines := strings.Split(string(b), "\n")
	idFound := false
	for i, line := range lines {
		if strings.Contains(line, "novel_id") {
			if idFound {
				lines[i-1] += "\n"
			} else {
				idFound = true
			}
		}
	}

	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	r.log.Debug().Str("path", path).Int("count", len(covers.Novels)).Msg("stored cover mapping")
	return nil
}

// StoreStatusMarkdown renders the status rows into a markdown file, one
// linked title per novel with its status and last update quoted below.
func (r *FileRepository) StoreStatusMarkdown(ctx context.Context, path string, groupName string, statuses []domain.NovelStatus) error {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Trạng thái các bộ truyện - %s\n\n", groupName))

	for _, s := range statuses {
		sb.WriteString(fmt.Sprintf("[%s](<%s>)\n", s.Title, s.URL))
		sb.WriteString(fmt.Sprintf("> **Trạng thái:** %s\n", s.Status))
		sb.WriteString(fmt.Sprintf("> **Cập nhật:** %s\n\n", s.LastUpdate))
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}

	r.log.Debug().Str("path", path).Int("count", len(statuses)).Msg("stored status markdown")
	return nil
}
