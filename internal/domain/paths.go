package domain

import "path/filepath"

// Paths holds all the file paths for persisted state
type Paths struct {
	RootDir        string
	CachePath      string
	StatusMsgPath  string
	CoversPath     string
	UnmappedCovers string
	StatusMarkdown string
	DatabaseDir    string
}

// NewPaths creates a new Paths instance with all paths initialized
func NewPaths(rootDir string) *Paths {
	return &Paths{
		RootDir:        rootDir,
		CachePath:      filepath.Join(rootDir, "cache.json"),
		StatusMsgPath:  filepath.Join(rootDir, "status-message-id.txt"),
		CoversPath:     filepath.Join(rootDir, "covers-master.yaml"),
		UnmappedCovers: filepath.Join(rootDir, "covers-unmapped.yaml"),
		StatusMarkdown: filepath.Join(rootDir, "novel_status.md"),
		DatabaseDir:    rootDir,
	}
}
