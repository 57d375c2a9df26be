// Package staging manages the per-video scratch directories that hold
// downloaded audio until it has been transcoded.
package staging

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// Prefix marks scratch directories created by ytmp3 inside the temp root.
// Only directories carrying it are ever listed or removed.
const Prefix = "ytmp3-"

// NewScratch creates a private scratch directory under tempRoot.
func NewScratch(tempRoot string) (string, error) {
	if err := os.MkdirAll(tempRoot, 0o755); err != nil {
		return "", fmt.Errorf("create temp root: %w", err)
	}
	dir, err := os.MkdirTemp(tempRoot, Prefix+"*")
	if err != nil {
		return "", fmt.Errorf("create scratch directory: %w", err)
	}
	return dir, nil
}

// DirInfo describes one scratch directory.
type DirInfo struct {
	Name    string
	Path    string
	ModTime time.Time
	// Size is the total of regular files inside, best effort.
	Size int64
}

// Age is how long ago the directory was last modified.
func (d DirInfo) Age(now time.Time) time.Duration {
	return now.Sub(d.ModTime)
}

// ListDirectories returns the scratch directories under tempRoot, oldest
// first. A blank or missing tempRoot lists nothing.
func ListDirectories(tempRoot string) ([]DirInfo, error) {
	tempRoot = strings.TrimSpace(tempRoot)
	if tempRoot == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(tempRoot)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read temp root: %w", err)
	}

	var dirs []DirInfo
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), Prefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			// Removed between ReadDir and Info.
			continue
		}
		path := filepath.Join(tempRoot, entry.Name())
		dirs = append(dirs, DirInfo{
			Name:    entry.Name(),
			Path:    path,
			ModTime: info.ModTime(),
			Size:    treeSize(path),
		})
	}
	slices.SortFunc(dirs, func(a, b DirInfo) int {
		return cmp.Or(a.ModTime.Compare(b.ModTime), strings.Compare(a.Name, b.Name))
	})
	return dirs, nil
}

func treeSize(root string) int64 {
	var total int64
	_ = filepath.WalkDir(root, func(_ string, d fs.DirEntry, err error) error {
		if err != nil || !d.Type().IsRegular() {
			return nil
		}
		if info, err := d.Info(); err == nil {
			total += info.Size()
		}
		return nil
	})
	return total
}
