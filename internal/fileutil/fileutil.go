// Package fileutil holds small filesystem helpers shared by the pipeline.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ListByExtension returns the regular files directly inside dir whose
// extension matches ext (case-insensitive, with or without the leading dot),
// sorted by name. Subdirectories are not descended.
func ListByExtension(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}
	want := strings.ToLower(strings.TrimPrefix(ext, "."))
	var files []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		got := strings.ToLower(strings.TrimPrefix(filepath.Ext(entry.Name()), "."))
		if got != want {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// HasContent reports whether path exists as a regular, non-empty file.
func HasContent(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Size() > 0
}

// Stem returns the base name of path without its final extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// RemoveAllQuiet deletes path recursively. A blank path is a no-op.
func RemoveAllQuiet(path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}
