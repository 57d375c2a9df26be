package pipeline

import (
	"strings"

	"ytmp3/internal/fileutil"
	"ytmp3/internal/textutil"
)

// folderName turns a title into a directory or file stem, falling back to
// the id when the title sanitizes to nothing.
func folderName(title, id string) string {
	name := strings.TrimSpace(textutil.SanitizeFileName(textutil.NormalizeTitle(title)))
	name = strings.TrimRight(name, ". ")
	if name == "" {
		return id
	}
	return name
}

func listMP3(dir string) ([]string, error) {
	return fileutil.ListByExtension(dir, ".mp3")
}
