// Package scan discovers video files under a base directory.
package scan

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultExtensions is the set of video extensions matched when the user
// adds none of their own.
var DefaultExtensions = []string{".mp4", ".avi", ".mov", ".mkv", ".wmv", ".m4v"}

type ExtSet map[string]struct{}

// NewExtSet builds the match set from the defaults plus any extra
// extensions. Extras are normalized: trimmed, lowercased, and given a
// leading dot when missing, so "-e webm" and "-e .WEBM" behave the same.
func NewExtSet(extra ...string) ExtSet {
	set := make(ExtSet, len(DefaultExtensions)+len(extra))
	for _, ext := range DefaultExtensions {
		set[ext] = struct{}{}
	}
	for _, ext := range extra {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[ext] = struct{}{}
	}
	return set
}

func (s ExtSet) Match(name string) bool {
	_, ok := s[strings.ToLower(filepath.Ext(name))]
	return ok
}

// Videos walks root recursively and returns the matching files sorted by
// path. Sorting pins the catalog order regardless of filesystem ordering, so
// two runs over the same tree produce the same report.
func Videos(root string, exts ExtSet) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		if exts.Match(d.Name()) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
