package jobs

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Sweep removes top-level entries of dir older than maxAge whose name is not
// in live. It returns the number of entries removed. A missing dir is empty.
func Sweep(dir string, maxAge time.Duration, live map[string]bool) (int, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0

	var errs []error
	for _, e := range entries {
		if live[artifactName(e.Name())] {
			continue
		}

		info, err := e.Info()
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				errs = append(errs, err)
			}
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}

		if err := os.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
			errs = append(errs, err)
			continue
		}
		removed++
	}

	return removed, errors.Join(errs...)
}

// artifactName reduces a directory entry to the id its artifact was created
// under: "<id>", "<id>.zip" and the ".<id>.zip.*.tmp" staging file all map to "<id>".
func artifactName(entry string) string {
	name, _, _ := strings.Cut(strings.TrimPrefix(entry, "."), ".")
	return name
}

// artifactRoot returns the top-level entry of dir that holds path, or ""
// when path lies outside dir.
func artifactRoot(dir, path string) string {
	if path == "" {
		return ""
	}

	rel, err := filepath.Rel(dir, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return ""
	}

	root, _, _ := strings.Cut(filepath.ToSlash(rel), "/")
	return root
}

func removeArtifact(dir, path string) error {
	root := artifactRoot(dir, path)
	if root == "" {
		return nil
	}
	return os.RemoveAll(filepath.Join(dir, root))
}
