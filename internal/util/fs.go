package util

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// EnsureDir creates the directory path if it does not exist.
func EnsureDir(path string) error {
	if path == "" {
		return errors.New("empty path")
	}
	return os.MkdirAll(filepath.Clean(path), 0o755)
}

// RemoveIfExists deletes the file if present.
func RemoveIfExists(path string) error {
	if _, err := os.Stat(path); err == nil {
		return os.Remove(path)
	} else if os.IsNotExist(err) {
		return nil
	} else {
		return err
	}
}

// ReplaceExt renames path so that it carries ext (with or without the
// leading dot). An existing file at the target is removed first, so the
// rename also succeeds on a retry. Returns the new path.
func ReplaceExt(path, ext string) (string, error) {
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	target := strings.TrimSuffix(path, filepath.Ext(path)) + ext
	if target == path {
		return path, nil
	}
	if err := RemoveIfExists(target); err != nil {
		return "", err
	}
	if err := os.Rename(path, target); err != nil {
		return "", err
	}
	return target, nil
}

// SanitizeFilename cleans a video title so it can be used as a filename:
// - Replace forbidden characters with underscores
// - Collapse runs of whitespace and underscores
// - Truncate to a reasonable length (~200 runes)
//
// Spaces are kept, titles read better on disk that way.
func SanitizeFilename(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "untitled"
	}
	forbidden := `/\:*?"<>|` + "\x00"
	s = strings.Map(func(r rune) rune {
		if strings.ContainsRune(forbidden, r) || r < 0x20 {
			return '_'
		}
		return r
	}, s)
	s = strings.Join(strings.Fields(s), " ")
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	s = strings.Trim(s, " ._-")

	const maxRunes = 200
	if utf8.RuneCountInString(s) > maxRunes {
		s = string([]rune(s)[:maxRunes])
	}

	if s == "" {
		return "untitled"
	}
	return s
}
