package fonts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned when no font file matches.
var ErrNotFound = errors.New("fonts: no matching font")

// Exts are the font file extensions raylib can load.
var Exts = []string{".ttf", ".otf"}

// DefaultDirs are searched when a font is given by name (relative to the process cwd).
var DefaultDirs = []string{"assets/fonts"}

// Scan returns the paths, relative to dir and with forward slashes, of every font file under
// dir. A missing dir yields no fonts and no error.
func Scan(dir string) ([]string, error) {
	var out []string
	dir = filepath.Clean(dir)
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if info.IsDir() || !isFont(path) {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	return out, err
}

func isFont(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Exts {
		if ext == e {
			return true
		}
	}
	return false
}

// normalize lowercases and drops spaces, dashes and underscores so "Noto Sans" finds
// "NotoSans-Regular.ttf".
func normalize(s string) string {
	s = strings.ToLower(s)
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(s)
}

// Resolve finds the font file for search. An existing font file path is returned as is;
// otherwise search is matched against the fonts under dirs, preferring a "Regular" face when a
// family has several. An empty search means the built-in font and returns "", nil.
func Resolve(search string, dirs []string) (string, error) {
	search = strings.TrimSpace(search)
	if search == "" {
		return "", nil
	}
	if st, err := os.Stat(search); err == nil && !st.IsDir() && isFont(search) {
		return search, nil
	}
	norm := normalize(strings.TrimSuffix(search, filepath.Ext(search)))
	var matches []string
	for _, dir := range dirs {
		list, err := Scan(dir)
		if err != nil {
			return "", fmt.Errorf("fonts: scan %s: %w", dir, err)
		}
		for _, rel := range list {
			if strings.Contains(normalize(rel), norm) {
				matches = append(matches, filepath.Join(dir, filepath.FromSlash(rel)))
			}
		}
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("%w: %q", ErrNotFound, search)
	}
	for _, m := range matches {
		if strings.Contains(strings.ToLower(filepath.Base(m)), "regular") {
			return m, nil
		}
	}
	return matches[0], nil
}
