package train

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Discover expands inputs into subtitle file paths. Directories contribute
// their direct children with a matching extension, or every descendant when
// recursive is set. Explicit file arguments are kept regardless of extension
// so a parse failure is reported rather than silently ignored.
func Discover(inputs []string, recursive bool, extensions []string) ([]string, error) {
	allowed := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		allowed[strings.ToLower(ext)] = struct{}{}
	}
	matches := func(path string) bool {
		_, ok := allowed[strings.ToLower(filepath.Ext(path))]
		return ok
	}

	var out []string
	seen := make(map[string]struct{})
	add := func(path string) {
		if _, dup := seen[path]; dup {
			return
		}
		seen[path] = struct{}{}
		out = append(out, path)
	}

	for _, input := range inputs {
		info, err := os.Stat(input)
		if err != nil {
			// Surface as a per-file failure later.
			add(input)
			continue
		}
		if !info.IsDir() {
			add(input)
			continue
		}

		var found []string
		if recursive {
			err = filepath.WalkDir(input, func(path string, d fs.DirEntry, walkErr error) error {
				if walkErr != nil {
					return walkErr
				}
				if !d.IsDir() && matches(path) {
					found = append(found, path)
				}
				return nil
			})
		} else {
			var entries []os.DirEntry
			entries, err = os.ReadDir(input)
			for _, entry := range entries {
				if !entry.IsDir() && matches(entry.Name()) {
					found = append(found, filepath.Join(input, entry.Name()))
				}
			}
		}
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", input, err)
		}
		slices.Sort(found)
		for _, path := range found {
			add(path)
		}
	}
	return out, nil
}
