package walker

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/monochromegane/go-gitignore"
)

type matcher struct {
	patterns []string
	ignore   gitignore.IgnoreMatcher
}

func gitignorePath(root string) string {
	return filepath.Join(root, ".gitignore")
}

// newMatcher always returns a usable matcher; a .gitignore that cannot be
// loaded is reported through the error and left out.
func newMatcher(root string, opts Options) (*matcher, error) {
	m := &matcher{patterns: opts.Exclude}
	if !opts.Gitignore {
		return m, nil
	}

	path := gitignorePath(root)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return m, nil
		}
		return m, err
	}

	// Relative paths are matched against a relative base.
	ignore, err := gitignore.NewGitIgnore(path, ".")
	if err != nil {
		return m, err
	}
	m.ignore = ignore
	return m, nil
}

func (m *matcher) excluded(relPath string, isDir bool) bool {
	if m == nil {
		return false
	}
	if m.ignore != nil && m.ignore.Match(filepath.ToSlash(relPath), isDir) {
		return true
	}
	return shouldExclude(relPath, isDir, m.patterns)
}

func shouldExclude(relPath string, isDir bool, exclusions []string) bool {
	for _, pattern := range exclusions {
		// Handle directory exclusions (patterns ending with /)
		if strings.HasSuffix(pattern, "/") {
			dirPattern := strings.TrimSuffix(pattern, "/")
			parts := strings.Split(relPath, string(filepath.Separator))
			if !isDir {
				parts = parts[:len(parts)-1]
			}
			for _, part := range parts {
				if part == dirPattern {
					return true
				}
				if matched, _ := filepath.Match(dirPattern, part); matched {
					return true
				}
			}
			continue
		}

		matched, err := filepath.Match(pattern, filepath.Base(relPath))
		if err == nil && matched {
			return true
		}
		// Patterns with a separator match the whole relative path
		if strings.Contains(pattern, "/") {
			matched, err := filepath.Match(pattern, filepath.ToSlash(relPath))
			if err == nil && matched {
				return true
			}
		}
	}
	return false
}
