package walker

import (
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
)

// FileRecord describes one regular file found during a walk.
type FileRecord struct {
	Dir  string
	Name string
	Size int64
}

// Path returns the full path of the file.
func (r FileRecord) Path() string {
	return filepath.Join(r.Dir, r.Name)
}

type Kind int

const (
	// SubtreeUnreadable means a directory could not be listed; its
	// contents were not visited.
	SubtreeUnreadable Kind = iota + 1
	// FileUnreadable means a single file could not be inspected or read.
	FileUnreadable
)

func (k Kind) String() string {
	switch k {
	case SubtreeUnreadable:
		return "subtree-unreadable"
	case FileUnreadable:
		return "file-unreadable"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// SkipError reports a path that was left out of the walk.
type SkipError struct {
	Kind Kind
	Path string
	Err  error
}

func (e *SkipError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
}

func (e *SkipError) Unwrap() error {
	return e.Err
}

type Options struct {
	// Exclude holds glob patterns. Patterns ending in "/" prune directories
	// by name at any depth.
	Exclude []string

	// FollowSymlinks descends into symlinked directories. Each resolved
	// directory is visited at most once.
	FollowSymlinks bool

	// Gitignore applies the rules of <root>/.gitignore when present.
	Gitignore bool
}

// Walk lazily yields every regular file under root. Directories are
// descended depth-first with entries in lexical order. Paths that cannot be
// read are yielded as *SkipError values and the walk continues unless the
// consumer stops iterating.
func Walk(root string, opts Options) iter.Seq2[FileRecord, error] {
	return func(yield func(FileRecord, error) bool) {
		w := &walk{
			root:    root,
			opts:    opts,
			yield:   yield,
			visited: make(map[string]bool),
		}

		m, err := newMatcher(root, opts)
		if err != nil {
			if !yield(FileRecord{}, &SkipError{Kind: FileUnreadable, Path: gitignorePath(root), Err: err}) {
				return
			}
		}
		w.match = m

		if opts.FollowSymlinks {
			w.enter(root)
		}
		w.dir(root)
	}
}

type walk struct {
	root    string
	opts    Options
	match   *matcher
	yield   func(FileRecord, error) bool
	visited map[string]bool
}

// enter marks the resolved directory as visited and reports whether it had
// not been seen before.
func (w *walk) enter(path string) bool {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		resolved = path
	}
	if w.visited[resolved] {
		return false
	}
	w.visited[resolved] = true
	return true
}

func (w *walk) skip(kind Kind, path string, err error) bool {
	return w.yield(FileRecord{}, &SkipError{Kind: kind, Path: path, Err: err})
}

// dir walks one directory and returns false once the consumer has stopped.
func (w *walk) dir(dir string) bool {
	// ReadDir returns the entries it managed to read along with the error.
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !w.skip(SubtreeUnreadable, dir, err) {
			return false
		}
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		relPath, err := filepath.Rel(w.root, path)
		if err != nil {
			relPath = entry.Name()
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			if !w.symlink(dir, entry.Name(), path, relPath) {
				return false
			}
			continue
		}

		if entry.IsDir() {
			if w.match.excluded(relPath, true) {
				continue
			}
			if w.opts.FollowSymlinks && !w.enter(path) {
				continue
			}
			if !w.dir(path) {
				return false
			}
			continue
		}

		if !entry.Type().IsRegular() || w.match.excluded(relPath, false) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			if !w.skip(FileUnreadable, path, err) {
				return false
			}
			continue
		}

		if !w.yield(FileRecord{Dir: dir, Name: entry.Name(), Size: info.Size()}, nil) {
			return false
		}
	}

	return true
}

func (w *walk) symlink(dir, name, path, relPath string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return w.skip(FileUnreadable, path, err)
	}

	if info.IsDir() {
		if !w.opts.FollowSymlinks || w.match.excluded(relPath, true) || !w.enter(path) {
			return true
		}
		return w.dir(path)
	}

	if !info.Mode().IsRegular() || w.match.excluded(relPath, false) {
		return true
	}
	return w.yield(FileRecord{Dir: dir, Name: name, Size: info.Size()}, nil)
}
