// Package index accumulates fingerprinted files and reports the groups that
// share a fingerprint.
package index

import (
	"sync"

	"dupfind/internal/hash"
	"dupfind/internal/walker"
)

// Group is a set of files sharing one fingerprint, in first-seen order.
type Group struct {
	Fingerprint hash.Fingerprint
	Files       []walker.FileRecord
}

// Size returns the size of the group's first member.
func (g Group) Size() int64 {
	if len(g.Files) == 0 {
		return 0
	}
	return g.Files[0].Size
}

// Paths returns the full paths of the group members.
func (g Group) Paths() []string {
	paths := make([]string, len(g.Files))
	for i, f := range g.Files {
		paths[i] = f.Path()
	}
	return paths
}

// Index maps fingerprints to the files that produced them. Ingest is safe for
// concurrent use.
type Index struct {
	mu     sync.Mutex
	groups map[hash.Fingerprint]*Group
	order  []*Group
	files  int
}

func New() *Index {
	return &Index{groups: make(map[hash.Fingerprint]*Group)}
}

// Ingest appends rec to the group keyed by fp, creating the group on first
// sight.
func (x *Index) Ingest(rec walker.FileRecord, fp hash.Fingerprint) {
	x.mu.Lock()
	defer x.mu.Unlock()

	g, ok := x.groups[fp]
	if !ok {
		g = &Group{Fingerprint: fp}
		x.groups[fp] = g
		x.order = append(x.order, g)
	}
	g.Files = append(g.Files, rec)
	x.files++
}

// DuplicateGroups returns copies of the groups holding at least two distinct
// paths, in the order the groups were created. Repeated entries for one path
// are reported once, at their first position.
func (x *Index) DuplicateGroups() []Group {
	x.mu.Lock()
	defer x.mu.Unlock()

	var result []Group
	for _, g := range x.order {
		files := distinctByPath(g.Files)
		if len(files) < 2 {
			continue
		}
		result = append(result, Group{Fingerprint: g.Fingerprint, Files: files})
	}
	return result
}

// Len returns the number of distinct fingerprints.
func (x *Index) Len() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return len(x.groups)
}

// Files returns the number of ingested entries.
func (x *Index) Files() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.files
}

func distinctByPath(files []walker.FileRecord) []walker.FileRecord {
	seen := make(map[string]bool, len(files))
	out := make([]walker.FileRecord, 0, len(files))
	for _, f := range files {
		p := f.Path()
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, f)
	}
	return out
}
