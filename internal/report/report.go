package report

import (
	"slices"
	"time"

	"dupfind/internal/index"
	"dupfind/internal/walker"
)

// Report is everything the presenters render for one scan.
type Report struct {
	Root    string
	Created time.Time
	Groups  []index.Group
	Scanned int
	Skipped []*walker.SkipError
	Digest  string
}

func (r *Report) HasDuplicates() bool {
	return len(r.Groups) > 0
}

// Order sorts groups by descending size of their first member. Groups of
// equal size keep their input order. Changing this ordering changes the
// tool's output.
func Order(groups []index.Group) []index.Group {
	ordered := slices.Clone(groups)
	slices.SortStableFunc(ordered, func(a, b index.Group) int {
		switch {
		case a.Size() > b.Size():
			return -1
		case a.Size() < b.Size():
			return 1
		default:
			return 0
		}
	})
	return ordered
}

// Reclaimable returns the bytes freed by keeping one member of each group.
func Reclaimable(groups []index.Group) int64 {
	var total int64
	for _, g := range groups {
		if len(g.Files) > 1 {
			total += int64(len(g.Files)-1) * g.Size()
		}
	}
	return total
}
