package index

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dupfind/internal/hash"
	"dupfind/internal/walker"
)

func rec(dir, name string, size int64) walker.FileRecord {
	return walker.FileRecord{Dir: dir, Name: name, Size: size}
}

func TestIndex_GroupsByFingerprint(t *testing.T) {
	x := New()
	fpX := hash.Fingerprint{Digest: "aaaa", Size: 100}
	fpY := hash.Fingerprint{Digest: "bbbb", Size: 50}

	x.Ingest(rec("/r", "a.txt", 100), fpX)
	x.Ingest(rec("/r", "c.txt", 50), fpY)
	x.Ingest(rec("/r", "b.txt", 100), fpX)

	groups := x.DuplicateGroups()
	require.Len(t, groups, 1)
	assert.Equal(t, fpX, groups[0].Fingerprint)
	assert.Equal(t, []string{"/r/a.txt", "/r/b.txt"}, groups[0].Paths())
	assert.Equal(t, 2, x.Len())
	assert.Equal(t, 3, x.Files())
}

func TestIndex_SizeDiscriminates(t *testing.T) {
	x := New()
	x.Ingest(rec("/r", "a", 100), hash.Fingerprint{Digest: "same", Size: 100})
	x.Ingest(rec("/r", "b", 200), hash.Fingerprint{Digest: "same", Size: 200})

	assert.Empty(t, x.DuplicateGroups())
}

func TestIndex_SamePathCountsOnce(t *testing.T) {
	x := New()
	fp := hash.Fingerprint{Digest: "dd", Size: 1}

	x.Ingest(rec("/r", "a", 1), fp)
	x.Ingest(rec("/r", "a", 1), fp)
	assert.Empty(t, x.DuplicateGroups(), "one path seen twice is not a duplicate")

	x.Ingest(rec("/r/sub", "a", 1), fp)
	groups := x.DuplicateGroups()
	require.Len(t, groups, 1)
	assert.Equal(t, []string{"/r/a", "/r/sub/a"}, groups[0].Paths())
}

func TestIndex_PreservesOrder(t *testing.T) {
	x := New()
	fp1 := hash.Fingerprint{Digest: "one", Size: 1}
	fp2 := hash.Fingerprint{Digest: "two", Size: 2}

	x.Ingest(rec("/r", "z", 1), fp1)
	x.Ingest(rec("/r", "y", 2), fp2)
	x.Ingest(rec("/r", "a", 1), fp1)
	x.Ingest(rec("/r", "b", 2), fp2)
	x.Ingest(rec("/r", "c", 1), fp1)

	groups := x.DuplicateGroups()
	require.Len(t, groups, 2)
	assert.Equal(t, fp1, groups[0].Fingerprint)
	assert.Equal(t, []string{"/r/z", "/r/a", "/r/c"}, groups[0].Paths())
	assert.Equal(t, fp2, groups[1].Fingerprint)
	assert.Equal(t, []string{"/r/y", "/r/b"}, groups[1].Paths())
}

func TestIndex_Empty(t *testing.T) {
	x := New()
	assert.Empty(t, x.DuplicateGroups())
	assert.Zero(t, x.Len())
}

func TestIndex_ReturnsCopies(t *testing.T) {
	x := New()
	fp := hash.Fingerprint{Digest: "cc", Size: 3}
	x.Ingest(rec("/r", "a", 3), fp)
	x.Ingest(rec("/r", "b", 3), fp)

	groups := x.DuplicateGroups()
	groups[0].Files[0].Name = "mutated"

	again := x.DuplicateGroups()
	assert.Equal(t, "a", again[0].Files[0].Name)
}

func TestIndex_ConcurrentIngest(t *testing.T) {
	x := New()
	fp := hash.Fingerprint{Digest: "shared", Size: 10}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			x.Ingest(rec("/r", fmt.Sprintf("f%d", i), 10), fp)
		}(i)
	}
	wg.Wait()

	groups := x.DuplicateGroups()
	require.Len(t, groups, 1)
	assert.Len(t, groups[0].Files, 50)
	assert.Equal(t, 50, x.Files())
}

func TestGroup_Size(t *testing.T) {
	assert.Zero(t, Group{}.Size())
	g := Group{Files: []walker.FileRecord{rec("/r", "a", 7)}}
	assert.Equal(t, int64(7), g.Size())
}
