package tree

import (
	"encoding/hex"
	"fmt"
	"path/filepath"
	"sort"

	mt "github.com/txaty/go-merkletree"

	"dupfind/internal/hash"
)

// Root computes the audit digest of a set of hashed files:
// 1. Sort leaves by path
// 2. Serialize each leaf as path and fingerprint
// 3. Build a merkle tree over the serialized leaves with xxHash
// The result does not depend on the order leaves were produced in.
func Root(leaves []Leaf) (string, error) {
	sorted := make([]Leaf, len(leaves))
	copy(sorted, leaves)
	for i := range sorted {
		sorted[i].Path = filepath.ToSlash(sorted[i].Path)
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Path < sorted[j].Path
	})

	// The library needs at least two blocks
	if len(sorted) < 2 {
		data := []byte("empty-tree")
		if len(sorted) == 1 {
			var err error
			if data, err = sorted[0].Serialize(); err != nil {
				return "", err
			}
		}
		sum, err := hash.XXHashFunc(data)
		if err != nil {
			return "", fmt.Errorf("failed to hash leaf: %w", err)
		}
		return hex.EncodeToString(sum), nil
	}

	blocks := make([]mt.DataBlock, len(sorted))
	for i := range sorted {
		blocks[i] = sorted[i]
	}

	merkle, err := mt.New(&mt.Config{
		HashFunc: hash.XXHashFunc,
		Mode:     mt.ModeTreeBuild,
	}, blocks)
	if err != nil {
		return "", fmt.Errorf("failed to build merkle tree: %w", err)
	}

	return hex.EncodeToString(merkle.Root), nil
}
