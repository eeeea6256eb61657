package tree

import (
	"dupfind/internal/hash"
)

// Leaf is one hashed file in an audit digest. Path is relative to the scan
// root.
type Leaf struct {
	Path        string
	Fingerprint hash.Fingerprint
}

// Serialize implements merkletree.DataBlock.
func (l Leaf) Serialize() ([]byte, error) {
	return []byte(l.Path + "\x00" + l.Fingerprint.String()), nil
}
