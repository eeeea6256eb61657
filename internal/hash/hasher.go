package hash

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	stdhash "hash"
	"io"
	"os"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/zeebo/blake3"
)

const (
	// PrefixSize is the number of leading bytes of a file that contribute to
	// its fingerprint. Content past this offset is never read.
	PrefixSize = 64 * 1024

	// BufferSize is the chunk size used while reading the prefix.
	BufferSize = 64 * 1024
)

// Fingerprint identifies file content by a digest of its first PrefixSize
// bytes together with its total size. It is comparable and can be used as a
// map key.
type Fingerprint struct {
	Digest string
	Size   int64
}

// String renders the fingerprint as "digest:size".
func (f Fingerprint) String() string {
	return fmt.Sprintf("%s:%d", f.Digest, f.Size)
}

type Algorithm string

const (
	XXHash Algorithm = "xxhash"
	SHA256 Algorithm = "sha256"
	BLAKE3 Algorithm = "blake3"
)

// Algorithms lists the supported digest algorithms, default first.
var Algorithms = []Algorithm{XXHash, SHA256, BLAKE3}

// ParseAlgorithm resolves a case-insensitive algorithm name. An empty name
// selects XXHash.
func ParseAlgorithm(name string) (Algorithm, error) {
	if name == "" {
		return XXHash, nil
	}
	alg := Algorithm(strings.ToLower(name))
	for _, known := range Algorithms {
		if alg == known {
			return alg, nil
		}
	}
	return "", fmt.Errorf("unsupported hash algorithm: %s", name)
}

func (a Algorithm) newFunc() (func() stdhash.Hash, error) {
	switch a {
	case XXHash:
		return func() stdhash.Hash { return xxhash.New() }, nil
	case SHA256:
		return sha256.New, nil
	case BLAKE3:
		return func() stdhash.Hash { return blake3.New() }, nil
	default:
		return nil, fmt.Errorf("unsupported hash algorithm: %s", a)
	}
}

// Hasher computes fingerprints with a single algorithm. Use one Hasher per
// run so that all fingerprints are comparable.
type Hasher struct {
	alg     Algorithm
	newHash func() stdhash.Hash
}

func NewHasher(alg Algorithm) (*Hasher, error) {
	fn, err := alg.newFunc()
	if err != nil {
		return nil, err
	}
	return &Hasher{alg: alg, newHash: fn}, nil
}

func (h *Hasher) Algorithm() Algorithm {
	return h.alg
}

// HashFile fingerprints the file at path. The size comes from file metadata,
// not from the number of bytes read.
func (h *Hasher) HashFile(path string) (Fingerprint, error) {
	file, err := os.Open(path)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return Fingerprint{}, fmt.Errorf("failed to stat file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return Fingerprint{}, fmt.Errorf("%s: not a regular file", path)
	}

	digest := h.newHash()
	buf := make([]byte, BufferSize)
	if _, err := io.CopyBuffer(digest, io.LimitReader(file, PrefixSize), buf); err != nil {
		return Fingerprint{}, fmt.Errorf("failed to read file: %w", err)
	}

	return Fingerprint{
		Digest: hex.EncodeToString(digest.Sum(nil)),
		Size:   info.Size(),
	}, nil
}

// XXHashFunc is the hash function used for audit digest trees. It returns
// the xxHash of data as 8 big-endian bytes.
func XXHashFunc(data []byte) ([]byte, error) {
	sum := xxhash.Sum64(data)

	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, sum)
	return buf, nil
}
