// Package hash provides stable content hashing for output naming.
//
// Output file names embed a hash of the partition identity, so the hash must
// be identical across runs, processes and machines. HighwayHash with a fixed
// key gives that guarantee; Go's map or runtime hashing does not. The package
// provides a real implementation and a fake one for tests.
package hash

import (
	"encoding/hex"
	"fmt"

	"github.com/minio/highwayhash"
)

// key is fixed: changing it renames every produced output.
var key = []byte("dtmerge-identity-hash-key-v1-000")

// Hasher provides an abstraction for hashing canonical byte strings.
type Hasher interface {
	// Sum returns the hex-encoded hash of data.
	Sum(data []byte) (string, error)
}

// HighwayHasher implements Hasher using 64-bit HighwayHash.
type HighwayHasher struct{}

// NewHighwayHasher creates a new HighwayHasher.
func NewHighwayHasher() *HighwayHasher {
	return &HighwayHasher{}
}

// Sum computes the 64-bit HighwayHash of data as 16 hex characters.
func (h *HighwayHasher) Sum(data []byte) (string, error) {
	hasher, err := highwayhash.New64(key)
	if err != nil {
		return "", fmt.Errorf("failed to create hasher: %w", err)
	}
	if _, err := hasher.Write(data); err != nil {
		return "", fmt.Errorf("failed to hash data: %w", err)
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// FakeHasher implements Hasher with predetermined hashes for testing.
type FakeHasher struct {
	hashes map[string]string
}

// NewFakeHasher creates a new FakeHasher.
func NewFakeHasher() *FakeHasher {
	return &FakeHasher{
		hashes: make(map[string]string),
	}
}

// SetHash sets the hash returned for the given input.
func (h *FakeHasher) SetHash(data, hash string) {
	h.hashes[data] = hash
}

// Sum returns the predetermined hash, or a hex encoding of the input's length.
func (h *FakeHasher) Sum(data []byte) (string, error) {
	if hash, ok := h.hashes[string(data)]; ok {
		return hash, nil
	}
	return fmt.Sprintf("%016x", len(data)), nil
}
