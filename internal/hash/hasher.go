package hash

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
	merkletree "github.com/txaty/go-merkletree"
)

const bufferSize = 32 * 1024 // 32KB buffer for streaming

// HashFile computes the xxHash of a file using streaming for large files
func HashFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	h := xxhash.New()
	if _, err := io.CopyBuffer(h, file, make([]byte, bufferSize)); err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// XXHashFunc is the hash function handed to go-merkletree.
// It returns the 64-bit xxHash of data in big-endian byte order.
func XXHashFunc(data []byte) ([]byte, error) {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, xxhash.Sum64(data))
	return buf, nil
}

type leaf []byte

func (l leaf) Serialize() ([]byte, error) {
	return l, nil
}

// MerkleRoot returns the hex-encoded Merkle root over leaves, in the order
// given. A single leaf is paired with itself; no leaves hash a fixed marker.
func MerkleRoot(leaves [][]byte) (string, error) {
	switch len(leaves) {
	case 0:
		sum, err := XXHashFunc([]byte("empty-tree"))
		if err != nil {
			return "", err
		}
		return hex.EncodeToString(sum), nil
	case 1:
		leaves = [][]byte{leaves[0], leaves[0]}
	}

	blocks := make([]merkletree.DataBlock, len(leaves))
	for i, l := range leaves {
		blocks[i] = leaf(l)
	}

	tree, err := merkletree.New(&merkletree.Config{HashFunc: XXHashFunc}, blocks)
	if err != nil {
		return "", fmt.Errorf("failed to build merkle tree: %w", err)
	}
	return hex.EncodeToString(tree.Root), nil
}
