// Package merkle implements the authentication path side of the note
// commitment tree. The tree itself lives elsewhere (it is maintained by
// whoever tracks the chain); the builder only needs to recompute the root
// a path resolves to, so that all spends in one transaction can be checked
// against a single anchor.
package merkle

import (
	blake2b "github.com/minio/blake2b-simd"
)

// Depth of the note commitment tree.
const Depth = 32

const persMerkleNode = "Ztron_MerkleNode"

// Path is an authentication path for a leaf at the given position.
// AuthPath[0] is the sibling at the leaf level, AuthPath[Depth-1] the
// sibling directly below the root.
type Path struct {
	Position uint64
	AuthPath [Depth][32]byte
}

// combine hashes two child nodes into their parent. The level is mixed in
// so a subtree of one height cannot be replayed at another.
func combine(level uint8, left, right [32]byte) [32]byte {
	h, _ := blake2b.New(&blake2b.Config{Size: 32, Person: []byte(persMerkleNode)})
	h.Write([]byte{level})
	h.Write(left[:])
	h.Write(right[:])

	var node [32]byte
	copy(node[:], h.Sum(nil))
	return node
}

// Root recomputes the tree root from the leaf and this path. The bit i of
// Position selects whether the current node is the right (bit set) or left
// child at level i.
func (p *Path) Root(leaf [32]byte) [32]byte {
	node := leaf
	for i := 0; i < Depth; i++ {
		if p.Position>>uint(i)&1 == 1 {
			node = combine(uint8(i), p.AuthPath[i], node)
		} else {
			node = combine(uint8(i), node, p.AuthPath[i])
		}
	}
	return node
}

// Serialize flattens the path for transport across the proving boundary:
// position (8 bytes little-endian) followed by the sibling nodes from leaf
// to root.
func (p *Path) Serialize() []byte {
	out := make([]byte, 8+Depth*32)
	for i := 0; i < 8; i++ {
		out[i] = byte(p.Position >> (8 * uint(i)))
	}
	for i, n := range p.AuthPath {
		copy(out[8+i*32:], n[:])
	}
	return out
}
