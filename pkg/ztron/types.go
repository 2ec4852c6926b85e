// Package ztron defines the core data model for shielded TRC-20
// transactions: notes, shielded legs, the public spend/output descriptors
// that end up in the contract call, and the error taxonomy shared by the
// builder pipeline.
//
// The model follows the shielded TRC-20 design from TIP-135/TIP-137 and the
// Sapling protocol it derives from. Cryptographic artifacts with
// protocol-fixed lengths (proofs, ciphertexts, signatures) are fixed-size
// byte arrays so that a length mismatch is a construction-time error, never
// a runtime surprise.
//
// References:
//   - TIP-135: https://github.com/tronprotocol/tips/blob/master/tip-135.md
//   - TIP-137: https://github.com/tronprotocol/tips/blob/master/tip-137.md
//   - Zcash protocol spec §4 (Sapling): https://zips.z.cash/protocol/protocol.pdf
package ztron

import (
	"encoding/binary"

	blake2b "github.com/minio/blake2b-simd"
)

// Protocol-fixed sizes, in bytes.
const (
	// ProofSize is the length of a Groth16 proof over BLS12-381
	// (two G1 points and one G2 point, compressed).
	ProofSize = 192

	// EncCiphertextSize is the length of the encrypted note plaintext:
	// 564 plaintext bytes plus a 16-byte Poly1305 tag.
	EncCiphertextSize = 580

	// OutCiphertextSize is the length of the encrypted outgoing plaintext:
	// 64 plaintext bytes (pk_d || esk) plus a 16-byte Poly1305 tag.
	OutCiphertextSize = 80

	// NotePlaintextSize is the unencrypted note plaintext length:
	// version (1) || diversifier (11) || value (8) || rcm (32) || memo (512).
	NotePlaintextSize = 564

	// OutPlaintextSize is the unencrypted outgoing plaintext length.
	OutPlaintextSize = 64

	// SignatureSize is the length of a RedDSA signature (R || S).
	SignatureSize = 64

	// DiversifierSize is the length of a payment address diversifier.
	DiversifierSize = 11

	// MemoSize is the length of the note memo field.
	MemoSize = 512
)

// Structural limits on a single transaction. The shielded TRC-20 contract
// ABI is fixed-shape; these bounds also cap proof-generation cost.
const (
	MaxSaplingSpends  = 2
	MaxSaplingOutputs = 2
)

// BLAKE2b personalization strings. Each is at most 16 bytes, the maximum
// the BLAKE2b parameter block allows.
const (
	persNoteCommitment = "Ztron_NoteCommit"
	persNullifier      = "Ztron_nf"
)

// Diversifier selects one of the many payment addresses derivable from a
// single incoming viewing key.
type Diversifier [DiversifierSize]byte

// Memo is the free-form encrypted note memo.
type Memo [MemoSize]byte

// OutgoingViewingKey lets the sender later recover the notes it sent.
type OutgoingViewingKey [32]byte

// PaymentAddress is a diversified shielded address: the diversifier and the
// diversified transmission key pk_d = ivk·g_d.
type PaymentAddress struct {
	D   Diversifier
	PkD [32]byte
}

// Note is a shielded record of value. It is immutable once constructed: the
// builder copies it into a leg and never mutates it.
type Note struct {
	// Address components of the recipient.
	D   Diversifier
	PkD [32]byte

	// Value in the smallest shielded unit.
	Value uint64

	// Rcm is the commitment trapdoor, a Jubjub scalar.
	Rcm [32]byte
}

// Commitment computes the note commitment that is inserted as a leaf into
// the note commitment tree.
func (n *Note) Commitment() [32]byte {
	h, _ := blake2b.New(&blake2b.Config{Size: 32, Person: []byte(persNoteCommitment)})
	h.Write(n.D[:])
	h.Write(n.PkD[:])
	var v [8]byte
	binary.LittleEndian.PutUint64(v[:], n.Value)
	h.Write(v[:])
	h.Write(n.Rcm[:])

	var cm [32]byte
	copy(cm[:], h.Sum(nil))
	return cm
}

// Nullifier derives the one-time nullifier that marks this note as spent.
// It binds the nullifier deriving key to the note commitment and the note's
// position in the commitment tree, so the same note at two positions (which
// cannot happen in a well-formed tree) would nullify independently.
func (n *Note) Nullifier(nk [32]byte, position uint64) [32]byte {
	h, _ := blake2b.New(&blake2b.Config{Size: 32, Person: []byte(persNullifier)})
	h.Write(nk[:])
	cm := n.Commitment()
	h.Write(cm[:])
	var pos [8]byte
	binary.LittleEndian.PutUint64(pos[:], position)
	h.Write(pos[:])

	var nf [32]byte
	copy(nf[:], h.Sum(nil))
	return nf
}

// SpendDescription is the public form of a shielded spend: everything the
// contract needs to verify the spend, minus the witness. The
// spend-authorization signature is attached after the sighash is known and
// the descriptor is never otherwise mutated.
type SpendDescription struct {
	CV           [32]byte        // value commitment
	Anchor       [32]byte        // merkle root the authentication path resolves to
	Nullifier    [32]byte        // double-spend tag
	Rk           [32]byte        // randomized verification key (ak + α·G)
	ZkProof      [ProofSize]byte // Groth16 spend proof
	SpendAuthSig *[SignatureSize]byte
}

// OutputDescription is the public form of a shielded output. Immutable once
// produced by the proof orchestrator.
type OutputDescription struct {
	CV            [32]byte // value commitment
	Cmu           [32]byte // note commitment
	EphemeralKey  [32]byte // epk = esk·g_d
	EncCiphertext [EncCiphertextSize]byte
	OutCiphertext [OutCiphertextSize]byte
	ZkProof       [ProofSize]byte
}

// TransactionType classifies the shape of a shielded transaction.
type TransactionType int

const (
	// Mint moves transparent value into the shielded pool.
	Mint TransactionType = iota
	// Transfer moves value entirely within the shielded pool.
	Transfer
	// Burn withdraws shielded value back to the transparent ledger.
	Burn
)

func (t TransactionType) String() string {
	switch t {
	case Mint:
		return "mint"
	case Transfer:
		return "transfer"
	case Burn:
		return "burn"
	default:
		return "unknown"
	}
}
