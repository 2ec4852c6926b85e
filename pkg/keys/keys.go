// Package keys implements the shielded key hierarchy consumed by the
// transaction builder: expanded spending keys, the viewing keys derived
// from them, and diversified payment addresses.
//
// The hierarchy mirrors Sapling's: a 32-byte seed expands into the spend
// authorizing key ask, the proof authorizing key nsk, and the outgoing
// viewing key ovk; ak = ask·G and nk = nsk·H form the full viewing key;
// the incoming viewing key ivk is a hash of (ak, nk) and pk_d = ivk·g_d
// completes a payment address for any diversifier d whose group hash g_d
// exists.
package keys

import (
	blake2b "github.com/minio/blake2b-simd"

	"github.com/suffix-labs/ztron-shield/pkg/jubjub"
	"github.com/suffix-labs/ztron-shield/pkg/ztron"
)

// BLAKE2b personalization strings (max 16 bytes).
const (
	persExpandSeed = "Ztron_ExpandSeed"
	persIvk        = "Ztron_ivk"
)

// ExpandedSpendingKey is the spend authority for shielded notes.
type ExpandedSpendingKey struct {
	Ask jubjub.Scalar // spend authorizing key
	Nsk jubjub.Scalar // proof authorizing key
	Ovk ztron.OutgoingViewingKey
}

// ProofGenerationKey is the part of the spend authority the prover needs:
// it can build spend proofs but cannot sign.
type ProofGenerationKey struct {
	Ak  jubjub.Point
	Nsk jubjub.Scalar
}

// FullViewingKey can recognize incoming notes and derive nullifiers but
// cannot spend.
type FullViewingKey struct {
	Ak  jubjub.Point
	Nk  jubjub.Point
	Ovk ztron.OutgoingViewingKey
}

// prfExpand is the PRF used to derive key components from a seed, domain
// separated by a single suffix byte.
func prfExpand(seed [32]byte, domain byte) [64]byte {
	h, _ := blake2b.New(&blake2b.Config{Size: 64, Person: []byte(persExpandSeed)})
	h.Write(seed[:])
	h.Write([]byte{domain})

	var out [64]byte
	copy(out[:], h.Sum(nil))
	return out
}

// ExpandSeed derives an expanded spending key from a 32-byte seed.
func ExpandSeed(seed [32]byte) ExpandedSpendingKey {
	ask := prfExpand(seed, 0x00)
	nsk := prfExpand(seed, 0x01)
	ovkWide := prfExpand(seed, 0x02)

	var ovk ztron.OutgoingViewingKey
	copy(ovk[:], ovkWide[:32])

	return ExpandedSpendingKey{
		Ask: jubjub.ReduceScalar(ask[:]),
		Nsk: jubjub.ReduceScalar(nsk[:]),
		Ovk: ovk,
	}
}

// ProofGenerationKey derives the proving-side view of the spend authority.
func (k ExpandedSpendingKey) ProofGenerationKey() ProofGenerationKey {
	return ProofGenerationKey{
		Ak:  jubjub.MulBase(k.Ask),
		Nsk: k.Nsk,
	}
}

// FullViewingKey derives the viewing key: ak = ask·G, nk = nsk·H.
func (k ExpandedSpendingKey) FullViewingKey() FullViewingKey {
	return FullViewingKey{
		Ak:  jubjub.MulBase(k.Ask),
		Nk:  jubjub.Mul(jubjub.ProofGenBase(), k.Nsk),
		Ovk: k.Ovk,
	}
}

// IncomingViewingKey hashes (ak, nk) to the scalar ivk.
func (fvk FullViewingKey) IncomingViewingKey() jubjub.Scalar {
	h, _ := blake2b.New(&blake2b.Config{Size: 64, Person: []byte(persIvk)})
	ak := jubjub.PointToBytes(&fvk.Ak)
	nk := jubjub.PointToBytes(&fvk.Nk)
	h.Write(ak[:])
	h.Write(nk[:])
	return jubjub.ReduceScalar(h.Sum(nil))
}

// NullifierKey returns the encoded nullifier deriving key nk.
func (fvk FullViewingKey) NullifierKey() [32]byte {
	return jubjub.PointToBytes(&fvk.Nk)
}

// DiversifierBase maps a diversifier to its group-hash point g_d. Not
// every diversifier has one; callers treat failure as an invalid address.
func DiversifierBase(d ztron.Diversifier) (jubjub.Point, error) {
	return jubjub.GroupHash(d[:])
}

// PaymentAddress derives the diversified address (d, pk_d = ivk·g_d).
func PaymentAddress(ivk jubjub.Scalar, d ztron.Diversifier) (ztron.PaymentAddress, error) {
	gd, err := DiversifierBase(d)
	if err != nil {
		return ztron.PaymentAddress{}, err
	}
	pkd := jubjub.Mul(&gd, ivk)
	return ztron.PaymentAddress{D: d, PkD: jubjub.PointToBytes(&pkd)}, nil
}
