// Package redjubjub implements RedDSA signatures over the Jubjub curve.
//
// Two instantiations matter for shielded transactions:
//
//   - Spend authorization: the base point is the spend-auth generator and
//     the signing key is ask randomized by a per-spend scalar α, so the
//     signature proves spend authority for exactly one transaction without
//     linking it to the long-lived key.
//   - Binding: the base point is the value-commitment blinding generator
//     and the signing key is the accumulated commitment randomness, so the
//     signature proves the declared value balance is consistent with the
//     commitments.
//
// A signature is R || S: the 32-byte commitment point and the 32-byte
// big-endian response scalar.
package redjubjub

import (
	"io"

	blake2b "github.com/minio/blake2b-simd"

	"github.com/suffix-labs/ztron-shield/pkg/jubjub"
	"github.com/suffix-labs/ztron-shield/pkg/ztron"
)

const persHashToScalar = "Ztron_RedJubjubH"

// Signature is a RedDSA signature (R || S).
type Signature [ztron.SignatureSize]byte

// hStar hashes arbitrary input to a scalar with a 64-byte BLAKE2b digest
// reduced modulo the subgroup order.
func hStar(chunks ...[]byte) jubjub.Scalar {
	h, _ := blake2b.New(&blake2b.Config{Size: 64, Person: []byte(persHashToScalar)})
	for _, c := range chunks {
		h.Write(c)
	}
	return jubjub.ReduceScalar(h.Sum(nil))
}

// Public derives the verification key sk·base.
func Public(sk jubjub.Scalar, base *jubjub.Point) jubjub.Point {
	return jubjub.Mul(base, sk)
}

// RandomizeKey re-randomizes a signing key by α.
func RandomizeKey(sk, alpha jubjub.Scalar) jubjub.Scalar {
	return jubjub.AddScalar(sk, alpha)
}

// RandomizePublic re-randomizes a verification key: vk + α·base.
func RandomizePublic(vk *jubjub.Point, alpha jubjub.Scalar, base *jubjub.Point) jubjub.Point {
	shift := jubjub.Mul(base, alpha)
	return jubjub.Add(vk, &shift)
}

// Sign produces a RedDSA signature on msg under sk over the given base
// point. The nonce scalar is derived from 80 bytes of fresh randomness
// hashed with the verification key and message, so a broken RNG degrades
// to deterministic nonces instead of repeating them across messages.
func Sign(rng io.Reader, sk jubjub.Scalar, base *jubjub.Point, msg []byte) (Signature, error) {
	var sig Signature

	var t [80]byte
	if _, err := io.ReadFull(rng, t[:]); err != nil {
		return sig, err
	}

	vk := Public(sk, base)
	vkBytes := jubjub.PointToBytes(&vk)

	r := hStar(t[:], vkBytes[:], msg)
	rPoint := jubjub.Mul(base, r)
	rBytes := jubjub.PointToBytes(&rPoint)

	c := hStar(rBytes[:], vkBytes[:], msg)
	s := jubjub.AddScalar(r, jubjub.MulScalar(c, sk))

	copy(sig[:32], rBytes[:])
	copy(sig[32:], s[:])
	return sig, nil
}

// Verify checks S·base == R + c·vk.
func Verify(vk *jubjub.Point, base *jubjub.Point, msg []byte, sig Signature) bool {
	var rBytes [32]byte
	copy(rBytes[:], sig[:32])
	rPoint, err := jubjub.PointFromBytes(rBytes)
	if err != nil {
		return false
	}

	var sBytes [32]byte
	copy(sBytes[:], sig[32:])
	s, err := jubjub.ScalarFromBytes(sBytes)
	if err != nil {
		return false
	}

	vkBytes := jubjub.PointToBytes(vk)
	c := hStar(rBytes[:], vkBytes[:], msg)

	lhs := jubjub.Mul(base, s)
	cvk := jubjub.Mul(vk, c)
	rhs := jubjub.Add(&rPoint, &cvk)
	return lhs.Equal(&rhs)
}

// SignSpendAuth signs a sighash with the α-randomized spend authorizing
// key over the spend-auth base. The matching verification key is the rk
// field of the spend descriptor.
func SignSpendAuth(rng io.Reader, ask, alpha jubjub.Scalar, sighash [32]byte) (Signature, error) {
	rsk := RandomizeKey(ask, alpha)
	return Sign(rng, rsk, jubjub.SpendAuthBase(), sighash[:])
}

// SignBinding signs a sighash with the accumulated commitment randomness
// over the blinding generator.
func SignBinding(rng io.Reader, bsk jubjub.Scalar, sighash [32]byte) (Signature, error) {
	return Sign(rng, bsk, jubjub.RandomnessBase(), sighash[:])
}
