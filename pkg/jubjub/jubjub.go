// Package jubjub is a thin layer over the BLS12-381-embedded twisted
// Edwards curve ("Jubjub") from gnark-crypto, specialized to what the
// shielded transaction pipeline needs: scalars modulo the prime subgroup
// order, 32-byte point encodings, and the fixed protocol generators.
//
// Scalars are carried as canonical 32-byte big-endian encodings so they can
// live inside fixed-size witness structs; arithmetic converts through
// math/big against the subgroup order.
package jubjub

import (
	"crypto/rand"
	"errors"
	"io"
	"math/big"
	"sync"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/twistededwards"
	blake2b "github.com/minio/blake2b-simd"
)

// Point is an affine point on Jubjub.
type Point = twistededwards.PointAffine

// Scalar is a canonical big-endian scalar, reduced modulo the prime
// subgroup order.
type Scalar [32]byte

// ErrNotOnCurve is returned when a 32-byte string does not decode to a
// curve point.
var ErrNotOnCurve = errors.New("jubjub: encoding is not a point on the curve")

// ErrScalarRange is returned when a 32-byte string is not a canonical
// scalar below the subgroup order.
var ErrScalarRange = errors.New("jubjub: scalar is not in canonical range")

var (
	curveOnce sync.Once
	curve     twistededwards.CurveParams
)

func params() *twistededwards.CurveParams {
	curveOnce.Do(func() {
		curve = twistededwards.GetEdwardsCurve()
	})
	return &curve
}

// Order returns the prime subgroup order.
func Order() *big.Int {
	return new(big.Int).Set(&params().Order)
}

// RandomScalar draws a uniform scalar from the given CSPRNG. The source
// must be cryptographically secure: reusing a blinding scalar across two
// builds is a security violation, not merely a correctness bug.
func RandomScalar(r io.Reader) (Scalar, error) {
	n, err := rand.Int(r, &params().Order)
	if err != nil {
		return Scalar{}, err
	}
	return scalarFromBig(n), nil
}

// ScalarFromBytes validates that b is a canonical scalar encoding.
func ScalarFromBytes(b [32]byte) (Scalar, error) {
	n := new(big.Int).SetBytes(b[:])
	if n.Cmp(&params().Order) >= 0 {
		return Scalar{}, ErrScalarRange
	}
	return Scalar(b), nil
}

// ReduceScalar interprets b as a big-endian integer and reduces it modulo
// the subgroup order. Used for hash-to-scalar derivations.
func ReduceScalar(b []byte) Scalar {
	n := new(big.Int).SetBytes(b)
	n.Mod(n, &params().Order)
	return scalarFromBig(n)
}

// AddScalar returns a + b mod the subgroup order.
func AddScalar(a, b Scalar) Scalar {
	n := new(big.Int).Add(a.big(), b.big())
	n.Mod(n, &params().Order)
	return scalarFromBig(n)
}

// SubScalar returns a − b mod the subgroup order.
func SubScalar(a, b Scalar) Scalar {
	n := new(big.Int).Sub(a.big(), b.big())
	n.Mod(n, &params().Order)
	return scalarFromBig(n)
}

// MulScalar returns a · b mod the subgroup order.
func MulScalar(a, b Scalar) Scalar {
	n := new(big.Int).Mul(a.big(), b.big())
	n.Mod(n, &params().Order)
	return scalarFromBig(n)
}

// IsZero reports whether the scalar is zero.
func (s Scalar) IsZero() bool {
	return s == Scalar{}
}

func (s Scalar) big() *big.Int {
	return new(big.Int).SetBytes(s[:])
}

// Big returns the scalar as a big integer.
func (s Scalar) Big() *big.Int {
	return s.big()
}

func scalarFromBig(n *big.Int) Scalar {
	var s Scalar
	n.FillBytes(s[:])
	return s
}

// PointToBytes returns the canonical 32-byte compressed encoding.
func PointToBytes(p *Point) [32]byte {
	return p.Bytes()
}

// PointFromBytes decodes a compressed point, rejecting encodings that are
// not on the curve.
func PointFromBytes(b [32]byte) (Point, error) {
	var p Point
	if _, err := p.SetBytes(b[:]); err != nil {
		return Point{}, ErrNotOnCurve
	}
	return p, nil
}

// Mul returns s·p.
func Mul(p *Point, s Scalar) Point {
	var out Point
	out.ScalarMultiplication(p, s.big())
	return out
}

// Add returns p + q.
func Add(p, q *Point) Point {
	var out Point
	out.Add(p, q)
	return out
}

// Neg returns −p.
func Neg(p *Point) Point {
	var out Point
	out.Neg(p)
	return out
}

// IsIdentity reports whether p is the group identity (0, 1).
func IsIdentity(p *Point) bool {
	return p.X.IsZero() && p.Y.IsOne()
}

// Fixed protocol generators. SpendAuthBase is the curve's standard base
// point; the remaining generators are derived by hashing distinct domain
// tags onto the curve so that no party knows discrete-log relations
// between them.
var (
	genOnce        sync.Once
	proofGenBase   Point
	valueBase      Point
	randomnessBase Point
)

const persGroupHash = "Ztron_GroupHash_"

// Domain tags for the derived generators.
var (
	tagProofGen   = []byte("Ztron_ProofGen")
	tagValue      = []byte("Ztron_ValueCmV")
	tagRandomness = []byte("Ztron_ValueCmR")
)

func initGenerators() {
	var err error
	proofGenBase, err = GroupHash(tagProofGen)
	if err == nil {
		valueBase, err = GroupHash(tagValue)
	}
	if err == nil {
		randomnessBase, err = GroupHash(tagRandomness)
	}
	if err != nil {
		// The fixed tags are known to hash onto the curve within the
		// attempt bound; failure here means the curve parameters changed.
		panic("jubjub: generator derivation failed: " + err.Error())
	}
}

// SpendAuthBase is the generator for spend authorization keys (ak, rk).
func SpendAuthBase() *Point {
	return &params().Base
}

// ProofGenBase is the generator for the nullifier deriving key nk.
func ProofGenBase() *Point {
	genOnce.Do(initGenerators)
	return &proofGenBase
}

// ValueBase is the value generator of the value commitment scheme.
func ValueBase() *Point {
	genOnce.Do(initGenerators)
	return &valueBase
}

// RandomnessBase is the blinding generator of the value commitment scheme,
// and the base point of binding signatures.
func RandomnessBase() *Point {
	genOnce.Do(initGenerators)
	return &randomnessBase
}

// MulBase returns s·SpendAuthBase.
func MulBase(s Scalar) Point {
	return Mul(SpendAuthBase(), s)
}

// GroupHash maps a byte string onto the prime-order subgroup by
// try-and-increment: hash the message with a one-byte counter, attempt to
// decode a point, clear the cofactor, and reject small-order results. Fails
// only if no counter in [0, 255] yields a valid point, which for uniform
// hashes is vanishingly rare (≈2^-256).
func GroupHash(msg []byte) (Point, error) {
	cofactor := big.NewInt(8)
	for ctr := 0; ctr < 256; ctr++ {
		h, _ := blake2b.New(&blake2b.Config{Size: 32, Person: []byte(persGroupHash)})
		h.Write(msg)
		h.Write([]byte{byte(ctr)})

		var enc [32]byte
		copy(enc[:], h.Sum(nil))

		var p Point
		if _, err := p.SetBytes(enc[:]); err != nil {
			continue
		}
		var cleared Point
		cleared.ScalarMultiplication(&p, cofactor)
		if IsIdentity(&cleared) {
			continue
		}
		return cleared, nil
	}
	return Point{}, ErrNotOnCurve
}
