package prover

import (
	"crypto/rand"
	"encoding/binary"
	"io"
	"math/big"

	blake2b "github.com/minio/blake2b-simd"

	"github.com/suffix-labs/ztron-shield/pkg/jubjub"
	"github.com/suffix-labs/ztron-shield/pkg/redjubjub"
	"github.com/suffix-labs/ztron-shield/pkg/ztron"
)

const persDummyProof = "Ztron_DummyProof"

// Insecure is a pure-Go prover for tests and demos. Value commitments,
// randomized verification keys and binding signatures are computed with
// real curve arithmetic, so everything a verifier can check algebraically
// (cv homomorphism, rk randomization, the binding signature equation)
// holds. The zkSNARK proof bytes are deterministic filler that no Groth16
// verifier will accept. Never use outside tests.
type Insecure struct {
	rng io.Reader
}

// NewInsecure returns the test prover. A nil rng falls back to crypto/rand.
func NewInsecure(rng io.Reader) *Insecure {
	if rng == nil {
		rng = rand.Reader
	}
	return &Insecure{rng: rng}
}

// NewContext starts a fresh binding-key accumulation.
func (p *Insecure) NewContext() Context {
	return &insecureContext{rng: p.rng}
}

type insecureContext struct {
	rng io.Reader
	bsk jubjub.Scalar
}

// valueCommitment computes cv = value·V + rcv·R over the value commitment
// generators.
func valueCommitment(value uint64, rcv jubjub.Scalar) [32]byte {
	var vb [8]byte
	binary.BigEndian.PutUint64(vb[:], value)
	v := jubjub.ReduceScalar(vb[:])

	cv := jubjub.Mul(jubjub.ValueBase(), v)
	blind := jubjub.Mul(jubjub.RandomnessBase(), rcv)
	cv = jubjub.Add(&cv, &blind)
	return jubjub.PointToBytes(&cv)
}

// dummyProof fills the proof slot with bytes bound to the public inputs,
// so accidental reuse across descriptions stays visible in tests.
func dummyProof(domain string, fields ...[]byte) [ztron.ProofSize]byte {
	var proof [ztron.ProofSize]byte
	for block := 0; block < ztron.ProofSize/64; block++ {
		h, _ := blake2b.New(&blake2b.Config{Size: 64, Person: []byte(persDummyProof)})
		h.Write([]byte(domain))
		h.Write([]byte{byte(block)})
		for _, f := range fields {
			h.Write(f)
		}
		copy(proof[block*64:], h.Sum(nil))
	}
	return proof
}

func (c *insecureContext) SpendProof(w SpendWitness) (SpendProof, error) {
	rcv, err := jubjub.RandomScalar(c.rng)
	if err != nil {
		return SpendProof{}, err
	}
	c.bsk = jubjub.AddScalar(c.bsk, rcv)

	cv := valueCommitment(w.Value, rcv)
	rk := redjubjub.RandomizePublic(&w.ProofKey.Ak, w.Alpha, jubjub.SpendAuthBase())
	rkBytes := jubjub.PointToBytes(&rk)

	var vb [8]byte
	binary.LittleEndian.PutUint64(vb[:], w.Value)
	proof := dummyProof("spend", w.Anchor[:], cv[:], rkBytes[:], vb[:])

	return SpendProof{Proof: proof, CV: cv, Rk: rkBytes}, nil
}

func (c *insecureContext) OutputProof(w OutputWitness) (OutputProof, error) {
	rcv, err := jubjub.RandomScalar(c.rng)
	if err != nil {
		return OutputProof{}, err
	}
	c.bsk = jubjub.SubScalar(c.bsk, rcv)

	cv := valueCommitment(w.Value, rcv)

	var vb [8]byte
	binary.LittleEndian.PutUint64(vb[:], w.Value)
	proof := dummyProof("output", w.To.PkD[:], cv[:], vb[:])

	return OutputProof{Proof: proof, CV: cv}, nil
}

func (c *insecureContext) BindingSig(valueBalance ztron.Amount, sighash [32]byte) ([ztron.SignatureSize]byte, error) {
	sig, err := redjubjub.SignBinding(c.rng, c.bsk, sighash)
	if err != nil {
		return [ztron.SignatureSize]byte{}, err
	}
	return [ztron.SignatureSize]byte(sig), nil
}

func (c *insecureContext) Close() {}

// BindingVerificationKey computes the key a verifier derives from the
// public transaction data: Σcv_spend − Σcv_output − valueBalance·V. Used by
// tests to check the binding signature against real descriptors.
func BindingVerificationKey(spendCVs, outputCVs [][32]byte, valueBalance ztron.Amount) (jubjub.Point, error) {
	var bvk jubjub.Point
	bvk.X.SetZero()
	bvk.Y.SetOne()

	for _, cv := range spendCVs {
		p, err := jubjub.PointFromBytes(cv)
		if err != nil {
			return jubjub.Point{}, err
		}
		bvk = jubjub.Add(&bvk, &p)
	}
	for _, cv := range outputCVs {
		p, err := jubjub.PointFromBytes(cv)
		if err != nil {
			return jubjub.Point{}, err
		}
		neg := jubjub.Neg(&p)
		bvk = jubjub.Add(&bvk, &neg)
	}

	vb := big.NewInt(int64(valueBalance))
	neg := vb.Sign() < 0
	if neg {
		vb.Neg(vb)
	}
	var vbBytes [32]byte
	vb.FillBytes(vbBytes[:])
	shift := jubjub.Mul(jubjub.ValueBase(), jubjub.ReduceScalar(vbBytes[:]))
	if !neg {
		shift = jubjub.Neg(&shift)
	}
	bvk = jubjub.Add(&bvk, &shift)
	return bvk, nil
}
