package prover

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suffix-labs/ztron-shield/pkg/jubjub"
	"github.com/suffix-labs/ztron-shield/pkg/keys"
	"github.com/suffix-labs/ztron-shield/pkg/merkle"
	"github.com/suffix-labs/ztron-shield/pkg/redjubjub"
	"github.com/suffix-labs/ztron-shield/pkg/ztron"
)

func spendWitness(t *testing.T, seedByte byte, value uint64) SpendWitness {
	t.Helper()

	var seed [32]byte
	seed[0] = seedByte
	expsk := keys.ExpandSeed(seed)

	alpha, err := jubjub.RandomScalar(rand.Reader)
	require.NoError(t, err)

	var d ztron.Diversifier
	d[0] = 0x01
	return SpendWitness{
		ProofKey:    expsk.ProofGenerationKey(),
		Diversifier: d,
		Alpha:       alpha,
		Value:       value,
		Path:        merkle.Path{Position: 3},
	}
}

func outputWitness(t *testing.T, value uint64) OutputWitness {
	t.Helper()

	esk, err := jubjub.RandomScalar(rand.Reader)
	require.NoError(t, err)

	var to ztron.PaymentAddress
	to.PkD[0] = 0x42
	return OutputWitness{Esk: esk, To: to, Value: value}
}

func TestSpendProofRandomizedKey(t *testing.T) {
	ctx := NewInsecure(nil).NewContext()
	defer ctx.Close()

	w := spendWitness(t, 0x01, 50)
	sp, err := ctx.SpendProof(w)
	require.NoError(t, err)

	// rk must equal ak + α·G.
	expected := redjubjub.RandomizePublic(&w.ProofKey.Ak, w.Alpha, jubjub.SpendAuthBase())
	assert.Equal(t, jubjub.PointToBytes(&expected), sp.Rk)
}

func TestValueCommitmentsAreHiding(t *testing.T) {
	ctx := NewInsecure(nil).NewContext()
	defer ctx.Close()

	// Same value twice: fresh randomness must give distinct commitments.
	a, err := ctx.OutputProof(outputWitness(t, 50))
	require.NoError(t, err)
	b, err := ctx.OutputProof(outputWitness(t, 50))
	require.NoError(t, err)
	assert.NotEqual(t, a.CV, b.CV)
}

func TestBindingSignatureVerifies(t *testing.T) {
	ctx := NewInsecure(nil).NewContext()
	defer ctx.Close()

	// 50 + 20 in, 30 + 25 out, balance +15.
	sp1, err := ctx.SpendProof(spendWitness(t, 0x01, 50))
	require.NoError(t, err)
	sp2, err := ctx.SpendProof(spendWitness(t, 0x02, 20))
	require.NoError(t, err)
	op1, err := ctx.OutputProof(outputWitness(t, 30))
	require.NoError(t, err)
	op2, err := ctx.OutputProof(outputWitness(t, 25))
	require.NoError(t, err)

	var sighash [32]byte
	sighash[0] = 0x5a
	balance := ztron.Amount(15)

	sig, err := ctx.BindingSig(balance, sighash)
	require.NoError(t, err)

	// A verifier recomputes bvk purely from the public commitments and
	// declared balance; the signature must check out against it.
	bvk, err := BindingVerificationKey(
		[][32]byte{sp1.CV, sp2.CV},
		[][32]byte{op1.CV, op2.CV},
		balance)
	require.NoError(t, err)
	assert.True(t, redjubjub.Verify(&bvk, jubjub.RandomnessBase(), sighash[:], redjubjub.Signature(sig)))

	// A lying balance must not verify.
	wrongBvk, err := BindingVerificationKey(
		[][32]byte{sp1.CV, sp2.CV},
		[][32]byte{op1.CV, op2.CV},
		balance+1)
	require.NoError(t, err)
	assert.False(t, redjubjub.Verify(&wrongBvk, jubjub.RandomnessBase(), sighash[:], redjubjub.Signature(sig)))
}

func TestBindingSignatureNegativeBalance(t *testing.T) {
	ctx := NewInsecure(nil).NewContext()
	defer ctx.Close()

	// Mint shape: no spends, one output, balance −50.
	op, err := ctx.OutputProof(outputWitness(t, 50))
	require.NoError(t, err)

	var sighash [32]byte
	sighash[0] = 0x0d
	balance := ztron.Amount(-50)

	sig, err := ctx.BindingSig(balance, sighash)
	require.NoError(t, err)

	bvk, err := BindingVerificationKey(nil, [][32]byte{op.CV}, balance)
	require.NoError(t, err)
	assert.True(t, redjubjub.Verify(&bvk, jubjub.RandomnessBase(), sighash[:], redjubjub.Signature(sig)))
}

func TestDummyProofsBoundToInputs(t *testing.T) {
	ctx := NewInsecure(nil).NewContext()
	defer ctx.Close()

	a, err := ctx.OutputProof(outputWitness(t, 50))
	require.NoError(t, err)
	b, err := ctx.OutputProof(outputWitness(t, 51))
	require.NoError(t, err)

	assert.NotEqual(t, a.Proof, b.Proof)
	assert.NotEqual(t, [ztron.ProofSize]byte{}, a.Proof)
}
