package redjubjub

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suffix-labs/ztron-shield/pkg/jubjub"
)

func TestSignVerify(t *testing.T) {
	sk, err := jubjub.RandomScalar(rand.Reader)
	require.NoError(t, err)
	vk := Public(sk, jubjub.SpendAuthBase())

	msg := []byte("the transaction digest")
	sig, err := Sign(rand.Reader, sk, jubjub.SpendAuthBase(), msg)
	require.NoError(t, err)

	assert.True(t, Verify(&vk, jubjub.SpendAuthBase(), msg, sig))
	assert.False(t, Verify(&vk, jubjub.SpendAuthBase(), []byte("a different digest"), sig))
}

func TestVerifyRejectsTamperedSignature(t *testing.T) {
	sk, err := jubjub.RandomScalar(rand.Reader)
	require.NoError(t, err)
	vk := Public(sk, jubjub.SpendAuthBase())

	msg := []byte("msg")
	sig, err := Sign(rand.Reader, sk, jubjub.SpendAuthBase(), msg)
	require.NoError(t, err)

	tampered := sig
	tampered[40] ^= 0x01
	assert.False(t, Verify(&vk, jubjub.SpendAuthBase(), msg, tampered))
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	sk, err := jubjub.RandomScalar(rand.Reader)
	require.NoError(t, err)
	other, err := jubjub.RandomScalar(rand.Reader)
	require.NoError(t, err)
	otherVk := Public(other, jubjub.SpendAuthBase())

	msg := []byte("msg")
	sig, err := Sign(rand.Reader, sk, jubjub.SpendAuthBase(), msg)
	require.NoError(t, err)
	assert.False(t, Verify(&otherVk, jubjub.SpendAuthBase(), msg, sig))
}

func TestRandomizedSpendAuth(t *testing.T) {
	ask, err := jubjub.RandomScalar(rand.Reader)
	require.NoError(t, err)
	alpha, err := jubjub.RandomScalar(rand.Reader)
	require.NoError(t, err)

	var sighash [32]byte
	sighash[0] = 0x5a

	sig, err := SignSpendAuth(rand.Reader, ask, alpha, sighash)
	require.NoError(t, err)

	// The verifier only sees rk = ak + α·G.
	ak := Public(ask, jubjub.SpendAuthBase())
	rk := RandomizePublic(&ak, alpha, jubjub.SpendAuthBase())
	assert.True(t, Verify(&rk, jubjub.SpendAuthBase(), sighash[:], sig))

	// The unrandomized key must not verify it.
	assert.False(t, Verify(&ak, jubjub.SpendAuthBase(), sighash[:], sig))
}

func TestBindingSignatureBase(t *testing.T) {
	bsk, err := jubjub.RandomScalar(rand.Reader)
	require.NoError(t, err)

	var sighash [32]byte
	sighash[31] = 0x99

	sig, err := SignBinding(rand.Reader, bsk, sighash)
	require.NoError(t, err)

	bvk := Public(bsk, jubjub.RandomnessBase())
	assert.True(t, Verify(&bvk, jubjub.RandomnessBase(), sighash[:], sig))

	// Same key over the wrong base must fail.
	wrongBase := Public(bsk, jubjub.SpendAuthBase())
	assert.False(t, Verify(&wrongBase, jubjub.SpendAuthBase(), sighash[:], sig))
}
