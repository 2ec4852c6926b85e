package keys

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suffix-labs/ztron-shield/pkg/jubjub"
	"github.com/suffix-labs/ztron-shield/pkg/ztron"
)

func TestExpandSeedDeterministic(t *testing.T) {
	var seed [32]byte
	seed[0] = 0x01

	k1 := ExpandSeed(seed)
	k2 := ExpandSeed(seed)
	assert.Equal(t, k1, k2)

	seed[0] = 0x02
	k3 := ExpandSeed(seed)
	assert.NotEqual(t, k1.Ask, k3.Ask)
	assert.NotEqual(t, k1.Nsk, k3.Nsk)
	assert.NotEqual(t, k1.Ovk, k3.Ovk)
}

func TestComponentsAreDomainSeparated(t *testing.T) {
	var seed [32]byte
	k := ExpandSeed(seed)

	assert.NotEqual(t, k.Ask, k.Nsk)
	assert.False(t, k.Ask.IsZero())
	assert.False(t, k.Nsk.IsZero())
}

func TestViewingKeyDerivation(t *testing.T) {
	var seed [32]byte
	seed[0] = 0x33
	k := ExpandSeed(seed)

	fvk := k.FullViewingKey()
	pgk := k.ProofGenerationKey()

	// Both views share ak.
	assert.True(t, fvk.Ak.Equal(&pgk.Ak))
	assert.Equal(t, k.Nsk, pgk.Nsk)
	assert.Equal(t, k.Ovk, fvk.Ovk)

	// ak and nk live on different generators of the same secret pair.
	expectedAk := jubjub.MulBase(k.Ask)
	assert.True(t, fvk.Ak.Equal(&expectedAk))
	expectedNk := jubjub.Mul(jubjub.ProofGenBase(), k.Nsk)
	assert.True(t, fvk.Nk.Equal(&expectedNk))
}

func TestIncomingViewingKeyDeterministic(t *testing.T) {
	var seed [32]byte
	seed[0] = 0x44
	fvk := ExpandSeed(seed).FullViewingKey()

	assert.Equal(t, fvk.IncomingViewingKey(), fvk.IncomingViewingKey())
	assert.False(t, fvk.IncomingViewingKey().IsZero())
}

func TestPaymentAddress(t *testing.T) {
	var seed [32]byte
	seed[0] = 0x55
	fvk := ExpandSeed(seed).FullViewingKey()
	ivk := fvk.IncomingViewingKey()

	d := findDiversifier(t)
	addr, err := PaymentAddress(ivk, d)
	require.NoError(t, err)
	assert.Equal(t, d, addr.D)

	// pk_d = ivk·g_d.
	gd, err := DiversifierBase(d)
	require.NoError(t, err)
	pkd := jubjub.Mul(&gd, ivk)
	assert.Equal(t, jubjub.PointToBytes(&pkd), addr.PkD)
}

// findDiversifier scans for a diversifier with a valid group hash.
func findDiversifier(t *testing.T) ztron.Diversifier {
	t.Helper()
	var d ztron.Diversifier
	for i := 0; i < 256; i++ {
		d[0] = byte(i)
		if _, err := DiversifierBase(d); err == nil {
			return d
		}
	}
	t.Fatal("no valid diversifier in 256 attempts")
	return d
}
