package jubjub

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScalarRoundTrip(t *testing.T) {
	s, err := RandomScalar(rand.Reader)
	require.NoError(t, err)

	parsed, err := ScalarFromBytes([32]byte(s))
	require.NoError(t, err)
	assert.Equal(t, s, parsed)
}

func TestScalarFromBytesRejectsOutOfRange(t *testing.T) {
	var b [32]byte
	for i := range b {
		b[i] = 0xff
	}
	_, err := ScalarFromBytes(b)
	assert.ErrorIs(t, err, ErrScalarRange)
}

func TestScalarArithmetic(t *testing.T) {
	a, err := RandomScalar(rand.Reader)
	require.NoError(t, err)
	b, err := RandomScalar(rand.Reader)
	require.NoError(t, err)

	// (a + b) − b == a
	sum := AddScalar(a, b)
	assert.Equal(t, a, SubScalar(sum, b))

	// a − a == 0
	assert.True(t, SubScalar(a, a).IsZero())

	// a · 1 == a
	one := ReduceScalar([]byte{1})
	assert.Equal(t, a, MulScalar(a, one))
}

func TestPointRoundTrip(t *testing.T) {
	s, err := RandomScalar(rand.Reader)
	require.NoError(t, err)
	p := MulBase(s)

	enc := PointToBytes(&p)
	decoded, err := PointFromBytes(enc)
	require.NoError(t, err)
	assert.True(t, p.Equal(&decoded))
}

func TestPointFromBytesRejectsGarbage(t *testing.T) {
	var garbage [32]byte
	for i := range garbage {
		garbage[i] = 0xaa
	}
	_, err := PointFromBytes(garbage)
	assert.Error(t, err)
}

func TestGeneratorsDistinct(t *testing.T) {
	gens := []*Point{SpendAuthBase(), ProofGenBase(), ValueBase(), RandomnessBase()}
	for _, g := range gens {
		assert.False(t, IsIdentity(g))
	}
	for i := range gens {
		for j := i + 1; j < len(gens); j++ {
			assert.False(t, gens[i].Equal(gens[j]), "generators %d and %d coincide", i, j)
		}
	}
}

func TestGroupHashDeterministic(t *testing.T) {
	p1, err := GroupHash([]byte("some diversifier"))
	require.NoError(t, err)
	p2, err := GroupHash([]byte("some diversifier"))
	require.NoError(t, err)
	assert.True(t, p1.Equal(&p2))

	p3, err := GroupHash([]byte("another diversifier"))
	require.NoError(t, err)
	assert.False(t, p1.Equal(&p3))
}

func TestMulDistributesOverAdd(t *testing.T) {
	a, err := RandomScalar(rand.Reader)
	require.NoError(t, err)
	b, err := RandomScalar(rand.Reader)
	require.NoError(t, err)

	// (a+b)·G == a·G + b·G
	lhs := MulBase(AddScalar(a, b))
	pa := MulBase(a)
	pb := MulBase(b)
	rhs := Add(&pa, &pb)
	assert.True(t, lhs.Equal(&rhs))
}
