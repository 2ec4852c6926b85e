package noteenc

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suffix-labs/ztron-shield/pkg/jubjub"
	"github.com/suffix-labs/ztron-shield/pkg/keys"
	"github.com/suffix-labs/ztron-shield/pkg/ztron"
)

// recipient derives a receiving key pair and address for tests.
func recipient(t *testing.T, seedByte byte) (jubjub.Scalar, ztron.PaymentAddress) {
	t.Helper()

	var seed [32]byte
	seed[0] = seedByte
	ivk := keys.ExpandSeed(seed).FullViewingKey().IncomingViewingKey()

	var d ztron.Diversifier
	for i := 0; i < 256; i++ {
		d[0] = byte(i)
		addr, err := keys.PaymentAddress(ivk, d)
		if err == nil {
			return ivk, addr
		}
	}
	t.Fatal("no valid diversifier")
	return ivk, ztron.PaymentAddress{}
}

func testMemo() ztron.Memo {
	var memo ztron.Memo
	copy(memo[:], "rent, march")
	return memo
}

func TestNoteRoundTrip(t *testing.T) {
	ivk, addr := recipient(t, 0x01)

	note := ztron.Note{D: addr.D, PkD: addr.PkD, Value: 1234}
	note.Rcm[0] = 0x42

	enc, err := New(rand.Reader, note, testMemo())
	require.NoError(t, err)

	ct, err := enc.EncryptNotePlaintext()
	require.NoError(t, err)

	got, memo, err := DecryptNote(ivk, enc.EphemeralKey(), ct)
	require.NoError(t, err)
	assert.Equal(t, note, got)
	assert.Equal(t, testMemo(), memo)
}

func TestDecryptNoteWrongKey(t *testing.T) {
	_, addr := recipient(t, 0x01)
	otherIvk, _ := recipient(t, 0x02)

	note := ztron.Note{D: addr.D, PkD: addr.PkD, Value: 1234}
	enc, err := New(rand.Reader, note, ztron.Memo{})
	require.NoError(t, err)

	ct, err := enc.EncryptNotePlaintext()
	require.NoError(t, err)

	_, _, err = DecryptNote(otherIvk, enc.EphemeralKey(), ct)
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestDecryptNoteTamperedCiphertext(t *testing.T) {
	ivk, addr := recipient(t, 0x01)

	note := ztron.Note{D: addr.D, PkD: addr.PkD, Value: 1}
	enc, err := New(rand.Reader, note, ztron.Memo{})
	require.NoError(t, err)

	ct, err := enc.EncryptNotePlaintext()
	require.NoError(t, err)
	ct[100] ^= 0x01

	_, _, err = DecryptNote(ivk, enc.EphemeralKey(), ct)
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestOutgoingRoundTrip(t *testing.T) {
	_, addr := recipient(t, 0x01)

	var ovk ztron.OutgoingViewingKey
	ovk[0] = 0x77

	note := ztron.Note{D: addr.D, PkD: addr.PkD, Value: 9}
	enc, err := New(rand.Reader, note, ztron.Memo{})
	require.NoError(t, err)

	var cv, cmu [32]byte
	cv[0] = 0x01
	cmu[0] = 0x02

	out := enc.EncryptOutgoingPlaintext(ovk, cv, cmu)
	pkd, esk, err := DecryptOutgoing(ovk, cv, cmu, enc.EphemeralKey(), out)
	require.NoError(t, err)
	assert.Equal(t, addr.PkD, pkd)
	assert.Equal(t, enc.EphemeralSecret(), esk)
}

func TestDecryptOutgoingWrongOvk(t *testing.T) {
	_, addr := recipient(t, 0x01)

	note := ztron.Note{D: addr.D, PkD: addr.PkD, Value: 9}
	enc, err := New(rand.Reader, note, ztron.Memo{})
	require.NoError(t, err)

	var ovk, wrongOvk ztron.OutgoingViewingKey
	ovk[0] = 0x77
	wrongOvk[0] = 0x78

	var cv, cmu [32]byte
	out := enc.EncryptOutgoingPlaintext(ovk, cv, cmu)
	_, _, err = DecryptOutgoing(wrongOvk, cv, cmu, enc.EphemeralKey(), out)
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestCiphertextSizes(t *testing.T) {
	_, addr := recipient(t, 0x01)

	note := ztron.Note{D: addr.D, PkD: addr.PkD, Value: 9}
	enc, err := New(rand.Reader, note, ztron.Memo{})
	require.NoError(t, err)

	ct, err := enc.EncryptNotePlaintext()
	require.NoError(t, err)
	assert.Len(t, ct[:], ztron.EncCiphertextSize)

	out := enc.EncryptOutgoingPlaintext(ztron.OutgoingViewingKey{}, [32]byte{}, [32]byte{})
	assert.Len(t, out[:], ztron.OutCiphertextSize)
}
