// Package noteenc implements note encryption for shielded outputs.
//
// Each output derives a fresh ephemeral key pair on Jubjub, agrees a shared
// secret with the recipient's diversified transmission key, and encrypts
// the note plaintext with ChaCha20-Poly1305 under a BLAKE2b-derived key.
// A second, much smaller ciphertext is encrypted to the sender's outgoing
// viewing key so the sender can later recover what it sent.
//
// Both ciphertexts have protocol-fixed sizes (580 and 80 bytes). The AEAD
// nonce is zero: every key in this scheme is derived from single-use
// ephemeral material, so nonces never repeat under the same key.
package noteenc

import (
	"encoding/binary"
	"errors"
	"io"

	blake2b "github.com/minio/blake2b-simd"
	"golang.org/x/crypto/chacha20poly1305"

	"github.com/suffix-labs/ztron-shield/pkg/jubjub"
	"github.com/suffix-labs/ztron-shield/pkg/keys"
	"github.com/suffix-labs/ztron-shield/pkg/ztron"
)

const (
	persKDF = "Ztron_SaplingKDF"
	persOck = "Ztron_Derive_ock"

	plaintextVersion = 0x01
)

// ErrDecryptionFailed is returned when a ciphertext does not authenticate
// or its plaintext is malformed.
var ErrDecryptionFailed = errors.New("noteenc: decryption failed")

// ErrInvalidAddress is returned when the note's address components do not
// decode to curve points.
var ErrInvalidAddress = errors.New("noteenc: invalid payment address")

// NoteEncryption holds the ephemeral state for encrypting one note. Create
// one per output and discard it; the ephemeral secret must never be reused.
type NoteEncryption struct {
	esk  jubjub.Scalar
	epk  [32]byte
	note ztron.Note
	memo ztron.Memo
}

// New derives the ephemeral key pair for a note. Fails if the note's
// diversifier has no group hash.
func New(rng io.Reader, note ztron.Note, memo ztron.Memo) (*NoteEncryption, error) {
	gd, err := keys.DiversifierBase(note.D)
	if err != nil {
		return nil, ErrInvalidAddress
	}

	esk, err := jubjub.RandomScalar(rng)
	if err != nil {
		return nil, err
	}
	epk := jubjub.Mul(&gd, esk)

	return &NoteEncryption{
		esk:  esk,
		epk:  jubjub.PointToBytes(&epk),
		note: note,
		memo: memo,
	}, nil
}

// EphemeralKey returns the encoded ephemeral public key epk.
func (e *NoteEncryption) EphemeralKey() [32]byte {
	return e.epk
}

// EphemeralSecret returns esk, which the output proof witnesses.
func (e *NoteEncryption) EphemeralSecret() jubjub.Scalar {
	return e.esk
}

// kdf derives the symmetric note key from the agreed secret and epk.
func kdf(shared, epk [32]byte) [32]byte {
	h, _ := blake2b.New(&blake2b.Config{Size: 32, Person: []byte(persKDF)})
	h.Write(shared[:])
	h.Write(epk[:])

	var key [32]byte
	copy(key[:], h.Sum(nil))
	return key
}

func seal(key [32]byte, plaintext []byte) []byte {
	aead, err := chacha20poly1305.New(key[:])
	if err != nil {
		panic("noteenc: chacha20poly1305 key size")
	}
	nonce := make([]byte, chacha20poly1305.NonceSize)
	return aead.Seal(nil, nonce, plaintext, nil)
}

func open(key [32]byte, ciphertext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(key[:])
	if err != nil {
		panic("noteenc: chacha20poly1305 key size")
	}
	nonce := make([]byte, chacha20poly1305.NonceSize)
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}

// notePlaintext assembles the 564-byte plaintext:
// version || d || value (LE) || rcm || memo.
func notePlaintext(note *ztron.Note, memo *ztron.Memo) []byte {
	buf := make([]byte, 0, ztron.NotePlaintextSize)
	buf = append(buf, plaintextVersion)
	buf = append(buf, note.D[:]...)

	var v [8]byte
	binary.LittleEndian.PutUint64(v[:], note.Value)
	buf = append(buf, v[:]...)
	buf = append(buf, note.Rcm[:]...)
	buf = append(buf, memo[:]...)
	return buf
}

// EncryptNotePlaintext produces the 580-byte note ciphertext addressed to
// the recipient.
func (e *NoteEncryption) EncryptNotePlaintext() ([ztron.EncCiphertextSize]byte, error) {
	var out [ztron.EncCiphertextSize]byte

	pkd, err := jubjub.PointFromBytes(e.note.PkD)
	if err != nil {
		return out, ErrInvalidAddress
	}
	sharedPoint := jubjub.Mul(&pkd, e.esk)
	shared := jubjub.PointToBytes(&sharedPoint)

	key := kdf(shared, e.epk)
	ct := seal(key, notePlaintext(&e.note, &e.memo))
	copy(out[:], ct)
	return out, nil
}

// deriveOck derives the outgoing cipher key from the sender's ovk and the
// output's public fields.
func deriveOck(ovk ztron.OutgoingViewingKey, cv, cmu, epk [32]byte) [32]byte {
	h, _ := blake2b.New(&blake2b.Config{Size: 32, Person: []byte(persOck)})
	h.Write(ovk[:])
	h.Write(cv[:])
	h.Write(cmu[:])
	h.Write(epk[:])

	var ock [32]byte
	copy(ock[:], h.Sum(nil))
	return ock
}

// EncryptOutgoingPlaintext produces the 80-byte outgoing ciphertext
// (pk_d || esk) that lets the ovk holder recover the note later.
func (e *NoteEncryption) EncryptOutgoingPlaintext(ovk ztron.OutgoingViewingKey, cv, cmu [32]byte) [ztron.OutCiphertextSize]byte {
	ock := deriveOck(ovk, cv, cmu, e.epk)

	plaintext := make([]byte, 0, ztron.OutPlaintextSize)
	plaintext = append(plaintext, e.note.PkD[:]...)
	plaintext = append(plaintext, e.esk[:]...)

	var out [ztron.OutCiphertextSize]byte
	copy(out[:], seal(ock, plaintext))
	return out
}

// DecryptNote recovers a note and memo addressed to the holder of ivk.
func DecryptNote(ivk jubjub.Scalar, epk [32]byte, enc [ztron.EncCiphertextSize]byte) (ztron.Note, ztron.Memo, error) {
	var note ztron.Note
	var memo ztron.Memo

	epkPoint, err := jubjub.PointFromBytes(epk)
	if err != nil {
		return note, memo, ErrDecryptionFailed
	}
	sharedPoint := jubjub.Mul(&epkPoint, ivk)
	shared := jubjub.PointToBytes(&sharedPoint)

	plaintext, err := open(kdf(shared, epk), enc[:])
	if err != nil {
		return note, memo, err
	}
	if len(plaintext) != ztron.NotePlaintextSize || plaintext[0] != plaintextVersion {
		return note, memo, ErrDecryptionFailed
	}

	copy(note.D[:], plaintext[1:12])
	note.Value = binary.LittleEndian.Uint64(plaintext[12:20])
	copy(note.Rcm[:], plaintext[20:52])
	copy(memo[:], plaintext[52:])

	// Recompute pk_d from the recovered diversifier; a diversifier that
	// decrypted correctly always has a group hash.
	addr, err := keys.PaymentAddress(ivk, note.D)
	if err != nil {
		return note, memo, ErrDecryptionFailed
	}
	note.PkD = addr.PkD
	return note, memo, nil
}

// DecryptOutgoing recovers (pk_d, esk) from an outgoing ciphertext using
// the sender's ovk and the output's public fields.
func DecryptOutgoing(ovk ztron.OutgoingViewingKey, cv, cmu, epk [32]byte, out [ztron.OutCiphertextSize]byte) ([32]byte, jubjub.Scalar, error) {
	var pkd [32]byte

	ock := deriveOck(ovk, cv, cmu, epk)
	plaintext, err := open(ock, out[:])
	if err != nil {
		return pkd, jubjub.Scalar{}, err
	}
	if len(plaintext) != ztron.OutPlaintextSize {
		return pkd, jubjub.Scalar{}, ErrDecryptionFailed
	}

	copy(pkd[:], plaintext[:32])
	var eskBytes [32]byte
	copy(eskBytes[:], plaintext[32:])
	esk, err := jubjub.ScalarFromBytes(eskBytes)
	if err != nil {
		return pkd, jubjub.Scalar{}, ErrDecryptionFailed
	}
	return pkd, esk, nil
}
