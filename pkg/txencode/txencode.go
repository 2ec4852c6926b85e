// Package txencode serializes shielded bundles into the byte payloads the
// shielded TRC-20 contract entry points consume.
//
// The mint entry point takes a flat concatenation of fixed-size fields.
// The transfer entry point takes TVM ABI-encoded arrays of 32-byte words,
// one fixed-shape word array per descriptor:
//
//	transfer(bytes32[10][] input, bytes32[2][] spendAuthoritySignature,
//	         bytes32[9][] output, bytes32[2] bindingSignature,
//	         bytes32[21][] c)
//
// Proof bytes (192) split into six words; the 660-byte ciphertext block
// (580 + 80) is zero-padded to 21 words.
package txencode

import (
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/holiman/uint256"

	"github.com/suffix-labs/ztron-shield/pkg/ztron"
)

// MintPayloadSize is the fixed size of a mint call payload.
const MintPayloadSize = 32 + 32 + 32 + 32 + ztron.ProofSize + ztron.SignatureSize +
	ztron.EncCiphertextSize + ztron.OutCiphertextSize + ciphertextPad

const ciphertextPad = 12

// Word counts of the fixed-shape arrays in the transfer ABI.
const (
	SpendWordCount      = 10
	OutputWordCount     = 9
	CiphertextWordCount = 21
	SignatureWordCount  = 2
)

func proofWords(dst [][32]byte, proof *[ztron.ProofSize]byte) {
	for i := 0; i < ztron.ProofSize/32; i++ {
		copy(dst[i][:], proof[i*32:(i+1)*32])
	}
}

// SpendWords lays out one spend descriptor as its ten contract words:
// nullifier, anchor, cv, rk, then the proof.
func SpendWords(s *ztron.SpendDescription) [SpendWordCount][32]byte {
	var w [SpendWordCount][32]byte
	w[0] = s.Nullifier
	w[1] = s.Anchor
	w[2] = s.CV
	w[3] = s.Rk
	proofWords(w[4:], &s.ZkProof)
	return w
}

// OutputWords lays out one output descriptor as its nine contract words:
// cmu, cv, epk, then the proof.
func OutputWords(o *ztron.OutputDescription) [OutputWordCount][32]byte {
	var w [OutputWordCount][32]byte
	w[0] = o.Cmu
	w[1] = o.CV
	w[2] = o.EphemeralKey
	proofWords(w[3:], &o.ZkProof)
	return w
}

// CiphertextWords lays out one output's ciphertext block as 21 words:
// the 580-byte note ciphertext, the 80-byte outgoing ciphertext, and 12
// bytes of zero padding.
func CiphertextWords(o *ztron.OutputDescription) [CiphertextWordCount][32]byte {
	var flat [CiphertextWordCount * 32]byte
	copy(flat[:], o.EncCiphertext[:])
	copy(flat[ztron.EncCiphertextSize:], o.OutCiphertext[:])

	var w [CiphertextWordCount][32]byte
	for i := range w {
		copy(w[i][:], flat[i*32:(i+1)*32])
	}
	return w
}

// SignatureWords splits a 64-byte signature into its two contract words.
func SignatureWords(sig [ztron.SignatureSize]byte) [SignatureWordCount][32]byte {
	var w [SignatureWordCount][32]byte
	copy(w[0][:], sig[:32])
	copy(w[1][:], sig[32:])
	return w
}

// MintPayload assembles the 1056-byte mint call payload: the scaled
// transparent value as a 32-byte big-endian word, the output descriptor's
// public fields, the binding signature, and the ciphertext block.
func MintPayload(scaledValue *uint256.Int, output *ztron.OutputDescription, bindingSig [ztron.SignatureSize]byte) []byte {
	buf := make([]byte, 0, MintPayloadSize)

	v := scaledValue.Bytes32()
	buf = append(buf, v[:]...)
	buf = append(buf, output.Cmu[:]...)
	buf = append(buf, output.CV[:]...)
	buf = append(buf, output.EphemeralKey[:]...)
	buf = append(buf, output.ZkProof[:]...)
	buf = append(buf, bindingSig[:]...)
	buf = append(buf, output.EncCiphertext[:]...)
	buf = append(buf, output.OutCiphertext[:]...)

	var pad [ciphertextPad]byte
	buf = append(buf, pad[:]...)
	return buf
}

var (
	transferABIOnce sync.Once
	transferABI     abi.Arguments
	transferABIErr  error
)

func transferArguments() (abi.Arguments, error) {
	transferABIOnce.Do(func() {
		mk := func(sig string) abi.Type {
			t, err := abi.NewType(sig, "", nil)
			if err != nil && transferABIErr == nil {
				transferABIErr = err
			}
			return t
		}
		transferABI = abi.Arguments{
			{Name: "input", Type: mk("bytes32[10][]")},
			{Name: "spendAuthoritySignature", Type: mk("bytes32[2][]")},
			{Name: "output", Type: mk("bytes32[9][]")},
			{Name: "bindingSignature", Type: mk("bytes32[2]")},
			{Name: "c", Type: mk("bytes32[21][]")},
		}
	})
	return transferABI, transferABIErr
}

// TransferPayload ABI-encodes a shielded transfer bundle for the contract's
// transfer entry point. Every spend must carry its authorization signature.
func TransferPayload(spends []ztron.SpendDescription, outputs []ztron.OutputDescription, bindingSig [ztron.SignatureSize]byte) ([]byte, error) {
	args, err := transferArguments()
	if err != nil {
		return nil, ztron.WrapError(ztron.ErrInvalidTransaction, "transfer abi", err)
	}

	spendWords := make([][SpendWordCount][32]byte, len(spends))
	authWords := make([][SignatureWordCount][32]byte, len(spends))
	for i := range spends {
		if spends[i].SpendAuthSig == nil {
			return nil, ztron.NewError(ztron.ErrInvalidTransaction, "spend is missing its authorization signature")
		}
		spendWords[i] = SpendWords(&spends[i])
		authWords[i] = SignatureWords(*spends[i].SpendAuthSig)
	}

	outputWords := make([][OutputWordCount][32]byte, len(outputs))
	cipherWords := make([][CiphertextWordCount][32]byte, len(outputs))
	for i := range outputs {
		outputWords[i] = OutputWords(&outputs[i])
		cipherWords[i] = CiphertextWords(&outputs[i])
	}

	payload, err := args.Pack(
		spendWords,
		authWords,
		outputWords,
		SignatureWords(bindingSig),
		cipherWords,
	)
	if err != nil {
		return nil, ztron.WrapError(ztron.ErrInvalidTransaction, "transfer abi encoding", err)
	}
	return payload, nil
}

// TransferBundle is the decoded form of a transfer payload, word arrays as
// the contract sees them.
type TransferBundle struct {
	Spends      [][SpendWordCount][32]byte
	SpendAuth   [][SignatureWordCount][32]byte
	Outputs     [][OutputWordCount][32]byte
	BindingSig  [SignatureWordCount][32]byte
	Ciphertexts [][CiphertextWordCount][32]byte
}

// DecodeTransfer unpacks a transfer payload back into its word arrays.
func DecodeTransfer(payload []byte) (*TransferBundle, error) {
	args, err := transferArguments()
	if err != nil {
		return nil, ztron.WrapError(ztron.ErrInvalidTransaction, "transfer abi", err)
	}

	values, err := args.Unpack(payload)
	if err != nil {
		return nil, ztron.WrapError(ztron.ErrInvalidTransaction, "transfer abi decoding", err)
	}

	var b TransferBundle
	var ok bool
	if b.Spends, ok = values[0].([][SpendWordCount][32]byte); !ok {
		return nil, ztron.NewError(ztron.ErrInvalidTransaction, "unexpected spend array type")
	}
	if b.SpendAuth, ok = values[1].([][SignatureWordCount][32]byte); !ok {
		return nil, ztron.NewError(ztron.ErrInvalidTransaction, "unexpected signature array type")
	}
	if b.Outputs, ok = values[2].([][OutputWordCount][32]byte); !ok {
		return nil, ztron.NewError(ztron.ErrInvalidTransaction, "unexpected output array type")
	}
	if b.BindingSig, ok = values[3].([SignatureWordCount][32]byte); !ok {
		return nil, ztron.NewError(ztron.ErrInvalidTransaction, "unexpected binding signature type")
	}
	if b.Ciphertexts, ok = values[4].([][CiphertextWordCount][32]byte); !ok {
		return nil, ztron.NewError(ztron.ErrInvalidTransaction, "unexpected ciphertext array type")
	}
	return &b, nil
}
