// Package sighash computes the message that spend authorization and
// binding signatures commit to.
//
// The hash covers the shielded contract being called and every public
// field of the transaction's shielded bundle, so a signature cannot be
// replayed against another contract or a modified bundle. Fields enter the
// hash in descriptor order with no length framing: every field has a
// protocol-fixed size, so the encoding is already unambiguous.
package sighash

import (
	"crypto/sha256"
	"encoding/binary"
	"io"

	"github.com/suffix-labs/ztron-shield/pkg/address"
	"github.com/suffix-labs/ztron-shield/pkg/ztron"
)

// ciphertextPad widens each ciphertext block to a whole number of 32-byte
// words for the contract-side layout.
const ciphertextPad = 12

func writeSpend(h io.Writer, s *ztron.SpendDescription) {
	h.Write(s.Nullifier[:])
	h.Write(s.Anchor[:])
	h.Write(s.CV[:])
	h.Write(s.Rk[:])
	h.Write(s.ZkProof[:])
}

func writeOutput(h io.Writer, o *ztron.OutputDescription) {
	h.Write(o.Cmu[:])
	h.Write(o.CV[:])
	h.Write(o.EphemeralKey[:])
	h.Write(o.ZkProof[:])
}

func writeCiphertext(h io.Writer, o *ztron.OutputDescription) {
	var pad [ciphertextPad]byte
	h.Write(o.EncCiphertext[:])
	h.Write(o.OutCiphertext[:])
	h.Write(pad[:])
}

// Transfer computes the sighash of a shielded transfer: the contract's TVM
// address, each spend's public fields, each output's public fields, then
// each output's ciphertext block.
func Transfer(contract address.Address, spends []ztron.SpendDescription, outputs []ztron.OutputDescription) [32]byte {
	h := sha256.New()
	tvm := contract.TVM()
	h.Write(tvm[:])

	for i := range spends {
		writeSpend(h, &spends[i])
	}
	for i := range outputs {
		writeOutput(h, &outputs[i])
	}
	for i := range outputs {
		writeCiphertext(h, &outputs[i])
	}

	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Mint computes the sighash of a mint: the contract's TVM address, the
// shielded value being minted, then the single output's public fields and
// ciphertext block.
func Mint(contract address.Address, value uint64, output *ztron.OutputDescription) [32]byte {
	h := sha256.New()
	tvm := contract.TVM()
	h.Write(tvm[:])

	var v [8]byte
	binary.BigEndian.PutUint64(v[:], value)
	h.Write(v[:])

	writeOutput(h, output)
	writeCiphertext(h, output)

	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
