// Package address implements transparent Tron account addresses.
//
// A Tron address is a 21-byte string: a 0x41 version byte followed by the
// last 20 bytes of the Keccak-256 hash of the account's uncompressed
// secp256k1 public key. The human-readable form is base58check (double
// SHA-256 checksum), the same scheme Bitcoin uses, which is why the "T"
// prefix appears on mainnet addresses.
//
// Inside the TVM the version byte is stripped and the remaining 20 bytes
// behave exactly like an EVM address, so the TVM form is expressed as a
// go-ethereum common.Address.
package address

import (
	"bytes"
	"fmt"

	"github.com/btcsuite/btcutil/base58"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Prefix is the mainnet address version byte.
const Prefix byte = 0x41

// Size is the raw address length including the version byte.
const Size = 21

// Address is a raw 21-byte Tron address.
type Address [Size]byte

// FromBase58 parses a base58check-encoded address and validates its
// version byte and checksum.
func FromBase58(s string) (Address, error) {
	var a Address
	payload, version, err := base58.CheckDecode(s)
	if err != nil {
		return a, fmt.Errorf("decoding address %q: %w", s, err)
	}
	if version != Prefix {
		return a, fmt.Errorf("address %q has version 0x%02x, want 0x%02x", s, version, Prefix)
	}
	if len(payload) != Size-1 {
		return a, fmt.Errorf("address %q payload is %d bytes, want %d", s, len(payload), Size-1)
	}
	a[0] = Prefix
	copy(a[1:], payload)
	return a, nil
}

// FromBytes builds an address from its 21-byte raw form.
func FromBytes(raw []byte) (Address, error) {
	var a Address
	if len(raw) != Size {
		return a, fmt.Errorf("raw address is %d bytes, want %d", len(raw), Size)
	}
	if raw[0] != Prefix {
		return a, fmt.Errorf("raw address has version 0x%02x, want 0x%02x", raw[0], Prefix)
	}
	copy(a[:], raw)
	return a, nil
}

// FromTVM builds an address from its 20-byte TVM form.
func FromTVM(addr common.Address) Address {
	var a Address
	a[0] = Prefix
	copy(a[1:], addr.Bytes())
	return a
}

// FromPublicKey derives the address of a secp256k1 account key:
// Keccak-256 over the 64-byte uncompressed point, keeping the low 20 bytes.
func FromPublicKey(pub *secp256k1.PublicKey) Address {
	raw := pub.SerializeUncompressed()
	hash := crypto.Keccak256(raw[1:])
	var a Address
	a[0] = Prefix
	copy(a[1:], hash[12:])
	return a
}

// Base58 returns the base58check string form.
func (a Address) Base58() string {
	return base58.CheckEncode(a[1:], a[0])
}

// TVM returns the 20-byte form used inside contract calls and sighash
// preimages.
func (a Address) TVM() common.Address {
	return common.BytesToAddress(a[1:])
}

// Bytes returns the raw 21-byte form.
func (a Address) Bytes() []byte {
	return a[:]
}

// IsZero reports whether the address is the zero value.
func (a Address) IsZero() bool {
	return bytes.Equal(a[1:], make([]byte, Size-1)) && a[0] == 0
}

func (a Address) String() string {
	return a.Base58()
}
