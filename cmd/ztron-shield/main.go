// ztron-shield CLI - Shielded TRC-20 transaction builder
//
// This CLI demonstrates the ztron-shield library's capabilities for
// building mint and transfer payloads for a shielded TRC-20 contract.
//
// Example usage:
//   # Derive a shielded payment address from a seed
//   ztron-shield addr 0011..ff
//
//   # Derive a transparent address from a fresh secp256k1 key
//   ztron-shield gen-taddr
//
//   # Build a demo mint payload with the insecure test prover
//   ztron-shield demo-mint
//
//   # Build a demo shielded transfer payload
//   ztron-shield demo-transfer
package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/rs/zerolog"

	"github.com/suffix-labs/ztron-shield/pkg/address"
	"github.com/suffix-labs/ztron-shield/pkg/builder"
	"github.com/suffix-labs/ztron-shield/pkg/jubjub"
	"github.com/suffix-labs/ztron-shield/pkg/keys"
	"github.com/suffix-labs/ztron-shield/pkg/merkle"
	"github.com/suffix-labs/ztron-shield/pkg/prover"
	"github.com/suffix-labs/ztron-shield/pkg/ztron"
)

// Demo parameters: the token has 6 decimals, so one shielded unit is 10^6
// of the smallest transparent denomination.
const demoScalingExponent = 6

// Demo shielded contract address (base58check, version 0x41).
const demoContract = "TQEuSEVRk1GtfExm5q9T8a1w84GvgQJ13V"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "addr":
		cmdAddr()
	case "gen-taddr":
		cmdGenTAddr()
	case "demo-mint":
		cmdDemoMint()
	case "demo-transfer":
		cmdDemoTransfer()
	case "version":
		cmdVersion()
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`ztron-shield - Shielded TRC-20 transaction builder

Usage:
  ztron-shield <command> [options]

Commands:
  addr <seed-hex>              Derive a shielded payment address from a 32-byte seed
  gen-taddr                    Derive a transparent address from a fresh secp256k1 key
  demo-mint                    Build a mint payload with the insecure test prover
  demo-transfer                Build a shielded transfer payload with the insecure test prover
  version                      Show version information
  help                         Show this help message

The demo commands use the insecure prover: real value commitments and
signatures, placeholder zkSNARK proofs. They exist to exercise the
pipeline and inspect payload layout, not to produce broadcastable calls.`)
}

func cmdVersion() {
	fmt.Println("ztron-shield v0.1.0")
	fmt.Println("Shielded TRC-20 transaction builder")
	fmt.Println("Based on TIP-135/TIP-137 and the Sapling protocol")
}

func logger() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		With().Timestamp().Logger().Level(zerolog.DebugLevel)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// defaultAddress scans diversifiers from zero until one has a valid group
// hash, matching how wallets pick a default diversified address.
func defaultAddress(ivk jubjub.Scalar) (ztron.PaymentAddress, error) {
	var d ztron.Diversifier
	for i := 0; i < 256; i++ {
		d[0] = byte(i)
		addr, err := keys.PaymentAddress(ivk, d)
		if err == nil {
			return addr, nil
		}
	}
	return ztron.PaymentAddress{}, fmt.Errorf("no valid diversifier found")
}

// seedAddress derives a spend authority and its default payment address
// from a fixed demo seed byte.
func seedAddress(seedByte byte) (keys.ExpandedSpendingKey, ztron.PaymentAddress, error) {
	var seed [32]byte
	seed[0] = seedByte

	expsk := keys.ExpandSeed(seed)
	ivk := expsk.FullViewingKey().IncomingViewingKey()
	addr, err := defaultAddress(ivk)
	return expsk, addr, err
}

func cmdAddr() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "Error: seed argument required")
		fmt.Fprintln(os.Stderr, "Usage: ztron-shield addr <seed-hex>")
		os.Exit(1)
	}

	raw, err := hex.DecodeString(os.Args[2])
	if err != nil || len(raw) != 32 {
		fmt.Fprintln(os.Stderr, "Error: seed must be 32 bytes of hex")
		os.Exit(1)
	}
	var seed [32]byte
	copy(seed[:], raw)

	expsk := keys.ExpandSeed(seed)
	ivk := expsk.FullViewingKey().IncomingViewingKey()

	addr, err := defaultAddress(ivk)
	if err != nil {
		fatal(err)
	}

	fmt.Printf("diversifier: %s\n", hex.EncodeToString(addr.D[:]))
	fmt.Printf("pk_d:        %s\n", hex.EncodeToString(addr.PkD[:]))
	fmt.Printf("ivk:         %s\n", hex.EncodeToString(ivk[:]))
	fmt.Printf("ovk:         %s\n", hex.EncodeToString(expsk.Ovk[:]))
}

func cmdGenTAddr() {
	priv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		fatal(err)
	}

	addr := address.FromPublicKey(priv.PubKey())
	fmt.Printf("private key: %s\n", hex.EncodeToString(priv.Serialize()))
	fmt.Printf("address:     %s\n", addr.Base58())
	fmt.Printf("tvm form:    %s\n", addr.TVM().Hex())
}

func cmdDemoMint() {
	contract, err := address.FromBase58(demoContract)
	if err != nil {
		fatal(err)
	}

	expsk, to, err := seedAddress(0x01)
	if err != nil {
		fatal(err)
	}

	const shieldedValue = 50
	b := builder.New(contract, demoScalingExponent).WithLogger(logger())
	transparent := ztron.Scale(shieldedValue, ztron.ScalingFactor(demoScalingExponent))
	if err := b.AddTransparentInput(transparent); err != nil {
		fatal(err)
	}
	if err := b.AddSaplingOutput(expsk.Ovk, to, shieldedValue, ztron.Memo{}); err != nil {
		fatal(err)
	}

	_, payload, err := b.Build(prover.NewInsecure(nil))
	if err != nil {
		fatal(err)
	}

	fmt.Printf("mint payload (%d bytes):\n%s\n", len(payload), hex.EncodeToString(payload))
}

func cmdDemoTransfer() {
	contract, err := address.FromBase58(demoContract)
	if err != nil {
		fatal(err)
	}

	sender, senderAddr, err := seedAddress(0x01)
	if err != nil {
		fatal(err)
	}
	_, receiverAddr, err := seedAddress(0x02)
	if err != nil {
		fatal(err)
	}

	// A previously minted note, sitting at position 7 of a toy tree whose
	// siblings are all zero. The demo only needs path and root to agree.
	note := ztron.Note{
		D:     senderAddr.D,
		PkD:   senderAddr.PkD,
		Value: 50,
		Rcm:   [32]byte{0x42},
	}
	path := merkle.Path{Position: 7}

	b := builder.New(contract, demoScalingExponent).WithLogger(logger())
	if err := b.AddSaplingSpend(sender, note, path); err != nil {
		fatal(err)
	}
	if err := b.AddSaplingOutput(sender.Ovk, receiverAddr, 50, ztron.Memo{}); err != nil {
		fatal(err)
	}

	_, payload, err := b.Build(prover.NewInsecure(nil))
	if err != nil {
		fatal(err)
	}

	fmt.Printf("transfer payload (%d bytes):\n%s\n", len(payload), hex.EncodeToString(payload))
}
