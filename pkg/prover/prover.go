// Package prover defines the proving capability the transaction builder
// consumes: turning spend and output witnesses into zero-knowledge proofs
// plus the public values they commit to, and issuing the binding signature
// over the whole transaction's value balance.
//
// Two implementations ship with the module:
//
//   - Local: backed by the Rust Sapling proving library through CGO, using
//     the process-wide Groth16 parameters loaded by LoadParameters.
//   - Insecure: pure Go, for tests and demos. Its value commitments,
//     randomized keys and binding signatures are real curve arithmetic,
//     but its proof bytes are placeholders no verifier will accept.
//
// Proof generation failure is terminal for a build attempt; the caller
// owns any retry policy.
package prover

import (
	"github.com/suffix-labs/ztron-shield/pkg/jubjub"
	"github.com/suffix-labs/ztron-shield/pkg/keys"
	"github.com/suffix-labs/ztron-shield/pkg/merkle"
	"github.com/suffix-labs/ztron-shield/pkg/ztron"
)

// SpendWitness is everything needed to prove authority over one note:
// knowledge of the spend authority, the note opening, and a valid
// authentication path to the anchor.
type SpendWitness struct {
	ProofKey    keys.ProofGenerationKey
	Diversifier ztron.Diversifier
	Rcm         [32]byte      // note commitment trapdoor
	Alpha       jubjub.Scalar // spend-auth randomizer
	Value       uint64
	Anchor      [32]byte
	Path        merkle.Path
}

// OutputWitness is everything needed to prove a well-formed output note
// and value commitment.
type OutputWitness struct {
	Esk   jubjub.Scalar // ephemeral secret of the note encryption
	To    ztron.PaymentAddress
	Rcm   [32]byte
	Value uint64
}

// SpendProof is the public result of proving one spend.
type SpendProof struct {
	Proof [ztron.ProofSize]byte
	CV    [32]byte // value commitment
	Rk    [32]byte // randomized verification key
}

// OutputProof is the public result of proving one output.
type OutputProof struct {
	Proof [ztron.ProofSize]byte
	CV    [32]byte
}

// Context accumulates per-transaction proving state (the commitment
// randomness that ultimately forms the binding signature key). A context
// serves exactly one build; Close releases any backend resources.
type Context interface {
	SpendProof(w SpendWitness) (SpendProof, error)
	OutputProof(w OutputWitness) (OutputProof, error)

	// BindingSig signs the sighash with the accumulated commitment
	// randomness, proving Σcv_in − Σcv_out commits to valueBalance.
	// Must be called after all spend and output proofs.
	BindingSig(valueBalance ztron.Amount, sighash [32]byte) ([ztron.SignatureSize]byte, error)

	Close()
}

// TxProver is the proving capability.
type TxProver interface {
	NewContext() Context
}
