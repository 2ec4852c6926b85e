package prover

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/suffix-labs/ztron-shield/pkg/ffi"
	"github.com/suffix-labs/ztron-shield/pkg/jubjub"
	"github.com/suffix-labs/ztron-shield/pkg/ztron"
)

// Local is the production prover, backed by the Rust Sapling proving
// library. Requires LoadParameters to have succeeded.
type Local struct {
	log zerolog.Logger
}

// NewLocal returns the FFI-backed prover, or ErrParametersNotLoaded if the
// Groth16 parameters are not available yet.
func NewLocal(log zerolog.Logger) (*Local, error) {
	if !ParametersLoaded() {
		return nil, ErrParametersNotLoaded
	}
	return &Local{log: log}, nil
}

// NewContext allocates a Rust-side proving context for one transaction.
func (l *Local) NewContext() Context {
	return &localContext{
		handle: ffi.ContextNew(),
		log:    l.log,
	}
}

type localContext struct {
	handle uintptr
	closed bool
	log    zerolog.Logger
}

func (c *localContext) SpendProof(w SpendWitness) (SpendProof, error) {
	start := time.Now()
	ak := jubjub.PointToBytes(&w.ProofKey.Ak)

	proof, cv, rk, err := ffi.SpendProof(
		c.handle,
		ak,
		[32]byte(w.ProofKey.Nsk),
		[11]byte(w.Diversifier),
		w.Rcm,
		[32]byte(w.Alpha),
		w.Value,
		w.Anchor,
		w.Path.Serialize(),
	)
	if err != nil {
		return SpendProof{}, err
	}

	c.log.Debug().
		Dur("elapsed", time.Since(start)).
		Msg("spend proof generated")
	return SpendProof{Proof: proof, CV: cv, Rk: rk}, nil
}

func (c *localContext) OutputProof(w OutputWitness) (OutputProof, error) {
	start := time.Now()

	proof, cv, err := ffi.OutputProof(
		c.handle,
		[32]byte(w.Esk),
		[11]byte(w.To.D),
		w.To.PkD,
		w.Rcm,
		w.Value,
	)
	if err != nil {
		return OutputProof{}, err
	}

	c.log.Debug().
		Dur("elapsed", time.Since(start)).
		Msg("output proof generated")
	return OutputProof{Proof: proof, CV: cv}, nil
}

func (c *localContext) BindingSig(valueBalance ztron.Amount, sighash [32]byte) ([ztron.SignatureSize]byte, error) {
	return ffi.BindingSig(c.handle, int64(valueBalance), sighash)
}

func (c *localContext) Close() {
	if c.closed {
		return
	}
	c.closed = true
	ffi.ContextFree(c.handle)
}
