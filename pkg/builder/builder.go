// Package builder assembles shielded TRC-20 transactions. A Builder
// accumulates shielded spends, shielded outputs and at most one
// transparent leg on each side, classifies the result as a mint, transfer
// or burn, and produces the exact byte payload for the corresponding
// contract entry point.
//
// A Builder is single-use: Build consumes it, and any later call fails
// with BUILDER_CONSUMED. It is not safe for concurrent use.
package builder

import (
	"crypto/rand"
	"io"

	"github.com/holiman/uint256"
	"github.com/rs/zerolog"

	"github.com/suffix-labs/ztron-shield/pkg/address"
	"github.com/suffix-labs/ztron-shield/pkg/jubjub"
	"github.com/suffix-labs/ztron-shield/pkg/keys"
	"github.com/suffix-labs/ztron-shield/pkg/merkle"
	"github.com/suffix-labs/ztron-shield/pkg/prover"
	"github.com/suffix-labs/ztron-shield/pkg/sighash"
	"github.com/suffix-labs/ztron-shield/pkg/txencode"
	"github.com/suffix-labs/ztron-shield/pkg/ztron"
)

type spendLeg struct {
	expsk keys.ExpandedSpendingKey
	note  ztron.Note
	path  merkle.Path
	alpha jubjub.Scalar
}

type outputLeg struct {
	ovk   ztron.OutgoingViewingKey
	to    ztron.PaymentAddress
	value uint64
	rcm   [32]byte
	memo  ztron.Memo
}

type transparentOutput struct {
	to     address.Address
	amount *uint256.Int
}

// Builder accumulates the legs of one shielded transaction.
type Builder struct {
	rng      io.Reader
	log      zerolog.Logger
	contract address.Address
	scale    *uint256.Int

	valueBalance ztron.Amount
	anchor       *[32]byte
	spends       []spendLeg
	outputs      []outputLeg
	tIn          *uint256.Int
	tOut         *transparentOutput

	built bool
}

// New creates a builder for the shielded contract at the given address.
// scalingExponent is the token's decimal count: one shielded unit equals
// 10^scalingExponent of the transparent token's smallest denomination.
func New(contract address.Address, scalingExponent uint8) *Builder {
	return NewWithRand(rand.Reader, contract, scalingExponent)
}

// NewWithRand is New with an explicit randomness source, for deterministic
// tests. Production callers use New.
func NewWithRand(rng io.Reader, contract address.Address, scalingExponent uint8) *Builder {
	return &Builder{
		rng:      rng,
		log:      zerolog.Nop(),
		contract: contract,
		scale:    ztron.ScalingFactor(scalingExponent),
	}
}

// WithLogger sets the builder's logger and returns the builder.
func (b *Builder) WithLogger(log zerolog.Logger) *Builder {
	b.log = log
	return b
}

// Anchor returns the merkle root pinned by the first spend, or nil if no
// spend has been added yet.
func (b *Builder) Anchor() *[32]byte {
	if b.anchor == nil {
		return nil
	}
	a := *b.anchor
	return &a
}

// ValueBalance returns the running Σspends − Σoutputs.
func (b *Builder) ValueBalance() ztron.Amount {
	return b.valueBalance
}

// AddSaplingSpend adds a shielded spend: the spend authority, the note
// being consumed, and its authentication path. The first spend pins the
// transaction's anchor; a later spend whose path resolves to a different
// root is rejected without modifying the builder.
func (b *Builder) AddSaplingSpend(expsk keys.ExpandedSpendingKey, note ztron.Note, path merkle.Path) error {
	if b.built {
		return ztron.NewError(ztron.ErrBuilderConsumed, "builder already consumed")
	}
	if len(b.spends) >= ztron.MaxSaplingSpends {
		return ztron.Errorf(ztron.ErrInvalidTransaction, "at most %d shielded spends", ztron.MaxSaplingSpends)
	}

	root := path.Root(note.Commitment())
	if b.anchor == nil {
		b.anchor = &root
	} else if *b.anchor != root {
		return ztron.NewError(ztron.ErrAnchorMismatch, "spend path resolves to a different anchor")
	}

	value, err := ztron.AmountFromUint64(note.Value)
	if err != nil {
		return err
	}
	balance, err := b.valueBalance.Add(value)
	if err != nil {
		return err
	}

	alpha, err := jubjub.RandomScalar(b.rng)
	if err != nil {
		return ztron.WrapError(ztron.ErrInvalidTransaction, "spend randomizer", err)
	}

	b.valueBalance = balance
	b.spends = append(b.spends, spendLeg{
		expsk: expsk,
		note:  note,
		path:  path,
		alpha: alpha,
	})
	return nil
}

// AddSaplingOutput adds a shielded output of the given value to a payment
// address, encrypted so the ovk holder can recover it later.
func (b *Builder) AddSaplingOutput(ovk ztron.OutgoingViewingKey, to ztron.PaymentAddress, value uint64, memo ztron.Memo) error {
	if b.built {
		return ztron.NewError(ztron.ErrBuilderConsumed, "builder already consumed")
	}
	if len(b.outputs) >= ztron.MaxSaplingOutputs {
		return ztron.Errorf(ztron.ErrInvalidTransaction, "at most %d shielded outputs", ztron.MaxSaplingOutputs)
	}
	if _, err := keys.DiversifierBase(to.D); err != nil {
		return ztron.NewError(ztron.ErrInvalidAddress, "diversifier has no group hash")
	}
	if _, err := jubjub.PointFromBytes(to.PkD); err != nil {
		return ztron.NewError(ztron.ErrInvalidAddress, "pk_d is not a curve point")
	}

	amount, err := ztron.AmountFromUint64(value)
	if err != nil {
		return err
	}
	balance, err := b.valueBalance.Sub(amount)
	if err != nil {
		return err
	}

	rcm, err := jubjub.RandomScalar(b.rng)
	if err != nil {
		return ztron.WrapError(ztron.ErrInvalidTransaction, "output trapdoor", err)
	}

	b.valueBalance = balance
	b.outputs = append(b.outputs, outputLeg{
		ovk:   ovk,
		to:    to,
		value: value,
		rcm:   [32]byte(rcm),
		memo:  memo,
	})
	return nil
}

// AddTransparentInput declares the transparent TRC-20 amount being moved
// into the shielded pool. At most one per transaction.
func (b *Builder) AddTransparentInput(amount *uint256.Int) error {
	if b.built {
		return ztron.NewError(ztron.ErrBuilderConsumed, "builder already consumed")
	}
	if b.tIn != nil {
		return ztron.NewError(ztron.ErrInvalidTransaction, "transparent input already set")
	}
	if amount == nil || amount.IsZero() {
		return ztron.NewError(ztron.ErrInvalidAmount, "transparent input must be positive")
	}
	b.tIn = amount.Clone()
	return nil
}

// AddTransparentOutput declares the transparent TRC-20 amount being
// withdrawn from the shielded pool, and its recipient. At most one per
// transaction.
func (b *Builder) AddTransparentOutput(to address.Address, amount *uint256.Int) error {
	if b.built {
		return ztron.NewError(ztron.ErrBuilderConsumed, "builder already consumed")
	}
	if b.tOut != nil {
		return ztron.NewError(ztron.ErrInvalidTransaction, "transparent output already set")
	}
	if to.IsZero() {
		return ztron.NewError(ztron.ErrInvalidAddress, "transparent recipient is the zero address")
	}
	if amount == nil || amount.IsZero() {
		return ztron.NewError(ztron.ErrInvalidAmount, "transparent output must be positive")
	}
	b.tOut = &transparentOutput{to: to, amount: amount.Clone()}
	return nil
}

// classify decides which contract entry point the accumulated legs target.
// A transparent input takes precedence, then a transparent output, then a
// purely shielded transfer.
func (b *Builder) classify() (ztron.TransactionType, error) {
	switch {
	case b.tIn != nil:
		if len(b.spends) != 0 || len(b.outputs) != 1 || b.tOut != nil {
			return 0, ztron.NewError(ztron.ErrInvalidTransaction,
				"mint requires exactly one shielded output and no other legs")
		}
		return ztron.Mint, nil

	case b.tOut != nil:
		if len(b.spends) != 1 || len(b.outputs) > 1 {
			return 0, ztron.NewError(ztron.ErrInvalidTransaction,
				"burn requires exactly one shielded spend and at most one shielded output")
		}
		return ztron.Burn, nil

	case len(b.spends) >= 1 && len(b.outputs) >= 1:
		return ztron.Transfer, nil

	default:
		return 0, ztron.NewError(ztron.ErrInvalidTransaction, "neither mint, burn, nor transfer")
	}
}

// Build classifies the transaction, generates proofs and signatures, and
// returns the classification together with the contract-call payload. It
// consumes the builder: a second call fails with BUILDER_CONSUMED
// regardless of the first call's outcome.
func (b *Builder) Build(p prover.TxProver) (ztron.TransactionType, []byte, error) {
	if b.built {
		return 0, nil, ztron.NewError(ztron.ErrBuilderConsumed, "builder already consumed")
	}
	b.built = true

	txType, err := b.classify()
	if err != nil {
		return 0, nil, err
	}
	b.log.Debug().
		Stringer("type", txType).
		Int("spends", len(b.spends)).
		Int("outputs", len(b.outputs)).
		Int64("value_balance", int64(b.valueBalance)).
		Msg("building shielded transaction")

	ctx := p.NewContext()
	defer ctx.Close()

	var payload []byte
	switch txType {
	case ztron.Mint:
		payload, err = b.buildMint(ctx)
	case ztron.Transfer:
		payload, err = b.buildTransfer(ctx)
	case ztron.Burn:
		payload, err = b.buildBurn(ctx)
	}
	if err != nil {
		return 0, nil, err
	}

	b.log.Info().
		Stringer("type", txType).
		Int("payload_bytes", len(payload)).
		Msg("shielded transaction built")
	return txType, payload, nil
}

// buildMint produces the mint entry point payload. The single output note
// absorbs the transparent input exactly: value × 10^decimals must equal
// the transparent amount.
func (b *Builder) buildMint(ctx prover.Context) ([]byte, error) {
	if b.valueBalance.IsPositive() {
		return nil, ztron.NewError(ztron.ErrInvalidAmount, "mint value balance must not be positive")
	}

	leg := &b.outputs[0]
	if !ztron.ScaledEquals(leg.value, b.scale, b.tIn) {
		return nil, ztron.Errorf(ztron.ErrAmountMismatch,
			"scaled shielded value does not equal transparent input %s", b.tIn)
	}

	desc, err := b.proveOutput(ctx, leg)
	if err != nil {
		return nil, err
	}

	hash := sighash.Mint(b.contract, leg.value, &desc)
	bindingSig, err := ctx.BindingSig(b.valueBalance, hash)
	if err != nil {
		return nil, ztron.WrapError(ztron.ErrBindingSig, "binding signature", err)
	}

	return txencode.MintPayload(ztron.Scale(leg.value, b.scale), &desc, bindingSig), nil
}

// buildTransfer produces the transfer entry point payload. Value never
// crosses the shielded boundary, so the balance must be exactly zero.
func (b *Builder) buildTransfer(ctx prover.Context) ([]byte, error) {
	if b.valueBalance != 0 {
		return nil, ztron.Errorf(ztron.ErrInvalidAmount,
			"transfer value balance must be zero, got %d", int64(b.valueBalance))
	}

	spends := make([]ztron.SpendDescription, len(b.spends))
	for i := range b.spends {
		desc, err := b.proveSpend(ctx, &b.spends[i])
		if err != nil {
			return nil, err
		}
		spends[i] = desc
	}

	outputs := make([]ztron.OutputDescription, len(b.outputs))
	for i := range b.outputs {
		desc, err := b.proveOutput(ctx, &b.outputs[i])
		if err != nil {
			return nil, err
		}
		outputs[i] = desc
	}

	hash := sighash.Transfer(b.contract, spends, outputs)
	for i := range spends {
		if err := b.signSpend(&spends[i], &b.spends[i], hash); err != nil {
			return nil, err
		}
	}

	bindingSig, err := ctx.BindingSig(b.valueBalance, hash)
	if err != nil {
		return nil, ztron.WrapError(ztron.ErrBindingSig, "binding signature", err)
	}

	return txencode.TransferPayload(spends, outputs, bindingSig)
}

// buildBurn checks the burn preconditions, then reports that payload
// construction for the burn entry point is not supported yet.
func (b *Builder) buildBurn(ctx prover.Context) ([]byte, error) {
	if b.valueBalance.IsNegative() {
		return nil, ztron.NewError(ztron.ErrInvalidAmount, "burn value balance must not be negative")
	}
	if !ztron.ScaledEquals(uint64(b.valueBalance), b.scale, b.tOut.amount) {
		return nil, ztron.Errorf(ztron.ErrAmountMismatch,
			"scaled shielded value does not equal transparent output %s", b.tOut.amount)
	}

	return nil, ztron.NewError(ztron.ErrBurnNotImplemented, "burn payload construction is not supported")
}
