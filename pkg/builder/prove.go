package builder

import (
	"github.com/suffix-labs/ztron-shield/pkg/noteenc"
	"github.com/suffix-labs/ztron-shield/pkg/prover"
	"github.com/suffix-labs/ztron-shield/pkg/redjubjub"
	"github.com/suffix-labs/ztron-shield/pkg/ztron"
)

// proveSpend turns one spend leg into its public descriptor: proof, value
// commitment, randomized verification key, nullifier and anchor.
func (b *Builder) proveSpend(ctx prover.Context, leg *spendLeg) (ztron.SpendDescription, error) {
	sp, err := ctx.SpendProof(prover.SpendWitness{
		ProofKey:    leg.expsk.ProofGenerationKey(),
		Diversifier: leg.note.D,
		Rcm:         leg.note.Rcm,
		Alpha:       leg.alpha,
		Value:       leg.note.Value,
		Anchor:      *b.anchor,
		Path:        leg.path,
	})
	if err != nil {
		return ztron.SpendDescription{}, ztron.WrapError(ztron.ErrSpendProof, "spend proof", err)
	}

	fvk := leg.expsk.FullViewingKey()
	return ztron.SpendDescription{
		CV:        sp.CV,
		Anchor:    *b.anchor,
		Nullifier: leg.note.Nullifier(fvk.NullifierKey(), leg.path.Position),
		Rk:        sp.Rk,
		ZkProof:   sp.Proof,
	}, nil
}

// signSpend attaches the spend authorization signature once the sighash is
// known: the α-randomized spend authority signing the transaction digest.
func (b *Builder) signSpend(desc *ztron.SpendDescription, leg *spendLeg, hash [32]byte) error {
	sig, err := redjubjub.SignSpendAuth(b.rng, leg.expsk.Ask, leg.alpha, hash)
	if err != nil {
		return ztron.WrapError(ztron.ErrSpendProof, "spend authorization signature", err)
	}
	s := [ztron.SignatureSize]byte(sig)
	desc.SpendAuthSig = &s
	return nil
}

// proveOutput turns one output leg into its public descriptor: the new
// note's commitment, value commitment, proof, and the two ciphertexts.
func (b *Builder) proveOutput(ctx prover.Context, leg *outputLeg) (ztron.OutputDescription, error) {
	note := ztron.Note{
		D:     leg.to.D,
		PkD:   leg.to.PkD,
		Value: leg.value,
		Rcm:   leg.rcm,
	}

	enc, err := noteenc.New(b.rng, note, leg.memo)
	if err != nil {
		return ztron.OutputDescription{}, ztron.WrapError(ztron.ErrInvalidAddress, "note encryption", err)
	}

	op, err := ctx.OutputProof(prover.OutputWitness{
		Esk:   enc.EphemeralSecret(),
		To:    leg.to,
		Rcm:   leg.rcm,
		Value: leg.value,
	})
	if err != nil {
		return ztron.OutputDescription{}, ztron.WrapError(ztron.ErrSpendProof, "output proof", err)
	}

	cmu := note.Commitment()
	encCiphertext, err := enc.EncryptNotePlaintext()
	if err != nil {
		return ztron.OutputDescription{}, ztron.WrapError(ztron.ErrInvalidAddress, "note encryption", err)
	}

	return ztron.OutputDescription{
		CV:            op.CV,
		Cmu:           cmu,
		EphemeralKey:  enc.EphemeralKey(),
		EncCiphertext: encCiphertext,
		OutCiphertext: enc.EncryptOutgoingPlaintext(leg.ovk, op.CV, cmu),
		ZkProof:       op.Proof,
	}, nil
}
