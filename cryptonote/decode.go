package cryptonote

import "github.com/mxhess/salvium-core/errs"

// DecodeTxInput reads one input from the front of b, returning the
// input and the number of bytes consumed.
func DecodeTxInput(b []byte) (TxInput, int, error) {
	if len(b) == 0 {
		return TxInput{}, 0, errs.ErrIntegrityViolation
	}
	r := newReader(b)
	tag := r.byte()
	switch tag {
	case inTagToKey:
		amount := r.varint()
		n := r.varint()
		offsets := make([]uint64, n)
		for i := range offsets {
			offsets[i] = r.varint()
		}
		keyImage := r.bytes(32)
		if r.err != nil {
			return TxInput{}, 0, r.err
		}
		var ki [32]byte
		copy(ki[:], keyImage)
		return TxInput{ToKey: &TxInToKey{Amount: amount, KeyOffsets: offsets, KeyImage: ki}}, r.off, nil
	case inTagGen:
		height := r.varint()
		if r.err != nil {
			return TxInput{}, 0, r.err
		}
		return TxInput{Gen: &TxInGen{Height: height}}, r.off, nil
	default:
		return TxInput{}, 0, errs.ErrIntegrityViolation
	}
}

// DecodeTxOutput reads one output from the front of b.
func DecodeTxOutput(b []byte) (TxOut, int, error) {
	r := newReader(b)
	amount := r.varint()
	tag := r.byte()
	key := r.bytes(32)
	if r.err != nil {
		return TxOut{}, 0, r.err
	}
	out := TxOut{Amount: amount}
	copy(out.Key[:], key)
	switch tag {
	case outTagKey:
		return out, r.off, nil
	case outTagKeyViewTag:
		vt := r.byte()
		if r.err != nil {
			return TxOut{}, 0, r.err
		}
		out.HasViewTag = true
		out.ViewTag = vt
		return out, r.off, nil
	default:
		return TxOut{}, 0, errs.ErrIntegrityViolation
	}
}

// DecodeTxPrefix reads a transaction prefix from the front of b,
// returning the prefix and the number of bytes consumed. The Salvium
// tail, if any, begins at the returned offset.
func DecodeTxPrefix(b []byte) (TxPrefix, int, error) {
	r := newReader(b)
	var p TxPrefix
	p.Version = r.varint()
	p.UnlockTime = r.varint()
	nIn := r.varint()
	if r.err != nil {
		return TxPrefix{}, 0, r.err
	}
	p.Inputs = make([]TxInput, nIn)
	for i := range p.Inputs {
		in, n, err := DecodeTxInput(r.b[r.off:])
		if err != nil {
			return TxPrefix{}, 0, err
		}
		p.Inputs[i] = in
		r.off += n
	}

	nOut := r.varint()
	if r.err != nil {
		return TxPrefix{}, 0, r.err
	}
	p.Outputs = make([]TxOut, nOut)
	for i := range p.Outputs {
		out, n, err := DecodeTxOutput(r.b[r.off:])
		if err != nil {
			return TxPrefix{}, 0, err
		}
		p.Outputs[i] = out
		r.off += n
	}

	extraLen := r.varint()
	extra := r.bytes(int(extraLen))
	if r.err != nil {
		return TxPrefix{}, 0, r.err
	}
	p.Extra = append([]byte(nil), extra...)
	return p, r.off, nil
}
