// Package bulletproof implements an aggregated Bulletproofs+-style range
// proof: given up to 16 Pedersen commitments, prove each commits to a
// 64-bit value without revealing the value, in a single proof whose
// size grows logarithmically in the total bit length via a folded
// inner-product argument, rather than linearly as one Schnorr proof per
// bit would.
//
// The construction follows the classical Bulletproofs aggregation and
// inner-product-argument structure (Bünz et al.) that Bulletproofs+
// itself refines: a bit-decomposition commitment A/S, a degree-2
// polynomial commitment T1/T2 binding the range relation, and a
// recursive halving argument folding the proof down to two scalars.
// Every scalar challenge is derived by Fiat-Shamir over a domain-
// separated Keccak transcript, matching the rest of this module's
// signature and derivation code.
package bulletproof

import (
	"github.com/mxhess/salvium-core/errs"
	"github.com/mxhess/salvium-core/xedwards"
	"github.com/mxhess/salvium-core/xkeccak"
	"github.com/mxhess/salvium-core/xscalar"
)

// BitLength is the range width every proof covers: values in [0, 2^64).
const BitLength = 64

// MaxAggregation is the largest number of commitments a single proof
// may aggregate.
const MaxAggregation = 16

// RangeProof is a serialized Bulletproofs+-style aggregated range proof.
type RangeProof struct {
	V        []xedwards.Point // the m Pedersen commitments being proven in-range
	A, S     xedwards.Point
	T1, T2   xedwards.Point
	TauX, Mu xscalar.Sc
	THat     xscalar.Sc
	L, R     []xedwards.Point // inner-product-argument fold points, one pair per round
	AFinal   xscalar.Sc
	BFinal   xscalar.Sc
}

// ipaBase ("U" in the Bulletproofs paper) is a generator independent of
// the Pedersen commitment bases G and H, binding the inner-product
// value into the folded commitment so a prover cannot forge L/R points
// without knowing a genuine opening.
var ipaBase = xedwards.HashToPoint([]byte("Bulletproofs IPA base U"))

func generatorVec(domain string, n int) []xedwards.Point {
	out := make([]xedwards.Point, n)
	for i := 0; i < n; i++ {
		out[i] = xedwards.HashToPoint([]byte(domain), encodeUint32(uint32(i)))
	}
	return out
}

func encodeUint32(v uint32) []byte {
	return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p *= 2
	}
	return p
}

// Prove constructs an aggregated range proof for the given values and
// their Pedersen blinding masks. len(amounts) must equal len(masks) and
// be between 1 and MaxAggregation. Internally, a non-power-of-two count
// is padded with commitments to zero so the inner-product argument can
// halve cleanly at every round; the padding commitments are folded into
// the proof's V list and are a routine bookkeeping detail, not evidence
// of extra outputs.
func Prove(amounts []uint64, masks []xscalar.Sc) (*RangeProof, error) {
	m := len(amounts)
	if m == 0 || m > MaxAggregation || len(masks) != m {
		return nil, errs.ErrFatalConfiguration
	}

	mPadded := nextPow2(m)
	paddedAmounts := make([]uint64, mPadded)
	paddedMasks := make([]xscalar.Sc, mPadded)
	copy(paddedAmounts, amounts)
	copy(paddedMasks, masks)
	for i := m; i < mPadded; i++ {
		paddedMasks[i] = xscalar.Zero()
	}

	n := BitLength
	total := n * mPadded

	V := make([]xedwards.Point, mPadded)
	for j := 0; j < mPadded; j++ {
		V[j] = xedwards.ScalarMultBase(paddedMasks[j]).Add(xedwards.GeneratorH.ScalarMult(xscalar.FromUint64(paddedAmounts[j])))
	}

	Gvec := generatorVec("bulletproof G", total)
	Hvec := generatorVec("bulletproof H", total)

	aL := make([]xscalar.Sc, total)
	for j := 0; j < mPadded; j++ {
		v := paddedAmounts[j]
		for i := 0; i < n; i++ {
			if (v>>uint(i))&1 == 1 {
				aL[j*n+i] = xscalar.One()
			} else {
				aL[j*n+i] = xscalar.Zero()
			}
		}
	}
	aR := make([]xscalar.Sc, total)
	one := xscalar.One()
	for i := range aL {
		aR[i] = aL[i].Sub(one)
	}

	alpha, err := xscalar.Random()
	if err != nil {
		return nil, err
	}
	A := commitVectors(alpha, aL, aR, Gvec, Hvec)

	sL := randomVec(total)
	sR := randomVec(total)
	rho, err := xscalar.Random()
	if err != nil {
		return nil, err
	}
	S := commitVectors(rho, sL, sR, Gvec, Hvec)

	y, z := challengeYZ(V, A, S)

	yPow := powers(y, total)

	l0 := vecSubScalar(aL, z)
	l1 := sL
	r0 := make([]xscalar.Sc, total)
	r1 := make([]xscalar.Sc, total)
	for i := 0; i < total; i++ {
		r0[i] = yPow[i].Mul(aR[i].Add(z))
		r1[i] = yPow[i].Mul(sR[i])
	}
	for j := 0; j < mPadded; j++ {
		zExp := scalarPow(z, 2+2*j)
		for i := 0; i < n; i++ {
			bit := xscalar.FromUint64(uint64(1) << uint(i))
			r0[j*n+i] = r0[j*n+i].Add(zExp.Mul(bit))
		}
	}

	t0 := innerProduct(l0, r0)
	t1 := innerProduct(l0, r1).Add(innerProduct(l1, r0))
	t2 := innerProduct(l1, r1)

	tau1, err := xscalar.Random()
	if err != nil {
		return nil, err
	}
	tau2, err := xscalar.Random()
	if err != nil {
		return nil, err
	}
	T1 := xedwards.ScalarMultBase(tau1).Add(xedwards.GeneratorH.ScalarMult(t1))
	T2 := xedwards.ScalarMultBase(tau2).Add(xedwards.GeneratorH.ScalarMult(t2))

	x := challengeX(y, z, T1, T2)

	l := vecAddScaled(l0, l1, x)
	r := vecAddScaled(r0, r1, x)
	tHat := innerProduct(l, r)

	taux := tau2.Mul(x).Mul(x).Add(tau1.Mul(x))
	for j := 0; j < mPadded; j++ {
		zExp := scalarPow(z, 2+2*j)
		taux = taux.Add(zExp.Mul(paddedMasks[j]))
	}
	mu := alpha.Add(rho.Mul(x))

	// H' absorbs the y^i weighting so the inner-product argument can
	// fold plain <l, r> rather than a Hadamard-weighted product.
	yInv := y.Invert()
	yInvPow := powers(yInv, total)
	HvecPrime := make([]xedwards.Point, total)
	for i := range Hvec {
		HvecPrime[i] = Hvec[i].ScalarMult(yInvPow[i])
	}

	Ls, Rs, aFinal, bFinal := ipaFold(l, r, Gvec, HvecPrime)

	return &RangeProof{
		V: V, A: A, S: S, T1: T1, T2: T2,
		TauX: taux, Mu: mu, THat: tHat,
		L: Ls, R: Rs, AFinal: aFinal, BFinal: bFinal,
	}, nil
}

// Verify checks a range proof. It returns false for any malformed or
// forged proof, including one where a committed amount was >= 2^64 at
// proving time (the prover refuses such values in Prove, and a
// maliciously hand-built proof claiming otherwise will fail the
// aggregated inner-product check).
func Verify(proof *RangeProof) bool {
	m := len(proof.V)
	if m == 0 || m > MaxAggregation || m&(m-1) != 0 {
		return false
	}
	n := BitLength
	total := n * m

	Gvec := generatorVec("bulletproof G", total)
	Hvec := generatorVec("bulletproof H", total)

	y, z := challengeYZ(proof.V, proof.A, proof.S)
	x := challengeX(y, z, proof.T1, proof.T2)

	delta := computeDelta(y, z, n, m)

	lhs := xedwards.GeneratorH.ScalarMult(proof.THat).Add(xedwards.ScalarMultBase(proof.TauX))
	rhs := xedwards.GeneratorH.ScalarMult(delta).Add(proof.T1.ScalarMult(x)).Add(proof.T2.ScalarMult(x.Mul(x)))
	for j := 0; j < m; j++ {
		zExp := scalarPow(z, 2+2*j)
		rhs = rhs.Add(proof.V[j].ScalarMult(zExp))
	}
	if !lhs.Equal(rhs) {
		return false
	}

	yPow := powers(y, total)
	yInv := y.Invert()
	yInvPow := powers(yInv, total)
	HvecPrime := make([]xedwards.Point, total)
	for i := range Hvec {
		HvecPrime[i] = Hvec[i].ScalarMult(yInvPow[i])
	}

	// Reconstruct P = A + x*S - z*<1,G> + <z*y^i + z^{2+2j}*2^i, H'_i>,
	// the point the inner-product argument is proving an opening of.
	P := proof.A.Add(proof.S.ScalarMult(x))
	for i := 0; i < total; i++ {
		P = P.Sub(Gvec[i].ScalarMult(z))
		j := i / n
		bitPos := i % n
		zExp := scalarPow(z, 2+2*j)
		bit := xscalar.FromUint64(uint64(1) << uint(bitPos))
		coeff := z.Mul(yPow[i]).Add(zExp.Mul(bit))
		P = P.Add(HvecPrime[i].ScalarMult(coeff))
	}
	// Move the mu*G blinding and tHat*U commitment terms onto P before
	// folding, so the final check is a bare multi-base equation.
	P = P.Sub(xedwards.ScalarMultBase(proof.Mu))
	P = P.Add(ipaBase.ScalarMult(proof.THat))

	return ipaVerify(P, Gvec, HvecPrime, proof.L, proof.R, proof.AFinal, proof.BFinal)
}

// commitVectors returns blind*G + <a,Gvec> + <b,Hvec>.
func commitVectors(blind xscalar.Sc, a, b []xscalar.Sc, Gvec, Hvec []xedwards.Point) xedwards.Point {
	acc := xedwards.ScalarMultBase(blind)
	for i := range a {
		acc = acc.Add(Gvec[i].ScalarMult(a[i]))
		acc = acc.Add(Hvec[i].ScalarMult(b[i]))
	}
	return acc
}

func randomVec(n int) []xscalar.Sc {
	out := make([]xscalar.Sc, n)
	for i := range out {
		s, err := xscalar.Random()
		if err != nil {
			// crypto/rand failure is unrecoverable; the caller's Prove
			// has already validated all non-randomness inputs, so this
			// can only mean the system RNG is broken.
			panic("bulletproof: random scalar generation failed: " + err.Error())
		}
		out[i] = s
	}
	return out
}

func vecSubScalar(v []xscalar.Sc, s xscalar.Sc) []xscalar.Sc {
	out := make([]xscalar.Sc, len(v))
	for i := range v {
		out[i] = v[i].Sub(s)
	}
	return out
}

func vecAddScaled(a, b []xscalar.Sc, x xscalar.Sc) []xscalar.Sc {
	out := make([]xscalar.Sc, len(a))
	for i := range a {
		out[i] = a[i].Add(b[i].Mul(x))
	}
	return out
}

func innerProduct(a, b []xscalar.Sc) xscalar.Sc {
	acc := xscalar.Zero()
	for i := range a {
		acc = acc.Add(a[i].Mul(b[i]))
	}
	return acc
}

func powers(base xscalar.Sc, n int) []xscalar.Sc {
	out := make([]xscalar.Sc, n)
	cur := xscalar.One()
	for i := 0; i < n; i++ {
		out[i] = cur
		cur = cur.Mul(base)
	}
	return out
}

func scalarPow(base xscalar.Sc, e int) xscalar.Sc {
	acc := xscalar.One()
	for i := 0; i < e; i++ {
		acc = acc.Mul(base)
	}
	return acc
}

// computeDelta evaluates delta(y,z) = (z - z^2)*<1, y^(n*m)>
// - sum_{j=0}^{m-1} z^{3+2j} * <1, 2^n>, the constant term the
// aggregated range relation's t(x) polynomial picks up independent of
// the committed values.
func computeDelta(y, z xscalar.Sc, n, m int) xscalar.Sc {
	total := n * m
	sumY := xscalar.Zero()
	cur := xscalar.One()
	for i := 0; i < total; i++ {
		sumY = sumY.Add(cur)
		cur = cur.Mul(y)
	}
	sum2 := xscalar.Zero()
	cur2 := xscalar.One()
	for i := 0; i < n; i++ {
		sum2 = sum2.Add(cur2)
		cur2 = cur2.Mul(xscalar.FromUint64(2))
	}

	zSq := z.Mul(z)
	term1 := z.Sub(zSq).Mul(sumY)

	term2 := xscalar.Zero()
	for j := 0; j < m; j++ {
		zExp := scalarPow(z, 3+2*j)
		term2 = term2.Add(zExp.Mul(sum2))
	}
	return term1.Sub(term2)
}

func challengeYZ(V []xedwards.Point, A, S xedwards.Point) (y, z xscalar.Sc) {
	var items [][]byte
	for _, v := range V {
		enc := v.Compress()
		items = append(items, enc[:])
	}
	aEnc := A.Compress()
	sEnc := S.Compress()
	items = append(items, aEnc[:], sEnc[:])

	yDigest := xkeccak.Sum256(append(items, []byte("y"))...)
	zDigest := xkeccak.Sum256(append(items, []byte("z"))...)
	return xscalar.Reduce32(yDigest[:]), xscalar.Reduce32(zDigest[:])
}

func challengeX(y, z xscalar.Sc, T1, T2 xedwards.Point) xscalar.Sc {
	yb := y.Bytes()
	zb := z.Bytes()
	t1 := T1.Compress()
	t2 := T2.Compress()
	digest := xkeccak.Sum256(yb[:], zb[:], t1[:], t2[:])
	return xscalar.Reduce32(digest[:])
}

// ipaFold runs the recursive halving inner-product argument, returning
// the per-round (L, R) commitments and the final folded scalars.
func ipaFold(a, b []xscalar.Sc, G, H []xedwards.Point) (Ls, Rs []xedwards.Point, aFinal, bFinal xscalar.Sc) {
	for len(a) > 1 {
		half := len(a) / 2
		aL, aR := a[:half], a[half:]
		bL, bR := b[:half], b[half:]
		GL, GR := G[:half], G[half:]
		HL, HR := H[:half], H[half:]

		cL := innerProduct(aL, bR)
		cR := innerProduct(aR, bL)

		L := multiScalarMult(aL, GR).Add(multiScalarMult(bR, HL)).Add(ipaBase.ScalarMult(cL))
		R := multiScalarMult(aR, GL).Add(multiScalarMult(bL, HR)).Add(ipaBase.ScalarMult(cR))

		x := foldChallenge(L, R, len(Ls))
		xInv := x.Invert()

		a = foldScalarVec(aL, aR, x, xInv)
		b = foldScalarVec(bL, bR, xInv, x)
		G = foldPointVec(GL, GR, xInv, x)
		H = foldPointVec(HL, HR, x, xInv)

		Ls = append(Ls, L)
		Rs = append(Rs, R)
	}
	return Ls, Rs, a[0], b[0]
}

func foldScalarVec(left, right []xscalar.Sc, xLeft, xRight xscalar.Sc) []xscalar.Sc {
	out := make([]xscalar.Sc, len(left))
	for i := range left {
		out[i] = left[i].Mul(xLeft).Add(right[i].Mul(xRight))
	}
	return out
}

func foldPointVec(left, right []xedwards.Point, xLeft, xRight xscalar.Sc) []xedwards.Point {
	out := make([]xedwards.Point, len(left))
	for i := range left {
		out[i] = left[i].ScalarMult(xLeft).Add(right[i].ScalarMult(xRight))
	}
	return out
}

func multiScalarMult(scalars []xscalar.Sc, points []xedwards.Point) xedwards.Point {
	acc := xedwards.Identity()
	for i := range scalars {
		acc = acc.Add(points[i].ScalarMult(scalars[i]))
	}
	return acc
}

func foldChallenge(L, R xedwards.Point, round int) xscalar.Sc {
	lEnc := L.Compress()
	rEnc := R.Compress()
	digest := xkeccak.Sum256(lEnc[:], rEnc[:], encodeUint32(uint32(round)))
	return xscalar.Reduce32(digest[:])
}

// ipaVerify replays the folding rounds on the generator vectors and
// checks the final relation P == a*G + b*H + (a*b)*U.
func ipaVerify(P xedwards.Point, G, H []xedwards.Point, Ls, Rs []xedwards.Point, aFinal, bFinal xscalar.Sc) bool {
	if len(Ls) != len(Rs) {
		return false
	}
	for round := range Ls {
		x := foldChallenge(Ls[round], Rs[round], round)
		xInv := x.Invert()
		x2 := x.Mul(x)
		xInv2 := xInv.Mul(xInv)

		P = Ls[round].ScalarMult(x2).Add(P).Add(Rs[round].ScalarMult(xInv2))

		half := len(G) / 2
		G = foldPointVec(G[:half], G[half:], xInv, x)
		H = foldPointVec(H[:half], H[half:], x, xInv)
	}
	if len(G) != 1 || len(H) != 1 {
		return false
	}
	want := G[0].ScalarMult(aFinal).Add(H[0].ScalarMult(bFinal)).Add(ipaBase.ScalarMult(aFinal.Mul(bFinal)))
	return P.Equal(want)
}
