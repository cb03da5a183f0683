// Package ecc implements the elliptic-curve math used to secure bus
// connections: fixed-width big-number arithmetic over the P-256 field
// and order, Jacobian/affine point arithmetic, ECDH and ECDSA, and the
// password-authenticated (EC-SPEKE) key establishment built on a
// REDP-1 hash-to-curve.
//
// The number representation is deliberately not the usual Montgomery
// form.  P-256 can be written as a short sum of powers of 2^32, which
// allows a word-oriented reduction that is cheaper than Montgomery
// multiplication: the most significant word is folded back into a few
// fixed lower-weight word positions.  Carry propagation is amortized by
// accumulating into 64-bit lanes, the way a carry-save adder does it in
// hardware.
//
// Most operations keep values only approximately reduced: any value
// X + k*p with small k is an acceptable representative as long as it
// fits the 9-word budget.  Exact (precise) reduction is a separate,
// explicitly invoked step, required before equality comparisons,
// halving, and final output.
package ecc

// bigLen is the number of 32-bit words in a bigVal: one more than the
// 256-bit modulus needs, leaving headroom for approximate reduction.
const bigLen = 9

// msw indexes the most significant word, which is interpreted as
// signed; the value as a whole is two's complement at word granularity,
// little-endian by word.
const msw = bigLen - 1

// bigVal is a fixed-width signed big integer.  It is a value type:
// assignment copies, nothing is shared.
type bigVal struct {
	data [bigLen]uint32
}

// modSelect chooses the reduction modulus for mulP.
type modSelect int

const (
	modModulus modSelect = iota // field modulus p
	modOrder                    // curve order n
)

func (a *bigVal) isZero() bool {
	for i := 0; i < bigLen; i++ {
		if a.data[i] != 0 {
			return false
		}
	}
	return true
}

func (a *bigVal) isOne() bool {
	if a.data[0] != 1 {
		return false
	}
	for i := 1; i < bigLen; i++ {
		if a.data[i] != 0 {
			return false
		}
	}
	return true
}

func (a *bigVal) isNegative() bool {
	return int32(a.data[msw]) < 0
}

// isOdd inspects the low bit.  For a modular value the caller must have
// precisely reduced it first.
func (a *bigVal) isOdd() bool {
	return a.data[0]&1 != 0
}

func (r *bigVal) setInt(v uint32) {
	*r = bigVal{}
	r.data[0] = v
}

// getBit returns bit i of a; bit 0 is the LSB.
func (a *bigVal) getBit(i int) int {
	return int(a.data[i/32]>>(uint(i)%32)) & 1
}

// get2Bits returns bits i+1 and i of a; i must be even and <= 30 within
// its word.
func (a *bigVal) get2Bits(i int) int {
	return int(a.data[i/32]>>(uint(i)%32)) & 3
}

// mpyAccum adds a*b into the (carry, sum) accumulator pair.
func mpyAccum(cumCarry *int, sum *uint64, a, b uint32) {
	product := uint64(a) * uint64(b)
	lsum := *sum + product
	if lsum < product {
		*cumCarry++
	}
	*sum = lsum
}

// mpyAccumDbl adds 2*a*b into the accumulator pair; used on the
// off-diagonal terms when squaring.
func mpyAccumDbl(cumCarry *int, sum *uint64, a, b uint32) {
	product := uint64(a) * uint64(b)
	lsum := *sum + product
	if lsum < product {
		*cumCarry++
	}
	lsum += product
	if lsum < product {
		*cumCarry++
	}
	*sum = lsum
}

// mulP computes r = a * b, approximately reduced mod p or mod the curve
// order depending on mod.  A zero operand short-circuits to zero.
//
// The multiply collects all products of equal weight into a 64-bit lane
// plus an overflow counter before propagating carries, then corrects
// for negative (two's complement) operands, and finally reduces.  For
// the field modulus the reduction folds each high word into positions
// i-1, i-2, i-5, i-8; those offsets encode
// 2^256 = 2^224 - 2^192 - 2^96 + 1 (mod p) and hold for no other
// modulus.  For the order, which has no such structure, each high word
// is knocked out by subtracting word-aligned multiples of the order in
// signed-digit form.
func (r *bigVal) mulP(a, b *bigVal, mod modSelect) {
	var w [2 * bigLen]int64
	var uAccum uint64
	var cumCarry int

	if a.isZero() || b.isZero() {
		*r = bigVal{}
		return
	}

	aWords := bigLen
	for aWords > 1 && a.data[aWords-1] == 0 {
		aWords--
	}

	var i int
	if a != b {
		bWords := bigLen
		for bWords > 1 && b.data[bWords-1] == 0 {
			bWords--
		}

		// i indexes words of the output; all (j, i-j) products of
		// weight 2^(32i) are accumulated before moving on.
		for i = 0; i < aWords+bWords-1; i++ {
			maxj := min(bWords-1, i)
			minj := max(0, i-aWords+1)
			for j := minj; j <= maxj; j++ {
				mpyAccum(&cumCarry, &uAccum, a.data[i-j], b.data[j])
			}
			w[i] = int64(uAccum & 0xffffffff)
			uAccum = (uAccum >> 32) + uint64(cumCarry)<<32
			cumCarry = 0
		}
	} else {
		// Squaring: a[i]*a[j] + a[j]*a[i] == 2*(a[i]*a[j]), so the
		// off-diagonal products are taken once and doubled.
		for i = 0; i < 2*aWords-1; i++ {
			maxj := min(aWords-1, i)
			maxj = min(maxj, (i-1)>>1)
			minj := max(0, i-aWords+1)
			for j := minj; j <= maxj; j++ {
				mpyAccumDbl(&cumCarry, &uAccum, a.data[i-j], a.data[j])
			}
			if i&1 == 0 {
				mpyAccum(&cumCarry, &uAccum, a.data[i/2], a.data[i/2])
			}
			w[i] = int64(uAccum & 0xffffffff)
			uAccum = (uAccum >> 32) + uint64(cumCarry)<<32
			cumCarry = 0
		}
	}

	// Propagate the residual accumulator into the upper words.
	for ; i < 2*bigLen-1; i++ {
		w[i] = int64(uAccum & 0xffffffff)
		uAccum >>= 32
	}
	// The top word keeps all 64 bits; it goes negative below when the
	// product is negative, and the reduction depends on that.
	w[i] = int64(uAccum)

	// The loop above did an unsigned multiply.  Correct for negative
	// operands: signedval(a) = unsignedval(a) - 2^(32*bigLen)*isneg(a).
	if a.isNegative() {
		for j := 0; j < bigLen; j++ {
			w[j+bigLen] -= int64(b.data[j])
		}
	}
	if b.isNegative() {
		for j := 0; j < bigLen; j++ {
			w[j+bigLen] -= int64(a.data[j])
		}
		if a.isNegative() {
			w[2*bigLen-1] += 1 << 32
		}
	}

	if mod == modModulus {
		// Approximate reduction, exploiting the sparse modulus.
		for i = 2*bigLen - 1; i >= msw; i-- {
			v := w[i]
			if v != 0 {
				w[i] = 0
				w[i-1] += v
				w[i-2] -= v
				w[i-5] -= v
				w[i-8] += v
			}
		}
	} else {
		// Reduction mod the order; not performance critical.  First
		// collapse the lanes to 32-bit values (except the top word),
		// then eliminate high words most-to-least significant.
		var carry int64
		for i = 0; i < 2*bigLen-1; i++ {
			w[i] += carry
			carry = w[i] >> 32
			w[i] -= carry << 32
		}
		w[i] += carry

		for i = 2*bigLen - 1; i >= msw; i-- {
			for k := 0; w[i] != 0 && k < 3; k++ {
				v := w[i]
				carry = 0
				for j := i - msw; j < 2*bigLen; j++ {
					tmp := w[j] + carry
					if j <= i {
						tmp -= v * orderDBL[j-i+msw]
					}
					if j < 2*bigLen-1 {
						carry = tmp >> 32
						tmp -= carry << 32
					} else {
						carry = 0
					}
					w[j] = tmp
				}
			}
		}
	}

	// Propagate carries and copy out in 32-bit chunks.  The accumulator
	// is signed so the sign bit propagates across words.
	var sAccum int64
	for j := 0; j < bigLen; j++ {
		sAccum += w[j]
		r.data[j] = uint32(sAccum)
		sAccum >>= 32
	}

	// One final approximate reduction pass.
	if mod == modModulus {
		r.approxReduceP(r)
	} else if r.data[msw] != 0 {
		var tmp bigVal
		tmp.mul1Word(&orderP, int32(r.data[msw]))
		r.sub(r, &tmp)
	}
}

// sqrP squares a, always mod the field modulus.
func (r *bigVal) sqrP(a *bigVal) {
	r.mulP(a, a, modModulus)
}

// adjustP adds k * p to a.  |k| may be as large as 2^62.  The loop adds
// the sparse signed-word form of p (-1, 0, 0, 1, 0, 0, 1, -1, 1) scaled
// by k, with the running lane shifted arithmetically between words.
func (r *bigVal) adjustP(a *bigVal, k int64) {
	if k == 0 {
		if r != a {
			*r = *a
		}
		return
	}
	adj := [bigLen]int64{-k, 0, 0, k, 0, 0, k, -k, k}
	var w int64
	for i := 0; i < bigLen; i++ {
		w += int64(a.data[i])
		w += adj[i]
		r.data[i] = uint32(w)
		w >>= 32
	}
}

// approxReduceP subtracts (most significant word) * p from a, leaving
// the result within one multiple of p of canonical range.  The double
// cast gets the sign extension of the top word right.
func (r *bigVal) approxReduceP(a *bigVal) {
	r.adjustP(a, -int64(int32(a.data[msw])))
}

// mul1Word computes r = k * a.  The product must be representable in a
// bigVal; callers bound k so that this holds.
func (r *bigVal) mul1Word(a *bigVal, k int32) {
	var w int64
	for j := 0; j <= msw; j++ {
		w += int64(k) * int64(a.data[j])
		r.data[j] = uint32(w)
		w -= int64(r.data[j])
		w >>= 32
	}
}

// add computes r = a + b as two's complement values.  Fine for modular
// values as long as the sum cannot overflow the word budget.
func (r *bigVal) add(a, b *bigVal) {
	var v uint64
	for i := 0; i < bigLen; i++ {
		v += uint64(a.data[i]) + uint64(b.data[i])
		r.data[i] = uint32(v)
		v >>= 32
	}
}

// sub computes r = a - b: one's complement of b plus an injected
// increment.
func (r *bigVal) sub(a, b *bigVal) {
	v := uint64(1)
	for i := 0; i < bigLen; i++ {
		v += uint64(a.data[i]) + uint64(^b.data[i])
		r.data[i] = uint32(v)
		v >>= 32
	}
}

// addP is modular addition with one approximate reduction pass.
func (r *bigVal) addP(a, b *bigVal) {
	r.add(a, b)
	r.approxReduceP(r)
}

// subP is modular subtraction with one approximate reduction pass.
func (r *bigVal) subP(a, b *bigVal) {
	r.sub(a, b)
	r.approxReduceP(r)
}

// triple computes r = 3 * a.  The accumulator never goes negative while
// the low words are processed, and whatever is left after the top word
// is discarded, so unsigned accumulation suffices.
func (r *bigVal) triple(a *bigVal) {
	var accum uint64
	for i := 0; i < bigLen; i++ {
		accum += uint64(a.data[i]) * 3
		r.data[i] = uint32(accum)
		accum >>= 32
	}
}

// cmp returns 1 if a > b, -1 if a < b, 0 if equal, treating both as
// two's complement.  When comparing modular values the caller must
// precisely reduce both first; that obligation is not checked here.
func (a *bigVal) cmp(b *bigVal) int {
	if int32(a.data[msw]) > int32(b.data[msw]) {
		return 1
	}
	if int32(a.data[msw]) < int32(b.data[msw]) {
		return -1
	}
	for i := msw - 1; i >= 0; i-- {
		if a.data[i] > b.data[i] {
			return 1
		}
		if a.data[i] < b.data[i] {
			return -1
		}
	}
	return 0
}

// preciseReduce computes r = a mod modulus in canonical [0, modulus)
// range.  Works for moduli slightly under 2^(32*(bigLen-1)); both the
// field modulus and the order qualify.
//
// While the top word is positive, a smaller non-zero multiple of the
// modulus is subtracted; while the value is negative, the modulus is
// added.  Both loops strictly shrink the remaining slack, so
// termination is guaranteed.
func (r *bigVal) preciseReduce(a, modulus *bigVal) {
	// src tracks whichever of a/r holds the current value, avoiding a
	// copy when no adjustment is needed.
	src := a
	for int32(src.data[msw]) != 0 {
		if modulus == &modulusP {
			// The sparse form makes this cheaper than the general path.
			r.adjustP(src, -int64(int32(src.data[msw])))
		} else {
			var tmp bigVal
			tmp.mul1Word(modulus, int32(src.data[msw]))
			r.sub(src, &tmp)
		}
		src = r
	}
	for src.cmp(modulus) >= 0 {
		r.sub(src, modulus)
		src = r
	}
	for int32(src.data[msw]) < 0 {
		r.add(src, modulus)
		src = r
	}
	if src != r {
		*r = *src
	}
}

// halve computes floor(a / 2), two's complement: an arithmetic shift of
// the top word and a logical shift with borrowed bits below it.
func (r *bigVal) halve(a *bigVal) {
	shift := a.data[msw] & 1
	r.data[msw] = uint32(int32(a.data[msw]) >> 1)
	for i := msw - 1; i >= 0; i-- {
		newShift := a.data[i] & 1
		r.data[i] = a.data[i]>>1 | shift<<31
		shift = newShift
	}
}

// halveP computes r such that 2*r == a (mod p).  An odd value first has
// p added to restore evenness; this is only meaningful when the caller
// intends a as a residue mod p, which is a caller obligation.
func (r *bigVal) halveP(a *bigVal) {
	if a.data[0]&1 != 0 {
		r.adjustP(a, 1)
		r.halve(r)
	} else {
		r.halve(a)
	}
}

// divide computes r = num / den mod modulus using the extended binary
// GCD: the even one of two working values is halved repeatedly, with
// the matching cofactor kept congruent by adding the modulus before an
// odd halving, until one working value reaches 1.
//
// The modulus must be odd and den must be non-zero; a zero denominator
// loops forever.  Both preconditions hold at every call site in this
// package (field and order moduli are odd, denominators are checked or
// structurally non-zero).
func (r *bigVal) divide(num, den, modulus *bigVal) {
	u := *den
	v := *modulus
	x1 := *num
	x2 := bigVal{}

	for !u.isOne() && !v.isOne() {
		for !u.isOdd() {
			u.halve(&u)
			if x1.isOdd() {
				x1.add(&x1, modulus)
			}
			x1.halve(&x1)
		}
		for !v.isOdd() {
			v.halve(&v)
			if x2.isOdd() {
				x2.add(&x2, modulus)
			}
			x2.halve(&x2)
		}
		if u.cmp(&v) >= 0 {
			u.sub(&u, &v)
			x1.sub(&x1, &x2)
		} else {
			v.sub(&v, &u)
			x2.sub(&x2, &x1)
		}
	}

	if u.isOne() {
		r.preciseReduce(&x1, modulus)
	} else {
		r.preciseReduce(&x2, modulus)
	}

	u = bigVal{}
	v = bigVal{}
	x1 = bigVal{}
	x2 = bigVal{}
}
