package ecc

// Field helpers for the hash-to-curve path.  None of these are
// constant-time; every input they see is public (REDP labels and the
// candidate coordinates derived from them).

// expModP computes r = base^exp mod p by square-and-multiply over the
// full fixed width of the exponent, precisely reduced.
func (r *bigVal) expModP(base, exp *bigVal) {
	result := bigOne
	var b bigVal
	b.preciseReduce(base, &modulusP)

	for i := bigLen*32 - 1; i >= 0; i-- {
		result.sqrP(&result)
		if exp.getBit(i) != 0 {
			result.mulP(&result, &b, modModulus)
		}
	}
	r.preciseReduce(&result, &modulusP)
}

// isQuadResidue applies the Euler criterion: a is a non-zero square
// mod p exactly when a^((p-1)/2) == 1.  Zero reports false; the REDP
// loop treats it as a retry.
func isQuadResidue(a *bigVal) bool {
	var t bigVal
	t.expModP(a, &eulExp)
	return t.isOne()
}

// sqrtModP computes a square root of a quadratic residue a as
// a^((p+1)/4); valid because p == 3 (mod 4).  The caller picks which
// of the two roots it wants via negModP.
func (r *bigVal) sqrtModP(a *bigVal) {
	r.expModP(a, &sqrtExp)
}

// negModP computes r = -a mod p, canonically reduced.
func (r *bigVal) negModP(a *bigVal) {
	var t bigVal
	t.preciseReduce(a, &modulusP)
	if t.isZero() {
		*r = bigVal{}
		return
	}
	r.sub(&modulusP, &t)
}
