package ecc

// Point arithmetic uses mixed Jacobian and affine coordinates.  The
// affine point (x, y) corresponds to the Jacobian point (X, Y, Z) with
// X = Z^2 * x and Y = Z^3 * y for any non-zero Z; the identity is any
// point with Z = 0, canonically (1, 1, 0).
//
// Doubling and addition assume the Z of their Jacobian inputs is
// precisely reduced and guarantee the same for their outputs, so chains
// of group operations stay well-formed without the callers thinking
// about reduction state.

// affinePoint is a curve point in affine coordinates, with an explicit
// flag for the group identity.
type affinePoint struct {
	x, y     bigVal
	infinity bool
}

// jacobianPoint is a curve point in Jacobian projective coordinates.
type jacobianPoint struct {
	X, Y, Z bigVal
}

var affineInfinity = affinePoint{infinity: true}

var jacobianInfinity = jacobianPoint{
	X: bigVal{data: [bigLen]uint32{1}},
	Y: bigVal{data: [bigLen]uint32{1}},
}

func (p *jacobianPoint) isInfinity() bool {
	// Requires p.Z precisely reduced, which the group operations
	// maintain.
	return p.Z.isZero()
}

// fromAffine lifts an affine point to Jacobian coordinates with Z = 1.
func (r *jacobianPoint) fromAffine(a *affinePoint) {
	r.X = a.x
	r.Y = a.y
	r.Z = bigOne
}

// fromJacobian projects back to affine coordinates.  a.Z must be
// precisely reduced.  Both output coordinates are precisely reduced.
func (r *affinePoint) fromJacobian(a *jacobianPoint) {
	if a.Z.isZero() {
		*r = affineInfinity
		return
	}
	var zinv, zinvPwr bigVal
	zinv.divide(&bigOne, &a.Z, &modulusP)
	zinvPwr.sqrP(&zinv)
	r.x.mulP(&a.X, &zinvPwr, modModulus)
	zinvPwr.mulP(&zinvPwr, &zinv, modModulus)
	r.y.mulP(&a.Y, &zinvPwr, modModulus)
	r.x.preciseReduce(&r.x, &modulusP)
	r.y.preciseReduce(&r.y, &modulusP)
	r.infinity = false
}

// pointDouble computes r = 2P, from [HMV] Algorithm 3.21.  P.Z must be
// precisely reduced; r.Z comes out precisely reduced.  r and P may
// alias.
func (r *jacobianPoint) pointDouble(P *jacobianPoint) {
	if P.isInfinity() {
		*r = jacobianInfinity
		return
	}

	var t1, t2, t3, x3, y3, z3, yOut bigVal

	t1.sqrP(&P.Z)
	t2.subP(&P.X, &t1)
	t1.addP(&P.X, &t1)
	t2.mulP(&t2, &t1, modModulus)
	t2.triple(&t2)
	y3.addP(&P.Y, &P.Y)
	z3.mulP(&y3, &P.Z, modModulus)
	y3.sqrP(&y3)
	t3.mulP(&y3, &P.X, modModulus)
	y3.sqrP(&y3)
	y3.halveP(&y3)
	x3.sqrP(&t2)
	t1.addP(&t3, &t3)
	x3.subP(&x3, &t1)
	t1.subP(&t3, &x3)
	t1.mulP(&t1, &t2, modModulus)
	yOut.subP(&t1, &y3)

	r.X = x3
	r.Y = yOut
	r.Z.preciseReduce(&z3, &modulusP)
}

// pointAdd computes r = P + Q in mixed coordinates, from [HMV]
// Algorithm 3.22.  P.Z must be precisely reduced; r.Z comes out
// precisely reduced.  r and P may alias.
func (r *jacobianPoint) pointAdd(P *jacobianPoint, Q *affinePoint) {
	if Q.infinity {
		if r != P {
			*r = *P
		}
		return
	}
	if P.isInfinity() {
		r.fromAffine(Q)
		return
	}

	var t1, t2, t3, t4, x3, y3, z3 bigVal

	t1.sqrP(&P.Z)
	t2.mulP(&t1, &P.Z, modModulus)
	t1.mulP(&t1, &Q.x, modModulus)
	t2.mulP(&t2, &Q.y, modModulus)
	t1.subP(&t1, &P.X)
	t2.subP(&t2, &P.Y)

	// The zero test below needs a canonical representative; a value
	// equal to a multiple of p must not be mistaken for non-zero.
	t1.preciseReduce(&t1, &modulusP)
	if t1.isZero() {
		t2.preciseReduce(&t2, &modulusP)
		if t2.isZero() {
			// P == Q: delegate to doubling.
			r.fromAffine(Q)
			r.pointDouble(r)
		} else {
			// P == -Q.
			*r = jacobianInfinity
		}
		return
	}

	z3.mulP(&P.Z, &t1, modModulus)
	t3.sqrP(&t1)
	t4.mulP(&t3, &t1, modModulus)
	t3.mulP(&t3, &P.X, modModulus)
	t1.addP(&t3, &t3)
	x3.sqrP(&t2)
	x3.subP(&x3, &t1)
	x3.subP(&x3, &t4)
	t3.subP(&t3, &x3)
	t3.mulP(&t3, &t2, modModulus)
	t4.mulP(&t4, &P.Y, modModulus)
	y3.subP(&t3, &t4)

	r.X = x3
	r.Y = y3
	r.Z.preciseReduce(&z3, &modulusP)
}

// pointMul computes r = k * P by a left-to-right double-and-add
// consuming two scalar bits per iteration against the precomputed
// table {O, P, 2P, 3P}.  A zero or negative k returns the identity.
//
// The iteration always starts at the fixed top bit pair instead of
// skipping leading zeros, so the running time does not depend on the
// scalar's bit length.  Table-entry selection remains data-dependent.
func (r *affinePoint) pointMul(k *bigVal, P *affinePoint) {
	if k.isNegative() || k.isZero() {
		*r = affineInfinity
		return
	}

	var q jacobianPoint
	var twoP, threeP affinePoint

	q.fromAffine(P)
	q.pointDouble(&q)
	twoP.fromJacobian(&q)
	q.pointAdd(&q, P)
	threeP.fromJacobian(&q)
	table := [4]*affinePoint{nil, P, &twoP, &threeP}

	q = jacobianInfinity
	for i := bigLen*32 - 2; i >= 0; i -= 2 {
		q.pointDouble(&q)
		q.pointDouble(&q)
		if m := k.get2Bits(i); table[m] != nil {
			q.pointAdd(&q, table[m])
		}
	}

	r.fromJacobian(&q)
}

// onCurve reports whether a non-infinity point has canonical
// coordinates and satisfies y^2 = x^3 - 3x + b.
func (p *affinePoint) onCurve() bool {
	if p.infinity {
		return false
	}
	if p.x.isNegative() || p.x.cmp(&modulusP) >= 0 {
		return false
	}
	if p.y.isNegative() || p.y.cmp(&modulusP) >= 0 {
		return false
	}

	var lhs, rhs, t bigVal
	lhs.sqrP(&p.y)
	lhs.preciseReduce(&lhs, &modulusP)

	rhs.sqrP(&p.x)
	rhs.mulP(&rhs, &p.x, modModulus)
	t.triple(&p.x)
	rhs.subP(&rhs, &t)
	rhs.addP(&rhs, &curveB)
	rhs.preciseReduce(&rhs, &modulusP)

	return lhs.cmp(&rhs) == 0
}

// isValid reports whether p is a usable group element: the identity or
// a point on the curve.  P-256 has cofactor 1, so membership in the
// prime-order subgroup follows from the curve equation.
func (p *affinePoint) isValid() bool {
	return p.infinity || p.onCurve()
}

func (p *affinePoint) wipe() {
	p.x.wipe()
	p.y.wipe()
	p.infinity = false
}
