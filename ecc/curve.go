package ecc

// NIST P-256 curve constants in the 9-word bigVal representation.
//
// The field modulus p = 2^256 - 2^224 + 2^192 + 2^96 - 1 has the sparse
// word-level structure the fast reduction in bigval.go relies on.  The
// curve order lacks that structure and gets the slower signed-digit
// reduction path instead.
var (
	bigZero = bigVal{}
	bigOne  = bigVal{data: [bigLen]uint32{1}}

	// modulusP is the P-256 field modulus.
	modulusP = bigVal{data: [bigLen]uint32{
		0xffffffff, 0xffffffff, 0xffffffff, 0x00000000,
		0x00000000, 0x00000000, 0x00000001, 0xffffffff,
		0x00000000,
	}}

	// orderP is the order of the P-256 base point.
	orderP = bigVal{data: [bigLen]uint32{
		0xfc632551, 0xf3b9cac2, 0xa7179e84, 0xbce6faad,
		0xffffffff, 0xffffffff, 0x00000000, 0xffffffff,
		0x00000000,
	}}

	// curveB is the b coefficient of the curve equation
	// y^2 = x^3 - 3x + b.
	curveB = bigVal{data: [bigLen]uint32{
		0x27d2604b, 0x3bce3c3e, 0xcc53b0f6, 0x651d06b0,
		0x769886bc, 0xb3ebbd55, 0xaa3a93e7, 0x5ac635d8,
		0x00000000,
	}}
)

// orderDBL is the curve order in a signed-digit form.  Each entry is the
// corresponding 32-bit word of the order with borrows pre-propagated so
// the word fits a signed 64-bit lane during the paper-and-pencil
// reduction in mulP.
var orderDBL = [bigLen]int64{
	0xfc632551 - 0x100000000,
	0xf3b9cac2 - 0x100000000 + 1,
	0xa7179e84 - 0x100000000 + 1,
	0xbce6faad - 0x100000000 + 1,
	0xffffffff - 0x100000000 + 1,
	0xffffffff - 0x100000000 + 1,
	0x00000000 + 1,
	0xffffffff - 0x100000000,
	0x00000000 + 1,
}

// generator is the P-256 base point G.
var generator = affinePoint{
	x: bigVal{data: [bigLen]uint32{
		0xd898c296, 0xf4a13945, 0x2deb33a0, 0x77037d81,
		0x63a440f2, 0xf8bce6e5, 0xe12c4247, 0x6b17d1f2,
		0x00000000,
	}},
	y: bigVal{data: [bigLen]uint32{
		0x37bf51f5, 0xcbb64068, 0x6b315ece, 0x2bce3357,
		0x7c0f9e16, 0x8ee7eb4a, 0xfe1a7f9b, 0x4fe342e2,
		0x00000000,
	}},
}

// redpQ1 and redpQ2 are the two fixed SPEKE basepoints,
// Q1 = REDP-1("ALLJOYN-ECSPEKE-1") and Q2 = REDP-1("ALLJOYN-ECSPEKE-2")
// where each label is hashed including its trailing NUL.  They are
// precomputed here; deriveBasePoint reproduces them (see redp_test.go).
var redpQ1 = affinePoint{
	x: bigVal{data: [bigLen]uint32{
		0xe927bbb7, 0x9f011eb0, 0x7a6c1035, 0xdcd48533,
		0x5aa734c0, 0x0af63011, 0xc27d2ba1, 0xe7f425d4,
		0x00000000,
	}},
	y: bigVal{data: [bigLen]uint32{
		0xf0702b55, 0xdd836a9d, 0xf7c50d50, 0x8a4ae230,
		0xd35208f6, 0x4115db75, 0xbd690598, 0x8b4adf4e,
		0x00000000,
	}},
}

var redpQ2 = affinePoint{
	x: bigVal{data: [bigLen]uint32{
		0x497217aa, 0x4cec1d03, 0xd3634462, 0x966c293c,
		0x81cd843d, 0xe4e36bbb, 0x4fcb375e, 0xf9f2ef39,
		0x00000000,
	}},
	y: bigVal{data: [bigLen]uint32{
		0x274ccfc2, 0x40d6acb2, 0x32b58cfa, 0x5eaaf49a,
		0xd8ddab41, 0x77999c42, 0x3ff34102, 0xf5efe6b5,
		0x00000000,
	}},
}

// Exponents used by the field helpers in fp.go.  p = 3 (mod 4), so a
// square root of a quadratic residue is alpha^((p+1)/4) and the Euler
// criterion exponent is (p-1)/2.  Both are derived from modulusP at
// startup rather than kept as a second set of hand-typed constants.
var (
	sqrtExp bigVal // (p+1)/4
	eulExp  bigVal // (p-1)/2
)

func init() {
	sqrtExp.add(&modulusP, &bigOne)
	sqrtExp.halve(&sqrtExp)
	sqrtExp.halve(&sqrtExp)

	eulExp.sub(&modulusP, &bigOne)
	eulExp.halve(&eulExp)
}
