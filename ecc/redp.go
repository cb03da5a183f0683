package ecc

import (
	"io"

	"github.com/pkg/errors"
)

// redpMaxTries bounds the hash-then-test loop in deriveBasePoint.
// Roughly half of all candidates are residues, so even a handful of
// iterations is already vanishingly unlikely; the bound exists so the
// loop provably terminates.
const redpMaxTries = 4096

// speke1Label and speke2Label derive the two fixed basepoints redpQ1
// and redpQ2.  The trailing NUL is part of the hashed input; it has
// been since the constants were first generated, so it is part of the
// format now.
var (
	speke1Label = []byte("ALLJOYN-ECSPEKE-1\x00")
	speke2Label = []byte("ALLJOYN-ECSPEKE-2\x00")
)

// deriveBasePoint maps an arbitrary octet string to a curve point,
// following IEEE 1363.2 8.2.17 "[EC]REDP-1": hash pi to a running
// digest, hash that digest again to get a candidate x, and accept the
// first x for which x^3 - 3x + b is a quadratic residue, taking the
// square root whose sign the low bit of the running digest selects.
// On a non-residue the running digest is incremented as a big-endian
// counter and the loop retries.
//
// Not general-purpose and not constant-time: pi is never secret here.
func deriveBasePoint(pi []byte) (affinePoint, error) {
	digest := sumDigest(pi)

	for tries := 0; tries < redpMaxTries; tries++ {
		// mu is the rightmost bit of the running digest.
		mu := digest[DigestSize-1] & 1

		o3 := sumDigest(digest[:])

		var x bigVal
		x.setBytes(o3[:])
		x.preciseReduce(&x, &modulusP)

		// alpha = x^3 - 3x + b
		var alpha, t bigVal
		alpha.sqrP(&x)
		alpha.mulP(&alpha, &x, modModulus)
		t.triple(&x)
		alpha.subP(&alpha, &t)
		alpha.addP(&alpha, &curveB)
		alpha.preciseReduce(&alpha, &modulusP)

		if !isQuadResidue(&alpha) {
			// Increment the digest as a big-endian counter.
			carry := 1
			for i := DigestSize - 1; i >= 0; i-- {
				digest[i] += byte(carry)
				if digest[i] != 0 {
					carry = 0
					break
				}
			}
			if carry != 0 {
				return affinePoint{}, errors.Wrap(ErrDerivation, "counter overflow")
			}
			continue
		}

		var beta bigVal
		beta.sqrtModP(&alpha)
		if mu != 0 {
			beta.negModP(&beta)
		}

		pt := affinePoint{x: x, y: beta}
		if !pt.onCurve() {
			return affinePoint{}, errors.Wrap(ErrDerivation, "derived point invalid")
		}
		return pt, nil
	}
	return affinePoint{}, errors.Wrap(ErrDerivation, "retry bound exceeded")
}

// DeriveBasePoint runs the REDP-1 hash-to-curve on pi and returns the
// resulting point as an exported public key.
func DeriveBasePoint(pi []byte) (*PublicKey, error) {
	pt, err := deriveBasePoint(pi)
	if err != nil {
		return nil, err
	}
	pub := &PublicKey{}
	pub.setPoint(&pt)
	return pub, nil
}

// redp2 computes R = Q1 + pi*Q2 for a digest-sized pi, the REDP-2
// combination step of password-to-basepoint derivation.  pi is
// imported big-endian and reduced mod p, matching the original
// basepoint generation.
func redp2(pi []byte, q1, q2 *affinePoint) affinePoint {
	var t bigVal
	t.setBytes(pi)
	t.preciseReduce(&t, &modulusP)
	defer t.wipe()

	var r affinePoint
	r.pointMul(&t, q2)

	var j jacobianPoint
	if r.infinity {
		j = jacobianInfinity
	} else {
		j.fromAffine(&r)
	}
	j.pointAdd(&j, q1)

	var out affinePoint
	out.fromJacobian(&j)
	return out
}

// GenerateSPEKEKeyPair creates a password-authenticated key pair.  The
// base point is Q1 + H(pw || clientGUID || serviceGUID)*Q2, derived
// from the two fixed REDP-1 basepoints, and an ordinary key pair is
// generated against it: both parties of an exchange that share pw and
// the GUID pair end up on the same base point, so their ECDH completes;
// anyone else lands elsewhere and learns nothing.
//
// An empty password is rejected with ErrInvalidInput.
func GenerateSPEKEKeyPair(rand io.Reader, pw []byte, clientGUID, serviceGUID GUID) (*PublicKey, *PrivateKey, error) {
	if len(pw) == 0 {
		return nil, nil, errors.Wrap(ErrInvalidInput, "empty password")
	}

	digest := sumDigest(pw, clientGUID[:], serviceGUID[:])
	defer wipeBytes(digest[:])

	base := redp2(digest[:], &redpQ1, &redpQ2)
	defer base.wipe()

	k, err := randomScalar(rand)
	if err != nil {
		return nil, nil, err
	}
	defer k.wipe()

	var pub affinePoint
	pub.pointMul(&k, &base)

	public := &PublicKey{}
	public.setPoint(&pub)
	private := &PrivateKey{}
	private.setScalar(&k)
	return public, private, nil
}
