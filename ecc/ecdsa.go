package ecc

import (
	"io"

	"github.com/pkg/errors"
)

// ECDSA over the same engines.  The order-modulus reduction path in
// mulP and the binary-GCD divide exist for these two functions.

// Signature is an ECDSA signature with both halves in fixed-size
// big-endian form.
type Signature struct {
	r [CoordinateSize]byte
	s [CoordinateSize]byte
}

// R returns the big-endian r half.
func (sig *Signature) R() []byte { return sig.r[:] }

// S returns the big-endian s half.
func (sig *Signature) S() []byte { return sig.s[:] }

// Import loads big-endian signature halves of exactly CoordinateSize
// bytes each.
func (sig *Signature) Import(r, s []byte) error {
	if len(r) != CoordinateSize || len(s) != CoordinateSize {
		return errors.Wrap(ErrInvalidInput, "signature half size")
	}
	copy(sig.r[:], r)
	copy(sig.s[:], s)
	return nil
}

// digestToScalar converts a message digest to a scalar.  Digests wider
// than a bigVal lose their high-order bytes, per the binary import
// contract; a 32-byte digest is used as-is.
func digestToScalar(digest []byte) bigVal {
	var e bigVal
	e.setBytes(digest)
	e.preciseReduce(&e, &orderP)
	return e
}

// SignDigest produces an ECDSA signature over digest: r = (k*G).x mod n
// for a fresh per-signature k, s = (e + r*d)/k mod n.  Zero r or s
// restarts with a new k; an entropy failure is ErrRandomness.
func SignDigest(rand io.Reader, digest []byte, private *PrivateKey) (*Signature, error) {
	if private == nil || len(digest) == 0 {
		return nil, errors.Wrap(ErrInvalidInput, "nil key or empty digest")
	}

	e := digestToScalar(digest)
	d := private.scalar()
	defer d.wipe()

	for {
		k, err := randomScalar(rand)
		if err != nil {
			return nil, err
		}

		var kg affinePoint
		kg.pointMul(&k, &generator)

		var r bigVal
		r.preciseReduce(&kg.x, &orderP)
		if r.isZero() {
			k.wipe()
			continue
		}

		// s = (e + r*d) / k mod n
		var s bigVal
		s.mulP(&r, &d, modOrder)
		s.add(&s, &e)
		s.preciseReduce(&s, &orderP)
		s.divide(&s, &k, &orderP)
		k.wipe()
		if s.isZero() {
			continue
		}

		sig := &Signature{}
		r.bytes(sig.r[:])
		s.bytes(sig.s[:])
		s.wipe()
		return sig, nil
	}
}

// VerifyDigest checks an ECDSA signature against a public key.  It
// returns nil for a valid signature; an off-curve or identity public
// key is ErrInvalidPeerKey, anything else that fails to verify is a
// plain verification error.
func VerifyDigest(digest []byte, sig *Signature, public *PublicKey) error {
	if sig == nil || public == nil || len(digest) == 0 {
		return errors.Wrap(ErrInvalidInput, "nil argument or empty digest")
	}

	q := public.point()
	if !q.onCurve() {
		return errors.Wrap(ErrInvalidPeerKey, "point validation")
	}

	var r, s bigVal
	r.setBytes(sig.r[:])
	s.setBytes(sig.s[:])
	if r.isZero() || r.cmp(&orderP) >= 0 || s.isZero() || s.cmp(&orderP) >= 0 {
		return errors.New("signature half out of range")
	}

	e := digestToScalar(digest)

	// u1 = e/s, u2 = r/s mod n.
	var u1, u2 bigVal
	u1.divide(&e, &s, &orderP)
	u2.divide(&r, &s, &orderP)

	// X = u1*G + u2*Q.
	var p1, p2 affinePoint
	p1.pointMul(&u1, &generator)
	p2.pointMul(&u2, &q)

	var j jacobianPoint
	if p1.infinity {
		j = jacobianInfinity
	} else {
		j.fromAffine(&p1)
	}
	j.pointAdd(&j, &p2)

	var x affinePoint
	x.fromJacobian(&j)
	if x.infinity {
		return errors.New("signature verification failed")
	}

	var v bigVal
	v.preciseReduce(&x.x, &orderP)
	if v.cmp(&r) != 0 {
		return errors.New("signature verification failed")
	}
	return nil
}
