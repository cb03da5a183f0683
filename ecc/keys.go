package ecc

import "github.com/pkg/errors"

// CoordinateSize is the byte length of one P-256 coordinate and of a
// private scalar.
const CoordinateSize = 32

// GUIDSize is the byte length of a bus application GUID, as consumed
// by SPEKE key derivation.
const GUIDSize = 16

// GUID identifies one party of a password-authenticated exchange.
type GUID [GUIDSize]byte

// PublicKey holds an exported public point as fixed-size big-endian
// coordinates.
type PublicKey struct {
	x [CoordinateSize]byte
	y [CoordinateSize]byte
}

// X returns the big-endian X coordinate.
func (k *PublicKey) X() []byte { return k.x[:] }

// Y returns the big-endian Y coordinate.
func (k *PublicKey) Y() []byte { return k.y[:] }

// Import loads big-endian coordinates.  Both must be exactly
// CoordinateSize bytes.
func (k *PublicKey) Import(x, y []byte) error {
	if len(x) != CoordinateSize || len(y) != CoordinateSize {
		return errors.Wrap(ErrInvalidInput, "public key coordinate size")
	}
	copy(k.x[:], x)
	copy(k.y[:], y)
	return nil
}

// Zeroize clears the key material.
func (k *PublicKey) Zeroize() {
	wipeBytes(k.x[:])
	wipeBytes(k.y[:])
}

// point converts the stored coordinates to an affine point.  No
// validation happens here; callers validate where it matters.
func (k *PublicKey) point() affinePoint {
	var p affinePoint
	p.x.setBytes(k.x[:])
	p.y.setBytes(k.y[:])
	return p
}

// setPoint stores an affine point, which must not be the identity.
func (k *PublicKey) setPoint(p *affinePoint) {
	p.x.bytes(k.x[:])
	p.y.bytes(k.y[:])
}

// PrivateKey holds a private scalar as a fixed-size big-endian byte
// array.
type PrivateKey struct {
	d [CoordinateSize]byte
}

// D returns the big-endian private scalar.
func (k *PrivateKey) D() []byte { return k.d[:] }

// Import loads a big-endian scalar of exactly CoordinateSize bytes.
func (k *PrivateKey) Import(d []byte) error {
	if len(d) != CoordinateSize {
		return errors.Wrap(ErrInvalidInput, "private key size")
	}
	copy(k.d[:], d)
	return nil
}

// Zeroize clears the key material.
func (k *PrivateKey) Zeroize() {
	wipeBytes(k.d[:])
}

func (k *PrivateKey) scalar() bigVal {
	var s bigVal
	s.setBytes(k.d[:])
	return s
}

func (k *PrivateKey) setScalar(s *bigVal) {
	s.bytes(k.d[:])
}

// Secret is the agreed point of a key agreement, exported whole (both
// coordinates, big-endian) for the legacy derivation the bus runtime
// feeds into its KDF.
type Secret struct {
	x [CoordinateSize]byte
	y [CoordinateSize]byte
}

// X returns the big-endian X coordinate of the agreed point.
func (s *Secret) X() []byte { return s.x[:] }

// Y returns the big-endian Y coordinate of the agreed point.
func (s *Secret) Y() []byte { return s.y[:] }

// Bytes returns the whole-point encoding X || Y.
func (s *Secret) Bytes() []byte {
	out := make([]byte, 0, 2*CoordinateSize)
	out = append(out, s.x[:]...)
	out = append(out, s.y[:]...)
	return out
}

// Zeroize clears the secret material.
func (s *Secret) Zeroize() {
	wipeBytes(s.x[:])
	wipeBytes(s.y[:])
}
