package ecc

import (
	"io"

	"github.com/pkg/errors"
)

// randomScalar rejection-samples a uniform scalar in [1, n-1] from
// rand.  The 256-bit sample space is under twice the order, so the
// expected retry count is below one.
func randomScalar(rand io.Reader) (bigVal, error) {
	var buf [CoordinateSize]byte
	defer wipeBytes(buf[:])

	for {
		if _, err := io.ReadFull(rand, buf[:]); err != nil {
			return bigVal{}, errors.Wrap(ErrRandomness, err.Error())
		}
		var k bigVal
		k.setBytes(buf[:])
		if !k.isZero() && k.cmp(&orderP) < 0 {
			return k, nil
		}
		k.wipe()
	}
}

// GenerateKeyPair creates an ECDH key pair: a private scalar k drawn
// uniformly from [1, n-1] and the public point k*G.  rand must be a
// cryptographically secure source (crypto/rand.Reader in production);
// an entropy failure is reported as ErrRandomness.
func GenerateKeyPair(rand io.Reader) (*PublicKey, *PrivateKey, error) {
	k, err := randomScalar(rand)
	if err != nil {
		return nil, nil, err
	}
	defer k.wipe()

	var pub affinePoint
	pub.pointMul(&k, &generator)

	public := &PublicKey{}
	public.setPoint(&pub)
	private := &PrivateKey{}
	private.setScalar(&k)
	return public, private, nil
}

// GenerateSharedSecret computes the ECDH agreed point
// private * peerPublic.  The peer key is validated before use:
// off-curve points, non-canonical coordinates and the identity are all
// rejected with ErrInvalidPeerKey, as is an agreement that lands on the
// identity (a degenerate secret that must never be accepted).
func GenerateSharedSecret(peerPublic *PublicKey, private *PrivateKey) (*Secret, error) {
	if peerPublic == nil || private == nil {
		return nil, errors.Wrap(ErrInvalidInput, "nil key")
	}

	peer := peerPublic.point()
	if !peer.onCurve() {
		return nil, errors.Wrap(ErrInvalidPeerKey, "point validation")
	}

	k := private.scalar()
	defer k.wipe()

	var shared affinePoint
	shared.pointMul(&k, &peer)
	defer shared.wipe()

	if shared.infinity {
		return nil, errors.Wrap(ErrInvalidPeerKey, "degenerate shared secret")
	}

	secret := &Secret{}
	shared.x.bytes(secret.x[:])
	shared.y.bytes(secret.y[:])
	return secret, nil
}
