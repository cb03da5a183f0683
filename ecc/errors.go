package ecc

import "github.com/pkg/errors"

// Cryptographic failures are always reported to the immediate caller;
// nothing in this package degrades silently to a weaker state.
var (
	// ErrRandomness reports a failure of the entropy source.
	ErrRandomness = errors.New("entropy source failure")

	// ErrInvalidPeerKey reports a peer public key that is off-curve,
	// the identity, or otherwise malformed, or a key agreement that
	// produced a degenerate (identity) shared secret.
	ErrInvalidPeerKey = errors.New("invalid peer public key")

	// ErrDerivation reports that the hash-to-point retry bound was
	// exceeded.  Reaching it has probability on the order of 2^-256
	// per attempt; it is a safety bound, not an expected path.
	ErrDerivation = errors.New("base point derivation failed")

	// ErrInvalidInput reports a missing or malformed caller argument,
	// such as an empty password or a wrong-length key import.
	ErrInvalidInput = errors.New("invalid argument")
)
