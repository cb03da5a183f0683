// Package exchange drives a key-agreement session through its states:
// a key pair is generated (plain ECDH or password-authenticated SPEKE),
// the public point is handed to the peer, and the shared secret is
// derived from the peer's public point.  It abstracts the agreement
// mechanism behind one interface so the handshake layer above does not
// care which one a connection negotiated.
package exchange

import (
	"crypto/rand"
	"io"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/qqsskk/core-alljoyn/ecc"
)

// Agreement is what the handshake layer consumes: generate our half,
// derive the secret from theirs.
type Agreement interface {
	// GenerateKey creates the local key pair and returns the public
	// point to send to the peer.
	GenerateKey() (*ecc.PublicKey, error)

	// DeriveSecret validates the peer's public point and computes the
	// shared secret.
	DeriveSecret(peer *ecc.PublicKey) (*ecc.Secret, error)

	// Close zeroizes all session key material.
	Close()
}

// State tracks session progress.  Transitions only move forward; an
// out-of-order call is a caller bug and reported as ErrInvalidState.
type State int

const (
	StateIdle State = iota
	StateKeyGenerated
	StateSecretDerived
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateKeyGenerated:
		return "key-generated"
	case StateSecretDerived:
		return "secret-derived"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// ErrInvalidState reports a session method called out of order.
var ErrInvalidState = errors.New("invalid session state")

type mechanism int

const (
	mechECDH mechanism = iota
	mechSPEKE
)

// Session is a single key-agreement session.  It is not safe for
// concurrent use; a session belongs to one handshake.
type Session struct {
	state  State
	mech   mechanism
	rand   io.Reader
	log    *zap.Logger
	pub    *ecc.PublicKey
	priv   *ecc.PrivateKey
	secret *ecc.Secret

	// SPEKE inputs, set at construction.
	password    []byte
	clientGUID  ecc.GUID
	serviceGUID ecc.GUID
}

// Option configures a session.
type Option func(*Session)

// WithRand overrides the entropy source; tests use this to inject
// deterministic readers and failures.
func WithRand(r io.Reader) Option {
	return func(s *Session) { s.rand = r }
}

// WithLogger attaches a structured logger for state transitions.
func WithLogger(log *zap.Logger) Option {
	return func(s *Session) { s.log = log }
}

// NewECDH creates a plain ECDH session.
func NewECDH(opts ...Option) *Session {
	s := &Session{rand: rand.Reader, log: zap.NewNop()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// NewSPEKE creates a password-authenticated session.  The password is
// copied; the caller keeps ownership of its buffer.
func NewSPEKE(password []byte, clientGUID, serviceGUID ecc.GUID, opts ...Option) *Session {
	s := &Session{
		mech:        mechSPEKE,
		rand:        rand.Reader,
		log:         zap.NewNop(),
		password:    append([]byte(nil), password...),
		clientGUID:  clientGUID,
		serviceGUID: serviceGUID,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// State returns the current session state.
func (s *Session) State() State { return s.state }

// GenerateKey creates the local key pair.  Valid only in the idle
// state.
func (s *Session) GenerateKey() (*ecc.PublicKey, error) {
	if s.state != StateIdle {
		return nil, errors.Wrapf(ErrInvalidState, "generate key in state %s", s.state)
	}

	var (
		pub  *ecc.PublicKey
		priv *ecc.PrivateKey
		err  error
	)
	switch s.mech {
	case mechSPEKE:
		pub, priv, err = ecc.GenerateSPEKEKeyPair(s.rand, s.password, s.clientGUID, s.serviceGUID)
	default:
		pub, priv, err = ecc.GenerateKeyPair(s.rand)
	}
	if err != nil {
		return nil, err
	}

	s.pub = pub
	s.priv = priv
	s.state = StateKeyGenerated
	s.log.Debug("session key generated",
		zap.String("state", s.state.String()),
		zap.Bool("speke", s.mech == mechSPEKE))
	return pub, nil
}

// DeriveSecret validates the peer's public point and computes the
// shared secret.  Valid only after GenerateKey.
func (s *Session) DeriveSecret(peer *ecc.PublicKey) (*ecc.Secret, error) {
	if s.state != StateKeyGenerated {
		return nil, errors.Wrapf(ErrInvalidState, "derive secret in state %s", s.state)
	}

	secret, err := ecc.GenerateSharedSecret(peer, s.priv)
	if err != nil {
		return nil, err
	}

	s.secret = secret
	s.state = StateSecretDerived
	s.log.Debug("session secret derived", zap.String("state", s.state.String()))
	return secret, nil
}

// Secret returns the derived secret, or ErrInvalidState before
// derivation.
func (s *Session) Secret() (*ecc.Secret, error) {
	if s.state != StateSecretDerived {
		return nil, errors.Wrapf(ErrInvalidState, "secret in state %s", s.state)
	}
	return s.secret, nil
}

// PublicKey returns the local public point, or ErrInvalidState before
// key generation.
func (s *Session) PublicKey() (*ecc.PublicKey, error) {
	if s.state == StateIdle || s.state == StateClosed {
		return nil, errors.Wrapf(ErrInvalidState, "public key in state %s", s.state)
	}
	return s.pub, nil
}

// Close zeroizes all key material and retires the session.  Safe to
// call more than once.
func (s *Session) Close() {
	if s.priv != nil {
		s.priv.Zeroize()
	}
	if s.secret != nil {
		s.secret.Zeroize()
	}
	for i := range s.password {
		s.password[i] = 0
	}
	s.state = StateClosed
	s.log.Debug("session closed")
}

var _ Agreement = (*Session)(nil)
