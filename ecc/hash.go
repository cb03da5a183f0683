package ecc

import (
	"hash"

	sha256simd "github.com/minio/sha256-simd"
)

// DigestSize is the size of the SHA-256 digests used throughout the
// key agreement layer.
const DigestSize = sha256simd.Size

// newDigest returns the SHA-256 instance this package hashes with.
// The SIMD implementation falls back to the generic one on hardware
// without the relevant extensions.
func newDigest() hash.Hash {
	return sha256simd.New()
}

// sumDigest hashes the concatenation of chunks.
func sumDigest(chunks ...[]byte) [DigestSize]byte {
	h := newDigest()
	for _, c := range chunks {
		h.Write(c)
	}
	var out [DigestSize]byte
	h.Sum(out[:0])
	return out
}
