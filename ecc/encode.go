package ecc

// bytes writes a to tgt as a network-order (big-endian) byte vector.
// When tgt is longer than a bigVal the value is written sign-extended;
// when it is shorter, high-order bytes are silently dropped.  Callers
// exporting canonical reduced values into the fixed-size key containers
// rely on the dropped bytes being zero.
func (a *bigVal) bytes(tgt []byte) {
	tgtlen := len(tgt)
	var highbytes byte
	if a.isNegative() {
		highbytes = 0xff
	}

	// LS byte to MS byte.
	var i int
	for i = 0; i < 4*bigLen; i++ {
		if i < tgtlen {
			tgt[tgtlen-1-i] = byte(a.data[i/4] >> (8 * (uint(i) % 4)))
		}
	}
	for ; i < tgtlen; i++ {
		tgt[tgtlen-1-i] = highbytes
	}
}

// setBytes loads a network-order (big-endian) byte vector into r.  If
// src is longer than a bigVal the high-order bytes are silently
// dropped.
func (r *bigVal) setBytes(src []byte) {
	*r = bigVal{}
	srclen := len(src)
	for i := 0; i < srclen && i < 4*bigLen; i++ {
		v := src[srclen-1-i]
		r.data[i/4] |= uint32(v) << (8 * (uint(i) % 4))
	}
}

// wipe clears a bigVal holding sensitive material.
func (a *bigVal) wipe() {
	*a = bigVal{}
}

// wipeBytes clears a byte buffer holding sensitive material.
func wipeBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
