package aes

import (
	"encoding/binary"
	"math/bits"
)

func subWord(w uint32) uint32 {
	return te4[w>>24]&0xff000000 ^
		te4[w>>16&0xff]&0x00ff0000 ^
		te4[w>>8&0xff]&0x0000ff00 ^
		te4[w&0xff]&0x000000ff
}

// expandKey fills ek with the encryption schedule and dk with the schedule of
// the equivalent inverse cipher, and returns the number of rounds.
func expandKey(ek, dk *[scheduleWords]uint32, key []byte) uint8 {
	nk := len(key) / 4
	nr := nk + 6
	n := 4 * (nr + 1)

	for i := 0; i < nk; i++ {
		ek[i] = binary.BigEndian.Uint32(key[4*i:])
	}
	for i := nk; i < n; i++ {
		t := ek[i-1]
		switch {
		case i%nk == 0:
			t = subWord(bits.RotateLeft32(t, 8)) ^ rcon[i/nk-1]
		case nk > 6 && i%nk == 4:
			t = subWord(t)
		}
		ek[i] = ek[i-nk] ^ t
	}

	// Reverse the round order and apply InvMixColumns to every round key
	// except the first and the last.
	for r := 0; r <= nr; r++ {
		for j := 0; j < 4; j++ {
			w := ek[4*r+j]
			if r > 0 && r < nr {
				w = td0[te4[w>>24]&0xff] ^
					td1[te4[w>>16&0xff]&0xff] ^
					td2[te4[w>>8&0xff]&0xff] ^
					td3[te4[w&0xff]&0xff]
			}
			dk[4*(nr-r)+j] = w
		}
	}
	return uint8(nr)
}

// encryptBlock encrypts one block. A non-nil iv is XORed into the input and
// replaced by the output (CBC).
func encryptBlock(c *Context, dst, src []byte, iv *[4]uint32) {
	ek := c.ek[:]
	_ = src[15]
	s0 := binary.BigEndian.Uint32(src[0:4]) ^ ek[0]
	s1 := binary.BigEndian.Uint32(src[4:8]) ^ ek[1]
	s2 := binary.BigEndian.Uint32(src[8:12]) ^ ek[2]
	s3 := binary.BigEndian.Uint32(src[12:16]) ^ ek[3]
	if iv != nil {
		s0 ^= iv[0]
		s1 ^= iv[1]
		s2 ^= iv[2]
		s3 ^= iv[3]
	}

	k := 4
	var t0, t1, t2, t3 uint32
	for r := 1; r < int(c.nr); r++ {
		t0 = te0[s0>>24] ^ te1[s1>>16&0xff] ^ te2[s2>>8&0xff] ^ te3[s3&0xff] ^ ek[k+0]
		t1 = te0[s1>>24] ^ te1[s2>>16&0xff] ^ te2[s3>>8&0xff] ^ te3[s0&0xff] ^ ek[k+1]
		t2 = te0[s2>>24] ^ te1[s3>>16&0xff] ^ te2[s0>>8&0xff] ^ te3[s1&0xff] ^ ek[k+2]
		t3 = te0[s3>>24] ^ te1[s0>>16&0xff] ^ te2[s1>>8&0xff] ^ te3[s2&0xff] ^ ek[k+3]
		k += 4
		s0, s1, s2, s3 = t0, t1, t2, t3
	}

	// Last round: SubBytes and ShiftRows only.
	t0 = te4[s0>>24]&0xff000000 ^ te4[s1>>16&0xff]&0x00ff0000 ^ te4[s2>>8&0xff]&0x0000ff00 ^ te4[s3&0xff]&0x000000ff ^ ek[k+0]
	t1 = te4[s1>>24]&0xff000000 ^ te4[s2>>16&0xff]&0x00ff0000 ^ te4[s3>>8&0xff]&0x0000ff00 ^ te4[s0&0xff]&0x000000ff ^ ek[k+1]
	t2 = te4[s2>>24]&0xff000000 ^ te4[s3>>16&0xff]&0x00ff0000 ^ te4[s0>>8&0xff]&0x0000ff00 ^ te4[s1&0xff]&0x000000ff ^ ek[k+2]
	t3 = te4[s3>>24]&0xff000000 ^ te4[s0>>16&0xff]&0x00ff0000 ^ te4[s1>>8&0xff]&0x0000ff00 ^ te4[s2&0xff]&0x000000ff ^ ek[k+3]

	_ = dst[15]
	binary.BigEndian.PutUint32(dst[0:4], t0)
	binary.BigEndian.PutUint32(dst[4:8], t1)
	binary.BigEndian.PutUint32(dst[8:12], t2)
	binary.BigEndian.PutUint32(dst[12:16], t3)
	if iv != nil {
		iv[0], iv[1], iv[2], iv[3] = t0, t1, t2, t3
	}
}

// decryptBlock decrypts one block. A non-nil iv is XORed into the output and
// replaced by the input ciphertext (CBC).
func decryptBlock(c *Context, dst, src []byte, iv *[4]uint32) {
	dk := c.dk[:]
	_ = src[15]
	v0 := binary.BigEndian.Uint32(src[0:4])
	v1 := binary.BigEndian.Uint32(src[4:8])
	v2 := binary.BigEndian.Uint32(src[8:12])
	v3 := binary.BigEndian.Uint32(src[12:16])
	s0, s1, s2, s3 := v0^dk[0], v1^dk[1], v2^dk[2], v3^dk[3]

	k := 4
	var t0, t1, t2, t3 uint32
	for r := 1; r < int(c.nr); r++ {
		t0 = td0[s0>>24] ^ td1[s3>>16&0xff] ^ td2[s2>>8&0xff] ^ td3[s1&0xff] ^ dk[k+0]
		t1 = td0[s1>>24] ^ td1[s0>>16&0xff] ^ td2[s3>>8&0xff] ^ td3[s2&0xff] ^ dk[k+1]
		t2 = td0[s2>>24] ^ td1[s1>>16&0xff] ^ td2[s0>>8&0xff] ^ td3[s3&0xff] ^ dk[k+2]
		t3 = td0[s3>>24] ^ td1[s2>>16&0xff] ^ td2[s1>>8&0xff] ^ td3[s0&0xff] ^ dk[k+3]
		k += 4
		s0, s1, s2, s3 = t0, t1, t2, t3
	}

	t0 = td4[s0>>24]&0xff000000 ^ td4[s3>>16&0xff]&0x00ff0000 ^ td4[s2>>8&0xff]&0x0000ff00 ^ td4[s1&0xff]&0x000000ff ^ dk[k+0]
	t1 = td4[s1>>24]&0xff000000 ^ td4[s0>>16&0xff]&0x00ff0000 ^ td4[s3>>8&0xff]&0x0000ff00 ^ td4[s2&0xff]&0x000000ff ^ dk[k+1]
	t2 = td4[s2>>24]&0xff000000 ^ td4[s1>>16&0xff]&0x00ff0000 ^ td4[s0>>8&0xff]&0x0000ff00 ^ td4[s3&0xff]&0x000000ff ^ dk[k+2]
	t3 = td4[s3>>24]&0xff000000 ^ td4[s2>>16&0xff]&0x00ff0000 ^ td4[s1>>8&0xff]&0x0000ff00 ^ td4[s0&0xff]&0x000000ff ^ dk[k+3]

	if iv != nil {
		t0 ^= iv[0]
		t1 ^= iv[1]
		t2 ^= iv[2]
		t3 ^= iv[3]
		iv[0], iv[1], iv[2], iv[3] = v0, v1, v2, v3
	}
	_ = dst[15]
	binary.BigEndian.PutUint32(dst[0:4], t0)
	binary.BigEndian.PutUint32(dst[4:8], t1)
	binary.BigEndian.PutUint32(dst[8:12], t2)
	binary.BigEndian.PutUint32(dst[12:16], t3)
}
