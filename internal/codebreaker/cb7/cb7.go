// Package cb7 implements the CodeBreaker v7 code cipher: a stateful,
// reversible transform of one (address, value) pair. Unlike the v1 scheme it
// carries key material that is replaced whenever an activation code
// ("beefcode") is observed, and an odd activation address arms a follow-up
// scramble keyed by the next processed code.
//
// The pipeline runs four stages over the 64 bits of a code: an odd-multiplier
// multiplication modulo 2^32 per word, an RC4 pass over the eight bytes,
// exponentiation over a 64-bit prime field, and 64 add/xor mixing rounds
// driven by the seed block. Decryption runs the inverse stages in reverse
// order, so encrypt and decrypt calls must line up one to one.
package cb7

import (
	"crypto/rc4"
	"encoding/binary"
	"math/bits"
)

// Parameters of the exponentiation stage: the largest 64-bit prime and an
// exponent pair that is mutually inverse modulo expModulus-1.
const (
	expModulus = 0xFFFFFFFFFFFFFFC5
	expEncrypt = 13
	expDecrypt = 0x9D89D89D89D89D65
)

// defaultSeeds is the stock seed block every session starts from. It is the
// same for all instances, so it is derived once from the canonical activation
// pair (BEEFC0DE 00000000).
var defaultSeeds [5][256]byte

func init() {
	var key [8]byte
	binary.LittleEndian.PutUint32(key[0:], 0xBEEFC0DE)
	binary.LittleEndian.PutUint32(key[4:], 0x00000000)

	stream, err := rc4.NewCipher(key[:])
	if err != nil {
		panic(err)
	}
	var flat [5 * 256]byte
	stream.XORKeyStream(flat[:], flat[:])
	for i := range defaultSeeds {
		copy(defaultSeeds[i][:], flat[i*256:(i+1)*256])
	}
}

// Cb7 holds the keyed cipher state: the seed block, the five working keys
// drawn from it, and the armed flag for the extended (BEEFC0DF) follow-up.
// Each instance belongs to exactly one code stream and is not safe for
// concurrent use.
type Cb7 struct {
	seeds       [5][256]byte
	key         [5]uint32
	beefcodf    bool
	initialized bool
}

// New returns a blank cipher. It holds no key material until Beefcode is
// called; sessions that start in the keyed regime should use NewDefault.
func New() Cb7 {
	return Cb7{}
}

// NewDefault returns a cipher seeded as if the canonical activation pair
// (BEEFC0DE 00000000) had just been processed.
func NewDefault() Cb7 {
	c := Cb7{}
	c.Beefcode(0xBEEFC0DE, 0)
	return c
}

// IsBeefcode reports whether addr is one of the two reserved activation
// addresses (BEEFC0DE or BEEFC0DF).
func IsBeefcode(addr uint32) bool {
	return addr&0xFFFFFFFE == 0xBEEFC0DE
}

// Beefcode reseeds the cipher from an activation code, replacing all
// previous key state. A non-zero value word scrambles the seed block before
// the working keys are drawn from it; an odd address arms the follow-up
// scramble for the next processed code.
func (c *Cb7) Beefcode(addr, val uint32) {
	if !c.initialized {
		c.seeds = defaultSeeds
		c.initialized = true
	}

	var v [4]byte
	binary.LittleEndian.PutUint32(v[:], val)

	if val != 0 {
		c.scrambleSeeds(v[:])
	}

	for i := range c.key {
		c.key[i] = uint32(c.seeds[i][v[3]])<<24 |
			uint32(c.seeds[(i+1)%5][v[2]])<<16 |
			uint32(c.seeds[(i+2)%5][v[1]])<<8 |
			uint32(c.seeds[(i+3)%5][v[0]])
	}

	c.beefcodf = addr&1 != 0
}

// EncryptCode runs one code forward through the four-stage pipeline.
func (c *Cb7) EncryptCode(addr, val uint32) (uint32, uint32) {
	oldaddr, oldval := addr, val

	// Stage 1: odd-multiplier multiplication modulo 2^32.
	addr *= (c.key[0] - c.key[1]) | 1
	val *= (c.key[2] + c.key[3]) | 1

	// Stage 2: RC4 over the eight code bytes.
	addr, val = c.rc4Pass(addr, val)

	// Stage 3: exponentiation over the prime field.
	addr, val = expCrypt(addr, val, expEncrypt)

	// Stage 4: 64 mixing rounds over the seed words.
	for i := 0; i < 64; i++ {
		addr = ((addr + c.seedWord(2, i)) ^ c.seedWord(0, i)) - (val ^ c.seedWord(3, i))
		val = ((val - c.seedWord(1, i)) ^ c.seedWord(4, i)) + (addr ^ c.seedWord(3, i))
	}

	if c.beefcodf {
		c.followUp(oldaddr, oldval)
	}
	return addr, val
}

// DecryptCode inverts EncryptCode. The follow-up scramble is keyed by the
// decrypted pair, mirroring the plaintext pair used on the encrypt side.
func (c *Cb7) DecryptCode(addr, val uint32) (uint32, uint32) {
	for i := 63; i >= 0; i-- {
		val = ((val - (addr ^ c.seedWord(3, i))) ^ c.seedWord(4, i)) + c.seedWord(1, i)
		addr = ((addr + (val ^ c.seedWord(3, i))) ^ c.seedWord(0, i)) - c.seedWord(2, i)
	}

	addr, val = expCrypt(addr, val, expDecrypt)
	addr, val = c.rc4Pass(addr, val)

	addr *= mulInverse((c.key[0] - c.key[1]) | 1)
	val *= mulInverse((c.key[2] + c.key[3]) | 1)

	if c.beefcodf {
		c.followUp(addr, val)
	}
	return addr, val
}

// followUp folds the code that follows an extended activation into the seed
// block. The working keys stand until the next activation; only the seeds
// feeding the mixing rounds change.
func (c *Cb7) followUp(addr, val uint32) {
	var key [8]byte
	binary.LittleEndian.PutUint32(key[0:], addr)
	binary.LittleEndian.PutUint32(key[4:], val)
	c.scrambleSeeds(key[:])
	c.beefcodf = false
}

func (c *Cb7) scrambleSeeds(key []byte) {
	stream, err := rc4.NewCipher(key)
	if err != nil {
		panic(err)
	}
	var flat [5 * 256]byte
	for i := range c.seeds {
		copy(flat[i*256:], c.seeds[i][:])
	}
	stream.XORKeyStream(flat[:], flat[:])
	for i := range c.seeds {
		copy(c.seeds[i][:], flat[i*256:(i+1)*256])
	}
}

// rc4Pass XORs the code with a keystream drawn from the working keys. The
// stream is rekeyed per code, so the pass is its own inverse.
func (c *Cb7) rc4Pass(addr, val uint32) (uint32, uint32) {
	var key [20]byte
	for i, k := range c.key {
		binary.LittleEndian.PutUint32(key[i*4:], k)
	}

	var buf [8]byte
	binary.LittleEndian.PutUint32(buf[0:], addr)
	binary.LittleEndian.PutUint32(buf[4:], val)

	stream, err := rc4.NewCipher(key[:])
	if err != nil {
		panic(err)
	}
	stream.XORKeyStream(buf[:], buf[:])

	return binary.LittleEndian.Uint32(buf[0:]), binary.LittleEndian.Uint32(buf[4:])
}

// seedWord reads round word i from seed table t.
func (c *Cb7) seedWord(t, i int) uint32 {
	return binary.LittleEndian.Uint32(c.seeds[t][i*4:])
}

// expCrypt raises the 64-bit code to the given exponent modulo expModulus.
// The handful of words at or above the modulus pass through untouched, which
// keeps the stage bijective.
func expCrypt(addr, val uint32, exponent uint64) (uint32, uint32) {
	code := uint64(addr)<<32 | uint64(val)
	if code >= expModulus {
		return addr, val
	}
	code = modPow(code, exponent, expModulus)
	return uint32(code >> 32), uint32(code)
}

func modPow(base, exp, mod uint64) uint64 {
	result := uint64(1)
	base %= mod
	for exp > 0 {
		if exp&1 != 0 {
			result = mulMod(result, base, mod)
		}
		base = mulMod(base, base, mod)
		exp >>= 1
	}
	return result
}

// mulMod computes a*b mod m via the full 128-bit product. a and b are below
// m, so the high word of the product is too and Div64 cannot fault.
func mulMod(a, b, m uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	_, rem := bits.Div64(hi, lo, m)
	return rem
}

// mulInverse returns the multiplicative inverse of an odd word modulo 2^32
// by Newton iteration; the bit count of correct low bits doubles per step.
func mulInverse(word uint32) uint32 {
	inv := word
	for i := 0; i < 4; i++ {
		inv *= 2 - word*inv
	}
	return inv
}
