// Package codebreaker encrypts and decrypts CodeBreaker PS2 cheat codes.
//
// A Codebreaker instance is a sequential cursor over one code stream. It
// tracks which cipher scheme is active and switches to the keyed v7 scheme
// permanently once an activation code goes by. AutoDecryptCode additionally
// works out how many lines each logical code occupies from the stream itself,
// with no external framing.
package codebreaker

import (
	"github.com/cheatvault-go/internal/codebreaker/cb1"
	"github.com/cheatvault-go/internal/codebreaker/cb7"
)

type scheme int

const (
	schemeRaw scheme = iota
	schemeV1
	schemeV7
)

// Codebreaker holds the processing state for one code stream: the active
// scheme, the keyed cipher, and how many lines remain in the current logical
// code. Instances are independent and not safe for concurrent use; mixing
// two streams through one instance desynchronizes both the scheme inference
// and the keyed cipher.
type Codebreaker struct {
	scheme    scheme
	cb7       cb7.Cb7
	codeLines int
}

// New returns a processor for streams that carry their own activation code.
func New() *Codebreaker {
	return &Codebreaker{scheme: schemeRaw, cb7: cb7.New()}
}

// NewV7 returns a processor for streams that omit the canonical activation
// code (B4336FA9 4DFEFB79) by convention, as published v7 lists do.
func NewV7() *Codebreaker {
	return &Codebreaker{scheme: schemeV7, cb7: cb7.NewDefault()}
}

// EncryptCode encrypts one code with the active scheme. The activation check
// runs on the plaintext address, so the activation line itself is still
// encrypted with the scheme in effect before the switch.
func (c *Codebreaker) EncryptCode(addr, val uint32) (uint32, uint32) {
	oldaddr, oldval := addr, val

	if c.scheme == schemeV7 {
		addr, val = c.cb7.EncryptCode(addr, val)
	} else {
		addr, val = cb1.EncryptCode(addr, val)
	}

	if cb7.IsBeefcode(oldaddr) {
		c.cb7.Beefcode(oldaddr, oldval)
		c.scheme = schemeV7
	}
	return addr, val
}

// DecryptCode decrypts one code with the active scheme. The activation check
// runs on the decrypted address and reseeds from the decrypted pair, which
// mirrors the plaintext values used on the encrypt side.
func (c *Codebreaker) DecryptCode(addr, val uint32) (uint32, uint32) {
	if c.scheme == schemeV7 {
		addr, val = c.cb7.DecryptCode(addr, val)
	} else {
		addr, val = cb1.DecryptCode(addr, val)
	}

	if cb7.IsBeefcode(addr) {
		c.cb7.Beefcode(addr, val)
		c.scheme = schemeV7
	}
	return addr, val
}

// AutoDecryptCode decrypts one line of an unannotated stream, inferring the
// scheme and the per-code line count as it goes. Feed it every line in
// order: a wrong guess cannot be detected, it just desynchronizes the rest
// of the stream, matching what the original hardware does.
func (c *Codebreaker) AutoDecryptCode(addr, val uint32) (uint32, uint32) {
	if c.scheme != schemeV7 {
		if c.codeLines == 0 {
			c.codeLines = numCodeLines(addr)
			if (addr>>24)&0x0e != 0 {
				if cb7.IsBeefcode(addr) {
					// An activation code published in the clear is consumed
					// as a line but neither decoded nor acted on.
					c.codeLines--
					return addr, val
				}
				c.scheme = schemeV1
				c.codeLines--
				addr, val = cb1.DecryptCode(addr, val)
			} else {
				c.scheme = schemeRaw
				c.codeLines--
			}
		} else {
			c.codeLines--
			if c.scheme == schemeRaw {
				return addr, val
			}
			addr, val = cb1.DecryptCode(addr, val)
		}
	} else {
		addr, val = c.cb7.DecryptCode(addr, val)
		if c.codeLines == 0 {
			c.codeLines = numCodeLines(addr)
			if c.codeLines == 1 && addr == 0xffffffff {
				// Changing encryption via "FFFFFFFF 000xnnnn" is not
				// supported; the line is skipped as the device does.
				c.codeLines = 0
				return addr, val
			}
		}
		c.codeLines--
	}

	if cb7.IsBeefcode(addr) {
		c.cb7.Beefcode(addr, val)
		c.scheme = schemeV7
		c.codeLines = 1
	}
	return addr, val
}

// numCodeLines reports how many physical lines the logical code starting at
// addr occupies. Commands 4 through 6 take two; command 3 takes two when bit
// 0x00400000 is set; everything else takes one.
func numCodeLines(addr uint32) int {
	cmd := addr >> 28
	switch {
	case cmd < 3 || cmd > 6:
		return 1
	case cmd == 3:
		if addr&0x00400000 != 0 {
			return 2
		}
		return 1
	default:
		return 2
	}
}
