package codebreaker

import "testing"

// FuzzColdRoundTrip fuzzes encrypt/decrypt through a cold session
func FuzzColdRoundTrip(f *testing.F) {
	// Seed corpus
	f.Add(uint32(0x2043AFCC), uint32(0x2411FFFF))
	f.Add(uint32(0xBEEFC0DE), uint32(0x00000000))
	f.Add(uint32(0x00000000), uint32(0x00000000))
	f.Add(uint32(0xFFFFFFFF), uint32(0xFFFFFFFF))
	f.Add(uint32(0x903FA337), uint32(0x0C0B3FDF))

	f.Fuzz(func(t *testing.T, addr, val uint32) {
		enc := New()
		eaddr, eval := enc.EncryptCode(addr, val)

		dec := New()
		daddr, dval := dec.DecryptCode(eaddr, eval)

		if daddr != addr || dval != val {
			t.Errorf("round trip %08X %08X -> %08X %08X -> %08X %08X",
				addr, val, eaddr, eval, daddr, dval)
		}
	})
}

// FuzzWarmRoundTrip fuzzes encrypt/decrypt through a keyed session
func FuzzWarmRoundTrip(f *testing.F) {
	// Seed corpus
	f.Add(uint32(0x2043AFCC), uint32(0x2411FFFF))
	f.Add(uint32(0x10C12345), uint32(0x00001234))
	f.Add(uint32(0xFFFFFFFF), uint32(0x00000000))

	f.Fuzz(func(t *testing.T, addr, val uint32) {
		enc := NewV7()
		eaddr, eval := enc.EncryptCode(addr, val)

		dec := NewV7()
		daddr, dval := dec.DecryptCode(eaddr, eval)

		if daddr != addr || dval != val {
			t.Errorf("round trip %08X %08X -> %08X %08X -> %08X %08X",
				addr, val, eaddr, eval, daddr, dval)
		}
	})
}
