// Package cb1 implements the legacy CodeBreaker v1 code transform: a
// stateless, reversible permutation of one (address, value) pair, keyed by
// three fixed seed tables indexed with the command nibble.
package cb1

var seeds = [3][16]uint32{
	{
		0x0A0B8D9B, 0x0A0133F8, 0x0AF733EC, 0x0A15C574,
		0x0A50AC20, 0x0A920FB9, 0x0A599F0B, 0x0A4AA0E3,
		0x0A21C012, 0x0A906254, 0x0A31FD54, 0x0A091C0E,
		0x0A372B38, 0x0A6F266C, 0x0A61DD4A, 0x0A0DBF92,
	},
	{
		0x00288596, 0x0037DD28, 0x003BEEF1, 0x000BC822,
		0x00BC935D, 0x00A139F2, 0x00E9BBF8, 0x00F57F7B,
		0x0090D704, 0x001814D4, 0x00C5848E, 0x005B83E7,
		0x00108CF7, 0x0046CE5A, 0x003A5BF4, 0x006FAFFC,
	},
	{
		0x1DD9A10A, 0xB95AB9B0, 0x5CF5D328, 0x95FE7F10,
		0x8E2D6303, 0x16BB6286, 0xE389324C, 0x07AC6EA8,
		0xAA4811D8, 0x76CE4E18, 0xFE447516, 0xF9CD94D0,
		0x4C24DEDB, 0x1A4C93A8, 0x3A119F07, 0xD1656A5F,
	},
}

// EncryptCode encrypts one code. The value word is only touched for
// commands above 2.
func EncryptCode(addr, val uint32) (uint32, uint32) {
	cmd := addr >> 28

	tmp := addr & 0xff000000
	addr = ((addr & 0xff) << 16) | ((addr >> 8) & 0xffff)
	addr = (tmp | ((addr + seeds[1][cmd]) & 0x00ffffff)) ^ seeds[0][cmd]

	if cmd > 2 {
		val = addr ^ (val + seeds[2][cmd])
	}
	return addr, val
}

// DecryptCode is the exact inverse of EncryptCode. The command nibble
// survives encryption, so it can be read straight off the encrypted address.
func DecryptCode(addr, val uint32) (uint32, uint32) {
	cmd := addr >> 28

	if cmd > 2 {
		val = (addr ^ val) - seeds[2][cmd]
	}

	tmp := addr ^ seeds[0][cmd]
	addr = tmp - seeds[1][cmd]
	addr = (tmp & 0xff000000) | ((addr & 0xffff) << 8) | ((addr >> 16) & 0xff)
	return addr, val
}
