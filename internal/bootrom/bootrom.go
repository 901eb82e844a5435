// Package bootrom holds the 256-byte startup program the MMU maps over
// 0x0000-0x00FF until the cartridge disables it via a write to 0xFF50.
//
// This is not Nintendo's firmware (which remains under copyright); it is a
// minimal stand-in that performs the same handshake a host depends on: set
// up the stack, then disable the overlay with its last instruction (at
// 0x00FE) so execution continues at the cartridge entry point 0x0100.
// Logo-scroll, audio chirp, and checksum-verification business
// that real hardware performs here have no observable effect on the rest
// of this core and are not reproduced.
package bootrom

// Data is the 256-byte boot program, read-only from the caller's side.
var Data = build()

func build() [256]byte {
	var b [256]byte
	prog := []byte{
		0x31, 0xFE, 0xFF, // LD SP,0xFFFE
		0x3E, 0x01, // LD A,0x01
		0xC3, 0xFE, 0x00, // JP 0x00FE
	}
	copy(b[:], prog)
	// LDH (0xFF50),A -- disable this overlay; the next fetch is 0x0100.
	b[0xFE], b[0xFF] = 0xE0, 0x50
	return b
}
