// Package cart implements cartridge header parsing and the two banking
// schemes this core supports: a plain ROM-only cartridge and MBC1.
package cart

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Cartridge maps CPU addresses onto ROM/RAM bytes and control registers.
// It is a small capability set, not a plugin interface: NewCartridge
// selects one of the two known implementations at load time from the
// header, there is no runtime registry.
type Cartridge interface {
	// Read returns a byte for ROM (0x0000-0x7FFF) and external RAM
	// (0xA000-0xBFFF).
	Read(addr uint16) byte
	// Write handles MBC control writes (0x0000-0x7FFF) and external RAM
	// writes (0xA000-0xBFFF).
	Write(addr uint16, value byte)
}

// NewCartridge parses the ROM header with ParseHeader and picks an
// implementation from its cartridge type. A header ParseHeader rejects, or
// a cartridge type other than plain ROM and MBC1, is returned as an error.
func NewCartridge(rom []byte, log *logrus.Logger) (Cartridge, error) {
	h, err := ParseHeader(rom)
	if err != nil {
		return nil, err
	}
	switch h.CartType {
	case 0x00:
		return NewROMOnly(rom, log), nil
	case 0x01, 0x02, 0x03: // MBC1 (RAM, RAM+battery are transparent here)
		return NewMBC1(rom, h.RAMSizeBytes), nil
	default:
		return nil, fmt.Errorf("unsupported cartridge type %#02x (%s)", h.CartType, h.CartTypeStr)
	}
}
