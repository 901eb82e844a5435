package cart

import "github.com/sirupsen/logrus"

// ROMOnly is a cartridge with no banking and no external RAM: the file's
// bytes are mapped directly into 0x0000-0x7FFF.
type ROMOnly struct {
	rom []byte
	log *logrus.Logger
}

func NewROMOnly(rom []byte, log *logrus.Logger) *ROMOnly {
	return &ROMOnly{rom: rom, log: log}
}

func (c *ROMOnly) Read(addr uint16) byte {
	switch {
	case addr < 0x8000:
		if int(addr) < len(c.rom) {
			return c.rom[addr]
		}
		return 0xFF
	default: // 0xA000-0xBFFF: no external RAM
		return 0xFF
	}
}

// Write is a benign ignore: ROM-only cartridges have no writable state.
func (c *ROMOnly) Write(addr uint16, value byte) {
	if c.log != nil {
		c.log.WithField("addr", addr).Debug("write to ROM-only cartridge ignored")
	}
}
