// Package apu stores the DMG sound registers without synthesizing audio.
// Audio generation is an explicit non-goal of this core; cartridges and
// test ROMs that probe NRxx registers still need byte-accurate storage,
// including write-only/unused-bit masking on read, so games that gate
// logic on register readback behave correctly even with silent output.
package apu

// APU backs the 0xFF10-0xFF26 sound registers and the 0xFF30-0xFF3F wave
// RAM with plain byte storage. No channel is synthesized or clocked.
type APU struct {
	regs [0x17]byte // 0xFF10-0xFF26
	wave [0x10]byte // 0xFF30-0xFF3F
}

func New() *APU {
	a := &APU{}
	a.regs[0xFF24-0xFF10] = 0x77
	a.regs[0xFF25-0xFF10] = 0xF3
	a.regs[0xFF26-0xFF10] = 0xF1
	return a
}

// unusedMask carries the fixed high bits each NRxx register reads back as
// per the documented hardware register map, since several bits are
// write-only and always read as 1.
var unusedMask = map[uint16]byte{
	0xFF10: 0x80,
	0xFF11: 0x3F,
	0xFF13: 0xFF,
	0xFF14: 0xBF,
	0xFF16: 0x3F,
	0xFF18: 0xFF,
	0xFF19: 0xBF,
	0xFF1A: 0x7F,
	0xFF1B: 0xFF,
	0xFF1C: 0x9F,
	0xFF1D: 0xFF,
	0xFF1E: 0xBF,
	0xFF20: 0xFF,
	0xFF23: 0xBF,
	0xFF26: 0x70,
}

func (a *APU) CPURead(addr uint16) byte {
	switch {
	case addr >= 0xFF10 && addr <= 0xFF26:
		return a.regs[addr-0xFF10] | unusedMask[addr]
	case addr >= 0xFF30 && addr <= 0xFF3F:
		return a.wave[addr-0xFF30]
	}
	return 0xFF
}

func (a *APU) CPUWrite(addr uint16, v byte) {
	switch {
	case addr >= 0xFF10 && addr <= 0xFF26:
		a.regs[addr-0xFF10] = v
	case addr >= 0xFF30 && addr <= 0xFF3F:
		a.wave[addr-0xFF30] = v
	}
}
