// Package bus implements the memory-mapped unit: address dispatch across
// cartridge, work/high RAM, video, timer, joypad, and serial components,
// interrupt flag bookkeeping, OAM DMA, and the cycle accumulator every
// other component is driven from.
package bus

import (
	"github.com/sirupsen/logrus"

	"github.com/hollowgate/dmgcore/internal/apu"
	"github.com/hollowgate/dmgcore/internal/bootrom"
	"github.com/hollowgate/dmgcore/internal/cart"
	"github.com/hollowgate/dmgcore/internal/joypad"
	"github.com/hollowgate/dmgcore/internal/serial"
	"github.com/hollowgate/dmgcore/internal/timer"
	"github.com/hollowgate/dmgcore/internal/video"
)

// Interrupt source bit positions within IE/IF, in servicing priority
// order (lowest bit serviced first).
const (
	IntVBlank = 0
	IntLCD    = 1
	IntTimer  = 2
	IntSerial = 3
	IntJoypad = 4
)

// Bus is the sole owner of CPU-visible byte storage. Every public
// Read/Write bills one machine cycle to the consumed-cycle accumulator
// and ticks the timer and video components by that same amount, so
// their clocks stay synchronized to bus traffic without the caller
// re-deriving cycle counts from opcode tables. The CPU bills additional
// cycles that have no associated bus access — internal ALU delay slots,
// branch-taken adjustments — through TickExtra.
type Bus struct {
	cart   cart.Cartridge
	video  *video.PPU
	timer  *timer.Timer
	joypad *joypad.Joypad
	serial *serial.Serial
	apu    *apu.APU

	wram [0x2000]byte // 0xC000-0xDFFF, echoed at 0xE000-0xFDFF
	hram [0x7F]byte   // 0xFF80-0xFFFE

	ie    byte // 0xFFFF
	ifReg byte // 0xFF0F, lower 5 bits

	bootROM     [256]byte
	bootEnabled bool

	dma       byte // 0xFF46
	dmaActive bool
	dmaSrc    uint16
	dmaIndex  int

	consumed int

	log *logrus.Logger
}

// New builds a Bus around a ROM's bytes. skipBootROM, if true, leaves the
// boot overlay disabled so cartridge bytes are visible at 0x0000 from the
// start; the caller (the gameboy package) is responsible for seeding the
// CPU and IO registers with post-boot defaults in that case.
func New(rom []byte, skipBootROM bool, log *logrus.Logger) (*Bus, error) {
	c, err := cart.NewCartridge(rom, log)
	if err != nil {
		return nil, err
	}
	b := &Bus{cart: c, log: log}
	b.video = video.New(func(bit int) { b.ifReg |= 1 << bit })
	b.timer = timer.New(func(bit int) { b.ifReg |= 1 << bit })
	b.joypad = joypad.New(func(bit int) { b.ifReg |= 1 << bit })
	b.serial = serial.New(func(bit int) { b.ifReg |= 1 << bit })
	b.apu = apu.New()
	copy(b.bootROM[:], bootrom.Data[:])
	b.bootEnabled = !skipBootROM
	return b, nil
}

// Video, Joypad, and SetSerialSink expose the owned components for the
// orchestrator without handing out raw storage.
func (b *Bus) Video() *video.PPU           { return b.video }
func (b *Bus) Joypad() *joypad.Joypad      { return b.joypad }
func (b *Bus) SetSerialSink(s serial.Sink) { b.serial.SetTraceSink(s) }

// IF and IE expose the interrupt registers to the CPU's servicing loop.
func (b *Bus) IF() byte     { return b.ifReg & 0x1F }
func (b *Bus) SetIF(v byte) { b.ifReg = v & 0x1F }
func (b *Bus) IE() byte     { return b.ie }

// Read dispatches a CPU-visible byte read, then bills one machine cycle.
func (b *Bus) Read(addr uint16) byte {
	v := b.rawRead(addr)
	b.bill(1)
	return v
}

// Write dispatches a CPU-visible byte write, then bills one machine cycle.
func (b *Bus) Write(addr uint16, value byte) {
	b.rawWrite(addr, value)
	b.bill(1)
}

// TickExtra bills cycles with no associated bus access — an opcode's
// internal delay slots beyond the memory accesses it performs.
func (b *Bus) TickExtra(cycles int) { b.bill(cycles) }

// TakeConsumedCycles drains and returns the cycle accumulator.
func (b *Bus) TakeConsumedCycles() int {
	c := b.consumed
	b.consumed = 0
	return c
}

func (b *Bus) bill(cycles int) {
	for i := 0; i < cycles; i++ {
		b.consumed++
		b.timer.Tick(1)
		b.video.Tick(1)
		b.stepDMA()
	}
}

func (b *Bus) rawRead(addr uint16) byte {
	switch {
	case addr < 0x8000:
		if b.bootEnabled && addr < 0x0100 {
			return b.bootROM[addr]
		}
		return b.cart.Read(addr)
	case addr >= 0x8000 && addr <= 0x9FFF:
		return b.video.CPURead(addr)
	case addr >= 0xA000 && addr <= 0xBFFF:
		return b.cart.Read(addr)
	case addr >= 0xC000 && addr <= 0xDFFF:
		return b.wram[addr-0xC000]
	case addr >= 0xE000 && addr <= 0xFDFF:
		return b.wram[addr-0x2000-0xC000]
	case addr >= 0xFE00 && addr <= 0xFE9F:
		if b.dmaActive {
			return 0xFF
		}
		return b.video.CPURead(addr)
	case addr >= 0xFEA0 && addr <= 0xFEFF:
		b.logBenign(addr, "read from unusable OAM-shadow range")
		return 0xFF
	case addr == 0xFF00:
		return b.joypad.Read()
	case addr == 0xFF01:
		return b.serial.ReadSB()
	case addr == 0xFF02:
		return b.serial.ReadSC()
	case addr == 0xFF04:
		return b.timer.ReadDIV()
	case addr == 0xFF05:
		return b.timer.ReadTIMA()
	case addr == 0xFF06:
		return b.timer.ReadTMA()
	case addr == 0xFF07:
		return b.timer.ReadTAC()
	case addr == 0xFF0F:
		return 0xE0 | (b.ifReg & 0x1F)
	case addr >= 0xFF10 && addr <= 0xFF26, addr >= 0xFF30 && addr <= 0xFF3F:
		return b.apu.CPURead(addr)
	case addr == 0xFF40, addr == 0xFF41, addr == 0xFF42, addr == 0xFF43,
		addr == 0xFF44, addr == 0xFF45,
		addr == 0xFF47, addr == 0xFF48, addr == 0xFF49,
		addr == 0xFF4A, addr == 0xFF4B:
		return b.video.CPURead(addr)
	case addr == 0xFF46:
		return b.dma
	case addr == 0xFF50:
		return 0xFF
	case addr >= 0xFF80 && addr <= 0xFFFE:
		return b.hram[addr-0xFF80]
	case addr == 0xFFFF:
		return b.ie
	default:
		b.logBenign(addr, "read from unmapped IO register")
		return 0xFF
	}
}

func (b *Bus) rawWrite(addr uint16, value byte) {
	switch {
	case addr < 0x8000:
		b.cart.Write(addr, value)
	case addr >= 0x8000 && addr <= 0x9FFF:
		b.video.CPUWrite(addr, value)
	case addr >= 0xA000 && addr <= 0xBFFF:
		b.cart.Write(addr, value)
	case addr >= 0xC000 && addr <= 0xDFFF:
		b.wram[addr-0xC000] = value
	case addr >= 0xE000 && addr <= 0xFDFF:
		b.wram[addr-0x2000-0xC000] = value
	case addr >= 0xFE00 && addr <= 0xFE9F:
		if b.dmaActive {
			return
		}
		b.video.CPUWrite(addr, value)
	case addr >= 0xFEA0 && addr <= 0xFEFF:
		b.logBenign(addr, "write into unusable OAM-shadow range ignored")
	case addr == 0xFF00:
		b.joypad.WriteSelect(value)
	case addr == 0xFF01:
		b.serial.WriteSB(value)
	case addr == 0xFF02:
		b.serial.WriteSC(value)
	case addr == 0xFF04:
		b.timer.WriteDIV(value)
	case addr == 0xFF05:
		b.timer.WriteTIMA(value)
	case addr == 0xFF06:
		b.timer.WriteTMA(value)
	case addr == 0xFF07:
		b.timer.WriteTAC(value)
	case addr == 0xFF0F:
		b.ifReg = value & 0x1F
	case addr >= 0xFF10 && addr <= 0xFF26, addr >= 0xFF30 && addr <= 0xFF3F:
		b.apu.CPUWrite(addr, value)
	case addr == 0xFF40, addr == 0xFF41, addr == 0xFF42, addr == 0xFF43,
		addr == 0xFF44, addr == 0xFF45,
		addr == 0xFF47, addr == 0xFF48, addr == 0xFF49,
		addr == 0xFF4A, addr == 0xFF4B:
		b.video.CPUWrite(addr, value)
	case addr == 0xFF46:
		b.dma = value
		b.dmaActive = true
		b.dmaSrc = uint16(value) << 8
		b.dmaIndex = 0
	case addr == 0xFF50:
		if value != 0 {
			b.bootEnabled = false
		}
	case addr >= 0xFF80 && addr <= 0xFFFE:
		b.hram[addr-0xFF80] = value
	case addr == 0xFFFF:
		b.ie = value
	default:
		b.logBenign(addr, "write to unmapped IO register ignored")
	}
}

// stepDMA advances an in-flight OAM DMA transfer by one byte per bus
// cycle. It reads through rawRead so the copy itself never bills cycles
// to the same accumulator the orchestrator drains per instruction.
func (b *Bus) stepDMA() {
	if !b.dmaActive {
		return
	}
	v := b.rawRead(b.dmaSrc + uint16(b.dmaIndex))
	b.video.WriteOAMByte(b.dmaIndex, v)
	b.dmaIndex++
	if b.dmaIndex >= 0xA0 {
		b.dmaActive = false
	}
}

func (b *Bus) logBenign(addr uint16, msg string) {
	if b.log == nil {
		return
	}
	b.log.WithField("addr", addr).Debug(msg)
}
