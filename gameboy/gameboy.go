// Package gameboy is the public orchestrator: it owns the CPU and bus, pumps
// one CPU step per Tick, and surfaces completed frames and serial output to
// a host driver. The host owns windowing, input polling, and file loading —
// none of that lives in this core.
package gameboy

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/hollowgate/dmgcore/internal/bus"
	"github.com/hollowgate/dmgcore/internal/cpu"
	"github.com/hollowgate/dmgcore/internal/joypad"
	"github.com/hollowgate/dmgcore/internal/video"
)

// Button identifies one of the eight host-visible buttons; the bit values
// match internal/joypad's mask constants directly so JoypadEvent needs no
// translation table.
type Button byte

const (
	ButtonRight  Button = joypad.Right
	ButtonLeft   Button = joypad.Left
	ButtonUp     Button = joypad.Up
	ButtonDown   Button = joypad.Down
	ButtonA      Button = joypad.A
	ButtonB      Button = joypad.B
	ButtonSelect Button = joypad.Select
	ButtonStart  Button = joypad.Start
)

// Options configures construction. ReferenceTrace, when set, is read one
// hex PC value per line; TraceMode enables serial-byte capture through
// DrainSerial. Both are optional host-debugging aids, never required for a
// cartridge to run.
type Options struct {
	SkipBootROM    bool
	ReferenceTrace io.Reader
	TraceMode      bool
	Log            *logrus.Logger
}

// Machine is the orchestrator: CPU + bus, the optional reference-trace
// cursor, and a serial capture buffer when trace mode is enabled.
type Machine struct {
	cpu *cpu.CPU
	bus *bus.Bus

	buttons byte

	refTrace  *bufio.Scanner
	tickIndex int

	serialBuf []byte
	traceMode bool
}

type serialCapture struct{ m *Machine }

func (s serialCapture) WriteByte(b byte) { s.m.serialBuf = append(s.m.serialBuf, b) }

// New parses the cartridge, builds the bus and CPU, and applies post-boot
// defaults when SkipBootROM is set (the bus's boot-overlay skip alone only
// hides the boot ROM; it does not seed the CPU register file or the PPU/IO
// registers the real boot sequence would have left behind).
func New(romBytes []byte, opts Options) (*Machine, error) {
	b, err := bus.New(romBytes, opts.SkipBootROM, opts.Log)
	if err != nil {
		return nil, fmt.Errorf("gameboy: %w", err)
	}

	c := cpu.New(b)
	m := &Machine{cpu: c, bus: b, traceMode: opts.TraceMode}

	if opts.SkipBootROM {
		c.ResetNoBoot()
		c.SetPC(0x0100)
		seedPostBootIO(b)
	}

	if opts.TraceMode {
		b.SetSerialSink(serialCapture{m})
	}
	if opts.ReferenceTrace != nil {
		m.refTrace = bufio.NewScanner(opts.ReferenceTrace)
	}

	return m, nil
}

// seedPostBootIO writes the documented post-boot-ROM register values so a
// cartridge started with SkipBootROM sees the state the real boot sequence
// would have left, rather than all-zero registers.
func seedPostBootIO(b *bus.Bus) {
	b.Write(0xFF05, 0x00) // TIMA
	b.Write(0xFF06, 0x00) // TMA
	b.Write(0xFF07, 0x00) // TAC
	b.Write(0xFF10, 0x80) // NR10
	b.Write(0xFF11, 0xBF) // NR11
	b.Write(0xFF12, 0xF3) // NR12
	b.Write(0xFF14, 0xBF) // NR14
	b.Write(0xFF16, 0x3F) // NR21
	b.Write(0xFF17, 0x00) // NR22
	b.Write(0xFF19, 0xBF) // NR24
	b.Write(0xFF1A, 0x7F) // NR30
	b.Write(0xFF1B, 0xFF) // NR31
	b.Write(0xFF1C, 0x9F) // NR32
	b.Write(0xFF1E, 0xBF) // NR34
	b.Write(0xFF20, 0xFF) // NR41
	b.Write(0xFF21, 0x00) // NR42
	b.Write(0xFF22, 0x00) // NR43
	b.Write(0xFF23, 0xBF) // NR44
	b.Write(0xFF24, 0x77) // NR50
	b.Write(0xFF25, 0xF3) // NR51
	b.Write(0xFF26, 0xF1) // NR52
	b.Write(0xFF40, 0x91) // LCDC
	b.Write(0xFF42, 0x00) // SCY
	b.Write(0xFF43, 0x00) // SCX
	b.Write(0xFF45, 0x00) // LYC
	b.Write(0xFF47, 0xFC) // BGP
	b.Write(0xFF48, 0xFF) // OBP0
	b.Write(0xFF49, 0xFF) // OBP1
	b.Write(0xFF4A, 0x00) // WY
	b.Write(0xFF4B, 0x00) // WX
	b.Write(0xFF50, 0x01) // boot-ROM disable latch
	b.TakeConsumedCycles() // these are setup writes, not emulated CPU time
}

// Tick executes exactly one orchestrator step: service a pending interrupt
// or run one instruction, check the reference trace if active, and report
// a completed frame if one became ready. A decode failure or a reference
// mismatch is fatal per the error-handling taxonomy; the caller should stop
// the run rather than attempt to continue from an inconsistent state.
func (m *Machine) Tick() (frame [160 * 144]video.RGB, haveFrame bool, err error) {
	if _, stepErr := m.cpu.Step(); stepErr != nil {
		return frame, false, fmt.Errorf("gameboy: fatal at tick %d: %w", m.tickIndex, stepErr)
	}

	if m.refTrace != nil {
		if mismatchErr := m.checkReferenceTrace(); mismatchErr != nil {
			return frame, false, mismatchErr
		}
	}

	m.tickIndex++

	frame, haveFrame = m.bus.Video().TakeFrame()
	return frame, haveFrame, nil
}

// checkReferenceTrace compares the CPU's current PC against the next
// expected PC line from the reference trace, per §7's "reference mismatch"
// Fatal category: a divergence dumps full CPU state.
func (m *Machine) checkReferenceTrace() error {
	if !m.refTrace.Scan() {
		return nil // trace exhausted; stop checking rather than fail
	}
	line := strings.TrimSpace(m.refTrace.Text())
	if line == "" {
		return nil
	}
	line = strings.TrimPrefix(line, "0x")
	line = strings.TrimPrefix(line, "0X")
	want, parseErr := strconv.ParseUint(line, 16, 16)
	if parseErr != nil {
		return fmt.Errorf("gameboy: malformed reference trace line %q at tick %d: %w", line, m.tickIndex, parseErr)
	}
	if uint16(want) != m.cpu.PC {
		return fmt.Errorf(
			"gameboy: reference mismatch at tick %d: emulated PC=%#04x want %#04x (A=%02x F=%02x B=%02x C=%02x D=%02x E=%02x H=%02x L=%02x SP=%#04x)",
			m.tickIndex, m.cpu.PC, want,
			m.cpu.A, m.cpu.F, m.cpu.B, m.cpu.C, m.cpu.D, m.cpu.E, m.cpu.H, m.cpu.L, m.cpu.SP,
		)
	}
	return nil
}

// JoypadEvent applies a single button transition. Button state is tracked
// here (not in the joypad component, which only stores the latest full
// mask) since the host reports edges one button at a time.
func (m *Machine) JoypadEvent(b Button, pressed bool) {
	if pressed {
		m.buttons |= byte(b)
	} else {
		m.buttons &^= byte(b)
	}
	m.bus.Joypad().SetButtons(m.buttons)
}

// DrainSerial returns and clears bytes captured via the serial sink since
// the last call. Empty unless Options.TraceMode was set at construction.
func (m *Machine) DrainSerial() []byte {
	out := m.serialBuf
	m.serialBuf = nil
	return out
}

// CPU exposes the underlying CPU for host diagnostics (register dumps,
// trace tooling); the host must not call Step directly, as that would
// bypass reference-trace checking and frame polling.
func (m *Machine) CPU() *cpu.CPU { return m.cpu }
