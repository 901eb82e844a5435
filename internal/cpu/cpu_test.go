package cpu

import (
	"testing"

	"github.com/hollowgate/dmgcore/internal/bus"
)

func newCPUWithROM(t *testing.T, code []byte) *CPU {
	t.Helper()
	rom := make([]byte, 0x8000)
	copy(rom, code)
	b, err := bus.New(rom, true, nil)
	if err != nil {
		t.Fatalf("bus.New: %v", err)
	}
	return New(b)
}

func step(t *testing.T, c *CPU) int {
	t.Helper()
	cycles, err := c.Step()
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	return cycles
}

func TestCPU_NopAndPC(t *testing.T) {
	c := newCPUWithROM(t, []byte{0x00}) // NOP
	if cycles := step(t, c); cycles != 4 {
		t.Fatalf("NOP cycles got %d want 4", cycles)
	}
	if c.PC != 1 {
		t.Fatalf("PC after NOP got %#04x want 0x0001", c.PC)
	}
}

func TestCPU_LD_A_d8_And_XOR_A(t *testing.T) {
	c := newCPUWithROM(t, []byte{0x3E, 0x12, 0xAF}) // LD A,0x12; XOR A
	step(t, c)
	if c.A != 0x12 {
		t.Fatalf("A after LD got %02x want 12", c.A)
	}
	step(t, c) // XOR A
	if c.A != 0x00 {
		t.Fatalf("A after XOR got %02x want 00", c.A)
	}
	if (c.F & flagZ) == 0 {
		t.Fatalf("Z flag not set after XOR A")
	}
}

func TestCPU_LD_a16_A_and_LD_A_a16(t *testing.T) {
	prog := []byte{0x3E, 0x77, 0xEA, 0x00, 0xC0, 0x3E, 0x00, 0xFA, 0x00, 0xC0}
	c := newCPUWithROM(t, prog)
	step(t, c) // LD A,77
	step(t, c) // LD (C000),A
	if a := c.bus.Read(0xC000); a != 0x77 {
		t.Fatalf("WRAM at C000 got %02x want 77", a)
	}
	step(t, c) // LD A,00
	step(t, c) // LD A,(C000)
	if c.A != 0x77 {
		t.Fatalf("A after LD A,(C000) got %02x want 77", c.A)
	}
}

func TestCPU_JP_and_JR(t *testing.T) {
	rom := make([]byte, 0x8000)
	rom[0x0000] = 0xC3 // JP 0x0010
	rom[0x0001] = 0x10
	rom[0x0002] = 0x00
	rom[0x0010] = 0x18 // JR -2
	rom[0x0011] = 0xFE
	b, err := bus.New(rom, true, nil)
	if err != nil {
		t.Fatalf("bus.New: %v", err)
	}
	c := New(b)
	cycles := step(t, c)
	if cycles != 16 || c.PC != 0x0010 {
		t.Fatalf("JP cycles=%d PC=%#04x want cycles=16 PC=0x0010", cycles, c.PC)
	}
	pcBefore := c.PC
	step(t, c) // JR -2
	if c.PC != pcBefore {
		t.Fatalf("JR -2 PC got %#04x want %#04x", c.PC, pcBefore)
	}
}

func TestCPU_INC_B_Flags(t *testing.T) {
	c := newCPUWithROM(t, []byte{0x04, 0x04}) // INC B twice
	c.B = 0x0F
	c.F = flagC
	step(t, c)
	if c.B != 0x10 {
		t.Fatalf("INC B result got %02x want 10", c.B)
	}
	if (c.F & flagH) == 0 {
		t.Fatalf("INC B should set H flag")
	}
	if (c.F & flagC) == 0 {
		t.Fatalf("INC B should preserve C flag")
	}
	c.B = 0xFF
	step(t, c)
	if c.B != 0x00 || (c.F&flagZ) == 0 {
		t.Fatalf("INC B to 0 should set Z flag, B=%02x, F=%02x", c.B, c.F)
	}
}

func TestCPU_LD_16bit_and_LDH(t *testing.T) {
	prog := []byte{
		0x21, 0x00, 0xC0, // LD HL, C000
		0x36, 0x5A, // LD (HL), 5A
		0x3E, 0x00, // LD A, 00
		0xF0, 0x00, // LD A, (FF00+0)
		0xE0, 0x01, // LD (FF00+1), A
	}
	c := newCPUWithROM(t, prog)
	c.Bus().Write(0xFF80, 0xA7)

	for i := 0; i < 5; i++ {
		step(t, c)
	}
	if v := c.Bus().Read(0xC000); v != 0x5A {
		t.Fatalf("WRAM C000 got %02x want 5A", v)
	}
	if v := c.Bus().Read(0xFF01); v != c.A {
		t.Fatalf("LDH (FF00+1),A expected write to FF01 with A=%02x got %02x", c.A, v)
	}
}

func TestCPU_CALL_RET(t *testing.T) {
	rom := make([]byte, 0x8000)
	rom[0x0000] = 0xCD
	rom[0x0001] = 0x05
	rom[0x0002] = 0x00
	rom[0x0005] = 0xC9 // RET
	b, err := bus.New(rom, true, nil)
	if err != nil {
		t.Fatalf("bus.New: %v", err)
	}
	c := New(b)
	step(t, c) // CALL
	if c.PC != 0x0005 {
		t.Fatalf("PC after CALL got %04x want 0005", c.PC)
	}
	retCycles := step(t, c)
	if c.PC != 0x0003 || retCycles != 16 {
		t.Fatalf("RET did not return to 0003; PC=%04x cyc=%d", c.PC, retCycles)
	}
}

func TestCPU_DecodeFailureReturnsError(t *testing.T) {
	c := newCPUWithROM(t, []byte{0xD3}) // unassigned opcode
	if _, err := c.Step(); err == nil {
		t.Fatalf("expected decode failure error for opcode 0xD3")
	}
}

func TestCPU_InterruptDispatch(t *testing.T) {
	// Scenario: IE=0x01 (VBlank), IF=0x01, IME=1, PC=0x0150.
	// Dispatch clears IME and the IF bit, pushes PC, jumps to 0x0040,
	// and costs 20 cycles (5 machine cycles at T-state scale).
	c := newCPUWithROM(t, nil)
	c.PC = 0x0150
	c.SP = 0xFFFE
	c.IME = true
	c.bus.Write(0xFFFF, 0x01)
	c.bus.SetIF(0x01)

	cycles := step(t, c)
	if cycles != 20 {
		t.Fatalf("interrupt dispatch cost got %d want 20", cycles)
	}
	if c.PC != 0x0040 {
		t.Fatalf("PC after dispatch got %#04x want 0x0040", c.PC)
	}
	if c.IME {
		t.Fatalf("IME should be cleared after dispatch")
	}
	if c.bus.IF()&0x01 != 0 {
		t.Fatalf("IF VBlank bit should be cleared after dispatch")
	}
	if ret := c.bus.Read(c.SP); ret != 0x50 || c.bus.Read(c.SP+1) != 0x01 {
		t.Fatalf("pushed return address wrong: lo=%02x hi=%02x", ret, c.bus.Read(c.SP+1))
	}
}

func TestCPU_HaltWakesOnPendingInterruptRegardlessOfIME(t *testing.T) {
	c := newCPUWithROM(t, nil)
	c.halted = true
	c.IME = false
	c.bus.Write(0xFFFF, 0x01)
	c.bus.SetIF(0x01)

	cycles := step(t, c)
	if c.halted {
		t.Fatalf("CPU should wake from HALT when IE&IF is non-zero even with IME=0")
	}
	if cycles == 0 {
		t.Fatalf("expected non-zero cycle cost after waking")
	}
}

func TestCPU_EITakesEffectAfterNextInstruction(t *testing.T) {
	// EI; NOP; NOP — the interrupt must not fire until after the
	// instruction following EI has executed.
	c := newCPUWithROM(t, []byte{0xFB, 0x00, 0x00})
	c.bus.Write(0xFFFF, 0x01)
	c.bus.SetIF(0x01)

	step(t, c) // EI: IME not yet live
	if c.IME {
		t.Fatalf("IME should not be live immediately after EI")
	}
	if c.PC != 1 {
		t.Fatalf("PC after EI got %#04x want 1", c.PC)
	}

	step(t, c) // NOP following EI runs, then IME goes live and the
	// pending interrupt is serviced on the step after that.
	step(t, c)
	if c.PC != 0x0040 {
		t.Fatalf("expected interrupt dispatch to fire once IME went live, PC=%#04x", c.PC)
	}
}

func TestCPU_RST_StackEffect(t *testing.T) {
	code := make([]byte, 0x0101)
	code[0x0100] = 0xEF // RST 0x28
	c := newCPUWithROM(t, code)
	c.PC = 0x0100
	c.SP = 0xFFFE
	cycles := step(t, c)
	if cycles != 16 {
		t.Fatalf("RST cost got %d want 16", cycles)
	}
	if c.PC != 0x0028 {
		t.Fatalf("PC after RST got %#04x want 0x0028", c.PC)
	}
	if lo, hi := c.bus.Read(c.SP), c.bus.Read(c.SP+1); lo != 0x01 || hi != 0x01 {
		t.Fatalf("pushed return address wrong: lo=%02x hi=%02x want 01 01", lo, hi)
	}
}

func TestCPU_DAA_AfterAdd(t *testing.T) {
	// 0x45 + 0x38 in BCD = 0x83; binary ADD gives 0x7D, DAA corrects it.
	c := newCPUWithROM(t, nil)
	c.A = 0x45
	c.B = 0x38
	c.aluAdd(c.B, false)
	c.daa()
	if c.A != 0x83 {
		t.Fatalf("DAA after ADD got %02x want 83", c.A)
	}
}

func TestCPU_DAA_AfterSub(t *testing.T) {
	c := newCPUWithROM(t, nil)
	c.A = 0x83
	c.B = 0x38
	c.aluSub(c.B, false)
	c.daa()
	if c.A != 0x45 {
		t.Fatalf("DAA after SUB got %02x want 45", c.A)
	}
}

func TestCPU_AddSPUsesXORTrickFlags(t *testing.T) {
	c := newCPUWithROM(t, []byte{0xE8, 0x01}) // ADD SP,1
	c.SP = 0x00FF
	step(t, c)
	if c.SP != 0x0100 {
		t.Fatalf("SP after ADD SP,1 got %#04x want 0x0100", c.SP)
	}
	if c.F&flagH == 0 || c.F&flagC == 0 {
		t.Fatalf("ADD SP,1 from 0x00FF should set both H and C, got F=%02x", c.F)
	}
	if c.F&flagZ != 0 || c.F&flagN != 0 {
		t.Fatalf("ADD SP,i8 must always clear Z and N, got F=%02x", c.F)
	}
}
