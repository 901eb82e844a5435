// Package decoder turns an SM83 opcode byte into a typed instruction record.
// Decode never touches memory or CPU state; it is a pure function of the
// opcode (and, for CB-prefixed opcodes, the extended byte). Operand values
// that live in the instruction stream (d8/d16/a8/a16/r8) are represented by
// their Kind only — the CPU fetches and fills them in while executing.
package decoder

// Op names every distinct operation the decoder can produce. Execution
// switches on this, never on the raw opcode byte.
type Op int

const (
	Undecoded Op = iota
	Nop
	Halt
	Stop
	Di
	Ei
	LoadU8
	LoadU16
	LoadHLSPPlusI8
	JumpImm
	JumpHL
	JumpRel
	Call
	Ret
	Reti
	Rst
	Push
	Pop
	IncU8
	IncU16
	DecU8
	DecU16
	Add8
	Adc
	Sub
	Sbc
	And
	Or
	Xor
	Cp
	Add16
	AddSP
	Rlca
	Rla
	Rrca
	Rra
	Cpl
	Scf
	Ccf
	Daa
	CbRlc
	CbRrc
	CbRl
	CbRr
	CbSla
	CbSra
	CbSwap
	CbSrl
	CbBit
	CbRes
	CbSet
)

// Reg8 is one of the eight one-byte operands, including the (HL) indirect
// form at index 6, matching the opcode matrix's own encoding.
type Reg8 int

const (
	RegB Reg8 = iota
	RegC
	RegD
	RegE
	RegH
	RegL
	RegHLInd // (HL), not a register, but occupies index 6 in every r8 field
	RegA
	RegNone
)

// Reg16 names a 16-bit register pair. Which pair SP vs AF occupies the
// "4th slot" depends on whether the instruction is a PUSH/POP (AF) or
// everything else (SP) — the decoder picks the right one per opcode.
type Reg16 int

const (
	RegBC Reg16 = iota
	RegDE
	RegHL
	RegSP
	RegAF
)

// Cond is a branch condition; CondNone means unconditional.
type Cond int

const (
	CondNone Cond = iota
	CondNZ
	CondZ
	CondNC
	CondC
)

// OperandKind enumerates the addressing forms the matrix documents.
type OperandKind int

const (
	OperNone OperandKind = iota
	OperReg8
	OperReg16
	OperImmU8
	OperImmU16
	OperIndBC
	OperIndDE
	OperIndHL
	OperIndHLInc
	OperIndHLDec
	OperIndImmU8High // (0xFF00+d8)
	OperIndImmU16
	OperIndCHigh // (0xFF00+C)
)

// Operand is a sum type over every documented addressing form.
type Operand struct {
	Kind OperandKind
	Reg8 Reg8
	Reg16
}

func opReg8(r Reg8) Operand   { return Operand{Kind: OperReg8, Reg8: r} }
func opReg16(r Reg16) Operand { return Operand{Kind: OperReg16, Reg16: r} }

var (
	operNone     = Operand{Kind: OperNone}
	operImmU8    = Operand{Kind: OperImmU8}
	operImmU16   = Operand{Kind: OperImmU16}
	operIndBC    = Operand{Kind: OperIndBC}
	operIndDE    = Operand{Kind: OperIndDE}
	operIndHL    = Operand{Kind: OperIndHL}
	operIndHLInc = Operand{Kind: OperIndHLInc}
	operIndHLDec = Operand{Kind: OperIndHLDec}
	operIndA8Hi  = Operand{Kind: OperIndImmU8High}
	operIndA16   = Operand{Kind: OperIndImmU16}
	operIndCHi   = Operand{Kind: OperIndCHigh}
)

// Instruction is the decoder's output: a tagged variant with typed operand
// fields. No opcode-table text survives past this point — the CPU executes
// by switching on Op.
type Instruction struct {
	Op     Op
	Dst    Operand
	Src    Operand
	Cond   Cond
	Bit    byte // BIT/RES/SET bit index, or RST target address
	Length byte // total instruction length in bytes, including the opcode
}

// reg8FromIndex maps the 3-bit register field shared by LD r,r', ALU, and
// CB opcodes onto Reg8, with index 6 meaning (HL).
func reg8FromIndex(i byte) Reg8 { return Reg8(i & 7) }
