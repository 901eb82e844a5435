package decoder

// condFromY maps the 2-bit condition field used by JR/JP/CALL/RET cc opcodes.
func condFromY(y byte) Cond {
	switch y & 3 {
	case 0:
		return CondNZ
	case 1:
		return CondZ
	case 2:
		return CondNC
	default:
		return CondC
	}
}

// reg16SP maps the 2-bit register-pair field used by LD rr,d16 / INC rr /
// DEC rr / ADD HL,rr, where slot 3 is SP.
func reg16SP(i byte) Reg16 {
	switch i & 3 {
	case 0:
		return RegBC
	case 1:
		return RegDE
	case 2:
		return RegHL
	default:
		return RegSP
	}
}

// reg16AF is the PUSH/POP variant, where slot 3 is AF instead of SP.
func reg16AF(i byte) Reg16 {
	switch i & 3 {
	case 0:
		return RegBC
	case 1:
		return RegDE
	case 2:
		return RegHL
	default:
		return RegAF
	}
}

// Decode maps a primary opcode byte to its instruction record. It never
// reads memory: operands that live in the instruction stream (d8/d16/a8/a16)
// come back as their Kind only, with Length giving the total instruction
// length, opcode included.
func Decode(op byte) Instruction {
	switch {
	case op == 0x00:
		return Instruction{Op: Nop, Length: 1}
	case op == 0x10:
		return Instruction{Op: Stop, Length: 2}
	case op == 0x76:
		return Instruction{Op: Halt, Length: 1}
	case op == 0xF3:
		return Instruction{Op: Di, Length: 1}
	case op == 0xFB:
		return Instruction{Op: Ei, Length: 1}
	case op == 0x27:
		return Instruction{Op: Daa, Length: 1}
	case op == 0x2F:
		return Instruction{Op: Cpl, Length: 1}
	case op == 0x37:
		return Instruction{Op: Scf, Length: 1}
	case op == 0x3F:
		return Instruction{Op: Ccf, Length: 1}
	case op == 0x07:
		return Instruction{Op: Rlca, Length: 1}
	case op == 0x0F:
		return Instruction{Op: Rrca, Length: 1}
	case op == 0x17:
		return Instruction{Op: Rla, Length: 1}
	case op == 0x1F:
		return Instruction{Op: Rra, Length: 1}

	// LD r8,d8 (and LD (HL),d8 at 0x36)
	case op&0xC7 == 0x06:
		d := reg8FromIndex((op >> 3) & 7)
		return Instruction{Op: LoadU8, Dst: opReg8(d), Src: operImmU8, Length: 2}

	// LD r,r' block, 0x40-0x7F, minus HALT at 0x76
	case op >= 0x40 && op <= 0x7F:
		d := reg8FromIndex((op >> 3) & 7)
		s := reg8FromIndex(op & 7)
		return Instruction{Op: LoadU8, Dst: opReg8(d), Src: opReg8(s), Length: 1}

	// LD rr,d16
	case op&0xCF == 0x01:
		rr := reg16SP((op >> 4) & 3)
		return Instruction{Op: LoadU16, Dst: opReg16(rr), Src: operImmU16, Length: 3}

	case op == 0x08: // LD (a16),SP
		return Instruction{Op: LoadU16, Dst: operIndA16, Src: opReg16(RegSP), Length: 3}

	case op == 0x02: // LD (BC),A
		return Instruction{Op: LoadU8, Dst: operIndBC, Src: opReg8(RegA), Length: 1}
	case op == 0x12: // LD (DE),A
		return Instruction{Op: LoadU8, Dst: operIndDE, Src: opReg8(RegA), Length: 1}
	case op == 0x0A: // LD A,(BC)
		return Instruction{Op: LoadU8, Dst: opReg8(RegA), Src: operIndBC, Length: 1}
	case op == 0x1A: // LD A,(DE)
		return Instruction{Op: LoadU8, Dst: opReg8(RegA), Src: operIndDE, Length: 1}

	case op == 0x22: // LD (HL+),A
		return Instruction{Op: LoadU8, Dst: operIndHLInc, Src: opReg8(RegA), Length: 1}
	case op == 0x2A: // LD A,(HL+)
		return Instruction{Op: LoadU8, Dst: opReg8(RegA), Src: operIndHLInc, Length: 1}
	case op == 0x32: // LD (HL-),A
		return Instruction{Op: LoadU8, Dst: operIndHLDec, Src: opReg8(RegA), Length: 1}
	case op == 0x3A: // LD A,(HL-)
		return Instruction{Op: LoadU8, Dst: opReg8(RegA), Src: operIndHLDec, Length: 1}

	case op == 0xE0: // LDH (a8),A
		return Instruction{Op: LoadU8, Dst: operIndA8Hi, Src: opReg8(RegA), Length: 2}
	case op == 0xF0: // LDH A,(a8)
		return Instruction{Op: LoadU8, Dst: opReg8(RegA), Src: operIndA8Hi, Length: 2}
	case op == 0xE2: // LD (C),A
		return Instruction{Op: LoadU8, Dst: operIndCHi, Src: opReg8(RegA), Length: 1}
	case op == 0xF2: // LD A,(C)
		return Instruction{Op: LoadU8, Dst: opReg8(RegA), Src: operIndCHi, Length: 1}
	case op == 0xEA: // LD (a16),A
		return Instruction{Op: LoadU8, Dst: operIndA16, Src: opReg8(RegA), Length: 3}
	case op == 0xFA: // LD A,(a16)
		return Instruction{Op: LoadU8, Dst: opReg8(RegA), Src: operIndA16, Length: 3}

	case op == 0xF9: // LD SP,HL
		return Instruction{Op: LoadU16, Dst: opReg16(RegSP), Src: opReg16(RegHL), Length: 1}
	case op == 0xF8: // LD HL,SP+i8
		return Instruction{Op: LoadHLSPPlusI8, Length: 2}

	// INC/DEC r8 (and (HL))
	case op&0xC7 == 0x04:
		r := reg8FromIndex((op >> 3) & 7)
		return Instruction{Op: IncU8, Dst: opReg8(r), Length: 1}
	case op&0xC7 == 0x05:
		r := reg8FromIndex((op >> 3) & 7)
		return Instruction{Op: DecU8, Dst: opReg8(r), Length: 1}

	// INC/DEC rr
	case op&0xCF == 0x03:
		rr := reg16SP((op >> 4) & 3)
		return Instruction{Op: IncU16, Dst: opReg16(rr), Length: 1}
	case op&0xCF == 0x0B:
		rr := reg16SP((op >> 4) & 3)
		return Instruction{Op: DecU16, Dst: opReg16(rr), Length: 1}

	// ADD HL,rr
	case op&0xCF == 0x09:
		rr := reg16SP((op >> 4) & 3)
		return Instruction{Op: Add16, Src: opReg16(rr), Length: 1}

	case op == 0xE8: // ADD SP,i8
		return Instruction{Op: AddSP, Length: 2}

	// ALU A,r8 (0x80-0xBF)
	case op >= 0x80 && op <= 0xBF:
		s := reg8FromIndex(op & 7)
		var alu Op
		switch (op >> 3) & 7 {
		case 0:
			alu = Add8
		case 1:
			alu = Adc
		case 2:
			alu = Sub
		case 3:
			alu = Sbc
		case 4:
			alu = And
		case 5:
			alu = Xor
		case 6:
			alu = Or
		default:
			alu = Cp
		}
		return Instruction{Op: alu, Src: opReg8(s), Length: 1}

	// ALU A,d8
	case op == 0xC6:
		return Instruction{Op: Add8, Src: operImmU8, Length: 2}
	case op == 0xCE:
		return Instruction{Op: Adc, Src: operImmU8, Length: 2}
	case op == 0xD6:
		return Instruction{Op: Sub, Src: operImmU8, Length: 2}
	case op == 0xDE:
		return Instruction{Op: Sbc, Src: operImmU8, Length: 2}
	case op == 0xE6:
		return Instruction{Op: And, Src: operImmU8, Length: 2}
	case op == 0xEE:
		return Instruction{Op: Xor, Src: operImmU8, Length: 2}
	case op == 0xF6:
		return Instruction{Op: Or, Src: operImmU8, Length: 2}
	case op == 0xFE:
		return Instruction{Op: Cp, Src: operImmU8, Length: 2}

	case op == 0x18: // JR r8
		return Instruction{Op: JumpRel, Length: 2}
	case op&0xE7 == 0x20: // JR cc,r8
		return Instruction{Op: JumpRel, Cond: condFromY((op >> 3) & 3), Length: 2}

	case op == 0xC3: // JP a16
		return Instruction{Op: JumpImm, Length: 3}
	case op&0xC7 == 0xC2: // JP cc,a16
		return Instruction{Op: JumpImm, Cond: condFromY((op >> 3) & 3), Length: 3}
	case op == 0xE9: // JP (HL)
		return Instruction{Op: JumpHL, Length: 1}

	case op == 0xCD: // CALL a16
		return Instruction{Op: Call, Length: 3}
	case op&0xE7 == 0xC4: // CALL cc,a16
		return Instruction{Op: Call, Cond: condFromY((op >> 3) & 3), Length: 3}

	case op == 0xC9: // RET
		return Instruction{Op: Ret, Length: 1}
	case op&0xC7 == 0xC0: // RET cc
		return Instruction{Op: Ret, Cond: condFromY((op >> 3) & 3), Length: 1}
	case op == 0xD9: // RETI
		return Instruction{Op: Reti, Length: 1}

	case op&0xC7 == 0xC7: // RST n
		n := op & 0x38
		return Instruction{Op: Rst, Bit: n, Length: 1}

	case op&0xCF == 0xC5: // PUSH rr
		rr := reg16AF((op >> 4) & 3)
		return Instruction{Op: Push, Src: opReg16(rr), Length: 1}
	case op&0xCF == 0xC1: // POP rr
		rr := reg16AF((op >> 4) & 3)
		return Instruction{Op: Pop, Dst: opReg16(rr), Length: 1}

	case op == 0xCB: // prefix, decoded by DecodeCB
		return Instruction{Op: Undecoded, Length: 1}

	default:
		return Instruction{Op: Undecoded, Length: 1}
	}
}

// DecodeCB maps the byte following a 0xCB prefix to its instruction record.
// Every CB opcode is exactly 2 bytes total (prefix + this byte); Length
// here is reported as 1, the length of the extended byte itself, since the
// CPU already accounted for the 0xCB prefix byte.
func DecodeCB(cb byte) Instruction {
	reg := reg8FromIndex(cb & 7)
	y := (cb >> 3) & 7
	group := (cb >> 6) & 3

	switch group {
	case 0:
		var op Op
		switch y {
		case 0:
			op = CbRlc
		case 1:
			op = CbRrc
		case 2:
			op = CbRl
		case 3:
			op = CbRr
		case 4:
			op = CbSla
		case 5:
			op = CbSra
		case 6:
			op = CbSwap
		default:
			op = CbSrl
		}
		return Instruction{Op: op, Dst: opReg8(reg), Length: 1}
	case 1:
		return Instruction{Op: CbBit, Dst: opReg8(reg), Bit: y, Length: 1}
	case 2:
		return Instruction{Op: CbRes, Dst: opReg8(reg), Bit: y, Length: 1}
	default:
		return Instruction{Op: CbSet, Dst: opReg8(reg), Bit: y, Length: 1}
	}
}
