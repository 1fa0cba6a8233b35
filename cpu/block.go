package cpu

// armBlockTransfer handles LDM/STM, including the empty-register-list
// quirk: an empty list transfers r15 alone and still advances the
// base by 0x40, the behavior real ARM7TDMI hardware exhibits and
// which spec.md's resolved Open Question adopts rather than treating
// as undefined.
func armBlockTransfer(c *CPU, opcode uint32, instrAddr uint32) {
	pre := opcode&(1<<24) != 0
	up := opcode&(1<<23) != 0
	userBankTransfer := opcode&(1<<22) != 0
	writeback := opcode&(1<<21) != 0
	load := opcode&(1<<20) != 0
	rn := int((opcode >> 16) & 0xF)
	list := uint16(opcode & 0xFFFF)

	base := c.Reg.R(rn)

	if list == 0 {
		addr := base
		if !up {
			addr -= 0x40
		}
		transferAddr := addr
		if pre {
			if up {
				transferAddr += 4
			} else {
				transferAddr -= 4
			}
		}
		if load {
			value := c.bus.Read32(transferAddr &^ 3)
			c.FlushARM(value)
		} else {
			c.bus.Write32(transferAddr&^3, instrAddr+8)
		}
		if writeback {
			if up {
				c.Reg.SetR(rn, base+0x40)
			} else {
				c.Reg.SetR(rn, base-0x40)
			}
		}
		return
	}

	count := 0
	for i := 0; i < 16; i++ {
		if list&(1<<uint(i)) != 0 {
			count++
		}
	}

	start := base
	if !up {
		start = base - uint32(count)*4
	}

	addr := start
	if pre == up {
		addr += 4
	}

	restoreCPSR := false

	writebackValue := base
	if up {
		writebackValue = base + uint32(count)*4
	} else {
		writebackValue = base - uint32(count)*4
	}

	for i := 0; i < 16; i++ {
		if list&(1<<uint(i)) == 0 {
			continue
		}
		if load {
			value := c.bus.Read32(addr &^ 3)
			switch {
			case i == 15:
				if userBankTransfer {
					restoreCPSR = true
				}
				c.FlushARM(value)
			case userBankTransfer:
				c.Reg.SetUserR(i, value)
			default:
				c.Reg.SetR(i, value)
			}
		} else {
			var value uint32
			switch {
			case i == 15:
				value = instrAddr + 8
			case userBankTransfer:
				value = c.Reg.UserR(i)
			default:
				value = c.Reg.R(i)
			}
			c.bus.Write32(addr&^3, value)
		}
		addr += 4
	}

	if writeback && (!load || list&(1<<uint(rn)) == 0) {
		c.Reg.SetR(rn, writebackValue)
	}

	if restoreCPSR {
		c.Reg.SetCPSR(c.Reg.SPSR())
	}
}
