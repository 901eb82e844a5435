// Package joypad models the button latch and the selector-driven register
// read the CPU sees at 0xFF00, extracted out of the bus so the MMU owns it
// as a standalone component.
package joypad

// InterruptRequester lets the joypad raise IF bit 4 on a button edge.
type InterruptRequester func(bit int)

// InterruptBit is the joypad interrupt source's bit index in IF/IE.
const InterruptBit = 4

// Button bitmasks for SetButtons. A set bit means the button is pressed.
const (
	Right = 1 << iota
	Left
	Up
	Down
	A
	B
	Select
	Start
)

// Joypad composes the FF00 register from the host's latched button state
// and the CPU-selected group (D-pad vs buttons). Hardware is active-low:
// 1 means released.
type Joypad struct {
	selector byte // bits 4-5 as last written by the CPU
	buttons  byte // bitmask of pressed buttons, see constants above
	lowerNib byte // last composed active-low nibble, for edge detection

	req InterruptRequester
}

func New(req InterruptRequester) *Joypad { return &Joypad{req: req, lowerNib: 0x0F} }

// Read returns the FF00 register value: bits 7-6 read as 1, bits 5-4
// reflect the selector, bits 3-0 the active-low state of the selected
// group(s).
func (j *Joypad) Read() byte {
	return 0xC0 | (j.selector & 0x30) | j.activeLowNibble()
}

// WriteSelect handles a CPU write to FF00, which only the selector bits
// are writable.
func (j *Joypad) WriteSelect(v byte) {
	j.selector = v & 0x30
	j.recompute()
}

// SetButtons replaces the full pressed-button bitmask (using the constants
// above) and raises the joypad interrupt on any newly-pressed button that
// is currently selected.
func (j *Joypad) SetButtons(mask byte) {
	j.buttons = mask
	j.recompute()
}

func (j *Joypad) activeLowNibble() byte {
	n := byte(0x0F)
	if j.selector&0x10 == 0 { // P14 low selects D-pad
		if j.buttons&Right != 0 {
			n &^= 0x01
		}
		if j.buttons&Left != 0 {
			n &^= 0x02
		}
		if j.buttons&Up != 0 {
			n &^= 0x04
		}
		if j.buttons&Down != 0 {
			n &^= 0x08
		}
	}
	if j.selector&0x20 == 0 { // P15 low selects buttons
		if j.buttons&A != 0 {
			n &^= 0x01
		}
		if j.buttons&B != 0 {
			n &^= 0x02
		}
		if j.buttons&Select != 0 {
			n &^= 0x04
		}
		if j.buttons&Start != 0 {
			n &^= 0x08
		}
	}
	return n
}

// recompute re-derives the active-low nibble and fires the joypad
// interrupt on any 1->0 transition (a button becoming "more pressed").
func (j *Joypad) recompute() {
	next := j.activeLowNibble()
	falling := j.lowerNib &^ next
	if falling != 0 && j.req != nil {
		j.req(InterruptBit)
	}
	j.lowerNib = next
}
