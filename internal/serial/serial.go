// Package serial models the link-cable transfer register (SB/SC). This
// core never drives the other end of the cable: transfers complete
// immediately and, when trace mode is enabled, the transferred byte is
// handed to an optional sink for diagnostics.
package serial

// InterruptRequester lets Serial raise IF bit 3 on transfer completion.
type InterruptRequester func(bit int)

// InterruptBit is the serial interrupt source's bit index in IF/IE.
const InterruptBit = 3

// Sink receives one byte per completed transfer when trace mode is on.
type Sink interface {
	WriteByte(b byte)
}

// Serial holds the SB (data) and SC (control) registers.
type Serial struct {
	sb byte
	sc byte // bit7 transfer start, bit0 clock source

	trace bool
	sink  Sink
	req   InterruptRequester
}

func New(req InterruptRequester) *Serial { return &Serial{req: req} }

// SetTraceSink enables byte-emission on transfer completion and sets the
// destination. A nil sink disables emission.
func (s *Serial) SetTraceSink(sink Sink) {
	s.sink = sink
	s.trace = sink != nil
}

func (s *Serial) ReadSB() byte { return s.sb }
func (s *Serial) WriteSB(v byte) { s.sb = v }

// ReadSC returns the control byte; unused bits read as 1 except the
// transfer-start bit, which we always report as clear since transfers
// complete synchronously within the same write.
func (s *Serial) ReadSC() byte { return 0x7E | (s.sc & 0x81) }

// WriteSC starts a transfer immediately when the start bit is set: the
// byte in SB is delivered to the trace sink (if enabled), the serial
// interrupt fires, and the start bit is cleared to signal completion.
func (s *Serial) WriteSC(v byte) {
	s.sc = v & 0x81
	if s.sc&0x80 == 0 {
		return
	}
	if s.trace && s.sink != nil {
		s.sink.WriteByte(s.sb)
	}
	if s.req != nil {
		s.req(InterruptBit)
	}
	s.sc &^= 0x80
}
