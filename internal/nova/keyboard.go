package nova

// keyBufferCap is the keyboard's fixed ring-buffer capacity (§3).
const keyBufferCap = 16

// Keyboard control register bits (§4.5).
const keyCtrlIRQEnable uint8 = 1 << 0

// Keyboard status register bits (§4.5).
const (
	keyStatNonEmpty uint8 = 1 << 0
	keyStatFull     uint8 = 1 << 1
	keyStatIRQ      uint8 = 1 << 7
)

// Keyboard is a 16-slot circular buffer of key codes plus a status and
// control register, raising interrupt vector 1 when a key is pressed
// and IRQ is locally enabled (§4.5).
type Keyboard struct {
	buf          [keyBufferCap]uint8
	head, tail   int
	count        int
	control      uint8
	irqRequested bool

	irq *InterruptController
}

// NewKeyboard returns an empty keyboard buffer wired to the given
// interrupt controller.
func NewKeyboard(irq *InterruptController) *Keyboard {
	return &Keyboard{irq: irq}
}

// PressKey appends code to the buffer if it is not full; if IRQ is
// enabled, it raises interrupt vector 1 (§4.5). The host calls this
// between Emulator.Step invocations.
func (k *Keyboard) PressKey(code uint8) {
	if k.count >= keyBufferCap {
		return
	}
	k.buf[k.tail] = code
	k.tail = (k.tail + 1) % keyBufferCap
	k.count++
	if k.control&keyCtrlIRQEnable != 0 {
		k.irqRequested = true
		k.irq.Raise(VectorKeyboard)
	}
}

// In pops the oldest key code, returning (code, true), or (0, false) if
// the buffer was empty (KEYIN sets Z when dst becomes 0, §4.2.2).
func (k *Keyboard) In() (uint8, bool) {
	if k.count == 0 {
		return 0, false
	}
	v := k.buf[k.head]
	k.head = (k.head + 1) % keyBufferCap
	k.count--
	if k.count == 0 {
		k.irqRequested = false
	}
	return v, true
}

// Count returns the number of buffered key codes.
func (k *Keyboard) Count() int { return k.count }

// Status returns the status byte: bit 0 non-empty, bit 1 full, bit 7
// IRQ pending (§4.5).
func (k *Keyboard) Status() uint8 {
	var s uint8
	if k.count > 0 {
		s |= keyStatNonEmpty
	}
	if k.count == keyBufferCap {
		s |= keyStatFull
	}
	if k.irqRequested {
		s |= keyStatIRQ
	}
	return s
}

// Clear empties the buffer (§4.5, KEYCLEAR).
func (k *Keyboard) Clear() {
	k.head, k.tail, k.count = 0, 0, 0
	k.irqRequested = false
}

// SetControl writes the control register and informs the interrupt
// controller of the new local enable state.
func (k *Keyboard) SetControl(v uint8) {
	k.control = v
	k.irq.SetEnabled(VectorKeyboard, v&keyCtrlIRQEnable != 0)
}

// Control returns the current control register value.
func (k *Keyboard) Control() uint8 { return k.control }
