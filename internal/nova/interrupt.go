package nova

// Interrupt vector assignments (§3, §4.7).
const (
	VectorTimer    = 0
	VectorKeyboard = 1
	VectorCount    = 8

	// vectorTableBase is the address of vector 0's 4-byte entry
	// (2 bytes handler address, 2 bytes reserved/flags, §3).
	vectorTableBase = 0x0100
	vectorEntrySize = 4
)

// InterruptController holds the pending and enabled state for the 8
// interrupt vectors and arbitrates priority (§4.7): vector 0 is
// strictly higher priority than 1, which is strictly higher than 2-7.
// The controller does not own the vector table itself — that lives in
// Memory at 0x0100, read by the CPU when it services a vector.
type InterruptController struct {
	pending [VectorCount]bool
	enabled [VectorCount]bool
}

// NewInterruptController returns a controller with nothing pending and
// nothing enabled.
func NewInterruptController() *InterruptController {
	return &InterruptController{}
}

// SetEnabled is called by a peripheral when its own local IRQ-enable
// flag changes (keyboard KEYCTRL, timer TC bit 1, ...). The controller
// only arbitrates; enablement is peripheral-owned (§4.7).
func (ic *InterruptController) SetEnabled(vector int, enabled bool) {
	ic.enabled[vector] = enabled
}

// Raise marks vector as pending. Callers are expected to have already
// checked their own local enable flag, matching the keyboard's
// "if IRQ enabled, raises interrupt vector 1" (§4.5).
func (ic *InterruptController) Raise(vector int) {
	ic.pending[vector] = true
}

// Clear clears a vector's pending bit, used when the CPU begins
// servicing it.
func (ic *InterruptController) Clear(vector int) {
	ic.pending[vector] = false
}

// Highest returns the lowest-numbered vector that is both pending and
// enabled (vector 0 = timer is highest priority, per §4.7's state
// machine), or ok=false if none qualifies.
func (ic *InterruptController) Highest() (vector int, ok bool) {
	for v := 0; v < VectorCount; v++ {
		if ic.pending[v] && ic.enabled[v] {
			return v, true
		}
	}
	return 0, false
}

// vectorHandlerAddr reads the 16-bit handler address for a vector from
// its 4-byte table entry in Memory.
func vectorHandlerAddr(mem *Memory, vector int) uint16 {
	return mem.Read16(uint16(vectorTableBase + vector*vectorEntrySize))
}
