package nova

const memSize = 0x10000

// Sprite control blocks live at 0xF000-0xF0FF, 16 bytes each (§3).
const (
	spriteTableBase = 0xF000
	spriteBlockSize = 16
	spriteCount     = 16
	spriteTableEnd  = spriteTableBase + spriteCount*spriteBlockSize // 0xF100, exclusive
)

// Memory is NOVA-16's unified 64 KiB byte-addressable store. Program
// code, data, the stack, sprite control blocks and interrupt vectors all
// share this one address space (§2, Princeton architecture).
type Memory struct {
	bytes [memSize]byte
	dirty map[uint8]struct{}
}

// NewMemory returns a zero-initialized 64 KiB memory.
func NewMemory() *Memory {
	return &Memory{dirty: make(map[uint8]struct{})}
}

// Read8 returns the byte at addr. addr is always in range because it is
// a uint16 over a 64 KiB array; Read8 never fails.
func (m *Memory) Read8(addr uint16) uint8 {
	return m.bytes[addr]
}

// Write8 stores v at addr. If addr falls inside the sprite control table
// (0xF000-0xF0FF), the owning sprite id is marked dirty.
func (m *Memory) Write8(addr uint16, v uint8) {
	m.bytes[addr] = v
	m.markDirtyIfSprite(addr)
}

// Read16 returns the big-endian 16-bit word at addr: the high byte at
// addr, the low byte at addr+1 (addr+1 wraps to 0x0000 at the top of
// the address space, per §4.1).
func (m *Memory) Read16(addr uint16) uint16 {
	hi := m.bytes[addr]
	lo := m.bytes[addr+1]
	return uint16(hi)<<8 | uint16(lo)
}

// Write16 stores v as a big-endian word at addr, per Read16's layout.
func (m *Memory) Write16(addr uint16, v uint16) {
	m.bytes[addr] = uint8(v >> 8)
	m.bytes[addr+1] = uint8(v)
	m.markDirtyIfSprite(addr)
	m.markDirtyIfSprite(addr + 1)
}

func (m *Memory) markDirtyIfSprite(addr uint16) {
	if addr < spriteTableBase || addr >= spriteTableEnd {
		return
	}
	id := uint8((addr - spriteTableBase) / spriteBlockSize)
	m.dirty[id] = struct{}{}
}

// LoadImage copies prog into memory starting at origin. It fails with
// AddressOutOfRange if the image would not fit before 0x10000.
func (m *Memory) LoadImage(prog []byte, origin uint16) error {
	if int(origin)+len(prog) > memSize {
		return faultf(AddressOutOfRange, origin, "image of %d bytes at origin 0x%04X exceeds memory", len(prog), origin)
	}
	copy(m.bytes[origin:], prog)
	return nil
}

// ConsumeDirtySpriteIDs returns the set of sprite ids whose control
// blocks have been written since the last call, then clears the set.
// Graphics does not consult this set: Blit and BlitAll read the control
// blocks directly, and Composite does not re-blit sprites.
func (m *Memory) ConsumeDirtySpriteIDs() []uint8 {
	if len(m.dirty) == 0 {
		return nil
	}
	ids := make([]uint8, 0, len(m.dirty))
	for id := range m.dirty {
		ids = append(ids, id)
	}
	m.dirty = make(map[uint8]struct{})
	return ids
}

// ReadBytes returns a copy of length-len bytes starting at addr, clamped
// to the end of memory. Used by the host API's read_memory and the
// debugger's mem command.
func (m *Memory) ReadBytes(addr uint16, length int) []byte {
	end := int(addr) + length
	if end > memSize {
		end = memSize
	}
	out := make([]byte, end-int(addr))
	copy(out, m.bytes[addr:end])
	return out
}
