package nova

const (
	layerDim   = 256
	layerCount = 8
	layerSize  = layerDim * layerDim

	// layerComposite is the output layer (§3: "Layer 0 is the
	// composited output").
	layerComposite = 0
	// Sprite layers, per the Open Question resolution recorded in
	// DESIGN.md: control-block flags bit 7 selects between these two.
	spriteLayerA = 5
	spriteLayerB = 6
)

// Graphics mode values for VM (§3).
const (
	GfxModeCoordinate uint8 = 0
	GfxModeMemory      uint8 = 1
)

// Graphics is the 8-layer compositor: 256x256 8-bit-color-index planes,
// the VX/VY/VM/VL hardware registers, and the sprite control blocks
// aliased into Memory at 0xF000-0xF0FF. Graphics never mutates Memory —
// it only borrows it read-only at composite/blit time (§9 Design Notes,
// §5 Shared-resource policy).
type Graphics struct {
	layers [layerCount][layerSize]uint8

	vx, vy uint16
	vm, vl uint8

	mem *Memory
}

// NewGraphics returns an all-zero compositor backed by mem for sprite
// control-block reads.
func NewGraphics(mem *Memory) *Graphics {
	return &Graphics{mem: mem}
}

func (g *Graphics) VX() uint16     { return g.vx }
func (g *Graphics) SetVX(v uint16) { g.vx = v }
func (g *Graphics) VY() uint16     { return g.vy }
func (g *Graphics) SetVY(v uint16) { g.vy = v }
func (g *Graphics) VM() uint8      { return g.vm }
func (g *Graphics) SetVM(v uint8)  { g.vm = v }
func (g *Graphics) VL() uint8      { return g.vl }
func (g *Graphics) SetVL(v uint8)  { g.vl = v & 0x07 }

// activeOffset resolves (VM, VX, VY) to a 0..0xFFFF linear offset into
// the active layer, per §4.3's two addressing modes.
func (g *Graphics) activeOffset() uint16 {
	if g.vm == GfxModeCoordinate {
		x := uint8(g.vx)
		y := uint8(g.vy)
		return uint16(y)*layerDim + uint16(x)
	}
	return (g.vx << 8) | (g.vy & 0xFF)
}

// Write stores c at the location selected by (VM, VX, VY) on layer VL
// (§4.2.2 SWRITE).
func (g *Graphics) Write(c uint8) {
	g.layers[g.vl][g.activeOffset()] = c
}

// Read returns the color at the location selected by (VM, VX, VY) on
// layer VL (§4.2.2 SREAD).
func (g *Graphics) Read() uint8 {
	return g.layers[g.vl][g.activeOffset()]
}

// Layer returns a read-only view of layer i's 256x256 buffer (§6.3).
func (g *Graphics) Layer(i int) *[layerSize]uint8 {
	return &g.layers[i]
}

// ScrollX scrolls the active layer horizontally by amount pixels,
// wrapping (§4.3).
func (g *Graphics) ScrollX(amount int8) {
	layer := &g.layers[g.vl]
	shift := int(amount) % layerDim
	if shift < 0 {
		shift += layerDim
	}
	if shift == 0 {
		return
	}
	var row [layerDim]uint8
	for y := 0; y < layerDim; y++ {
		base := y * layerDim
		copy(row[:], layer[base:base+layerDim])
		for x := 0; x < layerDim; x++ {
			layer[base+(x+shift)%layerDim] = row[x]
		}
	}
}

// ScrollY scrolls the active layer vertically by amount pixels,
// wrapping (§4.3).
func (g *Graphics) ScrollY(amount int8) {
	layer := &g.layers[g.vl]
	shift := int(amount) % layerDim
	if shift < 0 {
		shift += layerDim
	}
	if shift == 0 {
		return
	}
	var col [layerDim]uint8
	for x := 0; x < layerDim; x++ {
		for y := 0; y < layerDim; y++ {
			col[y] = layer[y*layerDim+x]
		}
		for y := 0; y < layerDim; y++ {
			layer[((y+shift)%layerDim)*layerDim+x] = col[y]
		}
	}
}

// FlipX mirrors the active layer horizontally (§4.3). Applying it twice
// is the identity (§8.2).
func (g *Graphics) FlipX() {
	layer := &g.layers[g.vl]
	for y := 0; y < layerDim; y++ {
		base := y * layerDim
		for x := 0; x < layerDim/2; x++ {
			layer[base+x], layer[base+layerDim-1-x] = layer[base+layerDim-1-x], layer[base+x]
		}
	}
}

// FlipY mirrors the active layer vertically (§4.3).
func (g *Graphics) FlipY() {
	layer := &g.layers[g.vl]
	var row [layerDim]uint8
	for y := 0; y < layerDim/2; y++ {
		top := y * layerDim
		bot := (layerDim - 1 - y) * layerDim
		copy(row[:], layer[top:top+layerDim])
		copy(layer[top:top+layerDim], layer[bot:bot+layerDim])
		copy(layer[bot:bot+layerDim], row[:])
	}
}

// RotateCW rotates the active layer 90 degrees clockwise in place:
// for a square buffer this is transpose then horizontal flip (§4.3).
func (g *Graphics) RotateCW() {
	g.transpose()
	g.FlipX()
}

// RotateCCW rotates the active layer 90 degrees counter-clockwise.
// RotateCW followed by RotateCCW is the identity (§8.2).
func (g *Graphics) RotateCCW() {
	g.transpose()
	g.FlipY()
}

func (g *Graphics) transpose() {
	layer := &g.layers[g.vl]
	for y := 0; y < layerDim; y++ {
		for x := y + 1; x < layerDim; x++ {
			a, b := y*layerDim+x, x*layerDim+y
			layer[a], layer[b] = layer[b], layer[a]
		}
	}
}

// DrawText walks memory from addr until a zero byte, rasterizing each
// byte's bundled 8x8 glyph at the cursor (VX, VY) on layer VL in color,
// advancing the cursor 8 pixels per character; a newline (0x0A) resets
// X and advances Y by 8 (§4.3 TEXT). Never writes outside the active
// layer's 256x256 bounds (§4.3 invariant).
func (g *Graphics) DrawText(mem *Memory, addr uint16, color uint8) {
	layer := &g.layers[g.vl]
	cx, cy := int(g.vx), int(g.vy)
	for {
		b := mem.Read8(addr)
		if b == 0 {
			break
		}
		addr++
		if b == 0x0A {
			cx = int(g.vx)
			cy += 8
			continue
		}
		glyph := glyphFor(b)
		for row := 0; row < 8; row++ {
			py := cy + row
			if py < 0 || py >= layerDim {
				continue
			}
			bits := glyph[row]
			for col := 0; col < 8; col++ {
				px := cx + col
				if px < 0 || px >= layerDim {
					continue
				}
				if bits&(0x80>>uint(col)) != 0 {
					layer[py*layerDim+px] = color
				}
			}
		}
		cx += 8
	}
}

// Composite builds the output buffer (layer 0): layer 1 is the base,
// each higher background layer (2-4) replaces non-zero pixels over it,
// then the two sprite layers (5, 6) replace non-zero pixels over that
// (§4.3, "sprite layers composite over background layers"). The result
// is written into layer 0 and also returned.
func (g *Graphics) Composite() *[layerSize]uint8 {
	out := &g.layers[layerComposite]
	*out = g.layers[1]
	for _, l := range []int{2, 3, 4, spriteLayerA, spriteLayerB} {
		src := &g.layers[l]
		for i, px := range src {
			if px != 0 {
				out[i] = px
			}
		}
	}
	return out
}

// Framebuffer returns the composited output buffer (§6.3), compositing
// first.
func (g *Graphics) Framebuffer() *[layerSize]uint8 {
	return g.Composite()
}
