package nova

// Sprite control block layout, 16 bytes at 0xF000 + id*16 (§3).
const (
	scbDataAddr  = 0 // 2 bytes, big-endian pointer into Memory
	scbX         = 2
	scbY         = 3
	scbWidth     = 4
	scbHeight    = 5
	scbFlags     = 6
	scbColorKey  = 7

	scbFlagActive      uint8 = 1 << 0
	scbFlagTransparent uint8 = 1 << 1
	scbFlagLayerSelect uint8 = 1 << 7
)

func spriteBlockAddr(id uint8) uint16 {
	return spriteTableBase + uint16(id)*spriteBlockSize
}

type spriteControlBlock struct {
	dataAddr           uint16
	x, y               uint8
	width, height      uint8
	active, transparent bool
	layer              int
	colorKey           uint8
}

func readSpriteControlBlock(mem *Memory, id uint8) spriteControlBlock {
	base := spriteBlockAddr(id)
	flags := mem.Read8(base + scbFlags)
	layer := spriteLayerA
	if flags&scbFlagLayerSelect != 0 {
		layer = spriteLayerB
	}
	return spriteControlBlock{
		dataAddr:    mem.Read16(base + scbDataAddr),
		x:           mem.Read8(base + scbX),
		y:           mem.Read8(base + scbY),
		width:       mem.Read8(base + scbWidth),
		height:      mem.Read8(base + scbHeight),
		active:      flags&scbFlagActive != 0,
		transparent: flags&scbFlagTransparent != 0,
		layer:       layer,
		colorKey:    mem.Read8(base + scbColorKey),
	}
}

// Blit composites one sprite (by id, 0-15) onto its selected sprite
// layer. Inactive sprites are a no-op. Every written pixel clips to
// [0,255]x[0,255] — out-of-bounds pixels are discarded, never wrapped
// (§3 invariant 7, §4.3).
func (g *Graphics) Blit(id uint8) error {
	if id >= spriteCount {
		return &Fault{Kind: InvalidSpriteId, Detail: "sprite id out of range 0-15"}
	}
	scb := readSpriteControlBlock(g.mem, id)
	if !scb.active {
		return nil
	}
	layer := &g.layers[scb.layer]
	for row := 0; row < int(scb.height); row++ {
		py := int(scb.y) + row
		if py < 0 || py >= layerDim {
			continue
		}
		for col := 0; col < int(scb.width); col++ {
			px := int(scb.x) + col
			if px < 0 || px >= layerDim {
				continue
			}
			srcAddr := scb.dataAddr + uint16(row*int(scb.width)+col)
			v := g.mem.Read8(srcAddr)
			if scb.transparent && v == scb.colorKey {
				continue
			}
			layer[py*layerDim+px] = v
		}
	}
	return nil
}

// BlitAll clears both sprite layers, then composites every active
// sprite in ascending id order (§4.2.2 SPBLITALL, §4.3).
func (g *Graphics) BlitAll() {
	g.layers[spriteLayerA] = [layerSize]uint8{}
	g.layers[spriteLayerB] = [layerSize]uint8{}
	for id := uint8(0); id < spriteCount; id++ {
		// id is always in range here, error is unreachable.
		_ = g.Blit(id)
	}
}
