package nova

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSpriteControlBlock(mem *Memory, id uint8, scb spriteControlBlock) {
	base := spriteBlockAddr(id)
	mem.Write16(base+scbDataAddr, scb.dataAddr)
	mem.Write8(base+scbX, scb.x)
	mem.Write8(base+scbY, scb.y)
	mem.Write8(base+scbWidth, scb.width)
	mem.Write8(base+scbHeight, scb.height)
	var flags uint8
	if scb.active {
		flags |= scbFlagActive
	}
	if scb.transparent {
		flags |= scbFlagTransparent
	}
	if scb.layer == spriteLayerB {
		flags |= scbFlagLayerSelect
	}
	mem.Write8(base+scbFlags, flags)
	mem.Write8(base+scbColorKey, scb.colorKey)
}

func TestBlitCopiesPixelsIntoSelectedLayer(t *testing.T) {
	mem := NewMemory()
	mem.Write8(0x2000, 11)
	mem.Write8(0x2001, 12)
	writeSpriteControlBlock(mem, 0, spriteControlBlock{
		dataAddr: 0x2000, x: 5, y: 5, width: 2, height: 1, active: true, layer: spriteLayerA,
	})

	g := NewGraphics(mem)
	require.NoError(t, g.Blit(0))
	assert.Equal(t, uint8(11), g.Layer(spriteLayerA)[5*layerDim+5])
	assert.Equal(t, uint8(12), g.Layer(spriteLayerA)[5*layerDim+6])
}

func TestBlitClipsOffscreenPixels(t *testing.T) {
	mem := NewMemory()
	mem.Write8(0x2000, 1)
	mem.Write8(0x2001, 2)
	writeSpriteControlBlock(mem, 0, spriteControlBlock{
		dataAddr: 0x2000, x: 255, y: 0, width: 2, height: 1, active: true, layer: spriteLayerA,
	})

	g := NewGraphics(mem)
	require.NoError(t, g.Blit(0))
	assert.Equal(t, uint8(1), g.Layer(spriteLayerA)[255], "the on-screen pixel must still land")
	// The second pixel would land at x=256, which does not exist; it must
	// simply be dropped rather than wrapping into the next row.
	assert.Equal(t, uint8(0), g.Layer(spriteLayerA)[layerDim])
}

func TestBlitRespectsTransparentColorKey(t *testing.T) {
	mem := NewMemory()
	mem.Write8(0x2000, 9)
	writeSpriteControlBlock(mem, 0, spriteControlBlock{
		dataAddr: 0x2000, x: 0, y: 0, width: 1, height: 1,
		active: true, transparent: true, colorKey: 9, layer: spriteLayerA,
	})

	g := NewGraphics(mem)
	g.Layer(spriteLayerA)[0] = 200
	require.NoError(t, g.Blit(0))
	assert.Equal(t, uint8(200), g.Layer(spriteLayerA)[0], "a colorKey-matching pixel must not overwrite what's underneath")
}

func TestBlitInactiveSpriteIsNoOp(t *testing.T) {
	mem := NewMemory()
	mem.Write8(0x2000, 1)
	writeSpriteControlBlock(mem, 0, spriteControlBlock{
		dataAddr: 0x2000, x: 0, y: 0, width: 1, height: 1, active: false, layer: spriteLayerA,
	})

	g := NewGraphics(mem)
	require.NoError(t, g.Blit(0))
	assert.Equal(t, uint8(0), g.Layer(spriteLayerA)[0])
}

func TestBlitInvalidIdFaults(t *testing.T) {
	g := NewGraphics(NewMemory())
	err := g.Blit(16)
	require.Error(t, err)
	fault, ok := err.(*Fault)
	require.True(t, ok)
	assert.Equal(t, InvalidSpriteId, fault.Kind)
}

func TestBlitAllHonorsPriorityByAscendingId(t *testing.T) {
	mem := NewMemory()
	mem.Write8(0x2000, 1)
	mem.Write8(0x2001, 2)
	writeSpriteControlBlock(mem, 0, spriteControlBlock{
		dataAddr: 0x2000, x: 0, y: 0, width: 1, height: 1, active: true, layer: spriteLayerA,
	})
	writeSpriteControlBlock(mem, 1, spriteControlBlock{
		dataAddr: 0x2001, x: 0, y: 0, width: 1, height: 1, active: true, layer: spriteLayerA,
	})

	g := NewGraphics(mem)
	g.BlitAll()
	assert.Equal(t, uint8(2), g.Layer(spriteLayerA)[0], "higher id blits later, so it wins when overlapping")
}
