package nova

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGraphicsWriteReadRoundTrip(t *testing.T) {
	g := NewGraphics(NewMemory())
	g.SetVL(2)
	g.SetVX(10)
	g.SetVY(20)
	g.Write(77)
	assert.Equal(t, uint8(77), g.Read())
	assert.Equal(t, uint8(0), g.Layer(1)[0], "writes must stay confined to the selected layer")
}

func TestGraphicsMemoryModeAddressing(t *testing.T) {
	g := NewGraphics(NewMemory())
	g.SetVL(3)
	g.SetVM(GfxModeMemory)
	g.SetVX(0x01)
	g.SetVY(0x02)
	g.Write(9)
	assert.Equal(t, uint8(9), g.Layer(3)[0x0102])
}

func TestFlipXIsInvolution(t *testing.T) {
	g := NewGraphics(NewMemory())
	g.SetVL(1)
	layer := g.Layer(1)
	for i := range layer {
		layer[i] = uint8(i % 256)
	}
	var before [layerSize]uint8
	copy(before[:], layer[:])

	g.FlipX()
	g.FlipX()
	assert.Equal(t, before, *layer)
}

func TestRotateCWThenCCWIsIdentity(t *testing.T) {
	g := NewGraphics(NewMemory())
	g.SetVL(1)
	layer := g.Layer(1)
	for i := range layer {
		layer[i] = uint8((i * 7) % 256)
	}
	var before [layerSize]uint8
	copy(before[:], layer[:])

	g.RotateCW()
	g.RotateCCW()
	assert.Equal(t, before, *layer)
}

func TestScrollXWrapsAround(t *testing.T) {
	g := NewGraphics(NewMemory())
	g.SetVL(1)
	layer := g.Layer(1)
	layer[0] = 5
	g.ScrollX(-1)
	assert.Equal(t, uint8(5), layer[layerDim-1], "scrolling left off the edge must wrap to the far right")
}

func TestCompositePrefersHigherNonZeroLayers(t *testing.T) {
	g := NewGraphics(NewMemory())
	g.Layer(1)[0] = 1
	g.Layer(2)[0] = 2
	g.Layer(5)[0] = 9 // sprite layer wins over background
	out := g.Composite()
	assert.Equal(t, uint8(9), out[0])

	g2 := NewGraphics(NewMemory())
	g2.Layer(1)[0] = 1
	g2.Layer(2)[0] = 0 // zero is transparent, must not overwrite layer 1
	out2 := g2.Composite()
	assert.Equal(t, uint8(1), out2[0])
}
