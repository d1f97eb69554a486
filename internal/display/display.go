// Package display is an optional reference host for NOVA-16: a pixelgl
// window that blits the emulator's composited framebuffer, scaled up,
// adapted from the teacher's internal/pixel window (chippy drew its
// 64x32 1-bit gfx array the same way: clear, plot, Update). This is
// explicitly not part of the core — §1 hands the GUI loop to the host.
package display

import (
	"fmt"
	"time"

	"github.com/faiface/pixel"
	"github.com/faiface/pixel/imdraw"
	"github.com/faiface/pixel/pixelgl"
	"github.com/nova16/emu/internal/audio"
	"github.com/nova16/emu/internal/nova"
	"golang.org/x/image/colornames"
)

const (
	layerDim    = 256
	scale       = 3
	refreshRate = 60
)

// paletteColor maps an 8-bit color index to an RGB color. Index 0 is
// treated as background/transparent elsewhere in the core; here it is
// simply black.
func paletteColor(index uint8) pixel.RGBA {
	if index == 0 {
		return pixel.RGB(0, 0, 0)
	}
	v := float64(index) / 255
	return pixel.RGB(v, v, v)
}

// Window wraps a pixelgl window sized to the framebuffer at a fixed
// integer scale.
type Window struct {
	*pixelgl.Window
}

// NewWindow opens a window sized for a layerDim x layerDim framebuffer
// scaled up by scale, mirroring the teacher's NewWindow config.
func NewWindow() (*Window, error) {
	cfg := pixelgl.WindowConfig{
		Title:  "nova16",
		Bounds: pixel.R(0, 0, layerDim*scale, layerDim*scale),
		VSync:  true,
	}
	w, err := pixelgl.NewWindow(cfg)
	if err != nil {
		return nil, fmt.Errorf("error creating new window: %v", err)
	}
	return &Window{Window: w}, nil
}

// Draw blits one 256x256 framebuffer onto the window.
func (w *Window) Draw(fb *[layerDim * layerDim]uint8) {
	w.Clear(colornames.Black)
	imd := imdraw.New(nil)
	for y := 0; y < layerDim; y++ {
		for x := 0; x < layerDim; x++ {
			c := fb[y*layerDim+x]
			if c == 0 {
				continue
			}
			imd.Color = paletteColor(c)
			px := float64(x) * scale
			py := float64(layerDim-1-y) * scale
			imd.Push(pixel.V(px, py))
			imd.Push(pixel.V(px+scale, py+scale))
			imd.Rectangle(0)
		}
	}
	imd.Draw(w)
	w.Update()
}

// Run opens a window and blits emu's framebuffer every tick until the
// window is closed or the machine halts/faults, mirroring the
// teacher's main ticker loop.
func Run(emu *nova.Emulator) error {
	var runErr error
	pixelgl.Run(func() {
		win, err := NewWindow()
		if err != nil {
			runErr = err
			return
		}
		if err := audio.Init(); err != nil {
			runErr = err
			return
		}
		ticker := time.NewTicker(time.Second / refreshRate)
		defer ticker.Stop()

		for range ticker.C {
			if win.Closed() {
				return
			}
			res := emu.Step()
			if res.Fault != nil {
				fmt.Printf("fault: %v\n", res.Fault)
				return
			}
			win.Draw(emu.Framebuffer())
			win.UpdateInput()
			audio.Sync(emu.SoundChannels())
			if res.Halted {
				return
			}
		}
	})
	return runErr
}
