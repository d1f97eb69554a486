// Package audio is an optional reference host for NOVA-16 sound: it
// turns the register-only state of a nova.Sound channel bank into real
// PCM and plays it with beep/speaker, the way the teacher's
// ManageAudio decoded and played a bundled mp3 off a channel. The core
// itself only ever specifies channel register state (§4.4 Non-goals);
// this package is one possible DSP pipeline sitting on top of it, not
// part of it.
package audio

import (
	"math"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
	"github.com/nova16/emu/internal/nova"
)

const sampleRate = beep.SampleRate(44100)

// Init opens the speaker at a fixed sample rate, mirroring the
// teacher's speaker.Init call sized off its decoded mp3's format.
func Init() error {
	return speaker.Init(sampleRate, sampleRate.N(time.Second/10))
}

// waveStreamer synthesizes one channel's waveform as a beep.Streamer,
// looping indefinitely at the channel's frequency/volume until the
// channel goes inactive.
type waveStreamer struct {
	ch    nova.Channel
	phase float64
	noise uint64
}

func newWaveStreamer(ch nova.Channel) *waveStreamer {
	return &waveStreamer{ch: ch, noise: 0x2545F4914F6CDD1D}
}

func (w *waveStreamer) sample() float64 {
	freq := float64(w.ch.Freq)
	if freq <= 0 {
		return 0
	}
	vol := float64(w.ch.Volume) / 255
	step := freq / float64(sampleRate)

	var v float64
	switch w.ch.Waveform {
	case nova.WaveSine:
		v = math.Sin(2 * math.Pi * w.phase)
	case nova.WaveSquare:
		if w.phase < 0.5 {
			v = 1
		} else {
			v = -1
		}
	case nova.WaveTriangle:
		v = 4*math.Abs(w.phase-0.5) - 1
	case nova.WaveSawtooth:
		v = 2*w.phase - 1
	case nova.WaveNoise:
		w.noise ^= w.noise << 13
		w.noise ^= w.noise >> 7
		w.noise ^= w.noise << 17
		v = float64(int32(w.noise)) / math.MaxInt32
	}

	w.phase += step
	if w.phase >= 1 {
		w.phase -= math.Floor(w.phase)
	}
	return v * vol
}

// Stream fills samples with PCM data for as long as the channel stays
// active, satisfying beep.Streamer.
func (w *waveStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	if !w.ch.Active {
		return 0, false
	}
	for i := range samples {
		v := w.sample()
		samples[i][0], samples[i][1] = v, v
	}
	return len(samples), true
}

func (w *waveStreamer) Err() error { return nil }

// Sync plays one streamer per currently-active channel, mirroring the
// teacher's one-speaker.Play-per-audio-event loop but driven off live
// register state instead of a channel-triggered event.
func Sync(channels [nova.SoundChannelCount]nova.Channel) {
	for _, ch := range channels {
		if !ch.Active {
			continue
		}
		speaker.Play(newWaveStreamer(ch))
	}
}
