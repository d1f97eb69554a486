package nova

// SoundChannelCount is the number of independently addressable sound
// channels. The spec calls NOVA-16 "multi-channel" without fixing a
// count; 8 is chosen to mirror the machine's other 8-way structures
// (graphics layers, interrupt vectors) — see DESIGN.md.
const SoundChannelCount = 8

// Waveform selects a channel's oscillator shape (§4.4).
type Waveform uint8

const (
	WaveSine Waveform = iota
	WaveSquare
	WaveTriangle
	WaveSawtooth
	WaveNoise
)

// Channel is one sound channel's register-visible state. The emulator
// never synthesizes samples from this; §4.4 and the Non-goals are
// explicit that the core only specifies register state, real DSP work
// is a host concern (internal/audio is one such host).
type Channel struct {
	Address  uint16
	Freq     uint16
	Volume   uint8
	Waveform Waveform
	Active   bool
}

// Sound holds the SA/SF/SV/SW hardware registers and the channel bank
// they address.
type Sound struct {
	sa, sf uint16
	sv, sw uint8

	channels [SoundChannelCount]Channel
}

// NewSound returns an all-silent sound unit.
func NewSound() *Sound { return &Sound{} }

// channelIndex maps the SA register to a channel slot: SA's low bits
// select the channel, and the full value of SA also becomes that
// channel's Address field when SPLAY commits (§4.4).
func (s *Sound) channelIndex() int {
	return int(s.sa) % SoundChannelCount
}

func (s *Sound) SA() uint16     { return s.sa }
func (s *Sound) SetSA(v uint16) { s.sa = v }
func (s *Sound) SF() uint16     { return s.sf }
func (s *Sound) SetSF(v uint16) { s.sf = v }
func (s *Sound) SV() uint8      { return s.sv }
func (s *Sound) SetSV(v uint8)  { s.sv = v }
func (s *Sound) SW() uint8      { return s.sw }
func (s *Sound) SetSW(v uint8)  { s.sw = v }

// Play activates the channel addressed by SA with the current SF/SV/SW
// (§4.2.2, SPLAY).
func (s *Sound) Play() {
	ch := &s.channels[s.channelIndex()]
	ch.Address = s.sa
	ch.Freq = s.sf
	ch.Volume = s.sv
	ch.Waveform = Waveform(s.sw)
	ch.Active = true
}

// Stop deactivates the channel addressed by SA (§4.2.2, SSTOP).
func (s *Sound) Stop() {
	s.channels[s.channelIndex()].Active = false
}

// Channels returns a copy of the channel bank, for the host to drive
// real audio output from (§4.4).
func (s *Sound) Channels() [SoundChannelCount]Channel {
	return s.channels
}
