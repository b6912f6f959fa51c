package audio

import (
	"sync"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/fixtick/parameter"
)

const sampleRate = beep.SampleRate(parameter.AudioSampleRate)

// Metronome clicks once per Beat call, accenting the first beat of each bar
// Beat is meant to be bound as a timer surface callback: (*Metronome).Beat
type Metronome struct {
	mu          sync.Mutex
	beatsPerBar int
	count       int
	enabled     bool
	initialized bool

	// play hands a click to the output, speaker.Play once initialized
	play func(...beep.Streamer)
}

// NewMetronome creates a silent metronome until Initialize succeeds
func NewMetronome(beatsPerBar int) *Metronome {
	if beatsPerBar < 1 {
		beatsPerBar = 1
	}
	return &Metronome{
		beatsPerBar: beatsPerBar,
		enabled:     true,
	}
}

// Initialize opens the speaker
func (m *Metronome) Initialize() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(parameter.AudioBufferDuration)); err != nil {
		return err
	}

	m.play = speaker.Play
	m.initialized = true
	return nil
}

// Close releases the speaker
func (m *Metronome) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return
	}

	speaker.Clear()
	speaker.Close()
	m.play = nil
	m.initialized = false
}

// Beat counts a beat and plays its click when enabled
func (m *Metronome) Beat() {
	m.mu.Lock()
	defer m.mu.Unlock()

	accent := m.count%m.beatsPerBar == 0
	m.count++

	if !m.enabled || m.play == nil {
		return
	}
	m.play(NewClick(sampleRate, accent))
}

// Count returns the number of beats so far
func (m *Metronome) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.count
}

// Position returns the 1-based beat within the current bar, 0 before the first beat
func (m *Metronome) Position() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.count == 0 {
		return 0
	}
	return (m.count-1)%m.beatsPerBar + 1
}

// SetEnabled mutes or unmutes the click; beats are still counted
func (m *Metronome) SetEnabled(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled = enabled
}

// Enabled reports whether clicks are audible
func (m *Metronome) Enabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.enabled
}
