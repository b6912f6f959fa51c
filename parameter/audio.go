package parameter

import "time"

// Metronome Click
const (
	// AudioSampleRate is the speaker sample rate
	AudioSampleRate = 48000

	// AudioBufferDuration is the speaker buffer length
	AudioBufferDuration = 100 * time.Millisecond

	// ClickDuration is the length of one metronome click
	ClickDuration = 40 * time.Millisecond

	// ClickAttack and ClickRelease shape the click to avoid speaker pops
	ClickAttack  = 2 * time.Millisecond
	ClickRelease = 30 * time.Millisecond

	// ClickFrequency is the pitch of a regular beat
	ClickFrequency = 880.0

	// ClickAccentFrequency is the pitch of the first beat in a bar
	ClickAccentFrequency = 1760.0

	// ClickVolume is the linear click volume (0..1)
	ClickVolume = 0.4

	// BeatsPerBar controls accent placement
	BeatsPerBar = 4
)
