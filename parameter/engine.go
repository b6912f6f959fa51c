package parameter

import "time"

// Tick Scaling
const (
	// TickPrecisionBits is the number of fractional bits kept by the scaled clock accumulator
	TickPrecisionBits = 4

	// DefaultSlowMotionDivisor runs scaled time at real speed
	DefaultSlowMotionDivisor = 1

	// DemoSlowMotionDivisor is the divisor the demo toggles to when none is configured
	DemoSlowMotionDivisor = 4
)

// Catch-up Limits
const (
	// DefaultMaxCatchUpIterations is a pretty good ceiling at 60FPS
	// Zero disables the ceiling entirely
	DefaultMaxCatchUpIterations = 8

	// CatchUpPolicyDrop skips whole intervals beyond the ceiling, keeping phase alignment
	CatchUpPolicyDrop = "drop"

	// CatchUpPolicyCarry leaves intervals beyond the ceiling for later polls
	CatchUpPolicyCarry = "carry"

	// DefaultCatchUpPolicy is applied when configuration does not name one
	DefaultCatchUpPolicy = CatchUpPolicyDrop
)

// Host Loop Timing
const (
	// FrameUpdateInterval is the rendering frame rate interval (~60 FPS)
	FrameUpdateInterval = 16 * time.Millisecond

	// LogicIntervalMs is the default interval of the demo logic timer
	LogicIntervalMs = 50

	// BeatIntervalMs is the default interval of the demo metronome (120 BPM)
	BeatIntervalMs = 500

	// BlinkIntervalMs is the default cursor blink interval, driven by real time
	BlinkIntervalMs = 400

	// LogicIntervalStep is the amount +/- changes the logic interval by
	LogicIntervalStep = 10

	// StallDuration is the artificial stall injected to demonstrate catch-up
	StallDuration = 250 * time.Millisecond
)
