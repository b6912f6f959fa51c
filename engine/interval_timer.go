package engine

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/lixenwraith/fixtick/parameter"
	"github.com/lixenwraith/fixtick/status"
)

// CatchUpPolicy decides what happens to intervals still due once a poll reaches the catch-up ceiling
type CatchUpPolicy int

const (
	// CatchUpDrop skips the remaining whole intervals, phase stays aligned
	CatchUpDrop CatchUpPolicy = iota
	// CatchUpCarry keeps the backlog for later polls
	CatchUpCarry
)

// ParseCatchUpPolicy maps a configuration name to a policy
func ParseCatchUpPolicy(name string) (CatchUpPolicy, bool) {
	switch name {
	case parameter.CatchUpPolicyDrop:
		return CatchUpDrop, true
	case parameter.CatchUpPolicyCarry:
		return CatchUpCarry, true
	}
	return CatchUpDrop, false
}

// String returns the configuration name of the policy
func (p CatchUpPolicy) String() string {
	if p == CatchUpCarry {
		return parameter.CatchUpPolicyCarry
	}
	return parameter.CatchUpPolicyDrop
}

// Settings holds process-wide timing configuration, read-only while timers poll
type Settings struct {
	SlowMotionDivisor    int
	MaxCatchUpIterations int
	CatchUpPolicy        CatchUpPolicy
}

// DefaultSettings returns the built-in timing configuration
func DefaultSettings() Settings {
	return Settings{
		SlowMotionDivisor:    parameter.DefaultSlowMotionDivisor,
		MaxCatchUpIterations: parameter.DefaultMaxCatchUpIterations,
		CatchUpPolicy:        CatchUpDrop,
	}
}

type timerConfig struct {
	clock      TickReader
	maxCatchUp int
	policy     CatchUpPolicy
	logger     *zap.Logger
	registry   *status.Registry
	name       string
}

// TimerOption configures an IntervalTimer at construction
type TimerOption func(*timerConfig)

// WithClock sets the tick source, e.g. a ScaledClock for slow-motion aware timers
func WithClock(clock TickReader) TimerOption {
	return func(c *timerConfig) {
		c.clock = clock
	}
}

// WithSettings applies the catch-up ceiling and policy from s
func WithSettings(s Settings) TimerOption {
	return func(c *timerConfig) {
		c.maxCatchUp = s.MaxCatchUpIterations
		c.policy = s.CatchUpPolicy
	}
}

// WithMaxCatchUp sets the per-poll firing ceiling, 0 means unbounded
func WithMaxCatchUp(n int) TimerOption {
	return func(c *timerConfig) {
		if n < 0 {
			n = 0
		}
		c.maxCatchUp = n
	}
}

// WithCatchUpPolicy sets the ceiling policy
func WithCatchUpPolicy(p CatchUpPolicy) TimerOption {
	return func(c *timerConfig) {
		c.policy = p
	}
}

// WithLogger sets the logger used for catch-up diagnostics
func WithLogger(logger *zap.Logger) TimerOption {
	return func(c *timerConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithStatus publishes timer counters to reg under timer.<name>.*
func WithStatus(reg *status.Registry, name string) TimerOption {
	return func(c *timerConfig) {
		c.registry = reg
		c.name = name
	}
}

// IntervalTimer fires callbacks at a fixed interval when polled by the host loop
// Missed boundaries are each fired on the next poll (frame skipping), bounded by the catch-up ceiling
// S and F are the owner types receiving state and surface callbacks
// Not safe for concurrent use
type IntervalTimer[S, F any] struct {
	clock TickReader

	interval      int
	running       bool
	phase         uint64 // Tick of the last synchronized boundary
	frameSkipping bool

	onState   func(*S)
	onSurface func(*F)

	maxCatchUp int
	policy     CatchUpPolicy
	logger     *zap.Logger

	// Cached metric pointers, nil without a registry
	statPolls   *atomic.Int64
	statFires   *atomic.Int64
	statDropped *atomic.Int64
	statRunning *atomic.Bool
}

// NewIntervalTimer creates a stopped timer with interval in milliseconds
// Without options it reads DefaultClock and applies DefaultSettings
func NewIntervalTimer[S, F any](interval int, frameSkipping bool, opts ...TimerOption) *IntervalTimer[S, F] {
	defaults := DefaultSettings()
	cfg := timerConfig{
		clock:      DefaultClock(),
		maxCatchUp: defaults.MaxCatchUpIterations,
		policy:     defaults.CatchUpPolicy,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	t := &IntervalTimer[S, F]{
		clock:         cfg.clock,
		frameSkipping: frameSkipping,
		maxCatchUp:    cfg.maxCatchUp,
		policy:        cfg.policy,
		logger:        cfg.logger,
	}
	t.SetInterval(interval)

	if cfg.registry != nil {
		prefix := "timer." + cfg.name + "."
		t.statPolls = cfg.registry.Counters.Get(prefix+"polls", "Polls that found the timer running")
		t.statFires = cfg.registry.Counters.Get(prefix+"fires", "Interval boundaries fired")
		t.statDropped = cfg.registry.Counters.Get(prefix+"dropped", "Interval boundaries skipped by the catch-up ceiling")
		t.statRunning = cfg.registry.Flags.Get(prefix+"running", "Whether the timer is running")
		t.logger = t.logger.With(zap.String("timer", cfg.name))
	}

	return t
}

// Start begins counting from the current tick, restarting resets the phase
func (t *IntervalTimer[S, F]) Start() {
	t.phase = t.clock.Ticks()
	t.setRunning(true)
}

// Stop halts the timer; a Stop from inside a callback ends the current poll
func (t *IntervalTimer[S, F]) Stop() {
	t.phase = 0
	t.setRunning(false)
}

// IsRunning returns whether the timer has been started
func (t *IntervalTimer[S, F]) IsRunning() bool {
	return t.running
}

// Elapsed returns milliseconds since the last fired boundary, 0 when stopped
func (t *IntervalTimer[S, F]) Elapsed() uint64 {
	if !t.running {
		return 0
	}
	now := t.clock.Ticks()
	if now < t.phase {
		return 0
	}
	return now - t.phase
}

// Phase returns the tick of the last synchronized boundary, 0 when stopped
func (t *IntervalTimer[S, F]) Phase() uint64 {
	return t.phase
}

// SetInterval changes the interval; values below 1 clamp to 1 so polling always progresses
func (t *IntervalTimer[S, F]) SetInterval(ms int) {
	if ms <= 0 {
		ms = 1
	}
	t.interval = ms
}

// Interval returns the interval in milliseconds
func (t *IntervalTimer[S, F]) Interval() int {
	return t.interval
}

// OnStateTick sets the state callback, replacing any previous one; nil clears it
func (t *IntervalTimer[S, F]) OnStateTick(handler func(*S)) {
	t.onState = handler
}

// OnSurfaceTick sets the surface callback, replacing any previous one; nil clears it
func (t *IntervalTimer[S, F]) OnSurfaceTick(handler func(*F)) {
	t.onSurface = handler
}

// SetFrameSkipping stores the frame skipping policy flag for the host loop
func (t *IntervalTimer[S, F]) SetFrameSkipping(enabled bool) {
	t.frameSkipping = enabled
}

// FrameSkipping reports whether the host loop should let the timer catch up
func (t *IntervalTimer[S, F]) FrameSkipping() bool {
	return t.frameSkipping
}

// SetMaxCatchUp changes the per-poll firing ceiling, 0 means unbounded
// Host loops lower it to 1 while frame skipping is off
func (t *IntervalTimer[S, F]) SetMaxCatchUp(n int) {
	if n < 0 {
		n = 0
	}
	t.maxCatchUp = n
}

// MaxCatchUp returns the per-poll firing ceiling
func (t *IntervalTimer[S, F]) MaxCatchUp() int {
	return t.maxCatchUp
}

// CatchUpPolicy returns the policy applied at the ceiling
func (t *IntervalTimer[S, F]) CatchUpPolicy() CatchUpPolicy {
	return t.policy
}

// Poll fires every interval boundary passed since the last one, in order, and returns the count
// A nil owner or unset callback silently skips that slot
func (t *IntervalTimer[S, F]) Poll(state *S, surface *F) int {
	if !t.running {
		return 0
	}

	now := t.clock.Ticks()
	fired := 0

	for t.running && t.due(now) {
		if t.maxCatchUp > 0 && fired >= t.maxCatchUp {
			t.limit(now, fired)
			break
		}

		t.phase += uint64(t.interval)
		fired++

		if state != nil && t.onState != nil {
			t.onState(state)
		}
		if surface != nil && t.onSurface != nil {
			t.onSurface(surface)
		}
	}

	if t.statPolls != nil {
		t.statPolls.Add(1)
		t.statFires.Add(int64(fired))
	}

	return fired
}

// due reports whether a whole interval has passed since the phase
func (t *IntervalTimer[S, F]) due(now uint64) bool {
	return now >= t.phase && now-t.phase >= uint64(t.interval)
}

// limit applies the catch-up policy once the ceiling is reached
func (t *IntervalTimer[S, F]) limit(now uint64, fired int) {
	if t.policy == CatchUpCarry {
		return
	}

	interval := uint64(t.interval)
	skipped := (now - t.phase) / interval
	t.phase += skipped * interval

	if t.statDropped != nil {
		t.statDropped.Add(int64(skipped))
	}
	t.logger.Debug("catch-up ceiling reached",
		zap.Int("fired", fired),
		zap.Uint64("skipped", skipped),
		zap.Int("interval", t.interval),
	)
}

func (t *IntervalTimer[S, F]) setRunning(running bool) {
	t.running = running
	if t.statRunning != nil {
		t.statRunning.Store(running)
	}
}
