package main

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/lixenwraith/fixtick/audio"
	"github.com/lixenwraith/fixtick/config"
	"github.com/lixenwraith/fixtick/engine"
	"github.com/lixenwraith/fixtick/parameter"
	"github.com/lixenwraith/fixtick/status"
)

const (
	trackRow    = 4
	lampRow     = 6
	hudRow      = 8
	trailLength = 6
	lampFrames  = 6
)

// Runner bounces across the track, one cell per logic tick
type Runner struct {
	pos, dir int
	width    int
	steps    int
}

// Step advances the runner one cell, reversing at the track ends
func (r *Runner) Step() {
	r.steps++
	if r.width < 2 {
		return
	}
	if r.dir == 0 {
		r.dir = 1
	}
	next := r.pos + r.dir
	if next < 0 || next >= r.width {
		r.dir = -r.dir
		next = r.pos + r.dir
	}
	r.pos = next
}

// Trail remembers recent runner positions, the logic timer's surface owner
type Trail struct {
	runner *Runner
	cells  []int
}

// Mark records the runner's current cell
func (t *Trail) Mark() {
	t.cells = append(t.cells, t.runner.pos)
	if len(t.cells) > trailLength {
		t.cells = t.cells[len(t.cells)-trailLength:]
	}
}

// BeatLamp lights up for a few frames on every beat
type BeatLamp struct {
	frames int
	beats  int
}

// Flash lights the lamp
func (b *BeatLamp) Flash() {
	b.beats++
	b.frames = lampFrames
}

func (b *BeatLamp) decay() {
	if b.frames > 0 {
		b.frames--
	}
}

// Cursor blinks on real time, unaffected by slow motion
type Cursor struct {
	visible bool
}

// Blink toggles cursor visibility
func (c *Cursor) Blink() {
	c.visible = !c.visible
}

// Demo is the host loop: it owns the clocks, the timers and their owners
type Demo struct {
	screen        tcell.Screen
	width, height int

	cfg      *config.Config
	settings engine.Settings
	logger   *zap.Logger
	registry *status.Registry

	host       engine.TickReader
	game       *engine.ScaledClock
	slowFactor int

	logic *engine.IntervalTimer[Runner, Trail]
	beat  *engine.IntervalTimer[BeatLamp, audio.Metronome]
	blink *engine.IntervalTimer[Cursor, struct{}]

	runner    Runner
	trail     Trail
	lamp      BeatLamp
	cursor    Cursor
	metronome *audio.Metronome

	frameSkipping bool
	paused        bool
	stallPending  bool

	statSpeed  *status.AtomicFloat
	statFrames *status.AtomicFloat
}

// NewDemo wires timers to host and game clocks; timers start running
func NewDemo(screen tcell.Screen, cfg *config.Config, logger *zap.Logger, host engine.TickReader, metronome *audio.Metronome) *Demo {
	d := &Demo{
		screen:        screen,
		cfg:           cfg,
		settings:      cfg.Settings(),
		logger:        logger,
		registry:      status.NewRegistry(),
		host:          host,
		metronome:     metronome,
		frameSkipping: cfg.FrameSkipping,
		cursor:        Cursor{visible: true},
	}

	// Game time starts at the configured divisor; slow-motion toggles against real speed
	d.game = engine.NewScaledClock(host, d.settings.SlowMotionDivisor)
	d.slowFactor = d.settings.SlowMotionDivisor
	if d.slowFactor <= 1 {
		d.slowFactor = parameter.DemoSlowMotionDivisor
	}

	d.statSpeed = d.registry.Gauges.Get("clock.speed", "Game time speed factor relative to real time")
	d.statFrames = d.registry.Gauges.Get("loop.frame_ms", "Duration of the last host loop frame in milliseconds")
	d.statSpeed.Set(1 / float64(d.game.Divisor()))

	d.logic = engine.NewIntervalTimer[Runner, Trail](cfg.TickInterval, cfg.FrameSkipping, d.timerOptions("logic", d.game)...)
	d.logic.OnStateTick((*Runner).Step)
	d.logic.OnSurfaceTick((*Trail).Mark)

	d.beat = engine.NewIntervalTimer[BeatLamp, audio.Metronome](cfg.BeatInterval, cfg.FrameSkipping, d.timerOptions("beat", d.game)...)
	d.beat.OnStateTick((*BeatLamp).Flash)
	d.beat.OnSurfaceTick((*audio.Metronome).Beat)

	d.blink = engine.NewIntervalTimer[Cursor, struct{}](cfg.BlinkInterval, cfg.FrameSkipping, d.timerOptions("blink", host)...)
	d.blink.OnStateTick((*Cursor).Blink)

	d.trail.runner = &d.runner
	d.resize()

	setFrameSkipping(d.logic, d.frameSkipping, d.settings.MaxCatchUpIterations)
	setFrameSkipping(d.beat, d.frameSkipping, d.settings.MaxCatchUpIterations)
	setFrameSkipping(d.blink, d.frameSkipping, d.settings.MaxCatchUpIterations)

	d.logic.Start()
	d.beat.Start()
	d.blink.Start()

	return d
}

func (d *Demo) timerOptions(name string, clock engine.TickReader) []engine.TimerOption {
	return []engine.TimerOption{
		engine.WithClock(clock),
		engine.WithSettings(d.settings),
		engine.WithLogger(d.logger),
		engine.WithStatus(d.registry, name),
	}
}

// Registry returns the metrics written by the demo's timers
func (d *Demo) Registry() *status.Registry {
	return d.registry
}

// setFrameSkipping applies the caller-side frame skipping policy to t
// Without frame skipping a timer fires at most once per frame
func setFrameSkipping[S, F any](t *engine.IntervalTimer[S, F], enabled bool, ceiling int) {
	t.SetFrameSkipping(enabled)
	if enabled {
		t.SetMaxCatchUp(ceiling)
		return
	}
	t.SetMaxCatchUp(1)
}

// update polls every timer once; this is the whole per-frame scheduling work
func (d *Demo) update() {
	if d.stallPending {
		d.stallPending = false
		time.Sleep(parameter.StallDuration)
	}

	d.logic.Poll(&d.runner, &d.trail)
	d.beat.Poll(&d.lamp, d.metronome)
	d.blink.Poll(&d.cursor, nil)

	d.lamp.decay()
}

// handleRune applies a key command, returns false to quit
func (d *Demo) handleRune(r rune) bool {
	switch r {
	case 'q':
		return false

	case 's':
		if d.game.Divisor() == 1 {
			d.game.SetDivisor(d.slowFactor)
		} else {
			d.game.SetDivisor(1)
		}
		d.statSpeed.Set(1 / float64(d.game.Divisor()))
		d.logger.Info("slow motion toggled", zap.Int("divisor", d.game.Divisor()))

	case 'f':
		d.frameSkipping = !d.frameSkipping
		setFrameSkipping(d.logic, d.frameSkipping, d.settings.MaxCatchUpIterations)
		setFrameSkipping(d.beat, d.frameSkipping, d.settings.MaxCatchUpIterations)
		setFrameSkipping(d.blink, d.frameSkipping, d.settings.MaxCatchUpIterations)
		d.logger.Info("frame skipping toggled", zap.Bool("enabled", d.frameSkipping))

	case 'p':
		d.paused = !d.paused
		if d.paused {
			d.logic.Stop()
			d.beat.Stop()
		} else {
			d.logic.Start()
			d.beat.Start()
		}
		d.logger.Info("pause toggled", zap.Bool("paused", d.paused))

	case '+', '=':
		d.logic.SetInterval(d.logic.Interval() + parameter.LogicIntervalStep)

	case '-', '_':
		d.logic.SetInterval(d.logic.Interval() - parameter.LogicIntervalStep)

	case 'l':
		d.stallPending = true
		d.logger.Debug("stall requested", zap.Duration("duration", parameter.StallDuration))

	case 'm':
		if d.metronome != nil {
			d.metronome.SetEnabled(!d.metronome.Enabled())
		}
	}
	return true
}

// handleInput processes a terminal event, returns false to quit
func (d *Demo) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyRune:
			return d.handleRune(ev.Rune())
		}

	case *tcell.EventResize:
		d.resize()
		d.screen.Sync()
	}
	return true
}

func (d *Demo) resize() {
	d.width, d.height = d.screen.Size()
	d.runner.width = d.width - 2
	if d.runner.pos >= d.runner.width && d.runner.width > 0 {
		d.runner.pos = d.runner.width - 1
	}
}

func (d *Demo) counter(timer, name string) int64 {
	return d.registry.Counters.Get("timer."+timer+"."+name, "").Load()
}

func (d *Demo) drawText(x, y int, text string, style tcell.Style) {
	for _, r := range text {
		if x >= d.width {
			return
		}
		d.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

func (d *Demo) draw() {
	d.screen.Clear()

	title := tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	dim := tcell.StyleDefault.Foreground(tcell.ColorGray)
	text := tcell.StyleDefault.Foreground(tcell.ColorWhite)

	d.drawText(1, 1, "fixtick: fixed-interval timers polled once per frame", title)
	d.drawText(1, 2, "[s]low-mo [f]rame-skip [p]ause [+/-] interval [l]ag [m]ute [q]uit", dim)

	// Track with fading trail
	for i, cell := range d.trail.cells {
		intensity := int32(60 + 160*(i+1)/len(d.trail.cells))
		d.screen.SetContent(cell+1, trackRow, '▒', nil, tcell.StyleDefault.Foreground(tcell.NewRGBColor(intensity, intensity, intensity)))
	}
	d.screen.SetContent(d.runner.pos+1, trackRow, '█', nil, tcell.StyleDefault.Foreground(tcell.ColorGreen))

	// Beat lamp, accent on the first beat of the bar
	lampStyle := tcell.StyleDefault.Foreground(tcell.ColorDarkRed)
	if d.lamp.frames > 0 {
		lampStyle = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	}
	d.drawText(1, lampRow, fmt.Sprintf("beat %d", d.lamp.beats), text)
	d.drawText(10, lampRow, "●", lampStyle)

	skip := "on"
	if !d.frameSkipping {
		skip = "off"
	}
	state := "running"
	if d.paused {
		state = "paused"
	}

	d.drawText(1, hudRow, fmt.Sprintf("speed 1/%d  frame-skip %s  ceiling %d %s  %s",
		d.game.Divisor(), skip, d.logic.MaxCatchUp(), d.logic.CatchUpPolicy(), state), text)
	d.drawText(1, hudRow+1, fmt.Sprintf("logic %dms  fires %d  dropped %d  elapsed %dms",
		d.logic.Interval(), d.counter("logic", "fires"), d.counter("logic", "dropped"), d.logic.Elapsed()), text)
	d.drawText(1, hudRow+2, fmt.Sprintf("beat %dms  fires %d  dropped %d",
		d.beat.Interval(), d.counter("beat", "fires"), d.counter("beat", "dropped")), text)

	if d.cursor.visible {
		d.screen.SetContent(1, hudRow+4, ' ', nil, tcell.StyleDefault.Reverse(true))
	}

	d.screen.Show()
}

// Run drives the frame loop until the user quits
func (d *Demo) Run(events <-chan tcell.Event) {
	ticker := time.NewTicker(parameter.FrameUpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case ev := <-events:
			if !d.handleInput(ev) {
				return
			}

		case <-ticker.C:
			start := time.Now()
			d.update()
			d.draw()
			d.statFrames.Set(float64(time.Since(start).Microseconds()) / 1000)
		}
	}
}
