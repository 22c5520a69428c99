// Package render contains the two procedural canvas rasterizers: the blob
// renderer that paints a soft animated region behind each connected
// component, and the connection renderer that paints pixel-quantized
// bezier curves between linked entities. Both draw into a gg context and
// are purely visual: nothing here feeds back into hit-testing, selection
// or persistence.
package render

import (
	"sync"
	"time"
)

// DefaultFrameInterval is the animation frame cadence (~30fps). The
// renderers are deliberately not vsync-precise; the pixelated look hides
// jitter and the predicate gating matters more than the rate.
const DefaultFrameInterval = 33 * time.Millisecond

// Loop is a start/stoppable animation loop owned by a single renderer.
// It is an explicit state machine (stopped -> running -> stopped) driven
// by an activity predicate: Poke re-evaluates the predicate and starts or
// stops the loop accordingly. The loop owns exactly one timer handle,
// always cancelled before being reacquired, so two Pokes can never leave
// a second frame chain running.
//
// Two loops (one per renderer) may run concurrently; each fires its own
// frame callback and neither can starve the other.
type Loop struct {
	interval  time.Duration
	predicate func() bool
	frame     func(now time.Time)

	mu      sync.Mutex
	timer   *time.Timer
	running bool
	gen     uint64 // invalidates frames scheduled by a superseded run
}

// NewLoop returns a stopped loop. predicate decides whether the loop
// should be running; frame is invoked once per tick while it is.
func NewLoop(interval time.Duration, predicate func() bool, frame func(now time.Time)) *Loop {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &Loop{interval: interval, predicate: predicate, frame: frame}
}

// Running reports whether the loop is currently scheduled.
func (l *Loop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

// Poke re-evaluates the activity predicate. Call it on every relevant
// state change (hover, drag, highlight-mode toggle); it is cheap when
// nothing changes.
func (l *Loop) Poke() {
	active := l.predicate()

	l.mu.Lock()
	defer l.mu.Unlock()

	switch {
	case active && !l.running:
		l.running = true
		l.gen++
		l.schedule(l.gen)
	case !active && l.running:
		l.stopLocked()
	}
}

// Stop halts the loop regardless of the predicate.
func (l *Loop) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stopLocked()
}

func (l *Loop) stopLocked() {
	l.running = false
	l.gen++
	if l.timer != nil {
		l.timer.Stop()
		l.timer = nil
	}
}

// schedule arms the single frame handle. Caller holds l.mu.
func (l *Loop) schedule(gen uint64) {
	if l.timer != nil {
		l.timer.Stop()
	}
	l.timer = time.AfterFunc(l.interval, func() { l.tick(gen) })
}

func (l *Loop) tick(gen uint64) {
	l.mu.Lock()
	if !l.running || gen != l.gen {
		l.mu.Unlock()
		return
	}
	l.mu.Unlock()

	l.frame(time.Now())

	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.running || gen != l.gen {
		return
	}
	if !l.predicate() {
		l.stopLocked()
		return
	}
	l.schedule(gen)
}
