// Package sync pushes board mutations to a persistence sink. Writes are
// debounced and batched; the in-memory board stays authoritative, so a
// failed push surfaces a notification instead of rolling anything back.
package sync

import (
	"context"
	"sort"
	stdsync "sync"
	"time"

	"github.com/vanderheijden86/corkboard/pkg/geom"
)

// DefaultDebounce is the quiet period before queued updates are flushed.
const DefaultDebounce = 400 * time.Millisecond

// PositionUpdate moves an entity.
type PositionUpdate struct {
	ID  string
	Pos geom.Point
}

// SizeUpdate resizes an entity.
type SizeUpdate struct {
	ID   string
	Size geom.Size
}

// ColorUpdate recolors an entity.
type ColorUpdate struct {
	ID    string
	Color string
}

// Sink receives batched updates. Implementations must be idempotent:
// the syncer may replay a batch after a partial failure.
type Sink interface {
	UpsertPositions(ctx context.Context, ups []PositionUpdate) error
	UpsertSizes(ctx context.Context, ups []SizeUpdate) error
	UpsertColors(ctx context.Context, ups []ColorUpdate) error
	DeleteEntities(ctx context.Context, ids []string) error
}

// Syncer debounces updates per view scope and flushes them as batches.
// Queueing a newer value for an entity before the flush fires replaces
// the older one; a Commit flushes immediately, superseding whatever the
// pending timer would have written.
type Syncer struct {
	sink     Sink
	scope    string
	debounce time.Duration

	// OnError receives flush failures. Called outside the lock; must not
	// block. Nil means failures are dropped.
	OnError func(err error)

	mu      stdsync.Mutex
	pos     map[string]geom.Point
	sizes   map[string]geom.Size
	colors  map[string]string
	dels    map[string]bool
	timer   *time.Timer
	stopped bool
}

// Option configures a Syncer.
type Option func(*Syncer)

// WithDebounce overrides the debounce window.
func WithDebounce(d time.Duration) Option {
	return func(s *Syncer) {
		if d > 0 {
			s.debounce = d
		}
	}
}

// WithErrorHandler installs the flush failure callback.
func WithErrorHandler(fn func(error)) Option {
	return func(s *Syncer) { s.OnError = fn }
}

// New returns a syncer writing to sink under the given view scope.
func New(sink Sink, scope string, opts ...Option) *Syncer {
	s := &Syncer{
		sink:     sink,
		scope:    scope,
		debounce: DefaultDebounce,
		pos:      make(map[string]geom.Point),
		sizes:    make(map[string]geom.Size),
		colors:   make(map[string]string),
		dels:     make(map[string]bool),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Scope returns the view scope this syncer writes under.
func (s *Syncer) Scope() string { return s.scope }

// QueuePos records a position change and (re)arms the debounce timer.
func (s *Syncer) QueuePos(id string, p geom.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.pos[id] = p
	delete(s.dels, id)
	s.armLocked()
}

// QueueSize records a size change.
func (s *Syncer) QueueSize(id string, sz geom.Size) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.sizes[id] = sz
	delete(s.dels, id)
	s.armLocked()
}

// QueueColor records a color change.
func (s *Syncer) QueueColor(id string, color string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.colors[id] = color
	delete(s.dels, id)
	s.armLocked()
}

// QueueDelete records an entity deletion. Any pending update for the
// same entity is discarded; flushing it after the delete would
// resurrect the row in the sink.
func (s *Syncer) QueueDelete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	delete(s.pos, id)
	delete(s.sizes, id)
	delete(s.colors, id)
	s.dels[id] = true
	s.armLocked()
}

// Commit flushes everything pending right now. Drag commits call this so
// the final position wins over any in-flight debounced write of a stale
// mid-drag position.
func (s *Syncer) Commit(ctx context.Context) {
	s.mu.Lock()
	s.disarmLocked()
	batch := s.takeLocked()
	s.mu.Unlock()
	s.push(ctx, batch)
}

// Pending reports how many entity updates are queued.
func (s *Syncer) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pos) + len(s.sizes) + len(s.colors) + len(s.dels)
}

// Close flushes pending updates and stops the syncer.
func (s *Syncer) Close(ctx context.Context) {
	s.mu.Lock()
	s.stopped = true
	s.disarmLocked()
	batch := s.takeLocked()
	s.mu.Unlock()
	s.push(ctx, batch)
}

type batch struct {
	pos    []PositionUpdate
	sizes  []SizeUpdate
	colors []ColorUpdate
	dels   []string
}

func (b batch) empty() bool {
	return len(b.pos) == 0 && len(b.sizes) == 0 && len(b.colors) == 0 && len(b.dels) == 0
}

// armLocked schedules a flush after the debounce window, replacing any
// previously armed timer. Caller holds s.mu.
func (s *Syncer) armLocked() {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, func() {
		s.mu.Lock()
		if s.stopped {
			s.mu.Unlock()
			return
		}
		b := s.takeLocked()
		s.mu.Unlock()
		s.push(context.Background(), b)
	})
}

func (s *Syncer) disarmLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// takeLocked drains the pending maps into a deterministic batch. Caller
// holds s.mu.
func (s *Syncer) takeLocked() batch {
	var b batch
	for _, id := range sortedKeys(s.pos) {
		b.pos = append(b.pos, PositionUpdate{ID: id, Pos: s.pos[id]})
	}
	for _, id := range sortedKeys(s.sizes) {
		b.sizes = append(b.sizes, SizeUpdate{ID: id, Size: s.sizes[id]})
	}
	for _, id := range sortedKeys(s.colors) {
		b.colors = append(b.colors, ColorUpdate{ID: id, Color: s.colors[id]})
	}
	b.dels = sortedKeys(s.dels)
	s.pos = make(map[string]geom.Point)
	s.sizes = make(map[string]geom.Size)
	s.colors = make(map[string]string)
	s.dels = make(map[string]bool)
	return b
}

// push writes a batch to the sink. Failures do not restore the batch:
// the live board is authoritative, and retrying stale values could
// overwrite newer ones.
func (s *Syncer) push(ctx context.Context, b batch) {
	if b.empty() {
		return
	}
	var firstErr error
	if len(b.pos) > 0 {
		if err := s.sink.UpsertPositions(ctx, b.pos); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if len(b.sizes) > 0 {
		if err := s.sink.UpsertSizes(ctx, b.sizes); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if len(b.colors) > 0 {
		if err := s.sink.UpsertColors(ctx, b.colors); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if len(b.dels) > 0 {
		if err := s.sink.DeleteEntities(ctx, b.dels); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil && s.OnError != nil {
		s.OnError(firstErr)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
