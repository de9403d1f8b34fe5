package gate

import (
	"context"
	"sync"

	"github.com/dtroode/outagetracker/internal/logger"
	"github.com/dtroode/outagetracker/internal/model"
)

// OnboardingSource provides onboarding snapshots and change events.
type OnboardingSource interface {
	Snapshot() model.OnboardingStatus
	Subscribe(fn func(model.OnboardingStatus)) func()
}

// SessionSource provides session snapshots and change events.
type SessionSource interface {
	Snapshot() model.Session
	Subscribe(fn func(model.Session)) func()
}

// LocationSource provides location snapshots and change events.
type LocationSource interface {
	Snapshot() model.LocationsSnapshot
	Subscribe(fn func(model.LocationsSnapshot)) func()
}

// Watcher re-evaluates the gate whenever any source changes.
type Watcher struct {
	onboarding OnboardingSource
	session    SessionSource
	locations  LocationSource
	logger     *logger.Logger

	// evalMu orders evaluations so a decision from older snapshots
	// never replaces a newer one.
	evalMu sync.Mutex

	mu        sync.Mutex
	current   Decision
	listeners map[int]func(Decision)
	nextID    int
	changed   chan struct{}
	unsubs    []func()
}

func NewWatcher(o OnboardingSource, s SessionSource, l LocationSource, logger *logger.Logger) *Watcher {
	w := &Watcher{
		onboarding: o,
		session:    s,
		locations:  l,
		logger:     logger,
		listeners:  make(map[int]func(Decision)),
		changed:    make(chan struct{}),
	}

	w.unsubs = []func(){
		o.Subscribe(func(model.OnboardingStatus) { w.evaluate() }),
		s.Subscribe(func(model.Session) { w.evaluate() }),
		l.Subscribe(func(model.LocationsSnapshot) { w.evaluate() }),
	}
	w.evaluate()

	return w
}

// Current returns the latest decision.
func (w *Watcher) Current() Decision {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

// Subscribe registers fn to be called when the decision changes.
func (w *Watcher) Subscribe(fn func(Decision)) func() {
	w.mu.Lock()
	defer w.mu.Unlock()

	id := w.nextID
	w.nextID++
	w.listeners[id] = fn

	return func() {
		w.mu.Lock()
		delete(w.listeners, id)
		w.mu.Unlock()
	}
}

// Await blocks until the gate settles on a decision other than Loading.
func (w *Watcher) Await(ctx context.Context) (Decision, error) {
	for {
		w.mu.Lock()
		d, changed := w.current, w.changed
		w.mu.Unlock()

		if d != Loading {
			return d, nil
		}

		select {
		case <-changed:
		case <-ctx.Done():
			return Loading, ctx.Err()
		}
	}
}

// Close stops following the sources.
func (w *Watcher) Close() {
	w.mu.Lock()
	unsubs := w.unsubs
	w.unsubs = nil
	w.mu.Unlock()

	for _, unsub := range unsubs {
		unsub()
	}
}

func (w *Watcher) evaluate() {
	w.evalMu.Lock()
	d := Decide(InputsFrom(w.onboarding.Snapshot(), w.session.Snapshot(), w.locations.Snapshot()))

	w.mu.Lock()
	if d == w.current {
		w.mu.Unlock()
		w.evalMu.Unlock()
		return
	}
	prev := w.current
	w.current = d
	close(w.changed)
	w.changed = make(chan struct{})
	fns := make([]func(Decision), 0, len(w.listeners))
	for _, fn := range w.listeners {
		fns = append(fns, fn)
	}
	w.mu.Unlock()
	w.evalMu.Unlock()

	w.logger.Debug("Gate: decision changed",
		"from", prev.String(),
		"to", d.String())

	for _, fn := range fns {
		fn(d)
	}
}
