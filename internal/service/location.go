package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dtroode/outagetracker/internal/logger"
	"github.com/dtroode/outagetracker/internal/model"
)

// Fallback messages shown when the API gives none.
const (
	MsgLoadLocationsFailed  = "Failed to load locations"
	MsgCreateLocationFailed = "Failed to create location"
	MsgUpdateLocationFailed = "Failed to update location"
	MsgDeleteLocationFailed = "Failed to delete location"
	MsgLocationExists       = "A location with these coordinates already exists"
)

// SessionView is the part of Session the location state depends on.
type SessionView interface {
	Snapshot() model.Session
	Subscribe(fn func(model.Session)) func()
}

// Locations holds the signed-in user's saved locations.
type Locations struct {
	api     model.LocationAPI
	session SessionView
	logger  *logger.Logger

	// ops serializes loads and mutations.
	ops sync.Mutex

	mu     sync.Mutex
	state  model.LocationsSnapshot
	loaded uint64 // session generation the collection was loaded for
	ctx    context.Context
	unsub  func()
	wg     sync.WaitGroup

	changes notifier[model.LocationsSnapshot]
}

func NewLocations(api model.LocationAPI, session SessionView, logger *logger.Logger) *Locations {
	return &Locations{
		api:     api,
		session: session,
		logger:  logger,
		state:   model.LocationsSnapshot{IsLoading: true},
	}
}

// Start follows the session: the collection is fetched once per sign-in
// and cleared on sign-out. Background fetches use ctx.
func (l *Locations) Start(ctx context.Context) {
	l.mu.Lock()
	l.ctx = ctx
	l.mu.Unlock()

	unsub := l.session.Subscribe(l.onSession)

	l.mu.Lock()
	l.unsub = unsub
	l.mu.Unlock()

	l.onSession(l.session.Snapshot())
}

// Stop unsubscribes from the session and waits for background fetches.
func (l *Locations) Stop() {
	l.mu.Lock()
	unsub := l.unsub
	l.unsub = nil
	l.mu.Unlock()

	if unsub != nil {
		unsub()
	}
	l.wg.Wait()
}

// Wait blocks until background fetches started so far have finished.
func (l *Locations) Wait() {
	l.wg.Wait()
}

func (l *Locations) onSession(model.Session) {
	// Notifications may arrive out of order; act on the current state.
	s := l.session.Snapshot()

	l.mu.Lock()
	if !s.IsAuthenticated {
		if l.loaded == 0 && !l.state.HasAny && len(l.state.Locations) == 0 {
			l.mu.Unlock()
			return
		}
		l.loaded = 0
		l.state = model.LocationsSnapshot{IsLoading: true}
		snap := copyLocations(l.state)
		l.mu.Unlock()

		l.logger.Debug("Location service: cleared after sign-out")
		l.changes.publish(snap)
		return
	}

	if l.loaded == s.Generation {
		l.mu.Unlock()
		return
	}
	l.loaded = s.Generation
	ctx := l.ctx
	l.mu.Unlock()

	if ctx == nil {
		ctx = context.Background()
	}

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		if err := l.load(ctx, s.Generation); err != nil {
			l.logger.Warn("Location service: background load failed",
				"error", err.Error())
		}
	}()
}

// Refresh fetches the collection again.
func (l *Locations) Refresh(ctx context.Context) error {
	s := l.session.Snapshot()
	if !s.IsAuthenticated {
		return model.ErrNotAuthenticated
	}
	return l.load(ctx, s.Generation)
}

func (l *Locations) load(ctx context.Context, gen uint64) error {
	l.ops.Lock()
	defer l.ops.Unlock()

	if !l.current(gen) {
		return nil
	}

	l.logger.Debug("Location service: loading locations")

	l.update(func(st *model.LocationsSnapshot) {
		st.IsLoading = true
		st.LastError = ""
	})

	page, err := l.api.FetchLocations(ctx, model.ListParams{})
	if !l.current(gen) {
		l.logger.Debug("Location service: discarding stale load")
		if err != nil {
			return fmt.Errorf("failed to load locations: %w", err)
		}
		return nil
	}
	if err != nil {
		l.update(func(st *model.LocationsSnapshot) {
			st.IsLoading = false
			st.LastError = MsgLoadLocationsFailed
		})
		return fmt.Errorf("failed to load locations: %w", err)
	}

	l.update(func(st *model.LocationsSnapshot) {
		st.Locations = append([]model.Location(nil), page.Data...)
		st.HasAny = len(st.Locations) > 0
		st.IsLoading = false
	})

	l.logger.Info("Location service: locations loaded",
		"count", len(page.Data))

	return nil
}

// Add creates a location. A coordinate conflict adopts the server's
// existing record and is not reported as an error.
func (l *Locations) Add(ctx context.Context, input model.LocationInput) (model.Location, error) {
	if err := input.Validate(); err != nil {
		return model.Location{}, err
	}

	l.ops.Lock()
	defer l.ops.Unlock()

	gen, err := l.begin()
	if err != nil {
		return model.Location{}, err
	}

	created, err := l.api.CreateLocation(ctx, input)
	if err != nil {
		var apiErr *model.APIError
		if errors.As(err, &apiErr) && apiErr.Kind == model.KindConflict && apiErr.Location != nil {
			existing := *apiErr.Location
			l.logger.Info("Location service: location already exists",
				"location_id", existing.ID)
			l.finish(gen, func(st *model.LocationsSnapshot) {
				st.Locations = upsert(st.Locations, existing)
				st.LastError = MsgLocationExists
			})
			return existing, nil
		}

		l.fail(gen, model.MessageOr(err, MsgCreateLocationFailed))
		return model.Location{}, fmt.Errorf("failed to create location: %w", err)
	}

	l.finish(gen, func(st *model.LocationsSnapshot) {
		st.Locations = upsert(st.Locations, created)
	})

	l.logger.Info("Location service: location created",
		"location_id", created.ID)

	return created, nil
}

// Update replaces the location with the given id.
func (l *Locations) Update(ctx context.Context, id int64, input model.LocationInput) (model.Location, error) {
	if err := input.Validate(); err != nil {
		return model.Location{}, err
	}

	l.ops.Lock()
	defer l.ops.Unlock()

	gen, err := l.begin()
	if err != nil {
		return model.Location{}, err
	}

	updated, err := l.api.UpdateLocation(ctx, id, input)
	if err != nil {
		l.fail(gen, model.MessageOr(err, MsgUpdateLocationFailed))
		return model.Location{}, fmt.Errorf("failed to update location: %w", err)
	}

	l.finish(gen, func(st *model.LocationsSnapshot) {
		for i := range st.Locations {
			if st.Locations[i].ID == id {
				st.Locations[i] = updated
			}
		}
	})

	l.logger.Info("Location service: location updated",
		"location_id", id)

	return updated, nil
}

// Remove deletes the location with the given id. Removing an id the
// server does not know is not an error.
func (l *Locations) Remove(ctx context.Context, id int64) error {
	l.ops.Lock()
	defer l.ops.Unlock()

	gen, err := l.begin()
	if err != nil {
		return err
	}

	err = l.api.DeleteLocation(ctx, id)
	if err != nil && !model.IsKind(err, model.KindNotFound) {
		l.fail(gen, model.MessageOr(err, MsgDeleteLocationFailed))
		return fmt.Errorf("failed to delete location: %w", err)
	}

	l.finish(gen, func(st *model.LocationsSnapshot) {
		kept := st.Locations[:0:0]
		for _, loc := range st.Locations {
			if loc.ID != id {
				kept = append(kept, loc)
			}
		}
		st.Locations = kept
	})

	l.logger.Info("Location service: location removed",
		"location_id", id)

	return nil
}

// Find returns the cached location with the given id.
func (l *Locations) Find(id int64) (model.Location, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, loc := range l.state.Locations {
		if loc.ID == id {
			return loc, true
		}
	}
	return model.Location{}, false
}

// ClearError resets the last error message.
func (l *Locations) ClearError() {
	l.update(func(st *model.LocationsSnapshot) {
		st.LastError = ""
	})
}

// Snapshot returns a copy of the current state.
func (l *Locations) Snapshot() model.LocationsSnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return copyLocations(l.state)
}

// Subscribe registers fn to receive every state change.
func (l *Locations) Subscribe(fn func(model.LocationsSnapshot)) func() {
	return l.changes.subscribe(fn)
}

// begin checks the session and marks a mutation in flight.
func (l *Locations) begin() (uint64, error) {
	s := l.session.Snapshot()
	if !s.IsAuthenticated {
		return 0, model.ErrNotAuthenticated
	}

	l.update(func(st *model.LocationsSnapshot) {
		st.IsLoading = true
		st.LastError = ""
	})

	return s.Generation, nil
}

// finish applies a successful result unless the session changed.
func (l *Locations) finish(gen uint64, fn func(st *model.LocationsSnapshot)) {
	if !l.current(gen) {
		l.logger.Debug("Location service: discarding stale result")
		return
	}
	l.update(func(st *model.LocationsSnapshot) {
		fn(st)
		st.HasAny = len(st.Locations) > 0
		st.IsLoading = false
	})
}

func (l *Locations) fail(gen uint64, msg string) {
	if !l.current(gen) {
		return
	}
	l.update(func(st *model.LocationsSnapshot) {
		st.IsLoading = false
		st.LastError = msg
	})
}

func (l *Locations) current(gen uint64) bool {
	s := l.session.Snapshot()
	return s.IsAuthenticated && s.Generation == gen
}

func (l *Locations) update(fn func(st *model.LocationsSnapshot)) {
	l.mu.Lock()
	fn(&l.state)
	snap := copyLocations(l.state)
	l.mu.Unlock()

	l.changes.publish(snap)
}

func upsert(list []model.Location, loc model.Location) []model.Location {
	for i := range list {
		if list[i].ID == loc.ID {
			list[i] = loc
			return list
		}
	}
	return append(list, loc)
}

func copyLocations(st model.LocationsSnapshot) model.LocationsSnapshot {
	st.Locations = append([]model.Location(nil), st.Locations...)
	return st
}
