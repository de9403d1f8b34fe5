package service

import (
	"context"
	"sync"

	"github.com/dtroode/outagetracker/internal/logger"
	"github.com/dtroode/outagetracker/internal/model"
)

// OnboardingScreens names the introductory screens in display order.
var OnboardingScreens = []string{"track", "analyze", "prepare"}

// Onboarding tracks whether the user has seen the introduction.
type Onboarding struct {
	store  model.OnboardingStore
	logger *logger.Logger

	mu      sync.Mutex
	status  model.OnboardingStatus
	changes notifier[model.OnboardingStatus]
}

func NewOnboarding(store model.OnboardingStore, logger *logger.Logger) *Onboarding {
	return &Onboarding{
		store:  store,
		logger: logger,
		status: model.OnboardingStatus{IsLoading: true},
	}
}

// Load reads the persisted flag.
func (o *Onboarding) Load(ctx context.Context) {
	completed := o.store.OnboardingStatus(ctx)

	o.update(func(st *model.OnboardingStatus) {
		// Completion is monotonic within a process.
		st.Completed = st.Completed || completed
		st.IsLoading = false
	})

	o.logger.Debug("Onboarding service: status loaded",
		"completed", completed)
}

// Complete marks onboarding as done. The in-memory flag is set even
// if persisting fails; the return value reports the write.
func (o *Onboarding) Complete(ctx context.Context) bool {
	saved := o.store.SaveOnboardingStatus(ctx, true)
	if !saved {
		o.logger.Warn("Onboarding service: failed to persist completion")
	}

	o.update(func(st *model.OnboardingStatus) {
		st.Completed = true
		st.IsLoading = false
	})

	o.logger.Info("Onboarding service: completed")

	return saved
}

// Skip completes onboarding without visiting every screen.
func (o *Onboarding) Skip(ctx context.Context) bool {
	o.logger.Debug("Onboarding service: skipped",
		"screen", o.Snapshot().ScreenIndex)
	return o.Complete(ctx)
}

// Reset clears the flag so the introduction is shown again.
func (o *Onboarding) Reset(ctx context.Context) bool {
	saved := o.store.SaveOnboardingStatus(ctx, false)
	if !saved {
		o.logger.Warn("Onboarding service: failed to persist reset")
	}

	o.update(func(st *model.OnboardingStatus) {
		st.Completed = false
		st.ScreenIndex = 0
		st.IsLoading = false
	})

	o.logger.Info("Onboarding service: reset")

	return saved
}

// Advance moves to the next screen. The index has no upper bound;
// callers stop at the last screen or use Next.
func (o *Onboarding) Advance() {
	o.update(func(st *model.OnboardingStatus) {
		st.ScreenIndex++
	})
}

// Retreat moves to the previous screen, stopping at the first.
func (o *Onboarding) Retreat() {
	o.SetScreen(o.Snapshot().ScreenIndex - 1)
}

// SetScreen jumps to screen i. Negative values select the first screen.
func (o *Onboarding) SetScreen(i int) {
	o.update(func(st *model.OnboardingStatus) {
		st.ScreenIndex = max(0, i)
	})
}

// Next advances through OnboardingScreens and completes onboarding on
// the last one. It reports whether onboarding is now complete.
func (o *Onboarding) Next(ctx context.Context) bool {
	if o.Snapshot().ScreenIndex >= len(OnboardingScreens)-1 {
		o.Complete(ctx)
		return true
	}
	o.Advance()
	return false
}

// Snapshot returns the current status.
func (o *Onboarding) Snapshot() model.OnboardingStatus {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}

// Subscribe registers fn to receive every status change.
func (o *Onboarding) Subscribe(fn func(model.OnboardingStatus)) func() {
	return o.changes.subscribe(fn)
}

func (o *Onboarding) update(fn func(st *model.OnboardingStatus)) {
	o.mu.Lock()
	fn(&o.status)
	snap := o.status
	o.mu.Unlock()

	o.changes.publish(snap)
}
