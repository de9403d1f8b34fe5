// Package gate decides whether protected views may be shown.
package gate

import "github.com/dtroode/outagetracker/internal/model"

// Decision is the outcome of evaluating the gate.
type Decision int

const (
	Loading Decision = iota
	RedirectOnboarding
	RedirectAuth
	RedirectAddLocation
	Allow
)

// Route paths for redirect decisions.
const (
	PathOnboarding  = "/onboarding"
	PathAuth        = "/auth"
	PathAddLocation = "/locations/add"
)

func (d Decision) String() string {
	switch d {
	case RedirectOnboarding:
		return "redirect_onboarding"
	case RedirectAuth:
		return "redirect_auth"
	case RedirectAddLocation:
		return "redirect_add_location"
	case Allow:
		return "allow"
	default:
		return "loading"
	}
}

// Path returns the redirect target, or "" for Loading and Allow.
func (d Decision) Path() string {
	switch d {
	case RedirectOnboarding:
		return PathOnboarding
	case RedirectAuth:
		return PathAuth
	case RedirectAddLocation:
		return PathAddLocation
	default:
		return ""
	}
}

// Inputs are the values the gate depends on.
type Inputs struct {
	OnboardingLoading   bool
	OnboardingCompleted bool
	AuthLoading         bool
	IsAuthenticated     bool
	LocationsLoading    bool
	HasAnyLocation      bool
}

// InputsFrom builds gate inputs from state snapshots.
func InputsFrom(o model.OnboardingStatus, s model.Session, l model.LocationsSnapshot) Inputs {
	return Inputs{
		OnboardingLoading:   o.IsLoading,
		OnboardingCompleted: o.Completed,
		AuthLoading:         s.IsLoading,
		IsAuthenticated:     s.IsAuthenticated,
		LocationsLoading:    l.IsLoading,
		HasAnyLocation:      l.HasAny,
	}
}

// Decide returns the first unmet precondition, in order: onboarding,
// authentication, at least one location.
func Decide(in Inputs) Decision {
	if in.OnboardingLoading || in.AuthLoading {
		return Loading
	}
	if in.OnboardingCompleted && in.IsAuthenticated && in.LocationsLoading {
		return Loading
	}
	if !in.OnboardingCompleted {
		return RedirectOnboarding
	}
	if !in.IsAuthenticated {
		return RedirectAuth
	}
	if !in.HasAnyLocation {
		return RedirectAddLocation
	}
	return Allow
}
