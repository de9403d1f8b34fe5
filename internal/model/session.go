package model

// SessionState is the state of the authentication state machine.
type SessionState int

const (
	SessionUnknown SessionState = iota
	SessionAnonymous
	SessionAuthenticated
	SessionInvalidating
)

func (s SessionState) String() string {
	switch s {
	case SessionAnonymous:
		return "anonymous"
	case SessionAuthenticated:
		return "authenticated"
	case SessionInvalidating:
		return "invalidating"
	default:
		return "unknown"
	}
}

// Session is a snapshot of the session state.
type Session struct {
	State           SessionState
	User            *User
	Token           string
	IsAuthenticated bool
	IsLoading       bool
	LastError       string
	// Generation increases on every transition into or out of Authenticated.
	Generation uint64
}

// OnboardingStatus is a snapshot of the onboarding state.
type OnboardingStatus struct {
	Completed   bool
	ScreenIndex int
	IsLoading   bool
}

// LocationsSnapshot is a snapshot of the location state.
type LocationsSnapshot struct {
	Locations []Location
	HasAny    bool
	IsLoading bool
	LastError string
}
