package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name string
		in   Inputs
		want Decision
	}{
		{
			name: "onboarding loading",
			in:   Inputs{OnboardingLoading: true, IsAuthenticated: true, OnboardingCompleted: true, HasAnyLocation: true},
			want: Loading,
		},
		{
			name: "auth loading",
			in:   Inputs{AuthLoading: true, OnboardingCompleted: true},
			want: Loading,
		},
		{
			name: "locations loading after onboarding and auth",
			in:   Inputs{OnboardingCompleted: true, IsAuthenticated: true, LocationsLoading: true},
			want: Loading,
		},
		{
			name: "locations loading ignored before onboarding",
			in:   Inputs{LocationsLoading: true},
			want: RedirectOnboarding,
		},
		{
			name: "locations loading ignored while anonymous",
			in:   Inputs{OnboardingCompleted: true, LocationsLoading: true},
			want: RedirectAuth,
		},
		{
			name: "onboarding first",
			in:   Inputs{IsAuthenticated: true, HasAnyLocation: true},
			want: RedirectOnboarding,
		},
		{
			name: "auth second",
			in:   Inputs{OnboardingCompleted: true, HasAnyLocation: true},
			want: RedirectAuth,
		},
		{
			name: "location third",
			in:   Inputs{OnboardingCompleted: true, IsAuthenticated: true},
			want: RedirectAddLocation,
		},
		{
			name: "allow",
			in:   Inputs{OnboardingCompleted: true, IsAuthenticated: true, HasAnyLocation: true},
			want: Allow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.in))
		})
	}
}

func TestDecide_AllowRequiresEverything(t *testing.T) {
	for mask := 0; mask < 1<<6; mask++ {
		in := Inputs{
			OnboardingLoading:   mask&1 != 0,
			OnboardingCompleted: mask&2 != 0,
			AuthLoading:         mask&4 != 0,
			IsAuthenticated:     mask&8 != 0,
			LocationsLoading:    mask&16 != 0,
			HasAnyLocation:      mask&32 != 0,
		}
		if Decide(in) == Allow {
			assert.True(t, in.OnboardingCompleted && in.IsAuthenticated && in.HasAnyLocation, "inputs %+v", in)
			assert.False(t, in.OnboardingLoading || in.AuthLoading || in.LocationsLoading, "inputs %+v", in)
		}
	}
}

func TestDecision_Path(t *testing.T) {
	assert.Equal(t, PathOnboarding, RedirectOnboarding.Path())
	assert.Equal(t, PathAuth, RedirectAuth.Path())
	assert.Equal(t, PathAddLocation, RedirectAddLocation.Path())
	assert.Empty(t, Allow.Path())
	assert.Empty(t, Loading.Path())
	assert.Equal(t, "allow", Allow.String())
	assert.Equal(t, "loading", Loading.String())
}
