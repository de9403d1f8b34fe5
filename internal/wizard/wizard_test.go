package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/outagetracker/internal/model"
)

var osu = model.Address{
	FormattedAddress: "12 Oxford St, Accra, Ghana",
	Locality:         "Osu",
	City:             "Accra",
	Country:          "Ghana",
	Lat:              5.556,
	Lng:              -0.182,
}

func TestWizard_InitialState(t *testing.T) {
	w := New()

	assert.Equal(t, StepName, w.Step())
	assert.Equal(t, "Name", w.Step().String())
	assert.Equal(t, DefaultCenter, w.Center())
	assert.False(t, w.HasPoint())
	assert.False(t, w.Back())
	assert.True(t, w.Valid(StepDetails))
	assert.False(t, w.Valid(Step(0)))
}

func TestWizard_StepValidation(t *testing.T) {
	w := New()

	w.SetName("   ")
	require.ErrorIs(t, w.Next(), ErrStepIncomplete)

	w.SetName("Home")
	require.NoError(t, w.Next())
	assert.Equal(t, StepAddress, w.Step())

	require.ErrorIs(t, w.Next(), ErrStepIncomplete)

	w.MoveMarker(5.6, -0.2)
	require.ErrorIs(t, w.Next(), ErrStepIncomplete, "address text is still missing")

	w.ApplyAddress(osu)
	assert.Equal(t, Point{Lat: osu.Lat, Lng: osu.Lng}, w.Center())
	require.NoError(t, w.Next())
	assert.Equal(t, StepDetails, w.Step())

	require.ErrorIs(t, w.Next(), ErrLastStep)
}

func TestWizard_ZeroCoordinatesCount(t *testing.T) {
	w := New()
	w.SetName("Null Island buoy")
	require.NoError(t, w.Next())

	w.ApplyAddress(model.Address{FormattedAddress: "Gulf of Guinea"})
	assert.True(t, w.Valid(StepAddress))
}

func TestWizard_SubmitRequiresLastStepAndIntent(t *testing.T) {
	w := New()
	w.SetName("Home")

	_, err := w.Save()
	require.ErrorIs(t, err, ErrNotLastStep)

	require.NoError(t, w.Next())
	w.ApplyAddress(osu)
	require.NoError(t, w.Next())

	_, err = w.Submit()
	require.ErrorIs(t, err, ErrNoIntent)

	w.SetDetails("Osu", "Accra", "GH")
	in, err := w.Save()
	require.NoError(t, err)
	assert.Equal(t, model.LocationInput{
		Name:      "Home",
		Address:   osu.FormattedAddress,
		Locality:  "Osu",
		City:      "Accra",
		Country:   "GH",
		Latitude:  osu.Lat,
		Longitude: osu.Lng,
	}, in)

	_, err = w.Submit()
	require.ErrorIs(t, err, ErrNoIntent, "intent is consumed by a submission")
}

func TestWizard_StepChangeDropsIntent(t *testing.T) {
	w := New()
	w.SetName("Home")
	require.NoError(t, w.Next())
	w.ApplyAddress(osu)
	require.NoError(t, w.Next())

	w.intent = true
	assert.True(t, w.Back())
	require.NoError(t, w.Next())

	_, err := w.Submit()
	require.ErrorIs(t, err, ErrNoIntent)
}

func TestWizard_CanSave(t *testing.T) {
	w := New()
	assert.False(t, w.CanSave(false))

	w.SetName("Home")
	w.ApplyAddress(osu)
	assert.True(t, w.CanSave(false))
	assert.False(t, w.CanSave(true))
}

func TestWizard_SubmitRejectsOutOfRange(t *testing.T) {
	w := New()
	w.SetName("Nowhere")
	require.NoError(t, w.Next())
	w.ApplyAddress(model.Address{FormattedAddress: "Off the map", Lat: 95, Lng: 0})
	require.NoError(t, w.Next())

	_, err := w.Save()
	require.Error(t, err)
	assert.True(t, model.IsKind(err, model.KindValidation))
}
