// Package wizard drives the three-step add-location form.
package wizard

import (
	"errors"
	"strings"

	"github.com/dtroode/outagetracker/internal/model"
)

// Step is a 1-based wizard position.
type Step int

const (
	StepName Step = iota + 1
	StepAddress
	StepDetails
)

// StepNames lists step titles in order.
var StepNames = []string{"Name", "Address", "Details"}

func (s Step) String() string {
	if s < StepName || s > StepDetails {
		return ""
	}
	return StepNames[s-1]
}

// Point is a map coordinate.
type Point struct {
	Lat float64
	Lng float64
}

// DefaultCenter is where the map opens before an address is chosen.
var DefaultCenter = Point{Lat: 5.57, Lng: -0.26}

var (
	ErrStepIncomplete = errors.New("current step is incomplete")
	ErrLastStep       = errors.New("already on the last step")
	ErrNotLastStep    = errors.New("location can only be saved from the last step")
	ErrNoIntent       = errors.New("save was not requested")
)

// Form holds the values collected so far. Coordinates are nil until set.
type Form struct {
	Name      string
	Address   string
	Locality  string
	City      string
	Country   string
	Latitude  *float64
	Longitude *float64
}

// Wizard is the add-location form state. It is not safe for concurrent use.
type Wizard struct {
	step   Step
	form   Form
	center Point
	intent bool
}

func New() *Wizard {
	return &Wizard{step: StepName, center: DefaultCenter}
}

func (w *Wizard) Step() Step { return w.step }
func (w *Wizard) Form() Form { return w.form }
func (w *Wizard) Center() Point { return w.center }
func (w *Wizard) IsLast() bool { return w.step == StepDetails }
func (w *Wizard) IsFirst() bool { return w.step == StepName }
func (w *Wizard) HasPoint() bool { return w.form.Latitude != nil && w.form.Longitude != nil }

// SetName updates the location name.
func (w *Wizard) SetName(name string) {
	w.form.Name = name
}

// SetDetails updates the optional address parts shown on the last step.
func (w *Wizard) SetDetails(locality, city, country string) {
	w.form.Locality = locality
	w.form.City = city
	w.form.Country = country
}

// ApplyAddress fills the form from a geocoded address and recenters the map.
func (w *Wizard) ApplyAddress(a model.Address) {
	w.form.Address = a.FormattedAddress
	w.form.Locality = a.Locality
	w.form.City = a.City
	w.form.Country = a.Country
	w.setPoint(a.Lat, a.Lng)
}

// MoveMarker sets the coordinates without touching the address text.
func (w *Wizard) MoveMarker(lat, lng float64) {
	w.setPoint(lat, lng)
}

func (w *Wizard) setPoint(lat, lng float64) {
	w.form.Latitude = &lat
	w.form.Longitude = &lng
	w.center = Point{Lat: lat, Lng: lng}
}

// Valid reports whether step s has everything it needs.
func (w *Wizard) Valid(s Step) bool {
	switch s {
	case StepName:
		return strings.TrimSpace(w.form.Name) != ""
	case StepAddress:
		return strings.TrimSpace(w.form.Address) != "" && w.HasPoint()
	case StepDetails:
		return true
	default:
		return false
	}
}

// Next moves forward when the current step is valid.
func (w *Wizard) Next() error {
	if w.IsLast() {
		return ErrLastStep
	}
	if !w.Valid(w.step) {
		return ErrStepIncomplete
	}
	w.goTo(w.step + 1)
	return nil
}

// Back moves to the previous step. It reports whether the step changed.
func (w *Wizard) Back() bool {
	if w.IsFirst() {
		return false
	}
	w.goTo(w.step - 1)
	return true
}

// CanSave reports whether the save action is enabled.
func (w *Wizard) CanSave(busy bool) bool {
	return !busy && w.Valid(StepName) && w.Valid(StepAddress)
}

// Save records the intent to submit and returns the location input.
func (w *Wizard) Save() (model.LocationInput, error) {
	w.intent = true
	return w.Submit()
}

// Submit returns the location input when the wizard is on the last step
// and a save was requested. Any other submission is ignored.
func (w *Wizard) Submit() (model.LocationInput, error) {
	if !w.IsLast() {
		return model.LocationInput{}, ErrNotLastStep
	}
	if !w.intent {
		return model.LocationInput{}, ErrNoIntent
	}
	w.intent = false

	if !w.Valid(StepName) || !w.Valid(StepAddress) {
		return model.LocationInput{}, ErrStepIncomplete
	}

	in := model.LocationInput{
		Name:      strings.TrimSpace(w.form.Name),
		Address:   strings.TrimSpace(w.form.Address),
		Locality:  w.form.Locality,
		City:      w.form.City,
		Country:   w.form.Country,
		Latitude:  *w.form.Latitude,
		Longitude: *w.form.Longitude,
	}
	if err := in.Validate(); err != nil {
		return model.LocationInput{}, err
	}

	return in, nil
}

// goTo changes step and drops any pending save intent.
func (w *Wizard) goTo(s Step) {
	w.step = s
	w.intent = false
}
