package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/dtroode/outagetracker/internal/app"
	"github.com/dtroode/outagetracker/internal/gate"
	"github.com/dtroode/outagetracker/internal/model"
	"github.com/dtroode/outagetracker/internal/service"
	"github.com/dtroode/outagetracker/internal/validate"
	"github.com/dtroode/outagetracker/internal/wizard"
)

const usage = `commands:
  status                              show session, onboarding and gate state
  onboarding complete|skip|reset|next manage the introduction screens
  login -email E -password P [-logout-others]
  register -name N -email E -password P -confirm P -accept-terms
  logout
  forgot-password -email E
  locations list
  locations add -name N (-address A [-lat X -lng Y] | -lat X -lng Y)
  locations update -id ID -name N -address A -lat X -lng Y
  locations remove -id ID
  geocode (-address A | -lat X -lng Y)
`

var errUsage = errors.New("invalid usage")

func execute(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "status":
		return status(a, out)
	case "onboarding":
		return onboarding(ctx, a, rest, out)
	case "login":
		return login(ctx, a, rest, out)
	case "register":
		return register(ctx, a, rest, out)
	case "logout":
		a.Session.Logout(ctx)
		fmt.Fprintln(out, "Logged out.")
		return nil
	case "forgot-password":
		return forgotPassword(ctx, a, rest, out)
	case "locations":
		return locations(ctx, a, rest, out)
	case "geocode":
		return geocode(ctx, a, rest, out)
	default:
		return errUsage
	}
}

func status(a *app.App, out io.Writer) error {
	s := a.Session.Snapshot()
	o := a.Onboarding.Snapshot()
	l := a.Locations.Snapshot()
	d := a.Gate.Current()

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "session:\t%s\n", s.State)
	if s.User != nil {
		fmt.Fprintf(w, "user:\t%s <%s>\n", s.User.Name, s.User.Email)
	}
	fmt.Fprintf(w, "onboarding:\t%s\n", doneOrPending(o.Completed))
	fmt.Fprintf(w, "locations:\t%d\n", len(l.Locations))
	if d.Path() != "" {
		fmt.Fprintf(w, "gate:\t%s -> %s\n", d, d.Path())
	} else {
		fmt.Fprintf(w, "gate:\t%s\n", d)
	}
	return w.Flush()
}

func doneOrPending(done bool) string {
	if done {
		return "completed"
	}
	return "pending"
}

func onboarding(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	if len(args) != 1 {
		return errUsage
	}

	switch args[0] {
	case "complete":
		a.Onboarding.Complete(ctx)
	case "skip":
		a.Onboarding.Skip(ctx)
	case "reset":
		a.Onboarding.Reset(ctx)
	case "next":
		if !a.Onboarding.Next(ctx) {
			i := a.Onboarding.Snapshot().ScreenIndex
			fmt.Fprintf(out, "Screen %d of %d: %s\n", i+1, len(service.OnboardingScreens), service.OnboardingScreens[i])
			return nil
		}
	default:
		return errUsage
	}

	fmt.Fprintf(out, "Onboarding %s.\n", doneOrPending(a.Onboarding.Snapshot().Completed))
	return nil
}

func login(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var creds model.Credentials
	fs.StringVar(&creds.Email, "email", "", "account email")
	fs.StringVar(&creds.Password, "password", "", "account password")
	fs.BoolVar(&creds.LogoutOthers, "logout-others", false, "sign out other devices")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	user, err := a.Session.Login(ctx, creds)
	if err != nil {
		return errors.New(message(err, service.MsgLoginFailed))
	}

	fmt.Fprintf(out, "Signed in as %s.\n", user.Name)
	return afterAuth(a, out)
}

func register(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var reg model.Registration
	fs.StringVar(&reg.Name, "name", "", "full name")
	fs.StringVar(&reg.Email, "email", "", "account email")
	fs.StringVar(&reg.Password, "password", "", "account password")
	fs.StringVar(&reg.PasswordConfirmation, "confirm", "", "password confirmation")
	fs.BoolVar(&reg.AcceptTerms, "accept-terms", false, "agree to the terms and conditions")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	strength := validate.PasswordStrength(reg.Password)
	fmt.Fprintf(out, "Password strength: %s\n", validate.StrengthLabel(strength))

	user, err := a.Session.Register(ctx, reg)
	if err != nil {
		return errors.New(message(err, service.MsgRegisterFailed))
	}

	fmt.Fprintf(out, "Welcome, %s.\n", user.Name)
	return afterAuth(a, out)
}

func afterAuth(a *app.App, out io.Writer) error {
	a.Locations.Wait()
	if d := a.Gate.Current(); d != gate.Allow && d.Path() != "" {
		fmt.Fprintf(out, "Next: %s\n", d.Path())
	}
	return nil
}

func forgotPassword(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("forgot-password", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	email := fs.String("email", "", "account email")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	if err := a.Session.ForgotPassword(ctx, *email); err != nil {
		return errors.New(message(err, service.MsgResetFailed))
	}

	fmt.Fprintf(out, "If an account exists for %s, a reset link is on its way.\n", *email)
	return nil
}

func locations(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	if !a.Session.Snapshot().IsAuthenticated {
		return model.ErrNotAuthenticated
	}

	switch args[0] {
	case "list":
		return listLocations(a, out)
	case "add":
		return addLocation(ctx, a, args[1:], out)
	case "update":
		return updateLocation(ctx, a, args[1:], out)
	case "remove":
		return removeLocation(ctx, a, args[1:], out)
	default:
		return errUsage
	}
}

func listLocations(a *app.App, out io.Writer) error {
	snap := a.Locations.Snapshot()
	if snap.LastError != "" {
		return errors.New(snap.LastError)
	}
	if !snap.HasAny {
		fmt.Fprintf(out, "No locations yet. Add one with: locations add\n")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tADDRESS\tLAT\tLNG")
	for _, loc := range snap.Locations {
		fmt.Fprintf(w, "%d\t%s\t%s\t%.5f\t%.5f\n", loc.ID, loc.Name, loc.Address, loc.Latitude, loc.Longitude)
	}
	return w.Flush()
}

type locationFlags struct {
	fs       *flag.FlagSet
	id       int64
	name     string
	address  string
	locality string
	city     string
	country  string
	lat      string
	lng      string
}

func newLocationFlags(name string) *locationFlags {
	f := &locationFlags{fs: flag.NewFlagSet(name, flag.ContinueOnError)}
	f.fs.SetOutput(io.Discard)
	f.fs.Int64Var(&f.id, "id", 0, "location id")
	f.fs.StringVar(&f.name, "name", "", "location name")
	f.fs.StringVar(&f.address, "address", "", "street address or place")
	f.fs.StringVar(&f.locality, "locality", "", "neighbourhood")
	f.fs.StringVar(&f.city, "city", "", "city")
	f.fs.StringVar(&f.country, "country", "", "country")
	f.fs.StringVar(&f.lat, "lat", "", "latitude")
	f.fs.StringVar(&f.lng, "lng", "", "longitude")
	return f
}

func (f *locationFlags) point() (float64, float64, bool, error) {
	if f.lat == "" && f.lng == "" {
		return 0, 0, false, nil
	}
	lat, err := strconv.ParseFloat(f.lat, 64)
	if err != nil {
		return 0, 0, false, fmt.Errorf("invalid latitude %q", f.lat)
	}
	lng, err := strconv.ParseFloat(f.lng, 64)
	if err != nil {
		return 0, 0, false, fmt.Errorf("invalid longitude %q", f.lng)
	}
	return lat, lng, true, nil
}

// fill walks the wizard with the flag values, geocoding the address or
// the coordinates when only one of them is given.
func (f *locationFlags) fill(ctx context.Context, a *app.App) (model.LocationInput, error) {
	lat, lng, hasPoint, err := f.point()
	if err != nil {
		return model.LocationInput{}, err
	}

	w := wizard.New()
	w.SetName(f.name)
	if err := w.Next(); err != nil {
		return model.LocationInput{}, errors.New("a location name is required")
	}

	switch {
	case f.address != "" && hasPoint:
		w.ApplyAddress(model.Address{FormattedAddress: f.address, Lat: lat, Lng: lng})
	case f.address != "":
		addr, err := a.Geocoder.Geocode(ctx, f.address)
		if err != nil {
			return model.LocationInput{}, err
		}
		w.ApplyAddress(addr)
	case hasPoint:
		addr, err := a.Geocoder.ReverseGeocode(ctx, lat, lng)
		if err != nil {
			return model.LocationInput{}, err
		}
		w.ApplyAddress(addr)
	}
	if err := w.Next(); err != nil {
		return model.LocationInput{}, errors.New("an address and coordinates are required")
	}

	form := w.Form()
	w.SetDetails(orDefault(f.locality, form.Locality), orDefault(f.city, form.City), orDefault(f.country, form.Country))

	return w.Save()
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

func addLocation(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	f := newLocationFlags("locations add")
	if err := f.fs.Parse(args); err != nil {
		return errUsage
	}

	input, err := f.fill(ctx, a)
	if err != nil {
		return err
	}

	loc, err := a.Locations.Add(ctx, input)
	if err != nil {
		return errors.New(message(err, service.MsgCreateLocationFailed))
	}
	if msg := a.Locations.Snapshot().LastError; msg != "" {
		fmt.Fprintln(out, msg)
	}

	fmt.Fprintf(out, "Saved %q (id %d).\n", loc.Name, loc.ID)
	return nil
}

func updateLocation(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	f := newLocationFlags("locations update")
	if err := f.fs.Parse(args); err != nil || f.id == 0 {
		return errUsage
	}

	input, err := f.fill(ctx, a)
	if err != nil {
		return err
	}

	loc, err := a.Locations.Update(ctx, f.id, input)
	if err != nil {
		return errors.New(message(err, service.MsgUpdateLocationFailed))
	}

	fmt.Fprintf(out, "Updated %q (id %d).\n", loc.Name, loc.ID)
	return nil
}

func removeLocation(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	f := newLocationFlags("locations remove")
	if err := f.fs.Parse(args); err != nil || f.id == 0 {
		return errUsage
	}

	if err := a.Locations.Remove(ctx, f.id); err != nil {
		return errors.New(message(err, service.MsgDeleteLocationFailed))
	}

	fmt.Fprintf(out, "Removed location %d.\n", f.id)
	return nil
}

func geocode(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	f := newLocationFlags("geocode")
	if err := f.fs.Parse(args); err != nil {
		return errUsage
	}
	lat, lng, hasPoint, err := f.point()
	if err != nil {
		return err
	}

	var addr model.Address
	switch {
	case f.address != "":
		addr, err = a.Geocoder.Geocode(ctx, f.address)
	case hasPoint:
		addr, err = a.Geocoder.ReverseGeocode(ctx, lat, lng)
	default:
		return errUsage
	}
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "address:\t%s\n", addr.FormattedAddress)
	fmt.Fprintf(w, "locality:\t%s\n", addr.Locality)
	fmt.Fprintf(w, "city:\t%s\n", addr.City)
	fmt.Fprintf(w, "state:\t%s\n", addr.State)
	fmt.Fprintf(w, "country:\t%s (%s)\n", addr.Country, addr.CountryCode)
	fmt.Fprintf(w, "coordinates:\t%.6f, %.6f\n", addr.Lat, addr.Lng)
	return w.Flush()
}

// message picks the text shown for err: the validation message, the
// server's message, or fallback.
func message(err error, fallback string) string {
	if apiErr, ok := model.AsAPIError(err); ok && apiErr.Kind == model.KindValidation && apiErr.Status == 0 {
		return apiErr.Message
	}
	return model.MessageOr(err, fallback)
}
