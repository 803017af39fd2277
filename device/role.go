/*
Copyright © 2026 the Atmospherics authors.
This file is part of Atmospherics.

Atmospherics is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Atmospherics is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Atmospherics.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package device contains units that move gas and heat between
// atmospheres: valves, pumps, mixers, vents and heaters.
//
// A device is bound to its atmospheres when it is created and cannot be
// rebound. It does nothing in Update unless it has been switched on and
// the live readings of its atmospheres fall within its operating windows.
// Devices start switched off.
package device

import (
	"fmt"

	"github.com/spatialmodel/atmospherics"
)

// Device is a unit that acts on one or more atmospheres once per time step.
type Device interface {
	atmospherics.Updater

	// Toggle flips the on/off switch.
	Toggle()

	// Set sets the on/off switch.
	Set(on bool)

	// IsOn reports the position of the on/off switch.
	IsOn() bool

	// IsRunning reports whether the device is switched on and all of its
	// operating windows are satisfied.
	IsRunning() bool
}

// HasSource is implemented by devices that take gas from an atmosphere.
type HasSource interface {
	Source() *atmospherics.Atmosphere
}

// HasDestination is implemented by devices that put gas or heat into an
// atmosphere.
type HasDestination interface {
	Destination() *atmospherics.Atmosphere
}

// HasDifferential is implemented by devices whose operation also depends on
// the difference between their source and destination readings.
type HasDifferential interface {
	Differentials() []*Differential
}

// HasLimits is implemented by every device role. The returned Limits can
// be edited in place.
type HasLimits interface {
	OperatingLimits() *Limits
}

// Window is an inclusive [Min, Max] range.
type Window struct {
	Min, Max float64
}

// Contains reports whether Min <= v <= Max.
func (w Window) Contains(v float64) bool {
	return v >= w.Min && v <= w.Max
}

// Limits are the absolute readings an atmosphere must have for a device to
// run.
type Limits struct {
	Temperature Window // K
	Pressure    Window // kPa
}

// DefaultLimits returns windows covering the full physical range.
func DefaultLimits() Limits {
	return Limits{
		Temperature: Window{Min: 0, Max: 1e6},
		Pressure:    Window{Min: 0, Max: 10132.5},
	}
}

// Allow reports whether the readings of a are within l.
func (l Limits) Allow(a *atmospherics.Atmosphere) bool {
	return l.Temperature.Contains(a.Temperature()) && l.Pressure.Contains(a.Pressure())
}

// Differential holds windows on source minus destination readings.
type Differential struct {
	Temperature Window // K
	Pressure    Window // kPa
}

// DefaultDifferential returns windows that allow any realistic difference.
func DefaultDifferential() Differential {
	return Differential{
		Temperature: Window{Min: -1e6, Max: 1e6},
		Pressure:    Window{Min: -10132.5, Max: 10132.5},
	}
}

// Allow reports whether the differences between src and dst are within d.
func (d Differential) Allow(src, dst *atmospherics.Atmosphere) bool {
	return d.Temperature.Contains(src.Temperature()-dst.Temperature()) &&
		d.Pressure.Contains(src.Pressure()-dst.Pressure())
}

// power is the on/off switch shared by every device.
type power struct {
	on bool
}

func (p *power) Toggle()     { p.on = !p.on }
func (p *power) Set(on bool) { p.on = on }
func (p *power) IsOn() bool  { return p.on }

// Sink is the role of a device that takes gas out of a single atmosphere.
// Limits apply to the source.
type Sink struct {
	power
	Limits Limits

	source *atmospherics.Atmosphere
}

func newSink(source *atmospherics.Atmosphere) (Sink, error) {
	if source == nil {
		return Sink{}, invalid("sink has no source atmosphere")
	}
	return Sink{Limits: DefaultLimits(), source: source}, nil
}

// OperatingLimits returns the source windows.
func (s *Sink) OperatingLimits() *Limits { return &s.Limits }

// Source returns the atmosphere the device acts on.
func (s *Sink) Source() *atmospherics.Atmosphere { return s.source }

// IsRunning reports whether the device is on and the source readings are
// within s.Limits.
func (s *Sink) IsRunning() bool {
	return s.on && s.Limits.Allow(s.source)
}

// Source is the role of a device that acts on a single destination
// atmosphere. Limits apply to the destination.
type Source struct {
	power
	Limits Limits

	destination *atmospherics.Atmosphere
}

func newSource(destination *atmospherics.Atmosphere) (Source, error) {
	if destination == nil {
		return Source{}, invalid("source has no destination atmosphere")
	}
	return Source{Limits: DefaultLimits(), destination: destination}, nil
}

// OperatingLimits returns the destination windows.
func (s *Source) OperatingLimits() *Limits { return &s.Limits }

// Destination returns the atmosphere the device acts on.
func (s *Source) Destination() *atmospherics.Atmosphere { return s.destination }

// IsRunning reports whether the device is on and the destination readings
// are within s.Limits.
func (s *Source) IsRunning() bool {
	return s.on && s.Limits.Allow(s.destination)
}

// BinaryDevice is the role of a device that connects a source atmosphere to
// a destination atmosphere. Limits apply to the destination and
// Differential to source minus destination.
type BinaryDevice struct {
	power
	Limits       Limits
	Differential Differential

	source, destination *atmospherics.Atmosphere
}

func newBinary(source, destination *atmospherics.Atmosphere) (BinaryDevice, error) {
	if source == nil || destination == nil {
		return BinaryDevice{}, invalid("binary device needs both a source and a destination")
	}
	if source == destination {
		return BinaryDevice{}, invalid("binary device source and destination are the same atmosphere")
	}
	return BinaryDevice{
		Limits:       DefaultLimits(),
		Differential: DefaultDifferential(),
		source:       source,
		destination:  destination,
	}, nil
}

// OperatingLimits returns the destination windows.
func (b *BinaryDevice) OperatingLimits() *Limits { return &b.Limits }

// Source returns the atmosphere gas or heat is taken from.
func (b *BinaryDevice) Source() *atmospherics.Atmosphere { return b.source }

// Destination returns the atmosphere gas or heat is delivered to.
func (b *BinaryDevice) Destination() *atmospherics.Atmosphere { return b.destination }

// Differentials returns the differential windows of the device.
func (b *BinaryDevice) Differentials() []*Differential { return []*Differential{&b.Differential} }

// IsRunning reports whether the device is on, the destination readings are
// within b.Limits and the differences are within b.Differential.
func (b *BinaryDevice) IsRunning() bool {
	return b.on && b.Limits.Allow(b.destination) &&
		b.Differential.Allow(b.source, b.destination)
}

// mixer is the role of a device that combines two sources into one
// destination. Ratio 0 takes everything from source A and ratio 1
// everything from source B.
type mixer struct {
	power
	Limits        Limits
	DifferentialA Differential // source A minus destination
	DifferentialB Differential // source B minus destination

	sourceA, sourceB, destination *atmospherics.Atmosphere
}

func newMixer(sourceA, sourceB, destination *atmospherics.Atmosphere, ratio float64) (mixer, error) {
	if sourceA == nil || sourceB == nil || destination == nil {
		return mixer{}, invalid("mixer needs two sources and a destination")
	}
	if sourceA == destination || sourceB == destination {
		return mixer{}, invalid("mixer source is also its destination")
	}
	if !(ratio >= 0 && ratio <= 1) {
		return mixer{}, invalid("mixer ratio=%g but should be within [0, 1]", ratio)
	}
	return mixer{
		Limits:        DefaultLimits(),
		DifferentialA: DefaultDifferential(),
		DifferentialB: DefaultDifferential(),
		sourceA:       sourceA,
		sourceB:       sourceB,
		destination:   destination,
	}, nil
}

// OperatingLimits returns the destination windows.
func (m *mixer) OperatingLimits() *Limits { return &m.Limits }

// SourceA returns the first source.
func (m *mixer) SourceA() *atmospherics.Atmosphere { return m.sourceA }

// SourceB returns the second source.
func (m *mixer) SourceB() *atmospherics.Atmosphere { return m.sourceB }

// Destination returns the atmosphere the sources are mixed into.
func (m *mixer) Destination() *atmospherics.Atmosphere { return m.destination }

// Differentials returns the differential windows for source A and source B.
func (m *mixer) Differentials() []*Differential {
	return []*Differential{&m.DifferentialA, &m.DifferentialB}
}

// IsRunning reports whether the mixer is on, the destination readings are
// within m.Limits and both source differentials are within their windows.
func (m *mixer) IsRunning() bool {
	return m.on && m.Limits.Allow(m.destination) &&
		m.DifferentialA.Allow(m.sourceA, m.destination) &&
		m.DifferentialB.Allow(m.sourceB, m.destination)
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("device: %s: %w", fmt.Sprintf(format, args...), atmospherics.ErrInvalidConfiguration)
}

func checkRate(name string, v float64) error {
	if !(v >= 0) {
		return invalid("%s=%g but should be >=0", name, v)
	}
	return nil
}

func checkFilter(a *atmospherics.Atmosphere, filter []atmospherics.ChemicalID) error {
	for _, id := range filter {
		if !a.Registry().Has(id) {
			return invalid("filter chemical %q not found in registry", id)
		}
	}
	return nil
}
