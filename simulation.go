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

package atmospherics

import (
	"fmt"

	"github.com/spatialmodel/atmospherics/internal/hash"
)

// Updater is a unit that is advanced once per time step, typically a
// device from package device.
type Updater interface {
	Update(dt float64) error
}

// Simulation holds the current state of a network of atmospheres and the
// devices connecting them.
//
// Each time step, the RunFuncs are called in order. The usual order is to
// run the reactions in every atmosphere (in the order of Atmospheres) and
// then update every device (in the order of Devices). Because devices act
// directly on shared atmospheres, these orders affect the results.
type Simulation struct {
	Registry    *Registry
	Atmospheres []*Atmosphere
	Devices     []Updater

	Dt   float64 // seconds
	Time float64 // seconds since the start of the simulation
	Step int     // number of completed time steps

	// Done is set by a RunFunc when the simulation should stop.
	Done bool

	// InitFuncs are run once by Init.
	InitFuncs []SimulationManipulator

	// RunFuncs are run every time step by Run.
	RunFuncs []SimulationManipulator
}

// SimulationManipulator is a function that operates on a simulation.
type SimulationManipulator func(s *Simulation) error

// AtmosphereManipulator is a function that operates on a single
// atmosphere over a time step Δt [s].
type AtmosphereManipulator func(a *Atmosphere, Δt float64) error

// Init initializes the simulation by running s.InitFuncs.
func (s *Simulation) Init() error {
	if !(s.Dt > 0) {
		return invalidConfig("simulation: Dt=%g but should be >0", s.Dt)
	}
	for _, a := range s.Atmospheres {
		if s.Registry != nil && a.Registry() != s.Registry {
			return invalidConfig("simulation: atmosphere %q uses a different registry", a.Name)
		}
	}
	for i, f := range s.InitFuncs {
		if err := f(s); err != nil {
			return fmt.Errorf("atmospherics: init step %d: %w", i, err)
		}
	}
	return nil
}

// Run carries out the simulation by running s.RunFuncs until s.Done is true.
func (s *Simulation) Run() error {
	if len(s.RunFuncs) == 0 {
		return invalidConfig("simulation: no run functions")
	}
	for !s.Done {
		for _, f := range s.RunFuncs {
			if err := f(s); err != nil {
				return fmt.Errorf("atmospherics: step %d: %w", s.Step, err)
			}
		}
	}
	return nil
}

// Atmosphere returns the atmosphere with the given name.
func (s *Simulation) Atmosphere(name string) (*Atmosphere, error) {
	for _, a := range s.Atmospheres {
		if a.Name == name {
			return a, nil
		}
	}
	return nil, invalidConfig("simulation: no atmosphere named %q", name)
}

// Snapshots returns the state of every atmosphere, in order.
func (s *Simulation) Snapshots() []Snapshot {
	out := make([]Snapshot, len(s.Atmospheres))
	for i, a := range s.Atmospheres {
		out[i] = a.Snapshot()
	}
	return out
}

// Fingerprint returns a key that identifies the current state of all
// atmospheres. Two simulations with the same fingerprint hold the same
// gas.
func (s *Simulation) Fingerprint() string {
	return hash.Hash(s.Snapshots())
}
