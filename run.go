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
	"math"
	"time"

	"github.com/sirupsen/logrus"
)

// Calculations returns a function that runs a series of calculations on
// every atmosphere, in order.
func Calculations(calculators ...AtmosphereManipulator) SimulationManipulator {
	return func(s *Simulation) error {
		for _, a := range s.Atmospheres {
			for _, f := range calculators {
				if err := f(a, s.Dt); err != nil {
					return err
				}
			}
		}
		return nil
	}
}

// UpdateDevices returns a function that updates every device, in order.
func UpdateDevices() SimulationManipulator {
	return func(s *Simulation) error {
		for _, d := range s.Devices {
			if err := d.Update(s.Dt); err != nil {
				return err
			}
		}
		return nil
	}
}

// AdvanceTime returns a function that moves the simulation clock forward
// by one time step. It should be the last of the RunFuncs.
func AdvanceTime() SimulationManipulator {
	return func(s *Simulation) error {
		s.Time += s.Dt
		s.Step++
		return nil
	}
}

// StopAfterSteps returns a function that sets the Done flag once n time
// steps have been completed.
func StopAfterSteps(n int) SimulationManipulator {
	return func(s *Simulation) error {
		if s.Step >= n {
			s.Done = true
		}
		return nil
	}
}

// SteadyStateCheck returns a function that sets the Done flag once the
// total pressure and total heat energy of all atmospheres change by less
// than tolerance (as a fraction) between checks. Checks happen every
// checkPeriod seconds of simulation time.
func SteadyStateCheck(tolerance, checkPeriod float64, log logrus.FieldLogger) SimulationManipulator {
	var oldPressure, oldHeat float64
	timeSinceLastCheck := 0.
	first := true

	return func(s *Simulation) error {
		timeSinceLastCheck += s.Dt
		if timeSinceLastCheck < checkPeriod {
			return nil
		}
		timeSinceLastCheck = 0
		var p, h float64
		for _, a := range s.Atmospheres {
			p += a.Pressure()
			h += a.HeatEnergy()
		}
		if first {
			first = false
			oldPressure, oldHeat = p, h
			return nil
		}
		pOK := converged(p, oldPressure, tolerance)
		hOK := converged(h, oldHeat, tolerance)
		if log != nil {
			log.WithFields(logrus.Fields{
				"step":     s.Step,
				"pressure": p,
				"heat":     h,
			}).Debug("steady state check")
		}
		oldPressure, oldHeat = p, h
		if pOK && hOK {
			s.Done = true
		}
		return nil
	}
}

func converged(newSum, oldSum, tolerance float64) bool {
	if newSum == oldSum {
		return true
	}
	bias := (newSum - oldSum) / oldSum
	return !(math.Abs(bias) > tolerance || math.IsInf(bias, 0) || math.IsNaN(bias))
}

// Log returns a function that writes simulation status messages to log.
func Log(log logrus.FieldLogger) SimulationManipulator {
	startTime := time.Now()
	timeStepTime := time.Now()

	return func(s *Simulation) error {
		var p float64
		for _, a := range s.Atmospheres {
			p += a.Pressure()
		}
		log.WithFields(logrus.Fields{
			"step":          s.Step,
			"time":          s.Time,
			"walltime":      time.Since(startTime).Seconds(),
			"Δwalltime":     time.Since(timeStepTime).Seconds(),
			"totalPressure": p,
		}).Info("atmospherics: completed step")
		timeStepTime = time.Now()
		return nil
	}
}

// History is a record of the state of a simulation over time.
type History struct {
	Time   []float64    // seconds
	States [][]Snapshot // one Snapshot per atmosphere per record
}

// Series returns the values of f for the atmosphere named name at each
// recorded time. Atmospheres that are missing from a record are reported
// as NaN.
func (h *History) Series(name string, f func(Snapshot) float64) []float64 {
	out := make([]float64, len(h.States))
	for i, state := range h.States {
		out[i] = math.NaN()
		for _, snap := range state {
			if snap.Name == name {
				out[i] = f(snap)
				break
			}
		}
	}
	return out
}

// Record returns a function that appends the state of every atmosphere to
// h every `every` steps.
func Record(h *History, every int) SimulationManipulator {
	if every < 1 {
		every = 1
	}
	return func(s *Simulation) error {
		if s.Step%every != 0 {
			return nil
		}
		h.Time = append(h.Time, s.Time)
		h.States = append(h.States, s.Snapshots())
		return nil
	}
}
