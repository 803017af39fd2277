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

package atmosutil

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/atmospherics"
)

// Run runs the scenario in the file at scenarioPath and returns the
// finished simulation and its history. Progress is written to log, which
// must not be nil.
//
// If steps is above zero, it replaces the number of steps given in the
// scenario file.
//
// If plotFile is not empty, a chart of plotVariable for every atmosphere is
// saved there. plotVariable must be one of PlotVariables().
func Run(log logrus.FieldLogger, scenarioPath string, steps int, plotFile, plotVariable string) (*atmospherics.Simulation, *atmospherics.History, error) {
	startTime := time.Now()

	s, err := LoadScenario(scenarioPath)
	if err != nil {
		return nil, nil, err
	}
	if steps > 0 {
		s.Steps = steps
	}
	if plotFile != "" {
		if _, ok := plotVariables[plotVariable]; !ok {
			return nil, nil, invalid("cannot plot %q; options are %v", plotVariable, PlotVariables())
		}
	}
	sim, h, err := s.Build(log)
	if err != nil {
		return nil, nil, err
	}
	outputs, err := NewOutputter(sim.Registry, s.Outputs, nil)
	if err != nil {
		return nil, nil, err
	}
	log.WithFields(logrus.Fields{
		"scenario":    scenarioPath,
		"atmospheres": len(sim.Atmospheres),
		"devices":     len(sim.Devices),
	}).Info("atmos: starting simulation")

	if err := sim.Init(); err != nil {
		return nil, nil, err
	}
	if err := sim.Run(); err != nil {
		return nil, nil, err
	}

	for _, a := range sim.Atmospheres {
		r := a.Readings()
		fields := logrus.Fields{
			"atmosphere":  a.Name,
			"pressure":    fmt.Sprint(r.Pressure),
			"temperature": fmt.Sprint(r.Temperature),
			"heat":        fmt.Sprint(r.HeatEnergy),
			"mass":        fmt.Sprint(r.Mass),
			"moles":       a.Moles(),
		}
		vals, err := outputs.Evaluate(a)
		if err != nil {
			return nil, nil, err
		}
		for k, v := range vals {
			fields[k] = v
		}
		log.WithFields(fields).Info("atmos: final state")
	}

	if plotFile != "" {
		names := make([]string, len(sim.Atmospheres))
		for i, a := range sim.Atmospheres {
			names[i] = a.Name
		}
		if err := SavePlot(h, plotFile, plotVariable, names...); err != nil {
			return nil, nil, fmt.Errorf("atmos: saving plot: %w", err)
		}
		log.WithField("file", plotFile).Info("atmos: saved plot")
	}

	log.WithFields(logrus.Fields{
		"steps":    sim.Step,
		"time":     sim.Time,
		"walltime": time.Since(startTime).Seconds(),
		"state":    sim.Fingerprint(),
	}).Info("atmos: simulation complete")
	return sim, h, nil
}
