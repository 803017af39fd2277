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
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

// heater is a minimal Updater that heats an atmosphere.
type heater struct {
	a       *Atmosphere
	watts   float64
	updates int
}

func (h *heater) Update(dt float64) error {
	h.updates++
	h.a.AddHeat(h.watts * dt)
	return nil
}

func testSimulation(t *testing.T) (*Simulation, *heater) {
	r := testRegistry(t, hydrogenCombustion())
	a, err := NewAtmosphere(r, 1000, WithName("chamber"))
	if err != nil {
		t.Fatal(err)
	}
	if err := a.AddMolesAtTemperature("nitrogen", 40, 293.15); err != nil {
		t.Fatal(err)
	}
	h := &heater{a: a, watts: 100}
	return &Simulation{
		Registry:    r,
		Atmospheres: []*Atmosphere{a},
		Devices:     []Updater{h},
		Dt:          0.5,
	}, h
}

func TestRun(t *testing.T) {
	const steps = 5
	s, h := testSimulation(t)
	heat := s.Atmospheres[0].HeatEnergy()
	s.RunFuncs = []SimulationManipulator{
		Calculations(React()),
		UpdateDevices(),
		AdvanceTime(),
		StopAfterSteps(steps),
	}
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	if err := s.Run(); err != nil {
		t.Fatal(err)
	}
	if s.Step != steps || h.updates != steps {
		t.Errorf("ran %d steps and %d updates, want %d", s.Step, h.updates, steps)
	}
	if different(s.Time, steps*s.Dt, testTolerance) {
		t.Errorf("time: have %g, want %g", s.Time, steps*s.Dt)
	}
	want := heat + h.watts*s.Dt*steps
	if different(s.Atmospheres[0].HeatEnergy(), want, testTolerance) {
		t.Errorf("heat: have %g, want %g", s.Atmospheres[0].HeatEnergy(), want)
	}
}

func TestSimulationErrors(t *testing.T) {
	s, _ := testSimulation(t)
	if err := s.Run(); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("run without run functions: %v", err)
	}
	s.Dt = 0
	if err := s.Init(); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("zero time step: %v", err)
	}
	s.Dt = 1
	s.RunFuncs = []SimulationManipulator{
		func(*Simulation) error { return ErrUnknownChemical },
	}
	if err := s.Run(); !errors.Is(err, ErrUnknownChemical) {
		t.Errorf("run errors should be passed on: %v", err)
	}
	if _, err := s.Atmosphere("nowhere"); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("missing atmosphere: %v", err)
	}
	if a, err := s.Atmosphere("chamber"); err != nil || a != s.Atmospheres[0] {
		t.Errorf("lookup by name: %v", err)
	}
}

func TestSteadyStateCheck(t *testing.T) {
	s, _ := testSimulation(t)
	s.Devices = nil
	s.RunFuncs = []SimulationManipulator{
		Calculations(React()),
		UpdateDevices(),
		AdvanceTime(),
		SteadyStateCheck(0.001, 1, logrus.New()),
		StopAfterSteps(100),
	}
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	if err := s.Run(); err != nil {
		t.Fatal(err)
	}
	// With nothing happening, the first check records the state and the
	// second finds it unchanged.
	if s.Step != 4 {
		t.Errorf("converged after %d steps, want 4", s.Step)
	}
}

func TestFingerprint(t *testing.T) {
	s1, _ := testSimulation(t)
	s2, _ := testSimulation(t)
	if s1.Fingerprint() != s2.Fingerprint() {
		t.Error("identical simulations should have the same fingerprint")
	}
	s2.Atmospheres[0].AddHeat(1)
	if s1.Fingerprint() == s2.Fingerprint() {
		t.Error("different simulations should have different fingerprints")
	}
}

func TestRecordAndLog(t *testing.T) {
	s, _ := testSimulation(t)
	var buf bytes.Buffer
	log := logrus.New()
	log.Out = &buf
	var h History
	s.InitFuncs = []SimulationManipulator{Record(&h, 2)}
	s.RunFuncs = []SimulationManipulator{
		UpdateDevices(),
		AdvanceTime(),
		Record(&h, 2),
		Log(log),
		StopAfterSteps(6),
	}
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	if err := s.Run(); err != nil {
		t.Fatal(err)
	}
	if len(h.Time) != 4 || len(h.States) != 4 {
		t.Fatalf("have %d records, want 4", len(h.Time))
	}
	temps := h.Series("chamber", func(s Snapshot) float64 { return s.Temperature })
	for i := 1; i < len(temps); i++ {
		if temps[i] <= temps[i-1] {
			t.Errorf("heated chamber did not warm up: %v", temps)
		}
	}
	if got := strings.Count(buf.String(), "completed step"); got != 6 {
		t.Errorf("logged %d steps, want 6", got)
	}
}

func TestAtmosphereManipulators(t *testing.T) {
	r := testRegistry(t, hydrogenCombustion())
	var atmospheres []*Atmosphere
	for _, name := range []string{"chamber", "other"} {
		a, err := NewAtmosphere(r, 100, WithName(name))
		if err != nil {
			t.Fatal(err)
		}
		if err := a.AddMolesAtTemperature("hydrogen", 2, 300); err != nil {
			t.Fatal(err)
		}
		if err := a.AddMolesAtTemperature("oxygen", 1, 300); err != nil {
			t.Fatal(err)
		}
		atmospheres = append(atmospheres, a)
	}
	s := &Simulation{Registry: r, Atmospheres: atmospheres, Dt: 0.5}

	heat := atmospheres[1].HeatEnergy()
	if err := Calculations(Ignition("chamber"), Heating(20))(s); err != nil {
		t.Fatal(err)
	}
	if !(atmospheres[0].MolesOf("water") > 0) {
		t.Error("chamber was not ignited")
	}
	if atmospheres[1].MolesOf("water") != 0 {
		t.Error("only the named atmosphere should be ignited")
	}
	if different(atmospheres[1].HeatEnergy(), heat+10, testTolerance) {
		t.Errorf("heating: have %g, want %g", atmospheres[1].HeatEnergy(), heat+10)
	}
}
