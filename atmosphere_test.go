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
	"errors"
	"math"
	"testing"

	"github.com/ctessum/unit"
	"github.com/kr/pretty"
)

const testTolerance = 1.e-10

func different(a, b, tolerance float64) bool {
	if 2*math.Abs(a-b)/math.Abs(a+b) > tolerance || math.IsNaN(a) || math.IsNaN(b) {
		return true
	}
	return false
}

func absDifferent(a, b, tolerance float64) bool {
	if math.Abs(a-b) > tolerance {
		return true
	}
	return false
}

var testChemicals = []struct {
	id ChemicalID
	c  Chemical
}{
	{"hydrogen", Chemical{Name: "Hydrogen", Symbol: "H2", SpecificHeat: 14295.63492, MolarMass: 2.016e-3, ThermalConductivity: 0.1819}},
	{"nitrogen", Chemical{Name: "Nitrogen", Symbol: "N2", SpecificHeat: 1039.502524, MolarMass: 28.0134e-3, ThermalConductivity: 0.026}},
	{"oxygen", Chemical{Name: "Oxygen", Symbol: "O2", SpecificHeat: 918.1594310, MolarMass: 31.9988e-3, ThermalConductivity: 0.0238}},
	{"water", Chemical{Name: "Water", Symbol: "H2O", SpecificHeat: 2026.057509, MolarMass: 18.0152833e-3, ThermalConductivity: 0.68}},
}

// testRegistry returns a registry holding the test chemicals and the given
// reactions.
func testRegistry(t *testing.T, reactions ...Reaction) *Registry {
	r, err := NewRegistry()
	if err != nil {
		t.Fatal(err)
	}
	for _, tc := range testChemicals {
		if err := r.AddChemical(tc.id, tc.c); err != nil {
			t.Fatal(err)
		}
	}
	for _, rx := range reactions {
		if err := r.AddReaction(rx); err != nil {
			t.Fatal(err)
		}
	}
	return r
}

func testAtmosphere(t *testing.T, r *Registry, volume float64) *Atmosphere {
	a, err := NewAtmosphere(r, volume)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestMassRoundTrip(t *testing.T) {
	r := testRegistry(t)
	for _, tc := range testChemicals {
		t.Run(string(tc.id), func(t *testing.T) {
			a := testAtmosphere(t, r, 1000)
			const mass = 2.5
			if err := a.AddMassAtTemperature(tc.id, mass, 300); err != nil {
				t.Fatal(err)
			}
			if different(a.MassOf(tc.id), mass, testTolerance) {
				t.Errorf("mass: have %g, want %g", a.MassOf(tc.id), mass)
			}
			if different(a.Mass(), mass, testTolerance) {
				t.Errorf("total mass: have %g, want %g", a.Mass(), mass)
			}
			if different(a.Temperature(), 300, testTolerance) {
				t.Errorf("temperature: have %g, want 300", a.Temperature())
			}
		})
	}
}

func TestIdealGas(t *testing.T) {
	r := testRegistry(t)
	a := testAtmosphere(t, r, 1000)
	if err := a.AddMolesAtTemperature("nitrogen", 10, 300); err != nil {
		t.Fatal(err)
	}
	want := 10 * DefaultPhysics().GasConstant * 300 / 1000
	if different(a.Pressure(), want, testTolerance) {
		t.Errorf("pressure: have %g, want %g", a.Pressure(), want)
	}
	if different(a.PressureOf("nitrogen"), want, testTolerance) {
		t.Errorf("partial pressure: have %g, want %g", a.PressureOf("nitrogen"), want)
	}
	if a.PressureOf("oxygen") != 0 {
		t.Errorf("oxygen partial pressure should be zero, have %g", a.PressureOf("oxygen"))
	}
	c, _ := r.Lookup("nitrogen")
	if different(a.HeatEnergy(), 10*300*c.MolarHeatCapacity(), testTolerance) {
		t.Errorf("heat energy: have %g", a.HeatEnergy())
	}
}

func TestMixtureProperties(t *testing.T) {
	r := testRegistry(t)
	a := testAtmosphere(t, r, 1000)
	if err := a.AddMolesAtTemperature("hydrogen", 1, 300); err != nil {
		t.Fatal(err)
	}
	if err := a.AddMolesAtTemperature("oxygen", 3, 300); err != nil {
		t.Fatal(err)
	}
	h, _ := r.Lookup("hydrogen")
	o, _ := r.Lookup("oxygen")
	mh, mo := h.MolarMass, 3*o.MolarMass

	if different(a.MoleFraction("oxygen"), 0.75, testTolerance) {
		t.Errorf("mole fraction: have %g, want 0.75", a.MoleFraction("oxygen"))
	}
	if different(a.MassFraction("hydrogen"), mh/(mh+mo), testTolerance) {
		t.Errorf("mass fraction: have %g", a.MassFraction("hydrogen"))
	}
	wantCp := (mh*h.SpecificHeat + mo*o.SpecificHeat) / (mh + mo)
	if different(a.SpecificHeatMass(), wantCp, testTolerance) {
		t.Errorf("specific heat: have %g, want %g", a.SpecificHeatMass(), wantCp)
	}
	wantCpm := (mh*h.MolarHeatCapacity() + mo*o.MolarHeatCapacity()) / (mh + mo)
	if different(a.SpecificHeatMoles(), wantCpm, testTolerance) {
		t.Errorf("molar specific heat: have %g, want %g", a.SpecificHeatMoles(), wantCpm)
	}
	if different(a.HeatCapacity(), wantCpm*4, testTolerance) {
		t.Errorf("heat capacity: have %g, want %g", a.HeatCapacity(), wantCpm*4)
	}
	wantK := (mh*h.ThermalConductivity + mo*o.ThermalConductivity) / (mh + mo)
	if different(a.ThermalConductivity(), wantK, testTolerance) {
		t.Errorf("conductivity: have %g, want %g", a.ThermalConductivity(), wantK)
	}
	if !a.Has("oxygen", 2.9) || a.Has("oxygen", 3) || a.Has("water", 0) {
		t.Error("Has gives wrong answers")
	}
}

func TestAddHeatRestores(t *testing.T) {
	r := testRegistry(t)
	a := testAtmosphere(t, r, 1000)
	if err := a.AddMolesAtTemperature("oxygen", 20, 280); err != nil {
		t.Fatal(err)
	}
	heat, temp := a.HeatEnergy(), a.Temperature()
	for _, x := range []float64{1, 500, 12345.6} {
		a.AddHeat(x)
		if a.Temperature() <= temp {
			t.Errorf("heat %g did not raise the temperature", x)
		}
		a.AddHeat(-x)
		if different(a.HeatEnergy(), heat, testTolerance) {
			t.Errorf("heat %g: have %g, want %g", x, a.HeatEnergy(), heat)
		}
		if different(a.Temperature(), temp, testTolerance) {
			t.Errorf("heat %g: temperature %g, want %g", x, a.Temperature(), temp)
		}
	}
}

func TestTemperatureFloor(t *testing.T) {
	r := testRegistry(t)
	a := testAtmosphere(t, r, 1000)
	if err := a.AddMolesAtTemperature("nitrogen", 5, 300); err != nil {
		t.Fatal(err)
	}
	min := a.Physics.MinTemperature
	for _, x := range []float64{-1e6, -1e12, math.Inf(-1)} {
		a.AddHeat(x)
		if a.Temperature() < min {
			t.Errorf("heat %g: temperature %g below minimum", x, a.Temperature())
		}
		if absDifferent(a.Temperature(), min, 1e-12) {
			t.Errorf("heat %g: temperature %g should be pinned to %g", x, a.Temperature(), min)
		}
	}
	if a.HeatEnergy() < 0 {
		t.Errorf("negative heat energy %g", a.HeatEnergy())
	}
}

func TestEmptyAtmosphere(t *testing.T) {
	r := testRegistry(t)
	a := testAtmosphere(t, r, 0)
	a.AddHeat(1000)
	checks := map[string]float64{
		"pressure":      a.Pressure(),
		"mole fraction": a.MoleFraction("oxygen"),
		"mass fraction": a.MassFraction("oxygen"),
		"specific heat": a.SpecificHeatMass(),
		"heat capacity": a.HeatCapacity(),
		"heat energy":   a.HeatEnergy(),
	}
	for name, v := range checks {
		if v != 0 {
			t.Errorf("%s: have %g, want 0", name, v)
		}
	}
	if a.Temperature() != a.Physics.MinTemperature {
		t.Errorf("temperature: have %g", a.Temperature())
	}
}

func TestVolume(t *testing.T) {
	r := testRegistry(t)
	a := testAtmosphere(t, r, 1000)
	if err := a.AddMolesAtTemperature("nitrogen", 5, 300); err != nil {
		t.Fatal(err)
	}
	p := a.Pressure()
	a.AddVolume(1000)
	if different(a.Pressure(), p/2, testTolerance) {
		t.Errorf("pressure after doubling volume: have %g, want %g", a.Pressure(), p/2)
	}
	a.AddVolume(-5000)
	if a.Volume() != 0 {
		t.Errorf("volume: have %g, want 0", a.Volume())
	}
	if a.Moles() != 0 || a.Pressure() != 0 {
		t.Errorf("collapsed atmosphere still holds %g mol at %g kPa", a.Moles(), a.Pressure())
	}
}

func TestNoOps(t *testing.T) {
	r := testRegistry(t)
	a := testAtmosphere(t, r, 1000)
	if err := a.AddMolesAtTemperature("nitrogen", 5, 300); err != nil {
		t.Fatal(err)
	}
	if err := a.AddMolesAtTemperature("water", 1, 350); err != nil {
		t.Fatal(err)
	}
	before := a.Snapshot()
	a.AddVolume(0)
	a.AddHeat(0)
	after := a.Snapshot()
	if diff := pretty.Diff(before, after); len(diff) > 0 {
		t.Errorf("state changed: %v", diff)
	}
}

func TestNaNHeat(t *testing.T) {
	r := testRegistry(t)
	a := testAtmosphere(t, r, 1000)
	if err := a.AddMolesAtTemperature("nitrogen", 3, 350); err != nil {
		t.Fatal(err)
	}
	heat, temp := a.HeatEnergy(), a.Temperature()

	a.AddHeat(math.NaN())
	if err := Heating(math.NaN())(a, 1); err != nil {
		t.Fatal(err)
	}
	if a.HeatEnergy() != heat || a.Temperature() != temp {
		t.Errorf("heat %g → %g, temperature %g → %g", heat, a.HeatEnergy(), temp, a.Temperature())
	}

	// The moles still arrive; only the heat is ignored.
	if err := a.AddMolesAtTemperature("nitrogen", 1, math.NaN()); err != nil {
		t.Fatal(err)
	}
	if a.MolesOf("nitrogen") != 4 || a.HeatEnergy() != heat {
		t.Errorf("nitrogen %g, heat %g; want 4 and %g", a.MolesOf("nitrogen"), a.HeatEnergy(), heat)
	}
	if math.IsNaN(a.Temperature()) || !(a.Temperature() > 1) {
		t.Errorf("temperature %g", a.Temperature())
	}
}

func TestRemove(t *testing.T) {
	r := testRegistry(t)
	a := testAtmosphere(t, r, 1000)
	if err := a.AddMolesAtTemperature("nitrogen", 5, 300); err != nil {
		t.Fatal(err)
	}
	if err := a.AddMolesAtTemperature("oxygen", 5, 300); err != nil {
		t.Fatal(err)
	}
	heat, temp := a.HeatEnergy(), a.Temperature()
	removed, err := a.Remove("nitrogen", 2)
	if err != nil {
		t.Fatal(err)
	}
	if removed != 2 || a.MolesOf("nitrogen") != 3 {
		t.Errorf("removed %g leaving %g", removed, a.MolesOf("nitrogen"))
	}
	n, _ := r.Lookup("nitrogen")
	if want := heat - 2*n.MolarHeatCapacity()*temp; different(a.HeatEnergy(), want, testTolerance) {
		t.Errorf("heat after removal: have %g, want %g", a.HeatEnergy(), want)
	}
	removed, err = a.Remove("nitrogen", 100)
	if err != nil {
		t.Fatal(err)
	}
	if removed != 3 {
		t.Errorf("removed %g, want 3", removed)
	}
	if len(a.Contents()) != 1 || a.Has("nitrogen", 0) {
		t.Errorf("exhausted species should be dropped: %v", a.Contents())
	}
	removed, err = a.RemoveAll("oxygen")
	if err != nil {
		t.Fatal(err)
	}
	if removed != 5 || a.Moles() != 0 || a.HeatEnergy() != 0 {
		t.Errorf("after removing everything: removed=%g moles=%g heat=%g", removed, a.Moles(), a.HeatEnergy())
	}
}

func TestRemoveWithoutHeat(t *testing.T) {
	r := testRegistry(t)
	a := testAtmosphere(t, r, 1000)
	if err := a.AddMolesAtTemperature("nitrogen", 5, 300); err != nil {
		t.Fatal(err)
	}
	heat := a.HeatEnergy()
	if _, err := a.RemoveWithoutHeat("nitrogen", 1); err != nil {
		t.Fatal(err)
	}
	if a.HeatEnergy() != heat {
		t.Errorf("heat changed from %g to %g", heat, a.HeatEnergy())
	}
	if different(a.Temperature(), 300*5./4, testTolerance) {
		t.Errorf("temperature: have %g, want %g", a.Temperature(), 300*5./4)
	}
}

func TestUnknownChemical(t *testing.T) {
	r := testRegistry(t)
	a := testAtmosphere(t, r, 1000)
	if err := a.AddMolesAtTemperature("nitrogen", 5, 300); err != nil {
		t.Fatal(err)
	}
	before := a.Snapshot()
	ops := map[string]func() error{
		"AddMoles": func() error { return a.AddMoles("xenon", 1, 100) },
		"AddMass":  func() error { return a.AddMassAtTemperature("xenon", 1, 100) },
		"Remove": func() error {
			_, err := a.Remove("xenon", 1)
			return err
		},
		"RemoveWithoutHeat": func() error {
			_, err := a.RemoveWithoutHeat("xenon", 1)
			return err
		},
	}
	for name, op := range ops {
		err := op()
		if !errors.Is(err, ErrUnknownChemical) {
			t.Errorf("%s: have error %v, want ErrUnknownChemical", name, err)
		}
		var ce *ChemicalError
		if !errors.As(err, &ce) || ce.Chemical != "xenon" {
			t.Errorf("%s: error should name the chemical: %v", name, err)
		}
	}
	if diff := pretty.Diff(before, a.Snapshot()); len(diff) > 0 {
		t.Errorf("failed operations modified the atmosphere: %v", diff)
	}
}

func TestRegistry(t *testing.T) {
	r := testRegistry(t)
	if err := r.AddChemical("oxygen", testChemicals[2].c); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("duplicate registration: %v", err)
	}
	if _, err := r.Lookup("argon"); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("lookup of missing chemical: %v", err)
	}
	if err := r.AddChemical("argon", Chemical{Name: "Argon", MolarMass: 39.948e-3}); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("zero specific heat should be rejected: %v", err)
	}
	want := []ChemicalID{"hydrogen", "nitrogen", "oxygen", "water"}
	if diff := pretty.Diff(r.Chemicals(), want); len(diff) > 0 {
		t.Errorf("registration order: %v", diff)
	}

	testAtmosphere(t, r, 10)
	if !r.Sealed() {
		t.Fatal("registry should be sealed once in use")
	}
	argon := Chemical{Name: "Argon", Symbol: "Ar", SpecificHeat: 520.3, MolarMass: 39.948e-3}
	if err := r.AddChemical("argon", argon); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("registration after sealing: %v", err)
	}
}

func TestNewAtmosphereErrors(t *testing.T) {
	r := testRegistry(t)
	bad := Physics{}
	tests := []struct {
		name   string
		r      *Registry
		volume float64
		opts   []AtmosphereOption
	}{
		{name: "nil registry", volume: 1},
		{name: "negative volume", r: r, volume: -1},
		{name: "NaN volume", r: r, volume: math.NaN()},
		{name: "bad physics", r: r, volume: 1, opts: []AtmosphereOption{WithPhysics(bad)}},
		{name: "bad elastic", r: r, volume: 1, opts: []AtmosphereOption{Elastic(0)}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := NewAtmosphere(test.r, test.volume, test.opts...)
			if !errors.Is(err, ErrInvalidConfiguration) {
				t.Errorf("have %v, want ErrInvalidConfiguration", err)
			}
		})
	}
}

func TestElastic(t *testing.T) {
	r := testRegistry(t)
	a, err := NewAtmosphere(r, 1000, Elastic(StandardPressure), WithName("balloon"))
	if err != nil {
		t.Fatal(err)
	}
	if err := a.AddMolesAtTemperature("nitrogen", 10, 300); err != nil {
		t.Fatal(err)
	}
	if err := a.Tick(1); err != nil {
		t.Fatal(err)
	}
	wantV := 10 * a.Physics.GasConstant * a.Temperature() / StandardPressure
	if different(a.Volume(), wantV, testTolerance) {
		t.Errorf("volume: have %g, want %g", a.Volume(), wantV)
	}
	if different(a.Pressure(), StandardPressure, testTolerance) {
		t.Errorf("pressure: have %g, want %g", a.Pressure(), StandardPressure)
	}
}

func TestReadings(t *testing.T) {
	r := testRegistry(t)
	a := testAtmosphere(t, r, 1000)
	if err := a.AddMolesAtTemperature("oxygen", 10, 300); err != nil {
		t.Fatal(err)
	}
	rd := a.Readings()
	if err := rd.Pressure.Check(unit.Pascal); err != nil {
		t.Error(err)
	}
	if err := rd.Temperature.Check(unit.Kelvin); err != nil {
		t.Error(err)
	}
	if different(rd.Pressure.Value(), a.Pressure()*1000, testTolerance) {
		t.Errorf("pressure: have %g Pa, want %g", rd.Pressure.Value(), a.Pressure()*1000)
	}
	if different(rd.Volume.Value(), 1, testTolerance) {
		t.Errorf("volume: have %g m³, want 1", rd.Volume.Value())
	}
	if different(rd.Mass.Value(), a.Mass(), testTolerance) {
		t.Errorf("mass: have %g", rd.Mass.Value())
	}
}
