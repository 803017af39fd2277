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

	"github.com/kr/pretty"
)

// totals returns the combined moles, mass and heat of the atmospheres.
func totals(as ...*Atmosphere) (moles, mass, heat float64) {
	for _, a := range as {
		moles += a.Moles()
		mass += a.Mass()
		heat += a.HeatEnergy()
	}
	return
}

func twoTanks(t *testing.T) (*Atmosphere, *Atmosphere) {
	r := testRegistry(t)
	a := testAtmosphere(t, r, 1000)
	b := testAtmosphere(t, r, 500)
	for _, add := range []struct {
		a     *Atmosphere
		id    ChemicalID
		moles float64
		temp  float64
	}{
		{a, "nitrogen", 40, 300},
		{a, "oxygen", 10, 300},
		{b, "hydrogen", 5, 250},
	} {
		if err := add.a.AddMolesAtTemperature(add.id, add.moles, add.temp); err != nil {
			t.Fatal(err)
		}
	}
	return a, b
}

func TestMoveGasMoles(t *testing.T) {
	a, b := twoTanks(t)
	moles0, mass0, heat0 := totals(a, b)
	if err := a.MoveGasMoles(b, 12); err != nil {
		t.Fatal(err)
	}
	moles1, mass1, heat1 := totals(a, b)
	if different(moles0, moles1, testTolerance) || different(mass0, mass1, testTolerance) {
		t.Errorf("not conserved: moles %g→%g, mass %g→%g", moles0, moles1, mass0, mass1)
	}
	if different(heat0, heat1, testTolerance) {
		t.Errorf("heat not conserved: %g→%g", heat0, heat1)
	}
	// Species move in proportion to their mole fractions.
	if different(b.MolesOf("nitrogen"), 9.6, testTolerance) || different(b.MolesOf("oxygen"), 2.4, testTolerance) {
		t.Errorf("moved composition: %v", b.Contents())
	}
	if different(a.Moles(), 38, testTolerance) {
		t.Errorf("source moles: have %g, want 38", a.Moles())
	}
}

func TestMoveGasMolesTooMany(t *testing.T) {
	a, b := twoTanks(t)
	if err := a.MoveGasMoles(b, 1000); err != nil {
		t.Fatal(err)
	}
	if a.Moles() != 0 {
		t.Errorf("source should be empty, has %g mol", a.Moles())
	}
	if different(b.Moles(), 55, testTolerance) {
		t.Errorf("destination: have %g mol, want 55", b.Moles())
	}
}

func TestMoveGasVolume(t *testing.T) {
	a, b := twoTanks(t)
	moles0, mass0, _ := totals(a, b)
	if err := a.MoveGasVolume(b, 100); err != nil {
		t.Fatal(err)
	}
	moles1, mass1, _ := totals(a, b)
	if different(moles0, moles1, testTolerance) || different(mass0, mass1, testTolerance) {
		t.Errorf("not conserved: moles %g→%g, mass %g→%g", moles0, moles1, mass0, mass1)
	}
	// A tenth of the source volume holds a tenth of its gas.
	if different(a.Moles(), 45, testTolerance) {
		t.Errorf("source: have %g mol, want 45", a.Moles())
	}
}

func TestMoveSpecies(t *testing.T) {
	a, b := twoTanks(t)
	moved, err := a.MoveSpecies(b, "oxygen", 4)
	if err != nil {
		t.Fatal(err)
	}
	if moved != 4 || a.MolesOf("oxygen") != 6 || b.MolesOf("oxygen") != 4 {
		t.Errorf("moved %g: source %g, destination %g", moved, a.MolesOf("oxygen"), b.MolesOf("oxygen"))
	}
	moved, err = a.MoveSpecies(b, "water", 4)
	if err != nil || moved != 0 {
		t.Errorf("moving an absent species: moved %g, err %v", moved, err)
	}
}

func TestMoveUnknownAtDestination(t *testing.T) {
	a, _ := twoTanks(t)
	r2, err := NewRegistry()
	if err != nil {
		t.Fatal(err)
	}
	if err := r2.AddChemical("oxygen", testChemicals[2].c); err != nil {
		t.Fatal(err)
	}
	b := testAtmosphere(t, r2, 100)
	before := a.Snapshot()
	err = a.MoveGasMoles(b, 10)
	if !errors.Is(err, ErrUnknownChemical) {
		t.Fatalf("have %v, want ErrUnknownChemical", err)
	}
	if diff := pretty.Diff(before, a.Snapshot()); len(diff) > 0 {
		t.Errorf("source modified: %v", diff)
	}
	if b.Moles() != 0 {
		t.Errorf("destination modified: %v", b.Contents())
	}
}

func TestMixWith(t *testing.T) {
	r := testRegistry(t)
	newPair := func() (*Atmosphere, *Atmosphere) {
		hi := testAtmosphere(t, r, 1000)
		lo := testAtmosphere(t, r, 1000)
		if err := hi.AddMolesAtTemperature("nitrogen", 100, 300); err != nil {
			t.Fatal(err)
		}
		if err := lo.AddMolesAtTemperature("nitrogen", 10, 300); err != nil {
			t.Fatal(err)
		}
		return hi, lo
	}
	const dt = 0.1

	t.Run("forward", func(t *testing.T) {
		hi, lo := newPair()
		p := hi.Physics
		gradient := 0.1 * (hi.Pressure() - lo.Pressure())
		flowMult := math.Pow(p.MaxPressure/(p.MaxPressure+gradient), 2)
		want := p.MixRate * flowMult * gradient * dt
		if err := hi.MixWith(lo, dt, false, false); err != nil {
			t.Fatal(err)
		}
		if different(lo.Moles(), 10+want, testTolerance) || different(hi.Moles(), 100-want, testTolerance) {
			t.Errorf("moved %g mol, want %g", lo.Moles()-10, want)
		}
	})
	t.Run("no backflow", func(t *testing.T) {
		hi, lo := newPair()
		if err := lo.MixWith(hi, dt, false, false); err != nil {
			t.Fatal(err)
		}
		if lo.Moles() != 10 || hi.Moles() != 100 {
			t.Errorf("gas flowed backwards: %g, %g", lo.Moles(), hi.Moles())
		}
	})
	t.Run("backflow", func(t *testing.T) {
		hi, lo := newPair()
		if err := lo.MixWith(hi, dt, true, false); err != nil {
			t.Fatal(err)
		}
		if lo.Moles() <= 10 || hi.Moles() >= 100 {
			t.Errorf("gas should flow toward the low pressure side: %g, %g", lo.Moles(), hi.Moles())
		}
	})
}

func TestMixTemperatures(t *testing.T) {
	r := testRegistry(t)
	hot := testAtmosphere(t, r, 1000)
	cold := testAtmosphere(t, r, 1000)
	if err := hot.AddMolesAtTemperature("nitrogen", 10, 400); err != nil {
		t.Fatal(err)
	}
	if err := cold.AddMolesAtTemperature("nitrogen", 10, 300); err != nil {
		t.Fatal(err)
	}
	_, _, heat0 := totals(hot, cold)
	const dt = 0.01
	want := 0.026 * 100 / hot.Physics.ConductionDistance * hot.Physics.ConductionArea * dt * hot.Physics.TempMixRate
	coldHeat := cold.HeatEnergy()

	hot.MixTemperatures(cold, dt)

	_, _, heat1 := totals(hot, cold)
	if different(heat0, heat1, testTolerance) {
		t.Errorf("heat not conserved: %g→%g", heat0, heat1)
	}
	if different(cold.HeatEnergy()-coldHeat, want, 1e-8) {
		t.Errorf("conducted %g J, want %g", cold.HeatEnergy()-coldHeat, want)
	}
	if !(hot.Temperature() < 400 && cold.Temperature() > 300) {
		t.Errorf("temperatures: hot %g, cold %g", hot.Temperature(), cold.Temperature())
	}

	hot.MixTemperaturesAt(cold, 0, dt)
	_, _, heat2 := totals(hot, cold)
	if heat2 != heat1 {
		t.Error("zero conductivity should not move heat")
	}
}
