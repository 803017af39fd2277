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

import "math"

// transfer moves the given per-species amounts from a to other. The gas
// arrives at a's temperature before the transfer.
func (a *Atmosphere) transfer(other *Atmosphere, moved Mixture) error {
	for _, q := range moved {
		if !other.reg.Has(q.Chemical) {
			return unknownChemical("move", q.Chemical)
		}
	}
	t := a.temperature
	for _, q := range moved {
		// Every species leaves and arrives at the temperature a had
		// before the transfer began.
		removed, err := a.removeAt(q.Chemical, q.Moles, t)
		if err != nil {
			return err
		}
		if err := other.AddMolesAtTemperature(q.Chemical, removed, t); err != nil {
			return err
		}
	}
	return nil
}

// MoveSpecies moves up to moles of a single chemical from a to other and
// returns the amount moved.
func (a *Atmosphere) MoveSpecies(other *Atmosphere, id ChemicalID, moles float64) (float64, error) {
	if !other.reg.Has(id) {
		return 0, unknownChemical("move", id)
	}
	t := a.temperature
	removed, err := a.Remove(id, moles)
	if err != nil || removed == 0 {
		return 0, err
	}
	return removed, other.AddMolesAtTemperature(id, removed, t)
}

// MoveGasMoles moves moles of gas from a to other. Each species is moved in
// proportion to its mole fraction (its share of the pressure).
func (a *Atmosphere) MoveGasMoles(other *Atmosphere, moles float64) error {
	total := a.Moles()
	if !(moles > 0) || total <= 0 {
		return nil
	}
	moved := make(Mixture, len(a.contents))
	for i, q := range a.contents {
		moved[i] = Quantity{Chemical: q.Chemical, Moles: q.Moles / total * moles}
	}
	return a.transfer(other, moved)
}

// MoveGasVolume moves the gas contained in volume liters of a to other.
func (a *Atmosphere) MoveGasVolume(other *Atmosphere, volume float64) error {
	if !(volume > 0) || a.volume <= 0 {
		return nil
	}
	moved := make(Mixture, len(a.contents))
	for i, q := range a.contents {
		moved[i] = Quantity{Chemical: q.Chemical, Moles: q.Moles / a.volume * volume}
	}
	return a.transfer(other, moved)
}

// MixWith lets gas flow down the pressure gradient between a and other for
// dt seconds. Flow from other into a only happens if allowBackflow is set.
// If temperatureMix is set, heat is then conducted between the two.
func (a *Atmosphere) MixWith(other *Atmosphere, dt float64, allowBackflow, temperatureMix bool) error {
	// Only a tenth of the difference is used so the gas doesn't slosh
	// back and forth between ticks.
	gradient := 0.1 * (a.Pressure() - other.Pressure())
	flowMult := a.Physics.MaxPressure / (a.Physics.MaxPressure + math.Abs(gradient))
	flowMult *= flowMult
	dN := a.Physics.MixRate * flowMult * gradient * dt
	var err error
	switch {
	case gradient > 0:
		err = a.MoveGasMoles(other, dN)
	case gradient < 0 && allowBackflow:
		err = other.MoveGasMoles(a, -dN)
	}
	if err != nil {
		return err
	}
	if temperatureMix {
		a.MixTemperatures(other, dt)
	}
	return nil
}

// MixTemperatures conducts heat between a and other for dt seconds using
// the thermal conductivity of a.
func (a *Atmosphere) MixTemperatures(other *Atmosphere, dt float64) {
	a.MixTemperaturesAt(other, a.ThermalConductivity(), dt)
}

// MixTemperaturesAt conducts heat between a and other for dt seconds
// through a material of the given conductivity [W/(m·K)]. Positive flow
// is from a to other.
func (a *Atmosphere) MixTemperaturesAt(other *Atmosphere, conductivity, dt float64) {
	flow := conductivity * (a.temperature - other.temperature) / a.Physics.ConductionDistance
	q := flow * a.Physics.ConductionArea * dt * a.Physics.TempMixRate
	if q == 0 || math.IsNaN(q) {
		return
	}
	a.AddHeat(-q)
	other.AddHeat(q)
}
