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

	"gonum.org/v1/gonum/floats"
)

// Reaction is a gas phase chemical conversion, for example
// 2 H2 + O2 = 2 H2O. Reactant and product amounts are stoichiometric
// portions.
type Reaction struct {
	Name      string
	Reactants []Quantity
	Products  []Quantity

	// AutoignitionPoint is the temperature at or above which the reaction
	// proceeds on its own during Tick [K].
	AutoignitionPoint float64

	// EnergyReleased is the heat released per unit of reaction progress [J].
	// Negative values make the reaction endothermic.
	EnergyReleased float64

	// Speed scales the reaction rate. The rate also scales linearly with
	// temperature relative to AutoignitionPoint.
	Speed float64

	// Ignitable reactions can be forced with Atmosphere.Ignite.
	Ignitable bool
}

// NewReaction returns an ignitable reaction with unit speed.
func NewReaction(name string, autoignitionPoint, energyReleased float64) Reaction {
	return Reaction{
		Name:              name,
		AutoignitionPoint: autoignitionPoint,
		EnergyReleased:    energyReleased,
		Speed:             1,
		Ignitable:         true,
	}
}

// AddReactant appends a reactant with the given stoichiometric portion.
func (rx *Reaction) AddReactant(id ChemicalID, portion float64) {
	rx.Reactants = append(rx.Reactants, Quantity{Chemical: id, Moles: portion})
}

// AddProduct appends a product with the given stoichiometric portion.
func (rx *Reaction) AddProduct(id ChemicalID, portion float64) {
	rx.Products = append(rx.Products, Quantity{Chemical: id, Moles: portion})
}

func (rx Reaction) validate(r *Registry) error {
	if !(rx.AutoignitionPoint > 0) || math.IsInf(rx.AutoignitionPoint, 0) {
		return invalidConfig("reaction %q: AutoignitionPoint=%g but should be >0", rx.Name, rx.AutoignitionPoint)
	}
	if !(rx.Speed > 0) || math.IsInf(rx.Speed, 0) {
		return invalidConfig("reaction %q: Speed=%g but should be >0", rx.Name, rx.Speed)
	}
	if math.IsNaN(rx.EnergyReleased) || math.IsInf(rx.EnergyReleased, 0) {
		return invalidConfig("reaction %q: EnergyReleased=%g is not finite", rx.Name, rx.EnergyReleased)
	}
	if len(rx.Reactants) == 0 {
		return invalidConfig("reaction %q has no reactants", rx.Name)
	}
	for _, list := range [][]Quantity{rx.Reactants, rx.Products} {
		for _, q := range list {
			if !r.Has(q.Chemical) {
				return invalidConfig("reaction %q: chemical %q not found in registry", rx.Name, q.Chemical)
			}
			if !(q.Moles > 0) || math.IsInf(q.Moles, 0) {
				return invalidConfig("reaction %q: portion of %q is %g but should be >0",
					rx.Name, q.Chemical, q.Moles)
			}
		}
	}
	return nil
}

func (rx Reaction) clone() Reaction {
	rx.Reactants = append([]Quantity(nil), rx.Reactants...)
	rx.Products = append([]Quantity(nil), rx.Products...)
	return rx
}

// ready reports whether a holds some of every reactant.
func (rx *Reaction) ready(a *Atmosphere) bool {
	for _, q := range rx.Reactants {
		if !a.Has(q.Chemical, 0) {
			return false
		}
	}
	return true
}

// step advances the reaction in a by dt seconds. Progress is limited by
// the scarcest reactant, so no reactant is ever driven below zero.
func (rx *Reaction) step(a *Atmosphere, dt float64) error {
	if !(dt > 0) {
		return nil
	}
	speedScale := rx.Speed * a.Temperature() / rx.AutoignitionPoint
	possible := make([]float64, len(rx.Reactants)+1)
	possible[0] = 1
	for i, q := range rx.Reactants {
		// Steps longer than a second are limited further so the amount
		// removed never exceeds the amount present.
		possible[i+1] = a.MolesOf(q.Chemical) / (q.Moles * speedScale) / math.Max(dt, 1)
	}
	speedScale *= floats.Min(possible)
	if !(speedScale > 0) {
		return nil
	}
	for _, q := range rx.Reactants {
		if _, err := a.RemoveWithoutHeat(q.Chemical, q.Moles*speedScale*dt); err != nil {
			return err
		}
	}
	for _, q := range rx.Products {
		if err := a.AddMoles(q.Chemical, q.Moles*speedScale*dt, 0); err != nil {
			return err
		}
	}
	a.AddHeat(rx.EnergyReleased * speedScale * dt)
	return nil
}

// Tick runs, in registration order, every reaction whose reactants are all
// present and whose autoignition point has been reached. An elastic
// atmosphere then resizes to match its external pressure.
func (a *Atmosphere) Tick(dt float64) error {
	for i := range a.reg.reactions {
		rx := &a.reg.reactions[i]
		if !rx.ready(a) || a.temperature < rx.AutoignitionPoint {
			continue
		}
		if err := rx.step(a, dt); err != nil {
			return err
		}
	}
	if a.externalPressure > 0 {
		v := a.Moles() * a.Physics.GasConstant * a.temperature / a.externalPressure
		a.AddVolume(v - a.volume)
	}
	return nil
}

// Ignite forces every ignitable reaction whose reactants are present,
// regardless of temperature.
func (a *Atmosphere) Ignite(dt float64) error {
	for i := range a.reg.reactions {
		rx := &a.reg.reactions[i]
		if !rx.Ignitable || !rx.ready(a) {
			continue
		}
		if err := rx.step(a, dt); err != nil {
			return err
		}
	}
	return nil
}
