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

// Package simplechem contains the builtin chemicals and a small set of
// combustion and carbon reactions between them.
package simplechem

import (
	"fmt"

	"github.com/spatialmodel/atmospherics"
)

// Identifiers of the builtin chemicals.
const (
	Hydrogen       atmospherics.ChemicalID = "hydrogen"
	Nitrogen       atmospherics.ChemicalID = "nitrogen"
	Oxygen         atmospherics.ChemicalID = "oxygen"
	CarbonDioxide  atmospherics.ChemicalID = "carbon-dioxide"
	Water          atmospherics.ChemicalID = "water"
	CarbonMonoxide atmospherics.ChemicalID = "carbon-monoxide"
	Carbon         atmospherics.ChemicalID = "carbon"
)

// celsius converts a temperature in °C to K.
func celsius(c float64) float64 { return c + 273.15 }

var builtins = []struct {
	id atmospherics.ChemicalID
	atmospherics.Chemical
}{
	{Hydrogen, atmospherics.Chemical{Name: "Hydrogen", Symbol: "H2",
		SpecificHeat: 14295.63492, MolarMass: 2.016 / 1000, ThermalConductivity: 0.1819}},
	{Nitrogen, atmospherics.Chemical{Name: "Nitrogen", Symbol: "N2",
		SpecificHeat: 1039.502524, MolarMass: 28.01340 / 1000, ThermalConductivity: 0.026}},
	{Oxygen, atmospherics.Chemical{Name: "Oxygen", Symbol: "O2",
		SpecificHeat: 918.1594310, MolarMass: 31.9988 / 1000, ThermalConductivity: 0.0238}},
	{CarbonDioxide, atmospherics.Chemical{Name: "Carbon Dioxide", Symbol: "CO2",
		SpecificHeat: 871, MolarMass: 44.009 / 1000, ThermalConductivity: 0.0872}},
	{Water, atmospherics.Chemical{Name: "Water", Symbol: "H2O",
		SpecificHeat: 2026.057509, MolarMass: 18.0152833 / 1000, ThermalConductivity: 0.68}},
	{CarbonMonoxide, atmospherics.Chemical{Name: "Carbon Monoxide", Symbol: "CO",
		SpecificHeat: 1040, MolarMass: 28.0101 / 1000, ThermalConductivity: 0.0232}},
	// Carbon is treated as a fine suspended dust that mixes like a gas.
	{Carbon, atmospherics.Chemical{Name: "Carbon", Symbol: "C",
		SpecificHeat: 709, MolarMass: 12.011 / 1000, ThermalConductivity: 0.1}},
}

// Mechanism fulfils the github.com/spatialmodel/atmospherics.Mechanism
// interface.
type Mechanism struct {
	// ChemicalsOnly skips registration of the builtin reactions.
	ChemicalsOnly bool
}

// Species returns the identifiers of the builtin chemicals.
func (m Mechanism) Species() []atmospherics.ChemicalID {
	ids := make([]atmospherics.ChemicalID, len(builtins))
	for i, b := range builtins {
		ids[i] = b.id
	}
	return ids
}

// Register adds the builtin chemicals and, unless m.ChemicalsOnly is set,
// the builtin reactions to r.
func (m Mechanism) Register(r *atmospherics.Registry) error {
	for _, b := range builtins {
		if err := r.AddChemical(b.id, b.Chemical); err != nil {
			return fmt.Errorf("simplechem: %w", err)
		}
	}
	if m.ChemicalsOnly {
		return nil
	}
	for _, rx := range Reactions() {
		if err := r.AddReaction(rx); err != nil {
			return fmt.Errorf("simplechem: %w", err)
		}
	}
	return nil
}

// Reactions returns the builtin reactions in evaluation order.
func Reactions() []atmospherics.Reaction {
	return []atmospherics.Reaction{
		HydrogenCombustion(),
		CarbonMonoxideCombustion(),
		CarbonCombustion(),
		Boudouard(),
		ReverseBoudouard(),
		HydrogenCarbonMonoxideDisplacement(),
	}
}

// HydrogenCombustion is 2 H2 + O2 = 2 H2O.
func HydrogenCombustion() atmospherics.Reaction {
	rx := atmospherics.NewReaction("hydrogen combustion", celsius(550), 241920)
	rx.AddReactant(Hydrogen, 2)
	rx.AddReactant(Oxygen, 1)
	rx.AddProduct(Water, 2)
	return rx
}

// CarbonMonoxideCombustion is 2 CO + O2 = 2 CO2.
func CarbonMonoxideCombustion() atmospherics.Reaction {
	rx := atmospherics.NewReaction("carbon monoxide combustion", celsius(609), 566000)
	rx.AddReactant(CarbonMonoxide, 2)
	rx.AddReactant(Oxygen, 1)
	rx.AddProduct(CarbonDioxide, 2)
	return rx
}

// CarbonCombustion is C + O2 = CO2.
func CarbonCombustion() atmospherics.Reaction {
	rx := atmospherics.NewReaction("carbon combustion", celsius(700), 393500)
	rx.AddReactant(Carbon, 1)
	rx.AddReactant(Oxygen, 1)
	rx.AddProduct(CarbonDioxide, 1)
	return rx
}

// Boudouard is 2 CO = CO2 + C. It cannot be ignited.
func Boudouard() atmospherics.Reaction {
	rx := atmospherics.NewReaction("boudouard", 300, -172500)
	rx.Ignitable = false
	rx.Speed = 0.1
	rx.AddReactant(CarbonMonoxide, 2)
	rx.AddProduct(CarbonDioxide, 1)
	rx.AddProduct(Carbon, 1)
	return rx
}

// ReverseBoudouard is CO2 + C = 2 CO. It cannot be ignited.
func ReverseBoudouard() atmospherics.Reaction {
	rx := atmospherics.NewReaction("reverse boudouard", 300, 172500)
	rx.Ignitable = false
	rx.Speed = 0.1
	rx.AddReactant(CarbonDioxide, 1)
	rx.AddReactant(Carbon, 1)
	rx.AddProduct(CarbonMonoxide, 2)
	return rx
}

// HydrogenCarbonMonoxideDisplacement is H2 + CO = H2O + C. It cannot be
// ignited.
func HydrogenCarbonMonoxideDisplacement() atmospherics.Reaction {
	rx := atmospherics.NewReaction("hydrogen carbon monoxide displacement", celsius(550), 131300)
	rx.Ignitable = false
	rx.AddReactant(Hydrogen, 1)
	rx.AddReactant(CarbonMonoxide, 1)
	rx.AddProduct(Water, 1)
	rx.AddProduct(Carbon, 1)
	return rx
}
