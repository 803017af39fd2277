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

// Package tablechem loads chemicals and reactions from TOML tables, so
// that gases can be added to a simulation without recompiling it.
//
// A table looks like this:
//
//	[[chemical]]
//	id = "argon"
//	name = "Argon"
//	symbol = "Ar"
//	specificHeat = 520.3       # J/(K·kg)
//	molarMass = 39.948e-3      # kg/mol
//	thermalConductivity = 0.0177 # W/(m·K)
//
//	[[reaction]]
//	name = "hydrogen combustion"
//	autoignitionPoint = 823.15 # K
//	energyReleased = 241920.0  # J
//	speed = 1.0                # optional, default 1
//	ignitable = true           # optional, default true
//	  [[reaction.reactant]]
//	  chemical = "hydrogen"
//	  portion = 2.0
//	  [[reaction.product]]
//	  chemical = "water"
//	  portion = 2.0
//
// Numbers must be written as floats (2.0, not 2). Reactions may refer to
// chemicals registered by other mechanisms that are loaded into the same
// registry first.
package tablechem

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spatialmodel/atmospherics"
)

// Mechanism is a set of chemicals and reactions read from a table. It
// fulfils the github.com/spatialmodel/atmospherics.Mechanism interface.
type Mechanism struct {
	Chemicals []Chemical `toml:"chemical"`
	Reactions []Reaction `toml:"reaction"`
}

// Chemical is a table entry for a single chemical.
type Chemical struct {
	ID                  string  `toml:"id"`
	Name                string  `toml:"name"`
	Symbol              string  `toml:"symbol"`
	SpecificHeat        float64 `toml:"specificHeat"`
	MolarMass           float64 `toml:"molarMass"`
	ThermalConductivity float64 `toml:"thermalConductivity"`
}

// Reaction is a table entry for a single reaction.
type Reaction struct {
	Name              string   `toml:"name"`
	AutoignitionPoint float64  `toml:"autoignitionPoint"`
	EnergyReleased    float64  `toml:"energyReleased"`
	Speed             *float64 `toml:"speed"`
	Ignitable         *bool    `toml:"ignitable"`
	Reactants         []Part   `toml:"reactant"`
	Products          []Part   `toml:"product"`
}

// Part is a reactant or product of a Reaction.
type Part struct {
	Chemical string  `toml:"chemical"`
	Portion  float64 `toml:"portion"`
}

// Load reads a mechanism table from r.
func Load(r io.Reader) (*Mechanism, error) {
	m := new(Mechanism)
	md, err := toml.DecodeReader(r, m)
	if err != nil {
		return nil, fmt.Errorf("tablechem: %v: %w", err, atmospherics.ErrInvalidConfiguration)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("tablechem: unknown keys %s: %w",
			strings.Join(keys, ", "), atmospherics.ErrInvalidConfiguration)
	}
	return m, nil
}

// LoadFile reads a mechanism table from the named file.
func LoadFile(path string) (*Mechanism, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("tablechem: %v", err)
	}
	defer f.Close()
	m, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%w (in %s)", err, path)
	}
	return m, nil
}

// Species returns the identifiers of the chemicals in the table.
func (m *Mechanism) Species() []atmospherics.ChemicalID {
	ids := make([]atmospherics.ChemicalID, len(m.Chemicals))
	for i, c := range m.Chemicals {
		ids[i] = atmospherics.ChemicalID(c.ID)
	}
	return ids
}

// Register adds the chemicals and then the reactions of the table to r.
func (m *Mechanism) Register(r *atmospherics.Registry) error {
	for _, c := range m.Chemicals {
		err := r.AddChemical(atmospherics.ChemicalID(c.ID), atmospherics.Chemical{
			Name:                c.Name,
			Symbol:              c.Symbol,
			SpecificHeat:        c.SpecificHeat,
			MolarMass:           c.MolarMass,
			ThermalConductivity: c.ThermalConductivity,
		})
		if err != nil {
			return fmt.Errorf("tablechem: %w", err)
		}
	}
	for _, e := range m.Reactions {
		if err := r.AddReaction(e.reaction()); err != nil {
			return fmt.Errorf("tablechem: %w", err)
		}
	}
	return nil
}

func (e Reaction) reaction() atmospherics.Reaction {
	rx := atmospherics.NewReaction(e.Name, e.AutoignitionPoint, e.EnergyReleased)
	if e.Speed != nil {
		rx.Speed = *e.Speed
	}
	if e.Ignitable != nil {
		rx.Ignitable = *e.Ignitable
	}
	for _, p := range e.Reactants {
		rx.AddReactant(atmospherics.ChemicalID(p.Chemical), p.Portion)
	}
	for _, p := range e.Products {
		rx.AddProduct(atmospherics.ChemicalID(p.Chemical), p.Portion)
	}
	return rx
}
