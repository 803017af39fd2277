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

// ChemicalID is the key a chemical is registered under, e.g. "oxygen".
type ChemicalID string

// Chemical holds the static properties of a gas species.
type Chemical struct {
	Name   string // Display name, e.g. "Carbon Dioxide"
	Symbol string // Short name, e.g. "CO2"

	SpecificHeat        float64 `desc:"Specific heat capacity" units:"J/(K·kg)"`
	MolarMass           float64 `desc:"Molar mass" units:"kg/mol"`
	ThermalConductivity float64 `desc:"Thermal conductivity" units:"W/(m·K)"`
}

// MolarHeatCapacity returns the heat capacity per mole [J/(K·mol)].
func (c Chemical) MolarHeatCapacity() float64 {
	return c.SpecificHeat * c.MolarMass
}

func (c Chemical) validate(id ChemicalID) error {
	if id == "" {
		return invalidConfig("chemical identifier is empty")
	}
	vals := []float64{c.SpecificHeat, c.MolarMass}
	names := []string{"SpecificHeat", "MolarMass"}
	for i, v := range vals {
		if !(v > 0) || math.IsInf(v, 0) {
			return invalidConfig("chemical %q: %s=%g but should be >0", id, names[i], v)
		}
	}
	if c.ThermalConductivity < 0 || math.IsNaN(c.ThermalConductivity) {
		return invalidConfig("chemical %q: ThermalConductivity=%g but should be >=0",
			id, c.ThermalConductivity)
	}
	return nil
}

// Registry is the chemical property table and reaction list shared by a
// set of atmospheres. It must be fully populated before the first
// Atmosphere is created from it; creating an Atmosphere seals the
// registry and any later registration fails with ErrInvalidConfiguration.
type Registry struct {
	chemicals map[ChemicalID]Chemical
	order     []ChemicalID
	reactions []Reaction
	sealed    bool
}

// NewRegistry returns an empty registry populated by the given mechanisms,
// in order.
func NewRegistry(mechanisms ...Mechanism) (*Registry, error) {
	r := &Registry{chemicals: make(map[ChemicalID]Chemical)}
	for _, m := range mechanisms {
		if err := r.Load(m); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Load registers the chemicals and reactions of m.
func (r *Registry) Load(m Mechanism) error {
	return m.Register(r)
}

// AddChemical registers a chemical. Registering the same identifier twice
// is an error.
func (r *Registry) AddChemical(id ChemicalID, c Chemical) error {
	if r.sealed {
		return invalidConfig("cannot add chemical %q: registry is in use", id)
	}
	if _, ok := r.chemicals[id]; ok {
		return invalidConfig("chemical %q has already been registered", id)
	}
	if err := c.validate(id); err != nil {
		return err
	}
	if r.chemicals == nil {
		r.chemicals = make(map[ChemicalID]Chemical)
	}
	r.chemicals[id] = c
	r.order = append(r.order, id)
	return nil
}

// Lookup returns the chemical registered under id. It is intended for
// setup code; a missing identifier is a configuration error.
func (r *Registry) Lookup(id ChemicalID) (Chemical, error) {
	c, ok := r.chemicals[id]
	if !ok {
		return Chemical{}, invalidConfig("chemical %q not found in registry", id)
	}
	return c, nil
}

// chemical is the lookup used by atmosphere and reaction operations.
func (r *Registry) chemical(op string, id ChemicalID) (Chemical, error) {
	c, ok := r.chemicals[id]
	if !ok {
		return Chemical{}, unknownChemical(op, id)
	}
	return c, nil
}

// Has reports whether id is registered.
func (r *Registry) Has(id ChemicalID) bool {
	_, ok := r.chemicals[id]
	return ok
}

// Chemicals returns the registered identifiers in registration order.
func (r *Registry) Chemicals() []ChemicalID {
	return append([]ChemicalID(nil), r.order...)
}

// AddReaction appends a reaction to the evaluation order. Reactions are
// evaluated in the order they are added.
func (r *Registry) AddReaction(rx Reaction) error {
	if r.sealed {
		return invalidConfig("cannot add reaction %q: registry is in use", rx.Name)
	}
	if err := rx.validate(r); err != nil {
		return err
	}
	r.reactions = append(r.reactions, rx.clone())
	return nil
}

// Reactions returns a copy of the registered reactions in evaluation order.
func (r *Registry) Reactions() []Reaction {
	out := make([]Reaction, len(r.reactions))
	for i, rx := range r.reactions {
		out[i] = rx.clone()
	}
	return out
}

// Seal prevents further registration. It is called automatically when the
// first Atmosphere is created.
func (r *Registry) Seal() { r.sealed = true }

// Sealed reports whether the registry accepts new entries.
func (r *Registry) Sealed() bool { return r.sealed }
