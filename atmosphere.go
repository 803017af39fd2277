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

// Package atmospherics simulates gas thermodynamics in discrete, well-mixed
// containers. Each Atmosphere tracks its composition, heat energy, pressure
// and temperature; reactions registered in a Registry convert species and
// release or absorb energy; and devices (see package device) move gas and
// heat between atmospheres once per time step.
//
// Units: volume in liters, pressure in kPa, heat in J, temperature in K,
// amounts in moles, masses in kg.
package atmospherics

import (
	"math"
)

// StandardPressure is one atmosphere [kPa].
const StandardPressure = 101.325

// Physics holds the tunable constants used by an Atmosphere.
type Physics struct {
	GasConstant    float64 `desc:"Ideal gas constant" units:"J/(K·mol)"`
	MinTemperature float64 `desc:"Lowest temperature an atmosphere can reach" units:"K"`
	MixRate        float64 `desc:"Pressure driven flow rate" units:"mol/(kPa·s)"`

	// MaxPressure sets the pressure gradient at which flow between two
	// atmospheres starts to saturate [kPa].
	MaxPressure float64

	// TempMixRate multiplies conductive heat flow. It is a gameplay knob,
	// not a physical constant.
	TempMixRate float64

	ConductionDistance float64 `desc:"Distance heat is conducted across" units:"m"`
	ConductionArea     float64 `desc:"Area heat is conducted through" units:"m²"`
}

// DefaultPhysics returns the standard constants.
func DefaultPhysics() Physics {
	return Physics{
		GasConstant:        8.31446261815324,
		MinTemperature:     0.001,
		MixRate:            5,
		MaxPressure:        1000,
		TempMixRate:        100,
		ConductionDistance: 0.01, // 1 cm
		ConductionArea:     1,    // 1 m²
	}
}

func (p Physics) validate() error {
	vals := []float64{p.GasConstant, p.MinTemperature, p.MaxPressure, p.ConductionDistance}
	names := []string{"GasConstant", "MinTemperature", "MaxPressure", "ConductionDistance"}
	for i, v := range vals {
		if !(v > 0) {
			return invalidConfig("physics: %s=%g but should be >0", names[i], v)
		}
	}
	return nil
}

// Atmosphere is a well-mixed gas reservoir. All mutations go through its
// methods, which recompute the temperature immediately.
type Atmosphere struct {
	Name    string
	Physics Physics

	reg         *Registry
	volume      float64 // L
	heatEnergy  float64 // J
	temperature float64 // K
	contents    Mixture

	// externalPressure is the pressure an elastic atmosphere expands or
	// contracts to match after each tick. Zero means rigid.
	externalPressure float64
}

// AtmosphereOption configures an Atmosphere at construction.
type AtmosphereOption func(*Atmosphere) error

// WithName sets the name used in logs and snapshots.
func WithName(name string) AtmosphereOption {
	return func(a *Atmosphere) error {
		a.Name = name
		return nil
	}
}

// WithPhysics replaces the default constants.
func WithPhysics(p Physics) AtmosphereOption {
	return func(a *Atmosphere) error {
		if err := p.validate(); err != nil {
			return err
		}
		a.Physics = p
		return nil
	}
}

// Elastic makes the atmosphere change its volume after every Tick so that
// its pressure equals externalPressure [kPa], like a balloon.
func Elastic(externalPressure float64) AtmosphereOption {
	return func(a *Atmosphere) error {
		if !(externalPressure > 0) {
			return invalidConfig("elastic atmosphere: external pressure=%g but should be >0", externalPressure)
		}
		a.externalPressure = externalPressure
		return nil
	}
}

// NewAtmosphere creates an empty atmosphere with the given volume [L].
// The registry is sealed: no chemicals or reactions can be added to it
// afterwards.
func NewAtmosphere(r *Registry, volume float64, opts ...AtmosphereOption) (*Atmosphere, error) {
	if r == nil {
		return nil, invalidConfig("atmosphere: nil registry")
	}
	if !(volume >= 0) || math.IsInf(volume, 0) {
		return nil, invalidConfig("atmosphere: volume=%g but should be >=0", volume)
	}
	a := &Atmosphere{
		Physics: DefaultPhysics(),
		reg:     r,
		volume:  volume,
	}
	for _, o := range opts {
		if err := o(a); err != nil {
			return nil, err
		}
	}
	r.Seal()
	a.recalculate()
	return a, nil
}

// Registry returns the registry the atmosphere was created from.
func (a *Atmosphere) Registry() *Registry { return a.reg }

// ExternalPressure returns the pressure an elastic atmosphere tracks, or
// zero if the atmosphere is rigid.
func (a *Atmosphere) ExternalPressure() float64 { return a.externalPressure }

// recalculate derives the temperature from the heat energy.
func (a *Atmosphere) recalculate() {
	hc := a.HeatCapacity()
	if !(a.heatEnergy > 0) || !(hc > 0) {
		a.temperature = a.Physics.MinTemperature
		a.heatEnergy = 0
		return
	}
	a.temperature = math.Max(a.heatEnergy/hc, a.Physics.MinTemperature)
}

// AddHeat adds delta joules to the atmosphere. Removing heat never takes
// the atmosphere below its minimum temperature. A NaN delta adds nothing.
func (a *Atmosphere) AddHeat(delta float64) {
	switch {
	case math.IsNaN(delta):
	case delta < 0:
		a.heatEnergy = math.Max(a.HeatCapacity()*a.Physics.MinTemperature, a.heatEnergy+delta)
	default:
		a.heatEnergy += delta
	}
	a.recalculate()
}

// AddVolume changes the volume by delta liters. The volume cannot become
// negative; an atmosphere that reaches zero volume loses its contents.
func (a *Atmosphere) AddVolume(delta float64) {
	if delta == 0 || math.IsNaN(delta) {
		return
	}
	a.volume = math.Max(0, a.volume+delta)
	if a.volume <= 0 {
		a.contents = nil
	}
	a.recalculate()
}

// AddMoles adds moles of a chemical together with heat joules of energy.
func (a *Atmosphere) AddMoles(id ChemicalID, moles, heat float64) error {
	if _, err := a.reg.chemical("add", id); err != nil {
		return err
	}
	a.contents.add(id, moles)
	a.AddHeat(heat)
	return nil
}

// AddMolesAtTemperature adds moles of a chemical that is at temperature t [K].
func (a *Atmosphere) AddMolesAtTemperature(id ChemicalID, moles, t float64) error {
	c, err := a.reg.chemical("add", id)
	if err != nil {
		return err
	}
	if !(moles > 0) {
		return nil
	}
	return a.AddMoles(id, moles, t*moles*c.MolarHeatCapacity())
}

// AddMass adds mass [kg] of a chemical together with heat joules of energy.
func (a *Atmosphere) AddMass(id ChemicalID, mass, heat float64) error {
	c, err := a.reg.chemical("add", id)
	if err != nil {
		return err
	}
	return a.AddMoles(id, mass/c.MolarMass, heat)
}

// AddMassAtTemperature adds mass [kg] of a chemical at temperature t [K].
func (a *Atmosphere) AddMassAtTemperature(id ChemicalID, mass, t float64) error {
	c, err := a.reg.chemical("add", id)
	if err != nil {
		return err
	}
	return a.AddMolesAtTemperature(id, mass/c.MolarMass, t)
}

// Remove takes up to moles of a chemical out of the atmosphere and returns
// the amount removed. The heat carried away is evaluated at the current
// temperature.
func (a *Atmosphere) Remove(id ChemicalID, moles float64) (float64, error) {
	return a.removeAt(id, moles, a.temperature)
}

// removeAt removes up to moles of id, withdrawing the heat the gas would
// carry at temperature t.
func (a *Atmosphere) removeAt(id ChemicalID, moles, t float64) (float64, error) {
	c, err := a.reg.chemical("remove", id)
	if err != nil {
		return 0, err
	}
	removed := a.contents.remove(id, moles)
	if removed == 0 {
		return 0, nil
	}
	a.AddHeat(-removed * c.MolarHeatCapacity() * t)
	return removed, nil
}

// RemoveWithoutHeat removes up to moles of a chemical but leaves the heat
// energy untouched. Reactions use it because they account for their
// energy separately.
func (a *Atmosphere) RemoveWithoutHeat(id ChemicalID, moles float64) (float64, error) {
	if _, err := a.reg.chemical("remove", id); err != nil {
		return 0, err
	}
	removed := a.contents.remove(id, moles)
	if removed > 0 {
		a.recalculate()
	}
	return removed, nil
}

// RemoveAll removes every mole of a chemical.
func (a *Atmosphere) RemoveAll(id ChemicalID) (float64, error) {
	return a.Remove(id, a.contents.Moles(id))
}

// Has reports whether the atmosphere holds more than atLeast moles of id.
func (a *Atmosphere) Has(id ChemicalID, atLeast float64) bool {
	i := a.contents.index(id)
	return i >= 0 && a.contents[i].Moles > atLeast
}

// Contents returns a copy of the gas mixture.
func (a *Atmosphere) Contents() Mixture { return a.contents.Clone() }

// Volume returns the volume [L].
func (a *Atmosphere) Volume() float64 { return a.volume }

// HeatEnergy returns the heat energy [J].
func (a *Atmosphere) HeatEnergy() float64 { return a.heatEnergy }

// Temperature returns the temperature [K].
func (a *Atmosphere) Temperature() float64 { return a.temperature }

// Moles returns the total amount of gas [mol].
func (a *Atmosphere) Moles() float64 { return a.contents.Total() }

// MolesOf returns the amount of one chemical [mol].
func (a *Atmosphere) MolesOf(id ChemicalID) float64 { return a.contents.Moles(id) }

// props returns the properties of a chemical known to be in the mixture.
func (a *Atmosphere) props(id ChemicalID) Chemical { return a.reg.chemicals[id] }

// Mass returns the total mass of gas [kg].
func (a *Atmosphere) Mass() float64 {
	var sum float64
	for _, q := range a.contents {
		sum += q.Moles * a.props(q.Chemical).MolarMass
	}
	return sum
}

// MassOf returns the mass of one chemical [kg].
func (a *Atmosphere) MassOf(id ChemicalID) float64 {
	i := a.contents.index(id)
	if i < 0 {
		return 0
	}
	return a.contents[i].Moles * a.props(id).MolarMass
}

// Pressure returns the ideal gas pressure P = nRT/V [kPa].
func (a *Atmosphere) Pressure() float64 {
	return a.pressure(a.Moles())
}

// PressureOf returns the partial pressure of one chemical [kPa].
func (a *Atmosphere) PressureOf(id ChemicalID) float64 {
	return a.pressure(a.contents.Moles(id))
}

func (a *Atmosphere) pressure(moles float64) float64 {
	if a.volume <= 0 || moles <= 0 {
		return 0
	}
	// J/L = kPa
	return moles * a.Physics.GasConstant * a.temperature / a.volume
}

// MoleFraction returns the share of the total moles (and therefore of the
// pressure) contributed by id.
func (a *Atmosphere) MoleFraction(id ChemicalID) float64 {
	total := a.Moles()
	if total <= 0 {
		return 0
	}
	return a.contents.Moles(id) / total
}

// MassFraction returns the share of the total mass contributed by id.
func (a *Atmosphere) MassFraction(id ChemicalID) float64 {
	total := a.Mass()
	if total <= 0 {
		return 0
	}
	return a.MassOf(id) / total
}

// massWeighted returns the mass weighted average of prop over the mixture.
func (a *Atmosphere) massWeighted(prop func(Chemical) float64) float64 {
	total := a.Mass()
	if total <= 0 {
		return 0
	}
	var sum float64
	for _, q := range a.contents {
		c := a.props(q.Chemical)
		sum += q.Moles * c.MolarMass / total * prop(c)
	}
	return sum
}

// SpecificHeatMass returns the specific heat of the mixture [J/(K·kg)].
func (a *Atmosphere) SpecificHeatMass() float64 {
	return a.massWeighted(func(c Chemical) float64 { return c.SpecificHeat })
}

// SpecificHeatMoles returns the molar heat capacity of the mixture [J/(K·mol)].
func (a *Atmosphere) SpecificHeatMoles() float64 {
	return a.massWeighted(Chemical.MolarHeatCapacity)
}

// ThermalConductivity returns the conductivity of the mixture [W/(m·K)].
func (a *Atmosphere) ThermalConductivity() float64 {
	return a.massWeighted(func(c Chemical) float64 { return c.ThermalConductivity })
}

// HeatCapacity returns the heat capacity of the whole atmosphere [J/K].
func (a *Atmosphere) HeatCapacity() float64 {
	return a.SpecificHeatMoles() * a.Moles()
}

// Snapshot is a copy of the observable state of an Atmosphere.
type Snapshot struct {
	Name        string
	Volume      float64 // L
	HeatEnergy  float64 // J
	Temperature float64 // K
	Pressure    float64 // kPa
	Contents    Mixture
}

// Snapshot returns the current state of a.
func (a *Atmosphere) Snapshot() Snapshot {
	return Snapshot{
		Name:        a.Name,
		Volume:      a.volume,
		HeatEnergy:  a.heatEnergy,
		Temperature: a.temperature,
		Pressure:    a.Pressure(),
		Contents:    a.Contents(),
	}
}
