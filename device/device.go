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

package device

import (
	"math"

	"github.com/spatialmodel/atmospherics"
)

// Valve lets gas flow both ways along the pressure gradient between its
// atmospheres and conducts heat between them.
type Valve struct {
	BinaryDevice
}

// NewValve connects source and destination with a valve.
func NewValve(source, destination *atmospherics.Atmosphere) (*Valve, error) {
	b, err := newBinary(source, destination)
	if err != nil {
		return nil, err
	}
	return &Valve{BinaryDevice: b}, nil
}

// Update mixes the two atmospheres for dt seconds.
func (v *Valve) Update(dt float64) error {
	if !v.IsRunning() {
		return nil
	}
	return v.source.MixWith(v.destination, dt, true, true)
}

// OneWayValve is a Valve that only lets gas flow from source to
// destination.
type OneWayValve struct {
	BinaryDevice
}

// NewOneWayValve connects source and destination with a check valve.
func NewOneWayValve(source, destination *atmospherics.Atmosphere) (*OneWayValve, error) {
	b, err := newBinary(source, destination)
	if err != nil {
		return nil, err
	}
	return &OneWayValve{BinaryDevice: b}, nil
}

// Update lets gas flow toward the destination for dt seconds.
func (v *OneWayValve) Update(dt float64) error {
	if !v.IsRunning() {
		return nil
	}
	return v.source.MixWith(v.destination, dt, false, true)
}

// PassiveVent is an opening between two atmospheres. Unlike the other
// devices it starts switched on.
type PassiveVent struct {
	BinaryDevice
}

// NewPassiveVent connects source and destination with an open vent.
func NewPassiveVent(source, destination *atmospherics.Atmosphere) (*PassiveVent, error) {
	b, err := newBinary(source, destination)
	if err != nil {
		return nil, err
	}
	v := &PassiveVent{BinaryDevice: b}
	v.Set(true)
	return v, nil
}

// Update mixes the two atmospheres for dt seconds.
func (v *PassiveVent) Update(dt float64) error {
	if !v.IsRunning() {
		return nil
	}
	return v.source.MixWith(v.destination, dt, true, true)
}

// Spawner adds a fixed mixture to its destination every second.
type Spawner struct {
	Source

	// Rate is the gas added per second [mol/s for each species].
	Rate atmospherics.Mixture

	// Temperature is the temperature of the added gas [K].
	Temperature float64
}

// NewSpawner creates a spawner that adds rate moles per second of gas at
// temperature t to destination.
func NewSpawner(destination *atmospherics.Atmosphere, rate atmospherics.Mixture, t float64) (*Spawner, error) {
	s, err := newSource(destination)
	if err != nil {
		return nil, err
	}
	for _, q := range rate {
		if !destination.Registry().Has(q.Chemical) {
			return nil, invalid("spawner chemical %q not found in registry", q.Chemical)
		}
		if err := checkRate("spawner rate", q.Moles); err != nil {
			return nil, err
		}
	}
	if !(t > 0) {
		return nil, invalid("spawner temperature=%g but should be >0", t)
	}
	return &Spawner{Source: s, Rate: rate.Clone(), Temperature: t}, nil
}

// Update adds dt seconds worth of gas.
func (s *Spawner) Update(dt float64) error {
	if !s.IsRunning() {
		return nil
	}
	for _, q := range s.Rate {
		if err := s.destination.AddMolesAtTemperature(q.Chemical, q.Moles*dt, s.Temperature); err != nil {
			return err
		}
	}
	return nil
}

// Void removes gas from its source at a fixed total rate. Each species is
// removed in proportion to its share of the pressure.
type Void struct {
	Sink

	// Rate is the total removal rate [mol/s].
	Rate float64
}

// NewVoid creates a void that removes rate moles per second from source.
func NewVoid(source *atmospherics.Atmosphere, rate float64) (*Void, error) {
	s, err := newSink(source)
	if err != nil {
		return nil, err
	}
	if err := checkRate("void rate", rate); err != nil {
		return nil, err
	}
	return &Void{Sink: s, Rate: rate}, nil
}

// Update removes dt seconds worth of gas.
func (v *Void) Update(dt float64) error {
	if !v.IsRunning() {
		return nil
	}
	return drain(v.source, v.source.Contents().Species(), v.Rate*dt)
}

// FilteredVoid is a Void that only removes the listed chemicals.
type FilteredVoid struct {
	Sink

	Filter []atmospherics.ChemicalID
	Rate   float64 // mol/s
}

// NewFilteredVoid creates a void that removes the chemicals in filter from
// source at rate moles per second.
func NewFilteredVoid(source *atmospherics.Atmosphere, filter []atmospherics.ChemicalID, rate float64) (*FilteredVoid, error) {
	s, err := newSink(source)
	if err != nil {
		return nil, err
	}
	if err := checkRate("void rate", rate); err != nil {
		return nil, err
	}
	if err := checkFilter(source, filter); err != nil {
		return nil, err
	}
	return &FilteredVoid{
		Sink:   s,
		Filter: append([]atmospherics.ChemicalID(nil), filter...),
		Rate:   rate,
	}, nil
}

// Update removes dt seconds worth of the filtered chemicals.
func (v *FilteredVoid) Update(dt float64) error {
	if !v.IsRunning() {
		return nil
	}
	return drain(v.source, v.Filter, v.Rate*dt)
}

// drain removes moles from a, split between species by the mole fractions
// they had before anything was removed.
func drain(a *atmospherics.Atmosphere, species []atmospherics.ChemicalID, moles float64) error {
	fractions := make([]float64, len(species))
	for i, id := range species {
		fractions[i] = a.MoleFraction(id)
	}
	for i, id := range species {
		if _, err := a.Remove(id, fractions[i]*moles); err != nil {
			return err
		}
	}
	return nil
}

// TemperatureController adds heat to (or, with a negative rate, removes
// heat from) its destination.
type TemperatureController struct {
	Source

	// Rate is the heating power [W]. Negative values cool.
	Rate float64
}

// NewTemperatureController creates a heater or cooler for destination.
func NewTemperatureController(destination *atmospherics.Atmosphere, rate float64) (*TemperatureController, error) {
	s, err := newSource(destination)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return nil, invalid("temperature controller rate=%g is not finite", rate)
	}
	return &TemperatureController{Source: s, Rate: rate}, nil
}

// Update adds dt seconds worth of heat.
func (c *TemperatureController) Update(dt float64) error {
	if !c.IsRunning() {
		return nil
	}
	c.destination.AddHeat(c.Rate * dt)
	return nil
}

// TemperatureConductor exchanges heat between its atmospheres through a
// wall of fixed conductivity.
type TemperatureConductor struct {
	BinaryDevice

	Conductivity float64 // W/(m·K)
}

// NewTemperatureConductor creates a heat exchanger between source and
// destination.
func NewTemperatureConductor(source, destination *atmospherics.Atmosphere, conductivity float64) (*TemperatureConductor, error) {
	b, err := newBinary(source, destination)
	if err != nil {
		return nil, err
	}
	if err := checkRate("conductivity", conductivity); err != nil {
		return nil, err
	}
	return &TemperatureConductor{BinaryDevice: b, Conductivity: conductivity}, nil
}

// Update conducts heat for dt seconds.
func (c *TemperatureConductor) Update(dt float64) error {
	if !c.IsRunning() {
		return nil
	}
	c.destination.MixTemperaturesAt(c.source, c.Conductivity, dt)
	return nil
}

// VolumePump moves a fixed volume of gas per second from source to
// destination, regardless of pressure.
type VolumePump struct {
	BinaryDevice

	Rate float64 // L/s
}

// NewVolumePump creates a pump moving rate liters per second.
func NewVolumePump(source, destination *atmospherics.Atmosphere, rate float64) (*VolumePump, error) {
	b, err := newBinary(source, destination)
	if err != nil {
		return nil, err
	}
	if err := checkRate("pump rate", rate); err != nil {
		return nil, err
	}
	return &VolumePump{BinaryDevice: b, Rate: rate}, nil
}

// Update pumps dt seconds worth of gas.
func (p *VolumePump) Update(dt float64) error {
	if !p.IsRunning() {
		return nil
	}
	return p.source.MoveGasVolume(p.destination, p.Rate*dt)
}

// MolarPump moves a fixed amount of gas per second from source to
// destination, regardless of pressure.
type MolarPump struct {
	BinaryDevice

	Rate float64 // mol/s
}

// NewMolarPump creates a pump moving rate moles per second.
func NewMolarPump(source, destination *atmospherics.Atmosphere, rate float64) (*MolarPump, error) {
	b, err := newBinary(source, destination)
	if err != nil {
		return nil, err
	}
	if err := checkRate("pump rate", rate); err != nil {
		return nil, err
	}
	return &MolarPump{BinaryDevice: b, Rate: rate}, nil
}

// Update pumps dt seconds worth of gas.
func (p *MolarPump) Update(dt float64) error {
	if !p.IsRunning() {
		return nil
	}
	return p.source.MoveGasMoles(p.destination, p.Rate*dt)
}

// FilteredVolumePump moves only the listed chemicals. Each chemical is
// pumped as if it alone filled the source: rate liters per second of it are
// moved whatever else is present.
type FilteredVolumePump struct {
	BinaryDevice

	Filter []atmospherics.ChemicalID
	Rate   float64 // L/s
}

// NewFilteredVolumePump creates a pump moving the chemicals in filter.
func NewFilteredVolumePump(source, destination *atmospherics.Atmosphere, filter []atmospherics.ChemicalID, rate float64) (*FilteredVolumePump, error) {
	b, err := newBinary(source, destination)
	if err != nil {
		return nil, err
	}
	if err := checkRate("pump rate", rate); err != nil {
		return nil, err
	}
	if err := checkFilter(source, filter); err != nil {
		return nil, err
	}
	return &FilteredVolumePump{
		BinaryDevice: b,
		Filter:       append([]atmospherics.ChemicalID(nil), filter...),
		Rate:         rate,
	}, nil
}

// Update pumps dt seconds worth of the filtered chemicals.
func (p *FilteredVolumePump) Update(dt float64) error {
	if !p.IsRunning() || p.source.Volume() <= 0 {
		return nil
	}
	for _, id := range p.Filter {
		n := p.source.MolesOf(id) / p.source.Volume() * p.Rate * dt
		if _, err := p.source.MoveSpecies(p.destination, id, n); err != nil {
			return err
		}
	}
	return nil
}

// FilteredMolarPump moves up to rate moles per second of each listed
// chemical.
type FilteredMolarPump struct {
	BinaryDevice

	Filter []atmospherics.ChemicalID
	Rate   float64 // mol/s for each chemical
}

// NewFilteredMolarPump creates a pump moving the chemicals in filter.
func NewFilteredMolarPump(source, destination *atmospherics.Atmosphere, filter []atmospherics.ChemicalID, rate float64) (*FilteredMolarPump, error) {
	b, err := newBinary(source, destination)
	if err != nil {
		return nil, err
	}
	if err := checkRate("pump rate", rate); err != nil {
		return nil, err
	}
	if err := checkFilter(source, filter); err != nil {
		return nil, err
	}
	return &FilteredMolarPump{
		BinaryDevice: b,
		Filter:       append([]atmospherics.ChemicalID(nil), filter...),
		Rate:         rate,
	}, nil
}

// Update pumps dt seconds worth of the filtered chemicals.
func (p *FilteredMolarPump) Update(dt float64) error {
	if !p.IsRunning() {
		return nil
	}
	for _, id := range p.Filter {
		if _, err := p.source.MoveSpecies(p.destination, id, p.Rate*dt); err != nil {
			return err
		}
	}
	return nil
}

// VolumeMixer pumps a fixed total volume per second from two sources into
// a destination, split according to Ratio.
type VolumeMixer struct {
	mixer

	Ratio float64 // 0 is all source A, 1 is all source B
	Rate  float64 // L/s
}

// NewVolumeMixer creates a mixer moving rate liters per second in total.
func NewVolumeMixer(sourceA, sourceB, destination *atmospherics.Atmosphere, ratio, rate float64) (*VolumeMixer, error) {
	m, err := newMixer(sourceA, sourceB, destination, ratio)
	if err != nil {
		return nil, err
	}
	if err := checkRate("mixer rate", rate); err != nil {
		return nil, err
	}
	return &VolumeMixer{mixer: m, Ratio: ratio, Rate: rate}, nil
}

// Update mixes dt seconds worth of gas.
func (m *VolumeMixer) Update(dt float64) error {
	if !m.IsRunning() {
		return nil
	}
	if err := m.sourceA.MoveGasVolume(m.destination, m.Rate*dt*(1-m.Ratio)); err != nil {
		return err
	}
	return m.sourceB.MoveGasVolume(m.destination, m.Rate*dt*m.Ratio)
}

// MolarMixer moves a fixed total amount of gas per second from two sources
// into a destination, split according to Ratio. Neither transfer may
// exceed the total gas held by the emptier source; when one is limited,
// the other is reduced by the same factor so the ratio holds.
type MolarMixer struct {
	mixer

	Ratio float64 // 0 is all source A, 1 is all source B
	Rate  float64 // mol/s
}

// NewMolarMixer creates a mixer moving rate moles per second in total.
func NewMolarMixer(sourceA, sourceB, destination *atmospherics.Atmosphere, ratio, rate float64) (*MolarMixer, error) {
	m, err := newMixer(sourceA, sourceB, destination, ratio)
	if err != nil {
		return nil, err
	}
	if err := checkRate("mixer rate", rate); err != nil {
		return nil, err
	}
	return &MolarMixer{mixer: m, Ratio: ratio, Rate: rate}, nil
}

// Amounts returns the moles that would be taken from source A and source B
// over dt seconds.
func (m *MolarMixer) Amounts(dt float64) (a, b float64) {
	a = m.Rate * dt * (1 - m.Ratio)
	b = m.Rate * dt * m.Ratio
	limit := math.Min(m.sourceA.Moles(), m.sourceB.Moles())
	if !(limit > 0) {
		return 0, 0
	}
	if most := math.Max(a, b); most > limit {
		scale := limit / most
		a *= scale
		b *= scale
	}
	return a, b
}

// Update mixes dt seconds worth of gas.
func (m *MolarMixer) Update(dt float64) error {
	if !m.IsRunning() {
		return nil
	}
	a, b := m.Amounts(dt)
	if a == 0 && b == 0 {
		return nil
	}
	if err := m.sourceA.MoveGasMoles(m.destination, a); err != nil {
		return err
	}
	return m.sourceB.MoveGasMoles(m.destination, b)
}

var (
	_ Device = (*Valve)(nil)
	_ Device = (*OneWayValve)(nil)
	_ Device = (*PassiveVent)(nil)
	_ Device = (*Spawner)(nil)
	_ Device = (*Void)(nil)
	_ Device = (*FilteredVoid)(nil)
	_ Device = (*TemperatureController)(nil)
	_ Device = (*TemperatureConductor)(nil)
	_ Device = (*VolumePump)(nil)
	_ Device = (*MolarPump)(nil)
	_ Device = (*FilteredVolumePump)(nil)
	_ Device = (*FilteredMolarPump)(nil)
	_ Device = (*VolumeMixer)(nil)
	_ Device = (*MolarMixer)(nil)

	_ HasSource       = (*Void)(nil)
	_ HasDestination  = (*Spawner)(nil)
	_ HasDifferential = (*MolarMixer)(nil)
	_ HasLimits       = (*Void)(nil)
	_ HasLimits       = (*Spawner)(nil)
	_ HasLimits       = (*Valve)(nil)
	_ HasLimits       = (*MolarMixer)(nil)
)
