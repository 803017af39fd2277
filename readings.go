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

import "github.com/ctessum/unit"

var (
	// joulePerKelvin is the dimension of heat capacity.
	joulePerKelvin = unit.Dimensions{
		unit.MassDim:        1,
		unit.LengthDim:      2,
		unit.TimeDim:        -2,
		unit.TemperatureDim: -1,
	}
	// wattPerMeterKelvin is the dimension of thermal conductivity.
	wattPerMeterKelvin = unit.Dimensions{
		unit.MassDim:        1,
		unit.LengthDim:      1,
		unit.TimeDim:        -3,
		unit.TemperatureDim: -1,
	}
)

// Readings are the observable properties of an atmosphere in SI units,
// for presentation layers that want dimensioned values.
type Readings struct {
	Temperature         *unit.Unit // K
	Pressure            *unit.Unit // Pa
	Volume              *unit.Unit // m³
	HeatEnergy          *unit.Unit // J
	Mass                *unit.Unit // kg
	HeatCapacity        *unit.Unit // J/K
	ThermalConductivity *unit.Unit // W/(m·K)
}

// Readings returns the current state of a with units attached. Pressure is
// converted from kPa and volume from liters.
func (a *Atmosphere) Readings() Readings {
	return Readings{
		Temperature:         unit.New(a.Temperature(), unit.Kelvin),
		Pressure:            unit.New(a.Pressure()*1000, unit.Pascal),
		Volume:              unit.New(a.Volume()/1000, unit.Meter3),
		HeatEnergy:          unit.New(a.HeatEnergy(), unit.Joule),
		Mass:                unit.New(a.Mass(), unit.Kilogram),
		HeatCapacity:        unit.New(a.HeatCapacity(), joulePerKelvin),
		ThermalConductivity: unit.New(a.ThermalConductivity(), wattPerMeterKelvin),
	}
}
