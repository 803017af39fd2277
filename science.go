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

// React returns a function that runs the registered reactions in an
// atmosphere, including the volume adjustment of elastic atmospheres.
func React() AtmosphereManipulator {
	return func(a *Atmosphere, Δt float64) error {
		return a.Tick(Δt)
	}
}

// Ignition returns a function that forces the ignitable reactions in the
// atmospheres whose names are listed. All atmospheres are ignited if no
// names are given.
func Ignition(names ...string) AtmosphereManipulator {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	return func(a *Atmosphere, Δt float64) error {
		if len(want) > 0 && !want[a.Name] {
			return nil
		}
		return a.Ignite(Δt)
	}
}

// Heating returns a function that adds heat to every atmosphere at the
// given rate [W]. Negative rates cool.
func Heating(watts float64) AtmosphereManipulator {
	return func(a *Atmosphere, Δt float64) error {
		a.AddHeat(watts * Δt)
		return nil
	}
}
