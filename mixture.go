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

import "gonum.org/v1/gonum/floats"

// Quantity is an amount of a single chemical. In a Mixture it is a number
// of moles; in a Reaction it is a stoichiometric portion.
type Quantity struct {
	Chemical ChemicalID
	Moles    float64
}

// Mixture is a gas composition. Each chemical appears at most once and
// entries are kept in the order they were first added, so iteration (and
// therefore floating point summation) is deterministic.
type Mixture []Quantity

// index returns the position of id in m, or -1.
func (m Mixture) index(id ChemicalID) int {
	for i, q := range m {
		if q.Chemical == id {
			return i
		}
	}
	return -1
}

// Moles returns the moles of id in m.
func (m Mixture) Moles(id ChemicalID) float64 {
	if i := m.index(id); i >= 0 {
		return m[i].Moles
	}
	return 0
}

// Total returns the total moles in m.
func (m Mixture) Total() float64 {
	if len(m) == 0 {
		return 0
	}
	return floats.Sum(m.amounts())
}

func (m Mixture) amounts() []float64 {
	v := make([]float64, len(m))
	for i, q := range m {
		v[i] = q.Moles
	}
	return v
}

// Species returns the chemicals present in m.
func (m Mixture) Species() []ChemicalID {
	ids := make([]ChemicalID, len(m))
	for i, q := range m {
		ids[i] = q.Chemical
	}
	return ids
}

// Clone returns a copy of m.
func (m Mixture) Clone() Mixture {
	if m == nil {
		return nil
	}
	return append(Mixture(nil), m...)
}

// add increases the moles of id, inserting it if it is not yet present.
// Non-positive amounts leave the mixture unchanged.
func (m *Mixture) add(id ChemicalID, moles float64) {
	if !(moles > 0) {
		return
	}
	if i := m.index(id); i >= 0 {
		(*m)[i].Moles += moles
		return
	}
	*m = append(*m, Quantity{Chemical: id, Moles: moles})
}

// remove takes up to moles of id out of the mixture and returns the amount
// actually removed. Entries that reach zero are deleted.
func (m *Mixture) remove(id ChemicalID, moles float64) float64 {
	i := m.index(id)
	if i < 0 || !(moles > 0) {
		return 0
	}
	q := (*m)[i]
	if moles >= q.Moles {
		*m = append((*m)[:i], (*m)[i+1:]...)
		return q.Moles
	}
	(*m)[i].Moles -= moles
	return moles
}
