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

// Mechanism is an interface for sets of chemicals and the reactions
// between them.
type Mechanism interface {
	// Species returns the identifiers of the chemicals that are
	// registered by this mechanism, in registration order.
	Species() []ChemicalID

	// Register adds the chemicals and reactions of the mechanism to r.
	// Chemicals must be registered before the reactions that use them.
	Register(r *Registry) error
}
