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
	"errors"
	"fmt"
)

var (
	// ErrUnknownChemical is returned when an operation references a chemical
	// that is not present in the property table.
	ErrUnknownChemical = errors.New("unknown chemical")

	// ErrInvalidConfiguration is returned for problems detected while
	// setting up property tables, reactions, devices, or scenarios.
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// ChemicalError records a failed operation on a specific chemical.
type ChemicalError struct {
	Op       string     // operation that failed, e.g. "remove"
	Chemical ChemicalID // chemical the operation referenced
	Err      error
}

func (e *ChemicalError) Error() string {
	return fmt.Sprintf("atmospherics: %s %q: %v", e.Op, e.Chemical, e.Err)
}

// Unwrap allows errors.Is(err, ErrUnknownChemical).
func (e *ChemicalError) Unwrap() error { return e.Err }

func unknownChemical(op string, id ChemicalID) error {
	return &ChemicalError{Op: op, Chemical: id, Err: ErrUnknownChemical}
}

func invalidConfig(format string, args ...interface{}) error {
	return fmt.Errorf("atmospherics: %s: %w", fmt.Sprintf(format, args...), ErrInvalidConfiguration)
}
