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

package atmosutil

import (
	"fmt"
	"math"
	"sort"

	"github.com/Knetic/govaluate"
	"github.com/spatialmodel/atmospherics"
)

// Outputter evaluates user-defined output expressions against the state of
// an atmosphere.
//
// Expressions can use the variables Pressure [kPa], Temperature [K],
// Volume [L], HeatEnergy [J], Moles [mol] and Mass [kg], and the amount
// [mol] of any registered chemical by its identifier. Identifiers that are
// not valid variable names must be written in brackets, for example
// [carbon-monoxide].
type Outputter struct {
	reg         *atmospherics.Registry
	names       []string
	expressions map[string]*govaluate.EvaluableExpression
}

// NewOutputter compiles the outputVariables, which map output names to
// expressions, for atmospheres that use the registry r. Default functions
// are:
//
// 'exp(x)' which applies the exponential function e^x.
//
// 'celsius(x)' which converts a temperature from kelvin to degrees Celsius.
//
// outputFunctions can add functions or replace the defaults.
func NewOutputter(r *atmospherics.Registry, outputVariables map[string]string, outputFunctions map[string]govaluate.ExpressionFunction) (*Outputter, error) {
	funcs := map[string]govaluate.ExpressionFunction{
		"exp": func(arg ...interface{}) (interface{}, error) {
			if len(arg) != 1 {
				return nil, fmt.Errorf("atmosutil: got %d arguments for function 'exp', but needs 1", len(arg))
			}
			return math.Exp(arg[0].(float64)), nil
		},
		"celsius": func(arg ...interface{}) (interface{}, error) {
			if len(arg) != 1 {
				return nil, fmt.Errorf("atmosutil: got %d arguments for function 'celsius', but needs 1", len(arg))
			}
			return arg[0].(float64) - 273.15, nil
		},
	}
	for key, val := range outputFunctions {
		funcs[key] = val
	}

	known := map[string]bool{
		"Pressure": true, "Temperature": true, "Volume": true,
		"HeatEnergy": true, "Moles": true, "Mass": true,
	}
	for _, id := range r.Chemicals() {
		known[string(id)] = true
	}

	o := &Outputter{reg: r, expressions: make(map[string]*govaluate.EvaluableExpression)}
	for name, expr := range outputVariables {
		e, err := govaluate.NewEvaluableExpressionWithFunctions(expr, funcs)
		if err != nil {
			return nil, invalid("output %s: %v", name, err)
		}
		for _, v := range e.Vars() {
			if !known[v] {
				return nil, invalid("output %s: unknown variable %q", name, v)
			}
		}
		o.expressions[name] = e
		o.names = append(o.names, name)
	}
	sort.Strings(o.names)
	return o, nil
}

// Names returns the output names in lexical order.
func (o *Outputter) Names() []string { return append([]string(nil), o.names...) }

// Evaluate calculates every output for atmosphere a.
func (o *Outputter) Evaluate(a *atmospherics.Atmosphere) (map[string]float64, error) {
	params := map[string]interface{}{
		"Pressure":    a.Pressure(),
		"Temperature": a.Temperature(),
		"Volume":      a.Volume(),
		"HeatEnergy":  a.HeatEnergy(),
		"Moles":       a.Moles(),
		"Mass":        a.Mass(),
	}
	for _, id := range o.reg.Chemicals() {
		params[string(id)] = a.MolesOf(id)
	}
	out := make(map[string]float64, len(o.names))
	for _, name := range o.names {
		v, err := o.expressions[name].Evaluate(params)
		if err != nil {
			return nil, fmt.Errorf("atmosutil: evaluating output %s for %q: %w", name, a.Name, err)
		}
		f, ok := v.(float64)
		if !ok {
			return nil, invalid("output %s evaluates to %T, not a number", name, v)
		}
		out[name] = f
	}
	return out, nil
}
