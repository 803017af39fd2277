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
	"math"
	"sort"

	"github.com/spatialmodel/atmospherics"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

type plotVariable struct {
	label string
	value func(atmospherics.Snapshot) float64
}

// plotVariables are the quantities that can be charted.
var plotVariables = map[string]plotVariable{
	"pressure":    {"Pressure (kPa)", func(s atmospherics.Snapshot) float64 { return s.Pressure }},
	"temperature": {"Temperature (K)", func(s atmospherics.Snapshot) float64 { return s.Temperature }},
	"heat":        {"Heat energy (J)", func(s atmospherics.Snapshot) float64 { return s.HeatEnergy }},
	"volume":      {"Volume (L)", func(s atmospherics.Snapshot) float64 { return s.Volume }},
	"moles":       {"Gas (mol)", func(s atmospherics.Snapshot) float64 { return s.Contents.Total() }},
}

// PlotVariables returns the names of the quantities PlotHistory can chart.
func PlotVariables() []string {
	var out []string
	for k := range plotVariables {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// PlotHistory creates a chart of variable over time, with one line for
// each of the named atmospheres. variable must be one of PlotVariables().
func PlotHistory(h *atmospherics.History, variable string, names ...string) (*plot.Plot, error) {
	v, ok := plotVariables[variable]
	if !ok {
		return nil, invalid("cannot plot %q; options are %v", variable, PlotVariables())
	}
	p, err := plot.New()
	if err != nil {
		return nil, err
	}
	p.X.Label.Text = "Time (s)"
	p.Y.Label.Text = v.label
	for i, name := range names {
		series := h.Series(name, v.value)
		xy := make(plotter.XYs, 0, len(series))
		for j, y := range series {
			if math.IsNaN(y) {
				continue
			}
			xy = append(xy, struct{ X, Y float64 }{h.Time[j], y})
		}
		if len(xy) == 0 {
			return nil, invalid("no record of atmosphere %q", name)
		}
		l, err := plotter.NewLine(xy)
		if err != nil {
			return nil, err
		}
		l.Color = plotutil.Color(i)
		p.Add(l)
		p.Legend.Add(name, l)
	}
	p.Legend.Top = true
	return p, nil
}

// SavePlot charts variable for the named atmospheres and saves the result
// to path. The image format is taken from the file extension.
func SavePlot(h *atmospherics.History, path, variable string, names ...string) error {
	p, err := PlotHistory(h, variable, names...)
	if err != nil {
		return err
	}
	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}
