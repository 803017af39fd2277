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
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/atmospherics"
	"github.com/spatialmodel/atmospherics/device"
	"github.com/spatialmodel/atmospherics/science/chem/simplechem"
	"github.com/spatialmodel/atmospherics/science/chem/tablechem"
	"github.com/spf13/cast"
)

// Scenario describes a network of atmospheres and the devices that connect
// them. Scenarios are read from TOML files; see testdata/demo.toml for an
// example.
type Scenario struct {
	// Dt is the time step [s].
	Dt float64 `toml:"dt"`

	// Steps is the number of time steps to run. If SteadyStateTolerance is
	// also set, the simulation stops at whichever comes first.
	Steps int `toml:"steps"`

	// SteadyStateTolerance stops the simulation once the total pressure and
	// heat of all atmospheres change by less than this fraction between
	// checks, which are CheckPeriod seconds apart.
	SteadyStateTolerance float64 `toml:"steadyStateTolerance"`
	CheckPeriod          float64 `toml:"checkPeriod"`

	// RecordEvery is the number of time steps between history records.
	RecordEvery int `toml:"recordEvery"`

	// Mechanisms lists the chemistry to load, in order. "builtin" loads
	// the builtin chemicals and reactions, "builtin-chemicals" loads only
	// the builtin chemicals, and anything else is read as the path to a
	// table (relative paths are relative to the scenario file). The
	// default is "builtin".
	Mechanisms []string `toml:"mechanisms"`

	// Ignite lists atmospheres whose ignitable reactions are forced once
	// when the simulation starts.
	Ignite []string `toml:"ignite"`

	// Outputs maps output names to expressions that are evaluated for
	// every atmosphere when the simulation finishes. See Outputter for the
	// available variables.
	Outputs map[string]string `toml:"outputs"`

	Atmospheres []AtmosphereConfig `toml:"atmosphere"`
	Devices     []DeviceConfig     `toml:"device"`

	dir string
}

// AtmosphereConfig describes a single atmosphere.
type AtmosphereConfig struct {
	Name        string             `toml:"name"`
	Volume      float64            `toml:"volume"`      // L
	Temperature float64            `toml:"temperature"` // K, of the initial contents
	Contents    map[string]float64 `toml:"contents"`    // mol

	// ExternalPressure [kPa] makes the atmosphere elastic when it is above
	// zero.
	ExternalPressure float64 `toml:"externalPressure"`
}

// DeviceConfig describes a single device. Which of the atmosphere fields
// are needed depends on Type.
type DeviceConfig struct {
	Name string `toml:"name"`
	Type string `toml:"type"`

	// On sets the power switch. If it is missing the device keeps the
	// state it was created with.
	On *bool `toml:"on"`

	Source      string `toml:"source"`
	Destination string `toml:"destination"`
	SourceA     string `toml:"sourceA"`
	SourceB     string `toml:"sourceB"`

	// Filter lists the chemicals handled by filtered devices.
	Filter []string `toml:"filter"`

	// Gas is the spawning rate of a spawner [mol/s].
	Gas map[string]float64 `toml:"gas"`

	// Params holds the numeric settings of the device: rate, ratio,
	// temperature and conductivity, plus the optional operating windows
	// minTemperature, maxTemperature, minPressure, maxPressure,
	// minTemperatureDifference, maxTemperatureDifference,
	// minPressureDifference and maxPressureDifference. Mixers also take
	// the difference keys with an A or B suffix, for example
	// minPressureDifferenceB, which apply to one source only.
	Params map[string]interface{} `toml:"params"`
}

// deviceTypes are the recognized values of DeviceConfig.Type.
var deviceTypes = []string{
	"valve", "one-way-valve", "passive-vent", "spawner", "void", "filtered-void",
	"temperature-controller", "temperature-conductor", "volume-pump", "molar-pump",
	"filtered-volume-pump", "filtered-molar-pump", "volume-mixer", "molar-mixer",
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("atmosutil: %s: %w", fmt.Sprintf(format, args...), atmospherics.ErrInvalidConfiguration)
}

// ReadScenario reads a scenario from r. Relative mechanism paths are
// resolved against the working directory.
func ReadScenario(r io.Reader) (*Scenario, error) {
	s := new(Scenario)
	md, err := toml.DecodeReader(r, s)
	if err != nil {
		return nil, invalid("reading scenario: %v", err)
	}
	if u := md.Undecoded(); len(u) > 0 {
		return nil, invalid("unknown scenario keys %v", u)
	}
	return s, nil
}

// LoadScenario reads the scenario file at path, which can contain
// environment variables.
func LoadScenario(path string) (*Scenario, error) {
	path = os.ExpandEnv(path)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("atmosutil: opening scenario: %w", err)
	}
	defer f.Close()
	s, err := ReadScenario(f)
	if err != nil {
		return nil, err
	}
	s.dir = filepath.Dir(path)
	return s, nil
}

// Registry loads the mechanisms of the scenario into a new registry.
func (s *Scenario) Registry() (*atmospherics.Registry, error) {
	return LoadMechanisms(s.dir, s.Mechanisms...)
}

// LoadMechanisms creates a registry from the named mechanisms, as
// described for Scenario.Mechanisms. Table paths are relative to dir.
func LoadMechanisms(dir string, names ...string) (*atmospherics.Registry, error) {
	if len(names) == 0 {
		names = []string{"builtin"}
	}
	r, err := atmospherics.NewRegistry()
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		var m atmospherics.Mechanism
		switch name {
		case "builtin":
			m = simplechem.Mechanism{}
		case "builtin-chemicals":
			m = simplechem.Mechanism{ChemicalsOnly: true}
		default:
			path := os.ExpandEnv(name)
			if !filepath.IsAbs(path) && dir != "" {
				path = filepath.Join(dir, path)
			}
			tm, err := tablechem.LoadFile(path)
			if err != nil {
				return nil, err
			}
			m = tm
		}
		if err := r.Load(m); err != nil {
			return nil, fmt.Errorf("atmosutil: loading mechanism %q: %w", name, err)
		}
	}
	return r, nil
}

// Build creates the simulation described by s. The returned History is
// filled in as the simulation runs, starting with the initial state.
// Progress is written to log unless it is nil.
func (s *Scenario) Build(log logrus.FieldLogger) (*atmospherics.Simulation, *atmospherics.History, error) {
	if !(s.Dt > 0) {
		return nil, nil, invalid("dt=%g but should be >0", s.Dt)
	}
	if s.Steps <= 0 && !(s.SteadyStateTolerance > 0) {
		return nil, nil, invalid("either steps or steadyStateTolerance must be set")
	}
	r, err := s.Registry()
	if err != nil {
		return nil, nil, err
	}
	sim := &atmospherics.Simulation{Registry: r, Dt: s.Dt}
	byName := make(map[string]*atmospherics.Atmosphere)
	for _, c := range s.Atmospheres {
		if _, ok := byName[c.Name]; ok || c.Name == "" {
			return nil, nil, invalid("atmosphere name %q is empty or repeated", c.Name)
		}
		a, err := c.build(r)
		if err != nil {
			return nil, nil, err
		}
		byName[c.Name] = a
		sim.Atmospheres = append(sim.Atmospheres, a)
	}
	for _, c := range s.Devices {
		d, err := c.build(byName)
		if err != nil {
			return nil, nil, err
		}
		sim.Devices = append(sim.Devices, d)
	}

	h := new(atmospherics.History)
	if len(s.Ignite) > 0 {
		for _, name := range s.Ignite {
			if _, ok := byName[name]; !ok {
				return nil, nil, invalid("cannot ignite unknown atmosphere %q", name)
			}
		}
		sim.InitFuncs = append(sim.InitFuncs, atmospherics.Calculations(atmospherics.Ignition(s.Ignite...)))
	}
	sim.InitFuncs = append(sim.InitFuncs, atmospherics.Record(h, 1))

	sim.RunFuncs = []atmospherics.SimulationManipulator{
		atmospherics.Calculations(atmospherics.React()),
		atmospherics.UpdateDevices(),
		atmospherics.AdvanceTime(),
		atmospherics.Record(h, s.RecordEvery),
	}
	if log != nil {
		sim.RunFuncs = append(sim.RunFuncs, atmospherics.Log(log))
	}
	if s.Steps > 0 {
		sim.RunFuncs = append(sim.RunFuncs, atmospherics.StopAfterSteps(s.Steps))
	}
	if s.SteadyStateTolerance > 0 {
		period := s.CheckPeriod
		if !(period > 0) {
			period = s.Dt
		}
		sim.RunFuncs = append(sim.RunFuncs, atmospherics.SteadyStateCheck(s.SteadyStateTolerance, period, log))
	}
	return sim, h, nil
}

// sortedKeys returns the keys of m in lexical order so that gas is always
// added in the same order.
func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (c AtmosphereConfig) build(r *atmospherics.Registry) (*atmospherics.Atmosphere, error) {
	opts := []atmospherics.AtmosphereOption{atmospherics.WithName(c.Name)}
	if c.ExternalPressure > 0 {
		opts = append(opts, atmospherics.Elastic(c.ExternalPressure))
	}
	a, err := atmospherics.NewAtmosphere(r, c.Volume, opts...)
	if err != nil {
		return nil, fmt.Errorf("atmosutil: atmosphere %q: %w", c.Name, err)
	}
	if len(c.Contents) > 0 && !(c.Temperature > 0) {
		return nil, invalid("atmosphere %q: temperature=%g but should be >0", c.Name, c.Temperature)
	}
	for _, id := range sortedKeys(c.Contents) {
		n := c.Contents[id]
		if !(n >= 0) {
			return nil, invalid("atmosphere %q: %s=%g mol but should be >=0", c.Name, id, n)
		}
		if err := a.AddMolesAtTemperature(atmospherics.ChemicalID(id), n, c.Temperature); err != nil {
			return nil, fmt.Errorf("atmosutil: atmosphere %q: %w", c.Name, err)
		}
	}
	return a, nil
}

// params reads numeric device settings and keeps track of which have been
// used, so that misspelled settings can be reported.
type params struct {
	device string
	m      map[string]interface{}
	used   map[string]bool
}

func (p *params) get(key string) (float64, bool, error) {
	v, ok := p.m[key]
	if !ok {
		return 0, false, nil
	}
	p.used[key] = true
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, false, invalid("device %q: parameter %s: %v", p.device, key, err)
	}
	return f, true, nil
}

func (p *params) require(key string) (float64, error) {
	f, ok, err := p.get(key)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, invalid("device %q: missing parameter %s", p.device, key)
	}
	return f, nil
}

// set overwrites *dst with the value of key, if there is one.
func (p *params) set(key string, dst *float64) error {
	f, ok, err := p.get(key)
	if ok {
		*dst = f
	}
	return err
}

func (p *params) unused() error {
	for k := range p.m {
		if !p.used[k] {
			return invalid("device %q: unknown parameter %s", p.device, k)
		}
	}
	return nil
}

func (c DeviceConfig) atmosphere(atmospheres map[string]*atmospherics.Atmosphere, role, name string) (*atmospherics.Atmosphere, error) {
	a, ok := atmospheres[name]
	if !ok {
		return nil, invalid("device %q: %s atmosphere %q not found", c.Name, role, name)
	}
	return a, nil
}

func (c DeviceConfig) filter() []atmospherics.ChemicalID {
	out := make([]atmospherics.ChemicalID, len(c.Filter))
	for i, f := range c.Filter {
		out[i] = atmospherics.ChemicalID(f)
	}
	return out
}

func (c DeviceConfig) build(atmospheres map[string]*atmospherics.Atmosphere) (device.Device, error) {
	p := &params{device: c.Name, m: c.Params, used: make(map[string]bool)}
	d, err := c.create(atmospheres, p)
	if err != nil {
		return nil, err
	}
	if err := c.windows(d, p); err != nil {
		return nil, err
	}
	if err := p.unused(); err != nil {
		return nil, err
	}
	if c.On != nil {
		d.Set(*c.On)
	}
	return d, nil
}

// create calls the constructor for c.Type.
func (c DeviceConfig) create(atmospheres map[string]*atmospherics.Atmosphere, p *params) (device.Device, error) {
	var src, dst, srcA, srcB *atmospherics.Atmosphere
	var err error
	get := func(role, name string) *atmospherics.Atmosphere {
		if err != nil {
			return nil
		}
		var a *atmospherics.Atmosphere
		a, err = c.atmosphere(atmospheres, role, name)
		return a
	}
	switch c.Type {
	case "valve", "one-way-valve", "passive-vent", "temperature-conductor",
		"volume-pump", "molar-pump", "filtered-volume-pump", "filtered-molar-pump":
		src, dst = get("source", c.Source), get("destination", c.Destination)
	case "spawner", "temperature-controller":
		dst = get("destination", c.Destination)
	case "void", "filtered-void":
		src = get("source", c.Source)
	case "volume-mixer", "molar-mixer":
		srcA, srcB = get("sourceA", c.SourceA), get("sourceB", c.SourceB)
		dst = get("destination", c.Destination)
	default:
		return nil, invalid("device %q: type %q is not one of %v", c.Name, c.Type, deviceTypes)
	}
	if err != nil {
		return nil, err
	}

	switch c.Type {
	case "valve":
		return device.NewValve(src, dst)
	case "one-way-valve":
		return device.NewOneWayValve(src, dst)
	case "passive-vent":
		return device.NewPassiveVent(src, dst)
	case "spawner":
		t, err := p.require("temperature")
		if err != nil {
			return nil, err
		}
		var gas atmospherics.Mixture
		for _, id := range sortedKeys(c.Gas) {
			gas = append(gas, atmospherics.Quantity{Chemical: atmospherics.ChemicalID(id), Moles: c.Gas[id]})
		}
		return device.NewSpawner(dst, gas, t)
	}

	rate, err := p.require("rate")
	if err != nil {
		return nil, err
	}
	switch c.Type {
	case "void":
		return device.NewVoid(src, rate)
	case "filtered-void":
		return device.NewFilteredVoid(src, c.filter(), rate)
	case "temperature-controller":
		return device.NewTemperatureController(dst, rate)
	case "temperature-conductor":
		// The conductivity of a conductor is given as its rate.
		return device.NewTemperatureConductor(src, dst, rate)
	case "volume-pump":
		return device.NewVolumePump(src, dst, rate)
	case "molar-pump":
		return device.NewMolarPump(src, dst, rate)
	case "filtered-volume-pump":
		return device.NewFilteredVolumePump(src, dst, c.filter(), rate)
	case "filtered-molar-pump":
		return device.NewFilteredMolarPump(src, dst, c.filter(), rate)
	}

	ratio, err := p.require("ratio")
	if err != nil {
		return nil, err
	}
	if c.Type == "volume-mixer" {
		return device.NewVolumeMixer(srcA, srcB, dst, ratio, rate)
	}
	return device.NewMolarMixer(srcA, srcB, dst, ratio, rate)
}

// windows applies the operating window parameters to d.
func (c DeviceConfig) windows(d device.Device, p *params) error {
	if hl, ok := d.(device.HasLimits); ok {
		l := hl.OperatingLimits()
		for key, dst := range map[string]*float64{
			"minTemperature": &l.Temperature.Min,
			"maxTemperature": &l.Temperature.Max,
			"minPressure":    &l.Pressure.Min,
			"maxPressure":    &l.Pressure.Max,
		} {
			if err := p.set(key, dst); err != nil {
				return err
			}
		}
	}
	if hd, ok := d.(device.HasDifferential); ok {
		diffs := hd.Differentials()
		// Unsuffixed keys apply to every differential. Mixers also accept
		// keys ending in A or B, which apply to one source only.
		suffixes := []string{""}
		if len(diffs) > 1 {
			suffixes = append(suffixes, "A", "B")
		}
		for _, suffix := range suffixes {
			for i, diff := range diffs {
				if suffix != "" && string(rune('A'+i)) != suffix {
					continue
				}
				for key, dst := range map[string]*float64{
					"minTemperatureDifference": &diff.Temperature.Min,
					"maxTemperatureDifference": &diff.Temperature.Max,
					"minPressureDifference":    &diff.Pressure.Min,
					"maxPressureDifference":    &diff.Pressure.Max,
				} {
					if err := p.set(key+suffix, dst); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}
