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
	"text/tabwriter"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/atmospherics"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to atmos.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "LogLevel",
			usage: `
              LogLevel is the minimum severity of log messages to write:
              one of panic, fatal, error, warning, info, or debug.`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Scenario",
			usage: `
              Scenario is the path to the TOML file describing the atmospheres
              and devices to simulate. It can include environment variables.`,
			shorthand:  "s",
			defaultVal: "scenario.toml",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Steps",
			usage: `
              Steps is the number of time steps to run. If it is above zero it
              replaces the number of steps given in the scenario file.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "LogFile",
			usage: `
              LogFile is the path to the desired logfile location. It can include
              environment variables. If LogFile is left blank, log messages are
              written to standard error.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "PlotFile",
			usage: `
              PlotFile is the path where a chart of the simulation history should
              be saved. The image format is taken from the file extension. No chart
              is made if PlotFile is left blank.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "PlotVariable",
			usage: `
              PlotVariable is the quantity to chart: one of heat, moles, pressure,
              temperature, or volume.`,
			defaultVal: "pressure",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Mechanisms",
			usage: `
              Mechanisms lists the chemistry to load: "builtin",
              "builtin-chemicals", or paths to chemical tables.`,
			defaultVal: []string{"builtin"},
			flagsets:   []*pflag.FlagSet{chemicalsCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("ATMOS")
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch v := option.defaultVal.(type) {
			case string:
				set.StringP(option.name, option.shorthand, v, option.usage)
			case []string:
				set.StringSliceP(option.name, option.shorthand, v, option.usage)
			case bool:
				set.BoolP(option.name, option.shorthand, v, option.usage)
			case int:
				set.IntP(option.name, option.shorthand, v, option.usage)
			case float64:
				set.Float64P(option.name, option.shorthand, v, option.usage)
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(runCmd)
	Root.AddCommand(chemicalsCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(os.ExpandEnv(cfgpath))
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("atmos: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// newLogger returns a logger writing to w at the configured level.
func newLogger(w io.Writer, level string) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("atmos: LogLevel: %v", err)
	}
	log := logrus.New()
	log.Out = w
	log.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	log.Level = lvl
	return log, nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "atmos",
	Short: "A simulator for networks of gas-filled atmospheres.",
	Long: `atmos simulates gas mixtures held in atmospheres: their temperature and
pressure, the reactions between the gases, and the devices that move gas and
heat between atmospheres.
Use the subcommands specified below to access the model functionality.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'ATMOS_var' where 'var' is the
name of the variable to be set.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of atmos.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "atmos v%s\n", atmospherics.Version)
	},
	DisableAutoGenTag: true,
}

// runCmd is a command that runs a scenario.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a scenario.",
	Long: `run simulates the atmospheres and devices described in the scenario file
given by the Scenario option, logging progress as it goes, and optionally
saves a chart of the results.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStderr()
		if logFile := os.ExpandEnv(Cfg.GetString("LogFile")); logFile != "" {
			f, err := os.Create(logFile)
			if err != nil {
				return fmt.Errorf("atmos: problem creating log file: %v", err)
			}
			defer f.Close()
			w = f
		}
		log, err := newLogger(w, Cfg.GetString("LogLevel"))
		if err != nil {
			return err
		}
		_, _, err = Run(log,
			Cfg.GetString("Scenario"),
			Cfg.GetInt("Steps"),
			os.ExpandEnv(Cfg.GetString("PlotFile")),
			Cfg.GetString("PlotVariable"),
		)
		return err
	},
	DisableAutoGenTag: true,
}

// chemicalsCmd is a command that lists the available chemistry.
var chemicalsCmd = &cobra.Command{
	Use:   "chemicals",
	Short: "List chemicals and reactions.",
	Long: `chemicals prints the chemicals and reactions defined by the mechanisms
given in the Mechanisms option, in registration order.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := cast.ToStringSliceE(Cfg.Get("Mechanisms"))
		if err != nil {
			return fmt.Errorf("atmos: reading 'Mechanisms': %v", err)
		}
		r, err := LoadMechanisms("", names...)
		if err != nil {
			return err
		}
		return PrintRegistry(cmd.OutOrStdout(), r)
	},
	DisableAutoGenTag: true,
}

// PrintRegistry writes a table of the chemicals and reactions in r to w.
func PrintRegistry(w io.Writer, r *atmospherics.Registry) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tName\tSymbol\tcp (J/(K·kg))\tM (kg/mol)\tk (W/(m·K))")
	for _, id := range r.Chemicals() {
		c, err := r.Lookup(id)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%g\t%g\t%g\n", id, c.Name, c.Symbol,
			c.SpecificHeat, c.MolarMass, c.ThermalConductivity)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	rxs := r.Reactions()
	if len(rxs) == 0 {
		return nil
	}
	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "Reaction\tAutoignition (K)\tEnergy (J)\tSpeed\tIgnitable")
	for _, rx := range rxs {
		fmt.Fprintf(tw, "%s\t%g\t%g\t%g\t%v\n", rx.Name, rx.AutoignitionPoint,
			rx.EnergyReleased, rx.Speed, rx.Ignitable)
	}
	return tw.Flush()
}
