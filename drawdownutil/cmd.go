/*
Copyright © 2019 the Drawdown Solutions authors.
This file is part of Drawdown Solutions.

Drawdown Solutions is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Drawdown Solutions is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Drawdown Solutions.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package drawdownutil holds the command line interface for the Drawdown
// adoption model.
package drawdownutil

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/ProjectDrawdown/solutions-sub003/interpolation"
	"github.com/ProjectDrawdown/solutions-sub003/region"
	"github.com/ProjectDrawdown/solutions-sub003/solution"
	"github.com/ProjectDrawdown/solutions-sub003/table"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Version is the version of the model.
const Version = "0.1.0"

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to the model.
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
			name: "solution",
			usage: `
              solution specifies the location of the solution definition
              file, in TOML format or, with a .yaml or .yml extension, in
              YAML format. It can include environment variables.`,
			shorthand:  "s",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "output",
			usage: `
              output specifies the file to write the results to in CSV format.
              If it is empty the results are written to standard output.
              It can include environment variables.`,
			shorthand:  "o",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "loglevel",
			usage: `
              loglevel specifies the level of messages to log: one of
              debug, info, warning or error.`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "region",
			usage: `
              region specifies the region to report results for,
              for example "World" or "Asia (Sans Japan)".`,
			shorthand:  "r",
			defaultVal: "World",
			flagsets:   []*pflag.FlagSet{diagnosticsCmd.Flags(), trendCmd.Flags(), customCmd.Flags()},
		},
		{
			name: "trend",
			usage: `
              trend specifies the kind of trend to fit: one of Linear,
              "2nd Poly", "3rd Poly" or Exponential. If it is empty the
              trend in the solution definition is used.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{trendCmd.Flags()},
		},
		{
			name: "numsds",
			usage: `
              numsds specifies the number of standard deviations above and
              below the mean of the custom adoption scenarios that the
              high and low adoption are.`,
			defaultVal: 1.0,
			flagsets:   []*pflag.FlagSet{customCmd.Flags()},
		},
		{
			name: "tolerance",
			usage: `
              tolerance specifies the fraction of World adoption by which the
              sum of the main regions can differ from World before a warning
              is logged.`,
			defaultVal: 0.01,
			flagsets:   []*pflag.FlagSet{adoptionCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("DRAWDOWN")
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
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
	Root.AddCommand(adoptionCmd)
	Root.AddCommand(diagnosticsCmd)
	Root.AddCommand(trendCmd)
	Root.AddCommand(customCmd)
}

// setConfig finds and reads in the configuration file, if there is one,
// and sets the log level.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("drawdown: problem reading configuration file: %v", err)
		}
	}
	level, err := logrus.ParseLevel(Cfg.GetString("loglevel"))
	if err != nil {
		return fmt.Errorf("drawdown: %v", err)
	}
	logrus.SetLevel(level)
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "drawdown",
	Short: "A solution adoption model.",
	Long: `drawdown projects the adoption of climate solutions in each region of the world,
from existing adoption prognostications, custom adoption scenarios, or S-curves.
Use the subcommands specified below to access the model functionality.

The solution is described by a solution definition file, specified with the
--solution flag. Configuration can be changed by using a configuration file (and
providing the path to the file using the --config flag), by using command-line
arguments, or by setting environment variables in the format 'DRAWDOWN_var' where
'var' is the name of the variable to be set.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of the model.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("drawdown v%s\n", Version)
	},
	DisableAutoGenTag: true,
}

var adoptionCmd = &cobra.Command{
	Use:   "adoption",
	Short: "Calculate solution adoption",
	Long: `adoption calculates the adoption of the solution in every region, using the
adoption basis for each region in the solution definition, and writes it in CSV
format.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadScenario()
		if err != nil {
			return err
		}
		t, err := s.AdoptionPerRegion(context.Background())
		if err != nil {
			return err
		}
		s.CheckRegionalSum(t, Cfg.GetFloat64("tolerance"))
		return writeOutput(cmd, t)
	},
	DisableAutoGenTag: true,
}

var diagnosticsCmd = &cobra.Command{
	Use:   "diagnostics",
	Short: "Report adoption statistics",
	Long: `diagnostics writes the minimum, maximum and standard deviation of the
existing adoption prognostications for a region, the Low, Medium and High
adoption estimates derived from them, and the selected trend.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := region.Parse(Cfg.GetString("region"))
		if err != nil {
			return err
		}
		s, err := loadScenario()
		if err != nil {
			return err
		}
		d, err := s.Diagnostics(context.Background(), r)
		if err != nil {
			return err
		}
		years := unionYears(d.MinMaxSD.Years, d.Trend.Years)
		o := table.New(years)
		for _, src := range []*table.Table{d.MinMaxSD.Reindex(years), d.LowMedHigh.Reindex(years)} {
			for _, c := range src.Columns {
				v, _ := src.Column(c)
				o.SetColumn(c, v)
			}
		}
		v, _ := d.Trend.Series().Reindex(years).Column(d.Trend.Name)
		o.SetColumn(d.Trend.Name, v)
		return writeOutput(cmd, o)
	},
	DisableAutoGenTag: true,
}

var trendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Fit an adoption trend",
	Long: `trend fits a trend to the existing adoption prognostications for a region
and writes the terms of the trend and the resulting adoption.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := region.Parse(Cfg.GetString("region"))
		if err != nil {
			return err
		}
		def, err := readDefinition()
		if err != nil {
			return err
		}
		m, err := def.Model()
		if err != nil {
			return err
		}
		if m == nil {
			return fmt.Errorf("drawdown: the solution has no data sources")
		}
		var tr *interpolation.Trend
		if k := Cfg.GetString("trend"); k != "" {
			kind, err := interpolation.ParseKind(k)
			if err != nil {
				return err
			}
			tr, err = m.Trend(context.Background(), r, kind)
			if err != nil {
				return err
			}
		} else {
			tr, err = m.SelectedTrend(context.Background(), r)
			if err != nil {
				return err
			}
		}
		return writeOutput(cmd, tr.Components)
	},
	DisableAutoGenTag: true,
}

var customCmd = &cobra.Command{
	Use:   "custom",
	Short: "Summarize custom adoption scenarios",
	Long: `custom writes the mean of the included custom adoption scenarios for a
region, along with the mean plus and minus --numsds standard deviations.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := region.Parse(Cfg.GetString("region"))
		if err != nil {
			return err
		}
		def, err := readDefinition()
		if err != nil {
			return err
		}
		ca, err := def.CustomAdoption()
		if err != nil {
			return err
		}
		if ca == nil {
			return fmt.Errorf("drawdown: the solution has no custom adoption scenarios")
		}
		mean, high, low := ca.AvgHighLow(Cfg.GetFloat64("numsds"))
		o := table.New(ca.Years)
		for name, t := range map[string]*table.Table{"Mean": mean, "High": high, "Low": low} {
			v, _ := t.Column(r.String())
			o.SetColumn(name, v)
		}
		return writeOutput(cmd, o.Select([]string{"Mean", "High", "Low"}))
	},
	DisableAutoGenTag: true,
}

func readDefinition() (*Definition, error) {
	f := os.ExpandEnv(Cfg.GetString("solution"))
	if f == "" {
		return nil, fmt.Errorf("drawdown: you need to specify a solution definition file (for example: --solution=solution.toml)")
	}
	return ReadDefinition(f)
}

func loadScenario() (*solution.Scenario, error) {
	d, err := readDefinition()
	if err != nil {
		return nil, err
	}
	return d.Scenario()
}

// writeOutput writes t in CSV format to the output file, or to the
// command's output if no output file is specified.
func writeOutput(cmd *cobra.Command, t *table.Table) error {
	f := os.ExpandEnv(Cfg.GetString("output"))
	if f == "" {
		return t.WriteCSV(cmd.OutOrStdout())
	}
	w, err := os.Create(f)
	if err != nil {
		return fmt.Errorf("drawdown: creating output file: %v", err)
	}
	if err := t.WriteCSV(w); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func unionYears(a, b []int) []int {
	m := make(map[int]bool)
	for _, y := range append(append([]int(nil), a...), b...) {
		m[y] = true
	}
	o := make([]int, 0, len(m))
	for y := range m {
		o = append(o, y)
	}
	sort.Ints(o)
	return o
}
