// Package config binds the solve pipeline's tunables to cobra flags and
// a viper-backed config file/environment layer, flag > env > config
// file > default, the way CloudSlash's root command wires its own
// persistent flags.
package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Solve holds every knob the CLI's solve command exposes.
type Solve struct {
	Affectation    string  // "sweep", "ffd", "mip"
	Exact          string  // "", "mtz", "twoindex"
	DescentSteps   int
	MIPTimeLimit   float64
	MIPGapRelative float64
	SearchPenalty  float64
	LogLevel       string
	PlotCommand    string
}

// BindFlags registers cmd's persistent flags and binds each to a viper
// key of the same name, so CVRPSOLVE_<KEY> environment variables and a
// cvrpsolve.yaml config file both take effect with flags having the
// final say.
func BindFlags(cmd *cobra.Command, v *viper.Viper) {
	flags := cmd.PersistentFlags()
	flags.String("affectation", "sweep", "clustering strategy: sweep, ffd, mip")
	flags.String("exact", "", "exact formulation to refine with: \"\", mtz, twoindex")
	flags.Int("descent-steps", 0, "stochastic-descent iteration budget (0 disables descent)")
	flags.Float64("mip-time-limit", 10, "per-round time limit in seconds for the exact solver")
	flags.Float64("mip-gap", 0, "relative MIP optimality gap")
	flags.Float64("search-penalty", 1000, "infeasibility penalty used during descent")
	flags.String("log-level", "info", "debug, info, warn, or error")
	flags.String("plot-command", "gnuplot", "external plotting command invoked after export-plot")

	for _, name := range []string{
		"affectation", "exact", "descent-steps", "mip-time-limit",
		"mip-gap", "search-penalty", "log-level", "plot-command",
	} {
		_ = v.BindPFlag(name, flags.Lookup(name))
	}
}

// Load reads cvrpsolve.yaml from the working directory or $HOME/.cvrpsolve (if
// present; absence is not an error) and the CVRPSOLVE_* environment,
// then materialises a Solve from whatever BindFlags bound.
func Load(v *viper.Viper) (Solve, error) {
	v.SetConfigName("cvrpsolve")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.cvrpsolve")
	v.SetEnvPrefix("CVRPSOLVE")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return Solve{}, err
		}
	}

	return Solve{
		Affectation:    v.GetString("affectation"),
		Exact:          v.GetString("exact"),
		DescentSteps:   v.GetInt("descent-steps"),
		MIPTimeLimit:   v.GetFloat64("mip-time-limit"),
		MIPGapRelative: v.GetFloat64("mip-gap"),
		SearchPenalty:  v.GetFloat64("search-penalty"),
		LogLevel:       v.GetString("log-level"),
		PlotCommand:    v.GetString("plot-command"),
	}, nil
}
