package cmd

import (
	"encoding/json"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/clinicsim/clinicsim/sim"
	"github.com/clinicsim/clinicsim/sim/trace"
	"github.com/clinicsim/clinicsim/store"
)

var (
	// CLI flags for the simulation run
	seed              int64   // Master seed for all random draws
	numSlots          int     // Appointment slots per day
	numDays           int     // Bookable days out from today
	numIters          int     // Number of simulated days
	flexRate          float64 // Probability a cancelled patient accepts a rebooking offer
	preferenceBreadth int     // Ranked alternatives considered per patient
	defaultCancelRate float64 // Fallback daily cancel rate for unobserved keys
	defaultNoShowRate float64 // Fallback no-show rate for unobserved keys
	logLevel          string  // Log verbosity level
	dbPath            string  // SQLite historical bookings database
	defaultsFile      string  // Optional YAML clinic profiles file
	profileName       string  // Profile to apply from the defaults file
	traceLevel        string  // Decision trace level (none, decisions)
	traceOut          string  // File to write the JSON decision trace to
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "clinicsim",
	Short: "Discrete-event simulator for clinic appointment calendars",
}

// runCmd executes the simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the appointment calendar simulation",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		cfg := sim.DefaultSimConfig()
		cfg.Seed = seed
		cfg.NumSlots = numSlots
		cfg.NumDays = numDays
		cfg.NumIters = numIters
		cfg.FlexRate = flexRate
		cfg.PreferenceBreadth = preferenceBreadth
		cfg.DefaultCancelRate = defaultCancelRate
		cfg.DefaultNoShowRate = defaultNoShowRate
		if defaultsFile != "" {
			applyProfile(&cfg, defaultsFile, profileName)
		}

		if !trace.IsValidLevel(traceLevel) {
			logrus.Fatalf("Invalid trace level: %s", traceLevel)
		}

		src, err := store.OpenSQLite(resolveDBPath())
		if err != nil {
			logrus.Fatalf("Unable to open historical bookings database: %v", err)
		}
		defer src.Close()

		dists, err := sim.Estimate(src, cfg)
		if err != nil {
			logrus.Fatalf("Distribution estimation failed: %v", err)
		}
		logrus.Infof("Estimated distributions: %d preference keys, %d cancel keys",
			dists.Prefs.Len(), dists.Lifecycle.Cancel.Len())

		tr := trace.New(trace.Level(traceLevel))
		s, err := sim.NewSimulator(cfg, dists, tr)
		if err != nil {
			logrus.Fatalf("Unable to construct simulator: %v", err)
		}
		s.Run()
		s.Counters.Print(s.Day())

		if tr != nil && traceOut != "" {
			writeTrace(tr, traceOut)
		}
		logrus.Info("Simulation complete.")
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// resolveDBPath prefers the --db flag, then CLINICSIM_DB from the
// environment (a .env file is honored when present).
func resolveDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	_ = godotenv.Load()
	if env := os.Getenv("CLINICSIM_DB"); env != "" {
		return env
	}
	return "clinic.db"
}

func writeTrace(tr *trace.SimulationTrace, path string) {
	data, err := json.MarshalIndent(tr, "", "  ")
	if err != nil {
		logrus.Fatalf("Unable to encode trace: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		logrus.Fatalf("Unable to write trace file: %v", err)
	}
	logrus.Infof("Wrote decision trace to %s", path)
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Master seed for all random draws")
	runCmd.Flags().IntVar(&numSlots, "slots", 10, "Appointment slots per day")
	runCmd.Flags().IntVar(&numDays, "days", 14, "Bookable days out from today")
	runCmd.Flags().IntVar(&numIters, "iterations", 100, "Number of simulated days")
	runCmd.Flags().Float64Var(&flexRate, "flex-rate", 0.2, "Probability a cancelled patient accepts a rebooking offer")
	runCmd.Flags().IntVar(&preferenceBreadth, "preference-breadth", 3, "Ranked alternatives considered per patient")
	runCmd.Flags().Float64Var(&defaultCancelRate, "default-cancel-rate", 0.0, "Fallback daily cancel rate for unobserved keys")
	runCmd.Flags().Float64Var(&defaultNoShowRate, "default-no-show-rate", 0.0, "Fallback no-show rate for unobserved keys")
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().StringVar(&dbPath, "db", "", "SQLite historical bookings database (default clinic.db, or CLINICSIM_DB)")
	runCmd.Flags().StringVar(&defaultsFile, "defaults", "", "YAML clinic profiles file")
	runCmd.Flags().StringVar(&profileName, "profile", "default", "Profile to apply from the defaults file")
	runCmd.Flags().StringVar(&traceLevel, "trace", "none", "Decision trace level (none, decisions)")
	runCmd.Flags().StringVar(&traceOut, "trace-out", "", "File to write the JSON decision trace to")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
