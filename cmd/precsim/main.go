package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/precsim/internal/config"
	"github.com/san-kum/precsim/internal/logging"
	"github.com/san-kum/precsim/internal/precision"
	"github.com/san-kum/precsim/internal/storage"
)

var (
	dataDir    string
	configFile string
	preset     string
	save       bool

	log = logging.NewNop()
)

func main() {
	rootCmd := &cobra.Command{
		Use:               "precsim",
		Short:             "machine-tool error and chatter stability analysis",
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".precsim", "data directory for saved runs")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "machine config file (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "machine preset (vmc, hmc, trunnion5)")
	rootCmd.PersistentFlags().BoolVar(&save, "save", false, "save the result as a run")

	rootCmd.AddCommand(geometricCommands()...)
	rootCmd.AddCommand(processCommands()...)
	rootCmd.AddCommand(metrologyCommands()...)
	rootCmd.AddCommand(chatterCommands()...)
	rootCmd.AddCommand(runCommands()...)

	err := rootCmd.Execute()
	_ = log.Sync()
	if err != nil {
		os.Exit(1)
	}
}

// setup reads PRECSIM_* variables and builds the logger. An explicit
// --data flag wins over PRECSIM_DATA_DIR.
func setup(cmd *cobra.Command, args []string) error {
	env, err := config.LoadEnv()
	if err != nil {
		return err
	}
	dataDir = resolveDataDir(dataDir, cmd.Flags().Changed("data"), env)

	l, err := logging.FromEnv(env.LogLevel, env.LogDev)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	log = l
	log.Debug("starting", zap.String("command", cmd.Name()), zap.String("data", dataDir))
	return nil
}

// resolveDataDir returns the run directory: an explicit --data flag, then
// PRECSIM_DATA_DIR, then the flag default.
func resolveDataDir(flag string, changed bool, env config.Env) string {
	if changed || env.DataDir == "" {
		return flag
	}
	return env.DataDir
}

// loadConfig resolves the machine description: a config file overrides a
// preset, and with neither the default (vmc) is used.
func loadConfig() (*config.Config, error) {
	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		log.Debug("loaded config", zap.String("path", configFile))
		return cfg, nil
	}
	if preset != "" {
		cfg := config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		return cfg, nil
	}
	return config.DefaultConfig(), nil
}

// record saves run when --save is set and logs its advisories either way.
func record(run storage.Run, advs []precision.Advisory) error {
	log.Analysis(run.Analysis).Advisories(advs)
	if !save {
		return nil
	}
	for _, a := range advs {
		run.Advisories = append(run.Advisories, a.String())
	}
	run.Preset = preset

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(run)
	if err != nil {
		return err
	}
	log.Info("saved run", zap.String("id", runID), zap.String("analysis", run.Analysis))
	fmt.Printf("run id: %s\n", runID)
	return nil
}

func parseVec3(s string) (precision.Vec3, error) {
	vals, err := parseFloats(s)
	if err != nil {
		return precision.Vec3{}, err
	}
	if len(vals) != 3 {
		return precision.Vec3{}, fmt.Errorf("expected x,y,z, got %q", s)
	}
	return precision.Vec3{X: vals[0], Y: vals[1], Z: vals[2]}, nil
}

func parseFloats(s string) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", p, err)
		}
		out[i] = v
	}
	return out, nil
}

func parseArgs(args []string) ([]float64, error) {
	out := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", a, err)
		}
		out[i] = v
	}
	return out, nil
}

func printAdvisories(advs []precision.Advisory) {
	for _, a := range advs {
		fmt.Printf("  ! %s\n", a)
	}
}
