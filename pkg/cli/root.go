package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/getmockd/surveyd/pkg/config"
	"github.com/getmockd/surveyd/pkg/logging"
)

var (
	// Persistent flags available to all subcommands
	logLevel   string
	logFormat  string
	configPath string
	jsonOutput bool

	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"

	// logger is configured in PersistentPreRunE for the running command.
	logger = logging.Nop()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "surveyd",
	Short: "surveyd renders survey templates and serves surveys over HTTP",
	Long: `surveyd renders text templates with {{ path }} interpolation,
{% if path %} conditionals and {% for x in path %} loops against JSON or YAML
data, and serves a small survey API whose pages use the same engine.

Project defaults are read from surveyd.yaml (or the file named by
SURVEYD_CONFIG) in the working directory.`,
	SilenceUsage:  true,
	SilenceErrors: true, // We handle errors in Main()
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadProject()
		if err != nil {
			return err
		}
		level, format := cfg.Log.Level, cfg.Log.Format
		if cmd.Flags().Changed("log-level") {
			level = logLevel
		}
		if cmd.Flags().Changed("log-format") {
			format = logFormat
		}
		logger = logging.FromStrings(level, format, cmd.ErrOrStderr())
		return nil
	},
}

// Main runs the root command and returns the process exit code.
func Main() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	os.Exit(Main())
}

// loadProject loads the project config named by --config, or discovers one.
// The returned base directory anchors relative paths from the config; it is
// the working directory when no config file exists.
func loadProject() (*config.ProjectConfig, string, error) {
	cfg, path, err := config.Load(configPath)
	if err != nil {
		return nil, "", err
	}
	if result := config.Validate(cfg); !result.IsValid() {
		return nil, "", fmt.Errorf("%s: %s", displayPath(path), result.Error())
	}
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, "", fmt.Errorf("getting current directory: %w", err)
		}
		return cfg, cwd, nil
	}
	return cfg, config.BaseDir(path), nil
}

func displayPath(path string) string {
	if path == "" {
		return "defaults"
	}
	return path
}

// componentLogger returns the command logger tagged with a component name.
func componentLogger(name string) *slog.Logger {
	return logging.Component(logger, name)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format: text, json")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to surveyd.yaml (default: discover in working directory)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output command results in JSON format")
}
