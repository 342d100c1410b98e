package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/getmockd/surveyd/internal/storage"
	"github.com/getmockd/surveyd/pkg/api"
	"github.com/getmockd/surveyd/pkg/ratelimit"
)

// shutdownTimeout is the maximum time to wait for graceful shutdown.
const shutdownTimeout = 30 * time.Second

// serveFlags holds the flag values for the serve command.
type serveFlags struct {
	addr  string
	seeds []string
}

var serveFlagVals serveFlags

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the survey HTTP server (foreground)",
	Long: `Start the survey API and its HTML pages. Surveys are kept in memory.

Survey files written by 'surveyd new' can be loaded at startup with --seed.
Prometheus metrics are served at /metrics. Survey creation and submission
can be throttled per client with server.rateLimit in surveyd.yaml.
The server stops gracefully on SIGINT or SIGTERM.`,
	Example: `  # Start on the configured address (default :3000)
  surveyd serve

  # Start on another port with two surveys preloaded
  surveyd serve --addr :8080 --seed pulse.yaml --seed retro.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadProject()
		if err != nil {
			return err
		}
		addr := cfg.Server.Addr
		if cmd.Flags().Changed("addr") {
			addr = serveFlagVals.addr
		}

		store := storage.NewInMemorySurveyStore()
		for _, path := range serveFlagVals.seeds {
			if err := seedSurvey(store, path); err != nil {
				return err
			}
		}

		server := api.New(store,
			api.WithLogger(componentLogger("api")),
			api.WithAddr(addr),
			api.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout),
			api.WithWriteRateLimit(ratelimit.Config{
				Rate:           cfg.Server.RateLimit.Rate,
				Burst:          cfg.Server.RateLimit.Burst,
				TrustForwarded: cfg.Server.RateLimit.TrustForwarded,
			}),
		)
		if err := server.Start(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Survey server listening on http://%s\n", server.Addr())

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Stop(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("shutting down: %w", err)
		}
		return nil
	},
}

// seedSurvey loads a survey file in the format written by 'surveyd new'.
func seedSurvey(store storage.SurveyStore, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading seed file: %w", err)
	}
	var doc surveyDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w %s: %v", ErrInvalidSeed, path, err)
	}
	if doc.Survey.Title == "" || len(doc.Survey.Questions) == 0 {
		return fmt.Errorf("%w %s: survey.title and survey.questions are required", ErrInvalidSeed, path)
	}
	sv := store.Create(doc.Survey.Title, doc.Survey.Questions)
	componentLogger("serve").Info("seeded survey", "id", sv.ID, "file", path)
	return nil
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveFlagVals.addr, "addr", "a", "", "Listen address (default: server.addr, :3000)")
	serveCmd.Flags().StringArrayVar(&serveFlagVals.seeds, "seed", nil, "Survey file to load at startup (repeatable)")
}
