package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"aqidash/internal/api"
	"aqidash/internal/config"
	"aqidash/internal/fallback"
	"aqidash/internal/flagger"
	"aqidash/internal/graph"
	"aqidash/internal/poller"
	"aqidash/internal/recorder"
	"aqidash/internal/report"
	"aqidash/internal/store"
	"aqidash/ui/console"
	"aqidash/ui/tui"

	"github.com/joho/godotenv"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
)

var (
	flagConfig    string
	flagBaseURL   string
	flagArea      string
	flagInterval  int
	flagNoHistory bool
	flagJSON      bool

	flagReportType string
	flagReportDesc string
	flagReportLoc  string
)

func main() {
	// Secrets (Gemini key, Neo4j password) come from the environment.
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:   "aqidash",
		Short: "Delhi-NCR air quality dashboard",
		Long: `aqidash polls the air quality backend for Delhi-NCR readings and
renders them in an interactive terminal dashboard. When the backend is
unreachable it substitutes cached or estimated data, and every value is
labeled with where it came from.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI()
		},
	}

	root.PersistentFlags().StringVar(&flagConfig, "config", "", "path to a YAML config file")
	root.PersistentFlags().StringVar(&flagBaseURL, "base-url", "", "backend base URL override")
	root.PersistentFlags().StringVar(&flagArea, "station", "", "Delhi-NCR station area override (e.g. \"East Delhi\")")
	root.PersistentFlags().IntVar(&flagInterval, "interval", 0, "current-AQI poll interval override in seconds")
	root.PersistentFlags().BoolVar(&flagNoHistory, "no-history", false, "disable the local reading history store")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Fetch one reading, print a report and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshot()
		},
	}
	snapshotCmd.Flags().BoolVar(&flagJSON, "json", false, "emit the report as JSON instead of formatted text")
	root.AddCommand(snapshotCmd)

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Submit a citizen pollution report to the backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport()
		},
	}
	reportCmd.Flags().StringVar(&flagReportType, "type", "burning", "report type (burning, construction, industrial, vehicular, other)")
	reportCmd.Flags().StringVar(&flagReportDesc, "description", "", "what you observed")
	reportCmd.Flags().StringVar(&flagReportLoc, "location", "", "where you observed it (defaults to the configured area)")
	_ = reportCmd.MarkFlagRequired("description")
	root.AddCommand(reportCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	cfg := config.Default()
	if flagConfig != "" {
		var err error
		cfg, err = config.Load(flagConfig)
		if err != nil {
			return cfg, err
		}
	}
	if flagBaseURL != "" {
		cfg = cfg.WithBaseURL(flagBaseURL)
	}
	if flagArea != "" {
		cfg = cfg.WithArea(flagArea)
	}
	if flagInterval > 0 {
		cfg = cfg.WithCurrentInterval(flagInterval)
	}
	return cfg, cfg.Validate()
}

// newLogger directs diagnostics to the configured file. quiet is used
// while the TUI owns the terminal; stray log lines would corrupt it.
func newLogger(cfg config.Config, quiet bool) *log.Logger {
	var w io.Writer = os.Stderr
	if quiet {
		w = io.Discard
	}
	if cfg.Logging.File != "" {
		f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err == nil {
			w = f
		}
	}
	return log.New(w, "aqidash ", log.LstdFlags)
}

func runTUI() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg, true)

	client := api.NewClient(cfg.API.BaseURL, cfg.RequestTimeout(), logger)
	gen := fallback.NewGenerator(cfg.Fallback.Seed, cfg.Location.Area)

	var rec *recorder.Recorder
	if !flagNoHistory && cfg.Database.Path != "" {
		rec = openRecorder(cfg, logger)
	}
	if rec != nil {
		defer rec.Close()
	}

	return tui.Start(tui.Feeds{
		Client:   client,
		Fallback: gen,
		Recorder: rec,
		Config:   cfg,
		Logger:   logger,
	})
}

// openRecorder wires the history pipeline. Any failure here degrades to
// a dashboard without persistence rather than refusing to start.
func openRecorder(cfg config.Config, logger *log.Logger) *recorder.Recorder {
	dbClient, err := store.NewClient(cfg.Database.Path,
		store.WithThreads(cfg.Database.Threads),
		store.WithMemoryLimit(cfg.Database.MemoryLimit),
		store.WithTimeout(5*time.Second),
	)
	if err != nil {
		logger.Printf("history store disabled: %v", err)
		return nil
	}

	repo := store.NewRepo(dbClient.DB())
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := repo.Migrate(ctx); err != nil {
		logger.Printf("history store disabled, migration failed: %v", err)
		dbClient.Close()
		return nil
	}

	var graphClient graph.GraphClient
	if cfg.Graph.Enabled {
		gc, err := graph.NewNeo4jClient(cfg.Graph.URI, cfg.Graph.Username, cfg.Graph.Password, cfg.Graph.Database)
		if err != nil {
			logger.Printf("graph attribution disabled: %v", err)
		} else {
			graphClient = gc
		}
	}

	rec, err := recorder.New(flagger.NewFlaggerService(flagger.DefaultConfig()), repo, graphClient, logger)
	if err != nil {
		logger.Printf("history recording disabled: %v", err)
		dbClient.Close()
		return nil
	}
	return rec
}

func runSnapshot() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg, false)

	client := api.NewClient(cfg.API.BaseURL, cfg.RequestTimeout(), logger)
	gen := fallback.NewGenerator(cfg.Fallback.Seed, cfg.Location.Area)

	fetchCtx := func() (context.Context, context.CancelFunc) {
		return context.WithTimeout(context.Background(), cfg.RequestTimeout())
	}

	prov := poller.Live
	ctx, cancel := fetchCtx()
	current, err := client.CurrentAQI(ctx)
	cancel()
	if err != nil {
		logger.Printf("current AQI fetch failed, using estimate: %v", err)
		current = gen.CurrentAQI()
		prov = poller.Estimated
	}

	ctx, cancel = fetchCtx()
	stations, err := client.Stations(ctx)
	cancel()
	if err != nil {
		stations = gen.Stations()
	}

	ctx, cancel = fetchCtx()
	alerts, err := client.RealtimeAlerts(ctx)
	cancel()
	if err != nil {
		alerts = gen.Alerts()
	}

	flags := flagger.NewFlaggerService(flagger.DefaultConfig()).Flag(current, prov, time.Now())
	rep := report.Build(current, stations, alerts, flags, prov)

	if flagJSON {
		out, err := jsoniter.MarshalIndent(rep, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	console.Print(os.Stdout, rep)
	return nil
}

// runReport submits a citizen report. This is a write, so there is no
// fallback substitution; a down backend is a hard error.
func runReport() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg, false)

	client := api.NewClient(cfg.API.BaseURL, cfg.RequestTimeout(), logger)

	loc := flagReportLoc
	if loc == "" {
		loc = cfg.Location.Area
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout())
	defer cancel()
	ack, err := client.SubmitReport(ctx, api.Report{
		Type:        flagReportType,
		Description: flagReportDesc,
		Location:    loc,
		Latitude:    cfg.Location.Latitude,
		Longitude:   cfg.Location.Longitude,
	})
	if err != nil {
		return fmt.Errorf("report submission failed: %w", err)
	}

	fmt.Printf("Report %s accepted (%s): %s\n", ack.ReportID, ack.Status, ack.Message)
	return nil
}
