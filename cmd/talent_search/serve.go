package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/talent-search/internal/analysis"
	"github.com/jonathan/talent-search/internal/evaluation"
	"github.com/jonathan/talent-search/internal/filtering"
	"github.com/jonathan/talent-search/internal/llm"
	"github.com/jonathan/talent-search/internal/logging"
	"github.com/jonathan/talent-search/internal/server"
	"github.com/jonathan/talent-search/internal/store"
)

var (
	servePort    int
	serveDataDir string
	servePacing  time.Duration
	serveJSONLog bool
	serveDebug   bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the search funnel: profile analysis, candidate filtering, and streamed candidate evaluation.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().StringVar(&serveDataDir, "data-dir", "data", "Directory holding the employee snapshot")
	serveCmd.Flags().DurationVar(&servePacing, "pacing", evaluation.DefaultPacing, "Delay between candidate evaluations")
	serveCmd.Flags().BoolVar(&serveJSONLog, "json-log", false, "Emit JSON-encoded logs")
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable debug logging")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	logger, err := logging.New(serveJSONLog, serveDebug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	llmCfg, err := llm.FromEnv()
	if err != nil {
		return err
	}

	gateway, err := llm.NewClient(cmd.Context(), llmCfg)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer gateway.Close() //nolint:errcheck

	records, err := store.Load(serveDataDir, logger)
	if err != nil {
		return fmt.Errorf("failed to load snapshot from %s: %w", serveDataDir, err)
	}
	logger.Info("snapshot loaded",
		zap.String("dir", serveDataDir),
		zap.Int("employees", records.Count()),
	)

	srv := server.New(server.Config{Port: servePort}, server.Deps{
		Store:    records,
		Analyzer: analysis.New(gateway, logger),
		Engine:   filtering.New(records, logger),
		Ranker:   evaluation.New(records, gateway, logger, servePacing),
		Logger:   logger,
	})

	return srv.Start()
}
