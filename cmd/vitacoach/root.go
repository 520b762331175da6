package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/asmayaseen/vitacoach/internal/config"
	"github.com/asmayaseen/vitacoach/internal/llm"
	"github.com/asmayaseen/vitacoach/internal/orchestrator"
	"github.com/asmayaseen/vitacoach/internal/state"
	"github.com/asmayaseen/vitacoach/internal/tools"
)

var rootCmd = &cobra.Command{
	Use:   "vitacoach",
	Short: "AI health and wellness coaching",
	Long: `Vitacoach is a multi-agent health and wellness coach.

A team of specialized agents (wellness, nutrition, fitness, progress)
answers your questions, builds meal and workout plans, tracks goals and
measurements, and hands you between coaches as the topic changes.

With no arguments, starts an interactive chat session.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd, args)
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// openDB opens and migrates the configured database.
func openDB(cfg *config.Config) (*state.DB, error) {
	path := cfg.Database.Path
	if path == "" {
		path = state.DefaultDBPath()
	}
	db, err := state.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return db, nil
}

// toolRegistry builds the shared tool set.
func toolRegistry() *tools.Registry {
	return tools.NewRegistry(
		tools.NewMealPlannerTool(),
		tools.NewWorkoutPlannerTool(),
		tools.NewProgressTrackerTool(nil),
		tools.NewGoalAnalyzerTool(nil),
		tools.NewCheckinSchedulerTool(nil),
	)
}

// buildOrchestrator wires the LLM client, tools and store together.
func buildOrchestrator(cfg *config.Config, db *state.DB) (*orchestrator.Orchestrator, error) {
	apiKey, err := config.GetAPIKey(cfg)
	if err != nil && !cfg.Anthropic.UseBedrock {
		return nil, err
	}

	client, err := llm.NewClient(llm.ClientConfig{
		Model:         llm.ModelFromString(cfg.Anthropic.Model),
		APIKey:        apiKey,
		UseAWSBedrock: cfg.Anthropic.UseBedrock,
		AWSRegion:     cfg.Anthropic.AWSRegion,
		AWSProfile:    cfg.Anthropic.AWSProfile,
	})
	if err != nil {
		return nil, fmt.Errorf("create LLM client: %w", err)
	}

	logger := orchestrator.NopLogger()
	if cfg.Logging.DebugLogPath != "" {
		logger, err = orchestrator.NewDebugLogger(cfg.Logging.DebugLogPath)
		if err != nil {
			return nil, fmt.Errorf("open debug log: %w", err)
		}
	}

	opts := []orchestrator.Option{orchestrator.WithLogger(logger)}
	if db != nil {
		opts = append(opts, orchestrator.WithStore(db))
	}
	return orchestrator.New(client, toolRegistry(), opts...), nil
}
