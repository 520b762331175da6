package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/asmayaseen/vitacoach/internal/config"
	"github.com/asmayaseen/vitacoach/internal/report"
)

var reportOutput string

var reportCmd = &cobra.Command{
	Use:   "report <user-id>",
	Short: "Generate an HTML progress report",
	Long: `Generate a standalone HTML progress report for a user.

The report covers the profile, goals with completion percentages,
recorded measurements, current meal and workout plans, and the
coaching history of the latest session.`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "Write the report to this file (default stdout)")
}

func runReport(cmd *cobra.Command, args []string) error {
	userID := args[0]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	sessionID, err := db.LatestSessionID(userID)
	if err != nil {
		return err
	}
	if sessionID == "" {
		return fmt.Errorf("no session found for user %s", userID)
	}
	sess, err := db.LoadSession(cmd.Context(), sessionID)
	if err != nil {
		return err
	}
	if sess == nil {
		return fmt.Errorf("no session found for user %s", userID)
	}

	gen, err := report.NewGenerator()
	if err != nil {
		return fmt.Errorf("build report generator: %w", err)
	}

	if reportOutput == "" {
		return gen.Render(os.Stdout, sess.Snapshot())
	}
	if err := gen.WriteFile(reportOutput, sess.Snapshot()); err != nil {
		return err
	}
	color.Green("Report written to %s", reportOutput)
	return nil
}
