package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/asmayaseen/vitacoach/internal/config"
	"github.com/asmayaseen/vitacoach/internal/state"
	"github.com/asmayaseen/vitacoach/pkg/models"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show stored users and their goals",
	Long: `Display what vitacoach has stored locally.

Shows each known user with their BMI, active goal and progress, plus
where the configuration and database live.`,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	dbPath := cfg.Database.Path
	if dbPath == "" {
		dbPath = state.DefaultDBPath()
	}
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Println("No database yet. Run 'vitacoach init' to set up.")
		return nil
	}

	db, err := state.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := db.Migrate(); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	profiles, err := db.ListProfiles()
	if err != nil {
		return err
	}

	fmt.Printf("Config:   %s\n", config.GetUserConfigPath())
	fmt.Printf("Database: %s\n\n", dbPath)

	if len(profiles) == 0 {
		fmt.Println("No users yet. Run 'vitacoach chat --name <you>' to start.")
		return nil
	}

	for _, p := range profiles {
		color.New(color.Bold).Printf("%s", p.Name)
		fmt.Printf("  (%s)\n", p.UserID)
		if bmi := p.BMI(); bmi > 0 {
			fmt.Printf("  BMI: %.1f\n", bmi)
		}

		goals, err := db.GetGoals(p.UserID)
		if err != nil {
			return err
		}
		for _, g := range goals {
			marker := "·"
			switch g.Status {
			case models.GoalCompleted:
				marker = color.GreenString("✓")
			case models.GoalAbandoned:
				marker = color.RedString("✗")
			}
			fmt.Printf("  %s %s: %.0f%% of %s %s\n",
				marker, g.Title, g.ProgressPercent(), formatValue(g.TargetValue), g.Unit)
		}

		entries, err := db.GetProgress(p.UserID)
		if err != nil {
			return err
		}
		if len(entries) > 0 {
			last := entries[len(entries)-1]
			fmt.Printf("  last measurement: %s %s %s on %s\n",
				last.Metric, formatValue(last.Value), last.Unit,
				last.RecordedAt.Format("Jan 2"))
		}
		fmt.Println()
	}
	return nil
}

func formatValue(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}
