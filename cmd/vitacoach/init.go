package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/asmayaseen/vitacoach/internal/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Set up configuration and the local database",
	Long: `Initialize vitacoach for first use.

This command:
  - Checks for an Anthropic API key
  - Writes a default config file to ~/.config/vitacoach/config.yaml
  - Creates and migrates the local SQLite database`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	if os.Getenv("ANTHROPIC_API_KEY") != "" {
		printStatus("✓", "ANTHROPIC_API_KEY is set", color.FgGreen)
	} else {
		printStatus("⚠", "ANTHROPIC_API_KEY not set (you can set it later)", color.FgYellow)
	}

	configPath := config.GetUserConfigPath()
	if _, err := os.Stat(configPath); err == nil && !initForce {
		printStatus("✓", fmt.Sprintf("Config exists at %s (use --force to overwrite)", configPath), color.FgGreen)
	} else {
		if err := config.Save(config.Default()); err != nil {
			printStatus("✗", fmt.Sprintf("Could not write config: %v", err), color.FgRed)
			return err
		}
		printStatus("✓", fmt.Sprintf("Wrote default config to %s", configPath), color.FgGreen)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	db, err := openDB(cfg)
	if err != nil {
		printStatus("✗", fmt.Sprintf("Could not set up database: %v", err), color.FgRed)
		return err
	}
	defer db.Close()
	printStatus("✓", fmt.Sprintf("Database ready at %s", db.Path()), color.FgGreen)

	fmt.Printf("\n%s vitacoach is ready. Run 'vitacoach chat' to start.\n", color.GreenString("✓"))
	return nil
}

// printStatus prints a colored status line.
func printStatus(symbol, message string, colorAttr color.Attribute) {
	c := color.New(colorAttr)
	c.Printf("%s ", symbol)
	fmt.Println(message)
}
