package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/asmayaseen/vitacoach/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "View or change configuration",
	Long: `View or change vitacoach configuration.

With no arguments, prints the full configuration. With a key, prints
that value. With a key and a value, updates the user config file.

Keys:
  anthropic.api_key            Anthropic API key
  anthropic.model              Claude model name
  anthropic.use_bedrock        true to use AWS Bedrock
  anthropic.aws_region         AWS region for Bedrock
  anthropic.aws_profile        AWS profile for Bedrock
  server.addr                  REST server listen address
  database.path                SQLite database path
  session.turn_timeout         Per-turn timeout (e.g. 2m)
  logging.debug_log_path       Debug log file path`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	switch len(args) {
	case 0:
		displayAllConfig(cfg)
		return nil
	case 1:
		value, err := getConfigValue(cfg, args[0])
		if err != nil {
			return err
		}
		fmt.Println(value)
		return nil
	default:
		if err := setConfigValue(cfg, args[0], args[1]); err != nil {
			return err
		}
		if err := config.Save(cfg); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		color.Green("Set %s", args[0])
		return nil
	}
}

func displayAllConfig(cfg *config.Config) {
	bold := color.New(color.Bold)

	bold.Println("anthropic")
	fmt.Printf("  api_key:            %s\n", config.MaskAPIKey(cfg.Anthropic.APIKey))
	fmt.Printf("  model:              %s\n", orDefault(cfg.Anthropic.Model, "(default)"))
	fmt.Printf("  use_bedrock:        %t\n", cfg.Anthropic.UseBedrock)
	fmt.Printf("  aws_region:         %s\n", orDefault(cfg.Anthropic.AWSRegion, "(unset)"))
	fmt.Printf("  aws_profile:        %s\n", orDefault(cfg.Anthropic.AWSProfile, "(unset)"))

	bold.Println("server")
	fmt.Printf("  addr:               %s\n", cfg.Server.Addr)
	fmt.Printf("  read_timeout:       %s\n", cfg.Server.ReadTimeout)
	fmt.Printf("  write_timeout:      %s\n", cfg.Server.WriteTimeout)

	bold.Println("database")
	fmt.Printf("  path:               %s\n", orDefault(cfg.Database.Path, "(default)"))

	bold.Println("session")
	fmt.Printf("  turn_timeout:       %s\n", cfg.Session.TurnTimeout)
	fmt.Printf("  max_message_length: %d\n", cfg.Session.MaxMessageLength)

	bold.Println("logging")
	fmt.Printf("  debug_log_path:     %s\n", orDefault(cfg.Logging.DebugLogPath, "(disabled)"))

	fmt.Printf("\nConfig file: %s\n", config.GetUserConfigPath())
	if project := config.GetProjectConfigPath(); project != "" {
		fmt.Printf("Project override: %s\n", project)
	}
}

func getConfigValue(cfg *config.Config, key string) (string, error) {
	switch key {
	case "anthropic.api_key":
		return config.MaskAPIKey(cfg.Anthropic.APIKey), nil
	case "anthropic.model":
		return cfg.Anthropic.Model, nil
	case "anthropic.use_bedrock":
		return strconv.FormatBool(cfg.Anthropic.UseBedrock), nil
	case "anthropic.aws_region":
		return cfg.Anthropic.AWSRegion, nil
	case "anthropic.aws_profile":
		return cfg.Anthropic.AWSProfile, nil
	case "server.addr":
		return cfg.Server.Addr, nil
	case "database.path":
		return cfg.Database.Path, nil
	case "session.turn_timeout":
		return cfg.Session.TurnTimeout.String(), nil
	case "logging.debug_log_path":
		return cfg.Logging.DebugLogPath, nil
	default:
		return "", fmt.Errorf("unknown config key: %s", key)
	}
}

func setConfigValue(cfg *config.Config, key, value string) error {
	switch key {
	case "anthropic.api_key":
		if err := config.ValidateAPIKey(value); err != nil {
			return err
		}
		cfg.Anthropic.APIKey = value
	case "anthropic.model":
		cfg.Anthropic.Model = value
	case "anthropic.use_bedrock":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q", key, value)
		}
		cfg.Anthropic.UseBedrock = b
	case "anthropic.aws_region":
		cfg.Anthropic.AWSRegion = value
	case "anthropic.aws_profile":
		cfg.Anthropic.AWSProfile = value
	case "server.addr":
		cfg.Server.Addr = value
	case "database.path":
		cfg.Database.Path = value
	case "session.turn_timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for %s: %q", key, value)
		}
		cfg.Session.TurnTimeout = d
	case "logging.debug_log_path":
		cfg.Logging.DebugLogPath = value
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
