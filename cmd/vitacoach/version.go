package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/asmayaseen/vitacoach/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the vitacoach version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("vitacoach version %s\n", version.Get())
	},
}
