// Package cli implements the gradtrack command line interface.
package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// version can be overridden at build time via:
	// go build -ldflags "-X github.com/gradtrack/gradtrack/internal/cli.version=1.2.3"
	version = "0.4.0"
	logo    = "\n" +
		"   ____               _ _____                _\n" +
		"  / ___|_ __ __ _  __| |_   _| __ __ _  ___| | __\n" +
		" | |  _| '__/ _` |/ _` | | || '__/ _` |/ __| |/ /\n" +
		" | |_| | | | (_| | (_| | | || | | (_| | (__|   <\n" +
		"  \\____|_|  \\__,_|\\__,_| |_||_|  \\__,_|\\___|_|\\_\\\n"
)

var rootCmd = &cobra.Command{
	Use:   "gradtrack",
	Short: "GradTrack - Graduate application assistant",
	Long:  color.CyanString(logo) + "\nAn AI assistant that tracks graduate school applications, deadlines and essays.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("gradtrack %s\n", version)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func printHeader(title string) {
	color.Cyan("\n%s", title)
	color.Cyan("%s\n", "────────────────────────────────")
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(doctorCmd)
}
