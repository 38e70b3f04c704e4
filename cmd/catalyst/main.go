package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "catalyst",
		Short: "Build tooling for the Catalyst rendering pipeline",
		Long: `Catalyst is a server-side rendering framework with a two-phase
streaming pipeline: a cached prerender shell per route, resumed per
request with freshly fetched data.

This CLI operates on build outputs:

  • classify  partition the module graph into essential and dynamic assets
  • inspect   summarize a classified build
  • serve     serve built assets for preview
  • version   print version information`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		classifyCmd(),
		inspectCmd(),
		serveCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}
