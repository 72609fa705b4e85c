package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "nova",
	Short: "Nova compiler front end",
	Long: `nova is the front end for the Nova language: a statically-typed,
null-safe, JVM-oriented language with Kotlin-like syntax.

This binary drives the pipeline up to (and including) MIR generation and
optimization:
  lex -> parse -> analyze -> hir -> mir -> compile

Code emission to a JVM class file is out of scope for this tool; "compile"
stops at the optimized MIR and reports diagnostics.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().Bool("json", false, "emit diagnostics as a JSON manifest instead of text")
	rootCmd.PersistentFlags().String("config", "nova.yaml", "path to the project configuration file")
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}
