package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/novaforge/nova/internal/diagnostics"
	"github.com/novaforge/nova/pkg/compiler"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Run the semantic analyzer and report diagnostics",
	Long: `Analyze runs lex -> parse -> analyze and reports every diagnostic the
type checker produces, without lowering to HIR/MIR.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	input, filename, err := readSource(args)
	if err != nil {
		return err
	}

	pipeline := compiler.New()
	result := pipeline.Run(input, filename, compiler.StageAnalyze)

	if err := reportDiagnostics(cmd, filename, result.Sink); err != nil {
		return err
	}
	if result.Sink.HasErrors() {
		return fmt.Errorf("analysis failed with %d error(s)", result.Sink.Count(diagnostics.Error))
	}
	fmt.Fprintf(os.Stderr, "%s: %d class(es), %d interface(s)\n", filename,
		len(result.Analyzer.Classes()), len(result.Analyzer.Interfaces()))
	return nil
}
