package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/novaforge/nova/internal/diagnostics"
	"github.com/novaforge/nova/internal/mir"
	"github.com/novaforge/nova/pkg/compiler"
)

var mirSkipOptimize bool

var mirCmd = &cobra.Command{
	Use:   "mir [file]",
	Short: "Lower a Nova source file to MIR and disassemble it",
	Long: `Mir runs the full pipeline through MIR generation (and, unless
--no-optimize is passed, the optimizer pipeline) and prints the
disassembly of every emitted class and function.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMIR,
}

func init() {
	rootCmd.AddCommand(mirCmd)

	mirCmd.Flags().BoolVar(&mirSkipOptimize, "no-optimize", false, "stop before the optimizer pipeline runs")
}

func runMIR(cmd *cobra.Command, args []string) error {
	input, filename, err := readSource(args)
	if err != nil {
		return err
	}

	through := compiler.StageOptimize
	if mirSkipOptimize {
		through = compiler.StageMIR
	}

	pipeline := compiler.New()
	result := pipeline.Run(input, filename, through)

	if err := reportDiagnostics(cmd, filename, result.Sink); err != nil {
		return err
	}
	if result.Sink.HasErrors() {
		return fmt.Errorf("lowering to mir failed with %d error(s)", result.Sink.Count(diagnostics.Error))
	}

	mir.NewDisassembler(os.Stdout).Disassemble(result.MIR)
	return nil
}
