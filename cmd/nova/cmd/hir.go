package cmd

import (
	"fmt"
	"reflect"

	"github.com/spf13/cobra"

	"github.com/novaforge/nova/internal/diagnostics"
	"github.com/novaforge/nova/pkg/compiler"
)

var hirCmd = &cobra.Command{
	Use:   "hir [file]",
	Short: "Lower a Nova source file to HIR and dump it",
	Long: `Hir runs lex -> parse -> analyze -> hir (including the HIR optimizer's
inlining/constant-folding/dead-code passes) and dumps the resulting
module.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHIR,
}

func init() {
	rootCmd.AddCommand(hirCmd)
}

func runHIR(cmd *cobra.Command, args []string) error {
	input, filename, err := readSource(args)
	if err != nil {
		return err
	}

	pipeline := compiler.New()
	result := pipeline.Run(input, filename, compiler.StageHIR)

	if err := reportDiagnostics(cmd, filename, result.Sink); err != nil {
		return err
	}
	if result.Sink.HasErrors() {
		return fmt.Errorf("lowering to hir failed with %d error(s)", result.Sink.Count(diagnostics.Error))
	}

	dumpASTNode(reflect.ValueOf(result.HIR), 0)
	return nil
}
