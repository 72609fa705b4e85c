package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/novaforge/nova/internal/config"
	"github.com/novaforge/nova/internal/diagnostics"
	"github.com/novaforge/nova/internal/mir"
	"github.com/novaforge/nova/pkg/compiler"
)

var (
	compileDisassemble bool
	compileVerbose     bool
)

var compileCmd = &cobra.Command{
	Use:   "compile [file]",
	Short: "Run the full Nova pipeline through the MIR optimizer",
	Long: `Compile runs lex -> parse -> analyze -> hir -> mir -> optimize and
reports the final diagnostics summary.

Code emission to a JVM class file is out of scope; use --disassemble to
inspect the optimized MIR instead of an emitted artifact.`,
	Args: cobra.ExactArgs(1),
	RunE: compileScript,
}

func init() {
	rootCmd.AddCommand(compileCmd)

	compileCmd.Flags().BoolVar(&compileDisassemble, "disassemble", false, "print the optimized MIR after compilation")
	compileCmd.Flags().BoolVarP(&compileVerbose, "verbose", "v", false, "verbose output")
}

func compileScript(cmd *cobra.Command, args []string) error {
	filename := args[0]
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if compileVerbose {
		fmt.Fprintf(os.Stderr, "Compiling %s...\n", filename)
	}

	pipeline := compiler.NewWithOptions(cfg.OptimizeOptions())
	result := pipeline.Compile(string(content), filename)

	if err := reportDiagnostics(cmd, filename, result.Sink); err != nil {
		return err
	}

	if compileVerbose && result.MIR != nil {
		fmt.Fprintf(os.Stderr, "Classes: %d\n", len(result.MIR.Classes))
	}

	if compileDisassemble && result.MIR != nil {
		mir.NewDisassembler(os.Stdout).Disassemble(result.MIR)
	}

	if result.Sink.HasErrors() {
		return fmt.Errorf("compilation failed with %d error(s)", result.Sink.Count(diagnostics.Error))
	}
	fmt.Printf("Compiled %s: %d diagnostic(s)\n", filename, len(result.Sink.All()))
	return nil
}

// reportDiagnostics prints diags either as the human-readable text format
// or, when --json was passed, as a gjson/sjson-built manifest.
func reportDiagnostics(cmd *cobra.Command, filename string, sink *diagnostics.Sink) error {
	if len(sink.All()) == 0 {
		return nil
	}
	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		doc, err := diagnostics.ManifestJSON(filename, sink.All())
		if err != nil {
			return fmt.Errorf("building diagnostics manifest: %w", err)
		}
		fmt.Println(doc)
		return nil
	}
	fmt.Fprint(os.Stderr, diagnostics.Format(sink.Sorted()))
	fmt.Fprintln(os.Stderr)
	return nil
}
