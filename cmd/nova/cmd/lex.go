package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/novaforge/nova/internal/diagnostics"
	"github.com/novaforge/nova/internal/lexer"
	"github.com/novaforge/nova/internal/token"
)

var (
	evalExpr   string
	showPos    bool
	showType   bool
	onlyErrors bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize a Nova source file or expression",
	Long: `Tokenize (lex) a Nova program and print the resulting tokens.

If no file is provided, reads from stdin.

Examples:
  # Tokenize a source file
  nova lex script.nova

  # Tokenize an inline expression
  nova lex -e "val x: Int = 42"

  # Show token kinds and positions
  nova lex --show-type --show-pos script.nova

  # Show only illegal tokens
  nova lex --only-errors script.nova`,
	Args: cobra.MaximumNArgs(1),
	RunE: lexScript,
}

func init() {
	rootCmd.AddCommand(lexCmd)

	lexCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "tokenize inline code instead of reading from file")
	lexCmd.Flags().BoolVar(&showPos, "show-pos", false, "show token positions (line:column)")
	lexCmd.Flags().BoolVar(&showType, "show-type", false, "show token kind names")
	lexCmd.Flags().BoolVar(&onlyErrors, "only-errors", false, "show only illegal tokens")
}

func lexScript(cmd *cobra.Command, args []string) error {
	var input string
	var filename string

	switch {
	case evalExpr != "":
		input = evalExpr
		filename = "<eval>"
	case len(args) == 1:
		filename = args[0]
		content, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", filename, err)
		}
		input = string(content)
	default:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("error reading stdin: %w", err)
		}
		input = string(data)
		filename = "<stdin>"
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		fmt.Printf("Tokenizing: %s\n", filename)
		fmt.Printf("Input length: %d bytes\n", len(input))
		fmt.Println("---")
	}

	sink := diagnostics.NewSink()
	l := lexer.New(input, sink, lexer.WithFile(filename))
	tokens := l.ScanAll()

	tokenCount := 0
	for _, tok := range tokens {
		if onlyErrors && tok.Kind != token.ILLEGAL {
			continue
		}
		tokenCount++
		printToken(tok)
	}

	if verbose {
		fmt.Println("---")
		fmt.Printf("Total tokens: %d\n", tokenCount)
		if len(sink.All()) > 0 {
			fmt.Printf("Diagnostics: %d\n", len(sink.All()))
		}
	}

	if sink.HasErrors() {
		fmt.Fprint(os.Stderr, diagnostics.Format(sink.Sorted()))
		fmt.Fprintln(os.Stderr)
		return fmt.Errorf("lexing produced %d error diagnostic(s)", sink.Count(diagnostics.Error))
	}
	return nil
}

func printToken(tok token.Token) {
	var output string
	if showType {
		output = fmt.Sprintf("[%-28s]", tok.Kind.String())
	}

	switch {
	case tok.Kind == token.EOF:
		output += " EOF"
	case tok.Kind == token.ILLEGAL:
		output += fmt.Sprintf(" ILLEGAL: %q", tok.Lexeme)
	case tok.Lexeme == "":
		output += fmt.Sprintf(" %s", tok.Kind)
	default:
		output += fmt.Sprintf(" %q", tok.Lexeme)
	}

	if showPos {
		output += fmt.Sprintf(" @%d:%d", tok.Pos.Line, tok.Pos.Column)
	}
	fmt.Println(output)
}
