package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"didls/internal/diagfmt"
	"didls/internal/driver"
)

var tokensFormat string

func init() {
	tokensCmd.Flags().StringVar(&tokensFormat, "format", "pretty", "output format (pretty|json)")
}

var tokensCmd = &cobra.Command{
	Use:   "tokens [flags] file.did",
	Short: "Dump the token stream of a Candid file",
	Long:  `Tokens runs just the lexer over a Candid file and dumps the resulting token stream, including leading trivia.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokens,
}

func runTokens(cmd *cobra.Command, args []string) error {
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return err
	}

	result, err := driver.Tokenize(args[0], maxDiagnostics)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	// Diagnostics go to stderr so the token dump stays parseable.
	if result.Bag.HasErrors() || result.Bag.HasWarnings() {
		colorOn, colorErr := useColor(cmd, os.Stderr)
		if colorErr != nil {
			return colorErr
		}
		diagfmt.Pretty(os.Stderr, result.Bag, result.FileSet, diagfmt.PrettyOpts{
			Color:   colorOn,
			Context: 2,
		})
	}

	switch tokensFormat {
	case "pretty":
		diagfmt.FormatTokensPretty(os.Stdout, result.Tokens, result.FileSet)
		return nil
	case "json":
		return diagfmt.FormatTokensJSON(os.Stdout, result.Tokens)
	default:
		return fmt.Errorf("unknown format: %s", tokensFormat)
	}
}
