package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"didls/internal/lsp"
)

var lspCmd = &cobra.Command{
	Use:          "lsp",
	Short:        "Run the Candid language server over stdio",
	SilenceUsage: true,
	RunE:         runLSP,
}

// stdio adapts the process streams to the single ReadWriteCloser the
// server consumes. Close is a no-op: the process owns stdin and stdout.
type stdio struct{}

func (stdio) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (stdio) Write(p []byte) (int, error) { return os.Stdout.Write(p) }
func (stdio) Close() error                { return nil }

func runLSP(cmd *cobra.Command, _ []string) error {
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}
	server := lsp.NewServer(quiet)
	if err := server.Run(cmd.Context(), stdio{}); err != nil {
		return err
	}
	if !server.ShutdownRequested() {
		return fmt.Errorf("client exited without shutdown")
	}
	return nil
}
