package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/eligian-lang/eligianc/internal/fs"
	"github.com/eligian-lang/eligianc/internal/lsp"
)

// lspCmd serves the editor-facing language server subset over stdio, the
// transport every LSP client spawns a server process with by default.
// Grounded on codenerd's own cmd_mangle_lsp.go: an "lsp" subcommand whose
// entire job is to construct the long-lived server and hand it the
// process's stdin/stdout, logging to stderr since stdout is the protocol
// channel.
var lspCmd = &cobra.Command{
	Use:   "lsp",
	Short: "Start the Eligian language server over stdio",
	RunE:  runLSP,
}

func runLSP(cmd *cobra.Command, args []string) error {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	server := lsp.NewServer(fs.Real(), log)
	return server.Serve(context.Background(), stdioReadWriteCloser{})
}

// stdioReadWriteCloser adapts os.Stdin/os.Stdout to io.ReadWriteCloser for
// jsonrpc2's stream constructor. Closing it closes stdout only: closing
// stdin would race with the OS delivering EOF to the read loop that is
// still draining it.
type stdioReadWriteCloser struct{}

func (stdioReadWriteCloser) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (stdioReadWriteCloser) Write(p []byte) (int, error) { return os.Stdout.Write(p) }
func (stdioReadWriteCloser) Close() error                { return os.Stdout.Close() }
