// Command eligianc compiles Eligian DSL source into an IEngineConfiguration
// JSON document and, in lsp mode, serves the editor-facing language server
// described by spec.md §6. Entry point and root command registration follow
// theRebelliousNerd-codenerd's cmd/nerd/main.go layout: one rootCmd built
// with cobra, subcommands split into their own files.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}

// rootCmd is both "eligianc <input.eligian> ..." (default action: compile)
// and the parent of the lsp subcommand.
var rootCmd = &cobra.Command{
	Use:           "eligianc <input.eligian>",
	Short:         "Compile Eligian DSL source into an Eligius engine configuration",
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runCompile,
}

var compileFlags struct {
	output   string
	optimize bool
	noMinify bool
	watch    bool
}

func init() {
	rootCmd.Flags().StringVarP(&compileFlags.output, "output", "o", "", "write the compiled JSON to this path instead of stdout")
	rootCmd.Flags().BoolVar(&compileFlags.optimize, "optimize", true, "run the optimizer pass over the emitted IR")
	rootCmd.Flags().BoolVar(&compileFlags.noMinify, "no-minify", false, "disable minified JSON output")
	rootCmd.Flags().BoolVar(&compileFlags.watch, "watch", false, "recompile on every change to the input or its imported assets")

	rootCmd.AddCommand(lspCmd)
}
