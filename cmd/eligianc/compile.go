package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/eligian-lang/eligianc/internal/build"
	"github.com/eligian-lang/eligianc/internal/config"
	"github.com/eligian-lang/eligianc/internal/diagnostics"
	"github.com/eligian-lang/eligianc/internal/fs"
	"github.com/eligian-lang/eligianc/internal/watch"
	"github.com/eligian-lang/eligianc/internal/workspace"
	"github.com/spf13/cobra"
)

// exitFailure and exitIOFailure are the two non-zero exit codes spec.md §6
// names: 1 for a parse/validation/transform/emit failure, 2 for an I/O
// failure (input unreadable, output unwritable).
const (
	exitFailure   = 1
	exitIOFailure = 2
)

// cliError carries the exit code a failure should produce, distinguishing
// "the compiler ran and reported diagnostics" from "the compiler could not
// run at all" the way the CLI's stderr contract requires.
type cliError struct {
	code int
	msg  string
}

func (e *cliError) Error() string { return e.msg }

func exitCodeFor(err error) int {
	if ce, ok := err.(*cliError); ok {
		return ce.code
	}
	return exitFailure
}

func runCompile(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return cmd.Help()
	}
	entry := args[0]
	absEntry, err := filepath.Abs(entry)
	if err != nil {
		return &cliError{code: exitIOFailure, msg: fmt.Sprintf("resolving %s: %v", entry, err)}
	}
	entryURI := filepath.ToSlash(absEntry)

	provider := fs.Real()
	if !provider.Exists(entryURI) {
		return &cliError{code: exitIOFailure, msg: fmt.Sprintf("eligianc: %s: no such file", entry)}
	}

	opts, err := resolveOptions(cmd, entryURI)
	if err != nil {
		return &cliError{code: exitIOFailure, msg: err.Error()}
	}

	ws := workspace.NewWorkspace(provider)
	if err := compileOnce(ws, entryURI, opts); err != nil {
		return err
	}

	if compileFlags.watch {
		return watchAndRecompile(ws, entryURI, opts)
	}
	return nil
}

// resolveOptions layers config.Default() -> eligian.config.yaml (if any,
// walked up from the entry file's directory) -> explicit CLI flags, per
// internal/config's own layering discipline.
func resolveOptions(cmd *cobra.Command, entryURI string) (config.Options, error) {
	fc, _, err := config.Load(filepath.Dir(entryURI))
	if err != nil {
		return config.Options{}, err
	}
	flags := config.Options{
		Output:   compileFlags.output,
		Optimize: compileFlags.optimize,
		Minify:   !compileFlags.noMinify,
	}
	flagsSet := config.FlagsSet{
		Output:   cmd.Flags().Changed("output"),
		Optimize: cmd.Flags().Changed("optimize"),
		Minify:   cmd.Flags().Changed("no-minify"),
	}
	return config.Merge(config.Default(), fc, flags, flagsSet), nil
}

// compileOnce runs the full pipeline once and renders either the emitted
// JSON (to stdout or --output) or the collected diagnostics to stderr.
func compileOnce(ws *workspace.Workspace, entryURI string, opts config.Options) error {
	compiledAt := time.Now().UTC().Format(time.RFC3339)
	result, err := build.Run(ws, entryURI, opts, compiledAt)
	if err != nil {
		return &cliError{code: exitIOFailure, msg: fmt.Sprintf("eligianc: %v", err)}
	}

	var all []diagnostics.Diagnostic
	for _, bag := range result.Diagnostics {
		all = append(all, bag.All()...)
	}
	if len(all) > 0 {
		fmt.Fprint(os.Stderr, diagnostics.FormatAll(all))
	}
	if result.HasErrors() {
		return &cliError{code: exitFailure, msg: "eligianc: compilation failed"}
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, result.JSON, 0o644); err != nil {
			return &cliError{code: exitIOFailure, msg: fmt.Sprintf("eligianc: writing %s: %v", opts.Output, err)}
		}
		return nil
	}
	if _, err := os.Stdout.Write(result.JSON); err != nil {
		return &cliError{code: exitIOFailure, msg: fmt.Sprintf("eligianc: writing output: %v", err)}
	}
	return nil
}

// watchAndRecompile drives internal/watch directly against the entry file
// and every asset it imports, recompiling on each settled change. This is
// the CLI counterpart to internal/lsp's file-watch integration: both share
// the one Watcher type, differing only in what happens once a change
// settles (here, a full recompile and re-render; there, a diagnostics
// republish).
func watchAndRecompile(ws *workspace.Workspace, entryURI string, opts config.Options) error {
	w, err := watch.New(ws)
	if err != nil {
		return &cliError{code: exitIOFailure, msg: err.Error()}
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	recompile := func() {
		fmt.Fprintf(os.Stderr, "eligianc: rebuilding %s\n", entryURI)
		if err := compileOnce(ws, entryURI, opts); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
		registerWatchedAssets(ws, w, entryURI)
	}
	w.OnChange = func(watch.Event) { recompile() }

	registerWatchedAssets(ws, w, entryURI)
	if err := w.WatchAsset(entryURI, watch.KindDocument); err != nil {
		return &cliError{code: exitIOFailure, msg: err.Error()}
	}

	w.Start(ctx)
	defer w.Stop()

	<-ctx.Done()
	fmt.Fprintln(os.Stderr, "eligianc: stopping watch mode")
	return nil
}

func registerWatchedAssets(ws *workspace.Workspace, w *watch.Watcher, entryURI string) {
	reg := ws.Assets()
	for _, uri := range reg.ImportedCSSURIs(entryURI) {
		_ = w.WatchAsset(uri, watch.KindCSS)
	}
	for _, uri := range reg.ImportedHTMLURIs(entryURI) {
		_ = w.WatchAsset(uri, watch.KindHTML)
	}
	for _, uri := range reg.ImportedLocalesURIs(entryURI) {
		_ = w.WatchAsset(uri, watch.KindLocales)
	}
}
