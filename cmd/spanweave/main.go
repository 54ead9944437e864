// Command spanweave expands trace attributes over function tree documents.
//
// It reads a JSON tree document (attribute arguments plus the annotated
// function), runs the instrumentation pipeline, and prints the rewritten
// function(s).
package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/spanweave/spanweave/core/wire"
	"github.com/spanweave/spanweave/internal/treedoc"
	"github.com/spanweave/spanweave/trace"
	"github.com/spanweave/spanweave/trace/lower"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type cliOptions struct {
	format            string
	legacy            bool
	conventionVersion string
	watch             bool
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}

	cmd := &cobra.Command{
		Use:   "spanweave <document.json>",
		Short: "Expand trace attributes over function tree documents",
		Long: `spanweave reads a function tree document, validates the trace
attribute's options, and emits the instrumented rewrite of each function.

Formats:
  text         rendered source of each emitted function (default)
  cbor         canonical binary record on stdout
  fingerprint  BLAKE2b-256 of the canonical record, hex encoded`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch opts.format {
			case "text", "cbor", "fingerprint":
			default:
				return fmt.Errorf("unknown format %q", opts.format)
			}
			if opts.watch {
				return watchAndExpand(cmd, args[0], opts)
			}
			return expandFile(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.format, "format", "text", "output format: text, cbor, or fingerprint")
	cmd.Flags().BoolVar(&opts.legacy, "legacy", false, "use the legacy two-argument option grammar")
	cmd.Flags().StringVar(&opts.conventionVersion, "convention-version", "", "async-trait version the input was desugared with")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "re-expand whenever the document changes")

	return cmd
}

func expandFile(cmd *cobra.Command, path string, opts *cliOptions) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	args, fn, err := treedoc.Load(f)
	if err != nil {
		return err
	}

	var lowerOpts []lower.Option
	if opts.conventionVersion != "" {
		lowerOpts = append(lowerOpts, lower.WithConventionVersion(opts.conventionVersion))
	}

	expand := trace.Expand
	if opts.legacy {
		expand = trace.ExpandLegacy
	}
	result, err := expand(args, fn, lowerOpts...)
	if err != nil {
		return err
	}

	return writeResult(cmd, result, opts.format)
}

func writeResult(cmd *cobra.Command, result *trace.Result, format string) error {
	for _, d := range result.Diagnostics {
		fmt.Fprintln(cmd.ErrOrStderr(), d)
	}

	switch format {
	case "cbor":
		data, err := wire.Encode(result)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	case "fingerprint":
		sum, err := wire.Fingerprint(result)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(sum[:]))
		return nil
	default:
		for i, q := range result.Quotes {
			if i > 0 {
				fmt.Fprintln(cmd.OutOrStdout())
			}
			fmt.Fprintln(cmd.OutOrStdout(), q)
		}
		return nil
	}
}

// watchAndExpand re-runs expansion on every change to the document. The
// parent directory is watched rather than the file, so editors that replace
// the file on save keep triggering.
func watchAndExpand(cmd *cobra.Command, path string, opts *cliOptions) error {
	if err := expandFile(cmd, path, opts); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if err := expandFile(cmd, path, opts); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintln(cmd.ErrOrStderr(), err)
		}
	}
}
