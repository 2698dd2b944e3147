package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/depscope/depscope/pkg/resolve"
)

// resolveOpts holds the command-line flags for the resolve command.
type resolveOpts struct {
	workers      int      // resolution pool size (0 = hardware parallelism)
	cacheDir     string   // lockfile cache root (default under ~/.cache)
	resolver     string   // external resolver binary
	resolverArgs []string // extra arguments passed to the resolver
	jsonOut      bool     // print the summary as JSON
}

// newResolveCmd creates the resolve command. It resolves the latest
// non-yanked version of every package in the snapshot, reusing on-disk
// lockfiles from prior runs.
func newResolveCmd() *cobra.Command {
	var opts resolveOpts

	cmd := &cobra.Command{
		Use:   "resolve <snapshot-dir>",
		Short: "Resolve every package in a registry snapshot",
		Long: `Resolve the latest non-yanked version of every package in a registry
snapshot against an external resolver binary.

Lockfiles are cached on disk per (package, version); a rerun reuses every
cached entry without invoking the resolver again, so an interrupted run
loses no completed work.

Examples:
  depscope resolve ./index --resolver cargo-resolve
  depscope resolve ./index --resolver cargo-resolve --workers 16 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, &opts, args[0])
		},
	}

	cmd.Flags().IntVar(&opts.workers, "workers", 0, "resolution workers (0 = hardware parallelism)")
	cmd.Flags().StringVar(&opts.cacheDir, "cache-dir", "", "lockfile cache directory (default ~/.cache/depscope/lockfiles)")
	cmd.Flags().StringVar(&opts.resolver, "resolver", "", "external resolver binary (required)")
	cmd.Flags().StringArrayVar(&opts.resolverArgs, "resolver-arg", nil, "extra argument passed to the resolver (repeatable)")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "print the summary as JSON")
	cmd.MarkFlagRequired("resolver")

	return cmd
}

func runResolve(cmd *cobra.Command, opts *resolveOpts, snapshot string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cacheRoot := opts.cacheDir
	if cacheRoot == "" {
		var err error
		if cacheRoot, err = lockfileCacheDir(); err != nil {
			return fmt.Errorf("locate cache dir: %w", err)
		}
	}

	reg, err := loadRegistry(ctx, snapshot, opts.workers)
	if err != nil {
		return err
	}

	factory := &resolve.ExecFactory{Path: opts.resolver, Args: opts.resolverArgs}

	p := newProgress(logger)
	sum, err := resolve.ResolveAll(ctx, reg, factory, resolve.Options{
		Workers:   opts.workers,
		CacheRoot: cacheRoot,
		Logger:    func(msg string, args ...any) { logger.Debug(msg, args...) },
	})
	if err != nil {
		return err
	}
	p.done(fmt.Sprintf("Resolved %d packages (%d from cache, %d skipped, %d failed)",
		sum.Resolved, sum.CacheHits, sum.Skipped, len(sum.Failures)))

	if opts.jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(sum)
	}
	for _, f := range sum.Failures {
		fmt.Printf("%s@%s\t%s\n", f.Name, f.Version, f.Kind)
	}
	return nil
}
