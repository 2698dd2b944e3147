package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/cobra"

	"github.com/depscope/depscope/pkg/reverse"
)

// dependentsOpts holds the command-line flags for the dependents command.
type dependentsOpts struct {
	workers    int
	latestOnly bool   // keep only dependents reached at their latest version
	minVersion string // keep only dependents compatible with this toolchain version
	leafOnly   bool   // keep only dependents nothing else depends on
	jsonOut    bool
	cache      indexCacheOpts
}

// newDependentsCmd creates the dependents command, which walks the
// reverse-dependency graph starting from every version of a package that
// satisfies a requirement.
func newDependentsCmd() *cobra.Command {
	var opts dependentsOpts

	cmd := &cobra.Command{
		Use:   "dependents <snapshot-dir> <package> [requirement]",
		Short: "List transitive dependents of a package",
		Long: `List every package version that transitively depends on the target.

The walk seeds from all versions of the target satisfying the requirement
("*" when omitted) and follows reverse edges breadth-first. Filters narrow
the result after the walk completes.

Examples:
  depscope dependents ./index serde
  depscope dependents ./index serde "^1.0" --latest-only
  depscope dependents ./index libc "*" --min-version 1.70.0 --leaf-only`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := "*"
			if len(args) == 3 {
				req = args[2]
			}
			return runDependents(cmd, &opts, args[0], args[1], req)
		},
	}

	cmd.Flags().IntVar(&opts.workers, "workers", 0, "parallel workers (0 = hardware parallelism)")
	cmd.Flags().BoolVar(&opts.latestOnly, "latest-only", false, "keep a dependent only when reached at its latest non-yanked version")
	cmd.Flags().StringVar(&opts.minVersion, "min-version", "", "keep only dependents whose declared minimum version is satisfied by this version")
	cmd.Flags().BoolVar(&opts.leafOnly, "leaf-only", false, "keep only dependents that have no dependents of their own")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "print results as JSON")
	opts.cache.addFlags(cmd)

	return cmd
}

func runDependents(cmd *cobra.Command, opts *dependentsOpts, snapshot, target, requirement string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	reg, err := loadRegistry(ctx, snapshot, opts.workers)
	if err != nil {
		return err
	}

	store, err := opts.cache.open(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	idx, err := loadReverse(ctx, store, snapshot, reg, opts.workers)
	if err != nil {
		return err
	}

	var filters []reverse.Filter
	if opts.latestOnly {
		filters = append(filters, reverse.LatestOnly(reg))
	}
	if opts.minVersion != "" {
		v, err := semver.NewVersion(opts.minVersion)
		if err != nil {
			return fmt.Errorf("parse --min-version: %w", err)
		}
		filters = append(filters, reverse.MinimumVersion(reg, v))
	}
	if opts.leafOnly {
		filters = append(filters, reverse.LeafOnly(idx))
	}

	refs, err := reverse.Walk(idx, reg, target, requirement, filters...)
	if err != nil {
		return err
	}
	logger.Infof("Found %d dependents of %s %s", len(refs), target, requirement)

	if opts.jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(refs)
	}
	for _, r := range refs {
		fmt.Printf("%s@%s\n", r.Name, r.Version)
	}
	return nil
}
