package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/depscope/depscope/pkg/reverse"
)

// exportOpts holds the command-line flags for the export command.
type exportOpts struct {
	workers int
	format  string // dot or svg
	output  string // output file path (stdout if empty)
	cache   indexCacheOpts
}

// newExportCmd creates the export command, which renders the dependent
// graph of a package as DOT or SVG.
func newExportCmd() *cobra.Command {
	var opts exportOpts

	cmd := &cobra.Command{
		Use:   "export <snapshot-dir> <package> [requirement]",
		Short: "Export a dependent graph as DOT or SVG",
		Long: `Export the reverse-dependency neighborhood of a package as a graph.

The graph contains the target plus every transitive dependent reached from
versions satisfying the requirement ("*" when omitted), with one node per
package name.

Examples:
  depscope export ./index serde -o serde.svg --format svg
  depscope export ./index rand "^0.8" --format dot`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := "*"
			if len(args) == 3 {
				req = args[2]
			}
			return runExport(cmd, &opts, args[0], args[1], req)
		},
	}

	cmd.Flags().IntVar(&opts.workers, "workers", 0, "parallel workers (0 = hardware parallelism)")
	cmd.Flags().StringVar(&opts.format, "format", "dot", "output format: dot or svg")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	opts.cache.addFlags(cmd)

	return cmd
}

func runExport(cmd *cobra.Command, opts *exportOpts, snapshot, target, requirement string) error {
	ctx := cmd.Context()

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

	refs, err := reverse.Walk(idx, reg, target, requirement)
	if err != nil {
		return err
	}

	dot := reverse.ToDOT(idx, target, refs)

	var out []byte
	switch opts.format {
	case "dot":
		out = []byte(dot)
	case "svg":
		if out, err = reverse.RenderSVG(dot); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format %q (want dot or svg)", opts.format)
	}

	if opts.output == "" {
		_, err = os.Stdout.Write(out)
		return err
	}
	return os.WriteFile(opts.output, out, 0o644)
}
