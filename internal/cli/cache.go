package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/depscope/depscope/pkg/resolve"
)

// newCacheCmd creates the cache management command.
func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the lockfile and reverse-index caches",
	}

	cmd.AddCommand(newCacheCleanCmd())
	cmd.AddCommand(newCachePathCmd())

	return cmd
}

// newCacheCleanCmd creates the "cache clean" subcommand. Cached lockfiles
// never expire on their own (a resolution stays reusable even after the
// snapshot changes), so this is the only retention mechanism.
func newCacheCleanCmd() *cobra.Command {
	var lockfilesOnly bool

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove cached lockfiles and reverse indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			dir, err := lockfileCacheDir()
			if err != nil {
				return fmt.Errorf("locate cache dir: %w", err)
			}
			if err := resolve.NewLockfileCache(dir).Clean(); err != nil {
				return err
			}
			logger.Infof("Removed lockfile cache at %s", dir)

			if lockfilesOnly {
				return nil
			}
			root, err := cacheDir()
			if err != nil {
				return fmt.Errorf("locate cache dir: %w", err)
			}
			if err := os.RemoveAll(root); err != nil {
				return err
			}
			logger.Infof("Removed cache directory %s", root)
			return nil
		},
	}

	cmd.Flags().BoolVar(&lockfilesOnly, "lockfiles-only", false, "remove only cached lockfiles, keep reverse indexes")
	return cmd
}

// newCachePathCmd creates the "cache path" subcommand.
func newCachePathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Println(dir)
			return nil
		},
	}
}
