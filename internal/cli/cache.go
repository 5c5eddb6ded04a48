package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// cacheCommand groups the cache maintenance subcommands.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the render cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached catalogs, scenes, and artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCacheClear()
		},
	}
}

func (c *CLI) cachePathCommand() *cobra.Command {
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

// runCacheClear removes every entry file under the cache directory and
// the fan-out subdirectories they leave behind. Entries that cannot be
// removed are skipped rather than aborting the sweep.
func runCacheClear() error {
	dir, err := cacheDir()
	if err != nil {
		return fmt.Errorf("get cache dir: %w", err)
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		printInfo("Cache is empty")
		return nil
	}

	removed := 0
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || path == dir || d.IsDir() {
			return nil
		}
		if os.Remove(path) == nil {
			removed++
		}
		return nil
	})
	if err != nil {
		return err
	}

	// The entry files are gone; drop the now-empty fan-out dirs too.
	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if e.IsDir() {
			_ = os.Remove(filepath.Join(dir, e.Name()))
		}
	}

	printSuccess("Cleared %d cached entries", removed)
	printDetail("Directory: %s", dir)
	return nil
}
