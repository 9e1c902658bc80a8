package main

import (
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newCacheCmd(opts *rootOptions) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear cached API results",
	}

	infoCmd := &cobra.Command{
		Use:   "info",
		Short: "Show cached functions and their sizes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			manager, err := opts.openCache()
			if err != nil {
				return err
			}
			info, err := manager.Inspect()
			if err != nil {
				return err
			}
			if info.FileCount == 0 {
				cmd.Printf("cache %q is empty\n", manager.Dir())
				return nil
			}
			cmd.Printf("cache %q: %d file(s), %s total\n", manager.Dir(), info.FileCount, humanize.Bytes(uint64(info.TotalBytes)))
			for _, file := range info.Files {
				if file.Err != "" {
					cmd.Printf("  %s: %s (unreadable: %s)\n", file.Name, humanize.Bytes(uint64(file.Size)), file.Err)
					continue
				}
				cmd.Printf("  %s: %d entries, %s\n", file.Name, file.Entries, humanize.Bytes(uint64(file.Size)))
			}
			return nil
		},
	}

	var function string
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove cached results, either everything or one function",
		RunE: func(cmd *cobra.Command, _ []string) error {
			manager, err := opts.openCache()
			if err != nil {
				return err
			}
			if function != "" {
				if err := manager.ClearFunction(function); err != nil {
					return err
				}
				cmd.Printf("cleared cache for %q\n", function)
				return nil
			}
			if err := manager.Clear(); err != nil {
				return err
			}
			cmd.Println("cleared all cached results")
			return nil
		},
	}
	clearCmd.Flags().StringVarP(&function, "function", "f", "", "Clear only this function's cache")

	cacheCmd.AddCommand(infoCmd, clearCmd)
	return cacheCmd
}
