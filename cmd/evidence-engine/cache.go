// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/evidence-engine/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and maintain the analysis result cache",
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached analyses with their age status",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := cache.NewStore(cacheConfig())
		if err != nil {
			return err
		}
		defer store.Close()

		entries, err := store.Entries(cmd.Context())
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if len(entries) == 0 {
			fmt.Fprintln(w, "Cache is empty.")
			return nil
		}
		for _, e := range entries {
			status := "fresh"
			if e.Expired {
				status = "expired"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", e.Key, e.CreatedAt.Format("2006-01-02 15:04:05"), status)
		}
		return nil
	},
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete expired cache entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := cache.NewStore(cacheConfig())
		if err != nil {
			return err
		}
		defer store.Close()

		n, err := store.Purge(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Purged %d expired entries.\n", n)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheListCmd)
	cacheCmd.AddCommand(cachePurgeCmd)
	rootCmd.AddCommand(cacheCmd)
}
