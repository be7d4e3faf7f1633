// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/evidence-engine/internal/logging"
	"github.com/pdiddy/evidence-engine/internal/search"
	"github.com/pdiddy/evidence-engine/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search <condition>",
	Short: "Gather source documents for a health condition",
	Long: `Search runs the document-gathering fan-out without the extraction stage:
the PubMed literature database, the academic scrape, and the trusted-domain web
scrape are queried concurrently and the deduplicated documents are printed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		condition := strings.Join(args, " ")

		logLevel, _ := cmd.Flags().GetString("log-level")
		logger := logging.New(logLevel)

		if max, _ := cmd.Flags().GetInt("max-results"); max > 0 {
			viper.Set("search.max_documents", max)
		}
		asJSON, _ := cmd.Flags().GetBool("json")

		fanout := newFanout(searchConfig(), logger)
		docs := fanout.FetchAll(cmd.Context(), types.ParseConditionQuery(condition))

		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(docs)
		}

		w := cmd.OutOrStdout()
		if len(docs) == 0 {
			fmt.Fprintln(w, "No documents found.")
			return nil
		}
		for _, d := range docs {
			fmt.Fprintf(w, "[%s] (%s) %s\n", d.ID, d.Origin, d.Title)
			if d.URL != "" {
				fmt.Fprintf(w, "  %s\n", d.URL)
			}
			if d.AbstractText != "" {
				fmt.Fprintf(w, "  %s\n", d.AbstractText)
			}
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().Int("max-results", 0, "maximum documents per collaborator (overrides config)")
	searchCmd.Flags().Bool("json", false, "output documents as JSON")

	rootCmd.AddCommand(searchCmd)
}

// newFanout assembles the enabled search collaborators.
func newFanout(cfg types.SearchConfig, logger *slog.Logger) *search.Fanout {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client := &http.Client{Timeout: timeout}

	interval := cfg.ScrapeInterval
	if interval <= 0 {
		interval = time.Second
	}

	var collaborators []search.Collaborator
	if cfg.EnableLiteratureDB {
		collaborators = append(collaborators, &search.PubMedCollaborator{Client: client})
	}
	if cfg.EnableAcademicScrape {
		collaborators = append(collaborators, &search.ScholarCollaborator{
			Client: client,
			Pacer:  search.NewPacer(interval),
		})
	}
	if cfg.EnableWebScrape {
		collaborators = append(collaborators, &search.WebScrapeCollaborator{
			Client: client,
			Pacer:  search.NewPacer(interval),
		})
	}
	return search.NewFanout(collaborators, cfg, logger)
}
