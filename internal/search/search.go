// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search gathers candidate source documents from independent search
// collaborators and returns a unified, deduplicated set.
package search

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"unicode"

	"github.com/pdiddy/evidence-engine/pkg/types"
)

// Collaborator fetches candidate documents from one source. Each collaborator
// (PubMed, Google Scholar scrape, web scrape) implements this interface.
type Collaborator interface {
	Name() string
	Origin() types.SourceOrigin
	Fetch(ctx context.Context, query types.ConditionQuery, cfg types.SearchConfig) ([]types.SourceDocument, error)
}

// Fanout joins the collaborators' results for one query. A collaborator
// failure is equivalent to that collaborator contributing zero documents:
// no error ever propagates from a fetch.
type Fanout struct {
	collaborators []Collaborator
	cfg           types.SearchConfig
	logger        *slog.Logger
}

// NewFanout builds a Fanout over the given collaborators.
func NewFanout(collaborators []Collaborator, cfg types.SearchConfig, logger *slog.Logger) *Fanout {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fanout{collaborators: collaborators, cfg: cfg, logger: logger}
}

// FetchAll issues every collaborator fetch concurrently as an unordered
// fan-out and joins the results before returning, deduplicated by identifier
// and normalized title.
func (f *Fanout) FetchAll(ctx context.Context, query types.ConditionQuery) []types.SourceDocument {
	type fetchResult struct {
		docs []types.SourceDocument
		err  error
		name string
	}

	ch := make(chan fetchResult, len(f.collaborators))
	var wg sync.WaitGroup

	for _, c := range f.collaborators {
		wg.Add(1)
		go func(c Collaborator) {
			defer wg.Done()
			docs, err := c.Fetch(ctx, query, f.cfg)
			ch <- fetchResult{docs: docs, err: err, name: c.Name()}
		}(c)
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	var all []types.SourceDocument
	for fr := range ch {
		if fr.err != nil {
			f.logger.Warn("collaborator failed, contributing zero documents",
				"collaborator", fr.name, "error", fr.err)
			continue
		}
		f.logger.Debug("collaborator returned documents",
			"collaborator", fr.name, "count", len(fr.docs))
		all = append(all, fr.docs...)
	}

	deduped, removed := deduplicate(all)
	if removed > 0 {
		f.logger.Debug("removed duplicate documents", "count", removed)
	}
	return deduped
}

// deduplicate merges documents that share an ID or a normalized title.
func deduplicate(docs []types.SourceDocument) ([]types.SourceDocument, int) {
	seen := make(map[string]int) // dedup key → index in deduped
	var deduped []types.SourceDocument
	removed := 0

	for _, d := range docs {
		idKey := ""
		if d.ID != "" {
			idKey = "id:" + d.ID
		}
		titleKey := ""
		if t := normalizeTitle(d.Title); t != "" {
			titleKey = "title:" + t
		}

		if idx, ok := lookup(seen, idKey, titleKey); ok {
			mergeInto(&deduped[idx], d)
			removed++
			continue
		}

		idx := len(deduped)
		deduped = append(deduped, d)
		if idKey != "" {
			seen[idKey] = idx
		}
		if titleKey != "" {
			seen[titleKey] = idx
		}
	}
	return deduped, removed
}

func lookup(seen map[string]int, keys ...string) (int, bool) {
	for _, k := range keys {
		if k == "" {
			continue
		}
		if idx, ok := seen[k]; ok {
			return idx, true
		}
	}
	return 0, false
}

// mergeInto fills empty fields of dst from src and keeps the longer abstract,
// so a scraped snippet never displaces a full literature-database abstract.
func mergeInto(dst *types.SourceDocument, src types.SourceDocument) {
	if dst.Title == "" {
		dst.Title = src.Title
	}
	if len(src.AbstractText) > len(dst.AbstractText) {
		dst.AbstractText = src.AbstractText
	}
	if dst.URL == "" {
		dst.URL = src.URL
	}
	if dst.DOI == "" {
		dst.DOI = src.DOI
	}
	if dst.Venue == "" {
		dst.Venue = src.Venue
	}
	if dst.Year == 0 {
		dst.Year = src.Year
	}
}

// normalizeTitle returns a lowercased, punctuation-stripped version of the title.
func normalizeTitle(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
