// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/evidence-engine/internal/httputil"
	"github.com/pdiddy/evidence-engine/pkg/types"
)

// scholarBase is the Google Scholar search endpoint. Declared as a var so
// tests can substitute an httptest server.
var scholarBase = "https://scholar.google.com/scholar"

// ScholarCollaborator scrapes Google Scholar result pages for academic
// abstracts not covered by the literature database. Requests are paced to
// stay polite.
type ScholarCollaborator struct {
	Client *http.Client
	Pacer  *Pacer
}

// Name returns the collaborator identifier.
func (c *ScholarCollaborator) Name() string { return "scholar" }

// Origin tags documents from this collaborator.
func (c *ScholarCollaborator) Origin() types.SourceOrigin { return types.OriginAcademicScrape }

// Fetch scrapes one result page for the condition query.
func (c *ScholarCollaborator) Fetch(ctx context.Context, query types.ConditionQuery, cfg types.SearchConfig) ([]types.SourceDocument, error) {
	if c.Pacer != nil {
		if err := c.Pacer.Wait(ctx); err != nil {
			return nil, err
		}
	}

	term := query.BaseCondition
	if query.HasCause() {
		term += " " + query.Cause
	}

	params := url.Values{"q": {term + " food activity recommendations"}, "hl": {"en"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, scholarBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating scholar request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, c.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("scholar request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("scholar returned HTTP %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing scholar page: %w", err)
	}

	maxDocs := cfg.MaxDocuments
	if maxDocs <= 0 {
		maxDocs = 10
	}

	var docs []types.SourceDocument
	doc.Find(".gs_r.gs_or").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		if len(docs) >= maxDocs {
			return false
		}

		link := sel.Find(".gs_rt a").First()
		title := strings.TrimSpace(link.Text())
		href, _ := link.Attr("href")
		snippet := strings.TrimSpace(sel.Find(".gs_rs").Text())
		if title == "" || snippet == "" {
			return true
		}

		docs = append(docs, types.SourceDocument{
			ID:           fmt.Sprintf("scholar:%d", i),
			Origin:       types.OriginAcademicScrape,
			Title:        title,
			AbstractText: snippet,
			URL:          href,
			Venue:        strings.TrimSpace(sel.Find(".gs_a").Text()),
		})
		return true
	})

	return docs, nil
}
